package ti4

// AllianceGrantID is the fixed promissory note id treated specially by
// PlayAllianceNote / RevokeAllianceGrant.
const AllianceGrantID = "alliance"

// AllianceGrant records that issuer has granted recipient the right to
// invoke issuer's commander ability as their own. Multiple grants from
// different issuers to the same recipient coexist independently.
type AllianceGrant struct {
	Issuer    PlayerID
	Recipient PlayerID
}

// PlayPromissoryNote removes noteID from holder's hand and transfers it to
// target's hand, unless the registry marks it as replaced-by-Alliance, in
// which case it is purged instead.
func PlayPromissoryNote(state *GameState, holder PlayerID, noteID string, target PlayerID) (*GameState, error) {
	next := state.Clone()
	p := next.Player(holder)
	if p == nil {
		return nil, &ValidationError{Field: "holder", Detail: "unknown player " + string(holder)}
	}
	if !p.HoldsPromissoryNote(noteID) {
		return nil, &PromissoryNoteNotOwnedError{Player: holder, NoteID: noteID}
	}

	for i, n := range p.PromissoryHand {
		if n == noteID {
			p.PromissoryHand = append(p.PromissoryHand[:i], p.PromissoryHand[i+1:]...)
			break
		}
	}

	if next.Cards.Promissory != nil && next.Cards.Promissory.IsReplacedByAlliance(noteID) {
		return next, nil
	}

	recipient := next.Player(target)
	if recipient == nil {
		return nil, &ValidationError{Field: "target", Detail: "unknown player " + string(target)}
	}
	recipient.PromissoryHand = append(recipient.PromissoryHand, noteID)
	return next, nil
}

// PlayAllianceNote activates issuer's Alliance note in recipient's hand,
// granting recipient the right to invoke issuer's commander ability. It
// requires issuer's commander to be unlocked.
func PlayAllianceNote(state *GameState, recipient PlayerID, issuer PlayerID) (*GameState, error) {
	issuerPlayer := state.Player(issuer)
	if issuerPlayer == nil {
		return nil, &ValidationError{Field: "issuer", Detail: "unknown player " + string(issuer)}
	}
	if !hasUnlockedCommander(issuerPlayer) {
		return nil, &ValidationError{Field: "issuer", Detail: "issuer's commander is not unlocked"}
	}
	recipientPlayer := state.Player(recipient)
	if recipientPlayer == nil {
		return nil, &ValidationError{Field: "recipient", Detail: "unknown player " + string(recipient)}
	}
	if !recipientPlayer.HoldsPromissoryNote(AllianceGrantID) {
		return nil, &PromissoryNoteNotOwnedError{Player: recipient, NoteID: AllianceGrantID}
	}

	next := state.Clone()
	next.AllianceGrants = append(next.AllianceGrants, AllianceGrant{Issuer: issuer, Recipient: recipient})
	return next, nil
}

func hasUnlockedCommander(p *Player) bool {
	for _, l := range p.Leaders {
		if l.Kind == "commander" && l.State == LeaderUnlocked {
			return true
		}
	}
	return false
}

// RevokeAllianceGrant removes the grant matching issuer/recipient,
// returning the right to invoke the commander ability atomically.
func RevokeAllianceGrant(state *GameState, issuer, recipient PlayerID) *GameState {
	next := state.Clone()
	var kept []AllianceGrant
	for _, g := range next.AllianceGrants {
		if g.Issuer == issuer && g.Recipient == recipient {
			continue
		}
		kept = append(kept, g)
	}
	next.AllianceGrants = kept
	return next
}

// RevokeAllianceGrantsByIssuer removes every grant issued by issuer,
// called on elimination.
func RevokeAllianceGrantsByIssuer(state *GameState, issuer PlayerID) *GameState {
	next := state.Clone()
	var kept []AllianceGrant
	for _, g := range next.AllianceGrants {
		if g.Issuer == issuer {
			continue
		}
		kept = append(kept, g)
	}
	next.AllianceGrants = kept
	return next
}

// CanInvokeCommanderAbility reports whether player may invoke ownerOfCommander's
// commander ability: either player owns it directly and it is unlocked, or
// an active Alliance grant from ownerOfCommander names player as recipient.
func CanInvokeCommanderAbility(state *GameState, player, ownerOfCommander PlayerID) bool {
	if player == ownerOfCommander {
		p := state.Player(player)
		return p != nil && hasUnlockedCommander(p)
	}
	for _, g := range state.AllianceGrants {
		if g.Issuer == ownerOfCommander && g.Recipient == player {
			return true
		}
	}
	return false
}
