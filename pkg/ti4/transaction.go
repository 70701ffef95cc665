package ti4

// TransactionManager mediates player-to-player component exchanges with
// strict atomicity, generalizing the submit/validate/commit shape used
// elsewhere in the codebase from "submit once, resolve later" to
// "propose, then separately accept/reject/cancel, a bilateral exchange".
type TransactionManager struct{}

// NewTransactionManager returns a ready-to-use manager. The manager itself
// is stateless; all transaction state lives on GameState.
func NewTransactionManager() *TransactionManager {
	return &TransactionManager{}
}

// CanPropose reports whether p1 and p2 may transact: same system or
// adjacent (physical or matching-wormhole), checked dynamically against
// current unit placement.
func (m *TransactionManager) CanPropose(state *GameState, p1, p2 PlayerID) bool {
	for _, sys := range state.Galaxy.AllSystems() {
		has1 := sys.HasShipsOf(p1)
		has2 := sys.HasShipsOf(p2)
		if has1 && has2 {
			return true
		}
	}
	sys1 := systemsWithShipsOf(state, p1)
	sys2 := systemsWithShipsOf(state, p2)
	for _, a := range sys1 {
		for _, b := range sys2 {
			if state.Galaxy.Adjacent(a, b) {
				return true
			}
		}
	}
	return false
}

func systemsWithShipsOf(state *GameState, p PlayerID) []SystemID {
	var out []SystemID
	for _, sys := range state.Galaxy.AllSystems() {
		if sys.HasShipsOf(p) {
			out = append(out, sys.ID)
		}
	}
	return out
}

// Propose validates and inserts a new pending transaction, returning the
// new GameState. Validation order: id uniqueness, neighbor requirement,
// promissory-note ownership, resource sufficiency.
func (m *TransactionManager) Propose(state *GameState, id string, proposer, target PlayerID, offer, request TransactionBundle) (*GameState, error) {
	if _, exists := state.PendingTransactions[id]; exists {
		return nil, &DuplicateTransactionIDError{TransactionID: id}
	}
	for _, tx := range state.TransactionHistory {
		if tx.ID == id {
			return nil, &DuplicateTransactionIDError{TransactionID: id}
		}
	}

	if !m.CanPropose(state, proposer, target) {
		return nil, &NotNeighborsError{A: proposer, B: target}
	}

	proposerPlayer := state.Player(proposer)
	if proposerPlayer == nil {
		return nil, &ValidationError{Field: "proposer", Detail: "unknown player " + string(proposer)}
	}
	targetPlayer := state.Player(target)
	if targetPlayer == nil {
		return nil, &ValidationError{Field: "target", Detail: "unknown player " + string(target)}
	}

	if err := checkBundleOwnership(proposerPlayer, offer); err != nil {
		return nil, err
	}
	if err := checkBundleOwnership(targetPlayer, request); err != nil {
		return nil, err
	}
	if proposerPlayer.TradeGoods+proposerPlayer.Commodities < offer.TradeGoods+offer.Commodities {
		return nil, &InsufficientTradeGoodsError{Player: proposer, Have: proposerPlayer.TradeGoods, Required: offer.TradeGoods}
	}

	tx := ComponentTransaction{
		ID:              id,
		ProposingPlayer: proposer,
		TargetPlayer:    target,
		Offer:           offer,
		Request:         request,
		Status:          TransactionPending,
		ProposalRound:   state.Round,
		ProposalPhase:   state.Phase,
	}

	next := state.Clone()
	next.PendingTransactions[id] = tx
	return next, nil
}

func checkBundleOwnership(p *Player, b TransactionBundle) error {
	for _, note := range b.PromissoryNotes {
		if !p.HoldsPromissoryNote(note) {
			return &PromissoryNoteNotOwnedError{Player: p.ID, NoteID: note}
		}
	}
	return nil
}

// Accept commits the transaction's effects via ApplyTransactionEffects.
func (m *TransactionManager) Accept(state *GameState, id string) (*GameState, error) {
	tx, ok := state.PendingTransactions[id]
	if !ok {
		return nil, &ValidationError{Field: "transaction_id", Detail: "no pending transaction " + id}
	}
	return ApplyTransactionEffects(state, tx)
}

// Reject removes a pending transaction without applying effects.
func (m *TransactionManager) Reject(state *GameState, id string) (*GameState, error) {
	tx, ok := state.PendingTransactions[id]
	if !ok {
		return nil, &ValidationError{Field: "transaction_id", Detail: "no pending transaction " + id}
	}
	next := state.Clone()
	delete(next.PendingTransactions, id)
	tx.Status = TransactionRejected
	tx.CompletionRound = next.Round
	tx.CompletionPhase = next.Phase
	next.TransactionHistory = append(next.TransactionHistory, tx)
	return next, nil
}

// Cancel removes a pending transaction at the proposer's request. Only the
// proposing player may cancel their own proposal.
func (m *TransactionManager) Cancel(state *GameState, id string, by PlayerID) (*GameState, error) {
	tx, ok := state.PendingTransactions[id]
	if !ok {
		return nil, &ValidationError{Field: "transaction_id", Detail: "no pending transaction " + id}
	}
	if tx.ProposingPlayer != by {
		return nil, &ValidationError{Field: "by", Detail: "only the proposing player may cancel"}
	}
	next := state.Clone()
	delete(next.PendingTransactions, id)
	tx.Status = TransactionCancelled
	tx.CompletionRound = next.Round
	tx.CompletionPhase = next.Phase
	next.TransactionHistory = append(next.TransactionHistory, tx)
	return next, nil
}

// ApplyTransactionEffects performs the canonical five-step atomic apply:
//  1. deep-copy involved players (done by Clone below)
//  2. apply resource effects, converting received commodities to trade goods
//  3. apply promissory-note effects
//  4. validate resulting state
//  5. commit: remove from pending, append to history, notify observers
func ApplyTransactionEffects(state *GameState, tx ComponentTransaction) (*GameState, error) {
	next := state.Clone()

	proposer := next.Player(tx.ProposingPlayer)
	target := next.Player(tx.TargetPlayer)
	if proposer == nil || target == nil {
		return nil, &InvalidGameStateError{Detail: "transaction references a player no longer in the game"}
	}

	if proposer.TradeGoods < tx.Offer.TradeGoods || proposer.Commodities < tx.Offer.Commodities {
		return nil, &InsufficientTradeGoodsError{Player: proposer.ID, Have: proposer.TradeGoods, Required: tx.Offer.TradeGoods}
	}
	if target.TradeGoods < tx.Request.TradeGoods || target.Commodities < tx.Request.Commodities {
		return nil, &InsufficientTradeGoodsError{Player: target.ID, Have: target.TradeGoods, Required: tx.Request.TradeGoods}
	}

	proposer.TradeGoods -= tx.Offer.TradeGoods
	proposer.Commodities -= tx.Offer.Commodities
	target.ReceiveFromTrade(tx.Offer.TradeGoods)
	target.ReceiveFromTrade(tx.Offer.Commodities)

	target.TradeGoods -= tx.Request.TradeGoods
	target.Commodities -= tx.Request.Commodities
	proposer.ReceiveFromTrade(tx.Request.TradeGoods)
	proposer.ReceiveFromTrade(tx.Request.Commodities)

	if err := moveNotes(proposer, target, tx.Offer.PromissoryNotes); err != nil {
		return nil, err
	}
	if err := moveNotes(target, proposer, tx.Request.PromissoryNotes); err != nil {
		return nil, err
	}

	proposer.RelicFragments = append(proposer.RelicFragments, tx.Request.RelicFragments...)
	target.RelicFragments = append(target.RelicFragments, tx.Offer.RelicFragments...)

	if err := next.Validate(); err != nil {
		return nil, err
	}

	delete(next.PendingTransactions, tx.ID)
	tx.Status = TransactionAccepted
	tx.Completed = true
	tx.CompletionRound = next.Round
	tx.CompletionPhase = next.Phase
	next.TransactionHistory = append(next.TransactionHistory, tx)

	next.NotifyObservers(tx)

	return next, nil
}

func moveNotes(from, to *Player, notes []string) error {
	for _, note := range notes {
		if !from.HoldsPromissoryNote(note) {
			return &PromissoryNoteNotOwnedError{Player: from.ID, NoteID: note}
		}
		for i, n := range from.PromissoryHand {
			if n == note {
				from.PromissoryHand = append(from.PromissoryHand[:i], from.PromissoryHand[i+1:]...)
				break
			}
		}
		to.PromissoryHand = append(to.PromissoryHand, note)
	}
	return nil
}
