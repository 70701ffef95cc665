package ti4

// AgendaVote records one player's vote: the planets they exhausted to cast
// it and the chosen outcome. A player's votes are entirely for one outcome;
// splitting is not representable.
type AgendaVote struct {
	Player   PlayerID
	Planets  []struct {
		System SystemID
		Planet string
	}
	Outcome string
}

// AgendaTally accumulates influence per outcome across all votes cast.
type AgendaTally struct {
	Votes map[string]int
}

// AgendaPhaseRunner reports whether the custodians token gates the agenda
// phase (IsGated) and casts votes weighted by exhausted planet influence
// (CastVote). It does not sequence the phase's two agendas; picking the
// winner (WinningOutcome) and resolving it (ResolveAgenda) are separate
// calls.
type AgendaPhaseRunner struct{}

// NewAgendaPhaseRunner returns a ready-to-use runner.
func NewAgendaPhaseRunner() *AgendaPhaseRunner {
	return &AgendaPhaseRunner{}
}

// IsGated reports whether the agenda phase is skipped this round because
// the custodians token has not been removed from Mecatol Rex.
func (r *AgendaPhaseRunner) IsGated(state *GameState) bool {
	return state.CustodiansTokenPresent
}

// CastVote applies a single player's vote, exhausting the named planets
// and crediting their combined effective influence to outcome in tally.
// Voting for a nonexistent outcome is rejected.
func (r *AgendaPhaseRunner) CastVote(state *GameState, tally *AgendaTally, card AgendaCard, vote AgendaVote) (*GameState, error) {
	if !outcomeExists(card, vote.Outcome) {
		return nil, &ValidationError{Field: "outcome", Detail: "no such outcome: " + vote.Outcome}
	}

	next := state.Clone()
	weight := 0
	for _, pv := range vote.Planets {
		sys := next.Galaxy.System(pv.System)
		if sys == nil {
			return nil, &ValidationError{Field: "system", Detail: "unknown system " + string(pv.System)}
		}
		planet := sys.Planet(pv.Planet)
		if planet == nil {
			return nil, &ValidationError{Field: "planet", Detail: "unknown planet " + pv.Planet}
		}
		if planet.ControlledBy != vote.Player {
			return nil, &ValidationError{Field: "planet", Detail: "planet not controlled by voter: " + pv.Planet}
		}
		if planet.Exhausted {
			return nil, &ValidationError{Field: "planet", Detail: "planet already exhausted: " + pv.Planet}
		}
		weight += planet.EffectiveInfluence()
		planet.Exhaust()
	}

	if tally.Votes == nil {
		tally.Votes = make(map[string]int)
	}
	tally.Votes[vote.Outcome] += weight

	return next, nil
}

func outcomeExists(card AgendaCard, outcome string) bool {
	for _, o := range card.Outcomes {
		if o == outcome {
			return true
		}
	}
	return false
}

// WinningOutcome returns the outcome with the most votes in tally; ties
// are broken by the speaker, who votes last.
func WinningOutcome(tally AgendaTally, speakerChoice string) string {
	best := ""
	bestVotes := -1
	tied := false
	for outcome, votes := range tally.Votes {
		if votes > bestVotes {
			best = outcome
			bestVotes = votes
			tied = false
		} else if votes == bestVotes {
			tied = true
		}
	}
	if tied && speakerChoice != "" {
		return speakerChoice
	}
	return best
}

// ResolveAgenda applies a law's persistent effect or a directive's
// one-time effect, for the winning outcome. Laws install persistent
// effects; directives execute once and are discarded. directiveEffect is
// invoked and discarded for a directive; for a law, lawModifiers is
// installed into ActiveLaws.
func ResolveAgenda(state *GameState, card AgendaCard, outcome string, lawModifiers []StatModifier, directiveEffect EffectFunc) (*GameState, error) {
	if !card.IsLaw {
		if directiveEffect == nil {
			return state.Clone(), nil
		}
		return directiveEffect(state, state.SpeakerID, EventContext{Event: "agenda_directive:" + card.ID, Data: map[string]any{"outcome": outcome}})
	}

	next := state.Clone()
	next.ActiveLaws = append(next.ActiveLaws, Law{
		AgendaID:      card.ID,
		Outcome:       outcome,
		EnactedRound:  next.Round,
		UnitModifiers: lawModifiers,
	})
	return next, nil
}

// ReadyAllExhaustedPlanets readies every planet across every player,
// called when the status phase ends and again when the agenda phase ends.
func ReadyAllExhaustedPlanets(state *GameState) *GameState {
	next := state.Clone()
	for _, sys := range next.Galaxy.AllSystems() {
		for _, planet := range sys.Planets {
			planet.Ready()
		}
	}
	return next
}

// RemoveCustodiansToken clears the gating flag, called when the first
// player spends influence to remove the custodians token from Mecatol Rex.
func RemoveCustodiansToken(state *GameState) *GameState {
	next := state.Clone()
	next.CustodiansTokenPresent = false
	return next
}
