package ti4

// PhaseController drives the round loop: Strategy, Action (repeated player
// turns), Status, and conditionally Agenda. Agenda is skipped while the
// custodians token is still on Mecatol Rex.
type PhaseController struct {
	agenda *AgendaPhaseRunner
}

// NewPhaseController returns a ready-to-use controller.
func NewPhaseController() *PhaseController {
	return &PhaseController{agenda: NewAgendaPhaseRunner()}
}

// NextPhase computes the phase that follows state's current phase,
// honoring the custodians gate for Agenda.
func (c *PhaseController) NextPhase(state *GameState) Phase {
	switch state.Phase {
	case PhaseStrategy:
		return PhaseAction
	case PhaseAction:
		return PhaseStatus
	case PhaseStatus:
		if c.agenda.IsGated(state) {
			return PhaseStrategy
		}
		return PhaseAgenda
	case PhaseAgenda:
		return PhaseStrategy
	default:
		return PhaseStrategy
	}
}

// AdvanceState transitions state to the next phase, incrementing Round
// when a new Strategy phase begins.
func (c *PhaseController) AdvanceState(state *GameState, coordinator *StrategyCardCoordinator) *GameState {
	next := state.Clone()
	nextPhase := c.NextPhase(state)

	if nextPhase == PhaseStrategy {
		next.Round++
		if coordinator != nil {
			next = coordinator.ReadyAllStrategyCards(next)
		}
	}
	next.Phase = nextPhase
	return next
}

// AllPlayersPassed reports whether every surviving player has exhausted
// every strategy card they hold, the condition for ending the action
// phase.
func (c *PhaseController) AllPlayersPassed(state *GameState, coordinator *StrategyCardCoordinator) bool {
	for _, p := range state.Players {
		if coordinator.HasReadiedCard(state, p.ID) {
			return false
		}
	}
	return true
}

// AdvanceTurn moves ActivePlayer to the next surviving player in initiative
// order (each player placed by their lowest-initiative strategy card), used
// during the action phase. When no strategy card is owned it falls back to
// PlayerOrder.
func (c *PhaseController) AdvanceTurn(state *GameState, survivors []PlayerID) *GameState {
	next := state.Clone()
	order := state.PlayerOrder
	if state.Cards.Strategy != nil {
		var byInitiative []PlayerID
		seen := make(map[PlayerID]bool)
		for _, info := range InitiativeOrder(state) {
			if !seen[info.Owner] {
				seen[info.Owner] = true
				byInitiative = append(byInitiative, info.Owner)
			}
		}
		if len(byInitiative) > 0 {
			order = byInitiative
		}
	}
	next.ActivePlayer = nextSurvivor(state.ActivePlayer, order, survivors)
	return next
}

// IsGameOver reports whether exactly one player remains, or any other
// caller-defined victory condition has been reached. The base engine only
// checks elimination-driven single-survivor endings; point-based victory
// conditions are supplied by the host layer, since win conditions are
// pluggable the same way card content is.
func (c *PhaseController) IsGameOver(state *GameState) bool {
	alive := 0
	for _, p := range state.Players {
		if !IsEliminated(state, p.ID) {
			alive++
		}
	}
	return alive <= 1
}
