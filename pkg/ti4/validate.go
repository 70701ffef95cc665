package ti4

// ValidateCommandPhase checks that kind is legal to submit during state's
// current phase.
func ValidateCommandPhase(state *GameState, kind CommandKind) error {
	switch kind {
	case CommandSelectStrategyCard:
		if state.Phase != PhaseStrategy {
			return &ValidationError{Field: "phase", Detail: "select_strategy_card is only legal in the strategy phase"}
		}
	case CommandTakeStrategicAction, CommandTakeTacticalAction, CommandTakeComponentAction, CommandPassTurn:
		if state.Phase != PhaseAction {
			return &ValidationError{Field: "phase", Detail: kind.String() + " is only legal in the action phase"}
		}
	case CommandVoteOnAgenda:
		if state.Phase != PhaseAgenda {
			return &ValidationError{Field: "phase", Detail: "vote_on_agenda is only legal in the agenda phase"}
		}
	}
	return nil
}

// ValidateTurnOrder checks that player is the active player, for commands
// that require it (take_strategic_action, take_tactical_action, pass_turn).
func ValidateTurnOrder(state *GameState, player PlayerID) error {
	if state.ActivePlayer != player {
		return &ValidationError{Field: "player", Detail: string(player) + " is not the active player"}
	}
	return nil
}

// ValidatePlayerExists checks that id names a player currently in state.
func ValidatePlayerExists(state *GameState, id PlayerID) error {
	if state.Player(id) == nil {
		return &ValidationError{Field: "player", Detail: "unknown player " + string(id)}
	}
	return nil
}

// ValidateSystemExists checks that id names a system currently placed in
// state's galaxy.
func ValidateSystemExists(state *GameState, id SystemID) error {
	if state.Galaxy.System(id) == nil {
		return &ValidationError{Field: "system", Detail: "unknown system " + string(id)}
	}
	return nil
}

// ValidateNoDuplicateSelection checks that ids contains no repeated value,
// used by commands accepting a set of unit/planet ids.
func ValidateNoDuplicateSelection(field string, ids []string) error {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return &ValidationError{Field: field, Detail: "duplicate selection: " + id}
		}
		seen[id] = true
	}
	return nil
}
