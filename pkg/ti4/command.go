package ti4

// CommandKind enumerates the public command surface.
type CommandKind int

const (
	CommandProposeTransaction CommandKind = iota
	CommandAcceptTransaction
	CommandRejectTransaction
	CommandCancelTransaction
	CommandSelectStrategyCard
	CommandTakeStrategicAction
	CommandTakeTacticalAction
	CommandTakeComponentAction
	CommandPassTurn
	CommandVoteOnAgenda
	CommandSetSpeaker
)

func (k CommandKind) String() string {
	switch k {
	case CommandProposeTransaction:
		return "propose_transaction"
	case CommandAcceptTransaction:
		return "accept_transaction"
	case CommandRejectTransaction:
		return "reject_transaction"
	case CommandCancelTransaction:
		return "cancel_transaction"
	case CommandSelectStrategyCard:
		return "select_strategy_card"
	case CommandTakeStrategicAction:
		return "take_strategic_action"
	case CommandTakeTacticalAction:
		return "take_tactical_action"
	case CommandTakeComponentAction:
		return "take_component_action"
	case CommandPassTurn:
		return "pass_turn"
	case CommandVoteOnAgenda:
		return "vote_on_agenda"
	case CommandSetSpeaker:
		return "set_speaker"
	default:
		return "unknown"
	}
}

// Command is one tagged instance of the public command surface, carrying
// whatever argument payload that kind requires.
type Command struct {
	Kind    CommandKind
	Player  PlayerID
	Payload map[string]any
}

// CommandResultKind distinguishes a fully applied command from one that
// needs caller confirmation before proceeding, rather than overloading a
// single success flag with an informational message.
type CommandResultKind int

const (
	ResultCompleted CommandResultKind = iota
	ResultRequiresConfirmation
)

// CommandResult is the sum-type outcome of a mutating command: every
// mutating call returns either the new GameState plus a structured result
// describing effects, or a typed error.
type CommandResult struct {
	Kind          CommandResultKind
	State         *GameState
	Description   string
	ConfirmPrompt string // set only when Kind == ResultRequiresConfirmation
}

// EnumerateLegalMoves returns every Command player may currently submit,
// derived from phase, turn order, and holdings. This is advisory only: the
// engine does not attempt AI play and never chooses among them.
func EnumerateLegalMoves(state *GameState, player PlayerID, coordinator *StrategyCardCoordinator) []Command {
	var out []Command

	if state.ActivePlayer == player {
		switch state.Phase {
		case PhaseStrategy:
			for _, spec := range state.Cards.Strategy.AllCards() {
				if _, taken := state.StrategyCardOwner[spec.ID]; !taken {
					out = append(out, Command{Kind: CommandSelectStrategyCard, Player: player, Payload: map[string]any{"card_id": spec.ID}})
				}
			}
		case PhaseAction:
			for cardID, owner := range state.StrategyCardOwner {
				if owner == player && !state.StrategyExhausted[cardID] {
					out = append(out, Command{Kind: CommandTakeStrategicAction, Player: player, Payload: map[string]any{"card_id": cardID}})
				}
			}
			out = append(out, Command{Kind: CommandTakeTacticalAction, Player: player})
			out = append(out, Command{Kind: CommandPassTurn, Player: player})
		}
	}

	for other := range otherPlayersAdjacentTo(state, player) {
		out = append(out, Command{Kind: CommandProposeTransaction, Player: player, Payload: map[string]any{"target": other}})
	}

	for id, tx := range state.PendingTransactions {
		if tx.TargetPlayer == player {
			out = append(out, Command{Kind: CommandAcceptTransaction, Player: player, Payload: map[string]any{"transaction_id": id}})
			out = append(out, Command{Kind: CommandRejectTransaction, Player: player, Payload: map[string]any{"transaction_id": id}})
		}
		if tx.ProposingPlayer == player {
			out = append(out, Command{Kind: CommandCancelTransaction, Player: player, Payload: map[string]any{"transaction_id": id}})
		}
	}

	return out
}

func otherPlayersAdjacentTo(state *GameState, player PlayerID) map[PlayerID]bool {
	out := make(map[PlayerID]bool)
	mgr := NewTransactionManager()
	for _, p := range state.Players {
		if p.ID == player {
			continue
		}
		if mgr.CanPropose(state, player, p.ID) {
			out[p.ID] = true
		}
	}
	return out
}
