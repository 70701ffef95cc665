package ti4

// Strategy card identities. The initiative number is the card's sole
// natural ordering key.
const (
	Leadership  = "leadership"
	Diplomacy   = "diplomacy"
	Politics    = "politics"
	Construction = "construction"
	Trade       = "trade"
	Warfare     = "warfare"
	Technology  = "technology"
	Imperial    = "imperial"
)

// StrategyCardCoordinator owns the lifecycle of the eight strategy cards
// during the strategy and action phases: plain functions over GameState
// returning a new GameState, with no coordinator-held mutable state of
// its own.
type StrategyCardCoordinator struct{}

// NewStrategyCardCoordinator returns a ready-to-use coordinator.
func NewStrategyCardCoordinator() *StrategyCardCoordinator {
	return &StrategyCardCoordinator{}
}

// cardsPerPlayer returns 2 for games that started with <=4 players, 1
// otherwise, and freezes at 1 forever once the initial count was >=5.
func cardsPerPlayer(initialCount int) int {
	if initialCount >= 5 {
		return 1
	}
	return 2
}

// SelectStrategyCard assigns cardID to player during the strategy phase,
// in speaker-clockwise turn order (enforced by the caller, not here). It is an error to select a card already owned by someone, or to
// exceed the player's per-game card allotment.
func (c *StrategyCardCoordinator) SelectStrategyCard(state *GameState, player PlayerID, cardID string) (*GameState, error) {
	if owner, taken := state.StrategyCardOwner[cardID]; taken {
		return nil, &ValidationError{Field: "card_id", Detail: cardID + " is already owned by " + string(owner)}
	}
	p := state.Player(player)
	if p == nil {
		return nil, &ValidationError{Field: "player", Detail: "unknown player " + string(player)}
	}
	if len(p.StrategyCards) >= cardsPerPlayer(state.InitialPlayerCount) {
		return nil, &ValidationError{Field: "player", Detail: string(player) + " has already selected their full card allotment"}
	}

	next := state.Clone()
	next.StrategyCardOwner[cardID] = player
	next.StrategyExhausted[cardID] = false
	nextPlayer := next.Player(player)
	nextPlayer.StrategyCards = append(nextPlayer.StrategyCards, cardID)
	return next, nil
}

// TakeStrategicAction exhausts player's readied cardID, resolving its
// primary ability (supplied by the caller as primaryEffect, since card
// bodies are data supplied by the host, not the engine). A player may
// only take a strategic action with a readied card they own.
func (c *StrategyCardCoordinator) TakeStrategicAction(state *GameState, player PlayerID, cardID string, primaryEffect EffectFunc) (*GameState, error) {
	owner, ok := state.StrategyCardOwner[cardID]
	if !ok || owner != player {
		return nil, &ValidationError{Field: "card_id", Detail: string(player) + " does not own " + cardID}
	}
	if state.StrategyExhausted[cardID] {
		return nil, &ValidationError{Field: "card_id", Detail: cardID + " is already exhausted"}
	}

	next, err := primaryEffect(state, player, EventContext{Event: "strategy_card_primary:" + cardID})
	if err != nil {
		return nil, err
	}
	next = next.Clone()
	next.StrategyExhausted[cardID] = true
	return next, nil
}

// ResolveSecondary applies a secondary ability for a non-owning player who
// pays cost, whether the primary was triggered via a strategic action or a
// component action. The card's owner is rejected. The clockwise order in
// which secondaries are offered is not tracked or checked here.
func (c *StrategyCardCoordinator) ResolveSecondary(state *GameState, player PlayerID, cardID string, payCost EffectFunc) (*GameState, error) {
	p := state.Player(player)
	if p == nil {
		return nil, &ValidationError{Field: "player", Detail: "unknown player " + string(player)}
	}
	if owner, ok := state.StrategyCardOwner[cardID]; ok && owner == player {
		return nil, &ValidationError{Field: "player", Detail: string(player) + " owns " + cardID + " and cannot take its secondary"}
	}
	return payCost(state, player, EventContext{Event: "strategy_card_secondary:" + cardID})
}

// ReadyAllStrategyCards clears StrategyExhausted for every card, called at
// the start of each round.
func (c *StrategyCardCoordinator) ReadyAllStrategyCards(state *GameState) *GameState {
	next := state.Clone()
	for id := range next.StrategyExhausted {
		next.StrategyExhausted[id] = false
	}
	return next
}

// HasReadiedCard reports whether player owns at least one unexhausted
// strategy card.
func (c *StrategyCardCoordinator) HasReadiedCard(state *GameState, player PlayerID) bool {
	for cardID, owner := range state.StrategyCardOwner {
		if owner == player && !state.StrategyExhausted[cardID] {
			return true
		}
	}
	return false
}

// ReassignOnElimination returns held cards to the common pool and advances
// the speaker token to the next surviving player in turn order, if player
// held it.
func (c *StrategyCardCoordinator) ReassignOnElimination(state *GameState, player PlayerID, survivors []PlayerID) *GameState {
	next := state.Clone()
	for cardID, owner := range next.StrategyCardOwner {
		if owner == player {
			delete(next.StrategyCardOwner, cardID)
			delete(next.StrategyExhausted, cardID)
		}
	}
	if next.SpeakerID == player {
		next.SpeakerID = nextSurvivor(player, state.PlayerOrder, survivors)
	}
	return next
}

func nextSurvivor(from PlayerID, order []PlayerID, survivors []PlayerID) PlayerID {
	alive := make(map[PlayerID]bool, len(survivors))
	for _, s := range survivors {
		alive[s] = true
	}
	startIdx := 0
	for i, p := range order {
		if p == from {
			startIdx = i
			break
		}
	}
	for i := 1; i <= len(order); i++ {
		candidate := order[(startIdx+i)%len(order)]
		if alive[candidate] {
			return candidate
		}
	}
	return ""
}
