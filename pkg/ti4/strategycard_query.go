package ti4

// This file implements the information surface a caller-side AI would
// query: read-only methods with no decision logic, consistent with the
// engine never attempting to play a turn on a caller's behalf.

// StrategyCardInfo is one card's current evaluation data, exposed for
// callers to build their own decision logic on top of.
type StrategyCardInfo struct {
	CardID      string
	Initiative  int
	Owner       PlayerID
	Available   bool
	Exhausted   bool
}

var strategyCardInitiative = map[string]int{
	Leadership:   1,
	Diplomacy:    2,
	Politics:     3,
	Construction: 4,
	Trade:        5,
	Warfare:      6,
	Technology:   7,
	Imperial:     8,
}

// AllStrategyCardInfo enumerates every strategy card the registry defines
// with its current owner/state.
func AllStrategyCardInfo(state *GameState) []StrategyCardInfo {
	var out []StrategyCardInfo
	for _, spec := range state.Cards.Strategy.AllCards() {
		owner, owned := state.StrategyCardOwner[spec.ID]
		out = append(out, StrategyCardInfo{
			CardID:     spec.ID,
			Initiative: spec.Initiative,
			Owner:      owner,
			Available:  !owned,
			Exhausted:  state.StrategyExhausted[spec.ID],
		})
	}
	return out
}

// InitiativeOrder returns the owned strategy cards, exhausted or not, in
// ascending initiative-number order, the ordering action-phase turns
// follow.
func InitiativeOrder(state *GameState) []StrategyCardInfo {
	all := AllStrategyCardInfo(state)
	var owned []StrategyCardInfo
	for _, info := range all {
		if info.Owner != "" {
			owned = append(owned, info)
		}
	}
	for i := 1; i < len(owned); i++ {
		j := i
		for j > 0 && owned[j-1].Initiative > owned[j].Initiative {
			owned[j-1], owned[j] = owned[j], owned[j-1]
			j--
		}
	}
	return owned
}

// PlayerStrategyCards returns the StrategyCardInfo entries currently owned
// by player.
func PlayerStrategyCards(state *GameState, player PlayerID) []StrategyCardInfo {
	var out []StrategyCardInfo
	for _, info := range AllStrategyCardInfo(state) {
		if info.Owner == player {
			out = append(out, info)
		}
	}
	return out
}
