package ti4

// DarkEnergyTapID identifies the Dark Energy Tap technology: blue, no
// prerequisites, granting frontier-token exploration after a tactical
// action in a system containing a frontier token, and enhanced retreat to
// empty adjacent systems.
const DarkEnergyTapID TechID = "dark_energy_tap"

// NewDarkEnergyTapSpec returns the TechnologySpec for Dark Energy Tap.
func NewDarkEnergyTapSpec() TechnologySpec {
	return TechnologySpec{
		ID:            DarkEnergyTapID,
		Name:          "Dark Energy Tap",
		Color:         Blue,
		Prerequisites: nil,
		Ability: &Ability{
			SourceID:  string(DarkEnergyTapID),
			Name:      "frontier_exploration",
			Trigger:   WindowAfterActivation,
			Timing:    TimingAfter,
			Mandatory: false,
			Frequency: FrequencyOncePerTrigger,
			Conditions: []Condition{
				hasTechCondition(DarkEnergyTapID),
				HasShipsInSystem(),
				SystemContainsFrontier(),
			},
			Effect: darkEnergyTapFrontierEffect,
		},
	}
}

func hasTechCondition(id TechID) Condition {
	return func(player PlayerID, state *GameState, ctx EventContext) bool {
		p := state.Player(player)
		return p != nil && p.HasTechnology(id)
	}
}

func darkEnergyTapFrontierEffect(state *GameState, player PlayerID, ctx EventContext) (*GameState, error) {
	sys := state.Galaxy.System(ctx.System)
	if sys == nil || !sys.HasFrontier {
		return state, nil
	}
	next := state.Clone()
	nextSys := next.Galaxy.System(ctx.System)
	nextSys.HasFrontier = false
	return next, nil
}

// DarkEnergyTapRetreatEnhancementAllowsEmptySystem reports whether a
// retreating player with Dark Energy Tap may retreat into an empty
// adjacent system that would otherwise be ineligible.
func DarkEnergyTapRetreatEnhancementAllowsEmptySystem(state *GameState, player PlayerID) bool {
	p := state.Player(player)
	return p != nil && p.HasTechnology(DarkEnergyTapID)
}
