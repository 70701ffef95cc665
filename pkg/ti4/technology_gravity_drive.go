package ti4

// GravityDriveID identifies the Gravity Drive technology: blue, one blue
// prerequisite, mandatory +1 movement to one ship per system activation.
const GravityDriveID TechID = "gravity_drive"

// NewGravityDriveSpec returns the TechnologySpec for Gravity Drive. The
// movement bonus is not a flat StatModifier (it applies to one ship the
// active player chooses, not every ship of a type) — it is exposed as a
// mandatory Ability bound to WindowAfterActivation that ExecuteMovementPlan's
// caller consults via the ability engine before validating moves.
func NewGravityDriveSpec() TechnologySpec {
	return TechnologySpec{
		ID:            GravityDriveID,
		Name:          "Gravity Drive",
		Color:         Blue,
		Prerequisites: []Color{Blue},
		Ability: &Ability{
			SourceID:  string(GravityDriveID),
			Name:      "gravity_drive_movement_bonus",
			Trigger:   WindowAfterActivation,
			Timing:    TimingAfter,
			Mandatory: true,
			Frequency: FrequencyOncePerTrigger,
			Conditions: []Condition{
				func(player PlayerID, state *GameState, ctx EventContext) bool {
					p := state.Player(player)
					return p != nil && p.HasTechnology(GravityDriveID)
				},
			},
			Effect: gravityDriveEffect,
		},
	}
}

func gravityDriveEffect(state *GameState, player PlayerID, ctx EventContext) (*GameState, error) {
	shipID, _ := ctx.Data["chosen_ship_id"].(string)
	if shipID == "" {
		return nil, &AbilityExecutionError{AbilityID: string(GravityDriveID), Cause: &ValidationError{Field: "chosen_ship_id", Detail: "Gravity Drive requires a chosen ship"}}
	}
	next := state.Clone()
	next.GravityDriveBonusUnitID = shipID
	return next, nil
}
