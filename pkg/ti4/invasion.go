package ti4

// InvasionStep enumerates the five sub-steps of invasion: bombardment,
// commit ground forces, space cannon defense, ground combat, establish
// control.
type InvasionStep int

const (
	InvasionBombardment InvasionStep = iota
	InvasionCommitGroundForces
	InvasionSpaceCannonDefense
	InvasionGroundCombat
	InvasionEstablishControl
)

// CommitGroundForces moves the named ground units from invader's ships in
// activeSystem onto planet, the second invasion sub-step. It is the
// caller's responsibility to have already resolved bombardment and space
// cannon defense before calling EstablishControl below.
func CommitGroundForces(state *GameState, invader PlayerID, activeSystem SystemID, planetName string, unitIDs []string) (*GameState, error) {
	sys := state.Galaxy.System(activeSystem)
	if sys == nil {
		return nil, &ValidationError{Field: "system", Detail: "unknown system " + string(activeSystem)}
	}
	planet := sys.Planet(planetName)
	if planet == nil {
		return nil, &ValidationError{Field: "planet", Detail: "unknown planet " + planetName}
	}

	next := state.Clone()
	nextSys := next.Galaxy.System(activeSystem)
	nextPlanet := nextSys.Planet(planetName)

	idSet := make(map[string]bool, len(unitIDs))
	for _, id := range unitIDs {
		idSet[id] = true
	}

	var remaining []Unit
	var committed []Unit
	for _, u := range nextSys.SpaceUnits {
		if idSet[u.ID] {
			if u.Owner != invader {
				return nil, &ValidationError{Field: "unit_id", Detail: "unit not owned by invader: " + u.ID}
			}
			if !u.Type.IsGroundForce() {
				return nil, &ValidationError{Field: "unit_id", Detail: "not a ground force: " + u.ID}
			}
			committed = append(committed, u)
		} else {
			remaining = append(remaining, u)
		}
	}
	if len(committed) != len(unitIDs) {
		return nil, &ValidationError{Field: "unit_id", Detail: "one or more committed units not found in system space area"}
	}

	nextSys.SpaceUnits = remaining
	nextPlanet.GroundUnits = append(nextPlanet.GroundUnits, committed...)
	return next, nil
}

// EstablishControl reconciles planet control from its current ground
// forces, the fifth invasion sub-step.
func EstablishControl(state *GameState, system SystemID, planetName string) *GameState {
	next := state.Clone()
	sys := next.Galaxy.System(system)
	if sys == nil {
		return next
	}
	planet := sys.Planet(planetName)
	if planet == nil {
		return next
	}
	planet.ReconcileControl()
	return next
}

// InvadePlanet drives the invasion sub-pipeline's ground phase to a
// conclusion: commits invader's named units from the active system's
// space area onto planet, resolves ground combat if the planet carries
// any defending forces, then establishes control. Bombardment and space
// cannon defense, the sub-steps preceding commitment, are resolved
// separately by the caller before this is invoked.
func InvadePlanet(state *GameState, roller DiceRoller, invader PlayerID, activeSystem SystemID, planetName string, unitIDs []string) (*GameState, *SpaceCombatResult, error) {
	next, err := CommitGroundForces(state, invader, activeSystem, planetName, unitIDs)
	if err != nil {
		return nil, nil, err
	}

	planet := next.Galaxy.System(activeSystem).Planet(planetName)
	hasDefenders := false
	for _, u := range planet.GroundUnits {
		if u.Owner != invader {
			hasDefenders = true
			break
		}
	}

	var result *SpaceCombatResult
	if hasDefenders {
		next, result, err = ResolveGroundCombat(next, roller, activeSystem, planetName, invader)
		if err != nil {
			return nil, nil, err
		}
	}

	next = EstablishControl(next, activeSystem, planetName)
	return next, result, nil
}

// GroundCombatRetreatAllowed reports whether ground-combat retreat is
// available, which differs from space combat: restricted or disabled
// depending on active laws. The default (no overriding law) is disabled,
// matching base rules where ground forces have no inherent retreat step.
func GroundCombatRetreatAllowed(state *GameState, lawID string) bool {
	for _, law := range state.ActiveLaws {
		if law.AgendaID == lawID {
			return true
		}
	}
	return false
}
