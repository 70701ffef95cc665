package ti4

// This file implements capture: capturing non-fighter/non-infantry ship
// units onto a capturing player's faction sheet versus returning
// fighters/ground forces to the shared supply. Captured units are tracked
// on Player.CapturedUnits rather than a separate mutable side-table, to
// fit the engine's immutable-state model.

// CaptureUnit captures unitID in system for capturingPlayer. A fighter or
// infantry unit leaves play, since the engine does not model a finite
// physical-token supply. Any other unit stays in place with Unit.Capturing
// set to capturingPlayer, so IsCaptured reports true for it. In both cases
// capturingPlayer's CapturedUnits records the unit's type and original
// owner.
func CaptureUnit(state *GameState, system SystemID, unitID string, capturingPlayer PlayerID) (*GameState, error) {
	sys := state.Galaxy.System(system)
	if sys == nil {
		return nil, &ValidationError{Field: "system", Detail: "unknown system " + string(system)}
	}

	var found *Unit
	var onPlanet string
	for i := range sys.SpaceUnits {
		if sys.SpaceUnits[i].ID == unitID {
			found = &sys.SpaceUnits[i]
			break
		}
	}
	if found == nil {
		for _, planet := range sys.Planets {
			for i := range planet.GroundUnits {
				if planet.GroundUnits[i].ID == unitID {
					found = &planet.GroundUnits[i]
					onPlanet = planet.Name
					break
				}
			}
		}
	}
	if found == nil {
		return nil, &ValidationError{Field: "unit_id", Detail: "unit not present in system: " + unitID}
	}
	if found.IsCaptured() {
		return nil, &ValidationError{Field: "unit_id", Detail: "unit already captured: " + unitID}
	}

	victim := found.Owner
	next := state.Clone()
	nextSys := next.Galaxy.System(system)

	if found.Type == Fighter || found.Type == Infantry {
		removeUnitFromSystem(nextSys, unitID, onPlanet)
		capturer := next.Player(capturingPlayer)
		if capturer != nil {
			capturer.CapturedUnits = append(capturer.CapturedUnits, CapturedUnit{OriginalOwner: victim, UnitType: found.Type})
		}
		return next, nil
	}

	markCapturedInSystem(nextSys, unitID, onPlanet, capturingPlayer)
	capturer := next.Player(capturingPlayer)
	if capturer != nil {
		capturer.CapturedUnits = append(capturer.CapturedUnits, CapturedUnit{OriginalOwner: victim, UnitType: found.Type})
	}
	return next, nil
}

func removeUnitFromSystem(sys *System, unitID, onPlanet string) {
	if onPlanet == "" {
		for i, u := range sys.SpaceUnits {
			if u.ID == unitID {
				sys.SpaceUnits = append(sys.SpaceUnits[:i], sys.SpaceUnits[i+1:]...)
				return
			}
		}
		return
	}
	planet := sys.Planet(onPlanet)
	for i, u := range planet.GroundUnits {
		if u.ID == unitID {
			planet.GroundUnits = append(planet.GroundUnits[:i], planet.GroundUnits[i+1:]...)
			return
		}
	}
}

func markCapturedInSystem(sys *System, unitID, onPlanet string, capturingPlayer PlayerID) {
	if onPlanet == "" {
		for i := range sys.SpaceUnits {
			if sys.SpaceUnits[i].ID == unitID {
				sys.SpaceUnits[i].Capturing = capturingPlayer
				return
			}
		}
		return
	}
	planet := sys.Planet(onPlanet)
	for i := range planet.GroundUnits {
		if planet.GroundUnits[i].ID == unitID {
			planet.GroundUnits[i].Capturing = capturingPlayer
			return
		}
	}
}

// ReturnCapturedUnit hands a captured unit that stayed in play back to its
// original owner by clearing its Capturing marker. The capturing player's
// CapturedUnits entry is left as it is. Eliminate clears the markers of an
// eliminated capturer itself and does not call this.
func ReturnCapturedUnit(state *GameState, system SystemID, unitID string) (*GameState, error) {
	sys := state.Galaxy.System(system)
	if sys == nil {
		return nil, &ValidationError{Field: "system", Detail: "unknown system " + string(system)}
	}

	next := state.Clone()
	nextSys := next.Galaxy.System(system)

	for i := range nextSys.SpaceUnits {
		if nextSys.SpaceUnits[i].ID == unitID {
			nextSys.SpaceUnits[i].Capturing = ""
			return next, nil
		}
	}
	for _, planet := range nextSys.Planets {
		for i := range planet.GroundUnits {
			if planet.GroundUnits[i].ID == unitID {
				planet.GroundUnits[i].Capturing = ""
				return next, nil
			}
		}
	}
	return nil, &ValidationError{Field: "unit_id", Detail: "unit not present in system: " + unitID}
}
