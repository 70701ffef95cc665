package ti4

// UnitMove is one ship or ground-force relocation within a MovementPlan.
type UnitMove struct {
	UnitID string
	From   SystemID
	To     SystemID
	// TransportedBy names the ship carrying a ground force across the
	// move, empty for a ship moving under its own drive.
	TransportedBy string
}

// MovementPlan is the ordered list of moves executed during the movement
// step of a tactical action.
type MovementPlan struct {
	ActivatedSystem SystemID
	Moves           []UnitMove
}

// TacticalActionResult exposes the outcome of each step of the pipeline.
type TacticalActionResult struct {
	MovementExecuted          bool
	SpaceCannonOffensePossible bool
	BombardmentPossible       bool
	ProductionPossible        bool
	TimingWindows             []string
	SpaceCombat               *SpaceCombatResult
}

// Tactical action timing window names. Each is a trigger name consumed by
// the ability engine. The step functions in this file do not call
// AbilityEngine.Trigger and do not wait for its queue to drain.
const (
	WindowAfterActivation   = "after_activation"
	WindowAfterMovement     = "after_movement"
	WindowStartOfSpaceCombat = "start_of_space_combat"
	WindowBeforeInvasion    = "before_invasion"
	WindowBeforeProduction  = "before_production"
)

// ActivateSystem activates system for player by spending one token from
// player's tactic pool, and clears the Gravity Drive bonus. No command
// token is recorded on the system itself, so a system the player already
// activated can be activated again while the tactic pool has tokens.
func ActivateSystem(state *GameState, player PlayerID, system SystemID) (*GameState, error) {
	p := state.Player(player)
	if p == nil {
		return nil, &ValidationError{Field: "player", Detail: "unknown player " + string(player)}
	}
	if state.Galaxy.System(system) == nil {
		return nil, &ValidationError{Field: "system", Detail: "unknown system " + string(system)}
	}

	next := state.Clone()
	nextPlayer := next.Player(player)
	if err := nextPlayer.SpendCommandToken(TacticPool); err != nil {
		return nil, err
	}
	next.GravityDriveBonusUnitID = ""
	return next, nil
}

// ValidateMove checks one move against source occupancy, range (including
// technology modifiers and the Gravity Drive bonus; an adjacent system is
// in range for any unit with move 1 or more), and, for a transported move,
// that the named transport is in the source system with capacity 1 or
// more. It does not check who owns the unit, nor how many units a
// transport already carries. It does not mutate state.
func ValidateMove(state *GameState, move UnitMove) error {
	from := state.Galaxy.System(move.From)
	to := state.Galaxy.System(move.To)
	if from == nil {
		return &ValidationError{Field: "from", Detail: "unknown system " + string(move.From)}
	}
	if to == nil {
		return &ValidationError{Field: "to", Detail: "unknown system " + string(move.To)}
	}

	var unit *Unit
	for i := range from.SpaceUnits {
		if from.SpaceUnits[i].ID == move.UnitID {
			unit = &from.SpaceUnits[i]
			break
		}
	}
	if unit == nil {
		return &ValidationError{Field: "unit_id", Detail: "unit not present in source system: " + move.UnitID}
	}

	stats, err := ComputeUnitStats(state, unit.Owner, unit.Type)
	if err != nil {
		return err
	}
	effectiveMove := stats.Move
	if move.UnitID == state.GravityDriveBonusUnitID {
		effectiveMove++
	}

	dist, ok := state.Galaxy.DistanceHint(move.From, move.To)
	if !ok || dist > effectiveMove {
		if !state.Galaxy.Adjacent(move.From, move.To) || effectiveMove < 1 {
			return &ValidationError{Field: "path", Detail: "move exceeds unit range: " + move.UnitID}
		}
	}

	if move.TransportedBy != "" {
		var carrier *Unit
		for i := range from.SpaceUnits {
			if from.SpaceUnits[i].ID == move.TransportedBy {
				carrier = &from.SpaceUnits[i]
				break
			}
		}
		if carrier == nil {
			return &ValidationError{Field: "transported_by", Detail: "transport ship not present: " + move.TransportedBy}
		}
		carrierStats, err := ComputeUnitStats(state, carrier.Owner, carrier.Type)
		if err != nil {
			return err
		}
		if carrierStats.Capacity < 1 {
			return &ValidationError{Field: "transported_by", Detail: "transport has no capacity: " + move.TransportedBy}
		}
	}

	return nil
}

// ExecuteMovementPlan applies every move in plan after validating each,
// returning the new GameState. No move in the plan is applied if any move
// fails validation.
func ExecuteMovementPlan(state *GameState, plan MovementPlan) (*GameState, error) {
	for _, m := range plan.Moves {
		if err := ValidateMove(state, m); err != nil {
			return nil, err
		}
	}

	next := state.Clone()
	for _, m := range plan.Moves {
		from := next.Galaxy.System(m.From)
		to := next.Galaxy.System(m.To)
		var moved Unit
		for i, u := range from.SpaceUnits {
			if u.ID == m.UnitID {
				moved = u
				from.SpaceUnits = append(from.SpaceUnits[:i], from.SpaceUnits[i+1:]...)
				break
			}
		}
		to.SpaceUnits = append(to.SpaceUnits, moved)
	}
	return next, nil
}

// SpaceCannonOffensePossible reports whether an opponent PDS in the active
// system or an adjacent (physical or matching-wormhole) system could fire
// at ships that just moved there.
func SpaceCannonOffensePossible(state *GameState, activeSystem SystemID, mover PlayerID) bool {
	candidates := append([]SystemID{activeSystem}, state.Galaxy.AdjacentSystems(activeSystem)...)
	for _, sid := range candidates {
		sys := state.Galaxy.System(sid)
		if sys == nil {
			continue
		}
		for _, planet := range sys.Planets {
			for _, u := range planet.GroundUnits {
				if u.Owner == mover || u.Type != PDS {
					continue
				}
				stats, err := ComputeUnitStats(state, u.Owner, u.Type)
				if err == nil && stats.SpaceCannon {
					return true
				}
			}
		}
	}
	return false
}

// BombardmentPossible reports whether the active system contains at least
// one planet and at least one friendly unit with the bombardment ability.
func BombardmentPossible(state *GameState, activeSystem SystemID, invader PlayerID) bool {
	sys := state.Galaxy.System(activeSystem)
	if sys == nil || len(sys.Planets) == 0 {
		return false
	}
	for _, u := range sys.SpaceUnits {
		if u.Owner != invader {
			continue
		}
		stats, err := ComputeUnitStats(state, u.Owner, u.Type)
		if err == nil && stats.Bombardment {
			return true
		}
	}
	return false
}

// ProductionPossible reports whether any friendly production-capable unit
// in the active system can build. Blockaded space docks may still build
// ground forces.
func ProductionPossible(state *GameState, activeSystem SystemID, player PlayerID) bool {
	sys := state.Galaxy.System(activeSystem)
	if sys == nil {
		return false
	}
	for _, planet := range sys.Planets {
		for _, u := range planet.GroundUnits {
			if u.Owner == player && u.Type == SpaceDock {
				return true
			}
		}
	}
	return false
}

// BuildUnit places a newly produced unit of unitType in system on behalf of
// player, subject to the blockade restriction: a blockaded space dock may
// still produce ground forces but not ships.
func BuildUnit(state *GameState, player PlayerID, system SystemID, unitType UnitType, unitID string) (*GameState, error) {
	if !ProductionPossible(state, system, player) {
		return nil, &ValidationError{Field: "system", Detail: "no production structure available in " + string(system)}
	}
	if unitType.IsShip() && IsBlockaded(state, system, player) {
		return nil, &ValidationError{Field: "unit_type", Detail: "blockaded space dock cannot produce ships: " + unitType.String()}
	}

	next := state.Clone()
	sys := next.Galaxy.System(system)
	unit := Unit{ID: unitID, Type: unitType, Owner: player}
	if unitType.IsGroundForce() {
		placed := false
		for _, planet := range sys.Planets {
			for _, u := range planet.GroundUnits {
				if u.Owner == player && u.Type == SpaceDock {
					planet.GroundUnits = append(planet.GroundUnits, unit)
					placed = true
					break
				}
			}
			if placed {
				break
			}
		}
		if !placed {
			return nil, &ValidationError{Field: "system", Detail: "no friendly space dock found to host ground force production"}
		}
	} else {
		sys.SpaceUnits = append(sys.SpaceUnits, unit)
	}
	return next, nil
}

// IsBlockaded reports whether a production structure in system owned by
// owner is blockaded: the system contains enemy ships and no friendly
// ships. Recomputed on every call, never stored.
func IsBlockaded(state *GameState, system SystemID, owner PlayerID) bool {
	sys := state.Galaxy.System(system)
	if sys == nil {
		return false
	}
	return sys.HasEnemyShips(owner) && !sys.HasShipsOf(owner)
}
