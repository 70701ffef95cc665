package ti4

import "sort"

// ResolveSpaceCombat drives space combat in system to a conclusion on
// behalf of attacker against every other owner present: round 1 AFB if
// eligible, then repeated rounds of simultaneous dice rolls and hit
// assignment until one side (or both) has no units left. Hit assignment
// and AFB targeting are both auto-resolved, preferring to sustain an
// eligible undamaged unit before destroying one, lowest unit ID first —
// a server-authoritative stand-in for the player choice the tabletop game
// leaves open. The returned GameState has the system's surviving units in
// place; PDS space cannon, bombardment, and retreat are resolved
// separately by the caller before or after this is invoked.
func ResolveSpaceCombat(state *GameState, roller DiceRoller, system SystemID, attacker PlayerID) (*GameState, *SpaceCombatResult, error) {
	sys := state.Galaxy.System(system)
	if sys == nil {
		return nil, nil, &ValidationError{Field: "system", Detail: "unknown system " + string(system)}
	}
	if !sys.HasShipsOf(attacker) {
		return nil, nil, &ValidationError{Field: "attacker", Detail: string(attacker) + " has no ships in " + string(system)}
	}

	var defenders []PlayerID
	for _, o := range sys.Owners() {
		if o != attacker {
			defenders = append(defenders, o)
		}
	}
	if len(defenders) == 0 {
		return nil, nil, &ValidationError{Field: "system", Detail: "no opposing ships present in " + string(system)}
	}

	next := state.Clone()
	nextSys := next.Galaxy.System(system)

	var attackerUnits, defenderUnits []Unit
	for _, u := range nextSys.SpaceUnits {
		if u.Owner == attacker {
			attackerUnits = append(attackerUnits, u)
		} else {
			defenderUnits = append(defenderUnits, u)
		}
	}

	round := &CombatRound{
		RoundNumber:   1,
		Kind:          SpaceCombatKind,
		System:        system,
		Attacker:      attacker,
		Defenders:     defenders,
		AttackerUnits: attackerUnits,
		DefenderUnits: defenderUnits,
	}

	if round.CanUseAntiFighterBarrage(next) {
		attackerFiring, err := rollAFBHits(next, roller, attackerUnits)
		if err != nil {
			return nil, nil, err
		}
		destroyed, err := ResolveAntiFighterBarrage(round, attacker, autoAFBAssignments(defenderUnits, attackerFiring))
		if err != nil {
			return nil, nil, err
		}
		defenderUnits = removeDestroyed(defenderUnits, destroyed)

		defenderFiring, err := rollAFBHits(next, roller, defenderUnits)
		if err != nil {
			return nil, nil, err
		}
		destroyed, err = ResolveAntiFighterBarrage(round, firstDefender(defenders), autoAFBAssignments(attackerUnits, defenderFiring))
		if err != nil {
			return nil, nil, err
		}
		attackerUnits = removeDestroyed(attackerUnits, destroyed)

		round.AttackerUnits = attackerUnits
		round.DefenderUnits = defenderUnits
	}

	for ShouldContinueCombat(attackerUnits, defenderUnits) {
		attackerHits, err := rollUnitHits(next, roller, attackerUnits)
		if err != nil {
			return nil, nil, err
		}
		defenderHits, err := rollUnitHits(next, roller, defenderUnits)
		if err != nil {
			return nil, nil, err
		}

		defenderUnits, err = applyAutoHits(defenderUnits, attackerHits)
		if err != nil {
			return nil, nil, err
		}
		attackerUnits, err = applyAutoHits(attackerUnits, defenderHits)
		if err != nil {
			return nil, nil, err
		}

		round.AttackerUnits = attackerUnits
		round.DefenderUnits = defenderUnits

		if !ShouldContinueCombat(attackerUnits, defenderUnits) {
			break
		}
		round.RoundNumber++
	}

	result := EndCombat(round, attackerUnits, defenderUnits)
	nextSys.SpaceUnits = append(append([]Unit(nil), attackerUnits...), defenderUnits...)
	return next, &result, nil
}

// ResolveGroundCombat drives ground combat on planet to a conclusion the
// same way ResolveSpaceCombat does for space units: repeated simultaneous
// rounds, auto-assigned hits, no sustain damage since ground combat units
// (infantry) cannot sustain. No retreat is offered; GroundCombatRetreatAllowed
// governs whether a caller may pull units out before invoking this.
func ResolveGroundCombat(state *GameState, roller DiceRoller, system SystemID, planetName string, invader PlayerID) (*GameState, *SpaceCombatResult, error) {
	sys := state.Galaxy.System(system)
	if sys == nil {
		return nil, nil, &ValidationError{Field: "system", Detail: "unknown system " + string(system)}
	}
	planet := sys.Planet(planetName)
	if planet == nil {
		return nil, nil, &ValidationError{Field: "planet", Detail: "unknown planet " + planetName}
	}

	var defender PlayerID
	for _, u := range planet.GroundUnits {
		if u.Owner != invader {
			defender = u.Owner
			break
		}
	}
	if defender == "" {
		return nil, nil, &ValidationError{Field: "planet", Detail: "no defending ground forces on " + planetName}
	}

	next := state.Clone()
	nextPlanet := next.Galaxy.System(system).Planet(planetName)

	var invaderUnits, defenderUnits []Unit
	for _, u := range nextPlanet.GroundUnits {
		if u.Owner == invader {
			invaderUnits = append(invaderUnits, u)
		} else {
			defenderUnits = append(defenderUnits, u)
		}
	}
	if len(invaderUnits) == 0 {
		return nil, nil, &ValidationError{Field: "invader", Detail: string(invader) + " has no ground forces committed on " + planetName}
	}

	round := &CombatRound{
		RoundNumber:   1,
		Kind:          GroundCombatKind,
		System:        system,
		Planet:        planetName,
		Attacker:      invader,
		Defenders:     []PlayerID{defender},
		AttackerUnits: invaderUnits,
		DefenderUnits: defenderUnits,
	}

	for ShouldContinueCombat(invaderUnits, defenderUnits) {
		invaderHits, err := rollUnitHits(next, roller, invaderUnits)
		if err != nil {
			return nil, nil, err
		}
		defenderHits, err := rollUnitHits(next, roller, defenderUnits)
		if err != nil {
			return nil, nil, err
		}

		defenderUnits, err = applyAutoHits(defenderUnits, invaderHits)
		if err != nil {
			return nil, nil, err
		}
		invaderUnits, err = applyAutoHits(invaderUnits, defenderHits)
		if err != nil {
			return nil, nil, err
		}

		round.AttackerUnits = invaderUnits
		round.DefenderUnits = defenderUnits

		if !ShouldContinueCombat(invaderUnits, defenderUnits) {
			break
		}
		round.RoundNumber++
	}

	result := EndCombat(round, invaderUnits, defenderUnits)
	nextPlanet.GroundUnits = append(append([]Unit(nil), invaderUnits...), defenderUnits...)
	nextPlanet.ReconcileControl()
	return next, &result, nil
}

func firstDefender(defenders []PlayerID) PlayerID {
	if len(defenders) == 0 {
		return ""
	}
	return defenders[0]
}

// rollUnitHits rolls each unit's own combat dice against its own combat
// value and sums the hits produced, since a mixed fleet's units rarely
// share a combat value.
func rollUnitHits(state *GameState, roller DiceRoller, units []Unit) (int, error) {
	hits := 0
	for _, u := range units {
		stats, err := ComputeUnitStats(state, u.Owner, u.Type)
		if err != nil {
			return 0, err
		}
		if stats.CombatDice <= 0 {
			continue
		}
		hits += CountHits(RollDice(roller, stats.CombatDice), stats.CombatValue)
	}
	return hits, nil
}

// rollAFBHits is rollUnitHits restricted to anti-fighter-barrage-capable
// units, rolling each one's AFBDice against its normal combat value.
func rollAFBHits(state *GameState, roller DiceRoller, units []Unit) (int, error) {
	hits := 0
	for _, u := range units {
		stats, err := ComputeUnitStats(state, u.Owner, u.Type)
		if err != nil {
			return 0, err
		}
		if !stats.AntiFighterBarrage || stats.AFBDice <= 0 {
			continue
		}
		hits += CountHits(RollDice(roller, stats.AFBDice), stats.CombatValue)
	}
	return hits, nil
}

// applyAutoHits caps totalHits at len(units) (excess hits have no further
// effect once a side runs out of targets) and assigns them via
// autoAssignHits before delegating to ApplyHits, returning only the
// survivors.
func applyAutoHits(units []Unit, totalHits int) ([]Unit, error) {
	capped := totalHits
	if capped > len(units) {
		capped = len(units)
	}
	survivors, _, err := ApplyHits(units, capped, autoAssignHits(units, capped))
	if err != nil {
		return nil, err
	}
	return survivors, nil
}

// autoAssignHits picks which units absorb hits: eligible undamaged
// sustain-capable units first, then straight destruction, both ordered by
// ascending unit ID for a deterministic, repeatable assignment.
func autoAssignHits(units []Unit, hits int) []HitAssignment {
	if hits <= 0 {
		return nil
	}
	ordered := append([]Unit(nil), units...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	assigned := make(map[string]bool, hits)
	var assignments []HitAssignment
	for _, u := range ordered {
		if len(assignments) >= hits {
			break
		}
		if u.CanSustainDamageClass() && !u.Damaged {
			assignments = append(assignments, HitAssignment{UnitID: u.ID, Sustain: true})
			assigned[u.ID] = true
		}
	}
	for _, u := range ordered {
		if len(assignments) >= hits {
			break
		}
		if assigned[u.ID] {
			continue
		}
		assignments = append(assignments, HitAssignment{UnitID: u.ID})
	}
	return assignments
}

// autoAFBAssignments picks the first (by ascending ID) min(hits, fighters
// present) fighters in targetPool as AFB targets.
func autoAFBAssignments(targetPool []Unit, hits int) []AFBAssignment {
	if hits <= 0 {
		return nil
	}
	fighters := make([]Unit, 0, len(targetPool))
	for _, u := range targetPool {
		if u.Type == Fighter {
			fighters = append(fighters, u)
		}
	}
	sort.Slice(fighters, func(i, j int) bool { return fighters[i].ID < fighters[j].ID })
	if hits > len(fighters) {
		hits = len(fighters)
	}
	out := make([]AFBAssignment, hits)
	for i := 0; i < hits; i++ {
		out[i] = AFBAssignment{UnitID: fighters[i].ID, Owner: fighters[i].Owner}
	}
	return out
}

func removeDestroyed(units []Unit, destroyed []Unit) []Unit {
	if len(destroyed) == 0 {
		return units
	}
	gone := make(map[string]bool, len(destroyed))
	for _, d := range destroyed {
		gone[d.ID] = true
	}
	var kept []Unit
	for _, u := range units {
		if !gone[u.ID] {
			kept = append(kept, u)
		}
	}
	return kept
}
