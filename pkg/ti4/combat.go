package ti4

// DiceRoller abstracts the random die roll so combat resolution stays
// deterministic under test. Implementations return a value in [1,10].
type DiceRoller interface {
	Roll() int
}

// CombatStep enumerates the steps a single combat round passes through.
type CombatStep int

const (
	StepBeforeCombat CombatStep = iota
	StepAntiFighterBarrage
	StepAnnounceRetreats
	StepRollDice
	StepAssignHits
	StepRetreat
)

func (s CombatStep) String() string {
	switch s {
	case StepBeforeCombat:
		return "before_combat"
	case StepAntiFighterBarrage:
		return "anti_fighter_barrage"
	case StepAnnounceRetreats:
		return "announce_retreats"
	case StepRollDice:
		return "roll_dice"
	case StepAssignHits:
		return "assign_hits"
	case StepRetreat:
		return "retreat"
	default:
		return "unknown"
	}
}

// CombatKind distinguishes space combat (AFB possible, multi-defender,
// sustain allowed) from ground combat (restricted retreat, no AFB).
type CombatKind int

const (
	SpaceCombatKind CombatKind = iota
	GroundCombatKind
)

// CombatRound captures the participants and running state of one round.
type CombatRound struct {
	RoundNumber      int
	Kind             CombatKind
	System           SystemID
	Planet           string // ground combat only
	Attacker         PlayerID
	Defenders        []PlayerID
	AttackerUnits    []Unit
	DefenderUnits    []Unit
	DefenderRetreated bool
	AttackerRetreated bool
}

// CanUseAntiFighterBarrage reports whether AFB is available this round:
// round 1, space combat, and at least one participant has the AFB ability.
func (r *CombatRound) CanUseAntiFighterBarrage(state *GameState) bool {
	if r.RoundNumber != 1 || r.Kind != SpaceCombatKind {
		return false
	}
	for _, u := range append(append([]Unit{}, r.AttackerUnits...), r.DefenderUnits...) {
		stats, err := ComputeUnitStats(state, u.Owner, u.Type)
		if err == nil && stats.AntiFighterBarrage {
			return true
		}
	}
	return false
}

// AFBAssignment is one hit assigned to a fighter during anti-fighter
// barrage.
type AFBAssignment struct {
	UnitID string
	Owner  PlayerID
}

// ResolveAntiFighterBarrage validates and applies a set of AFB hit
// assignments, returning the units destroyed. Assignments are validated:
// no duplicate unit ids, no non-fighter targets, no targeting one's own
// fighters. Excess hits beyond available fighters vanish —
// callers should not pass more assignments than hits rolled, but this
// function does not itself cap the count; validation is purely structural.
func ResolveAntiFighterBarrage(round *CombatRound, firingSide PlayerID, assignments []AFBAssignment) ([]Unit, error) {
	seen := make(map[string]bool)
	var destroyed []Unit
	targetPool := round.DefenderUnits
	if firingSide != round.Attacker {
		targetPool = round.AttackerUnits
	}

	for _, a := range assignments {
		if seen[a.UnitID] {
			return nil, &ValidationError{Field: "unit_id", Detail: "duplicate AFB assignment for unit " + a.UnitID}
		}
		seen[a.UnitID] = true

		if a.Owner == firingSide {
			return nil, &ValidationError{Field: "owner", Detail: "cannot target own fighters: " + a.UnitID}
		}

		var target *Unit
		for i := range targetPool {
			if targetPool[i].ID == a.UnitID {
				target = &targetPool[i]
				break
			}
		}
		if target == nil {
			return nil, &ValidationError{Field: "unit_id", Detail: "unit not present in combat: " + a.UnitID}
		}
		if target.Type != Fighter {
			return nil, &ValidationError{Field: "unit_id", Detail: "AFB may only target fighters: " + a.UnitID}
		}
		destroyed = append(destroyed, *target)
	}
	return destroyed, nil
}

// RollDice rolls n dice using roller, returning the individual results.
func RollDice(roller DiceRoller, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = roller.Roll()
	}
	return out
}

// CountHits returns how many of results meet or exceed target. A lower
// combat value is better; a roll hits iff roll >= combatValue.
func CountHits(results []int, combatValue int) int {
	hits := 0
	for _, r := range results {
		if r >= combatValue {
			hits++
		}
	}
	return hits
}

// HitAssignment is a caller's choice of which unit absorbs one hit.
type HitAssignment struct {
	UnitID  string
	Sustain bool // true: absorb via sustain damage rather than destruction
}

// ApplyHits validates and applies assignments against units, returning the
// surviving units and the destroyed units. Total hits assigned must equal
// totalHits; a sustain assignment is only legal for a unit whose class can
// sustain and which is not already damaged. A sustain-damage unit absorbs
// one hit without destruction, becomes damaged, and may not sustain again
// until repaired. Fighters and ground forces cannot sustain.
func ApplyHits(units []Unit, totalHits int, assignments []HitAssignment) ([]Unit, []Unit, error) {
	if len(assignments) != totalHits {
		return nil, nil, &ValidationError{Field: "assignments", Detail: "hit assignment count does not match hits produced"}
	}

	byID := make(map[string]int, len(units))
	for i, u := range units {
		byID[u.ID] = i
	}

	destroyedIdx := make(map[int]bool)
	result := append([]Unit(nil), units...)

	for _, a := range assignments {
		idx, ok := byID[a.UnitID]
		if !ok {
			return nil, nil, &ValidationError{Field: "unit_id", Detail: "unit not present: " + a.UnitID}
		}
		u := result[idx]
		if a.Sustain {
			if !u.CanSustainDamageClass() {
				return nil, nil, &ValidationError{Field: "unit_id", Detail: u.Type.String() + " cannot sustain damage: " + a.UnitID}
			}
			if u.Damaged {
				return nil, nil, &ValidationError{Field: "unit_id", Detail: "unit already damaged, cannot sustain again: " + a.UnitID}
			}
			u.Damaged = true
			result[idx] = u
		} else {
			destroyedIdx[idx] = true
		}
	}

	var survivors, destroyed []Unit
	for i, u := range result {
		if destroyedIdx[i] {
			destroyed = append(destroyed, u)
		} else {
			survivors = append(survivors, u)
		}
	}
	return survivors, destroyed, nil
}

// SpaceCombatResult is the outcome of a fully resolved space combat: a
// winner, or a draw when both sides lose every unit.
type SpaceCombatResult struct {
	Attacker      PlayerID
	Defenders     []PlayerID
	Winner        PlayerID // empty if draw
	IsDraw        bool
	RoundsFought  int
	UnitsDestroyed []Unit
}

// Defender identifies the non-active participants in a combat. It is an
// error to request a single defender id when more than one is present.
func Defender(round *CombatRound) (PlayerID, error) {
	if len(round.Defenders) != 1 {
		return "", &ValidationError{Field: "defenders", Detail: "multiple defenders present in this combat"}
	}
	return round.Defenders[0], nil
}

// ShouldContinueCombat reports whether both the attacker and at least one
// defender retain units, the condition for another round.
func ShouldContinueCombat(attackerUnits []Unit, defenderUnits []Unit) bool {
	return len(attackerUnits) > 0 && len(defenderUnits) > 0
}

// EndCombat determines the winner/draw outcome once one or both sides have
// zero units remaining: a winner if the other side has zero, a draw if
// both do.
func EndCombat(round *CombatRound, attackerUnits, defenderUnits []Unit) SpaceCombatResult {
	res := SpaceCombatResult{
		Attacker:     round.Attacker,
		Defenders:    round.Defenders,
		RoundsFought: round.RoundNumber,
	}
	aAlive, dAlive := len(attackerUnits) > 0, len(defenderUnits) > 0
	switch {
	case aAlive && !dAlive:
		res.Winner = round.Attacker
	case dAlive && !aAlive:
		if len(round.Defenders) == 1 {
			res.Winner = round.Defenders[0]
		}
	default:
		res.IsDraw = true
	}
	return res
}
