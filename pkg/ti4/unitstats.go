package ti4

// UnitStats is the fully composed stat line for a unit, as seen by combat,
// movement, and production. Computed fresh from (unit type, owner, game
// state) on every query rather than cached on the Unit — callers must not
// store a UnitStats across a mutation.
type UnitStats struct {
	CombatValue        int
	CombatDice         int
	Move               int
	Capacity           int
	Cost               int
	SustainDamage      bool
	AntiFighterBarrage bool
	AFBDice            int
	SpaceCannon        bool
	SpaceCannonDice    int
	Bombardment        bool
	BombardmentDice    int
	ProductionValue    int
}

// ComputeUnitStats composes owner's technology modifiers and any active-law
// modifiers on top of the registry's base stat line for unitType.
func ComputeUnitStats(state *GameState, owner PlayerID, unitType UnitType) (UnitStats, error) {
	player := state.Player(owner)
	if player == nil {
		return UnitStats{}, &ValidationError{Field: "owner", Detail: "unknown player " + string(owner)}
	}
	base, ok := state.Cards.Units.BaseStats(player.Faction, unitType)
	if !ok {
		return UnitStats{}, &ValidationError{Field: "unitType", Detail: unitType.String() + " has no base stats for faction " + string(player.Faction)}
	}
	out := UnitStats{
		CombatValue:        base.CombatValue,
		CombatDice:         base.CombatDice,
		Move:               base.Move,
		Capacity:           base.Capacity,
		Cost:               base.Cost,
		SustainDamage:      base.SustainDamage,
		AntiFighterBarrage: base.AntiFighterBarrage,
		AFBDice:            base.AFBDice,
		SpaceCannon:        base.SpaceCannon,
		SpaceCannonDice:    base.SpaceCannonDice,
		Bombardment:        base.Bombardment,
		BombardmentDice:    base.BombardmentDice,
		ProductionValue:    base.ProductionValue,
	}

	for _, techID := range player.Technologies {
		if state.Cards.Technologies == nil {
			break
		}
		for _, mod := range state.Cards.Technologies.Modifiers(techID) {
			if mod.AppliesTo != unitType {
				continue
			}
			applyModifier(&out, mod)
		}
	}

	for _, law := range state.ActiveLaws {
		for _, mod := range law.UnitModifiers {
			if mod.AppliesTo != unitType {
				continue
			}
			applyModifier(&out, mod)
		}
	}

	return out, nil
}

func applyModifier(out *UnitStats, mod StatModifier) {
	out.CombatValue += mod.CombatValue
	out.Move += mod.MoveDelta
	out.Capacity += mod.CapacityDelta
	out.CombatDice += mod.DiceDelta
}
