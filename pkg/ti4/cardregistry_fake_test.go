package ti4

// fakeUnitStatsTable supplies faction-agnostic base stats for tests that
// need ComputeUnitStats to succeed without wiring a full card registry.
type fakeUnitStatsTable struct {
	stats map[UnitType]BaseUnitStats
}

func newTestUnitStatsTable() fakeUnitStatsTable {
	return fakeUnitStatsTable{stats: map[UnitType]BaseUnitStats{
		Fighter:    {CombatValue: 9, CombatDice: 1, Move: 2, Cost: 1},
		Infantry:   {CombatValue: 8, CombatDice: 1, Cost: 1},
		Cruiser:    {CombatValue: 7, CombatDice: 1, Move: 2, Capacity: 0, Cost: 2, SustainDamage: true},
		Destroyer:  {CombatValue: 9, CombatDice: 1, Move: 2, Cost: 1, AntiFighterBarrage: true, AFBDice: 2, SustainDamage: true},
		Carrier:    {CombatValue: 9, CombatDice: 1, Move: 1, Capacity: 4, Cost: 3, SustainDamage: true},
		PDS:        {CombatValue: 6, CombatDice: 1, SpaceCannon: true, SpaceCannonDice: 1},
		SpaceDock:  {ProductionValue: 0},
	}}
}

func (f fakeUnitStatsTable) BaseStats(faction Faction, unitType UnitType) (BaseUnitStats, bool) {
	s, ok := f.stats[unitType]
	return s, ok
}
