// Package content supplies the concrete card-content implementations the
// host layer plugs into pkg/ti4's CardRegistry. The engine treats this data
// as pluggable (pkg/ti4/cardregistry.go's registry interfaces); this package
// is simply the smallest standard-game content set a running server needs,
// built on pkg/ti4/technology.go's StaticTechnologyRegistry and a base unit
// stat table shared across every faction.
package content

import "github.com/freeeve/ti4engine/pkg/ti4"

// StandardFactions lists the eight base-game factions a new lobby may
// assign players to.
var StandardFactions = []ti4.Faction{
	"arborec", "hacan", "jolnar", "sol", "xxcha", "yssaril", "letnev", "saar",
}

// CommodityValue returns the commodity ceiling for faction. The base set
// shares a commodity value of 3; faction-specific values are card content
// this package does not yet model.
func CommodityValue(ti4.Faction) int {
	return 3
}

// unitStatsTable implements ti4.UnitStatsTable with the base game's stat
// lines, shared across every faction. Faction-specific starting units
// (e.g. flagships) are modeled as technology/law modifiers layered on top,
// not as a per-faction base table, keeping this table small.
type unitStatsTable struct {
	base map[ti4.UnitType]ti4.BaseUnitStats
}

// NewUnitStatsTable returns the standard base-game unit stat table.
func NewUnitStatsTable() ti4.UnitStatsTable {
	return &unitStatsTable{base: map[ti4.UnitType]ti4.BaseUnitStats{
		ti4.Fighter:      {CombatValue: 9, CombatDice: 1, Move: 0, Cost: 1, AntiFighterBarrage: true, AFBDice: 1},
		ti4.Infantry:     {CombatValue: 8, CombatDice: 1, Move: 0, Cost: 1},
		ti4.Cruiser:      {CombatValue: 7, CombatDice: 1, Move: 2, Capacity: 0, Cost: 2},
		ti4.Destroyer:    {CombatValue: 9, CombatDice: 1, Move: 2, Cost: 1, AntiFighterBarrage: true, AFBDice: 2},
		ti4.Carrier:      {CombatValue: 9, CombatDice: 1, Move: 1, Capacity: 4, Cost: 3},
		ti4.Dreadnought:  {CombatValue: 5, CombatDice: 1, Move: 1, Capacity: 1, Cost: 4, SustainDamage: true, Bombardment: true, BombardmentDice: 1},
		ti4.WarSun:       {CombatValue: 3, CombatDice: 3, Move: 2, Capacity: 6, Cost: 12, SustainDamage: true, Bombardment: true, BombardmentDice: 3},
		ti4.Flagship:     {CombatValue: 5, CombatDice: 2, Move: 1, Capacity: 3, Cost: 8, SustainDamage: true},
		ti4.PDS:          {CombatValue: 6, CombatDice: 1, Cost: 2, SpaceCannon: true, SpaceCannonDice: 1},
		ti4.SpaceDock:    {CombatValue: 0, Cost: 3, ProductionValue: 3},
	}}
}

func (t *unitStatsTable) BaseStats(faction ti4.Faction, unitType ti4.UnitType) (ti4.BaseUnitStats, bool) {
	stats, ok := t.base[unitType]
	return stats, ok
}

// promissoryRegistry implements ti4.PromissoryNoteRegistry for the shared,
// non-faction-specific promissory notes (Trade Agreement, Ceasefire,
// alliance notes are faction cards this package does not model).
type promissoryRegistry struct{}

// NewPromissoryNoteRegistry returns a registry recognizing each faction's
// default promissory note, named "<faction>_note".
func NewPromissoryNoteRegistry() ti4.PromissoryNoteRegistry {
	return promissoryRegistry{}
}

func (promissoryRegistry) OwningFaction(noteID string) ti4.Faction {
	for _, f := range StandardFactions {
		if string(f)+"_note" == noteID {
			return f
		}
	}
	return ""
}

func (promissoryRegistry) IsReplacedByAlliance(noteID string) bool {
	return noteID == "_alliance"
}

// strategyCardRegistry implements ti4.StrategyCardRegistry with the eight
// base-game strategy cards and their fixed initiative numbers.
type strategyCardRegistry struct {
	cards []ti4.StrategyCardSpec
}

// NewStrategyCardRegistry returns the standard eight-card registry.
func NewStrategyCardRegistry() ti4.StrategyCardRegistry {
	return &strategyCardRegistry{cards: []ti4.StrategyCardSpec{
		{ID: ti4.Leadership, Initiative: 1},
		{ID: ti4.Diplomacy, Initiative: 2},
		{ID: ti4.Politics, Initiative: 3},
		{ID: ti4.Construction, Initiative: 4},
		{ID: ti4.Trade, Initiative: 5},
		{ID: ti4.Warfare, Initiative: 6},
		{ID: ti4.Technology, Initiative: 7},
		{ID: ti4.Imperial, Initiative: 8},
	}}
}

func (r *strategyCardRegistry) AllCards() []ti4.StrategyCardSpec {
	return append([]ti4.StrategyCardSpec(nil), r.cards...)
}

// explorationDeckRegistry implements ti4.ExplorationDeckRegistry by cycling
// through a small fixed card list per trait rather than a shuffled deck,
// keeping phase resolution deterministic across a replayed event log.
type explorationDeckRegistry struct {
	decks      map[ti4.PlanetTrait][]ti4.ExplorationCard
	nextIndex  map[ti4.PlanetTrait]int
	relicsLeft int
}

// NewExplorationDeckRegistry returns a deck registry stocked with a handful
// of representative cards per trait.
func NewExplorationDeckRegistry() ti4.ExplorationDeckRegistry {
	return &explorationDeckRegistry{
		decks: map[ti4.PlanetTrait][]ti4.ExplorationCard{
			ti4.Cultural:   {{ID: "cultural_1", Trait: ti4.Cultural, ResourceModifier: 1}, {ID: "cultural_2", Trait: ti4.Cultural, InfluenceModifier: 1}},
			ti4.Hazardous:  {{ID: "hazardous_1", Trait: ti4.Hazardous, ResourceModifier: 1}, {ID: "hazardous_2", Trait: ti4.Hazardous, IsRelicFragment: true}},
			ti4.Industrial: {{ID: "industrial_1", Trait: ti4.Industrial, ResourceModifier: 1, InfluenceModifier: 1}},
			ti4.Frontier:   {{ID: "frontier_1", Trait: ti4.Frontier, IsRelicFragment: true}, {ID: "frontier_2", Trait: ti4.Frontier}},
		},
		nextIndex:  make(map[ti4.PlanetTrait]int),
		relicsLeft: 4,
	}
}

func (r *explorationDeckRegistry) Draw(trait ti4.PlanetTrait) (ti4.ExplorationCard, bool) {
	deck := r.decks[trait]
	if len(deck) == 0 {
		return ti4.ExplorationCard{}, false
	}
	idx := r.nextIndex[trait] % len(deck)
	r.nextIndex[trait]++
	return deck[idx], true
}

func (r *explorationDeckRegistry) DrawRelic() (string, bool) {
	if r.relicsLeft <= 0 {
		return "", false
	}
	r.relicsLeft--
	return "relic", true
}

// agendaDeckRegistry implements ti4.AgendaDeckRegistry with a small fixed
// rotation of law and directive cards.
type agendaDeckRegistry struct {
	cards []ti4.AgendaCard
	next  int
}

// NewAgendaDeckRegistry returns an agenda deck stocked with a handful of
// representative law and directive cards.
func NewAgendaDeckRegistry() ti4.AgendaDeckRegistry {
	return &agendaDeckRegistry{cards: []ti4.AgendaCard{
		{ID: "fleet_regulations", IsLaw: true, Outcomes: []string{"for", "against"}},
		{ID: "anti_intellectual_revolution", IsLaw: true, Outcomes: []string{"for", "against"}},
		{ID: "committee_formation", IsLaw: false, Outcomes: []string{"elect_player"}},
		{ID: "arms_reduction", IsLaw: false, Outcomes: []string{"for", "against"}},
	}}
}

func (r *agendaDeckRegistry) Draw() (ti4.AgendaCard, bool) {
	if len(r.cards) == 0 {
		return ti4.AgendaCard{}, false
	}
	card := r.cards[r.next%len(r.cards)]
	r.next++
	return card, true
}

// NewStandardGalaxy places Mecatol Rex at the center and one home system
// per player on a surrounding ring, each home system carrying a single
// uncontested planet. It is a minimal stand-in for the base game's fixed
// map tiles, sufficient to exercise adjacency, movement, and production
// without encoding the full tile set.
func NewStandardGalaxy(playerCount int) *ti4.Galaxy {
	g := ti4.NewGalaxy()

	mecatol := ti4.NewSystem("mecatol_rex")
	mecatol.Planets = []*ti4.Planet{{Name: "mecatol_rex", BaseResources: 1, BaseInfluence: 6, Legendary: true}}
	_ = g.PlaceSystem(ti4.HexCoord{Q: 0, R: 0}, mecatol)

	homeRingOffsets := []ti4.HexCoord{
		{Q: 2, R: 0}, {Q: 1, R: 1}, {Q: -1, R: 2},
		{Q: -2, R: 0}, {Q: -1, R: -1}, {Q: 1, R: -2},
	}
	for i := 0; i < playerCount; i++ {
		id := ti4.SystemID(homeSystemID(i))
		home := ti4.NewSystem(id)
		home.Planets = []*ti4.Planet{{Name: homeSystemID(i) + "_planet", BaseResources: 2, BaseInfluence: 1}}
		coord := homeRingOffsets[i%len(homeRingOffsets)]
		for g.SystemAt(coord) != nil {
			coord.Q += 3
		}
		_ = g.PlaceSystem(coord, home)
	}
	return g
}

func homeSystemID(playerIndex int) string {
	const letters = "abcdefghijklmnop"
	return "home_" + string(letters[playerIndex%len(letters)])
}

// NewStandardCardRegistry assembles the standard-game CardRegistry from
// this package's content implementations plus pkg/ti4's two exemplar
// technologies, for use by GameService when starting a new game.
func NewStandardCardRegistry() ti4.CardRegistry {
	return ti4.CardRegistry{
		Units:        NewUnitStatsTable(),
		Technologies: ti4.NewStaticTechnologyRegistry([]ti4.TechnologySpec{ti4.NewGravityDriveSpec(), ti4.NewDarkEnergyTapSpec()}),
		Promissory:   NewPromissoryNoteRegistry(),
		Strategy:     NewStrategyCardRegistry(),
		Exploration:  NewExplorationDeckRegistry(),
		Agendas:      NewAgendaDeckRegistry(),
	}
}
