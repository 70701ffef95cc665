package ti4

// This file defines the pluggable card-content protocols: agenda deck,
// four exploration decks, promissory notes, strategy cards, and technology
// cards. Card bodies are data the engine never hardcodes; callers supply
// an implementation of each registry interface when constructing a
// GameState, the same narrow-interface-with-externally-supplied-
// implementation idiom internal/repository uses for storage access.

// BaseUnitStats is the unmodified stat line for one unit type, before
// technology, faction, or law modifiers are composed in.
type BaseUnitStats struct {
	CombatValue   int // minimum die roll that counts as a hit, 0 if unit has no combat value
	CombatDice    int
	Move          int
	Capacity      int
	Cost          int
	SustainDamage bool
	AntiFighterBarrage bool
	AFBDice            int
	SpaceCannon        bool
	SpaceCannonDice    int
	Bombardment        bool
	BombardmentDice    int
	ProductionValue    int
}

// UnitStatsTable supplies the base stat line for every unit type a faction
// can field. A CardRegistry implementation owns one per faction (unit
// upgrades vary the table per player via TechnologyRegistry instead of
// mutating this table).
type UnitStatsTable interface {
	BaseStats(faction Faction, unitType UnitType) (BaseUnitStats, bool)
}

// StatModifier is one technology/faction/law-sourced change to a unit's
// stat line, composed on top of BaseUnitStats.
type StatModifier struct {
	SourceID      string
	AppliesTo     UnitType
	CombatValue   int // additive; negative improves (lower target number is better)
	MoveDelta     int
	CapacityDelta int
	DiceDelta     int
}

// TechnologyRegistry supplies technology prerequisites and the stat/ability
// modifiers a researched technology contributes. Exemplar technology specs
// are defined in technology_gravity_drive.go and technology_dark_energy_tap.go.
type TechnologyRegistry interface {
	Prerequisites(id TechID) []Color
	Modifiers(id TechID) []StatModifier
	IsUnitUpgrade(id TechID) (UnitType, bool)
}

// PromissoryNoteRegistry supplies a promissory note's owning faction and
// whether the Alliance note replaces it. The engine only tracks ownership
// and play legality (promissory.go); it applies no note effect of its own.
type PromissoryNoteRegistry interface {
	OwningFaction(noteID string) Faction
	IsReplacedByAlliance(noteID string) bool
}

// StrategyCardSpec describes one of the eight strategy cards: its id and
// initiative number.
type StrategyCardSpec struct {
	ID         string
	Initiative int
}

// StrategyCardRegistry supplies the fixed set of strategy cards available
// in a game.
type StrategyCardRegistry interface {
	AllCards() []StrategyCardSpec
}

// ExplorationCard is one card in a trait-keyed exploration deck.
type ExplorationCard struct {
	ID               string
	Trait            PlanetTrait
	ResourceModifier int
	InfluenceModifier int
	IsRelicFragment  bool
	IsAttachment     bool
}

// ExplorationDeckRegistry supplies the four trait decks plus the relic
// fragment deck; see exploration.go.
type ExplorationDeckRegistry interface {
	Draw(trait PlanetTrait) (ExplorationCard, bool)
	DrawRelic() (string, bool)
}

// AgendaCard is one card in the agenda deck: its kind (law vs directive)
// and the set of outcomes voters may choose among.
type AgendaCard struct {
	ID       string
	IsLaw    bool
	Outcomes []string
}

// AgendaDeckRegistry supplies the agenda deck drawn from during the agenda
// phase.
type AgendaDeckRegistry interface {
	Draw() (AgendaCard, bool)
}

// CardRegistry bundles every pluggable registry a GameState needs. Callers
// construct one implementation and pass it to NewGameState; the engine
// never constructs card content itself.
type CardRegistry struct {
	Units        UnitStatsTable
	Technologies TechnologyRegistry
	Promissory   PromissoryNoteRegistry
	Strategy     StrategyCardRegistry
	Exploration  ExplorationDeckRegistry
	Agendas      AgendaDeckRegistry
}
