package ti4

// CommandTokenPool names one of the three pools a player spends command
// tokens from.
type CommandTokenPool int

const (
	TacticPool CommandTokenPool = iota
	FleetPool
	StrategyPool
)

func (p CommandTokenPool) String() string {
	switch p {
	case TacticPool:
		return "tactic"
	case FleetPool:
		return "fleet"
	case StrategyPool:
		return "strategy"
	default:
		return "unknown"
	}
}

// LeaderState tracks one of a faction's three leader sheet slots.
type LeaderState int

const (
	LeaderLocked LeaderState = iota
	LeaderUnlocked
	LeaderPurged // hero only, discarded after use
)

// Leader is one agent/commander/hero entry on a player's leader sheet.
type Leader struct {
	ID    string
	Kind  string // "agent", "commander", or "hero"
	State LeaderState
}

// CapturedUnit records one unit a player has captured, indexed by the
// unit's original owner; see capture.go for the mechanism.
type CapturedUnit struct {
	OriginalOwner PlayerID
	UnitType      UnitType
}

// Player is one player's state: faction, resources, command-token pools,
// technology set, promissory hand, leader sheet, relic fragments, and
// captured units.
type Player struct {
	ID      PlayerID
	Faction Faction

	TradeGoods      int
	Commodities     int
	CommodityValue  int // ceiling; faction-defined, supplied at construction

	CommandTokens [3]int // indexed by CommandTokenPool

	Technologies []TechID

	PromissoryHand []string // note ids held

	Leaders []Leader

	RelicFragments []PlanetTrait // trait-deck origin of each held fragment

	CapturedUnits []CapturedUnit

	StrategyCards []string // card ids currently held, readied or exhausted
	ExhaustedCards map[string]bool
}

// NewPlayer returns a Player with zeroed resources and the given command
// token starting pools.
func NewPlayer(id PlayerID, faction Faction, commodityValue int, tactic, fleet, strategy int) *Player {
	return &Player{
		ID:             id,
		Faction:        faction,
		CommodityValue: commodityValue,
		CommandTokens:  [3]int{tactic, fleet, strategy},
		ExhaustedCards: make(map[string]bool),
	}
}

// Clone returns a deep copy suitable for inclusion in a new GameState;
// every mutation yields a fresh GameState rather than mutating in place.
func (p *Player) Clone() *Player {
	cp := *p
	cp.Technologies = append([]TechID(nil), p.Technologies...)
	cp.PromissoryHand = append([]string(nil), p.PromissoryHand...)
	cp.Leaders = append([]Leader(nil), p.Leaders...)
	cp.RelicFragments = append([]PlanetTrait(nil), p.RelicFragments...)
	cp.CapturedUnits = append([]CapturedUnit(nil), p.CapturedUnits...)
	cp.StrategyCards = append([]string(nil), p.StrategyCards...)
	cp.ExhaustedCards = make(map[string]bool, len(p.ExhaustedCards))
	for k, v := range p.ExhaustedCards {
		cp.ExhaustedCards[k] = v
	}
	return &cp
}

// HasTechnology reports whether the player has researched id.
func (p *Player) HasTechnology(id TechID) bool {
	for _, t := range p.Technologies {
		if t == id {
			return true
		}
	}
	return false
}

// HoldsPromissoryNote reports whether the player's hand contains noteID.
func (p *Player) HoldsPromissoryNote(noteID string) bool {
	for _, n := range p.PromissoryHand {
		if n == noteID {
			return true
		}
	}
	return false
}

// SpendCommandToken removes one token from pool, returning an error if the
// pool is empty.
func (p *Player) SpendCommandToken(pool CommandTokenPool) error {
	if p.CommandTokens[pool] <= 0 {
		return &ValidationError{Field: "command_tokens", Detail: "no tokens remaining in " + pool.String() + " pool"}
	}
	p.CommandTokens[pool]--
	return nil
}

// GainCommandToken adds one token to pool.
func (p *Player) GainCommandToken(pool CommandTokenPool) {
	p.CommandTokens[pool]++
}

// AddCommodities increments commodities up to the ceiling, converting the
// remainder to trade goods immediately.
func (p *Player) AddCommodities(n int) {
	room := p.CommodityValue - p.Commodities
	if room < 0 {
		room = 0
	}
	toCommodities := n
	if toCommodities > room {
		toCommodities = room
	}
	p.Commodities += toCommodities
	p.TradeGoods += n - toCommodities
}

// ReceiveFromTrade credits n commodities transferred from another player as
// trade goods: a commodity transferred to another player becomes a trade
// good.
func (p *Player) ReceiveFromTrade(commodities int) {
	p.TradeGoods += commodities
}

// HasAnyStrategyCard reports whether the player currently holds at least
// one strategy card.
func (p *Player) HasAnyStrategyCard() bool {
	return len(p.StrategyCards) > 0
}
