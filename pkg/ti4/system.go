package ti4

// System is a single galaxy hex: an optional set of planets, the ordered
// space-area unit list, wormhole token, and frontier-token flag.
type System struct {
	ID            SystemID
	Planets       []*Planet
	SpaceUnits    []Unit
	WormholeToken WormholeType
	HasFrontier   bool

	coord HexCoord
}

// NewSystem returns a System with no planets and an empty space area.
func NewSystem(id SystemID) *System {
	return &System{ID: id}
}

// Clone returns a deep copy of s, including its planets.
func (s *System) Clone() *System {
	c := *s
	c.SpaceUnits = append([]Unit(nil), s.SpaceUnits...)
	c.Planets = make([]*Planet, len(s.Planets))
	for i, p := range s.Planets {
		c.Planets[i] = p.Clone()
	}
	return &c
}

// Planet returns the planet with the given name in this system, or nil.
func (s *System) Planet(name string) *Planet {
	for _, p := range s.Planets {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// UnitsOf returns the space-area units belonging to owner.
func (s *System) UnitsOf(owner PlayerID) []Unit {
	var out []Unit
	for _, u := range s.SpaceUnits {
		if u.Owner == owner {
			out = append(out, u)
		}
	}
	return out
}

// Owners returns the distinct set of players with ships in the space area.
func (s *System) Owners() []PlayerID {
	seen := make(map[PlayerID]bool)
	var out []PlayerID
	for _, u := range s.SpaceUnits {
		if !seen[u.Owner] {
			seen[u.Owner] = true
			out = append(out, u.Owner)
		}
	}
	return out
}

// HasShipsOf reports whether owner has any ship in the space area.
func (s *System) HasShipsOf(owner PlayerID) bool {
	for _, u := range s.SpaceUnits {
		if u.Owner == owner && u.Type.IsShip() {
			return true
		}
	}
	return false
}

// HasEnemyShips reports whether any ship in the space area belongs to a
// player other than owner.
func (s *System) HasEnemyShips(owner PlayerID) bool {
	for _, u := range s.SpaceUnits {
		if u.Owner != owner && u.Type.IsShip() {
			return true
		}
	}
	return false
}
