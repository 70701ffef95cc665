// Package ti4 implements the core rules engine of a Twilight Imperium 4th
// Edition simulator: galaxy topology, unit lifecycles, tactical and
// strategic actions, combat resolution, agenda politics, transactions, and
// the four-phase round loop.
package ti4

import "fmt"

// Faction identifies one of the playable TI4 factions. Card content (faction
// abilities, starting units) is supplied externally via a CardRegistry; the
// engine only needs the identity to key player state and modifiers.
type Faction string

// PlayerID identifies a player within a single GameState.
type PlayerID string

// UnitType enumerates the physical unit classes the engine understands.
type UnitType int

const (
	Fighter UnitType = iota
	Infantry
	Cruiser
	Destroyer
	Carrier
	Dreadnought
	WarSun
	Flagship
	PDS
	SpaceDock
)

func (u UnitType) String() string {
	switch u {
	case Fighter:
		return "fighter"
	case Infantry:
		return "infantry"
	case Cruiser:
		return "cruiser"
	case Destroyer:
		return "destroyer"
	case Carrier:
		return "carrier"
	case Dreadnought:
		return "dreadnought"
	case WarSun:
		return "war_sun"
	case Flagship:
		return "flagship"
	case PDS:
		return "pds"
	case SpaceDock:
		return "space_dock"
	default:
		return "unknown"
	}
}

// IsGroundForce returns true for units that occupy planets rather than space.
func (u UnitType) IsGroundForce() bool {
	return u == Infantry
}

// IsShip returns true for units that occupy the space area of a system.
func (u UnitType) IsShip() bool {
	switch u {
	case Fighter, Cruiser, Destroyer, Carrier, Dreadnought, WarSun, Flagship:
		return true
	default:
		return false
	}
}

// IsStructure returns true for stationary production/defense units.
func (u UnitType) IsStructure() bool {
	return u == PDS || u == SpaceDock
}

// Color is a technology prerequisite color.
type Color int

const (
	Blue Color = iota
	Green
	Yellow
	Red
	NoColor // unit-upgrade technologies carry no prerequisite color
)

func (c Color) String() string {
	switch c {
	case Blue:
		return "blue"
	case Green:
		return "green"
	case Yellow:
		return "yellow"
	case Red:
		return "red"
	default:
		return "none"
	}
}

// Phase enumerates the round-loop phases.
// Strategy/Action/Status/Agenda are the four named phases; the round loop
// visits Strategy, Action (repeated turns), Status, and conditionally Agenda.
type Phase int

const (
	PhaseStrategy Phase = iota
	PhaseAction
	PhaseStatus
	PhaseAgenda
)

func (p Phase) String() string {
	switch p {
	case PhaseStrategy:
		return "strategy"
	case PhaseAction:
		return "action"
	case PhaseStatus:
		return "status"
	case PhaseAgenda:
		return "agenda"
	default:
		return "unknown"
	}
}

// TechID identifies a technology. Technology bodies (prerequisites,
// abilities) live in a TechnologyRegistry; the engine only stores which ids
// a player has researched.
type TechID string

// WormholeType enumerates the matching wormhole token types. Two systems
// with matching wormhole types are adjacent regardless of hex distance.
type WormholeType int

const (
	NoWormhole WormholeType = iota
	AlphaWormhole
	BetaWormhole
	GammaWormhole
	DeltaWormhole
)

func (w WormholeType) String() string {
	switch w {
	case AlphaWormhole:
		return "alpha"
	case BetaWormhole:
		return "beta"
	case GammaWormhole:
		return "gamma"
	case DeltaWormhole:
		return "delta"
	default:
		return "none"
	}
}

// PlanetTrait enumerates exploration-deck keys.
type PlanetTrait int

const (
	NoTrait PlanetTrait = iota
	Cultural
	Hazardous
	Industrial
	Frontier // not a planet trait but shares the deck-selection mechanism
)

func (t PlanetTrait) String() string {
	switch t {
	case Cultural:
		return "cultural"
	case Hazardous:
		return "hazardous"
	case Industrial:
		return "industrial"
	case Frontier:
		return "frontier"
	default:
		return "none"
	}
}

// SystemID identifies a system within a Galaxy.
type SystemID string

// HexCoord is an axial hex coordinate (q, r). Two coordinates are physical
// hex-neighbors iff their axial difference is one of the six unit vectors.
type HexCoord struct {
	Q int
	R int
}

func (h HexCoord) String() string {
	return fmt.Sprintf("(%d,%d)", h.Q, h.R)
}

var hexNeighborOffsets = [6]HexCoord{
	{Q: 1, R: 0}, {Q: 1, R: -1}, {Q: 0, R: -1},
	{Q: -1, R: 0}, {Q: -1, R: 1}, {Q: 0, R: 1},
}

// Neighbors returns the six axial coordinates physically adjacent to h.
func (h HexCoord) Neighbors() [6]HexCoord {
	var out [6]HexCoord
	for i, off := range hexNeighborOffsets {
		out[i] = HexCoord{Q: h.Q + off.Q, R: h.R + off.R}
	}
	return out
}

// IsPhysicalNeighbor reports whether other is one of h's six hex-neighbors.
func (h HexCoord) IsPhysicalNeighbor(other HexCoord) bool {
	for _, n := range h.Neighbors() {
		if n == other {
			return true
		}
	}
	return false
}
