package ti4

// This file implements the technology card specification format: card
// content stays pluggable rather than hardcoded per-technology. A
// TechnologySpec is plain data, and a StaticTechnologyRegistry implements
// TechnologyRegistry by holding a slice of specs supplied at construction.

// TechnologySpec is one technology's full definition: color,
// prerequisites, stat modifiers it grants, and an optional ability hooked
// into the timing engine.
type TechnologySpec struct {
	ID             TechID
	Name           string
	Color          Color
	Prerequisites  []Color
	UnitUpgrade    UnitType
	IsUnitUpgrade  bool
	Modifiers      []StatModifier
	Ability        *Ability
}

// StaticTechnologyRegistry is a TechnologyRegistry backed by a fixed slice
// of TechnologySpec.
type StaticTechnologyRegistry struct {
	specs map[TechID]TechnologySpec
}

// NewStaticTechnologyRegistry builds a registry from specs.
func NewStaticTechnologyRegistry(specs []TechnologySpec) *StaticTechnologyRegistry {
	r := &StaticTechnologyRegistry{specs: make(map[TechID]TechnologySpec, len(specs))}
	for _, s := range specs {
		r.specs[s.ID] = s
	}
	return r
}

func (r *StaticTechnologyRegistry) Prerequisites(id TechID) []Color {
	return r.specs[id].Prerequisites
}

func (r *StaticTechnologyRegistry) Modifiers(id TechID) []StatModifier {
	return r.specs[id].Modifiers
}

func (r *StaticTechnologyRegistry) IsUnitUpgrade(id TechID) (UnitType, bool) {
	spec, ok := r.specs[id]
	if !ok || !spec.IsUnitUpgrade {
		return 0, false
	}
	return spec.UnitUpgrade, true
}

// Spec returns the full specification for id, if registered.
func (r *StaticTechnologyRegistry) Spec(id TechID) (TechnologySpec, bool) {
	spec, ok := r.specs[id]
	return spec, ok
}
