package ti4

// Planet is a single planet in a system: base resources/influence, attached
// cards, ground units, controller, and exhaustion.
type Planet struct {
	Name          string
	BaseResources int
	BaseInfluence int
	Trait         PlanetTrait
	Legendary     bool

	Attachments  []Attachment
	GroundUnits  []Unit
	ControlledBy PlayerID
	Exhausted    bool
}

// Attachment is an exploration or agenda card permanently modifying the
// planet it is attached to.
type Attachment struct {
	CardID            string
	ResourceModifier  int
	InfluenceModifier int
}

// Clone returns a deep copy of p.
func (p *Planet) Clone() *Planet {
	c := *p
	c.Attachments = append([]Attachment(nil), p.Attachments...)
	c.GroundUnits = append([]Unit(nil), p.GroundUnits...)
	return &c
}

// HasController reports whether the planet currently has a controller.
func (p *Planet) HasController() bool {
	return p.ControlledBy != ""
}

// EffectiveResources returns base resources plus the sum of attachment
// resource modifiers, floored at zero.
func (p *Planet) EffectiveResources() int {
	r := p.BaseResources
	for _, a := range p.Attachments {
		r += a.ResourceModifier
	}
	if r < 0 {
		return 0
	}
	return r
}

// EffectiveInfluence returns base influence plus the sum of attachment
// influence modifiers, floored at zero.
func (p *Planet) EffectiveInfluence() int {
	r := p.BaseInfluence
	for _, a := range p.Attachments {
		r += a.InfluenceModifier
	}
	if r < 0 {
		return 0
	}
	return r
}

// GroundUnitsOf returns the ground units on the planet belonging to owner.
func (p *Planet) GroundUnitsOf(owner PlayerID) []Unit {
	var out []Unit
	for _, u := range p.GroundUnits {
		if u.Owner == owner {
			out = append(out, u)
		}
	}
	return out
}

// HasGroundForces reports whether the planet has any ground unit at all.
func (p *Planet) HasGroundForces() bool {
	return len(p.GroundUnits) > 0
}

// ReconcileControl recomputes ControlledBy from the planet's ground units:
// if ground forces of exactly one owner are present, that owner controls
// the planet; if no ground forces are present, the last controller is
// retained; mixed ownership never occurs because combat resolves it
// before this is called.
func (p *Planet) ReconcileControl() {
	if len(p.GroundUnits) == 0 {
		return
	}
	p.ControlledBy = p.GroundUnits[0].Owner
}

// Attach appends an attachment card to the planet, modifying its effective
// resources/influence until purged.
func (p *Planet) Attach(a Attachment) {
	p.Attachments = append(p.Attachments, a)
}

// Purge removes the attachment with the given card id, if present.
func (p *Planet) Purge(cardID string) {
	for i, a := range p.Attachments {
		if a.CardID == cardID {
			p.Attachments = append(p.Attachments[:i], p.Attachments[i+1:]...)
			return
		}
	}
}

// Ready clears the exhausted flag.
func (p *Planet) Ready() {
	p.Exhausted = false
}

// Exhaust sets the exhausted flag. It is not an error to exhaust an
// already-exhausted planet.
func (p *Planet) Exhaust() {
	p.Exhausted = true
}
