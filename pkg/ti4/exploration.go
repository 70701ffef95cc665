package ti4

// This file implements exploration: drawing from one of four trait-keyed
// decks when a ground force lands on, or a space unit arrives at, a
// planet/space area matching that trait, plus relic fragment accumulation.
// Deck bodies are data supplied through the ExplorationDeckRegistry
// protocol rather than embedded here.

// ExplorationResult is the outcome of exploring one planet.
type ExplorationResult struct {
	Triggered         bool
	DeckUsed          PlanetTrait
	CardDrawn         ExplorationCard
	CardDiscarded     bool
	CardAttached      bool
	RelicFragmentGained bool
}

// Explore draws one card from the deck matching planet's trait and
// resolves it: an attachment card attaches permanently, a relic-fragment
// card is added to player's held fragments, anything else is resolved by
// the caller and discarded. A traitless planet never advances any deck.
func Explore(state *GameState, player PlayerID, system SystemID, planetName string) (*GameState, ExplorationResult, error) {
	sys := state.Galaxy.System(system)
	if sys == nil {
		return nil, ExplorationResult{}, &ValidationError{Field: "system", Detail: "unknown system " + string(system)}
	}
	planet := sys.Planet(planetName)
	if planet == nil {
		return nil, ExplorationResult{}, &ValidationError{Field: "planet", Detail: "unknown planet " + planetName}
	}
	if planet.Trait == NoTrait {
		return state.Clone(), ExplorationResult{}, nil
	}
	if state.Cards.Exploration == nil {
		return state.Clone(), ExplorationResult{}, nil
	}

	card, ok := state.Cards.Exploration.Draw(planet.Trait)
	if !ok {
		return state.Clone(), ExplorationResult{Triggered: true, DeckUsed: planet.Trait}, nil
	}

	next := state.Clone()
	nextPlanet := next.Galaxy.System(system).Planet(planetName)
	result := ExplorationResult{Triggered: true, DeckUsed: planet.Trait, CardDrawn: card}

	switch {
	case card.IsAttachment:
		nextPlanet.Attach(Attachment{
			CardID:            card.ID,
			ResourceModifier:  card.ResourceModifier,
			InfluenceModifier: card.InfluenceModifier,
		})
		result.CardAttached = true
	case card.IsRelicFragment:
		p := next.Player(player)
		if p == nil {
			return nil, ExplorationResult{}, &ValidationError{Field: "player", Detail: "unknown player " + string(player)}
		}
		p.RelicFragments = append(p.RelicFragments, planet.Trait)
		result.RelicFragmentGained = true
	default:
		result.CardDiscarded = true
	}

	return next, result, nil
}

// PurgeRelicFragmentsForRelic removes count fragments of the given trait
// from player's hand and draws one relic from the registry, the standard
// purge-fragments-to-draw-a-relic effect.
func PurgeRelicFragmentsForRelic(state *GameState, player PlayerID, trait PlanetTrait, count int) (*GameState, string, error) {
	p := state.Player(player)
	if p == nil {
		return nil, "", &ValidationError{Field: "player", Detail: "unknown player " + string(player)}
	}
	have := 0
	for _, f := range p.RelicFragments {
		if f == trait {
			have++
		}
	}
	if have < count {
		return nil, "", &ValidationError{Field: "relic_fragments", Detail: "insufficient fragments of this trait"}
	}
	if state.Cards.Exploration == nil {
		return nil, "", &ValidationError{Field: "exploration", Detail: "no exploration registry configured"}
	}
	relicID, ok := state.Cards.Exploration.DrawRelic()
	if !ok {
		return state.Clone(), "", nil
	}

	next := state.Clone()
	nextPlayer := next.Player(player)
	remaining := count
	var kept []PlanetTrait
	for _, f := range nextPlayer.RelicFragments {
		if f == trait && remaining > 0 {
			remaining--
			continue
		}
		kept = append(kept, f)
	}
	nextPlayer.RelicFragments = kept

	return next, relicID, nil
}
