package ti4

import "sort"

// Timing names the window in which an ability may fire. The zero value is
// TimingCannot so a forgotten field defaults to the most restrictive window
// rather than the least.
type Timing int

const (
	TimingCannot Timing = iota
	TimingWhen
	TimingBefore
	TimingAfter
	TimingStartOfTurn
	TimingEndOfTurn
	TimingStartOfPhase
	TimingEndOfPhase
)

func (t Timing) String() string {
	switch t {
	case TimingCannot:
		return "cannot"
	case TimingWhen:
		return "when"
	case TimingBefore:
		return "before"
	case TimingAfter:
		return "after"
	case TimingStartOfTurn:
		return "start_of_turn"
	case TimingEndOfTurn:
		return "end_of_turn"
	case TimingStartOfPhase:
		return "start_of_phase"
	case TimingEndOfPhase:
		return "end_of_phase"
	default:
		return "unknown"
	}
}

// Frequency limits how often an ability may fire for the same triggering
// event identity.
type Frequency int

const (
	FrequencyUnlimited Frequency = iota
	FrequencyOncePerTrigger
)

// Condition is a predicate over (player, game_state, context) that must
// hold for an ability to trigger.
type Condition func(player PlayerID, state *GameState, ctx EventContext) bool

// EffectFunc applies an ability's consequence to state, returning the
// mutated state (by convention, a fresh GameState rather than one mutated
// in place) or an error if a mandatory ability could not be applied.
type EffectFunc func(state *GameState, player PlayerID, ctx EventContext) (*GameState, error)

// EventContext carries the event name and any event-specific data an
// ability's conditions/effect need to inspect.
type EventContext struct {
	Event  string
	System SystemID
	Data   map[string]any
}

// Ability is a single registered rules-text entry.
type Ability struct {
	SourceID   string
	Name       string
	Trigger    string
	Timing     Timing
	Conditions []Condition
	Effect     EffectFunc
	Mandatory  bool
	Frequency  Frequency
	EnactedRound int // used to break cannot-vs-cannot ties; later wins
}

// binding identifies an ability for duplicate-registration rejection:
// a second registration with the same source, name, and trigger is rejected.
type binding struct {
	source, name, trigger string
}

// AbilityEngine registers abilities and dispatches triggered resolution as a
// deterministic multi-pass process over a fixed ordering.
type AbilityEngine struct {
	abilities []Ability
	seen      map[binding]bool
	fired     map[string]bool // "sourceID|name|triggerIdentity" for FrequencyOncePerTrigger
}

// NewAbilityEngine returns an empty engine.
func NewAbilityEngine() *AbilityEngine {
	return &AbilityEngine{
		seen:  make(map[binding]bool),
		fired: make(map[string]bool),
	}
}

// Register adds ability to the engine. It is rejected if an ability with
// the same source, name, and trigger is already registered.
func (e *AbilityEngine) Register(a Ability) error {
	b := binding{source: a.SourceID, name: a.Name, trigger: a.Trigger}
	if e.seen[b] {
		return &ValidationError{Field: "ability", Detail: "duplicate registration for " + a.SourceID + "/" + a.Name + "/" + a.Trigger}
	}
	e.seen[b] = true
	e.abilities = append(e.abilities, a)
	return nil
}

// ResolutionOrder returns the abilities registered for trigger, in
// deterministic order: all `cannot` abilities, then `when` (active player
// first), then `before`, then `after`. The event's own resolution sits
// implicitly between
// `before` and `after` and is not represented here; callers insert it.
func (e *AbilityEngine) ResolutionOrder(trigger string, activePlayer PlayerID, playerOrder []PlayerID) []Ability {
	var matching []Ability
	for _, a := range e.abilities {
		if a.Trigger == trigger {
			matching = append(matching, a)
		}
	}

	rank := func(t Timing) int {
		switch t {
		case TimingCannot:
			return 0
		case TimingWhen:
			return 1
		case TimingBefore:
			return 2
		default:
			return 3
		}
	}

	playerRank := clockwiseRank(activePlayer, playerOrder)

	sort.SliceStable(matching, func(i, j int) bool {
		ri, rj := rank(matching[i].Timing), rank(matching[j].Timing)
		if ri != rj {
			return ri < rj
		}
		return playerRank[matching[i].SourceID] < playerRank[matching[j].SourceID]
	})
	return matching
}

func clockwiseRank(start PlayerID, order []PlayerID) map[string]int {
	rank := make(map[string]int, len(order))
	startIdx := 0
	for i, p := range order {
		if p == start {
			startIdx = i
			break
		}
	}
	for i, p := range order {
		pos := (i - startIdx + len(order)) % len(order)
		rank[string(p)] = pos
	}
	return rank
}

// Resolution is the outcome of Trigger: the abilities that actually fired,
// whether a `cannot` ability blocked the event, and the resulting state.
type Resolution struct {
	Fired   []Ability
	Blocked bool
	State   *GameState
}

// Trigger dispatches trigger over state given ctx, applying every
// condition-satisfying ability in ResolutionOrder honoring `cannot`
// blocking: if any fires successfully, the event is blocked and no further
// abilities run.
func (e *AbilityEngine) Trigger(state *GameState, trigger string, ctx EventContext, activePlayer PlayerID, playerOrder []PlayerID) (Resolution, error) {
	ordered := e.ResolutionOrder(trigger, activePlayer, playerOrder)
	res := Resolution{State: state}

	for _, a := range ordered {
		if !e.conditionsHold(a, activePlayer, state, ctx) {
			continue
		}
		if a.Frequency == FrequencyOncePerTrigger {
			key := a.SourceID + "|" + a.Name + "|" + ctx.Event
			if e.fired[key] {
				continue
			}
		}

		if a.Timing == TimingCannot {
			res.Blocked = true
			res.Fired = append(res.Fired, a)
			e.markFired(a, ctx)
			return res, nil
		}

		next, err := a.Effect(res.State, activePlayer, ctx)
		if err != nil {
			if a.Mandatory {
				return res, &AbilityExecutionError{AbilityID: a.SourceID + "/" + a.Name, Cause: err}
			}
			continue
		}
		res.State = next
		res.Fired = append(res.Fired, a)
		e.markFired(a, ctx)
	}
	return res, nil
}

func (e *AbilityEngine) markFired(a Ability, ctx EventContext) {
	if a.Frequency == FrequencyOncePerTrigger {
		e.fired[a.SourceID+"|"+a.Name+"|"+ctx.Event] = true
	}
}

func (e *AbilityEngine) conditionsHold(a Ability, player PlayerID, state *GameState, ctx EventContext) bool {
	for _, c := range a.Conditions {
		if !c(player, state, ctx) {
			return false
		}
	}
	return true
}

// ResolveCannotConflict picks the winner between two conflicting `cannot`
// abilities: higher specificity first (law > card > technology), ties
// broken by later enactment round.
func ResolveCannotConflict(a, b Ability, specificity map[string]int) Ability {
	sa, sb := specificity[a.SourceID], specificity[b.SourceID]
	if sa != sb {
		if sa > sb {
			return a
		}
		return b
	}
	if a.EnactedRound >= b.EnactedRound {
		return a
	}
	return b
}

// Condition library.

// HasShipsInSystem returns a Condition satisfied when player has at least
// one ship in the system named by ctx.System.
func HasShipsInSystem() Condition {
	return func(player PlayerID, state *GameState, ctx EventContext) bool {
		sys := state.Galaxy.System(ctx.System)
		if sys == nil {
			return false
		}
		return sys.HasShipsOf(player)
	}
}

// ControlsPlanet returns a Condition satisfied when player controls the
// planet named by ctx.Data["planet"] in the system named by ctx.System.
func ControlsPlanet() Condition {
	return func(player PlayerID, state *GameState, ctx EventContext) bool {
		sys := state.Galaxy.System(ctx.System)
		if sys == nil {
			return false
		}
		name, _ := ctx.Data["planet"].(string)
		p := sys.Planet(name)
		return p != nil && p.ControlledBy == player
	}
}

// SystemContainsFrontier returns a Condition satisfied when ctx.System
// currently carries a frontier token.
func SystemContainsFrontier() Condition {
	return func(player PlayerID, state *GameState, ctx EventContext) bool {
		sys := state.Galaxy.System(ctx.System)
		return sys != nil && sys.HasFrontier
	}
}

// HasTechnologyOfColor returns a Condition satisfied when player has
// researched at least one technology with the given prerequisite color.
func HasTechnologyOfColor(color Color) Condition {
	return func(player PlayerID, state *GameState, ctx EventContext) bool {
		p := state.Player(player)
		if p == nil || state.Cards.Technologies == nil {
			return false
		}
		for _, t := range p.Technologies {
			for _, c := range state.Cards.Technologies.Prerequisites(t) {
				if c == color {
					return true
				}
			}
		}
		return false
	}
}

// DuringCombat returns a Condition satisfied when ctx is firing at the
// start-of-space-combat timing window tactical.go raises, or carries an
// explicit combat round marker in ctx.Data for ground combat callers.
func DuringCombat() Condition {
	return func(player PlayerID, state *GameState, ctx EventContext) bool {
		if ctx.Event == WindowStartOfSpaceCombat {
			return true
		}
		_, ok := ctx.Data["combat_round"]
		return ok
	}
}

// DuringTacticalAction returns a Condition satisfied when ctx is firing at
// any of the timing windows the tactical action pipeline raises.
func DuringTacticalAction() Condition {
	return func(player PlayerID, state *GameState, ctx EventContext) bool {
		switch ctx.Event {
		case WindowAfterActivation, WindowAfterMovement, WindowStartOfSpaceCombat, WindowBeforeInvasion, WindowBeforeProduction:
			return true
		default:
			return false
		}
	}
}

// ControlsLegendaryPlanet returns a Condition satisfied when player
// controls at least one planet flagged Legendary.
func ControlsLegendaryPlanet() Condition {
	return func(player PlayerID, state *GameState, ctx EventContext) bool {
		for _, sys := range state.Galaxy.AllSystems() {
			for _, p := range sys.Planets {
				if p.Legendary && p.ControlledBy == player {
					return true
				}
			}
		}
		return false
	}
}
