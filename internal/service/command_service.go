package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"

	"github.com/freeeve/ti4engine/internal/content"
	"github.com/freeeve/ti4engine/internal/model"
	"github.com/freeeve/ti4engine/internal/repository"
	"github.com/freeeve/ti4engine/pkg/ti4"
)

// mathRandRoller is the production ti4.DiceRoller: tests inject a fixed
// roller instead, so combat resolution stays deterministic under test.
type mathRandRoller struct{}

func (mathRandRoller) Roll() int {
	return rand.Intn(10) + 1
}

var productionDiceRoller ti4.DiceRoller = mathRandRoller{}

var (
	ErrNoActivePhase       = errors.New("no active phase")
	ErrUnknownCommand      = errors.New("unknown command kind")
	ErrTransactionID       = errors.New("transaction_id is required")
	ErrUnknownTacticalStep = errors.New("unknown tactical action step")
)

// agendaTallyKey is the pseudo-player id CommandService uses to stash the
// in-progress agenda vote tally in the pending-command cache, so it resets
// along with every other per-phase cache entry on ClearPhaseData.
const agendaTallyKey = "_agenda_tally"

// CommandService applies a single submitted command to the live GameState
// immediately: the action phase is turn-based, so each command commits as
// soon as it is validated, rather than buffering a whole phase's commands
// for simultaneous resolution.
type CommandService struct {
	gameRepo    repository.GameRepository
	phaseRepo   repository.PhaseRepository
	cache       repository.GameCache
	broadcaster Broadcaster
}

// NewCommandService creates a CommandService.
func NewCommandService(gameRepo repository.GameRepository, phaseRepo repository.PhaseRepository, cache repository.GameCache, broadcaster Broadcaster) *CommandService {
	if broadcaster == nil {
		broadcaster = NoopBroadcaster{}
	}
	return &CommandService{gameRepo: gameRepo, phaseRepo: phaseRepo, cache: cache, broadcaster: broadcaster}
}

// agendaTallyRecord is the cached state of an in-progress agenda vote: the
// drawn card, the running influence tally, and which players have voted.
type agendaTallyRecord struct {
	Card  ti4.AgendaCard  `json:"card"`
	Tally ti4.AgendaTally `json:"tally"`
	Voted map[string]bool `json:"voted"`
}

// SubmitCommand validates and applies one player command against the
// game's current phase, persisting the resulting state and a Command
// audit row, and broadcasting the outcome.
func (s *CommandService) SubmitCommand(ctx context.Context, gameID, userID, kindStr string, payload map[string]any) (*model.Command, error) {
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, ErrGameNotFound
	}
	if game.Status != "active" {
		return nil, ErrGameNotActive
	}
	if !gamePlayerExists(game, userID) {
		return nil, ErrNotInGame
	}

	phase, err := s.phaseRepo.CurrentPhase(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if phase == nil {
		return nil, ErrNoActivePhase
	}

	kind, err := parseCommandKind(kindStr)
	if err != nil {
		return nil, err
	}

	state, err := s.loadState(ctx, gameID, phase)
	if err != nil {
		return nil, err
	}

	player := ti4.PlayerID(userID)
	if err := ti4.ValidateCommandPhase(state, kind); err != nil {
		return nil, err
	}
	if commandRequiresActivePlayer(kind) {
		if err := ti4.ValidateTurnOrder(state, player); err != nil {
			return nil, err
		}
	}

	next, description, err := s.dispatch(ctx, gameID, state, player, kind, payload)
	if err != nil {
		return nil, err
	}

	coordinator := ti4.NewStrategyCardCoordinator()
	controller := ti4.NewPhaseController()

	next = applyEliminations(next, coordinator)
	switch {
	case kind == ti4.CommandSelectStrategyCard:
		if selector := nextStrategySelector(next); selector != "" {
			next = next.Clone()
			next.ActivePlayer = selector
		}
	case commandEndsTurn(kind):
		next = controller.AdvanceTurn(next, aliveSurvivors(next))
	}
	gameOver := controller.IsGameOver(next)

	stateJSON, err := json.Marshal(next)
	if err != nil {
		return nil, fmt.Errorf("marshal game state: %w", err)
	}
	if err := s.cache.SetGameState(ctx, gameID, stateJSON); err != nil {
		return nil, fmt.Errorf("cache game state: %w", err)
	}

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal command payload: %w", err)
	}
	cmd := model.Command{PhaseID: phase.ID, PlayerID: userID, Kind: kindStr, Payload: payloadJSON, Result: description}
	if err := s.phaseRepo.SaveCommands(ctx, []model.Command{cmd}); err != nil {
		return nil, fmt.Errorf("save command: %w", err)
	}

	s.broadcaster.BroadcastGameEvent(gameID, "command_applied", map[string]any{
		"kind":        kindStr,
		"player":      userID,
		"description": description,
	})

	if gameOver {
		winner := ""
		for _, p := range next.Players {
			if !ti4.IsEliminated(next, p.ID) {
				winner = string(p.ID)
				break
			}
		}
		if err := s.gameRepo.SetFinished(ctx, gameID, winner); err != nil {
			return nil, fmt.Errorf("finish game: %w", err)
		}
		s.broadcaster.BroadcastGameEvent(gameID, "game_over", map[string]any{"winner": winner})
	}

	return &cmd, nil
}

// loadState retrieves the live cached GameState, falling back to the
// current phase's stored pre-command snapshot, and reattaches the
// standard-game card content (never itself persisted).
func (s *CommandService) loadState(ctx context.Context, gameID string, phase *model.Phase) (*ti4.GameState, error) {
	raw, err := s.cache.GetGameState(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("get cached game state: %w", err)
	}
	if raw == nil {
		raw = phase.StateBefore
	}
	var state ti4.GameState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("unmarshal game state: %w", err)
	}
	state.Cards = content.NewStandardCardRegistry()
	return &state, nil
}

// dispatch routes kind to the pkg/ti4 operation it names, decoding payload
// into the shape that operation expects.
func (s *CommandService) dispatch(ctx context.Context, gameID string, state *ti4.GameState, player ti4.PlayerID, kind ti4.CommandKind, payload map[string]any) (*ti4.GameState, string, error) {
	switch kind {
	case ti4.CommandProposeTransaction:
		return s.dispatchProposeTransaction(state, player, payload)
	case ti4.CommandAcceptTransaction:
		return s.dispatchAcceptTransaction(state, payload)
	case ti4.CommandRejectTransaction:
		return s.dispatchRejectTransaction(state, payload)
	case ti4.CommandCancelTransaction:
		return s.dispatchCancelTransaction(state, player, payload)
	case ti4.CommandSelectStrategyCard:
		return s.dispatchSelectStrategyCard(state, player, payload)
	case ti4.CommandTakeStrategicAction:
		return s.dispatchTakeStrategicAction(state, player, payload)
	case ti4.CommandTakeTacticalAction:
		return s.dispatchTakeTacticalAction(state, player, payload)
	case ti4.CommandTakeComponentAction:
		return state, "component action noted; card-specific resolution is not modeled", nil
	case ti4.CommandPassTurn:
		return state, string(player) + " passed", nil
	case ti4.CommandVoteOnAgenda:
		return s.dispatchVoteOnAgenda(ctx, gameID, state, player, payload)
	case ti4.CommandSetSpeaker:
		return s.dispatchSetSpeaker(state, player, payload)
	default:
		return nil, "", ErrUnknownCommand
	}
}

type bundlePayload struct {
	TradeGoods      int      `json:"trade_goods"`
	Commodities     int      `json:"commodities"`
	PromissoryNotes []string `json:"promissory_notes"`
	RelicFragments  []int    `json:"relic_fragments"`
}

func (b bundlePayload) toBundle() ti4.TransactionBundle {
	traits := make([]ti4.PlanetTrait, len(b.RelicFragments))
	for i, t := range b.RelicFragments {
		traits[i] = ti4.PlanetTrait(t)
	}
	return ti4.TransactionBundle{
		TradeGoods:      b.TradeGoods,
		Commodities:     b.Commodities,
		PromissoryNotes: b.PromissoryNotes,
		RelicFragments:  traits,
	}
}

type transactionPayload struct {
	TransactionID string        `json:"transaction_id"`
	Target        string        `json:"target"`
	Offer         bundlePayload `json:"offer"`
	Request       bundlePayload `json:"request"`
}

func (s *CommandService) dispatchProposeTransaction(state *ti4.GameState, player ti4.PlayerID, payload map[string]any) (*ti4.GameState, string, error) {
	var p transactionPayload
	if err := decodePayload(payload, &p); err != nil {
		return nil, "", err
	}
	if p.TransactionID == "" {
		return nil, "", ErrTransactionID
	}
	mgr := ti4.NewTransactionManager()
	next, err := mgr.Propose(state, p.TransactionID, player, ti4.PlayerID(p.Target), p.Offer.toBundle(), p.Request.toBundle())
	if err != nil {
		return nil, "", err
	}
	return next, "proposed transaction " + p.TransactionID, nil
}

func (s *CommandService) dispatchAcceptTransaction(state *ti4.GameState, payload map[string]any) (*ti4.GameState, string, error) {
	var p transactionPayload
	if err := decodePayload(payload, &p); err != nil {
		return nil, "", err
	}
	if p.TransactionID == "" {
		return nil, "", ErrTransactionID
	}
	mgr := ti4.NewTransactionManager()
	next, err := mgr.Accept(state, p.TransactionID)
	if err != nil {
		return nil, "", err
	}
	return next, "accepted transaction " + p.TransactionID, nil
}

func (s *CommandService) dispatchRejectTransaction(state *ti4.GameState, payload map[string]any) (*ti4.GameState, string, error) {
	var p transactionPayload
	if err := decodePayload(payload, &p); err != nil {
		return nil, "", err
	}
	if p.TransactionID == "" {
		return nil, "", ErrTransactionID
	}
	mgr := ti4.NewTransactionManager()
	next, err := mgr.Reject(state, p.TransactionID)
	if err != nil {
		return nil, "", err
	}
	return next, "rejected transaction " + p.TransactionID, nil
}

func (s *CommandService) dispatchCancelTransaction(state *ti4.GameState, player ti4.PlayerID, payload map[string]any) (*ti4.GameState, string, error) {
	var p transactionPayload
	if err := decodePayload(payload, &p); err != nil {
		return nil, "", err
	}
	if p.TransactionID == "" {
		return nil, "", ErrTransactionID
	}
	mgr := ti4.NewTransactionManager()
	next, err := mgr.Cancel(state, p.TransactionID, player)
	if err != nil {
		return nil, "", err
	}
	return next, "cancelled transaction " + p.TransactionID, nil
}

type cardIDPayload struct {
	CardID string `json:"card_id"`
}

func (s *CommandService) dispatchSelectStrategyCard(state *ti4.GameState, player ti4.PlayerID, payload map[string]any) (*ti4.GameState, string, error) {
	var p cardIDPayload
	if err := decodePayload(payload, &p); err != nil {
		return nil, "", err
	}
	coordinator := ti4.NewStrategyCardCoordinator()
	next, err := coordinator.SelectStrategyCard(state, player, p.CardID)
	if err != nil {
		return nil, "", err
	}
	return next, string(player) + " selected " + p.CardID, nil
}

// noopPrimaryEffect stands in for the card-specific primary ability a real
// strategy card would resolve; card bodies are caller-supplied content this
// package does not model, so the default is a no-op that still exhausts
// the card.
func noopPrimaryEffect(state *ti4.GameState, player ti4.PlayerID, ctx ti4.EventContext) (*ti4.GameState, error) {
	return state.Clone(), nil
}

func (s *CommandService) dispatchTakeStrategicAction(state *ti4.GameState, player ti4.PlayerID, payload map[string]any) (*ti4.GameState, string, error) {
	var p cardIDPayload
	if err := decodePayload(payload, &p); err != nil {
		return nil, "", err
	}
	coordinator := ti4.NewStrategyCardCoordinator()
	next, err := coordinator.TakeStrategicAction(state, player, p.CardID, noopPrimaryEffect)
	if err != nil {
		return nil, "", err
	}
	return next, string(player) + " resolved the primary ability of " + p.CardID, nil
}

type movePayload struct {
	UnitID        string `json:"unit_id"`
	From          string `json:"from"`
	To            string `json:"to"`
	TransportedBy string `json:"transported_by"`
}

type tacticalActionPayload struct {
	Step     string        `json:"step"`
	System   string        `json:"system"`
	Moves    []movePayload `json:"moves"`
	UnitType string        `json:"unit_type"`
	UnitID   string        `json:"unit_id"`
	Planet   string        `json:"planet"`
	UnitIDs  []string      `json:"unit_ids"`
}

func (s *CommandService) dispatchTakeTacticalAction(state *ti4.GameState, player ti4.PlayerID, payload map[string]any) (*ti4.GameState, string, error) {
	var p tacticalActionPayload
	if err := decodePayload(payload, &p); err != nil {
		return nil, "", err
	}

	switch p.Step {
	case "activate":
		next, err := ti4.ActivateSystem(state, player, ti4.SystemID(p.System))
		if err != nil {
			return nil, "", err
		}
		return next, string(player) + " activated " + p.System, nil

	case "move":
		moves := make([]ti4.UnitMove, len(p.Moves))
		for i, m := range p.Moves {
			moves[i] = ti4.UnitMove{
				UnitID:        m.UnitID,
				From:          ti4.SystemID(m.From),
				To:            ti4.SystemID(m.To),
				TransportedBy: m.TransportedBy,
			}
		}
		plan := ti4.MovementPlan{ActivatedSystem: ti4.SystemID(p.System), Moves: moves}
		next, err := ti4.ExecuteMovementPlan(state, plan)
		if err != nil {
			return nil, "", err
		}
		result := ti4.TacticalActionResult{
			MovementExecuted:           true,
			SpaceCannonOffensePossible: ti4.SpaceCannonOffensePossible(next, ti4.SystemID(p.System), player),
			BombardmentPossible:        ti4.BombardmentPossible(next, ti4.SystemID(p.System), player),
			ProductionPossible:         ti4.ProductionPossible(next, ti4.SystemID(p.System), player),
		}
		return next, describeTacticalResult(fmt.Sprintf("%s executed %d move(s) into %s", player, len(moves), p.System), result), nil

	case "combat":
		next, combatResult, err := ti4.ResolveSpaceCombat(state, productionDiceRoller, ti4.SystemID(p.System), player)
		if err != nil {
			return nil, "", err
		}
		result := ti4.TacticalActionResult{SpaceCombat: combatResult}
		return next, describeTacticalResult(fmt.Sprintf("%s resolved space combat in %s", player, p.System), result), nil

	case "invade":
		next, combatResult, err := ti4.InvadePlanet(state, productionDiceRoller, player, ti4.SystemID(p.System), p.Planet, p.UnitIDs)
		if err != nil {
			return nil, "", err
		}
		result := ti4.TacticalActionResult{SpaceCombat: combatResult}
		return next, describeTacticalResult(fmt.Sprintf("%s invaded %s in %s", player, p.Planet, p.System), result), nil

	case "build":
		unitType, err := parseUnitType(p.UnitType)
		if err != nil {
			return nil, "", err
		}
		next, err := ti4.BuildUnit(state, player, ti4.SystemID(p.System), unitType, p.UnitID)
		if err != nil {
			return nil, "", err
		}
		return next, string(player) + " built a " + p.UnitType + " in " + p.System, nil

	default:
		return nil, "", ErrUnknownTacticalStep
	}
}

// describeTacticalResult appends result's JSON encoding to summary, giving
// callers the full TacticalActionResult (space combat outcome, which
// windows remain possible) alongside the human-readable description
// stored in the command audit row.
func describeTacticalResult(summary string, result ti4.TacticalActionResult) string {
	encoded, err := json.Marshal(result)
	if err != nil {
		return summary
	}
	return summary + " " + string(encoded)
}

type agendaVotePlanetPayload struct {
	System string `json:"system"`
	Planet string `json:"planet"`
}

type agendaVotePayload struct {
	Outcome string                    `json:"outcome"`
	Planets []agendaVotePlanetPayload `json:"planets"`
}

func (s *CommandService) dispatchVoteOnAgenda(ctx context.Context, gameID string, state *ti4.GameState, player ti4.PlayerID, payload map[string]any) (*ti4.GameState, string, error) {
	var p agendaVotePayload
	if err := decodePayload(payload, &p); err != nil {
		return nil, "", err
	}

	rec, err := loadAgendaTally(ctx, s.cache, gameID, state)
	if err != nil {
		return nil, "", err
	}
	if rec.Voted[string(player)] {
		return nil, "", fmt.Errorf("%s has already voted on %s", player, rec.Card.ID)
	}

	vote := ti4.AgendaVote{Player: player, Outcome: p.Outcome}
	for _, pl := range p.Planets {
		vote.Planets = append(vote.Planets, struct {
			System ti4.SystemID
			Planet string
		}{System: ti4.SystemID(pl.System), Planet: pl.Planet})
	}

	runner := ti4.NewAgendaPhaseRunner()
	next, err := runner.CastVote(state, &rec.Tally, rec.Card, vote)
	if err != nil {
		return nil, "", err
	}
	rec.Voted[string(player)] = true

	description := string(player) + " voted " + p.Outcome + " on " + rec.Card.ID

	allVoted := true
	for _, pid := range aliveSurvivors(next) {
		if !rec.Voted[string(pid)] {
			allVoted = false
			break
		}
	}
	if allVoted {
		outcome := ti4.WinningOutcome(rec.Tally, string(next.SpeakerID))
		resolved, err := ti4.ResolveAgenda(next, rec.Card, outcome, nil, nil)
		if err != nil {
			return nil, "", err
		}
		next = resolved
		description = rec.Card.ID + " resolved with outcome " + outcome
	}

	if err := saveAgendaTally(ctx, s.cache, gameID, rec); err != nil {
		return nil, "", err
	}
	return next, description, nil
}

// loadAgendaTally loads the in-progress agenda vote tally from cache, or
// draws a fresh agenda card and starts a new tally if none is pending.
// Shared by CommandService (casting votes) and PhaseService (auto-abstain
// on timer expiry and phase-completeness checks).
func loadAgendaTally(ctx context.Context, cache repository.GameCache, gameID string, state *ti4.GameState) (*agendaTallyRecord, error) {
	raw, err := cache.GetPendingCommand(ctx, gameID, agendaTallyKey)
	if err != nil {
		return nil, fmt.Errorf("get agenda tally: %w", err)
	}
	if raw != nil {
		var rec agendaTallyRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("unmarshal agenda tally: %w", err)
		}
		if rec.Voted == nil {
			rec.Voted = make(map[string]bool)
		}
		if rec.Tally.Votes == nil {
			rec.Tally.Votes = make(map[string]int)
		}
		return &rec, nil
	}

	card, ok := state.Cards.Agendas.Draw()
	if !ok {
		return nil, errors.New("no agenda cards remain in the deck")
	}
	return &agendaTallyRecord{
		Card:  card,
		Tally: ti4.AgendaTally{Votes: make(map[string]int)},
		Voted: make(map[string]bool),
	}, nil
}

func saveAgendaTally(ctx context.Context, cache repository.GameCache, gameID string, rec *agendaTallyRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return cache.SetPendingCommand(ctx, gameID, agendaTallyKey, raw)
}

type speakerPayload struct {
	PlayerID string `json:"player_id"`
}

func (s *CommandService) dispatchSetSpeaker(state *ti4.GameState, player ti4.PlayerID, payload map[string]any) (*ti4.GameState, string, error) {
	var p speakerPayload
	if err := decodePayload(payload, &p); err != nil {
		return nil, "", err
	}
	if state.SpeakerID != player {
		return nil, "", &ti4.ValidationError{Field: "player", Detail: "only the current speaker may set the next speaker"}
	}
	if err := ti4.ValidatePlayerExists(state, ti4.PlayerID(p.PlayerID)); err != nil {
		return nil, "", err
	}
	next := state.Clone()
	next.SpeakerID = ti4.PlayerID(p.PlayerID)
	return next, "speaker set to " + p.PlayerID, nil
}

func decodePayload(payload map[string]any, out any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func parseUnitType(s string) (ti4.UnitType, error) {
	for t := ti4.Fighter; t <= ti4.SpaceDock; t++ {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, &ti4.ValidationError{Field: "unit_type", Detail: "unknown unit type " + s}
}

func parseCommandKind(s string) (ti4.CommandKind, error) {
	for k := ti4.CommandProposeTransaction; k <= ti4.CommandSetSpeaker; k++ {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownCommand, s)
}

// commandRequiresActivePlayer reports whether kind may only be submitted by
// state.ActivePlayer. Transactions, votes, and free component actions are
// not turn-gated.
func commandRequiresActivePlayer(kind ti4.CommandKind) bool {
	switch kind {
	case ti4.CommandSelectStrategyCard, ti4.CommandTakeStrategicAction, ti4.CommandTakeTacticalAction, ti4.CommandPassTurn:
		return true
	default:
		return false
	}
}

// commandEndsTurn reports whether kind consumes the active player's turn
// during the action phase. Component actions are free actions and do not;
// transactions and agenda votes happen outside normal turn order entirely.
func commandEndsTurn(kind ti4.CommandKind) bool {
	switch kind {
	case ti4.CommandTakeStrategicAction, ti4.CommandTakeTacticalAction, ti4.CommandPassTurn:
		return true
	default:
		return false
	}
}

// cardsPerPlayerHint mirrors pkg/ti4/strategycard.go's unexported
// cardsPerPlayer: 2 per player in games that started at 4 or fewer, 1
// otherwise. Exposed here because the host layer needs it to decide when
// the strategy phase is complete and who should pick next.
func cardsPerPlayerHint(state *ti4.GameState) int {
	if state.InitialPlayerCount >= 5 {
		return 1
	}
	return 2
}

// strategyPhaseComplete reports whether every surviving player holds their
// full strategy card allotment.
func strategyPhaseComplete(state *ti4.GameState) bool {
	want := cardsPerPlayerHint(state)
	for _, p := range state.Players {
		if ti4.IsEliminated(state, p.ID) {
			continue
		}
		if len(ti4.PlayerStrategyCards(state, p.ID)) < want {
			return false
		}
	}
	return true
}

// nextStrategySelector returns the next surviving player, starting after
// state.ActivePlayer in PlayerOrder, who still needs to pick a strategy
// card. Returns "" once every surviving player has their full allotment.
func nextStrategySelector(state *ti4.GameState) ti4.PlayerID {
	want := cardsPerPlayerHint(state)
	order := state.PlayerOrder
	if len(order) == 0 {
		return ""
	}
	startIdx := 0
	for i, p := range order {
		if p == state.ActivePlayer {
			startIdx = i
			break
		}
	}
	for i := 1; i <= len(order); i++ {
		candidate := order[(startIdx+i)%len(order)]
		if ti4.IsEliminated(state, candidate) {
			continue
		}
		if len(ti4.PlayerStrategyCards(state, candidate)) < want {
			return candidate
		}
	}
	return ""
}

// firstAvailableCard returns the lowest-initiative unowned strategy card,
// the deterministic choice PhaseService falls back to when a player's
// timer expires during the strategy phase.
func firstAvailableCard(state *ti4.GameState) string {
	best := ""
	bestInitiative := 0
	for _, info := range ti4.AllStrategyCardInfo(state) {
		if info.Available && (best == "" || info.Initiative < bestInitiative) {
			best = info.CardID
			bestInitiative = info.Initiative
		}
	}
	return best
}

// returnStrategyCards clears every strategy card assignment, the status
// phase step that returns cards to the common pool so the next strategy
// phase can reassign them.
func returnStrategyCards(state *ti4.GameState) *ti4.GameState {
	next := state.Clone()
	for _, p := range next.Players {
		p.StrategyCards = nil
	}
	next.StrategyCardOwner = make(map[string]ti4.PlayerID)
	next.StrategyExhausted = make(map[string]bool)
	return next
}

func gamePlayerExists(game *model.Game, userID string) bool {
	for _, p := range game.Players {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

func aliveSurvivors(state *ti4.GameState) []ti4.PlayerID {
	var out []ti4.PlayerID
	for _, p := range state.Players {
		if !ti4.IsEliminated(state, p.ID) {
			out = append(out, p.ID)
		}
	}
	return out
}

// applyEliminations eliminates every player who newly meets the elimination
// condition. Eliminate is idempotent for players with nothing left to
// strip, so re-running it on an already-eliminated player is harmless.
func applyEliminations(state *ti4.GameState, coordinator *ti4.StrategyCardCoordinator) *ti4.GameState {
	next := state
	for _, p := range state.Players {
		if ti4.IsEliminated(next, p.ID) {
			next = ti4.Eliminate(next, p.ID, coordinator)
		}
	}
	return next
}
