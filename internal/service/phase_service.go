package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/ti4engine/internal/content"
	"github.com/freeeve/ti4engine/internal/model"
	"github.com/freeeve/ti4engine/internal/repository"
	"github.com/freeeve/ti4engine/pkg/ti4"
)

// PhaseService advances a game between phases: timer-driven auto-resolution
// of whichever phase has stalled (a strategy pick, an action-phase turn, an
// agenda vote), and player-driven "ready up" bookkeeping for the status
// phase. There is no simultaneous order batch to resolve; each phase either
// completes as soon as every surviving player has acted, or is nudged
// forward one auto-step at a time when a deadline lapses.
type PhaseService struct {
	gameRepo    repository.GameRepository
	phaseRepo   repository.PhaseRepository
	cache       repository.GameCache
	broadcaster Broadcaster

	// gameLocks prevents concurrent phase resolution for the same game.
	// Both the keyspace listener and poller can fire simultaneously;
	// without locking, both resolve the same phase creating duplicate
	// next phases.
	gameLocks sync.Map
}

// NewPhaseService creates a PhaseService.
func NewPhaseService(
	gameRepo repository.GameRepository,
	phaseRepo repository.PhaseRepository,
	cache repository.GameCache,
	broadcaster Broadcaster,
) *PhaseService {
	if broadcaster == nil {
		broadcaster = NoopBroadcaster{}
	}
	return &PhaseService{
		gameRepo:    gameRepo,
		phaseRepo:   phaseRepo,
		cache:       cache,
		broadcaster: broadcaster,
	}
}

func (s *PhaseService) gameLock(gameID string) *sync.Mutex {
	v, _ := s.gameLocks.LoadOrStore(gameID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// RecoverActiveGames rehydrates Redis state for all active games from
// Postgres. Called on server startup to restore timers and game state lost
// during a restart.
func (s *PhaseService) RecoverActiveGames(ctx context.Context) error {
	games, err := s.gameRepo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list active games: %w", err)
	}
	if len(games) == 0 {
		log.Info().Msg("no active games to recover")
		return nil
	}

	log.Info().Int("count", len(games)).Msg("recovering active games after restart")

	for _, game := range games {
		phase, err := s.phaseRepo.CurrentPhase(ctx, game.ID)
		if err != nil {
			log.Error().Err(err).Str("gameId", game.ID).Msg("failed to get current phase during recovery")
			continue
		}
		if phase == nil {
			log.Warn().Str("gameId", game.ID).Msg("active game has no current phase, skipping")
			continue
		}

		if err := s.cache.SetGameState(ctx, game.ID, phase.StateBefore); err != nil {
			log.Error().Err(err).Str("gameId", game.ID).Msg("failed to restore game state")
			continue
		}

		if time.Now().Before(phase.Deadline) {
			if err := s.cache.SetTimer(ctx, game.ID, phase.Deadline); err != nil {
				log.Error().Err(err).Str("gameId", game.ID).Msg("failed to restore timer")
			}
		}

		log.Info().Str("gameId", game.ID).Str("phase", phase.PhaseType).
			Int("round", phase.Round).
			Time("deadline", phase.Deadline).
			Msg("recovered game state")
	}

	return nil
}

// InitializeGame seeds Redis with the freshly started game's state and
// first-phase timer. Called after GameService.StartGame creates the
// opening strategy phase.
func (s *PhaseService) InitializeGame(ctx context.Context, gameID string, state *ti4.GameState, deadline time.Time) error {
	stateJSON, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal initial state: %w", err)
	}
	if err := s.cache.SetGameState(ctx, gameID, stateJSON); err != nil {
		return fmt.Errorf("set game state: %w", err)
	}
	return s.cache.SetTimer(ctx, gameID, deadline)
}

// ReadyCount returns the number of surviving players that have marked
// ready for the current phase.
func (s *PhaseService) ReadyCount(ctx context.Context, gameID string) (int, error) {
	count, err := s.cache.ReadyCount(ctx, gameID)
	return int(count), err
}

// MarkReady records that playerID has finished their status-phase upkeep
// (readying cards, repairing units, researching with a readied Technology
// card). Once every surviving player is ready, the status phase resolves
// immediately rather than waiting for the timer.
func (s *PhaseService) MarkReady(ctx context.Context, gameID, playerID string) error {
	if err := s.cache.MarkReady(ctx, gameID, playerID); err != nil {
		return fmt.Errorf("mark ready: %w", err)
	}
	return s.maybeResolveOnReady(ctx, gameID)
}

// UnmarkReady withdraws a player's status-phase ready mark.
func (s *PhaseService) UnmarkReady(ctx context.Context, gameID, playerID string) error {
	if err := s.cache.UnmarkReady(ctx, gameID, playerID); err != nil {
		return fmt.Errorf("unmark ready: %w", err)
	}
	readyCount, err := s.cache.ReadyCount(ctx, gameID)
	if err != nil {
		return fmt.Errorf("ready count: %w", err)
	}
	s.broadcaster.BroadcastGameEvent(gameID, "player_ready", map[string]any{
		"ready_count": readyCount,
	})
	return nil
}

func (s *PhaseService) maybeResolveOnReady(ctx context.Context, gameID string) error {
	state, err := s.loadLiveState(ctx, gameID)
	if err != nil {
		return err
	}
	readyCount, err := s.cache.ReadyCount(ctx, gameID)
	if err != nil {
		return fmt.Errorf("ready count: %w", err)
	}
	aliveCount := len(aliveSurvivors(state))

	s.broadcaster.BroadcastGameEvent(gameID, "player_ready", map[string]any{
		"ready_count": readyCount,
		"alive_count": aliveCount,
	})

	if int(readyCount) >= aliveCount {
		return s.ResolvePhaseEarly(ctx, gameID)
	}
	return nil
}

// loadLiveState loads the cached GameState, falling back to the current
// phase's pre-resolution snapshot, and reattaches the standard-game card
// content (never itself persisted).
func (s *PhaseService) loadLiveState(ctx context.Context, gameID string) (*ti4.GameState, error) {
	raw, err := s.cache.GetGameState(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("get cached state: %w", err)
	}
	if raw == nil {
		phase, err := s.phaseRepo.CurrentPhase(ctx, gameID)
		if err != nil {
			return nil, fmt.Errorf("get current phase: %w", err)
		}
		if phase == nil {
			return nil, ErrNoActivePhase
		}
		raw = phase.StateBefore
	}
	var state ti4.GameState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("unmarshal state: %w", err)
	}
	state.Cards = content.NewStandardCardRegistry()
	return &state, nil
}

// ResolvePhase is invoked when a phase's deadline passes without every
// surviving player having acted: it performs one auto-step for whichever
// player or vote is stalled (auto-picks a strategy card, auto-passes a
// turn, auto-readies the stragglers, auto-abstains an agenda vote), then
// advances to the next phase if that was enough to complete it.
func (s *PhaseService) ResolvePhase(ctx context.Context, gameID string) error {
	return s.resolvePhaseInternal(ctx, gameID, false)
}

// ResolvePhaseEarly is called when every surviving player has already acted
// (all strategy cards picked, all players passed, everyone readied up,
// every vote cast), skipping the deadline check.
func (s *PhaseService) ResolvePhaseEarly(ctx context.Context, gameID string) error {
	return s.resolvePhaseInternal(ctx, gameID, true)
}

func (s *PhaseService) resolvePhaseInternal(ctx context.Context, gameID string, early bool) error {
	// Per-game lock prevents concurrent resolution from keyspace + poller,
	// or from an early-resolution call racing with timer expiry.
	mu := s.gameLock(gameID)
	mu.Lock()
	defer mu.Unlock()

	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil || game == nil {
		return fmt.Errorf("find game: %w", err)
	}
	if game.Status != "active" {
		log.Info().Str("gameId", gameID).Str("status", game.Status).Msg("skipping resolution for non-active game")
		return nil
	}

	phase, err := s.phaseRepo.CurrentPhase(ctx, gameID)
	if err != nil || phase == nil {
		return fmt.Errorf("get current phase: %w", err)
	}
	if !early && time.Now().Before(phase.Deadline) {
		log.Debug().Str("gameId", gameID).Time("deadline", phase.Deadline).Msg("phase deadline not yet reached, skipping")
		return nil
	}

	state, err := s.loadLiveState(ctx, gameID)
	if err != nil {
		return err
	}

	log.Info().Str("gameId", gameID).Str("phaseId", phase.ID).
		Bool("early", early).Str("phaseType", phase.PhaseType).
		Int("round", phase.Round).
		Msg("resolving phase")

	coordinator := ti4.NewStrategyCardCoordinator()
	controller := ti4.NewPhaseController()

	if !early {
		state, err = s.autoResolveStep(ctx, gameID, state, coordinator)
		if err != nil {
			return fmt.Errorf("auto-resolve step: %w", err)
		}
	}
	state = applyEliminations(state, coordinator)

	complete, err := s.phaseStepComplete(ctx, gameID, state, coordinator)
	if err != nil {
		return err
	}
	if !complete {
		return s.persistLiveState(ctx, gameID, state)
	}

	return s.advanceToNextPhase(ctx, game, phase, state, coordinator, controller)
}

// autoResolveStep performs the single auto-action appropriate to state's
// current phase: it is only ever called on timer expiry, never on an early
// (already-complete) resolution.
func (s *PhaseService) autoResolveStep(ctx context.Context, gameID string, state *ti4.GameState, coordinator *ti4.StrategyCardCoordinator) (*ti4.GameState, error) {
	switch state.Phase {
	case ti4.PhaseStrategy:
		return s.autoSelectStrategyCard(state, coordinator)
	case ti4.PhaseAction:
		return s.autoPassTurn(state), nil
	case ti4.PhaseStatus:
		return s.autoReadyStragglers(ctx, gameID, state)
	case ti4.PhaseAgenda:
		return s.autoAbstainVote(ctx, gameID, state)
	default:
		return state, nil
	}
}

// autoSelectStrategyCard picks the lowest-initiative available card for
// whichever surviving player is holding up the strategy phase.
func (s *PhaseService) autoSelectStrategyCard(state *ti4.GameState, coordinator *ti4.StrategyCardCoordinator) (*ti4.GameState, error) {
	player := state.ActivePlayer
	if ti4.IsEliminated(state, player) || len(ti4.PlayerStrategyCards(state, player)) >= cardsPerPlayerHint(state) {
		player = nextStrategySelector(state)
	}
	if player == "" {
		return state, nil
	}
	cardID := firstAvailableCard(state)
	if cardID == "" {
		return state, nil
	}
	next, err := coordinator.SelectStrategyCard(state, player, cardID)
	if err != nil {
		log.Warn().Err(err).Str("player", string(player)).Str("card", cardID).Msg("auto-select strategy card failed")
		return state, nil
	}
	log.Info().Str("player", string(player)).Str("card", cardID).Msg("auto-selected strategy card on timeout")
	if selector := nextStrategySelector(next); selector != "" {
		next = next.Clone()
		next.ActivePlayer = selector
	}
	return next, nil
}

// autoPassTurn passes the active player's action-phase turn and advances to
// the next surviving player in turn order.
func (s *PhaseService) autoPassTurn(state *ti4.GameState) *ti4.GameState {
	controller := ti4.NewPhaseController()
	log.Info().Str("player", string(state.ActivePlayer)).Msg("auto-passed action-phase turn on timeout")
	return controller.AdvanceTurn(state, aliveSurvivors(state))
}

// autoReadyStragglers marks every surviving player who hasn't yet readied
// up for the status phase.
func (s *PhaseService) autoReadyStragglers(ctx context.Context, gameID string, state *ti4.GameState) (*ti4.GameState, error) {
	ready, err := s.cache.ReadyPlayers(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("ready players: %w", err)
	}
	readySet := make(map[string]bool, len(ready))
	for _, p := range ready {
		readySet[p] = true
	}
	for _, p := range aliveSurvivors(state) {
		if !readySet[string(p)] {
			if err := s.cache.MarkReady(ctx, gameID, string(p)); err != nil {
				return nil, fmt.Errorf("auto-ready %s: %w", p, err)
			}
			log.Info().Str("player", string(p)).Msg("auto-readied player on timeout")
		}
	}
	return state, nil
}

// autoAbstainVote casts an abstain vote for every surviving player who
// hasn't yet voted on the pending agenda, resolving it if that completes
// the tally.
func (s *PhaseService) autoAbstainVote(ctx context.Context, gameID string, state *ti4.GameState) (*ti4.GameState, error) {
	rec, err := loadAgendaTally(ctx, s.cache, gameID, state)
	if err != nil {
		return nil, err
	}
	// Abstaining casts no vote and exhausts no planets, so it only needs to
	// mark the player voted; there is no corresponding outcome to credit.
	next := state
	for _, p := range aliveSurvivors(state) {
		if rec.Voted[string(p)] {
			continue
		}
		rec.Voted[string(p)] = true
		log.Info().Str("player", string(p)).Str("card", rec.Card.ID).Msg("auto-abstained agenda vote on timeout")
	}

	allVoted := true
	for _, p := range aliveSurvivors(next) {
		if !rec.Voted[string(p)] {
			allVoted = false
			break
		}
	}
	if allVoted {
		outcome := ti4.WinningOutcome(rec.Tally, string(next.SpeakerID))
		resolved, err := ti4.ResolveAgenda(next, rec.Card, outcome, nil, nil)
		if err != nil {
			return nil, err
		}
		next = resolved
	}

	if err := saveAgendaTally(ctx, s.cache, gameID, rec); err != nil {
		return nil, err
	}
	return next, nil
}

// phaseStepComplete reports whether state's current phase has nothing left
// to wait on: every surviving player has their full strategy card
// allotment, every surviving player has passed or has no readied card left
// to use, every surviving player has readied up, or the pending agenda's
// tally already covers every surviving player.
func (s *PhaseService) phaseStepComplete(ctx context.Context, gameID string, state *ti4.GameState, coordinator *ti4.StrategyCardCoordinator) (bool, error) {
	switch state.Phase {
	case ti4.PhaseStrategy:
		return strategyPhaseComplete(state), nil
	case ti4.PhaseAction:
		controller := ti4.NewPhaseController()
		return controller.AllPlayersPassed(state, coordinator), nil
	case ti4.PhaseStatus:
		readyCount, err := s.cache.ReadyCount(ctx, gameID)
		if err != nil {
			return false, fmt.Errorf("ready count: %w", err)
		}
		return int(readyCount) >= len(aliveSurvivors(state)), nil
	case ti4.PhaseAgenda:
		rec, err := loadAgendaTally(ctx, s.cache, gameID, state)
		if err != nil {
			return false, err
		}
		for _, p := range aliveSurvivors(state) {
			if !rec.Voted[string(p)] {
				return false, nil
			}
		}
		return true, nil
	default:
		return true, nil
	}
}

// persistLiveState saves an in-progress (not yet phase-complete) state back
// to the cache and resets the timer for another phaseTimerSecs, without
// touching Postgres: the phase row's deadline only matters for the first
// stalled step, and the cache timer is what the keyspace listener and
// poller actually watch.
func (s *PhaseService) persistLiveState(ctx context.Context, gameID string, state *ti4.GameState) error {
	stateJSON, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal game state: %w", err)
	}
	if err := s.cache.SetGameState(ctx, gameID, stateJSON); err != nil {
		return fmt.Errorf("cache game state: %w", err)
	}
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil || game == nil {
		return fmt.Errorf("find game: %w", err)
	}
	deadline := time.Now().Add(phaseTimerDuration(game))
	if err := s.cache.SetTimer(ctx, gameID, deadline); err != nil {
		return fmt.Errorf("set timer: %w", err)
	}
	s.broadcaster.BroadcastGameEvent(gameID, "phase_auto_advanced", map[string]any{
		"active_player": string(state.ActivePlayer),
	})
	return nil
}

// advanceToNextPhase finalizes the current Postgres phase row, transitions
// state to the phase controller's next phase, checks for game over, and
// creates the next phase row with a fresh timer.
func (s *PhaseService) advanceToNextPhase(
	ctx context.Context,
	game *model.Game,
	phase *model.Phase,
	state *ti4.GameState,
	coordinator *ti4.StrategyCardCoordinator,
	controller *ti4.PhaseController,
) error {
	if state.Phase == ti4.PhaseStatus {
		state = ti4.ReadyAllExhaustedPlanets(state)
		state = returnStrategyCards(state)
	}
	if state.Phase == ti4.PhaseAgenda {
		state = ti4.ReadyAllExhaustedPlanets(state)
	}

	stateAfterJSON, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal state after: %w", err)
	}
	if err := s.phaseRepo.ResolvePhase(ctx, phase.ID, stateAfterJSON); err != nil {
		return fmt.Errorf("resolve phase: %w", err)
	}

	next := controller.AdvanceState(state, coordinator)
	if next.Phase == ti4.PhaseAction {
		if order := ti4.InitiativeOrder(next); len(order) > 0 {
			next = next.Clone()
			next.ActivePlayer = order[0].Owner
		}
	}

	if controller.IsGameOver(next) {
		winner := ""
		for _, p := range next.Players {
			if !ti4.IsEliminated(next, p.ID) {
				winner = string(p.ID)
				break
			}
		}
		log.Info().Str("gameId", game.ID).Str("winner", winner).Msg("game won")
		if err := s.gameRepo.SetFinished(ctx, game.ID, winner); err != nil {
			return fmt.Errorf("set finished: %w", err)
		}
		s.broadcaster.BroadcastGameEvent(game.ID, "game_ended", map[string]any{
			"winner": winner,
		})
		return s.cache.DeleteGameData(ctx, game.ID, append(gamePlayerIDs(game), agendaTallyKey))
	}

	newStateJSON, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("marshal new state: %w", err)
	}

	deadline := time.Now().Add(phaseTimerDuration(game))
	if _, err := s.phaseRepo.CreatePhase(ctx, game.ID, next.Round, next.Phase.String(), newStateJSON, deadline); err != nil {
		return fmt.Errorf("create next phase: %w", err)
	}

	if err := s.cache.ClearPhaseData(ctx, game.ID, append(gamePlayerIDs(game), agendaTallyKey)); err != nil {
		return fmt.Errorf("clear phase data: %w", err)
	}
	if err := s.cache.SetGameState(ctx, game.ID, newStateJSON); err != nil {
		return fmt.Errorf("set new state: %w", err)
	}
	if err := s.cache.SetTimer(ctx, game.ID, deadline); err != nil {
		return fmt.Errorf("set timer: %w", err)
	}

	log.Info().
		Str("gameId", game.ID).
		Int("round", next.Round).
		Str("phase", next.Phase.String()).
		Time("deadline", deadline).
		Msg("game advanced to next phase")

	s.broadcaster.BroadcastGameEvent(game.ID, "phase_resolved", map[string]any{
		"phase_id": phase.ID,
		"round":    phase.Round,
		"type":     phase.PhaseType,
	})
	s.broadcaster.BroadcastGameEvent(game.ID, "phase_changed", map[string]any{
		"round":         next.Round,
		"type":          next.Phase.String(),
		"active_player": string(next.ActivePlayer),
		"deadline":      deadline.Format(time.RFC3339),
	})

	return nil
}

// CleanupStoppedGame broadcasts the game_ended event and clears cached
// game data for a game the creator stopped manually.
func (s *PhaseService) CleanupStoppedGame(ctx context.Context, gameID string) error {
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil || game == nil {
		return fmt.Errorf("find game: %w", err)
	}
	s.broadcaster.BroadcastGameEvent(gameID, "game_ended", map[string]any{
		"winner": "",
		"reason": "stopped",
	})
	return s.cache.DeleteGameData(ctx, gameID, append(gamePlayerIDs(game), agendaTallyKey))
}

// gamePlayerIDs returns the user IDs of every player seated in game, the
// cache key namespace DeleteGameData/ClearPhaseData sweep.
func gamePlayerIDs(game *model.Game) []string {
	ids := make([]string, 0, len(game.Players))
	for _, p := range game.Players {
		ids = append(ids, p.UserID)
	}
	return ids
}

// phaseTimerDuration returns how long a player (or vote, or ready-up) has
// before PhaseService auto-resolves on their behalf.
func phaseTimerDuration(game *model.Game) time.Duration {
	secs := game.PhaseTimerSecs
	if secs <= 0 {
		secs = 86400
	}
	return time.Duration(secs) * time.Second
}
