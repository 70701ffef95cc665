package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/freeeve/ti4engine/internal/content"
	"github.com/freeeve/ti4engine/internal/model"
	"github.com/freeeve/ti4engine/internal/repository"
	"github.com/freeeve/ti4engine/pkg/ti4"
)

var (
	ErrGameNotFound     = errors.New("game not found")
	ErrGameNotWaiting   = errors.New("game is not in waiting status")
	ErrGameFull         = errors.New("game already has the maximum number of players")
	ErrNotEnoughPlayers = errors.New("need at least 3 players to start")
	ErrNotCreator       = errors.New("only the creator can start the game")
	ErrGameNotActive    = errors.New("game is not active")
	ErrAlreadyJoined    = errors.New("already joined this game")
	ErrNotInGame        = errors.New("you are not in this game")
	ErrFactionTaken     = errors.New("faction already assigned to another player")
	ErrInvalidFaction   = errors.New("invalid faction")
)

const (
	minPlayers = 3
	maxPlayers = 8
)

// GameService handles game lifecycle operations.
type GameService struct {
	gameRepo  repository.GameRepository
	phaseRepo repository.PhaseRepository
	userRepo  repository.UserRepository
}

// NewGameService creates a GameService.
func NewGameService(gameRepo repository.GameRepository, phaseRepo repository.PhaseRepository, userRepo repository.UserRepository) *GameService {
	return &GameService{gameRepo: gameRepo, phaseRepo: phaseRepo, userRepo: userRepo}
}

// CreateGame creates a new game in "waiting" status. phaseTimerSecs bounds
// how long a phase step (a strategy pick, an action-phase turn, status-phase
// readying, an agenda vote) may stall before PhaseService auto-resolves it;
// victoryPoints is the target score (10 or 14 in the base game).
func (s *GameService) CreateGame(ctx context.Context, name, creatorID string, phaseTimerSecs, victoryPoints int) (*model.Game, error) {
	if phaseTimerSecs <= 0 {
		phaseTimerSecs = 86400
	}
	if victoryPoints <= 0 {
		victoryPoints = 10
	}

	game, err := s.gameRepo.Create(ctx, name, creatorID, phaseTimerSecs, victoryPoints)
	if err != nil {
		return nil, err
	}

	if err := s.gameRepo.JoinGame(ctx, game.ID, creatorID); err != nil {
		return nil, err
	}

	return s.gameRepo.FindByID(ctx, game.ID)
}

// JoinGame adds a player to a waiting game.
func (s *GameService) JoinGame(ctx context.Context, gameID, userID string) error {
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return err
	}
	if game == nil {
		return ErrGameNotFound
	}
	if game.Status != "waiting" {
		return ErrGameNotWaiting
	}

	for _, p := range game.Players {
		if p.UserID == userID {
			return ErrAlreadyJoined
		}
	}

	count, err := s.gameRepo.PlayerCount(ctx, gameID)
	if err != nil {
		return err
	}
	if count >= maxPlayers {
		return ErrGameFull
	}

	return s.gameRepo.JoinGame(ctx, gameID, userID)
}

// StartGame assigns factions, builds the initial engine GameState, and
// creates the first (strategy) phase. The caller is responsible for
// handing the marshaled state to PhaseService.InitializeGame.
func (s *GameService) StartGame(ctx context.Context, gameID, userID string) (*model.Game, *ti4.GameState, error) {
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}
	if game == nil {
		return nil, nil, ErrGameNotFound
	}
	if game.Status != "waiting" {
		return nil, nil, ErrGameNotWaiting
	}
	if game.CreatorID != userID {
		return nil, nil, ErrNotCreator
	}
	if len(game.Players) < minPlayers {
		return nil, nil, ErrNotEnoughPlayers
	}

	factions := append([]ti4.Faction(nil), content.StandardFactions[:len(game.Players)]...)
	rand.Shuffle(len(factions), func(i, j int) { factions[i], factions[j] = factions[j], factions[i] })

	assignments := make(map[string]string, len(game.Players))
	for i, p := range game.Players {
		assignments[p.UserID] = string(factions[i])
	}
	if err := s.gameRepo.AssignFactions(ctx, gameID, assignments); err != nil {
		return nil, nil, err
	}

	state := buildInitialState(game.Players, assignments)

	deadline := time.Now().Add(time.Duration(game.PhaseTimerSecs) * time.Second)
	stateJSON, err := json.Marshal(state)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal initial state: %w", err)
	}
	if _, err := s.phaseRepo.CreatePhase(ctx, gameID, 1, ti4.PhaseStrategy.String(), stateJSON, deadline); err != nil {
		return nil, nil, err
	}

	updated, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}
	return updated, state, nil
}

// buildInitialState constructs the engine GameState for a freshly started
// game: one Player per game participant in join order, seated at a
// standard-size galaxy, holding the standard command-token pools.
func buildInitialState(players []model.GamePlayer, assignments map[string]string) *ti4.GameState {
	cards := content.NewStandardCardRegistry()
	state := ti4.NewGameState(cards)
	state.Galaxy = content.NewStandardGalaxy(len(players))
	state.InitialPlayerCount = len(players)

	order := make([]ti4.PlayerID, 0, len(players))
	for _, p := range players {
		faction := ti4.Faction(assignments[p.UserID])
		id := ti4.PlayerID(p.UserID)
		state.Players = append(state.Players, ti4.NewPlayer(id, faction, content.CommodityValue(faction), 3, 3, 2))
		order = append(order, id)
	}
	state.PlayerOrder = order
	if len(order) > 0 {
		state.ActivePlayer = order[0]
		state.SpeakerID = order[0]
	}
	return state
}

// GetGame returns a game by ID.
func (s *GameService) GetGame(ctx context.Context, gameID string) (*model.Game, error) {
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, ErrGameNotFound
	}
	return game, nil
}

// UpdatePlayerFaction sets a player's faction before the game starts,
// letting the lobby creator or the player themself pick a faction ahead of
// the random fallback assignment StartGame performs.
func (s *GameService) UpdatePlayerFaction(ctx context.Context, gameID, targetUserID, requestingUserID, faction string) error {
	valid := false
	for _, f := range content.StandardFactions {
		if string(f) == faction {
			valid = true
			break
		}
	}
	if !valid {
		return ErrInvalidFaction
	}

	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return err
	}
	if game == nil {
		return ErrGameNotFound
	}
	if game.Status != "waiting" {
		return ErrGameNotWaiting
	}

	var targetPlayer *model.GamePlayer
	for i := range game.Players {
		if game.Players[i].UserID == targetUserID {
			targetPlayer = &game.Players[i]
			break
		}
	}
	if targetPlayer == nil {
		return ErrNotInGame
	}
	if targetUserID != requestingUserID && game.CreatorID != requestingUserID {
		return ErrNotCreator
	}

	for _, p := range game.Players {
		if p.UserID != targetUserID && p.Faction == faction {
			return ErrFactionTaken
		}
	}

	return s.gameRepo.UpdatePlayerFaction(ctx, gameID, targetUserID, faction)
}

// DeleteGame removes a waiting game. Only the game creator can delete a game.
func (s *GameService) DeleteGame(ctx context.Context, gameID, userID string) error {
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return err
	}
	if game == nil {
		return ErrGameNotFound
	}
	if game.Status != "waiting" {
		return ErrGameNotWaiting
	}
	if game.CreatorID != userID {
		return ErrNotCreator
	}
	return s.gameRepo.Delete(ctx, gameID)
}

// StopGame ends an active game without a winner. Only the game creator can
// stop a game.
func (s *GameService) StopGame(ctx context.Context, gameID, userID string) (*model.Game, error) {
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
	if game.CreatorID != userID {
		return nil, ErrNotCreator
	}
	if err := s.gameRepo.SetFinished(ctx, gameID, ""); err != nil {
		return nil, err
	}
	return s.gameRepo.FindByID(ctx, gameID)
}

// ListGames returns open games or games the user is in.
func (s *GameService) ListGames(ctx context.Context, userID string, filter string) ([]model.Game, error) {
	switch filter {
	case "my":
		return s.gameRepo.ListByUser(ctx, userID)
	case "finished":
		return s.gameRepo.ListFinished(ctx)
	default:
		return s.gameRepo.ListOpen(ctx)
	}
}
