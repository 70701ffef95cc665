package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/freeeve/ti4engine/internal/model"
)

// UserRepository defines user data operations.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByProviderID(ctx context.Context, provider, providerID string) (*model.User, error)
	Upsert(ctx context.Context, provider, providerID, displayName, avatarURL string) (*model.User, error)
	UpdateDisplayName(ctx context.Context, id, displayName string) error
}

// GameRepository defines game and player data operations.
type GameRepository interface {
	Create(ctx context.Context, name, creatorID string, phaseTimerSecs, victoryPoints int) (*model.Game, error)
	FindByID(ctx context.Context, id string) (*model.Game, error)
	ListOpen(ctx context.Context) ([]model.Game, error)
	ListByUser(ctx context.Context, userID string) ([]model.Game, error)
	ListFinished(ctx context.Context) ([]model.Game, error)
	JoinGame(ctx context.Context, gameID, userID string) error
	PlayerCount(ctx context.Context, gameID string) (int, error)
	AssignFactions(ctx context.Context, gameID string, assignments map[string]string) error
	ListActive(ctx context.Context) ([]model.Game, error)
	SetFinished(ctx context.Context, gameID, winner string) error
	Delete(ctx context.Context, gameID string) error
	UpdatePlayerFaction(ctx context.Context, gameID, userID, faction string) error
}

// PhaseRepository defines phase and command data operations.
type PhaseRepository interface {
	CreatePhase(ctx context.Context, gameID string, round int, phaseType string, stateBefore json.RawMessage, deadline time.Time) (*model.Phase, error)
	CurrentPhase(ctx context.Context, gameID string) (*model.Phase, error)
	ListPhases(ctx context.Context, gameID string) ([]model.Phase, error)
	ResolvePhase(ctx context.Context, phaseID string, stateAfter json.RawMessage) error
	SaveCommands(ctx context.Context, commands []model.Command) error
	CommandsByPhase(ctx context.Context, phaseID string) ([]model.Command, error)
	ListExpired(ctx context.Context) ([]model.Phase, error)
}

// MessageRepository defines message data operations.
type MessageRepository interface {
	Create(ctx context.Context, gameID, senderID, recipientID, content, phaseID string) (*model.Message, error)
	ListByGame(ctx context.Context, gameID, userID string) ([]model.Message, error)
}

// GameCache defines live game state operations (Redis).
type GameCache interface {
	SetGameState(ctx context.Context, gameID string, state json.RawMessage) error
	GetGameState(ctx context.Context, gameID string) (json.RawMessage, error)
	SetPendingCommand(ctx context.Context, gameID, playerID string, command json.RawMessage) error
	GetPendingCommand(ctx context.Context, gameID, playerID string) (json.RawMessage, error)
	GetAllPendingCommands(ctx context.Context, gameID string, playerIDs []string) (map[string]json.RawMessage, error)
	MarkReady(ctx context.Context, gameID, playerID string) error
	UnmarkReady(ctx context.Context, gameID, playerID string) error
	ReadyCount(ctx context.Context, gameID string) (int64, error)
	ReadyPlayers(ctx context.Context, gameID string) ([]string, error)
	SetTimer(ctx context.Context, gameID string, deadline time.Time) error
	ClearTimer(ctx context.Context, gameID string) error
	ClearPhaseData(ctx context.Context, gameID string, playerIDs []string) error
	DeleteGameData(ctx context.Context, gameID string, playerIDs []string) error
}
