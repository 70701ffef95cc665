package model

import (
	"encoding/json"
	"time"
)

// User represents a registered user.
type User struct {
	ID          string    `json:"id"`
	Provider    string    `json:"provider"`
	ProviderID  string    `json:"provider_id"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Game represents a Twilight Imperium game.
type Game struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	CreatorID       string       `json:"creator_id"`
	Status          string       `json:"status"` // waiting, active, finished
	Winner          string       `json:"winner,omitempty"`
	PhaseTimerSecs  int          `json:"phase_timer_secs"`
	VictoryPoints   int          `json:"victory_points"`
	CreatedAt       time.Time    `json:"created_at"`
	StartedAt       *time.Time   `json:"started_at,omitempty"`
	FinishedAt      *time.Time   `json:"finished_at,omitempty"`
	Players         []GamePlayer `json:"players,omitempty"`
	ReadyCount      int          `json:"ready_count,omitempty"`
}

// GamePlayer represents a player's membership in a game.
type GamePlayer struct {
	GameID   string    `json:"game_id"`
	UserID   string    `json:"user_id"`
	Faction  string    `json:"faction,omitempty"`
	JoinedAt time.Time `json:"joined_at"`
}

// Phase represents one round phase (strategy, action, status, agenda, ...).
type Phase struct {
	ID          string          `json:"id"`
	GameID      string          `json:"game_id"`
	Round       int             `json:"round"`
	PhaseType   string          `json:"phase_type"`
	StateBefore json.RawMessage `json:"state_before"`
	StateAfter  json.RawMessage `json:"state_after,omitempty"`
	Deadline    time.Time       `json:"deadline"`
	ResolvedAt  *time.Time      `json:"resolved_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Command represents a player command submitted during a phase, e.g.
// select_strategy_card or take_tactical_action.
type Command struct {
	ID        string    `json:"id"`
	PhaseID   string    `json:"phase_id"`
	PlayerID  string    `json:"player_id"`
	Kind      string    `json:"kind"`
	Payload   json.RawMessage `json:"payload"`
	Result    string    `json:"result,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Message represents an in-game player message.
type Message struct {
	ID          string    `json:"id"`
	GameID      string    `json:"game_id"`
	SenderID    string    `json:"sender_id"`
	RecipientID string    `json:"recipient_id,omitempty"` // empty = public broadcast
	Content     string    `json:"content"`
	PhaseID     string    `json:"phase_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
