package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Key patterns for Redis game state.
func stateKey(gameID string) string             { return "game:" + gameID + ":state" }
func commandKey(gameID, playerID string) string { return "game:" + gameID + ":command:" + playerID }
func readyKey(gameID string) string             { return "game:" + gameID + ":ready" }
func timerKey(gameID string) string             { return "game:" + gameID + ":timer" }

// SetGameState stores the live game state JSON.
func (c *Client) SetGameState(ctx context.Context, gameID string, state json.RawMessage) error {
	return c.rdb.Set(ctx, stateKey(gameID), []byte(state), 0).Err()
}

// GetGameState retrieves the live game state JSON.
func (c *Client) GetGameState(ctx context.Context, gameID string) (json.RawMessage, error) {
	data, err := c.rdb.Get(ctx, stateKey(gameID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get game state: %w", err)
	}
	return json.RawMessage(data), nil
}

// SetPendingCommand stores a player's not-yet-applied command for the current phase.
func (c *Client) SetPendingCommand(ctx context.Context, gameID, playerID string, command json.RawMessage) error {
	return c.rdb.Set(ctx, commandKey(gameID, playerID), []byte(command), 0).Err()
}

// GetPendingCommand retrieves a player's pending command.
func (c *Client) GetPendingCommand(ctx context.Context, gameID, playerID string) (json.RawMessage, error) {
	data, err := c.rdb.Get(ctx, commandKey(gameID, playerID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get pending command: %w", err)
	}
	return json.RawMessage(data), nil
}

// GetAllPendingCommands retrieves pending commands from all players that have submitted one.
func (c *Client) GetAllPendingCommands(ctx context.Context, gameID string, playerIDs []string) (map[string]json.RawMessage, error) {
	result := make(map[string]json.RawMessage)
	for _, playerID := range playerIDs {
		data, err := c.GetPendingCommand(ctx, gameID, playerID)
		if err != nil {
			return nil, err
		}
		if data != nil {
			result[playerID] = data
		}
	}
	return result, nil
}

// MarkReady adds a player to the ready set for the game.
func (c *Client) MarkReady(ctx context.Context, gameID, playerID string) error {
	return c.rdb.SAdd(ctx, readyKey(gameID), playerID).Err()
}

// UnmarkReady removes a player from the ready set.
func (c *Client) UnmarkReady(ctx context.Context, gameID, playerID string) error {
	return c.rdb.SRem(ctx, readyKey(gameID), playerID).Err()
}

// ReadyCount returns how many players have marked ready.
func (c *Client) ReadyCount(ctx context.Context, gameID string) (int64, error) {
	return c.rdb.SCard(ctx, readyKey(gameID)).Result()
}

// ReadyPlayers returns the set of players that have marked ready.
func (c *Client) ReadyPlayers(ctx context.Context, gameID string) ([]string, error) {
	return c.rdb.SMembers(ctx, readyKey(gameID)).Result()
}

// phaseGracePeriod is the extra time after the displayed deadline before
// phase resolution triggers, giving players a few seconds of leeway.
const phaseGracePeriod = 5 * time.Second

// SetTimer creates a timer key with a TTL. When the key expires,
// Redis keyspace notifications trigger phase resolution.
// The TTL includes a grace period so the key expires slightly after the displayed deadline.
func (c *Client) SetTimer(ctx context.Context, gameID string, deadline time.Time) error {
	ttl := time.Until(deadline) + phaseGracePeriod
	if ttl <= 0 {
		ttl = time.Second
	}
	return c.rdb.Set(ctx, timerKey(gameID), deadline.Unix(), ttl).Err()
}

// ClearTimer removes the timer for a game.
func (c *Client) ClearTimer(ctx context.Context, gameID string) error {
	return c.rdb.Del(ctx, timerKey(gameID)).Err()
}

// ClearPhaseData removes all pending commands, ready status, and the timer
// for a game. Called after phase resolution to prepare for the next phase.
func (c *Client) ClearPhaseData(ctx context.Context, gameID string, playerIDs []string) error {
	keys := []string{readyKey(gameID), timerKey(gameID)}
	for _, playerID := range playerIDs {
		keys = append(keys, commandKey(gameID, playerID))
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// DeleteGameData removes all Redis data for a game (on game end).
func (c *Client) DeleteGameData(ctx context.Context, gameID string, playerIDs []string) error {
	keys := []string{stateKey(gameID), readyKey(gameID), timerKey(gameID)}
	for _, playerID := range playerIDs {
		keys = append(keys, commandKey(gameID, playerID))
	}
	return c.rdb.Del(ctx, keys...).Err()
}
