package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/esxdocs/esxdocs/internal/model"
)

// sessionPrefix is the Redis key prefix for server-side sessions.
// Keys are derived from a hash of the opaque token, never the token itself.
const sessionPrefix = "session:"

// userSessionsPrefix keys a per-user set of live session token hashes,
// so all of a user's sessions can be revoked at once.
const userSessionsPrefix = "user_sessions:"

// storedSession is the session payload persisted in Redis.
type storedSession struct {
	UserID    string     `json:"user_id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Role      model.Role `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
}

// GetSession retrieves a session by its hashed token key.
// Returns nil on a miss; an expired or unknown token is not an error.
func (c *Cache) GetSession(ctx context.Context, tokenHash string) (*model.Session, error) {
	data, err := c.client.Get(ctx, sessionPrefix+tokenHash).Bytes()
	if err != nil {
		// Miss or expiry is not an error
		return nil, nil //nolint:nilerr
	}

	var stored storedSession
	if err := json.Unmarshal(data, &stored); err != nil {
		// Corrupted entry - treat as miss
		return nil, nil //nolint:nilerr
	}

	return &model.Session{
		UserID:    stored.UserID,
		Email:     stored.Email,
		Name:      stored.Name,
		Role:      stored.Role,
		CreatedAt: stored.CreatedAt,
	}, nil
}

// SetSession stores a session under its hashed token key with the given TTL.
func (c *Cache) SetSession(ctx context.Context, tokenHash string, session *model.Session, ttl time.Duration) error {
	stored := storedSession{
		UserID:    session.UserID,
		Email:     session.Email,
		Name:      session.Name,
		Role:      session.Role,
		CreatedAt: session.CreatedAt,
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	pipe := c.client.TxPipeline()
	pipe.Set(ctx, sessionPrefix+tokenHash, data, ttl)
	pipe.SAdd(ctx, userSessionsPrefix+session.UserID, tokenHash)
	// The index must outlive the longest session it tracks.
	pipe.Expire(ctx, userSessionsPrefix+session.UserID, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// DeleteSession removes a session. Used on sign-out and role changes, so a
// revoked role can never be exercised through a stale session.
func (c *Cache) DeleteSession(ctx context.Context, tokenHash string) error {
	return c.client.Del(ctx, sessionPrefix+tokenHash).Err()
}

// DeleteUserSessions revokes every session of a user except the one with
// keepTokenHash. Pass an empty keepTokenHash to revoke them all.
func (c *Cache) DeleteUserSessions(ctx context.Context, userID, keepTokenHash string) error {
	setKey := userSessionsPrefix + userID

	hashes, err := c.client.SMembers(ctx, setKey).Result()
	if err != nil {
		return fmt.Errorf("list user sessions: %w", err)
	}

	doomedKeys := make([]string, 0, len(hashes))
	doomedMembers := make([]interface{}, 0, len(hashes))
	for _, h := range hashes {
		if h == keepTokenHash {
			continue
		}
		doomedKeys = append(doomedKeys, sessionPrefix+h)
		doomedMembers = append(doomedMembers, h)
	}
	if len(doomedKeys) == 0 {
		return nil
	}

	pipe := c.client.TxPipeline()
	pipe.Del(ctx, doomedKeys...)
	pipe.SRem(ctx, setKey, doomedMembers...)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("revoke user sessions: %w", err)
	}
	return nil
}
