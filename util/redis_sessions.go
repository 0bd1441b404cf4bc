package util

import (
	"context"
	"fmt"
	"time"

	"github.com/ariqfadlan/medpractice/config"
)

// Session keys: session:<token> holds the user id with the session TTL,
// user_sessions:<id> is a per-user set used for bulk invalidation on
// logout. With no Redis client available all helpers are no-ops and
// session validity falls back to the JWT expiry alone.

// StoreSession records the session token with the session TTL and adds it
// to the per-user set.
func StoreSession(userID uint, token string) error {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return nil
	}
	ctx := context.Background()
	if err := rdb.Set(ctx, sessionKey(token), userID, SessionDuration).Err(); err != nil {
		return err
	}
	userSetKey := userSessionsKey(userID)
	if err := rdb.SAdd(ctx, userSetKey, token).Err(); err != nil {
		return err
	}
	// The set persists until explicit cleanup on logout/invalidation.
	return rdb.Persist(ctx, userSetKey).Err()
}

// SessionAlive reports whether the token still has a live Redis entry.
// With a nil client it returns true so JWT expiry is the only gate.
func SessionAlive(token string) bool {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return true
	}
	ctx := context.Background()
	n, err := rdb.Exists(ctx, sessionKey(token)).Result()
	if err != nil {
		// Redis failure must not lock every admin out.
		return true
	}
	return n > 0
}

// TouchSession extends the session TTL after authenticated activity.
func TouchSession(token string) {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return
	}
	_ = rdb.Expire(context.Background(), sessionKey(token), SessionDuration).Err()
}

// SessionTTL returns the remaining session lifetime, or the full duration
// when Redis is unavailable.
func SessionTTL(token string) time.Duration {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return SessionDuration
	}
	ttl, err := rdb.TTL(context.Background(), sessionKey(token)).Result()
	if err != nil || ttl < 0 {
		return 0
	}
	return ttl
}

// DeleteSession removes a single session token and its set membership.
func DeleteSession(userID uint, token string) error {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return nil
	}
	ctx := context.Background()
	if err := rdb.Del(ctx, sessionKey(token)).Err(); err != nil {
		return err
	}
	// Atomically remove the token and drop the set once empty.
	script := `
		local removed = redis.call('SREM', KEYS[1], ARGV[1])
		if removed > 0 then
			local count = redis.call('SCARD', KEYS[1])
			if count == 0 then
				redis.call('DEL', KEYS[1])
			end
		end
		return removed
	`
	return rdb.Eval(ctx, script, []string{userSessionsKey(userID)}, token).Err()
}

// InvalidateUserSessions deletes every session of the given user and the
// per-user set. Best-effort; callers may ignore the error.
func InvalidateUserSessions(userID uint) error {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return nil
	}
	ctx := context.Background()
	userSetKey := userSessionsKey(userID)
	tokens, err := rdb.SMembers(ctx, userSetKey).Result()
	if err != nil {
		return err
	}
	for _, tok := range tokens {
		_ = rdb.Del(ctx, sessionKey(tok)).Err()
	}
	return rdb.Del(ctx, userSetKey).Err()
}

func sessionKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}

func userSessionsKey(userID uint) string {
	return fmt.Sprintf("user_sessions:%d", userID)
}
