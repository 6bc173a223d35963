package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/knayak08/AlumniBridge/internal/apperr"
	"github.com/knayak08/AlumniBridge/internal/db"
	"github.com/knayak08/AlumniBridge/internal/models"
)

// SessionTTL matches the JWT lifetime; a session that outlives its token is
// useless and a token that outlives its session is rejected.
const SessionTTL = 4 * time.Hour

const sessionKeyPrefix = "session:"

// Session is the server-side state bound to one issued token. The cached
// user is what GET /auth/me style reads would return; it is rewritten on
// every profile-mutating success.
type Session struct {
	UserID string      `json:"user_id"`
	Role   string      `json:"role"`
	User   models.User `json:"user"`
}

// CreateSession stores a session under the token ID with the token's TTL.
func CreateSession(tokenID string, user models.User) error {
	sess := Session{
		UserID: user.ID.Hex(),
		Role:   user.Role,
		User:   user,
	}
	val, err := json.Marshal(sess)
	if err != nil {
		return apperr.Internal("server error", err)
	}
	if err := db.RedisClient.Set(context.TODO(), sessionKeyPrefix+tokenID, val, SessionTTL).Err(); err != nil {
		return apperr.Internal("server error", err)
	}
	return nil
}

// GetSession loads the session for a token ID. A missing session means the
// token was logged out or expired server-side.
func GetSession(tokenID string) (Session, error) {
	var sess Session
	val, err := db.RedisClient.Get(context.TODO(), sessionKeyPrefix+tokenID).Bytes()
	if errors.Is(err, redis.Nil) {
		return sess, apperr.Unauthorized("session expired")
	}
	if err != nil {
		return sess, apperr.Internal("server error", err)
	}
	if err := json.Unmarshal(val, &sess); err != nil {
		return sess, apperr.Internal("server error", err)
	}
	return sess, nil
}

// RefreshSessionUser re-fetches the user document and rewrites the cached
// copy, preserving the remaining TTL. Called after every profile-mutating
// success so the session never serves a stale user object.
func RefreshSessionUser(tokenID, userID string) error {
	user, err := GetCurrentUser(userID)
	if err != nil {
		return err
	}

	key := sessionKeyPrefix + tokenID
	ttl, err := db.RedisClient.TTL(context.TODO(), key).Result()
	if err != nil {
		return apperr.Internal("server error", err)
	}
	if ttl <= 0 {
		// Session already gone; nothing to refresh.
		return nil
	}

	sess := Session{UserID: user.ID.Hex(), Role: user.Role, User: user}
	val, err := json.Marshal(sess)
	if err != nil {
		return apperr.Internal("server error", err)
	}
	return db.RedisClient.Set(context.TODO(), key, val, ttl).Err()
}

// DeleteSession invalidates a token server-side.
func DeleteSession(tokenID string) error {
	if err := db.RedisClient.Del(context.TODO(), sessionKeyPrefix+tokenID).Err(); err != nil {
		return apperr.Internal("server error", err)
	}
	return nil
}
