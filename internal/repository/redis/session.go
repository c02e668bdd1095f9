package redis

import (
	"context"
	"log/slog"
	"strconv"

	goredis "github.com/redis/go-redis/v9"

	"github.com/confidenceman02/elm-exhibit/internal/model"
	"github.com/confidenceman02/elm-exhibit/internal/repository"
	"github.com/confidenceman02/elm-exhibit/internal/result"
)

// compile-time check that *DB implements repository.SessionRepository
var _ repository.SessionRepository = (*DB)(nil)

// InitTempSession writes the temp session record and its expiry as one
// atomic batch. Writing the fields and the TTL separately would open a
// window where the record exists forever if the process dies in between.
func (db *DB) InitTempSession(ctx context.Context, temp model.TempSession) bool {
	key := tempSessionKey(temp.SessionID)

	cmds, err := db.multi(ctx, func(pipe goredis.Pipeliner) {
		pipe.HSet(ctx, key, fieldReferer, temp.Referer)
		pipe.Expire(ctx, key, tempSessionTTL)
	})
	if err != nil {
		db.logger.Error("init temp session failed",
			slog.String("sessionID", temp.SessionID),
			slog.String("error", err.Error()),
		)
		return false
	}

	return allTruthy(cmds)
}

// TempSessionExists reports whether a temp session record is still alive.
// This existence check is the sole guard against forged or replayed OAuth
// state: the session id inside the state blob must match a record this
// server itself created.
func (db *DB) TempSessionExists(ctx context.Context, sessionID string) bool {
	found, err := db.exists(ctx, tempSessionKey(sessionID))
	if err != nil {
		db.logger.Error("temp session lookup failed",
			slog.String("sessionID", sessionID),
			slog.String("error", err.Error()),
		)
		return false
	}
	return found
}

// InitSession writes the durable session hash and its 7-day expiry
// atomically.
func (db *DB) InitSession(ctx context.Context, session model.UserSession) bool {
	key := sessionKey(session.SessionID)

	cmds, err := db.multi(ctx, func(pipe goredis.Pipeliner) {
		pipe.HSet(ctx, key,
			fieldUsername, session.Username,
			fieldUserID, strconv.FormatInt(session.UserID, 10),
			fieldAvatarURL, session.AvatarURL,
			fieldSessionID, session.SessionID,
		)
		pipe.Expire(ctx, key, sessionTTL)
	})
	if err != nil {
		db.logger.Error("init session failed",
			slog.String("sessionID", session.SessionID),
			slog.String("error", err.Error()),
		)
		return false
	}

	return allTruthy(cmds)
}

// GetSession fetches the session record by id. An absent record — expired
// or never created — is the normal "not logged in" outcome, so it comes
// back as Err, not as an error.
func (db *DB) GetSession(ctx context.Context, sessionID string) result.Result[model.UserSession] {
	fields, err := db.hashGetAll(ctx, sessionKey(sessionID))
	if err != nil {
		db.logger.Error("get session failed",
			slog.String("sessionID", sessionID),
			slog.String("error", err.Error()),
		)
		return result.Err[model.UserSession]()
	}
	if len(fields) == 0 {
		return result.Err[model.UserSession]()
	}
	return hashToUserSession(fields)
}

// DestroySession removes the session record, reporting whether a record
// was actually removed.
func (db *DB) DestroySession(ctx context.Context, sessionID string) bool {
	removed, err := db.del(ctx, sessionKey(sessionID))
	if err != nil {
		db.logger.Error("destroy session failed",
			slog.String("sessionID", sessionID),
			slog.String("error", err.Error()),
		)
		return false
	}
	return removed
}

// hashToUserSession converts the raw hash fields into a UserSession.
// The userId field is stored as a string; a record with a non-numeric id
// is corrupt and reported as Err.
func hashToUserSession(fields map[string]string) result.Result[model.UserSession] {
	userID, err := strconv.ParseInt(fields[fieldUserID], 10, 64)
	if err != nil {
		return result.Err[model.UserSession]()
	}
	return result.Ok(model.UserSession{
		Username:  fields[fieldUsername],
		UserID:    userID,
		AvatarURL: fields[fieldAvatarURL],
		SessionID: fields[fieldSessionID],
	})
}
