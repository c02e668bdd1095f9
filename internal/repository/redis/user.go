package redis

import (
	"context"
	"log/slog"
	"math"
	"strconv"

	goredis "github.com/redis/go-redis/v9"

	"github.com/confidenceman02/elm-exhibit/internal/model"
	"github.com/confidenceman02/elm-exhibit/internal/repository"
	"github.com/confidenceman02/elm-exhibit/internal/result"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// CreateUser writes the user record and its index entry as one atomic
// batch:
//
//   - ZADD users <userId> <username>   (the username<->id index)
//   - HSET <userId>.user ...           (the full record)
//
// Both sub-results must be truthy. A falsy ZADD means the username was
// already indexed — the whole operation reports failure rather than leave
// the index and the record disagreeing.
func (db *DB) CreateUser(ctx context.Context, user model.User) bool {
	key := userKey(user.UserID)

	cmds, err := db.multi(ctx, func(pipe goredis.Pipeliner) {
		pipe.ZAdd(ctx, usersTable, goredis.Z{
			Score:  float64(user.UserID),
			Member: user.Username,
		})
		pipe.HSet(ctx, key,
			fieldUsername, user.Username,
			fieldUserID, strconv.FormatInt(user.UserID, 10),
			fieldAvatarURL, user.AvatarURL,
			fieldAccessToken, user.AccessToken,
		)
	})
	if err != nil {
		db.logger.Error("create user failed",
			slog.Int64("userID", user.UserID),
			slog.String("error", err.Error()),
		)
		return false
	}

	return allTruthy(cmds)
}

// UserExists reports whether a user record is present for the GitHub id.
func (db *DB) UserExists(ctx context.Context, userID int64) bool {
	found, err := db.exists(ctx, userKey(userID))
	if err != nil {
		db.logger.Error("user lookup failed",
			slog.Int64("userID", userID),
			slog.String("error", err.Error()),
		)
		return false
	}
	return found
}

// GetUser fetches the full user record. Err when the user has never been
// created.
func (db *DB) GetUser(ctx context.Context, userID int64) result.Result[model.User] {
	fields, err := db.hashGetAll(ctx, userKey(userID))
	if err != nil {
		db.logger.Error("get user failed",
			slog.Int64("userID", userID),
			slog.String("error", err.Error()),
		)
		return result.Err[model.User]()
	}
	if len(fields) == 0 {
		return result.Err[model.User]()
	}
	return hashToUser(fields)
}

// GetUsernameByUserID resolves the username via a score range query over
// the users index. Zero matches is Err.
func (db *DB) GetUsernameByUserID(ctx context.Context, userID int64) result.Result[string] {
	score := float64(userID)
	members, err := db.sortedSetRangeByScore(ctx, usersTable, score, score)
	if err != nil {
		db.logger.Error("username lookup failed",
			slog.Int64("userID", userID),
			slog.String("error", err.Error()),
		)
		return result.Err[string]()
	}
	if len(members) == 0 {
		return result.Err[string]()
	}
	return result.Ok(members[0])
}

// GetUserIDByUsername resolves the GitHub id via a score lookup on the
// users index. Absent members and non-numeric scores are both Err — an
// index entry whose score is not a valid user id is useless to callers.
func (db *DB) GetUserIDByUsername(ctx context.Context, username string) result.Result[int64] {
	score, ok, err := db.sortedSetScore(ctx, usersTable, username)
	if err != nil {
		db.logger.Error("user id lookup failed",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return result.Err[int64]()
	}
	if !ok || math.IsNaN(score) || math.IsInf(score, 0) {
		return result.Err[int64]()
	}
	return result.Ok(int64(score))
}

// UpdateUserAccessToken overwrites the stored access token. It no-ops with
// false when the user record does not exist — a token without a record
// would be unreachable garbage.
func (db *DB) UpdateUserAccessToken(ctx context.Context, userID int64, token string) bool {
	if !db.UserExists(ctx, userID) {
		return false
	}

	if _, err := db.hashSet(ctx, userKey(userID), map[string]string{
		fieldAccessToken: token,
	}); err != nil {
		db.logger.Error("access token update failed",
			slog.Int64("userID", userID),
			slog.String("error", err.Error()),
		)
		return false
	}
	return true
}

func hashToUser(fields map[string]string) result.Result[model.User] {
	userID, err := strconv.ParseInt(fields[fieldUserID], 10, 64)
	if err != nil {
		return result.Err[model.User]()
	}
	return result.Ok(model.User{
		Username:    fields[fieldUsername],
		UserID:      userID,
		AvatarURL:   fields[fieldAvatarURL],
		AccessToken: fields[fieldAccessToken],
	})
}
