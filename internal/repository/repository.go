package repository

import (
	"context"

	"github.com/confidenceman02/elm-exhibit/internal/model"
	"github.com/confidenceman02/elm-exhibit/internal/result"
)

// SessionRepository persists the two session records of the login flow:
// the short-lived temp session issued before redirecting to GitHub, and the
// durable user session issued after a successful callback.
//
// Operations where "absent" is an expected outcome return a result.Result;
// write operations report plain success/failure as a bool, with the cause
// logged by the implementation.
type SessionRepository interface {
	InitTempSession(ctx context.Context, temp model.TempSession) bool
	TempSessionExists(ctx context.Context, sessionID string) bool
	InitSession(ctx context.Context, session model.UserSession) bool
	GetSession(ctx context.Context, sessionID string) result.Result[model.UserSession]
	DestroySession(ctx context.Context, sessionID string) bool
}

// UserRepository is the user directory: the durable User record keyed by
// GitHub numeric id, plus the global username<->id index.
type UserRepository interface {
	CreateUser(ctx context.Context, user model.User) bool
	UserExists(ctx context.Context, userID int64) bool
	GetUser(ctx context.Context, userID int64) result.Result[model.User]
	GetUsernameByUserID(ctx context.Context, userID int64) result.Result[string]
	GetUserIDByUsername(ctx context.Context, username string) result.Result[int64]
	UpdateUserAccessToken(ctx context.Context, userID int64, token string) bool
}

// ExhibitRepository indexes exhibit references per user.
type ExhibitRepository interface {
	CreateExhibitReference(ctx context.Context, userID int64, exhibitName string) bool
	GetExhibitReferencesByUserID(ctx context.Context, userID int64) result.Result[[]string]
}

// PackageCache stores the package.elm-lang.org search index under a single
// well-known key with a short TTL. A miss (absent key) is a normal state.
type PackageCache interface {
	GetPackagesCache(ctx context.Context) result.Result[[]model.ElmPackage]
	SetPackagesCache(ctx context.Context, packages []model.ElmPackage) bool
}
