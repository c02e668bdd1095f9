package redis

import (
	"context"
	"log/slog"

	"github.com/confidenceman02/elm-exhibit/internal/repository"
	"github.com/confidenceman02/elm-exhibit/internal/result"
)

// compile-time check that *DB implements repository.ExhibitRepository
var _ repository.ExhibitRepository = (*DB)(nil)

// CreateExhibitReference records that the user owns an exhibit. The member
// format is "<username>.<exhibitName>.exhibit", so the username must be
// resolvable first; when it isn't, the operation fails closed with no side
// effects.
func (db *DB) CreateExhibitReference(ctx context.Context, userID int64, exhibitName string) bool {
	username, ok := db.GetUsernameByUserID(ctx, userID).Get()
	if !ok {
		return false
	}

	added, err := db.sortedSetAdd(ctx, exhibitsTable, float64(userID), exhibitKey(username, exhibitName))
	if err != nil {
		db.logger.Error("create exhibit reference failed",
			slog.Int64("userID", userID),
			slog.String("exhibit", exhibitName),
			slog.String("error", err.Error()),
		)
		return false
	}
	return added > 0
}

// GetExhibitReferencesByUserID returns the user's exhibit references via a
// score range query. A user with zero exhibits is Ok with an empty list —
// that is a valid state, not a lookup failure.
func (db *DB) GetExhibitReferencesByUserID(ctx context.Context, userID int64) result.Result[[]string] {
	score := float64(userID)
	members, err := db.sortedSetRangeByScore(ctx, exhibitsTable, score, score)
	if err != nil {
		db.logger.Error("exhibit references lookup failed",
			slog.Int64("userID", userID),
			slog.String("error", err.Error()),
		)
		return result.Err[[]string]()
	}
	if members == nil {
		members = []string{}
	}
	return result.Ok(members)
}
