package redis

import (
	"context"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/confidenceman02/elm-exhibit/internal/model"
	"github.com/confidenceman02/elm-exhibit/internal/repository"
	"github.com/confidenceman02/elm-exhibit/internal/result"
)

// compile-time check that *DB implements repository.PackageCache
var _ repository.PackageCache = (*DB)(nil)

// GetPackagesCache reads the cached package index. An absent key is a
// miss. A store read error is also surfaced as a miss so that the caller
// degrades to a live fetch, but it is logged at Warn — "miss due to
// absence" and "miss due to store error" must stay distinguishable in the
// logs even though both take the fetch path.
func (db *DB) GetPackagesCache(ctx context.Context) result.Result[[]model.ElmPackage] {
	names, err := db.listRange(ctx, packageCacheKey())
	if err != nil {
		db.logger.Warn("package cache read failed, treating as miss",
			slog.String("error", err.Error()),
		)
		return result.Err[[]model.ElmPackage]()
	}
	if len(names) == 0 {
		return result.Err[[]model.ElmPackage]()
	}

	packages := make([]model.ElmPackage, len(names))
	for i, name := range names {
		packages[i] = model.ElmPackage{Name: name}
	}
	return result.Ok(packages)
}

// SetPackagesCache writes the full index and its TTL in one atomic batch,
// so the cache is either fully present or absent — never a partial list
// without an expiry.
func (db *DB) SetPackagesCache(ctx context.Context, packages []model.ElmPackage) bool {
	if len(packages) == 0 {
		return false
	}

	key := packageCacheKey()
	names := make([]interface{}, len(packages))
	for i, p := range packages {
		names[i] = p.Name
	}

	cmds, err := db.multi(ctx, func(pipe goredis.Pipeliner) {
		pipe.RPush(ctx, key, names...)
		pipe.Expire(ctx, key, packageCacheTTL)
	})
	if err != nil {
		db.logger.Error("package cache write failed",
			slog.String("error", err.Error()),
		)
		return false
	}

	return allTruthy(cmds)
}
