package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/confidenceman02/elm-exhibit/internal/elm"
	"github.com/confidenceman02/elm-exhibit/internal/metrics"
	"github.com/confidenceman02/elm-exhibit/internal/model"
	"github.com/confidenceman02/elm-exhibit/internal/repository"
	"github.com/confidenceman02/elm-exhibit/internal/result"
)

// PackageService serves the elm package index with a cache-aside read:
// try the store cache, fall through to a live fetch on a miss, and write
// the fetched index back opportunistically.
type PackageService struct {
	cache   repository.PackageCache
	client  *elm.Client
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewPackageService creates a PackageService.
func NewPackageService(cache repository.PackageCache, client *elm.Client, logger *slog.Logger, m *metrics.Metrics) *PackageService {
	return &PackageService{
		cache:   cache,
		client:  client,
		logger:  logger,
		metrics: m,
	}
}

// GetElmPackages returns the package index.
//
// A cache hit short-circuits — no external call. On a miss the live index
// is fetched; fetch failure propagates as Err. The write-back is
// best-effort: the cache is an optimization, so a failed write still
// returns Ok with the fetched data.
func (s *PackageService) GetElmPackages(ctx context.Context) result.Result[[]model.ElmPackage] {
	if cached, ok := s.cache.GetPackagesCache(ctx).Get(); ok {
		s.metrics.PackageCacheHits.Inc()
		return result.Ok(cached)
	}
	s.metrics.PackageCacheMisses.Inc()

	packages, err := s.client.FetchPackages(ctx)
	if err != nil {
		s.logger.Error("package index fetch failed",
			slog.String("error", err.Error()),
		)
		return result.Err[[]model.ElmPackage]()
	}

	if !s.cache.SetPackagesCache(ctx, packages) {
		s.logger.Warn("package cache write failed, serving fetched data anyway")
	}

	return result.Ok(packages)
}

// FilterByAuthor returns the packages whose author segment — the name up
// to the last '/' — equals author.
func FilterByAuthor(author string, packages []model.ElmPackage) []model.ElmPackage {
	filtered := []model.ElmPackage{}
	for _, p := range packages {
		idx := strings.LastIndex(p.Name, "/")
		if idx < 0 {
			continue
		}
		if p.Name[:idx] == author {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
