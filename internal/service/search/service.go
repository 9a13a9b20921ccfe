package search

import (
	"context"
	"log/slog"

	"github.com/watchroom/server/pkg/ytsearch"
)

type iProvider interface {
	Search(ctx context.Context, query string) ([]ytsearch.Video, error)
}

// Cache stores query results; a nil Cache disables caching.
type Cache interface {
	Get(ctx context.Context, query string) ([]ytsearch.Video, error)
	Set(ctx context.Context, query string, videos []ytsearch.Video) error
}

type Config struct {
	ResultLimit int
	MaxSeconds  int
}

type service struct {
	provider iProvider
	cache    Cache
	cfg      *Config
	logger   *slog.Logger
}

// NewService builds the media-search collaborator. cache may be nil, in which
// case every query hits the provider.
func NewService(provider iProvider, cache Cache, cfg *Config, logger *slog.Logger) *service {
	return &service{
		provider: provider,
		cache:    cache,
		cfg:      cfg,
		logger:   logger,
	}
}

// Search returns at most ResultLimit videos shorter than MaxSeconds. Any
// provider or cache failure degrades to an empty result list; search must
// never corrupt or stall room handling.
func (s *service) Search(ctx context.Context, query string) []ytsearch.Video {
	if query == "" {
		return []ytsearch.Video{}
	}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, query)
		if err == nil {
			return cached
		}
	}

	videos, err := s.provider.Search(ctx, query)
	if err != nil {
		s.logger.InfoContext(ctx, "search failed", "query", query, "error", err)
		return []ytsearch.Video{}
	}

	filtered := make([]ytsearch.Video, 0, s.cfg.ResultLimit)
	for _, v := range videos {
		if v.Seconds >= s.cfg.MaxSeconds {
			continue
		}

		filtered = append(filtered, v)
		if len(filtered) == s.cfg.ResultLimit {
			break
		}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, query, filtered); err != nil {
			s.logger.InfoContext(ctx, "failed to cache search result", "query", query, "error", err)
		}
	}

	return filtered
}
