package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/watchroom/server/internal/repository/search"
	"github.com/watchroom/server/pkg/ytsearch"
)

// repo caches search results per query. Room state never touches redis; only
// the search collaborator does, so a missing or failing redis degrades to
// uncached lookups.
type repo struct {
	rc  *redis.Client
	ttl time.Duration
}

func NewRepo(rc *redis.Client, ttl time.Duration) *repo {
	return &repo{
		rc:  rc,
		ttl: ttl,
	}
}

func (r repo) key(query string) string {
	return "search:" + strings.ToLower(strings.TrimSpace(query))
}

func (r repo) Get(ctx context.Context, query string) ([]ytsearch.Video, error) {
	raw, err := r.rc.Get(ctx, r.key(query)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, search.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get cached result: %w", err)
	}

	var videos []ytsearch.Video
	if err := json.Unmarshal(raw, &videos); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached result: %w", err)
	}

	return videos, nil
}

func (r repo) Set(ctx context.Context, query string, videos []ytsearch.Video) error {
	raw, err := json.Marshal(videos)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	if err := r.rc.Set(ctx, r.key(query), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cached result: %w", err)
	}

	return nil
}
