package search

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	searchRedis "github.com/watchroom/server/internal/repository/search/redis"
	"github.com/watchroom/server/pkg/ytsearch"
)

type stubProvider struct {
	videos []ytsearch.Video
	err    error
	calls  int
}

func (p *stubProvider) Search(ctx context.Context, query string) ([]ytsearch.Video, error) {
	p.calls++
	return p.videos, p.err
}

func testConfig() *Config {
	return &Config{ResultLimit: 10, MaxSeconds: 7200}
}

func TestSearchFiltersLongVideosAndCapsResults(t *testing.T) {
	videos := make([]ytsearch.Video, 0, 15)
	for i := 0; i < 12; i++ {
		videos = append(videos, ytsearch.Video{VideoId: "short", Seconds: 60})
	}
	videos = append(videos, ytsearch.Video{VideoId: "movie", Seconds: 9000})

	s := NewService(&stubProvider{videos: videos}, nil, testConfig(), slog.Default())

	results := s.Search(context.Background(), "cats")
	assert.Len(t, results, 10)
	for _, v := range results {
		assert.Less(t, v.Seconds, 7200)
	}
}

func TestSearchFailureYieldsEmptyList(t *testing.T) {
	s := NewService(&stubProvider{err: errors.New("boom")}, nil, testConfig(), slog.Default())

	results := s.Search(context.Background(), "cats")
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestSearchEmptyQuery(t *testing.T) {
	provider := &stubProvider{}
	s := NewService(provider, nil, testConfig(), slog.Default())

	assert.Empty(t, s.Search(context.Background(), ""))
	assert.Equal(t, 0, provider.calls)
}

func TestSearchUsesCacheOnSecondQuery(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := searchRedis.NewRepo(rc, time.Minute)

	provider := &stubProvider{videos: []ytsearch.Video{{VideoId: "v1", Title: "one", Seconds: 60}}}
	s := NewService(provider, cache, testConfig(), slog.Default())

	first := s.Search(context.Background(), "cats")
	second := s.Search(context.Background(), "Cats")

	assert.Equal(t, 1, provider.calls, "second query must be served from cache")
	assert.Equal(t, first, second)
}

func TestSearchCacheFailureFallsBackToProvider(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := searchRedis.NewRepo(rc, time.Minute)
	mr.Close()

	provider := &stubProvider{videos: []ytsearch.Video{{VideoId: "v1", Seconds: 60}}}
	s := NewService(provider, cache, testConfig(), slog.Default())

	results := s.Search(context.Background(), "cats")
	assert.Len(t, results, 1)
	assert.Equal(t, 1, provider.calls)
}
