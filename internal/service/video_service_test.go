package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-portal-api/internal/models"
	appErrors "github.com/noah-isme/course-portal-api/pkg/errors"
)

func TestVideoPlaylistCollapsesConcurrentFetches(t *testing.T) {
	fetcher := &fakePlaylists{videos: map[string][]models.Video{"PL1": {{ID: "v1"}}}, delay: 50 * time.Millisecond}
	svc := NewVideoService(fetcher, nil, time.Minute, nil)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			videos, err := svc.Playlist(context.Background(), "PL1")
			assert.NoError(t, err)
			assert.Len(t, videos, 1)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, fetcher.count("PL1"))
}

func TestVideoPlaylistUsesCache(t *testing.T) {
	repo := newMemoryCache()
	cache := NewCacheService(repo, NewMetricsService(), time.Minute, nil, true)
	fetcher := &fakePlaylists{videos: map[string][]models.Video{"PL1": {{ID: "v1", Title: "Class 1"}}}}
	svc := NewVideoService(fetcher, cache, time.Minute, nil)

	_, err := svc.Playlist(context.Background(), "PL1")
	require.NoError(t, err)
	videos, err := svc.Playlist(context.Background(), "PL1")
	require.NoError(t, err)

	assert.Equal(t, "Class 1", videos[0].Title)
	assert.Equal(t, 1, fetcher.count("PL1"))

	require.NoError(t, svc.Invalidate(context.Background(), "PL1"))
	_, err = svc.Playlist(context.Background(), "PL1")
	require.NoError(t, err)
	assert.Equal(t, 2, fetcher.count("PL1"))
}

func TestVideoPlaylistErrors(t *testing.T) {
	videos, err := NewVideoService(nil, nil, 0, nil).Playlist(context.Background(), " ")
	require.NoError(t, err)
	assert.Empty(t, videos)

	_, err = NewVideoService(nil, nil, 0, nil).Playlist(context.Background(), "PL1")
	assert.Equal(t, appErrors.ErrUnavailable.Code, appErrors.FromError(err).Code)

	fetcher := &fakePlaylists{errs: map[string]error{"PL1": errors.New("403")}}
	_, err = NewVideoService(fetcher, nil, 0, nil).Playlist(context.Background(), "PL1")
	assert.Equal(t, appErrors.ErrUnavailable.Code, appErrors.FromError(err).Code)
}
