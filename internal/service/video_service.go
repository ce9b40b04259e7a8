package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/noah-isme/course-portal-api/internal/models"
	appErrors "github.com/noah-isme/course-portal-api/pkg/errors"
)

// PlaylistFetcher loads the entries of a video playlist.
type PlaylistFetcher interface {
	PlaylistVideos(ctx context.Context, playlistID string) ([]models.Video, error)
}

// VideoService fetches playlists through a shared cache and collapses concurrent fetches
// of the same playlist into one upstream call.
type VideoService struct {
	fetcher PlaylistFetcher
	cache   *CacheService
	ttl     time.Duration
	logger  *zap.Logger
	group   singleflight.Group
}

// NewVideoService constructs a VideoService. A nil fetcher makes every playlist unavailable.
func NewVideoService(fetcher PlaylistFetcher, cache *CacheService, ttl time.Duration, logger *zap.Logger) *VideoService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VideoService{fetcher: fetcher, cache: cache, ttl: ttl, logger: logger}
}

func playlistCacheKey(playlistID string) string {
	return "playlist:" + playlistID
}

// Playlist returns the videos of playlistID. An empty id yields no videos.
func (s *VideoService) Playlist(ctx context.Context, playlistID string) ([]models.Video, error) {
	playlistID = strings.TrimSpace(playlistID)
	if playlistID == "" {
		return []models.Video{}, nil
	}

	key := playlistCacheKey(playlistID)
	var cached []models.Video
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	if s.fetcher == nil {
		return nil, appErrors.Clone(appErrors.ErrUnavailable, "video provider is not configured")
	}

	value, err, _ := s.group.Do(key, func() (interface{}, error) {
		videos, err := s.fetcher.PlaylistVideos(ctx, playlistID)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, key, videos, s.ttl); err != nil {
			s.logger.Debug("playlist not cached", zap.String("playlist_id", playlistID), zap.Error(err))
		}
		return videos, nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to fetch playlist")
	}
	return value.([]models.Video), nil
}

// Invalidate drops the cached copy of a playlist.
func (s *VideoService) Invalidate(ctx context.Context, playlistID string) error {
	return s.cache.Invalidate(ctx, playlistCacheKey(playlistID))
}
