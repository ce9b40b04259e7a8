package youtube

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"github.com/noah-isme/course-portal-api/internal/models"
)

const pageSize = 50

// ErrNotConfigured is returned when no API key was provided.
var ErrNotConfigured = errors.New("youtube: api key not configured")

// Client lists playlist entries through the YouTube Data API.
type Client struct {
	svc     *yt.Service
	timeout time.Duration
}

// NewClient builds a client. Extra options are appended after the API key, which lets
// callers point the client at another endpoint.
func NewClient(ctx context.Context, apiKey string, timeout time.Duration, opts ...option.ClientOption) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrNotConfigured
	}
	svc, err := yt.NewService(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}
	return &Client{svc: svc, timeout: timeout}, nil
}

// PlaylistVideos returns every video of a playlist in playlist order.
func (c *Client) PlaylistVideos(ctx context.Context, playlistID string) ([]models.Video, error) {
	if c == nil || c.svc == nil {
		return nil, ErrNotConfigured
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	videos := make([]models.Video, 0)
	pageToken := ""
	for {
		call := c.svc.PlaylistItems.List([]string{"snippet", "contentDetails"}).
			PlaylistId(playlistID).
			MaxResults(pageSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("list playlist %s: %w", playlistID, err)
		}
		for _, item := range resp.Items {
			if video, ok := toVideo(item); ok {
				videos = append(videos, video)
			}
		}
		if resp.NextPageToken == "" {
			return videos, nil
		}
		pageToken = resp.NextPageToken
	}
}

func toVideo(item *yt.PlaylistItem) (models.Video, bool) {
	if item == nil || item.Snippet == nil {
		return models.Video{}, false
	}
	id := ""
	published := ""
	if item.ContentDetails != nil {
		id = item.ContentDetails.VideoId
		published = item.ContentDetails.VideoPublishedAt
	}
	if id == "" && item.Snippet.ResourceId != nil {
		id = item.Snippet.ResourceId.VideoId
	}
	if id == "" {
		return models.Video{}, false
	}
	if published == "" {
		published = item.Snippet.PublishedAt
	}

	video := models.Video{
		ID:          id,
		Title:       item.Snippet.Title,
		Description: item.Snippet.Description,
	}
	if thumbs := item.Snippet.Thumbnails; thumbs != nil {
		for _, thumb := range []*yt.Thumbnail{thumbs.Medium, thumbs.High, thumbs.Default} {
			if thumb != nil && thumb.Url != "" {
				video.ThumbnailURL = thumb.Url
				break
			}
		}
	}
	if ts, err := time.Parse(time.RFC3339, published); err == nil {
		video.UploadDate = &ts
	}
	return video, true
}
