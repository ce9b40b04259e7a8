package service

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/course-portal-api/internal/dto"
	"github.com/noah-isme/course-portal-api/internal/models"
)

type attachmentSigner interface {
	Sign(courseID, attachmentID, path string) (string, time.Time, error)
}

type playlistSource interface {
	Playlist(ctx context.Context, playlistID string) ([]models.Video, error)
}

type playlistInvalidator interface {
	Invalidate(ctx context.Context, playlistID string) error
}

// ContentService turns raw course content into per-viewer tabbed views.
type ContentService struct {
	videos       playlistSource
	signer       attachmentSigner
	downloadPath string
	metrics      *MetricsService
	logger       *zap.Logger
}

// NewContentService constructs a ContentService. downloadPath is the route that redeems
// signed attachment tokens.
func NewContentService(videos playlistSource, signer attachmentSigner, downloadPath string, metrics *MetricsService, logger *zap.Logger) *ContentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContentService{videos: videos, signer: signer, downloadPath: downloadPath, metrics: metrics, logger: logger}
}

// Attachments partitions the course attachments, newest first within each bucket.
func (s *ContentService) Attachments(course models.Course, access CourseAccess) dto.AttachmentView {
	items := make([]models.Attachment, 0, len(course.Attachments))
	for _, attachment := range course.Attachments {
		items = append(items, s.withDownloadURL(course.ID, attachment))
	}
	buckets := Partition(items, access.Permitted, ChronologicalDescending[models.Attachment]())
	s.metrics.ObservePartition("attachments", len(buckets.Fall), len(buckets.Spring), len(buckets.All))
	return contentView(buckets, access.Permitted)
}

// Videos fetches the course playlists and partitions them. Courses with per-term playlists
// use the playlist as the term; legacy single-playlist courses are bucketed by upload date.
// A failing playlist degrades to an empty list.
func (s *ContentService) Videos(ctx context.Context, course models.Course, access CourseAccess) dto.VideoView {
	rule := ClassPriority[models.Video]()

	var buckets Buckets[models.Video]
	if course.HasSemesterPlaylists() {
		var fall, spring []models.Video
		// One failing term must not cancel the other fetch.
		var g errgroup.Group
		if access.Permitted.Allows(models.TermFall) {
			g.Go(func() (err error) {
				fall, err = s.playlist(ctx, course.FallPlaylistID)
				return err
			})
		}
		if access.Permitted.Allows(models.TermSpring) {
			g.Go(func() (err error) {
				spring, err = s.playlist(ctx, course.SpringPlaylistID)
				return err
			})
		}
		if err := g.Wait(); err != nil {
			s.logger.Warn("playlist unavailable, serving partial list", zap.String("course_id", course.ID), zap.Error(err))
		}
		buckets = PartitionPlaylists(fall, spring, access.Permitted, rule)
	} else {
		videos, err := s.playlist(ctx, course.PlaylistID)
		if err != nil {
			s.logger.Warn("playlist unavailable, serving empty list", zap.String("course_id", course.ID), zap.Error(err))
		}
		buckets = Partition(videos, access.Permitted, rule)
	}

	s.metrics.ObservePartition("videos", len(buckets.Fall), len(buckets.Spring), len(buckets.All))
	return contentView(buckets, access.Permitted)
}

// RefreshVideos drops the cached playlists of course so the next fetch goes upstream.
func (s *ContentService) RefreshVideos(ctx context.Context, course models.Course) {
	invalidator, ok := s.videos.(playlistInvalidator)
	if !ok {
		return
	}
	for _, id := range []string{course.PlaylistID, course.FallPlaylistID, course.SpringPlaylistID} {
		if id == "" {
			continue
		}
		if err := invalidator.Invalidate(ctx, id); err != nil {
			s.logger.Warn("failed to invalidate playlist cache", zap.String("course_id", course.ID), zap.String("playlist_id", id), zap.Error(err))
		}
	}
}

func (s *ContentService) playlist(ctx context.Context, playlistID string) ([]models.Video, error) {
	if s.videos == nil || playlistID == "" {
		return nil, nil
	}
	videos, err := s.videos.Playlist(ctx, playlistID)
	if err != nil {
		return nil, fmt.Errorf("playlist %s: %w", playlistID, err)
	}
	return videos, nil
}

func (s *ContentService) withDownloadURL(courseID string, attachment models.Attachment) models.Attachment {
	if attachment.Source != models.AttachmentSourceUpload || attachment.Path == "" || s.signer == nil {
		return attachment
	}
	token, _, err := s.signer.Sign(courseID, attachment.ID, attachment.Path)
	if err != nil {
		s.logger.Warn("failed to sign attachment", zap.String("course_id", courseID), zap.String("attachment_id", attachment.ID), zap.Error(err))
		return attachment
	}
	attachment.DownloadURL = s.downloadPath + "?token=" + url.QueryEscape(token)
	return attachment
}

func contentView[T models.TimedItem](buckets Buckets[T], permitted models.PermittedTerms) dto.ContentView[T] {
	state := NewTabState(permitted)
	return dto.ContentView[T]{
		Fall:        buckets.Fall,
		Spring:      buckets.Spring,
		All:         buckets.All,
		VisibleTabs: state.Visible(),
		ActiveTab:   state.Active(),
		Total:       len(buckets.All),
	}
}

// SelectTab returns a copy of view with tab made active. It reports false when the tab
// is not visible to the viewer.
func SelectTab[T any](view dto.ContentView[T], tab models.SemesterTab) (dto.ContentView[T], bool) {
	for _, visible := range view.VisibleTabs {
		if visible == tab {
			view.ActiveTab = tab
			return view, true
		}
	}
	return view, false
}
