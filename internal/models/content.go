package models

import "time"

// TimedItem is any content unit carrying an optional timestamp used for term buckets.
type TimedItem interface {
	ItemID() string
	ItemName() string
	ItemTime() *time.Time
}

// AttachmentSourceUpload marks attachments stored by the portal itself.
const AttachmentSourceUpload = "upload"

// Attachment is a file or link attached to a course.
type Attachment struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	URL         string     `json:"url,omitempty"`
	Type        string     `json:"type,omitempty"`
	Source      string     `json:"source,omitempty"`
	Path        string     `json:"-"`
	UploadedAt  *time.Time `json:"uploaded_at,omitempty"`
	DownloadURL string     `json:"download_url,omitempty"`
}

func (a Attachment) ItemID() string       { return a.ID }
func (a Attachment) ItemName() string     { return a.Name }
func (a Attachment) ItemTime() *time.Time { return a.UploadedAt }

// Video is a playlist entry.
type Video struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	ThumbnailURL string     `json:"thumbnail_url,omitempty"`
	UploadDate   *time.Time `json:"upload_date,omitempty"`
}

func (v Video) ItemID() string       { return v.ID }
func (v Video) ItemName() string     { return v.Title }
func (v Video) ItemTime() *time.Time { return v.UploadDate }

// WatchURL returns the public YouTube link for the video.
func (v Video) WatchURL() string {
	return "https://www.youtube.com/watch?v=" + v.ID
}
