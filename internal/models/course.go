package models

// Course is a normalized course document.
type Course struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Year             string       `json:"year,omitempty"`
	Section          string       `json:"section,omitempty"`
	Description      string       `json:"description,omitempty"`
	PlaylistID       string       `json:"playlist_id,omitempty"`
	FallPlaylistID   string       `json:"fall_playlist_id,omitempty"`
	SpringPlaylistID string       `json:"spring_playlist_id,omitempty"`
	Attachments      []Attachment `json:"attachments,omitempty"`
}

// HasSemesterPlaylists reports whether the course splits videos into per-term playlists.
func (c Course) HasSemesterPlaylists() bool {
	return c.FallPlaylistID != "" || c.SpringPlaylistID != ""
}

// IsAssociate reports whether the course belongs to the associates track.
func (c Course) IsAssociate() bool {
	return containsFold(c.Name, "associate")
}
