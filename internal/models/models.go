package models

import "time"

// Liked statuses recorded for a video.
const (
	LikedStatusLiked   = "liked"
	LikedStatusUnliked = "unliked"
)

// DefaultTagColor is applied to tags created without an explicit color.
const DefaultTagColor = "#666666"

// Video is a saved video as stored by the external ingester.
type Video struct {
	VideoID         string    `json:"video_id"`
	Title           string    `json:"title"`
	ChannelID       *string   `json:"channel_id"`
	ChannelTitle    *string   `json:"channel_title"`
	URL             string    `json:"url"`
	DurationSeconds *int      `json:"duration_seconds"`
	IsShort         bool      `json:"is_short"`
	Captions        *string   `json:"captions"`
	SavedAt         time.Time `json:"saved_at"`
	LikedStatus     string    `json:"liked_status"`
	IsMusic         bool      `json:"is_music"`
	IsTheological   bool      `json:"is_theological"`
	IsInteresting   bool      `json:"is_interesting"`
	NeedsCaption    bool      `json:"needs_caption"`
}

// Tag is a user-defined label bound to a keyboard shortcut.
type Tag struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Keystroke string `json:"keystroke"`
	Color     string `json:"color"`
}

// VideoTag links one video to one tag.
type VideoTag struct {
	VideoID string `json:"video_id"`
	TagID   int64  `json:"tag_id"`
}

// VideoWithTags is a video expanded with its associated tags.
type VideoWithTags struct {
	Video
	Tags []Tag `json:"tags"`
}

// NewTag carries the fields accepted when creating a tag. Nil fields are
// written as NULL and left to the store's constraints.
type NewTag struct {
	Name      *string
	Keystroke *string
	Color     string
}

// VideoFilter selects a subset of videos by a single flag.
type VideoFilter string

const (
	FilterAll          VideoFilter = "all"
	FilterLiked        VideoFilter = "liked"
	FilterUnliked      VideoFilter = "unliked"
	FilterShorts       VideoFilter = "shorts"
	FilterNeedsCaption VideoFilter = "needs_caption"
)

// VideoQuery describes one page of the video listing.
type VideoQuery struct {
	Offset int
	Limit  int
	Filter VideoFilter
	Search string
}

// VideoPage is a window of videos plus the count of all matching rows.
type VideoPage struct {
	Videos []VideoWithTags `json:"videos"`
	Total  int64           `json:"total"`
}

// ToggleAction reports what a tag toggle did.
type ToggleAction string

const (
	ToggleAdded   ToggleAction = "added"
	ToggleRemoved ToggleAction = "removed"
)
