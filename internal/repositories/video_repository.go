package repositories

import (
	"context"

	"github.com/liketagger/backend/internal/models"
)

// VideoRepository exposes data access for saved videos and their tags.
type VideoRepository interface {
	ListVideos(ctx context.Context, query models.VideoQuery) (models.VideoPage, error)
	ToggleTag(ctx context.Context, videoID string, tagID int64) (models.ToggleAction, error)
	UnlikeVideo(ctx context.Context, videoID string) error
	MarkNeedsCaption(ctx context.Context, videoID string) error
}

// Catalog is the full set of operations available to one request.
type Catalog interface {
	TagRepository
	VideoRepository
}
