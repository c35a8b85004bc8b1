package repositories

import (
	"context"

	"github.com/liketagger/backend/internal/models"
)

// TagRepository defines data access for tags.
type TagRepository interface {
	ListTags(ctx context.Context) ([]models.Tag, error)
	CreateTag(ctx context.Context, tag models.NewTag) (models.Tag, error)
	DeleteTag(ctx context.Context, id int64) error
}
