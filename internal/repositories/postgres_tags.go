package repositories

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/liketagger/backend/internal/models"
)

// ListTags returns all tags in ascending id order.
func (c *scopedCatalog) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	err := c.run(ctx, "list tags", func(ctx context.Context, tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
            SELECT id, name, keystroke, color
            FROM tags
            ORDER BY id
        `)
		if err != nil {
			return err
		}
		tags, err = pgx.CollectRows(rows, pgx.RowToStructByPos[models.Tag])
		return err
	})
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []models.Tag{}
	}
	return tags, nil
}

// CreateTag inserts a tag and returns the stored row. Missing name or keystroke
// are written as NULL so the table's constraints decide.
func (c *scopedCatalog) CreateTag(ctx context.Context, tag models.NewTag) (models.Tag, error) {
	color := tagColor(tag.Color)

	var created models.Tag
	err := c.run(ctx, "create tag", func(ctx context.Context, tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
            INSERT INTO tags (name, keystroke, color)
            VALUES ($1, $2, $3)
            RETURNING id, name, keystroke, color
        `, tag.Name, tag.Keystroke, color)
		return row.Scan(&created.ID, &created.Name, &created.Keystroke, &created.Color)
	})
	if err != nil {
		return models.Tag{}, err
	}
	return created, nil
}

// DeleteTag removes a tag; its associations cascade. Unknown ids are not an error.
func (c *scopedCatalog) DeleteTag(ctx context.Context, id int64) error {
	return c.run(ctx, "delete tag", func(ctx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `DELETE FROM tags WHERE id = $1`, id)
		return err
	})
}

// tagColor applies the default to a blank color and keeps any other value as sent.
func tagColor(color string) string {
	if strings.TrimSpace(color) == "" {
		return models.DefaultTagColor
	}
	return color
}
