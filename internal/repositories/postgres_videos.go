package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/liketagger/backend/internal/models"
)

const videoColumns = `video_id, title, channel_id, channel_title, url, duration_seconds, is_short,
            captions, saved_at, liked_status, is_music, is_theological, is_interesting, needs_caption`

// ListVideos returns one window of videos, newest first, with their tags and the
// number of videos matching the filter across all pages.
func (c *scopedCatalog) ListVideos(ctx context.Context, query models.VideoQuery) (models.VideoPage, error) {
	where, args := videoConditions(query)

	page := models.VideoPage{Videos: []models.VideoWithTags{}}
	err := c.run(ctx, "list videos", func(ctx context.Context, tx pgx.Tx) error {
		page.Videos = page.Videos[:0]

		if err := tx.QueryRow(ctx, `SELECT count(*) FROM videos`+where, args...).Scan(&page.Total); err != nil {
			return fmt.Errorf("count videos: %w", err)
		}

		windowArgs := append(append([]any{}, args...), query.Limit, query.Offset)
		rows, err := tx.Query(ctx, fmt.Sprintf(`
            SELECT %s
            FROM videos%s
            ORDER BY saved_at DESC, video_id
            LIMIT $%d OFFSET $%d
        `, videoColumns, where, len(args)+1, len(args)+2), windowArgs...)
		if err != nil {
			return fmt.Errorf("query videos: %w", err)
		}

		videos, err := pgx.CollectRows(rows, scanVideo)
		if err != nil {
			return fmt.Errorf("scan videos: %w", err)
		}
		if len(videos) == 0 {
			return nil
		}

		ids := make([]string, len(videos))
		for i, v := range videos {
			ids[i] = v.VideoID
		}
		tagsByVideo, err := tagsForVideos(ctx, tx, ids)
		if err != nil {
			return err
		}

		for _, v := range videos {
			tags := tagsByVideo[v.VideoID]
			if tags == nil {
				tags = []models.Tag{}
			}
			page.Videos = append(page.Videos, models.VideoWithTags{Video: v, Tags: tags})
		}
		return nil
	})
	if err != nil {
		return models.VideoPage{}, err
	}
	return page, nil
}

// ToggleTag removes the association when present and creates it otherwise. Both
// steps share one serializable transaction, so concurrent toggles of the same
// pair are ordered by the database instead of racing.
func (c *scopedCatalog) ToggleTag(ctx context.Context, videoID string, tagID int64) (models.ToggleAction, error) {
	var action models.ToggleAction
	err := c.run(ctx, "toggle tag", func(ctx context.Context, tx pgx.Tx) error {
		deleted, err := tx.Exec(ctx, `
            DELETE FROM video_tags
            WHERE video_id = $1 AND tag_id = $2
        `, videoID, tagID)
		if err != nil {
			return err
		}
		if deleted.RowsAffected() > 0 {
			action = models.ToggleRemoved
			return nil
		}

		if _, err := tx.Exec(ctx, `
            INSERT INTO video_tags (video_id, tag_id)
            VALUES ($1, $2)
            ON CONFLICT DO NOTHING
        `, videoID, tagID); err != nil {
			return err
		}
		action = models.ToggleAdded
		return nil
	})
	if err != nil {
		return "", err
	}
	return action, nil
}

// UnlikeVideo marks a video as unliked. Unknown ids are not an error.
func (c *scopedCatalog) UnlikeVideo(ctx context.Context, videoID string) error {
	return c.run(ctx, "unlike video", func(ctx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
            UPDATE videos
            SET liked_status = $2
            WHERE video_id = $1
        `, videoID, models.LikedStatusUnliked)
		return err
	})
}

// MarkNeedsCaption flags a video for captioning. Unknown ids are not an error.
func (c *scopedCatalog) MarkNeedsCaption(ctx context.Context, videoID string) error {
	return c.run(ctx, "mark needs caption", func(ctx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
            UPDATE videos
            SET needs_caption = true
            WHERE video_id = $1
        `, videoID)
		return err
	})
}

// videoConditions renders the WHERE clause for a listing. Caller text only ever
// travels as a bound argument.
func videoConditions(query models.VideoQuery) (string, []any) {
	var (
		clauses []string
		args    []any
	)

	switch query.Filter {
	case models.FilterLiked:
		args = append(args, models.LikedStatusLiked)
		clauses = append(clauses, fmt.Sprintf("liked_status = $%d", len(args)))
	case models.FilterUnliked:
		args = append(args, models.LikedStatusUnliked)
		clauses = append(clauses, fmt.Sprintf("liked_status = $%d", len(args)))
	case models.FilterShorts:
		clauses = append(clauses, "is_short")
	case models.FilterNeedsCaption:
		clauses = append(clauses, "needs_caption")
	}

	if query.Search != "" {
		args = append(args, "%"+escapeLike(query.Search)+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf("(title ILIKE $%d OR channel_title ILIKE $%d)", n, n))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike neutralises pattern metacharacters so search text matches literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func scanVideo(row pgx.CollectableRow) (models.Video, error) {
	var v models.Video
	err := row.Scan(
		&v.VideoID, &v.Title, &v.ChannelID, &v.ChannelTitle, &v.URL, &v.DurationSeconds, &v.IsShort,
		&v.Captions, &v.SavedAt, &v.LikedStatus, &v.IsMusic, &v.IsTheological, &v.IsInteresting, &v.NeedsCaption,
	)
	if err != nil {
		return models.Video{}, err
	}
	v.SavedAt = v.SavedAt.UTC()
	return v, nil
}

func tagsForVideos(ctx context.Context, tx pgx.Tx, videoIDs []string) (map[string][]models.Tag, error) {
	rows, err := tx.Query(ctx, `
        SELECT vt.video_id, t.id, t.name, t.keystroke, t.color
        FROM video_tags vt
        JOIN tags t ON t.id = vt.tag_id
        WHERE vt.video_id = ANY($1)
        ORDER BY vt.video_id, t.id
    `, videoIDs)
	if err != nil {
		return nil, fmt.Errorf("query video tags: %w", err)
	}
	defer rows.Close()

	tagsByVideo := make(map[string][]models.Tag, len(videoIDs))
	for rows.Next() {
		var (
			videoID string
			tag     models.Tag
		)
		if err := rows.Scan(&videoID, &tag.ID, &tag.Name, &tag.Keystroke, &tag.Color); err != nil {
			return nil, fmt.Errorf("scan video tag: %w", err)
		}
		tagsByVideo[videoID] = append(tagsByVideo[videoID], tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate video tags: %w", err)
	}

	return tagsByVideo, nil
}
