package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/liketagger/backend/internal/logging"
	"github.com/liketagger/backend/internal/models"
)

// ExportTimeout bounds a single export run.
const ExportTimeout = 2 * time.Minute

const contentType = "application/json"

// Source provides the hand-curated part of the catalog.
type Source interface {
	ListTags(ctx context.Context) ([]models.Tag, error)
	ListAssociations(ctx context.Context) ([]models.VideoTag, error)
}

// Storage persists an encoded snapshot and reports where it landed.
type Storage interface {
	Save(ctx context.Context, key, contentType string, r io.Reader) (string, error)
}

// Snapshot is the document written by an export.
type Snapshot struct {
	TakenAt   time.Time         `json:"taken_at"`
	Tags      []models.Tag      `json:"tags"`
	VideoTags []models.VideoTag `json:"video_tags"`
}

// Exporter copies tags and their video associations to object storage.
type Exporter struct {
	Source  Source
	Storage Storage
	Prefix  string
	Now     func() time.Time
}

// Export writes one snapshot and returns its location.
func (e *Exporter) Export(ctx context.Context) (string, error) {
	if e.Source == nil || e.Storage == nil {
		return "", fmt.Errorf("snapshot exporter not configured")
	}

	ctx, span := logging.StartSpan(ctx, "export snapshot")
	location, err := e.export(ctx)
	span.End(err)
	return location, err
}

func (e *Exporter) export(ctx context.Context) (string, error) {
	snap := Snapshot{TakenAt: e.now().UTC()}

	var err error
	if snap.Tags, err = e.Source.ListTags(ctx); err != nil {
		return "", fmt.Errorf("read tags: %w", err)
	}
	if snap.VideoTags, err = e.Source.ListAssociations(ctx); err != nil {
		return "", fmt.Errorf("read associations: %w", err)
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(snap); err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	key := ObjectKey(e.Prefix, snap.TakenAt)
	location, err := e.Storage.Save(ctx, key, contentType, bytes.NewReader(buf.Bytes()))
	if err != nil {
		return "", fmt.Errorf("store snapshot: %w", err)
	}

	logging.FromContext(ctx).Info("snapshot exported",
		slog.String("location", location),
		slog.Int("tags", len(snap.Tags)),
		slog.Int("video_tags", len(snap.VideoTags)),
	)
	return location, nil
}

func (e *Exporter) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// ObjectKey names the object for a snapshot taken at t.
func ObjectKey(prefix string, t time.Time) string {
	name := "tags-" + t.UTC().Format(time.RFC3339) + ".json"
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}
