package repositories

import (
	"context"
	"fmt"
	"log/slog"

	crdbpgx "github.com/cockroachdb/cockroach-go/v2/crdb/crdbpgxv5"
	"github.com/jackc/pgx/v5"

	"github.com/liketagger/backend/internal/db"
	"github.com/liketagger/backend/internal/logging"
	"github.com/liketagger/backend/internal/models"
)

// PostgresStore hands out credential-scoped catalogs over a shared pool.
type PostgresStore struct {
	pool db.Pool
}

// NewPostgresStore constructs a store backed by PostgreSQL.
func NewPostgresStore(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Scope returns a catalog whose operations carry the caller's credential to the
// database. An empty credential runs with the pool's own role.
func (s *PostgresStore) Scope(credential string) Catalog {
	return &scopedCatalog{store: s, credential: credential}
}

// ListTags returns every tag using the service's own role.
func (s *PostgresStore) ListTags(ctx context.Context) ([]models.Tag, error) {
	return s.Scope("").ListTags(ctx)
}

// ListAssociations returns every video/tag link ordered by video then tag.
func (s *PostgresStore) ListAssociations(ctx context.Context) ([]models.VideoTag, error) {
	var links []models.VideoTag
	err := s.run(ctx, "", "list associations", func(ctx context.Context, tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
            SELECT video_id, tag_id
            FROM video_tags
            ORDER BY video_id, tag_id
        `)
		if err != nil {
			return err
		}
		links, err = pgx.CollectRows(rows, pgx.RowToStructByPos[models.VideoTag])
		return err
	})
	if err != nil {
		return nil, err
	}
	if links == nil {
		links = []models.VideoTag{}
	}
	return links, nil
}

// run executes fn inside one serializable transaction. Serialization failures
// are retried by crdbpgx; the credential is exposed to row-level policies as
// the transaction-local setting request.authorization.
func (s *PostgresStore) run(ctx context.Context, credential, op string, fn func(ctx context.Context, tx pgx.Tx) error) error {
	ctx, span := logging.StartSpan(ctx, op, slog.Bool("scoped", credential != ""))

	err := s.execute(ctx, credential, fn)
	err = wrapError(op, err)

	span.End(err)
	return err
}

func (s *PostgresStore) execute(ctx context.Context, credential string, fn func(ctx context.Context, tx pgx.Tx) error) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	return crdbpgx.ExecuteTx(ctx, conn, pgx.TxOptions{IsoLevel: pgx.Serializable}, func(tx pgx.Tx) error {
		if credential != "" {
			if _, err := tx.Exec(ctx, `SELECT set_config('request.authorization', $1, true)`, credential); err != nil {
				return fmt.Errorf("forward credential: %w", err)
			}
		}
		return fn(ctx, tx)
	})
}

// scopedCatalog binds one request's credential to the store.
type scopedCatalog struct {
	store      *PostgresStore
	credential string
}

func (c *scopedCatalog) run(ctx context.Context, op string, fn func(ctx context.Context, tx pgx.Tx) error) error {
	return c.store.run(ctx, c.credential, op, fn)
}

var _ Catalog = (*scopedCatalog)(nil)
