package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// NewDB opens a Postgres connection pool and checks it is reachable.
func NewDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// PostgresStore keeps a collection as one JSONB document in the collections
// table. Mutate holds a row lock on that document for the whole transaction.
type PostgresStore[T any] struct {
	db     *sqlx.DB
	name   string
	schema *jsonschema.Schema
}

func NewPostgresStore[T any](db *sqlx.DB, name string, opts ...Option) (*PostgresStore[T], error) {
	schema, err := newStoreOptions(opts).compileSchema()
	if err != nil {
		return nil, err
	}
	return &PostgresStore[T]{db: db, name: name, schema: schema}, nil
}

func (s *PostgresStore[T]) Load(ctx context.Context) ([]T, error) {
	query := `SELECT records FROM collections WHERE name = $1`

	var raw []byte
	if err := s.db.GetContext(ctx, &raw, query, s.name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []T{}, nil
		}
		return nil, readErr("select collection", err)
	}
	return decodeRecords[T](raw, s.schema)
}

func (s *PostgresStore[T]) Save(ctx context.Context, records []T) error {
	data, err := encodeRecords(records)
	if err != nil {
		return writeErr("encode", err)
	}

	query := `
		INSERT INTO collections (name, records, version)
		VALUES ($1, $2::jsonb, 1)
		ON CONFLICT (name) DO UPDATE
		SET records = EXCLUDED.records, version = collections.version + 1, updated_at = now()`

	if _, err := s.db.ExecContext(ctx, query, s.name, string(data)); err != nil {
		return writeErr("upsert collection", err)
	}
	return nil
}

func (s *PostgresStore[T]) Mutate(ctx context.Context, fn func(records []T) ([]T, error)) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return readErr("begin transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO collections (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, s.name,
	); err != nil {
		return writeErr("ensure collection", err)
	}

	var raw []byte
	if err := tx.GetContext(ctx, &raw,
		`SELECT records FROM collections WHERE name = $1 FOR UPDATE`, s.name,
	); err != nil {
		return readErr("lock collection", err)
	}

	records, err := decodeRecords[T](raw, s.schema)
	if err != nil {
		return err
	}

	next, err := fn(records)
	if err != nil {
		return err
	}

	data, err := encodeRecords(next)
	if err != nil {
		return writeErr("encode", err)
	}

	query := `
		UPDATE collections
		SET records = $2::jsonb, version = version + 1, updated_at = now()
		WHERE name = $1`

	if _, err := tx.ExecContext(ctx, query, s.name, string(data)); err != nil {
		return writeErr("update collection", err)
	}
	if err := tx.Commit(); err != nil {
		return writeErr("commit", err)
	}
	return nil
}

// ensure compile-time interface compliance
var _ Store[struct{}] = (*PostgresStore[struct{}])(nil)
