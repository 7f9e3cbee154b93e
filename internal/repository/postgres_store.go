package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/academic-tracker/internal/document"
)

// PostgresStore keeps every collection in a single JSONB table, see
// migrations/000001_create_documents.up.sql.
type PostgresStore struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresStore(pool *pgxpool.Pool, timeout time.Duration) *PostgresStore {
	return &PostgresStore{pool: pool, timeout: timeout}
}

func (s *PostgresStore) InsertOne(ctx context.Context, collection string, doc any) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	body, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode %s document: %w", collection, err)
	}

	id := uuid.New()
	_, err = s.pool.Exec(ctx,
		`INSERT INTO documents (id, collection, body) VALUES ($1, $2, $3)`,
		id.String(), collection, body)
	if err != nil {
		return "", classifyPostgres("insert", collection, err)
	}
	return id.String(), nil
}

func (s *PostgresStore) Find(ctx context.Context, collection string, filter document.Filter, limit int64) ([]document.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if filter == nil {
		filter = document.Filter{}
	}
	match, err := json.Marshal(filter)
	if err != nil {
		return nil, fmt.Errorf("encode %s filter: %w", collection, err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id::text, body FROM documents
		  WHERE collection = $1 AND body @> $2::jsonb
		  ORDER BY seq ASC
		  LIMIT $3`,
		collection, match, limit)
	if err != nil {
		return nil, classifyPostgres("find", collection, err)
	}
	defer rows.Close()

	var docs []document.Document
	for rows.Next() {
		var (
			rawID string
			body  []byte
		)
		if err := rows.Scan(&rawID, &body); err != nil {
			return nil, classifyPostgres("find", collection, err)
		}
		doc := document.Document{}
		if err := json.Unmarshal(body, &doc); err != nil {
			return nil, fmt.Errorf("decode %s document %s: %w", collection, rawID, err)
		}
		id, err := uuid.Parse(rawID)
		if err != nil {
			return nil, fmt.Errorf("decode %s document id %q: %w", collection, rawID, err)
		}
		doc[document.IDField] = id
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyPostgres("find", collection, err)
	}
	return docs, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.pool.Ping(ctx); err != nil {
		return classifyPostgres("ping", "", err)
	}
	return nil
}

func (s *PostgresStore) Close(context.Context) error {
	s.pool.Close()
	return nil
}

func classifyPostgres(op, collection string, err error) error {
	var connErr *pgconn.ConnectError
	if pgconn.Timeout(err) || errors.As(err, &connErr) ||
		errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("postgres %s %s: %w: %v", op, collection, ErrStoreUnavailable, err)
	}
	return fmt.Errorf("postgres %s %s: %w", op, collection, err)
}
