package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/codec25/Studio-flow/internal/model"
)

const stateRowID = 1

// queryTimeout bounds every remote call so a dead backend surfaces as a
// distinguishable error instead of a hang.
const queryTimeout = 5 * time.Second

// PostgresStore persists the state document as a single jsonb row.
// The snapshot model keeps the document semantics identical between the
// offline file backend and the remote one.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", ErrUnavailable)
	}

	return &PostgresStore{pool: pool}, nil
}

// Pool exposes the connection pool for the migrator.
func (p *PostgresStore) Pool() *pgxpool.Pool {
	return p.pool
}

func (p *PostgresStore) Close() {
	p.pool.Close()
}

func (p *PostgresStore) Load(ctx context.Context) (*model.State, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var doc []byte
	err := p.pool.QueryRow(ctx,
		`SELECT doc FROM app_state WHERE id = $1`, stateRowID,
	).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.EmptyState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}

	var st model.State
	if err := json.Unmarshal(doc, &st); err != nil {
		return model.EmptyState(), nil
	}
	st.Normalize()
	return &st, nil
}

func (p *PostgresStore) Save(ctx context.Context, st *model.State) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	doc, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	_, err = p.pool.Exec(ctx,
		`INSERT INTO app_state (id, doc, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()`,
		stateRowID, doc,
	)
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}
