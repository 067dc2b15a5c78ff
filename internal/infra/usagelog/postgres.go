package usagelog

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/seasonal-tarot/internal/domain/gateway"
)

// Repository stores provider call telemetry and reports on it.
type Repository interface {
	gateway.UsageLog
	Summarize(ctx context.Context, since time.Time) ([]Summary, error)
}

const schema = `
	CREATE TABLE IF NOT EXISTS provider_calls (
		id                UUID PRIMARY KEY,
		provider          TEXT NOT NULL,
		model             TEXT NOT NULL,
		operation         TEXT NOT NULL,
		outcome           TEXT NOT NULL,
		status_code       INTEGER NOT NULL DEFAULT 0,
		latency_ms        BIGINT NOT NULL,
		prompt_tokens     INTEGER NOT NULL DEFAULT 0,
		completion_tokens INTEGER NOT NULL DEFAULT 0,
		created_at        TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS provider_calls_created_at_idx ON provider_calls (created_at);
`

// PostgresRepository persists call records with pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// EnsureSchema creates the provider_calls table when missing.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, schema)
	return err
}

func (r *PostgresRepository) Record(ctx context.Context, rec gateway.CallRecord) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO provider_calls (id, provider, model, operation, outcome, status_code, latency_ms, prompt_tokens, completion_tokens, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, rec.ID, rec.Provider, rec.Model, rec.Operation, rec.Outcome, rec.StatusCode,
		rec.Latency.Milliseconds(), rec.Tokens.PromptTokens, rec.Tokens.CompletionTokens, rec.CreatedAt)
	return err
}

func (r *PostgresRepository) Summarize(ctx context.Context, since time.Time) ([]Summary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT provider, operation, outcome, COUNT(*), COALESCE(AVG(latency_ms), 0)::FLOAT8,
		       COALESCE(SUM(prompt_tokens), 0), COALESCE(SUM(completion_tokens), 0)
		FROM provider_calls
		WHERE created_at >= $1
		GROUP BY provider, operation, outcome
		ORDER BY provider, operation, outcome
	`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.Provider, &s.Operation, &s.Outcome, &s.Calls, &s.AvgLatencyMs, &s.PromptTokens, &s.CompletionTokens); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

var _ Repository = (*PostgresRepository)(nil)
