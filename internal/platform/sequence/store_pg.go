package sequence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tobitaks/health-dash-be/internal/platform/db"
)

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// storePG persists counters in the sequence_counters table. The increment is
// one upsert: the row lock taken by INSERT ... ON CONFLICT DO UPDATE
// serializes concurrent increments on the same key, and RETURNING hands back
// the value the caller owns. There is one row per key and no cross-key
// locking, so lock order is trivially consistent.
type storePG struct {
	pool *pgxpool.Pool
}

// NewStorePG creates a Postgres-backed counter store.
func NewStorePG(pool *pgxpool.Pool) CounterStore {
	return &storePG{pool: pool}
}

func (s *storePG) Increment(ctx context.Context, clinicID uuid.UUID, entity string, year int) (int64, error) {
	var conn querier = s.pool
	if tx := db.TxFromContext(ctx); tx != nil {
		conn = tx
	}

	var value int64
	err := conn.QueryRow(ctx, `
		INSERT INTO sequence_counters (clinic_id, entity_type, year, value)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (clinic_id, entity_type, year)
		DO UPDATE SET value = sequence_counters.value + 1, updated_at = NOW()
		RETURNING value`,
		clinicID, entity, year,
	).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("upsert counter (%s, %s, %d): %w", clinicID, entity, year, err)
	}
	return value, nil
}
