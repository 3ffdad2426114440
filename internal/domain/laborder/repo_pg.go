package laborder

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tobitaks/health-dash-be/internal/platform/db"
	"github.com/tobitaks/health-dash-be/internal/platform/tenancy"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func (r *repoPG) conn(ctx context.Context) querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const labOrderCols = `id, clinic_id, code, patient_id, consultation_id, tests,
	status, notes, ordered_at, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, scope tenancy.Scope, o *LabOrder) error {
	o.ID = uuid.New()
	o.ClinicID = scope.ClinicID()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO lab_orders (
			id, clinic_id, code, patient_id, consultation_id, tests,
			status, notes, ordered_at, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		o.ID, o.ClinicID, o.Code, o.PatientID, o.ConsultationID, o.Tests,
		o.Status, o.Notes, o.OrderedAt, o.CreatedAt, o.UpdatedAt,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*LabOrder, error) {
	var o LabOrder
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT `+labOrderCols+` FROM lab_orders WHERE id = $1`, id).Scan(
		&o.ID, &o.ClinicID, &o.Code, &o.PatientID, &o.ConsultationID, &o.Tests,
		&o.Status, &o.Notes, &o.OrderedAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("lab order %s: %w", id, tenancy.ErrNotFound)
		}
		return nil, err
	}
	return &o, nil
}

func (r *repoPG) Update(ctx context.Context, scope tenancy.Scope, o *LabOrder) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE lab_orders SET
			patient_id=$3, consultation_id=$4, tests=$5, status=$6, notes=$7,
			ordered_at=$8, updated_at=$9
		WHERE id = $1 AND clinic_id = $2`,
		o.ID, scope.ClinicID(),
		o.PatientID, o.ConsultationID, o.Tests, o.Status, o.Notes,
		o.OrderedAt, o.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("lab order %s: %w", o.ID, tenancy.ErrNotFound)
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, scope tenancy.Scope, f Filter, limit, offset int) ([]*LabOrder, int, error) {
	q := tenancy.NewQuery(scope, "lab_orders", labOrderCols)
	if f.Status != "" {
		q.WhereEq("status", f.Status)
	}
	if f.PatientID != uuid.Nil {
		q.WhereEq("patient_id", f.PatientID)
	}
	q.OrderBy("ordered_at DESC")

	var total int
	if err := r.conn(ctx).QueryRow(ctx, q.CountSQL(), q.CountArgs()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, q.DataSQL(limit, offset), q.DataArgs(limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orders []*LabOrder
	for rows.Next() {
		var o LabOrder
		err := rows.Scan(
			&o.ID, &o.ClinicID, &o.Code, &o.PatientID, &o.ConsultationID, &o.Tests,
			&o.Status, &o.Notes, &o.OrderedAt, &o.CreatedAt, &o.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, &o)
	}
	return orders, total, nil
}
