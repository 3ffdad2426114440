package appointment

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

const appointmentCols = `id, clinic_id, code, patient_id, staff_id, scheduled_at,
	duration_minutes, reason, status, notes, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, scope tenancy.Scope, a *Appointment) error {
	a.ID = uuid.New()
	a.ClinicID = scope.ClinicID()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO appointments (
			id, clinic_id, code, patient_id, staff_id, scheduled_at,
			duration_minutes, reason, status, notes, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		a.ID, a.ClinicID, a.Code, a.PatientID, a.StaffID, a.ScheduledAt,
		a.DurationMinutes, a.Reason, a.Status, a.Notes, a.CreatedAt, a.UpdatedAt,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	var a Appointment
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT `+appointmentCols+` FROM appointments WHERE id = $1`, id).Scan(
		&a.ID, &a.ClinicID, &a.Code, &a.PatientID, &a.StaffID, &a.ScheduledAt,
		&a.DurationMinutes, &a.Reason, &a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("appointment %s: %w", id, tenancy.ErrNotFound)
		}
		return nil, err
	}
	return &a, nil
}

func (r *repoPG) Update(ctx context.Context, scope tenancy.Scope, a *Appointment) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointments SET
			patient_id=$3, staff_id=$4, scheduled_at=$5, duration_minutes=$6,
			reason=$7, status=$8, notes=$9, updated_at=$10
		WHERE id = $1 AND clinic_id = $2`,
		a.ID, scope.ClinicID(),
		a.PatientID, a.StaffID, a.ScheduledAt, a.DurationMinutes,
		a.Reason, a.Status, a.Notes, a.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("appointment %s: %w", a.ID, tenancy.ErrNotFound)
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM appointments WHERE id = $1 AND clinic_id = $2`, id, scope.ClinicID())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("appointment %s: %w", id, tenancy.ErrNotFound)
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, scope tenancy.Scope, f Filter, limit, offset int) ([]*Appointment, int, error) {
	q := tenancy.NewQuery(scope, "appointments", appointmentCols)
	if f.Status != "" {
		q.WhereEq("status", f.Status)
	}
	if f.PatientID != uuid.Nil {
		q.WhereEq("patient_id", f.PatientID)
	}
	if !f.From.IsZero() {
		q.Where(fmt.Sprintf("scheduled_at >= $%d", q.Idx()), f.From)
	}
	if !f.To.IsZero() {
		q.Where(fmt.Sprintf("scheduled_at < $%d", q.Idx()), f.To)
	}
	q.OrderBy("scheduled_at ASC")

	var total int
	if err := r.conn(ctx).QueryRow(ctx, q.CountSQL(), q.CountArgs()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, q.DataSQL(limit, offset), q.DataArgs(limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var appts []*Appointment
	for rows.Next() {
		var a Appointment
		err := rows.Scan(
			&a.ID, &a.ClinicID, &a.Code, &a.PatientID, &a.StaffID, &a.ScheduledAt,
			&a.DurationMinutes, &a.Reason, &a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		appts = append(appts, &a)
	}
	return appts, total, nil
}
