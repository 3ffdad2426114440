package prescription

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

const prescriptionCols = `id, clinic_id, code, patient_id, consultation_id,
	medications, notes, prescribed_at, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, scope tenancy.Scope, p *Prescription) error {
	p.ID = uuid.New()
	p.ClinicID = scope.ClinicID()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO prescriptions (
			id, clinic_id, code, patient_id, consultation_id,
			medications, notes, prescribed_at, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		p.ID, p.ClinicID, p.Code, p.PatientID, p.ConsultationID,
		p.Medications, p.Notes, p.PrescribedAt, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Prescription, error) {
	var p Prescription
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT `+prescriptionCols+` FROM prescriptions WHERE id = $1`, id).Scan(
		&p.ID, &p.ClinicID, &p.Code, &p.PatientID, &p.ConsultationID,
		&p.Medications, &p.Notes, &p.PrescribedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("prescription %s: %w", id, tenancy.ErrNotFound)
		}
		return nil, err
	}
	return &p, nil
}

func (r *repoPG) Update(ctx context.Context, scope tenancy.Scope, p *Prescription) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE prescriptions SET
			patient_id=$3, consultation_id=$4, medications=$5, notes=$6,
			prescribed_at=$7, updated_at=$8
		WHERE id = $1 AND clinic_id = $2`,
		p.ID, scope.ClinicID(),
		p.PatientID, p.ConsultationID, p.Medications, p.Notes,
		p.PrescribedAt, p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("prescription %s: %w", p.ID, tenancy.ErrNotFound)
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, scope tenancy.Scope, f Filter, limit, offset int) ([]*Prescription, int, error) {
	q := tenancy.NewQuery(scope, "prescriptions", prescriptionCols)
	if f.PatientID != uuid.Nil {
		q.WhereEq("patient_id", f.PatientID)
	}
	q.OrderBy("prescribed_at DESC")

	var total int
	if err := r.conn(ctx).QueryRow(ctx, q.CountSQL(), q.CountArgs()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, q.DataSQL(limit, offset), q.DataArgs(limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var scripts []*Prescription
	for rows.Next() {
		var p Prescription
		err := rows.Scan(
			&p.ID, &p.ClinicID, &p.Code, &p.PatientID, &p.ConsultationID,
			&p.Medications, &p.Notes, &p.PrescribedAt, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		scripts = append(scripts, &p)
	}
	return scripts, total, nil
}
