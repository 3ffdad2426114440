package consultation

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

const consultationCols = `id, clinic_id, code, patient_id, appointment_id,
	chief_complaint, diagnosis, treatment_plan, vitals, notes, consulted_at,
	created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, scope tenancy.Scope, con *Consultation) error {
	con.ID = uuid.New()
	con.ClinicID = scope.ClinicID()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO consultations (
			id, clinic_id, code, patient_id, appointment_id,
			chief_complaint, diagnosis, treatment_plan, vitals, notes, consulted_at,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		con.ID, con.ClinicID, con.Code, con.PatientID, con.AppointmentID,
		con.ChiefComplaint, con.Diagnosis, con.TreatmentPlan, con.Vitals, con.Notes, con.ConsultedAt,
		con.CreatedAt, con.UpdatedAt,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Consultation, error) {
	var con Consultation
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT `+consultationCols+` FROM consultations WHERE id = $1`, id).Scan(
		&con.ID, &con.ClinicID, &con.Code, &con.PatientID, &con.AppointmentID,
		&con.ChiefComplaint, &con.Diagnosis, &con.TreatmentPlan, &con.Vitals, &con.Notes, &con.ConsultedAt,
		&con.CreatedAt, &con.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("consultation %s: %w", id, tenancy.ErrNotFound)
		}
		return nil, err
	}
	return &con, nil
}

func (r *repoPG) Update(ctx context.Context, scope tenancy.Scope, con *Consultation) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE consultations SET
			patient_id=$3, appointment_id=$4, chief_complaint=$5, diagnosis=$6,
			treatment_plan=$7, vitals=$8, notes=$9, consulted_at=$10, updated_at=$11
		WHERE id = $1 AND clinic_id = $2`,
		con.ID, scope.ClinicID(),
		con.PatientID, con.AppointmentID, con.ChiefComplaint, con.Diagnosis,
		con.TreatmentPlan, con.Vitals, con.Notes, con.ConsultedAt, con.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("consultation %s: %w", con.ID, tenancy.ErrNotFound)
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, scope tenancy.Scope, f Filter, limit, offset int) ([]*Consultation, int, error) {
	q := tenancy.NewQuery(scope, "consultations", consultationCols)
	if f.PatientID != uuid.Nil {
		q.WhereEq("patient_id", f.PatientID)
	}
	q.OrderBy("consulted_at DESC")

	var total int
	if err := r.conn(ctx).QueryRow(ctx, q.CountSQL(), q.CountArgs()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, q.DataSQL(limit, offset), q.DataArgs(limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var cons []*Consultation
	for rows.Next() {
		var con Consultation
		err := rows.Scan(
			&con.ID, &con.ClinicID, &con.Code, &con.PatientID, &con.AppointmentID,
			&con.ChiefComplaint, &con.Diagnosis, &con.TreatmentPlan, &con.Vitals, &con.Notes, &con.ConsultedAt,
			&con.CreatedAt, &con.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		cons = append(cons, &con)
	}
	return cons, total, nil
}
