package patient

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

const patientCols = `id, clinic_id, code, first_name, middle_name, last_name, suffix,
	date_of_birth, gender, civil_status, contact_number, email, address,
	emergency_name, emergency_phone, emergency_relation, blood_type,
	allergies, medical_conditions, status, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, scope tenancy.Scope, p *Patient) error {
	p.ID = uuid.New()
	// The owning clinic always comes from the scope, never from the payload.
	p.ClinicID = scope.ClinicID()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO patients (
			id, clinic_id, code, first_name, middle_name, last_name, suffix,
			date_of_birth, gender, civil_status, contact_number, email, address,
			emergency_name, emergency_phone, emergency_relation, blood_type,
			allergies, medical_conditions, status, created_at, updated_at
		) VALUES (
			$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,
			$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22
		)`,
		p.ID, p.ClinicID, p.Code, p.FirstName, p.MiddleName, p.LastName, p.Suffix,
		p.DateOfBirth, p.Gender, p.CivilStatus, p.ContactNumber, p.Email, p.Address,
		p.EmergencyName, p.EmergencyPhone, p.EmergencyRelation, p.BloodType,
		p.Allergies, p.MedicalConditions, p.Status, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	p, err := scanPatient(r.conn(ctx).QueryRow(ctx,
		`SELECT `+patientCols+` FROM patients WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("patient %s: %w", id, tenancy.ErrNotFound)
		}
		return nil, err
	}
	return p, nil
}

func (r *repoPG) Update(ctx context.Context, scope tenancy.Scope, p *Patient) error {
	// clinic_id, code and created_at are immutable and never part of the SET
	// list; the clinic predicate guards against writes through a stale scope.
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE patients SET
			first_name=$3, middle_name=$4, last_name=$5, suffix=$6,
			date_of_birth=$7, gender=$8, civil_status=$9, contact_number=$10,
			email=$11, address=$12, emergency_name=$13, emergency_phone=$14,
			emergency_relation=$15, blood_type=$16, allergies=$17,
			medical_conditions=$18, status=$19, updated_at=$20
		WHERE id = $1 AND clinic_id = $2`,
		p.ID, scope.ClinicID(),
		p.FirstName, p.MiddleName, p.LastName, p.Suffix,
		p.DateOfBirth, p.Gender, p.CivilStatus, p.ContactNumber,
		p.Email, p.Address, p.EmergencyName, p.EmergencyPhone,
		p.EmergencyRelation, p.BloodType, p.Allergies,
		p.MedicalConditions, p.Status, p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("patient %s: %w", p.ID, tenancy.ErrNotFound)
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM patients WHERE id = $1 AND clinic_id = $2`, id, scope.ClinicID())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("patient %s: %w", id, tenancy.ErrNotFound)
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, scope tenancy.Scope, f Filter, limit, offset int) ([]*Patient, int, error) {
	q := tenancy.NewQuery(scope, "patients", patientCols)
	if f.Status != "" {
		q.WhereEq("status", f.Status)
	}
	if f.Name != "" {
		pattern := tenancy.LikePattern(f.Name)
		q.Where(fmt.Sprintf(`(first_name ILIKE $%d ESCAPE '\' OR last_name ILIKE $%d ESCAPE '\')`,
			q.Idx(), q.Idx()+1), pattern, pattern)
	}
	q.OrderBy("created_at DESC")

	var total int
	if err := r.conn(ctx).QueryRow(ctx, q.CountSQL(), q.CountArgs()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, q.DataSQL(limit, offset), q.DataArgs(limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectPatients(rows, total)
}

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(
		&p.ID, &p.ClinicID, &p.Code, &p.FirstName, &p.MiddleName, &p.LastName, &p.Suffix,
		&p.DateOfBirth, &p.Gender, &p.CivilStatus, &p.ContactNumber, &p.Email, &p.Address,
		&p.EmergencyName, &p.EmergencyPhone, &p.EmergencyRelation, &p.BloodType,
		&p.Allergies, &p.MedicalConditions, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func collectPatients(rows pgx.Rows, total int) ([]*Patient, int, error) {
	var patients []*Patient
	for rows.Next() {
		var p Patient
		err := rows.Scan(
			&p.ID, &p.ClinicID, &p.Code, &p.FirstName, &p.MiddleName, &p.LastName, &p.Suffix,
			&p.DateOfBirth, &p.Gender, &p.CivilStatus, &p.ContactNumber, &p.Email, &p.Address,
			&p.EmergencyName, &p.EmergencyPhone, &p.EmergencyRelation, &p.BloodType,
			&p.Allergies, &p.MedicalConditions, &p.Status, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		patients = append(patients, &p)
	}
	return patients, total, nil
}
