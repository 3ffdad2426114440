package staff

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

const staffCols = `id, clinic_id, first_name, last_name, email, role, owner, active,
	created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, scope tenancy.Scope, s *Staff) error {
	s.ID = uuid.New()
	s.ClinicID = scope.ClinicID()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO staff (
			id, clinic_id, first_name, last_name, email, role, owner, active,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		s.ID, s.ClinicID, s.FirstName, s.LastName, s.Email, s.Role, s.Owner, s.Active,
		s.CreatedAt, s.UpdatedAt,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Staff, error) {
	var s Staff
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT `+staffCols+` FROM staff WHERE id = $1`, id).Scan(
		&s.ID, &s.ClinicID, &s.FirstName, &s.LastName, &s.Email, &s.Role, &s.Owner, &s.Active,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("staff %s: %w", id, tenancy.ErrNotFound)
		}
		return nil, err
	}
	return &s, nil
}

func (r *repoPG) Update(ctx context.Context, scope tenancy.Scope, s *Staff) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE staff SET
			first_name=$3, last_name=$4, email=$5, role=$6, owner=$7, active=$8,
			updated_at=$9
		WHERE id = $1 AND clinic_id = $2`,
		s.ID, scope.ClinicID(),
		s.FirstName, s.LastName, s.Email, s.Role, s.Owner, s.Active, s.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("staff %s: %w", s.ID, tenancy.ErrNotFound)
	}
	return nil
}

func (r *repoPG) Deactivate(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE staff SET active = false, updated_at = now() WHERE id = $1 AND clinic_id = $2`,
		id, scope.ClinicID())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("staff %s: %w", id, tenancy.ErrNotFound)
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, scope tenancy.Scope, f Filter, limit, offset int) ([]*Staff, int, error) {
	q := tenancy.NewQuery(scope, "staff", staffCols)
	if f.Role != "" {
		q.WhereEq("role", f.Role)
	}
	if f.Active != nil {
		q.WhereEq("active", *f.Active)
	}
	q.OrderBy("last_name ASC, first_name ASC")

	var total int
	if err := r.conn(ctx).QueryRow(ctx, q.CountSQL(), q.CountArgs()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, q.DataSQL(limit, offset), q.DataArgs(limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var members []*Staff
	for rows.Next() {
		var s Staff
		err := rows.Scan(
			&s.ID, &s.ClinicID, &s.FirstName, &s.LastName, &s.Email, &s.Role, &s.Owner, &s.Active,
			&s.CreatedAt, &s.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		members = append(members, &s)
	}
	return members, total, nil
}
