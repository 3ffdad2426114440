package medicine

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

const medicineCols = `id, clinic_id, generic_name, brand_name, strength, form, category,
	default_sig, default_quantity, notes, active, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, scope tenancy.Scope, m *Medicine) error {
	m.ID = uuid.New()
	m.ClinicID = scope.ClinicID()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO medicines (
			id, clinic_id, generic_name, brand_name, strength, form, category,
			default_sig, default_quantity, notes, active, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		m.ID, m.ClinicID, m.GenericName, m.BrandName, m.Strength, m.Form, m.Category,
		m.DefaultSig, m.DefaultQuantity, m.Notes, m.Active, m.CreatedAt, m.UpdatedAt,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Medicine, error) {
	var m Medicine
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT `+medicineCols+` FROM medicines WHERE id = $1`, id).Scan(
		&m.ID, &m.ClinicID, &m.GenericName, &m.BrandName, &m.Strength, &m.Form, &m.Category,
		&m.DefaultSig, &m.DefaultQuantity, &m.Notes, &m.Active, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("medicine %s: %w", id, tenancy.ErrNotFound)
		}
		return nil, err
	}
	return &m, nil
}

func (r *repoPG) Update(ctx context.Context, scope tenancy.Scope, m *Medicine) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE medicines SET
			generic_name=$3, brand_name=$4, strength=$5, form=$6, category=$7,
			default_sig=$8, default_quantity=$9, notes=$10, active=$11, updated_at=$12
		WHERE id = $1 AND clinic_id = $2`,
		m.ID, scope.ClinicID(),
		m.GenericName, m.BrandName, m.Strength, m.Form, m.Category,
		m.DefaultSig, m.DefaultQuantity, m.Notes, m.Active, m.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("medicine %s: %w", m.ID, tenancy.ErrNotFound)
	}
	return nil
}

func (r *repoPG) Deactivate(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE medicines SET active = false, updated_at = now() WHERE id = $1 AND clinic_id = $2`,
		id, scope.ClinicID())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("medicine %s: %w", id, tenancy.ErrNotFound)
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, scope tenancy.Scope, f Filter, limit, offset int) ([]*Medicine, int, error) {
	q := tenancy.NewQuery(scope, "medicines", medicineCols)
	if f.Category != "" {
		q.WhereEq("category", f.Category)
	}
	if f.Form != "" {
		q.WhereEq("form", f.Form)
	}
	if f.Name != "" {
		q.WhereILike("generic_name", f.Name)
	}
	if f.Active != nil {
		q.WhereEq("active", *f.Active)
	}
	q.OrderBy("generic_name ASC, strength ASC")

	var total int
	if err := r.conn(ctx).QueryRow(ctx, q.CountSQL(), q.CountArgs()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, q.DataSQL(limit, offset), q.DataArgs(limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var medicines []*Medicine
	for rows.Next() {
		var m Medicine
		err := rows.Scan(
			&m.ID, &m.ClinicID, &m.GenericName, &m.BrandName, &m.Strength, &m.Form, &m.Category,
			&m.DefaultSig, &m.DefaultQuantity, &m.Notes, &m.Active, &m.CreatedAt, &m.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		medicines = append(medicines, &m)
	}
	return medicines, total, nil
}
