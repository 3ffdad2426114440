package invoice

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

const invoiceCols = `id, clinic_id, code, patient_id, consultation_id, status,
	currency, total, issued_at, notes, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, scope tenancy.Scope, inv *Invoice) error {
	inv.ID = uuid.New()
	inv.ClinicID = scope.ClinicID()
	return db.RunInTx(ctx, r.pool, func(ctx context.Context) error {
		_, err := r.conn(ctx).Exec(ctx, `
			INSERT INTO invoices (
				id, clinic_id, code, patient_id, consultation_id, status,
				currency, total, issued_at, notes, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
			inv.ID, inv.ClinicID, inv.Code, inv.PatientID, inv.ConsultationID, inv.Status,
			inv.Currency, inv.Total, inv.IssuedAt, inv.Notes, inv.CreatedAt, inv.UpdatedAt,
		)
		if err != nil {
			return err
		}
		return r.insertItems(ctx, inv)
	})
}

func (r *repoPG) insertItems(ctx context.Context, inv *Invoice) error {
	for i := range inv.Items {
		item := &inv.Items[i]
		item.ID = uuid.New()
		item.InvoiceID = inv.ID
		_, err := r.conn(ctx).Exec(ctx, `
			INSERT INTO invoice_items (id, invoice_id, description, quantity, unit_price, amount)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			item.ID, item.InvoiceID, item.Description, item.Quantity, item.UnitPrice, item.Amount,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	var inv Invoice
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT `+invoiceCols+` FROM invoices WHERE id = $1`, id).Scan(
		&inv.ID, &inv.ClinicID, &inv.Code, &inv.PatientID, &inv.ConsultationID, &inv.Status,
		&inv.Currency, &inv.Total, &inv.IssuedAt, &inv.Notes, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("invoice %s: %w", id, tenancy.ErrNotFound)
		}
		return nil, err
	}
	if err := r.loadItems(ctx, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *repoPG) loadItems(ctx context.Context, inv *Invoice) error {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, invoice_id, description, quantity, unit_price, amount
		FROM invoice_items WHERE invoice_id = $1 ORDER BY description`, inv.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.InvoiceID, &item.Description,
			&item.Quantity, &item.UnitPrice, &item.Amount); err != nil {
			return err
		}
		inv.Items = append(inv.Items, item)
	}
	return rows.Err()
}

func (r *repoPG) Update(ctx context.Context, scope tenancy.Scope, inv *Invoice) error {
	return db.RunInTx(ctx, r.pool, func(ctx context.Context) error {
		tag, err := r.conn(ctx).Exec(ctx, `
			UPDATE invoices SET
				patient_id=$3, consultation_id=$4, status=$5, currency=$6,
				total=$7, issued_at=$8, notes=$9, updated_at=$10
			WHERE id = $1 AND clinic_id = $2`,
			inv.ID, scope.ClinicID(),
			inv.PatientID, inv.ConsultationID, inv.Status, inv.Currency,
			inv.Total, inv.IssuedAt, inv.Notes, inv.UpdatedAt,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("invoice %s: %w", inv.ID, tenancy.ErrNotFound)
		}
		// Line items are replaced wholesale on each update.
		if _, err := r.conn(ctx).Exec(ctx,
			`DELETE FROM invoice_items WHERE invoice_id = $1`, inv.ID); err != nil {
			return err
		}
		return r.insertItems(ctx, inv)
	})
}

func (r *repoPG) List(ctx context.Context, scope tenancy.Scope, f Filter, limit, offset int) ([]*Invoice, int, error) {
	q := tenancy.NewQuery(scope, "invoices", invoiceCols)
	if f.Status != "" {
		q.WhereEq("status", f.Status)
	}
	if f.PatientID != uuid.Nil {
		q.WhereEq("patient_id", f.PatientID)
	}
	q.OrderBy("issued_at DESC")

	var total int
	if err := r.conn(ctx).QueryRow(ctx, q.CountSQL(), q.CountArgs()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, q.DataSQL(limit, offset), q.DataArgs(limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var invoices []*Invoice
	for rows.Next() {
		var inv Invoice
		err := rows.Scan(
			&inv.ID, &inv.ClinicID, &inv.Code, &inv.PatientID, &inv.ConsultationID, &inv.Status,
			&inv.Currency, &inv.Total, &inv.IssuedAt, &inv.Notes, &inv.CreatedAt, &inv.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		invoices = append(invoices, &inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	for _, inv := range invoices {
		if err := r.loadItems(ctx, inv); err != nil {
			return nil, 0, err
		}
	}
	return invoices, total, nil
}
