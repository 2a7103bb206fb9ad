package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/shopspring/decimal"

	"cinemahub-billing/internal/domain"
	"cinemahub-billing/internal/domain/model"
	"cinemahub-billing/internal/domain/ports/repository"
)

var _ repository.OrderRepository = (*orderRepo)(nil)

type orderRepo struct{ pool *pgxpool.Pool }

func NewOrderRepo(pool *pgxpool.Pool) *orderRepo {
	return &orderRepo{pool: pool}
}

func (r *orderRepo) Save(ctx context.Context, tx repository.Tx, o *model.Order) error {
	const q = `
INSERT INTO orders (id, user_id, amount, status, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (id) DO UPDATE SET
  user_id=$2, amount=$3, status=$4, updated_at=$6;`

	_, err := execSQL(ctx, r.pool, tx, q, o.ID, o.UserID, o.Amount.StringFixed(2), o.Status, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *orderRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Order, error) {
	q := `SELECT id, user_id, amount::text, status, created_at, updated_at FROM orders WHERE id=$1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	q += ";"
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanOrder(row)
}

// List runs the page query and the row count in one snapshot so total never
// disagrees with the page under concurrent writes. A caller-supplied tx is
// used as-is; otherwise a read-only transaction scopes the two statements.
func (r *orderRepo) List(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.Order, int, error) {
	if tx == nil {
		// Repeatable read pins one snapshot for both statements; read
		// committed would take a fresh snapshot per statement.
		snap, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
		if err != nil {
			return nil, 0, domain.ErrOperationFailed
		}
		defer func() { _ = snap.Rollback(ctx) }()
		return r.listPage(ctx, snap, offset, limit)
	}
	return r.listPage(ctx, tx, offset, limit)
}

func (r *orderRepo) listPage(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.Order, int, error) {
	const q = `SELECT id, user_id, amount::text, status, created_at, updated_at FROM orders ORDER BY created_at DESC OFFSET $1 LIMIT $2;`
	rows, err := queryRows(ctx, r.pool, tx, q, offset, limit)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return nil, 0, err
		}
		return nil, 0, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, o)
	}

	row, err := pickRow(ctx, r.pool, tx, `SELECT COUNT(*) FROM orders;`)
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := row.Scan(&total); err != nil {
		return nil, 0, domain.ErrReadDatabaseRow
	}
	return out, total, nil
}

func (r *orderRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	const q = `DELETE FROM orders WHERE id=$1;`
	cmd, err := execSQL(ctx, r.pool, tx, q, id)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkPayedIfPending atomically transitions the order to PAYED only when its
// current status is PENDING.
func (r *orderRepo) MarkPayedIfPending(ctx context.Context, tx repository.Tx, id string) (bool, error) {
	const q = `
UPDATE orders
   SET status = 'PAYED',
       updated_at = NOW()
 WHERE id = $1
   AND status = 'PENDING';`

	cmd, err := execSQL(ctx, r.pool, tx, q, id)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return false, err
		}
		return false, domain.ErrOperationFailed
	}
	return cmd.RowsAffected() >= 1, nil
}

func (r *orderRepo) ExpirePendingOlderThan(ctx context.Context, tx repository.Tx, cutoff time.Time) (int, error) {
	const q = `
UPDATE orders
   SET status = 'EXPIRED',
       updated_at = NOW()
 WHERE status = 'PENDING'
   AND created_at < $1;`

	cmd, err := execSQL(ctx, r.pool, tx, q, cutoff)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return 0, err
		}
		return 0, domain.ErrOperationFailed
	}
	return int(cmd.RowsAffected()), nil
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	o := &model.Order{}
	var amount string
	if err := row.Scan(&o.ID, &o.UserID, &amount, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	o.Amount = dec
	return o, nil
}
