package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/zoshlabs/checkout-service/internal/domain"
)

type PostgresPaymentOrderRepository struct {
	db DB
}

func NewPostgresPaymentOrderRepository(db DB) *PostgresPaymentOrderRepository {
	return &PostgresPaymentOrderRepository{
		db: db,
	}
}

func (p *PostgresPaymentOrderRepository) Create(ctx context.Context, po *domain.PaymentOrder) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO payment_orders (user_id, amount, currency, method, status)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at
		`

		err := tx.QueryRow(
			ctx,
			query,
			po.UserID,
			po.Amount,
			po.Currency,
			po.Method,
			po.Status,
		).Scan(&po.ID, &po.CreatedAt)

		if err != nil {
			return err
		}

		query = `UPDATE orders SET payment_order_id = $1 WHERE id = ANY($2)`

		_, err = tx.Exec(ctx, query, po.ID, po.OrderIDs)
		return err
	})
}

func (p *PostgresPaymentOrderRepository) GetById(ctx context.Context, id int64) (*domain.PaymentOrder, error) {
	query := `
		SELECT id, user_id, amount, currency, method, status, payment_link_id, created_at, updated_at
		FROM payment_orders
		WHERE id = $1
	`

	return p.get(ctx, query, id)
}

func (p *PostgresPaymentOrderRepository) GetByPaymentLinkId(ctx context.Context, paymentLinkID string) (*domain.PaymentOrder, error) {
	query := `
		SELECT id, user_id, amount, currency, method, status, payment_link_id, created_at, updated_at
		FROM payment_orders
		WHERE payment_link_id = $1
	`

	return p.get(ctx, query, paymentLinkID)
}

func (p *PostgresPaymentOrderRepository) get(ctx context.Context, query string, arg any) (*domain.PaymentOrder, error) {
	var po domain.PaymentOrder

	err := p.db.QueryRow(ctx, query, arg).Scan(
		&po.ID,
		&po.UserID,
		&po.Amount,
		&po.Currency,
		&po.Method,
		&po.Status,
		&po.PaymentLinkID,
		&po.CreatedAt,
		&po.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}

	orderIDs, err := p.orderIDs(ctx, po.ID)
	if err != nil {
		return nil, err
	}
	po.OrderIDs = orderIDs

	return &po, nil
}

func (p *PostgresPaymentOrderRepository) orderIDs(ctx context.Context, paymentOrderID int64) ([]int64, error) {
	rows, err := p.db.Query(ctx, `SELECT id FROM orders WHERE payment_order_id = $1 ORDER BY id`, paymentOrderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func (p *PostgresPaymentOrderRepository) SetPaymentLink(ctx context.Context, id int64, paymentLinkID string) error {
	query := `
		UPDATE payment_orders
		SET payment_link_id = $1, updated_at = NOW()
		WHERE id = $2
	`

	tag, err := p.db.Exec(ctx, query, paymentLinkID, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return domain.ErrEditConflict
		}
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

// Finalize flips a PENDING payment order to the given terminal status with a
// compare-and-swap on status. Exactly one concurrent caller wins; losers get
// back whatever terminal status the winner stored.
func (p *PostgresPaymentOrderRepository) Finalize(
	ctx context.Context,
	id int64,
	status domain.PaymentOrderStatus,
) (domain.PaymentOrderStatus, bool, error) {

	var (
		final   domain.PaymentOrderStatus
		applied bool
	)

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			UPDATE payment_orders
			SET status = $1, updated_at = NOW()
			WHERE id = $2 AND status = 'PENDING'
		`

		tag, err := tx.Exec(ctx, query, status, id)
		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			// lost the race or the id does not exist; report what is stored
			err := tx.QueryRow(ctx, `SELECT status FROM payment_orders WHERE id = $1`, id).Scan(&final)
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrRecordNotFound
			}
			return err
		}

		applied = true
		final = status

		if status == domain.PaymentOrderStatusSuccess {
			query = `
				UPDATE orders
				SET payment_status = $1, updated_at = NOW()
				WHERE payment_order_id = $2
			`

			_, err = tx.Exec(ctx, query, domain.PaymentStatusCompleted, id)
			return err
		}

		return nil
	})
	if err != nil {
		return "", false, err
	}

	return final, applied, nil
}
