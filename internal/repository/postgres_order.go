package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/zoshlabs/checkout-service/internal/domain"
)

type PostgresOrderRepository struct {
	db DB
}

func NewPostgresOrderRepository(db DB) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		db: db,
	}
}

func (p *PostgresOrderRepository) CreateFromCart(
	ctx context.Context,
	userID int64,
	address domain.Address,
	cart domain.Cart,
) ([]domain.Order, error) {

	itemsBySeller := make(map[int64][]domain.CartItem)
	for _, item := range cart.Items {
		itemsBySeller[item.SellerID] = append(itemsBySeller[item.SellerID], item)
	}

	var orders []domain.Order

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		for sellerID, items := range itemsBySeller {
			total := decimal.Zero
			for _, item := range items {
				qty := decimal.NewFromInt(int64(item.Quantity))
				total = total.Add(item.SellingPrice.Mul(qty))
			}

			addressJSON, err := json.Marshal(address)
			if err != nil {
				return err
			}

			order := domain.Order{
				UserID:            userID,
				SellerID:          sellerID,
				ShippingAddress:   address,
				TotalSellingPrice: total,
				PaymentStatus:     domain.PaymentStatusPending,
				OrderStatus:       domain.OrderStatusPlaced,
			}

			query := `
				INSERT INTO orders (user_id, seller_id, shipping_address, total_selling_price, payment_status, order_status)
				VALUES ($1, $2, $3, $4, $5, $6)
				RETURNING id, created_at
			`

			err = tx.QueryRow(
				ctx,
				query,
				order.UserID,
				order.SellerID,
				addressJSON,
				order.TotalSellingPrice,
				order.PaymentStatus,
				order.OrderStatus,
			).Scan(&order.ID, &order.CreatedAt)

			if err != nil {
				return err
			}

			rows := make([][]any, 0, len(items))
			for _, item := range items {
				rows = append(rows, []any{
					order.ID,
					item.ProductID,
					item.ProductName,
					item.Quantity,
					item.MrpPrice,
					item.SellingPrice,
				})
			}

			_, err = tx.CopyFrom(
				ctx,
				pgx.Identifier{"order_items"},
				[]string{"order_id", "product_id", "product_name", "quantity", "mrp_price", "selling_price"},
				pgx.CopyFromRows(rows),
			)
			if err != nil {
				return err
			}

			for _, item := range items {
				order.Items = append(order.Items, domain.OrderItem{
					OrderID:      order.ID,
					ProductID:    item.ProductID,
					ProductName:  item.ProductName,
					Quantity:     item.Quantity,
					MrpPrice:     item.MrpPrice,
					SellingPrice: item.SellingPrice,
				})
			}

			orders = append(orders, order)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (p *PostgresOrderRepository) GetById(ctx context.Context, id int64) (*domain.Order, error) {
	query := `
		SELECT id, user_id, seller_id, shipping_address, total_selling_price,
		       payment_status, order_status, payment_order_id, created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	var (
		order       domain.Order
		addressJSON []byte
	)

	err := p.db.QueryRow(ctx, query, id).Scan(
		&order.ID,
		&order.UserID,
		&order.SellerID,
		&addressJSON,
		&order.TotalSellingPrice,
		&order.PaymentStatus,
		&order.OrderStatus,
		&order.PaymentOrderID,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal(addressJSON, &order.ShippingAddress); err != nil {
		return nil, err
	}

	items, err := p.items(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return &order, nil
}

func (p *PostgresOrderRepository) items(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, product_name, quantity, mrp_price, selling_price
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`

	rows, err := p.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderItem

	for rows.Next() {
		var item domain.OrderItem

		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.ProductName,
			&item.Quantity,
			&item.MrpPrice,
			&item.SellingPrice,
		)
		if err != nil {
			return nil, err
		}

		items = append(items, item)
	}

	return items, rows.Err()
}

func (p *PostgresOrderRepository) GetItemById(ctx context.Context, id, userID int64) (*domain.OrderItem, error) {
	query := `
		SELECT oi.id, oi.order_id, oi.product_id, oi.product_name, oi.quantity, oi.mrp_price, oi.selling_price
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE oi.id = $1 AND o.user_id = $2
	`

	var item domain.OrderItem

	err := p.db.QueryRow(ctx, query, id, userID).Scan(
		&item.ID,
		&item.OrderID,
		&item.ProductID,
		&item.ProductName,
		&item.Quantity,
		&item.MrpPrice,
		&item.SellingPrice,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}

	return &item, nil
}

func (p *PostgresOrderRepository) GetByUserId(ctx context.Context, userID int64) ([]domain.Order, error) {
	query := `
		SELECT id, user_id, seller_id, shipping_address, total_selling_price,
		       payment_status, order_status, payment_order_id, created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	return p.list(ctx, query, userID)
}

func (p *PostgresOrderRepository) GetByPaymentOrderId(ctx context.Context, paymentOrderID int64) ([]domain.Order, error) {
	query := `
		SELECT id, user_id, seller_id, shipping_address, total_selling_price,
		       payment_status, order_status, payment_order_id, created_at, updated_at
		FROM orders
		WHERE payment_order_id = $1
		ORDER BY id
	`

	return p.list(ctx, query, paymentOrderID)
}

func (p *PostgresOrderRepository) list(ctx context.Context, query string, arg any) ([]domain.Order, error) {
	rows, err := p.db.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order

	for rows.Next() {
		var (
			order       domain.Order
			addressJSON []byte
		)

		err := rows.Scan(
			&order.ID,
			&order.UserID,
			&order.SellerID,
			&addressJSON,
			&order.TotalSellingPrice,
			&order.PaymentStatus,
			&order.OrderStatus,
			&order.PaymentOrderID,
			&order.CreatedAt,
			&order.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		if err := json.Unmarshal(addressJSON, &order.ShippingAddress); err != nil {
			return nil, err
		}

		orders = append(orders, order)
	}

	return orders, rows.Err()
}

func (p *PostgresOrderRepository) Cancel(ctx context.Context, id, userID int64) (*domain.Order, error) {
	query := `
		UPDATE orders
		SET order_status = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3
		RETURNING id
	`

	var orderID int64

	err := p.db.QueryRow(ctx, query, domain.OrderStatusCancelled, id, userID).Scan(&orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}

	return p.GetById(ctx, orderID)
}
