package orderrepo

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/mkorolev/gomarket/internal/domain"
	"github.com/mkorolev/gomarket/internal/pg"
	"go.uber.org/zap"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	query := `
        INSERT INTO orders (user_id, total_price)
        VALUES ($1, $2)
        RETURNING id, created_at
    `
	err := r.db.QueryRow(ctx, query, order.UserID, order.TotalPrice).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		zap.L().Error("can't save order", zap.Error(err))
		return nil, err
	}
	return order, nil
}

func (r *Repository) CreateDetails(ctx context.Context, orderID int, details []domain.OrderDetail) error {
	query := `
        INSERT INTO order_details (order_id, product_id, quantity, price)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `
	for i := range details {
		detail := &details[i]
		detail.OrderID = orderID
		err := r.db.QueryRow(ctx, query, orderID, detail.ProductID, detail.Quantity, detail.Price).Scan(&detail.ID)
		if err != nil {
			zap.L().Error("can't save order detail", zap.Error(err))
			return err
		}
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, orderID int) (*domain.Order, error) {
	query := `
        SELECT o.id, o.user_id, o.total_price, o.created_at, u.name
        FROM orders o
        JOIN users u ON u.id = o.user_id
        WHERE o.id = $1
    `
	var order domain.Order
	err := r.db.QueryRow(ctx, query, orderID).Scan(&order.ID, &order.UserID, &order.TotalPrice, &order.CreatedAt, &order.UserName)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("can't find order", zap.Error(err))
		return nil, err
	}

	if err := r.loadDetails(ctx, []*domain.Order{&order}); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *Repository) FindByUserID(ctx context.Context, userID int) ([]domain.Order, error) {
	query := `
        SELECT o.id, o.user_id, o.total_price, o.created_at, u.name
        FROM orders o
        JOIN users u ON u.id = o.user_id
        WHERE o.user_id = $1
        ORDER BY o.created_at DESC
    `
	return r.queryOrders(ctx, query, userID)
}

func (r *Repository) FindAll(ctx context.Context) ([]domain.Order, error) {
	query := `
        SELECT o.id, o.user_id, o.total_price, o.created_at, u.name
        FROM orders o
        JOIN users u ON u.id = o.user_id
        ORDER BY o.created_at DESC
    `
	return r.queryOrders(ctx, query)
}

func (r *Repository) queryOrders(ctx context.Context, query string, args ...interface{}) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		zap.L().Error("can't get orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var order domain.Order
		err := rows.Scan(&order.ID, &order.UserID, &order.TotalPrice, &order.CreatedAt, &order.UserName)
		if err != nil {
			zap.L().Error("can't scan order row", zap.Error(err))
			return nil, err
		}
		orders = append(orders, order)
	}

	refs := make([]*domain.Order, len(orders))
	for i := range orders {
		refs[i] = &orders[i]
	}
	if err := r.loadDetails(ctx, refs); err != nil {
		return nil, err
	}
	return orders, nil
}

// loadDetails fetches the line items for all orders in one batched query.
func (r *Repository) loadDetails(ctx context.Context, orders []*domain.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]int, len(orders))
	byID := make(map[int]*domain.Order, len(orders))
	for i, order := range orders {
		ids[i] = order.ID
		byID[order.ID] = order
	}

	query := `
        SELECT od.id, od.order_id, od.product_id, od.quantity, od.price, p.name
        FROM order_details od
        JOIN products p ON p.id = od.product_id
        WHERE od.order_id = ANY($1)
        ORDER BY od.id
    `
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		zap.L().Error("can't get order details", zap.Error(err))
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var detail domain.OrderDetail
		err := rows.Scan(&detail.ID, &detail.OrderID, &detail.ProductID, &detail.Quantity, &detail.Price, &detail.ProductName)
		if err != nil {
			zap.L().Error("can't scan order detail row", zap.Error(err))
			return err
		}
		if order, ok := byID[detail.OrderID]; ok {
			order.Details = append(order.Details, detail)
		}
	}
	return nil
}

func (r *Repository) HasPurchase(ctx context.Context, userID, productID int) (bool, error) {
	query := `
        SELECT EXISTS (
            SELECT 1
            FROM order_details od
            JOIN orders o ON o.id = od.order_id
            WHERE o.user_id = $1 AND od.product_id = $2
        )
    `
	var exists bool
	err := r.db.QueryRow(ctx, query, userID, productID).Scan(&exists)
	if err != nil {
		zap.L().Error("can't check purchase", zap.Error(err))
		return false, err
	}
	return exists, nil
}
