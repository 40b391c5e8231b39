package cartrepo

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

func (r *Repository) FindByUserID(ctx context.Context, userID int) ([]domain.CartItem, error) {
	query := `
        SELECT ci.id, ci.user_id, ci.product_id, ci.quantity,
               p.id, p.name, p.price, p.stock
        FROM cart_items ci
        JOIN products p ON p.id = ci.product_id
        WHERE ci.user_id = $1
        ORDER BY ci.id
    `
	return r.queryItems(ctx, query, userID)
}

// FindForCheckout re-reads the cart with the product rows locked, ordered by
// product id so concurrent checkouts acquire locks in the same order.
func (r *Repository) FindForCheckout(ctx context.Context, userID int) ([]domain.CartItem, error) {
	query := `
        SELECT ci.id, ci.user_id, ci.product_id, ci.quantity,
               p.id, p.name, p.price, p.stock
        FROM cart_items ci
        JOIN products p ON p.id = ci.product_id
        WHERE ci.user_id = $1
        ORDER BY p.id
        FOR UPDATE OF p
    `
	return r.queryItems(ctx, query, userID)
}

func (r *Repository) queryItems(ctx context.Context, query string, userID int) ([]domain.CartItem, error) {
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		zap.L().Error("can't get cart items", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		var item domain.CartItem
		var product domain.Product
		err := rows.Scan(&item.ID, &item.UserID, &item.ProductID, &item.Quantity,
			&product.ID, &product.Name, &product.Price, &product.Stock)
		if err != nil {
			zap.L().Error("can't scan cart item row", zap.Error(err))
			return nil, err
		}
		item.Product = &product
		items = append(items, item)
	}
	return items, nil
}

func (r *Repository) FindByID(ctx context.Context, id int) (*domain.CartItem, error) {
	query := `
        SELECT id, user_id, product_id, quantity
        FROM cart_items
        WHERE id = $1
    `
	var item domain.CartItem
	err := r.db.QueryRow(ctx, query, id).Scan(&item.ID, &item.UserID, &item.ProductID, &item.Quantity)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("can't find cart item", zap.Error(err))
		return nil, err
	}
	return &item, nil
}

func (r *Repository) FindByUserAndProduct(ctx context.Context, userID, productID int) (*domain.CartItem, error) {
	query := `
        SELECT id, user_id, product_id, quantity
        FROM cart_items
        WHERE user_id = $1 AND product_id = $2
    `
	var item domain.CartItem
	err := r.db.QueryRow(ctx, query, userID, productID).Scan(&item.ID, &item.UserID, &item.ProductID, &item.Quantity)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("can't find cart item", zap.Error(err))
		return nil, err
	}
	return &item, nil
}

func (r *Repository) Create(ctx context.Context, item *domain.CartItem) (*domain.CartItem, error) {
	query := `
        INSERT INTO cart_items (user_id, product_id, quantity)
        VALUES ($1, $2, $3)
        RETURNING id
    `
	err := r.db.QueryRow(ctx, query, item.UserID, item.ProductID, item.Quantity).Scan(&item.ID)
	if err != nil {
		zap.L().Error("can't save cart item", zap.Error(err))
		return nil, err
	}
	return item, nil
}

func (r *Repository) UpdateQuantity(ctx context.Context, id int, quantity int64) error {
	query := `
        UPDATE cart_items
        SET quantity = $1
        WHERE id = $2
    `
	_, err := r.db.Exec(ctx, query, quantity, id)
	if err != nil {
		zap.L().Error("can't update cart item", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int) error {
	query := `
        DELETE FROM cart_items
        WHERE id = $1
    `
	_, err := r.db.Exec(ctx, query, id)
	if err != nil {
		zap.L().Error("can't delete cart item", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) ClearByUserID(ctx context.Context, userID int) error {
	query := `
        DELETE FROM cart_items
        WHERE user_id = $1
    `
	_, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		zap.L().Error("can't clear cart", zap.Error(err))
		return err
	}
	return nil
}
