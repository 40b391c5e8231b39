package productrepo

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/mkorolev/gomarket/internal/domain"
	"github.com/mkorolev/gomarket/internal/pg"
	"go.uber.org/zap"
)

type Repository struct {
	db        pg.Database
	txManager pg.TXManager
}

func New(db pg.Database, txManager pg.TXManager) *Repository {
	return &Repository{
		db:        db,
		txManager: txManager,
	}
}

func (r *Repository) Find(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	query := `
        SELECT p.id, p.name, p.description, p.price, p.stock, p.image_ref, p.created_at,
               COUNT(r.id), COALESCE(AVG(r.rating), 0)
        FROM products p
        LEFT JOIN reviews r ON r.product_id = p.id
        WHERE ($1 = '' OR p.name ILIKE '%' || $1 || '%' OR p.description ILIKE '%' || $1 || '%')
          AND ($2::bigint IS NULL OR p.price >= $2)
          AND ($3::bigint IS NULL OR p.price <= $3)
        GROUP BY p.id
        ORDER BY p.created_at DESC
        LIMIT $4 OFFSET $5
    `
	rows, err := r.db.Query(ctx, query, filter.Search, filter.MinPrice, filter.MaxPrice, filter.Limit, filter.Offset)
	if err != nil {
		zap.L().Error("can't get products", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.ImageRef, &p.CreatedAt, &p.ReviewCount, &p.AvgRating)
		if err != nil {
			zap.L().Error("can't scan product row", zap.Error(err))
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

func (r *Repository) FindByID(ctx context.Context, id int) (*domain.Product, error) {
	query := `
        SELECT p.id, p.name, p.description, p.price, p.stock, p.image_ref, p.created_at,
               COUNT(r.id), COALESCE(AVG(r.rating), 0)
        FROM products p
        LEFT JOIN reviews r ON r.product_id = p.id
        WHERE p.id = $1
        GROUP BY p.id
    `
	row := r.db.QueryRow(ctx, query, id)
	var p domain.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.ImageRef, &p.CreatedAt, &p.ReviewCount, &p.AvgRating)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("can't find product", zap.Error(err))
		return nil, err
	}
	return &p, nil
}

func (r *Repository) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	query := `
        INSERT INTO products (name, description, price, stock, image_ref)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at
    `
	err := r.db.QueryRow(ctx, query, product.Name, product.Description, product.Price, product.Stock, product.ImageRef).
		Scan(&product.ID, &product.CreatedAt)
	if err != nil {
		zap.L().Error("can't save product", zap.Error(err))
		return nil, err
	}
	return product, nil
}

// Update runs under the transaction manager so admin stock and price edits
// serialize against in-flight checkouts on the same row.
func (r *Repository) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	var updated domain.Product
	query := `
        UPDATE products
        SET name = $1, description = $2, price = $3, stock = $4, image_ref = $5
        WHERE id = $6
        RETURNING id, name, description, price, stock, image_ref, created_at
    `
	err := r.txManager.Begin(ctx, func(ctx context.Context) error {
		row := r.db.QueryRow(ctx, query, product.Name, product.Description, product.Price, product.Stock, product.ImageRef, product.ID)
		err := row.Scan(&updated.ID, &updated.Name, &updated.Description, &updated.Price, &updated.Stock, &updated.ImageRef, &updated.CreatedAt)
		if err != nil {
			zap.L().Error("can't update product", zap.Error(err))
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *Repository) Delete(ctx context.Context, id int) error {
	query := `
        DELETE FROM products
        WHERE id = $1
    `
	_, err := r.db.Exec(ctx, query, id)
	if err != nil {
		zap.L().Error("can't delete product", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) DecrementStock(ctx context.Context, productID int, quantity int64) error {
	query := `
        UPDATE products
        SET stock = stock - $1
        WHERE id = $2
    `
	_, err := r.db.Exec(ctx, query, quantity, productID)
	if err != nil {
		zap.L().Error("can't decrement product stock", zap.Error(err))
		return err
	}
	return nil
}
