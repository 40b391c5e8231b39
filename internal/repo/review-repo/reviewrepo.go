package reviewrepo

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

func (r *Repository) FindByID(ctx context.Context, id int) (*domain.Review, error) {
	query := `
        SELECT id, user_id, product_id, rating, comment, created_at
        FROM reviews
        WHERE id = $1
    `
	var review domain.Review
	err := r.db.QueryRow(ctx, query, id).Scan(&review.ID, &review.UserID, &review.ProductID, &review.Rating, &review.Comment, &review.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("can't find review", zap.Error(err))
		return nil, err
	}
	return &review, nil
}

func (r *Repository) FindByProductID(ctx context.Context, productID int) ([]domain.Review, error) {
	query := `
        SELECT r.id, r.user_id, r.product_id, r.rating, r.comment, r.created_at, u.name
        FROM reviews r
        JOIN users u ON u.id = r.user_id
        WHERE r.product_id = $1
        ORDER BY r.created_at DESC
    `
	rows, err := r.db.Query(ctx, query, productID)
	if err != nil {
		zap.L().Error("can't get reviews", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var review domain.Review
		err := rows.Scan(&review.ID, &review.UserID, &review.ProductID, &review.Rating, &review.Comment, &review.CreatedAt, &review.UserName)
		if err != nil {
			zap.L().Error("can't scan review row", zap.Error(err))
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, nil
}

func (r *Repository) FindByUserAndProduct(ctx context.Context, userID, productID int) (*domain.Review, error) {
	query := `
        SELECT id, user_id, product_id, rating, comment, created_at
        FROM reviews
        WHERE user_id = $1 AND product_id = $2
    `
	var review domain.Review
	err := r.db.QueryRow(ctx, query, userID, productID).Scan(&review.ID, &review.UserID, &review.ProductID, &review.Rating, &review.Comment, &review.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("can't find review", zap.Error(err))
		return nil, err
	}
	return &review, nil
}

func (r *Repository) Create(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	query := `
        INSERT INTO reviews (user_id, product_id, rating, comment)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at
    `
	err := r.db.QueryRow(ctx, query, review.UserID, review.ProductID, review.Rating, review.Comment).Scan(&review.ID, &review.CreatedAt)
	if err != nil {
		zap.L().Error("can't save review", zap.Error(err))
		return nil, err
	}
	return review, nil
}

func (r *Repository) Update(ctx context.Context, review *domain.Review) error {
	query := `
        UPDATE reviews
        SET rating = $1, comment = $2
        WHERE id = $3
    `
	_, err := r.db.Exec(ctx, query, review.Rating, review.Comment, review.ID)
	if err != nil {
		zap.L().Error("can't update review", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int) error {
	query := `
        DELETE FROM reviews
        WHERE id = $1
    `
	_, err := r.db.Exec(ctx, query, id)
	if err != nil {
		zap.L().Error("can't delete review", zap.Error(err))
		return err
	}
	return nil
}
