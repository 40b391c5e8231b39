package paymentrepo

import (
	"context"

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

func (r *Repository) Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	query := `
		INSERT INTO payments (user_id, reference, card_masked, amount, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query, payment.UserID, payment.Reference, payment.CardMasked, payment.Amount, payment.Status).
		Scan(&payment.ID, &payment.CreatedAt)
	if err != nil {
		zap.L().Error("can't save payment", zap.Error(err))
		return nil, err
	}
	return payment, nil
}

func (r *Repository) FindByUserID(ctx context.Context, userID int) ([]domain.Payment, error) {
	query := `
        SELECT id, user_id, reference, card_masked, amount, status, created_at
        FROM payments
        WHERE user_id = $1
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		zap.L().Error("can't get payments", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		var p domain.Payment
		err := rows.Scan(&p.ID, &p.UserID, &p.Reference, &p.CardMasked, &p.Amount, &p.Status, &p.CreatedAt)
		if err != nil {
			zap.L().Error("can't scan payment row", zap.Error(err))
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, nil
}

func (r *Repository) FindForProcessing(ctx context.Context, limit uint32) ([]domain.Payment, error) {
	query := `
        SELECT id, user_id, reference, card_masked, amount, status, created_at
        FROM payments
        WHERE status = 'NEW' OR status = 'PROCESSING'
        ORDER BY created_at ASC
        LIMIT $1
    `
	rows, err := r.db.Query(ctx, query, int(limit))
	if err != nil {
		zap.L().Error("can't get payments for processing", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		var p domain.Payment
		err := rows.Scan(&p.ID, &p.UserID, &p.Reference, &p.CardMasked, &p.Amount, &p.Status, &p.CreatedAt)
		if err != nil {
			zap.L().Error("can't scan payment row for processing", zap.Error(err))
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, nil
}

func (r *Repository) Update(ctx context.Context, payment *domain.Payment) error {
	query := `
        UPDATE payments
        SET status = $1
        WHERE id = $2
    `
	_, err := r.db.Exec(ctx, query, payment.Status, payment.ID)
	if err != nil {
		zap.L().Error("can't update payment", zap.Error(err))
		return err
	}
	return nil
}
