package userrepo

import (
	"context"
	"fmt"

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

func (repo *Repository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
        SELECT id, name, email, password_hash, role, balance
        FROM users
        WHERE email = $1
    `
	var user domain.User
	err := repo.db.QueryRow(ctx, query, email).Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Role, &user.Balance)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("can't find user by email", zap.Error(err))
		return nil, err
	}
	return &user, nil
}

func (repo *Repository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (name, email, password_hash, role, balance)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := repo.db.QueryRow(ctx, query, user.Name, user.Email, user.PasswordHash, user.Role, user.Balance).Scan(&user.ID)
	if err != nil {
		zap.L().Error("can't save user", zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (repo *Repository) GetBalance(ctx context.Context, userID int) (int64, error) {
	query := `
        SELECT balance
        FROM users
        WHERE id = $1
    `
	var balance int64
	err := repo.db.QueryRow(ctx, query, userID).Scan(&balance)
	if err != nil {
		zap.L().Error("can't get user balance", zap.Error(err))
		return 0, err
	}
	return balance, nil
}

// GetBalanceForUpdate locks the user row until the surrounding transaction ends.
func (repo *Repository) GetBalanceForUpdate(ctx context.Context, userID int) (int64, error) {
	query := `
        SELECT balance
        FROM users
        WHERE id = $1
        FOR UPDATE
    `
	var balance int64
	err := repo.db.QueryRow(ctx, query, userID).Scan(&balance)
	if err != nil {
		zap.L().Error("can't lock user balance", zap.Error(err))
		return 0, err
	}
	return balance, nil
}

func (repo *Repository) DecrementBalance(ctx context.Context, userID int, amount int64) error {
	query := `
        UPDATE users
        SET balance = balance - $1
        WHERE id = $2
    `
	tag, err := repo.db.Exec(ctx, query, amount, userID)
	if err != nil {
		zap.L().Error("can't decrement user balance", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %d not found", userID)
	}
	return nil
}

func (repo *Repository) IncrementBalance(ctx context.Context, userID int, amount int64) error {
	query := `
        UPDATE users
        SET balance = balance + $1
        WHERE id = $2
    `
	tag, err := repo.db.Exec(ctx, query, amount, userID)
	if err != nil {
		zap.L().Error("can't increment user balance", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %d not found", userID)
	}
	return nil
}
