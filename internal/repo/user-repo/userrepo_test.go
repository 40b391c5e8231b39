package userrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/mkorolev/gomarket/internal/domain"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB)
	defer mockDB.Close()

	return repo, mockDB
}

func TestRepository_FindByEmail(t *testing.T) {
	repo, mock := NewMock(t)

	tests := []struct {
		name      string
		email     string
		mockSetup func()
		expectErr bool
		result    *domain.User
	}{
		{
			name:  "User found",
			email: "alice@example.com",
			mockSetup: func() {
				rows := pgxmock.NewRows([]string{"id", "name", "email", "password_hash", "role", "balance"}).
					AddRow(1, "alice", "alice@example.com", "hashed_password", "user", int64(200000))
				mock.ExpectQuery(regexp.QuoteMeta(`
        SELECT id, name, email, password_hash, role, balance
        FROM users
        WHERE email = $1
    `)).
					WithArgs("alice@example.com").
					WillReturnRows(rows)
			},
			expectErr: false,
			result: &domain.User{
				ID:           1,
				Name:         "alice",
				Email:        "alice@example.com",
				PasswordHash: "hashed_password",
				Role:         "user",
				Balance:      200000,
			},
		},
		{
			name:  "User not found",
			email: "nobody@example.com",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email, password_hash, role, balance")).
					WithArgs("nobody@example.com").
					WillReturnError(pgx.ErrNoRows)
			},
			expectErr: false,
			result:    nil,
		},
		{
			name:  "Database error",
			email: "alice@example.com",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email, password_hash, role, balance")).
					WithArgs("alice@example.com").
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
			result:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.FindByEmail(context.Background(), tt.email)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.result, result)
			}
		})
	}
}

func TestRepository_Create(t *testing.T) {
	repo, mock := NewMock(t)

	tests := []struct {
		name      string
		user      *domain.User
		mockSetup func()
		expectErr bool
	}{
		{
			name: "Create user successfully",
			user: &domain.User{
				Name:         "alice",
				Email:        "alice@example.com",
				PasswordHash: "hashed_password",
				Role:         "user",
				Balance:      200000,
			},
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`
			INSERT INTO users (name, email, password_hash, role, balance)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`)).
					WithArgs("alice", "alice@example.com", "hashed_password", "user", int64(200000)).
					WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(1))
			},
			expectErr: false,
		},
		{
			name: "Database error",
			user: &domain.User{
				Name:         "alice",
				Email:        "alice@example.com",
				PasswordHash: "hashed_password",
				Role:         "user",
			},
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
					WithArgs("alice", "alice@example.com", "hashed_password", "user", int64(0)).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.Create(context.Background(), tt.user)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, 1, result.ID)
			}
		})
	}
}

func TestRepository_GetBalance(t *testing.T) {
	repo, mock := NewMock(t)

	t.Run("Balance returned", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT balance")).
			WithArgs(1).
			WillReturnRows(pgxmock.NewRows([]string{"balance"}).AddRow(int64(200000)))

		balance, err := repo.GetBalance(context.Background(), 1)
		assert.NoError(t, err)
		assert.Equal(t, int64(200000), balance)
	})

	t.Run("Database error", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT balance")).
			WithArgs(1).
			WillReturnError(errors.New("database error"))

		_, err := repo.GetBalance(context.Background(), 1)
		assert.Error(t, err)
	})
}

func TestRepository_GetBalanceForUpdate(t *testing.T) {
	repo, mock := NewMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(1).
		WillReturnRows(pgxmock.NewRows([]string{"balance"}).AddRow(int64(150000)))

	balance, err := repo.GetBalanceForUpdate(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(150000), balance)
}

func TestRepository_DecrementBalance(t *testing.T) {
	repo, mock := NewMock(t)

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
	}{
		{
			name: "Balance decremented",
			mockSetup: func() {
				mock.ExpectExec(regexp.QuoteMeta("SET balance = balance - $1")).
					WithArgs(int64(50000), 1).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
			expectErr: false,
		},
		{
			name: "User not found",
			mockSetup: func() {
				mock.ExpectExec(regexp.QuoteMeta("SET balance = balance - $1")).
					WithArgs(int64(50000), 1).
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			},
			expectErr: true,
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectExec(regexp.QuoteMeta("SET balance = balance - $1")).
					WithArgs(int64(50000), 1).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			err := repo.DecrementBalance(context.Background(), 1, 50000)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRepository_IncrementBalance(t *testing.T) {
	repo, mock := NewMock(t)

	t.Run("Balance incremented", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("SET balance = balance + $1")).
			WithArgs(int64(100000), 1).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		assert.NoError(t, repo.IncrementBalance(context.Background(), 1, 100000))
	})

	t.Run("User not found", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("SET balance = balance + $1")).
			WithArgs(int64(100000), 1).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		assert.Error(t, repo.IncrementBalance(context.Background(), 1, 100000))
	})
}
