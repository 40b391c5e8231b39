package reviewrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

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

func TestRepository_FindByID(t *testing.T) {
	repo, mock := NewMock(t)
	createdAt := time.Now()

	t.Run("Review found", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"id", "user_id", "product_id", "rating", "comment", "created_at"}).
			AddRow(1, 1, 10, 5, "solid", createdAt)
		mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1")).
			WithArgs(1).
			WillReturnRows(rows)

		review, err := repo.FindByID(context.Background(), 1)
		assert.NoError(t, err)
		assert.Equal(t, 5, review.Rating)
	})

	t.Run("Review not found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1")).
			WithArgs(99).
			WillReturnError(pgx.ErrNoRows)

		review, err := repo.FindByID(context.Background(), 99)
		assert.NoError(t, err)
		assert.Nil(t, review)
	})
}

func TestRepository_FindByProductID(t *testing.T) {
	repo, mock := NewMock(t)
	createdAt := time.Now()

	t.Run("Reviews with author names", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"id", "user_id", "product_id", "rating", "comment", "created_at", "name"}).
			AddRow(1, 1, 10, 5, "solid", createdAt, "alice").
			AddRow(2, 2, 10, 3, "meh", createdAt, "bob")
		mock.ExpectQuery(regexp.QuoteMeta("WHERE r.product_id = $1")).
			WithArgs(10).
			WillReturnRows(rows)

		reviews, err := repo.FindByProductID(context.Background(), 10)
		assert.NoError(t, err)
		assert.Len(t, reviews, 2)
		assert.Equal(t, "alice", reviews[0].UserName)
	})

	t.Run("Database error", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("WHERE r.product_id = $1")).
			WithArgs(10).
			WillReturnError(errors.New("database error"))

		_, err := repo.FindByProductID(context.Background(), 10)
		assert.Error(t, err)
	})
}

func TestRepository_FindByUserAndProduct(t *testing.T) {
	repo, mock := NewMock(t)
	createdAt := time.Now()

	t.Run("Review found", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"id", "user_id", "product_id", "rating", "comment", "created_at"}).
			AddRow(1, 1, 10, 4, "fine", createdAt)
		mock.ExpectQuery(regexp.QuoteMeta("WHERE user_id = $1 AND product_id = $2")).
			WithArgs(1, 10).
			WillReturnRows(rows)

		review, err := repo.FindByUserAndProduct(context.Background(), 1, 10)
		assert.NoError(t, err)
		assert.Equal(t, 4, review.Rating)
	})

	t.Run("Review not found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("WHERE user_id = $1 AND product_id = $2")).
			WithArgs(1, 10).
			WillReturnError(pgx.ErrNoRows)

		review, err := repo.FindByUserAndProduct(context.Background(), 1, 10)
		assert.NoError(t, err)
		assert.Nil(t, review)
	})
}

func TestRepository_Create(t *testing.T) {
	repo, mock := NewMock(t)
	createdAt := time.Now()

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
	}{
		{
			name: "Review created",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`
        INSERT INTO reviews (user_id, product_id, rating, comment)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at
    `)).
					WithArgs(1, 10, 5, "solid").
					WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(1, createdAt))
			},
			expectErr: false,
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO reviews")).
					WithArgs(1, 10, 5, "solid").
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			review, err := repo.Create(context.Background(), &domain.Review{UserID: 1, ProductID: 10, Rating: 5, Comment: "solid"})
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, 1, review.ID)
			}
		})
	}
}

func TestRepository_Update(t *testing.T) {
	repo, mock := NewMock(t)

	t.Run("Review updated", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("SET rating = $1, comment = $2")).
			WithArgs(3, "updated", 1).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		assert.NoError(t, repo.Update(context.Background(), &domain.Review{ID: 1, Rating: 3, Comment: "updated"}))
	})

	t.Run("Database error", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("SET rating = $1, comment = $2")).
			WithArgs(3, "updated", 1).
			WillReturnError(errors.New("database error"))

		assert.Error(t, repo.Update(context.Background(), &domain.Review{ID: 1, Rating: 3, Comment: "updated"}))
	})
}

func TestRepository_Delete(t *testing.T) {
	repo, mock := NewMock(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM reviews")).
		WithArgs(1).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	assert.NoError(t, repo.Delete(context.Background(), 1))
}
