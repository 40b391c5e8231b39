package reviews

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mkorolev/gomarket/internal/domain"
	"github.com/mkorolev/gomarket/internal/dto"
	reviewservice "github.com/mkorolev/gomarket/internal/service/reviewservice"
	"github.com/mkorolev/gomarket/pkg/auth"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

func NewMock(t *testing.T) (*ReviewHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	handler := New(service)
	defer ctrl.Finish()
	return handler, service
}

func contextWithParam(key, value string) context.Context {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	ctx := context.WithValue(context.Background(), auth.UserIDKey, 1)
	return context.WithValue(ctx, chi.RouteCtxKey, rctx)
}

func TestCreateHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name          string
		productID     string
		body          string
		prepareMock   func(ctx context.Context)
		expectedCode  int
		expectedError string
	}{
		{
			name:      "Review created",
			productID: "10",
			body:      `{"rating":5,"comment":"solid"}`,
			prepareMock: func(ctx context.Context) {
				service.EXPECT().Create(ctx, 1, 10, 5, "solid").Return(&domain.Review{
					ID: 1, ProductID: 10, Rating: 5, Comment: "solid", CreatedAt: time.Now(),
				}, nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name:          "Invalid product id",
			productID:     "abc",
			body:          `{"rating":5}`,
			prepareMock:   func(ctx context.Context) {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Invalid product id",
		},
		{
			name:          "Invalid request body",
			productID:     "10",
			body:          `{invalid`,
			prepareMock:   func(ctx context.Context) {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Invalid request body",
		},
		{
			name:      "Product not found",
			productID: "99",
			body:      `{"rating":5,"comment":"solid"}`,
			prepareMock: func(ctx context.Context) {
				service.EXPECT().Create(ctx, 1, 99, 5, "solid").Return(nil, reviewservice.ErrProductNotFound)
			},
			expectedCode:  http.StatusNotFound,
			expectedError: "product not found",
		},
		{
			name:      "Product was not purchased",
			productID: "10",
			body:      `{"rating":5,"comment":"solid"}`,
			prepareMock: func(ctx context.Context) {
				service.EXPECT().Create(ctx, 1, 10, 5, "solid").Return(nil, reviewservice.ErrNotPurchased)
			},
			expectedCode: http.StatusForbidden,
		},
		{
			name:      "Product already reviewed",
			productID: "10",
			body:      `{"rating":5,"comment":"solid"}`,
			prepareMock: func(ctx context.Context) {
				service.EXPECT().Create(ctx, 1, 10, 5, "solid").Return(nil, reviewservice.ErrAlreadyReviewed)
			},
			expectedCode:  http.StatusConflict,
			expectedError: "product already reviewed",
		},
		{
			name:      "Invalid rating",
			productID: "10",
			body:      `{"rating":6,"comment":"solid"}`,
			prepareMock: func(ctx context.Context) {
				service.EXPECT().Create(ctx, 1, 10, 6, "solid").Return(nil, reviewservice.ErrInvalidRating)
			},
			expectedCode: http.StatusUnprocessableEntity,
		},
		{
			name:      "Comment too long",
			productID: "10",
			body:      `{"rating":4,"comment":"` + strings.Repeat("a", 1001) + `"}`,
			prepareMock: func(ctx context.Context) {
				service.EXPECT().Create(ctx, 1, 10, 4, strings.Repeat("a", 1001)).Return(nil, reviewservice.ErrCommentTooLong)
			},
			expectedCode:  http.StatusUnprocessableEntity,
			expectedError: "comment must be at most 1000 characters",
		},
		{
			name:      "Internal server error",
			productID: "10",
			body:      `{"rating":5,"comment":"solid"}`,
			prepareMock: func(ctx context.Context) {
				service.EXPECT().Create(ctx, 1, 10, 5, "solid").Return(nil, errors.New("error"))
			},
			expectedCode:  http.StatusInternalServerError,
			expectedError: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := contextWithParam("productID", tt.productID)
			tt.prepareMock(ctx)

			r := httptest.NewRequest(http.MethodPost, "/api/products/"+tt.productID+"/reviews", bytes.NewBufferString(tt.body)).WithContext(ctx)
			w := httptest.NewRecorder()

			handler.Create(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedError != "" {
				assert.Contains(t, w.Body.String(), tt.expectedError)
			}
			if tt.expectedCode == http.StatusCreated {
				var body dto.ReviewResponseDTO
				_ = json.NewDecoder(w.Body).Decode(&body)
				assert.Equal(t, 1, body.ID)
				assert.Equal(t, 5, body.Rating)
			}
		})
	}
}

func TestUpdateHandler(t *testing.T) {
	handler, service := NewMock(t)

	t.Run("Review updated", func(t *testing.T) {
		ctx := contextWithParam("reviewID", "1")
		service.EXPECT().Update(ctx, 1, 1, 3, "updated").Return(&domain.Review{
			ID: 1, ProductID: 10, Rating: 3, Comment: "updated", CreatedAt: time.Now(),
		}, nil)

		r := httptest.NewRequest(http.MethodPut, "/api/user/reviews/1", bytes.NewBufferString(`{"rating":3,"comment":"updated"}`)).WithContext(ctx)
		w := httptest.NewRecorder()

		handler.Update(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		var body dto.ReviewResponseDTO
		_ = json.NewDecoder(w.Body).Decode(&body)
		assert.Equal(t, 3, body.Rating)
	})

	t.Run("Review not found", func(t *testing.T) {
		ctx := contextWithParam("reviewID", "99")
		service.EXPECT().Update(ctx, 1, 99, 3, "updated").Return(nil, reviewservice.ErrReviewNotFound)

		r := httptest.NewRequest(http.MethodPut, "/api/user/reviews/99", bytes.NewBufferString(`{"rating":3,"comment":"updated"}`)).WithContext(ctx)
		w := httptest.NewRecorder()

		handler.Update(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Comment too long", func(t *testing.T) {
		ctx := contextWithParam("reviewID", "1")
		long := strings.Repeat("b", 1001)
		service.EXPECT().Update(ctx, 1, 1, 3, long).Return(nil, reviewservice.ErrCommentTooLong)

		r := httptest.NewRequest(http.MethodPut, "/api/user/reviews/1", bytes.NewBufferString(`{"rating":3,"comment":"`+long+`"}`)).WithContext(ctx)
		w := httptest.NewRecorder()

		handler.Update(w, r)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "comment must be at most 1000 characters")
	})

	t.Run("Invalid review id", func(t *testing.T) {
		ctx := contextWithParam("reviewID", "abc")

		r := httptest.NewRequest(http.MethodPut, "/api/user/reviews/abc", bytes.NewBufferString(`{"rating":3}`)).WithContext(ctx)
		w := httptest.NewRecorder()

		handler.Update(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDeleteHandler(t *testing.T) {
	handler, service := NewMock(t)

	t.Run("Review deleted", func(t *testing.T) {
		ctx := contextWithParam("reviewID", "1")
		service.EXPECT().Delete(ctx, 1, 1).Return(nil)

		r := httptest.NewRequest(http.MethodDelete, "/api/user/reviews/1", nil).WithContext(ctx)
		w := httptest.NewRecorder()

		handler.Delete(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Review deleted")
	})

	t.Run("Review not found", func(t *testing.T) {
		ctx := contextWithParam("reviewID", "99")
		service.EXPECT().Delete(ctx, 1, 99).Return(reviewservice.ErrReviewNotFound)

		r := httptest.NewRequest(http.MethodDelete, "/api/user/reviews/99", nil).WithContext(ctx)
		w := httptest.NewRecorder()

		handler.Delete(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
