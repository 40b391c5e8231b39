package balance

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mkorolev/gomarket/internal/domain"
	"github.com/mkorolev/gomarket/internal/dto"
	walletservice "github.com/mkorolev/gomarket/internal/service/walletservice"
	"github.com/mkorolev/gomarket/pkg/auth"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

func NewMock(t *testing.T) (*BalanceHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	handler := New(service)
	defer ctrl.Finish()
	return handler, service
}

func userContext() context.Context {
	return context.WithValue(context.Background(), auth.UserIDKey, 1)
}

func TestGetBalanceHandler(t *testing.T) {
	handler, service := NewMock(t)

	t.Run("Balance returned", func(t *testing.T) {
		ctx := userContext()
		service.EXPECT().GetBalance(ctx, 1).Return(int64(200000), nil)

		r := httptest.NewRequest(http.MethodGet, "/api/user/balance", nil).WithContext(ctx)
		w := httptest.NewRecorder()

		handler.GetBalance(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		var body dto.BalanceResponseDTO
		_ = json.NewDecoder(w.Body).Decode(&body)
		assert.Equal(t, int64(200000), body.Balance)
	})

	t.Run("Internal server error", func(t *testing.T) {
		ctx := userContext()
		service.EXPECT().GetBalance(ctx, 1).Return(int64(0), errors.New("error"))

		r := httptest.NewRequest(http.MethodGet, "/api/user/balance", nil).WithContext(ctx)
		w := httptest.NewRecorder()

		handler.GetBalance(w, r)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestTopUpHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name          string
		body          string
		prepareMock   func(ctx context.Context)
		expectedCode  int
		expectedError string
	}{
		{
			name: "Top-up accepted",
			body: `{"card":"4561261212345467","amount":100000}`,
			prepareMock: func(ctx context.Context) {
				service.EXPECT().
					RequestTopUp(ctx, 1, "4561261212345467", int64(100000)).
					Return(&domain.Payment{
						Reference:  "ref-1",
						CardMasked: "************5467",
						Amount:     100000,
						Status:     domain.PaymentStatusNew,
						CreatedAt:  time.Now(),
					}, nil)
			},
			expectedCode: http.StatusAccepted,
		},
		{
			name:          "Invalid request body",
			body:          `{invalid`,
			prepareMock:   func(ctx context.Context) {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Invalid request body",
		},
		{
			name:          "Invalid card number",
			body:          `{"card":"1234567890123456","amount":100000}`,
			prepareMock:   func(ctx context.Context) {},
			expectedCode:  http.StatusUnprocessableEntity,
			expectedError: "Invalid card number",
		},
		{
			name: "Invalid amount",
			body: `{"card":"4561261212345467","amount":0}`,
			prepareMock: func(ctx context.Context) {
				service.EXPECT().
					RequestTopUp(ctx, 1, "4561261212345467", int64(0)).
					Return(nil, walletservice.ErrInvalidAmount)
			},
			expectedCode:  http.StatusBadRequest,
			expectedError: "top-up amount must be positive",
		},
		{
			name: "Internal server error",
			body: `{"card":"4561261212345467","amount":100000}`,
			prepareMock: func(ctx context.Context) {
				service.EXPECT().
					RequestTopUp(ctx, 1, "4561261212345467", int64(100000)).
					Return(nil, errors.New("error"))
			},
			expectedCode:  http.StatusInternalServerError,
			expectedError: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := userContext()
			tt.prepareMock(ctx)

			r := httptest.NewRequest(http.MethodPost, "/api/user/balance/topup", bytes.NewBufferString(tt.body)).WithContext(ctx)
			w := httptest.NewRecorder()

			handler.TopUp(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedError != "" {
				assert.Contains(t, w.Body.String(), tt.expectedError)
			}
			if tt.expectedCode == http.StatusAccepted {
				var body dto.TopUpResponseDTO
				_ = json.NewDecoder(w.Body).Decode(&body)
				assert.Equal(t, "ref-1", body.Reference)
				assert.Equal(t, "************5467", body.CardMasked)
			}
		})
	}
}

func TestGetTopUpsHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name          string
		prepareMock   func(ctx context.Context)
		expectedCode  int
		expectedError string
	}{
		{
			name: "History returned",
			prepareMock: func(ctx context.Context) {
				service.EXPECT().GetTopUps(ctx, 1).Return([]domain.Payment{
					{Reference: "ref-2", Status: domain.PaymentStatusConfirmed, Amount: 50000, CreatedAt: time.Now()},
					{Reference: "ref-1", Status: domain.PaymentStatusNew, Amount: 100000, CreatedAt: time.Now()},
				}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "No top-ups",
			prepareMock: func(ctx context.Context) {
				service.EXPECT().GetTopUps(ctx, 1).Return(nil, nil)
			},
			expectedCode: http.StatusNoContent,
		},
		{
			name: "Internal server error",
			prepareMock: func(ctx context.Context) {
				service.EXPECT().GetTopUps(ctx, 1).Return(nil, errors.New("error"))
			},
			expectedCode:  http.StatusInternalServerError,
			expectedError: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := userContext()
			tt.prepareMock(ctx)

			r := httptest.NewRequest(http.MethodGet, "/api/user/balance/topups", nil).WithContext(ctx)
			w := httptest.NewRecorder()

			handler.GetTopUps(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedError != "" {
				assert.Contains(t, w.Body.String(), tt.expectedError)
			}
			if tt.expectedCode == http.StatusNoContent {
				assert.Empty(t, w.Body.String())
			}
			if tt.expectedCode == http.StatusOK {
				var body []dto.TopUpResponseDTO
				_ = json.NewDecoder(w.Body).Decode(&body)
				assert.Len(t, body, 2)
			}
		})
	}
}
