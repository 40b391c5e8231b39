package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/mkorolev/gomarket/internal/config"
	"github.com/mkorolev/gomarket/internal/domain"
	"github.com/mkorolev/gomarket/internal/pg"
	"github.com/mkorolev/gomarket/pkg/clients"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func NewMock(t *testing.T) (*Service, *MockPaymentRepo, *MockUserRepo, *pg.MockTXManager, *clients.MockHTTPClientI) {
	cfg := &config.Config{PaymentAddress: "http://localhost:8081"}
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	paymentRepo := NewMockPaymentRepo(ctrl)
	userRepo := NewMockUserRepo(ctrl)
	txManager := pg.NewMockTXManager(ctrl)
	client := clients.NewMockHTTPClientI(ctrl)
	service := New(cfg, paymentRepo, userRepo, txManager, client)
	return service, paymentRepo, userRepo, txManager, client
}

func passThrough(ctx context.Context, fn pg.TransactionalFn) error {
	return fn(ctx)
}

func TestService_Start(t *testing.T) {
	service, _, _, _, _ := NewMock(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go service.Start(ctx)
	time.Sleep(20 * time.Millisecond)
	cancel()
}

func TestService_processPayments(t *testing.T) {
	tests := []struct {
		name             string
		mockFindPayments func(ctx context.Context, limit uint32) ([]domain.Payment, error)
		mockAddTask      func(ctx context.Context, task Task) error
		paymentCount     int
	}{
		{
			name: "successfully processes payments",
			mockFindPayments: func(ctx context.Context, limit uint32) ([]domain.Payment, error) {
				return []domain.Payment{
					{Reference: "pp-ref-1", Status: domain.PaymentStatusNew, UserID: 1},
					{Reference: "pp-ref-2", Status: domain.PaymentStatusNew, UserID: 2},
				}, nil
			},
			mockAddTask: func(ctx context.Context, task Task) error {
				return nil
			},
			paymentCount: 2,
		},
		{
			name: "fails when finding payments",
			mockFindPayments: func(ctx context.Context, limit uint32) ([]domain.Payment, error) {
				return nil, fmt.Errorf("failed to fetch payments for processing")
			},
			mockAddTask: func(ctx context.Context, task Task) error {
				return nil
			},
			paymentCount: 0,
		},
		{
			name: "error in workerPool AddTask",
			mockFindPayments: func(ctx context.Context, limit uint32) ([]domain.Payment, error) {
				return []domain.Payment{
					{Reference: "pp-ref-3", Status: domain.PaymentStatusNew, UserID: 1},
				}, nil
			},
			mockAddTask: func(ctx context.Context, task Task) error {
				return fmt.Errorf("failed to add task to worker pool")
			},
			paymentCount: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			paymentRepo := NewMockPaymentRepo(ctrl)
			workerPool := NewMockWorkerPoolI(ctrl)

			paymentRepo.EXPECT().
				FindForProcessing(gomock.Any(), gomock.Any()).
				DoAndReturn(tt.mockFindPayments).
				Times(1)
			for i := 0; i < tt.paymentCount; i++ {
				workerPool.EXPECT().
					AddTask(gomock.Any(), gomock.Any()).
					DoAndReturn(tt.mockAddTask).
					AnyTimes()
			}

			service := &Service{
				paymentRepo: paymentRepo,
				workerPool:  workerPool,
				limit:       2,
			}

			logger := zap.NewExample()
			zap.ReplaceGlobals(logger)

			service.processPayments(context.Background())
		})
	}
}

func TestService_handlePayment(t *testing.T) {
	testCases := []struct {
		name          string
		payment       domain.Payment
		httpStatus    int
		responseBody  string
		expectedError string
		cancelContext bool
		retryError    error
		retryHeaders  http.Header
		confirms      bool
	}{
		{
			name:         "Verdict still pending - NEW",
			payment:      domain.Payment{ID: 1, Reference: "ref-123", Status: domain.PaymentStatusNew, UserID: 1},
			httpStatus:   http.StatusOK,
			responseBody: `{"reference":"ref-123","status":"NEW"}`,
		},
		{
			name:         "Confirmed payment credits balance",
			payment:      domain.Payment{ID: 2, Reference: "ref-124", Status: domain.PaymentStatusNew, UserID: 1, Amount: 100000},
			httpStatus:   http.StatusOK,
			responseBody: `{"reference":"ref-124","status":"CONFIRMED","amount":100000}`,
			confirms:     true,
		},
		{
			name:          "Context canceled",
			payment:       domain.Payment{ID: 3, Reference: "ref-130", Status: domain.PaymentStatusNew, UserID: 1},
			httpStatus:    http.StatusOK,
			responseBody:  `{"reference":"ref-130","status":"NEW"}`,
			expectedError: context.Canceled.Error(),
			cancelContext: true,
		},
		{
			name:          "Failed processing after retries",
			payment:       domain.Payment{ID: 4, Reference: "ref-127", Status: domain.PaymentStatusNew, UserID: 1},
			httpStatus:    http.StatusInternalServerError,
			expectedError: "failed to process payment ref-127 after 3 retries: server error",
			retryError:    errors.New("server error"),
		},
		{
			name:          "Payment not found after retries",
			payment:       domain.Payment{ID: 5, Reference: "ref-128", Status: domain.PaymentStatusNew, UserID: 1},
			httpStatus:    http.StatusNoContent,
			expectedError: "failed to process not found payment ref-128 after 3 retries",
		},
		{
			name:          "Unexpected status code",
			payment:       domain.Payment{ID: 6, Reference: "ref-129", Status: domain.PaymentStatusNew, UserID: 1},
			httpStatus:    http.StatusTeapot,
			expectedError: "unexpected status code",
		},
		{
			name:         "Rate limit handling",
			payment:      domain.Payment{ID: 7, Reference: "ref-131", Status: domain.PaymentStatusNew, UserID: 1},
			httpStatus:   http.StatusTooManyRequests,
			retryHeaders: http.Header{"Retry-After": []string{"1"}},
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			service, paymentRepo, userRepo, txManager, client := NewMock(t)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			if tt.cancelContext {
				cancel()
			}
			if tt.retryError != nil {
				client.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(tt.httpStatus, []byte(tt.responseBody), http.Header{}, tt.retryError).Times(3)
			} else if tt.retryHeaders != nil {
				client.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(tt.httpStatus, []byte(tt.responseBody), tt.retryHeaders, nil).Times(1)
			} else if !tt.cancelContext {
				client.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(tt.httpStatus, []byte(tt.responseBody), http.Header{}, nil).
					AnyTimes()
			}

			if tt.confirms {
				txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(passThrough)
				userRepo.EXPECT().IncrementBalance(gomock.Any(), tt.payment.UserID, tt.payment.Amount).Return(nil)
				paymentRepo.EXPECT().
					Update(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, payment *domain.Payment) error {
						assert.Equal(t, domain.PaymentStatusConfirmed, payment.Status)
						assert.Equal(t, tt.payment.Reference, payment.Reference)
						return nil
					})
			}

			err := service.handlePayment(ctx, tt.payment)

			if tt.expectedError != "" {
				assert.EqualError(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestService_processConfirmation(t *testing.T) {
	testCases := []struct {
		name           string
		payment        domain.Payment
		respBody       []byte
		updateErr      error
		creditErr      error
		expectErr      bool
		expectedStatus string
		credits        bool
		updates        bool
	}{
		{
			name:           "Confirmed verdict credits balance",
			payment:        domain.Payment{ID: 1, Reference: "ref-123", UserID: 1, Amount: 100000, Status: domain.PaymentStatusNew},
			respBody:       []byte(`{"reference":"ref-123","status":"CONFIRMED","amount":100000}`),
			expectedStatus: domain.PaymentStatusConfirmed,
			credits:        true,
			updates:        true,
		},
		{
			name:           "Invalid verdict marks payment",
			payment:        domain.Payment{ID: 2, Reference: "ref-456", UserID: 2, Amount: 5000, Status: domain.PaymentStatusNew},
			respBody:       []byte(`{"reference":"ref-456","status":"INVALID"}`),
			expectedStatus: domain.PaymentStatusInvalid,
			updates:        true,
		},
		{
			name:           "Processing verdict updates status once",
			payment:        domain.Payment{ID: 3, Reference: "ref-789", UserID: 3, Amount: 5000, Status: domain.PaymentStatusNew},
			respBody:       []byte(`{"reference":"ref-789","status":"PROCESSING"}`),
			expectedStatus: domain.PaymentStatusProcessing,
			updates:        true,
		},
		{
			name:     "Processing verdict is idempotent",
			payment:  domain.Payment{ID: 4, Reference: "ref-790", UserID: 3, Amount: 5000, Status: domain.PaymentStatusProcessing},
			respBody: []byte(`{"reference":"ref-790","status":"PROCESSING"}`),
		},
		{
			name:     "No verdict yet",
			payment:  domain.Payment{ID: 5, Reference: "ref-791", UserID: 3, Amount: 5000, Status: domain.PaymentStatusNew},
			respBody: []byte(`{"reference":"ref-791","status":"NEW"}`),
		},
		{
			name:      "Error parsing response body",
			payment:   domain.Payment{ID: 6, Reference: "ref-123", UserID: 1, Status: domain.PaymentStatusNew},
			respBody:  []byte(`{invalid json}`),
			expectErr: true,
		},
		{
			name:      "Reference mismatch",
			payment:   domain.Payment{ID: 7, Reference: "ref-123", UserID: 1, Status: domain.PaymentStatusNew},
			respBody:  []byte(`{"reference":"ref-456","status":"CONFIRMED","amount":100000}`),
			expectErr: true,
		},
		{
			name:           "Error updating payment",
			payment:        domain.Payment{ID: 8, Reference: "ref-800", UserID: 4, Amount: 100, Status: domain.PaymentStatusNew},
			respBody:       []byte(`{"reference":"ref-800","status":"CONFIRMED","amount":100}`),
			updateErr:      errors.New("update error"),
			expectedStatus: domain.PaymentStatusConfirmed,
			credits:        true,
			updates:        true,
			expectErr:      true,
		},
		{
			name:      "Error crediting balance",
			payment:   domain.Payment{ID: 9, Reference: "ref-801", UserID: 5, Amount: 100, Status: domain.PaymentStatusNew},
			respBody:  []byte(`{"reference":"ref-801","status":"CONFIRMED","amount":100}`),
			creditErr: errors.New("balance update error"),
			credits:   true,
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			service, paymentRepo, userRepo, txManager, _ := NewMock(t)

			if tc.credits {
				txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(passThrough)
				userRepo.EXPECT().IncrementBalance(gomock.Any(), tc.payment.UserID, tc.payment.Amount).Return(tc.creditErr)
			}
			if tc.updates && tc.creditErr == nil {
				paymentRepo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, payment *domain.Payment) error {
					assert.Equal(t, tc.expectedStatus, payment.Status)
					return tc.updateErr
				})
			}

			err := service.processConfirmation(context.Background(), tc.payment, tc.respBody)

			if tc.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestService_handleRateLimit(t *testing.T) {
	service, _, _, _, _ := NewMock(t)

	payment := domain.Payment{Reference: "ref-123"}
	attempt := 1

	headers := http.Header{}
	headers.Set("Retry-After", "1")

	start := time.Now()
	err := service.handleRateLimit(payment, headers, attempt)
	elapsed := time.Since(start)

	assert.NoError(t, err)
	assert.GreaterOrEqual(t, elapsed, 1*time.Second)
	assert.LessOrEqual(t, elapsed, 2*time.Second)

	headers = http.Header{}
	start = time.Now()
	err = service.handleRateLimit(payment, headers, attempt)
	elapsed = time.Since(start)

	assert.NoError(t, err)
	assert.GreaterOrEqual(t, elapsed, retryInterval*time.Duration(attempt))
	assert.LessOrEqual(t, elapsed, retryInterval*time.Duration(attempt)+time.Second)
}
