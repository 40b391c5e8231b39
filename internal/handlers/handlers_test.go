package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	_ "github.com/mkorolev/gomarket/docs"
	"github.com/mkorolev/gomarket/internal/handlers/auth"
	"github.com/mkorolev/gomarket/internal/handlers/balance"
	"github.com/mkorolev/gomarket/internal/handlers/cart"
	"github.com/mkorolev/gomarket/internal/handlers/orders"
	"github.com/mkorolev/gomarket/internal/handlers/products"
	"github.com/mkorolev/gomarket/internal/handlers/reviews"
	"github.com/mkorolev/gomarket/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

func TestNew(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	services := &service.Services{
		AuthService:    auth.NewMockService(ctrl),
		ProductService: products.NewMockService(ctrl),
		CartService:    cart.NewMockService(ctrl),
		OrderService:   orders.NewMockService(ctrl),
		BalanceService: balance.NewMockService(ctrl),
		ReviewService:  reviews.NewMockService(ctrl),
	}

	h := New(services)
	assert.NotNil(t, h, "Handlers should not be nil")
}

func TestInitRoutes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuthHandler := NewMockAuthHandler(ctrl)
	mockProductHandler := NewMockProductHandler(ctrl)
	mockCartHandler := NewMockCartHandler(ctrl)
	mockOrderHandler := NewMockOrderHandler(ctrl)
	mockBalanceHandler := NewMockBalanceHandler(ctrl)
	mockReviewHandler := NewMockReviewHandler(ctrl)

	mockAuthHandler.EXPECT().Register(gomock.Any(), gomock.Any()).AnyTimes()
	mockAuthHandler.EXPECT().Login(gomock.Any(), gomock.Any()).AnyTimes()
	mockProductHandler.EXPECT().List(gomock.Any(), gomock.Any()).AnyTimes()
	mockProductHandler.EXPECT().Get(gomock.Any(), gomock.Any()).AnyTimes()

	h := &Handlers{
		AuthHandler:    mockAuthHandler,
		ProductHandler: mockProductHandler,
		CartHandler:    mockCartHandler,
		OrderHandler:   mockOrderHandler,
		BalanceHandler: mockBalanceHandler,
		ReviewHandler:  mockReviewHandler,
	}

	router := chi.NewRouter()
	h.InitRoutes(router)

	tests := []struct {
		method string
		url    string
		status int
	}{
		{"POST", "/api/user/register", http.StatusOK},
		{"POST", "/api/user/login", http.StatusOK},
		{"GET", "/api/products", http.StatusOK},
		{"GET", "/api/products/1", http.StatusOK},
		{"GET", "/api/user/cart", http.StatusUnauthorized},
		{"POST", "/api/user/cart", http.StatusUnauthorized},
		{"PUT", "/api/user/cart/1", http.StatusUnauthorized},
		{"DELETE", "/api/user/cart/1", http.StatusUnauthorized},
		{"POST", "/api/user/orders", http.StatusUnauthorized},
		{"GET", "/api/user/orders", http.StatusUnauthorized},
		{"GET", "/api/user/orders/1", http.StatusUnauthorized},
		{"GET", "/api/user/balance", http.StatusUnauthorized},
		{"POST", "/api/user/balance/topup", http.StatusUnauthorized},
		{"GET", "/api/user/balance/topups", http.StatusUnauthorized},
		{"POST", "/api/products/1/reviews", http.StatusUnauthorized},
		{"PUT", "/api/user/reviews/1", http.StatusUnauthorized},
		{"DELETE", "/api/user/reviews/1", http.StatusUnauthorized},
		{"POST", "/api/admin/products", http.StatusUnauthorized},
		{"PUT", "/api/admin/products/1", http.StatusUnauthorized},
		{"DELETE", "/api/admin/products/1", http.StatusUnauthorized},
		{"GET", "/api/admin/orders", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.url, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.url, nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
