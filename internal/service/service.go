package service

import (
	authhandler "github.com/mkorolev/gomarket/internal/handlers/auth"
	"github.com/mkorolev/gomarket/internal/handlers/balance"
	"github.com/mkorolev/gomarket/internal/handlers/cart"
	"github.com/mkorolev/gomarket/internal/handlers/orders"
	"github.com/mkorolev/gomarket/internal/handlers/products"
	"github.com/mkorolev/gomarket/internal/handlers/reviews"
	"github.com/mkorolev/gomarket/internal/pg"
	"github.com/mkorolev/gomarket/internal/repo"
	"github.com/mkorolev/gomarket/internal/service/authservice"
	"github.com/mkorolev/gomarket/internal/service/cartservice"
	"github.com/mkorolev/gomarket/internal/service/orderservice"
	"github.com/mkorolev/gomarket/internal/service/productservice"
	"github.com/mkorolev/gomarket/internal/service/reviewservice"
	"github.com/mkorolev/gomarket/internal/service/walletservice"
	"github.com/mkorolev/gomarket/pkg/auth"
)

type Services struct {
	AuthService    authhandler.Service
	ProductService products.Service
	CartService    cart.Service
	OrderService   orders.Service
	BalanceService balance.Service
	ReviewService  reviews.Service
}

func New(r *repo.Repositories, txManager pg.TXManager) *Services {
	return &Services{
		AuthService:    authservice.New(r.UserRepo, &auth.HashService{}, &auth.JWTService{}),
		ProductService: productservice.New(r.ProductRepo, r.ReviewRepo),
		CartService:    cartservice.New(r.CartRepo, r.ProductRepo),
		OrderService:   orderservice.New(r.OrderRepo, r.CartRepo, r.ProductRepo, r.UserRepo, txManager),
		BalanceService: walletservice.New(r.UserRepo, r.PaymentRepo),
		ReviewService:  reviewservice.New(r.ReviewRepo, r.OrderRepo, r.ProductRepo),
	}
}
