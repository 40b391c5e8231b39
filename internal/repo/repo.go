package repo

import (
	"github.com/mkorolev/gomarket/internal/pg"
	cartrepo "github.com/mkorolev/gomarket/internal/repo/cart-repo"
	orderrepo "github.com/mkorolev/gomarket/internal/repo/order-repo"
	paymentrepo "github.com/mkorolev/gomarket/internal/repo/payment-repo"
	productrepo "github.com/mkorolev/gomarket/internal/repo/product-repo"
	reviewrepo "github.com/mkorolev/gomarket/internal/repo/review-repo"
	userrepo "github.com/mkorolev/gomarket/internal/repo/user-repo"
)

type Repositories struct {
	UserRepo    *userrepo.Repository
	ProductRepo *productrepo.Repository
	CartRepo    *cartrepo.Repository
	OrderRepo   *orderrepo.Repository
	ReviewRepo  *reviewrepo.Repository
	PaymentRepo *paymentrepo.Repository
}

func New(conn pg.Database, txManager pg.TXManager) *Repositories {
	return &Repositories{
		UserRepo:    userrepo.New(conn),
		ProductRepo: productrepo.New(conn, txManager),
		CartRepo:    cartrepo.New(conn),
		OrderRepo:   orderrepo.New(conn),
		ReviewRepo:  reviewrepo.New(conn),
		PaymentRepo: paymentrepo.New(conn),
	}
}
