package handlers

import (
	"net/http"

	_ "github.com/mkorolev/gomarket/docs"
	authhandlers "github.com/mkorolev/gomarket/internal/handlers/auth"
	balancehandlers "github.com/mkorolev/gomarket/internal/handlers/balance"
	carthandlers "github.com/mkorolev/gomarket/internal/handlers/cart"
	ordershandlers "github.com/mkorolev/gomarket/internal/handlers/orders"
	productshandlers "github.com/mkorolev/gomarket/internal/handlers/products"
	reviewshandlers "github.com/mkorolev/gomarket/internal/handlers/reviews"
	"github.com/mkorolev/gomarket/internal/service"
	"github.com/mkorolev/gomarket/pkg/auth"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
}

type ProductHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type CartHandler interface {
	GetCart(w http.ResponseWriter, r *http.Request)
	AddItem(w http.ResponseWriter, r *http.Request)
	UpdateItem(w http.ResponseWriter, r *http.Request)
	RemoveItem(w http.ResponseWriter, r *http.Request)
}

type OrderHandler interface {
	PlaceOrder(w http.ResponseWriter, r *http.Request)
	GetOrder(w http.ResponseWriter, r *http.Request)
	GetOrders(w http.ResponseWriter, r *http.Request)
	GetAllOrders(w http.ResponseWriter, r *http.Request)
}

type BalanceHandler interface {
	GetBalance(w http.ResponseWriter, r *http.Request)
	TopUp(w http.ResponseWriter, r *http.Request)
	GetTopUps(w http.ResponseWriter, r *http.Request)
}

type ReviewHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	AuthHandler    AuthHandler
	ProductHandler ProductHandler
	CartHandler    CartHandler
	OrderHandler   OrderHandler
	BalanceHandler BalanceHandler
	ReviewHandler  ReviewHandler
}

func New(s *service.Services) *Handlers {
	return &Handlers{
		AuthHandler:    authhandlers.New(s.AuthService),
		ProductHandler: productshandlers.New(s.ProductService),
		CartHandler:    carthandlers.New(s.CartService),
		OrderHandler:   ordershandlers.New(s.OrderService),
		BalanceHandler: balancehandlers.New(s.BalanceService),
		ReviewHandler:  reviewshandlers.New(s.ReviewService),
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
	)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
	))
	r.Route("/api", func(r chi.Router) {
		r.Post("/user/register", h.AuthHandler.Register)
		r.Post("/user/login", h.AuthHandler.Login)

		r.Get("/products", h.ProductHandler.List)
		r.Get("/products/{productID}", h.ProductHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(auth.AuthMiddleware)

			r.Route("/user", func(r chi.Router) {
				r.Route("/cart", func(r chi.Router) {
					r.Get("/", h.CartHandler.GetCart)
					r.Post("/", h.CartHandler.AddItem)
					r.Put("/{cartItemID}", h.CartHandler.UpdateItem)
					r.Delete("/{cartItemID}", h.CartHandler.RemoveItem)
				})
				r.Route("/orders", func(r chi.Router) {
					r.Post("/", h.OrderHandler.PlaceOrder)
					r.Get("/", h.OrderHandler.GetOrders)
					r.Get("/{orderID}", h.OrderHandler.GetOrder)
				})
				r.Route("/balance", func(r chi.Router) {
					r.Get("/", h.BalanceHandler.GetBalance)
					r.Post("/topup", h.BalanceHandler.TopUp)
					r.Get("/topups", h.BalanceHandler.GetTopUps)
				})
				r.Put("/reviews/{reviewID}", h.ReviewHandler.Update)
				r.Delete("/reviews/{reviewID}", h.ReviewHandler.Delete)
			})

			r.Post("/products/{productID}/reviews", h.ReviewHandler.Create)

			r.Route("/admin", func(r chi.Router) {
				r.Use(auth.AdminMiddleware)

				r.Post("/products", h.ProductHandler.Create)
				r.Put("/products/{productID}", h.ProductHandler.Update)
				r.Delete("/products/{productID}", h.ProductHandler.Delete)

				r.Get("/orders", h.OrderHandler.GetAllOrders)
			})
		})
	})

	return r
}
