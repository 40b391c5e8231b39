package orderservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/mkorolev/gomarket/internal/domain"
	"github.com/mkorolev/gomarket/internal/pg"
	"go.uber.org/zap"
)

type CartRepo interface {
	FindByUserID(ctx context.Context, userID int) ([]domain.CartItem, error)
	FindForCheckout(ctx context.Context, userID int) ([]domain.CartItem, error)
	ClearByUserID(ctx context.Context, userID int) error
}

type ProductRepo interface {
	DecrementStock(ctx context.Context, productID int, quantity int64) error
}

type UserRepo interface {
	GetBalanceForUpdate(ctx context.Context, userID int) (int64, error)
	DecrementBalance(ctx context.Context, userID int, amount int64) error
}

type Repo interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	CreateDetails(ctx context.Context, orderID int, details []domain.OrderDetail) error
	FindByID(ctx context.Context, orderID int) (*domain.Order, error)
	FindByUserID(ctx context.Context, userID int) ([]domain.Order, error)
	FindAll(ctx context.Context) ([]domain.Order, error)
}

type Service struct {
	orderRepo   Repo
	cartRepo    CartRepo
	productRepo ProductRepo
	userRepo    UserRepo
	txManager   pg.TXManager
}

func New(orderRepo Repo, cartRepo CartRepo, productRepo ProductRepo, userRepo UserRepo, txManager pg.TXManager) *Service {
	return &Service{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		txManager:   txManager,
	}
}

var (
	ErrEmptyCart           = errors.New("cart is empty")
	ErrInsufficientStock   = errors.New("not enough stock")
	ErrInsufficientBalance = errors.New("not enough money")
	ErrOrderNotFound       = errors.New("order not found")
	ErrForbidden           = errors.New("access denied")
)

// PlaceOrder converts the user's cart into an order. Stock and balance are
// re-validated against locked rows and all mutations commit atomically, so a
// failure of any kind leaves cart, stock and balance untouched.
func (s *Service) PlaceOrder(ctx context.Context, userID int) (*domain.Order, error) {
	items, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		zap.L().Error("can't load cart", zap.Error(err))
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	var orderID int
	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		items, err := s.cartRepo.FindForCheckout(ctx, userID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		var total int64
		for _, item := range items {
			if item.Quantity > item.Product.Stock {
				return fmt.Errorf("%w: %s", ErrInsufficientStock, item.Product.Name)
			}
			total += item.Quantity * item.Product.Price
		}

		balance, err := s.userRepo.GetBalanceForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if balance < total {
			return ErrInsufficientBalance
		}

		order, err := s.orderRepo.Create(ctx, &domain.Order{UserID: userID, TotalPrice: total})
		if err != nil {
			return err
		}

		details := make([]domain.OrderDetail, len(items))
		for i, item := range items {
			details[i] = domain.OrderDetail{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     item.Product.Price,
			}
		}
		if err := s.orderRepo.CreateDetails(ctx, order.ID, details); err != nil {
			return err
		}

		for _, item := range items {
			if err := s.productRepo.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		if err := s.userRepo.DecrementBalance(ctx, userID, total); err != nil {
			return err
		}
		if err := s.cartRepo.ClearByUserID(ctx, userID); err != nil {
			return err
		}

		orderID = order.ID
		return nil
	})
	if err != nil {
		zap.L().Error("can't place order", zap.Int("userID", userID), zap.Error(err))
		return nil, err
	}

	placed, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		zap.L().Error("can't load placed order", zap.Int("orderID", orderID), zap.Error(err))
		return nil, err
	}

	zap.L().Info("order placed", zap.Int("userID", userID), zap.Int("orderID", orderID), zap.Int64("total", placed.TotalPrice))
	return placed, nil
}

func (s *Service) GetOrder(ctx context.Context, orderID, userID int, isAdmin bool) (*domain.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		zap.L().Error("can't get order", zap.Error(err))
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.UserID != userID && !isAdmin {
		return nil, ErrForbidden
	}
	return order, nil
}

func (s *Service) GetOrders(ctx context.Context, userID int) ([]domain.Order, error) {
	orders, err := s.orderRepo.FindByUserID(ctx, userID)
	if err != nil {
		zap.L().Error("failed to get orders", zap.Error(err))
		return nil, err
	}
	return orders, nil
}

func (s *Service) GetAllOrders(ctx context.Context, isAdmin bool) ([]domain.Order, error) {
	if !isAdmin {
		return nil, ErrForbidden
	}
	orders, err := s.orderRepo.FindAll(ctx)
	if err != nil {
		zap.L().Error("failed to get all orders", zap.Error(err))
		return nil, err
	}
	return orders, nil
}
