package cartservice

import (
	"context"
	"errors"

	"github.com/mkorolev/gomarket/internal/domain"
	"go.uber.org/zap"
)

type CartRepo interface {
	FindByUserID(ctx context.Context, userID int) ([]domain.CartItem, error)
	FindByID(ctx context.Context, id int) (*domain.CartItem, error)
	FindByUserAndProduct(ctx context.Context, userID, productID int) (*domain.CartItem, error)
	Create(ctx context.Context, item *domain.CartItem) (*domain.CartItem, error)
	UpdateQuantity(ctx context.Context, id int, quantity int64) error
	Delete(ctx context.Context, id int) error
}

type ProductRepo interface {
	FindByID(ctx context.Context, id int) (*domain.Product, error)
}

type Service struct {
	cartRepo    CartRepo
	productRepo ProductRepo
}

func New(cartRepo CartRepo, productRepo ProductRepo) *Service {
	return &Service{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrNotEnoughStock   = errors.New("cannot add more than available stock")
)

func (s *Service) GetCart(ctx context.Context, userID int) ([]domain.CartItem, int64, error) {
	items, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		zap.L().Error("failed to get cart", zap.Error(err))
		return nil, 0, err
	}

	var total int64
	for _, item := range items {
		total += item.Quantity * item.Product.Price
	}
	return items, total, nil
}

// AddItem merges with an existing row for the same product instead of
// creating a duplicate. The stock check here is advisory and is repeated
// against locked rows at checkout.
func (s *Service) AddItem(ctx context.Context, userID, productID int, quantity int64) (*domain.CartItem, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	existing, err := s.cartRepo.FindByUserAndProduct(ctx, userID, productID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		newQuantity := existing.Quantity + quantity
		if newQuantity > product.Stock {
			return nil, ErrNotEnoughStock
		}
		if err := s.cartRepo.UpdateQuantity(ctx, existing.ID, newQuantity); err != nil {
			return nil, err
		}
		existing.Quantity = newQuantity
		existing.Product = product
		return existing, nil
	}

	if quantity > product.Stock {
		return nil, ErrNotEnoughStock
	}
	item := &domain.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		Product:   product,
	}
	created, err := s.cartRepo.Create(ctx, item)
	if err != nil {
		zap.L().Error("failed to add cart item", zap.Error(err))
		return nil, err
	}
	return created, nil
}

func (s *Service) UpdateItem(ctx context.Context, userID, itemID int, quantity int64) error {
	item, err := s.findOwned(ctx, userID, itemID)
	if err != nil {
		return err
	}

	product, err := s.productRepo.FindByID(ctx, item.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	if quantity > product.Stock {
		return ErrNotEnoughStock
	}

	if err := s.cartRepo.UpdateQuantity(ctx, item.ID, quantity); err != nil {
		zap.L().Error("failed to update cart item", zap.Error(err))
		return err
	}
	return nil
}

func (s *Service) RemoveItem(ctx context.Context, userID, itemID int) error {
	item, err := s.findOwned(ctx, userID, itemID)
	if err != nil {
		return err
	}
	if err := s.cartRepo.Delete(ctx, item.ID); err != nil {
		zap.L().Error("failed to remove cart item", zap.Error(err))
		return err
	}
	return nil
}

// findOwned hides other users' rows behind ErrCartItemNotFound.
func (s *Service) findOwned(ctx context.Context, userID, itemID int) (*domain.CartItem, error) {
	item, err := s.cartRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil || item.UserID != userID {
		return nil, ErrCartItemNotFound
	}
	return item, nil
}
