package productservice

import (
	"context"
	"errors"

	"github.com/mkorolev/gomarket/internal/domain"
	"go.uber.org/zap"
)

type Repo interface {
	Find(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	FindByID(ctx context.Context, id int) (*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id int) error
}

type ReviewRepo interface {
	FindByProductID(ctx context.Context, productID int) ([]domain.Review, error)
}

type Service struct {
	productRepo Repo
	reviewRepo  ReviewRepo
}

func New(productRepo Repo, reviewRepo ReviewRepo) *Service {
	return &Service{
		productRepo: productRepo,
		reviewRepo:  reviewRepo,
	}
}

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidProduct  = errors.New("invalid product data")
)

const defaultPageSize = 10

func (s *Service) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	products, err := s.productRepo.Find(ctx, filter)
	if err != nil {
		zap.L().Error("failed to list products", zap.Error(err))
		return nil, err
	}
	return products, nil
}

func (s *Service) Get(ctx context.Context, id int) (*domain.Product, []domain.Review, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		zap.L().Error("failed to get product", zap.Error(err))
		return nil, nil, err
	}
	if product == nil {
		return nil, nil, ErrProductNotFound
	}

	reviews, err := s.reviewRepo.FindByProductID(ctx, id)
	if err != nil {
		zap.L().Error("failed to get product reviews", zap.Error(err))
		return nil, nil, err
	}
	return product, reviews, nil
}

func (s *Service) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := validate(product); err != nil {
		return nil, err
	}
	created, err := s.productRepo.Create(ctx, product)
	if err != nil {
		zap.L().Error("failed to create product", zap.Error(err))
		return nil, err
	}
	zap.L().Info("product created", zap.Int("productID", created.ID), zap.String("name", created.Name))
	return created, nil
}

func (s *Service) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := validate(product); err != nil {
		return nil, err
	}
	existing, err := s.productRepo.FindByID(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrProductNotFound
	}

	updated, err := s.productRepo.Update(ctx, product)
	if err != nil {
		zap.L().Error("failed to update product", zap.Error(err))
		return nil, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int) error {
	existing, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrProductNotFound
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		zap.L().Error("failed to delete product", zap.Error(err))
		return err
	}
	zap.L().Info("product deleted", zap.Int("productID", id))
	return nil
}

func validate(product *domain.Product) error {
	if product.Name == "" || len(product.Name) > 30 || product.Price < 0 || product.Stock < 0 {
		return ErrInvalidProduct
	}
	return nil
}
