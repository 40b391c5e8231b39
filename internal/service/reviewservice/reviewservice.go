package reviewservice

import (
	"context"
	"errors"
	"unicode/utf8"

	"github.com/mkorolev/gomarket/internal/domain"
	"go.uber.org/zap"
)

type Repo interface {
	FindByID(ctx context.Context, id int) (*domain.Review, error)
	FindByUserAndProduct(ctx context.Context, userID, productID int) (*domain.Review, error)
	Create(ctx context.Context, review *domain.Review) (*domain.Review, error)
	Update(ctx context.Context, review *domain.Review) error
	Delete(ctx context.Context, id int) error
}

type OrderRepo interface {
	HasPurchase(ctx context.Context, userID, productID int) (bool, error)
}

type ProductRepo interface {
	FindByID(ctx context.Context, id int) (*domain.Product, error)
}

type Service struct {
	reviewRepo  Repo
	orderRepo   OrderRepo
	productRepo ProductRepo
}

func New(reviewRepo Repo, orderRepo OrderRepo, productRepo ProductRepo) *Service {
	return &Service{
		reviewRepo:  reviewRepo,
		orderRepo:   orderRepo,
		productRepo: productRepo,
	}
}

const maxCommentLen = 1000

var (
	ErrProductNotFound = errors.New("product not found")
	ErrReviewNotFound  = errors.New("review not found")
	ErrNotPurchased    = errors.New("only purchased products can be reviewed")
	ErrAlreadyReviewed = errors.New("product already reviewed")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrCommentTooLong  = errors.New("comment must be at most 1000 characters")
)

func validateReview(rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}
	if utf8.RuneCountInString(comment) > maxCommentLen {
		return ErrCommentTooLong
	}
	return nil
}

func (s *Service) Create(ctx context.Context, userID, productID, rating int, comment string) (*domain.Review, error) {
	if err := validateReview(rating, comment); err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	purchased, err := s.orderRepo.HasPurchase(ctx, userID, productID)
	if err != nil {
		zap.L().Error("can't check purchase history", zap.Error(err))
		return nil, err
	}
	if !purchased {
		return nil, ErrNotPurchased
	}

	existing, err := s.reviewRepo.FindByUserAndProduct(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyReviewed
	}

	review := &domain.Review{
		UserID:    userID,
		ProductID: productID,
		Rating:    rating,
		Comment:   comment,
	}
	created, err := s.reviewRepo.Create(ctx, review)
	if err != nil {
		zap.L().Error("can't create review", zap.Error(err))
		return nil, err
	}
	return created, nil
}

func (s *Service) Update(ctx context.Context, userID, reviewID, rating int, comment string) (*domain.Review, error) {
	if err := validateReview(rating, comment); err != nil {
		return nil, err
	}

	review, err := s.findOwned(ctx, userID, reviewID)
	if err != nil {
		return nil, err
	}

	review.Rating = rating
	review.Comment = comment
	if err := s.reviewRepo.Update(ctx, review); err != nil {
		zap.L().Error("can't update review", zap.Error(err))
		return nil, err
	}
	return review, nil
}

func (s *Service) Delete(ctx context.Context, userID, reviewID int) error {
	review, err := s.findOwned(ctx, userID, reviewID)
	if err != nil {
		return err
	}
	if err := s.reviewRepo.Delete(ctx, review.ID); err != nil {
		zap.L().Error("can't delete review", zap.Error(err))
		return err
	}
	return nil
}

func (s *Service) findOwned(ctx context.Context, userID, reviewID int) (*domain.Review, error) {
	review, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review == nil || review.UserID != userID {
		return nil, ErrReviewNotFound
	}
	return review, nil
}
