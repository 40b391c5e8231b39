package walletservice

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/mkorolev/gomarket/internal/domain"
	"go.uber.org/zap"
)

type UserRepo interface {
	GetBalance(ctx context.Context, userID int) (int64, error)
}

type PaymentRepo interface {
	Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error)
	FindByUserID(ctx context.Context, userID int) ([]domain.Payment, error)
}

type Service struct {
	userRepo    UserRepo
	paymentRepo PaymentRepo
}

func New(userRepo UserRepo, paymentRepo PaymentRepo) *Service {
	return &Service{
		userRepo:    userRepo,
		paymentRepo: paymentRepo,
	}
}

var (
	ErrInvalidAmount = errors.New("top-up amount must be positive")
)

func (s *Service) GetBalance(ctx context.Context, userID int) (int64, error) {
	balance, err := s.userRepo.GetBalance(ctx, userID)
	if err != nil {
		zap.L().Error("failed to get balance", zap.Error(err))
		return 0, err
	}
	return balance, nil
}

// RequestTopUp registers a pending payment. The balance is credited by the
// payment poller once the gateway confirms.
func (s *Service) RequestTopUp(ctx context.Context, userID int, cardNumber string, amount int64) (*domain.Payment, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	payment := &domain.Payment{
		UserID:     userID,
		Reference:  uuid.NewString(),
		CardMasked: maskCard(cardNumber),
		Amount:     amount,
		Status:     domain.PaymentStatusNew,
	}
	created, err := s.paymentRepo.Create(ctx, payment)
	if err != nil {
		zap.L().Error("failed to create payment record", zap.Error(err))
		return nil, err
	}

	zap.L().Info("top-up requested", zap.Int("userID", userID), zap.String("reference", created.Reference), zap.Int64("amount", amount))
	return created, nil
}

func (s *Service) GetTopUps(ctx context.Context, userID int) ([]domain.Payment, error) {
	payments, err := s.paymentRepo.FindByUserID(ctx, userID)
	if err != nil {
		zap.L().Error("failed to fetch payments", zap.Error(err))
		return nil, err
	}
	return payments, nil
}

func maskCard(cardNumber string) string {
	s := strings.ReplaceAll(cardNumber, " ", "")
	if len(s) <= 4 {
		return s
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}
