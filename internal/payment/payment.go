package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mkorolev/gomarket/internal/config"
	"github.com/mkorolev/gomarket/internal/domain"
	"github.com/mkorolev/gomarket/internal/pg"
	"github.com/mkorolev/gomarket/pkg/clients"
)

const (
	maxRetries    = 3
	retryInterval = time.Second * 1
)

var processingPayments sync.Map

type Response struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
	Amount    int64  `json:"amount,omitempty"`
}

type PaymentRepo interface {
	FindForProcessing(ctx context.Context, limit uint32) ([]domain.Payment, error)
	Update(ctx context.Context, payment *domain.Payment) error
}

type UserRepo interface {
	IncrementBalance(ctx context.Context, userID int, amount int64) error
}

type Service struct {
	url            string
	paymentRepo    PaymentRepo
	userRepo       UserRepo
	txManager      pg.TXManager
	client         clients.HTTPClientI
	limit          uint32
	workerPool     WorkerPoolI
	updateInterval time.Duration
}

func New(cfg *config.Config, paymentRepo PaymentRepo, userRepo UserRepo, txManager pg.TXManager, client clients.HTTPClientI) *Service {
	return &Service{
		url:            cfg.PaymentAddress,
		paymentRepo:    paymentRepo,
		userRepo:       userRepo,
		txManager:      txManager,
		client:         client,
		limit:          1000,
		workerPool:     NewWorkerPool(10),
		updateInterval: time.Second * 5,
	}
}

func (s *Service) Start(ctx context.Context) {
	zap.L().Info("Payment service started")
	go s.run(ctx)
}

func (s *Service) run(ctx context.Context) {
	ticker := time.NewTicker(s.updateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("Context canceled, stopping service")
			return
		case <-ticker.C:
			s.processPayments(ctx)
		}
	}
}

func (s *Service) processPayments(ctx context.Context) {
	payments, err := s.paymentRepo.FindForProcessing(ctx, atomic.LoadUint32(&s.limit))
	if err != nil {
		zap.L().Error("Failed to fetch payments for processing", zap.Error(err))
		return
	}

	var g errgroup.Group
	for _, payment := range payments {
		payment := payment

		if _, loaded := processingPayments.LoadOrStore(payment.Reference, struct{}{}); loaded {
			continue
		}

		g.Go(func() error {
			err := s.workerPool.AddTask(ctx, func() error {
				defer processingPayments.Delete(payment.Reference)
				return s.handlePayment(ctx, payment)
			})
			if err != nil {
				processingPayments.Delete(payment.Reference)
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		zap.L().Error("Error processing payments", zap.Error(err))
	}
}

func (s *Service) handlePayment(ctx context.Context, payment domain.Payment) error {
	url := s.url + "/api/payments/" + payment.Reference
	var err error
	var statusCode int
	var respBody []byte
	var respHeaders http.Header

	for attempt := 1; attempt <= maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			statusCode, respBody, respHeaders, err = s.client.Get(url, nil)
			if err != nil {
				if attempt < maxRetries {
					retryAfter := retryInterval * time.Duration(attempt)
					time.Sleep(retryAfter)
					continue
				}
				return fmt.Errorf("failed to process payment %s after %d retries: %w", payment.Reference, maxRetries, err)
			}

			switch statusCode {
			case http.StatusTooManyRequests:
				return s.handleRateLimit(payment, respHeaders, attempt)
			case http.StatusNoContent:
				zap.L().Warn("Payment not found in gateway, retrying", zap.String("reference", payment.Reference), zap.Int("attempt", attempt))
				if attempt < maxRetries {
					retryAfter := retryInterval * time.Duration(attempt)
					time.Sleep(retryAfter)
					continue
				}
				return fmt.Errorf("failed to process not found payment %s after %d retries", payment.Reference, maxRetries)

			case http.StatusOK:
				return s.processConfirmation(ctx, payment, respBody)

			default:
				zap.L().Error("Unexpected status code", zap.Int("status", statusCode), zap.String("reference", payment.Reference))
				return errors.New("unexpected status code")
			}
		}
	}
	return nil
}

// processConfirmation applies the gateway verdict. The status update and the
// balance credit commit in one transaction so a confirmed payment can never
// be credited twice.
func (s *Service) processConfirmation(ctx context.Context, payment domain.Payment, respBody []byte) error {
	var response Response
	if err := json.Unmarshal(respBody, &response); err != nil {
		return fmt.Errorf("failed to parse response body: %w", err)
	}

	if response.Reference != payment.Reference {
		return fmt.Errorf("payment reference mismatch: expected %s, got %s", payment.Reference, response.Reference)
	}

	switch response.Status {
	case domain.PaymentStatusConfirmed:
		return s.txManager.Begin(ctx, func(ctx context.Context) error {
			if err := s.userRepo.IncrementBalance(ctx, payment.UserID, payment.Amount); err != nil {
				return fmt.Errorf("failed to credit balance for user %d: %w", payment.UserID, err)
			}
			payment.Status = domain.PaymentStatusConfirmed
			if err := s.paymentRepo.Update(ctx, &payment); err != nil {
				return fmt.Errorf("failed to update payment: %w", err)
			}
			zap.L().Info("Payment confirmed, balance credited",
				zap.Int("userID", payment.UserID),
				zap.String("reference", payment.Reference),
				zap.Int64("amount", payment.Amount),
			)
			return nil
		})
	case domain.PaymentStatusInvalid:
		zap.L().Info("Payment rejected by gateway", zap.String("reference", payment.Reference))
		payment.Status = domain.PaymentStatusInvalid
		return s.paymentRepo.Update(ctx, &payment)
	case domain.PaymentStatusProcessing:
		if payment.Status != domain.PaymentStatusProcessing {
			payment.Status = domain.PaymentStatusProcessing
			return s.paymentRepo.Update(ctx, &payment)
		}
		return nil
	case domain.PaymentStatusNew:
		zap.L().Info("Payment registered, no verdict yet", zap.String("reference", payment.Reference))
		return nil
	default:
		zap.L().Warn("Unrecognized status received", zap.String("reference", payment.Reference), zap.String("status", response.Status))
		return nil
	}
}

func (s *Service) handleRateLimit(payment domain.Payment, respHeaders http.Header, attempt int) error {
	retryAfterHeader := respHeaders.Get("Retry-After")
	retryAfter := retryInterval * time.Duration(attempt)

	if retryAfterHeader != "" {
		if seconds, err := strconv.Atoi(retryAfterHeader); err == nil {
			retryAfter = time.Duration(seconds) * time.Second
		}
	}
	zap.L().Warn(
		"Rate limit detected, retrying",
		zap.String("reference", payment.Reference),
		zap.Int("attempt", attempt),
		zap.Duration("retryAfter", retryAfter),
	)
	time.Sleep(retryAfter)
	return nil
}
