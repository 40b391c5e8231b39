package balance

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mkorolev/gomarket/internal/domain"
	"github.com/mkorolev/gomarket/internal/dto"
	walletservice "github.com/mkorolev/gomarket/internal/service/walletservice"
	"github.com/mkorolev/gomarket/pkg/auth"
	"github.com/mkorolev/gomarket/pkg/utils"
	"github.com/mkorolev/gomarket/pkg/validate"
)

type Service interface {
	GetBalance(ctx context.Context, userID int) (int64, error)
	RequestTopUp(ctx context.Context, userID int, cardNumber string, amount int64) (*domain.Payment, error)
	GetTopUps(ctx context.Context, userID int) ([]domain.Payment, error)
}

type BalanceHandler struct {
	walletService Service
}

func New(walletService Service) *BalanceHandler {
	return &BalanceHandler{
		walletService: walletService,
	}
}

// GetBalance godoc
//
//	@Summary		Get the wallet balance
//	@Tags			Balance
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	dto.BalanceResponseDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/user/balance [get]
func (h *BalanceHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	balance, err := h.walletService.GetBalance(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.BalanceResponseDTO{Balance: balance})
}

// TopUp godoc
//
//	@Summary		Request a balance top-up
//	@Description	Register a top-up against a bank card. The balance is credited asynchronously once the payment gateway confirms.
//	@Tags			Balance
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		dto.TopUpRequestDTO	true	"Top-up payload"
//	@Success		202		{object}	dto.TopUpResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		422		{object}	utils.Response	"Invalid card number"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/user/balance/topup [post]
func (h *BalanceHandler) TopUp(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	var req dto.TopUpRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !validate.IsCardNumber(req.Card) {
		utils.RespondWithError(w, http.StatusUnprocessableEntity, "Invalid card number")
		return
	}

	payment, err := h.walletService.RequestTopUp(r.Context(), userID, req.Card, req.Amount)
	if err != nil {
		if errors.Is(err, walletservice.ErrInvalidAmount) {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusAccepted, toTopUpDTO(payment))
}

// GetTopUps godoc
//
//	@Summary		List top-up requests
//	@Description	Retrieve the authenticated user's top-up history, newest first.
//	@Tags			Balance
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}		dto.TopUpResponseDTO
//	@Failure		204	{object}	utils.Response	"No data available"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/user/balance/topups [get]
func (h *BalanceHandler) GetTopUps(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	payments, err := h.walletService.GetTopUps(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if len(payments) == 0 {
		utils.RespondWithError(w, http.StatusNoContent, "No data available")
		return
	}

	response := make([]dto.TopUpResponseDTO, len(payments))
	for i := range payments {
		response[i] = toTopUpDTO(&payments[i])
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

func toTopUpDTO(p *domain.Payment) dto.TopUpResponseDTO {
	return dto.TopUpResponseDTO{
		Reference:  p.Reference,
		CardMasked: p.CardMasked,
		Amount:     p.Amount,
		Status:     p.Status,
		CreatedAt:  p.CreatedAt,
	}
}
