package orders

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mkorolev/gomarket/internal/domain"
	"github.com/mkorolev/gomarket/internal/dto"
	orderservice "github.com/mkorolev/gomarket/internal/service/orderservice"
	"github.com/mkorolev/gomarket/pkg/auth"
	"github.com/mkorolev/gomarket/pkg/utils"
)

type Service interface {
	PlaceOrder(ctx context.Context, userID int) (*domain.Order, error)
	GetOrder(ctx context.Context, orderID, userID int, isAdmin bool) (*domain.Order, error)
	GetOrders(ctx context.Context, userID int) ([]domain.Order, error)
	GetAllOrders(ctx context.Context, isAdmin bool) ([]domain.Order, error)
}

type OrderHandler struct {
	orderService Service
}

func New(orderService Service) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// PlaceOrder godoc
//
//	@Summary		Place an order from the current cart
//	@Description	Convert the authenticated user's cart into an order, debiting stock and balance atomically.
//	@Tags			Orders
//	@Produce		json
//	@Security		BearerAuth
//	@Success		201	{object}	dto.OrderResponseDTO
//	@Failure		400	{object}	utils.Response	"Cart is empty"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		402	{object}	utils.Response	"Not enough money"
//	@Failure		422	{object}	utils.Response	"Not enough stock"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/user/orders [post]
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	order, err := h.orderService.PlaceOrder(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, orderservice.ErrEmptyCart):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, orderservice.ErrInsufficientStock):
			utils.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, orderservice.ErrInsufficientBalance):
			utils.RespondWithError(w, http.StatusPaymentRequired, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, toOrderDTO(order, false))
}

// GetOrder godoc
//
//	@Summary		Get one order
//	@Description	Retrieve an order with its line items. Owner or admin only.
//	@Tags			Orders
//	@Produce		json
//	@Security		BearerAuth
//	@Param			orderID	path		int	true	"Order ID"
//	@Success		200		{object}	dto.OrderResponseDTO
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		403		{object}	utils.Response	"Access denied"
//	@Failure		404		{object}	utils.Response	"Order not found"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/user/orders/{orderID} [get]
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	orderID, err := strconv.Atoi(chi.URLParam(r, "orderID"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid order id")
		return
	}

	order, err := h.orderService.GetOrder(r.Context(), orderID, userID, auth.IsAdmin(r.Context()))
	if err != nil {
		switch {
		case errors.Is(err, orderservice.ErrOrderNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, orderservice.ErrForbidden):
			utils.RespondWithError(w, http.StatusForbidden, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toOrderDTO(order, auth.IsAdmin(r.Context())))
}

// GetOrders godoc
//
//	@Summary		Get orders list for user
//	@Description	Retrieve the authenticated user's orders, newest first.
//	@Tags			Orders
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}		dto.OrderResponseDTO
//	@Failure		204	{object}	utils.Response	"No data available"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/user/orders [get]
func (h *OrderHandler) GetOrders(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	orders, err := h.orderService.GetOrders(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if len(orders) == 0 {
		utils.RespondWithError(w, http.StatusNoContent, "No data available")
		return
	}

	response := make([]dto.OrderResponseDTO, len(orders))
	for i := range orders {
		response[i] = toOrderDTO(&orders[i], false)
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// GetAllOrders godoc
//
//	@Summary		Get all orders
//	@Description	Retrieve all orders system-wide, newest first. Admin only.
//	@Tags			Orders
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}		dto.OrderResponseDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		403	{object}	utils.Response	"Access denied"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/admin/orders [get]
func (h *OrderHandler) GetAllOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderService.GetAllOrders(r.Context(), auth.IsAdmin(r.Context()))
	if err != nil {
		switch {
		case errors.Is(err, orderservice.ErrForbidden):
			utils.RespondWithError(w, http.StatusForbidden, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	response := make([]dto.OrderResponseDTO, len(orders))
	for i := range orders {
		response[i] = toOrderDTO(&orders[i], true)
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

func toOrderDTO(order *domain.Order, withUser bool) dto.OrderResponseDTO {
	details := make([]dto.OrderDetailResponseDTO, len(order.Details))
	for i, d := range order.Details {
		details[i] = dto.OrderDetailResponseDTO{
			ProductID:   d.ProductID,
			ProductName: d.ProductName,
			Quantity:    d.Quantity,
			Price:       d.Price,
		}
	}
	resp := dto.OrderResponseDTO{
		ID:         order.ID,
		TotalPrice: order.TotalPrice,
		CreatedAt:  order.CreatedAt,
		Details:    details,
	}
	if withUser {
		resp.UserName = order.UserName
	}
	return resp
}
