package cart

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mkorolev/gomarket/internal/domain"
	"github.com/mkorolev/gomarket/internal/dto"
	cartservice "github.com/mkorolev/gomarket/internal/service/cartservice"
	"github.com/mkorolev/gomarket/pkg/auth"
	"github.com/mkorolev/gomarket/pkg/utils"
)

type Service interface {
	GetCart(ctx context.Context, userID int) ([]domain.CartItem, int64, error)
	AddItem(ctx context.Context, userID, productID int, quantity int64) (*domain.CartItem, error)
	UpdateItem(ctx context.Context, userID, itemID int, quantity int64) error
	RemoveItem(ctx context.Context, userID, itemID int) error
}

type CartHandler struct {
	cartService Service
}

func New(cartService Service) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

// GetCart godoc
//
//	@Summary		Get the current cart
//	@Description	Retrieve the authenticated user's cart items with the total price.
//	@Tags			Cart
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	dto.CartResponseDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/user/cart [get]
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	items, total, err := h.cartService.GetCart(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	response := dto.CartResponseDTO{
		Items:      make([]dto.CartItemResponseDTO, len(items)),
		TotalPrice: total,
	}
	for i, item := range items {
		response.Items[i] = toItemDTO(&item)
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// AddItem godoc
//
//	@Summary		Add a product to the cart
//	@Description	Add a product with a quantity; adding the same product again increases the quantity.
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		dto.AddCartItemRequestDTO	true	"Cart item payload"
//	@Success		200		{object}	dto.CartItemResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		404		{object}	utils.Response	"Product not found"
//	@Failure		422		{object}	utils.Response	"Not enough stock"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/user/cart [post]
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	var req dto.AddCartItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Quantity < 1 {
		utils.RespondWithError(w, http.StatusBadRequest, "Quantity must be positive")
		return
	}

	item, err := h.cartService.AddItem(r.Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		h.respondCartError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toItemDTO(item))
}

// UpdateItem godoc
//
//	@Summary		Update a cart item quantity
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			cartItemID	path		int							true	"Cart item ID"
//	@Param			request		body		dto.UpdateCartItemRequestDTO	true	"New quantity"
//	@Success		200			{object}	utils.Response
//	@Failure		400			{object}	utils.Response	"Invalid request body"
//	@Failure		401			{object}	utils.Response	"User not authorized"
//	@Failure		404			{object}	utils.Response	"Cart item not found"
//	@Failure		422			{object}	utils.Response	"Not enough stock"
//	@Failure		500			{object}	utils.Response	"Internal server error"
//	@Router			/api/user/cart/{cartItemID} [put]
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	itemID, err := strconv.Atoi(chi.URLParam(r, "cartItemID"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid cart item id")
		return
	}

	var req dto.UpdateCartItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Quantity < 1 {
		utils.RespondWithError(w, http.StatusBadRequest, "Quantity must be positive")
		return
	}

	if err := h.cartService.UpdateItem(r.Context(), userID, itemID, req.Quantity); err != nil {
		h.respondCartError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Cart updated"})
}

// RemoveItem godoc
//
//	@Summary		Remove a cart item
//	@Tags			Cart
//	@Produce		json
//	@Security		BearerAuth
//	@Param			cartItemID	path		int	true	"Cart item ID"
//	@Success		200			{object}	utils.Response
//	@Failure		401			{object}	utils.Response	"User not authorized"
//	@Failure		404			{object}	utils.Response	"Cart item not found"
//	@Failure		500			{object}	utils.Response	"Internal server error"
//	@Router			/api/user/cart/{cartItemID} [delete]
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	itemID, err := strconv.Atoi(chi.URLParam(r, "cartItemID"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid cart item id")
		return
	}

	if err := h.cartService.RemoveItem(r.Context(), userID, itemID); err != nil {
		h.respondCartError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Product removed from cart"})
}

func (h *CartHandler) respondCartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cartservice.ErrProductNotFound), errors.Is(err, cartservice.ErrCartItemNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, cartservice.ErrNotEnoughStock):
		utils.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func toItemDTO(item *domain.CartItem) dto.CartItemResponseDTO {
	resp := dto.CartItemResponseDTO{
		ID:        item.ID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
	}
	if item.Product != nil {
		resp.ProductName = item.Product.Name
		resp.Price = item.Product.Price
		resp.Stock = item.Product.Stock
	}
	return resp
}
