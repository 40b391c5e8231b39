package reviews

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mkorolev/gomarket/internal/domain"
	"github.com/mkorolev/gomarket/internal/dto"
	reviewservice "github.com/mkorolev/gomarket/internal/service/reviewservice"
	"github.com/mkorolev/gomarket/pkg/auth"
	"github.com/mkorolev/gomarket/pkg/utils"
)

type Service interface {
	Create(ctx context.Context, userID, productID, rating int, comment string) (*domain.Review, error)
	Update(ctx context.Context, userID, reviewID, rating int, comment string) (*domain.Review, error)
	Delete(ctx context.Context, userID, reviewID int) error
}

type ReviewHandler struct {
	reviewService Service
}

func New(reviewService Service) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

// Create godoc
//
//	@Summary		Review a product
//	@Description	Leave a rating and comment for a purchased product. One review per user per product.
//	@Tags			Reviews
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			productID	path		int					true	"Product ID"
//	@Param			request		body		dto.ReviewRequestDTO	true	"Review payload"
//	@Success		201			{object}	dto.ReviewResponseDTO
//	@Failure		400			{object}	utils.Response	"Invalid request body"
//	@Failure		401			{object}	utils.Response	"User not authorized"
//	@Failure		403			{object}	utils.Response	"Product was not purchased"
//	@Failure		404			{object}	utils.Response	"Product not found"
//	@Failure		409			{object}	utils.Response	"Product already reviewed"
//	@Failure		422			{object}	utils.Response	"Invalid rating or comment"
//	@Failure		500			{object}	utils.Response	"Internal server error"
//	@Router			/api/products/{productID}/reviews [post]
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	productID, err := strconv.Atoi(chi.URLParam(r, "productID"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid product id")
		return
	}

	var req dto.ReviewRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	review, err := h.reviewService.Create(r.Context(), userID, productID, req.Rating, req.Comment)
	if err != nil {
		h.respondReviewError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, toReviewDTO(review))
}

// Update godoc
//
//	@Summary		Update a review
//	@Description	Change the rating or comment of the caller's own review.
//	@Tags			Reviews
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			reviewID	path		int					true	"Review ID"
//	@Param			request		body		dto.ReviewRequestDTO	true	"Review payload"
//	@Success		200			{object}	dto.ReviewResponseDTO
//	@Failure		400			{object}	utils.Response	"Invalid request body"
//	@Failure		401			{object}	utils.Response	"User not authorized"
//	@Failure		404			{object}	utils.Response	"Review not found"
//	@Failure		422			{object}	utils.Response	"Invalid rating or comment"
//	@Failure		500			{object}	utils.Response	"Internal server error"
//	@Router			/api/user/reviews/{reviewID} [put]
func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	reviewID, err := strconv.Atoi(chi.URLParam(r, "reviewID"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid review id")
		return
	}

	var req dto.ReviewRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	review, err := h.reviewService.Update(r.Context(), userID, reviewID, req.Rating, req.Comment)
	if err != nil {
		h.respondReviewError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toReviewDTO(review))
}

// Delete godoc
//
//	@Summary		Delete a review
//	@Description	Remove the caller's own review.
//	@Tags			Reviews
//	@Produce		json
//	@Security		BearerAuth
//	@Param			reviewID	path		int	true	"Review ID"
//	@Success		200			{object}	utils.Response
//	@Failure		401			{object}	utils.Response	"User not authorized"
//	@Failure		404			{object}	utils.Response	"Review not found"
//	@Failure		500			{object}	utils.Response	"Internal server error"
//	@Router			/api/user/reviews/{reviewID} [delete]
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	reviewID, err := strconv.Atoi(chi.URLParam(r, "reviewID"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid review id")
		return
	}

	if err := h.reviewService.Delete(r.Context(), userID, reviewID); err != nil {
		h.respondReviewError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Review deleted"})
}

func (h *ReviewHandler) respondReviewError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, reviewservice.ErrProductNotFound), errors.Is(err, reviewservice.ErrReviewNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, reviewservice.ErrNotPurchased):
		utils.RespondWithError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, reviewservice.ErrAlreadyReviewed):
		utils.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, reviewservice.ErrInvalidRating), errors.Is(err, reviewservice.ErrCommentTooLong):
		utils.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func toReviewDTO(review *domain.Review) dto.ReviewResponseDTO {
	return dto.ReviewResponseDTO{
		ID:        review.ID,
		ProductID: review.ProductID,
		UserName:  review.UserName,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
	}
}
