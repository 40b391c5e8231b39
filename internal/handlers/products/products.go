package products

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mkorolev/gomarket/internal/domain"
	"github.com/mkorolev/gomarket/internal/dto"
	productservice "github.com/mkorolev/gomarket/internal/service/productservice"
	"github.com/mkorolev/gomarket/pkg/utils"
)

type Service interface {
	List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	Get(ctx context.Context, id int) (*domain.Product, []domain.Review, error)
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id int) error
}

type ProductHandler struct {
	productService Service
}

func New(productService Service) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// List godoc
//
//	@Summary		List products
//	@Description	List products with optional search, price range and pagination.
//	@Tags			Products
//	@Produce		json
//	@Param			search		query		string	false	"Substring match on product name"
//	@Param			min_price	query		int		false	"Minimum price in minor units"
//	@Param			max_price	query		int		false	"Maximum price in minor units"
//	@Param			limit		query		int		false	"Page size"	default(10)
//	@Param			offset		query		int		false	"Page offset"
//	@Success		200			{array}		dto.ProductResponseDTO
//	@Failure		400			{object}	utils.Response	"Invalid query parameters"
//	@Failure		500			{object}	utils.Response	"Internal server error"
//	@Router			/api/products [get]
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	products, err := h.productService.List(r.Context(), filter)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	response := make([]dto.ProductResponseDTO, len(products))
	for i := range products {
		response[i] = toProductDTO(&products[i])
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// Get godoc
//
//	@Summary		Get a product
//	@Description	Retrieve one product with its reviews.
//	@Tags			Products
//	@Produce		json
//	@Param			productID	path		int	true	"Product ID"
//	@Success		200			{object}	dto.ProductDetailResponseDTO
//	@Failure		400			{object}	utils.Response	"Invalid product id"
//	@Failure		404			{object}	utils.Response	"Product not found"
//	@Failure		500			{object}	utils.Response	"Internal server error"
//	@Router			/api/products/{productID} [get]
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.Atoi(chi.URLParam(r, "productID"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid product id")
		return
	}

	product, reviews, err := h.productService.Get(r.Context(), productID)
	if err != nil {
		if errors.Is(err, productservice.ErrProductNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	response := dto.ProductDetailResponseDTO{
		ProductResponseDTO: toProductDTO(product),
		Reviews:            make([]dto.ReviewResponseDTO, len(reviews)),
	}
	for i, review := range reviews {
		response.Reviews[i] = dto.ReviewResponseDTO{
			ID:        review.ID,
			ProductID: review.ProductID,
			UserName:  review.UserName,
			Rating:    review.Rating,
			Comment:   review.Comment,
			CreatedAt: review.CreatedAt,
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// Create godoc
//
//	@Summary		Create a product
//	@Description	Add a new product to the catalog. Admin only.
//	@Tags			Products
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		dto.ProductRequestDTO	true	"Product payload"
//	@Success		201		{object}	dto.ProductResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		403		{object}	utils.Response	"Access denied"
//	@Failure		422		{object}	utils.Response	"Invalid product data"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/admin/products [post]
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.ProductRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.productService.Create(r.Context(), toProduct(&req, 0))
	if err != nil {
		h.respondProductError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, toProductDTO(created))
}

// Update godoc
//
//	@Summary		Update a product
//	@Description	Replace a product's fields. Admin only.
//	@Tags			Products
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			productID	path		int						true	"Product ID"
//	@Param			request		body		dto.ProductRequestDTO	true	"Product payload"
//	@Success		200			{object}	dto.ProductResponseDTO
//	@Failure		400			{object}	utils.Response	"Invalid request body"
//	@Failure		401			{object}	utils.Response	"User not authorized"
//	@Failure		403			{object}	utils.Response	"Access denied"
//	@Failure		404			{object}	utils.Response	"Product not found"
//	@Failure		422			{object}	utils.Response	"Invalid product data"
//	@Failure		500			{object}	utils.Response	"Internal server error"
//	@Router			/api/admin/products/{productID} [put]
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.Atoi(chi.URLParam(r, "productID"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid product id")
		return
	}

	var req dto.ProductRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.productService.Update(r.Context(), toProduct(&req, productID))
	if err != nil {
		h.respondProductError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toProductDTO(updated))
}

// Delete godoc
//
//	@Summary		Delete a product
//	@Description	Remove a product from the catalog. Admin only.
//	@Tags			Products
//	@Produce		json
//	@Security		BearerAuth
//	@Param			productID	path		int	true	"Product ID"
//	@Success		200			{object}	utils.Response
//	@Failure		401			{object}	utils.Response	"User not authorized"
//	@Failure		403			{object}	utils.Response	"Access denied"
//	@Failure		404			{object}	utils.Response	"Product not found"
//	@Failure		500			{object}	utils.Response	"Internal server error"
//	@Router			/api/admin/products/{productID} [delete]
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.Atoi(chi.URLParam(r, "productID"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid product id")
		return
	}

	if err := h.productService.Delete(r.Context(), productID); err != nil {
		h.respondProductError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Product deleted"})
}

func (h *ProductHandler) respondProductError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, productservice.ErrProductNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, productservice.ErrInvalidProduct):
		utils.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func parseFilter(r *http.Request) (domain.ProductFilter, error) {
	q := r.URL.Query()
	filter := domain.ProductFilter{Search: q.Get("search")}

	if raw := q.Get("min_price"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v < 0 {
			return filter, errors.New("invalid min_price")
		}
		filter.MinPrice = &v
	}
	if raw := q.Get("max_price"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v < 0 {
			return filter, errors.New("invalid max_price")
		}
		filter.MaxPrice = &v
	}
	if raw := q.Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return filter, errors.New("invalid limit")
		}
		filter.Limit = v
	}
	if raw := q.Get("offset"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return filter, errors.New("invalid offset")
		}
		filter.Offset = v
	}
	return filter, nil
}

func toProduct(req *dto.ProductRequestDTO, id int) *domain.Product {
	return &domain.Product{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		ImageRef:    req.ImageRef,
	}
}

func toProductDTO(p *domain.Product) dto.ProductResponseDTO {
	return dto.ProductResponseDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		ImageRef:    p.ImageRef,
		ReviewCount: p.ReviewCount,
		AvgRating:   p.AvgRating,
		CreatedAt:   p.CreatedAt,
	}
}
