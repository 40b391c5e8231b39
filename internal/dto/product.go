package dto

import "time"

type ProductRequestDTO struct {
	Name        string `json:"name" validate:"required,max=30"`
	Description string `json:"description" validate:"required"`
	Price       int64  `json:"price" validate:"min=0" example:"50000"`
	Stock       int64  `json:"stock" validate:"min=0" example:"5"`
	ImageRef    string `json:"image_ref,omitempty"`
}

type ProductResponseDTO struct {
	ID          int       `json:"id" example:"1"`
	Name        string    `json:"name" example:"Keyboard"`
	Description string    `json:"description"`
	Price       int64     `json:"price" example:"50000"`
	Stock       int64     `json:"stock" example:"5"`
	ImageRef    string    `json:"image_ref,omitempty"`
	ReviewCount int       `json:"review_count"`
	AvgRating   float64   `json:"avg_rating"`
	CreatedAt   time.Time `json:"created_at"`
}

type ProductDetailResponseDTO struct {
	ProductResponseDTO
	Reviews []ReviewResponseDTO `json:"reviews"`
}
