package dto

import "time"

type ReviewRequestDTO struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5" example:"5"`
	Comment string `json:"comment,omitempty" validate:"max=1000"`
}

type ReviewResponseDTO struct {
	ID        int       `json:"id" example:"1"`
	ProductID int       `json:"product_id" example:"1"`
	UserName  string    `json:"user_name" example:"alice"`
	Rating    int       `json:"rating" example:"5"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
