package dto

import "time"

type OrderDetailResponseDTO struct {
	ProductID   int    `json:"product_id" example:"1"`
	ProductName string `json:"product_name" example:"Keyboard"`
	Quantity    int64  `json:"quantity" example:"2"`
	Price       int64  `json:"price" example:"50000"`
}

type OrderResponseDTO struct {
	ID         int                      `json:"id" example:"1"`
	UserName   string                   `json:"user_name,omitempty"`
	TotalPrice int64                    `json:"total_price" example:"100000"`
	CreatedAt  time.Time                `json:"created_at"`
	Details    []OrderDetailResponseDTO `json:"details"`
}
