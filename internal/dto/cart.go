package dto

type AddCartItemRequestDTO struct {
	ProductID int   `json:"product_id" validate:"required" example:"1"`
	Quantity  int64 `json:"quantity" validate:"required,min=1" example:"2"`
}

type UpdateCartItemRequestDTO struct {
	Quantity int64 `json:"quantity" validate:"required,min=1" example:"3"`
}

type CartItemResponseDTO struct {
	ID          int    `json:"id" example:"1"`
	ProductID   int    `json:"product_id" example:"1"`
	ProductName string `json:"product_name" example:"Keyboard"`
	Price       int64  `json:"price" example:"50000"`
	Quantity    int64  `json:"quantity" example:"2"`
	Stock       int64  `json:"stock" example:"5"`
}

type CartResponseDTO struct {
	Items      []CartItemResponseDTO `json:"items"`
	TotalPrice int64                 `json:"total_price" example:"100000"`
}
