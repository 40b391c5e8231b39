package dto

import "time"

type BalanceResponseDTO struct {
	Balance int64 `json:"balance" example:"200000"`
}

type TopUpRequestDTO struct {
	Card   string `json:"card" example:"4561261212345467"`
	Amount int64  `json:"amount" validate:"required,min=1" example:"100000"`
}

type TopUpResponseDTO struct {
	Reference  string    `json:"reference" example:"6f1f0f2f-9f6d-4f7e-8f3b-2b6f4e8a9c1d"`
	CardMasked string    `json:"card" example:"************5467"`
	Amount     int64     `json:"amount" example:"100000"`
	Status     string    `json:"status" example:"NEW"`
	CreatedAt  time.Time `json:"created_at"`
}
