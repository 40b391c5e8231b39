package domain

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           int       `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	Balance      int64     `db:"balance"`
	CreatedAt    time.Time `db:"created_at"`
}

// Price and Balance are stored in minor currency units.
type Product struct {
	ID          int       `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Price       int64     `db:"price"`
	Stock       int64     `db:"stock"`
	ImageRef    string    `db:"image_ref"`
	CreatedAt   time.Time `db:"created_at"`
	ReviewCount int       `db:"review_count"`
	AvgRating   float64   `db:"avg_rating"`
}

type ProductFilter struct {
	Search   string
	MinPrice *int64
	MaxPrice *int64
	Limit    int
	Offset   int
}

type CartItem struct {
	ID        int      `db:"id"`
	UserID    int      `db:"user_id"`
	ProductID int      `db:"product_id"`
	Quantity  int64    `db:"quantity"`
	Product   *Product `db:"-"`
}

type Order struct {
	ID         int           `db:"id"`
	UserID     int           `db:"user_id"`
	UserName   string        `db:"-"`
	TotalPrice int64         `db:"total_price"`
	CreatedAt  time.Time     `db:"created_at"`
	Details    []OrderDetail `db:"-"`
}

// Price is the product's unit price at checkout time, frozen for history.
type OrderDetail struct {
	ID          int    `db:"id"`
	OrderID     int    `db:"order_id"`
	ProductID   int    `db:"product_id"`
	ProductName string `db:"-"`
	Quantity    int64  `db:"quantity"`
	Price       int64  `db:"price"`
}

type Review struct {
	ID        int       `db:"id"`
	UserID    int       `db:"user_id"`
	UserName  string    `db:"-"`
	ProductID int       `db:"product_id"`
	Rating    int       `db:"rating"`
	Comment   string    `db:"comment"`
	CreatedAt time.Time `db:"created_at"`
}

const (
	// PaymentStatusNew top-up registered, gateway not asked yet;
	PaymentStatusNew string = "NEW"
	// PaymentStatusProcessing gateway is processing the payment;
	PaymentStatusProcessing string = "PROCESSING"
	// PaymentStatusConfirmed gateway confirmed, balance credited;
	PaymentStatusConfirmed string = "CONFIRMED"
	// PaymentStatusInvalid gateway rejected the payment.
	PaymentStatusInvalid string = "INVALID"
)

type Payment struct {
	ID         int       `db:"id"`
	UserID     int       `db:"user_id"`
	Reference  string    `db:"reference"`
	CardMasked string    `db:"card_masked"`
	Amount     int64     `db:"amount"`
	Status     string    `db:"status"`
	CreatedAt  time.Time `db:"created_at"`
}
