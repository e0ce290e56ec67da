package storefront

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// IsAdmin reports whether the user can manage the catalog.
func (u User) IsAdmin() bool { return u.Role == "admin" }

type AuthResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest sends only the non-nil fields.
type UpdateProfileRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type Product struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Description    *string         `json:"description"`
	Price          decimal.Decimal `json:"price"`
	Category       *string         `json:"category"`
	ImageURL       *string         `json:"image_url"`
	DigitalFileURL *string         `json:"digital_file_url"`
	Stock          int             `json:"stock"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

type ProductPage struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

// ListProductsParams are the catalog query filters. Zero values are omitted.
type ListProductsParams struct {
	Category string
	Search   string
	Page     int
	Limit    int
}

type CreateProductRequest struct {
	Name           string          `json:"name"`
	Description    *string         `json:"description,omitempty"`
	Price          decimal.Decimal `json:"price"`
	Category       *string         `json:"category,omitempty"`
	ImageURL       *string         `json:"image_url,omitempty"`
	DigitalFileURL *string         `json:"digital_file_url,omitempty"`
	Stock          *int            `json:"stock,omitempty"`
}

type CreateProductResponse struct {
	Message   string  `json:"message"`
	ProductID int64   `json:"productId"`
	Product   Product `json:"product"`
}

// ProductPatch is sent as-is. Absent keys are left unchanged and a nil value
// clears a nullable column.
type ProductPatch map[string]any

type CartItem struct {
	ID             int64           `json:"id"`
	Quantity       int             `json:"quantity"`
	ProductID      int64           `json:"product_id"`
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	ImageURL       *string         `json:"image_url"`
	DigitalFileURL *string         `json:"digital_file_url"`
}

type Cart struct {
	Items []CartItem      `json:"items"`
	Total decimal.Decimal `json:"total"`
}

type CheckoutItem struct {
	ProductID int64            `json:"product_id"`
	Quantity  int              `json:"quantity"`
	Price     *decimal.Decimal `json:"price,omitempty"`
}

type CheckoutRequest struct {
	Items           []CheckoutItem  `json:"items"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	PaymentIntentID string          `json:"paymentIntentId,omitempty"`
}

type CheckoutResponse struct {
	Message string `json:"message"`
	OrderID int64  `json:"orderId"`
}

type OrderItem struct {
	ProductID      int64           `json:"product_id"`
	Name           string          `json:"name"`
	Quantity       int             `json:"quantity"`
	Price          decimal.Decimal `json:"price"`
	ImageURL       *string         `json:"image_url"`
	DigitalFileURL *string         `json:"digital_file_url,omitempty"`
}

type Order struct {
	ID              int64           `json:"id"`
	UserID          int64           `json:"user_id"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Status          string          `json:"status"`
	PaymentIntentID *string         `json:"payment_intent_id"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Items           []OrderItem     `json:"items"`
}
