package orders

import (
	"encoding/json"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// CheckoutItem is one requested line. Price is accepted for compatibility
// but the current catalog price is always charged.
type CheckoutItem struct {
	ProductID int64            `json:"product_id" validate:"gte=1"`
	Quantity  int              `json:"quantity" validate:"gte=1,lte=10000"`
	Price     *decimal.Decimal `json:"price,omitempty"`
}

// CheckoutRequest is the POST /api/orders/create payload.
type CheckoutRequest struct {
	Items           []CheckoutItem   `json:"items" validate:"required,min=1,max=100,dive"`
	TotalAmount     *decimal.Decimal `json:"totalAmount" validate:"required"`
	PaymentIntentID *string          `json:"paymentIntentId,omitempty" validate:"omitempty,max=255"`
}

// CheckoutResponse is returned once the order is committed.
type CheckoutResponse struct {
	Message string `json:"message"`
	OrderID int64  `json:"orderId"`
}

// OrderItemDTO is one purchased line. DigitalFileURL is only populated on
// the order detail view.
type OrderItemDTO struct {
	ProductID      int64       `json:"product_id"`
	Name           string      `json:"name"`
	Quantity       int         `json:"quantity"`
	Price          json.Number `json:"price"`
	ImageURL       *string     `json:"image_url"`
	DigitalFileURL *string     `json:"digital_file_url,omitempty"`
}

// OrderDTO is the public view of an order with its items.
type OrderDTO struct {
	ID              int64             `json:"id"`
	UserID          int64             `json:"user_id"`
	TotalAmount     json.Number       `json:"total_amount"`
	Status          enums.OrderStatus `json:"status"`
	PaymentIntentID *string           `json:"payment_intent_id"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	Items           []OrderItemDTO    `json:"items"`
}

// ListResponse is the GET /api/orders body.
type ListResponse struct {
	Orders []OrderDTO `json:"orders"`
}

// DetailResponse is the GET /api/orders/:id body.
type DetailResponse struct {
	Order OrderDTO `json:"order"`
}

func orderFromModel(m models.Order) OrderDTO {
	return OrderDTO{
		ID:              m.ID,
		UserID:          m.UserID,
		TotalAmount:     json.Number(m.TotalAmount.StringFixed(2)),
		Status:          m.Status,
		PaymentIntentID: m.PaymentIntentID,
		CreatedAt:       m.CreatedAt.UTC(),
		UpdatedAt:       m.UpdatedAt.UTC(),
		Items:           []OrderItemDTO{},
	}
}

func itemFromLine(line ItemLine, withFile bool) OrderItemDTO {
	dto := OrderItemDTO{
		ProductID: line.ProductID,
		Name:      line.Name,
		Quantity:  line.Quantity,
		Price:     json.Number(line.Price.StringFixed(2)),
		ImageURL:  line.ImageURL,
	}
	if withFile {
		dto.DigitalFileURL = line.DigitalFileURL
	}
	return dto
}
