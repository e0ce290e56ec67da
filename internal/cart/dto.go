package cart

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// AddRequest is the POST /api/cart/add payload. Quantity defaults to 1.
type AddRequest struct {
	ProductID int64 `json:"productId" validate:"required,gte=1"`
	Quantity  *int  `json:"quantity,omitempty" validate:"omitempty,gte=1,lte=10000"`
}

// UpdateRequest is the PUT /api/cart/update/:productId payload.
type UpdateRequest struct {
	Quantity int `json:"quantity" validate:"gte=1,lte=10000"`
}

// ItemDTO is one cart line as seen by clients.
type ItemDTO struct {
	ID             int64       `json:"id"`
	Quantity       int         `json:"quantity"`
	ProductID      int64       `json:"product_id"`
	Name           string      `json:"name"`
	Price          json.Number `json:"price"`
	ImageURL       *string     `json:"image_url"`
	DigitalFileURL *string     `json:"digital_file_url"`
}

// CartResponse is the GET /api/cart body. Total is a fixed two-decimal string.
type CartResponse struct {
	Items []ItemDTO `json:"items"`
	Total string    `json:"total"`
}

func buildResponse(lines []Line) CartResponse {
	items := make([]ItemDTO, 0, len(lines))
	total := decimal.Zero
	for _, line := range lines {
		items = append(items, ItemDTO{
			ID:             line.ID,
			Quantity:       line.Quantity,
			ProductID:      line.ProductID,
			Name:           line.Name,
			Price:          json.Number(line.Price.StringFixed(2)),
			ImageURL:       line.ImageURL,
			DigitalFileURL: line.DigitalFileURL,
		})
		total = total.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return CartResponse{Items: items, Total: total.StringFixed(2)}
}
