package products

import (
	"encoding/json"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
	"github.com/angelmondragon/storefront-backend/pkg/types"
	"github.com/shopspring/decimal"
)

// ProductDTO is the public catalog representation. Price is rendered as a
// JSON number with two decimals.
type ProductDTO struct {
	ID             int64       `json:"id"`
	Name           string      `json:"name"`
	Description    *string     `json:"description"`
	Price          json.Number `json:"price"`
	ImageURL       *string     `json:"image_url"`
	Category       *string     `json:"category"`
	DigitalFileURL *string     `json:"digital_file_url"`
	Stock          int         `json:"stock"`
	IsActive       bool        `json:"is_active"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// FromModel converts a products row into its public representation.
func FromModel(m models.Product) ProductDTO {
	return ProductDTO{
		ID:             m.ID,
		Name:           m.Name,
		Description:    m.Description,
		Price:          json.Number(m.Price.StringFixed(2)),
		ImageURL:       m.ImageURL,
		Category:       m.Category,
		DigitalFileURL: m.DigitalFileURL,
		Stock:          m.Stock,
		IsActive:       m.IsActive,
		CreatedAt:      m.CreatedAt.UTC(),
		UpdatedAt:      m.UpdatedAt.UTC(),
	}
}

// ListRequest carries the parsed catalog query string.
type ListRequest struct {
	Category string
	Search   string
	Page     int
	Limit    int
}

// ListResponse is the GET /api/products body.
type ListResponse struct {
	Products   []ProductDTO    `json:"products"`
	Pagination pagination.Page `json:"pagination"`
}

// CreateProductRequest is the POST /api/products payload.
type CreateProductRequest struct {
	Name           string           `json:"name" validate:"required,max=255"`
	Description    *string          `json:"description,omitempty"`
	Price          *decimal.Decimal `json:"price" validate:"required"`
	Category       *string          `json:"category,omitempty" validate:"omitempty,max=100"`
	ImageURL       *string          `json:"image_url,omitempty" validate:"omitempty,max=500"`
	DigitalFileURL *string          `json:"digital_file_url,omitempty" validate:"omitempty,max=500"`
	Stock          *int             `json:"stock,omitempty" validate:"omitempty,gte=0,lte=1000000"`
}

// UpdateProductRequest is the PUT /api/products/:id payload. Omitted fields
// are left alone; null clears nullable columns.
type UpdateProductRequest struct {
	Name           types.Optional[string]          `json:"name"`
	Description    types.Optional[string]          `json:"description"`
	Price          types.Optional[decimal.Decimal] `json:"price"`
	Category       types.Optional[string]          `json:"category"`
	ImageURL       types.Optional[string]          `json:"image_url"`
	DigitalFileURL types.Optional[string]          `json:"digital_file_url"`
	Stock          types.Optional[int]             `json:"stock"`
	IsActive       types.Optional[bool]            `json:"is_active"`
}

// CreateProductResponse is the POST /api/products body.
type CreateProductResponse struct {
	Message   string     `json:"message"`
	ProductID int64      `json:"productId"`
	Product   ProductDTO `json:"product"`
}

// ProductResponse wraps a single product, optionally with a message.
type ProductResponse struct {
	Message string     `json:"message,omitempty"`
	Product ProductDTO `json:"product"`
}
