package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxAmount is the largest value a numeric(10,2) column can hold.
var MaxAmount = decimal.RequireFromString("99999999.99")

// MaxStock bounds products.stock well inside INTEGER range.
const MaxStock = 1000000

// Product is a catalog entry. Products are deactivated, never deleted, so
// historical order items keep resolving.
type Product struct {
	ID             int64           `gorm:"primaryKey;autoIncrement"`
	Name           string          `gorm:"column:name;not null"`
	Description    *string         `gorm:"column:description"`
	Price          decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	ImageURL       *string         `gorm:"column:image_url"`
	Category       *string         `gorm:"column:category"`
	DigitalFileURL *string         `gorm:"column:digital_file_url"`
	Stock          int             `gorm:"column:stock;not null;default:0"`
	IsActive       bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string { return "products" }
