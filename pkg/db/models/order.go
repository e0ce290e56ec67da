package models

import (
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Order is created at checkout and is immutable afterwards except for status.
type Order struct {
	ID              int64             `gorm:"primaryKey;autoIncrement"`
	UserID          int64             `gorm:"column:user_id;not null;index"`
	TotalAmount     decimal.Decimal   `gorm:"column:total_amount;type:numeric(10,2);not null"`
	Status          enums.OrderStatus `gorm:"column:status;type:text;not null;default:pending"`
	PaymentIntentID *string           `gorm:"column:payment_intent_id"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (Order) TableName() string { return "orders" }
