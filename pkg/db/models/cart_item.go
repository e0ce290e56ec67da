package models

import "time"

// MaxItemQuantity bounds a single cart or order line. The quantity columns
// are INTEGER on postgres and an unchecked sum silently turns REAL on sqlite.
const MaxItemQuantity = 10000

// CartItem is the persisted (user, product, quantity) association before checkout.
type CartItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	UserID    int64     `gorm:"column:user_id;not null;uniqueIndex:ux_cart_user_product"`
	ProductID int64     `gorm:"column:product_id;not null;uniqueIndex:ux_cart_user_product"`
	Quantity  int       `gorm:"column:quantity;not null;default:1"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (CartItem) TableName() string { return "cart" }
