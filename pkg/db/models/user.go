package models

import (
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/enums"
)

// User is a storefront account. Email is stored lower-cased.
type User struct {
	ID        int64          `gorm:"primaryKey;autoIncrement"`
	Email     string         `gorm:"type:text;not null;uniqueIndex"`
	Password  string         `gorm:"column:password;not null"`
	Name      string         `gorm:"column:name;not null"`
	Role      enums.UserRole `gorm:"column:role;type:text;not null;default:user"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string { return "users" }
