// Package testutil opens migrated in-memory databases and seeds fixtures for
// repository and service tests.
package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/migrate"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OpenSQLite returns a client backed by a private in-memory SQLite database
// with every migration applied.
func OpenSQLite(t testing.TB) *db.Client {
	t.Helper()

	ctx := context.Background()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	client, err := db.New(ctx, config.DBConfig{Driver: config.DBDriverSQLite, DSN: dsn}, nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	sqlDB, err := client.DB().DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	if err := migrate.Up(ctx, sqlDB, config.DBDriverSQLite); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return client
}

// MustCreateUser inserts a user with a placeholder password hash. An empty
// email generates a unique one.
func MustCreateUser(t testing.TB, client *db.Client, email string, role enums.UserRole) *models.User {
	t.Helper()
	if email == "" {
		email = fmt.Sprintf("user_%s@example.com", uuid.NewString()[:8])
	}
	if role == "" {
		role = enums.UserRoleUser
	}
	user := &models.User{
		Email:    email,
		Password: "hash",
		Name:     "Test User",
		Role:     role,
	}
	if err := client.DB().Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

// ProductOption mutates a fixture product before insert.
type ProductOption func(*models.Product)

func WithCategory(category string) ProductOption {
	return func(p *models.Product) { p.Category = &category }
}

func WithDescription(desc string) ProductOption {
	return func(p *models.Product) { p.Description = &desc }
}

func WithStock(stock int) ProductOption {
	return func(p *models.Product) { p.Stock = stock }
}

func Inactive() ProductOption {
	return func(p *models.Product) { p.IsActive = false }
}

// MustCreateProduct inserts an active product priced at price.
func MustCreateProduct(t testing.TB, client *db.Client, name, price string, opts ...ProductOption) *models.Product {
	t.Helper()
	fileURL := "https://files.example.com/" + uuid.NewString() + ".zip"
	product := &models.Product{
		Name:           name,
		Price:          decimal.RequireFromString(price),
		Stock:          10,
		IsActive:       true,
		DigitalFileURL: &fileURL,
	}
	for _, opt := range opts {
		opt(product)
	}
	active := product.IsActive
	if err := client.DB().Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	// gorm omits zero-valued fields that carry a column default on insert.
	if !active {
		if err := client.DB().Model(product).Update("is_active", false).Error; err != nil {
			t.Fatalf("deactivate product: %v", err)
		}
		product.IsActive = false
	}
	return product
}

// MustAddToCart inserts a cart row directly.
func MustAddToCart(t testing.TB, client *db.Client, userID, productID int64, quantity int) *models.CartItem {
	t.Helper()
	item := &models.CartItem{UserID: userID, ProductID: productID, Quantity: quantity}
	if err := client.DB().Create(item).Error; err != nil {
		t.Fatalf("add to cart: %v", err)
	}
	return item
}
