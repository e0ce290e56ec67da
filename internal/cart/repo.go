package cart

import (
	"context"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Line is a cart row joined with the product it references.
type Line struct {
	ID             int64
	Quantity       int
	ProductID      int64
	Name           string
	Price          decimal.Decimal
	ImageURL       *string
	DigitalFileURL *string
}

// Repository persists cart rows keyed by (user_id, product_id).
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListLines returns the user's cart joined to active products, newest first.
// Rows pointing at deactivated products are hidden but kept.
func (r *Repository) ListLines(ctx context.Context, userID int64) ([]Line, error) {
	var lines []Line
	err := r.db.WithContext(ctx).
		Table("cart AS c").
		Select("c.id, c.quantity, c.product_id, p.name, p.price, p.image_url, p.digital_file_url").
		Joins("JOIN products p ON p.id = c.product_id").
		Where("c.user_id = ? AND p.is_active = ?", userID, true).
		Order("c.created_at DESC").
		Order("c.id DESC").
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// ListItems returns the raw cart rows for the user.
func (r *Repository) ListItems(ctx context.Context, userID int64) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Increment adds delta to an existing row and reports how many rows matched.
// A row whose new quantity would pass models.MaxItemQuantity does not match.
func (r *Repository) Increment(ctx context.Context, userID, productID int64, delta int) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("user_id = ? AND product_id = ? AND quantity <= ?", userID, productID, models.MaxItemQuantity-delta).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", delta))
	return res.RowsAffected, res.Error
}

// Insert creates a new cart row. A concurrent insert for the same pair
// surfaces as a unique violation.
func (r *Repository) Insert(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// SetQuantity overwrites the quantity of an existing row.
func (r *Repository) SetQuantity(ctx context.Context, userID, productID int64, quantity int) error {
	res := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		UpdateColumn("quantity", quantity)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Remove deletes a single row.
func (r *Repository) Remove(ctx context.Context, userID, productID int64) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Clear deletes every row for the user and returns the number removed.
func (r *Repository) Clear(ctx context.Context, userID int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}
