package orders

import (
	"context"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ItemLine is an order item joined with whatever remains of its product.
type ItemLine struct {
	OrderID        int64
	ProductID      int64
	Name           string
	Quantity       int
	Price          decimal.Decimal
	ImageURL       *string
	DigitalFileURL *string
}

// Repository persists orders and their items.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an orders repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateOrder inserts the order header and fills in its id.
func (r *Repository) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// CreateItems inserts the order's line items in one statement.
func (r *Repository) CreateItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// ListByUser returns the user's orders, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// FindForUser loads an order only if it belongs to userID.
func (r *Repository) FindForUser(ctx context.Context, orderID, userID int64) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ItemsForOrders loads the items of every listed order. Products are left
// joined so deactivated ones still render.
func (r *Repository) ItemsForOrders(ctx context.Context, orderIDs []int64) ([]ItemLine, error) {
	if len(orderIDs) == 0 {
		return nil, nil
	}
	var lines []ItemLine
	err := r.db.WithContext(ctx).
		Table("order_items AS oi").
		Select("oi.order_id, oi.product_id, COALESCE(p.name, '') AS name, oi.quantity, oi.price, p.image_url, p.digital_file_url").
		Joins("LEFT JOIN products p ON p.id = oi.product_id").
		Where("oi.order_id IN ?", orderIDs).
		Order("oi.id ASC").
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}
