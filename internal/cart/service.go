package cart

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"gorm.io/gorm"
)

const (
	msgAdded           = "Item added to cart"
	msgUpdated         = "Cart updated"
	msgRemoved         = "Item removed from cart"
	msgCleared         = "Cart cleared"
	msgProductNotFound = "Product not found"
	msgItemNotFound    = "Item not found in cart"
	msgCartLimit       = "Cart quantity limit reached"
)

// Service manages the authenticated user's cart.
type Service interface {
	Get(ctx context.Context, userID int64) (*CartResponse, error)
	Add(ctx context.Context, userID int64, req AddRequest) (string, error)
	UpdateQuantity(ctx context.Context, userID, productID int64, quantity int) (string, error)
	Remove(ctx context.Context, userID, productID int64) (string, error)
	Clear(ctx context.Context, userID int64) (string, error)
}

type cartRepository interface {
	ListLines(ctx context.Context, userID int64) ([]Line, error)
	Increment(ctx context.Context, userID, productID int64, delta int) (int64, error)
	Insert(ctx context.Context, item *models.CartItem) error
	SetQuantity(ctx context.Context, userID, productID int64, quantity int) error
	Remove(ctx context.Context, userID, productID int64) error
	Clear(ctx context.Context, userID int64) (int64, error)
}

type productLookup interface {
	FindActiveByID(ctx context.Context, id int64) (*models.Product, error)
}

// ServiceParams bundles the dependencies required to build a cart service.
type ServiceParams struct {
	Repo     cartRepository
	Products productLookup
}

type service struct {
	repo     cartRepository
	products productLookup
}

// NewService constructs a cart service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product lookup is required")
	}
	return &service{repo: params.Repo, products: params.Products}, nil
}

func (s *service) Get(ctx context.Context, userID int64) (*CartResponse, error) {
	lines, err := s.repo.ListLines(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list cart")
	}
	resp := buildResponse(lines)
	return &resp, nil
}

// Add increments the existing row or inserts a new one. When a concurrent
// request wins the insert, the unique index rejects ours and we increment.
// An increment that still matches nothing means the row is at the cap.
func (s *service) Add(ctx context.Context, userID int64, req AddRequest) (string, error) {
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	if err := checkQuantity(quantity); err != nil {
		return "", err
	}
	if req.ProductID <= 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithField("productId", "must be greater than or equal to 1")
	}

	if _, err := s.products.FindActiveByID(ctx, req.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", pkgerrors.New(pkgerrors.CodeNotFound, msgProductNotFound)
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}

	matched, err := s.repo.Increment(ctx, userID, req.ProductID, quantity)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "increment cart item")
	}
	if matched > 0 {
		return msgAdded, nil
	}

	err = s.repo.Insert(ctx, &models.CartItem{UserID: userID, ProductID: req.ProductID, Quantity: quantity})
	if err == nil {
		return msgAdded, nil
	}
	if !db.IsUniqueViolation(err, "") {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert cart item")
	}
	matched, err = s.repo.Increment(ctx, userID, req.ProductID, quantity)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "increment cart item")
	}
	if matched == 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, msgCartLimit).
			WithField("quantity", "cart quantity cannot exceed "+strconv.Itoa(models.MaxItemQuantity))
	}
	return msgAdded, nil
}

func (s *service) UpdateQuantity(ctx context.Context, userID, productID int64, quantity int) (string, error) {
	if err := checkQuantity(quantity); err != nil {
		return "", err
	}
	if err := s.repo.SetQuantity(ctx, userID, productID, quantity); err != nil {
		return "", mapRowError(err, "update cart item")
	}
	return msgUpdated, nil
}

func (s *service) Remove(ctx context.Context, userID, productID int64) (string, error) {
	if err := s.repo.Remove(ctx, userID, productID); err != nil {
		return "", mapRowError(err, "remove cart item")
	}
	return msgRemoved, nil
}

func (s *service) Clear(ctx context.Context, userID int64) (string, error) {
	if _, err := s.repo.Clear(ctx, userID); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
	}
	return msgCleared, nil
}

func checkQuantity(quantity int) error {
	switch {
	case quantity < 1:
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithField("quantity", "must be greater than or equal to 1")
	case quantity > models.MaxItemQuantity:
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithField("quantity", "must be less than or equal to "+strconv.Itoa(models.MaxItemQuantity))
	}
	return nil
}

func mapRowError(err error, action string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, msgItemNotFound)
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, action)
}
