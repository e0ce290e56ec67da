package orders

import (
	"context"
	"strconv"
	"strings"

	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/products"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	msgOrderCreated  = "Order created successfully"
	msgTotalMismatch = "totalAmount does not match items"
	msgTotalTooLarge = "Order total is too large"

	maxCheckoutItems = 100
)

// totalTolerance absorbs client-side rounding of the displayed total.
var totalTolerance = decimal.RequireFromString("0.005")

// Checkout prices the requested items from the catalog, records the order
// and its items, then empties the cart. All of it commits or none of it does.
func (s *service) Checkout(ctx context.Context, userID int64, req CheckoutRequest) (*CheckoutResponse, error) {
	if err := validateCheckout(req); err != nil {
		s.metrics.Rejected()
		return nil, err
	}

	var (
		order     *models.Order
		lineItems int
	)
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		productRepo := products.NewRepository(tx)
		orderRepo := NewRepository(tx)
		cartRepo := cart.NewRepository(tx)

		ids := make([]int64, 0, len(req.Items))
		for _, item := range req.Items {
			ids = append(ids, item.ProductID)
		}
		catalog, err := productRepo.FindActiveByIDs(ctx, ids)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load products")
		}

		items := make([]models.OrderItem, 0, len(req.Items))
		sum := decimal.Zero
		for _, item := range req.Items {
			product, ok := catalog[item.ProductID]
			if !ok {
				return pkgerrors.Newf(pkgerrors.CodeNotFound, "Product %d not found", item.ProductID)
			}
			items = append(items, models.OrderItem{
				ProductID: product.ID,
				Quantity:  item.Quantity,
				Price:     product.Price,
			})
			sum = sum.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}

		if sum.Round(2).GreaterThan(models.MaxAmount) {
			return pkgerrors.New(pkgerrors.CodeValidation, msgTotalTooLarge).
				WithField("totalAmount", "must be less than or equal to "+models.MaxAmount.StringFixed(2))
		}
		if req.TotalAmount.Sub(sum).Abs().GreaterThan(totalTolerance) {
			return pkgerrors.New(pkgerrors.CodeValidation, msgTotalMismatch).
				WithField("totalAmount", "expected "+sum.StringFixed(2))
		}

		order = &models.Order{
			UserID:          userID,
			TotalAmount:     sum.Round(2),
			Status:          enums.OrderStatusCompleted,
			PaymentIntentID: paymentIntent(req.PaymentIntentID),
		}
		if err := orderRepo.CreateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := orderRepo.CreateItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order items")
		}

		if _, err := cartRepo.Clear(ctx, userID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
		}
		lineItems = len(items)
		return nil
	})
	if err != nil {
		s.recordFailure(ctx, userID, err)
		return nil, err
	}

	s.metrics.Completed(order.TotalAmount, lineItems)
	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"order_id": order.ID,
			"user_id":  userID,
			"total":    order.TotalAmount.StringFixed(2),
		})
		s.logg.Info(logCtx, "checkout.completed")
	}
	return &CheckoutResponse{Message: msgOrderCreated, OrderID: order.ID}, nil
}

func (s *service) recordFailure(ctx context.Context, userID int64, err error) {
	switch pkgerrors.As(err).Code() {
	case pkgerrors.CodeValidation, pkgerrors.CodeNotFound:
		s.metrics.Rejected()
	default:
		s.metrics.Failed()
		if s.logg != nil {
			s.logg.Error(s.logg.WithField(ctx, "user_id", userID), "checkout.failed", err)
		}
	}
}

func validateCheckout(req CheckoutRequest) error {
	verr := pkgerrors.New(pkgerrors.CodeValidation, "validation failed")
	switch {
	case len(req.Items) == 0:
		verr.WithField("items", "must contain at least 1 item(s)")
	case len(req.Items) > maxCheckoutItems:
		verr.WithField("items", "must contain at most "+strconv.Itoa(maxCheckoutItems)+" item(s)")
	}
	for i, item := range req.Items {
		if item.ProductID < 1 {
			verr.WithField(itemField(i, "product_id"), "must be greater than or equal to 1")
		}
		switch {
		case item.Quantity < 1:
			verr.WithField(itemField(i, "quantity"), "must be greater than or equal to 1")
		case item.Quantity > models.MaxItemQuantity:
			verr.WithField(itemField(i, "quantity"), "must be less than or equal to "+strconv.Itoa(models.MaxItemQuantity))
		}
	}
	if req.TotalAmount == nil {
		verr.WithField("totalAmount", "is required")
	} else if req.TotalAmount.IsNegative() {
		verr.WithField("totalAmount", "must be greater than or equal to 0")
	}
	if len(verr.Fields()) > 0 {
		return verr
	}
	return nil
}

func itemField(i int, name string) string {
	return "items[" + strconv.Itoa(i) + "]." + name
}

func paymentIntent(raw *string) *string {
	if raw == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
