package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"gorm.io/gorm"
)

const msgOrderNotFound = "Order not found"

// Service exposes checkout and the caller's order history.
type Service interface {
	Checkout(ctx context.Context, userID int64, req CheckoutRequest) (*CheckoutResponse, error)
	List(ctx context.Context, userID int64) (*ListResponse, error)
	Get(ctx context.Context, userID, orderID int64) (*DetailResponse, error)
}

type orderReader interface {
	ListByUser(ctx context.Context, userID int64) ([]models.Order, error)
	FindForUser(ctx context.Context, orderID, userID int64) (*models.Order, error)
	ItemsForOrders(ctx context.Context, orderIDs []int64) ([]ItemLine, error)
}

// ServiceParams bundles the dependencies required to build an orders service.
// Metrics and Logger are optional.
type ServiceParams struct {
	DB      *db.Client
	Repo    orderReader
	Metrics *metrics.CheckoutMetrics
	Logger  *logger.Logger
}

type service struct {
	db      *db.Client
	repo    orderReader
	metrics *metrics.CheckoutMetrics
	logg    *logger.Logger
}

// NewService constructs an orders service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository is required")
	}
	return &service{
		db:      params.DB,
		repo:    params.Repo,
		metrics: params.Metrics,
		logg:    params.Logger,
	}, nil
}

func (s *service) List(ctx context.Context, userID int64) (*ListResponse, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	lines, err := s.repo.ItemsForOrders(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list order items")
	}
	byOrder := make(map[int64][]OrderItemDTO, len(rows))
	for _, line := range lines {
		byOrder[line.OrderID] = append(byOrder[line.OrderID], itemFromLine(line, false))
	}

	out := make([]OrderDTO, 0, len(rows))
	for _, row := range rows {
		dto := orderFromModel(row)
		if items, ok := byOrder[row.ID]; ok {
			dto.Items = items
		}
		out = append(out, dto)
	}
	return &ListResponse{Orders: out}, nil
}

func (s *service) Get(ctx context.Context, userID, orderID int64) (*DetailResponse, error) {
	order, err := s.repo.FindForUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, msgOrderNotFound)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	lines, err := s.repo.ItemsForOrders(ctx, []int64{order.ID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order items")
	}

	dto := orderFromModel(*order)
	for _, line := range lines {
		dto.Items = append(dto.Items, itemFromLine(line, true))
	}
	return &DetailResponse{Order: dto}, nil
}
