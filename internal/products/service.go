package products

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	msgProductNotFound  = "Product not found"
	msgNoFieldsToUpdate = "No fields to update"
	msgProductCreated   = "Product created successfully"
	msgProductUpdated   = "Product updated successfully"
	msgProductDeleted   = "Product deleted successfully"
)

// Service exposes catalog reads and admin writes.
type Service interface {
	List(ctx context.Context, req ListRequest) (*ListResponse, error)
	Get(ctx context.Context, id int64) (*ProductDTO, error)
	Categories(ctx context.Context) ([]string, error)
	Create(ctx context.Context, req CreateProductRequest) (*CreateProductResponse, error)
	Update(ctx context.Context, id int64, req UpdateProductRequest) (*ProductResponse, error)
	Delete(ctx context.Context, id int64) (string, error)
}

type productRepository interface {
	List(ctx context.Context, filter ListFilter) ([]models.Product, int64, error)
	FindActiveByID(ctx context.Context, id int64) (*models.Product, error)
	Categories(ctx context.Context) ([]string, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, id int64, columns map[string]any) (*models.Product, error)
	SoftDelete(ctx context.Context, id int64) error
}

type service struct {
	repo productRepository
}

// NewService builds a catalog service backed by the provided repository.
func NewService(repo productRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Get(ctx context.Context, id int64) (*ProductDTO, error) {
	product, err := s.repo.FindActiveByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "load product")
	}
	dto := FromModel(*product)
	return &dto, nil
}

func (s *service) Create(ctx context.Context, req CreateProductRequest) (*CreateProductResponse, error) {
	verr := pkgerrors.New(pkgerrors.CodeValidation, "validation failed")

	name := strings.TrimSpace(req.Name)
	if name == "" {
		verr.WithField("name", "is required")
	}
	if req.Price == nil {
		verr.WithField("price", "is required")
	} else if msg := checkPrice(*req.Price); msg != "" {
		verr.WithField("price", msg)
	}
	stock := 0
	if req.Stock != nil {
		stock = *req.Stock
		if msg := checkStock(stock); msg != "" {
			verr.WithField("stock", msg)
		}
	}
	if len(verr.Fields()) > 0 {
		return nil, verr
	}

	product := &models.Product{
		Name:           name,
		Description:    trimmedOrNil(req.Description),
		Price:          req.Price.Round(2),
		ImageURL:       trimmedOrNil(req.ImageURL),
		Category:       trimmedOrNil(req.Category),
		DigitalFileURL: trimmedOrNil(req.DigitalFileURL),
		Stock:          stock,
		IsActive:       true,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}

	return &CreateProductResponse{
		Message:   msgProductCreated,
		ProductID: product.ID,
		Product:   FromModel(*product),
	}, nil
}

func (s *service) Update(ctx context.Context, id int64, req UpdateProductRequest) (*ProductResponse, error) {
	columns, err := updateColumns(req)
	if err != nil {
		return nil, err
	}
	product, err := s.repo.Update(ctx, id, columns)
	if err != nil {
		return nil, mapRepoError(err, "update product")
	}
	return &ProductResponse{Message: msgProductUpdated, Product: FromModel(*product)}, nil
}

func (s *service) Delete(ctx context.Context, id int64) (string, error) {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return "", mapRepoError(err, "delete product")
	}
	return msgProductDeleted, nil
}

// updateColumns turns the patch into a column map. Required columns reject
// null; nullable columns accept it and are cleared.
func updateColumns(req UpdateProductRequest) (map[string]any, error) {
	columns := map[string]any{}
	verr := pkgerrors.New(pkgerrors.CodeValidation, "validation failed")

	if req.Name.Set {
		name := strings.TrimSpace(req.Name.Value)
		switch {
		case req.Name.Null:
			verr.WithField("name", "cannot be null")
		case name == "":
			verr.WithField("name", "is required")
		default:
			columns["name"] = name
		}
	}
	if req.Price.Set {
		if req.Price.Null {
			verr.WithField("price", "cannot be null")
		} else if msg := checkPrice(req.Price.Value); msg != "" {
			verr.WithField("price", msg)
		} else {
			columns["price"] = req.Price.Value.Round(2)
		}
	}
	if req.Stock.Set {
		switch {
		case req.Stock.Null:
			verr.WithField("stock", "cannot be null")
		case checkStock(req.Stock.Value) != "":
			verr.WithField("stock", checkStock(req.Stock.Value))
		default:
			columns["stock"] = req.Stock.Value
		}
	}
	if req.IsActive.Set {
		if req.IsActive.Null {
			verr.WithField("is_active", "cannot be null")
		} else {
			columns["is_active"] = req.IsActive.Value
		}
	}

	nullable := []struct {
		column string
		value  types.Optional[string]
	}{
		{"description", req.Description},
		{"category", req.Category},
		{"image_url", req.ImageURL},
		{"digital_file_url", req.DigitalFileURL},
	}
	for _, field := range nullable {
		if !field.value.Set {
			continue
		}
		if field.value.Null {
			columns[field.column] = nil
			continue
		}
		columns[field.column] = strings.TrimSpace(field.value.Value)
	}

	if len(verr.Fields()) > 0 {
		return nil, verr
	}
	if len(columns) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, msgNoFieldsToUpdate)
	}
	return columns, nil
}

func checkPrice(price decimal.Decimal) string {
	if price.IsNegative() {
		return "must be greater than or equal to 0"
	}
	if price.GreaterThan(models.MaxAmount) {
		return "is too large"
	}
	return ""
}

func checkStock(stock int) string {
	switch {
	case stock < 0:
		return "must be greater than or equal to 0"
	case stock > models.MaxStock:
		return "must be less than or equal to " + strconv.Itoa(models.MaxStock)
	}
	return ""
}

func trimmedOrNil(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func mapRepoError(err error, action string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, msgProductNotFound)
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, action)
}
