package products

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/angelmondragon/storefront-backend/internal/testutil"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

func newTestService(t *testing.T) (Service, *db.Client) {
	t.Helper()
	client := testutil.OpenSQLite(t)
	svc, err := NewService(NewRepository(client.DB()))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, client
}

func decodePatch(t *testing.T, body string) UpdateProductRequest {
	t.Helper()
	var req UpdateProductRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("decode patch: %v", err)
	}
	return req
}

func TestNewServiceRequiresRepo(t *testing.T) {
	if _, err := NewService(nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestListPaginationBlock(t *testing.T) {
	svc, client := newTestService(t)
	for i := 0; i < 8; i++ {
		testutil.MustCreateProduct(t, client, "Item", "9.99")
	}

	resp, err := svc.List(context.Background(), ListRequest{Page: 2, Limit: 5})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(resp.Products) != 3 {
		t.Fatalf("expected 3 products, got %d", len(resp.Products))
	}
	if resp.Pagination.Pages != 2 || resp.Pagination.Total != 8 || resp.Pagination.Page != 2 || resp.Pagination.Limit != 5 {
		t.Fatalf("unexpected pagination %+v", resp.Pagination)
	}
	if resp.Products[0].Price != "9.99" {
		t.Fatalf("unexpected price %q", resp.Products[0].Price)
	}

	empty, err := svc.List(context.Background(), ListRequest{Search: "nothing matches"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if empty.Products == nil || len(empty.Products) != 0 || empty.Pagination.Pages != 0 {
		t.Fatalf("expected empty non-nil page, got %+v", empty)
	}
}

func TestGetExcludesInactive(t *testing.T) {
	svc, client := newTestService(t)
	active := testutil.MustCreateProduct(t, client, "Active", "5.00")
	hidden := testutil.MustCreateProduct(t, client, "Hidden", "5.00", testutil.Inactive())

	got, err := svc.Get(context.Background(), active.ID)
	if err != nil || got.ID != active.ID {
		t.Fatalf("get active: %+v %v", got, err)
	}
	if _, err := svc.Get(context.Background(), hidden.ID); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found for inactive product, got %v", err)
	}
}

func TestCreate(t *testing.T) {
	svc, _ := newTestService(t)
	price := decimal.RequireFromString("19.999")
	stock := 4
	desc := "  Fresh  "

	resp, err := svc.Create(context.Background(), CreateProductRequest{
		Name:        " Starter Kit ",
		Description: &desc,
		Price:       &price,
		Stock:       &stock,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if resp.ProductID == 0 || resp.ProductID != resp.Product.ID {
		t.Fatalf("unexpected product id %+v", resp)
	}
	if resp.Product.Name != "Starter Kit" || *resp.Product.Description != "Fresh" {
		t.Fatalf("fields not trimmed: %+v", resp.Product)
	}
	if resp.Product.Price != "20.00" || resp.Product.Stock != 4 || !resp.Product.IsActive {
		t.Fatalf("unexpected product %+v", resp.Product)
	}
	if resp.Message != "Product created successfully" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService(t)
	negative := decimal.NewFromInt(-1)
	badStock := -2

	_, err := svc.Create(context.Background(), CreateProductRequest{Name: " ", Price: &negative, Stock: &badStock})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(typed.Fields()) != 3 {
		t.Fatalf("expected 3 field errors, got %+v", typed.Fields())
	}

	if _, err := svc.Create(context.Background(), CreateProductRequest{Name: "No price"}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for missing price, got %v", err)
	}

	price := decimal.NewFromInt(5)
	hugeStock := models.MaxStock + 1
	if _, err := svc.Create(context.Background(), CreateProductRequest{Name: "Bulk", Price: &price, Stock: &hugeStock}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for stock past the cap, got %v", err)
	}
}

func TestUpdatePatchSemantics(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()
	product := testutil.MustCreateProduct(t, client, "Original", "10.00",
		testutil.WithCategory("Templates"), testutil.WithDescription("keep me"))

	t.Run("omitted leaves columns untouched", func(t *testing.T) {
		resp, err := svc.Update(ctx, product.ID, decodePatch(t, `{"price": 12.5}`))
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		got := resp.Product
		if got.Price != "12.50" || got.Name != "Original" || got.Description == nil || *got.Description != "keep me" {
			t.Fatalf("unexpected product %+v", got)
		}
		if got.Category == nil || *got.Category != "Templates" {
			t.Fatalf("category should be untouched, got %v", got.Category)
		}
	})

	t.Run("null clears nullable columns", func(t *testing.T) {
		resp, err := svc.Update(ctx, product.ID, decodePatch(t, `{"description": null, "category": null}`))
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if resp.Product.Description != nil || resp.Product.Category != nil {
			t.Fatalf("expected cleared columns, got %+v", resp.Product)
		}
		if resp.Product.DigitalFileURL == nil {
			t.Fatal("digital_file_url should be untouched")
		}
	})

	t.Run("null on required column or out of range is rejected", func(t *testing.T) {
		for _, body := range []string{`{"name": null}`, `{"price": null}`, `{"stock": null}`, `{"is_active": null}`, `{"stock": 1000001}`} {
			if _, err := svc.Update(ctx, product.ID, decodePatch(t, body)); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
				t.Fatalf("%s: expected validation error, got %v", body, err)
			}
		}
	})

	t.Run("value applies", func(t *testing.T) {
		resp, err := svc.Update(ctx, product.ID, decodePatch(t, `{"name": "Renamed", "stock": 0, "category": "Graphics"}`))
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if resp.Product.Name != "Renamed" || resp.Product.Stock != 0 || *resp.Product.Category != "Graphics" {
			t.Fatalf("unexpected product %+v", resp.Product)
		}
	})

	t.Run("empty patch", func(t *testing.T) {
		_, err := svc.Update(ctx, product.ID, decodePatch(t, `{}`))
		typed := pkgerrors.As(err)
		if typed == nil || typed.Message() != "No fields to update" {
			t.Fatalf("expected no fields error, got %v", err)
		}
	})

	t.Run("missing product", func(t *testing.T) {
		if _, err := svc.Update(ctx, product.ID+100, decodePatch(t, `{"name": "x"}`)); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})
}

func TestDeleteAndReactivate(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()
	product := testutil.MustCreateProduct(t, client, "Temporary", "1.00")

	for i := 0; i < 2; i++ {
		msg, err := svc.Delete(ctx, product.ID)
		if err != nil || msg != "Product deleted successfully" {
			t.Fatalf("delete #%d: %q %v", i+1, msg, err)
		}
	}
	if _, err := svc.Get(ctx, product.ID); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected deleted product hidden, got %v", err)
	}

	if _, err := svc.Update(ctx, product.ID, decodePatch(t, `{"is_active": true}`)); err != nil {
		t.Fatalf("reactivate: %v", err)
	}
	if _, err := svc.Get(ctx, product.ID); err != nil {
		t.Fatalf("expected reactivated product visible, got %v", err)
	}

	if _, err := svc.Delete(ctx, product.ID+100); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCategoriesNeverNil(t *testing.T) {
	svc, _ := newTestService(t)
	categories, err := svc.Categories(context.Background())
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	if categories == nil {
		t.Fatal("expected empty slice")
	}
}
