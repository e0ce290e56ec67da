package products

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/angelmondragon/storefront-backend/internal/testutil"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRepositoryListPagination(t *testing.T) {
	client := testutil.OpenSQLite(t)
	repo := NewRepository(client.DB())
	for i := 0; i < 8; i++ {
		testutil.MustCreateProduct(t, client, fmt.Sprintf("Product %d", i), "10.00")
	}
	testutil.MustCreateProduct(t, client, "Hidden", "5.00", testutil.Inactive())

	rows, total, err := repo.List(context.Background(), ListFilter{Page: pagination.Params{Page: 2, Limit: 5}})
	require.NoError(t, err)
	assert.EqualValues(t, 8, total)
	assert.Len(t, rows, 3)
	for _, row := range rows {
		assert.True(t, row.IsActive)
	}
}

func TestRepositoryListNewestFirst(t *testing.T) {
	client := testutil.OpenSQLite(t)
	repo := NewRepository(client.DB())
	first := testutil.MustCreateProduct(t, client, "First", "1.00")
	second := testutil.MustCreateProduct(t, client, "Second", "1.00")

	rows, _, err := repo.List(context.Background(), ListFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, second.ID, rows[0].ID)
	assert.Equal(t, first.ID, rows[1].ID)
}

func TestRepositoryListFilters(t *testing.T) {
	client := testutil.OpenSQLite(t)
	repo := NewRepository(client.DB())
	ctx := context.Background()

	testutil.MustCreateProduct(t, client, "Modern Website Template", "29.99", testutil.WithCategory("Templates"))
	testutil.MustCreateProduct(t, client, "Icon Pack", "14.99",
		testutil.WithCategory("Graphics"), testutil.WithDescription("Hundreds of WEBSITE icons"))
	testutil.MustCreateProduct(t, client, "Photo Presets", "24.99", testutil.WithCategory("Photography"))
	testutil.MustCreateProduct(t, client, "100% Discount Guide", "1.00")

	rows, total, err := repo.List(ctx, ListFilter{Search: "website"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, rows, 2)

	rows, total, err = repo.List(ctx, ListFilter{Category: "Templates"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Modern Website Template", rows[0].Name)

	rows, total, err = repo.List(ctx, ListFilter{Category: "Graphics", Search: "template"})
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
	assert.Empty(t, rows)

	_, total, err = repo.List(ctx, ListFilter{Search: "100%"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	_, total, err = repo.List(ctx, ListFilter{Search: "%"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestRepositoryCategories(t *testing.T) {
	client := testutil.OpenSQLite(t)
	repo := NewRepository(client.DB())

	testutil.MustCreateProduct(t, client, "A", "1.00", testutil.WithCategory("Templates"))
	testutil.MustCreateProduct(t, client, "B", "1.00", testutil.WithCategory("Graphics"))
	testutil.MustCreateProduct(t, client, "C", "1.00", testutil.WithCategory("Templates"))
	testutil.MustCreateProduct(t, client, "D", "1.00", testutil.WithCategory("Retired"), testutil.Inactive())
	testutil.MustCreateProduct(t, client, "E", "1.00")

	categories, err := repo.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Graphics", "Templates"}, categories)
}

func TestRepositorySoftDelete(t *testing.T) {
	client := testutil.OpenSQLite(t)
	repo := NewRepository(client.DB())
	ctx := context.Background()
	product := testutil.MustCreateProduct(t, client, "Doomed", "3.50")

	require.NoError(t, repo.SoftDelete(ctx, product.ID))
	require.NoError(t, repo.SoftDelete(ctx, product.ID))

	_, err := repo.FindActiveByID(ctx, product.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	stored, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)

	assert.True(t, errors.Is(repo.SoftDelete(ctx, product.ID+100), gorm.ErrRecordNotFound))
}

func TestRepositoryFindActiveByIDs(t *testing.T) {
	client := testutil.OpenSQLite(t)
	repo := NewRepository(client.DB())
	a := testutil.MustCreateProduct(t, client, "A", "1.00")
	b := testutil.MustCreateProduct(t, client, "B", "2.00", testutil.Inactive())

	found, err := repo.FindActiveByIDs(context.Background(), []int64{a.ID, b.ID, 999})
	require.NoError(t, err)
	assert.Len(t, found, 1)
	assert.Contains(t, found, a.ID)
	assert.Equal(t, "1.00", found[a.ID].Price.StringFixed(2))
}
