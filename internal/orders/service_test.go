package orders

import (
	"context"
	"testing"

	"github.com/angelmondragon/storefront-backend/internal/testutil"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListAndGetKeepSoftDeletedProducts(t *testing.T) {
	client := testutil.OpenSQLite(t)
	svc := newTestService(t, client, nil)
	ctx := context.Background()

	user := testutil.MustCreateUser(t, client, "", "")
	other := testutil.MustCreateUser(t, client, "", "")
	a := testutil.MustCreateProduct(t, client, "Retired Template", "20.00")
	b := testutil.MustCreateProduct(t, client, "Icons", "5.00")

	first, err := svc.Checkout(ctx, user.ID, CheckoutRequest{
		Items:       []CheckoutItem{{ProductID: a.ID, Quantity: 1}},
		TotalAmount: dec("20.00"),
	})
	require.NoError(t, err)
	second, err := svc.Checkout(ctx, user.ID, CheckoutRequest{
		Items:       []CheckoutItem{{ProductID: a.ID, Quantity: 1}, {ProductID: b.ID, Quantity: 3}},
		TotalAmount: dec("35.00"),
	})
	require.NoError(t, err)

	require.NoError(t, client.DB().Model(&models.Product{}).Where("id = ?", a.ID).Update("is_active", false).Error)

	list, err := svc.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list.Orders, 2)
	assert.Equal(t, second.OrderID, list.Orders[0].ID)
	assert.Equal(t, first.OrderID, list.Orders[1].ID)
	require.Len(t, list.Orders[0].Items, 2)
	assert.Equal(t, "Retired Template", list.Orders[0].Items[0].Name)
	assert.Nil(t, list.Orders[0].Items[0].DigitalFileURL, "list view omits download links")
	assert.Equal(t, "35.00", string(list.Orders[0].TotalAmount))

	detail, err := svc.Get(ctx, user.ID, first.OrderID)
	require.NoError(t, err)
	require.Len(t, detail.Order.Items, 1)
	assert.Equal(t, "Retired Template", detail.Order.Items[0].Name)
	assert.Equal(t, "20.00", string(detail.Order.Items[0].Price))
	assert.NotNil(t, detail.Order.Items[0].DigitalFileURL)

	_, err = svc.Get(ctx, other.ID, first.OrderID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	_, err = svc.Get(ctx, user.ID, second.OrderID+100)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	empty, err := svc.List(ctx, other.ID)
	require.NoError(t, err)
	assert.NotNil(t, empty.Orders)
	assert.Empty(t, empty.Orders)
}
