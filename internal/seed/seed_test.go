package seed

import (
	"context"
	"testing"

	"github.com/angelmondragon/storefront-backend/internal/testutil"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPasswordCfg = config.PasswordConfig{
	ArgonMemoryKB:    64,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

func TestCatalogEmbedded(t *testing.T) {
	entries, err := Catalog()
	require.NoError(t, err)
	require.Len(t, entries, 8)
	assert.Equal(t, "Modern Website Template", entries[0].Name)
	assert.Equal(t, "29.99", entries[0].Price.StringFixed(2))
	assert.Equal(t, "Dashboard UI Kit", entries[7].Name)
	assert.Equal(t, 20, entries[7].Stock)
}

func TestRunIsIdempotent(t *testing.T) {
	client := testutil.OpenSQLite(t)
	seeder, err := NewSeeder(client, testPasswordCfg, nil)
	require.NoError(t, err)
	ctx := context.Background()
	opts := OptionsFromConfig(config.SeedConfig{
		AdminName:     "Admin User",
		AdminEmail:    "Admin@DigitalStore.com",
		AdminPassword: "admin123",
	})

	first, err := seeder.Run(ctx, opts)
	require.NoError(t, err)
	assert.True(t, first.AdminCreated)
	assert.Equal(t, 8, first.ProductsCreated)

	second, err := seeder.Run(ctx, opts)
	require.NoError(t, err)
	assert.False(t, second.AdminCreated)
	assert.Equal(t, first.AdminID, second.AdminID)
	assert.Equal(t, 0, second.ProductsCreated)

	var admin models.User
	require.NoError(t, client.DB().Where("email = ?", "admin@digitalstore.com").First(&admin).Error)
	assert.Equal(t, enums.UserRoleAdmin, admin.Role)
	ok, err := security.VerifyPassword("admin123", admin.Password)
	require.NoError(t, err)
	assert.True(t, ok)

	var count int64
	require.NoError(t, client.DB().Model(&models.Product{}).Count(&count).Error)
	assert.EqualValues(t, 8, count)
}

func TestRunSkipCatalogAndValidation(t *testing.T) {
	client := testutil.OpenSQLite(t)
	seeder, err := NewSeeder(client, testPasswordCfg, nil)
	require.NoError(t, err)

	res, err := seeder.Run(context.Background(), Options{AdminEmail: "root@example.com", AdminPassword: "pw123456", SkipCatalog: true})
	require.NoError(t, err)
	assert.True(t, res.AdminCreated)
	assert.Zero(t, res.ProductsCreated)

	_, err = seeder.Run(context.Background(), Options{AdminEmail: " "})
	assert.Error(t, err)

	_, err = NewSeeder(nil, testPasswordCfg, nil)
	assert.Error(t, err)
}
