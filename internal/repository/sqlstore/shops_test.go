package sqlstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revloop/loyaltyapi/pkg/errors"
)

func TestShopSaveAndGet(t *testing.T) {
	db := openTestDB(t)
	repo := NewShopRepository(db, testSealer(), testLogger())
	ctx := context.Background()

	shopData := map[string]interface{}{"name": "Test Shop", "currency": "USD"}
	require.NoError(t, repo.Save(ctx, "test.myshopify.com", "shpat_token", shopData))

	shop, err := repo.Get(ctx, "test.myshopify.com")
	require.NoError(t, err)
	assert.Equal(t, "test.myshopify.com", shop.ShopDomain)
	assert.Equal(t, "shpat_token", shop.AccessToken)
	assert.Equal(t, "Test Shop", shop.ShopData["name"])
	assert.False(t, shop.InstalledAt.IsZero())
}

func TestShopTokenIsSealedAtRest(t *testing.T) {
	db := openTestDB(t)
	repo := NewShopRepository(db, testSealer(), testLogger())
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "test.myshopify.com", "shpat_secret_token", nil))

	var stored string
	err := db.QueryRow(`SELECT access_token_encrypted FROM shops WHERE shop_domain = $1`, "test.myshopify.com").Scan(&stored)
	require.NoError(t, err)
	assert.NotContains(t, stored, "shpat_secret_token")
}

func TestShopSaveOverwritesOnReinstall(t *testing.T) {
	db := openTestDB(t)
	repo := NewShopRepository(db, testSealer(), testLogger())
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "test.myshopify.com", "old-token", nil))
	require.NoError(t, repo.Save(ctx, "test.myshopify.com", "new-token", nil))

	shop, err := repo.Get(ctx, "test.myshopify.com")
	require.NoError(t, err)
	assert.Equal(t, "new-token", shop.AccessToken)
}

func TestShopGetMissing(t *testing.T) {
	db := openTestDB(t)
	repo := NewShopRepository(db, testSealer(), testLogger())

	_, err := repo.Get(context.Background(), "absent.myshopify.com")
	require.Error(t, err)
	var notFound *errors.ErrShopNotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestShopListAndDelete(t *testing.T) {
	db := openTestDB(t)
	repo := NewShopRepository(db, testSealer(), testLogger())
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "a.myshopify.com", "token-a", nil))
	require.NoError(t, repo.Save(ctx, "b.myshopify.com", "token-b", nil))

	shops, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, shops, 2)

	require.NoError(t, repo.Delete(ctx, "a.myshopify.com"))

	shops, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, shops, 1)
	assert.Equal(t, "b.myshopify.com", shops[0].ShopDomain)
}
