package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/revloop/loyaltyapi/internal/shopify"
	"github.com/revloop/loyaltyapi/pkg/errors"
)

func newProductService(t *testing.T, gw *fakeGateway) *productService {
	repos := newTestRepos(t)
	installTestShop(t, repos)
	return NewProductService(repos, gw.factory(), zap.NewNop())
}

func TestListProductsPaging(t *testing.T) {
	gw := &fakeGateway{
		products: []shopify.Product{
			{ID: 1, Title: "Red Shirt"},
			{ID: 2, Title: "Blue Shirt"},
		},
	}
	svc := newProductService(t, gw)

	page, err := svc.ListProducts(context.Background(), testShop, ProductListOptions{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Products, 2)
	assert.True(t, page.HasMore, "full page means more may follow")
	require.NotNil(t, page.LastProductID)
	assert.Equal(t, int64(2), *page.LastProductID)

	page, err = svc.ListProducts(context.Background(), testShop, ProductListOptions{Limit: 50})
	require.NoError(t, err)
	assert.False(t, page.HasMore)
}

func TestListProductsSearchFiltersByTitle(t *testing.T) {
	gw := &fakeGateway{
		products: []shopify.Product{
			{ID: 1, Title: "Red Shirt"},
			{ID: 2, Title: "Blue Hat"},
			{ID: 3, Title: "Crimson shirt"},
		},
	}
	svc := newProductService(t, gw)

	page, err := svc.ListProducts(context.Background(), testShop, ProductListOptions{Search: "shirt"})
	require.NoError(t, err)
	require.Len(t, page.Products, 2)
	assert.Equal(t, int64(1), page.Products[0].ID)
	assert.Equal(t, int64(3), page.Products[1].ID)

	// Cursor tracks the raw page, not the filtered view
	require.NotNil(t, page.LastProductID)
	assert.Equal(t, int64(3), *page.LastProductID)
}

func TestGetProduct(t *testing.T) {
	gw := &fakeGateway{
		products: []shopify.Product{{ID: 7, Title: "Red Shirt"}},
	}
	svc := newProductService(t, gw)

	product, err := svc.GetProduct(context.Background(), testShop, 7)
	require.NoError(t, err)
	assert.Equal(t, "Red Shirt", product.Title)

	_, err = svc.GetProduct(context.Background(), testShop, 8)
	var upstream *errors.ErrUpstream
	assert.ErrorAs(t, err, &upstream)
}
