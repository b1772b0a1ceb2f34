package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/revloop/loyaltyapi/internal/config"
	"github.com/revloop/loyaltyapi/internal/repository"
	"github.com/revloop/loyaltyapi/internal/repository/sqlstore"
	"github.com/revloop/loyaltyapi/internal/shopify"
	"github.com/revloop/loyaltyapi/pkg/crypto"
)

const testShop = "test.myshopify.com"

// newTestRepos backs the services with a real sqlite database so the
// campaign status writes the workflows make are observable.
func newTestRepos(t *testing.T) *repository.Repositories {
	t.Helper()

	db, err := sqlstore.NewConnection(config.DatabaseConfig{
		Driver: "sqlite3",
		Path:   filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, sqlstore.EnsureSchema(db))

	return sqlstore.NewRepositories(db, crypto.NewSealer("test-secret"), zap.NewNop())
}

func installTestShop(t *testing.T, repos *repository.Repositories) {
	t.Helper()
	require.NoError(t, repos.Shop.Save(context.Background(), testShop, "shpat_test", nil))
}

type inventoryAdjustment struct {
	LocationID      int64
	InventoryItemID int64
	Adjustment      int
}

// fakeGateway is an in-memory Gateway. Fields configure canned responses;
// call slices record what the services sent.
type fakeGateway struct {
	mu sync.Mutex

	priceRules    []shopify.PriceRule
	priceRulesErr error

	codesByRule    map[int64][]shopify.DiscountCode
	codesErrByRule map[int64]error

	orders    []shopify.Order
	ordersErr error

	order    *shopify.Order
	orderErr error

	transactions    []shopify.Transaction
	transactionsErr error

	refund       *shopify.Refund
	refundErr    error
	refundInputs []shopify.RefundInput

	locations    []shopify.Location
	locationsErr error

	variants   map[int64]*shopify.Variant
	variantErr error

	adjustErr   error
	adjustments []inventoryAdjustment

	createdRules []shopify.PriceRuleInput
	createdCodes []string

	products    []shopify.Product
	productsErr error

	shopDetails map[string]interface{}
}

func (f *fakeGateway) factory() shopify.GatewayFactory {
	return func(shopDomain, accessToken string) shopify.Gateway { return f }
}

func (f *fakeGateway) ListPriceRules(ctx context.Context, limit int) ([]shopify.PriceRule, error) {
	return f.priceRules, f.priceRulesErr
}

func (f *fakeGateway) CreatePriceRule(ctx context.Context, input shopify.PriceRuleInput) (*shopify.PriceRule, error) {
	f.mu.Lock()
	f.createdRules = append(f.createdRules, input)
	f.mu.Unlock()
	return &shopify.PriceRule{ID: 100, Title: input.Title, UsageLimit: &input.UsageLimit}, nil
}

func (f *fakeGateway) ListDiscountCodes(ctx context.Context, priceRuleID int64) ([]shopify.DiscountCode, error) {
	if err := f.codesErrByRule[priceRuleID]; err != nil {
		return nil, err
	}
	return f.codesByRule[priceRuleID], nil
}

func (f *fakeGateway) CreateDiscountCode(ctx context.Context, priceRuleID int64, code string) (*shopify.DiscountCode, error) {
	f.mu.Lock()
	f.createdCodes = append(f.createdCodes, code)
	f.mu.Unlock()
	return &shopify.DiscountCode{ID: 200, PriceRuleID: priceRuleID, Code: code}, nil
}

func (f *fakeGateway) ListOrdersWithDiscounts(ctx context.Context, limit int) ([]shopify.Order, error) {
	return f.orders, f.ordersErr
}

func (f *fakeGateway) GetOrder(ctx context.Context, orderID int64) (*shopify.Order, error) {
	return f.order, f.orderErr
}

func (f *fakeGateway) ListTransactions(ctx context.Context, orderID int64) ([]shopify.Transaction, error) {
	return f.transactions, f.transactionsErr
}

func (f *fakeGateway) CreateRefund(ctx context.Context, orderID int64, input shopify.RefundInput) (*shopify.Refund, error) {
	f.mu.Lock()
	f.refundInputs = append(f.refundInputs, input)
	f.mu.Unlock()
	if f.refundErr != nil {
		return nil, f.refundErr
	}
	if f.refund != nil {
		return f.refund, nil
	}
	return &shopify.Refund{ID: 9001}, nil
}

func (f *fakeGateway) ListLocations(ctx context.Context) ([]shopify.Location, error) {
	return f.locations, f.locationsErr
}

func (f *fakeGateway) GetVariant(ctx context.Context, variantID int64) (*shopify.Variant, error) {
	if f.variantErr != nil {
		return nil, f.variantErr
	}
	if v, ok := f.variants[variantID]; ok {
		return v, nil
	}
	return &shopify.Variant{ID: variantID}, nil
}

func (f *fakeGateway) AdjustInventoryLevel(ctx context.Context, locationID, inventoryItemID int64, adjustment int) error {
	if f.adjustErr != nil {
		return f.adjustErr
	}
	f.mu.Lock()
	f.adjustments = append(f.adjustments, inventoryAdjustment{
		LocationID:      locationID,
		InventoryItemID: inventoryItemID,
		Adjustment:      adjustment,
	})
	f.mu.Unlock()
	return nil
}

func (f *fakeGateway) ListProducts(ctx context.Context, limit int, sinceID int64) ([]shopify.Product, error) {
	if f.productsErr != nil {
		return nil, f.productsErr
	}
	if limit < len(f.products) {
		return f.products[:limit], nil
	}
	return f.products, nil
}

func (f *fakeGateway) GetProduct(ctx context.Context, productID int64) (*shopify.Product, error) {
	for i := range f.products {
		if f.products[i].ID == productID {
			return &f.products[i], nil
		}
	}
	return nil, &shopify.APIError{StatusCode: 404, Message: "Not Found"}
}

func (f *fakeGateway) GetShopDetails(ctx context.Context) (map[string]interface{}, error) {
	return f.shopDetails, nil
}

func (f *fakeGateway) recordedRefunds() []shopify.RefundInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]shopify.RefundInput(nil), f.refundInputs...)
}

func (f *fakeGateway) recordedAdjustments() []inventoryAdjustment {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]inventoryAdjustment(nil), f.adjustments...)
}

func int64Ptr(v int64) *int64 { return &v }

func intPtr(v int) *int { return &v }
