package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/revloop/loyaltyapi/internal/repository"
	"github.com/revloop/loyaltyapi/internal/shopify"
)

// ProductService browses the shop's product catalog
type ProductService interface {
	ListProducts(ctx context.Context, shopDomain string, opts ProductListOptions) (*ProductPage, error)
	GetProduct(ctx context.Context, shopDomain string, productID int64) (*shopify.Product, error)
}

type productService struct {
	repos   *repository.Repositories
	gateway shopify.GatewayFactory
	logger  *zap.Logger
}

// NewProductService creates a new product service
func NewProductService(repos *repository.Repositories, gateway shopify.GatewayFactory, logger *zap.Logger) *productService {
	return &productService{
		repos:   repos,
		gateway: gateway,
		logger:  logger,
	}
}

// ListProducts pages products with since_id. Search filters by title on our
// side; the Shopify REST listing has no title search parameter.
func (s *productService) ListProducts(ctx context.Context, shopDomain string, opts ProductListOptions) (*ProductPage, error) {
	shop, err := s.repos.Shop.Get(ctx, shopDomain)
	if err != nil {
		return nil, err
	}
	gw := s.gateway(shop.ShopDomain, shop.AccessToken)

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 250 {
		limit = 250
	}

	products, err := gw.ListProducts(ctx, limit, opts.SinceID)
	if err != nil {
		s.logger.Error("Failed to list products", zap.String("shop_domain", shopDomain), zap.Error(err))
		return nil, upstreamError("list products", "failed to fetch products from Shopify", err)
	}

	// hasMore is judged on the unfiltered page: a full page means Shopify
	// may have another one.
	hasMore := len(products) == limit
	var lastProductID *int64
	if len(products) > 0 {
		lastProductID = &products[len(products)-1].ID
	}

	if opts.Search != "" {
		needle := strings.ToLower(opts.Search)
		filtered := make([]shopify.Product, 0, len(products))
		for _, p := range products {
			if strings.Contains(strings.ToLower(p.Title), needle) {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}

	return &ProductPage{
		Products:      products,
		LastProductID: lastProductID,
		HasMore:       hasMore,
	}, nil
}

func (s *productService) GetProduct(ctx context.Context, shopDomain string, productID int64) (*shopify.Product, error) {
	shop, err := s.repos.Shop.Get(ctx, shopDomain)
	if err != nil {
		return nil, err
	}
	gw := s.gateway(shop.ShopDomain, shop.AccessToken)

	product, err := gw.GetProduct(ctx, productID)
	if err != nil {
		s.logger.Error("Failed to get product",
			zap.String("shop_domain", shopDomain),
			zap.Int64("product_id", productID),
			zap.Error(err),
		)
		return nil, upstreamError("get product", "failed to fetch product from Shopify", err)
	}
	return product, nil
}
