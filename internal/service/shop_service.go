package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/revloop/loyaltyapi/internal/repository"
	"github.com/revloop/loyaltyapi/internal/shopify"
)

// ShopService resolves shop details from Shopify
type ShopService interface {
	FetchShopDetails(ctx context.Context, shopDomain string) (map[string]interface{}, error)
}

type shopService struct {
	repos   *repository.Repositories
	gateway shopify.GatewayFactory
	logger  *zap.Logger
}

// NewShopService creates a new shop service
func NewShopService(repos *repository.Repositories, gateway shopify.GatewayFactory, logger *zap.Logger) *shopService {
	return &shopService{
		repos:   repos,
		gateway: gateway,
		logger:  logger,
	}
}

// FetchShopDetails serves the shop blob captured at install time; when the
// install never captured one it fetches from Shopify and backfills the
// stored record.
func (s *shopService) FetchShopDetails(ctx context.Context, shopDomain string) (map[string]interface{}, error) {
	shop, err := s.repos.Shop.Get(ctx, shopDomain)
	if err != nil {
		return nil, err
	}
	if len(shop.ShopData) > 0 {
		return shop.ShopData, nil
	}

	gw := s.gateway(shop.ShopDomain, shop.AccessToken)
	details, err := gw.GetShopDetails(ctx)
	if err != nil {
		s.logger.Error("Failed to fetch shop details", zap.String("shop_domain", shopDomain), zap.Error(err))
		return nil, upstreamError("fetch shop details", "failed to fetch shop details from Shopify", err)
	}

	if err := s.repos.Shop.Save(ctx, shop.ShopDomain, shop.AccessToken, details); err != nil {
		s.logger.Warn("Failed to backfill shop details", zap.String("shop_domain", shopDomain), zap.Error(err))
	}

	return details, nil
}
