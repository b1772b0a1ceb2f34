package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/revloop/loyaltyapi/internal/repository"
	"github.com/revloop/loyaltyapi/internal/shopify"
	"github.com/revloop/loyaltyapi/pkg/errors"
)

type restockService struct {
	repos   *repository.Repositories
	gateway shopify.GatewayFactory
	logger  *zap.Logger
}

// NewRestockService creates a new restock service
func NewRestockService(repos *repository.Repositories, gateway shopify.GatewayFactory, logger *zap.Logger) *restockService {
	return &restockService{
		repos:   repos,
		gateway: gateway,
		logger:  logger,
	}
}

// Restock returns every line item's ordered quantity to stock at the
// resolved location and reports which location was used.
//
// Line items are processed concurrently. Items without a variant are
// skipped; a variant lookup or inventory adjustment failure aborts the
// whole restock with the first error. There is no partial-success result.
func (s *restockService) Restock(ctx context.Context, shopDomain string, shopifyOrderID int64, order *shopify.Order) (int64, error) {
	shop, err := s.repos.Shop.Get(ctx, shopDomain)
	if err != nil {
		return 0, err
	}
	gw := s.gateway(shop.ShopDomain, shop.AccessToken)

	locationID, err := s.resolveLocation(ctx, gw, shopifyOrderID, order)
	if err != nil {
		return 0, err
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, item := range order.LineItems {
		item := item
		if item.VariantID == nil {
			s.logger.Warn("Line item has no variant, skipping restock",
				zap.Int64("shopify_order_id", shopifyOrderID),
				zap.Int64("line_item_id", item.ID),
			)
			continue
		}

		g.Go(func() error {
			variant, err := gw.GetVariant(gctx, *item.VariantID)
			if err != nil {
				return fmt.Errorf("failed to fetch variant %d: %w", *item.VariantID, err)
			}
			if variant.InventoryItemID == nil {
				s.logger.Warn("Variant has no inventory item, skipping restock",
					zap.Int64("shopify_order_id", shopifyOrderID),
					zap.Int64("variant_id", *item.VariantID),
				)
				return nil
			}

			if err := gw.AdjustInventoryLevel(gctx, locationID, *variant.InventoryItemID, item.Quantity); err != nil {
				return fmt.Errorf("failed to restock variant %d: %w", *item.VariantID, err)
			}

			s.logger.Info("Restocked line item",
				zap.Int64("shopify_order_id", shopifyOrderID),
				zap.Int64("variant_id", *item.VariantID),
				zap.Int("quantity", item.Quantity),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}
	return locationID, nil
}

// resolveLocation prefers the location of the order's first fulfillment and
// falls back to the shop's first listed location.
func (s *restockService) resolveLocation(ctx context.Context, gw shopify.Gateway, shopifyOrderID int64, order *shopify.Order) (int64, error) {
	if len(order.Fulfillments) > 0 && order.Fulfillments[0].LocationID != nil {
		return *order.Fulfillments[0].LocationID, nil
	}

	locations, err := gw.ListLocations(ctx)
	if err != nil {
		return 0, upstreamError("list locations", "failed to list stock locations", err)
	}
	if len(locations) == 0 {
		return 0, &errors.ErrNoLocation{ShopifyOrderID: shopifyOrderID}
	}
	return locations[0].ID, nil
}
