package repository

import (
	"context"

	"github.com/revloop/loyaltyapi/internal/domain"
)

// ShopRepository defines shop credential data access methods
type ShopRepository interface {
	Save(ctx context.Context, shopDomain, accessToken string, shopData map[string]interface{}) error
	Get(ctx context.Context, shopDomain string) (*domain.Shop, error)
	List(ctx context.Context) ([]*domain.ShopListing, error)
	Delete(ctx context.Context, shopDomain string) error
}

// CampaignRepository defines campaign status data access methods.
// Update is an upsert: the record is created lazily on first write, and nil
// fields of the update leave existing values untouched.
type CampaignRepository interface {
	Get(ctx context.Context, shopDomain string, shopifyOrderID int64) (*domain.CampaignRecord, error)
	ListByShop(ctx context.Context, shopDomain string) ([]*domain.CampaignRecord, error)
	Update(ctx context.Context, shopDomain string, shopifyOrderID int64, update domain.CampaignUpdate) error
}

// Repositories aggregates all repositories
type Repositories struct {
	Shop     ShopRepository
	Campaign CampaignRepository
}
