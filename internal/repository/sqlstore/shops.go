package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/revloop/loyaltyapi/internal/domain"
	"github.com/revloop/loyaltyapi/pkg/crypto"
	"github.com/revloop/loyaltyapi/pkg/errors"
)

type shopRepository struct {
	db     *sql.DB
	sealer *crypto.Sealer
	logger *zap.Logger
}

// NewShopRepository creates a new shop repository. Access tokens are sealed
// with the given sealer before they touch the database.
func NewShopRepository(db *sql.DB, sealer *crypto.Sealer, logger *zap.Logger) *shopRepository {
	return &shopRepository{
		db:     db,
		sealer: sealer,
		logger: logger,
	}
}

func (r *shopRepository) Save(ctx context.Context, shopDomain, accessToken string, shopData map[string]interface{}) error {
	sealed, err := r.sealer.Seal(accessToken)
	if err != nil {
		return err
	}

	var shopDataJSON interface{}
	if shopData != nil {
		raw, err := json.Marshal(shopData)
		if err != nil {
			return err
		}
		shopDataJSON = string(raw)
	}

	query := `
		INSERT INTO shops (shop_domain, access_token_encrypted, shop_data, installed_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (shop_domain) DO UPDATE SET
			access_token_encrypted = $2,
			shop_data = $3,
			updated_at = $4
	`

	_, err = r.db.ExecContext(ctx, query, shopDomain, sealed, shopDataJSON, time.Now())
	if err != nil {
		r.logger.Error("Failed to save shop", zap.String("shop_domain", shopDomain), zap.Error(err))
		return err
	}

	return nil
}

func (r *shopRepository) Get(ctx context.Context, shopDomain string) (*domain.Shop, error) {
	query := `
		SELECT shop_domain, access_token_encrypted, shop_data, installed_at, updated_at
		FROM shops
		WHERE shop_domain = $1
	`

	var shop domain.Shop
	var sealed string
	var shopDataJSON sql.NullString

	err := r.db.QueryRowContext(ctx, query, shopDomain).Scan(
		&shop.ShopDomain,
		&sealed,
		&shopDataJSON,
		&shop.InstalledAt,
		&shop.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, &errors.ErrShopNotFound{ShopDomain: shopDomain}
	}
	if err != nil {
		r.logger.Error("Failed to get shop", zap.String("shop_domain", shopDomain), zap.Error(err))
		return nil, err
	}

	shop.AccessToken, err = r.sealer.Unseal(sealed)
	if err != nil {
		r.logger.Error("Failed to decrypt access token", zap.String("shop_domain", shopDomain), zap.Error(err))
		return nil, err
	}

	if shopDataJSON.Valid && shopDataJSON.String != "" {
		if err := json.Unmarshal([]byte(shopDataJSON.String), &shop.ShopData); err != nil {
			return nil, err
		}
	}

	return &shop, nil
}

func (r *shopRepository) List(ctx context.Context) ([]*domain.ShopListing, error) {
	query := `
		SELECT shop_domain, installed_at
		FROM shops
		ORDER BY installed_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list shops", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var shops []*domain.ShopListing
	for rows.Next() {
		var listing domain.ShopListing
		if err := rows.Scan(&listing.ShopDomain, &listing.InstalledAt); err != nil {
			return nil, err
		}
		shops = append(shops, &listing)
	}

	return shops, rows.Err()
}

func (r *shopRepository) Delete(ctx context.Context, shopDomain string) error {
	query := `DELETE FROM shops WHERE shop_domain = $1`

	_, err := r.db.ExecContext(ctx, query, shopDomain)
	if err != nil {
		r.logger.Error("Failed to delete shop", zap.String("shop_domain", shopDomain), zap.Error(err))
		return err
	}

	return nil
}
