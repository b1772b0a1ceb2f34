package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/revloop/loyaltyapi/internal/domain"
)

type campaignRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCampaignRepository creates a new campaign status repository
func NewCampaignRepository(db *sql.DB, logger *zap.Logger) *campaignRepository {
	return &campaignRepository{
		db:     db,
		logger: logger,
	}
}

// Update upserts the campaign record for (shopDomain, shopifyOrderID).
// COALESCE against the existing row gives the partial-update contract: a nil
// field in the update leaves the stored value as it was.
func (r *campaignRepository) Update(ctx context.Context, shopDomain string, shopifyOrderID int64, update domain.CampaignUpdate) error {
	query := `
		INSERT INTO order_campaign_statuses (
			shop_domain, shopify_order_id, campaign_status, redeemed_code,
			refund_amount, refund_transaction_id, restock_status, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		ON CONFLICT (shop_domain, shopify_order_id) DO UPDATE SET
			campaign_status = COALESCE($3, order_campaign_statuses.campaign_status),
			redeemed_code = COALESCE($4, order_campaign_statuses.redeemed_code),
			refund_amount = COALESCE($5, order_campaign_statuses.refund_amount),
			refund_transaction_id = COALESCE($6, order_campaign_statuses.refund_transaction_id),
			restock_status = COALESCE($7, order_campaign_statuses.restock_status),
			updated_at = $8
	`

	_, err := r.db.ExecContext(ctx, query,
		shopDomain,
		shopifyOrderID,
		statusArg(update.CampaignStatus),
		update.RedeemedCode,
		update.RefundAmount,
		update.RefundTransactionID,
		restockArg(update.RestockStatus),
		time.Now(),
	)

	if err != nil {
		r.logger.Error("Failed to update campaign status",
			zap.String("shop_domain", shopDomain),
			zap.Int64("shopify_order_id", shopifyOrderID),
			zap.Error(err),
		)
		return err
	}

	return nil
}

func (r *campaignRepository) Get(ctx context.Context, shopDomain string, shopifyOrderID int64) (*domain.CampaignRecord, error) {
	query := `
		SELECT shop_domain, shopify_order_id, campaign_status, redeemed_code,
			refund_amount, refund_transaction_id, restock_status, created_at, updated_at
		FROM order_campaign_statuses
		WHERE shop_domain = $1 AND shopify_order_id = $2
	`

	record, err := scanCampaign(r.db.QueryRowContext(ctx, query, shopDomain, shopifyOrderID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get campaign status",
			zap.String("shop_domain", shopDomain),
			zap.Int64("shopify_order_id", shopifyOrderID),
			zap.Error(err),
		)
		return nil, err
	}

	return record, nil
}

func (r *campaignRepository) ListByShop(ctx context.Context, shopDomain string) ([]*domain.CampaignRecord, error) {
	query := `
		SELECT shop_domain, shopify_order_id, campaign_status, redeemed_code,
			refund_amount, refund_transaction_id, restock_status, created_at, updated_at
		FROM order_campaign_statuses
		WHERE shop_domain = $1
	`

	rows, err := r.db.QueryContext(ctx, query, shopDomain)
	if err != nil {
		r.logger.Error("Failed to list campaign statuses", zap.String("shop_domain", shopDomain), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var records []*domain.CampaignRecord
	for rows.Next() {
		record, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCampaign(row rowScanner) (*domain.CampaignRecord, error) {
	var record domain.CampaignRecord
	var campaignStatus, redeemedCode, refundAmount, refundTransactionID, restockStatus sql.NullString

	err := row.Scan(
		&record.ShopDomain,
		&record.ShopifyOrderID,
		&campaignStatus,
		&redeemedCode,
		&refundAmount,
		&refundTransactionID,
		&restockStatus,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if campaignStatus.Valid {
		status := domain.CampaignStatus(campaignStatus.String)
		record.CampaignStatus = &status
	}
	if redeemedCode.Valid {
		record.RedeemedCode = &redeemedCode.String
	}
	if refundAmount.Valid {
		record.RefundAmount = &refundAmount.String
	}
	if refundTransactionID.Valid {
		record.RefundTransactionID = &refundTransactionID.String
	}
	if restockStatus.Valid {
		status := domain.RestockStatus(restockStatus.String)
		record.RestockStatus = &status
	}

	return &record, nil
}

// statusArg and restockArg convert typed status pointers to driver values;
// database/sql does not know the custom string types.
func statusArg(s *domain.CampaignStatus) interface{} {
	if s == nil {
		return nil
	}
	return string(*s)
}

func restockArg(s *domain.RestockStatus) interface{} {
	if s == nil {
		return nil
	}
	return string(*s)
}
