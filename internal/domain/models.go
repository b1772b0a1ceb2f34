package domain

import "time"

// Shop represents an installed shop with its decrypted access token
type Shop struct {
	ShopDomain  string
	AccessToken string
	ShopData    map[string]interface{} // raw shop blob from Shopify, stored as JSON
	InstalledAt time.Time
	UpdatedAt   time.Time
}

// ShopListing is the public view of an installed shop (no credentials)
type ShopListing struct {
	ShopDomain  string    `json:"shop_domain"`
	InstalledAt time.Time `json:"installed_at"`
}

// RedemptionOrder is an order that redeemed a discount code, converted from
// the Shopify wire shape at ingestion. Money fields stay decimal strings as
// Shopify sends them.
type RedemptionOrder struct {
	ID                  int64
	Name                string
	FinancialStatus     string
	FulfillmentStatus   string
	CreatedAt           string
	CustomerName        string
	TotalBeforeDiscount string
	AmountPaid          string
}

// DiscountRow is one correlated discount-code row: the code, its backing
// price rule, and the best-known redemption state.
type DiscountRow struct {
	Code           string           `json:"code"`
	ID             int64            `json:"id"`
	PriceRuleID    int64            `json:"price_rule_id"`
	Status         RedemptionStatus `json:"status"`
	OrderID        *string          `json:"order_id"`         // human-facing order name
	ShopifyOrderID *int64           `json:"shopify_order_id"` // numeric gateway id
	OrderedBy      *string          `json:"ordered_by"`
	TotalBill      *string          `json:"total_bill"`
	AmountPaid     *string          `json:"amount_paid"`
	UsageCount     int              `json:"usage_count"`
	UsageLimit     *int             `json:"usage_limit"`
	CreatedAt      string           `json:"created_at"`
	Title          string           `json:"title"`
}

// CampaignRecord is the persisted per-(shop, order) campaign state. All
// workflow fields are nullable; absent means the workflow never touched them.
type CampaignRecord struct {
	ShopDomain          string
	ShopifyOrderID      int64
	CampaignStatus      *CampaignStatus
	RedeemedCode        *string
	RefundAmount        *string
	RefundTransactionID *string
	RestockStatus       *RestockStatus
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// CampaignUpdate is a partial update to a CampaignRecord. A nil field means
// "leave unchanged"; there is no way to clear a field back to null, matching
// the workflow's append-only use of the record.
type CampaignUpdate struct {
	CampaignStatus      *CampaignStatus
	RedeemedCode        *string
	RefundAmount        *string
	RefundTransactionID *string
	RestockStatus       *RestockStatus
}

// OrderView merges a correlated discount row with its campaign record
type OrderView struct {
	DiscountRow
	CampaignStatus      *CampaignStatus `json:"campaign_status"`
	RefundAmount        *string         `json:"refund_amount"`
	RefundTransactionID *string         `json:"refund_transaction_id"`
	RestockStatus       *RestockStatus  `json:"restock_status"`
}
