package service

import "github.com/revloop/loyaltyapi/internal/shopify"

// CreateDiscountRequest is the payload for creating a discount code
type CreateDiscountRequest struct {
	Shop               string   `json:"shop" binding:"required"`
	Code               string   `json:"code" binding:"required"`
	Percentage         float64  `json:"percentage" binding:"required,gte=1,lte=100"`
	MinimumOrderAmount *float64 `json:"minimumOrderAmount,omitempty"`
	ExpiresAt          *string  `json:"expiresAt,omitempty"` // RFC3339
	UsageLimit         *int     `json:"usageLimit,omitempty"`
}

// CreateDiscountResult mirrors what Shopify created
type CreateDiscountResult struct {
	Success      bool                  `json:"success"`
	PriceRule    *shopify.PriceRule    `json:"priceRule"`
	DiscountCode *shopify.DiscountCode `json:"discountCode"`
}

// MarkCampaignPromiseMetRequest is the payload for the campaign workflow.
// OrderID is the human-facing order name; ShopifyOrderID is authoritative.
type MarkCampaignPromiseMetRequest struct {
	Shop           string `json:"shop" binding:"required"`
	OrderID        string `json:"orderId"`
	ShopifyOrderID int64  `json:"shopifyOrderId" binding:"required"`
	ShouldRestock  bool   `json:"shouldRestock"`
}

// CampaignResult is returned when the campaign workflow succeeds. Restock,
// when initiated, completes after this result is returned; its outcome is
// visible only through the campaign record.
type CampaignResult struct {
	Success          bool    `json:"success"`
	RefundID         *string `json:"refundId"`
	RefundAmount     string  `json:"refundAmount"`
	Message          string  `json:"message"`
	RestockInitiated bool    `json:"restockInitiated"`
}

// ProductListOptions controls product browsing
type ProductListOptions struct {
	Limit   int
	SinceID int64
	Search  string
}

// ProductPage is one since_id-cursored page of products
type ProductPage struct {
	Products      []shopify.Product `json:"products"`
	LastProductID *int64            `json:"lastProductId"`
	HasMore       bool              `json:"hasMore"`
}
