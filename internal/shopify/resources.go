package shopify

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// orderFields is the projection requested when listing orders for discount
// correlation; everything the correlator needs and nothing more.
const orderFields = "id,name,financial_status,fulfillment_status,created_at,discount_codes,customer,total_line_items_price,subtotal_price,total_price"

// PriceRule is the Shopify rule backing one or more discount codes
type PriceRule struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	UsageCount int    `json:"usage_count"`
	UsageLimit *int   `json:"usage_limit"`
}

// PriceRuleInput is the payload for creating a price rule
type PriceRuleInput struct {
	Title                     string         `json:"title"`
	TargetType                string         `json:"target_type"`
	TargetSelection           string         `json:"target_selection"`
	AllocationMethod          string         `json:"allocation_method"`
	ValueType                 string         `json:"value_type"`
	Value                     string         `json:"value"`
	CustomerSelection         string         `json:"customer_selection"`
	StartsAt                  string         `json:"starts_at"`
	EndsAt                    *string        `json:"ends_at,omitempty"`
	UsageLimit                int            `json:"usage_limit"`
	PrerequisiteSubtotalRange *SubtotalRange `json:"prerequisite_subtotal_range,omitempty"`
}

type SubtotalRange struct {
	GreaterThanOrEqualTo string `json:"greater_than_or_equal_to"`
}

// DiscountCode is a redeemable code bound to one price rule
type DiscountCode struct {
	ID          int64  `json:"id"`
	PriceRuleID int64  `json:"price_rule_id"`
	Code        string `json:"code"`
	UsageCount  int    `json:"usage_count"`
	CreatedAt   string `json:"created_at"`
}

// Order is the Shopify order wire shape, limited to the fields this app uses
type Order struct {
	ID                  int64             `json:"id"`
	Name                string            `json:"name"`
	FinancialStatus     string            `json:"financial_status"`
	FulfillmentStatus   string            `json:"fulfillment_status"`
	CreatedAt           string            `json:"created_at"`
	DiscountCodes       []AppliedDiscount `json:"discount_codes"`
	Customer            *Customer         `json:"customer"`
	TotalLineItemsPrice string            `json:"total_line_items_price"`
	SubtotalPrice       string            `json:"subtotal_price"`
	TotalPrice          string            `json:"total_price"`
	LineItems           []LineItem        `json:"line_items"`
	Fulfillments        []Fulfillment     `json:"fulfillments"`
}

type AppliedDiscount struct {
	Code   string `json:"code"`
	Amount string `json:"amount"`
	Type   string `json:"type"`
}

type Customer struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type LineItem struct {
	ID        int64  `json:"id"`
	VariantID *int64 `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

type Fulfillment struct {
	ID         int64  `json:"id"`
	LocationID *int64 `json:"location_id"`
}

// Transaction is a payment transaction on an order
type Transaction struct {
	ID      int64  `json:"id"`
	Kind    string `json:"kind"`
	Status  string `json:"status"`
	Amount  string `json:"amount"`
	Gateway string `json:"gateway"`
}

// RefundInput is the payload for creating a refund
type RefundInput struct {
	Note            string              `json:"note"`
	Notify          bool                `json:"notify"`
	RefundLineItems []RefundLineItem    `json:"refund_line_items"`
	Transactions    []RefundTransaction `json:"transactions,omitempty"`
}

type RefundLineItem struct {
	LineItemID int64 `json:"line_item_id"`
	Quantity   int   `json:"quantity"`
}

type RefundTransaction struct {
	ParentID int64  `json:"parent_id"`
	Amount   string `json:"amount"`
	Gateway  string `json:"gateway"`
	Kind     string `json:"kind"`
}

// Refund is the created refund returned by Shopify
type Refund struct {
	ID int64 `json:"id"`
}

// Location is a stock location
type Location struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Variant links a sellable variant to its inventory item
type Variant struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	Price           string `json:"price"`
	InventoryItemID *int64 `json:"inventory_item_id"`
}

// Product is the Shopify product wire shape used by the browsing endpoints
type Product struct {
	ID          int64            `json:"id"`
	Title       string           `json:"title"`
	Vendor      string           `json:"vendor"`
	ProductType string           `json:"product_type"`
	CreatedAt   string           `json:"created_at"`
	Image       *ProductImage    `json:"image"`
	Variants    []ProductVariant `json:"variants"`
}

type ProductImage struct {
	Src string `json:"src"`
}

type ProductVariant struct {
	ID                int64  `json:"id"`
	Title             string `json:"title"`
	Price             string `json:"price"`
	InventoryQuantity int    `json:"inventory_quantity"`
}

// Gateway is the Shopify surface consumed by the services. *Client is the
// production implementation; tests substitute fakes.
type Gateway interface {
	ListPriceRules(ctx context.Context, limit int) ([]PriceRule, error)
	CreatePriceRule(ctx context.Context, input PriceRuleInput) (*PriceRule, error)
	ListDiscountCodes(ctx context.Context, priceRuleID int64) ([]DiscountCode, error)
	CreateDiscountCode(ctx context.Context, priceRuleID int64, code string) (*DiscountCode, error)
	ListOrdersWithDiscounts(ctx context.Context, limit int) ([]Order, error)
	GetOrder(ctx context.Context, orderID int64) (*Order, error)
	ListTransactions(ctx context.Context, orderID int64) ([]Transaction, error)
	CreateRefund(ctx context.Context, orderID int64, input RefundInput) (*Refund, error)
	ListLocations(ctx context.Context) ([]Location, error)
	GetVariant(ctx context.Context, variantID int64) (*Variant, error)
	AdjustInventoryLevel(ctx context.Context, locationID, inventoryItemID int64, adjustment int) error
	ListProducts(ctx context.Context, limit int, sinceID int64) ([]Product, error)
	GetProduct(ctx context.Context, productID int64) (*Product, error)
	GetShopDetails(ctx context.Context) (map[string]interface{}, error)
}

// GatewayFactory builds a Gateway for one shop's credentials
type GatewayFactory func(shopDomain, accessToken string) Gateway

// ListPriceRules lists price rules for the shop. Only the first page is
// fetched; shops with more than limit rules are truncated.
func (c *Client) ListPriceRules(ctx context.Context, limit int) ([]PriceRule, error) {
	var out struct {
		PriceRules []PriceRule `json:"price_rules"`
	}
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	if err := c.get(ctx, "price_rules.json", q, &out); err != nil {
		return nil, fmt.Errorf("list price rules: %w", err)
	}
	return out.PriceRules, nil
}

func (c *Client) CreatePriceRule(ctx context.Context, input PriceRuleInput) (*PriceRule, error) {
	body := map[string]interface{}{"price_rule": input}
	var out struct {
		PriceRule PriceRule `json:"price_rule"`
	}
	if err := c.post(ctx, "price_rules.json", body, &out); err != nil {
		return nil, fmt.Errorf("create price rule: %w", err)
	}
	return &out.PriceRule, nil
}

func (c *Client) ListDiscountCodes(ctx context.Context, priceRuleID int64) ([]DiscountCode, error) {
	var out struct {
		DiscountCodes []DiscountCode `json:"discount_codes"`
	}
	path := fmt.Sprintf("price_rules/%d/discount_codes.json", priceRuleID)
	if err := c.get(ctx, path, nil, &out); err != nil {
		return nil, fmt.Errorf("list discount codes for price rule %d: %w", priceRuleID, err)
	}
	return out.DiscountCodes, nil
}

func (c *Client) CreateDiscountCode(ctx context.Context, priceRuleID int64, code string) (*DiscountCode, error) {
	body := map[string]interface{}{
		"discount_code": map[string]string{"code": code},
	}
	var out struct {
		DiscountCode DiscountCode `json:"discount_code"`
	}
	path := fmt.Sprintf("price_rules/%d/discount_codes.json", priceRuleID)
	if err := c.post(ctx, path, body, &out); err != nil {
		return nil, fmt.Errorf("create discount code: %w", err)
	}
	return &out.DiscountCode, nil
}

// ListOrdersWithDiscounts lists recent orders of any status with the field
// projection the correlator needs. Single page, like price rules.
func (c *Client) ListOrdersWithDiscounts(ctx context.Context, limit int) ([]Order, error) {
	var out struct {
		Orders []Order `json:"orders"`
	}
	q := url.Values{
		"limit":  {strconv.Itoa(limit)},
		"status": {"any"},
		"fields": {orderFields},
	}
	if err := c.get(ctx, "orders.json", q, &out); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return out.Orders, nil
}

func (c *Client) GetOrder(ctx context.Context, orderID int64) (*Order, error) {
	var out struct {
		Order Order `json:"order"`
	}
	path := fmt.Sprintf("orders/%d.json", orderID)
	if err := c.get(ctx, path, nil, &out); err != nil {
		return nil, fmt.Errorf("get order %d: %w", orderID, err)
	}
	return &out.Order, nil
}

func (c *Client) ListTransactions(ctx context.Context, orderID int64) ([]Transaction, error) {
	var out struct {
		Transactions []Transaction `json:"transactions"`
	}
	path := fmt.Sprintf("orders/%d/transactions.json", orderID)
	if err := c.get(ctx, path, nil, &out); err != nil {
		return nil, fmt.Errorf("list transactions for order %d: %w", orderID, err)
	}
	return out.Transactions, nil
}

func (c *Client) CreateRefund(ctx context.Context, orderID int64, input RefundInput) (*Refund, error) {
	body := map[string]interface{}{"refund": input}
	var out struct {
		Refund Refund `json:"refund"`
	}
	path := fmt.Sprintf("orders/%d/refunds.json", orderID)
	if err := c.post(ctx, path, body, &out); err != nil {
		return nil, fmt.Errorf("create refund for order %d: %w", orderID, err)
	}
	return &out.Refund, nil
}

func (c *Client) ListLocations(ctx context.Context) ([]Location, error) {
	var out struct {
		Locations []Location `json:"locations"`
	}
	if err := c.get(ctx, "locations.json", nil, &out); err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	return out.Locations, nil
}

func (c *Client) GetVariant(ctx context.Context, variantID int64) (*Variant, error) {
	var out struct {
		Variant Variant `json:"variant"`
	}
	path := fmt.Sprintf("variants/%d.json", variantID)
	if err := c.get(ctx, path, nil, &out); err != nil {
		return nil, fmt.Errorf("get variant %d: %w", variantID, err)
	}
	return &out.Variant, nil
}

func (c *Client) AdjustInventoryLevel(ctx context.Context, locationID, inventoryItemID int64, adjustment int) error {
	body := map[string]interface{}{
		"location_id":          locationID,
		"inventory_item_id":    inventoryItemID,
		"available_adjustment": adjustment,
	}
	if err := c.post(ctx, "inventory_levels/adjust.json", body, nil); err != nil {
		return fmt.Errorf("adjust inventory level: %w", err)
	}
	return nil
}

// ListProducts pages with since_id; Shopify caps pages at 250.
func (c *Client) ListProducts(ctx context.Context, limit int, sinceID int64) ([]Product, error) {
	if limit > 250 {
		limit = 250
	}
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	if sinceID > 0 {
		q.Set("since_id", strconv.FormatInt(sinceID, 10))
	}
	var out struct {
		Products []Product `json:"products"`
	}
	if err := c.get(ctx, "products.json", q, &out); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return out.Products, nil
}

func (c *Client) GetProduct(ctx context.Context, productID int64) (*Product, error) {
	var out struct {
		Product Product `json:"product"`
	}
	path := fmt.Sprintf("products/%d.json", productID)
	if err := c.get(ctx, path, nil, &out); err != nil {
		return nil, fmt.Errorf("get product %d: %w", productID, err)
	}
	return &out.Product, nil
}

// GetShopDetails returns the shop blob as Shopify sends it. The shape is
// unspecified; callers store and serve it opaquely.
func (c *Client) GetShopDetails(ctx context.Context) (map[string]interface{}, error) {
	var out struct {
		Shop map[string]interface{} `json:"shop"`
	}
	if err := c.get(ctx, "shop.json", nil, &out); err != nil {
		return nil, fmt.Errorf("get shop details: %w", err)
	}
	return out.Shop, nil
}
