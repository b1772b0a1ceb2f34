package service

import (
	"context"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/revloop/loyaltyapi/internal/domain"
	"github.com/revloop/loyaltyapi/internal/repository"
	"github.com/revloop/loyaltyapi/internal/shopify"
	"github.com/revloop/loyaltyapi/pkg/errors"
)

// listPageLimit caps the price-rule and order listings at one Shopify page.
// Shops with more rules or more recent orders than this are truncated; the
// correlator does not paginate further.
const listPageLimit = 250

// promoAlphabet excludes characters that read ambiguously (0/O, 1/I/L)
const promoAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const promoCodeLength = 8

// DiscountService issues discount codes and correlates them with the orders
// that redeemed them.
type DiscountService interface {
	GeneratePromoCode() string
	CreateDiscountCode(ctx context.Context, req CreateDiscountRequest) (*CreateDiscountResult, error)
	ListDiscountCodes(ctx context.Context, shopDomain string) ([]domain.DiscountRow, error)
}

type discountService struct {
	repos   *repository.Repositories
	gateway shopify.GatewayFactory
	logger  *zap.Logger
}

// NewDiscountService creates a new discount service
func NewDiscountService(repos *repository.Repositories, gateway shopify.GatewayFactory, logger *zap.Logger) *discountService {
	return &discountService{
		repos:   repos,
		gateway: gateway,
		logger:  logger,
	}
}

// GeneratePromoCode suggests a random promo code
func (s *discountService) GeneratePromoCode() string {
	var b strings.Builder
	b.Grow(promoCodeLength)
	for i := 0; i < promoCodeLength; i++ {
		b.WriteByte(promoAlphabet[rand.Intn(len(promoAlphabet))])
	}
	return b.String()
}

// CreateDiscountCode creates a percentage price rule and a discount code
// under it. Shopify models the pair as 1-rule:N-codes; this app always
// creates exactly one code per rule.
func (s *discountService) CreateDiscountCode(ctx context.Context, req CreateDiscountRequest) (*CreateDiscountResult, error) {
	shop, err := s.repos.Shop.Get(ctx, req.Shop)
	if err != nil {
		return nil, err
	}
	gw := s.gateway(shop.ShopDomain, shop.AccessToken)

	usageLimit := 1
	if req.UsageLimit != nil {
		usageLimit = *req.UsageLimit
	}

	input := shopify.PriceRuleInput{
		Title:             "Discount: " + req.Code,
		TargetType:        "line_item",
		TargetSelection:   "all",
		AllocationMethod:  "across",
		ValueType:         "percentage",
		Value:             "-" + strconv.FormatFloat(req.Percentage, 'f', -1, 64), // Shopify expects negative for discount
		CustomerSelection: "all",
		StartsAt:          time.Now().UTC().Format(time.RFC3339),
		UsageLimit:        usageLimit,
	}
	if req.MinimumOrderAmount != nil {
		input.PrerequisiteSubtotalRange = &shopify.SubtotalRange{
			GreaterThanOrEqualTo: strconv.FormatFloat(*req.MinimumOrderAmount, 'f', -1, 64),
		}
	}
	if req.ExpiresAt != nil && *req.ExpiresAt != "" {
		expiresAt, parseErr := time.Parse(time.RFC3339, *req.ExpiresAt)
		if parseErr != nil {
			return nil, &errors.ErrValidation{Message: "expiresAt must be an RFC3339 timestamp"}
		}
		endsAt := expiresAt.UTC().Format(time.RFC3339)
		input.EndsAt = &endsAt
	}

	rule, err := gw.CreatePriceRule(ctx, input)
	if err != nil {
		s.logger.Error("Failed to create price rule", zap.String("shop_domain", req.Shop), zap.Error(err))
		return nil, upstreamError("create discount code", "failed to create discount code in Shopify", err)
	}

	code, err := gw.CreateDiscountCode(ctx, rule.ID, req.Code)
	if err != nil {
		s.logger.Error("Failed to create discount code",
			zap.String("shop_domain", req.Shop),
			zap.Int64("price_rule_id", rule.ID),
			zap.Error(err),
		)
		return nil, upstreamError("create discount code", "failed to create discount code in Shopify", err)
	}

	return &CreateDiscountResult{
		Success:      true,
		PriceRule:    rule,
		DiscountCode: code,
	}, nil
}

// ListDiscountCodes produces one row per discount code on the shop with the
// best-known redemption state.
//
// Order data is enrichment only: if the order listing fails (e.g. the app
// lacks the read_orders scope) correlation proceeds with usage counters
// alone. A failure fetching one price rule's codes skips that rule. Only a
// failure listing the price rules themselves aborts the call.
func (s *discountService) ListDiscountCodes(ctx context.Context, shopDomain string) ([]domain.DiscountRow, error) {
	shop, err := s.repos.Shop.Get(ctx, shopDomain)
	if err != nil {
		return nil, err
	}
	gw := s.gateway(shop.ShopDomain, shop.AccessToken)

	rules, err := gw.ListPriceRules(ctx, listPageLimit)
	if err != nil {
		s.logger.Error("Failed to list price rules", zap.String("shop_domain", shopDomain), zap.Error(err))
		return nil, upstreamError("list price rules", "failed to fetch discount codes from Shopify", err)
	}

	codeToOrders := s.mapCodesToOrders(ctx, gw, shopDomain)

	rows := make([]domain.DiscountRow, 0, len(rules))
	for _, rule := range rules {
		codes, err := gw.ListDiscountCodes(ctx, rule.ID)
		if err != nil {
			s.logger.Error("Failed to fetch discount codes for price rule, skipping",
				zap.String("shop_domain", shopDomain),
				zap.Int64("price_rule_id", rule.ID),
				zap.Error(err),
			)
			continue
		}

		for _, code := range codes {
			row := domain.DiscountRow{
				Code:        code.Code,
				ID:          code.ID,
				PriceRuleID: rule.ID,
				UsageCount:  rule.UsageCount,
				UsageLimit:  rule.UsageLimit,
				CreatedAt:   code.CreatedAt,
				Title:       rule.Title,
			}

			var latest *domain.RedemptionOrder
			if matched := codeToOrders[strings.ToUpper(code.Code)]; len(matched) > 0 {
				// Most recent by listing order wins
				order := matched[len(matched)-1]
				latest = &order

				row.OrderID = &order.Name
				row.ShopifyOrderID = &order.ID
				if order.CustomerName != "" {
					row.OrderedBy = &order.CustomerName
				}
				if order.TotalBeforeDiscount != "" {
					row.TotalBill = &order.TotalBeforeDiscount
				}
				if order.AmountPaid != "" {
					row.AmountPaid = &order.AmountPaid
				}
			}

			row.Status = domain.DeriveRedemptionStatus(latest, rule.UsageCount, rule.UsageLimit)
			rows = append(rows, row)
		}
	}

	return rows, nil
}

// mapCodesToOrders lists recent orders and indexes them by uppercased
// discount code, preserving listing order. Returns an empty map when the
// listing fails.
func (s *discountService) mapCodesToOrders(ctx context.Context, gw shopify.Gateway, shopDomain string) map[string][]domain.RedemptionOrder {
	codeToOrders := make(map[string][]domain.RedemptionOrder)

	orders, err := gw.ListOrdersWithDiscounts(ctx, listPageLimit)
	if err != nil {
		s.logger.Warn("Failed to fetch orders, continuing without order data",
			zap.String("shop_domain", shopDomain),
			zap.Error(err),
		)
		return codeToOrders
	}

	for _, order := range orders {
		if len(order.DiscountCodes) == 0 {
			continue
		}
		redemption := redemptionFromOrder(order)
		for _, dc := range order.DiscountCodes {
			key := strings.ToUpper(dc.Code)
			codeToOrders[key] = append(codeToOrders[key], redemption)
		}
	}

	return codeToOrders
}

// redemptionFromOrder converts the Shopify wire shape to the internal model.
// Nothing downstream of the correlator sees the wire shape.
func redemptionFromOrder(order shopify.Order) domain.RedemptionOrder {
	var customerName string
	if order.Customer != nil {
		customerName = strings.TrimSpace(order.Customer.FirstName + " " + order.Customer.LastName)
	}

	totalBefore := order.TotalLineItemsPrice
	if totalBefore == "" {
		totalBefore = order.SubtotalPrice
	}
	if totalBefore == "" {
		totalBefore = "0.00"
	}

	amountPaid := order.TotalPrice
	if amountPaid == "" {
		amountPaid = order.SubtotalPrice
	}
	if amountPaid == "" {
		amountPaid = "0.00"
	}

	return domain.RedemptionOrder{
		ID:                  order.ID,
		Name:                order.Name,
		FinancialStatus:     order.FinancialStatus,
		FulfillmentStatus:   order.FulfillmentStatus,
		CreatedAt:           order.CreatedAt,
		CustomerName:        customerName,
		TotalBeforeDiscount: totalBefore,
		AmountPaid:          amountPaid,
	}
}

// upstreamError wraps a gateway failure, preferring Shopify's own error text
// over the fallback message.
func upstreamError(operation, fallback string, err error) error {
	message := shopify.ErrorMessage(err)
	if message == "" {
		message = fallback
	}
	return &errors.ErrUpstream{Operation: operation, Message: message, Err: err}
}
