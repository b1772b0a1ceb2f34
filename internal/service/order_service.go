package service

import (
	"context"
	"strconv"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/revloop/loyaltyapi/internal/domain"
	"github.com/revloop/loyaltyapi/internal/repository"
	"github.com/revloop/loyaltyapi/internal/shopify"
	"github.com/revloop/loyaltyapi/pkg/errors"
)

const refundNote = "Campaign promise met - refund for loyalty program"

// OrderService exposes the correlated order view and the campaign promise
// workflow.
type OrderService interface {
	GetAllOrders(ctx context.Context, shopDomain string) ([]domain.OrderView, error)
	MarkCampaignPromiseMet(ctx context.Context, req MarkCampaignPromiseMetRequest) (*CampaignResult, error)
}

// DiscountLister is the slice of DiscountService the order view needs
type DiscountLister interface {
	ListDiscountCodes(ctx context.Context, shopDomain string) ([]domain.DiscountRow, error)
}

// Restocker runs the decoupled restock sub-workflow
type Restocker interface {
	Restock(ctx context.Context, shopDomain string, shopifyOrderID int64, order *shopify.Order) (int64, error)
}

type orderService struct {
	repos     *repository.Repositories
	gateway   shopify.GatewayFactory
	discounts DiscountLister
	restocker Restocker
	logger    *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(
	repos *repository.Repositories,
	gateway shopify.GatewayFactory,
	discounts DiscountLister,
	restocker Restocker,
	logger *zap.Logger,
) *orderService {
	return &orderService{
		repos:     repos,
		gateway:   gateway,
		discounts: discounts,
		restocker: restocker,
		logger:    logger,
	}
}

// GetAllOrders returns every discount-code row for the shop merged with its
// campaign record, keyed by the numeric Shopify order id.
func (s *orderService) GetAllOrders(ctx context.Context, shopDomain string) ([]domain.OrderView, error) {
	if _, err := s.repos.Shop.Get(ctx, shopDomain); err != nil {
		return nil, err
	}

	rows, err := s.discounts.ListDiscountCodes(ctx, shopDomain)
	if err != nil {
		return nil, err
	}

	records, err := s.repos.Campaign.ListByShop(ctx, shopDomain)
	if err != nil {
		return nil, err
	}
	recordsByOrderID := make(map[int64]*domain.CampaignRecord, len(records))
	for _, record := range records {
		recordsByOrderID[record.ShopifyOrderID] = record
	}

	views := make([]domain.OrderView, 0, len(rows))
	for _, row := range rows {
		view := domain.OrderView{DiscountRow: row}
		if row.ShopifyOrderID != nil {
			if record, ok := recordsByOrderID[*row.ShopifyOrderID]; ok {
				view.CampaignStatus = record.CampaignStatus
				view.RefundAmount = record.RefundAmount
				view.RefundTransactionID = record.RefundTransactionID
				view.RestockStatus = record.RestockStatus
			}
		}
		views = append(views, view)
	}

	return views, nil
}

// MarkCampaignPromiseMet validates that the order is fulfilled, refunds the
// full amount the customer paid, records campaign state, and optionally
// kicks off the restock sub-workflow.
//
// The restock runs detached: this call returns once the refund and status
// writes are done, and the restock outcome lands in the campaign record
// some time later. A refund failure still records PromiseMet (without a
// transaction id) so the attempt is visible for reconciliation.
func (s *orderService) MarkCampaignPromiseMet(ctx context.Context, req MarkCampaignPromiseMetRequest) (*CampaignResult, error) {
	shop, err := s.repos.Shop.Get(ctx, req.Shop)
	if err != nil {
		return nil, err
	}
	gw := s.gateway(shop.ShopDomain, shop.AccessToken)

	order, err := gw.GetOrder(ctx, req.ShopifyOrderID)
	if err != nil {
		s.logger.Error("Failed to fetch order",
			zap.String("shop_domain", req.Shop),
			zap.Int64("shopify_order_id", req.ShopifyOrderID),
			zap.Error(err),
		)
		return nil, upstreamError("fetch order", "failed to fetch order details from Shopify", err)
	}

	if order.FulfillmentStatus != "fulfilled" {
		return nil, &errors.ErrPrecondition{Message: "order must be fulfilled before marking campaign promise met"}
	}

	// The refund returns what the customer actually paid after the
	// discount, not the pre-discount subtotal.
	refundAmount := parseAmount(order.TotalPrice)
	refundAmountStr := refundAmount.StringFixed(2)

	input := s.buildRefundInput(ctx, gw, req.ShopifyOrderID, order, refundAmountStr)

	refund, err := gw.CreateRefund(ctx, req.ShopifyOrderID, input)
	if err != nil {
		s.logger.Error("Failed to create refund",
			zap.String("shop_domain", req.Shop),
			zap.Int64("shopify_order_id", req.ShopifyOrderID),
			zap.Error(err),
		)

		// Record the attempt anyway so the record shows a promise was
		// made; the missing transaction id marks the refund as unsettled.
		update := domain.CampaignUpdate{
			CampaignStatus: campaignStatusPtr(domain.CampaignPromiseMet),
			RedeemedCode:   firstDiscountCode(order),
			RefundAmount:   &refundAmountStr,
		}
		if updErr := s.repos.Campaign.Update(ctx, req.Shop, req.ShopifyOrderID, update); updErr != nil {
			s.logger.Error("Failed to record campaign status after refund failure", zap.Error(updErr))
		}

		return nil, upstreamError("create refund", "failed to create refund in Shopify", err)
	}

	refundTransactionID := strconv.FormatInt(refund.ID, 10)

	update := domain.CampaignUpdate{
		CampaignStatus:      campaignStatusPtr(domain.CampaignPromiseMet),
		RedeemedCode:        firstDiscountCode(order),
		RefundAmount:        &refundAmountStr,
		RefundTransactionID: &refundTransactionID,
	}
	if err := s.repos.Campaign.Update(ctx, req.Shop, req.ShopifyOrderID, update); err != nil {
		return nil, err
	}

	if req.ShouldRestock {
		pending := domain.RestockPending
		if err := s.repos.Campaign.Update(ctx, req.Shop, req.ShopifyOrderID, domain.CampaignUpdate{RestockStatus: &pending}); err != nil {
			return nil, err
		}
		s.startRestock(req.Shop, req.ShopifyOrderID, order)
	}

	// The refund call is synchronous on Shopify's side, so the campaign is
	// complete as soon as it returns. Restock, if any, trails behind.
	completed := domain.CampaignCompleted
	if err := s.repos.Campaign.Update(ctx, req.Shop, req.ShopifyOrderID, domain.CampaignUpdate{CampaignStatus: &completed}); err != nil {
		return nil, err
	}

	s.logger.Info("Campaign promise met",
		zap.String("shop_domain", req.Shop),
		zap.String("order_id", req.OrderID),
		zap.Int64("shopify_order_id", req.ShopifyOrderID),
		zap.String("refund_amount", refundAmountStr),
		zap.Bool("restock_initiated", req.ShouldRestock),
	)

	return &CampaignResult{
		Success:          true,
		RefundID:         &refundTransactionID,
		RefundAmount:     refundAmountStr,
		Message:          "Refund initiated successfully",
		RestockInitiated: req.ShouldRestock,
	}, nil
}

// buildRefundInput assembles the refund payload: every line item at its
// full quantity, plus explicit refund transactions when the order's
// successful sale transactions are visible. The transaction fetch is
// best-effort; with no transactions supplied Shopify matches them itself.
func (s *orderService) buildRefundInput(ctx context.Context, gw shopify.Gateway, shopifyOrderID int64, order *shopify.Order, refundAmount string) shopify.RefundInput {
	input := shopify.RefundInput{
		Note:            refundNote,
		Notify:          false,
		RefundLineItems: make([]shopify.RefundLineItem, 0, len(order.LineItems)),
	}
	for _, item := range order.LineItems {
		input.RefundLineItems = append(input.RefundLineItems, shopify.RefundLineItem{
			LineItemID: item.ID,
			Quantity:   item.Quantity,
		})
	}

	transactions, err := gw.ListTransactions(ctx, shopifyOrderID)
	if err != nil {
		s.logger.Warn("Failed to fetch transactions, letting Shopify match the refund",
			zap.Int64("shopify_order_id", shopifyOrderID),
			zap.Error(err),
		)
		return input
	}

	for _, txn := range transactions {
		if txn.Kind != "sale" || txn.Status != "success" {
			continue
		}
		if !parseAmount(txn.Amount).IsPositive() {
			continue
		}
		gateway := txn.Gateway
		if gateway == "" {
			gateway = "manual"
		}
		input.Transactions = append(input.Transactions, shopify.RefundTransaction{
			ParentID: txn.ID,
			Amount:   refundAmount,
			Gateway:  gateway,
			Kind:     "refund",
		})
	}

	return input
}

// startRestock launches the detached restock task. The caller never waits
// on it; completion is observed through the campaign record.
func (s *orderService) startRestock(shopDomain string, shopifyOrderID int64, order *shopify.Order) {
	go func() {
		ctx := context.Background()

		locationID, err := s.restocker.Restock(ctx, shopDomain, shopifyOrderID, order)
		status := domain.RestockDone
		if err != nil {
			s.logger.Error("Restock failed",
				zap.String("shop_domain", shopDomain),
				zap.Int64("shopify_order_id", shopifyOrderID),
				zap.Error(err),
			)
			status = domain.RestockFailed
		} else {
			s.logger.Info("Restock completed",
				zap.String("shop_domain", shopDomain),
				zap.Int64("shopify_order_id", shopifyOrderID),
				zap.Int64("location_id", locationID),
			)
		}

		if err := s.repos.Campaign.Update(ctx, shopDomain, shopifyOrderID, domain.CampaignUpdate{RestockStatus: &status}); err != nil {
			s.logger.Error("Failed to update restock status",
				zap.String("shop_domain", shopDomain),
				zap.Int64("shopify_order_id", shopifyOrderID),
				zap.Error(err),
			)
		}
	}()
}

// parseAmount parses a Shopify decimal string, treating blanks and garbage
// as zero the way the gateway's own clients do.
func parseAmount(value string) decimal.Decimal {
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero
	}
	return amount
}

func firstDiscountCode(order *shopify.Order) *string {
	if len(order.DiscountCodes) == 0 {
		return nil
	}
	return &order.DiscountCodes[0].Code
}

func campaignStatusPtr(status domain.CampaignStatus) *domain.CampaignStatus {
	return &status
}
