package domain

// RedemptionStatus is the derived display status of a discount code. It is
// computed from the latest matching order (or usage counters when no order
// is visible) and never stored.
type RedemptionStatus string

const (
	RedemptionNotRedeemed    RedemptionStatus = "Not Redeemed"
	RedemptionRedeemed       RedemptionStatus = "Redeemed"
	RedemptionOrderProcessed RedemptionStatus = "Order Processed"
	RedemptionOrderDelivered RedemptionStatus = "Order Delivered"
	RedemptionFullyUsed      RedemptionStatus = "Fully Used"
)

// CampaignStatus tracks the refund workflow for one (shop, order) pair.
type CampaignStatus string

const (
	CampaignPromiseMet CampaignStatus = "Campaign Promise Met"
	CampaignCompleted  CampaignStatus = "Campaign Completed"
)

// RestockStatus tracks the decoupled restock sub-workflow. It is only set
// when restock was requested at orchestration time.
type RestockStatus string

const (
	RestockPending RestockStatus = "Restock Pending"
	RestockDone    RestockStatus = "Restocked"
	RestockFailed  RestockStatus = "Restock Failed"
)

// DeriveRedemptionStatus computes the display status for a discount code.
// order is the most recent order that redeemed the code, or nil when none
// is visible; usage counters come from the backing price rule.
func DeriveRedemptionStatus(order *RedemptionOrder, usageCount int, usageLimit *int) RedemptionStatus {
	if order != nil {
		switch {
		case order.FulfillmentStatus == "fulfilled":
			return RedemptionOrderDelivered
		case order.FulfillmentStatus == "partial":
			return RedemptionOrderProcessed
		case order.FinancialStatus == "paid":
			return RedemptionOrderProcessed
		default:
			return RedemptionRedeemed
		}
	}
	if usageCount > 0 {
		if usageLimit != nil && usageCount >= *usageLimit {
			return RedemptionFullyUsed
		}
		return RedemptionRedeemed
	}
	return RedemptionNotRedeemed
}
