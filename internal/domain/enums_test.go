package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveRedemptionStatus(t *testing.T) {
	limitOne := 1
	limitFive := 5

	tests := []struct {
		name       string
		order      *RedemptionOrder
		usageCount int
		usageLimit *int
		want       RedemptionStatus
	}{
		{
			name: "fulfilled order is delivered",
			order: &RedemptionOrder{
				FinancialStatus:   "paid",
				FulfillmentStatus: "fulfilled",
			},
			want: RedemptionOrderDelivered,
		},
		{
			name: "partial fulfillment is processed",
			order: &RedemptionOrder{
				FinancialStatus:   "paid",
				FulfillmentStatus: "partial",
			},
			want: RedemptionOrderProcessed,
		},
		{
			name: "paid but unfulfilled is processed",
			order: &RedemptionOrder{
				FinancialStatus: "paid",
			},
			want: RedemptionOrderProcessed,
		},
		{
			name: "pending order is redeemed",
			order: &RedemptionOrder{
				FinancialStatus: "pending",
			},
			want: RedemptionRedeemed,
		},
		{
			name:       "no order, usage at limit is fully used",
			usageCount: 1,
			usageLimit: &limitOne,
			want:       RedemptionFullyUsed,
		},
		{
			name:       "no order, usage below limit is redeemed",
			usageCount: 2,
			usageLimit: &limitFive,
			want:       RedemptionRedeemed,
		},
		{
			name:       "no order, usage without limit is redeemed",
			usageCount: 3,
			want:       RedemptionRedeemed,
		},
		{
			name: "no order, no usage is not redeemed",
			want: RedemptionNotRedeemed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveRedemptionStatus(tt.order, tt.usageCount, tt.usageLimit)
			assert.Equal(t, tt.want, got)
		})
	}
}
