package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrder_PriceOrder(t *testing.T) {
	tests := []struct {
		name         string
		items        []OrderItem
		wantItems    float64
		wantShipping float64
		wantTax      float64
		wantTotal    float64
	}{
		{
			name:         "small order pays flat shipping",
			items:        []OrderItem{{Price: 20, Quantity: 2}},
			wantItems:    40,
			wantShipping: 10,
			wantTax:      6,
			wantTotal:    56,
		},
		{
			name:         "exactly threshold still pays shipping",
			items:        []OrderItem{{Price: 50, Quantity: 2}},
			wantItems:    100,
			wantShipping: 10,
			wantTax:      15,
			wantTotal:    125,
		},
		{
			name:         "over threshold ships free",
			items:        []OrderItem{{Price: 89.99, Quantity: 1}, {Price: 19.99, Quantity: 1}},
			wantItems:    109.98,
			wantShipping: 0,
			wantTax:      16.5,
			wantTotal:    126.48,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &Order{Items: tt.items}
			o.PriceOrder()
			assert.InDelta(t, tt.wantItems, o.ItemsPrice, 0.001)
			assert.InDelta(t, tt.wantShipping, o.ShippingPrice, 0.001)
			assert.InDelta(t, tt.wantTax, o.TaxPrice, 0.001)
			assert.InDelta(t, tt.wantTotal, o.TotalPrice, 0.001)
		})
	}
}

func TestOrderInput_Validate(t *testing.T) {
	valid := func() OrderInput {
		return OrderInput{
			Items: []OrderItemInput{{ProductID: NewID(), Quantity: 1}},
			Shipping: ShippingAddress{
				FullName: "Ada", Address: "1 Lens St", City: "Colombo", PostalCode: "00100", Country: "LK",
			},
			PaymentMethod: "PayPal",
		}
	}

	in := valid()
	require.NoError(t, in.Validate())

	tests := []struct {
		name   string
		mutate func(*OrderInput)
	}{
		{"no items", func(o *OrderInput) { o.Items = nil }},
		{"bad product id", func(o *OrderInput) { o.Items[0].ProductID = "abc" }},
		{"zero quantity", func(o *OrderInput) { o.Items[0].Quantity = 0 }},
		{"duplicate product", func(o *OrderInput) { o.Items = append(o.Items, o.Items[0]) }},
		{"missing city", func(o *OrderInput) { o.Shipping.City = "" }},
		{"missing payment method", func(o *OrderInput) { o.PaymentMethod = "  " }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid()
			tt.mutate(&in)
			var ve *ValidationError
			assert.ErrorAs(t, in.Validate(), &ve)
		})
	}
}
