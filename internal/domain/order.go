package domain

import (
	"strings"
	"time"
)

// Pricing rules applied when an order is placed.
const (
	FreeShippingThreshold = 100.0
	FlatShippingPrice     = 10.0
	TaxRate               = 0.15
)

// Order is a placed order, owned by the customer who placed it.
type Order struct {
	ID            string
	OwnerID       string
	OwnerName     string // filled on read
	Items         []OrderItem
	Shipping      ShippingAddress
	PaymentMethod string
	ItemsPrice    float64
	ShippingPrice float64
	TaxPrice      float64
	TotalPrice    float64
	IsPaid        bool
	PaidAt        *time.Time
	Payment       *PaymentResult
	IsDelivered   bool
	DeliveredAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (o *Order) ResourceID() string    { return o.ID }
func (o *Order) ResourceOwner() string { return o.OwnerID }

// OrderItem is one line of an order. Name, image and price are copied from
// the product when the order is placed.
type OrderItem struct {
	ID        string
	OrderID   string
	ProductID string
	Name      string
	Image     string
	Price     float64
	Quantity  int
}

// ShippingAddress is where an order is delivered.
type ShippingAddress struct {
	FullName   string
	Address    string
	City       string
	PostalCode string
	Country    string
}

// PaymentResult is the payment confirmation reported by the client. No
// payment provider is contacted.
type PaymentResult struct {
	ID           string
	Status       string
	UpdateTime   string
	EmailAddress string
}

// OrderItemInput references a product and a quantity.
type OrderItemInput struct {
	ProductID string
	Quantity  int
}

// OrderInput holds fields for placing an order.
type OrderInput struct {
	Items         []OrderItemInput
	Shipping      ShippingAddress
	PaymentMethod string
}

// Validate checks the request shape. Product existence is checked by the
// order service.
func (r *OrderInput) Validate() error {
	if len(r.Items) == 0 {
		return ErrValidation("order must contain at least one item")
	}
	seen := make(map[string]bool, len(r.Items))
	for _, it := range r.Items {
		if !ValidID(it.ProductID) {
			return ErrValidation("invalid product id %q", it.ProductID)
		}
		if seen[it.ProductID] {
			return ErrValidation("product %s listed more than once", it.ProductID)
		}
		seen[it.ProductID] = true
		if it.Quantity < 1 {
			return ErrValidation("quantity must be at least 1")
		}
	}
	s := r.Shipping
	if err := requireAll("full_name", s.FullName, "address", s.Address, "city", s.City,
		"postal_code", s.PostalCode, "country", s.Country); err != nil {
		return err
	}
	r.PaymentMethod = strings.TrimSpace(r.PaymentMethod)
	return required("payment_method", r.PaymentMethod)
}

// PriceOrder computes the order totals from its items.
func (o *Order) PriceOrder() {
	items := 0.0
	for _, it := range o.Items {
		items += it.Price * float64(it.Quantity)
	}
	o.ItemsPrice = Round2(items)
	if o.ItemsPrice > FreeShippingThreshold {
		o.ShippingPrice = 0
	} else {
		o.ShippingPrice = FlatShippingPrice
	}
	o.TaxPrice = Round2(TaxRate * o.ItemsPrice)
	o.TotalPrice = Round2(o.ItemsPrice + o.ShippingPrice + o.TaxPrice)
}

// DailySales aggregates paid and unpaid orders for one calendar day.
type DailySales struct {
	Date   string
	Orders int64
	Sales  float64
}

// OrderSummary is the administrator dashboard aggregate.
type OrderSummary struct {
	Orders      int64
	Sales       float64
	Users       int64
	DailyOrders []DailySales
}
