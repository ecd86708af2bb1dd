package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internaldb "icare/internal/db"
	"icare/internal/domain"
)

func placeOrder(t *testing.T, pool *internaldb.Pool, owner string, p *domain.Product, qty int) *domain.Order {
	t.Helper()
	o := &domain.Order{
		OwnerID: owner,
		Items: []domain.OrderItem{{
			ProductID: p.ID, Name: p.Name, Image: p.Image, Price: p.Price, Quantity: qty,
		}},
		Shipping: domain.ShippingAddress{
			FullName: "Pat", Address: "1 Main St", City: "Accra", PostalCode: "00233", Country: "GH",
		},
		PaymentMethod: "PayPal",
	}
	o.PriceOrder()
	out, err := NewOrderRepo(pool).Create(context.Background(), o)
	require.NoError(t, err)
	return out
}

func TestOrderRepo_CreateAndPay(t *testing.T) {
	pool := internaldb.OpenTestSQLite(t)
	repo := NewOrderRepo(pool)
	ctx := context.Background()
	u := createUser(t, pool, "buyer", false)
	p := createProduct(t, pool, "tinted", 30)

	o := placeOrder(t, pool, u.ID, p, 2)
	require.Len(t, o.Items, 1)
	assert.Equal(t, "buyer", o.OwnerName)
	assert.InDelta(t, 60.0, o.ItemsPrice, 0.001)
	assert.InDelta(t, 10.0, o.ShippingPrice, 0.001)
	assert.InDelta(t, 9.0, o.TaxPrice, 0.001)
	assert.InDelta(t, 79.0, o.TotalPrice, 0.001)
	assert.False(t, o.IsPaid)
	assert.Nil(t, o.Payment)

	paidAt := time.Now().UTC()
	o.IsPaid = true
	o.PaidAt = &paidAt
	o.Payment = &domain.PaymentResult{ID: "PAY-1", Status: "COMPLETED", EmailAddress: "buyer@icare.test"}
	got, err := repo.Update(ctx, o)
	require.NoError(t, err)
	assert.True(t, got.IsPaid)
	require.NotNil(t, got.PaidAt)
	require.NotNil(t, got.Payment)
	assert.Equal(t, "PAY-1", got.Payment.ID)
	assert.False(t, got.IsDelivered)
}

func TestOrderRepo_ScopeSummaryDelete(t *testing.T) {
	pool := internaldb.OpenTestSQLite(t)
	repo := NewOrderRepo(pool)
	ctx := context.Background()
	u1 := createUser(t, pool, "one", false)
	u2 := createUser(t, pool, "two", false)
	p := createProduct(t, pool, "case", 50)

	o1 := placeOrder(t, pool, u1.ID, p, 1)
	placeOrder(t, pool, u2.ID, p, 3)

	mine, total, err := repo.List(ctx, domain.OwnedBy(u1.ID), domain.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, mine, 1)
	assert.Len(t, mine[0].Items, 1)

	sum, err := repo.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), sum.Orders)
	assert.Equal(t, int64(2), sum.Users)
	// 50+10+7.5 and 150+0+22.5
	assert.InDelta(t, 240.0, sum.Sales, 0.001)
	require.Len(t, sum.DailyOrders, 1)
	assert.Equal(t, int64(2), sum.DailyOrders[0].Orders)

	require.NoError(t, repo.Delete(ctx, o1.ID))
	var n int
	require.NoError(t, pool.Read.QueryRow(`SELECT COUNT(*) FROM order_items WHERE order_id = ?`, o1.ID).Scan(&n))
	assert.Zero(t, n)
}
