package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icare/internal/access"
	internaldb "icare/internal/db"
	"icare/internal/db/crypto"
	"icare/internal/db/repository"
	"icare/internal/domain"
	"icare/internal/testutil"
)

const (
	u1    = "0190a000-0000-7000-8000-000000000001"
	u2    = "0190a000-0000-7000-8000-000000000002"
	admin = "0190a000-0000-7000-8000-0000000000aa"
)

type fixture struct {
	products *ProductService
	orders   *OrderService
	cards    *CardService
	orderDB  *repository.OrderRepo
	audit    *testutil.MockAuditRepo
}

func setup(t *testing.T) *fixture {
	t.Helper()
	pool := internaldb.OpenTestSQLite(t)
	audit := &testutil.MockAuditRepo{}
	guard := access.NewGuard(audit, nil, nil)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	enc, err := crypto.NewEncryptor(key)
	require.NoError(t, err)

	productRepo := repository.NewProductRepo(pool)
	orderRepo := repository.NewOrderRepo(pool)
	return &fixture{
		products: NewProductService(productRepo, audit, guard),
		orders:   NewOrderService(orderRepo, productRepo, audit, guard),
		cards:    NewCardService(repository.NewCardRepo(pool, enc), audit, guard),
		orderDB:  orderRepo,
		audit:    audit,
	}
}

func (f *fixture) product(t *testing.T, slug string, price float64, stock int) *domain.Product {
	t.Helper()
	p, err := f.products.Create(testutil.AsAdmin(admin), domain.ProductInput{
		Name: "Frame " + slug, Slug: slug, Image: "/images/" + slug + ".jpg", Brand: "ICare",
		Category: "Frames", Description: "Acetate frame", Price: price, CountInStock: stock,
	})
	require.NoError(t, err)
	return p
}

func shipping() domain.ShippingAddress {
	return domain.ShippingAddress{FullName: "Ama Mensah", Address: "1 Ring Rd", City: "Accra", PostalCode: "00233", Country: "GH"}
}

func TestProduct_PublicReadAdminWrite(t *testing.T) {
	f := setup(t)
	p := f.product(t, "round-tortoise", 49.99, 5)

	got, err := f.products.Get(testutil.Anonymous(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "round-tortoise", got.Slug)

	bySlug, err := f.products.GetBySlug(testutil.Anonymous(), "Round-Tortoise")
	require.NoError(t, err)
	assert.Equal(t, p.ID, bySlug.ID)

	_, err = f.products.GetBySlug(testutil.Anonymous(), "missing")
	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Product Not Found", notFound.Message)

	_, err = f.products.Create(testutil.As(u1), domain.ProductInput{Name: "x"})
	var denied *domain.AccessDeniedError
	require.ErrorAs(t, err, &denied)

	price := 39.99
	updated, err := f.products.Update(testutil.AsAdmin(admin), p.ID, domain.ProductUpdate{Price: &price})
	require.NoError(t, err)
	assert.InDelta(t, 39.99, updated.Price, 0.001)

	dup := f.product(t, "square-black", 10, 1)
	slug := "round-tortoise"
	_, err = f.products.Update(testutil.AsAdmin(admin), dup.ID, domain.ProductUpdate{Slug: &slug})
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestProduct_Reviews(t *testing.T) {
	f := setup(t)
	p := f.product(t, "aviator", 80, 3)

	_, err := f.products.AddReview(testutil.Anonymous(), p.ID, domain.ReviewInput{Rating: 5, Comment: "great"})
	var unauth *domain.UnauthenticatedError
	require.ErrorAs(t, err, &unauth)

	got, err := f.products.AddReview(testutil.As(u1), p.ID, domain.ReviewInput{Rating: 5, Comment: "great"})
	require.NoError(t, err)
	assert.Equal(t, 1, got.NumReviews)

	got, err = f.products.AddReview(testutil.As(u2), p.ID, domain.ReviewInput{Rating: 2, Comment: "too heavy"})
	require.NoError(t, err)
	assert.Equal(t, 2, got.NumReviews)
	assert.InDelta(t, 3.5, got.Rating, 0.001)
	require.Len(t, got.Reviews, 2)

	_, err = f.products.AddReview(testutil.As(u1), p.ID, domain.ReviewInput{Rating: 4, Comment: "again"})
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)

	_, err = f.products.AddReview(testutil.As(u1), domain.NewID(), domain.ReviewInput{Rating: 4, Comment: "?"})
	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)

	_, err = f.products.AddReview(testutil.As(u1), p.ID, domain.ReviewInput{Rating: 6, Comment: "x"})
	var invalid *domain.ValidationError
	require.ErrorAs(t, err, &invalid)
}

func TestOrder_CreatePricesFromCatalogue(t *testing.T) {
	f := setup(t)
	cheap := f.product(t, "case", 20, 10)
	dear := f.product(t, "progressive", 90, 10)

	tests := []struct {
		name         string
		items        []domain.OrderItemInput
		wantItems    float64
		wantShipping float64
		wantTax      float64
		wantTotal    float64
	}{
		{
			name:         "under threshold pays shipping",
			items:        []domain.OrderItemInput{{ProductID: cheap.ID, Quantity: 2}},
			wantItems:    40,
			wantShipping: 10,
			wantTax:      6,
			wantTotal:    56,
		},
		{
			name:         "over threshold ships free",
			items:        []domain.OrderItemInput{{ProductID: cheap.ID, Quantity: 1}, {ProductID: dear.ID, Quantity: 1}},
			wantItems:    110,
			wantShipping: 0,
			wantTax:      16.5,
			wantTotal:    126.5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := f.orders.Create(testutil.As(u1), domain.OrderInput{
				Items: tt.items, Shipping: shipping(), PaymentMethod: "PayPal",
			})
			require.NoError(t, err)
			assert.Equal(t, u1, o.OwnerID)
			assert.InDelta(t, tt.wantItems, o.ItemsPrice, 0.001)
			assert.InDelta(t, tt.wantShipping, o.ShippingPrice, 0.001)
			assert.InDelta(t, tt.wantTax, o.TaxPrice, 0.001)
			assert.InDelta(t, tt.wantTotal, o.TotalPrice, 0.001)
			assert.Len(t, o.Items, len(tt.items))
		})
	}
}

func TestOrder_MissingProductIsReferential(t *testing.T) {
	f := setup(t)
	p := f.product(t, "case", 20, 10)

	_, err := f.orders.Create(testutil.As(u1), domain.OrderInput{
		Items: []domain.OrderItemInput{
			{ProductID: p.ID, Quantity: 1},
			{ProductID: domain.NewID(), Quantity: 1},
		},
		Shipping: shipping(), PaymentMethod: "PayPal",
	})
	var ref *domain.ReferentialError
	require.ErrorAs(t, err, &ref)
	assert.Equal(t, "Product Not Found", ref.Message)

	_, total, err := f.orderDB.List(context.Background(), domain.Scope{}, domain.PageRequest{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestOrder_InsufficientStock(t *testing.T) {
	f := setup(t)
	p := f.product(t, "limited", 20, 1)

	_, err := f.orders.Create(testutil.As(u1), domain.OrderInput{
		Items: []domain.OrderItemInput{{ProductID: p.ID, Quantity: 2}}, Shipping: shipping(), PaymentMethod: "PayPal",
	})
	var invalid *domain.ValidationError
	require.ErrorAs(t, err, &invalid)
}

func TestOrder_PayDeliverSummary(t *testing.T) {
	f := setup(t)
	p := f.product(t, "case", 20, 10)
	o, err := f.orders.Create(testutil.As(u1), domain.OrderInput{
		Items: []domain.OrderItemInput{{ProductID: p.ID, Quantity: 1}}, Shipping: shipping(), PaymentMethod: "PayPal",
	})
	require.NoError(t, err)

	payment := domain.PaymentResult{ID: "PAY-1", Status: "COMPLETED", EmailAddress: "ama@icare.test"}

	_, err = f.orders.Pay(testutil.As(u2), o.ID, payment)
	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)

	paid, err := f.orders.Pay(testutil.As(u1), o.ID, payment)
	require.NoError(t, err)
	assert.True(t, paid.IsPaid)
	require.NotNil(t, paid.PaidAt)
	require.NotNil(t, paid.Payment)
	assert.Equal(t, "PAY-1", paid.Payment.ID)

	_, err = f.orders.Pay(testutil.As(u1), o.ID, payment)
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)

	_, err = f.orders.Deliver(testutil.As(u1), o.ID)
	var denied *domain.AccessDeniedError
	require.ErrorAs(t, err, &denied)

	delivered, err := f.orders.Deliver(testutil.AsAdmin(admin), o.ID)
	require.NoError(t, err)
	assert.True(t, delivered.IsDelivered)

	_, err = f.orders.Summary(testutil.As(u1))
	require.ErrorAs(t, err, &denied)

	sum, err := f.orders.Summary(testutil.AsAdmin(admin))
	require.NoError(t, err)
	assert.Equal(t, int64(1), sum.Orders)
	assert.InDelta(t, o.TotalPrice, sum.Sales, 0.001)
}

func TestOrder_OwnerCannotDelete(t *testing.T) {
	f := setup(t)
	p := f.product(t, "case", 20, 10)
	o, err := f.orders.Create(testutil.As(u1), domain.OrderInput{
		Items: []domain.OrderItemInput{{ProductID: p.ID, Quantity: 1}}, Shipping: shipping(), PaymentMethod: "PayPal",
	})
	require.NoError(t, err)

	err = f.orders.Delete(testutil.As(u1), o.ID)
	var denied *domain.AccessDeniedError
	require.ErrorAs(t, err, &denied)

	require.NoError(t, f.orders.Delete(testutil.AsAdmin(admin), o.ID))
}

func TestCard_Lifecycle(t *testing.T) {
	f := setup(t)

	c, err := f.cards.Create(testutil.As(u1), domain.CardInput{
		HolderName: "Ama Mensah", Number: "4111 1111 1111 1111", Expiry: "12/29", CVV: "123", CardType: "Visa",
	})
	require.NoError(t, err)
	assert.Equal(t, u1, c.OwnerID)
	assert.Equal(t, "1111", c.Last4)

	got, err := f.cards.Get(testutil.As(u1), c.ID)
	require.NoError(t, err)
	assert.Equal(t, "4111111111111111", got.Number)

	_, err = f.cards.Get(testutil.As(u2), c.ID)
	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Card Not Found", notFound.Message)

	list, _, err := f.cards.List(testutil.As(u1), true, domain.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Empty(t, list[0].CVV)

	number := "5500 0000 0000 0004"
	updated, err := f.cards.Update(testutil.As(u1), c.ID, domain.CardUpdate{Number: &number})
	require.NoError(t, err)
	assert.Equal(t, "0004", updated.Last4)

	err = f.cards.Delete(testutil.As(u1), c.ID)
	var denied *domain.AccessDeniedError
	require.ErrorAs(t, err, &denied)

	require.NoError(t, f.cards.Delete(testutil.AsAdmin(admin), c.ID))
}
