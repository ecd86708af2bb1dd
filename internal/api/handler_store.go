package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"icare/internal/domain"
)

type reviewDTO struct {
	ID        string    `json:"id"`
	User      string    `json:"user"`
	Name      string    `json:"name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

type productDTO struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Slug         string      `json:"slug"`
	Image        string      `json:"image"`
	Brand        string      `json:"brand"`
	Category     string      `json:"category"`
	Description  string      `json:"description"`
	Price        float64     `json:"price"`
	CountInStock int         `json:"count_in_stock"`
	Rating       float64     `json:"rating"`
	NumReviews   int         `json:"num_reviews"`
	Reviews      []reviewDTO `json:"reviews"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func productToAPI(p *domain.Product) productDTO {
	return productDTO{
		ID:           p.ID,
		Name:         p.Name,
		Slug:         p.Slug,
		Image:        p.Image,
		Brand:        p.Brand,
		Category:     p.Category,
		Description:  p.Description,
		Price:        p.Price,
		CountInStock: p.CountInStock,
		Rating:       p.Rating,
		NumReviews:   p.NumReviews,
		Reviews: mapSlice(p.Reviews, func(rv *domain.Review) reviewDTO {
			return reviewDTO{ID: rv.ID, User: rv.OwnerID, Name: rv.Name, Rating: rv.Rating,
				Comment: rv.Comment, CreatedAt: rv.CreatedAt}
		}),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

type productBody struct {
	Name         *string  `json:"name"`
	Slug         *string  `json:"slug"`
	Image        *string  `json:"image"`
	Brand        *string  `json:"brand"`
	Category     *string  `json:"category"`
	Description  *string  `json:"description"`
	Price        *float64 `json:"price"`
	CountInStock *int     `json:"count_in_stock"`
}

type reviewBody struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type orderItemDTO struct {
	Product  string  `json:"product"`
	Name     string  `json:"name"`
	Image    string  `json:"image"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type shippingDTO struct {
	FullName   string `json:"full_name"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type paymentDTO struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	UpdateTime   string `json:"update_time"`
	EmailAddress string `json:"email_address"`
}

type orderDTO struct {
	ID              string         `json:"id"`
	User            string         `json:"user"`
	UserName        string         `json:"user_name,omitempty"`
	OrderItems      []orderItemDTO `json:"order_items"`
	ShippingAddress shippingDTO    `json:"shipping_address"`
	PaymentMethod   string         `json:"payment_method"`
	PaymentResult   *paymentDTO    `json:"payment_result,omitempty"`
	ItemsPrice      float64        `json:"items_price"`
	ShippingPrice   float64        `json:"shipping_price"`
	TaxPrice        float64        `json:"tax_price"`
	TotalPrice      float64        `json:"total_price"`
	IsPaid          bool           `json:"is_paid"`
	PaidAt          *time.Time     `json:"paid_at,omitempty"`
	IsDelivered     bool           `json:"is_delivered"`
	DeliveredAt     *time.Time     `json:"delivered_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

func orderToAPI(o *domain.Order) orderDTO {
	s := o.Shipping
	out := orderDTO{
		ID:       o.ID,
		User:     o.OwnerID,
		UserName: o.OwnerName,
		OrderItems: mapSlice(o.Items, func(it *domain.OrderItem) orderItemDTO {
			return orderItemDTO{Product: it.ProductID, Name: it.Name, Image: it.Image,
				Price: it.Price, Quantity: it.Quantity}
		}),
		ShippingAddress: shippingDTO{FullName: s.FullName, Address: s.Address, City: s.City,
			PostalCode: s.PostalCode, Country: s.Country},
		PaymentMethod: o.PaymentMethod,
		ItemsPrice:    o.ItemsPrice,
		ShippingPrice: o.ShippingPrice,
		TaxPrice:      o.TaxPrice,
		TotalPrice:    o.TotalPrice,
		IsPaid:        o.IsPaid,
		PaidAt:        o.PaidAt,
		IsDelivered:   o.IsDelivered,
		DeliveredAt:   o.DeliveredAt,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
	if p := o.Payment; p != nil {
		out.PaymentResult = &paymentDTO{ID: p.ID, Status: p.Status, UpdateTime: p.UpdateTime, EmailAddress: p.EmailAddress}
	}
	return out
}

// orderBody carries product ids and quantities only; names and prices come
// from the catalogue.
type orderBody struct {
	OrderItems []struct {
		Product  string `json:"product"`
		Quantity int    `json:"quantity"`
	} `json:"order_items"`
	ShippingAddress shippingDTO `json:"shipping_address"`
	PaymentMethod   string      `json:"payment_method"`
}

type dailySalesDTO struct {
	Date   string  `json:"date"`
	Orders int64   `json:"orders"`
	Sales  float64 `json:"sales"`
}

type orderSummaryDTO struct {
	Orders      int64           `json:"orders"`
	Sales       float64         `json:"sales"`
	Users       int64           `json:"users"`
	DailyOrders []dailySalesDTO `json:"daily_orders"`
}

// cardDTO never carries the CVV or the full number.
type cardDTO struct {
	ID             string    `json:"id"`
	User           string    `json:"user"`
	CardHolderName string    `json:"card_holder_name"`
	CardNumber     string    `json:"card_number"`
	Last4          string    `json:"last4"`
	ExpiryDate     string    `json:"expiry_date"`
	CardType       string    `json:"card_type"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func cardToAPI(c *domain.Card) cardDTO {
	return cardDTO{
		ID:             c.ID,
		User:           c.OwnerID,
		CardHolderName: c.HolderName,
		CardNumber:     c.MaskedNumber(),
		Last4:          c.Last4,
		ExpiryDate:     c.Expiry,
		CardType:       c.CardType,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

type cardBody struct {
	CardHolderName *string `json:"card_holder_name"`
	CardNumber     *string `json:"card_number"`
	ExpiryDate     *string `json:"expiry_date"`
	CVV            *string `json:"cvv"`
	CardType       *string `json:"card_type"`
}

// === Products ===

// ListProducts implements GET /products.
func (h *APIHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	page := pageFromRequest(r)
	items, total, err := h.svc.Products.List(r.Context(), page)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeList(w, "products", mapSlice(items, productToAPI), page, total)
}

// GetProduct implements GET /products/{id}.
func (h *APIHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Products.Get(r.Context(), idParam(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeResource(w, http.StatusOK, "Product", "product", productToAPI(p))
}

// GetProductBySlug implements GET /products/slug/{slug}.
func (h *APIHandler) GetProductBySlug(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Products.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeResource(w, http.StatusOK, "Product", "product", productToAPI(p))
}

// CreateProduct implements POST /products.
func (h *APIHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var body productBody
	if err := decodeJSON(r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	in := domain.ProductInput{
		Name:        deref(body.Name),
		Slug:        deref(body.Slug),
		Image:       deref(body.Image),
		Brand:       deref(body.Brand),
		Category:    deref(body.Category),
		Description: deref(body.Description),
	}
	if body.Price != nil {
		in.Price = *body.Price
	}
	if body.CountInStock != nil {
		in.CountInStock = *body.CountInStock
	}
	p, err := h.svc.Products.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeResource(w, http.StatusCreated, "Product Created", "product", productToAPI(p))
}

// UpdateProduct implements PUT /products/{id}.
func (h *APIHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var body productBody
	if err := decodeJSON(r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	p, err := h.svc.Products.Update(r.Context(), idParam(r), domain.ProductUpdate{
		Name:         body.Name,
		Slug:         body.Slug,
		Image:        body.Image,
		Brand:        body.Brand,
		Category:     body.Category,
		Description:  body.Description,
		Price:        body.Price,
		CountInStock: body.CountInStock,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeResource(w, http.StatusOK, "Product Updated", "product", productToAPI(p))
}

// DeleteProduct implements DELETE /products/{id}.
func (h *APIHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Products.Delete(r.Context(), idParam(r)); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeMessage(w, "Product Deleted")
}

// CreateReview implements POST /products/{id}/reviews.
func (h *APIHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var body reviewBody
	if err := decodeJSON(r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	p, err := h.svc.Products.AddReview(r.Context(), idParam(r), domain.ReviewInput{
		Rating: body.Rating, Comment: body.Comment,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeResource(w, http.StatusCreated, "Review Created", "product", productToAPI(p))
}

// === Orders ===

// ListOrders implements GET /orders and GET /orders/mine.
func (h *APIHandler) ListOrders(mine bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := pageFromRequest(r)
		items, total, err := h.svc.Orders.List(r.Context(), mine, page)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		writeList(w, "orders", mapSlice(items, orderToAPI), page, total)
	}
}

// GetOrder implements GET /orders/{id}.
func (h *APIHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.svc.Orders.Get(r.Context(), idParam(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeResource(w, http.StatusOK, "Order", "order", orderToAPI(o))
}

// CreateOrder implements POST /orders.
func (h *APIHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var body orderBody
	if err := decodeJSON(r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	in := domain.OrderInput{
		Items: make([]domain.OrderItemInput, 0, len(body.OrderItems)),
		Shipping: domain.ShippingAddress{
			FullName:   body.ShippingAddress.FullName,
			Address:    body.ShippingAddress.Address,
			City:       body.ShippingAddress.City,
			PostalCode: body.ShippingAddress.PostalCode,
			Country:    body.ShippingAddress.Country,
		},
		PaymentMethod: body.PaymentMethod,
	}
	for _, it := range body.OrderItems {
		in.Items = append(in.Items, domain.OrderItemInput{ProductID: it.Product, Quantity: it.Quantity})
	}
	o, err := h.svc.Orders.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeResource(w, http.StatusCreated, "Order Created", "order", orderToAPI(o))
}

// PayOrder implements PUT /orders/{id}/pay.
func (h *APIHandler) PayOrder(w http.ResponseWriter, r *http.Request) {
	var body paymentDTO
	if err := decodeJSON(r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	o, err := h.svc.Orders.Pay(r.Context(), idParam(r), domain.PaymentResult{
		ID: body.ID, Status: body.Status, UpdateTime: body.UpdateTime, EmailAddress: body.EmailAddress,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeResource(w, http.StatusOK, "Order Paid", "order", orderToAPI(o))
}

// DeliverOrder implements PUT /orders/{id}/deliver.
func (h *APIHandler) DeliverOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.svc.Orders.Deliver(r.Context(), idParam(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeResource(w, http.StatusOK, "Order Delivered", "order", orderToAPI(o))
}

// DeleteOrder implements DELETE /orders/{id}.
func (h *APIHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Orders.Delete(r.Context(), idParam(r)); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeMessage(w, "Order Deleted")
}

// OrderSummary implements GET /orders/summary.
func (h *APIHandler) OrderSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.svc.Orders.Summary(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeResource(w, http.StatusOK, "Order Summary", "summary", orderSummaryDTO{
		Orders: sum.Orders,
		Sales:  sum.Sales,
		Users:  sum.Users,
		DailyOrders: mapSlice(sum.DailyOrders, func(d *domain.DailySales) dailySalesDTO {
			return dailySalesDTO{Date: d.Date, Orders: d.Orders, Sales: d.Sales}
		}),
	})
}

// === Cards ===

// ListCards implements GET /card-details and GET /card-details/mine.
func (h *APIHandler) ListCards(mine bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := pageFromRequest(r)
		items, total, err := h.svc.Cards.List(r.Context(), mine, page)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		writeList(w, "cards", mapSlice(items, cardToAPI), page, total)
	}
}

// GetCard implements GET /card-details/{id}.
func (h *APIHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Cards.Get(r.Context(), idParam(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeResource(w, http.StatusOK, "Card", "card", cardToAPI(c))
}

// CreateCard implements POST /card-details.
func (h *APIHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	var body cardBody
	if err := decodeJSON(r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	c, err := h.svc.Cards.Create(r.Context(), domain.CardInput{
		HolderName: deref(body.CardHolderName),
		Number:     deref(body.CardNumber),
		Expiry:     deref(body.ExpiryDate),
		CVV:        deref(body.CVV),
		CardType:   deref(body.CardType),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeResource(w, http.StatusCreated, "Card Saved", "card", cardToAPI(c))
}

// UpdateCard implements PUT /card-details/{id}.
func (h *APIHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	var body cardBody
	if err := decodeJSON(r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	c, err := h.svc.Cards.Update(r.Context(), idParam(r), domain.CardUpdate{
		HolderName: body.CardHolderName,
		Number:     body.CardNumber,
		Expiry:     body.ExpiryDate,
		CVV:        body.CVV,
		CardType:   body.CardType,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeResource(w, http.StatusOK, "Card Updated", "card", cardToAPI(c))
}

// DeleteCard implements DELETE /card-details/{id}.
func (h *APIHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Cards.Delete(r.Context(), idParam(r)); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeMessage(w, "Card Deleted")
}
