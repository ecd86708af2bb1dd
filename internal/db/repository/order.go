package repository

import (
	"context"
	"database/sql"

	internaldb "icare/internal/db"
	"icare/internal/domain"
)

const orderSelect = `SELECT o.id, o.owner_id, COALESCE(u.name, ''),
	o.ship_full_name, o.ship_address, o.ship_city, o.ship_postal_code, o.ship_country,
	o.payment_method, o.items_price, o.shipping_price, o.tax_price, o.total_price,
	o.is_paid, o.paid_at, o.payment_id, o.payment_status, o.payment_update_time, o.payment_email,
	o.is_delivered, o.delivered_at, o.created_at, o.updated_at
	FROM orders o LEFT JOIN users u ON u.id = o.owner_id`

// OrderRepo stores orders and their line items.
type OrderRepo struct {
	pool *internaldb.Pool
}

func NewOrderRepo(pool *internaldb.Pool) *OrderRepo {
	return &OrderRepo{pool: pool}
}

func scanOrder(s scanner) (domain.Order, error) {
	var (
		o                                     domain.Order
		isPaid, isDelivered                   int64
		paidAt, deliveredAt                   sql.NullTime
		payID, payStatus, payUpdate, payEmail sql.NullString
	)
	err := s.Scan(&o.ID, &o.OwnerID, &o.OwnerName,
		&o.Shipping.FullName, &o.Shipping.Address, &o.Shipping.City, &o.Shipping.PostalCode, &o.Shipping.Country,
		&o.PaymentMethod, &o.ItemsPrice, &o.ShippingPrice, &o.TaxPrice, &o.TotalPrice,
		&isPaid, &paidAt, &payID, &payStatus, &payUpdate, &payEmail,
		&isDelivered, &deliveredAt, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return o, err
	}
	o.IsPaid = isPaid != 0
	o.IsDelivered = isDelivered != 0
	o.PaidAt = nullTimePtr(paidAt)
	o.DeliveredAt = nullTimePtr(deliveredAt)
	if payID.Valid {
		o.Payment = &domain.PaymentResult{
			ID:           payID.String,
			Status:       payStatus.String,
			UpdateTime:   payUpdate.String,
			EmailAddress: payEmail.String,
		}
	}
	return o, nil
}

// Create writes the order and its items in one transaction.
func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	id := domain.NewID()
	ts := now()

	tx, err := r.pool.Write.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback() //nolint:errcheck

	s := o.Shipping
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO orders (id, owner_id, ship_full_name, ship_address, ship_city, ship_postal_code,
		 ship_country, payment_method, items_price, shipping_price, tax_price, total_price,
		 is_paid, is_delivered, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, 0, ?, ?)`,
		id, o.OwnerID, s.FullName, s.Address, s.City, s.PostalCode, s.Country, o.PaymentMethod,
		o.ItemsPrice, o.ShippingPrice, o.TaxPrice, o.TotalPrice, ts, ts); err != nil {
		return nil, mapDBError(err, "Order")
	}
	for _, it := range o.Items {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO order_items (id, order_id, product_id, name, image, price, quantity)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			domain.NewID(), id, it.ProductID, it.Name, it.Image, it.Price, it.Quantity); err != nil {
			return nil, mapDBError(err, "Order item")
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return r.get(ctx, r.pool.Write, id)
}

func (r *OrderRepo) get(ctx context.Context, db *sql.DB, id string) (*domain.Order, error) {
	o, err := scanOrder(db.QueryRowContext(ctx, orderSelect+` WHERE o.id = ?`, id))
	if err != nil {
		return nil, mapDBError(err, "Order")
	}
	if o.Items, err = r.items(ctx, db, id); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepo) items(ctx context.Context, db *sql.DB, orderID string) ([]domain.OrderItem, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, order_id, product_id, name, image, price, quantity FROM order_items
		 WHERE order_id = ? ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.OrderItem, 0)
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Name, &it.Image, &it.Price, &it.Quantity); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	return r.get(ctx, r.pool.Read, id)
}

func (r *OrderRepo) List(ctx context.Context, scope domain.Scope, page domain.PageRequest) ([]domain.Order, int64, error) {
	where, args := scopeClause(scope, "o.owner_id")
	orders, total, err := listPage(ctx, r.pool.Read,
		`SELECT COUNT(*) FROM orders o`+where,
		orderSelect+where+` ORDER BY o.id DESC LIMIT ? OFFSET ?`,
		args, page, scanOrder)
	if err != nil {
		return nil, 0, err
	}
	for i := range orders {
		if orders[i].Items, err = r.items(ctx, r.pool.Read, orders[i].ID); err != nil {
			return nil, 0, err
		}
	}
	return orders, total, nil
}

// Update saves the shipping, payment and delivery state. Items and prices
// are fixed when the order is placed.
func (r *OrderRepo) Update(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	var payID, payStatus, payUpdate, payEmail any
	if o.Payment != nil {
		payID, payStatus, payUpdate, payEmail = o.Payment.ID, o.Payment.Status, o.Payment.UpdateTime, o.Payment.EmailAddress
	}
	s := o.Shipping
	res, err := r.pool.Write.ExecContext(ctx,
		`UPDATE orders SET ship_full_name = ?, ship_address = ?, ship_city = ?, ship_postal_code = ?,
		 ship_country = ?, payment_method = ?, is_paid = ?, paid_at = ?, payment_id = ?,
		 payment_status = ?, payment_update_time = ?, payment_email = ?, is_delivered = ?,
		 delivered_at = ?, updated_at = ? WHERE id = ?`,
		s.FullName, s.Address, s.City, s.PostalCode, s.Country, o.PaymentMethod,
		boolToInt(o.IsPaid), timePtrArg(o.PaidAt), payID, payStatus, payUpdate, payEmail,
		boolToInt(o.IsDelivered), timePtrArg(o.DeliveredAt), now(), o.ID)
	if err != nil {
		return nil, mapDBError(err, "Order")
	}
	if err := checkUpdated(res, "Order"); err != nil {
		return nil, err
	}
	return r.get(ctx, r.pool.Write, o.ID)
}

func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.pool.Write, "orders", id, "Order")
}

// Summary aggregates order and user counts for the admin dashboard. Daily
// figures are grouped by the UTC calendar day the order was placed.
func (r *OrderRepo) Summary(ctx context.Context) (*domain.OrderSummary, error) {
	sum := &domain.OrderSummary{DailyOrders: []domain.DailySales{}}
	err := r.pool.Read.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(total_price), 0) FROM orders`).Scan(&sum.Orders, &sum.Sales)
	if err != nil {
		return nil, err
	}
	if err := r.pool.Read.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&sum.Users); err != nil {
		return nil, err
	}
	sum.Sales = domain.Round2(sum.Sales)

	rows, err := r.pool.Read.QueryContext(ctx,
		`SELECT substr(created_at, 1, 10) AS day, COUNT(*), COALESCE(SUM(total_price), 0)
		 FROM orders GROUP BY day ORDER BY day`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var d domain.DailySales
		if err := rows.Scan(&d.Date, &d.Orders, &d.Sales); err != nil {
			return nil, err
		}
		d.Sales = domain.Round2(d.Sales)
		sum.DailyOrders = append(sum.DailyOrders, d)
	}
	return sum, rows.Err()
}
