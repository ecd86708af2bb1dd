package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"icare/internal/access"
	"icare/internal/domain"
	"icare/internal/service/auditutil"
)

// OrderService places and fulfils orders. Prices are always computed from
// the catalogue; client-supplied prices are never trusted.
type OrderService struct {
	repo     domain.OrderRepository
	products domain.ProductRepository
	audit    domain.AuditRepository
	guard    *access.Guard
	now      func() time.Time
}

// NewOrderService creates an OrderService.
func NewOrderService(repo domain.OrderRepository, products domain.ProductRepository,
	audit domain.AuditRepository, guard *access.Guard) *OrderService {
	return &OrderService{repo: repo, products: products, audit: audit, guard: guard, now: time.Now}
}

// Create places an order for the caller.
func (s *OrderService) Create(ctx context.Context, in domain.OrderInput) (*domain.Order, error) {
	owner, err := s.guard.AuthorizeCreate(ctx, access.Order)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	items := make([]domain.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		var p *domain.Product
		err := s.guard.Reference(ctx, access.Product, it.ProductID, func(ctx context.Context, id string) error {
			var err error
			p, err = s.products.GetByID(ctx, id)
			return err
		})
		if err != nil {
			return nil, err
		}
		if p.CountInStock < it.Quantity {
			return nil, domain.ErrValidation("only %d of %s in stock", p.CountInStock, p.Name)
		}
		items = append(items, domain.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			Image:     p.Image,
			Price:     p.Price,
			Quantity:  it.Quantity,
		})
	}

	o := &domain.Order{
		OwnerID:       owner,
		Items:         items,
		Shipping:      in.Shipping,
		PaymentMethod: in.PaymentMethod,
	}
	o.PriceOrder()

	out, err := s.repo.Create(ctx, o)
	if err != nil {
		return nil, err
	}
	auditutil.Mutation(ctx, s.audit, string(access.OpCreate), access.Order.Name, out.ID,
		fmt.Sprintf("items=%d total=%.2f", len(out.Items), out.TotalPrice))
	return out, nil
}

func (s *OrderService) Get(ctx context.Context, id string) (*domain.Order, error) {
	return access.Load(ctx, s.guard, access.Order, access.OpRead, id, s.repo.GetByID)
}

func (s *OrderService) List(ctx context.Context, mine bool, page domain.PageRequest) ([]domain.Order, int64, error) {
	scope, err := s.guard.Scope(ctx, access.Order, mine)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, scope, page)
}

// Pay marks an order paid with the confirmation the client received from
// its payment provider.
func (s *OrderService) Pay(ctx context.Context, id string, result domain.PaymentResult) (*domain.Order, error) {
	o, err := access.Load(ctx, s.guard, access.Order, access.OpPay, id, s.repo.GetByID)
	if err != nil {
		return nil, err
	}
	if o.IsPaid {
		return nil, domain.ErrConflict("Order already paid")
	}
	result.ID = strings.TrimSpace(result.ID)
	if result.ID == "" {
		return nil, domain.ErrValidation("payment id is required")
	}
	paidAt := s.now().UTC()
	o.IsPaid = true
	o.PaidAt = &paidAt
	o.Payment = &result

	out, err := s.repo.Update(ctx, o)
	if err != nil {
		return nil, err
	}
	auditutil.Mutation(ctx, s.audit, string(access.OpPay), access.Order.Name, id, "payment_id="+result.ID)
	return out, nil
}

// Deliver marks an order delivered. Administrators only.
func (s *OrderService) Deliver(ctx context.Context, id string) (*domain.Order, error) {
	o, err := access.Load(ctx, s.guard, access.Order, access.OpDeliver, id, s.repo.GetByID)
	if err != nil {
		return nil, err
	}
	if o.IsDelivered {
		return o, nil
	}
	deliveredAt := s.now().UTC()
	o.IsDelivered = true
	o.DeliveredAt = &deliveredAt

	out, err := s.repo.Update(ctx, o)
	if err != nil {
		return nil, err
	}
	auditutil.Mutation(ctx, s.audit, string(access.OpDeliver), access.Order.Name, id, "")
	return out, nil
}

func (s *OrderService) Delete(ctx context.Context, id string) error {
	if _, err := access.Load(ctx, s.guard, access.Order, access.OpDelete, id, s.repo.GetByID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	auditutil.Mutation(ctx, s.audit, string(access.OpDelete), access.Order.Name, id, "")
	return nil
}

// Summary returns sales totals for the administrator dashboard.
func (s *OrderService) Summary(ctx context.Context) (*domain.OrderSummary, error) {
	if err := s.guard.AuthorizeCollection(ctx, access.Order, access.OpSummary); err != nil {
		return nil, err
	}
	return s.repo.Summary(ctx)
}
