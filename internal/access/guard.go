package access

import (
	"context"
	"errors"
	"log/slog"

	"icare/internal/domain"
	"icare/internal/service/auditutil"
)

// Guard enforces kind policies for the services. It reads the caller from
// the request context, records every decision in metrics and writes denials
// to the audit log.
type Guard struct {
	audit   domain.AuditRepository
	metrics *Metrics
	logger  *slog.Logger
}

// NewGuard creates a Guard. audit and metrics may be nil.
func NewGuard(audit domain.AuditRepository, metrics *Metrics, logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{audit: audit, metrics: metrics, logger: logger.With("component", "access")}
}

func principal(ctx context.Context) *domain.ContextPrincipal {
	if p, ok := domain.PrincipalFromContext(ctx); ok {
		return &p
	}
	return nil
}

func outcomeOf(err error) string {
	var (
		unauth   *domain.UnauthenticatedError
		notFound *domain.NotFoundError
		denied   *domain.AccessDeniedError
		invalid  *domain.ValidationError
	)
	switch {
	case err == nil:
		return OutcomeAllowed
	case errors.As(err, &unauth):
		return OutcomeUnauthenticated
	case errors.As(err, &notFound):
		return OutcomeNotFound
	case errors.As(err, &denied):
		return OutcomeForbidden
	case errors.As(err, &invalid):
		return OutcomeInvalid
	default:
		return OutcomeError
	}
}

// record observes a decision and returns err unchanged.
func (g *Guard) record(ctx context.Context, kind Kind, op Operation, resourceID string, err error) error {
	outcome := outcomeOf(err)
	g.metrics.observe(kind, op, outcome)
	if outcome == OutcomeAllowed || outcome == OutcomeError {
		return err
	}

	var callerID string
	if p := principal(ctx); p != nil {
		callerID = p.ID
	}
	g.logger.DebugContext(ctx, "access denied",
		"kind", kind.Name, "operation", op, "resource_id", resourceID,
		"principal_id", callerID, "outcome", outcome)
	// Anonymous probes are not worth an audit row.
	if callerID != "" {
		auditutil.LogDenied(ctx, g.audit, callerID, string(op), kind.Name, resourceID, err.Error())
	}
	return err
}

// Check runs the checks that need no record: authentication for
// non-public rules and outright denial. Services call it before touching
// the datastore.
func (g *Guard) Check(ctx context.Context, kind Kind, op Operation) error {
	rule := kind.Rule(op)
	if rule == RulePublic {
		return nil
	}
	p := principal(ctx)
	switch {
	case rule == RuleDenied:
		return g.record(ctx, kind, op, "", domain.ErrAccessDenied("%s %s is not permitted", op, kind.Name))
	case p == nil:
		return g.record(ctx, kind, op, "", domain.ErrUnauthenticated("authentication required"))
	}
	return nil
}

// Authorize decides op on a fetched record.
func (g *Guard) Authorize(ctx context.Context, kind Kind, op Operation, res domain.Resource) error {
	var id string
	if res != nil {
		id = res.ResourceID()
	}
	return g.record(ctx, kind, op, id, Decide(principal(ctx), kind, op, res))
}

// AuthorizeCollection decides an operation that targets no single record,
// such as an order summary.
func (g *Guard) AuthorizeCollection(ctx context.Context, kind Kind, op Operation) error {
	return g.record(ctx, kind, op, "", Decide(principal(ctx), kind, op, nil))
}

// AuthorizeCreate decides creation and returns the owner id to stamp on the
// new record: the caller for owned kinds, empty otherwise. Owner fields in
// the request body are never consulted.
func (g *Guard) AuthorizeCreate(ctx context.Context, kind Kind) (string, error) {
	p := principal(ctx)
	if err := g.record(ctx, kind, OpCreate, "", Decide(p, kind, OpCreate, nil)); err != nil {
		return "", err
	}
	if p == nil || !kind.Owned() {
		return "", nil
	}
	return p.ID, nil
}

// Scope returns the list filter for the caller. mine restricts the list to
// the caller's own records.
func (g *Guard) Scope(ctx context.Context, kind Kind, mine bool) (domain.Scope, error) {
	scope, err := ScopeFor(principal(ctx), kind, mine)
	return scope, g.record(ctx, kind, OpList, "", err)
}

// Reference validates that a referenced record exists before a write.
// exists should return a NotFoundError when the record is absent; that is
// reported as a ReferentialError naming ref.
func (g *Guard) Reference(ctx context.Context, ref Kind, id string, exists func(context.Context, string) error) error {
	if !domain.ValidID(id) {
		return domain.ErrReferential(ref.Label)
	}
	err := exists(ctx, id)
	var notFound *domain.NotFoundError
	if errors.As(err, &notFound) {
		return domain.ErrReferential(ref.Label)
	}
	return err
}

// Load fetches a record by id and authorizes op on it. Authentication is
// checked before the fetch; visibility and privilege after it. A malformed
// id is a ValidationError and an absent record is the kind's NotFound.
func Load[T domain.Resource](ctx context.Context, g *Guard, kind Kind, op Operation, id string,
	fetch func(context.Context, string) (T, error)) (T, error) {
	var zero T
	if err := g.Check(ctx, kind, op); err != nil {
		return zero, err
	}
	if !domain.ValidID(id) {
		return zero, g.record(ctx, kind, op, id, domain.ErrValidation("invalid %s id %q", kind.Name, id))
	}
	res, err := fetch(ctx, id)
	if err != nil {
		var notFound *domain.NotFoundError
		if errors.As(err, &notFound) {
			return zero, g.record(ctx, kind, op, id, domain.ErrNotFound("%s", kind.NotFoundMessage()))
		}
		return zero, err
	}
	if err := g.Authorize(ctx, kind, op, res); err != nil {
		return zero, err
	}
	return res, nil
}
