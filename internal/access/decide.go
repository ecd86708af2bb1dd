package access

import "icare/internal/domain"

// Decide applies kind's rule for op to a fetched resource. p is nil for an
// anonymous caller. res may be nil for collection-level operations; owner
// rules then only require authentication.
//
// For owned kinds a caller who is not the owner cannot tell a hidden record
// from an absent one: both produce the kind's NotFound message.
func Decide(p *domain.ContextPrincipal, kind Kind, op Operation, res domain.Resource) error {
	rule := kind.Rule(op)
	switch rule {
	case RuleDenied:
		return domain.ErrAccessDenied("%s %s is not permitted", op, kind.Name)
	case RulePublic:
		return nil
	}

	if p == nil {
		return domain.ErrUnauthenticated("authentication required")
	}
	if p.IsAdmin {
		return nil
	}

	switch rule {
	case RuleAuthenticated:
		return nil
	case RuleOwnerOrAdmin:
		if res == nil || !kind.Owned() || res.ResourceOwner() == p.ID {
			return nil
		}
		return domain.ErrNotFound("%s", kind.NotFoundMessage())
	default: // RuleAdminOnly
		if res != nil && kind.Owned() && res.ResourceOwner() != p.ID {
			return domain.ErrNotFound("%s", kind.NotFoundMessage())
		}
		return domain.ErrAccessDenied("administrator privileges required to %s %s", op, kind.Name)
	}
}

// ScopeFor returns the list scope kind's list rule grants p. mine asks for
// the caller's own records regardless of role.
func ScopeFor(p *domain.ContextPrincipal, kind Kind, mine bool) (domain.Scope, error) {
	rule := kind.Rule(OpList)
	if mine {
		if p == nil {
			return domain.Scope{}, domain.ErrUnauthenticated("authentication required")
		}
		if !kind.Owned() {
			return domain.Scope{}, domain.ErrValidation("%s records have no owner", kind.Name)
		}
		return domain.OwnedBy(p.ID), nil
	}

	switch rule {
	case RuleDenied:
		return domain.Scope{}, domain.ErrAccessDenied("list %s is not permitted", kind.Name)
	case RulePublic:
		return domain.Scope{}, nil
	}
	if p == nil {
		return domain.Scope{}, domain.ErrUnauthenticated("authentication required")
	}
	switch {
	case p.IsAdmin, rule == RuleAuthenticated:
		return domain.Scope{}, nil
	case rule == RuleOwnerOrAdmin && kind.Owned():
		return domain.OwnedBy(p.ID), nil
	case rule == RuleOwnerOrAdmin:
		return domain.Scope{}, nil
	default:
		return domain.Scope{}, domain.ErrAccessDenied("administrator privileges required to list %s", kind.Name)
	}
}
