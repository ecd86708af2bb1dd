// Package access decides whether a caller may perform an operation on a
// resource kind. Every service consults it; handlers never check roles
// themselves.
package access

// Operation names what a caller wants to do. The five CRUD operations are
// defined for every policy; kinds may add their own actions.
type Operation string

const (
	OpCreate Operation = "create"
	OpRead   Operation = "read"
	OpList   Operation = "list"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"

	OpRespond Operation = "respond"
	OpReview  Operation = "review"
	OpPay     Operation = "pay"
	OpDeliver Operation = "deliver"
	OpSummary Operation = "summary"
	OpCleanup Operation = "cleanup"
)

// Rule is the requirement one operation places on the caller.
type Rule int

const (
	// RuleDenied refuses everyone, administrators included.
	RuleDenied Rule = iota
	// RulePublic admits callers without credentials.
	RulePublic
	// RuleAuthenticated admits any signed-in caller.
	RuleAuthenticated
	// RuleOwnerOrAdmin admits the resource owner and administrators. On
	// lists it means administrators see everything and others see their own.
	RuleOwnerOrAdmin
	// RuleAdminOnly admits administrators.
	RuleAdminOnly
)

func (r Rule) String() string {
	switch r {
	case RulePublic:
		return "public"
	case RuleAuthenticated:
		return "authenticated"
	case RuleOwnerOrAdmin:
		return "owner_or_admin"
	case RuleAdminOnly:
		return "admin_only"
	default:
		return "denied"
	}
}

// Policy is a named set of default rules.
type Policy struct {
	Name string
	// Owned policies stamp the creator as owner and hide other users'
	// records behind NotFound.
	Owned bool
	Rules map[Operation]Rule
}

var (
	// OwnerOrAdmin is for per-user records such as appointments and orders.
	OwnerOrAdmin = Policy{
		Name:  "OwnerOrAdmin",
		Owned: true,
		Rules: map[Operation]Rule{
			OpCreate: RuleAuthenticated,
			OpRead:   RuleOwnerOrAdmin,
			OpList:   RuleOwnerOrAdmin,
			OpUpdate: RuleOwnerOrAdmin,
			OpDelete: RuleAdminOnly,
		},
	}

	// AdminManaged is for shared content that staff curate and members read.
	AdminManaged = Policy{
		Name: "AdminManaged",
		Rules: map[Operation]Rule{
			OpCreate: RuleAdminOnly,
			OpRead:   RuleAuthenticated,
			OpList:   RuleAuthenticated,
			OpUpdate: RuleAdminOnly,
			OpDelete: RuleAdminOnly,
		},
	}

	// PublicRead is for reference data anyone may browse.
	PublicRead = Policy{
		Name: "PublicRead",
		Rules: map[Operation]Rule{
			OpCreate: RuleAdminOnly,
			OpRead:   RulePublic,
			OpList:   RulePublic,
			OpUpdate: RuleAdminOnly,
			OpDelete: RuleAdminOnly,
		},
	}

	// SelfOnly is for accounts: each user is their own owner. Accounts are
	// created by the public signup flow.
	SelfOnly = Policy{
		Name:  "SelfOnly",
		Owned: true,
		Rules: map[Operation]Rule{
			OpCreate: RulePublic,
			OpRead:   RuleOwnerOrAdmin,
			OpList:   RuleAdminOnly,
			OpUpdate: RuleOwnerOrAdmin,
			OpDelete: RuleAdminOnly,
		},
	}
)
