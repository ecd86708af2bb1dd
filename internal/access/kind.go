package access

import (
	"fmt"
	"sort"
)

// Kind is a registered resource kind: its policy, the label used in
// user-facing messages, and per-operation overrides.
type Kind struct {
	Name      string
	Label     string
	Policy    Policy
	Overrides map[Operation]Rule
}

// Rule returns the rule for op. Operations the kind does not define are
// denied.
func (k Kind) Rule(op Operation) Rule {
	if r, ok := k.Overrides[op]; ok {
		return r
	}
	if r, ok := k.Policy.Rules[op]; ok {
		return r
	}
	return RuleDenied
}

// Owned reports whether records of this kind belong to a user.
func (k Kind) Owned() bool { return k.Policy.Owned }

// NotFoundMessage is the message for an absent or hidden record.
func (k Kind) NotFoundMessage() string { return k.Label + " Not Found" }

var registry = map[string]Kind{}

func register(k Kind) Kind {
	if _, dup := registry[k.Name]; dup {
		panic(fmt.Sprintf("access: kind %q registered twice", k.Name))
	}
	registry[k.Name] = k
	return k
}

// The kind registry. Adding a kind here is the only place its access rules
// are written down.
var (
	User = register(Kind{Name: "user", Label: "User", Policy: SelfOnly})

	APIKey = register(Kind{Name: "api_key", Label: "API Key", Policy: OwnerOrAdmin,
		Overrides: map[Operation]Rule{
			OpDelete:  RuleOwnerOrAdmin,
			OpCleanup: RuleAdminOnly,
		}})

	Optometrist = register(Kind{Name: "optometrist", Label: "Optometrist", Policy: PublicRead})

	Appointment = register(Kind{Name: "appointment", Label: "Appointment", Policy: OwnerOrAdmin,
		Overrides: map[Operation]Rule{OpUpdate: RuleAdminOnly}})

	Prescription = register(Kind{Name: "prescription", Label: "Prescription", Policy: OwnerOrAdmin})

	Ticket = register(Kind{Name: "ticket", Label: "Ticket", Policy: OwnerOrAdmin,
		Overrides: map[Operation]Rule{
			OpUpdate:  RuleAdminOnly,
			OpRespond: RuleOwnerOrAdmin,
		}})

	Card = register(Kind{Name: "card", Label: "Card", Policy: OwnerOrAdmin})

	LibraryResource = register(Kind{Name: "library_resource", Label: "Library Resource", Policy: AdminManaged})

	Product = register(Kind{Name: "product", Label: "Product", Policy: PublicRead,
		Overrides: map[Operation]Rule{OpReview: RuleAuthenticated}})

	Order = register(Kind{Name: "order", Label: "Order", Policy: OwnerOrAdmin,
		Overrides: map[Operation]Rule{
			OpPay:     RuleOwnerOrAdmin,
			OpDeliver: RuleAdminOnly,
			OpSummary: RuleAdminOnly,
		}})

	Audit = register(Kind{Name: "audit", Label: "Audit Entry", Policy: AdminManaged,
		Overrides: map[Operation]Rule{
			OpRead: RuleAdminOnly,
			OpList: RuleAdminOnly,
		}})
)

// Lookup returns a registered kind by name.
func Lookup(name string) (Kind, bool) {
	k, ok := registry[name]
	return k, ok
}

// Kinds returns every registered kind sorted by name.
func Kinds() []Kind {
	out := make([]Kind, 0, len(registry))
	for _, k := range registry {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
