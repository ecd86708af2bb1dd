package domain

// Resource is any persisted record subject to access control.
type Resource interface {
	// ResourceID returns the immutable record id.
	ResourceID() string
	// ResourceOwner returns the id of the creating user, or "" for kinds
	// without per-user ownership.
	ResourceOwner() string
}

// Scope narrows a list query to the rows a caller may see. The zero value
// is unrestricted.
type Scope struct {
	OwnerID string
}

// Restricted reports whether the scope filters by owner.
func (s Scope) Restricted() bool { return s.OwnerID != "" }

// OwnedBy returns a scope limited to rows owned by ownerID.
func OwnedBy(ownerID string) Scope { return Scope{OwnerID: ownerID} }
