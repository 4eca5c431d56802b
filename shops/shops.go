// Package shops holds the tenant-side identity model: shops and the
// memberships that grant staff access to them.
package shops

// Role represents a role either at platform or shop level.
type Role string

const (
	// Shop-level roles, held through a Membership.
	RoleAdmin   Role = "admin"   // Full control of a shop's back office
	RoleManager Role = "manager" // Day-to-day shop management
	RoleStaff   Role = "staff"   // Limited back-office access

	// Platform-level roles. Customers are global identities and hold no
	// per-shop membership rows.
	RoleCustomer Role = "customer"
	RolePlatform Role = "platform_admin"
)

// MembershipStatus tracks whether a membership is currently usable.
type MembershipStatus string

const (
	StatusActive  MembershipStatus = "active"
	StatusInvited MembershipStatus = "invited"
	StatusRevoked MembershipStatus = "revoked"
)

// Membership represents a user's role within a specific shop. Uniqueness per
// (user, shop) is enforced by the profile service, not here.
type Membership struct {
	ShopID string           `json:"shop_id"`
	Role   Role             `json:"role"`
	Slug   string           `json:"slug"`
	Name   string           `json:"name"`
	Status MembershipStatus `json:"status"`
}

// In reports whether the role appears in the allowed set.
func (r Role) In(allowed []Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}

// FindBySlug returns the membership for the given shop slug, or nil.
func FindBySlug(memberships []Membership, shopSlug string) *Membership {
	for i := range memberships {
		if memberships[i].Slug == shopSlug {
			return &memberships[i]
		}
	}
	return nil
}

// HasSlug reports whether any membership targets the given shop slug.
func HasSlug(memberships []Membership, shopSlug string) bool {
	return FindBySlug(memberships, shopSlug) != nil
}
