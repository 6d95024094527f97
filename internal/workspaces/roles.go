package workspaces

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRole indicates that a role name is not one of the workspace roles.
var ErrInvalidRole = errors.New("workspaces: invalid role")

// Role tags a workspace member with its capability set.
type Role string

const (
	RoleOwner     Role = "owner"
	RoleAdmin     Role = "admin"
	RoleLibrarian Role = "librarian"
	RoleMember    Role = "member"
	RoleViewer    Role = "viewer"
)

// Capability names a single permission check.
type Capability string

const (
	CapabilityViewBooks      Capability = "view_books"
	CapabilityBorrowBooks    Capability = "borrow_books"
	CapabilityManageBooks    Capability = "manage_books"
	CapabilityManageMembers  Capability = "manage_members"
	CapabilityInviteMembers  Capability = "invite_members"
	CapabilityManageSettings Capability = "manage_settings"
)

// capabilityTable is an explicit allow-list per capability. Checks never compare role ranks.
var capabilityTable = map[Capability]map[Role]bool{
	CapabilityViewBooks: {
		RoleOwner: true, RoleAdmin: true, RoleLibrarian: true, RoleMember: true, RoleViewer: true,
	},
	CapabilityBorrowBooks: {
		RoleOwner: true, RoleAdmin: true, RoleLibrarian: true, RoleMember: true,
	},
	CapabilityManageBooks: {
		RoleOwner: true, RoleAdmin: true, RoleLibrarian: true,
	},
	CapabilityManageMembers: {
		RoleOwner: true, RoleAdmin: true,
	},
	CapabilityInviteMembers: {
		RoleOwner: true, RoleAdmin: true,
	},
	CapabilityManageSettings: {
		RoleOwner: true, RoleAdmin: true,
	},
}

// displayRank orders roles for presentation only.
var displayRank = map[Role]int{
	RoleOwner:     0,
	RoleAdmin:     1,
	RoleLibrarian: 2,
	RoleMember:    3,
	RoleViewer:    4,
}

// ParseRole validates raw input and returns a Role.
func ParseRole(raw string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := displayRank[role]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, raw)
	}
	return role, nil
}

// Valid reports whether the role is known.
func (r Role) Valid() bool {
	_, ok := displayRank[r]
	return ok
}

// String returns the role name.
func (r Role) String() string {
	return string(r)
}

// Allows reports whether the role is on the capability's allow-list.
func (r Role) Allows(capability Capability) bool {
	return capabilityTable[capability][r]
}

func CanViewBooks(role Role) bool      { return role.Allows(CapabilityViewBooks) }
func CanBorrowBooks(role Role) bool    { return role.Allows(CapabilityBorrowBooks) }
func CanManageBooks(role Role) bool    { return role.Allows(CapabilityManageBooks) }
func CanManageMembers(role Role) bool  { return role.Allows(CapabilityManageMembers) }
func CanInviteMembers(role Role) bool  { return role.Allows(CapabilityInviteMembers) }
func CanManageSettings(role Role) bool { return role.Allows(CapabilityManageSettings) }

// DisplayLess orders owner first and viewer last.
func DisplayLess(a, b Role) bool {
	return displayRank[a] < displayRank[b]
}
