package workspaces

import (
	"errors"
	"testing"
)

func TestCapabilityAllowLists(t *testing.T) {
	testCases := []struct {
		name   string
		check  func(Role) bool
		allows []Role
		denies []Role
	}{
		{
			name:   "view books",
			check:  CanViewBooks,
			allows: []Role{RoleOwner, RoleAdmin, RoleLibrarian, RoleMember, RoleViewer},
		},
		{
			name:   "borrow books",
			check:  CanBorrowBooks,
			allows: []Role{RoleOwner, RoleAdmin, RoleLibrarian, RoleMember},
			denies: []Role{RoleViewer},
		},
		{
			name:   "manage books",
			check:  CanManageBooks,
			allows: []Role{RoleOwner, RoleAdmin, RoleLibrarian},
			denies: []Role{RoleMember, RoleViewer},
		},
		{
			name:   "manage members",
			check:  CanManageMembers,
			allows: []Role{RoleOwner, RoleAdmin},
			denies: []Role{RoleLibrarian, RoleMember, RoleViewer},
		},
		{
			name:   "invite members",
			check:  CanInviteMembers,
			allows: []Role{RoleOwner, RoleAdmin},
			denies: []Role{RoleLibrarian, RoleMember, RoleViewer},
		},
		{
			name:   "manage settings",
			check:  CanManageSettings,
			allows: []Role{RoleOwner, RoleAdmin},
			denies: []Role{RoleLibrarian, RoleMember, RoleViewer},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			for _, role := range testCase.allows {
				if !testCase.check(role) {
					t.Fatalf("expected %s to be allowed", role)
				}
			}
			for _, role := range testCase.denies {
				if testCase.check(role) {
					t.Fatalf("expected %s to be denied", role)
				}
			}
			if testCase.check(Role("stranger")) {
				t.Fatalf("expected unknown role to be denied")
			}
		})
	}
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("  Librarian ")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if role != RoleLibrarian {
		t.Fatalf("expected librarian, got %s", role)
	}
	if _, err := ParseRole("superuser"); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestDisplayLessOrdersOwnerFirst(t *testing.T) {
	if !DisplayLess(RoleOwner, RoleViewer) {
		t.Fatalf("expected owner before viewer")
	}
	if DisplayLess(RoleMember, RoleAdmin) {
		t.Fatalf("expected admin before member")
	}
}
