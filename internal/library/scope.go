package library

import "strings"

const (
	booksKey      = "library_books"
	borrowingsKey = "library_borrowings"
)

// Scope selects the key-prefix boundary a collection lives under.
// The zero value is the global scope.
type Scope struct {
	WorkspaceID string
}

// GlobalScope returns the unsuffixed scope.
func GlobalScope() Scope {
	return Scope{}
}

// WorkspaceScope returns the scope of one workspace.
func WorkspaceScope(workspaceID string) Scope {
	return Scope{WorkspaceID: strings.TrimSpace(workspaceID)}
}

// IsWorkspace reports whether the scope is workspace-aware.
func (s Scope) IsWorkspace() bool {
	return s.WorkspaceID != ""
}

func (s Scope) booksKey() string {
	return s.suffixed(booksKey)
}

func (s Scope) borrowingsKey() string {
	return s.suffixed(borrowingsKey)
}

func (s Scope) suffixed(key string) string {
	if !s.IsWorkspace() {
		return key
	}
	return key + "_" + s.WorkspaceID
}

func (s Scope) idPrefix(kind string) string {
	if !s.IsWorkspace() {
		return kind
	}
	return s.WorkspaceID + "-" + kind
}
