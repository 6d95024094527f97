package workspaces

import "time"

// Settings controls per-workspace features.
type Settings struct {
	AllowPublicAccess           bool `json:"allowPublicAccess"`
	RequireApprovalForJoining   bool `json:"requireApprovalForJoining"`
	BorrowingEnabled            bool `json:"borrowingEnabled"`
	MaxBorrowDuration           int  `json:"maxBorrowDuration"`
	AIAnalysisEnabled           bool `json:"aiAnalysisEnabled"`
	CollaborativeEditingEnabled bool `json:"collaborativeEditingEnabled"`
	NotificationsEnabled        bool `json:"notificationsEnabled"`
}

// DefaultSettings returns the settings new workspaces start with.
func DefaultSettings() Settings {
	return Settings{
		AllowPublicAccess:           false,
		RequireApprovalForJoining:   true,
		BorrowingEnabled:            true,
		MaxBorrowDuration:           14,
		AIAnalysisEnabled:           true,
		CollaborativeEditingEnabled: true,
		NotificationsEnabled:        true,
	}
}

// Permission is a placeholder grant carried on members. Nothing evaluates it yet.
type Permission struct {
	Action   string `json:"action"`
	Resource string `json:"resource"`
	Granted  bool   `json:"granted"`
}

// Member is keyed by (WorkspaceID, UserID).
type Member struct {
	UserID      string       `json:"userId"`
	WorkspaceID string       `json:"workspaceId"`
	Role        Role         `json:"role"`
	JoinedAt    time.Time    `json:"joinedAt"`
	InvitedBy   string       `json:"invitedBy,omitempty"`
	Permissions []Permission `json:"permissions"`
}

// Workspace groups books, members and activity under one owner.
type Workspace struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	OwnerID     string    `json:"ownerId"`
	Members     []Member  `json:"members"`
	Settings    Settings  `json:"settings"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	IsPublic    bool      `json:"isPublic"`
}

// WorkspaceInput carries the caller-supplied fields of a new workspace.
type WorkspaceInput struct {
	Name        string
	Description string
	OwnerID     string
	Members     []Member
	Settings    Settings
	IsPublic    bool
}

// WorkspacePatch lists the fields an update may change. Nil fields are left untouched.
type WorkspacePatch struct {
	Name        *string
	Description *string
	Settings    *Settings
	IsPublic    *bool
}

func (p WorkspacePatch) apply(workspace *Workspace) {
	if p.Name != nil {
		workspace.Name = *p.Name
	}
	if p.Description != nil {
		workspace.Description = *p.Description
	}
	if p.Settings != nil {
		workspace.Settings = *p.Settings
	}
	if p.IsPublic != nil {
		workspace.IsPublic = *p.IsPublic
	}
}

// MemberPatch lists the member fields an update may change.
type MemberPatch struct {
	Role        *Role
	Permissions *[]Permission
}

// ActivityAction enumerates logged actions.
type ActivityAction string

const (
	ActionCreated  ActivityAction = "created"
	ActionUpdated  ActivityAction = "updated"
	ActionDeleted  ActivityAction = "deleted"
	ActionBorrowed ActivityAction = "borrowed"
	ActionReturned ActivityAction = "returned"
	ActionInvited  ActivityAction = "invited"
	ActionJoined   ActivityAction = "joined"
	ActionLeft     ActivityAction = "left"
)

// ActivityResource enumerates the resource kinds an activity refers to.
type ActivityResource string

const (
	ResourceBook      ActivityResource = "book"
	ResourceBorrowing ActivityResource = "borrowing"
	ResourceMember    ActivityResource = "member"
	ResourceWorkspace ActivityResource = "workspace"
	ResourceSettings  ActivityResource = "settings"
)

// Activity is an append-only log entry. Entries are only removed together with their workspace.
type Activity struct {
	ID           string           `json:"id"`
	WorkspaceID  string           `json:"workspaceId"`
	UserID       string           `json:"userId"`
	Action       ActivityAction   `json:"action"`
	ResourceType ActivityResource `json:"resourceType"`
	ResourceID   string           `json:"resourceId"`
	Details      map[string]any   `json:"details"`
	Timestamp    time.Time        `json:"timestamp"`
}

// InvitationStatus tracks an invitation's lifecycle.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationDeclined InvitationStatus = "declined"
	InvitationExpired  InvitationStatus = "expired"
)

// Invitation offers a role in a workspace to an email address.
type Invitation struct {
	ID          string           `json:"id"`
	WorkspaceID string           `json:"workspaceId"`
	Email       string           `json:"email"`
	Role        Role             `json:"role"`
	InvitedBy   string           `json:"invitedBy"`
	InvitedAt   time.Time        `json:"invitedAt"`
	ExpiresAt   time.Time        `json:"expiresAt"`
	Status      InvitationStatus `json:"status"`
	Token       string           `json:"token"`
}

// InvitationInput carries the caller-supplied fields of a new invitation.
type InvitationInput struct {
	WorkspaceID string
	Email       string
	Role        Role
	InvitedBy   string
	InvitedAt   time.Time
	ExpiresAt   time.Time
	Status      InvitationStatus
}

// InvitationPatch lists the invitation fields an update may change.
type InvitationPatch struct {
	Status    *InvitationStatus
	Role      *Role
	ExpiresAt *time.Time
}

func (p InvitationPatch) apply(invitation *Invitation) {
	if p.Status != nil {
		invitation.Status = *p.Status
	}
	if p.Role != nil {
		invitation.Role = *p.Role
	}
	if p.ExpiresAt != nil {
		invitation.ExpiresAt = *p.ExpiresAt
	}
}
