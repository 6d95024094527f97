package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/swaroski/ai-shelves/internal/workspaces"
	"go.uber.org/zap"
)

const (
	resourceWorkspace  = "workspace"
	resourceMember     = "member"
	resourceInvitation = "invitation"
)

type workspaceCreatePayload struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	IsPublic    bool                 `json:"isPublic"`
	Settings    *workspaces.Settings `json:"settings"`
}

type workspacePatchPayload struct {
	Name        *string              `json:"name"`
	Description *string              `json:"description"`
	IsPublic    *bool                `json:"isPublic"`
	Settings    *workspaces.Settings `json:"settings"`
}

type memberCreatePayload struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

type memberPatchPayload struct {
	Role        *string                  `json:"role"`
	Permissions *[]workspaces.Permission `json:"permissions"`
}

type invitationCreatePayload struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type invitationPatchPayload struct {
	Status    *workspaces.InvitationStatus `json:"status"`
	Role      *string                      `json:"role"`
	ExpiresAt *time.Time                   `json:"expiresAt"`
}

func validInvitationStatus(status workspaces.InvitationStatus) bool {
	switch status {
	case workspaces.InvitationPending, workspaces.InvitationAccepted, workspaces.InvitationDeclined, workspaces.InvitationExpired:
		return true
	default:
		return false
	}
}

func isOwner(role workspaces.Role) bool {
	return role == workspaces.RoleOwner
}

// guardRoleGrant keeps ownership single: nobody is granted owner and only the owner grants admin.
func guardRoleGrant(c *gin.Context, callerRole, granted workspaces.Role) bool {
	switch {
	case granted == workspaces.RoleOwner:
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner_role_not_assignable"})
		return false
	case granted == workspaces.RoleAdmin && !isOwner(callerRole):
		c.JSON(http.StatusForbidden, gin.H{"error": "permission_denied"})
		return false
	}
	return true
}

// guardMemberTarget rejects changes to the owner's membership row, and changes to an admin's
// row unless the caller is the owner.
func (h *httpHandler) guardMemberTarget(c *gin.Context, callerRole workspaces.Role, workspaceID, userID string) bool {
	ctx := c.Request.Context()
	workspace, found, err := h.workspaces.GetWorkspace(ctx, workspaceID)
	if err != nil {
		h.writeError(c, err)
		return false
	}
	if found && workspace.OwnerID == userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "owner_membership_locked"})
		return false
	}
	if isOwner(callerRole) {
		return true
	}
	member, found, err := h.workspaces.GetMember(ctx, workspaceID, userID)
	if err != nil {
		h.writeError(c, err)
		return false
	}
	if found && member.Role == workspaces.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission_denied"})
		return false
	}
	return true
}

func (h *httpHandler) handleListWorkspaces(c *gin.Context) {
	list, err := h.workspaces.EnsureUserWorkspaces(c.Request.Context(), currentUserID(c), h.displayName(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"workspaces": list})
}

func (h *httpHandler) handleCreateWorkspace(c *gin.Context) {
	var request workspaceCreatePayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	settings := workspaces.DefaultSettings()
	if request.Settings != nil {
		settings = *request.Settings
	}
	userID := currentUserID(c)
	workspace, err := h.workspaces.CreateWorkspaceWithOwner(c.Request.Context(), workspaces.WorkspaceInput{
		Name:        request.Name,
		Description: request.Description,
		OwnerID:     userID,
		Settings:    settings,
		IsPublic:    request.IsPublic,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.recordActivity(c, workspaces.Activity{
		WorkspaceID:  workspace.ID,
		UserID:       userID,
		Action:       workspaces.ActionCreated,
		ResourceType: workspaces.ResourceWorkspace,
		ResourceID:   workspace.ID,
		Details:      map[string]any{"name": workspace.Name},
	})
	h.publish(userTopic(userID), RealtimeEventWorkspaceChanged, workspace.ID, resourceWorkspace, workspace.ID)
	c.JSON(http.StatusCreated, workspace)
}

func (h *httpHandler) handleGetWorkspace(c *gin.Context) {
	id := c.Param("id")
	if _, ok := h.requireWorkspaceRole(c, id, workspaces.CanViewBooks); !ok {
		return
	}
	workspace, found, err := h.workspaces.GetWorkspace(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "workspace_not_found"})
		return
	}
	c.JSON(http.StatusOK, workspace)
}

func (h *httpHandler) handleUpdateWorkspace(c *gin.Context) {
	id := c.Param("id")
	if _, ok := h.requireWorkspaceRole(c, id, workspaces.CanManageSettings); !ok {
		return
	}
	var request workspacePatchPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	workspace, found, err := h.workspaces.UpdateWorkspace(c.Request.Context(), id, workspaces.WorkspacePatch{
		Name:        request.Name,
		Description: request.Description,
		Settings:    request.Settings,
		IsPublic:    request.IsPublic,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "workspace_not_found"})
		return
	}
	resource := workspaces.ResourceWorkspace
	if request.Settings != nil {
		resource = workspaces.ResourceSettings
	}
	h.recordActivity(c, workspaces.Activity{
		WorkspaceID:  id,
		UserID:       currentUserID(c),
		Action:       workspaces.ActionUpdated,
		ResourceType: resource,
		ResourceID:   id,
	})
	h.publish(workspaceTopic(id), RealtimeEventWorkspaceChanged, id, resourceWorkspace, id)
	c.JSON(http.StatusOK, workspace)
}

func (h *httpHandler) handleDeleteWorkspace(c *gin.Context) {
	id := c.Param("id")
	if _, ok := h.requireWorkspaceRole(c, id, isOwner); !ok {
		return
	}
	deleted, err := h.workspaces.DeleteWorkspace(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "workspace_not_found"})
		return
	}
	h.publish(workspaceTopic(id), RealtimeEventWorkspaceChanged, id, resourceWorkspace, id)
	c.Status(http.StatusNoContent)
}

func (h *httpHandler) handleListMembers(c *gin.Context) {
	id := c.Param("id")
	if _, ok := h.requireWorkspaceRole(c, id, workspaces.CanViewBooks); !ok {
		return
	}
	members, err := h.workspaces.ListMembers(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members})
}

func (h *httpHandler) handleAddMember(c *gin.Context) {
	id := c.Param("id")
	callerRole, ok := h.requireWorkspaceRole(c, id, workspaces.CanManageMembers)
	if !ok {
		return
	}
	var request memberCreatePayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	role, err := workspaces.ParseRole(request.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_role"})
		return
	}
	if !guardRoleGrant(c, callerRole, role) {
		return
	}
	if !h.guardMemberTarget(c, callerRole, id, strings.TrimSpace(request.UserID)) {
		return
	}
	actor := currentUserID(c)
	member, err := h.workspaces.AddMember(c.Request.Context(), workspaces.Member{
		UserID:      strings.TrimSpace(request.UserID),
		WorkspaceID: id,
		Role:        role,
		InvitedBy:   actor,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.recordActivity(c, workspaces.Activity{
		WorkspaceID:  id,
		UserID:       actor,
		Action:       workspaces.ActionJoined,
		ResourceType: workspaces.ResourceMember,
		ResourceID:   member.UserID,
		Details:      map[string]any{"role": string(member.Role)},
	})
	h.publish(workspaceTopic(id), RealtimeEventWorkspaceChanged, id, resourceMember, member.UserID)
	c.JSON(http.StatusCreated, member)
}

func (h *httpHandler) handleUpdateMember(c *gin.Context) {
	id := c.Param("id")
	callerRole, ok := h.requireWorkspaceRole(c, id, workspaces.CanManageMembers)
	if !ok {
		return
	}
	var request memberPatchPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	patch := workspaces.MemberPatch{Permissions: request.Permissions}
	if request.Role != nil {
		role, err := workspaces.ParseRole(*request.Role)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_role"})
			return
		}
		if !guardRoleGrant(c, callerRole, role) {
			return
		}
		patch.Role = &role
	}
	userID := c.Param("userId")
	if !h.guardMemberTarget(c, callerRole, id, userID) {
		return
	}
	member, found, err := h.workspaces.UpdateMember(c.Request.Context(), id, userID, patch)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "member_not_found"})
		return
	}
	h.recordActivity(c, workspaces.Activity{
		WorkspaceID:  id,
		UserID:       currentUserID(c),
		Action:       workspaces.ActionUpdated,
		ResourceType: workspaces.ResourceMember,
		ResourceID:   userID,
		Details:      map[string]any{"role": string(member.Role)},
	})
	h.publish(workspaceTopic(id), RealtimeEventWorkspaceChanged, id, resourceMember, userID)
	c.JSON(http.StatusOK, member)
}

// handleRemoveMember lets managers remove other members and every member remove themselves.
// The owner's row is never removed; the owner deletes the workspace instead.
func (h *httpHandler) handleRemoveMember(c *gin.Context) {
	id := c.Param("id")
	userID := c.Param("userId")
	actor := currentUserID(c)
	required := workspaces.CanManageMembers
	if userID == actor {
		required = workspaces.CanViewBooks
	}
	callerRole, ok := h.requireWorkspaceRole(c, id, required)
	if !ok {
		return
	}
	if userID == actor {
		// Leaving is always allowed except for the owner.
		callerRole = workspaces.RoleOwner
	}
	if !h.guardMemberTarget(c, callerRole, id, userID) {
		return
	}
	removed, err := h.workspaces.RemoveMember(c.Request.Context(), id, userID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "member_not_found"})
		return
	}
	h.recordActivity(c, workspaces.Activity{
		WorkspaceID:  id,
		UserID:       actor,
		Action:       workspaces.ActionLeft,
		ResourceType: workspaces.ResourceMember,
		ResourceID:   userID,
	})
	h.publish(workspaceTopic(id), RealtimeEventWorkspaceChanged, id, resourceMember, userID)
	c.Status(http.StatusNoContent)
}

func (h *httpHandler) handleListActivities(c *gin.Context) {
	id := c.Param("id")
	if _, ok := h.requireWorkspaceRole(c, id, workspaces.CanViewBooks); !ok {
		return
	}
	limit, ok := parseLimit(c)
	if !ok {
		return
	}
	activities, err := h.workspaces.ListActivities(c.Request.Context(), id, limit)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activities": activities})
}

func (h *httpHandler) handleListInvitations(c *gin.Context) {
	id := c.Param("id")
	if _, ok := h.requireWorkspaceRole(c, id, workspaces.CanInviteMembers); !ok {
		return
	}
	invitations, err := h.workspaces.ListInvitations(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invitations": invitations})
}

func (h *httpHandler) handleCreateInvitation(c *gin.Context) {
	id := c.Param("id")
	callerRole, ok := h.requireWorkspaceRole(c, id, workspaces.CanInviteMembers)
	if !ok {
		return
	}
	var request invitationCreatePayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	role, err := workspaces.ParseRole(request.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_role"})
		return
	}
	if !guardRoleGrant(c, callerRole, role) {
		return
	}
	actor := currentUserID(c)
	invitation, err := h.workspaces.CreateInvitation(c.Request.Context(), workspaces.InvitationInput{
		WorkspaceID: id,
		Email:       request.Email,
		Role:        role,
		InvitedBy:   actor,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.recordActivity(c, workspaces.Activity{
		WorkspaceID:  id,
		UserID:       actor,
		Action:       workspaces.ActionInvited,
		ResourceType: workspaces.ResourceMember,
		ResourceID:   invitation.ID,
		Details:      map[string]any{"email": invitation.Email, "role": string(invitation.Role)},
	})
	h.publish(workspaceTopic(id), RealtimeEventWorkspaceChanged, id, resourceInvitation, invitation.ID)
	c.JSON(http.StatusCreated, invitation)
}

func (h *httpHandler) handleUpdateInvitation(c *gin.Context) {
	id := c.Param("id")
	callerRole, ok := h.requireWorkspaceRole(c, id, workspaces.CanInviteMembers)
	if !ok {
		return
	}
	var request invitationPatchPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	if request.Status != nil && !validInvitationStatus(*request.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_status"})
		return
	}
	patch := workspaces.InvitationPatch{Status: request.Status, ExpiresAt: request.ExpiresAt}
	if request.Role != nil {
		role, err := workspaces.ParseRole(*request.Role)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_role"})
			return
		}
		if !guardRoleGrant(c, callerRole, role) {
			return
		}
		patch.Role = &role
	}

	invitationID := c.Param("invitationId")
	ctx := c.Request.Context()
	existing, err := h.workspaces.ListInvitations(ctx, id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	belongs := false
	for _, invitation := range existing {
		if invitation.ID == invitationID {
			belongs = true
			break
		}
	}
	if !belongs {
		c.JSON(http.StatusNotFound, gin.H{"error": "invitation_not_found"})
		return
	}

	invitation, found, err := h.workspaces.UpdateInvitation(ctx, invitationID, patch)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "invitation_not_found"})
		return
	}
	h.publish(workspaceTopic(id), RealtimeEventWorkspaceChanged, id, resourceInvitation, invitation.ID)
	c.JSON(http.StatusOK, invitation)
}

// handleExpireInvitations runs the expiry sweep on demand.
func (h *httpHandler) handleExpireInvitations(c *gin.Context) {
	expired, err := h.workspaces.ExpireInvitations(c.Request.Context(), h.clock().UTC())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"expired": expired})
}

// recordActivity logs instead of failing the request because the mutation already happened.
func (h *httpHandler) recordActivity(c *gin.Context, activity workspaces.Activity) {
	if _, err := h.workspaces.RecordActivity(c.Request.Context(), activity); err != nil {
		h.logger.Warn("workspace activity not recorded",
			zap.String("workspace_id", activity.WorkspaceID),
			zap.String("action", string(activity.Action)),
			zap.Error(err))
	}
}
