package workspaces

import (
	"context"
	"fmt"
	"strings"

	"github.com/swaroski/ai-shelves/internal/kvstore"
	"go.uber.org/zap"
)

func (s *Service) allMembers(ctx context.Context) ([]Member, error) {
	members, _, err := kvstore.LoadCollection[Member](ctx, s.store, membersKey)
	if err != nil {
		s.logError(opListMembers, reasonLoadFailed, err)
		return nil, newServiceError(opListMembers, reasonLoadFailed, err)
	}
	return members, nil
}

// ListMembers returns the members of one workspace in insertion order.
func (s *Service) ListMembers(ctx context.Context, workspaceID string) ([]Member, error) {
	members, err := s.allMembers(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]Member, 0)
	for _, member := range members {
		if member.WorkspaceID == workspaceID {
			result = append(result, member)
		}
	}
	return result, nil
}

// GetMember returns the membership row for (workspaceID, userID).
func (s *Service) GetMember(ctx context.Context, workspaceID, userID string) (Member, bool, error) {
	members, err := s.allMembers(ctx)
	if err != nil {
		return Member{}, false, err
	}
	for _, member := range members {
		if member.WorkspaceID == workspaceID && member.UserID == userID {
			return member, true, nil
		}
	}
	return Member{}, false, nil
}

// MemberRole resolves the caller's role in a workspace.
// The workspace's OwnerID always resolves to RoleOwner, whatever its membership row says.
func (s *Service) MemberRole(ctx context.Context, workspaceID, userID string) (Role, bool, error) {
	workspace, found, err := s.GetWorkspace(ctx, workspaceID)
	if err != nil {
		return "", false, err
	}
	if found && workspace.OwnerID == userID {
		return RoleOwner, true, nil
	}
	member, ok, err := s.GetMember(ctx, workspaceID, userID)
	if err != nil {
		return "", false, err
	}
	if ok {
		return member.Role, true, nil
	}
	return "", false, nil
}

// AddMember appends a membership row. Duplicate (workspace, user) pairs are not rejected.
func (s *Service) AddMember(ctx context.Context, member Member) (Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addMember(ctx, member)
}

func (s *Service) addMember(ctx context.Context, member Member) (Member, error) {
	if strings.TrimSpace(member.WorkspaceID) == "" || strings.TrimSpace(member.UserID) == "" {
		return Member{}, newServiceError(opAddMember, reasonInvalidInput,
			fmt.Errorf("%w: workspace and user are required", ErrInvalidMember))
	}
	if !member.Role.Valid() {
		return Member{}, newServiceError(opAddMember, reasonInvalidInput,
			fmt.Errorf("%w: %w", ErrInvalidMember, ErrInvalidRole))
	}
	if member.JoinedAt.IsZero() {
		member.JoinedAt = s.clock().UTC()
	}
	if member.Permissions == nil {
		member.Permissions = []Permission{}
	}
	members, err := s.allMembers(ctx)
	if err != nil {
		return Member{}, err
	}
	members = append(members, member)
	if err := kvstore.SaveCollection(ctx, s.store, membersKey, members); err != nil {
		s.logError(opAddMember, reasonSaveFailed, err,
			zap.String("workspace_id", member.WorkspaceID),
			zap.String("user_id", member.UserID))
		return Member{}, newServiceError(opAddMember, reasonSaveFailed, err)
	}
	return member, nil
}

// UpdateMember applies the patch to the (workspaceID, userID) row.
func (s *Service) UpdateMember(ctx context.Context, workspaceID, userID string, patch MemberPatch) (Member, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if patch.Role != nil && !patch.Role.Valid() {
		return Member{}, false, newServiceError(opUpdateMember, reasonInvalidInput,
			fmt.Errorf("%w: %w", ErrInvalidMember, ErrInvalidRole))
	}
	members, err := s.allMembers(ctx)
	if err != nil {
		return Member{}, false, err
	}
	for index := range members {
		if members[index].WorkspaceID != workspaceID || members[index].UserID != userID {
			continue
		}
		if patch.Role != nil {
			members[index].Role = *patch.Role
		}
		if patch.Permissions != nil {
			members[index].Permissions = *patch.Permissions
		}
		if err := kvstore.SaveCollection(ctx, s.store, membersKey, members); err != nil {
			s.logError(opUpdateMember, reasonSaveFailed, err,
				zap.String("workspace_id", workspaceID),
				zap.String("user_id", userID))
			return Member{}, false, newServiceError(opUpdateMember, reasonSaveFailed, err)
		}
		return members[index], true, nil
	}
	return Member{}, false, nil
}

// RemoveMember drops every row matching (workspaceID, userID).
func (s *Service) RemoveMember(ctx context.Context, workspaceID, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	members, err := s.allMembers(ctx)
	if err != nil {
		return false, err
	}
	filtered := make([]Member, 0, len(members))
	for _, member := range members {
		if member.WorkspaceID == workspaceID && member.UserID == userID {
			continue
		}
		filtered = append(filtered, member)
	}
	if len(filtered) == len(members) {
		return false, nil
	}
	if err := kvstore.SaveCollection(ctx, s.store, membersKey, filtered); err != nil {
		s.logError(opRemoveMember, reasonSaveFailed, err,
			zap.String("workspace_id", workspaceID),
			zap.String("user_id", userID))
		return false, newServiceError(opRemoveMember, reasonSaveFailed, err)
	}
	return true, nil
}

func (s *Service) removeWorkspaceMembers(ctx context.Context, workspaceID string) error {
	members, err := s.allMembers(ctx)
	if err != nil {
		return err
	}
	filtered := make([]Member, 0, len(members))
	for _, member := range members {
		if member.WorkspaceID != workspaceID {
			filtered = append(filtered, member)
		}
	}
	return kvstore.SaveCollection(ctx, s.store, membersKey, filtered)
}
