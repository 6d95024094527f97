package workspaces

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/swaroski/ai-shelves/internal/kvstore"
	"go.uber.org/zap"
)

const defaultInvitationTTL = 7 * 24 * time.Hour

func (s *Service) allInvitations(ctx context.Context) ([]Invitation, error) {
	invitations, _, err := kvstore.LoadCollection[Invitation](ctx, s.store, invitationsKey)
	if err != nil {
		s.logError(opListInvitations, reasonLoadFailed, err)
		return nil, newServiceError(opListInvitations, reasonLoadFailed, err)
	}
	return invitations, nil
}

// ListInvitations returns every invitation of the workspace regardless of status.
func (s *Service) ListInvitations(ctx context.Context, workspaceID string) ([]Invitation, error) {
	invitations, err := s.allInvitations(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]Invitation, 0)
	for _, invitation := range invitations {
		if invitation.WorkspaceID == workspaceID {
			result = append(result, invitation)
		}
	}
	return result, nil
}

// CreateInvitation assigns an id and an opaque token. Missing timestamps default to now and
// now plus seven days; a missing status defaults to pending.
func (s *Service) CreateInvitation(ctx context.Context, input InvitationInput) (Invitation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email := strings.TrimSpace(input.Email)
	if strings.TrimSpace(input.WorkspaceID) == "" || email == "" {
		return Invitation{}, newServiceError(opCreateInvitation, reasonInvalidInput,
			fmt.Errorf("%w: workspace and email are required", ErrInvalidInvitation))
	}
	if !input.Role.Valid() {
		return Invitation{}, newServiceError(opCreateInvitation, reasonInvalidInput,
			fmt.Errorf("%w: %w", ErrInvalidInvitation, ErrInvalidRole))
	}
	id, err := s.newPrefixedID("invitation")
	if err != nil {
		s.logError(opCreateInvitation, reasonIDFailed, err)
		return Invitation{}, newServiceError(opCreateInvitation, reasonIDFailed, err)
	}
	token, err := s.tokens.NewToken()
	if err != nil {
		s.logError(opCreateInvitation, reasonTokenFailed, err)
		return Invitation{}, newServiceError(opCreateInvitation, reasonTokenFailed, err)
	}

	invitedAt := input.InvitedAt
	if invitedAt.IsZero() {
		invitedAt = s.clock().UTC()
	}
	expiresAt := input.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = invitedAt.Add(defaultInvitationTTL)
	}
	status := input.Status
	if status == "" {
		status = InvitationPending
	}
	invitation := Invitation{
		ID:          id,
		WorkspaceID: input.WorkspaceID,
		Email:       email,
		Role:        input.Role,
		InvitedBy:   input.InvitedBy,
		InvitedAt:   invitedAt,
		ExpiresAt:   expiresAt,
		Status:      status,
		Token:       token,
	}

	invitations, err := s.allInvitations(ctx)
	if err != nil {
		return Invitation{}, err
	}
	invitations = append(invitations, invitation)
	if err := kvstore.SaveCollection(ctx, s.store, invitationsKey, invitations); err != nil {
		s.logError(opCreateInvitation, reasonSaveFailed, err, zap.String("workspace_id", input.WorkspaceID))
		return Invitation{}, newServiceError(opCreateInvitation, reasonSaveFailed, err)
	}
	return invitation, nil
}

// UpdateInvitation applies the patch to the invitation with the given id.
func (s *Service) UpdateInvitation(ctx context.Context, id string, patch InvitationPatch) (Invitation, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if patch.Role != nil && !patch.Role.Valid() {
		return Invitation{}, false, newServiceError(opUpdateInvitation, reasonInvalidInput,
			fmt.Errorf("%w: %w", ErrInvalidInvitation, ErrInvalidRole))
	}
	invitations, err := s.allInvitations(ctx)
	if err != nil {
		return Invitation{}, false, err
	}
	for index := range invitations {
		if invitations[index].ID != id {
			continue
		}
		patch.apply(&invitations[index])
		if err := kvstore.SaveCollection(ctx, s.store, invitationsKey, invitations); err != nil {
			s.logError(opUpdateInvitation, reasonSaveFailed, err, zap.String("invitation_id", id))
			return Invitation{}, false, newServiceError(opUpdateInvitation, reasonSaveFailed, err)
		}
		return invitations[index], true, nil
	}
	return Invitation{}, false, nil
}

// ExpireInvitations marks pending invitations whose ExpiresAt is before now as expired.
// Nothing calls this implicitly; reads never change invitation status.
func (s *Service) ExpireInvitations(ctx context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	invitations, err := s.allInvitations(ctx)
	if err != nil {
		return 0, err
	}
	expired := 0
	for index := range invitations {
		if invitations[index].Status == InvitationPending && invitations[index].ExpiresAt.Before(now) {
			invitations[index].Status = InvitationExpired
			expired++
		}
	}
	if expired == 0 {
		return 0, nil
	}
	if err := kvstore.SaveCollection(ctx, s.store, invitationsKey, invitations); err != nil {
		s.logError(opExpireInvitations, reasonSaveFailed, err)
		return 0, newServiceError(opExpireInvitations, reasonSaveFailed, err)
	}
	return expired, nil
}

func (s *Service) removeWorkspaceInvitations(ctx context.Context, workspaceID string) error {
	invitations, err := s.allInvitations(ctx)
	if err != nil {
		return err
	}
	filtered := make([]Invitation, 0, len(invitations))
	for _, invitation := range invitations {
		if invitation.WorkspaceID != workspaceID {
			filtered = append(filtered, invitation)
		}
	}
	return kvstore.SaveCollection(ctx, s.store, invitationsKey, filtered)
}
