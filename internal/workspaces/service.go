package workspaces

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/swaroski/ai-shelves/internal/kvstore"
	"go.uber.org/zap"
)

const (
	workspacesKey  = "ai-shelves-workspaces"
	membersKey     = "ai-shelves-workspace-members"
	activitiesKey  = "ai-shelves-workspace-activities"
	invitationsKey = "ai-shelves-workspace-invitations"

	defaultWorkspaceDescription = "My personal library workspace"
	defaultDisplayName          = "User"
)

const (
	opServiceNew         = "workspaces.service.new"
	opListWorkspaces     = "workspaces.list"
	opCreateWorkspace    = "workspaces.create"
	opCreateDefault      = "workspaces.create_default"
	opUpdateWorkspace    = "workspaces.update"
	opDeleteWorkspace    = "workspaces.delete"
	opListMembers        = "workspaces.list_members"
	opAddMember          = "workspaces.add_member"
	opUpdateMember       = "workspaces.update_member"
	opRemoveMember       = "workspaces.remove_member"
	opRecordActivity     = "workspaces.record_activity"
	opListActivities     = "workspaces.list_activities"
	opListInvitations    = "workspaces.list_invitations"
	opCreateInvitation   = "workspaces.create_invitation"
	opUpdateInvitation   = "workspaces.update_invitation"
	opExpireInvitations  = "workspaces.expire_invitations"
	reasonLoadFailed     = "load_failed"
	reasonSaveFailed     = "save_failed"
	reasonIDFailed       = "id_generation_failed"
	reasonInvalidInput   = "invalid_input"
	reasonTokenFailed    = "token_generation_failed"
	reasonCascadeFailed  = "cascade_failed"
	reasonMemberFailed   = "owner_member_failed"
	reasonActivityFailed = "activity_failed"
)

// ServiceConfig describes the dependencies of the workspace manager.
type ServiceConfig struct {
	Store      kvstore.Store
	Clock      func() time.Time
	IDProvider IDProvider
	Tokens     TokenGenerator
	Logger     *zap.Logger
}

// Service manages workspaces, members, activities and invitations.
// Each collection lives under its own key and every mutation rewrites it whole.
type Service struct {
	store      kvstore.Store
	clock      func() time.Time
	idProvider IDProvider
	tokens     TokenGenerator
	logger     *zap.Logger
	// mu serializes read-modify-write cycles inside this process only.
	mu sync.Mutex
}

// NewService validates the configuration and constructs a Service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Store == nil {
		return nil, newServiceError(opServiceNew, "missing_store", errMissingStore)
	}
	if cfg.IDProvider == nil {
		return nil, newServiceError(opServiceNew, "missing_id_provider", errMissingIDProvider)
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	tokens := cfg.Tokens
	if tokens == nil {
		tokens = NewNanoidTokenGenerator()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:      cfg.Store,
		clock:      clock,
		idProvider: cfg.IDProvider,
		tokens:     tokens,
		logger:     logger,
	}, nil
}

// ListWorkspaces returns every stored workspace.
func (s *Service) ListWorkspaces(ctx context.Context) ([]Workspace, error) {
	workspaces, _, err := kvstore.LoadCollection[Workspace](ctx, s.store, workspacesKey)
	if err != nil {
		s.logError(opListWorkspaces, reasonLoadFailed, err)
		return nil, newServiceError(opListWorkspaces, reasonLoadFailed, err)
	}
	return workspaces, nil
}

// GetWorkspace returns the workspace with the given id.
func (s *Service) GetWorkspace(ctx context.Context, id string) (Workspace, bool, error) {
	workspaces, err := s.ListWorkspaces(ctx)
	if err != nil {
		return Workspace{}, false, err
	}
	for _, workspace := range workspaces {
		if workspace.ID == id {
			return workspace, true, nil
		}
	}
	return Workspace{}, false, nil
}

// CreateWorkspace assigns an id and timestamps and persists the workspace.
// The owner is not added as a member here; see CreateWorkspaceWithOwner.
func (s *Service) CreateWorkspace(ctx context.Context, input WorkspaceInput) (Workspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createWorkspace(ctx, input)
}

func (s *Service) createWorkspace(ctx context.Context, input WorkspaceInput) (Workspace, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.OwnerID) == "" {
		return Workspace{}, newServiceError(opCreateWorkspace, reasonInvalidInput,
			fmt.Errorf("%w: name and owner are required", ErrInvalidWorkspace))
	}
	id, err := s.newPrefixedID("workspace")
	if err != nil {
		s.logError(opCreateWorkspace, reasonIDFailed, err)
		return Workspace{}, newServiceError(opCreateWorkspace, reasonIDFailed, err)
	}
	workspaces, err := s.ListWorkspaces(ctx)
	if err != nil {
		return Workspace{}, err
	}

	now := s.clock().UTC()
	members := input.Members
	if members == nil {
		members = []Member{}
	}
	workspace := Workspace{
		ID:          id,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		OwnerID:     input.OwnerID,
		Members:     members,
		Settings:    input.Settings,
		CreatedAt:   now,
		UpdatedAt:   now,
		IsPublic:    input.IsPublic,
	}
	workspaces = append(workspaces, workspace)
	if err := kvstore.SaveCollection(ctx, s.store, workspacesKey, workspaces); err != nil {
		s.logError(opCreateWorkspace, reasonSaveFailed, err, zap.String("workspace_id", id))
		return Workspace{}, newServiceError(opCreateWorkspace, reasonSaveFailed, err)
	}
	return workspace, nil
}

// CreateWorkspaceWithOwner creates the workspace and then adds the owner as a member.
// The two writes are independent; a failure in between leaves a workspace without an owner member.
func (s *Service) CreateWorkspaceWithOwner(ctx context.Context, input WorkspaceInput) (Workspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createWorkspaceWithOwner(ctx, input)
}

func (s *Service) createWorkspaceWithOwner(ctx context.Context, input WorkspaceInput) (Workspace, error) {
	workspace, err := s.createWorkspace(ctx, input)
	if err != nil {
		return Workspace{}, err
	}
	if _, err := s.addMember(ctx, Member{
		UserID:      workspace.OwnerID,
		WorkspaceID: workspace.ID,
		Role:        RoleOwner,
		JoinedAt:    s.clock().UTC(),
	}); err != nil {
		s.logError(opCreateWorkspace, reasonMemberFailed, err, zap.String("workspace_id", workspace.ID))
		return workspace, err
	}
	return workspace, nil
}

// CreateDefaultWorkspace bootstraps a personal workspace with an owner membership and a "created" activity.
func (s *Service) CreateDefaultWorkspace(ctx context.Context, userID, displayName string) (Workspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createDefaultWorkspace(ctx, userID, displayName)
}

func (s *Service) createDefaultWorkspace(ctx context.Context, userID, displayName string) (Workspace, error) {
	name := strings.TrimSpace(displayName)
	if name == "" {
		name = defaultDisplayName
	}
	workspace, err := s.createWorkspaceWithOwner(ctx, WorkspaceInput{
		Name:        fmt.Sprintf("%s's Library", name),
		Description: defaultWorkspaceDescription,
		OwnerID:     userID,
		Settings:    DefaultSettings(),
		IsPublic:    false,
	})
	if err != nil {
		return Workspace{}, err
	}
	if _, err := s.recordActivity(ctx, Activity{
		WorkspaceID:  workspace.ID,
		UserID:       userID,
		Action:       ActionCreated,
		ResourceType: ResourceWorkspace,
		ResourceID:   workspace.ID,
		Details:      map[string]any{"name": workspace.Name},
	}); err != nil {
		s.logError(opCreateDefault, reasonActivityFailed, err, zap.String("workspace_id", workspace.ID))
		return workspace, err
	}
	s.logger.Info("default workspace created",
		zap.String("workspace_id", workspace.ID),
		zap.String("user_id", userID))
	return workspace, nil
}

// EnsureUserWorkspaces returns the user's workspaces, creating the default one when there are none.
// The lookup and the creation happen under one lock so concurrent first calls create one workspace.
func (s *Service) EnsureUserWorkspaces(ctx context.Context, userID, displayName string) ([]Workspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	workspaces, err := s.GetUserWorkspaces(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(workspaces) > 0 {
		return workspaces, nil
	}
	workspace, err := s.createDefaultWorkspace(ctx, userID, displayName)
	if err != nil {
		return nil, err
	}
	return []Workspace{workspace}, nil
}

// UpdateWorkspace applies the patch and restamps UpdatedAt.
func (s *Service) UpdateWorkspace(ctx context.Context, id string, patch WorkspacePatch) (Workspace, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	workspaces, err := s.ListWorkspaces(ctx)
	if err != nil {
		return Workspace{}, false, err
	}
	index := -1
	for i := range workspaces {
		if workspaces[i].ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		return Workspace{}, false, nil
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return Workspace{}, false, newServiceError(opUpdateWorkspace, reasonInvalidInput,
			fmt.Errorf("%w: name is required", ErrInvalidWorkspace))
	}
	patch.apply(&workspaces[index])
	workspaces[index].UpdatedAt = s.clock().UTC()
	if err := kvstore.SaveCollection(ctx, s.store, workspacesKey, workspaces); err != nil {
		s.logError(opUpdateWorkspace, reasonSaveFailed, err, zap.String("workspace_id", id))
		return Workspace{}, false, newServiceError(opUpdateWorkspace, reasonSaveFailed, err)
	}
	return workspaces[index], true, nil
}

// DeleteWorkspace removes the workspace and cascades to its members, activities and invitations.
func (s *Service) DeleteWorkspace(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	workspaces, err := s.ListWorkspaces(ctx)
	if err != nil {
		return false, err
	}
	filtered := make([]Workspace, 0, len(workspaces))
	for _, workspace := range workspaces {
		if workspace.ID != id {
			filtered = append(filtered, workspace)
		}
	}
	if len(filtered) == len(workspaces) {
		return false, nil
	}
	if err := kvstore.SaveCollection(ctx, s.store, workspacesKey, filtered); err != nil {
		s.logError(opDeleteWorkspace, reasonSaveFailed, err, zap.String("workspace_id", id))
		return false, newServiceError(opDeleteWorkspace, reasonSaveFailed, err)
	}

	cascades := []struct {
		key    string
		remove func(context.Context, string) error
	}{
		{key: membersKey, remove: s.removeWorkspaceMembers},
		{key: activitiesKey, remove: s.removeWorkspaceActivities},
		{key: invitationsKey, remove: s.removeWorkspaceInvitations},
	}
	for _, cascade := range cascades {
		if err := cascade.remove(ctx, id); err != nil {
			s.logError(opDeleteWorkspace, reasonCascadeFailed, err,
				zap.String("workspace_id", id),
				zap.String("key", cascade.key))
			return true, newServiceError(opDeleteWorkspace, reasonCascadeFailed, err)
		}
	}
	return true, nil
}

// GetUserWorkspaces returns workspaces the user owns or is a member of.
func (s *Service) GetUserWorkspaces(ctx context.Context, userID string) ([]Workspace, error) {
	workspaces, err := s.ListWorkspaces(ctx)
	if err != nil {
		return nil, err
	}
	members, err := s.allMembers(ctx)
	if err != nil {
		return nil, err
	}
	memberOf := make(map[string]bool)
	for _, member := range members {
		if member.UserID == userID {
			memberOf[member.WorkspaceID] = true
		}
	}
	result := make([]Workspace, 0)
	for _, workspace := range workspaces {
		if workspace.OwnerID == userID || memberOf[workspace.ID] {
			result = append(result, workspace)
		}
	}
	return result, nil
}

func (s *Service) newPrefixedID(prefix string) (string, error) {
	id, err := s.idProvider.NewID()
	if err != nil {
		return "", err
	}
	return prefix + "-" + id, nil
}

func (s *Service) logError(operation, reason string, err error, fields ...zap.Field) {
	attrs := []zap.Field{
		zap.String("operation", operation),
		zap.String("reason", reason),
	}
	if err != nil {
		attrs = append(attrs, zap.Error(err))
	}
	attrs = append(attrs, fields...)
	s.logger.Error("workspaces service error", attrs...)
}

func sortActivitiesNewestFirst(activities []Activity) {
	sort.SliceStable(activities, func(i, j int) bool {
		return activities[i].Timestamp.After(activities[j].Timestamp)
	})
}
