package workspaces

import (
	"context"

	"github.com/swaroski/ai-shelves/internal/kvstore"
	"go.uber.org/zap"
)

func (s *Service) allActivities(ctx context.Context) ([]Activity, error) {
	activities, _, err := kvstore.LoadCollection[Activity](ctx, s.store, activitiesKey)
	if err != nil {
		s.logError(opListActivities, reasonLoadFailed, err)
		return nil, newServiceError(opListActivities, reasonLoadFailed, err)
	}
	return activities, nil
}

// RecordActivity appends an entry to the log, assigning an id and timestamp when absent.
func (s *Service) RecordActivity(ctx context.Context, activity Activity) (Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recordActivity(ctx, activity)
}

func (s *Service) recordActivity(ctx context.Context, activity Activity) (Activity, error) {
	if activity.ID == "" {
		id, err := s.newPrefixedID("activity")
		if err != nil {
			s.logError(opRecordActivity, reasonIDFailed, err)
			return Activity{}, newServiceError(opRecordActivity, reasonIDFailed, err)
		}
		activity.ID = id
	}
	if activity.Timestamp.IsZero() {
		activity.Timestamp = s.clock().UTC()
	}
	if activity.Details == nil {
		activity.Details = map[string]any{}
	}
	activities, err := s.allActivities(ctx)
	if err != nil {
		return Activity{}, err
	}
	activities = append(activities, activity)
	if err := kvstore.SaveCollection(ctx, s.store, activitiesKey, activities); err != nil {
		s.logError(opRecordActivity, reasonSaveFailed, err, zap.String("workspace_id", activity.WorkspaceID))
		return Activity{}, newServiceError(opRecordActivity, reasonSaveFailed, err)
	}
	return activity, nil
}

// ListActivities returns the workspace's entries newest first, truncated when limit is positive.
func (s *Service) ListActivities(ctx context.Context, workspaceID string, limit int) ([]Activity, error) {
	activities, err := s.allActivities(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]Activity, 0)
	for _, activity := range activities {
		if activity.WorkspaceID == workspaceID {
			result = append(result, activity)
		}
	}
	sortActivitiesNewestFirst(result)
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *Service) removeWorkspaceActivities(ctx context.Context, workspaceID string) error {
	activities, err := s.allActivities(ctx)
	if err != nil {
		return err
	}
	filtered := make([]Activity, 0, len(activities))
	for _, activity := range activities {
		if activity.WorkspaceID != workspaceID {
			filtered = append(filtered, activity)
		}
	}
	return kvstore.SaveCollection(ctx, s.store, activitiesKey, filtered)
}
