package workspaces

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/swaroski/ai-shelves/internal/kvstore"
)

type sequenceIDs struct {
	next int
}

func (p *sequenceIDs) NewID() (string, error) {
	p.next++
	return fmt.Sprintf("%d", p.next), nil
}

type staticTokens struct {
	value string
}

func (g staticTokens) NewToken() (string, error) {
	return g.value, nil
}

type steppingClock struct {
	now time.Time
}

func (c *steppingClock) Now() time.Time {
	current := c.now
	c.now = c.now.Add(time.Minute)
	return current
}

func newTestService(t *testing.T) (*Service, *kvstore.MemoryStore) {
	t.Helper()
	store := kvstore.NewMemoryStore(0)
	clock := &steppingClock{now: time.Date(2024, 8, 1, 9, 0, 0, 0, time.UTC)}
	service, err := NewService(ServiceConfig{
		Store:      store,
		Clock:      clock.Now,
		IDProvider: &sequenceIDs{},
		Tokens:     staticTokens{value: "token-abc"},
	})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}
	return service, store
}

func mustCreateWorkspace(t *testing.T, service *Service, ownerID string) Workspace {
	t.Helper()
	workspace, err := service.CreateWorkspaceWithOwner(context.Background(), WorkspaceInput{
		Name:     "Shared Shelf",
		OwnerID:  ownerID,
		Settings: DefaultSettings(),
	})
	if err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}
	return workspace
}
