package server

import (
	"context"
	"testing"
	"time"
)

func TestRealtimeDispatcherPublishesToSubscriber(t *testing.T) {
	dispatcher := NewRealtimeDispatcher()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream, cleanup := dispatcher.Subscribe(ctx, workspaceTopic("workspace-1"))
	defer cleanup()

	message := RealtimeMessage{
		Topic:       workspaceTopic("workspace-1"),
		EventType:   RealtimeEventLibraryChanged,
		WorkspaceID: "workspace-1",
		Resource:    "book",
		ResourceIDs: []string{"book-a", "book-b"},
		Timestamp:   time.Now().UTC(),
	}
	dispatcher.Publish(message)

	select {
	case received := <-stream:
		if received.EventType != RealtimeEventLibraryChanged {
			t.Fatalf("expected event type %s, got %s", RealtimeEventLibraryChanged, received.EventType)
		}
		if len(received.ResourceIDs) != 2 {
			t.Fatalf("expected 2 resource ids, got %d", len(received.ResourceIDs))
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected realtime message within deadline")
	}
}

func TestRealtimeDispatcherIsolatedByTopic(t *testing.T) {
	dispatcher := NewRealtimeDispatcher()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	workspaceStream, cleanup := dispatcher.Subscribe(ctx, workspaceTopic("workspace-2"))
	defer cleanup()

	userStream, userCleanup := dispatcher.Subscribe(ctx, workspaceTopic(""), userTopic("user-3"))
	defer userCleanup()

	dispatcher.Publish(RealtimeMessage{
		Topic:     userTopic("user-3"),
		EventType: RealtimeEventFavoritesChanged,
		Timestamp: time.Now().UTC(),
	})

	select {
	case <-workspaceStream:
		t.Fatal("did not expect realtime message for unrelated topic")
	case <-time.After(200 * time.Millisecond):
	}

	select {
	case msg := <-userStream:
		if msg.EventType != RealtimeEventFavoritesChanged {
			t.Fatalf("expected favorites event, received %s", msg.EventType)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected realtime message for subscribed topic")
	}
}

func TestRealtimeDispatcherReleasesSubscriberOnCancel(t *testing.T) {
	dispatcher := NewRealtimeDispatcher()
	ctx, cancel := context.WithCancel(context.Background())

	_, cleanup := dispatcher.Subscribe(ctx, workspaceTopic(""))
	cleanup()
	cancel()

	dispatcher.mu.RLock()
	remaining := len(dispatcher.subscribers)
	dispatcher.mu.RUnlock()
	if remaining != 0 {
		t.Fatalf("expected no subscribers after cleanup, got %d topics", remaining)
	}
}

func TestRealtimeDispatcherClosedStreamWithoutTopics(t *testing.T) {
	stream, cleanup := NewRealtimeDispatcher().Subscribe(context.Background())
	defer cleanup()
	if _, open := <-stream; open {
		t.Fatal("expected closed stream when no topics are given")
	}
}
