package server

import (
	"context"
	"sync"
	"time"
)

const (
	RealtimeEventLibraryChanged   = "library-change"
	RealtimeEventFavoritesChanged = "favorites-change"
	RealtimeEventWorkspaceChanged = "workspace-change"
	realtimeEventHeartbeat        = "heartbeat"
	realtimeSourceBackend         = "shelves-api"
	realtimeGlobalTopic           = "global"
)

// RealtimeMessage tells subscribers which collection changed so they can re-read it.
type RealtimeMessage struct {
	Topic       string
	EventType   string
	WorkspaceID string
	Resource    string
	ResourceIDs []string
	Timestamp   time.Time
}

// RealtimeDispatcher fans messages out to subscribers by topic. Slow subscribers drop messages.
type RealtimeDispatcher struct {
	mu          sync.RWMutex
	subscribers map[string]map[int64]*realtimeSubscriber
	nextID      int64
	bufferSize  int
}

type realtimeSubscriber struct {
	id     int64
	stream chan RealtimeMessage
}

func NewRealtimeDispatcher() *RealtimeDispatcher {
	return &RealtimeDispatcher{
		subscribers: make(map[string]map[int64]*realtimeSubscriber),
		bufferSize:  16,
	}
}

func workspaceTopic(workspaceID string) string {
	if workspaceID == "" {
		return realtimeGlobalTopic
	}
	return "workspace:" + workspaceID
}

func userTopic(userID string) string {
	return "user:" + userID
}

// Subscribe registers one stream under every non-empty topic. The stream is released when ctx ends.
func (d *RealtimeDispatcher) Subscribe(ctx context.Context, topics ...string) (<-chan RealtimeMessage, func()) {
	filtered := make([]string, 0, len(topics))
	for _, topic := range topics {
		if topic != "" {
			filtered = append(filtered, topic)
		}
	}
	if len(filtered) == 0 {
		ch := make(chan RealtimeMessage)
		close(ch)
		return ch, func() {}
	}
	subscriber := &realtimeSubscriber{
		id:     d.nextSequence(),
		stream: make(chan RealtimeMessage, d.bufferSize),
	}
	d.registerSubscriber(filtered, subscriber)
	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			d.unregisterSubscriber(filtered, subscriber.id)
		})
	}
	go func() {
		<-ctx.Done()
		cleanup()
	}()
	return subscriber.stream, cleanup
}

func (d *RealtimeDispatcher) Publish(message RealtimeMessage) {
	if message.Topic == "" || message.EventType == "" {
		return
	}
	d.mu.RLock()
	subscribers := d.subscribers[message.Topic]
	if len(subscribers) == 0 {
		d.mu.RUnlock()
		return
	}
	copies := make([]*realtimeSubscriber, 0, len(subscribers))
	for _, subscriber := range subscribers {
		copies = append(copies, subscriber)
	}
	d.mu.RUnlock()
	for _, subscriber := range copies {
		select {
		case subscriber.stream <- message:
		default:
		}
	}
}

func (d *RealtimeDispatcher) nextSequence() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	return d.nextID
}

func (d *RealtimeDispatcher) registerSubscriber(topics []string, subscriber *realtimeSubscriber) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, topic := range topics {
		if _, ok := d.subscribers[topic]; !ok {
			d.subscribers[topic] = make(map[int64]*realtimeSubscriber)
		}
		d.subscribers[topic][subscriber.id] = subscriber
	}
}

func (d *RealtimeDispatcher) unregisterSubscriber(topics []string, subscriberID int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, topic := range topics {
		subscribers := d.subscribers[topic]
		if subscribers == nil {
			continue
		}
		delete(subscribers, subscriberID)
		if len(subscribers) == 0 {
			delete(d.subscribers, topic)
		}
	}
}
