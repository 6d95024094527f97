package server

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const realtimeHeartbeatInterval = 25 * time.Second

type realtimeEventPayload struct {
	WorkspaceID string    `json:"workspaceId,omitempty"`
	Resource    string    `json:"resource,omitempty"`
	ResourceIDs []string  `json:"resourceIds"`
	Timestamp   time.Time `json:"timestamp"`
	Source      string    `json:"source"`
}

// handleEvents streams change notifications for the selected scope and the caller's favorites.
func (h *httpHandler) handleEvents(c *gin.Context) {
	scope, ok := h.resolveScope(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	stream, cleanup := h.realtime.Subscribe(ctx, workspaceTopic(scope.WorkspaceID), userTopic(currentUserID(c)))
	defer cleanup()

	heartbeat := time.NewTicker(realtimeHeartbeatInterval)
	defer heartbeat.Stop()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	c.Stream(func(io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case message, open := <-stream:
			if !open {
				return false
			}
			resourceIDs := message.ResourceIDs
			if resourceIDs == nil {
				resourceIDs = []string{}
			}
			c.SSEvent(message.EventType, realtimeEventPayload{
				WorkspaceID: message.WorkspaceID,
				Resource:    message.Resource,
				ResourceIDs: resourceIDs,
				Timestamp:   message.Timestamp,
				Source:      realtimeSourceBackend,
			})
			return true
		case tick := <-heartbeat.C:
			c.SSEvent(realtimeEventHeartbeat, realtimeEventPayload{
				ResourceIDs: []string{},
				Timestamp:   tick.UTC(),
				Source:      realtimeSourceBackend,
			})
			return true
		}
	})
}
