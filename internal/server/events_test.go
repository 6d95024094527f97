package server

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestEventStreamEmitsLibraryChangeEvents(t *testing.T) {
	server := newTestServer(t)
	token := server.token(t, "reader-1", "Reader One")

	httpServer := httptest.NewServer(server.handler)
	t.Cleanup(httpServer.Close)

	streamRequest, err := http.NewRequest(http.MethodGet, httpServer.URL+"/events?access_token="+token, http.NoBody)
	if err != nil {
		t.Fatalf("failed to construct stream request: %v", err)
	}
	streamResp, err := http.DefaultClient.Do(streamRequest)
	if err != nil {
		t.Fatalf("failed to open stream: %v", err)
	}
	t.Cleanup(func() {
		_ = streamResp.Body.Close()
	})
	if streamResp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected stream status: %d", streamResp.StatusCode)
	}

	streamReader := bufio.NewReader(streamResp.Body)

	addRequest, err := http.NewRequest(http.MethodPost, httpServer.URL+"/books", bytes.NewBufferString(`{"title":"Kindred","author":"Octavia E. Butler"}`))
	if err != nil {
		t.Fatalf("failed to construct add request: %v", err)
	}
	addRequest.Header.Set("Authorization", "Bearer "+token)
	addRequest.Header.Set("Content-Type", "application/json")
	addResp, err := http.DefaultClient.Do(addRequest)
	if err != nil {
		t.Fatalf("add request failed: %v", err)
	}
	_ = addResp.Body.Close()
	if addResp.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected add status: %d", addResp.StatusCode)
	}

	currentEventType := ""
	deadline := time.After(5 * time.Second)
	type readResult struct {
		line string
		err  error
	}
	for {
		resultCh := make(chan readResult, 1)
		go func() {
			line, err := streamReader.ReadString('\n')
			resultCh <- readResult{line: line, err: err}
		}()
		select {
		case <-deadline:
			t.Fatal("timed out waiting for realtime event")
		case res := <-resultCh:
			if res.err != nil {
				t.Fatalf("failed to read stream: %v", res.err)
			}
			line := strings.TrimSpace(res.line)
			if line == "" {
				continue
			}
			if strings.HasPrefix(line, "event:") {
				currentEventType = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
				continue
			}
			if !strings.HasPrefix(line, "data:") || currentEventType != RealtimeEventLibraryChanged {
				continue
			}
			var payload realtimeEventPayload
			if err := json.Unmarshal([]byte(strings.TrimSpace(strings.TrimPrefix(line, "data:"))), &payload); err != nil {
				t.Fatalf("failed to decode event payload: %v", err)
			}
			if payload.Resource != resourceBook || len(payload.ResourceIDs) != 1 {
				t.Fatalf("unexpected event payload: %#v", payload)
			}
			return
		}
	}
}
