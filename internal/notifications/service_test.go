package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"sortd/internal/config"
	"sortd/internal/notifications"
)

type capture struct {
	mu       sync.Mutex
	requests []capturedRequest
}

type capturedRequest struct {
	title    string
	tags     string
	priority string
	body     string
}

func newTestService(t *testing.T, mutate func(*config.Config)) (notifications.Service, *capture) {
	t.Helper()
	cap := &capture{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		cap.mu.Lock()
		cap.requests = append(cap.requests, capturedRequest{
			title:    r.Header.Get("Title"),
			tags:     r.Header.Get("Tags"),
			priority: r.Header.Get("Priority"),
			body:     string(body),
		})
		cap.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	if mutate != nil {
		mutate(&cfg)
	}
	return notifications.NewService(&cfg), cap
}

func (c *capture) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.requests)
}

func TestNoopWithoutTopic(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	service := notifications.NewService(&cfg)

	if err := service.NotifySortError(context.Background(), "x.pdf", errors.New("boom")); err != nil {
		t.Fatalf("noop service returned error: %v", err)
	}
}

func TestSortErrorNotification(t *testing.T) {
	service, cap := newTestService(t, nil)

	if err := service.NotifySortError(context.Background(), "report.pdf", errors.New("disk full")); err != nil {
		t.Fatalf("NotifySortError: %v", err)
	}
	if cap.count() != 1 {
		t.Fatalf("expected 1 request, got %d", cap.count())
	}
	req := cap.requests[0]
	if req.title != "sortd - Error" {
		t.Fatalf("title = %q", req.title)
	}
	if req.priority != "high" {
		t.Fatalf("priority = %q, want high", req.priority)
	}
}

func TestSessionEventsCanBeDisabled(t *testing.T) {
	service, cap := newTestService(t, func(cfg *config.Config) {
		cfg.Notifications.Session = false
	})

	if err := service.NotifySessionStarted(context.Background(), "/incoming"); err != nil {
		t.Fatalf("NotifySessionStarted: %v", err)
	}
	if err := service.NotifySessionStopped(context.Background(), 3, 0); err != nil {
		t.Fatalf("NotifySessionStopped: %v", err)
	}
	if cap.count() != 0 {
		t.Fatalf("disabled session events still sent %d requests", cap.count())
	}
}

func TestRejectedNotificationSurfacesError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(server.Close)

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	service := notifications.NewService(&cfg)

	if err := service.TestNotification(context.Background()); err == nil {
		t.Fatal("expected error for rejected notification")
	}
}
