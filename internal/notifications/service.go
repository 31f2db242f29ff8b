package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"sortd/internal/config"
)

const userAgent = "sortd/0.1.0"

// Service defines the notification surface exposed to the daemon and engine.
type Service interface {
	NotifySessionStarted(ctx context.Context, incomingDir string) error
	NotifySessionStopped(ctx context.Context, sorted, failed int) error
	NotifySortError(ctx context.Context, filename string, cause error) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:      topic,
		client:        &http.Client{Timeout: timeout},
		sessionEvents: cfg.Notifications.Session,
		errorEvents:   cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint      string
	client        *http.Client
	sessionEvents bool
	errorEvents   bool
}

func (n *ntfyService) NotifySessionStarted(ctx context.Context, incomingDir string) error {
	if !n.sessionEvents {
		return nil
	}
	return n.send(ctx, payload{
		title:   "sortd - Watching",
		message: fmt.Sprintf("Watching for new files in %s", incomingDir),
		tags:    []string{"sortd", "session", "started"},
	})
}

func (n *ntfyService) NotifySessionStopped(ctx context.Context, sorted, failed int) error {
	if !n.sessionEvents {
		return nil
	}
	message := fmt.Sprintf("Watch session ended: %d files sorted", sorted)
	if failed > 0 {
		message = fmt.Sprintf("%s, %d failed", message, failed)
	}
	return n.send(ctx, payload{
		title:   "sortd - Stopped",
		message: message,
		tags:    []string{"sortd", "session", "stopped"},
	})
}

func (n *ntfyService) NotifySortError(ctx context.Context, filename string, cause error) error {
	if !n.errorEvents {
		return nil
	}
	message := fmt.Sprintf("Failed to sort %s", filename)
	if cause != nil {
		message = fmt.Sprintf("%s: %v", message, cause)
	}
	return n.send(ctx, payload{
		title:    "sortd - Error",
		message:  message,
		tags:     []string{"sortd", "error"},
		priority: "high",
	})
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	return n.send(ctx, payload{
		title:   "sortd - Test",
		message: "Notifications are configured correctly",
		tags:    []string{"sortd", "test"},
	})
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build notification request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notification rejected: %s", resp.Status)
	}
	return nil
}

type noopService struct{}

func (noopService) NotifySessionStarted(context.Context, string) error { return nil }

func (noopService) NotifySessionStopped(context.Context, int, int) error { return nil }

func (noopService) NotifySortError(context.Context, string, error) error { return nil }

func (noopService) TestNotification(context.Context) error { return nil }
