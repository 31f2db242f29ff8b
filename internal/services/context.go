package services

import (
	"context"
	"strings"
)

type contextKey string

const (
	eventIDKey   contextKey = "sortd.event_id"
	componentKey contextKey = "sortd.component"
)

// WithEventID attaches a file event correlation ID to the context.
func WithEventID(ctx context.Context, id string) context.Context {
	id = strings.TrimSpace(id)
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, eventIDKey, id)
}

// EventIDFromContext extracts the event correlation ID, if present.
func EventIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(eventIDKey).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// WithComponent attaches the active component name to the context.
func WithComponent(ctx context.Context, component string) context.Context {
	component = strings.TrimSpace(component)
	if component == "" {
		return ctx
	}
	return context.WithValue(ctx, componentKey, component)
}

// ComponentFromContext extracts the active component name, if present.
func ComponentFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	component, ok := ctx.Value(componentKey).(string)
	if !ok || component == "" {
		return "", false
	}
	return component, true
}
