// Package daemon wraps the engine with single-instance enforcement and
// exposes the control surface the IPC layer serves: session lifecycle,
// journal access, and notification testing.
package daemon
