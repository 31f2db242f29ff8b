// Package notifications delivers optional ntfy push notifications for
// watch-session lifecycle and sorting errors. Without a configured topic a
// noop implementation is used, so callers never need to nil-check.
package notifications
