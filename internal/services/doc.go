// Package services provides the shared error classification and context
// plumbing used across the sorting pipeline.
package services
