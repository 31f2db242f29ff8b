// Package logging builds the slog loggers used across sortd.
//
// Two handler formats are supported: "console" renders compact
// human-readable lines, "json" emits machine-readable records. Loggers
// write to stdout and, when a log directory is configured, to sortd.log
// inside it. Helpers mirror the slog attr constructors so call sites stay
// terse, and WithContext folds correlation fields out of a context.
package logging
