// Package logs reads the daemon's log file for the CLI.
//
// Tail serves both modes of `sortd logs`: a negative offset returns the
// last N lines with bounded memory, and a resume offset plus a wait
// duration blocks briefly for fresh output, which drives --follow polling
// over IPC.
package logs
