// Package archiver keeps dated backup copies of sorted files.
//
// Archiving is best-effort auxiliary backup: it runs after the primary move
// has succeeded and its failures are logged, never propagated into the
// outcome of the move itself.
package archiver
