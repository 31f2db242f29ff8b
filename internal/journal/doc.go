// Package journal persists an audit log of sort outcomes in SQLite.
//
// The journal is write-only from the pipeline's point of view: the engine
// records what happened to each observed file, and the CLI reads it back
// for history and statistics. Classification and placement never consult
// it, so the filesystem remains the only durable pipeline state.
package journal
