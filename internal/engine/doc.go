// Package engine runs the watch-classify-move pipeline.
//
// The engine owns one watch session at a time: Idle until Start, Watching
// until Stop. Every observed file is processed sequentially in arrival
// order: settle check, classification, collision-safe move, best-effort
// archive copy, journal record. A failure on one file never stops the
// session; only a configuration error at Start can.
package engine
