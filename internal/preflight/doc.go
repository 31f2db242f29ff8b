// Package preflight verifies a configuration is workable before a watch
// session begins: the directory tree must exist with the right access bits
// and the sorted filesystem must have headroom.
package preflight
