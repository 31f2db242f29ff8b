// Package placer computes collision-free destination paths and performs the
// primary move. After a call to Move no pre-existing file has been
// overwritten: name collisions get an incrementing _N suffix before the
// extension, and existence is re-checked right before the rename to
// tolerate races with other writers in the same tree.
package placer
