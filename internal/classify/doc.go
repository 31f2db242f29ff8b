// Package classify maps file extensions to destination categories.
package classify
