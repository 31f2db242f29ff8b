// Package watcher turns filesystem creation notifications on the incoming
// directory into FileEvent values on a single-consumer channel.
package watcher
