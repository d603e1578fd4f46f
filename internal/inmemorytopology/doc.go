// Package inmemorytopology provides a thread-safe, in-memory implementation
// of the topologystore.Store interface, together with a loader that
// populates it from a config.Model.
package inmemorytopology
