// Package engine wires the layers of a model build together: it validates
// a loaded network description, resolves options and topology, derives the
// index sets and parameter records, and runs the constraint builders.
package engine
