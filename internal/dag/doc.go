// Package dag orders and executes the model build. Each build step is a
// node; an edge from a to b means b reads variables or constraints that a
// declares. Independent steps run concurrently on a bounded worker pool,
// and a failed step skips everything downstream of it.
package dag
