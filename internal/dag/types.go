package dag

import (
	"context"
	"sync"
	"sync/atomic"
)

// Graph holds the build steps and the ordering between them. It is safe
// for concurrent use.
type Graph struct {
	mutex sync.RWMutex
	nodes map[string]*node
}

// node is one step in the graph. deps must finish before the step runs;
// dependents wait for it.
type node struct {
	id         string
	deps       map[string]*node
	dependents map[string]*node
}

// Step is one unit of work. Deps name the steps that must succeed first.
type Step struct {
	ID   string
	Deps []string
	Run  func(ctx context.Context) error
}

// State is the lifecycle state of a step during execution.
type State int32

const (
	Pending State = iota
	Running
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Running:
		return "running"
	case Done:
		return "done"
	default:
		return "failed"
	}
}

// task is the runtime wrapper of a Step.
type task struct {
	step       *Step
	state      atomic.Int32
	depCount   atomic.Int32
	err        error
	skipOnce   sync.Once
	dependents []*task
}
