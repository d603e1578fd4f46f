package dag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/vk/energridgo/internal/ctxlog"
)

// errSkipped marks steps that never ran because an upstream step failed.
var errSkipped = errors.New("skipped")

// Executor runs a set of steps in dependency order on a worker pool.
type Executor struct {
	graph      *Graph
	tasks      map[string]*task
	order      []string
	numWorkers int
	wg         sync.WaitGroup
}

// NewExecutor validates the steps (unique IDs, known dependencies, no
// cycles) and prepares them for execution.
func NewExecutor(steps []*Step, numWorkers int) (*Executor, error) {
	if numWorkers < 1 {
		numWorkers = 1
	}
	e := &Executor{
		graph:      New(),
		tasks:      make(map[string]*task, len(steps)),
		numWorkers: numWorkers,
	}
	for _, s := range steps {
		if _, dup := e.tasks[s.ID]; dup {
			return nil, fmt.Errorf("duplicate step '%s'", s.ID)
		}
		if s.Run == nil {
			return nil, fmt.Errorf("step '%s' has no run function", s.ID)
		}
		e.graph.AddNode(s.ID)
		e.tasks[s.ID] = &task{step: s}
	}
	for _, s := range steps {
		for _, dep := range s.Deps {
			if err := e.graph.AddEdge(dep, s.ID); err != nil {
				return nil, fmt.Errorf("step '%s': %w", s.ID, err)
			}
		}
	}
	order, err := e.graph.TopologicalOrder()
	if err != nil {
		return nil, err
	}
	e.order = order

	for _, id := range order {
		t := e.tasks[id]
		deps, _ := e.graph.Dependencies(id)
		t.depCount.Store(int32(len(deps)))
		dependents, _ := e.graph.Dependents(id)
		for _, d := range dependents {
			t.dependents = append(t.dependents, e.tasks[d])
		}
	}
	return e, nil
}

// Order returns a valid sequential execution order of the steps.
func (e *Executor) Order() []string {
	return e.order
}

// State returns the state of a step after Run.
func (e *Executor) State(id string) State {
	t, ok := e.tasks[id]
	if !ok {
		return Pending
	}
	return State(t.state.Load())
}

// Run executes all steps concurrently and returns an error if any step
// fails. The first failure cancels the context passed to running steps.
func (e *Executor) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	readyChan := make(chan *task, len(e.tasks))
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	rootCount := 0
	for _, id := range e.order {
		t := e.tasks[id]
		if t.depCount.Load() == 0 {
			readyChan <- t
			rootCount++
		}
	}
	logger.Debug("Found all root steps.", "count", rootCount)

	e.wg.Add(len(e.tasks))
	for i := 0; i < e.numWorkers; i++ {
		go e.worker(runCtx, readyChan, cancel, i)
	}
	e.wg.Wait()
	close(readyChan)

	var failed []string
	var rootCause error
	for _, id := range e.order {
		t := e.tasks[id]
		if State(t.state.Load()) != Failed {
			continue
		}
		if errors.Is(t.err, errSkipped) || errors.Is(t.err, context.Canceled) {
			continue
		}
		failed = append(failed, id)
		if rootCause == nil {
			rootCause = t.err
		}
	}
	if rootCause != nil {
		return fmt.Errorf("build failed at %s: %w", strings.Join(failed, ", "), rootCause)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return nil
}

// skipDependents recursively marks all downstream steps as failed.
func (e *Executor) skipDependents(ctx context.Context, t *task) {
	logger := ctxlog.FromContext(ctx)
	for _, dependent := range t.dependents {
		dependent.skipOnce.Do(func() {
			logger.Debug("Skipping step due to upstream failure.", "step", dependent.step.ID, "dependency", t.step.ID)
			dependent.state.Store(int32(Failed))
			dependent.err = fmt.Errorf("%w due to upstream failure of '%s'", errSkipped, t.step.ID)
			e.wg.Done()
			e.skipDependents(ctx, dependent)
		})
	}
}

// worker is the core processing loop for a single concurrent worker.
func (e *Executor) worker(ctx context.Context, readyChan chan *task, cancel context.CancelFunc, workerID int) {
	logger := ctxlog.FromContext(ctx).With("workerID", workerID)

	for t := range readyChan {
		stepLogger := logger.With("step", t.step.ID)

		if ctx.Err() != nil {
			t.skipOnce.Do(func() {
				t.state.Store(int32(Failed))
				t.err = ctx.Err()
				e.wg.Done()
				e.skipDependents(ctx, t)
			})
			continue
		}

		t.state.Store(int32(Running))
		err := t.step.Run(ctx)
		if err != nil {
			stepLogger.Debug("Step failed.", "error", err)
			t.state.Store(int32(Failed))
			t.err = err
			cancel()
			e.skipDependents(ctx, t)
			e.wg.Done()
			continue
		}

		stepLogger.Debug("Step succeeded.")
		t.state.Store(int32(Done))
		for _, dependent := range t.dependents {
			if dependent.depCount.Add(-1) == 0 {
				readyChan <- dependent
			}
		}
		e.wg.Done()
	}
}
