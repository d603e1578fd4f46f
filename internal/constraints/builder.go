package constraints

import (
	"context"
	"fmt"

	"github.com/vk/energridgo/internal/config"
	"github.com/vk/energridgo/internal/ctxlog"
	"github.com/vk/energridgo/internal/dag"
	"github.com/vk/energridgo/internal/lp"
	"github.com/vk/energridgo/internal/params"
	"github.com/vk/energridgo/internal/sets"
	"github.com/vk/energridgo/internal/topologystore"
)

// Component names, used as build step IDs.
const (
	StepResource     = "resource"
	StepBalance      = "balance"
	StepCapacity     = "capacity"
	StepOperational  = "operational"
	StepTransmission = "transmission"
	StepParasitics   = "parasitics"
	StepCosts        = "costs"
	StepSystem       = "system"
	StepObjective    = "objective"
)

// Builder emits the variables and constraints of one model build.
type Builder struct {
	model  *lp.Model
	sets   *sets.Sets
	params *params.Resolver
	topo   topologystore.Store
	run    config.Run

	startupCutoff int
}

// NewBuilder creates a builder writing into m.
func NewBuilder(m *lp.Model, s *sets.Sets, r *params.Resolver, topo topologystore.Store, run config.Run) *Builder {
	run = run.WithDefaults()
	return &Builder{
		model:         m,
		sets:          s,
		params:        r,
		topo:          topo,
		run:           run,
		startupCutoff: s.T.StartupCutoff(*run.StartupTime),
	}
}

// Model returns the model the builder writes into.
func (b *Builder) Model() *lp.Model {
	return b.model
}

// Steps returns the build components with their prerequisites.
func (b *Builder) Steps() []*dag.Step {
	return []*dag.Step{
		{ID: StepResource, Run: b.buildResource},
		{ID: StepBalance, Deps: []string{StepResource}, Run: b.buildBalance},
		{ID: StepCapacity, Deps: []string{StepResource}, Run: b.buildCapacity},
		{ID: StepOperational, Deps: []string{StepBalance, StepCapacity}, Run: b.buildOperational},
		{ID: StepTransmission, Deps: []string{StepCapacity}, Run: b.buildTransmission},
		{ID: StepParasitics, Deps: []string{StepBalance}, Run: b.buildParasitics},
		{ID: StepCosts, Deps: []string{StepResource, StepBalance, StepCapacity}, Run: b.buildCosts},
		{ID: StepSystem, Deps: []string{StepBalance, StepParasitics}, Run: b.buildSystem},
		{ID: StepObjective, Deps: []string{StepCosts}, Run: b.buildObjective},
	}
}

// Build runs every component on a pool of workers.
func (b *Builder) Build(ctx context.Context, workers int) error {
	exec, err := dag.NewExecutor(b.Steps(), workers)
	if err != nil {
		return fmt.Errorf("failed to plan model build: %w", err)
	}
	ctxlog.FromContext(ctx).Debug("Model build planned.", "order", exec.Order())
	return exec.Run(ctx)
}

// rule builds the constraint of one index tuple. ok is false when no
// constraint applies to the tuple.
type rule func(ctx context.Context, key lp.Key) (rel lp.Relation, ok bool, err error)

// emit applies r to every key and adds the resulting constraints to family.
func (b *Builder) emit(ctx context.Context, family string, keys []lp.Key, r rule) error {
	added := 0
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, ok, err := r(ctx, key)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if err := b.model.AddConstraint(family, key, rel); err != nil {
			return err
		}
		added++
	}
	ctxlog.FromContext(ctx).Debug("Constraint family built.", "family", family, "constraints", added, "skipped", len(keys)-added)
	return nil
}

// declare adds a variable family over the product of the given sets.
func (b *Builder) declare(name string, domain lp.Domain, index ...[]string) error {
	_, err := b.model.AddVariables(name, domain, lp.Product(index...))
	return err
}

// v returns a declared variable. A missing family or index is a
// programming error and panics.
func (b *Builder) v(family string, key ...string) lp.Var {
	f, ok := b.model.Variables(family)
	if !ok {
		panic(fmt.Sprintf("variable family %q is not declared", family))
	}
	return f.At(key...)
}

// step returns the integer index of a timestep label.
func (b *Builder) step(label string) int {
	i, ok := b.sets.T.Index(label)
	if !ok {
		panic(fmt.Sprintf("unknown timestep %q", label))
	}
	return i
}

// tech returns the static parameter record of (y, x).
func (b *Builder) tech(ctx context.Context, y, x string) (*params.Tech, error) {
	return b.params.Tech(ctx, y, x)
}

// export returns the export flow of (y, x, t), or an empty expression when
// y does not export at x.
func (b *Builder) export(rec *params.Tech, y, x, t string) lp.Expr {
	if !rec.Export || !b.sets.In(sets.Export, y) {
		return lp.Expr{}
	}
	return lp.V(b.v("export", y, x, t))
}

// none is the result of a rule for which no constraint applies.
func none() (lp.Relation, bool, error) {
	return lp.Relation{}, false, nil
}

func some(rel lp.Relation) (lp.Relation, bool, error) {
	return rel, true, nil
}

func fail(err error) (lp.Relation, bool, error) {
	return lp.Relation{}, false, err
}
