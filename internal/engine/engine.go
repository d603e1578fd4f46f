package engine

import (
	"context"
	"fmt"

	"github.com/vk/energridgo/internal/config"
	"github.com/vk/energridgo/internal/constraints"
	"github.com/vk/energridgo/internal/ctxlog"
	"github.com/vk/energridgo/internal/inmemorytopology"
	"github.com/vk/energridgo/internal/lp"
	"github.com/vk/energridgo/internal/options"
	"github.com/vk/energridgo/internal/params"
	"github.com/vk/energridgo/internal/sets"
)

// Options control a model build.
type Options struct {
	// Name is the name of the produced model.
	Name string
	// Mode overrides the run mode of the network description when set.
	Mode string
	// Workers bounds the number of build steps and parameter resolutions
	// run at the same time.
	Workers int
}

// Result is a built model with the index sets it was built over.
type Result struct {
	Model *lp.Model
	Sets  *sets.Sets
	Stats lp.Stats
}

// Build turns a network description into a model ready for a solver.
func Build(ctx context.Context, m *config.Model, opts Options) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Name == "" {
		opts.Name = "energridgo"
	}
	if opts.Mode != "" {
		m.Run.Mode = opts.Mode
	}
	m.Run = m.Run.WithDefaults()

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid network description: %w", err)
	}
	logger.Debug("Network description validated.", "techs", len(m.Techs), "locations", len(m.Locations), "links", len(m.Links))

	store, err := options.New(m)
	if err != nil {
		return nil, fmt.Errorf("failed to build option store: %w", err)
	}
	topo, err := inmemorytopology.Load(ctx, m, store)
	if err != nil {
		return nil, fmt.Errorf("failed to build topology: %w", err)
	}
	s, err := sets.Build(ctx, m, store, topo)
	if err != nil {
		return nil, fmt.Errorf("failed to derive sets: %w", err)
	}

	resolver, err := params.NewResolver(store, topo, s.K, s.T.Len(), m.Series)
	if err != nil {
		return nil, fmt.Errorf("failed to register series: %w", err)
	}
	if err := resolver.Prepare(ctx, s.Y, s.X, opts.Workers); err != nil {
		return nil, fmt.Errorf("failed to resolve parameters: %w", err)
	}

	model := lp.NewModel(opts.Name)
	b := constraints.NewBuilder(model, s, resolver, topo, m.Run)
	if err := b.Build(ctx, opts.Workers); err != nil {
		return nil, err
	}

	stats := model.Stats()
	logger.Info("Model built.",
		"mode", m.Run.Mode,
		"variables", stats.Variables,
		"constraints", stats.Constraints,
		"variable_families", stats.VariableFamilies,
		"constraint_families", stats.ConstraintFamilies)
	return &Result{Model: model, Sets: s, Stats: stats}, nil
}
