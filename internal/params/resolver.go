package params

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/vk/energridgo/internal/config"
	"github.com/vk/energridgo/internal/ctxlog"
	"github.com/vk/energridgo/internal/options"
	"github.com/vk/energridgo/internal/topologystore"
	"golang.org/x/sync/errgroup"
)

type seriesKey struct {
	param string
	class string
	tech  string
	loc   string
}

// Resolver answers parameter queries for (tech, location, timestep[, cost
// class]) tuples. It is safe for concurrent use.
type Resolver struct {
	opts    *options.Store
	topo    topologystore.Store
	classes []string
	steps   int

	series map[seriesKey][]float64
	// timeVarying records which (param, tech) pairs have a series at any
	// location.
	timeVarying map[string]map[string]struct{}

	records sync.Map // Key: y + "@" + x, Value: *Tech
}

// NewResolver indexes the time series of a model. classes are the cost
// classes records are resolved for and steps is the length of the time axis.
func NewResolver(opts *options.Store, topo topologystore.Store, classes []string, steps int, series []*config.Series) (*Resolver, error) {
	r := &Resolver{
		opts:        opts,
		topo:        topo,
		classes:     classes,
		steps:       steps,
		series:      make(map[seriesKey][]float64, len(series)),
		timeVarying: make(map[string]map[string]struct{}),
	}
	for _, s := range series {
		if err := checkSeriesParam(s); err != nil {
			return nil, err
		}
		if len(s.Values) != steps {
			return nil, fmt.Errorf("series %q for %s at %s has %d values, expected %d", s.Param, s.Tech, s.Location, len(s.Values), steps)
		}
		key := seriesKey{param: s.Param, class: s.CostClass, tech: s.Tech, loc: s.Location}
		if _, dup := r.series[key]; dup {
			return nil, fmt.Errorf("series %q for %s at %s defined twice", s.Param, s.Tech, s.Location)
		}
		r.series[key] = s.Values
		tvKey := s.Param + "/" + s.CostClass
		if r.timeVarying[tvKey] == nil {
			r.timeVarying[tvKey] = make(map[string]struct{})
		}
		r.timeVarying[tvKey][s.Tech] = struct{}{}
	}
	return r, nil
}

// checkSeriesParam rejects a series that no parameter lookup would read.
// Cost parameters need a cost class, constraint parameters must not have one.
func checkSeriesParam(s *config.Series) error {
	if slices.Contains(CostParams, CostParam(s.Param)) {
		if s.CostClass == "" {
			return options.NewConfigError(options.ErrOptionNotSet, s.Tech, s.Location,
				"series %q is a cost parameter and needs a cost_class", s.Param)
		}
		return nil
	}
	if !slices.Contains(Params, Param(s.Param)) {
		return options.NewConfigError(options.ErrInvalidOption, s.Tech, s.Location,
			"series %q is not a time-varying parameter", s.Param)
	}
	if s.CostClass != "" {
		return options.NewConfigError(options.ErrInvalidOption, s.Tech, s.Location,
			"series %q is a constraint parameter and cannot have cost_class %q", s.Param, s.CostClass)
	}
	return nil
}

// Tech returns the memoized static record of y at x.
func (r *Resolver) Tech(ctx context.Context, y, x string) (*Tech, error) {
	key := y + "@" + x
	if rec, ok := r.records.Load(key); ok {
		return rec.(*Tech), nil
	}
	rec, err := loadTech(ctx, r.opts, r.topo, r.classes, y, x)
	if err != nil {
		return nil, err
	}
	actual, _ := r.records.LoadOrStore(key, rec)
	return actual.(*Tech), nil
}

// Prepare resolves the records of every (tech, location) pair up front,
// using up to workers goroutines.
func (r *Resolver) Prepare(ctx context.Context, ys, xs []string, workers int) error {
	logger := ctxlog.FromContext(ctx)
	if workers < 1 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, y := range ys {
		for _, x := range xs {
			y, x := y, x
			g.Go(func() error {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				_, err := r.Tech(gctx, y, x)
				return err
			})
		}
	}
	if err := g.Wait(); err != nil {
		return err
	}
	logger.Debug("Parameter records resolved.", "records", len(ys)*len(xs))
	return nil
}

// IsTimeVarying reports whether a series is registered for the constraint
// parameter p of tech y at any location.
func (r *Resolver) IsTimeVarying(p Param, y string) bool {
	return r.hasSeries(string(p), "", y)
}

func (r *Resolver) hasSeries(param, class, y string) bool {
	techs := r.timeVarying[param+"/"+class]
	if _, ok := techs[y]; ok {
		return true
	}
	_, ok := techs[options.BaseTech(y)]
	return ok
}

func (r *Resolver) lookupSeries(param, class, y, x string, t int) (float64, bool, error) {
	if !r.hasSeries(param, class, y) {
		return 0, false, nil
	}
	if t < 0 || t >= r.steps {
		return 0, false, fmt.Errorf("timestep index %d out of range [0, %d)", t, r.steps)
	}
	for _, name := range []string{y, options.BaseTech(y)} {
		if vals, ok := r.series[seriesKey{param: param, class: class, tech: name, loc: x}]; ok {
			return vals[t], true, nil
		}
	}
	return 0, false, nil
}

// Constraint resolves a constraint parameter. A series registered for
// (p, y) wins; locations without a column fall back to the static value.
func (r *Resolver) Constraint(ctx context.Context, p Param, y, x string, t int) (float64, error) {
	v, ok, err := r.lookupSeries(string(p), "", y, x, t)
	if err != nil || ok {
		return v, err
	}
	rec, err := r.Tech(ctx, y, x)
	if err != nil {
		return 0, err
	}
	v = rec.staticValue(p)
	if math.IsNaN(v) {
		return 0, fmt.Errorf("unknown constraint parameter %q", p)
	}
	return v, nil
}

// Flag resolves a boolean constraint parameter; series values follow
// truthiness.
func (r *Resolver) Flag(ctx context.Context, p Param, y, x string, t int) (bool, error) {
	v, err := r.Constraint(ctx, p, y, x, t)
	return v != 0, err
}

// Cost resolves a unit cost of class k.
func (r *Resolver) Cost(ctx context.Context, p CostParam, k, y, x string, t int) (float64, error) {
	v, ok, err := r.lookupSeries(string(p), k, y, x, t)
	if err != nil || ok {
		return v, err
	}
	rec, err := r.Tech(ctx, y, x)
	if err != nil {
		return 0, err
	}
	return rec.UnitCost(k, p), nil
}
