package sets

import (
	"context"
	"fmt"
	"sort"

	"github.com/vk/energridgo/internal/config"
	"github.com/vk/energridgo/internal/ctxlog"
	"github.com/vk/energridgo/internal/options"
	"github.com/vk/energridgo/internal/topologystore"
)

// Subset names a derived tech subset.
type Subset string

const (
	DefR   Subset = "y_def_r"  // techs with a resource: supply, demand, unmet_demand
	PC     Subset = "y_pc"     // techs with a primary balance: all but transmission and conversion
	RB     Subset = "y_rb"     // techs allowing a secondary resource
	Trans  Subset = "y_trans"  // location-suffixed transmission techs
	Conv   Subset = "y_conv"   // carrier conversion techs
	P      Subset = "y_p"      // techs with parasitic losses (c_eff != 1)
	NP     Subset = "y_np"     // techs without parasitic losses
	Export Subset = "y_export" // techs that may export
)

// Sets holds the index sets of one model build. It is immutable after
// Build returns.
type Sets struct {
	Y []string
	X []string
	C []string
	K []string
	T *Timeline

	Class   map[string]Class
	subsets map[Subset][]string
	member  map[Subset]map[string]struct{}
}

// Members returns the techs of a subset in the order of Y.
func (s *Sets) Members(sub Subset) []string {
	return s.subsets[sub]
}

// In reports whether tech y belongs to a subset.
func (s *Sets) In(sub Subset, y string) bool {
	_, ok := s.member[sub][y]
	return ok
}

// Build derives all index sets.
func Build(ctx context.Context, m *config.Model, opts *options.Store, topo topologystore.Store) (*Sets, error) {
	logger := ctxlog.FromContext(ctx)

	tl, err := NewTimeline(m.Time)
	if err != nil {
		return nil, err
	}
	s := &Sets{
		X:       topo.Locations(ctx),
		T:       tl,
		Class:   make(map[string]Class),
		subsets: make(map[Subset][]string),
		member:  make(map[Subset]map[string]struct{}),
	}

	seen := make(map[string]struct{})
	for _, loc := range m.Locations {
		for _, y := range loc.Techs {
			if opts.IsMember(y, options.Transmission) {
				continue
			}
			seen[y] = struct{}{}
		}
	}
	for _, y := range topo.TransmissionTechs(ctx) {
		seen[y] = struct{}{}
	}
	for y := range seen {
		s.Y = append(s.Y, y)
	}
	sort.Strings(s.Y)

	carriers := map[string]struct{}{m.Run.WithDefaults().PrimaryCarrier: {}}
	for _, y := range s.Y {
		class := ClassOf(opts, y)
		if class == Unclassified {
			return nil, fmt.Errorf("tech %q does not descend from any abstract tech", y)
		}
		s.Class[y] = class

		switch class {
		case Transmission:
			s.add(Trans, y)
		case Conversion:
			s.add(Conv, y)
		default:
			s.add(PC, y)
		}
		if class == Supply || class == UnmetDemand || class == Demand {
			s.add(DefR, y)
		}

		allowRB, err := techBool(opts, y, "constraints.allow_rb")
		if err != nil {
			return nil, err
		}
		if allowRB {
			s.add(RB, y)
		}

		cEff, err := techFloat(opts, y, "constraints.c_eff")
		if err != nil {
			return nil, err
		}
		if cEff != 1 {
			s.add(P, y)
		} else {
			s.add(NP, y)
		}

		export, err := s.exportAnywhere(ctx, opts, topo, y)
		if err != nil {
			return nil, err
		}
		if export {
			s.add(Export, y)
		}

		for _, key := range []string{"carrier", "source_carrier"} {
			v, err := opts.Get(y+"."+key, "")
			if err != nil {
				continue
			}
			c, err := options.String(v)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", y, key, err)
			}
			carriers[c] = struct{}{}
		}
	}
	s.C = sortedSet(carriers)

	if len(m.Run.CostClasses) > 0 {
		s.K = append([]string(nil), m.Run.CostClasses...)
		sort.Strings(s.K)
	} else {
		classes := map[string]struct{}{m.Run.WithDefaults().ObjectiveCostClass: {}}
		for _, k := range opts.CostClasses() {
			classes[k] = struct{}{}
		}
		for _, series := range m.Series {
			if series.CostClass != "" {
				classes[series.CostClass] = struct{}{}
			}
		}
		s.K = sortedSet(classes)
	}

	logger.Debug("Index sets derived.",
		"techs", len(s.Y), "locations", len(s.X), "timesteps", tl.Len(),
		"carriers", len(s.C), "cost_classes", len(s.K))
	return s, nil
}

func (s *Sets) add(sub Subset, y string) {
	if s.member[sub] == nil {
		s.member[sub] = make(map[string]struct{})
	}
	s.member[sub][y] = struct{}{}
	s.subsets[sub] = append(s.subsets[sub], y)
}

// exportAnywhere reports whether export is enabled for y at tech level or
// at any location where y is eligible.
func (s *Sets) exportAnywhere(ctx context.Context, opts *options.Store, topo topologystore.Store, y string) (bool, error) {
	if ok, err := techBool(opts, y, "export"); err != nil || ok {
		return ok, err
	}
	for _, x := range s.X {
		if !topo.IsEligible(ctx, y, x) {
			continue
		}
		v, err := opts.Get(y+".export", x)
		if err != nil {
			return false, err
		}
		if options.Truthy(v) {
			return true, nil
		}
	}
	return false, nil
}

func techBool(opts *options.Store, y, key string) (bool, error) {
	v, err := opts.Get(y+"."+key, "")
	if err != nil {
		return false, err
	}
	return options.Truthy(v), nil
}

func techFloat(opts *options.Store, y, key string) (float64, error) {
	v, err := opts.Get(y+"."+key, "")
	if err != nil {
		return 0, err
	}
	f, err := options.Float(v)
	if err != nil {
		return 0, fmt.Errorf("%s.%s: %w", y, key, err)
	}
	return f, nil
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
