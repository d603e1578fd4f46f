package hcl

import (
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/energridgo/internal/config"
	"github.com/vk/energridgo/internal/schema"
	"github.com/zclconf/go-cty/cty"
)

// modelBuilder merges the blocks of several files into one model.
type modelBuilder struct {
	model       *config.Model
	run         *schema.Run
	linkTechs   map[[3]string]struct{}
	seriesNames map[[4]string]struct{}
}

func newModelBuilder() *modelBuilder {
	return &modelBuilder{
		model: &config.Model{
			Techs:     make(map[string]*config.Tech),
			Locations: make(map[string]*config.Location),
		},
		linkTechs:   make(map[[3]string]struct{}),
		seriesNames: make(map[[4]string]struct{}),
	}
}

// add translates and merges the blocks of one file.
func (b *modelBuilder) add(f *schema.File, evalCtx *hcl.EvalContext) error {
	if f.Run != nil {
		if b.run != nil {
			return errors.New("run block defined more than once")
		}
		b.run = f.Run
	}
	if f.Time != nil {
		if b.model.Time != nil {
			return errors.New("time block defined more than once")
		}
		b.model.Time = translateTime(f.Time)
	}
	for _, t := range f.Techs {
		if err := b.addTech(t, evalCtx); err != nil {
			return err
		}
	}
	for _, loc := range f.Locations {
		if err := b.addLocation(loc, evalCtx); err != nil {
			return err
		}
	}
	for _, link := range f.Links {
		if err := b.addLink(link, evalCtx); err != nil {
			return err
		}
	}
	for _, s := range f.Series {
		if err := b.addSeries(s); err != nil {
			return err
		}
	}
	return nil
}

// finish applies the run settings and returns the merged model.
func (b *modelBuilder) finish() (*config.Model, error) {
	if b.model.Time == nil {
		return nil, errors.New("no time block defined")
	}
	b.model.Run = translateRun(b.run)
	return b.model, nil
}

func translateRun(r *schema.Run) config.Run {
	if r == nil {
		return config.Run{}
	}
	return config.Run{
		Mode:               r.Mode,
		PrimaryCarrier:     r.PrimaryCarrier,
		ObjectiveCostClass: r.ObjectiveCostClass,
		StartupTime:        r.StartupTime,
		CostClasses:        r.CostClasses,
	}
}

// translateTime fills omitted resolution and weights with ones.
func translateTime(t *schema.Time) *config.Time {
	ones := func(vals []float64) []float64 {
		if len(vals) > 0 {
			return vals
		}
		out := make([]float64, len(t.Steps))
		for i := range out {
			out[i] = 1
		}
		return out
	}
	return &config.Time{
		Steps:      t.Steps,
		Resolution: ones(t.Resolution),
		Weights:    ones(t.Weights),
	}
}

func (b *modelBuilder) addTech(t *schema.Tech, evalCtx *hcl.EvalContext) error {
	if _, dup := b.model.Techs[t.Name]; dup {
		return fmt.Errorf("tech %q defined more than once", t.Name)
	}
	opts, err := flattenOptions(t.Options, evalCtx)
	if err != nil {
		return fmt.Errorf("tech %q: %w", t.Name, err)
	}
	b.model.Techs[t.Name] = &config.Tech{Name: t.Name, Parent: t.Parent, Options: opts}
	return nil
}

func (b *modelBuilder) addLocation(loc *schema.Location, evalCtx *hcl.EvalContext) error {
	if _, dup := b.model.Locations[loc.Name]; dup {
		return fmt.Errorf("location %q defined more than once", loc.Name)
	}
	out := &config.Location{Name: loc.Name, Within: loc.Within, Techs: loc.Techs}
	for _, o := range loc.Overrides {
		if out.Overrides == nil {
			out.Overrides = make(map[string]map[string]cty.Value)
		}
		if _, dup := out.Overrides[o.Tech]; dup {
			return fmt.Errorf("location %q overrides tech %q more than once", loc.Name, o.Tech)
		}
		opts, err := flattenOptions(o.Options, evalCtx)
		if err != nil {
			return fmt.Errorf("location %q, override %q: %w", loc.Name, o.Tech, err)
		}
		out.Overrides[o.Tech] = opts
	}
	b.model.Locations[loc.Name] = out
	return nil
}

func (b *modelBuilder) addLink(link *schema.Link, evalCtx *hcl.EvalContext) error {
	out := &config.Link{From: link.From, To: link.To, Techs: make(map[string]map[string]cty.Value, len(link.Techs))}
	for _, lt := range link.Techs {
		id := [3]string{link.From, link.To, lt.Name}
		if link.To < link.From {
			id = [3]string{link.To, link.From, lt.Name}
		}
		if _, dup := b.linkTechs[id]; dup {
			return fmt.Errorf("link %s,%s defines tech %q more than once", link.From, link.To, lt.Name)
		}
		b.linkTechs[id] = struct{}{}

		opts, err := flattenOptions(lt.Options, evalCtx)
		if err != nil {
			return fmt.Errorf("link %s,%s, tech %q: %w", link.From, link.To, lt.Name, err)
		}
		out.Techs[lt.Name] = opts
	}
	b.model.Links = append(b.model.Links, out)
	return nil
}

func (b *modelBuilder) addSeries(s *schema.Series) error {
	id := [4]string{s.Param, s.Tech, s.Location, s.CostClass}
	if _, dup := b.seriesNames[id]; dup {
		return fmt.Errorf("series %q for tech %q at %q defined more than once", s.Param, s.Tech, s.Location)
	}
	b.seriesNames[id] = struct{}{}
	b.model.Series = append(b.model.Series, &config.Series{
		Param:     s.Param,
		Tech:      s.Tech,
		Location:  s.Location,
		CostClass: s.CostClass,
		Values:    s.Values,
	})
	return nil
}
