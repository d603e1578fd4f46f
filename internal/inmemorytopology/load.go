package inmemorytopology

import (
	"context"
	"fmt"
	"sort"

	"github.com/vk/energridgo/internal/config"
	"github.com/vk/energridgo/internal/ctxlog"
	"github.com/vk/energridgo/internal/options"
	"github.com/vk/energridgo/internal/topologystore"
)

// Load builds a populated topology store from a validated config model.
// Transmission techs listed directly at a location are ignored; they only
// exist through links.
func Load(ctx context.Context, m *config.Model, opts *options.Store) (topologystore.Store, error) {
	logger := ctxlog.FromContext(ctx)
	s := New()

	names := make([]string, 0, len(m.Locations))
	for name := range m.Locations {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := s.AddLocation(ctx, name, m.Locations[name].Within); err != nil {
			return nil, err
		}
	}
	for _, name := range names {
		for _, y := range m.Locations[name].Techs {
			if opts.IsMember(y, options.Transmission) {
				logger.Debug("Ignoring transmission tech listed at a location.", "tech", y, "location", name)
				continue
			}
			if err := s.AllowTech(ctx, y, name); err != nil {
				return nil, err
			}
		}
	}

	for _, link := range m.Links {
		techs := make([]string, 0, len(link.Techs))
		for y := range link.Techs {
			techs = append(techs, y)
		}
		sort.Strings(techs)
		for _, y := range techs {
			if !opts.IsMember(y, options.Transmission) {
				return nil, fmt.Errorf("link %s,%s uses tech %q which is not a transmission tech", link.From, link.To, y)
			}
			var distance *float64
			if v, ok := link.Techs[y]["distance"]; ok {
				d, err := options.Float(v)
				if err != nil {
					return nil, fmt.Errorf("link %s,%s tech %q: distance: %w", link.From, link.To, y, err)
				}
				distance = &d
			}
			if err := s.AddLink(ctx, link.From, link.To, y, distance); err != nil {
				return nil, err
			}
		}
	}

	logger.Debug("Topology loaded.", "locations", len(names), "links", len(m.Links))
	return s, nil
}
