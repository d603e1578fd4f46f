package options

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/vk/energridgo/internal/config"
	"github.com/zclconf/go-cty/cty"
)

// ErrOptionNotSet is returned when no layer defines a key.
var ErrOptionNotSet = errors.New("option not set")

// Store resolves dotted option keys against techs, their parents and
// per-location overrides. It is immutable after New returns and therefore
// safe for concurrent use.
type Store struct {
	techs     map[string]*entry
	userTechs []string
	// overrides maps location -> tech (full or base name) -> key -> value.
	overrides map[string]map[string]map[string]cty.Value
	chains    map[string][]string
}

type entry struct {
	parent  string
	options map[string]cty.Value
}

// New builds a store from a loaded model.
func New(m *config.Model) (*Store, error) {
	s := &Store{
		techs:     make(map[string]*entry),
		overrides: make(map[string]map[string]map[string]cty.Value),
		chains:    make(map[string][]string),
	}
	for name, b := range builtinTechs() {
		s.techs[name] = &entry{parent: b.parent, options: b.options}
	}

	for name, t := range m.Techs {
		if _, clash := s.techs[name]; clash {
			return nil, fmt.Errorf("tech %q redefines a built-in tech", name)
		}
		if strings.ContainsAny(name, ":.") {
			return nil, fmt.Errorf("tech name %q must not contain ':' or '.'", name)
		}
		if t.Parent == "" {
			return nil, fmt.Errorf("tech %q has no parent", name)
		}
		s.techs[name] = &entry{parent: t.Parent, options: t.Options}
		s.userTechs = append(s.userTechs, name)
	}
	sort.Strings(s.userTechs)

	for name := range s.techs {
		chain, err := s.resolveChain(name)
		if err != nil {
			return nil, err
		}
		s.chains[name] = chain
	}

	for name, loc := range m.Locations {
		for tech, opts := range loc.Overrides {
			s.addOverride(name, tech, opts)
		}
	}
	for _, link := range m.Links {
		for tech, opts := range link.Techs {
			linkOpts := make(map[string]cty.Value, len(opts))
			for k, v := range opts {
				if k != "distance" {
					linkOpts[k] = v
				}
			}
			s.addOverride(link.From, tech+":"+link.To, linkOpts)
			s.addOverride(link.To, tech+":"+link.From, linkOpts)
		}
	}
	return s, nil
}

func (s *Store) addOverride(loc, tech string, opts map[string]cty.Value) {
	if len(opts) == 0 {
		return
	}
	byTech, ok := s.overrides[loc]
	if !ok {
		byTech = make(map[string]map[string]cty.Value)
		s.overrides[loc] = byTech
	}
	dst, ok := byTech[tech]
	if !ok {
		dst = make(map[string]cty.Value, len(opts))
		byTech[tech] = dst
	}
	for k, v := range opts {
		dst[k] = v
	}
}

func (s *Store) resolveChain(name string) ([]string, error) {
	var chain []string
	seen := make(map[string]bool)
	for cur := name; cur != ""; {
		if seen[cur] {
			return nil, fmt.Errorf("tech %q has a cyclic parent chain", name)
		}
		seen[cur] = true
		e, ok := s.techs[cur]
		if !ok {
			return nil, fmt.Errorf("tech %q descends from unknown tech %q", name, cur)
		}
		chain = append(chain, cur)
		cur = e.parent
	}
	return chain, nil
}

// Get resolves key, e.g. "ccgt.constraints.e_eff", scoped to location x.
// An empty x skips the location layer.
func (s *Store) Get(key, x string) (cty.Value, error) {
	tech, rest, ok := strings.Cut(key, ".")
	if !ok || rest == "" {
		return cty.NilVal, fmt.Errorf("option key %q must be of the form <tech>.<option>", key)
	}
	base := BaseTech(tech)
	chain, ok := s.chains[base]
	if !ok {
		return cty.NilVal, fmt.Errorf("%w: %s (unknown tech %q)", ErrOptionNotSet, key, base)
	}

	if x != "" {
		if byTech, ok := s.overrides[x]; ok {
			for _, name := range []string{tech, base} {
				if v, ok := byTech[name][rest]; ok {
					return v, nil
				}
			}
		}
	}
	for _, name := range chain {
		if v, ok := s.techs[name].options[rest]; ok {
			return v, nil
		}
	}
	return cty.NilVal, fmt.Errorf("%w: %s", ErrOptionNotSet, key)
}

// GetOr resolves key and falls back to fallbackKey when key is not set at
// any layer.
func (s *Store) GetOr(key, x, fallbackKey string) (cty.Value, error) {
	v, err := s.Get(key, x)
	if errors.Is(err, ErrOptionNotSet) {
		return s.Get(fallbackKey, x)
	}
	return v, err
}

// Techs returns the user-defined techs, sorted.
func (s *Store) Techs() []string {
	return s.userTechs
}

// Chain returns the tech followed by its ancestors up to the root.
func (s *Store) Chain(tech string) []string {
	return s.chains[BaseTech(tech)]
}

// IsMember reports whether tech descends from group (or is group itself).
func (s *Store) IsMember(tech, group string) bool {
	for _, name := range s.Chain(tech) {
		if name == group {
			return true
		}
	}
	return false
}

// GroupMembers returns the user techs that descend from group, sorted.
func (s *Store) GroupMembers(group string) []string {
	var out []string
	for _, y := range s.userTechs {
		if s.IsMember(y, group) {
			out = append(out, y)
		}
	}
	return out
}

// CostClasses returns every cost class named in a "costs.<k>.*" option of
// any tech or location override, excluding "default", sorted.
func (s *Store) CostClasses() []string {
	seen := make(map[string]struct{})
	collect := func(opts map[string]cty.Value) {
		for k := range opts {
			for _, prefix := range []string{"costs.", "costs_per_distance."} {
				rest, ok := strings.CutPrefix(k, prefix)
				if !ok {
					continue
				}
				class, _, ok := strings.Cut(rest, ".")
				if ok && class != "default" {
					seen[class] = struct{}{}
				}
			}
		}
	}
	for _, e := range s.techs {
		collect(e.options)
	}
	for _, byTech := range s.overrides {
		for _, opts := range byTech {
			collect(opts)
		}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// BaseTech strips the remote location suffix of a transmission tech.
func BaseTech(y string) string {
	base, _, _ := strings.Cut(y, ":")
	return base
}
