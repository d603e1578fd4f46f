package inmemorytopology

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/vk/energridgo/internal/topologystore"
)

// Store implements the topologystore.Store interface using maps and a mutex
// for thread-safe concurrent access.
type Store struct {
	mu        sync.RWMutex
	parents   map[string]string
	children  map[string]map[string]struct{}
	eligible  map[string]map[string]struct{} // Key: location, Value: set of techs
	links     map[string]topologystore.Link  // Key: linkKey(from, to, tech)
	transTech map[string]struct{}
}

// New creates a new, empty in-memory topology store.
func New() topologystore.Store {
	return &Store{
		parents:   make(map[string]string),
		children:  make(map[string]map[string]struct{}),
		eligible:  make(map[string]map[string]struct{}),
		links:     make(map[string]topologystore.Link),
		transTech: make(map[string]struct{}),
	}
}

func linkKey(from, to, tech string) string {
	return from + "," + to + "/" + tech
}

// AddLocation adds a location to the tree.
func (s *Store) AddLocation(ctx context.Context, name, within string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.parents[name]; exists {
		return fmt.Errorf("location '%s' already registered", name)
	}
	if within == name {
		return fmt.Errorf("location '%s' cannot be within itself", name)
	}
	s.parents[name] = within
	if within != "" {
		if s.children[within] == nil {
			s.children[within] = make(map[string]struct{})
		}
		s.children[within][name] = struct{}{}
	}
	return nil
}

// AllowTech marks a tech as eligible at a location.
func (s *Store) AllowTech(ctx context.Context, y, x string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.parents[x]; !exists {
		return fmt.Errorf("location '%s' not found in topology", x)
	}
	if s.eligible[x] == nil {
		s.eligible[x] = make(map[string]struct{})
	}
	s.eligible[x][y] = struct{}{}
	return nil
}

// AddLink registers a transmission tech on a link and makes the
// location-suffixed techs eligible at both ends.
func (s *Store) AddLink(ctx context.Context, from, to, tech string, distance *float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, x := range []string{from, to} {
		if _, exists := s.parents[x]; !exists {
			return fmt.Errorf("link endpoint '%s' not found in topology", x)
		}
	}
	if _, exists := s.links[linkKey(to, from, tech)]; exists {
		return fmt.Errorf("link %s,%s for tech '%s' already registered as %s,%s", from, to, tech, to, from)
	}

	l := topologystore.Link{From: from, To: to, Tech: tech}
	if distance != nil {
		l.Distance = *distance
		l.HasDistance = true
	}
	s.links[linkKey(from, to, tech)] = l

	for _, end := range [][2]string{{from, to}, {to, from}} {
		y := tech + ":" + end[1]
		if s.eligible[end[0]] == nil {
			s.eligible[end[0]] = make(map[string]struct{})
		}
		s.eligible[end[0]][y] = struct{}{}
		s.transTech[y] = struct{}{}
	}
	return nil
}

// Locations returns all locations, sorted.
func (s *Store) Locations(ctx context.Context) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.parents))
	for x := range s.parents {
		out = append(out, x)
	}
	sort.Strings(out)
	return out
}

// Parent returns the parent of a location.
func (s *Store) Parent(ctx context.Context, x string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p := s.parents[x]
	return p, p != ""
}

// Children returns the direct children of a location, sorted.
func (s *Store) Children(ctx context.Context, x string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.children[x])
}

// ChildlessChildren returns the direct children of x without children of
// their own, sorted.
func (s *Store) ChildlessChildren(ctx context.Context, x string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []string
	for _, c := range sortedKeys(s.children[x]) {
		if len(s.children[c]) == 0 {
			out = append(out, c)
		}
	}
	return out
}

// Level returns the depth of a location.
func (s *Store) Level(ctx context.Context, x string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	level := 0
	for p := s.parents[x]; p != "" && level <= len(s.parents); p = s.parents[p] {
		level++
	}
	return level
}

// IsEligible reports whether a tech may be built at a location.
func (s *Store) IsEligible(ctx context.Context, y, x string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.eligible[x][y]
	return ok
}

// Link looks up a link in either direction.
func (s *Store) Link(ctx context.Context, x1, x2, tech string) (topologystore.Link, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if l, ok := s.links[linkKey(x1, x2, tech)]; ok {
		return l, true
	}
	l, ok := s.links[linkKey(x2, x1, tech)]
	return l, ok
}

// TransmissionTechs returns the location-suffixed transmission techs, sorted.
func (s *Store) TransmissionTechs(ctx context.Context) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.transTech)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
