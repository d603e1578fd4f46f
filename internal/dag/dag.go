package dag

import (
	"fmt"
	"sort"
)

// New returns an empty step graph.
func New() *Graph {
	return &Graph{nodes: make(map[string]*node)}
}

// AddNode registers a step. Adding an ID twice is a no-op.
func (g *Graph) AddNode(id string) {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	if _, ok := g.nodes[id]; !ok {
		g.nodes[id] = &node{id: id, deps: make(map[string]*node), dependents: make(map[string]*node)}
	}
}

// AddEdge records that step toID reads what step fromID declares, so
// fromID must finish first. Both steps must already be registered.
func (g *Graph) AddEdge(fromID, toID string) error {
	if fromID == toID {
		return fmt.Errorf("self-referential edge not allowed: step %s depends on itself", fromID)
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	from, ok := g.nodes[fromID]
	if !ok {
		return fmt.Errorf("source node not found: step %s is not registered", fromID)
	}
	to, ok := g.nodes[toID]
	if !ok {
		return fmt.Errorf("destination node not found: step %s is not registered", toID)
	}
	to.deps[fromID] = from
	from.dependents[toID] = to
	return nil
}

// Dependencies returns the sorted IDs of the nodes the given node depends on.
func (g *Graph) Dependencies(id string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	return sortedIDs(n.deps), nil
}

// Dependents returns the sorted IDs of the nodes that depend on the given node.
func (g *Graph) Dependents(id string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	return sortedIDs(n.dependents), nil
}

// DetectCycles checks the graph for any cycles. It returns a non-nil error
// if a cycle is found, indicating the first node involved in the detected cycle.
func (g *Graph) DetectCycles() error {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	// Depth-first search over dependents. permanent holds nodes known to be
	// outside any cycle, temporary holds the current recursion stack.
	permanent := make(map[string]bool)
	temporary := make(map[string]bool)

	var visit func(n *node) error
	visit = func(n *node) error {
		if permanent[n.id] {
			return nil
		}
		if temporary[n.id] {
			return fmt.Errorf("cycle detected involving node '%s'", n.id)
		}

		temporary[n.id] = true
		for _, id := range sortedIDs(n.dependents) {
			if err := visit(n.dependents[id]); err != nil {
				return err
			}
		}
		delete(temporary, n.id)
		permanent[n.id] = true
		return nil
	}

	for _, id := range sortedIDs(g.nodes) {
		if err := visit(g.nodes[id]); err != nil {
			return err
		}
	}
	return nil
}

// TopologicalOrder returns the node IDs so that every node comes after all
// of its dependencies. Ties are broken alphabetically, so the order is
// deterministic.
func (g *Graph) TopologicalOrder() ([]string, error) {
	if err := g.DetectCycles(); err != nil {
		return nil, err
	}

	g.mutex.RLock()
	defer g.mutex.RUnlock()

	remaining := make(map[string]int, len(g.nodes))
	var ready []string
	for id, n := range g.nodes {
		remaining[id] = len(n.deps)
		if len(n.deps) == 0 {
			ready = append(ready, id)
		}
	}
	sort.Strings(ready)

	order := make([]string, 0, len(g.nodes))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)
		var unlocked []string
		for depID := range g.nodes[id].dependents {
			remaining[depID]--
			if remaining[depID] == 0 {
				unlocked = append(unlocked, depID)
			}
		}
		ready = append(ready, unlocked...)
		sort.Strings(ready)
	}
	return order, nil
}

func sortedIDs(m map[string]*node) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
