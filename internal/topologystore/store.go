// Package topologystore defines the interface for storing and retrieving the
// static spatial structure of an energy network: the location tree, which
// techs may be built where, and the transmission links between locations.
//
// # Why Topology Store Exists
//
// Constraint assembly asks the same structural questions many thousands of
// times: "is this location top-level?", "which children of x have no
// children of their own?", "what is at the other end of hvac:r2 at r1?".
// The topology store answers them from precomputed maps instead of
// re-deriving them from the raw configuration on every call.
//
// # Lifecycle and Usage
//
// The topology store is:
//  1. **Created** once per model build
//  2. **Populated** from the loaded configuration (locations, eligibility, links)
//  3. **Read-only** while the constraint build steps run, possibly concurrently
//  4. **Discarded** with the model
package topologystore

import (
	"context"
	"strings"
)

// Link is one transmission tech on a link between two locations.
type Link struct {
	From     string
	To       string
	Tech     string
	Distance float64
	// HasDistance is false when the link does not define a distance for
	// this tech.
	HasDistance bool
}

// Store is the interface for the static network topology.
//
// # Thread-Safety Requirements
//
// Implementations MUST be safe for concurrent reads once populated; the
// constraint build steps query the store from several goroutines.
//
// # Typical Implementation
//
// See internal/inmemorytopology for the in-memory implementation using maps
// and sync.RWMutex.
type Store interface {
	// AddLocation registers a location. An empty within marks a top-level
	// location. The parent need not be registered yet.
	AddLocation(ctx context.Context, name, within string) error

	// AllowTech marks tech y as eligible for construction at location x.
	AllowTech(ctx context.Context, y, x string) error

	// AddLink registers a transmission tech on the link between two
	// locations. The link is undirected: lookups succeed in either order.
	// A nil distance means the link defines none for this tech.
	AddLink(ctx context.Context, from, to, tech string, distance *float64) error

	// Locations returns all registered locations in sorted order.
	Locations(ctx context.Context) []string

	// Parent returns the location x is within, and false for top-level
	// locations.
	Parent(ctx context.Context, x string) (string, bool)

	// Children returns the direct children of x in sorted order.
	Children(ctx context.Context, x string) []string

	// ChildlessChildren returns the direct children of x that have no
	// children themselves, in sorted order.
	ChildlessChildren(ctx context.Context, x string) []string

	// Level returns the depth of x in the location tree; top-level
	// locations are at level 0.
	Level(ctx context.Context, x string) int

	// IsEligible reports whether tech y may be built at location x.
	IsEligible(ctx context.Context, y, x string) bool

	// Link returns the link options for a transmission tech between two
	// locations, in either direction.
	Link(ctx context.Context, x1, x2, tech string) (Link, bool)

	// TransmissionTechs returns the location-suffixed transmission techs
	// (e.g. "hvac:r2") created by the registered links, sorted.
	TransmissionTechs(ctx context.Context) []string
}

// RemotePair returns the tech and location at the other end of the
// transmission tech y installed at location x. For y = "hvac:r2" at
// x = "r1" it returns ("hvac:r1", "r2"). It returns false when y carries no
// remote location suffix.
func RemotePair(y, x string) (string, string, bool) {
	base, remote, ok := strings.Cut(y, ":")
	if !ok || base == "" || remote == "" {
		return "", "", false
	}
	return base + ":" + x, remote, true
}
