package inmemorytopology

import (
	"context"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/energridgo/internal/config"
	"github.com/vk/energridgo/internal/options"
	"github.com/vk/energridgo/internal/topologystore"
	"github.com/zclconf/go-cty/cty"
)

func newTree(t *testing.T) topologystore.Store {
	t.Helper()
	ctx := context.Background()
	s := New()
	// region
	// ├── north (├── n1, └── n2)
	// └── r3
	// island
	require.NoError(t, s.AddLocation(ctx, "n1", "north"))
	require.NoError(t, s.AddLocation(ctx, "n2", "north"))
	require.NoError(t, s.AddLocation(ctx, "north", "region"))
	require.NoError(t, s.AddLocation(ctx, "r3", "region"))
	require.NoError(t, s.AddLocation(ctx, "region", ""))
	require.NoError(t, s.AddLocation(ctx, "island", ""))
	return s
}

func TestStore_Tree(t *testing.T) {
	ctx := context.Background()
	s := newTree(t)

	assert.Equal(t, 0, s.Level(ctx, "region"))
	assert.Equal(t, 1, s.Level(ctx, "north"))
	assert.Equal(t, 2, s.Level(ctx, "n2"))

	p, ok := s.Parent(ctx, "n1")
	require.True(t, ok)
	assert.Equal(t, "north", p)
	_, ok = s.Parent(ctx, "island")
	assert.False(t, ok)

	assert.Equal(t, []string{"north", "r3"}, s.Children(ctx, "region"))
	assert.Equal(t, []string{"r3"}, s.ChildlessChildren(ctx, "region"))
	assert.Equal(t, []string{"n1", "n2"}, s.ChildlessChildren(ctx, "north"))
	assert.Empty(t, s.ChildlessChildren(ctx, "island"))

	require.Error(t, s.AddLocation(ctx, "region", ""), "duplicate location must fail")
	require.Error(t, s.AddLocation(ctx, "loop", "loop"))
}

func TestStore_LinksAndEligibility(t *testing.T) {
	ctx := context.Background()
	s := newTree(t)

	require.NoError(t, s.AllowTech(ctx, "ccgt", "n1"))
	require.Error(t, s.AllowTech(ctx, "ccgt", "atlantis"))

	d := 150.0
	require.NoError(t, s.AddLink(ctx, "n1", "n2", "hvac", &d))
	require.NoError(t, s.AddLink(ctx, "n1", "r3", "hvac", nil))
	require.Error(t, s.AddLink(ctx, "n2", "n1", "hvac", nil), "reverse duplicate must fail")

	assert.True(t, s.IsEligible(ctx, "ccgt", "n1"))
	assert.False(t, s.IsEligible(ctx, "ccgt", "n2"))
	assert.True(t, s.IsEligible(ctx, "hvac:n2", "n1"))
	assert.True(t, s.IsEligible(ctx, "hvac:n1", "n2"))

	l, ok := s.Link(ctx, "n2", "n1", "hvac")
	require.True(t, ok)
	assert.True(t, l.HasDistance)
	assert.Equal(t, 150.0, l.Distance)

	l, ok = s.Link(ctx, "r3", "n1", "hvac")
	require.True(t, ok)
	assert.False(t, l.HasDistance)

	_, ok = s.Link(ctx, "n2", "r3", "hvac")
	assert.False(t, ok)

	want := []string{"hvac:n1", "hvac:n2", "hvac:r3"}
	if diff := cmp.Diff(want, s.TransmissionTechs(ctx)); diff != "" {
		t.Errorf("TransmissionTechs() mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_ConcurrentReads(t *testing.T) {
	ctx := context.Background()
	s := newTree(t)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, 2, s.Level(ctx, "n1"))
			assert.Len(t, s.Locations(ctx), 6)
		}()
	}
	wg.Wait()
}

func TestRemotePair(t *testing.T) {
	y, x, ok := topologystore.RemotePair("hvac:r2", "r1")
	require.True(t, ok)
	assert.Equal(t, "hvac:r1", y)
	assert.Equal(t, "r2", x)

	_, _, ok = topologystore.RemotePair("ccgt", "r1")
	assert.False(t, ok)
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	m := &config.Model{
		Techs: map[string]*config.Tech{
			"ccgt": {Name: "ccgt", Parent: "supply"},
			"hvac": {Name: "hvac", Parent: "transmission"},
		},
		Locations: map[string]*config.Location{
			"r1": {Name: "r1", Techs: []string{"ccgt", "hvac"}},
			"r2": {Name: "r2"},
		},
		Links: []*config.Link{{From: "r1", To: "r2", Techs: map[string]map[string]cty.Value{
			"hvac": {"distance": cty.NumberIntVal(100)},
		}}},
	}
	opts, err := options.New(m)
	require.NoError(t, err)

	s, err := Load(ctx, m, opts)
	require.NoError(t, err)

	assert.True(t, s.IsEligible(ctx, "ccgt", "r1"))
	assert.False(t, s.IsEligible(ctx, "hvac", "r1"), "bare transmission techs only exist through links")
	assert.True(t, s.IsEligible(ctx, "hvac:r2", "r1"))
	l, ok := s.Link(ctx, "r1", "r2", "hvac")
	require.True(t, ok)
	assert.Equal(t, 100.0, l.Distance)

	m.Links[0].Techs["ccgt"] = nil
	_, err = Load(ctx, m, opts)
	assert.Error(t, err, "non-transmission techs cannot be placed on links")
}
