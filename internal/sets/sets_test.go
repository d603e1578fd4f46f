package sets

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/energridgo/internal/config"
	"github.com/vk/energridgo/internal/inmemorytopology"
	"github.com/vk/energridgo/internal/options"
	"github.com/zclconf/go-cty/cty"
)

func buildSets(t *testing.T, m *config.Model) *Sets {
	t.Helper()
	ctx := context.Background()
	m.Run = m.Run.WithDefaults()
	require.NoError(t, m.Validate())
	opts, err := options.New(m)
	require.NoError(t, err)
	topo, err := inmemorytopology.Load(ctx, m, opts)
	require.NoError(t, err)
	s, err := Build(ctx, m, opts, topo)
	require.NoError(t, err)
	return s
}

func networkModel() *config.Model {
	return &config.Model{
		Time: &config.Time{Steps: []string{"t0", "t1", "t2"}, Resolution: []float64{1, 2, 1}, Weights: []float64{1, 1, 2}},
		Techs: map[string]*config.Tech{
			"ccgt": {Name: "ccgt", Parent: "supply", Options: map[string]cty.Value{
				"constraints.allow_rb":    cty.True,
				"costs.emissions.om_fuel": cty.NumberFloatVal(0.4),
			}},
			"spill": {Name: "spill", Parent: "unmet_demand"},
			"load":  {Name: "load", Parent: "demand", Options: map[string]cty.Value{"carrier": cty.StringVal("heat")}},
			"battery": {Name: "battery", Parent: "storage", Options: map[string]cty.Value{
				"constraints.c_eff": cty.NumberFloatVal(0.95),
			}},
			"boiler": {Name: "boiler", Parent: "conversion", Options: map[string]cty.Value{
				"carrier":        cty.StringVal("heat"),
				"source_carrier": cty.StringVal("gas"),
			}},
			"pv":   {Name: "pv", Parent: "supply"},
			"hvac": {Name: "hvac", Parent: "transmission"},
		},
		Locations: map[string]*config.Location{
			"r1": {Name: "r1", Techs: []string{"ccgt", "spill", "battery", "boiler"}},
			"r2": {Name: "r2", Techs: []string{"load", "pv"}, Overrides: map[string]map[string]cty.Value{
				"pv": {"export": cty.True},
			}},
		},
		Links: []*config.Link{{From: "r1", To: "r2", Techs: map[string]map[string]cty.Value{"hvac": nil}}},
	}
}

func TestBuild_Subsets(t *testing.T) {
	s := buildSets(t, networkModel())

	if diff := cmp.Diff([]string{"battery", "boiler", "ccgt", "hvac:r1", "hvac:r2", "load", "pv", "spill"}, s.Y); diff != "" {
		t.Errorf("Y mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"r1", "r2"}, s.X)
	assert.Equal(t, []string{"gas", "heat", "power"}, s.C)
	assert.Equal(t, []string{"emissions", "monetary"}, s.K)

	testCases := []struct {
		sub  Subset
		want []string
	}{
		{DefR, []string{"ccgt", "load", "pv", "spill"}},
		{PC, []string{"battery", "ccgt", "load", "pv", "spill"}},
		{Trans, []string{"hvac:r1", "hvac:r2"}},
		{Conv, []string{"boiler"}},
		{RB, []string{"ccgt"}},
		{P, []string{"battery"}},
		{Export, []string{"pv"}},
	}
	for _, tc := range testCases {
		t.Run(string(tc.sub), func(t *testing.T) {
			assert.Equal(t, tc.want, s.Members(tc.sub))
		})
	}

	assert.Equal(t, UnmetDemand, s.Class["spill"])
	assert.Equal(t, Transmission, s.Class["hvac:r2"])
	assert.True(t, s.In(NP, "ccgt"))
	assert.False(t, s.In(NP, "battery"))
}

func TestBuild_ExplicitCostClasses(t *testing.T) {
	m := networkModel()
	m.Run.CostClasses = []string{"monetary"}
	s := buildSets(t, m)
	assert.Equal(t, []string{"monetary"}, s.K)
}

func TestTimeline(t *testing.T) {
	tl, err := NewTimeline(&config.Time{
		Steps:      []string{"t0", "t1", "t2", "t3"},
		Resolution: []float64{1, 2, 3, 4},
		Weights:    []float64{1, 1, 1, 2},
	})
	require.NoError(t, err)

	_, ok := tl.Prev(0)
	assert.False(t, ok)
	p, ok := tl.Prev(2)
	require.True(t, ok)
	assert.Equal(t, 1, p)

	i, ok := tl.Index("t2")
	require.True(t, ok)
	assert.Equal(t, 2, i)

	assert.InDelta(t, (1+2+3+8)/HoursPerYear, tl.AnnualizationFactor(), 1e-12)

	assert.Equal(t, 0, tl.StartupCutoff(0))
	assert.Equal(t, 2, tl.StartupCutoff(3))
	assert.Equal(t, 3, tl.StartupCutoff(4))
	assert.Equal(t, 4, tl.StartupCutoff(100))

	_, err = NewTimeline(&config.Time{Steps: []string{"t0"}})
	assert.Error(t, err)
}
