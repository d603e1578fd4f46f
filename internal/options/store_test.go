package options

import (
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/energridgo/internal/config"
	"github.com/zclconf/go-cty/cty"
)

func testModel() *config.Model {
	return &config.Model{
		Techs: map[string]*config.Tech{
			"ccgt": {Name: "ccgt", Parent: "supply", Options: map[string]cty.Value{
				"constraints.e_cap.max": cty.NumberIntVal(50),
				"constraints.e_eff":     cty.NumberFloatVal(0.9),
				"costs.monetary.e_cap":  cty.NumberIntVal(100),
			}},
			"gas_turbine": {Name: "gas_turbine", Parent: "ccgt", Options: map[string]cty.Value{
				"constraints.e_eff": cty.NumberFloatVal(0.4),
			}},
			"load":  {Name: "load", Parent: "demand"},
			"spill": {Name: "spill", Parent: "unmet_demand"},
			"hvac": {Name: "hvac", Parent: "transmission", Options: map[string]cty.Value{
				"constraints.e_cap.max": cty.NumberIntVal(10),
			}},
		},
		Locations: map[string]*config.Location{
			"r1": {Name: "r1", Overrides: map[string]map[string]cty.Value{
				"ccgt":    {"constraints.e_cap.max": cty.NumberIntVal(30)},
				"hvac":    {"constraints.e_cap.max": cty.NumberIntVal(20)},
				"hvac:r2": {"constraints.e_eff": cty.NumberFloatVal(0.95)},
			}},
			"r2": {Name: "r2"},
		},
		Links: []*config.Link{{From: "r1", To: "r2", Techs: map[string]map[string]cty.Value{
			"hvac": {
				"distance":                 cty.NumberIntVal(100),
				"constraints.e_cap.equals": cty.NumberIntVal(5),
			},
		}}},
	}
}

func mustFloat(t *testing.T, s *Store, key, x string) float64 {
	t.Helper()
	v, err := s.Get(key, x)
	require.NoError(t, err)
	f, err := Float(v)
	require.NoError(t, err)
	return f
}

func TestStore_Precedence(t *testing.T) {
	s, err := New(testModel())
	require.NoError(t, err)

	testCases := []struct {
		name     string
		key      string
		x        string
		expected float64
	}{
		{name: "tech value", key: "ccgt.constraints.e_cap.max", x: "r2", expected: 50},
		{name: "location override", key: "ccgt.constraints.e_cap.max", x: "r1", expected: 30},
		{name: "no location", key: "ccgt.constraints.e_cap.max", x: "", expected: 50},
		{name: "child overrides parent", key: "gas_turbine.constraints.e_eff", x: "r1", expected: 0.4},
		{name: "inherited from parent", key: "gas_turbine.constraints.e_cap.max", x: "r2", expected: 50},
		{name: "builtin default", key: "ccgt.constraints.r_eff", x: "r1", expected: 1},
		{name: "full transmission name override", key: "hvac:r2.constraints.e_eff", x: "r1", expected: 0.95},
		{name: "base transmission name override", key: "hvac:r2.constraints.e_cap.max", x: "r1", expected: 20},
		{name: "link override", key: "hvac:r1.constraints.e_cap.equals", x: "r2", expected: 5},
		{name: "transmission falls back to tech", key: "hvac:r1.constraints.e_cap.max", x: "r2", expected: 10},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, mustFloat(t, s, tc.key, tc.x))
		})
	}
}

func TestStore_FalseIsDistinctFromUnset(t *testing.T) {
	s, err := New(testModel())
	require.NoError(t, err)

	v, err := s.Get("ccgt.constraints.r_area.max", "r1")
	require.NoError(t, err)
	assert.True(t, IsFalse(v))

	_, err = s.Get("ccgt.constraints.no_such_option", "r1")
	assert.ErrorIs(t, err, ErrOptionNotSet)

	_, err = s.Get("ccgt.source_carrier", "r1")
	assert.ErrorIs(t, err, ErrOptionNotSet)
}

func TestStore_GetOr(t *testing.T) {
	s, err := New(testModel())
	require.NoError(t, err)

	v, err := s.GetOr("ccgt.costs.monetary.e_cap", "r1", "ccgt.costs.default.e_cap")
	require.NoError(t, err)
	f, _ := Float(v)
	assert.Equal(t, 100.0, f)

	v, err = s.GetOr("ccgt.costs.emissions.om_var", "r1", "ccgt.costs.default.om_var")
	require.NoError(t, err)
	f, _ = Float(v)
	assert.Equal(t, 0.0, f)
}

func TestStore_ParentDefaults(t *testing.T) {
	s, err := New(testModel())
	require.NoError(t, err)

	v, err := s.Get("load.constraints.e_prod", "")
	require.NoError(t, err)
	assert.True(t, IsFalse(v))

	v, err = s.Get("hvac:r2.constraints.e_con", "r1")
	require.NoError(t, err)
	b, err := Bool(v)
	require.NoError(t, err)
	assert.True(t, b)
}

func TestStore_Groups(t *testing.T) {
	s, err := New(testModel())
	require.NoError(t, err)

	assert.True(t, s.IsMember("spill", Supply))
	assert.True(t, s.IsMember("spill", UnmetDemand))
	assert.True(t, s.IsMember("hvac:r2", Transmission))
	assert.False(t, s.IsMember("load", Supply))

	if diff := cmp.Diff([]string{"ccgt", "gas_turbine", "spill"}, s.GroupMembers(Supply)); diff != "" {
		t.Errorf("GroupMembers() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"gas_turbine", "ccgt", "supply", "defaults"}, s.Chain("gas_turbine"))
	assert.Equal(t, []string{"monetary"}, s.CostClasses())
}

func TestNew_Errors(t *testing.T) {
	testCases := []struct {
		name  string
		techs map[string]*config.Tech
	}{
		{name: "unknown parent", techs: map[string]*config.Tech{"a": {Name: "a", Parent: "nope"}}},
		{name: "missing parent", techs: map[string]*config.Tech{"a": {Name: "a"}}},
		{name: "builtin clash", techs: map[string]*config.Tech{"supply": {Name: "supply", Parent: "demand"}}},
		{name: "cycle", techs: map[string]*config.Tech{
			"a": {Name: "a", Parent: "b"},
			"b": {Name: "b", Parent: "a"},
		}},
		{name: "bad name", techs: map[string]*config.Tech{"a:b": {Name: "a:b", Parent: "supply"}}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(&config.Model{Techs: tc.techs})
			assert.Error(t, err)
		})
	}
}

func TestValueConversions(t *testing.T) {
	f, err := Float(cty.NumberFloatVal(math.Inf(1)))
	require.NoError(t, err)
	assert.True(t, math.IsInf(f, 1))

	f, err = Float(cty.StringVal("2.5"))
	require.NoError(t, err)
	assert.Equal(t, 2.5, f)

	_, err = Float(cty.True)
	assert.Error(t, err)

	b, err := Bool(cty.NumberIntVal(0))
	require.NoError(t, err)
	assert.False(t, b)

	str, err := String(cty.StringVal("power"))
	require.NoError(t, err)
	assert.Equal(t, "power", str)

	assert.False(t, Truthy(cty.NumberIntVal(0)))
	assert.False(t, Truthy(cty.False))
	assert.False(t, Truthy(cty.NullVal(cty.Number)))
	assert.True(t, Truthy(cty.StringVal("e_cap")))
	assert.False(t, IsFalse(cty.NumberIntVal(0)))
}

func TestConfigError(t *testing.T) {
	err := NewConfigError(ErrOptionNotSet, "ccgt", "r1", "e_cap.max must be defined as cost is negative")
	assert.ErrorIs(t, err, ErrOptionNotSet)
	assert.NotErrorIs(t, err, ErrInvalidOption)
	assert.Equal(t, "option not set: ccgt at r1: e_cap.max must be defined as cost is negative", err.Error())

	var cfgErr *ConfigError
	require.ErrorAs(t, fmt.Errorf("building c_cost_con: %w", err), &cfgErr)
	assert.Equal(t, "r1", cfgErr.Location)
}
