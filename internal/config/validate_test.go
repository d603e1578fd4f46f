package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func validModel() *Model {
	return &Model{
		Run:  Run{}.WithDefaults(),
		Time: &Time{Steps: []string{"t0", "t1"}, Resolution: []float64{1, 1}, Weights: []float64{1, 1}},
		Techs: map[string]*Tech{
			"ccgt": {Name: "ccgt", Parent: "supply"},
			"hvac": {Name: "hvac", Parent: "transmission"},
		},
		Locations: map[string]*Location{
			"region": {Name: "region"},
			"r1":     {Name: "r1", Within: "region", Techs: []string{"ccgt"}},
			"r2":     {Name: "r2", Within: "region"},
		},
		Links: []*Link{{From: "r1", To: "r2", Techs: map[string]map[string]cty.Value{"hvac": nil}}},
	}
}

func TestRun_WithDefaults(t *testing.T) {
	r := Run{Mode: ModeOperate}.WithDefaults()
	assert.Equal(t, ModeOperate, r.Mode)
	assert.Equal(t, "power", r.PrimaryCarrier)
	assert.Equal(t, "monetary", r.ObjectiveCostClass)
	require.NotNil(t, r.StartupTime)
	assert.Equal(t, DefaultStartupTime, *r.StartupTime)

	none := 0.0
	r = Run{StartupTime: &none}.WithDefaults()
	assert.Equal(t, 0.0, *r.StartupTime)
}

func TestValidate(t *testing.T) {
	require.NoError(t, validModel().Validate())

	testCases := []struct {
		name    string
		mutate  func(m *Model)
		errText string
	}{
		{
			name:    "bad mode",
			mutate:  func(m *Model) { m.Run.Mode = "simulate" },
			errText: "run.mode",
		},
		{
			name:    "missing time",
			mutate:  func(m *Model) { m.Time = nil },
			errText: "at least one timestep",
		},
		{
			name:    "resolution length",
			mutate:  func(m *Model) { m.Time.Resolution = []float64{1} },
			errText: "time resolution has 1 values",
		},
		{
			name:    "unknown parent location",
			mutate:  func(m *Model) { m.Locations["r2"].Within = "nowhere" },
			errText: "unknown location \"nowhere\"",
		},
		{
			name: "location cycle",
			mutate: func(m *Model) {
				m.Locations["region"].Within = "r1"
			},
			errText: "cycle",
		},
		{
			name:    "unknown tech at location",
			mutate:  func(m *Model) { m.Locations["r1"].Techs = append(m.Locations["r1"].Techs, "pv") },
			errText: "unknown tech \"pv\"",
		},
		{
			name: "series length",
			mutate: func(m *Model) {
				m.Series = append(m.Series, &Series{Param: "r", Tech: "ccgt", Location: "r1", Values: []float64{1}})
			},
			errText: "has 1 values, expected 2",
		},
		{
			name: "self link",
			mutate: func(m *Model) {
				m.Links = append(m.Links, &Link{From: "r1", To: "r1"})
			},
			errText: "connects a location to itself",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := validModel()
			tc.mutate(m)
			err := m.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errText)
		})
	}
}
