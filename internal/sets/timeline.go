package sets

import (
	"fmt"

	"github.com/vk/energridgo/internal/config"
)

// HoursPerYear is the annualization base for capacity costs.
const HoursPerYear = 8760.0

// Timeline is the ordered time axis with integer indices. The previous
// step of index i is i-1; index 0 has none.
type Timeline struct {
	Steps      []string
	Resolution []float64
	Weights    []float64
	index      map[string]int
}

// NewTimeline builds a timeline from a validated time axis.
func NewTimeline(t *config.Time) (*Timeline, error) {
	if t == nil || len(t.Steps) == 0 {
		return nil, fmt.Errorf("time axis is empty")
	}
	if len(t.Resolution) != len(t.Steps) || len(t.Weights) != len(t.Steps) {
		return nil, fmt.Errorf("time axis has %d steps, %d resolutions and %d weights", len(t.Steps), len(t.Resolution), len(t.Weights))
	}
	tl := &Timeline{
		Steps:      t.Steps,
		Resolution: t.Resolution,
		Weights:    t.Weights,
		index:      make(map[string]int, len(t.Steps)),
	}
	for i, s := range t.Steps {
		tl.index[s] = i
	}
	return tl, nil
}

func (tl *Timeline) Len() int { return len(tl.Steps) }

// Index returns the position of a timestep identifier.
func (tl *Timeline) Index(step string) (int, bool) {
	i, ok := tl.index[step]
	return i, ok
}

// Prev returns the index before i, and false at the first step.
func (tl *Timeline) Prev(i int) (int, bool) {
	if i <= 0 {
		return -1, false
	}
	return i - 1, true
}

// Duration is the time resolution of step i in hours.
func (tl *Timeline) Duration(i int) float64 { return tl.Resolution[i] }

// Weight is the aggregation weight of step i.
func (tl *Timeline) Weight(i int) float64 { return tl.Weights[i] }

// AnnualizationFactor is the share of a year the weighted time axis covers.
func (tl *Timeline) AnnualizationFactor() float64 {
	var total float64
	for i := range tl.Steps {
		total += tl.Resolution[i] * tl.Weights[i]
	}
	return total / HoursPerYear
}

// StartupCutoff returns the first index whose elapsed time since the start
// of the axis is at least hours. It returns Len() when the axis ends first.
func (tl *Timeline) StartupCutoff(hours float64) int {
	var elapsed float64
	for i := range tl.Steps {
		if elapsed >= hours {
			return i
		}
		elapsed += tl.Resolution[i]
	}
	return len(tl.Steps)
}
