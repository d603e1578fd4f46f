package config

import (
	"errors"
	"fmt"
)

// Validate checks the structural integrity of the model: references between
// blocks must resolve and the time axis must be consistent. Option values
// are validated later, when they are resolved.
func (m *Model) Validate() error {
	var errs []error

	switch m.Run.Mode {
	case ModePlan, ModeOperate:
	default:
		errs = append(errs, fmt.Errorf("run.mode must be %q or %q, got %q", ModePlan, ModeOperate, m.Run.Mode))
	}

	if m.Time == nil || len(m.Time.Steps) == 0 {
		errs = append(errs, errors.New("time axis must contain at least one timestep"))
	} else {
		n := len(m.Time.Steps)
		if len(m.Time.Resolution) != n {
			errs = append(errs, fmt.Errorf("time resolution has %d values, expected %d", len(m.Time.Resolution), n))
		}
		if len(m.Time.Weights) != n {
			errs = append(errs, fmt.Errorf("time weights have %d values, expected %d", len(m.Time.Weights), n))
		}
		seen := make(map[string]struct{}, n)
		for _, s := range m.Time.Steps {
			if _, dup := seen[s]; dup {
				errs = append(errs, fmt.Errorf("duplicate timestep %q", s))
			}
			seen[s] = struct{}{}
		}
		for i, r := range m.Time.Resolution {
			if r <= 0 {
				errs = append(errs, fmt.Errorf("time resolution of step %d must be positive, got %g", i, r))
			}
		}
	}

	if len(m.Locations) == 0 {
		errs = append(errs, errors.New("at least one location must be defined"))
	}
	for name, loc := range m.Locations {
		if loc.Within != "" {
			if _, ok := m.Locations[loc.Within]; !ok {
				errs = append(errs, fmt.Errorf("location %q is within unknown location %q", name, loc.Within))
			}
		}
		for _, y := range loc.Techs {
			if _, ok := m.Techs[y]; !ok {
				errs = append(errs, fmt.Errorf("location %q references unknown tech %q", name, y))
			}
		}
		for y := range loc.Overrides {
			if _, ok := m.Techs[baseTech(y)]; !ok {
				errs = append(errs, fmt.Errorf("location %q overrides unknown tech %q", name, y))
			}
		}
	}
	if err := m.checkLocationCycles(); err != nil {
		errs = append(errs, err)
	}

	for _, link := range m.Links {
		for _, end := range []string{link.From, link.To} {
			if _, ok := m.Locations[end]; !ok {
				errs = append(errs, fmt.Errorf("link %s,%s references unknown location %q", link.From, link.To, end))
			}
		}
		if link.From == link.To {
			errs = append(errs, fmt.Errorf("link %s,%s connects a location to itself", link.From, link.To))
		}
		for y := range link.Techs {
			if _, ok := m.Techs[y]; !ok {
				errs = append(errs, fmt.Errorf("link %s,%s references unknown tech %q", link.From, link.To, y))
			}
		}
	}

	for _, s := range m.Series {
		if m.Time != nil && len(s.Values) != len(m.Time.Steps) {
			errs = append(errs, fmt.Errorf("series %q for %s at %s has %d values, expected %d", s.Param, s.Tech, s.Location, len(s.Values), len(m.Time.Steps)))
		}
		if _, ok := m.Techs[baseTech(s.Tech)]; !ok {
			errs = append(errs, fmt.Errorf("series %q references unknown tech %q", s.Param, s.Tech))
		}
		if _, ok := m.Locations[s.Location]; !ok {
			errs = append(errs, fmt.Errorf("series %q references unknown location %q", s.Param, s.Location))
		}
	}

	return errors.Join(errs...)
}

func (m *Model) checkLocationCycles() error {
	for name := range m.Locations {
		visited := map[string]bool{name: true}
		cur := m.Locations[name]
		for cur != nil && cur.Within != "" {
			if visited[cur.Within] {
				return fmt.Errorf("location hierarchy contains a cycle through %q", name)
			}
			visited[cur.Within] = true
			cur = m.Locations[cur.Within]
		}
	}
	return nil
}

func baseTech(y string) string {
	for i := 0; i < len(y); i++ {
		if y[i] == ':' {
			return y[:i]
		}
	}
	return y
}
