// Package sim defines the simulation invocation contract: the request shape a
// caller assembles from resolved parameters, the reactor sizing derived from
// flow and retention time, the engine interface a solver implements, and the
// gas-composition arithmetic applied to solver output.
package sim

import "math"

// Request describes one simulation invocation. Feedstock is a fully resolved
// influent composition keyed by component name. Kinetics is either a fully
// resolved kinetic parameter map or nil; nil tells the engine to use its
// built-in defaults, and the two are never mixed.
type Request struct {
	Feedstock   map[string]float64
	Kinetics    map[string]float64
	Flow        float64 // influent flow, m3/d
	Temperature float64 // operating temperature, K
	HRT         float64 // hydraulic retention time, d
	Method      string  // integration method name
	Horizon     float64 // simulated duration, d
	Step        float64 // output sample interval, d
}

// Reactor holds the derived vessel sizing for a run.
type Reactor struct {
	LiquidVolume float64 // m3
	GasVolume    float64 // m3
}

// Size derives reactor sizing from flow, retention time, and the configured
// headspace fraction: V_liq = Q * HRT, V_gas = headspace * V_liq.
func Size(flow, hrt, headspaceFraction float64) Reactor {
	liq := flow * hrt
	return Reactor{
		LiquidVolume: liq,
		GasVolume:    headspaceFraction * liq,
	}
}

// Series is a solver output grid: one row of Data per entry in Time, with
// columns indexed like Components.
type Series struct {
	Time       []float64
	Components []string
	Data       [][]float64
}

// Column returns the time series for a named component, or false when the
// component is not part of the grid.
func (s *Series) Column(name string) ([]float64, bool) {
	idx := -1
	for i, c := range s.Components {
		if c == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, false
	}
	out := make([]float64, len(s.Data))
	for i, row := range s.Data {
		out[i] = row[idx]
	}
	return out, true
}

// GasSeries carries the gas-phase volumetric flows aligned with the state
// grid, in m3/d at standard conditions.
type GasSeries struct {
	Methane  []float64
	CO2      []float64
	Hydrogen []float64
}

// SampleCount returns the number of output samples a run over the given
// horizon and step must produce, including the initial state. The small bias
// keeps an exact multiple (150 / 0.1) from truncating under float division.
func SampleCount(horizon, step float64) int {
	return int(math.Floor(horizon/step+1e-9)) + 1
}

// TimeGrid builds the output sample times for a horizon and step.
func TimeGrid(horizon, step float64) []float64 {
	n := SampleCount(horizon, step)
	grid := make([]float64, n)
	for i := range grid {
		grid[i] = float64(i) * step
	}
	return grid
}
