package sim

import "context"

// Problem is the fully assembled input an engine integrates: the caller's
// request, the derived reactor sizing, and the initial liquid-phase state.
type Problem struct {
	Request Request
	Reactor Reactor
	Seed    map[string]float64
}

// Output is everything a solver produces for one run.
type Output struct {
	States Series
	Gas    GasSeries
}

// Engine integrates a digester model over the problem's horizon. An engine
// returns an error when the integration diverges or cannot proceed; a
// successful return carries exactly SampleCount(horizon, step) samples.
type Engine interface {
	Simulate(ctx context.Context, p Problem) (*Output, error)
}

// Methods lists the accepted integration method names, in presentation order.
var Methods = []string{"BDF", "RK45", "RK23", "DOP853", "Radau", "LSODA"}

// ValidMethod reports whether name is an accepted integration method.
func ValidMethod(name string) bool {
	for _, m := range Methods {
		if m == name {
			return true
		}
	}
	return false
}
