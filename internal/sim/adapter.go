package sim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"digestsim/internal/logging"
	"digestsim/internal/registry"
)

// Classified run failures. Invalid requests are rejected before the solver
// starts; solver failures carry whatever diagnostic the engine produced.
var (
	// ErrInvalidRequest means the request was rejected before integration.
	ErrInvalidRequest = errors.New("invalid simulation request")

	// ErrSolverFailure means the integration started but did not complete.
	ErrSolverFailure = errors.New("solver failure")
)

// Result is a completed run: the sizing used, the influent composition the
// run was fed (static over the horizon), the state grid, the gas flows, and
// the derived composition at every sample.
type Result struct {
	Reactor     Reactor
	Influent    map[string]float64
	States      Series
	Gas         GasSeries
	Composition []GasComposition
}

// Adapter turns a parameter-level request into a solver invocation. It owns
// the sizing convention and the seed state; the engine owns the model.
type Adapter struct {
	engine            Engine
	headspaceFraction float64
}

// NewAdapter creates an adapter around an engine with the given headspace
// fraction (gas volume as a fraction of liquid volume).
func NewAdapter(engine Engine, headspaceFraction float64) *Adapter {
	return &Adapter{engine: engine, headspaceFraction: headspaceFraction}
}

// Invoke validates the request, sizes the reactor, seeds the initial state,
// and runs the engine. The seed is the fixed reactor startup composition, not
// the request's feedstock: the feedstock enters through the influent term.
func (a *Adapter) Invoke(ctx context.Context, req Request) (*Result, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	reactor := Size(req.Flow, req.HRT, a.headspaceFraction)
	problem := Problem{
		Request: req,
		Reactor: reactor,
		Seed:    registry.SeedState(),
	}

	logging.Sim("[Invoke] method=%s HRT=%.1fd T=%.2fK V_liq=%.1fm3 horizon=%.1fd",
		req.Method, req.HRT, req.Temperature, reactor.LiquidVolume, req.Horizon)
	startTime := time.Now()

	out, err := a.engine.Simulate(ctx, problem)
	if err != nil {
		logging.SimError("[Invoke] solver failed after %v: %v", time.Since(startTime), err)
		return nil, fmt.Errorf("%w: %v", ErrSolverFailure, err)
	}

	want := SampleCount(req.Horizon, req.Step)
	if len(out.States.Time) != want {
		return nil, fmt.Errorf("%w: solver produced %d samples, want %d",
			ErrSolverFailure, len(out.States.Time), want)
	}

	comp := make([]GasComposition, len(out.States.Time))
	for i := range comp {
		comp[i] = CompositionAt(out.Gas.Methane[i], out.Gas.CO2[i], out.Gas.Hydrogen[i])
	}

	influent := make(map[string]float64, len(req.Feedstock))
	for k, v := range req.Feedstock {
		influent[k] = v
	}

	logging.Sim("[Invoke] finished in %v samples=%d", time.Since(startTime), want)
	return &Result{
		Reactor:     reactor,
		Influent:    influent,
		States:      out.States,
		Gas:         out.Gas,
		Composition: comp,
	}, nil
}

func validate(req Request) error {
	switch {
	case len(req.Feedstock) == 0:
		return fmt.Errorf("%w: empty feedstock composition", ErrInvalidRequest)
	case req.Flow <= 0:
		return fmt.Errorf("%w: flow must be positive, got %g", ErrInvalidRequest, req.Flow)
	case req.Temperature <= 0:
		return fmt.Errorf("%w: temperature must be positive, got %g", ErrInvalidRequest, req.Temperature)
	case req.HRT <= 0:
		return fmt.Errorf("%w: HRT must be positive, got %g", ErrInvalidRequest, req.HRT)
	case req.Horizon <= 0:
		return fmt.Errorf("%w: horizon must be positive, got %g", ErrInvalidRequest, req.Horizon)
	case req.Step <= 0 || req.Step > req.Horizon:
		return fmt.Errorf("%w: step must be in (0, horizon], got %g", ErrInvalidRequest, req.Step)
	case !ValidMethod(req.Method):
		return fmt.Errorf("%w: unknown method %q (accepted: %v)", ErrInvalidRequest, req.Method, Methods)
	}
	return nil
}
