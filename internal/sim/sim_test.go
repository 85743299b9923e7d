package sim

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digestsim/internal/registry"
)

// fakeEngine returns a canned output or error and records the problem it saw.
type fakeEngine struct {
	out  *Output
	err  error
	seen Problem
}

func (f *fakeEngine) Simulate(_ context.Context, p Problem) (*Output, error) {
	f.seen = p
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}

func validRequest() Request {
	return Request{
		Feedstock:   registry.Resolve(registry.Feedstock(), nil),
		Flow:        170,
		Temperature: 308.15,
		HRT:         30,
		Method:      "BDF",
		Horizon:     1,
		Step:        0.5,
	}
}

func flatOutput(n int) *Output {
	out := &Output{
		States: Series{
			Time:       make([]float64, n),
			Components: []string{"S_ac"},
			Data:       make([][]float64, n),
		},
		Gas: GasSeries{
			Methane:  make([]float64, n),
			CO2:      make([]float64, n),
			Hydrogen: make([]float64, n),
		},
	}
	for i := 0; i < n; i++ {
		out.States.Time[i] = float64(i) * 0.5
		out.States.Data[i] = []float64{0.2}
		out.Gas.Methane[i] = 60
		out.Gas.CO2[i] = 40
	}
	return out
}

func TestInvokeSizesReactorFromFlowAndHRT(t *testing.T) {
	eng := &fakeEngine{out: flatOutput(3)}
	a := NewAdapter(eng, 0.10)

	res, err := a.Invoke(context.Background(), validRequest())
	require.NoError(t, err)

	assert.InDelta(t, 5100.0, res.Reactor.LiquidVolume, 1e-9)
	assert.InDelta(t, 510.0, res.Reactor.GasVolume, 1e-9)
	assert.Equal(t, res.Reactor, eng.seen.Reactor)
}

func TestInvokeRecordsInfluent(t *testing.T) {
	eng := &fakeEngine{out: flatOutput(3)}
	a := NewAdapter(eng, 0.10)

	req := validRequest()
	res, err := a.Invoke(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, req.Feedstock, res.Influent)

	// The result holds its own copy of the influent composition.
	req.Feedstock["S_su"] = 99.0
	assert.NotEqual(t, 99.0, res.Influent["S_su"])
}

func TestInvokeSeedsFixedStartupState(t *testing.T) {
	eng := &fakeEngine{out: flatOutput(3)}
	a := NewAdapter(eng, 0.10)

	req := validRequest()
	req.Feedstock["S_su"] = 99.0 // must not leak into the seed

	_, err := a.Invoke(context.Background(), req)
	require.NoError(t, err)

	want := registry.SeedState()
	assert.Equal(t, want, eng.seen.Seed)
}

func TestInvokeClassifiesSolverFailure(t *testing.T) {
	eng := &fakeEngine{err: errors.New("state diverged at t=42.1")}
	a := NewAdapter(eng, 0.10)

	_, err := a.Invoke(context.Background(), validRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSolverFailure)
	assert.Contains(t, err.Error(), "diverged")
}

func TestInvokeRejectsShortSampleGrid(t *testing.T) {
	eng := &fakeEngine{out: flatOutput(2)} // want 3 for horizon=1 step=0.5
	a := NewAdapter(eng, 0.10)

	_, err := a.Invoke(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSolverFailure)
}

func TestInvokeValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"empty feedstock", func(r *Request) { r.Feedstock = nil }},
		{"zero flow", func(r *Request) { r.Flow = 0 }},
		{"negative temperature", func(r *Request) { r.Temperature = -1 }},
		{"zero HRT", func(r *Request) { r.HRT = 0 }},
		{"zero horizon", func(r *Request) { r.Horizon = 0 }},
		{"zero step", func(r *Request) { r.Step = 0 }},
		{"step beyond horizon", func(r *Request) { r.Step = r.Horizon * 2 }},
		{"unknown method", func(r *Request) { r.Method = "Euler" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := &fakeEngine{out: flatOutput(3)}
			a := NewAdapter(eng, 0.10)

			req := validRequest()
			tt.mutate(&req)

			_, err := a.Invoke(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidRequest)
		})
	}
}

func TestSampleCount(t *testing.T) {
	tests := []struct {
		horizon, step float64
		want          int
	}{
		{150, 0.1, 1501},
		{1, 0.5, 3},
		{10, 1, 11},
	}
	for _, tt := range tests {
		if got := SampleCount(tt.horizon, tt.step); got != tt.want {
			t.Errorf("SampleCount(%g, %g) = %d, want %d", tt.horizon, tt.step, got, tt.want)
		}
	}
}

func TestCompositionAt(t *testing.T) {
	c := CompositionAt(60, 40, 0.01)
	total := 100.01
	assert.InDelta(t, 100*60/total, c.MethanePct, 1e-9)
	assert.InDelta(t, 100*40/total, c.CO2Pct, 1e-9)
	assert.InDelta(t, 1e6*0.01/total, c.H2PPMV, 1e-9)
}

func TestCompositionAtZeroFlow(t *testing.T) {
	c := CompositionAt(0, 0, 0)
	assert.Zero(t, c.MethanePct)
	assert.Zero(t, c.CO2Pct)
	assert.Zero(t, c.H2PPMV)
}

func TestSeriesColumn(t *testing.T) {
	s := Series{
		Time:       []float64{0, 1},
		Components: []string{"S_ac", "S_pro"},
		Data:       [][]float64{{0.2, 0.016}, {0.25, 0.018}},
	}

	ac, ok := s.Column("S_ac")
	require.True(t, ok)
	assert.Equal(t, []float64{0.2, 0.25}, ac)

	_, ok = s.Column("S_xx")
	assert.False(t, ok)
}
