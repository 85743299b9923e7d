package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digestsim/internal/sim"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testConfig(hrt float64) RunConfig {
	return RunConfig{
		Flow:        170,
		Temperature: 308.15,
		HRT:         hrt,
		Method:      "BDF",
		Horizon:     150,
		Step:        0.1,
	}
}

func testResult() *sim.Result {
	return &sim.Result{
		Reactor: sim.Reactor{LiquidVolume: 5100, GasVolume: 510},
		States: sim.Series{
			Time:       []float64{0, 0.1},
			Components: []string{"S_ac"},
			Data:       [][]float64{{0.2}, {0.21}},
		},
		Gas: sim.GasSeries{
			Methane:  []float64{0, 12.5},
			CO2:      []float64{0, 8.1},
			Hydrogen: []float64{0, 0.001},
		},
		Composition: []sim.GasComposition{{}, {MethanePct: 60.6, CO2Pct: 39.3, H2PPMV: 48}},
	}
}

func TestLatestEmptySlot(t *testing.T) {
	s := openTestStore(t)

	run, err := s.Latest(0)
	require.NoError(t, err)
	assert.Nil(t, run)
}

func TestSaveAndLatestRoundTrip(t *testing.T) {
	s := openTestStore(t)

	id, err := s.SaveResult(1, testConfig(45), testResult())
	require.NoError(t, err)
	require.NotEmpty(t, id)

	run, err := s.Latest(1)
	require.NoError(t, err)
	require.NotNil(t, run)

	assert.Equal(t, id, run.ID)
	assert.Equal(t, 1, run.Slot)
	assert.Equal(t, StatusCompleted, run.Status)
	assert.Equal(t, testConfig(45), run.Config)
	require.NotNil(t, run.Result)
	assert.Equal(t, testResult(), run.Result)
	assert.False(t, run.CreatedAt.IsZero())
}

func TestLatestSupersedes(t *testing.T) {
	s := openTestStore(t)

	_, err := s.SaveResult(0, testConfig(30), testResult())
	require.NoError(t, err)
	second, err := s.SaveResult(0, testConfig(30), testResult())
	require.NoError(t, err)

	run, err := s.Latest(0)
	require.NoError(t, err)
	assert.Equal(t, second, run.ID)
}

func TestFailureReplacesSuccess(t *testing.T) {
	s := openTestStore(t)

	_, err := s.SaveResult(2, testConfig(60), testResult())
	require.NoError(t, err)
	failID, err := s.SaveFailure(2, testConfig(60), "solver failure: state diverged at t=42.10d")
	require.NoError(t, err)

	run, err := s.Latest(2)
	require.NoError(t, err)
	require.NotNil(t, run)

	assert.Equal(t, failID, run.ID)
	assert.Equal(t, StatusFailed, run.Status)
	assert.Contains(t, run.Failure, "diverged")
	assert.Nil(t, run.Result, "a failed run carries no series")
}

func TestSlotsAreIndependent(t *testing.T) {
	s := openTestStore(t)

	slot0, err := s.SaveResult(0, testConfig(30), testResult())
	require.NoError(t, err)
	_, err = s.SaveFailure(1, testConfig(45), "boom")
	require.NoError(t, err)

	run, err := s.Latest(0)
	require.NoError(t, err)
	assert.Equal(t, slot0, run.ID)
	assert.Equal(t, StatusCompleted, run.Status)
}

func TestHistoryNewestFirst(t *testing.T) {
	s := openTestStore(t)

	var ids []string
	for i := 0; i < 3; i++ {
		id, err := s.SaveResult(0, testConfig(30), testResult())
		require.NoError(t, err)
		ids = append(ids, id)
	}

	runs, err := s.History(0, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, ids[2], runs[0].ID)
	assert.Equal(t, ids[1], runs[1].ID)
}

func TestGetByID(t *testing.T) {
	s := openTestStore(t)

	id, err := s.SaveFailure(1, testConfig(45), "boom")
	require.NoError(t, err)

	run, err := s.Get(id)
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, "boom", run.Failure)

	missing, err := s.Get("no-such-id")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
