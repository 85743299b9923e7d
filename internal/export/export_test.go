package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digestsim/internal/sim"
)

func sampleResult() *sim.Result {
	return &sim.Result{
		Reactor: sim.Reactor{LiquidVolume: 5100, GasVolume: 510},
		States: sim.Series{
			Time: []float64{0, 0.5, 1.0},
			Components: []string{
				"S_va", "S_bu", "S_pro", "S_ac", "S_IC",
				"X_su", "X_aa", "X_fa", "X_c4", "X_pro", "X_ac", "X_h2",
			},
			Data: [][]float64{
				{0.012, 0.013, 0.016, 0.20, 1.8, 0.42, 1.18, 0.24, 0.43, 0.14, 0.76, 0.32},
				{0.013, 0.014, 0.017, 0.21, 1.81, 0.43, 1.19, 0.25, 0.44, 0.15, 0.77, 0.33},
				{0.014, 0.015, 0.018, 0.22, 1.82, 0.44, 1.20, 0.26, 0.45, 0.16, 0.78, 0.34},
			},
		},
		Gas: sim.GasSeries{
			Methane:  []float64{0, 800, 1600},
			CO2:      []float64{0, 600, 1200},
			Hydrogen: []float64{0, 0.05, 0.11},
		},
		Composition: []sim.GasComposition{
			{},
			{MethanePct: 57.1, CO2Pct: 42.9, H2PPMV: 35.7},
			{MethanePct: 57.1, CO2Pct: 42.9, H2PPMV: 39.3},
		},
	}
}

func TestBuildTableEffluentAcids(t *testing.T) {
	table, err := BuildTable(sampleResult(), PlotEffluentAcids)
	require.NoError(t, err)

	want := &Table{
		Headers: []string{"time_d", "S_va", "S_bu", "S_pro", "S_ac"},
		Rows: [][]float64{
			{0, 0.012, 0.013, 0.016, 0.20},
			{0.5, 0.013, 0.014, 0.017, 0.21},
			{1.0, 0.014, 0.015, 0.018, 0.22},
		},
	}
	if diff := cmp.Diff(want, table); diff != "" {
		t.Errorf("table mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildTableTotalVFA(t *testing.T) {
	table, err := BuildTable(sampleResult(), PlotTotalVFA)
	require.NoError(t, err)

	require.Equal(t, []string{"time_d", "total_vfa_kg_cod_per_m3"}, table.Headers)
	assert.InDelta(t, 0.012+0.013+0.016+0.20, table.Rows[0][1], 1e-12)
	assert.InDelta(t, 0.014+0.015+0.018+0.22, table.Rows[2][1], 1e-12)
}

func TestBuildTableGasMethane(t *testing.T) {
	table, err := BuildTable(sampleResult(), PlotGasMethane)
	require.NoError(t, err)

	require.Equal(t, []string{"time_d", "ch4_flow_m3_per_d", "ch4_pct", "co2_pct"}, table.Headers)
	assert.Equal(t, 1600.0, table.Rows[2][1])
	assert.Equal(t, 57.1, table.Rows[2][2])
}

func TestBuildTableGasHydrogen(t *testing.T) {
	table, err := BuildTable(sampleResult(), PlotGasHydrogen)
	require.NoError(t, err)

	require.Equal(t, []string{"time_d", "h2_flow_m3_per_d", "h2_ppmv"}, table.Headers)
	assert.Equal(t, 39.3, table.Rows[2][2])
}

func TestBuildTableUnknownPlot(t *testing.T) {
	_, err := BuildTable(sampleResult(), Plot("bogus"))
	assert.Error(t, err)
}

func TestBuildTableMissingComponent(t *testing.T) {
	res := sampleResult()
	res.States.Components = []string{"S_ac"} // acids view needs more
	_, err := BuildTable(res, PlotEffluentAcids)
	assert.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleResult(), PlotEffluentAcids))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4) // header + 3 samples
	assert.Equal(t, []string{"time_d", "S_va", "S_bu", "S_pro", "S_ac"}, records[0])
	assert.Equal(t, "0.2", records[1][4])
}

func TestWriteHTMLStandalone(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, "HRT 30 d", sampleResult(), Plots()))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "HRT 30 d")
	assert.Contains(t, out, "plotly")
	for _, p := range Plots() {
		assert.Contains(t, out, p.Title())
	}
	// Series data must be inline so the file works without a server.
	assert.Contains(t, out, `"total_vfa_kg_cod_per_m3"`)
}

func TestPlotValid(t *testing.T) {
	for _, p := range Plots() {
		assert.True(t, p.Valid(), string(p))
	}
	assert.False(t, Plot("nope").Valid())
}
