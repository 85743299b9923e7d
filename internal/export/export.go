// Package export renders run results as CSV tables and standalone HTML
// reports. Each plot type selects a fixed column set from the result; the
// derived series (total VFAs, gas composition) are computed here, not stored.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"digestsim/internal/logging"
	"digestsim/internal/sim"
)

// Plot identifies one exportable view of a run.
type Plot string

const (
	PlotEffluentAcids   Plot = "effluent-acids"
	PlotEffluentCarbon  Plot = "effluent-inorganic-carbon"
	PlotEffluentBiomass Plot = "effluent-biomass"
	PlotGasHydrogen     Plot = "gas-hydrogen"
	PlotGasMethane      Plot = "gas-methane"
	PlotTotalVFA        Plot = "total-vfas"
)

// Plots lists every plot type in presentation order.
func Plots() []Plot {
	return []Plot{
		PlotEffluentAcids, PlotEffluentCarbon, PlotEffluentBiomass,
		PlotGasHydrogen, PlotGasMethane, PlotTotalVFA,
	}
}

// Titles for report headings.
var plotTitles = map[Plot]string{
	PlotEffluentAcids:   "Effluent - Acids",
	PlotEffluentCarbon:  "Effluent - Inorganic Carbon",
	PlotEffluentBiomass: "Effluent - Biomass",
	PlotGasHydrogen:     "Gas - Hydrogen",
	PlotGasMethane:      "Gas - Methane",
	PlotTotalVFA:        "Total VFAs",
}

// Title returns the human-readable heading for a plot.
func (p Plot) Title() string {
	return plotTitles[p]
}

// Valid reports whether p names a known plot type.
func (p Plot) Valid() bool {
	_, ok := plotTitles[p]
	return ok
}

// Table is a rendered column set: one time column plus one column per series.
type Table struct {
	Headers []string
	Rows    [][]float64
}

var acidComponents = []string{"S_va", "S_bu", "S_pro", "S_ac"}

var biomassComponents = []string{"X_su", "X_aa", "X_fa", "X_c4", "X_pro", "X_ac", "X_h2"}

// BuildTable extracts the plot's columns from a result.
func BuildTable(res *sim.Result, plot Plot) (*Table, error) {
	switch plot {
	case PlotEffluentAcids:
		return stateTable(res, acidComponents)
	case PlotEffluentCarbon:
		return stateTable(res, []string{"S_IC"})
	case PlotEffluentBiomass:
		return stateTable(res, biomassComponents)
	case PlotGasHydrogen:
		t := newTable(res, "h2_flow_m3_per_d", "h2_ppmv")
		for i := range res.States.Time {
			t.Rows[i] = []float64{res.States.Time[i], res.Gas.Hydrogen[i], res.Composition[i].H2PPMV}
		}
		return t, nil
	case PlotGasMethane:
		t := newTable(res, "ch4_flow_m3_per_d", "ch4_pct", "co2_pct")
		for i := range res.States.Time {
			t.Rows[i] = []float64{
				res.States.Time[i], res.Gas.Methane[i],
				res.Composition[i].MethanePct, res.Composition[i].CO2Pct,
			}
		}
		return t, nil
	case PlotTotalVFA:
		acids, err := stateTable(res, acidComponents)
		if err != nil {
			return nil, err
		}
		t := newTable(res, "total_vfa_kg_cod_per_m3")
		for i, row := range acids.Rows {
			var sum float64
			for _, v := range row[1:] {
				sum += v
			}
			t.Rows[i] = []float64{res.States.Time[i], sum}
		}
		return t, nil
	default:
		return nil, fmt.Errorf("unknown plot type %q", plot)
	}
}

func newTable(res *sim.Result, columns ...string) *Table {
	return &Table{
		Headers: append([]string{"time_d"}, columns...),
		Rows:    make([][]float64, len(res.States.Time)),
	}
}

func stateTable(res *sim.Result, components []string) (*Table, error) {
	cols := make([][]float64, len(components))
	for i, name := range components {
		col, ok := res.States.Column(name)
		if !ok {
			return nil, fmt.Errorf("result has no component %q", name)
		}
		cols[i] = col
	}

	t := newTable(res, components...)
	for i := range res.States.Time {
		row := make([]float64, 0, len(components)+1)
		row = append(row, res.States.Time[i])
		for _, col := range cols {
			row = append(row, col[i])
		}
		t.Rows[i] = row
	}
	return t, nil
}

// WriteCSV writes a plot's table as CSV.
func WriteCSV(w io.Writer, res *sim.Result, plot Plot) error {
	table, err := BuildTable(res, plot)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(table.Headers); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	record := make([]string, len(table.Headers))
	for _, row := range table.Rows {
		for i, v := range row {
			record[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	logging.Export("[CSV] plot=%s rows=%d", plot, len(table.Rows))
	return nil
}
