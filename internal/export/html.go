package export

import (
	"encoding/json"
	"fmt"
	"io"
	"text/template"

	"digestsim/internal/logging"
	"digestsim/internal/sim"
)

// reportTemplate is a self-contained page: the series ride along as inline
// JSON and plotly renders them client-side, so the file works from disk with
// no server behind it.
var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script src="https://cdn.plot.ly/plotly-2.35.2.min.js"></script>
<style>
body { font-family: sans-serif; margin: 2em; }
h1 { font-size: 1.4em; }
.plot { width: 100%; height: 420px; margin-bottom: 2em; }
.meta { color: #555; font-size: 0.9em; margin-bottom: 2em; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div class="meta">
V<sub>liq</sub> = {{printf "%.0f" .LiquidVolume}} m&sup3;,
V<sub>gas</sub> = {{printf "%.0f" .GasVolume}} m&sup3;
</div>
{{range .Plots}}
<div id="{{.ID}}" class="plot"></div>
{{end}}
<script>
var plots = {{.PlotsJSON}};
plots.forEach(function(p) {
	var traces = p.series.map(function(s) {
		return { x: p.time, y: s.values, name: s.name, mode: "lines" };
	});
	Plotly.newPlot(p.id, traces, {
		title: p.title,
		xaxis: { title: "Time (d)" },
		margin: { t: 48 }
	}, { responsive: true });
});
</script>
</body>
</html>
`))

type reportPlot struct {
	ID     string       `json:"id"`
	Title  string       `json:"title"`
	Time   []float64    `json:"time"`
	Series []plotSeries `json:"series"`
}

type plotSeries struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

type reportData struct {
	Title        string
	LiquidVolume float64
	GasVolume    float64
	Plots        []reportPlot
	PlotsJSON    string
}

// WriteHTML renders a standalone HTML report covering the given plots.
func WriteHTML(w io.Writer, title string, res *sim.Result, plots []Plot) error {
	data := reportData{
		Title:        title,
		LiquidVolume: res.Reactor.LiquidVolume,
		GasVolume:    res.Reactor.GasVolume,
	}

	for _, p := range plots {
		table, err := BuildTable(res, p)
		if err != nil {
			return err
		}

		rp := reportPlot{
			ID:    string(p),
			Title: p.Title(),
			Time:  res.States.Time,
		}
		for c := 1; c < len(table.Headers); c++ {
			values := make([]float64, len(table.Rows))
			for i, row := range table.Rows {
				values[i] = row[c]
			}
			rp.Series = append(rp.Series, plotSeries{Name: table.Headers[c], Values: values})
		}
		data.Plots = append(data.Plots, rp)
	}

	plotsJSON, err := json.Marshal(data.Plots)
	if err != nil {
		return fmt.Errorf("failed to marshal plot data: %w", err)
	}
	data.PlotsJSON = string(plotsJSON)

	if err := reportTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	logging.Export("[HTML] title=%q plots=%d", title, len(plots))
	return nil
}
