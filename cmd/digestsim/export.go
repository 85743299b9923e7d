package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"digestsim/internal/export"
	"digestsim/internal/session"
	"digestsim/internal/store"
)

var (
	exportFormat string
	exportPlot   string
	exportOut    string
)

// exportCmd writes the latest result of a slot as CSV or a standalone HTML
// report.
var exportCmd = &cobra.Command{
	Use:   "export [slot]",
	Short: "Export the latest run of a slot",
	Long: `Exports the latest completed run of a slot (default 1).

Formats:
  csv    one file per plot, or a single file with --plot
  html   a standalone report with every requested plot inline

Plot types: effluent-acids, effluent-inorganic-carbon, effluent-biomass,
gas-hydrogen, gas-methane, total-vfas. Omit --plot to export all of them.

Examples:
  digestsim export 2 --format csv --plot total-vfas --out vfas.csv
  digestsim export --format html --out report.html`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv or html")
	exportCmd.Flags().StringVar(&exportPlot, "plot", "", "Single plot type (default: all)")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output file (csv with --plot, html) or directory (csv without --plot)")
}

func runExport(cmd *cobra.Command, args []string) error {
	slot := 1
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 || n > session.SlotCount {
			return fmt.Errorf("slot must be 1-%d", session.SlotCount)
		}
		slot = n
	}

	plots := export.Plots()
	if exportPlot != "" {
		p := export.Plot(exportPlot)
		if !p.Valid() {
			return fmt.Errorf("unknown plot type %q", exportPlot)
		}
		plots = []export.Plot{p}
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := store.Open(storePath(cfg))
	if err != nil {
		return err
	}
	defer st.Close()

	run, err := st.Latest(slot)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("slot %d has no runs", slot)
	}
	if run.Status == store.StatusFailed {
		return fmt.Errorf("slot %d's latest run failed: %s", slot, run.Failure)
	}

	switch exportFormat {
	case "html":
		return exportHTML(run, plots, slot)
	case "csv":
		return exportCSV(run, plots, slot)
	default:
		return fmt.Errorf("unknown format %q", exportFormat)
	}
}

func exportHTML(run *store.Run, plots []export.Plot, slot int) error {
	out := exportOut
	if out == "" {
		out = fmt.Sprintf("digestsim-slot%d.html", slot)
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", out, err)
	}
	defer f.Close()

	title := fmt.Sprintf("Slot %d: HRT %g d, %s", slot, run.Config.HRT, run.Config.Method)
	if err := export.WriteHTML(f, title, run.Result, plots); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", out)
	return nil
}

func exportCSV(run *store.Run, plots []export.Plot, slot int) error {
	if len(plots) == 1 && exportOut != "" {
		return writeCSVFile(exportOut, run, plots[0])
	}

	dir := exportOut
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	for _, p := range plots {
		path := filepath.Join(dir, fmt.Sprintf("slot%d-%s.csv", slot, p))
		if err := writeCSVFile(path, run, p); err != nil {
			return err
		}
	}
	return nil
}

func writeCSVFile(path string, run *store.Run, plot export.Plot) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := export.WriteCSV(f, run.Result, plot); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}
