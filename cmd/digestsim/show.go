package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"digestsim/internal/registry"
	"digestsim/internal/session"
	"digestsim/internal/store"
)

// showCmd prints session state and run results.
var showCmd = &cobra.Command{
	Use:   "show [params|config|ai|results]",
	Short: "Show session parameters, run configuration, or results",
	Long: `Shows the current state:

  show params    resolved parameter values, overrides marked with their notes
  show config    flow, slots, horizon, step
  show ai        the last raw AI response
  show results   latest run per slot`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	sess, err := session.Load(workspace)
	if err != nil {
		return err
	}

	switch args[0] {
	case "params":
		showParams(sess)
		return nil
	case "config":
		showRunConfig(sess)
		return nil
	case "ai":
		if sess.LastRaw == "" {
			fmt.Println("No AI response recorded yet.")
			return nil
		}
		fmt.Println(sess.LastRaw)
		return nil
	case "results":
		return showResults(sess)
	default:
		return fmt.Errorf("unknown view %q", args[0])
	}
}

func showParams(sess *session.Session) {
	printParamTable("Feedstock", registry.Feedstock(), sess.FeedstockOverrides, sess.FeedstockNotes)
	if sess.UseKinetics || len(sess.KineticOverrides) > 0 {
		fmt.Println()
		printParamTable("Kinetics", registry.Kinetics(), sess.KineticOverrides, sess.KineticNotes)
		if !sess.UseKinetics {
			fmt.Println("\nKinetic overrides are set but disabled; enable with 'digestsim set kinetics on'.")
		}
	}
}

func printParamTable(heading string, specs []registry.ParameterSpec, overrides map[string]float64, notes map[string]string) {
	fmt.Printf("%s:\n", heading)
	for _, spec := range specs {
		value := spec.Default
		marker := " "
		if v, ok := overrides[spec.Name]; ok {
			value = v
			marker = "*"
		}
		line := fmt.Sprintf("%s %-10s %12.6g  %-13s %s", marker, spec.Name, value, spec.Unit, spec.Description)
		if note := notes[spec.Name]; note != "" {
			line += fmt.Sprintf("  // %s", note)
		}
		fmt.Println(line)
	}
	fmt.Printf("(* = override)\n")
}

func showRunConfig(sess *session.Session) {
	fmt.Printf("flow:    %g m3/d\n", sess.Flow)
	fmt.Printf("horizon: %g d\n", sess.Horizon)
	fmt.Printf("step:    %g d\n", sess.Step)
	fmt.Printf("kinetic overrides: %v\n\n", sess.UseKinetics)
	for i, slot := range sess.Slots {
		fmt.Printf("slot %d: T=%g K, HRT=%g d, method=%s\n", i+1, slot.Temperature, slot.HRT, slot.Method)
	}
}

func showResults(sess *session.Session) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := store.Open(storePath(cfg))
	if err != nil {
		return err
	}
	defer st.Close()

	for i := 1; i <= session.SlotCount; i++ {
		run, err := st.Latest(i)
		if err != nil {
			return err
		}
		if run == nil {
			fmt.Printf("slot %d: no runs yet\n", i)
			continue
		}

		if run.Status == store.StatusFailed {
			fmt.Printf("slot %d: FAILED (%s) at %s\n", i, run.Failure, run.CreatedAt.Local().Format("2006-01-02 15:04"))
			continue
		}

		res := run.Result
		last := len(res.Composition) - 1
		fmt.Printf("slot %d: HRT=%g d, CH4 %.1f%%, CO2 %.1f%%, H2 %.0f ppmv, q_CH4=%.0f m3/d (run %s, %s)\n",
			i, run.Config.HRT,
			res.Composition[last].MethanePct, res.Composition[last].CO2Pct, res.Composition[last].H2PPMV,
			res.Gas.Methane[last], run.ID[:8], run.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}
