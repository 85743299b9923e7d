package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"digestsim/internal/session"
	"digestsim/internal/sim"
)

// setCmd edits the session: parameter overrides, the shared run settings, or
// one of the three configuration slots.
var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Edit session parameters and run configuration",
	Long: `Edits the persisted session.

Targets:
  set feedstock <name> <value>          influent override (e.g. S_su 2.5)
  set kinetic <name> <value>            kinetic override (e.g. k_su 25)
  set kinetics on|off                   pass kinetic overrides to the solver
  set flow <value>                      influent flow shared by all slots, m3/d
  set horizon <value>                   simulated duration, d
  set step <value>                      output sample interval, d
  set slot <1-3> temperature <kelvin>
  set slot <1-3> hrt <days>
  set slot <1-3> method <name>          one of BDF, RK45, RK23, DOP853, Radau, LSODA`,
	Args: cobra.MinimumNArgs(2),
	RunE: runSet,
}

// resetCmd drops all overrides, returning parameters to their defaults.
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Drop all parameter overrides",
	Long: `Removes every feedstock and kinetic override along with their
explanations. The run configuration (flow, slots, horizon, step) is kept.`,
	RunE: runReset,
}

func runSet(cmd *cobra.Command, args []string) error {
	sess, err := session.Load(workspace)
	if err != nil {
		return err
	}

	if err := applySet(sess, args); err != nil {
		return err
	}
	return sess.Save(workspace)
}

func applySet(sess *session.Session, args []string) error {
	target := args[0]
	rest := args[1:]

	parseValue := func(s string) (float64, error) {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", s)
		}
		return v, nil
	}

	switch target {
	case "feedstock", "kinetic":
		if len(rest) != 2 {
			return fmt.Errorf("usage: set %s <name> <value>", target)
		}
		v, err := parseValue(rest[1])
		if err != nil {
			return err
		}
		if target == "feedstock" {
			err = sess.SetFeedstock(rest[0], v)
		} else {
			err = sess.SetKinetic(rest[0], v)
		}
		if err != nil {
			return err
		}
		fmt.Printf("%s = %g\n", rest[0], v)
		return nil

	case "kinetics":
		switch rest[0] {
		case "on":
			sess.UseKinetics = true
		case "off":
			sess.UseKinetics = false
		default:
			return fmt.Errorf("usage: set kinetics on|off")
		}
		fmt.Printf("kinetic overrides: %s\n", rest[0])
		return nil

	case "flow", "horizon", "step":
		v, err := parseValue(rest[0])
		if err != nil {
			return err
		}
		if v <= 0 {
			return fmt.Errorf("%s must be positive", target)
		}
		switch target {
		case "flow":
			sess.Flow = v
		case "horizon":
			sess.Horizon = v
		case "step":
			sess.Step = v
		}
		fmt.Printf("%s = %g\n", target, v)
		return nil

	case "slot":
		if len(rest) != 3 {
			return fmt.Errorf("usage: set slot <1-%d> <temperature|hrt|method> <value>", session.SlotCount)
		}
		n, err := strconv.Atoi(rest[0])
		if err != nil || n < 1 || n > session.SlotCount {
			return fmt.Errorf("slot must be 1-%d", session.SlotCount)
		}
		slot := &sess.Slots[n-1]

		switch rest[1] {
		case "temperature":
			v, err := parseValue(rest[2])
			if err != nil {
				return err
			}
			if v <= 0 {
				return fmt.Errorf("temperature must be positive kelvin")
			}
			slot.Temperature = v
		case "hrt":
			v, err := parseValue(rest[2])
			if err != nil {
				return err
			}
			if v <= 0 {
				return fmt.Errorf("hrt must be positive")
			}
			slot.HRT = v
		case "method":
			if !sim.ValidMethod(rest[2]) {
				return fmt.Errorf("unknown method %q (accepted: %v)", rest[2], sim.Methods)
			}
			slot.Method = rest[2]
		default:
			return fmt.Errorf("unknown slot field %q", rest[1])
		}
		fmt.Printf("slot %d %s = %s\n", n, rest[1], rest[2])
		return nil

	default:
		return fmt.Errorf("unknown target %q", target)
	}
}

func runReset(cmd *cobra.Command, args []string) error {
	sess, err := session.Load(workspace)
	if err != nil {
		return err
	}

	sess.ClearOverrides()
	if err := sess.Save(workspace); err != nil {
		return err
	}
	fmt.Println("Overrides cleared.")
	return nil
}
