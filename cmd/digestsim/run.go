package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"digestsim/internal/digester"
	"digestsim/internal/session"
	"digestsim/internal/sim"
	"digestsim/internal/store"
)

var runAll bool

// runCmd executes one slot's simulation, or all slots concurrently. Either
// way every outcome, success or failure, lands in the run history.
var runCmd = &cobra.Command{
	Use:   "run [slot]",
	Short: "Run a simulation",
	Long: `Runs the configured simulation for one slot (default 1) or, with --all,
all slots at once. Results are stored in the run history; a failed run
replaces the slot's previous result so stale data is never shown as current.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSimulation,
}

func init() {
	runCmd.Flags().BoolVar(&runAll, "all", false, "Run every slot")
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sess, err := session.Load(workspace)
	if err != nil {
		return err
	}

	slots := []int{1}
	if runAll {
		slots = make([]int, session.SlotCount)
		for i := range slots {
			slots[i] = i + 1
		}
	} else if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 || n > session.SlotCount {
			return fmt.Errorf("slot must be 1-%d", session.SlotCount)
		}
		slots = []int{n}
	}

	st, err := store.Open(storePath(cfg))
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	adapter := sim.NewAdapter(digester.New(), cfg.Reactor.GasHeadspaceFraction)

	// Inputs are resolved once, before any goroutine starts; each slot then
	// only reads them and writes its own store row.
	feedstock := sess.ResolvedFeedstock()
	kinetics := sess.ResolvedKinetics()

	g, ctx := errgroup.WithContext(ctx)
	for _, slot := range slots {
		slot := slot
		g.Go(func() error {
			return runSlot(ctx, adapter, st, sess, slot, feedstock, kinetics)
		})
	}
	return g.Wait()
}

func runSlot(ctx context.Context, adapter *sim.Adapter, st *store.Store, sess *session.Session,
	slot int, feedstock, kinetics map[string]float64) error {

	slotCfg := sess.Slots[slot-1]
	req := sim.Request{
		Feedstock:   feedstock,
		Kinetics:    kinetics,
		Flow:        sess.Flow,
		Temperature: slotCfg.Temperature,
		HRT:         slotCfg.HRT,
		Method:      slotCfg.Method,
		Horizon:     sess.Horizon,
		Step:        sess.Step,
	}
	runCfg := store.RunConfig{
		Flow:        req.Flow,
		Temperature: req.Temperature,
		HRT:         req.HRT,
		Method:      req.Method,
		Horizon:     req.Horizon,
		Step:        req.Step,
		UseKinetics: kinetics != nil,
	}

	logger.Info("running simulation",
		zap.Int("slot", slot), zap.Float64("hrt", req.HRT), zap.String("method", req.Method))

	res, err := adapter.Invoke(ctx, req)
	if err != nil {
		// Invalid requests abort before anything is recorded; solver
		// failures become the slot's latest (failed) run.
		if errors.Is(err, sim.ErrInvalidRequest) || ctx.Err() != nil {
			return err
		}
		if _, saveErr := st.SaveFailure(slot, runCfg, err.Error()); saveErr != nil {
			return saveErr
		}
		fmt.Printf("slot %d: FAILED: %v\n", slot, err)
		return nil
	}

	id, err := st.SaveResult(slot, runCfg, res)
	if err != nil {
		return err
	}

	last := len(res.Composition) - 1
	fmt.Printf("slot %d: done, CH4 %.1f%%, CO2 %.1f%%, q_CH4=%.0f m3/d (run %s)\n",
		slot, res.Composition[last].MethanePct, res.Composition[last].CO2Pct,
		res.Gas.Methane[last], id[:8])
	return nil
}
