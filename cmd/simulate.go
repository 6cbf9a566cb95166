package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/zeusync/evade/internal/arena"
	"github.com/zeusync/evade/internal/core/controller"
	"github.com/zeusync/evade/internal/core/observability/log"
	"github.com/zeusync/evade/internal/injector"
	"github.com/zeusync/evade/internal/recording"
	"github.com/zeusync/evade/pkg/concurrent"
	"github.com/zeusync/evade/pkg/sequence"
)

type simulateFlags struct {
	algorithm string
	record    string
	maxHits   int
}

func newSimulateCmd(st *state) *cobra.Command {
	f := &simulateFlags{}
	cmd := &cobra.Command{
		Use:   "simulate SCENARIO...",
		Short: "Run the controller against arena scenarios",
		Long: `Runs each scenario file through the configured controller, at most
workers at a time, and prints one result row per scenario. With --record
every run is written as a recording into the given directory.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd, st, f, args)
		},
	}
	cmd.Flags().StringVarP(&f.algorithm, "algorithm", "a", "", "override controller.algorithm")
	cmd.Flags().StringVarP(&f.record, "record", "r", "", "directory receiving one .rec file per scenario")
	cmd.Flags().IntVar(&f.maxHits, "max-hits", -1, "fail when a scenario is hit more often (-1 disables)")
	return cmd
}

func runSimulate(cmd *cobra.Command, st *state, f *simulateFlags, paths []string) error {
	app := st.app
	cfg := app.Config.Controller
	if f.algorithm != "" {
		cfg.Algorithm = f.algorithm
	}
	if f.record != "" {
		if err := os.MkdirAll(f.record, 0o755); err != nil {
			return fmt.Errorf("create record directory: %w", err)
		}
	}

	results, err := concurrent.ParallelMap(cmd.Context(), sequence.From(paths), app.Config.Workers,
		func(ctx context.Context, path string) (arena.Result, error) {
			return simulateOne(ctx, app, cfg, path, f.record)
		})
	if err != nil {
		return err
	}
	ev := app.Events.Stats(controller.EventDecision)
	app.Log.Debug("decision events", log.Uint64("published", ev.Published), log.Uint64("failed", ev.Failed))

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SCENARIO\tFRAMES\tSPAWNED\tHITS\tCALIBRATED\tMOVES")
	hit := 0
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\n", r.Scenario, r.Frames, r.Spawned, r.Hits, r.CalibratedAt, r.Moves)
		if f.maxHits >= 0 && r.Hits > f.maxHits {
			hit++
		}
	}
	if err = tw.Flush(); err != nil {
		return err
	}
	if hit > 0 {
		return fmt.Errorf("%d scenario(s) exceeded %d hit(s)", hit, f.maxHits)
	}
	return nil
}

func simulateOne(ctx context.Context, app *injector.App, cfg controller.Config, path, dir string) (arena.Result, error) {
	sc, err := arena.LoadScenarioFile(path)
	if err != nil {
		return arena.Result{}, err
	}
	w, err := arena.NewWorld(sc)
	if err != nil {
		return arena.Result{}, err
	}
	defer w.Close()

	ctrl, err := arena.NewController(w, &cfg, app.Registry, controller.Options{
		Log:    app.Log,
		Events: app.Events,
	})
	if err != nil {
		return arena.Result{}, fmt.Errorf("%s: %w", path, err)
	}

	opts := arena.RunOptions{Log: app.Log, CalibrationFrames: cfg.CalibrationFrames}
	if dir != "" {
		out, err := os.Create(recordPath(dir, path))
		if err != nil {
			return arena.Result{}, err
		}
		defer out.Close()
		opts.Recorder = recording.NewWriter(out)
	}
	return arena.Run(ctx, w, ctrl, opts)
}

// recordPath names the recording of scenario path inside dir.
func recordPath(dir, path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return filepath.Join(dir, base+".rec")
}
