package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/zeusync/evade/internal/core/avoidance"
	"github.com/zeusync/evade/internal/core/input"
	"github.com/zeusync/evade/internal/core/systems/physics"
	"github.com/zeusync/evade/internal/injector"
	"github.com/zeusync/evade/internal/recording"
	"github.com/zeusync/evade/internal/viewer"
	"github.com/zeusync/evade/pkg/concurrent"
	"github.com/zeusync/evade/pkg/sequence"
)

// motion is the part of a mask a decision controls.
const motion = input.MaskUp | input.MaskDown | input.MaskLeft | input.MaskRight | input.MaskSlow

type verifyFlags struct {
	normal     float64
	focused    float64
	agentSize  float64
	hazardSize float64
	view       bool
}

// report is one verified recording.
type report struct {
	path    string
	summary recording.Summary
	agreed  int
	frames  []recording.Frame
}

func newVerifyCmd(st *state) *cobra.Command {
	f := &verifyFlags{}
	cmd := &cobra.Command{
		Use:   "verify RECORDING...",
		Short: "Summarize recordings and replay them through the selector",
		Long: `Reads each recording, prints its summary and the share of frames whose
recorded keys match the direction the selector picks when the frame is
replayed with the given speeds and hitboxes. --view plays the first
recording in the terminal.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd, st.app, f, args)
		},
	}
	cmd.Flags().Float64Var(&f.normal, "normal-speed", 2, "agent speed without slow held")
	cmd.Flags().Float64Var(&f.focused, "focused-speed", 1, "agent speed with slow held")
	cmd.Flags().Float64Var(&f.agentSize, "agent-size", 10, "agent hitbox edge")
	cmd.Flags().Float64Var(&f.hazardSize, "hazard-size", 4, "hazard hitbox edge")
	cmd.Flags().BoolVar(&f.view, "view", false, "play the first recording in the terminal")
	return cmd
}

func runVerify(cmd *cobra.Command, app *injector.App, f *verifyFlags, paths []string) error {
	opts, err := app.Config.Controller.Options(app.Log)
	if err != nil {
		return err
	}
	selector := avoidance.NewSelector(opts.Directions, avoidance.Predictor{HitShape: opts.HitShape})
	speeds := avoidance.Speeds{Normal: f.normal, Focused: f.focused}
	agent, hazard := physics.Box(f.agentSize, f.agentSize), physics.Box(f.hazardSize, f.hazardSize)

	reports, err := concurrent.ParallelMap(cmd.Context(), sequence.From(paths), app.Config.Workers,
		func(ctx context.Context, path string) (report, error) {
			frames, err := readRecording(path)
			if err != nil {
				return report{}, err
			}
			agreed, err := agreement(ctx, frames, selector, speeds, agent, hazard)
			if err != nil {
				return report{}, fmt.Errorf("%s: %w", path, err)
			}
			return report{path: path, summary: recording.Summarize(frames), agreed: agreed, frames: frames}, nil
		})
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RECORDING\tFRAMES\tSAMPLES\tMAX\tDISTINCT\tIDLE\tAGREE")
	for _, r := range reports {
		s := r.summary
		pct := 0.0
		if s.Frames > 0 {
			pct = 100 * float64(r.agreed) / float64(s.Frames)
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%.1f%%\n",
			r.path, s.Frames, s.TotalSamples, s.MaxSamples, s.Distinct, s.Idle, pct)
	}
	if err = tw.Flush(); err != nil {
		return err
	}

	if !f.view {
		return nil
	}
	return view(cmd.Context(), app, reports[0].frames)
}

func readRecording(path string) ([]recording.Frame, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	frames, err := recording.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return frames, nil
}

// agreement replays frames and counts those whose recorded motion keys are
// the ones the selector's choice would press.
func agreement(ctx context.Context, frames []recording.Frame, sel *avoidance.Selector, speeds avoidance.Speeds, agent, hazard physics.Shape) (int, error) {
	replay := recording.NewReplay(frames, agent, hazard)
	agreed := 0
	var snap avoidance.Snapshot
	for {
		snap.Hazards = snap.Hazards[:0]
		err := replay.Sense(ctx, &snap)
		if errors.Is(err, io.EOF) {
			return agreed, nil
		}
		if err != nil {
			return agreed, err
		}
		c := sel.Select(snap.Agent, speeds, snap.Hazards, avoidance.FocusAny)
		if input.MaskFor(c.Index) == replay.Keys()&motion {
			agreed++
		}
	}
}

func view(ctx context.Context, app *injector.App, frames []recording.Frame) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err = screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer screen.Fini()
	_, err = viewer.New(screen, app.Config.ViewerOptions()).Play(ctx, frames)
	return err
}
