package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/zeusync/evade/internal/arena"
	"github.com/zeusync/evade/internal/core/avoidance"
	"github.com/zeusync/evade/internal/core/systems/physics"
	"github.com/zeusync/evade/internal/injector"
	"github.com/zeusync/evade/internal/viewer"
)

type fieldFlags struct {
	frame uint64
	cols  int
	rows  int
	view  bool
}

func newFieldCmd(st *state) *cobra.Command {
	f := &fieldFlags{}
	cmd := &cobra.Command{
		Use:   "field SCENARIO",
		Short: "Render the threat field around the agent at one scenario frame",
		Long: `Advances the scenario to --frame with the agent holding still, then
samples the threat field over the region the screen covers around the
agent. The field is printed as text unless --view is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runField(cmd, st.app, f, args[0])
		},
	}
	cmd.Flags().Uint64Var(&f.frame, "frame", 0, "scenario frame to sample")
	cmd.Flags().IntVar(&f.cols, "cols", 80, "text output width")
	cmd.Flags().IntVar(&f.rows, "rows", 40, "text output height")
	cmd.Flags().BoolVar(&f.view, "view", false, "draw on the terminal and wait for a key")
	return cmd
}

func runField(cmd *cobra.Command, app *injector.App, f *fieldFlags, path string) error {
	sc, err := arena.LoadScenarioFile(path)
	if err != nil {
		return err
	}
	w, err := arena.NewWorld(sc)
	if err != nil {
		return err
	}
	for w.Frame() < f.frame && !w.Done() {
		w.Step()
	}
	var snap avoidance.Snapshot
	if err = w.Sense(cmd.Context(), &snap); err != nil {
		return err
	}

	var screen tcell.Screen
	if f.view {
		if screen, err = tcell.NewScreen(); err != nil {
			return fmt.Errorf("open terminal: %w", err)
		}
	} else {
		screen = tcell.NewSimulationScreen("UTF-8")
	}
	if err = screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()
	if !f.view {
		screen.SetSize(f.cols, f.rows)
	}

	v := viewer.New(screen, app.Config.ViewerOptions())
	field := app.Config.NewField()
	cols, rows := screen.Size()
	size := physics.V(float64(cols)*v.Scale(), float64(rows)*v.Scale()*v.Aspect())
	center := snap.Agent.Shape.Center(snap.Agent.Pos)
	n := v.DrawField(field.Cells(center.Sub(size.Scale(0.5)), size, snap.AgentVel, snap.Hazards), center, field.MaxFrames)

	if f.view {
		screen.Show()
		for {
			switch screen.PollEvent().(type) {
			case nil, *tcell.EventKey:
				return nil
			case *tcell.EventResize:
				screen.Sync()
			}
		}
	}

	if err = dumpScreen(cmd.OutOrStdout(), screen); err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "frame %d  hazards %d  cells %d\n", w.Frame(), len(snap.Hazards), n)
	return err
}

// dumpScreen writes the screen's runes row by row, trailing blanks trimmed.
func dumpScreen(out io.Writer, screen tcell.Screen) error {
	cols, rows := screen.Size()
	var b strings.Builder
	for y := range rows {
		var line strings.Builder
		for x := range cols {
			r, _, _, _ := screen.GetContent(x, y)
			if r == 0 {
				r = ' '
			}
			line.WriteRune(r)
		}
		b.WriteString(strings.TrimRight(line.String(), " "))
		b.WriteByte('\n')
	}
	_, err := io.WriteString(out, b.String())
	return err
}
