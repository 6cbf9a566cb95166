package arena

import (
	"context"
	"fmt"

	"github.com/zeusync/evade/internal/core/avoidance"
	"github.com/zeusync/evade/internal/core/controller"
	"github.com/zeusync/evade/internal/core/input"
	"github.com/zeusync/evade/internal/core/observability/log"
	"github.com/zeusync/evade/internal/recording"
)

// RunOptions tunes Run. Every field is optional.
type RunOptions struct {
	// Recorder receives one frame per tick.
	Recorder *recording.Writer
	Keys     *input.KeyTable
	Log      log.Log
	// CalibrationFrames is the controller's calibration window, used to
	// check the agent has room for each calibration drive. Zero means
	// avoidance.DefaultCalibrationFrames.
	CalibrationFrames int
}

// Result summarizes a finished run.
type Result struct {
	Scenario string
	Frames   uint64
	Hits     int
	Spawned  int
	// CalibratedAt is the first calibrated frame, or -1.
	CalibratedAt int64
	// Moves counts calibrated decisions other than hold.
	Moves int
}

// Run steps ctrl against w until the scenario ends. ctrl must sense w and
// press its keys on w. While ctrl is uncalibrated Run replaces its keys with
// a calibration drive chosen once per phase so the agent does not run into
// an edge mid-window.
func Run(ctx context.Context, w *World, ctrl *controller.Controller, opts RunOptions) (Result, error) {
	keys := input.DefaultKeyTable()
	if opts.Keys != nil {
		keys = *opts.Keys
	}
	l := opts.Log
	if l == nil {
		l = log.Nop()
	}
	l = l.With(log.String("scenario", w.sc.Name))
	frames := opts.CalibrationFrames
	if frames <= 0 {
		frames = avoidance.DefaultCalibrationFrames
	}

	res := Result{Scenario: w.sc.Name, CalibratedAt: -1}
	phase, drive := avoidance.PhaseDone, avoidance.Hold
	for !w.Done() {
		d, err := ctrl.Step(ctx)
		if err != nil {
			return res, fmt.Errorf("frame %d: %w", w.Frame(), err)
		}
		switch {
		case !d.Calibrated:
			if d.Phase != phase {
				phase, drive = d.Phase, w.calibrationDrive(d.Phase, frames)
				l.Debug("calibration drive",
					log.Stringer("phase", phase),
					log.Int("direction", drive),
					log.Uint64("frame", w.Frame()),
				)
			}
			if err = input.Apply(w, keys.Combo(drive)); err != nil {
				return res, fmt.Errorf("frame %d: calibration drive: %w", w.Frame(), err)
			}
		case res.CalibratedAt < 0:
			res.CalibratedAt = int64(w.Frame())
			fallthrough
		default:
			if d.Index != avoidance.Hold {
				res.Moves++
			}
		}

		hitsBefore := w.Hits()
		f := w.Step()
		if w.Hits() > hitsBefore {
			c := w.agent.Shape.Center(w.agent.Pos)
			l.Debug("agent hit",
				log.Uint64("frame", w.Frame()),
				log.Int("hits", w.Hits()),
				log.Point("agent", c.X, c.Y),
				log.Stringer("keys", f.Keys),
			)
		}
		if opts.Recorder != nil {
			if err = opts.Recorder.Write(&f); err != nil {
				return res, fmt.Errorf("record frame %d: %w", w.Frame(), err)
			}
		}
	}

	if opts.Recorder != nil {
		if err := opts.Recorder.Flush(); err != nil {
			return res, fmt.Errorf("flush recording: %w", err)
		}
	}

	res.Frames = w.Frame()
	res.Hits = w.Hits()
	res.Spawned = w.Spawned()
	l.Info("scenario finished",
		log.Uint64("frames", res.Frames),
		log.Int("hits", res.Hits),
		log.Int("spawned", res.Spawned),
		log.Int64("calibrated_at", res.CalibratedAt),
		log.Int("moves", res.Moves),
	)
	return res, nil
}

// NewController wires a controller to w from cfg: w is the only sensor and
// receives the keys.
func NewController(w *World, cfg *controller.Config, reg controller.Registry, base controller.Options) (*controller.Controller, error) {
	base.Sensors = append([]controller.Sensor{w}, base.Sensors...)
	base.Synthesizer = w
	return controller.BuildFromConfig(cfg, reg, base)
}
