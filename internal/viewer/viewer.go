package viewer

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/time/rate"

	"github.com/zeusync/evade/internal/core/avoidance"
	"github.com/zeusync/evade/internal/core/input"
	"github.com/zeusync/evade/internal/core/systems/physics"
	"github.com/zeusync/evade/internal/recording"
	"github.com/zeusync/evade/pkg/sequence"
)

const (
	DefaultScale  = 4
	DefaultAspect = 2
	DefaultFPS    = 60
	// velocityTicks is how many ticks ahead the velocity marker is drawn.
	velocityTicks = 10
)

var (
	styleAgent  = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleHazard = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleTrail  = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	styleKeyOn  = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorGreen)
	styleKeyOff = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleStatus = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleField  = tcell.StyleDefault.Foreground(tcell.ColorDarkRed)
)

// keyCell places a key indicator on the 3x2 grid in the top-left corner.
type keyCell struct {
	mask input.Mask
	x, y int
	on   rune
}

var keyGrid = []keyCell{
	{input.MaskUp, 1, 0, '^'},
	{input.MaskDown, 1, 1, 'v'},
	{input.MaskLeft, 0, 1, '<'},
	{input.MaskRight, 2, 1, '>'},
	{input.MaskSlow, 0, 0, 'S'},
}

// shades go from imminent contact to safe.
var shades = []rune{'█', '▓', '▒', '░', ' '}

// Options configures a Viewer. Zero fields take the defaults.
type Options struct {
	// Scale is the number of world units per terminal column.
	Scale float64
	// Aspect is the height of a terminal cell in columns.
	Aspect float64
	FPS    float64
}

// Viewer renders recordings and threat fields on a terminal screen.
type Viewer struct {
	screen tcell.Screen
	scale  float64
	aspect float64
	fps    float64
}

func New(screen tcell.Screen, opts Options) *Viewer {
	v := &Viewer{screen: screen, scale: opts.Scale, aspect: opts.Aspect, fps: opts.FPS}
	if v.scale <= 0 {
		v.scale = DefaultScale
	}
	if v.aspect <= 0 {
		v.aspect = DefaultAspect
	}
	if v.fps <= 0 {
		v.fps = DefaultFPS
	}
	return v
}

// Scale is the number of world units per column.
func (v *Viewer) Scale() float64 { return v.scale }

// Aspect is the height of a row in columns.
func (v *Viewer) Aspect() float64 { return v.aspect }

// cell maps a world offset from the screen center to a screen cell.
func (v *Viewer) cell(p physics.Vec2) (int, int) {
	w, h := v.screen.Size()
	return w/2 + int(math.Round(p.X/v.scale)), h/2 + int(math.Round(p.Y/(v.scale*v.aspect)))
}

func (v *Viewer) set(x, y int, r rune, style tcell.Style) {
	w, h := v.screen.Size()
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}
	v.screen.SetContent(x, y, r, nil, style)
}

func (v *Viewer) text(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		v.set(x, y, r, style)
		x++
	}
}

// DrawFrame draws one recorded frame without showing it: the agent at the
// center, each hazard with a marker where it will be in a few ticks, the
// held keys and a status line.
func (v *Viewer) DrawFrame(f *recording.Frame) {
	v.screen.Clear()

	for _, s := range f.Samples {
		if s.Pos == (physics.Vec2{}) {
			continue
		}
		tx, ty := v.cell(s.Pos.Add(s.Vel.Scale(velocityTicks)))
		v.set(tx, ty, '·', styleTrail)
	}
	for _, s := range f.Samples {
		if s.Pos == (physics.Vec2{}) {
			continue
		}
		x, y := v.cell(s.Pos)
		v.set(x, y, '*', styleHazard)
	}
	cx, cy := v.cell(physics.Vec2{})
	v.set(cx, cy, '@', styleAgent)

	v.drawKeys(f.Keys)
	_, h := v.screen.Size()
	v.text(0, h-1, fmt.Sprintf("hazards %d  keys %s", len(f.Samples), f.Keys), styleStatus)
}

func (v *Viewer) drawKeys(m input.Mask) {
	for _, k := range keyGrid {
		r, style := '.', styleKeyOff
		if m.Has(k.mask) {
			r, style = k.on, styleKeyOn
		}
		v.set(1+k.x, 1+k.y, r, style)
	}
}

// DrawField shades each cell by its intensity, from a full block for
// immediate contact to blank at maxFrames. origin is the world point drawn
// at the screen center.
func (v *Viewer) DrawField(cells *sequence.Iterator[avoidance.Cell], origin physics.Vec2, maxFrames float64) int {
	v.screen.Clear()
	n := 0
	for c := range cells.Seq() {
		n++
		ratio := 1.0
		if maxFrames > 0 {
			ratio = math.Max(0, math.Min(1, c.Intensity/maxFrames))
		}
		r := shades[int(ratio*float64(len(shades)-1))]
		if r == ' ' {
			continue
		}
		x0, y0 := v.cell(c.Pos.Sub(origin))
		x1, y1 := v.cell(c.Pos.Add(c.Size).Sub(origin))
		for y := y0; y < max(y1, y0+1); y++ {
			for x := x0; x < max(x1, x0+1); x++ {
				v.set(x, y, r, styleField)
			}
		}
	}
	cx, cy := v.cell(physics.Vec2{})
	v.set(cx, cy, '@', styleAgent)
	return n
}

// Play shows frames paced at the configured rate. It returns the number of
// frames shown; Escape, Ctrl-C or q stop early without error, a done ctx
// stops with ctx.Err(). Events are read from the screen by a goroutine that
// ends when the screen is finalized.
func (v *Viewer) Play(ctx context.Context, frames []recording.Frame) (int, error) {
	events := make(chan tcell.Event, 16)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	lim := rate.NewLimiter(rate.Limit(v.fps), 1)
	shown := 0
	for shown < len(frames) {
		timer := time.NewTimer(lim.Reserve().Delay())
	wait:
		for {
			select {
			case <-ctx.Done():
				timer.Stop()
				return shown, ctx.Err()
			case ev := <-events:
				if quit(ev) {
					timer.Stop()
					return shown, nil
				}
				if _, ok := ev.(*tcell.EventResize); ok {
					v.screen.Sync()
				}
			case <-timer.C:
				break wait
			}
		}
		v.DrawFrame(&frames[shown])
		v.screen.Show()
		shown++
	}
	return shown, nil
}

func quit(ev tcell.Event) bool {
	k, ok := ev.(*tcell.EventKey)
	if !ok {
		return false
	}
	return k.Key() == tcell.KeyEscape || k.Key() == tcell.KeyCtrlC ||
		(k.Key() == tcell.KeyRune && k.Rune() == 'q')
}
