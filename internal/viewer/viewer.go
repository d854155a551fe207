// Package viewer is an ebiten debug window for one headless sentry run. It
// draws the zones, obstacles, current curve, corner queue, vision cone,
// target and sentry, with an event panel fed from the run's SimLog.
package viewer

import (
	"fmt"
	"image/color"
	"math"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/Sentry-Sense/internal/agent"
	"github.com/Garsondee/Sentry-Sense/internal/geom"
	"github.com/Garsondee/Sentry-Sense/internal/perception"
	"github.com/Garsondee/Sentry-Sense/internal/sim"
)

const (
	worldPad   = 24
	coneSteps  = 36
	curveSteps = 24
	// copyWindow is how many recent ticks the C key copies.
	copyWindow = 1800
)

// speeds are the selectable sim-speed multipliers; 0 is paused.
var speeds = []float64{0, 0.5, 1, 2, 4}

var (
	colBackground = color.RGBA{R: 18, G: 20, B: 18, A: 255}
	colZone       = color.RGBA{R: 40, G: 70, B: 40, A: 255}
	colZoneEdge   = color.RGBA{R: 80, G: 140, B: 80, A: 255}
	colObstacle   = color.RGBA{R: 90, G: 80, B: 70, A: 255}
	colCurve      = color.RGBA{R: 80, G: 150, B: 230, A: 255}
	colCorner     = color.RGBA{R: 230, G: 150, B: 40, A: 255}
	colWaypoint   = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	colTarget     = color.RGBA{R: 210, G: 70, B: 70, A: 255}
	colSentry     = color.RGBA{R: 220, G: 220, B: 120, A: 255}
	colCone       = color.RGBA{R: 255, G: 240, B: 160, A: 255}
	colConeSeen   = color.RGBA{R: 255, G: 90, B: 60, A: 255}

	colSightClear   = color.RGBA{R: 210, G: 70, B: 70, A: 120}
	colSightBlocked = color.RGBA{R: 90, G: 90, B: 90, A: 80}
)

// Game implements ebiten.Game around a sim.Sim.
type Game struct {
	sim    *sim.Sim
	log    *zap.Logger
	events *EventPanel
	face   *text.GoXFace
	cam    Camera

	width, height int
	worldW        int

	simSpeed  float64
	tickAccum float64
	prevKeys  map[ebiten.Key]bool
	status    string
	copyTicks int

	visionBuf *ebiten.Image

	// copyText writes to the system clipboard; swapped in tests.
	copyText func(string) error
}

// New creates a viewer for s in a width×height window, the right panelWidth
// pixels of which hold the event panel.
func New(s *sim.Sim, width, height int, log *zap.Logger) *Game {
	if log == nil {
		log = zap.NewNop()
	}
	worldW := width - panelWidth
	return &Game{
		sim:       s,
		log:       log,
		events:    NewEventPanel(),
		face:      text.NewGoXFace(basicfont.Face7x13),
		cam:       FitCamera(s.Zones.Bounds(), float64(worldW), float64(height), worldPad),
		width:     width,
		height:    height,
		worldW:    worldW,
		simSpeed:  1,
		prevKeys:  make(map[ebiten.Key]bool),
		copyTicks: copyWindow,
		visionBuf: ebiten.NewImage(worldW, height),
		copyText:  clipboard.WriteAll,
	}
}

// Update advances the sim by the current speed multiplier.
func (g *Game) Update() error {
	g.handleInput()

	if g.simSpeed > 0 {
		// For speeds > 1 run multiple ticks per frame; below 1 accumulate fractions.
		g.tickAccum += g.simSpeed
		for g.tickAccum >= 1.0 {
			g.tickAccum -= 1.0
			g.sim.Step()
		}
	}
	g.events.Sync(g.sim.SimLog)
	return nil
}

// handleInput processes keypresses (edge-triggered).
func (g *Game) handleInput() {
	pressed := func(k ebiten.Key) bool {
		down := ebiten.IsKeyPressed(k)
		edge := down && !g.prevKeys[k]
		g.prevKeys[k] = down
		return edge
	}

	// P=pause/resume, ,=slower, .=faster, C=copy log.
	if pressed(ebiten.KeyP) {
		if g.simSpeed > 0 {
			g.simSpeed = 0
		} else {
			g.simSpeed = 1
		}
	}
	if pressed(ebiten.KeyComma) {
		g.simSpeed = slower(g.simSpeed)
	}
	if pressed(ebiten.KeyPeriod) {
		g.simSpeed = faster(g.simSpeed)
	}
	if pressed(ebiten.KeyC) {
		g.copyLog()
	}
}

func slower(cur float64) float64 {
	for i, s := range speeds {
		if s >= cur && i > 0 {
			return speeds[i-1]
		}
	}
	return cur
}

func faster(cur float64) float64 {
	for _, s := range speeds {
		if s > cur {
			return s
		}
	}
	return cur
}

// copyLog puts the last copyTicks ticks of the SimLog on the clipboard.
func (g *Game) copyLog() {
	to := g.sim.CurrentTick()
	from := max(0, to-g.copyTicks)
	if err := g.copyText(g.sim.SimLog.FormatRange(from, to)); err != nil {
		g.log.Warn("clipboard copy failed", zap.Error(err))
		g.status = "copy failed"
		return
	}
	g.status = fmt.Sprintf("copied %d log lines (T=%d..%d)", len(g.sim.SimLog.FilterTickRange(from, to)), from, to)
}

// lastContact describes the most recent sighting in l.
func lastContact(l *sim.SimLog) string {
	e, ok := l.LastOf("vision", "contact_new")
	if !ok {
		return "last_contact=none"
	}
	return fmt.Sprintf("last_contact=T%d", e.Tick)
}

// Draw renders the world, HUD and event panel.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colBackground)
	g.drawWorld(screen)
	g.drawVisionCone(screen)
	g.drawActors(screen)
	g.drawHUD(screen)
	g.events.Draw(screen, g.worldW, g.height)
}

func (g *Game) drawWorld(screen *ebiten.Image) {
	for _, r := range g.sim.Zones.Rects() {
		x, y := g.cam.ToScreen(r.Min)
		w, h := g.cam.Len(r.Size().X), g.cam.Len(r.Size().Y)
		vector.FillRect(screen, x, y, w, h, colZone, false)
		vector.StrokeRect(screen, x, y, w, h, 1.0, colZoneEdge, false)
	}
	for _, o := range g.sim.Obstacles {
		x, y := g.cam.ToScreen(o.Bounds.Min)
		vector.FillRect(screen, x, y, g.cam.Len(o.Bounds.Size().X), g.cam.Len(o.Bounds.Size().Y), colObstacle, false)
	}

	wps := g.sim.Agent.Waypoints()
	for i, wp := range wps {
		x, y := g.cam.ToScreen(wp)
		vector.StrokeCircle(screen, x, y, 5, 1.0, colWaypoint, true)
		g.drawText(screen, fmt.Sprintf("%d", i), float64(x)+6, float64(y)-14, colWaypoint)
	}

	st := g.sim.Agent.State()
	if st == agent.StatePatrolMove || st == agent.StateReturn {
		pts := g.sim.Agent.Curve().Samples(curveSteps)
		for i := 1; i < len(pts); i++ {
			x0, y0 := g.cam.ToScreen(pts[i-1])
			x1, y1 := g.cam.ToScreen(pts[i])
			vector.StrokeLine(screen, x0, y0, x1, y1, 2.0, colCurve, true)
		}
	}
	for _, c := range g.sim.Agent.Corners() {
		x, y := g.cam.ToScreen(c)
		vector.StrokeRect(screen, x-4, y-4, 8, 8, 1.5, colCorner, true)
	}
}

// drawVisionCone renders the FOV fan into an offscreen buffer, each ray
// clipped by the occluder, then composites it at low opacity.
func (g *Game) drawVisionCone(screen *ebiten.Image) {
	buf := g.visionBuf
	buf.Clear()

	v := g.sim.Agent.Vision()
	pose := g.sim.Agent.Pose()
	sx, sy := g.cam.ToScreen(pose.Position)

	var path vector.Path
	path.MoveTo(sx, sy)
	for i := 0; i <= coneSteps; i++ {
		a := pose.Heading - v.FOV/2 + (v.FOV/float64(coneSteps))*float64(i)
		d := v.ClipRay(pose.Position, a)
		px, py := g.cam.ToScreen(pose.Position.Add(geom.FromHeading(a).Mul(d)))
		path.LineTo(px, py)
	}
	path.Close()
	vector.FillPath(buf, &path, &vector.FillOptions{}, &vector.DrawPathOptions{AntiAlias: true})

	tint := colCone
	if g.sim.Snapshot().Seen {
		tint = colConeSeen
	}
	opts := &ebiten.DrawImageOptions{}
	opts.ColorScale.ScaleWithColor(tint)
	opts.ColorScale.ScaleAlpha(0.25)
	screen.DrawImage(buf, opts)
}

func (g *Game) drawActors(screen *ebiten.Image) {
	pose := g.sim.Agent.Pose()
	if g.sim.Target != nil {
		if tp, ok := g.sim.Target.TargetPosition(); ok {
			x, y := g.cam.ToScreen(tp)
			// Sight line regardless of the cone: dim when an obstacle cuts it.
			if bo, isBox := g.sim.Occluder.(*perception.BoxOccluder); isBox {
				c := colSightClear
				if !bo.HasLineOfSight(pose.Position, tp, g.sim.Agent.Vision().EyeHeight) {
					c = colSightBlocked
				}
				sx, sy := g.cam.ToScreen(pose.Position)
				vector.StrokeLine(screen, sx, sy, x, y, 1.0, c, true)
			}
			vector.FillCircle(screen, x, y, 5, colTarget, true)
		}
	}

	x, y := g.cam.ToScreen(pose.Position)
	r := float32(math.Max(4, float64(g.cam.Len(g.sim.Pawn.Radius()))))
	vector.FillCircle(screen, x, y, r, colSentry, true)
	hx, hy := g.cam.ToScreen(pose.Position.Add(pose.Forward().Mul(g.sim.Pawn.Radius() * 2.5)))
	vector.StrokeLine(screen, x, y, hx, hy, 2.0, colSentry, true)
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	snap := g.sim.Snapshot()
	speedStr := "PAUSED"
	if g.simSpeed > 0 {
		speedStr = fmt.Sprintf("%gx", g.simSpeed)
	}
	lines := []string{
		fmt.Sprintf("T=%d  %.1fs  SIM: %s  P=pause  ,/. speed  C=copy log", snap.Tick, g.sim.Elapsed(), speedStr),
		fmt.Sprintf("state=%s  speed=%.2f  lose=%.2f  corners=%d", snap.State, snap.Speed, snap.LoseTimer, snap.Corners),
		fmt.Sprintf("legs=%d  chases=%d  give_ups=%d  violations=%d  %s", g.sim.PatrolLegs, g.sim.Chases, g.sim.GiveUps, g.sim.Violations, lastContact(g.sim.SimLog)),
	}
	if g.status != "" {
		lines = append(lines, g.status)
	}
	for i, l := range lines {
		g.drawText(screen, l, 8, 6+float64(i)*15, color.White)
	}
}

func (g *Game) drawText(screen *ebiten.Image, s string, x, y float64, c color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	text.Draw(screen, s, g.face, op)
}

// Layout returns the fixed window size.
func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}
