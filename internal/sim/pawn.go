package sim

import (
	"github.com/Garsondee/Sentry-Sense/internal/geom"
	"github.com/Garsondee/Sentry-Sense/internal/perception"
)

// Pawn is the sentry's body in the headless world. It executes the agent's
// displacement axis by axis and refuses any axis step that would put its
// footprint inside an obstacle, so it slides along walls.
type Pawn struct {
	pos       geom.Vec2
	heading   float64
	radius    float64
	obstacles []geom.Rect // inflated by radius

	// Travelled is the distance actually moved; Collisions counts refused axis steps.
	Travelled  float64
	Collisions int
}

// NewPawn places a pawn. Every obstacle blocks movement regardless of height.
func NewPawn(pos geom.Vec2, heading, radius float64, obstacles []perception.Obstacle) *Pawn {
	p := &Pawn{pos: pos, heading: heading, radius: radius}
	for _, o := range obstacles {
		p.obstacles = append(p.obstacles, o.Bounds.Inflate(radius))
	}
	return p
}

// Position implements agent.Body.
func (p *Pawn) Position() geom.Vec2 { return p.pos }

// Heading implements agent.Body.
func (p *Pawn) Heading() float64 { return p.heading }

// SetHeading implements agent.Body.
func (p *Pawn) SetHeading(rad float64) { p.heading = geom.NormalizeAngle(rad) }

// Radius returns the footprint radius.
func (p *Pawn) Radius() float64 { return p.radius }

// Move implements agent.Body.
func (p *Pawn) Move(d geom.Vec2) {
	start := p.pos
	if d.X != 0 {
		if next := geom.V(p.pos.X+d.X, p.pos.Y); p.free(next) {
			p.pos = next
		} else {
			p.Collisions++
		}
	}
	if d.Y != 0 {
		if next := geom.V(p.pos.X, p.pos.Y+d.Y); p.free(next) {
			p.pos = next
		} else {
			p.Collisions++
		}
	}
	p.Travelled += p.pos.Dist(start)
}

func (p *Pawn) free(q geom.Vec2) bool {
	for _, r := range p.obstacles {
		if r.ContainsOpen(q) {
			return false
		}
	}
	return true
}
