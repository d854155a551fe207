package agent

import "github.com/Garsondee/Sentry-Sense/internal/geom"

// Body is the agent's pose provider and motion executor. Move receives the
// intended displacement; the implementation may apply its own collision
// response.
type Body interface {
	Position() geom.Vec2
	Heading() float64
	Move(delta geom.Vec2)
	SetHeading(rad float64)
}

// TargetSource reports where the target is. ok is false when no target exists.
type TargetSource interface {
	TargetPosition() (pos geom.Vec2, ok bool)
}

// Notification events.
const (
	EventIdleLook   = "Idle-Look"
	EventIdleBreath = "Idle-Breath"
	EventPatrol     = "Patrol"
	EventChase      = "Chase"
	EventReturn     = "Return"
)

// Signal fans a string event out to subscribers in subscription order.
// The agent only writes to it.
type Signal struct {
	subs []func(string)
}

// Subscribe registers fn for every later event.
func (s *Signal) Subscribe(fn func(string)) {
	if fn != nil {
		s.subs = append(s.subs, fn)
	}
}

// Emit delivers ev to every subscriber.
func (s *Signal) Emit(ev string) {
	for _, fn := range s.subs {
		fn(ev)
	}
}
