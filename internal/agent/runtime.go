package agent

import (
	"github.com/Garsondee/Sentry-Sense/internal/geom"
	"github.com/Garsondee/Sentry-Sense/internal/locomotion"
)

// Runtime is the mutable bookkeeping owned by the state machine.
//
// Follower is shared: PatrolMove and Return follow planned curves with it
// and Chase drives its straight-line variant. Every other field belongs to a
// single state and is reset when that state is entered.
type Runtime struct {
	Follower locomotion.Follower

	// Idle
	IdleTimer float64
	IdleLook  bool

	// Chase
	LagTarget geom.Vec2
	LoseTimer float64

	// Return
	ReturnWait float64
	HasPath    bool

	// Ticks counts accepted Tick calls; StateTime is seconds in the current state.
	Ticks     uint64
	StateTime float64
}
