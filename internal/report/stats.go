// Package report turns headless sentry runs into comparable numbers, prints
// them, and persists them to SQLite for later comparison across tunings.
package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/Garsondee/Sentry-Sense/internal/agent"
	"github.com/Garsondee/Sentry-Sense/internal/sim"
)

// RunStats summarises one headless run.
type RunStats struct {
	ID       string `db:"id"`
	Scenario string `db:"scenario"`
	RunIndex int    `db:"run_index"`
	Seed     int64  `db:"seed"`
	Ticks    int    `db:"ticks"`

	FirstContactTick int `db:"first_contact_tick"`
	FirstChaseTick   int `db:"first_chase_tick"`
	FirstGiveUpTick  int `db:"first_give_up_tick"`

	StateChanges int `db:"state_changes"`
	ContactNew   int `db:"contact_new"`
	ContactLost  int `db:"contact_lost"`
	Chases       int `db:"chases"`
	GiveUps      int `db:"give_ups"`
	PatrolLegs   int `db:"patrol_legs"`
	CornerRoutes int `db:"corner_routes"`
	Violations   int `db:"violations"`
	Collisions   int `db:"collisions"`

	Distance      float64 `db:"distance"`
	IdleSeconds   float64 `db:"idle_seconds"`
	PatrolSeconds float64 `db:"patrol_seconds"`
	ChaseSeconds  float64 `db:"chase_seconds"`
	ReturnSeconds float64 `db:"return_seconds"`

	CreatedAt int64 `db:"created_at"` // unix seconds
}

// Collect reads the finished run's counters and log into a RunStats with a
// fresh id.
func Collect(s *sim.Sim, scenario string, runIndex int) RunStats {
	log := s.SimLog
	secs := func(st agent.State) float64 { return float64(s.StateTicks[st]) * s.Dt }
	return RunStats{
		ID:               uuid.NewString(),
		Scenario:         scenario,
		RunIndex:         runIndex,
		Seed:             s.Seed,
		Ticks:            s.CurrentTick(),
		FirstContactTick: log.FirstTick("vision", "contact_new", ""),
		FirstChaseTick:   log.FirstTick("state", "change", "→ Chase"),
		FirstGiveUpTick:  log.FirstTick("state", "change", "Chase → Return"),
		StateChanges:     log.CountCategory("state", "change"),
		ContactNew:       log.CountCategory("vision", "contact_new"),
		ContactLost:      log.CountCategory("vision", "contact_lost"),
		Chases:           s.Chases,
		GiveUps:          s.GiveUps,
		PatrolLegs:       s.PatrolLegs,
		CornerRoutes:     s.CornerRoutes,
		Violations:       s.Violations,
		Collisions:       s.Pawn.Collisions,
		Distance:         s.Pawn.Travelled,
		IdleSeconds:      secs(agent.StateIdle),
		PatrolSeconds:    secs(agent.StatePatrolMove),
		ChaseSeconds:     secs(agent.StateChase),
		ReturnSeconds:    secs(agent.StateReturn),
		CreatedAt:        time.Now().Unix(),
	}
}

// Aggregate is the cross-run summary.
type Aggregate struct {
	Runs int

	AvgStateChanges float64
	AvgContactNew   float64
	AvgChases       float64
	AvgGiveUps      float64
	AvgPatrolLegs   float64
	AvgCornerRoutes float64
	AvgDistance     float64

	TotalViolations int
	TotalCollisions int

	// First-event markers averaged over the runs where they occurred.
	FirstContact string
	FirstChase   string
	FirstGiveUp  string

	RunsWithContact int
}

// Summarise folds runs into an Aggregate.
func Summarise(all []RunStats) Aggregate {
	agg := Aggregate{Runs: len(all)}
	var states, contacts, chases, giveUps, legs, corners int
	var dist float64
	contactTicks := make([]int, 0, len(all))
	chaseTicks := make([]int, 0, len(all))
	giveUpTicks := make([]int, 0, len(all))

	for _, rs := range all {
		states += rs.StateChanges
		contacts += rs.ContactNew
		chases += rs.Chases
		giveUps += rs.GiveUps
		legs += rs.PatrolLegs
		corners += rs.CornerRoutes
		dist += rs.Distance
		agg.TotalViolations += rs.Violations
		agg.TotalCollisions += rs.Collisions
		if rs.FirstContactTick >= 0 {
			contactTicks = append(contactTicks, rs.FirstContactTick)
		}
		if rs.FirstChaseTick >= 0 {
			chaseTicks = append(chaseTicks, rs.FirstChaseTick)
		}
		if rs.FirstGiveUpTick >= 0 {
			giveUpTicks = append(giveUpTicks, rs.FirstGiveUpTick)
		}
	}

	n := len(all)
	agg.AvgStateChanges = avg(states, n)
	agg.AvgContactNew = avg(contacts, n)
	agg.AvgChases = avg(chases, n)
	agg.AvgGiveUps = avg(giveUps, n)
	agg.AvgPatrolLegs = avg(legs, n)
	agg.AvgCornerRoutes = avg(corners, n)
	if n > 0 {
		agg.AvgDistance = dist / float64(n)
	}
	agg.FirstContact = avgTickString(contactTicks)
	agg.FirstChase = avgTickString(chaseTicks)
	agg.FirstGiveUp = avgTickString(giveUpTicks)
	agg.RunsWithContact = len(contactTicks)
	return agg
}
