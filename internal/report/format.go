package report

import (
	"fmt"
	"io"
)

// WriteHeader prints the batch banner.
func WriteHeader(w io.Writer, scenario string, runs, ticks int, seedBase, seedStep int64) {
	fmt.Fprintf(w, "=== Headless Sentry Report ===\n")
	fmt.Fprintf(w, "scenario=%s runs=%d ticks=%d seed_base=%d seed_step=%d\n\n",
		scenario, runs, ticks, seedBase, seedStep)
}

// WriteRun prints one run's block.
func WriteRun(w io.Writer, rs RunStats) {
	fmt.Fprintf(w, "--- Run %d (seed=%d id=%s) ---\n", rs.RunIndex, rs.Seed, rs.ID)
	fmt.Fprintf(w, "phase_markers: first_contact=%d first_chase=%d first_give_up=%d\n",
		rs.FirstContactTick, rs.FirstChaseTick, rs.FirstGiveUpTick)
	fmt.Fprintf(w, "event_totals: state_change=%d contact_new=%d contact_lost=%d chases=%d give_ups=%d\n",
		rs.StateChanges, rs.ContactNew, rs.ContactLost, rs.Chases, rs.GiveUps)
	fmt.Fprintf(w, "patrol: legs=%d corner_routes=%d distance=%.1f collisions=%d\n",
		rs.PatrolLegs, rs.CornerRoutes, rs.Distance, rs.Collisions)
	fmt.Fprintf(w, "time_in_state: idle=%.1fs patrol=%.1fs chase=%.1fs return=%.1fs\n",
		rs.IdleSeconds, rs.PatrolSeconds, rs.ChaseSeconds, rs.ReturnSeconds)
	if rs.Violations > 0 {
		fmt.Fprintf(w, "WARNING: zone_violations=%d\n", rs.Violations)
	}
	fmt.Fprintln(w)
}

// WriteAggregate prints the cross-run summary.
func WriteAggregate(w io.Writer, all []RunStats) {
	agg := Summarise(all)
	fmt.Fprintln(w, "=== Aggregate ===")
	fmt.Fprintf(w, "runs=%d runs_with_contact=%d\n", agg.Runs, agg.RunsWithContact)
	fmt.Fprintf(w, "avg_events_per_run: state_change=%.1f contact_new=%.1f chases=%.1f give_ups=%.1f\n",
		agg.AvgStateChanges, agg.AvgContactNew, agg.AvgChases, agg.AvgGiveUps)
	fmt.Fprintf(w, "avg_patrol_per_run: legs=%.1f corner_routes=%.1f distance=%.1f\n",
		agg.AvgPatrolLegs, agg.AvgCornerRoutes, agg.AvgDistance)
	fmt.Fprintf(w, "phase_marker_avg_ticks: first_contact=%s first_chase=%s first_give_up=%s\n",
		agg.FirstContact, agg.FirstChase, agg.FirstGiveUp)
	fmt.Fprintf(w, "totals: zone_violations=%d collisions=%d\n", agg.TotalViolations, agg.TotalCollisions)
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}
