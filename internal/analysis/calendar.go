package analysis

import (
	"sort"
	"time"

	"github.com/sportmed/trainingmonitor/internal/workout"
)

// WorkoutsOnDay filters workouts to those whose start time falls on the
// same calendar day as day, in day's location.
func WorkoutsOnDay(workouts []workout.OverviewItem, day time.Time) []workout.OverviewItem {
	var result []workout.OverviewItem
	for _, w := range workouts {
		if sameDay(w.StartTime.Time, day) {
			result = append(result, w)
		}
	}
	return result
}

// SortByStartDesc orders workouts newest first, the display order of every
// workout list.
func SortByStartDesc(workouts []workout.OverviewItem) {
	sort.SliceStable(workouts, func(i, j int) bool {
		return workouts[i].StartTime.After(workouts[j].StartTime.Time)
	})
}

// WeekTotals aggregates running and cycling distance and duration over a
// set of calendar days.
type WeekTotals struct {
	RunningDistance float64
	RunningDuration float64
	CyclingDistance float64
	CyclingDuration float64
}

// TotalsForDays sums per-activity distance and duration for workouts
// falling on any of the given days.
func TotalsForDays(workouts []workout.OverviewItem, days []time.Time) WeekTotals {
	var totals WeekTotals
	for _, day := range days {
		for _, w := range WorkoutsOnDay(workouts, day) {
			switch w.Type {
			case workout.ActivityRunning:
				totals.RunningDistance += w.Distance
				totals.RunningDuration += w.Duration
			case workout.ActivityCycling:
				totals.CyclingDistance += w.Distance
				totals.CyclingDuration += w.Duration
			}
		}
	}
	return totals
}

// MissedWorkouts returns the planned workouts whose date has passed
// without a completed workout of the same activity type on that day.
// These become the placeholder entries in the calendar.
func MissedWorkouts(
	planned []workout.PlannedWorkout,
	completed []workout.OverviewItem,
	now time.Time,
) []workout.PlannedWorkout {
	var missed []workout.PlannedWorkout
	for _, plan := range planned {
		if !plan.PlannedDate.Before(now) {
			continue
		}
		done := false
		for _, w := range completed {
			if w.Type == plan.Type && sameDay(w.StartTime.Time, plan.PlannedDate.Time) {
				done = true
				break
			}
		}
		if !done {
			missed = append(missed, plan)
		}
	}
	return missed
}

func sameDay(a, b time.Time) bool {
	aYear, aMonth, aDay := a.In(b.Location()).Date()
	bYear, bMonth, bDay := b.Date()
	return aYear == bYear && aMonth == bMonth && aDay == bDay
}
