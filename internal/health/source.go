package health

import (
	"context"
	"time"
)

// DeviceWorkout is a workout as read from the device's health store.
type DeviceWorkout struct {
	UUID           string
	ActivityType   int
	Start          time.Time
	End            time.Time
	DurationSec    float64
	DistanceMeters float64
	Calories       float64
	SourceRevision string
	HeartRate      []HeartRateSample
	DistanceSplits []DistanceSample
}

type HeartRateSample struct {
	Start time.Time
	End   time.Time
	BPM   float64
	Count int
}

type DistanceSample struct {
	Start  time.Time
	End    time.Time
	Meters float64
	Count  int
}

// StepRecord is one day's step count, day granularity.
type StepRecord struct {
	Date  time.Time
	Count int
}

// DataSource is the capability the upload mediator needs from the
// platform health store. The concrete implementation (HealthKit queries
// on the device) stays outside this module.
type DataSource interface {
	Workouts(ctx context.Context, from, to time.Time) ([]DeviceWorkout, error)
	Steps(ctx context.Context, from, to time.Time) ([]StepRecord, error)
}
