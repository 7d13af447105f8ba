package analysis

import (
	"fmt"

	"github.com/sportmed/trainingmonitor/internal/workout"
)

// Axis selects the x-coordinate of chart points: elapsed time or
// cumulative distance.
type Axis int

const (
	AxisTime Axis = iota
	AxisDistance
)

// Sample is one chart sample: a value at an elapsed-seconds /
// cumulative-distance position.
type Sample struct {
	SecondsSinceStart float64
	Distance          float64
	Value             float64
}

// Point is one smoothed chart point.
type Point struct {
	X float64
	Y float64
}

// RollingAverage smooths samples with a fixed-window moving mean: one
// point per index i >= window-1, value averaged over [i-window+1, i], x
// taken from the sample at i per the selected axis. The output has exactly
// len(samples)-window+1 points. An empty input or a window outside
// [1, len(samples)) is a programming error and panics.
func RollingAverage(samples []Sample, window int, axis Axis) []Point {
	if len(samples) == 0 {
		panic("rolling average over empty sample list")
	}
	if window < 1 || window >= len(samples) {
		panic(fmt.Sprintf("rolling average window %d invalid for %d samples", window, len(samples)))
	}

	points := make([]Point, 0, len(samples)-window+1)
	for i := window - 1; i < len(samples); i++ {
		var sum float64
		for _, s := range samples[i-window+1 : i+1] {
			sum += s.Value
		}

		x := samples[i].SecondsSinceStart
		if axis == AxisDistance {
			x = samples[i].Distance
		}
		points = append(points, Point{X: x, Y: sum / float64(window)})
	}
	return points
}

// HeartRateSamples extracts the heart-rate series from a workout's
// combined profiles; missing readings count as zero, matching the chart
// screens.
func HeartRateSamples(detail *workout.Detail) []Sample {
	return extractSamples(detail, func(s workout.CombinedSample) *float64 { return s.HeartRate })
}

// SpeedSamples extracts the speed series from a workout's combined profiles.
func SpeedSamples(detail *workout.Detail) []Sample {
	return extractSamples(detail, func(s workout.CombinedSample) *float64 { return s.Speed })
}

// AltitudeSamples extracts the altitude series from a workout's combined profiles.
func AltitudeSamples(detail *workout.Detail) []Sample {
	return extractSamples(detail, func(s workout.CombinedSample) *float64 { return s.Altitude })
}

func extractSamples(detail *workout.Detail, value func(workout.CombinedSample) *float64) []Sample {
	samples := make([]Sample, 0, len(detail.CombinedProfiles))
	for _, profile := range detail.CombinedProfiles {
		sample := Sample{SecondsSinceStart: profile.SecondsSinceStart}
		if v := value(profile); v != nil {
			sample.Value = *v
		}
		if profile.Distance != nil {
			sample.Distance = *profile.Distance
		}
		samples = append(samples, sample)
	}
	return samples
}
