package health

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/sportmed/trainingmonitor/internal/rest"
	"github.com/sportmed/trainingmonitor/internal/telemetry/tracing"
	"github.com/sportmed/trainingmonitor/internal/workout"
)

// Uploader pushes device health data to the server. The server's overview
// already lists every uploaded workout by its device UUID, so a sync only
// posts the difference.
type Uploader struct {
	source   DataSource
	workouts *workout.Service
}

func NewUploader(source DataSource, workouts *workout.Service) *Uploader {
	return &Uploader{
		source:   source,
		workouts: workouts,
	}
}

// SyncResult counts what one sync run uploaded.
type SyncResult struct {
	WorkoutsUploaded int
	StepDaysUploaded int
}

// Sync uploads the device workouts missing from the server and one step
// record per day in the range. A failed overview fetch aborts the sync;
// any upload failure is surfaced immediately.
func (u *Uploader) Sync(ctx context.Context, from, to time.Time) (_ *SyncResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "healthUploader.sync")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	overview, err := u.workouts.GetOverview(ctx, from, to, nil)
	if err != nil {
		return nil, fmt.Errorf("get workouts overview: %w", err)
	}

	known := make(map[string]struct{}, len(overview.Workouts))
	for _, w := range overview.Workouts {
		known[w.AppleUUID] = struct{}{}
	}

	deviceWorkouts, err := u.source.Workouts(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("query device workouts: %w", err)
	}

	result := &SyncResult{}
	for _, dw := range deviceWorkouts {
		if _, ok := known[dw.UUID]; ok {
			continue
		}
		if _, err := u.workouts.PostWorkout(ctx, buildPostRequest(dw)); err != nil {
			return result, fmt.Errorf("post workout %s: %w", dw.UUID, err)
		}
		log.Debugf("uploaded workout %s (%s)", dw.UUID, dw.Start)
		result.WorkoutsUploaded++
	}

	steps, err := u.source.Steps(ctx, from, to)
	if err != nil {
		return result, fmt.Errorf("query device steps: %w", err)
	}
	for _, record := range steps {
		upload := workout.StepUpload{
			Date:   rest.FormatDay(record.Date),
			Amount: uint(record.Count),
		}
		if _, err := u.workouts.PostSteps(ctx, upload); err != nil {
			return result, fmt.Errorf("post steps for %s: %w", upload.Date, err)
		}
		result.StepDaysUploaded++
	}

	return result, nil
}

func buildPostRequest(dw DeviceWorkout) workout.PostRequest {
	req := workout.PostRequest{
		AppleUUID:      dw.UUID,
		ActivityType:   dw.ActivityType,
		StartDate:      dw.Start.Format(rest.OutboundTimeLayout),
		EndDate:        dw.End.Format(rest.OutboundTimeLayout),
		Duration:       workout.UnitValue{DoubleValue: dw.DurationSec, Unit: "s"},
		TotalDistance:  workout.UnitValue{DoubleValue: dw.DistanceMeters, Unit: "m"},
		TotalCalories:  workout.UnitValue{DoubleValue: dw.Calories, Unit: "kcal"},
		SourceRevision: dw.SourceRevision,
		WorkoutEvents:  []workout.Event{},
		Locations:      []workout.RouteSample{},
	}

	req.HeartRateSamples = make([]workout.QuantitySample, 0, len(dw.HeartRate))
	for _, hr := range dw.HeartRate {
		req.HeartRateSamples = append(req.HeartRateSamples, workout.QuantitySample{
			StartTime: hr.Start.Format(rest.OutboundTimeLayout),
			EndTime:   hr.End.Format(rest.OutboundTimeLayout),
			Quantity:  workout.UnitValue{DoubleValue: hr.BPM, Unit: "count/min"},
			Count:     hr.Count,
			Device:    dw.SourceRevision,
		})
	}

	req.DistanceWalkingRunningSamples = make([]workout.QuantitySample, 0, len(dw.DistanceSplits))
	for _, split := range dw.DistanceSplits {
		req.DistanceWalkingRunningSamples = append(req.DistanceWalkingRunningSamples, workout.QuantitySample{
			StartTime: split.Start.Format(rest.OutboundTimeLayout),
			EndTime:   split.End.Format(rest.OutboundTimeLayout),
			Quantity:  workout.UnitValue{DoubleValue: split.Meters, Unit: "m"},
			Count:     split.Count,
			Device:    dw.SourceRevision,
		})
	}

	return req
}
