package workout

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"

	"github.com/sportmed/trainingmonitor/internal/rest"
	"github.com/sportmed/trainingmonitor/internal/telemetry/tracing"
)

const (
	prefixPath        = "/workout"
	DefaultSampleRate = 10

	detailCacheExpireSeconds = 60 * 60
)

// Service talks to the /workout resource group. Fetched workout details
// are cached in-process: the time series of a finished workout never
// changes and the chart screens re-request it on every axis switch.
type Service struct {
	client *rest.Client
	cache  *freecache.Cache
}

func NewService(client *rest.Client) *Service {
	megabyte := 1024 * 1024
	return &Service{
		client: client,
		cache:  freecache.NewCache(10 * megabyte),
	}
}

// GetWorkout fetches one workout's full time series. sampleRate controls
// the server-side downsampling of the combined samples; values below 1
// fall back to the default.
func (s *Service) GetWorkout(ctx context.Context, id, sampleRate int) (_ *Detail, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "workoutService.getWorkout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if sampleRate < 1 {
		sampleRate = DefaultSampleRate
	}

	cacheKey := fmt.Sprintf("workout::%d::%d", id, sampleRate)
	if cached, err := s.cache.Get([]byte(cacheKey)); err == nil {
		var detail Detail
		if err := json.Unmarshal(cached, &detail); err == nil {
			log.Tracef("workout %d found in cache", id)
			return &detail, nil
		}
		log.Errorf("failed to unmarshal cached workout %d: %s", id, err)
	}

	query := fmt.Sprintf("id=%d&sampleRate=%d", id, sampleRate)
	var detail Detail
	if err := s.client.Get(ctx, prefixPath, query, true, &detail); err != nil {
		return nil, err
	}

	if cacheBytes, err := json.Marshal(detail); err == nil {
		if err := s.cache.Set([]byte(cacheKey), cacheBytes, detailCacheExpireSeconds); err != nil {
			log.Errorf("failed to cache workout %d: %s", id, err)
		}
	}

	return &detail, nil
}

// GetOverview fetches the workouts overview for a date range. The patient
// id is only sent by the clinician app; the patient app's token implies it.
func (s *Service) GetOverview(ctx context.Context, start, end time.Time, patientID *int) (_ *Overview, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "workoutService.getWorkoutsOverview")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	query := fmt.Sprintf("fromDate=%s&toDate=%s", rest.FormatDay(start), rest.FormatDay(end))
	if patientID != nil {
		query += fmt.Sprintf("&patientId=%d", *patientID)
	}

	var overview Overview
	if err := s.client.Get(ctx, prefixPath+"/overviews", query, true, &overview); err != nil {
		return nil, err
	}
	return &overview, nil
}

// PostWorkout uploads one device workout. The server expects the payload
// wrapped in a healthJsonData envelope.
func (s *Service) PostWorkout(ctx context.Context, req PostRequest) (_ *PostResponse, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "workoutService.postWorkout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	envelope := struct {
		HealthJSONData PostRequest `json:"healthJsonData"`
	}{HealthJSONData: req}

	var resp PostResponse
	if err := s.client.Post(ctx, prefixPath, envelope, true, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *Service) PostRating(ctx context.Context, req RatingRequest) (_ *RatingResponse, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "workoutService.postRating")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var resp RatingResponse
	if err := s.client.Post(ctx, prefixPath+"/rating", req, true, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *Service) PostSteps(ctx context.Context, req StepUpload) (_ *StepUploadResponse, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "workoutService.postSteps")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var resp StepUploadResponse
	if err := s.client.Post(ctx, prefixPath+"/steps", req, true, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
