package patient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sportmed/trainingmonitor/internal/rest"
	"github.com/sportmed/trainingmonitor/internal/telemetry/tracing"
)

const prefixPath = "/patient"

// Service talks to the /patient resource group.
type Service struct {
	client *rest.Client
}

func NewService(client *rest.Client) *Service {
	return &Service{client: client}
}

// GetSummaries fetches the patient overview list, optionally restricted to
// a treatment date range. The filter is only applied when both ends are set.
func (s *Service) GetSummaries(ctx context.Context, start, end *time.Time) (_ []Summary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "patientService.getSummaries")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var query string
	if start != nil && end != nil {
		query = dateRangeQuery(*start, *end)
	}

	var summaries []Summary
	if err := s.client.Get(ctx, prefixPath+"/overviews", query, true, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

func (s *Service) GetPatient(ctx context.Context, id int) (_ *Details, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "patientService.getPatient")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var details Details
	if err := s.client.Get(ctx, prefixPath, fmt.Sprintf("id=%d", id), true, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

func (s *Service) GetTrainingZones(ctx context.Context, patientID int) (_ *TrainingZones, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "patientService.getTrainingZones")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var zones TrainingZones
	query := fmt.Sprintf("patientId=%d", patientID)
	if err := s.client.Get(ctx, prefixPath+"/trainingZones", query, true, &zones); err != nil {
		return nil, err
	}
	return &zones, nil
}

// GetExport fetches base64-encoded spreadsheet blobs, one per requested
// patient, optionally restricted to a date range.
func (s *Service) GetExport(ctx context.Context, from, to *time.Time, patientIDs []int) (_ []Export, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "patientService.getExport")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	parts := make([]string, 0, len(patientIDs)+1)
	for _, id := range patientIDs {
		parts = append(parts, fmt.Sprintf("patientIds=%d", id))
	}
	if from != nil && to != nil {
		parts = append(parts, dateRangeQuery(*from, *to))
	}

	var exports []Export
	if err := s.client.Get(ctx, prefixPath+"/export", strings.Join(parts, "&"), true, &exports); err != nil {
		return nil, err
	}
	return exports, nil
}

func (s *Service) PostPatient(ctx context.Context, req PostRequest) (_ *PostResponse, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "patientService.postPatient")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var resp PostResponse
	if err := s.client.Post(ctx, prefixPath, req, true, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *Service) PatchPatient(ctx context.Context, req PatchRequest) (_ *PostResponse, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "patientService.patchPatient")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var resp PostResponse
	if err := s.client.Patch(ctx, prefixPath, req, true, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *Service) PostTrainingZones(ctx context.Context, req TrainingZonesUpload) (_ *TrainingZonesUploadResponse, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "patientService.postTrainingZones")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var resp TrainingZonesUploadResponse
	if err := s.client.Post(ctx, prefixPath+"/trainingZones", req, true, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *Service) DeleteTrainingZones(ctx context.Context, id int) (_ *DeleteTrainingZonesResponse, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "patientService.deleteTrainingZones")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var resp DeleteTrainingZonesResponse
	if err := s.client.Delete(ctx, prefixPath+"/trainingZones", fmt.Sprintf("id=%d", id), true, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *Service) DeletePatient(ctx context.Context, id int) (_ *PostResponse, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "patientService.deletePatient")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var resp PostResponse
	if err := s.client.Delete(ctx, prefixPath, fmt.Sprintf("id=%d", id), true, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// dateRangeQuery renders the fromDate/toDate pair in the day wire format.
func dateRangeQuery(from, to time.Time) string {
	return fmt.Sprintf("fromDate=%s&toDate=%s", rest.FormatDay(from), rest.FormatDay(to))
}
