package planning

import (
	"context"

	"github.com/sportmed/trainingmonitor/internal/rest"
	"github.com/sportmed/trainingmonitor/internal/telemetry/tracing"
)

const prefixPath = "/planning"

// UploadRequest carries a training-plan spreadsheet for one patient,
// base64-encoded.
type UploadRequest struct {
	PatientID  int    `json:"patientId"`
	XlsxBase64 string `json:"xlsxBase64"`
}

// UploadResponse lists the ids of the planned workouts the server parsed
// out of the plan.
type UploadResponse struct {
	PlannedWorkoutIDs []int `json:"plannedWorkouts"`
}

// Service talks to the /planning resource group.
type Service struct {
	client *rest.Client
}

func NewService(client *rest.Client) *Service {
	return &Service{client: client}
}

func (s *Service) UploadTrainingPlan(ctx context.Context, req UploadRequest) (_ *UploadResponse, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "planningService.uploadTrainingPlan")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var resp UploadResponse
	if err := s.client.Post(ctx, prefixPath+"/import", req, true, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
