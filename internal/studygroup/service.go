package studygroup

import (
	"context"
	"fmt"

	"github.com/sportmed/trainingmonitor/internal/rest"
	"github.com/sportmed/trainingmonitor/internal/telemetry/tracing"
)

const prefixPath = "/studyGroup"

// Group is one study group; patients and trainers are linked to it through
// the member/trainer membership payloads below.
type Group struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type PostRequest struct {
	Name string `json:"name"`
}

type PostResponse struct {
	StudyGroupID int `json:"studyGroup"`
}

type MemberRequest struct {
	StudyGroupID int `json:"studyGroupId"`
	PatientID    int `json:"patientId"`
}

type MemberResponse struct {
	StudyGroupMemberID int `json:"studyGroupMember"`
}

type TrainerRequest struct {
	StudyGroupID int `json:"studyGroupId"`
	TrainerID    int `json:"trainerId"`
}

type TrainerResponse struct {
	StudyGroupTrainerID int `json:"studyGroupTrainer"`
}

// Service talks to the /studyGroup resource group.
type Service struct {
	client *rest.Client
}

func NewService(client *rest.Client) *Service {
	return &Service{client: client}
}

func (s *Service) GetStudyGroups(ctx context.Context) (_ []Group, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "studyGroupService.getStudyGroups")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var groups []Group
	if err := s.client.Get(ctx, prefixPath+"/overviews", "", true, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (s *Service) PostStudyGroup(ctx context.Context, name string) (_ *PostResponse, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "studyGroupService.postStudyGroup")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var resp PostResponse
	if err := s.client.Post(ctx, prefixPath, PostRequest{Name: name}, true, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *Service) PostStudyGroupMember(ctx context.Context, req MemberRequest) (_ *MemberResponse, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "studyGroupService.postStudyGroupMember")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var resp MemberResponse
	if err := s.client.Post(ctx, prefixPath+"/member", req, true, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *Service) PostStudyGroupTrainer(ctx context.Context, req TrainerRequest) (_ *TrainerResponse, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "studyGroupService.postStudyGroupTrainer")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var resp TrainerResponse
	if err := s.client.Post(ctx, prefixPath+"/trainer", req, true, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *Service) DeleteStudyGroup(ctx context.Context, id int) (_ *PostResponse, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "studyGroupService.deleteStudyGroup")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var resp PostResponse
	if err := s.client.Delete(ctx, prefixPath, fmt.Sprintf("id=%d", id), true, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
