package patient

import (
	"context"
	"fmt"
	"sync"

	"github.com/sportmed/trainingmonitor/internal/account"
	"github.com/sportmed/trainingmonitor/internal/studygroup"
	"github.com/sportmed/trainingmonitor/internal/telemetry/tracing"
)

// Registrar creates a complete patient record. Account, patient, study
// group membership and training zones live behind four different
// endpoints; the ids produced by the earlier calls feed the later ones, so
// the calls are chained instead of raced against an unready patient id.
type Registrar struct {
	accounts    *account.Service
	patients    *Service
	studyGroups *studygroup.Service
}

func NewRegistrar(
	accounts *account.Service,
	patients *Service,
	studyGroups *studygroup.Service,
) *Registrar {
	return &Registrar{
		accounts:    accounts,
		patients:    patients,
		studyGroups: studyGroups,
	}
}

// NewPatient is the complete input for registering a patient.
type NewPatient struct {
	Account      account.PostRequest
	Treatment    PostRequest // AccountID filled in from the created account
	StudyGroupID int
	// TrainingZones are pre-validated uploads; their PatientID is filled
	// in from the created patient.
	TrainingZones []TrainingZonesUpload
}

// Registration carries the ids produced along the creation chain.
type Registration struct {
	AccountID       int
	PatientID       int
	StudyGroupIDs   []int
	TrainingZoneIDs []int
}

// CreatePatient runs the chain: account, then patient (threading the
// account id), then study-group membership and training zones in parallel
// (threading the patient id). The first failure prevents every call after
// it from being issued.
func (r *Registrar) CreatePatient(ctx context.Context, input NewPatient) (_ *Registration, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "patientRegistrar.createPatient")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	accountResp, err := r.accounts.PostAccount(ctx, input.Account)
	if err != nil {
		return nil, fmt.Errorf("post account: %w", err)
	}

	patientReq := input.Treatment
	patientReq.AccountID = accountResp.AccountID
	patientResp, err := r.patients.PostPatient(ctx, patientReq)
	if err != nil {
		return nil, fmt.Errorf("post patient: %w", err)
	}

	registration := &Registration{
		AccountID: accountResp.AccountID,
		PatientID: patientResp.PatientID,
	}

	var (
		wg          sync.WaitGroup
		memberErr   error
		zonesErr    error
		memberResp  *studygroup.MemberResponse
		zoneRespIDs []int
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		memberResp, memberErr = r.studyGroups.PostStudyGroupMember(ctx, studygroup.MemberRequest{
			StudyGroupID: input.StudyGroupID,
			PatientID:    patientResp.PatientID,
		})
	}()
	go func() {
		defer wg.Done()
		for _, zones := range input.TrainingZones {
			zones.PatientID = patientResp.PatientID
			resp, err := r.patients.PostTrainingZones(ctx, zones)
			if err != nil {
				zonesErr = err
				return
			}
			zoneRespIDs = append(zoneRespIDs, resp.TrainingZonesID)
		}
	}()
	wg.Wait()

	if memberErr != nil {
		return nil, fmt.Errorf("post study group member: %w", memberErr)
	}
	if zonesErr != nil {
		return nil, fmt.Errorf("post training zones: %w", zonesErr)
	}

	registration.StudyGroupIDs = []int{memberResp.StudyGroupMemberID}
	registration.TrainingZoneIDs = zoneRespIDs
	return registration, nil
}
