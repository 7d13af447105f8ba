package patient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sportmed/trainingmonitor/internal/rest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, handler http.HandlerFunc) (*Service, *httptest.Server) {
	t.Helper()
	testServer := httptest.NewServer(handler)
	t.Cleanup(testServer.Close)
	client := rest.NewClient(testServer.URL, testServer.Client())
	client.SetToken("test-token")
	return NewService(client), testServer
}

func TestService_GetSummaries(t *testing.T) {
	service, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/patient/overviews", r.URL.Path)
		assert.Empty(t, r.URL.RawQuery)
		w.Write([]byte(`[
			{"id":1,"accountId":10,"firstName":"Jannis","lastName":"Becker","active":true,
			 "birthday":"Tue, 02 January 1990 00:00:00 UTC",
			 "treatmentStarted":"Mon, 04 March 2024 08:00:00 UTC",
			 "treatmentGoal":"marathon"}
		]`))
	})

	summaries, err := service.GetSummaries(context.Background(), nil, nil)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "Jannis", summaries[0].FirstName)
	assert.Equal(t, "marathon", summaries[0].TreatmentGoal)
}

func TestService_GetSummaries_DateRange(t *testing.T) {
	service, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "fromDate=2024-03-01&toDate=2024-03-31", r.URL.RawQuery)
		w.Write([]byte(`[]`))
	})

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	_, err := service.GetSummaries(context.Background(), &start, &end)
	require.NoError(t, err)
}

func TestService_GetSummaries_HalfOpenRangeIgnored(t *testing.T) {
	service, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		w.Write([]byte(`[]`))
	})

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	_, err := service.GetSummaries(context.Background(), &start, nil)
	require.NoError(t, err)
}

func TestService_GetPatient(t *testing.T) {
	service, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/patient", r.URL.Path)
		assert.Equal(t, "id=11", r.URL.RawQuery)
		w.Write([]byte(`{"id":11,"accountId":5,
			"treatmentStarted":"Mon, 04 March 2024 08:00:00 UTC",
			"treatmentFinished":"Wed, 04 September 2024 08:00:00 UTC",
			"treatmentGoal":"10k run"}`))
	})

	details, err := service.GetPatient(context.Background(), 11)
	require.NoError(t, err)
	assert.Equal(t, 11, details.ID)
	assert.Equal(t, 5, details.AccountID)
	assert.Equal(t, "10k run", details.TreatmentGoal)
}

func TestService_GetPatient_NotFound(t *testing.T) {
	service, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	details, err := service.GetPatient(context.Background(), 999)
	require.Error(t, err)
	assert.Nil(t, details)
	assert.Equal(t, rest.KindNotFound, rest.KindOf(err))
}

func TestService_GetTrainingZones(t *testing.T) {
	service, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/patient/trainingZones", r.URL.Path)
		assert.Equal(t, "patientId=11", r.URL.RawQuery)
		w.Write([]byte(`{"trainingZones":[
			{"id":1,"workoutType":37,"unit":"bpm",
			 "upper0Bound":80,"upper1Bound":110,"upper2Bound":140,"upper3Bound":170}
		]}`))
	})

	zones, err := service.GetTrainingZones(context.Background(), 11)
	require.NoError(t, err)
	require.Len(t, zones.TrainingZones, 1)
	assert.Equal(t, 37, zones.TrainingZones[0].WorkoutType)
	assert.Equal(t, 170, zones.TrainingZones[0].Upper3Bound)
}

func TestService_GetExport(t *testing.T) {
	service, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/patient/export", r.URL.Path)
		assert.Equal(t, "patientIds=1&patientIds=2&fromDate=2024-03-01&toDate=2024-03-31", r.URL.RawQuery)
		w.Write([]byte(`[{"patientId":1,"overview":"YmFzZTY0"},{"patientId":2,"overview":"YmFzZTY0"}]`))
	})

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	exports, err := service.GetExport(context.Background(), &from, &to, []int{1, 2})
	require.NoError(t, err)
	require.Len(t, exports, 2)
	assert.Equal(t, 1, exports[0].PatientID)
	assert.Equal(t, "YmFzZTY0", exports[0].Overview)
}

func TestService_PostPatient(t *testing.T) {
	service, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/patient", r.URL.Path)
		w.Write([]byte(`{"patient":33}`))
	})

	resp, err := service.PostPatient(context.Background(), PostRequest{
		AccountID:        5,
		TreatmentStarted: "2024-03-04",
		TreatmentGoal:    "marathon",
	})
	require.NoError(t, err)
	assert.Equal(t, 33, resp.PatientID)
}

func TestService_PostTrainingZones(t *testing.T) {
	service, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/patient/trainingZones", r.URL.Path)
		w.Write([]byte(`{"patientTrainingZones":44}`))
	})

	upload, err := NewTrainingZonesUpload(11, 37, "bpm", []int{80, 110, 140, 170})
	require.NoError(t, err)

	resp, err := service.PostTrainingZones(context.Background(), upload)
	require.NoError(t, err)
	assert.Equal(t, 44, resp.TrainingZonesID)
}

func TestService_DeleteTrainingZones(t *testing.T) {
	service, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/patient/trainingZones", r.URL.Path)
		assert.Equal(t, "id=44", r.URL.RawQuery)
		w.Write([]byte(`{"trainingZone":44}`))
	})

	resp, err := service.DeleteTrainingZones(context.Background(), 44)
	require.NoError(t, err)
	assert.Equal(t, 44, resp.TrainingZoneID)
}

func TestService_DeletePatient(t *testing.T) {
	service, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/patient", r.URL.Path)
		assert.Equal(t, "id=33", r.URL.RawQuery)
		w.Write([]byte(`{"patient":33}`))
	})

	resp, err := service.DeletePatient(context.Background(), 33)
	require.NoError(t, err)
	assert.Equal(t, 33, resp.PatientID)
}
