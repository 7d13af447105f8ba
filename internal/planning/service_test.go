package planning

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sportmed/trainingmonitor/internal/rest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_UploadTrainingPlan(t *testing.T) {
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/planning/import", r.URL.Path)
		assert.Equal(t, "Bearer trainer-token", r.Header.Get("Authorization"))

		var req UploadRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 11, req.PatientID)
		assert.Equal(t, "UEsDBBQ=", req.XlsxBase64)

		w.Write([]byte(`{"plannedWorkouts":[101,102,103]}`))
	}))
	defer testServer.Close()

	client := rest.NewClient(testServer.URL, testServer.Client())
	client.SetToken("trainer-token")
	service := NewService(client)

	resp, err := service.UploadTrainingPlan(context.Background(), UploadRequest{
		PatientID:  11,
		XlsxBase64: "UEsDBBQ=",
	})
	require.NoError(t, err)
	assert.Equal(t, []int{101, 102, 103}, resp.PlannedWorkoutIDs)
}

func TestService_UploadTrainingPlan_BadPlan(t *testing.T) {
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer testServer.Close()

	client := rest.NewClient(testServer.URL, testServer.Client())
	service := NewService(client)

	resp, err := service.UploadTrainingPlan(context.Background(), UploadRequest{PatientID: 11})
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Equal(t, rest.KindBadRequest, rest.KindOf(err))
}
