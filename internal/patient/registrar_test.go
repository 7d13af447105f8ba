package patient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/sportmed/trainingmonitor/internal/account"
	"github.com/sportmed/trainingmonitor/internal/rest"
	"github.com/sportmed/trainingmonitor/internal/studygroup"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registrarBackend struct {
	mu       sync.Mutex
	calls    []string
	failPath string
}

func (b *registrarBackend) record(path string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, path)
}

func (b *registrarBackend) recorded(path string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range b.calls {
		if c == path {
			return true
		}
	}
	return false
}

func (b *registrarBackend) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.record(r.URL.Path)
		if r.URL.Path == b.failPath {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		switch r.URL.Path {
		case "/account":
			w.Write([]byte(`{"account":5}`))
		case "/patient":
			// the account id created one call earlier must be threaded in
			var req PostRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, 5, req.AccountID)
			w.Write([]byte(`{"patient":11}`))
		case "/studyGroup/member":
			var req studygroup.MemberRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, 3, req.StudyGroupID)
			assert.Equal(t, 11, req.PatientID)
			w.Write([]byte(`{"studyGroupMember":21}`))
		case "/patient/trainingZones":
			var req TrainingZonesUpload
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, 11, req.PatientID)
			w.Write([]byte(`{"patientTrainingZones":31}`))
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func newTestRegistrar(t *testing.T, backend *registrarBackend) *Registrar {
	t.Helper()
	testServer := httptest.NewServer(backend.handler(t))
	t.Cleanup(testServer.Close)
	client := rest.NewClient(testServer.URL, testServer.Client())
	client.SetToken("test-token")
	return NewRegistrar(account.NewService(client), NewService(client), studygroup.NewService(client))
}

func newPatientInput(t *testing.T) NewPatient {
	t.Helper()
	zones, err := NewTrainingZonesUpload(0, 37, "bpm", []int{80, 110, 140, 170})
	require.NoError(t, err)
	return NewPatient{
		Account: account.PostRequest{
			Username:  "jannis",
			Password:  "pw",
			FirstName: "Jannis",
			LastName:  "Becker",
			Birthday:  "1990-01-02",
		},
		Treatment: PostRequest{
			TreatmentStarted: "2024-03-04",
			TreatmentGoal:    "marathon",
		},
		StudyGroupID:  3,
		TrainingZones: []TrainingZonesUpload{zones},
	}
}

func TestRegistrar_CreatePatient(t *testing.T) {
	backend := &registrarBackend{}
	registrar := newTestRegistrar(t, backend)

	registration, err := registrar.CreatePatient(context.Background(), newPatientInput(t))
	require.NoError(t, err)
	assert.Equal(t, 5, registration.AccountID)
	assert.Equal(t, 11, registration.PatientID)
	assert.Equal(t, []int{21}, registration.StudyGroupIDs)
	assert.Equal(t, []int{31}, registration.TrainingZoneIDs)

	assert.True(t, backend.recorded("/account"))
	assert.True(t, backend.recorded("/patient"))
	assert.True(t, backend.recorded("/studyGroup/member"))
	assert.True(t, backend.recorded("/patient/trainingZones"))
}

func TestRegistrar_CreatePatient_AccountFails(t *testing.T) {
	backend := &registrarBackend{failPath: "/account"}
	registrar := newTestRegistrar(t, backend)

	registration, err := registrar.CreatePatient(context.Background(), newPatientInput(t))
	require.Error(t, err)
	assert.Nil(t, registration)

	// nothing downstream may have been issued
	assert.False(t, backend.recorded("/patient"))
	assert.False(t, backend.recorded("/studyGroup/member"))
	assert.False(t, backend.recorded("/patient/trainingZones"))
}

func TestRegistrar_CreatePatient_PatientFails(t *testing.T) {
	backend := &registrarBackend{failPath: "/patient"}
	registrar := newTestRegistrar(t, backend)

	registration, err := registrar.CreatePatient(context.Background(), newPatientInput(t))
	require.Error(t, err)
	assert.Nil(t, registration)

	assert.True(t, backend.recorded("/account"))
	assert.False(t, backend.recorded("/studyGroup/member"))
	assert.False(t, backend.recorded("/patient/trainingZones"))
}

func TestRegistrar_CreatePatient_ZonesFail(t *testing.T) {
	backend := &registrarBackend{failPath: "/patient/trainingZones"}
	registrar := newTestRegistrar(t, backend)

	registration, err := registrar.CreatePatient(context.Background(), newPatientInput(t))
	require.Error(t, err)
	assert.Nil(t, registration)
	assert.Contains(t, err.Error(), "post training zones")
}
