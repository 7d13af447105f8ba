package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/sportmed/trainingmonitor/internal/rest"
	"github.com/sportmed/trainingmonitor/internal/workout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDataSource is a canned health store for tests.
type fakeDataSource struct {
	workouts []DeviceWorkout
	steps    []StepRecord
	stepsErr error
}

func (s *fakeDataSource) Workouts(_ context.Context, _, _ time.Time) ([]DeviceWorkout, error) {
	return s.workouts, nil
}

func (s *fakeDataSource) Steps(_ context.Context, _, _ time.Time) ([]StepRecord, error) {
	return s.steps, s.stepsErr
}

type uploadBackend struct {
	mu              sync.Mutex
	knownUUIDs      []string
	postedWorkouts  []workout.PostRequest
	postedSteps     []workout.StepUpload
	failPostWorkout bool
}

func (b *uploadBackend) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/workout/overviews":
			items := make([]map[string]any, 0, len(b.knownUUIDs))
			for i, uuid := range b.knownUUIDs {
				items = append(items, map[string]any{
					"workoutId": i + 1,
					"appleUUID": uuid,
					"startTime": "Mon, 04 March 2024 08:00:00 UTC",
				})
			}
			require.NoError(t, json.NewEncoder(w).Encode(map[string]any{
				"name":     "Jannis Becker",
				"workouts": items,
			}))
		case r.Method == http.MethodPost && r.URL.Path == "/workout":
			if b.failPostWorkout {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			var envelope struct {
				HealthJSONData workout.PostRequest `json:"healthJsonData"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&envelope))
			b.postedWorkouts = append(b.postedWorkouts, envelope.HealthJSONData)
			w.Write([]byte(`{"workout":99}`))
		case r.Method == http.MethodPost && r.URL.Path == "/workout/steps":
			var upload workout.StepUpload
			require.NoError(t, json.NewDecoder(r.Body).Decode(&upload))
			b.postedSteps = append(b.postedSteps, upload)
			w.Write([]byte(`{"steps":5}`))
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func newTestUploader(t *testing.T, source DataSource, backend *uploadBackend) *Uploader {
	t.Helper()
	testServer := httptest.NewServer(backend.handler(t))
	t.Cleanup(testServer.Close)
	client := rest.NewClient(testServer.URL, testServer.Client())
	client.SetToken("test-token")
	return NewUploader(source, workout.NewService(client))
}

func deviceWorkout(uuid string, start time.Time) DeviceWorkout {
	return DeviceWorkout{
		UUID:           uuid,
		ActivityType:   workout.ActivityRunning,
		Start:          start,
		End:            start.Add(time.Hour),
		DurationSec:    3600,
		DistanceMeters: 10250.5,
		Calories:       640,
		SourceRevision: "Watch 9.1",
		HeartRate: []HeartRateSample{
			{Start: start, End: start.Add(10 * time.Second), BPM: 120, Count: 1},
		},
	}
}

func TestUploader_Sync(t *testing.T) {
	start := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	source := &fakeDataSource{
		workouts: []DeviceWorkout{
			deviceWorkout("UUID-KNOWN", start),
			deviceWorkout("UUID-NEW", start.AddDate(0, 0, 1)),
		},
		steps: []StepRecord{
			{Date: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), Count: 8000},
			{Date: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), Count: 9500},
		},
	}
	backend := &uploadBackend{knownUUIDs: []string{"UUID-KNOWN"}}
	uploader := newTestUploader(t, source, backend)

	result, err := uploader.Sync(context.Background(), start, start.AddDate(0, 0, 7))
	require.NoError(t, err)
	assert.Equal(t, 1, result.WorkoutsUploaded)
	assert.Equal(t, 2, result.StepDaysUploaded)

	// only the unknown workout was posted
	require.Len(t, backend.postedWorkouts, 1)
	posted := backend.postedWorkouts[0]
	assert.Equal(t, "UUID-NEW", posted.AppleUUID)
	assert.Equal(t, workout.ActivityRunning, posted.ActivityType)
	assert.Equal(t, "2024-03-05 08:00:00.0000", posted.StartDate)
	assert.Equal(t, "s", posted.Duration.Unit)
	assert.InDelta(t, 3600, posted.Duration.DoubleValue, 1e-9)
	assert.Equal(t, "m", posted.TotalDistance.Unit)
	assert.Equal(t, "kcal", posted.TotalCalories.Unit)
	require.Len(t, posted.HeartRateSamples, 1)
	assert.Equal(t, "count/min", posted.HeartRateSamples[0].Quantity.Unit)
	assert.InDelta(t, 120, posted.HeartRateSamples[0].Quantity.DoubleValue, 1e-9)

	require.Len(t, backend.postedSteps, 2)
	assert.Equal(t, "2024-03-04", backend.postedSteps[0].Date)
	assert.Equal(t, uint(8000), backend.postedSteps[0].Amount)
	assert.Equal(t, "2024-03-05", backend.postedSteps[1].Date)
}

func TestUploader_Sync_NothingNew(t *testing.T) {
	start := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	source := &fakeDataSource{
		workouts: []DeviceWorkout{deviceWorkout("UUID-KNOWN", start)},
	}
	backend := &uploadBackend{knownUUIDs: []string{"UUID-KNOWN"}}
	uploader := newTestUploader(t, source, backend)

	result, err := uploader.Sync(context.Background(), start, start.AddDate(0, 0, 7))
	require.NoError(t, err)
	assert.Zero(t, result.WorkoutsUploaded)
	assert.Zero(t, result.StepDaysUploaded)
	assert.Empty(t, backend.postedWorkouts)
}

func TestUploader_Sync_UploadFailureAborts(t *testing.T) {
	start := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	source := &fakeDataSource{
		workouts: []DeviceWorkout{deviceWorkout("UUID-NEW", start)},
		steps:    []StepRecord{{Date: start, Count: 8000}},
	}
	backend := &uploadBackend{failPostWorkout: true}
	uploader := newTestUploader(t, source, backend)

	result, err := uploader.Sync(context.Background(), start, start.AddDate(0, 0, 7))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "post workout UUID-NEW")
	require.NotNil(t, result)
	assert.Zero(t, result.WorkoutsUploaded)

	// steps are never reached after a workout upload failure
	assert.Empty(t, backend.postedSteps)
}

func TestUploader_Sync_StepsQueryFailure(t *testing.T) {
	start := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	source := &fakeDataSource{
		stepsErr: errors.New("health store unavailable"),
	}
	backend := &uploadBackend{}
	uploader := newTestUploader(t, source, backend)

	result, err := uploader.Sync(context.Background(), start, start.AddDate(0, 0, 7))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query device steps")
	require.NotNil(t, result)
}
