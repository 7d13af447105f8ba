package workout

import (
	"errors"
	"fmt"

	"github.com/sportmed/trainingmonitor/internal/rest"
)

// Activity type codes shared with the device health store.
const (
	ActivityCycling = 13
	ActivityRunning = 37
)

// Overview is the GET /workout/overviews response: everything one
// patient's calendar and summary screens need for a date range.
type Overview struct {
	Name            string           `json:"name"`
	StudyGroup      *string          `json:"studyGroup"`
	TreatmentGoal   string           `json:"treatmentGoal"`
	Workouts        []OverviewItem   `json:"workouts"`
	Steps           []Step           `json:"steps"`
	RunningOverview ActivityOverview `json:"runningOverview"`
	CyclingOverview ActivityOverview `json:"cyclingOverview"`
	PlannedWorkouts []PlannedWorkout `json:"plannedWorkouts"`
}

// OverviewItem is one workout row in the overview; rating, intensity and
// comment are the user feedback and the only mutable parts.
type OverviewItem struct {
	WorkoutID            int       `json:"workoutId"`
	AppleUUID            string    `json:"appleUUID"`
	Duration             float64   `json:"duration"`
	StartTime            rest.Time `json:"startTime"`
	Type                 int       `json:"type"`
	MainHeartRateSegment *int      `json:"mainHeartRateSegment"`
	Rating               int       `json:"rating"`
	Comment              string    `json:"comment"`
	Intensity            float64   `json:"intensity"`
	Distance             float64   `json:"distance"`
	Calories             float64   `json:"calories"`
}

// ActivityOverview aggregates one activity type across the range.
type ActivityOverview struct {
	Distance               float64        `json:"distance"`
	Duration               float64        `json:"duration"`
	HeartRateTrainingZones HeartRateZones `json:"heartRateTrainingZones"`
	TrainingsDone          int            `json:"trainingsDone"`
	TrainingsDue           int            `json:"trainingsDue"`
}

type HeartRateZones struct {
	Total          int `json:"total"`
	Zone0HeartRate int `json:"zone0HeartRate"`
	Zone1HeartRate int `json:"zone1HeartRate"`
	Zone2HeartRate int `json:"zone2HeartRate"`
	Zone3HeartRate int `json:"zone3HeartRate"`
	Zone4HeartRate int `json:"zone4HeartRate"`
}

// ZoneValues lists the per-zone shares from lowest to highest effort band.
func (z HeartRateZones) ZoneValues() []int {
	return []int{
		z.Zone0HeartRate,
		z.Zone1HeartRate,
		z.Zone2HeartRate,
		z.Zone3HeartRate,
		z.Zone4HeartRate,
	}
}

// PlannedWorkout is a training-plan entry; the overview screens diff these
// against completed workouts to show missed-workout placeholders.
type PlannedWorkout struct {
	ID           int       `json:"id"`
	PatientID    int       `json:"patientId"`
	Type         int       `json:"type"`
	MaxHeartRate *int      `json:"maxHeartRate"`
	MinDistance  *int      `json:"minDistance"`
	MinDuration  *int      `json:"minDuration"`
	PlannedDate  rest.Time `json:"plannedDate"`
}

// Detail is the GET /workout response: one workout's full time series for
// charting, downsampled server-side per the requested sample rate.
type Detail struct {
	ID               int              `json:"id"`
	Comment          *string          `json:"comment"`
	Distance         *float64         `json:"distance"`
	Duration         float64          `json:"duration"`
	StartTime        rest.Time        `json:"startTime"`
	EndTime          rest.Time        `json:"endTime"`
	HeartRateAverage *float64         `json:"heartRateAvg"`
	HeartRateMaximum *float64         `json:"heartRateMax"`
	HeartRateMinimum *float64         `json:"heartRateMin"`
	Intensity        int              `json:"intensity"`
	Kcal             int              `json:"kcal"`
	KilometerPace    []PaceSample     `json:"kilometerPace"`
	PaceMaximum      *float64         `json:"paceMax"`
	PaceMinimum      *float64         `json:"paceMin"`
	Rating           int              `json:"rating"`
	SpeedAverage     *float64         `json:"speedAvg"`
	SpeedMaximum     *float64         `json:"speedMax"`
	SpeedMinimum     *float64         `json:"speedMin"`
	TerrainDown      *float64         `json:"terrainDown"`
	TerrainUp        *float64         `json:"terrainUp"`
	TrainingZones    Zones            `json:"trainingZones"`
	Type             int              `json:"type"`
	CombinedProfiles []CombinedSample `json:"combinedProfiles"`
}

// PaceSample is one per-kilometre split.
type PaceSample struct {
	Kilometre    int      `json:"kilometre"`
	Minutes      int      `json:"minutes"`
	Seconds      float64  `json:"seconds"`
	AvgHeartRate *float64 `json:"avgHeartRate"`
	AvgSpeed     *float64 `json:"avgSpeed"`
	MaxHeartRate *float64 `json:"maxHeartRate"`
	MaxSpeed     *float64 `json:"maxSpeed"`
}

// CombinedSample is one dense chart sample; SecondsSinceStart increases
// monotonically across the series.
type CombinedSample struct {
	Altitude          *float64 `json:"altitude"`
	Distance          *float64 `json:"distance"`
	HeartRate         *float64 `json:"heartRate"`
	SecondsSinceStart float64  `json:"secondsSinceStart"`
	Speed             *float64 `json:"speed"`
}

type Zones struct {
	HeartRate *Zone `json:"heartRate"`
	Speed     *Zone `json:"speed"`
}

type Zone struct {
	Total int `json:"total"`
	Zone0 int `json:"zone0"`
	Zone1 int `json:"zone1"`
	Zone2 int `json:"zone2"`
	Zone3 int `json:"zone3"`
	Zone4 int `json:"zone4"`
}

// PostRequest is a device workout as uploaded from the patient app. Dates
// are pre-rendered outbound strings; unit values keep the device's
// quantity/unit split.
type PostRequest struct {
	AppleUUID                     string          `json:"appleUUID"`
	ActivityType                  int             `json:"activityType"`
	StartDate                     string          `json:"startDate"`
	EndDate                       string          `json:"endDate"`
	Duration                      UnitValue       `json:"duration"`
	TotalDistance                 UnitValue       `json:"totalDistance"`
	TotalCalories                 UnitValue       `json:"totalCalories"`
	SourceRevision                string          `json:"sourceRevision"`
	WorkoutEvents                 []Event         `json:"workoutEvents"`
	HeartRateSamples              []QuantitySample `json:"heartRateSamples"`
	Locations                     []RouteSample   `json:"locations"`
	DistanceWalkingRunningSamples []QuantitySample `json:"distanceWalkingRunningSamples"`
}

type UnitValue struct {
	DoubleValue float64 `json:"doubleValue"`
	Unit        string  `json:"unit"`
}

type Event struct {
	Start    string  `json:"start"`
	End      string  `json:"end"`
	Duration float64 `json:"duration"`
	Type     string  `json:"type"`
}

type QuantitySample struct {
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
	Quantity  UnitValue `json:"quantity"`
	Count     int       `json:"count"`
	Device    string    `json:"device"`
}

// RouteSample is accepted by the server but carries no fields yet.
type RouteSample struct{}

type PostResponse struct {
	WorkoutID int `json:"workout"`
}

// RatingRequest is the user feedback posted for one workout.
type RatingRequest struct {
	WorkoutID int    `json:"workoutId"`
	Rating    int    `json:"rating"`
	Intensity int    `json:"intensity"`
	Comment   string `json:"comment"`
}

var ErrInvalidRating = errors.New("rating must be between 0 and 3")

// NewRatingRequest rejects ratings outside the 0-3 bucket range.
func NewRatingRequest(workoutID, rating, intensity int, comment string) (RatingRequest, error) {
	if rating < 0 || rating > 3 {
		return RatingRequest{}, fmt.Errorf("%w: got %d", ErrInvalidRating, rating)
	}
	return RatingRequest{
		WorkoutID: workoutID,
		Rating:    rating,
		Intensity: intensity,
		Comment:   comment,
	}, nil
}

type RatingResponse struct {
	RatingID int `json:"rating"`
}

// StepUpload posts one day's step count; Date uses the day wire format.
type StepUpload struct {
	Date   string `json:"date"`
	Amount uint   `json:"amount"`
}

type StepUploadResponse struct {
	StepID int `json:"steps"`
}

// Step is one stored per-day step record.
type Step struct {
	ID        int       `json:"id"`
	PatientID int       `json:"patientId"`
	Date      rest.Time `json:"date"`
	Amount    int       `json:"amount"`
}
