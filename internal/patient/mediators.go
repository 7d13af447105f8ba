package patient

import (
	"errors"
	"fmt"

	"github.com/sportmed/trainingmonitor/internal/rest"
)

// Summary is one element of the GET /patient/overviews response: identity,
// demographics, treatment window and the aggregate stats the clinician app
// lists patients by.
type Summary struct {
	ID                      int                    `json:"id"`
	AccountID               int                    `json:"accountId"`
	Active                  bool                   `json:"active"`
	Username                string                 `json:"username"`
	Email                   *string                `json:"email"`
	FirstName               string                 `json:"firstName"`
	LastName                string                 `json:"lastName"`
	Birthday                rest.Time              `json:"birthday"`
	Gender                  *string                `json:"gender"`
	Height                  *int                   `json:"height"`
	Weight                  *float64               `json:"weight"`
	Comment                 *string                `json:"comment"`
	TreatmentStarted        rest.Time              `json:"treatmentStarted"`
	TreatmentFinished       *rest.Time             `json:"treatmentFinished"`
	TreatmentGoal           string                 `json:"treatmentGoal"`
	LastTraining            *rest.Time             `json:"lastTraining"`
	TotalHours              float64                `json:"totalHours"`
	Ratings                 RatingAmounts          `json:"ratings"`
	StudyGroups             []string               `json:"studyGroups"`
	TrainingProgress        Progress               `json:"trainingProgress"`
	WeekProgress            Progress               `json:"weekProgress"`
	HeartRateProfileRunning ZoneProfile            `json:"heartRateProfileRunning"`
	HeartRateProfileCycling ZoneProfile            `json:"heartRateProfileCycling"`
	TrainingZoneIntervals   []TrainingZoneInterval `json:"trainingZoneIntervals"`
}

// Key identifies a summary; two summaries with the same key describe the
// same patient.
func (s Summary) Key() string {
	return fmt.Sprintf("%d/%d", s.AccountID, s.ID)
}

// Validate checks the structural invariants the server promises: week
// progress never exceeds its total and zone interval bounds are
// non-decreasing.
func (s Summary) Validate() error {
	if s.WeekProgress.Completed > s.WeekProgress.Total {
		return fmt.Errorf(
			"week progress %d/%d: completed exceeds total",
			s.WeekProgress.Completed, s.WeekProgress.Total,
		)
	}
	for _, interval := range s.TrainingZoneIntervals {
		if err := validateBounds(interval.Upper0Bound, interval.Upper1Bound, interval.Upper2Bound, interval.Upper3Bound); err != nil {
			return fmt.Errorf("training zone interval %d: %w", interval.ID, err)
		}
	}
	return nil
}

// ZoneProfile holds five effort-band thresholds for one activity type.
type ZoneProfile struct {
	Zone0 float64 `json:"zone0"`
	Zone1 float64 `json:"zone1"`
	Zone2 float64 `json:"zone2"`
	Zone3 float64 `json:"zone3"`
	Zone4 float64 `json:"zone4"`
}

// RatingAmounts counts workout feedback per rating bucket.
type RatingAmounts struct {
	Bad     int `json:"bad"`
	Medium  int `json:"medium"`
	Good    int `json:"good"`
	Unrated int `json:"unrated"`
}

// Less orders rating amounts from most to least concerning: higher bad
// percentage first, then higher medium, then higher good. Patients without
// any rated workout sort last.
func (r RatingAmounts) Less(other RatingAmounts) bool {
	lhsTotal := r.Bad + r.Medium + r.Good
	rhsTotal := other.Bad + other.Medium + other.Good
	if lhsTotal == 0 || rhsTotal == 0 {
		return lhsTotal > 0
	}

	lhsBad := float64(r.Bad) / float64(lhsTotal)
	rhsBad := float64(other.Bad) / float64(rhsTotal)
	if lhsBad != rhsBad {
		return lhsBad > rhsBad
	}

	lhsMedium := float64(r.Medium) / float64(lhsTotal)
	rhsMedium := float64(other.Medium) / float64(rhsTotal)
	if lhsMedium != rhsMedium {
		return lhsMedium > rhsMedium
	}

	return float64(r.Good)/float64(lhsTotal) > float64(other.Good)/float64(rhsTotal)
}

// Progress is a completed-of-total pair (week progress, training progress).
type Progress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// Fraction returns completion as a float in [0, 1]; zero total counts as
// no progress.
func (p Progress) Fraction() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Completed) / float64(p.Total)
}

// Less orders by true fractional completion. Zero-total entries sort first.
func (p Progress) Less(other Progress) bool {
	if other.Total == 0 {
		return false
	}
	if p.Total == 0 {
		return true
	}
	return p.Fraction() < other.Fraction()
}

// TrainingZoneInterval is one per-activity-type set of ascending interval
// thresholds attached to a patient.
type TrainingZoneInterval struct {
	ID          int    `json:"id"`
	WorkoutType int    `json:"workoutType"`
	Unit        string `json:"unit"`
	Upper0Bound int    `json:"upper0Bound"`
	Upper1Bound int    `json:"upper1Bound"`
	Upper2Bound int    `json:"upper2Bound"`
	Upper3Bound int    `json:"upper3Bound"`
}

// Details is the GET /patient response for a single patient.
type Details struct {
	ID                int       `json:"id"`
	AccountID         int       `json:"accountId"`
	TreatmentStarted  rest.Time `json:"treatmentStarted"`
	TreatmentFinished rest.Time `json:"treatmentFinished"`
	TreatmentGoal     string    `json:"treatmentGoal"`
	Height            *int      `json:"height"`
	Weight            *float64  `json:"weight"`
	Gender            *string   `json:"gender"`
	Comment           *string   `json:"comment"`
}

// Gender is the closed set of patient gender values collected by the form
// layer; anything else is omitted from requests.
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderDiverse Gender = "diverse"
)

// wireGender maps a form gender onto the single-letter wire value, or nil
// when the value is absent or not one of the closed set.
func wireGender(gender *Gender) *string {
	if gender == nil {
		return nil
	}
	var wire string
	switch *gender {
	case GenderMale:
		wire = "m"
	case GenderFemale:
		wire = "f"
	case GenderDiverse:
		wire = "d"
	default:
		return nil
	}
	return &wire
}

type PostRequest struct {
	AccountID         int      `json:"accountId"`
	TreatmentStarted  string   `json:"treatmentStarted"` // yyyy-MM-dd
	TreatmentFinished string   `json:"treatmentFinished"`
	TreatmentGoal     string   `json:"treatmentGoal"`
	Height            *int     `json:"height"`
	Weight            *float64 `json:"weight"`
	Gender            *string  `json:"gender"`
	Comment           *string  `json:"comment"`
}

// NewPostRequest builds a patient creation payload, normalizing the gender
// onto its wire value.
func NewPostRequest(
	accountID int,
	treatmentStarted, treatmentFinished, treatmentGoal string,
	height *int,
	weight *float64,
	gender *Gender,
	comment *string,
) PostRequest {
	return PostRequest{
		AccountID:         accountID,
		TreatmentStarted:  treatmentStarted,
		TreatmentFinished: treatmentFinished,
		TreatmentGoal:     treatmentGoal,
		Height:            height,
		Weight:            weight,
		Gender:            wireGender(gender),
		Comment:           comment,
	}
}

// PostResponse carries the created patient id, remapped from the server's
// "patient" wire name.
type PostResponse struct {
	PatientID int `json:"patient"`
}

type PatchRequest struct {
	ID                int      `json:"id"`
	AccountID         *int     `json:"accountId,omitempty"`
	TreatmentStarted  *string  `json:"treatmentStarted,omitempty"`
	TreatmentFinished *string  `json:"treatmentFinished,omitempty"`
	TreatmentGoal     *string  `json:"treatmentGoal,omitempty"`
	Height            *int     `json:"height,omitempty"`
	Weight            *float64 `json:"weight,omitempty"`
	Gender            *string  `json:"gender,omitempty"`
	Comment           *string  `json:"comment,omitempty"`
}

// TrainingZonesUpload is the POST /patient/trainingZones payload: exactly
// four non-decreasing upper bounds for one activity type.
type TrainingZonesUpload struct {
	PatientID   int    `json:"patientId"`
	WorkoutType int    `json:"workoutType"`
	Unit        string `json:"unit"`
	Upper0Bound int    `json:"upper0Bound"`
	Upper1Bound int    `json:"upper1Bound"`
	Upper2Bound int    `json:"upper2Bound"`
	Upper3Bound int    `json:"upper3Bound"`
}

var ErrInvalidZoneBounds = errors.New("training zone bounds must be exactly 4 non-decreasing values")

// NewTrainingZonesUpload rejects payloads violating the interval
// invariant: exactly 4 bounds, each no smaller than the previous.
func NewTrainingZonesUpload(patientID, workoutType int, unit string, bounds []int) (TrainingZonesUpload, error) {
	if len(bounds) != 4 {
		return TrainingZonesUpload{}, fmt.Errorf("%w: got %d values", ErrInvalidZoneBounds, len(bounds))
	}
	if err := validateBounds(bounds[0], bounds[1], bounds[2], bounds[3]); err != nil {
		return TrainingZonesUpload{}, err
	}
	return TrainingZonesUpload{
		PatientID:   patientID,
		WorkoutType: workoutType,
		Unit:        unit,
		Upper0Bound: bounds[0],
		Upper1Bound: bounds[1],
		Upper2Bound: bounds[2],
		Upper3Bound: bounds[3],
	}, nil
}

func validateBounds(b0, b1, b2, b3 int) error {
	if b0 > b1 || b1 > b2 || b2 > b3 {
		return fmt.Errorf("%w: [%d %d %d %d]", ErrInvalidZoneBounds, b0, b1, b2, b3)
	}
	return nil
}

// TrainingZonesUploadResponse remaps the server's "patientTrainingZones"
// wire name onto the created id.
type TrainingZonesUploadResponse struct {
	TrainingZonesID int `json:"patientTrainingZones"`
}

type DeleteTrainingZonesResponse struct {
	TrainingZoneID int `json:"trainingZone"`
}

// TrainingZones is the GET /patient/trainingZones response.
type TrainingZones struct {
	TrainingZones []TrainingZone `json:"trainingZones"`
}

type TrainingZone struct {
	WorkoutType int    `json:"workoutType"`
	Unit        string `json:"unit"`
	Upper0Bound int    `json:"upper0Bound"`
	Upper1Bound int    `json:"upper1Bound"`
	Upper2Bound int    `json:"upper2Bound"`
	Upper3Bound int    `json:"upper3Bound"`
}

// Export is one patient's spreadsheet blob from GET /patient/export,
// base64-encoded by the server.
type Export struct {
	PatientID int    `json:"patientId"`
	Overview  string `json:"overview"`
}
