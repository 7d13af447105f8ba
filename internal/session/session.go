package session

import (
	"errors"
	"fmt"

	"github.com/sportmed/trainingmonitor/internal/account"
)

// RoleKind distinguishes the patient app from the clinician app. The auth
// response carries exactly one of the two role ids.
type RoleKind int

const (
	RolePatient RoleKind = iota
	RoleTrainer
)

func (k RoleKind) String() string {
	if k == RoleTrainer {
		return "trainer"
	}
	return "patient"
}

// Role is the role variant of a session: which app the account belongs to
// and the id scoped to that role.
type Role struct {
	Kind RoleKind
	ID   int
}

// Session is the single session value: created at login, persisted until
// logout.
type Session struct {
	Username string
	Token    string
	Role     Role
}

var (
	ErrNoRole        = errors.New("auth response carries neither patient nor trainer id")
	ErrAmbiguousRole = errors.New("auth response carries both patient and trainer id")
)

// roleFromLogin maps the auth response onto a role, enforcing that
// patient id and trainer id are mutually exclusive.
func roleFromLogin(login *account.Login) (Role, error) {
	switch {
	case login.PatientID != nil && login.TrainerID != nil:
		return Role{}, ErrAmbiguousRole
	case login.PatientID != nil:
		return Role{Kind: RolePatient, ID: *login.PatientID}, nil
	case login.TrainerID != nil:
		return Role{Kind: RoleTrainer, ID: *login.TrainerID}, nil
	default:
		return Role{}, ErrNoRole
	}
}

func (r Role) storeKey() string {
	if r.Kind == RoleTrainer {
		return KeyTrainerID
	}
	return KeyPatientID
}

func (r Role) otherStoreKey() string {
	if r.Kind == RoleTrainer {
		return KeyPatientID
	}
	return KeyTrainerID
}

func (s *Session) String() string {
	return fmt.Sprintf("%s (%s %d)", s.Username, s.Role.Kind, s.Role.ID)
}
