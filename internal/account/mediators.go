package account

// Login is the response of POST /account/auth. Exactly one of PatientID
// and TrainerID is set and distinguishes the two app roles.
type Login struct {
	Token     string `json:"token"`
	PatientID *int   `json:"patientId"`
	TrainerID *int   `json:"trainerId"`
}

type PostRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Birthday  string `json:"birthday"` // yyyy-MM-dd
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type PostResponse struct {
	AccountID int `json:"account"`
}

// PatchRequest updates an account; nil fields are left untouched.
type PatchRequest struct {
	ID        int     `json:"id"`
	Username  *string `json:"username,omitempty"`
	Email     *string `json:"email,omitempty"`
	Password  *string `json:"password,omitempty"`
	Birthday  *string `json:"birthday,omitempty"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Active    *bool   `json:"active,omitempty"`
}
