package user

import "time"

type Role string

const (
	// RoleUnset is the zero value: the backend stores null until the user
	// picks a mode.
	RoleUnset     Role = ""
	RoleRecruiter Role = "recruiter"
	RoleJobSeeker Role = "job_seeker"
)

func (r Role) Valid() bool {
	return r == RoleRecruiter || r == RoleJobSeeker
}

type ContactDetails struct {
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

// User is the backend-owned user record. This service only ever reads it or
// mutates it through backend API calls; it is never persisted here.
type User struct {
	ID                string         `json:"id"`
	Name              string         `json:"name,omitempty"`
	ContactDetails    ContactDetails `json:"contact_details"`
	Role              Role           `json:"role,omitempty"`
	IsOnboarded       bool           `json:"is_onboarded"`
	ProfilePictureURL string         `json:"profile_picture_url,omitempty"`
	CreatedAt         time.Time      `json:"created_at,omitzero"`
	UpdatedAt         time.Time      `json:"updated_at,omitzero"`
}

// NewUser is the creation payload sent to the backend. At least one of email
// or phone number must be present.
type NewUser struct {
	Name              string         `json:"name,omitempty"`
	ContactDetails    ContactDetails `json:"contact_details"`
	ProfilePictureURL string         `json:"profile_picture_url,omitempty"`
}

func (n NewUser) HasContact() bool {
	return n.ContactDetails.Email != "" || n.ContactDetails.PhoneNumber != ""
}
