package listing

import "time"

// Status values a role profile run moves through while the backend derives a
// listing from an uploaded job description.
const (
	StatusPending   = "pending"
	StatusFailed    = "failed"
	StatusCompleted = "completed"
)

type Kind string

const (
	// KindProfile marks a not-yet-finalized posting still being processed.
	KindProfile Kind = "profile"
	// KindRole marks a finalized job listing.
	KindRole Kind = "role"
)

// Listing is one item of the mixed user-listings feed: either a finalized
// role listing or a role profile run still in flight. The backend merges the
// two collections before returning them; we only classify.
type Listing struct {
	ID               string    `json:"id"`
	Title            string    `json:"title,omitempty"`
	OrganizationName string    `json:"organization_name,omitempty"`
	Description      string    `json:"description,omitempty"`
	CreatorID        string    `json:"creator_id,omitempty"`
	IsActive         bool      `json:"is_active"`
	Status           string    `json:"status,omitempty"`
	CreatedAt        time.Time `json:"created_at,omitzero"`
	UpdatedAt        time.Time `json:"updated_at,omitzero"`
}

// KindOf classifies an item as a profile iff it carries an in-flight or
// failed status; everything else is a finalized role listing. Re-derived on
// every fetch, never persisted.
func KindOf(l Listing) Kind {
	if l.Status == StatusPending || l.Status == StatusFailed {
		return KindProfile
	}

	return KindRole
}

// Badge is the display state derived purely from (kind, status, is_active).
type Badge struct {
	Text string `json:"text"`
	Tone string `json:"tone"` // info | danger | muted | success
}

func BadgeFor(l Listing) Badge {
	if KindOf(l) == KindProfile {
		if l.Status == StatusFailed {
			return Badge{Text: "Failed", Tone: "danger"}
		}

		return Badge{Text: "Processing", Tone: "info"}
	}

	if !l.IsActive {
		return Badge{Text: "Inactive", Tone: "muted"}
	}

	return Badge{Text: "Active", Tone: "success"}
}
