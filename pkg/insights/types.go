package insights

import "time"

// TotalUsersPayload is the total-user count response.
type TotalUsersPayload struct {
	Value     int       `json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CountPayload is the shape shared by the count endpoints.
type CountPayload struct {
	Total int `json:"total"`
}

// ApplicantSummaryPayload is one applicant-summary row. TotalApplications
// is optional on the wire; absent fields decode to zero.
type ApplicantSummaryPayload struct {
	UserID            string `json:"userId"`
	FullName          string `json:"fullName"`
	TotalApplications int    `json:"totalApplications,omitempty"`
}

// TrendPointPayload is one bucket of a time-series endpoint.
type TrendPointPayload struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// BreakdownRowPayload is one label/count entry of a rollup endpoint.
type BreakdownRowPayload struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// UserApplicationPayload is one row of the cohort list endpoint.
type UserApplicationPayload struct {
	UserID        string `json:"userId"`
	FullName      string `json:"fullName"`
	TargetCountry string `json:"targetCountry,omitempty"`
	TargetJobRole string `json:"targetJobRole,omitempty"`
	Status        string `json:"status,omitempty"`
}

// ReferenceEntry is one entry of a reference list (countries, job roles).
type ReferenceEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PreferencesPayload is the stored dashboard preference document.
type PreferencesPayload struct {
	SelectedCards []string `json:"selectedCards"`
}

// AckPayload is the gateway's write acknowledgement.
type AckPayload struct {
	Success bool `json:"success"`
}
