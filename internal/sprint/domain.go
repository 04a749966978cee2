package sprint

import "time"

// Sprint is a time-boxed iteration with optional milestone dates. All
// date fields are ISO calendar strings.
type Sprint struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	StartDate        string    `json:"startDate"`
	EndDate          string    `json:"endDate"`
	CodeFreezeDate   string    `json:"codeFreezeDate,omitempty"`
	ReleaseDateBack  string    `json:"releaseDateBack,omitempty"`
	ReleaseDateFront string    `json:"releaseDateFront,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}
