package event

import "time"

// Category groups calendar events for display filtering.
type Category string

const (
	CategoryMeeting  Category = "MEETING"
	CategoryWorkshop Category = "WORKSHOP"
	CategoryTeam     Category = "TEAM"
	CategoryOther    Category = "OTHER"
)

// Event is an entry on the planning calendar. Dates are ISO calendar
// strings; multi-day events span [StartDate, EndDate] inclusive.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	StartDate   string    `json:"startDate"`
	EndDate     string    `json:"endDate"`
	Category    Category  `json:"category"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
