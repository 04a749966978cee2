package absence

import "time"

// Type classifies an absence for the timeline legend.
type Type string

const (
	TypeAbsence     Type = "ABSENCE"
	TypeFormation   Type = "FORMATION"
	TypeTeletravail Type = "TELETRAVAIL"
)

// Period marks which half of a boundary day an absence touches.
type Period string

const (
	PeriodMorning   Period = "MORNING"
	PeriodAfternoon Period = "AFTERNOON"
)

// Absence is a scheduled time-off entry. Dates are ISO calendar
// strings; StartPeriod/EndPeriod carry the half-day granularity.
type Absence struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	StartDate   string    `json:"startDate"`
	EndDate     string    `json:"endDate"`
	Type        Type      `json:"type"`
	StartPeriod Period    `json:"startPeriod"`
	EndPeriod   Period    `json:"endPeriod"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// User is a roster entry displayed on the left of the timeline.
type User struct {
	ID        string   `json:"id"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Email     string   `json:"email"`
	Squads    []string `json:"squads"`
	Metier    string   `json:"metier"`
	Tribu     string   `json:"tribu"`
	Interne   bool     `json:"interne"`
}
