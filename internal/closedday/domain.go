package closedday

import "time"

// ClosedDay is an organisation-wide non-working day (collective
// agreement closure, bridge day) added on top of public holidays.
type ClosedDay struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"createdAt"`
}
