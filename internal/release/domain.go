package release

import "time"

// Status tracks a release through its lifecycle.
type Status string

const (
	StatusDraft      Status = "draft"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Kind distinguishes planned releases from hotfixes.
type Kind string

const (
	KindRelease Kind = "release"
	KindHotfix  Kind = "hotfix"
)

// Release is a deployment event ("MEP"). Name carries the version;
// Slug is its URL-friendly form, unique across releases.
type Release struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	ReleaseDate string    `json:"releaseDate"`
	Status      Status    `json:"status"`
	Type        Kind      `json:"type"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Microservice is a master-list entry of a deployable service owned by
// one of the squads. Inactive entries are retired but kept for
// historical release notes.
type Microservice struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Squad        string    `json:"squad"`
	Solution     string    `json:"solution,omitempty"`
	DisplayOrder int       `json:"displayOrder"`
	IsActive     bool      `json:"isActive"`
	Description  string    `json:"description,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NoteEntry is one microservice's row in a release note: whether it
// ships, with which tag, and in which deploy order.
type NoteEntry struct {
	ID             string    `json:"id"`
	ReleaseID      string    `json:"releaseId"`
	MicroserviceID string    `json:"microserviceId,omitempty"`
	Microservice   string    `json:"microservice"`
	Squad          string    `json:"squad"`
	PartEnMep      bool      `json:"partEnMep"`
	DeployOrder    int       `json:"deployOrder"`
	Tag            string    `json:"tag,omitempty"`
	PreviousTag    string    `json:"previousTag,omitempty"`
	ParentVersion  string    `json:"parentVersion,omitempty"`
	Comment        string    `json:"comment,omitempty"`
	Status         string    `json:"status,omitempty"`
	Changes        []string  `json:"changes"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Tonton assigns the release owner for one squad.
type Tonton struct {
	Squad  string `json:"squad"`
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

// HistoryEntry is one audit line for a release. Rows outlive the
// release they describe, so deletions stay traceable.
type HistoryEntry struct {
	ID        string    `json:"id"`
	ReleaseID string    `json:"releaseId"`
	Action    string    `json:"action"`
	Actor     string    `json:"actor,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
