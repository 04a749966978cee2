package release

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/squadboard/squadboard/internal/shared"
	"github.com/squadboard/squadboard/internal/timeline"
)

// Service wraps release business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// SaveReleaseRequest carries release fields for create and update. The
// slug is always derived from the name, never supplied by the client.
type SaveReleaseRequest struct {
	Name        string `json:"name" validate:"required"`
	ReleaseDate string `json:"releaseDate" validate:"required"`
	Status      Status `json:"status" validate:"omitempty,oneof=draft in_progress completed cancelled"`
	Type        Kind   `json:"type" validate:"omitempty,oneof=release hotfix"`
	Description string `json:"description"`
}

// SaveMicroserviceRequest carries master-list fields.
type SaveMicroserviceRequest struct {
	Name         string `json:"name" validate:"required"`
	Squad        string `json:"squad" validate:"required"`
	Solution     string `json:"solution"`
	DisplayOrder int    `json:"displayOrder" validate:"gte=0"`
	IsActive     *bool  `json:"isActive"`
	Description  string `json:"description"`
}

// SaveEntryRequest carries note-entry fields.
type SaveEntryRequest struct {
	MicroserviceID string   `json:"microserviceId"`
	Microservice   string   `json:"microservice" validate:"required"`
	Squad          string   `json:"squad" validate:"required"`
	PartEnMep      bool     `json:"partEnMep"`
	DeployOrder    int      `json:"deployOrder" validate:"gte=0"`
	Tag            string   `json:"tag"`
	PreviousTag    string   `json:"previousTag"`
	ParentVersion  string   `json:"parentVersion"`
	Comment        string   `json:"comment"`
	Status         string   `json:"status"`
	Changes        []string `json:"changes"`
}

// Note is a fully resolved release note: the release header, the
// reconciled per-service lines and the squad owners.
type Note struct {
	Release Release    `json:"release"`
	Lines   []NoteLine `json:"lines"`
	Tontons []Tonton   `json:"tontons"`
}

// ReleasePage is one page of the release history.
type ReleasePage struct {
	Items      []Release         `json:"items"`
	Pagination shared.Pagination `json:"pagination"`
}

// ListReleases returns one page of releases, most recent first.
func (s *Service) ListReleases(ctx context.Context, page, perPage int) (*ReleasePage, error) {
	total, err := s.repo.CountReleases(ctx)
	if err != nil {
		return nil, fmt.Errorf("count releases: %w", err)
	}
	p := shared.NewPagination(page, perPage, total)
	items, err := s.repo.ListReleases(ctx, p.PerPage, (p.Page-1)*p.PerPage)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []Release{}
	}
	return &ReleasePage{Items: items, Pagination: p}, nil
}

// GetRelease resolves a release by id or slug.
func (s *Service) GetRelease(ctx context.Context, key string) (Release, error) {
	return s.repo.GetRelease(ctx, key)
}

// CreateRelease validates and persists a new release. Status defaults
// to draft and type to release when not supplied.
func (s *Service) CreateRelease(ctx context.Context, req SaveReleaseRequest, actor string) (*Release, error) {
	if _, err := timeline.ParseDay(req.ReleaseDate); err != nil {
		return nil, fmt.Errorf("%w: release date %q", shared.ErrInvalidRange, req.ReleaseDate)
	}
	rel := Release{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Slug:        Slugify(req.Name),
		ReleaseDate: req.ReleaseDate,
		Status:      req.Status,
		Type:        req.Type,
		Description: req.Description,
	}
	if rel.Status == "" {
		rel.Status = StatusDraft
	}
	if rel.Type == "" {
		rel.Type = KindRelease
	}
	if err := s.repo.CreateRelease(ctx, rel); err != nil {
		return nil, fmt.Errorf("create release: %w", err)
	}
	s.recordHistory(ctx, rel.ID, "created", actor, fmt.Sprintf("%s scheduled for %s", rel.Name, rel.ReleaseDate))
	return &rel, nil
}

// UpdateRelease validates and rewrites an existing release. Renaming
// re-derives the slug, so old links by slug stop resolving.
func (s *Service) UpdateRelease(ctx context.Context, id string, req SaveReleaseRequest, actor string) (*Release, error) {
	if _, err := timeline.ParseDay(req.ReleaseDate); err != nil {
		return nil, fmt.Errorf("%w: release date %q", shared.ErrInvalidRange, req.ReleaseDate)
	}
	existing, err := s.repo.GetRelease(ctx, id)
	if err != nil {
		return nil, err
	}
	existing.Name = req.Name
	existing.Slug = Slugify(req.Name)
	existing.ReleaseDate = req.ReleaseDate
	if req.Status != "" {
		existing.Status = req.Status
	}
	if req.Type != "" {
		existing.Type = req.Type
	}
	existing.Description = req.Description
	if err := s.repo.UpdateRelease(ctx, existing); err != nil {
		return nil, fmt.Errorf("update release: %w", err)
	}
	s.recordHistory(ctx, existing.ID, "updated", actor, fmt.Sprintf("%s scheduled for %s, status %s", existing.Name, existing.ReleaseDate, existing.Status))
	return &existing, nil
}

// DeleteRelease removes a release and its note entries.
func (s *Service) DeleteRelease(ctx context.Context, id string, actor string) error {
	rel, err := s.repo.GetRelease(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteRelease(ctx, rel.ID); err != nil {
		return err
	}
	s.recordHistory(ctx, rel.ID, "deleted", actor, rel.Name)
	return nil
}

// History returns the audit trail for a release resolved by id or slug.
func (s *Service) History(ctx context.Context, key string) ([]HistoryEntry, error) {
	rel, err := s.repo.GetRelease(ctx, key)
	if err != nil {
		return nil, err
	}
	entries, err := s.repo.ListHistory(ctx, rel.ID)
	if err != nil {
		return nil, fmt.Errorf("list release history: %w", err)
	}
	if entries == nil {
		entries = []HistoryEntry{}
	}
	return entries, nil
}

// recordHistory appends an audit line. A failed audit write never
// fails the operation it describes.
func (s *Service) recordHistory(ctx context.Context, releaseID, action, actor, detail string) {
	_ = s.repo.InsertHistory(ctx, HistoryEntry{
		ID:        uuid.NewString(),
		ReleaseID: releaseID,
		Action:    action,
		Actor:     actor,
		Detail:    detail,
		CreatedAt: time.Now().UTC(),
	})
}

// BuildNoteFor assembles the reconciled release note for a release
// resolved by id or slug.
func (s *Service) BuildNoteFor(ctx context.Context, key string) (*Note, error) {
	rel, err := s.repo.GetRelease(ctx, key)
	if err != nil {
		return nil, err
	}
	master, err := s.repo.ListMicroservices(ctx)
	if err != nil {
		return nil, fmt.Errorf("list microservices: %w", err)
	}
	entries, err := s.repo.ListEntries(ctx, rel.ID)
	if err != nil {
		return nil, fmt.Errorf("list note entries: %w", err)
	}
	tontons, err := s.repo.ListTontons(ctx, rel.ID)
	if err != nil {
		return nil, fmt.Errorf("list tontons: %w", err)
	}
	return &Note{Release: rel, Lines: BuildNote(master, entries), Tontons: tontons}, nil
}

// ListMicroservices returns the master list in squad then display order.
func (s *Service) ListMicroservices(ctx context.Context) ([]Microservice, error) {
	return s.repo.ListMicroservices(ctx)
}

// CreateMicroservice adds a master-list entry, active by default.
func (s *Service) CreateMicroservice(ctx context.Context, req SaveMicroserviceRequest) (*Microservice, error) {
	ms := Microservice{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Squad:        req.Squad,
		Solution:     req.Solution,
		DisplayOrder: req.DisplayOrder,
		IsActive:     true,
		Description:  req.Description,
	}
	if req.IsActive != nil {
		ms.IsActive = *req.IsActive
	}
	if err := s.repo.CreateMicroservice(ctx, ms); err != nil {
		return nil, fmt.Errorf("create microservice: %w", err)
	}
	return &ms, nil
}

// UpdateMicroservice rewrites a master-list entry.
func (s *Service) UpdateMicroservice(ctx context.Context, id string, req SaveMicroserviceRequest) (*Microservice, error) {
	ms := Microservice{
		ID:           id,
		Name:         req.Name,
		Squad:        req.Squad,
		Solution:     req.Solution,
		DisplayOrder: req.DisplayOrder,
		IsActive:     true,
		Description:  req.Description,
	}
	if req.IsActive != nil {
		ms.IsActive = *req.IsActive
	}
	if err := s.repo.UpdateMicroservice(ctx, ms); err != nil {
		return nil, fmt.Errorf("update microservice: %w", err)
	}
	return &ms, nil
}

// ListEntries returns a release's raw note entries in deploy order.
func (s *Service) ListEntries(ctx context.Context, releaseKey string) ([]NoteEntry, error) {
	rel, err := s.repo.GetRelease(ctx, releaseKey)
	if err != nil {
		return nil, err
	}
	return s.repo.ListEntries(ctx, rel.ID)
}

// CreateEntry adds a note entry to a release.
func (s *Service) CreateEntry(ctx context.Context, releaseKey string, req SaveEntryRequest) (*NoteEntry, error) {
	rel, err := s.repo.GetRelease(ctx, releaseKey)
	if err != nil {
		return nil, err
	}
	e := entryFromRequest(req)
	e.ID = uuid.NewString()
	e.ReleaseID = rel.ID
	if err := s.repo.CreateEntry(ctx, e); err != nil {
		return nil, fmt.Errorf("create note entry: %w", err)
	}
	return &e, nil
}

// UpdateEntry rewrites a note entry.
func (s *Service) UpdateEntry(ctx context.Context, releaseKey, entryID string, req SaveEntryRequest) (*NoteEntry, error) {
	rel, err := s.repo.GetRelease(ctx, releaseKey)
	if err != nil {
		return nil, err
	}
	e := entryFromRequest(req)
	e.ID = entryID
	e.ReleaseID = rel.ID
	if err := s.repo.UpdateEntry(ctx, e); err != nil {
		return nil, err
	}
	return &e, nil
}

// DeleteEntry removes a note entry.
func (s *Service) DeleteEntry(ctx context.Context, releaseKey, entryID string) error {
	rel, err := s.repo.GetRelease(ctx, releaseKey)
	if err != nil {
		return err
	}
	return s.repo.DeleteEntry(ctx, rel.ID, entryID)
}

// SetTonton assigns the release owner for one squad.
func (s *Service) SetTonton(ctx context.Context, releaseKey string, t Tonton) error {
	if t.Squad == "" || t.Name == "" {
		return fmt.Errorf("%w: squad and name are required", shared.ErrInvalidRange)
	}
	rel, err := s.repo.GetRelease(ctx, releaseKey)
	if err != nil {
		return err
	}
	return s.repo.SetTonton(ctx, rel.ID, t)
}

func entryFromRequest(req SaveEntryRequest) NoteEntry {
	changes := req.Changes
	if changes == nil {
		changes = []string{}
	}
	return NoteEntry{
		MicroserviceID: req.MicroserviceID,
		Microservice:   req.Microservice,
		Squad:          req.Squad,
		PartEnMep:      req.PartEnMep,
		DeployOrder:    req.DeployOrder,
		Tag:            req.Tag,
		PreviousTag:    req.PreviousTag,
		ParentVersion:  req.ParentVersion,
		Comment:        req.Comment,
		Status:         req.Status,
		Changes:        changes,
	}
}
