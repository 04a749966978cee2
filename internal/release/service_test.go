package release

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squadboard/squadboard/internal/shared"
)

type mockRepository struct {
	releases map[string]Release
	master   []Microservice
	entries  map[string][]NoteEntry
	tontons  map[string][]Tonton
	history  []HistoryEntry
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		releases: make(map[string]Release),
		entries:  make(map[string][]NoteEntry),
		tontons:  make(map[string][]Tonton),
	}
}

func (m *mockRepository) ListReleases(_ context.Context, limit, offset int) ([]Release, error) {
	var all []Release
	for _, rel := range m.releases {
		all = append(all, rel)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ReleaseDate > all[j].ReleaseDate })
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (m *mockRepository) CountReleases(context.Context) (int, error) {
	return len(m.releases), nil
}

func (m *mockRepository) GetRelease(_ context.Context, key string) (Release, error) {
	for _, rel := range m.releases {
		if rel.ID == key || rel.Slug == key {
			return rel, nil
		}
	}
	return Release{}, shared.ErrNotFound
}

func (m *mockRepository) CreateRelease(_ context.Context, rel Release) error {
	for _, existing := range m.releases {
		if existing.Slug == rel.Slug {
			return shared.ErrConflict
		}
	}
	m.releases[rel.ID] = rel
	return nil
}

func (m *mockRepository) UpdateRelease(_ context.Context, rel Release) error {
	if _, ok := m.releases[rel.ID]; !ok {
		return shared.ErrNotFound
	}
	m.releases[rel.ID] = rel
	return nil
}

func (m *mockRepository) DeleteRelease(_ context.Context, id string) error {
	if _, ok := m.releases[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.releases, id)
	return nil
}

func (m *mockRepository) ListMicroservices(context.Context) ([]Microservice, error) {
	return m.master, nil
}

func (m *mockRepository) CreateMicroservice(_ context.Context, ms Microservice) error {
	m.master = append(m.master, ms)
	return nil
}

func (m *mockRepository) UpdateMicroservice(_ context.Context, ms Microservice) error {
	for i, existing := range m.master {
		if existing.ID == ms.ID {
			m.master[i] = ms
			return nil
		}
	}
	return shared.ErrNotFound
}

func (m *mockRepository) ListEntries(_ context.Context, releaseID string) ([]NoteEntry, error) {
	return m.entries[releaseID], nil
}

func (m *mockRepository) CreateEntry(_ context.Context, e NoteEntry) error {
	m.entries[e.ReleaseID] = append(m.entries[e.ReleaseID], e)
	return nil
}

func (m *mockRepository) UpdateEntry(_ context.Context, e NoteEntry) error {
	for i, existing := range m.entries[e.ReleaseID] {
		if existing.ID == e.ID {
			m.entries[e.ReleaseID][i] = e
			return nil
		}
	}
	return shared.ErrNotFound
}

func (m *mockRepository) DeleteEntry(_ context.Context, releaseID, entryID string) error {
	for i, existing := range m.entries[releaseID] {
		if existing.ID == entryID {
			m.entries[releaseID] = append(m.entries[releaseID][:i], m.entries[releaseID][i+1:]...)
			return nil
		}
	}
	return shared.ErrNotFound
}

func (m *mockRepository) ListTontons(_ context.Context, releaseID string) ([]Tonton, error) {
	return m.tontons[releaseID], nil
}

func (m *mockRepository) SetTonton(_ context.Context, releaseID string, t Tonton) error {
	for i, existing := range m.tontons[releaseID] {
		if existing.Squad == t.Squad {
			m.tontons[releaseID][i] = t
			return nil
		}
	}
	m.tontons[releaseID] = append(m.tontons[releaseID], t)
	return nil
}

func (m *mockRepository) InsertHistory(_ context.Context, h HistoryEntry) error {
	m.history = append(m.history, h)
	return nil
}

func (m *mockRepository) ListHistory(_ context.Context, releaseID string) ([]HistoryEntry, error) {
	var out []HistoryEntry
	for i := len(m.history) - 1; i >= 0; i-- {
		if m.history[i].ReleaseID == releaseID {
			out = append(out, m.history[i])
		}
	}
	return out, nil
}

var _ Repository = (*mockRepository)(nil)

func TestServiceCreateReleaseDerivesSlugAndDefaults(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	ctx := context.Background()

	rel, err := svc.CreateRelease(ctx, SaveReleaseRequest{
		Name:        "Release v40.5 - Sprint 2024.12",
		ReleaseDate: "2024-12-17",
	}, "u-admin")
	require.NoError(t, err)
	assert.Equal(t, "release-v40-5-sprint-2024-12", rel.Slug)
	assert.Equal(t, StatusDraft, rel.Status)
	assert.Equal(t, KindRelease, rel.Type)

	// Same name again collides on the slug.
	_, err = svc.CreateRelease(ctx, SaveReleaseRequest{
		Name:        "Release v40.5 - Sprint 2024.12",
		ReleaseDate: "2024-12-18",
	}, "u-admin")
	assert.ErrorIs(t, err, shared.ErrConflict)
}

func TestServiceCreateReleaseRejectsBadDate(t *testing.T) {
	svc := NewService(newMockRepository())

	_, err := svc.CreateRelease(context.Background(), SaveReleaseRequest{
		Name:        "Release v41",
		ReleaseDate: "17/12/2024",
	}, "u-admin")
	assert.ErrorIs(t, err, shared.ErrInvalidRange)
}

func TestServiceResolveBySlug(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.CreateRelease(ctx, SaveReleaseRequest{Name: "Release v41", ReleaseDate: "2025-01-14"}, "u-admin")
	require.NoError(t, err)

	bySlug, err := svc.GetRelease(ctx, "release-v41")
	require.NoError(t, err)
	assert.Equal(t, created.ID, bySlug.ID)

	byID, err := svc.GetRelease(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Slug, byID.Slug)

	_, err = svc.GetRelease(ctx, "release-v99")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestServiceBuildNoteFor(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	ctx := context.Background()

	rel, err := svc.CreateRelease(ctx, SaveReleaseRequest{Name: "Release v41", ReleaseDate: "2025-01-14"}, "u-admin")
	require.NoError(t, err)

	msAuth, err := svc.CreateMicroservice(ctx, SaveMicroserviceRequest{Name: "auth", Squad: "Alpha", DisplayOrder: 1})
	require.NoError(t, err)
	_, err = svc.CreateMicroservice(ctx, SaveMicroserviceRequest{Name: "billing", Squad: "Alpha", DisplayOrder: 2})
	require.NoError(t, err)

	_, err = svc.CreateEntry(ctx, "release-v41", SaveEntryRequest{
		MicroserviceID: msAuth.ID,
		Microservice:   "auth",
		Squad:          "Alpha",
		PartEnMep:      true,
		Tag:            "v41.0.0",
		Changes:        []string{"fix session renewal"},
	})
	require.NoError(t, err)

	require.NoError(t, svc.SetTonton(ctx, rel.ID, Tonton{Squad: "Alpha", UserID: "u1", Name: "Camille"}))

	note, err := svc.BuildNoteFor(ctx, "release-v41")
	require.NoError(t, err)
	assert.Equal(t, rel.ID, note.Release.ID)
	require.Len(t, note.Lines, 2)
	assert.True(t, note.Lines[0].PartEnMep)
	assert.Equal(t, "v41.0.0", note.Lines[0].Tag)
	assert.False(t, note.Lines[1].PartEnMep, "billing has no entry")
	require.Len(t, note.Tontons, 1)
	assert.Equal(t, "Camille", note.Tontons[0].Name)
}

func TestServiceListReleasesPaginates(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		_, err := svc.CreateRelease(ctx, SaveReleaseRequest{
			Name:        fmt.Sprintf("Release v%d", i),
			ReleaseDate: fmt.Sprintf("2025-01-%02d", i),
		}, "u-admin")
		require.NoError(t, err)
	}

	page, err := svc.ListReleases(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Release v5", page.Items[0].Name, "most recent first")
	assert.Equal(t, 5, page.Pagination.Total)
	assert.Equal(t, 3, page.Pagination.TotalPages)

	last, err := svc.ListReleases(ctx, 3, 2)
	require.NoError(t, err)
	require.Len(t, last.Items, 1)
	assert.Equal(t, "Release v1", last.Items[0].Name)

	empty, err := svc.ListReleases(ctx, 9, 2)
	require.NoError(t, err)
	assert.Empty(t, empty.Items)
}

func TestServiceUpdateReleaseRederivesSlug(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.CreateRelease(ctx, SaveReleaseRequest{Name: "Release v41", ReleaseDate: "2025-01-14"}, "u-admin")
	require.NoError(t, err)

	updated, err := svc.UpdateRelease(ctx, created.ID, SaveReleaseRequest{
		Name:        "Release v41.1",
		ReleaseDate: "2025-01-21",
		Status:      StatusCompleted,
	}, "u-admin")
	require.NoError(t, err)
	assert.Equal(t, "release-v41-1", updated.Slug)
	assert.Equal(t, StatusCompleted, updated.Status)

	_, err = svc.GetRelease(ctx, "release-v41")
	assert.ErrorIs(t, err, shared.ErrNotFound, "old slug no longer resolves")
}

func TestServiceRecordsHistory(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.CreateRelease(ctx, SaveReleaseRequest{Name: "Release v42", ReleaseDate: "2025-02-11"}, "u-camille")
	require.NoError(t, err)

	_, err = svc.UpdateRelease(ctx, created.ID, SaveReleaseRequest{
		Name:        "Release v42",
		ReleaseDate: "2025-02-12",
		Status:      StatusInProgress,
	}, "u-nadia")
	require.NoError(t, err)

	entries, err := svc.History(ctx, "release-v42")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "updated", entries[0].Action, "most recent first")
	assert.Equal(t, "u-nadia", entries[0].Actor)
	assert.Equal(t, "created", entries[1].Action)
	assert.Equal(t, "u-camille", entries[1].Actor)

	require.NoError(t, svc.DeleteRelease(ctx, created.ID, "u-camille"))
	assert.Len(t, repo.history, 3, "audit rows outlive the release")
	assert.Equal(t, "deleted", repo.history[2].Action)
}
