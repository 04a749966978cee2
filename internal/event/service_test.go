package event

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squadboard/squadboard/internal/shared"
)

type mockRepository struct {
	events map[string]Event
}

func newMockRepository() *mockRepository {
	return &mockRepository{events: make(map[string]Event)}
}

func (m *mockRepository) ListBetween(_ context.Context, from, to string) ([]Event, error) {
	var out []Event
	for _, e := range m.events {
		if e.StartDate <= to && e.EndDate >= from {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockRepository) Get(_ context.Context, id string) (*Event, error) {
	e, ok := m.events[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &e, nil
}

func (m *mockRepository) Create(_ context.Context, e Event) error {
	m.events[e.ID] = e
	return nil
}

func (m *mockRepository) Update(_ context.Context, e Event) error {
	if _, ok := m.events[e.ID]; !ok {
		return shared.ErrNotFound
	}
	m.events[e.ID] = e
	return nil
}

func (m *mockRepository) Delete(_ context.Context, id string) error {
	if _, ok := m.events[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.events, id)
	return nil
}

func TestServiceCreateAndList(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, SaveRequest{
		Title:     "Design review",
		StartDate: "2025-03-10",
		EndDate:   "2025-03-10",
		Category:  CategoryMeeting,
	}, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", created.CreatedBy)

	events, err := svc.ListBetween(ctx, "2025-03-01", "2025-03-31")
	require.NoError(t, err)
	assert.Len(t, events, 1)

	events, err = svc.ListBetween(ctx, "2025-04-01", "2025-04-30")
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestServiceCreateInvalidRange(t *testing.T) {
	svc := NewService(newMockRepository())
	_, err := svc.Create(context.Background(), SaveRequest{
		Title: "x", StartDate: "2025-03-11", EndDate: "2025-03-10", Category: CategoryOther,
	}, "u-1")
	assert.ErrorIs(t, err, shared.ErrInvalidRange)
}

func TestServiceUpdateMissing(t *testing.T) {
	svc := NewService(newMockRepository())
	_, err := svc.Update(context.Background(), "nope", SaveRequest{
		Title: "x", StartDate: "2025-03-10", EndDate: "2025-03-10", Category: CategoryOther,
	})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
