package closedday

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squadboard/squadboard/internal/shared"
)

type mockRepository struct {
	days map[string]ClosedDay
}

func newMockRepository() *mockRepository {
	return &mockRepository{days: make(map[string]ClosedDay)}
}

func (m *mockRepository) List(context.Context) ([]ClosedDay, error) {
	var out []ClosedDay
	for _, d := range m.days {
		out = append(out, d)
	}
	return out, nil
}

func (m *mockRepository) Create(_ context.Context, d ClosedDay) error {
	for _, existing := range m.days {
		if existing.Date == d.Date {
			return shared.ErrConflict
		}
	}
	m.days[d.ID] = d
	return nil
}

func (m *mockRepository) Delete(_ context.Context, id string) error {
	if _, ok := m.days[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.days, id)
	return nil
}

type countingInvalidator struct{ bumps int }

func (c *countingInvalidator) Bump(context.Context) error {
	c.bumps++
	return nil
}

func TestServiceCreateAndClosedSet(t *testing.T) {
	repo := newMockRepository()
	inv := &countingInvalidator{}
	svc := NewService(repo, inv, slog.New(slog.DiscardHandler))
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateRequest{Date: "2025-05-02", Label: "Pont du 1er mai"})
	require.NoError(t, err)
	assert.Equal(t, 1, inv.bumps)

	set, err := svc.ClosedSet(ctx)
	require.NoError(t, err)
	_, ok := set["2025-05-02"]
	assert.True(t, ok)
}

func TestServiceCreateDuplicateDate(t *testing.T) {
	svc := NewService(newMockRepository(), nil, slog.New(slog.DiscardHandler))
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateRequest{Date: "2025-05-02", Label: "Pont"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateRequest{Date: "2025-05-02", Label: "Encore"})
	assert.ErrorIs(t, err, shared.ErrConflict)
}

func TestServiceCreateBadDate(t *testing.T) {
	svc := NewService(newMockRepository(), nil, slog.New(slog.DiscardHandler))
	_, err := svc.Create(context.Background(), CreateRequest{Date: "02/05/2025", Label: "Pont"})
	assert.ErrorIs(t, err, shared.ErrInvalidRange)
}
