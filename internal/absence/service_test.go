package absence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squadboard/squadboard/internal/shared"
	"github.com/squadboard/squadboard/internal/timeline"
)

type mockRepository struct {
	absences map[string]Absence
	users    []User
}

func newMockRepository() *mockRepository {
	return &mockRepository{absences: make(map[string]Absence)}
}

func (m *mockRepository) ListBetween(_ context.Context, from, to string) ([]Absence, error) {
	var out []Absence
	for _, a := range m.absences {
		if a.StartDate <= to && a.EndDate >= from {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockRepository) Get(_ context.Context, id string) (*Absence, error) {
	a, ok := m.absences[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &a, nil
}

func (m *mockRepository) Create(_ context.Context, a Absence) error {
	m.absences[a.ID] = a
	return nil
}

func (m *mockRepository) Update(_ context.Context, a Absence) error {
	if _, ok := m.absences[a.ID]; !ok {
		return shared.ErrNotFound
	}
	m.absences[a.ID] = a
	return nil
}

func (m *mockRepository) Delete(_ context.Context, id string) error {
	if _, ok := m.absences[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.absences, id)
	return nil
}

func (m *mockRepository) ListUsers(_ context.Context) ([]User, error) {
	return m.users, nil
}

type staticClosedDays map[string]struct{}

func (s staticClosedDays) ClosedSet(context.Context) (map[string]struct{}, error) {
	return s, nil
}

func TestServiceCreate(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, staticClosedDays{})

	created, err := svc.Create(context.Background(), CreateRequest{
		UserID:    "u-1",
		StartDate: "2025-01-13",
		EndDate:   "2025-01-17",
		Type:      TypeAbsence,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, PeriodMorning, created.StartPeriod)
	assert.Equal(t, PeriodAfternoon, created.EndPeriod)
	assert.Len(t, repo.absences, 1)
}

func TestServiceCreateRejectsBadRanges(t *testing.T) {
	svc := NewService(newMockRepository(), staticClosedDays{})
	ctx := context.Background()

	cases := []struct {
		name string
		req  CreateRequest
		want error
	}{
		{
			name: "start after end",
			req:  CreateRequest{UserID: "u-1", StartDate: "2025-01-17", EndDate: "2025-01-13", Type: TypeAbsence},
			want: shared.ErrInvalidRange,
		},
		{
			name: "unparseable date",
			req:  CreateRequest{UserID: "u-1", StartDate: "13/01/2025", EndDate: "2025-01-17", Type: TypeAbsence},
			want: shared.ErrInvalidRange,
		},
		{
			name: "single day afternoon start morning end",
			req: CreateRequest{
				UserID: "u-1", StartDate: "2025-01-13", EndDate: "2025-01-13",
				Type: TypeAbsence, StartPeriod: PeriodAfternoon, EndPeriod: PeriodMorning,
			},
			want: shared.ErrInvalidPeriods,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestServiceListBetweenComputesSegments(t *testing.T) {
	repo := newMockRepository()
	repo.absences["a-1"] = Absence{
		ID: "a-1", UserID: "u-1",
		StartDate: "2025-01-10", EndDate: "2025-01-13",
		Type: TypeAbsence, StartPeriod: PeriodMorning, EndPeriod: PeriodAfternoon,
	}
	svc := NewService(repo, staticClosedDays{"2025-01-13": {}})

	got, err := svc.ListBetween(context.Background(), "2025-01-01", "2025-01-31")
	require.NoError(t, err)
	require.Len(t, got, 1)

	// Friday stands alone; the weekend and the closed Monday are skipped.
	require.Len(t, got[0].Segments, 1)
	assert.Equal(t, timeline.ShapeFull, got[0].Segments[0].Shape)
	assert.Equal(t, "2025-01-10", timeline.FormatDay(got[0].Segments[0].Start))
	assert.Equal(t, "2025-01-10", timeline.FormatDay(got[0].Segments[0].End))
}

func TestServiceListBetweenRejectsBadWindow(t *testing.T) {
	svc := NewService(newMockRepository(), staticClosedDays{})
	_, err := svc.ListBetween(context.Background(), "not-a-date", "2025-01-31")
	assert.ErrorIs(t, err, shared.ErrInvalidRange)
}

func TestServiceUpdateMissing(t *testing.T) {
	svc := NewService(newMockRepository(), staticClosedDays{})
	_, err := svc.Update(context.Background(), "nope", CreateRequest{
		UserID: "u-1", StartDate: "2025-01-13", EndDate: "2025-01-14", Type: TypeFormation,
	})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
