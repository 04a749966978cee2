package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSprints = []Sprint{
	{ID: "s1", Name: "2025.01", StartDate: "2025-01-06", EndDate: "2025-01-17", CodeFreezeDate: "2025-01-15", ReleaseDateBack: "2025-01-16", ReleaseDateFront: "2025-01-17"},
	{ID: "s2", Name: "2025.02", StartDate: "2025-01-20", EndDate: "2025-01-31"},
}

func TestResolveSprintInfo(t *testing.T) {
	info := ResolveSprintInfo("2025-01-10", testSprints, "2025-01-10")
	require.NotNil(t, info.Active)
	assert.Equal(t, "s1", info.Active.ID)
	assert.Equal(t, 0, info.Index)
	assert.False(t, info.IsSprintStart)
	assert.True(t, info.IsCurrentSprint)

	info = ResolveSprintInfo("2025-01-20", testSprints, "2025-01-10")
	require.NotNil(t, info.Active)
	assert.Equal(t, "s2", info.Active.ID)
	assert.Equal(t, 1, info.Index)
	assert.True(t, info.IsSprintStart)
	// today falls in s1, so s2 is not the running sprint
	assert.False(t, info.IsCurrentSprint)
}

func TestResolveSprintInfoGap(t *testing.T) {
	info := ResolveSprintInfo("2025-01-18", testSprints, "2025-01-18")
	assert.Nil(t, info.Active)
	assert.Equal(t, -1, info.Index)
	assert.Empty(t, ResolveSprintInfo("2025-01-10", nil, "2025-01-10").Active)
}

func TestResolveSprintInfoUnsortedInput(t *testing.T) {
	shuffled := []Sprint{testSprints[1], testSprints[0]}
	info := ResolveSprintInfo("2025-01-10", shuffled, "2025-02-10")
	require.NotNil(t, info.Active)
	assert.Equal(t, "s1", info.Active.ID)
	assert.Equal(t, 0, info.Index)
	// the input slice is left untouched
	assert.Equal(t, "s2", shuffled[0].ID)
}

func TestResolveSprintInfoOverlapFirstMatch(t *testing.T) {
	overlapping := []Sprint{
		{ID: "a", StartDate: "2025-01-06", EndDate: "2025-01-24"},
		{ID: "b", StartDate: "2025-01-20", EndDate: "2025-01-31"},
	}
	info := ResolveSprintInfo("2025-01-21", overlapping, "2025-01-21")
	require.NotNil(t, info.Active)
	assert.Equal(t, "a", info.Active.ID)
}

func TestResolveMilestones(t *testing.T) {
	assert.Equal(t, MilestoneFlags{IsCodeFreeze: true}, ResolveMilestones("2025-01-15", testSprints))
	assert.Equal(t, MilestoneFlags{IsMepBack: true}, ResolveMilestones("2025-01-16", testSprints))
	assert.Equal(t, MilestoneFlags{IsMepFront: true}, ResolveMilestones("2025-01-17", testSprints))
	assert.Equal(t, MilestoneFlags{}, ResolveMilestones("2025-01-14", testSprints))

	// markers OR across sprints sharing a date
	doubled := append([]Sprint{}, testSprints...)
	doubled = append(doubled, Sprint{StartDate: "2025-02-03", EndDate: "2025-02-14", CodeFreezeDate: "2025-01-16"})
	flags := ResolveMilestones("2025-01-16", doubled)
	assert.True(t, flags.IsCodeFreeze)
	assert.True(t, flags.IsMepBack)
}

func TestResolveMilestonesEmptyDatesNeverMatch(t *testing.T) {
	sprints := []Sprint{{StartDate: "2025-01-06", EndDate: "2025-01-17"}}
	assert.Equal(t, MilestoneFlags{}, ResolveMilestones("", sprints))
}
