package release

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func masterList() []Microservice {
	return []Microservice{
		{ID: "ms-gateway", Name: "gateway", Squad: "Beta", DisplayOrder: 1, IsActive: true},
		{ID: "ms-billing", Name: "billing", Squad: "Alpha", DisplayOrder: 2, IsActive: true},
		{ID: "ms-auth", Name: "auth", Squad: "Alpha", DisplayOrder: 1, IsActive: true},
		{ID: "ms-legacy", Name: "legacy-batch", Squad: "Alpha", DisplayOrder: 3, IsActive: false},
	}
}

func TestBuildNoteOrderAndPlaceholders(t *testing.T) {
	entries := []NoteEntry{
		{ID: "e1", MicroserviceID: "ms-billing", PartEnMep: true, DeployOrder: 1, Tag: "v40.5.0", PreviousTag: "v40.4.2"},
	}

	lines := BuildNote(masterList(), entries)

	// One line per active master service, squad then display order.
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"auth", "billing", "gateway"}, []string{lines[0].Microservice, lines[1].Microservice, lines[2].Microservice})

	assert.False(t, lines[0].PartEnMep, "auth has no entry so it is a placeholder")
	assert.Empty(t, lines[0].EntryID)

	assert.True(t, lines[1].PartEnMep)
	assert.Equal(t, "v40.5.0", lines[1].Tag)
	assert.Equal(t, "v40.4.2", lines[1].PreviousTag)
	assert.Equal(t, "e1", lines[1].EntryID)
	assert.Equal(t, "Alpha", lines[1].Squad, "squad comes from the master list")
}

func TestBuildNoteOrphanEntries(t *testing.T) {
	entries := []NoteEntry{
		{ID: "e-retired", MicroserviceID: "ms-legacy", Microservice: "legacy-batch", Squad: "Alpha", PartEnMep: true, Tag: "v1.9"},
		{ID: "e-unknown", Microservice: "ghost-service", Squad: "Gamma", PartEnMep: true, Tag: "v0.1"},
	}

	lines := BuildNote(masterList(), entries)

	require.Len(t, lines, 5)
	for _, l := range lines[:3] {
		assert.False(t, l.Orphan)
	}
	assert.True(t, lines[3].Orphan)
	assert.Equal(t, "legacy-batch", lines[3].Microservice)
	assert.True(t, lines[4].Orphan)
	assert.Equal(t, "ghost-service", lines[4].Microservice)
	assert.Equal(t, "v0.1", lines[4].Tag)
}

func TestBuildNoteMatchesLegacyEntriesByName(t *testing.T) {
	entries := []NoteEntry{
		{ID: "e-old", Microservice: "gateway", Squad: "Beta", PartEnMep: true, Tag: "v2.0"},
	}

	lines := BuildNote(masterList(), entries)

	require.Len(t, lines, 3)
	assert.Equal(t, "gateway", lines[2].Microservice)
	assert.Equal(t, "e-old", lines[2].EntryID)
	assert.True(t, lines[2].PartEnMep)
}

func TestBuildNoteEmptyInputs(t *testing.T) {
	assert.Empty(t, BuildNote(nil, nil))

	lines := BuildNote(nil, []NoteEntry{{ID: "e1", Microservice: "solo"}})
	require.Len(t, lines, 1)
	assert.True(t, lines[0].Orphan)
}
