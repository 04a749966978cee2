package release

import "sort"

// NoteLine is one row of a rendered release note: a master-list
// microservice reconciled with its per-release entry, if any.
type NoteLine struct {
	MicroserviceID string   `json:"microserviceId,omitempty"`
	Microservice   string   `json:"microservice"`
	Squad          string   `json:"squad"`
	PartEnMep      bool     `json:"partEnMep"`
	DeployOrder    int      `json:"deployOrder"`
	Tag            string   `json:"tag,omitempty"`
	PreviousTag    string   `json:"previousTag,omitempty"`
	ParentVersion  string   `json:"parentVersion,omitempty"`
	Comment        string   `json:"comment,omitempty"`
	Status         string   `json:"status,omitempty"`
	Changes        []string `json:"changes,omitempty"`
	EntryID        string   `json:"entryId,omitempty"`
	Orphan         bool     `json:"orphan,omitempty"`
}

// BuildNote reconciles the master microservice list against the sparse
// per-release entries. Every active master service gets a line, in
// squad then display order; services without an entry appear as
// not-deploying placeholders. Entries that reference a retired or
// unknown microservice are appended last and flagged as orphans so the
// note never silently drops recorded deployment data.
func BuildNote(master []Microservice, entries []NoteEntry) []NoteLine {
	byServiceID := make(map[string]NoteEntry, len(entries))
	byServiceName := make(map[string]NoteEntry)
	for _, e := range entries {
		if e.MicroserviceID != "" {
			byServiceID[e.MicroserviceID] = e
		} else if e.Microservice != "" {
			byServiceName[e.Microservice] = e
		}
	}

	ordered := make([]Microservice, 0, len(master))
	for _, ms := range master {
		if ms.IsActive {
			ordered = append(ordered, ms)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Squad != ordered[j].Squad {
			return ordered[i].Squad < ordered[j].Squad
		}
		if ordered[i].DisplayOrder != ordered[j].DisplayOrder {
			return ordered[i].DisplayOrder < ordered[j].DisplayOrder
		}
		return ordered[i].Name < ordered[j].Name
	})

	matched := make(map[string]bool, len(entries))
	lines := make([]NoteLine, 0, len(ordered))
	for _, ms := range ordered {
		entry, ok := byServiceID[ms.ID]
		if !ok {
			// legacy entries recorded before microservice references
			entry, ok = byServiceName[ms.Name]
		}
		if !ok {
			lines = append(lines, NoteLine{
				MicroserviceID: ms.ID,
				Microservice:   ms.Name,
				Squad:          ms.Squad,
			})
			continue
		}
		matched[entry.ID] = true
		lines = append(lines, NoteLine{
			MicroserviceID: ms.ID,
			Microservice:   ms.Name,
			Squad:          ms.Squad,
			PartEnMep:      entry.PartEnMep,
			DeployOrder:    entry.DeployOrder,
			Tag:            entry.Tag,
			PreviousTag:    entry.PreviousTag,
			ParentVersion:  entry.ParentVersion,
			Comment:        entry.Comment,
			Status:         entry.Status,
			Changes:        entry.Changes,
			EntryID:        entry.ID,
		})
	}

	for _, e := range entries {
		if matched[e.ID] {
			continue
		}
		lines = append(lines, NoteLine{
			MicroserviceID: e.MicroserviceID,
			Microservice:   e.Microservice,
			Squad:          e.Squad,
			PartEnMep:      e.PartEnMep,
			DeployOrder:    e.DeployOrder,
			Tag:            e.Tag,
			PreviousTag:    e.PreviousTag,
			ParentVersion:  e.ParentVersion,
			Comment:        e.Comment,
			Status:         e.Status,
			Changes:        e.Changes,
			EntryID:        e.ID,
			Orphan:         true,
		})
	}

	return lines
}
