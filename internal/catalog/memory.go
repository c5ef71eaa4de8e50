package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/techeer-11-team-k/aptmatch/internal/match"
)

// Memory is an in-memory catalog used by tests and the demo serve path.
type Memory struct {
	candidates []match.Candidate
}

// NewMemory builds a memory catalog from pre-joined candidates.
func NewMemory(candidates []match.Candidate) *Memory {
	return &Memory{candidates: candidates}
}

// PrefetchRegion filters the held candidates by region-code prefix.
func (m *Memory) PrefetchRegion(_ context.Context, sggCode string) ([]match.Candidate, error) {
	var out []match.Candidate
	for _, c := range m.candidates {
		if strings.HasPrefix(c.Region.RegionCode, sggCode) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Apartment.AptID < out[j].Apartment.AptID
	})
	return out, nil
}
