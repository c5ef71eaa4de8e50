// Package catalog provides region-scoped read access to the apartment
// reference data. The matcher only ever sees the prefetched, joined rows.
package catalog

import (
	"context"

	"github.com/techeer-11-team-k/aptmatch/internal/match"
)

// Catalog serves region-scoped candidate prefetches. Implementations are
// read-only from the matcher's point of view.
type Catalog interface {
	// PrefetchRegion loads every apartment in the city/county identified by
	// the 5-digit sggCode, joined with its region and optional detail row.
	PrefetchRegion(ctx context.Context, sggCode string) ([]match.Candidate, error)
}
