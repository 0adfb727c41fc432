// Package resolver implements the offence resolver (§4.B): turning an
// offence_id or a free-text offence_query into a canonical domain.OffenceRecord.
package resolver

import (
	"context"
	"fmt"

	"github.com/sentencing-platform/calc-service/pkg/domain"
	"github.com/sentencing-platform/calc-service/pkg/store"
)

// fuzzySearchLimit is the row limit passed to search_offences; disambiguation
// only inspects whether more than one row came back, not the full limit.
const fuzzySearchLimit = 5

// ErrNoQuery is returned when neither an id nor a query was supplied; callers
// should have already rejected this at the validation layer (§4.A), but the
// resolver defends itself regardless.
var ErrNoQuery = fmt.Errorf("resolver: neither offence_id nor offence_query supplied")

// Result carries the resolved offence plus the trace lines the calculation
// and chat orchestrators append to their own trace.
type Result struct {
	Offence domain.OffenceRecord
	Trace   []string
}

// Resolver resolves offences by id (exact) or free text (fuzzy, trigram).
type Resolver struct {
	store store.Store
}

func New(s store.Store) *Resolver {
	return &Resolver{store: s}
}

// Resolve implements §4.B. When offenceID is non-empty it takes precedence
// over offenceQuery. store.ErrNotFound and store.ErrMalformedID are returned
// unwrapped so handlers can map them directly to 404/422.
func (r *Resolver) Resolve(ctx context.Context, offenceID, offenceQuery string) (Result, error) {
	if offenceID != "" {
		offence, err := r.store.FetchOffenceByID(ctx, offenceID)
		if err != nil {
			return Result{}, err
		}
		return Result{Offence: offence}, nil
	}

	if offenceQuery == "" {
		return Result{}, ErrNoQuery
	}

	hits, err := r.store.SearchOffences(ctx, offenceQuery, fuzzySearchLimit)
	if err != nil {
		return Result{}, err
	}
	if len(hits) == 0 {
		return Result{}, store.ErrNotFound
	}

	best := hits[0]
	trace := []string{fmt.Sprintf("Resolved offence query '%s' to '%s' (%s).", offenceQuery, best.Offence.CanonicalName, best.Offence.ID)}
	if len(hits) > 1 {
		trace = append(trace, fmt.Sprintf("Multiple offences matched '%s'; selected the closest match, '%s'.", offenceQuery, best.Offence.CanonicalName))
	}

	return Result{Offence: best.Offence, Trace: trace}, nil
}
