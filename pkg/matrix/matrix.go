// Package matrix implements the culpability/harm sentencing matrix lookup
// (§4.C): fetching all matrix rows for an offence and matching the request's
// culpability/harm labels against them.
package matrix

import (
	"context"
	"strings"

	"github.com/sentencing-platform/calc-service/pkg/domain"
	"github.com/sentencing-platform/calc-service/pkg/store"
)

type Lookup struct {
	store store.Store
}

func New(s store.Store) *Lookup {
	return &Lookup{store: s}
}

// Find implements §4.C's two-pass matching: exact case-folded equality on
// both culpability and harm, falling back to case-folded substring
// containment (request label inside row label) on both. No match is not an
// error — it yields a nil *domain.SentencingMatrixRow.
func (l *Lookup) Find(ctx context.Context, offenceID, culpability, harm string) (*domain.SentencingMatrixRow, error) {
	rows, err := l.store.FetchSentencingMatrix(ctx, offenceID)
	if err != nil {
		return nil, err
	}
	if culpability == "" || harm == "" {
		return nil, nil
	}

	reqCulp := strings.ToLower(culpability)
	reqHarm := strings.ToLower(harm)

	for i := range rows {
		if strings.EqualFold(rows[i].Culpability, culpability) && strings.EqualFold(rows[i].Harm, harm) {
			return &rows[i], nil
		}
	}

	for i := range rows {
		rowCulp := strings.ToLower(rows[i].Culpability)
		rowHarm := strings.ToLower(rows[i].Harm)
		if strings.Contains(rowCulp, reqCulp) && strings.Contains(rowHarm, reqHarm) {
			return &rows[i], nil
		}
	}

	return nil, nil
}
