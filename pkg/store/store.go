// Package store defines the relational DB RPC contract (§6 of the
// specification) and a Postgres/Supabase-backed implementation.
package store

import (
	"context"

	"github.com/sentencing-platform/calc-service/pkg/domain"
)

// OffenceSearchHit is a fuzzy-search row plus its trigram similarity score.
type OffenceSearchHit struct {
	Offence domain.OffenceRecord
	Score   float64
}

// ChunkHit is a guideline chunk retrieval result plus its ranking score(s).
type ChunkHit struct {
	Chunk      domain.GuidelineChunk
	TextScore  float64
	VectorScore float64
}

// Store is the DB RPC contract the calculation and retrieval orchestrators
// depend on. Implementations are process-scoped handles injected into the
// orchestrators, never read from package-level state (§9 design note).
type Store interface {
	// FetchOffenceByID resolves an offence by its UUID. Returns ErrNotFound
	// when no row exists, ErrMalformedID when the store reports the id as
	// not a valid UUID.
	FetchOffenceByID(ctx context.Context, id string) (domain.OffenceRecord, error)

	// SearchOffences performs a fuzzy trigram-similarity search over
	// canonical_name / short_name / provision, ordered by score desc then
	// canonical name asc.
	SearchOffences(ctx context.Context, query string, limit int) ([]OffenceSearchHit, error)

	// FetchSentencingMatrix returns the culpability/harm matrix rows for an
	// offence, deduplicated on matrix_id.
	FetchSentencingMatrix(ctx context.Context, offenceID string) ([]domain.SentencingMatrixRow, error)

	// SearchChunksText performs lexical-only guideline chunk search.
	SearchChunksText(ctx context.Context, query string, topK int, offenceID string) ([]ChunkHit, error)

	// SearchChunksHybrid performs vector+lexical fused guideline chunk search.
	SearchChunksHybrid(ctx context.Context, query string, embedding []float32, topK int, offenceID string) ([]ChunkHit, error)

	// StoreCalculationAudit persists a best-effort audit row. Callers MUST
	// treat failures from this method as non-fatal to the request.
	StoreCalculationAudit(ctx context.Context, offenceID string, requestPayload, resultPayload []byte) error

	// Ping verifies store reachability, used by the /health handler.
	Ping(ctx context.Context) error

	// Close releases the underlying connection pool.
	Close() error
}

// Sentinel resolution errors, mapped onto HTTP status codes by the resolver
// and handlers (§4.B, §7).
var (
	ErrNotFound     = storeError("offence not found")
	ErrMalformedID  = storeError("malformed offence id")
)

type storeError string

func (e storeError) Error() string { return string(e) }
