// Package retrieval implements the hybrid guideline-chunk retrieval
// orchestrator (§4.K): embed the query when possible, fall back to
// lexical-only search when vector search is disabled or embedding fails.
package retrieval

import (
	"context"
	"log"
	"time"

	"github.com/sentencing-platform/calc-service/pkg/monitoring"
	"github.com/sentencing-platform/calc-service/pkg/store"
)

const (
	minTopK     = 1
	maxTopK     = 20
	defaultTopK = 6
)

type Orchestrator struct {
	store              store.Store
	embedder           Embedder
	enableVectorSearch bool
	topKDefault        int
	metrics            *monitoring.MetricsCollector
}

func New(s store.Store, embedder Embedder, enableVectorSearch bool, topKDefault int) *Orchestrator {
	if topKDefault <= 0 {
		topKDefault = defaultTopK
	}
	return &Orchestrator{
		store:              s,
		embedder:           embedder,
		enableVectorSearch: enableVectorSearch,
		topKDefault:        topKDefault,
	}
}

// WithMetrics attaches a metrics collector that records per-search latency
// and the hybrid/lexical split. Optional; Search works without one.
func (o *Orchestrator) WithMetrics(m *monitoring.MetricsCollector) *Orchestrator {
	o.metrics = m
	return o
}

// ClampTopK applies §4.K's "clamped 1..20" rule, substituting the
// configured default when topK is nil.
func (o *Orchestrator) ClampTopK(topK *int) int {
	if topK == nil {
		return o.topKDefault
	}
	v := *topK
	if v < minTopK {
		return minTopK
	}
	if v > maxTopK {
		return maxTopK
	}
	return v
}

// Search runs the hybrid-then-lexical-fallback pipeline for a query,
// optionally scoped to an offence.
func (o *Orchestrator) Search(ctx context.Context, query string, topK *int, offenceID string) ([]store.ChunkHit, error) {
	start := time.Now()
	mode := "lexical"
	hits, err := o.search(ctx, query, topK, offenceID, &mode)
	if o.metrics != nil {
		o.metrics.RecordOperation(err == nil, time.Since(start))
		o.metrics.RecordCounter("retrieval_searches_"+mode, 1, map[string]string{"mode": mode})
	}
	return hits, err
}

func (o *Orchestrator) search(ctx context.Context, query string, topK *int, offenceID string, mode *string) ([]store.ChunkHit, error) {
	k := o.ClampTopK(topK)

	if o.enableVectorSearch && o.embedder != nil {
		embedding, err := o.embedder.Embed(ctx, query)
		if err == nil {
			hits, err := o.store.SearchChunksHybrid(ctx, query, embedding, k, offenceID)
			if err == nil {
				*mode = "hybrid"
				return hits, nil
			}
			log.Printf("retrieval: hybrid search failed, falling back to lexical: %v", err)
		} else {
			log.Printf("retrieval: embedding failed, falling back to lexical: %v", err)
		}
	}

	return o.store.SearchChunksText(ctx, query, k, offenceID)
}
