// Package handlers wires the HTTP surface (§6) onto the domain orchestrators.
package handlers

import (
	"context"
	"fmt"

	"github.com/sentencing-platform/calc-service/internal/config"
	"github.com/sentencing-platform/calc-service/pkg/audit"
	"github.com/sentencing-platform/calc-service/pkg/calc"
	"github.com/sentencing-platform/calc-service/pkg/chat"
	"github.com/sentencing-platform/calc-service/pkg/matrix"
	"github.com/sentencing-platform/calc-service/pkg/monitoring"
	"github.com/sentencing-platform/calc-service/pkg/resolver"
	"github.com/sentencing-platform/calc-service/pkg/retrieval"
	"github.com/sentencing-platform/calc-service/pkg/store"
)

// Handlers aggregates every route handler plus the services they depend on
// that need an explicit startup/shutdown lifecycle.
type Handlers struct {
	Health    *HealthHandler
	Calculate *CalculateHandler
	Search    *SearchHandler
	Chat      *ChatHandler

	store *store.PostgresStore
	audit *audit.Writer
}

// New builds the full dependency graph from configuration: the Postgres
// store, the offence resolver and matrix lookup, the best-effort audit
// writer, the optional embedding-backed retrieval orchestrator, and the
// calculation and chat orchestrators composed on top of them.
func New(cfg *config.Config) (*Handlers, error) {
	s, err := store.NewPostgresStore(store.PostgresConfig{
		DatabaseURL:     cfg.Store.DatabaseURL,
		MaxOpenConns:    cfg.Store.MaxOpenConns,
		MaxIdleConns:    cfg.Store.MaxIdleConns,
		ConnMaxLifetime: cfg.Store.ConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to store: %w", err)
	}

	metrics := monitoring.NewMetricsCollector()

	r := resolver.New(s)
	m := matrix.New(s)
	auditWriter := audit.NewWriter(s, cfg.Audit.Workers, cfg.Audit.QueueSize)
	calcOrchestrator := calc.New(r, m, auditWriter).WithMetrics(metrics)

	var embedder retrieval.Embedder
	if cfg.Embedding.APIKey != "" {
		embedder = retrieval.NewOpenAIEmbedder(cfg.Embedding.APIKey, cfg.Embedding.Model, cfg.Embedding.Timeout)
	}
	retrievalOrchestrator := retrieval.New(s, embedder, cfg.Retrieval.EnableVectorSearch, cfg.Retrieval.TopKDefault).WithMetrics(metrics)

	chatOrchestrator := chat.New(calcOrchestrator, retrievalOrchestrator)

	return &Handlers{
		Health:    NewHealthHandler(s),
		Calculate: NewCalculateHandler(calcOrchestrator),
		Search:    NewSearchHandler(retrievalOrchestrator),
		Chat:      NewChatHandler(chatOrchestrator),
		store:     s,
		audit:     auditWriter,
	}, nil
}

// Start brings up background services (the audit writer's worker pool).
func (h *Handlers) Start(ctx context.Context) {
	h.audit.Start(ctx)
}

// Stop drains the audit writer and closes the store's connection pool.
func (h *Handlers) Stop(ctx context.Context) {
	h.audit.Stop(ctx)
	if err := h.store.Close(); err != nil {
		fmt.Printf("closing store: %v\n", err)
	}
}
