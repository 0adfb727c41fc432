package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/sentencing-platform/calc-service/pkg/domain"
)

// PostgresStore talks to a Postgres/Supabase instance exposing the RPC
// functions named in §6 as plain SQL functions, invoked via
// SELECT * FROM fn(...).
type PostgresStore struct {
	db *sql.DB
}

// PostgresConfig configures the connection to the Supabase/Postgres backend.
type PostgresConfig struct {
	// DatabaseURL is a full postgres:// connection string. It is required:
	// buildDSN returns an error when it is empty, and nothing is derived
	// from the Supabase URL.
	DatabaseURL        string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetime    time.Duration
	ConnectTimeoutSecs int
}

// NewPostgresStore opens (and pings) a connection pool against the
// configured Postgres backend. Mirrors the fail-fast-on-bad-DSN pattern
// used for this service's relational dependency across the corpus.
func NewPostgresStore(cfg PostgresConfig) (*PostgresStore, error) {
	dsn, err := buildDSN(cfg)
	if err != nil {
		return nil, fmt.Errorf("building postgres dsn: %w", err)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres connection: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func buildDSN(cfg PostgresConfig) (string, error) {
	if cfg.DatabaseURL == "" {
		return "", fmt.Errorf("DATABASE_URL is required")
	}

	u, err := url.Parse(cfg.DatabaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid DATABASE_URL: %w", err)
	}

	q := u.Query()
	timeout := cfg.ConnectTimeoutSecs
	if timeout <= 0 {
		timeout = 10
	}
	if q.Get("connect_timeout") == "" {
		q.Set("connect_timeout", fmt.Sprintf("%d", timeout))
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) FetchOffenceByID(ctx context.Context, id string) (domain.OffenceRecord, error) {
	const q = `SELECT id, canonical_name, short_name, category, provision,
		guideline_url, legislation_url, max_sentence_type, max_sentence_amount,
		minimum_code, specified_violent, specified_sexual, specified_terrorist,
		listed_offence, schedule18a_offence, schedule19za, cta_notification
		FROM fetch_offence_by_id($1)`

	row := s.db.QueryRowContext(ctx, q, id)
	offence, err := scanOffence(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.OffenceRecord{}, ErrNotFound
		}
		if isMalformedUUID(err) {
			return domain.OffenceRecord{}, ErrMalformedID
		}
		return domain.OffenceRecord{}, fmt.Errorf("fetch_offence_by_id: %w", err)
	}
	return offence, nil
}

func (s *PostgresStore) SearchOffences(ctx context.Context, query string, limit int) ([]OffenceSearchHit, error) {
	const q = `SELECT id, canonical_name, short_name, category, provision,
		guideline_url, legislation_url, max_sentence_type, max_sentence_amount,
		minimum_code, specified_violent, specified_sexual, specified_terrorist,
		listed_offence, schedule18a_offence, schedule19za, cta_notification, score
		FROM search_offences($1, $2)
		ORDER BY score DESC, canonical_name ASC`

	rows, err := s.db.QueryContext(ctx, q, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search_offences: %w", err)
	}
	defer rows.Close()

	var hits []OffenceSearchHit
	for rows.Next() {
		var o domain.OffenceRecord
		var score float64
		var minCode string
		if err := rows.Scan(&o.ID, &o.CanonicalName, &o.ShortName, &o.Category, &o.Provision,
			&o.GuidelineURL, &o.LegislationURL, &o.MaxSentenceType, &o.MaxSentenceAmount,
			&minCode, &o.SpecifiedViolent, &o.SpecifiedSexual, &o.SpecifiedTerrorist,
			&o.ListedOffence, &o.Schedule18A, &o.Schedule19ZA, &o.CTANotification, &score); err != nil {
			return nil, fmt.Errorf("scanning offence search row: %w", err)
		}
		o.MinimumCode = domain.MinimumCode(minCode)
		if !o.MinimumCode.Known() {
			return nil, fmt.Errorf("offence %s: unrecognised minimum_code %q", o.ID, minCode)
		}
		hits = append(hits, OffenceSearchHit{Offence: o, Score: score})
	}
	return hits, rows.Err()
}

func (s *PostgresStore) FetchSentencingMatrix(ctx context.Context, offenceID string) ([]domain.SentencingMatrixRow, error) {
	const q = `SELECT DISTINCT ON (matrix_id) matrix_id, culpability, harm, starting_point_text, category_range_text
		FROM fetch_sentencing_matrix($1)`

	rows, err := s.db.QueryContext(ctx, q, offenceID)
	if err != nil {
		return nil, fmt.Errorf("fetch_sentencing_matrix: %w", err)
	}
	defer rows.Close()

	var result []domain.SentencingMatrixRow
	for rows.Next() {
		var r domain.SentencingMatrixRow
		if err := rows.Scan(&r.MatrixID, &r.Culpability, &r.Harm, &r.StartingPointText, &r.CategoryRangeText); err != nil {
			return nil, fmt.Errorf("scanning matrix row: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

func (s *PostgresStore) SearchChunksText(ctx context.Context, query string, topK int, offenceID string) ([]ChunkHit, error) {
	const q = `SELECT id, offence_id, guideline_id, heading, chunk_text, source_url, ts_rank
		FROM search_chunks_text($1, $2, $3)`

	rows, err := s.db.QueryContext(ctx, q, query, topK, nullableUUID(offenceID))
	if err != nil {
		return nil, fmt.Errorf("search_chunks_text: %w", err)
	}
	defer rows.Close()
	return scanChunkHits(rows, false)
}

func (s *PostgresStore) SearchChunksHybrid(ctx context.Context, query string, embedding []float32, topK int, offenceID string) ([]ChunkHit, error) {
	const q = `SELECT id, offence_id, guideline_id, heading, chunk_text, source_url, text_score, vector_score
		FROM search_chunks_hybrid($1, $2, $3, $4)`

	rows, err := s.db.QueryContext(ctx, q, query, pqFloatVector(embedding), topK, nullableUUID(offenceID))
	if err != nil {
		return nil, fmt.Errorf("search_chunks_hybrid: %w", err)
	}
	defer rows.Close()
	return scanChunkHits(rows, true)
}

func (s *PostgresStore) StoreCalculationAudit(ctx context.Context, offenceID string, requestPayload, resultPayload []byte) error {
	const q = `SELECT store_calculation_audit($1, $2, $3)`
	_, err := s.db.ExecContext(ctx, q, nullableUUID(offenceID), json.RawMessage(requestPayload), json.RawMessage(resultPayload))
	return err
}

func scanOffence(row *sql.Row) (domain.OffenceRecord, error) {
	var o domain.OffenceRecord
	var minCode string
	err := row.Scan(&o.ID, &o.CanonicalName, &o.ShortName, &o.Category, &o.Provision,
		&o.GuidelineURL, &o.LegislationURL, &o.MaxSentenceType, &o.MaxSentenceAmount,
		&minCode, &o.SpecifiedViolent, &o.SpecifiedSexual, &o.SpecifiedTerrorist,
		&o.ListedOffence, &o.Schedule18A, &o.Schedule19ZA, &o.CTANotification)
	if err != nil {
		return domain.OffenceRecord{}, err
	}
	o.MinimumCode = domain.MinimumCode(minCode)
	if !o.MinimumCode.Known() {
		return domain.OffenceRecord{}, fmt.Errorf("offence %s: unrecognised minimum_code %q", o.ID, minCode)
	}
	return o, nil
}

func scanChunkHits(rows *sql.Rows, hybrid bool) ([]ChunkHit, error) {
	var hits []ChunkHit
	for rows.Next() {
		var h ChunkHit
		if hybrid {
			if err := rows.Scan(&h.Chunk.ID, &h.Chunk.OffenceID, &h.Chunk.GuidelineID, &h.Chunk.Heading,
				&h.Chunk.Text, &h.Chunk.SourceURL, &h.TextScore, &h.VectorScore); err != nil {
				return nil, fmt.Errorf("scanning hybrid chunk row: %w", err)
			}
			h.Chunk.Score = 0.75*(1-h.VectorScore) + 0.25*h.TextScore
		} else {
			if err := rows.Scan(&h.Chunk.ID, &h.Chunk.OffenceID, &h.Chunk.GuidelineID, &h.Chunk.Heading,
				&h.Chunk.Text, &h.Chunk.SourceURL, &h.TextScore); err != nil {
				return nil, fmt.Errorf("scanning text chunk row: %w", err)
			}
			h.Chunk.Score = h.TextScore
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

func nullableUUID(id string) sql.NullString {
	if id == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: id, Valid: true}
}

// pqFloatVector renders an embedding as a pgvector literal, e.g. "[0.1,0.2]".
func pqFloatVector(embedding []float32) string {
	if len(embedding) == 0 {
		return "[]"
	}
	parts := make([]string, len(embedding))
	for i, v := range embedding {
		parts[i] = fmt.Sprintf("%g", v)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func isMalformedUUID(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "invalid input syntax for type uuid") ||
		strings.Contains(strings.ToLower(err.Error()), "invalid uuid")
}
