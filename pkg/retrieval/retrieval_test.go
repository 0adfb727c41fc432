package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentencing-platform/calc-service/pkg/domain"
	"github.com/sentencing-platform/calc-service/pkg/store"
)

type fakeEmbedder struct {
	embedding []float32
	err       error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return f.embedding, f.err
}

type fakeStore struct {
	store.Store
	hybridHits []store.ChunkHit
	hybridErr  error
	textHits   []store.ChunkHit
	textErr    error

	hybridCalls int
	textCalls   int
}

func (f *fakeStore) SearchChunksHybrid(ctx context.Context, query string, embedding []float32, topK int, offenceID string) ([]store.ChunkHit, error) {
	f.hybridCalls++
	return f.hybridHits, f.hybridErr
}

func (f *fakeStore) SearchChunksText(ctx context.Context, query string, topK int, offenceID string) ([]store.ChunkHit, error) {
	f.textCalls++
	return f.textHits, f.textErr
}

func TestSearch_UsesHybridWhenEmbeddingSucceeds(t *testing.T) {
	fs := &fakeStore{hybridHits: []store.ChunkHit{{Chunk: domain.GuidelineChunk{ID: "c1"}}}}
	o := New(fs, &fakeEmbedder{embedding: []float32{0.1, 0.2}}, true, 6)

	hits, err := o.Search(context.Background(), "burglary", nil, "")

	require.NoError(t, err)
	assert.Equal(t, 1, fs.hybridCalls)
	assert.Equal(t, 0, fs.textCalls)
	assert.Len(t, hits, 1)
}

func TestSearch_FallsBackToLexicalOnEmbeddingFailure(t *testing.T) {
	fs := &fakeStore{textHits: []store.ChunkHit{{Chunk: domain.GuidelineChunk{ID: "c2"}}}}
	o := New(fs, &fakeEmbedder{err: errors.New("network error")}, true, 6)

	hits, err := o.Search(context.Background(), "burglary", nil, "")

	require.NoError(t, err)
	assert.Equal(t, 0, fs.hybridCalls)
	assert.Equal(t, 1, fs.textCalls)
	assert.Len(t, hits, 1)
}

func TestSearch_FallsBackToLexicalWhenVectorSearchDisabled(t *testing.T) {
	fs := &fakeStore{textHits: []store.ChunkHit{{Chunk: domain.GuidelineChunk{ID: "c3"}}}}
	o := New(fs, &fakeEmbedder{embedding: []float32{0.1}}, false, 6)

	_, err := o.Search(context.Background(), "burglary", nil, "")

	require.NoError(t, err)
	assert.Equal(t, 0, fs.hybridCalls)
	assert.Equal(t, 1, fs.textCalls)
}

func TestSearch_FallsBackToLexicalOnHybridStoreError(t *testing.T) {
	fs := &fakeStore{hybridErr: errors.New("db timeout"), textHits: []store.ChunkHit{{}}}
	o := New(fs, &fakeEmbedder{embedding: []float32{0.1}}, true, 6)

	_, err := o.Search(context.Background(), "burglary", nil, "")

	require.NoError(t, err)
	assert.Equal(t, 1, fs.hybridCalls)
	assert.Equal(t, 1, fs.textCalls)
}

func TestClampTopK(t *testing.T) {
	o := New(&fakeStore{}, nil, true, 6)

	assert.Equal(t, 6, o.ClampTopK(nil))
	assert.Equal(t, 1, o.ClampTopK(intPtr(0)))
	assert.Equal(t, 20, o.ClampTopK(intPtr(50)))
	assert.Equal(t, 10, o.ClampTopK(intPtr(10)))
}

func intPtr(v int) *int { return &v }
