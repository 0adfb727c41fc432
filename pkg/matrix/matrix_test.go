package matrix

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentencing-platform/calc-service/pkg/domain"
	"github.com/sentencing-platform/calc-service/pkg/store"
)

type fakeStore struct {
	store.Store
	rows []domain.SentencingMatrixRow
}

func (f *fakeStore) FetchSentencingMatrix(ctx context.Context, offenceID string) ([]domain.SentencingMatrixRow, error) {
	return f.rows, nil
}

func TestFind_ExactMatch(t *testing.T) {
	fs := &fakeStore{rows: []domain.SentencingMatrixRow{
		{MatrixID: "1", Culpability: "High", Harm: "Category 1"},
		{MatrixID: "2", Culpability: "Lesser", Harm: "Category 2"},
	}}
	l := New(fs)

	row, err := l.Find(context.Background(), "off-1", "high", "category 1")

	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "1", row.MatrixID)
}

func TestFind_SubstringFallback(t *testing.T) {
	fs := &fakeStore{rows: []domain.SentencingMatrixRow{
		{MatrixID: "1", Culpability: "Culpability A - high", Harm: "Harm category 1 - greater harm"},
	}}
	l := New(fs)

	row, err := l.Find(context.Background(), "off-1", "high", "category 1")

	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "1", row.MatrixID)
}

func TestFind_NoMatch(t *testing.T) {
	fs := &fakeStore{rows: []domain.SentencingMatrixRow{
		{MatrixID: "1", Culpability: "High", Harm: "Category 1"},
	}}
	l := New(fs)

	row, err := l.Find(context.Background(), "off-1", "lesser", "category 3")

	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestFind_EmptyLabels(t *testing.T) {
	fs := &fakeStore{rows: []domain.SentencingMatrixRow{{MatrixID: "1"}}}
	l := New(fs)

	row, err := l.Find(context.Background(), "off-1", "", "")

	require.NoError(t, err)
	assert.Nil(t, row)
}
