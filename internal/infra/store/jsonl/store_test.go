package jsonl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/nutriscan/nutriscan-api/internal/domain/analyses"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "data", "analyses.jsonl"))
}

func record(id string, ts time.Time, product string) *domain.Record {
	return &domain.Record{
		ScanID:      domain.ScanID(id),
		Timestamp:   ts,
		ProductName: product,
		ExpiryDate:  "Not available",
		HealthScore: 5.0,
	}
}

func seed(t *testing.T, s *Store, n int) time.Time {
	t.Helper()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		rec := record(fmt.Sprintf("scan-%02d", i), base.Add(time.Duration(i)*time.Minute), fmt.Sprintf("Product %d", i))
		require.NoError(t, s.Append(context.Background(), rec))
	}
	return base
}

func TestListEmptyStore(t *testing.T) {
	s := newStore(t)

	page, err := s.List(context.Background(), domain.ListQuery{Limit: 10})
	require.NoError(t, err, "a missing log file is a normal first-run state")
	assert.Zero(t, page.Total)
	assert.Empty(t, page.Results)
	assert.False(t, page.HasMore)
}

func TestListNewestFirst(t *testing.T) {
	s := newStore(t)
	seed(t, s, 5)

	page, err := s.List(context.Background(), domain.ListQuery{Limit: 10})
	require.NoError(t, err)
	require.Equal(t, 5, page.Total)
	assert.Equal(t, domain.ScanID("scan-04"), page.Results[0].ScanID)
	assert.Equal(t, domain.ScanID("scan-00"), page.Results[4].ScanID)
}

func TestListPaginationIsDisjoint(t *testing.T) {
	s := newStore(t)
	seed(t, s, 7)

	first, err := s.List(context.Background(), domain.ListQuery{Offset: 0, Limit: 3})
	require.NoError(t, err)
	second, err := s.List(context.Background(), domain.ListQuery{Offset: 3, Limit: 3})
	require.NoError(t, err)
	both, err := s.List(context.Background(), domain.ListQuery{Offset: 0, Limit: 6})
	require.NoError(t, err)

	assert.True(t, first.HasMore)
	assert.Equal(t, 7, first.Total)

	var union []domain.ScanID
	for _, r := range first.Results {
		union = append(union, r.ScanID)
	}
	for _, r := range second.Results {
		union = append(union, r.ScanID)
	}
	var want []domain.ScanID
	for _, r := range both.Results {
		want = append(want, r.ScanID)
	}
	assert.Equal(t, want, union)
}

func TestListOffsetBeyondEnd(t *testing.T) {
	s := newStore(t)
	seed(t, s, 3)

	page, err := s.List(context.Background(), domain.ListQuery{Offset: 10, Limit: 5})
	require.NoError(t, err)
	assert.Empty(t, page.Results)
	assert.Equal(t, 3, page.Total)
	assert.False(t, page.HasMore)
}

func TestListProductNameFilter(t *testing.T) {
	s := newStore(t)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.Append(context.Background(), record("a", base, "Crunchy Granola Bar")))
	require.NoError(t, s.Append(context.Background(), record("b", base.Add(time.Minute), "Chocolate Wafer")))
	require.NoError(t, s.Append(context.Background(), record("c", base.Add(2*time.Minute), "GRANOLA clusters")))

	page, err := s.List(context.Background(), domain.ListQuery{Limit: 5, ProductName: "granola"})
	require.NoError(t, err)
	require.Equal(t, 2, page.Total, "total is the full filtered count")
	assert.Equal(t, domain.ScanID("c"), page.Results[0].ScanID, "newest first")
	assert.Equal(t, domain.ScanID("a"), page.Results[1].ScanID)
}

func TestDeleteIsIdempotent(t *testing.T) {
	s := newStore(t)
	seed(t, s, 3)

	removed, err := s.Delete(context.Background(), "scan-01")
	require.NoError(t, err)
	assert.True(t, removed)

	page, err := s.List(context.Background(), domain.ListQuery{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total, "exactly one record removed")

	removed, err = s.Delete(context.Background(), "scan-01")
	require.NoError(t, err)
	assert.False(t, removed, "second delete is not-found")
}

func TestDeleteMissingFile(t *testing.T) {
	s := newStore(t)

	removed, err := s.Delete(context.Background(), "scan-00")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestCorruptTrailingLineIsSkipped(t *testing.T) {
	s := newStore(t)
	seed(t, s, 2)

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_APPEND, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(`{"scanId": "partial`)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	page, err := s.List(context.Background(), domain.ListQuery{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
}

func TestRawShapeSurvivesRoundTrip(t *testing.T) {
	s := newStore(t)
	rec := record("flex", time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), "Flex Bar")
	rec.RecommendedPortion = map[string]any{"amount": 1.0, "unit": "bar", "grams": 45.0}
	rec.NutritionPerPortion = map[string]any{"energy": map[string]any{"value": 149.0, "unit": "kcal"}}
	require.NoError(t, s.Append(context.Background(), rec))

	page, err := s.List(context.Background(), domain.ListQuery{Limit: 1})
	require.NoError(t, err)
	got := page.Results[0]
	assert.Equal(t, rec.RecommendedPortion, got.RecommendedPortion)
	assert.Equal(t, rec.NutritionPerPortion, got.NutritionPerPortion)
}

func TestConcurrentAppends(t *testing.T) {
	s := newStore(t)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	done := make(chan error, 10)
	for i := 0; i < 10; i++ {
		go func(i int) {
			done <- s.Append(context.Background(), record(fmt.Sprintf("c-%02d", i), base, "Parallel"))
		}(i)
	}
	for i := 0; i < 10; i++ {
		require.NoError(t, <-done)
	}

	page, err := s.List(context.Background(), domain.ListQuery{Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 10, page.Total, "no interleaved partial lines")
}
