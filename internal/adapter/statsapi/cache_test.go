package statsapi

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redhatsam09/planmyfest1/internal/domain"
	"github.com/redhatsam09/planmyfest1/internal/observability"
)

// countingOddsClient records how many times the backend was actually hit.
type countingOddsClient struct {
	calls  int
	result domain.OddsResult
	err    error
}

func (c *countingOddsClient) DayOfYearOdds(ctx context.Context, q domain.OddsQuery) (domain.OddsResult, error) {
	c.calls++
	return c.result, c.err
}

func sampledResult() domain.OddsResult {
	return domain.OddsResult{
		Probabilities: map[string]float64{"T2M": 0.5},
		NSamples:      25,
		Source:        "NASA POWER",
	}
}

func TestCachedClient_RepeatQueryHitsCache(t *testing.T) {
	inner := &countingOddsClient{result: sampledResult()}
	cached := NewCachedClient(inner, 10, observability.NewMetricsForTesting())
	q := testQuery()

	first, err := cached.DayOfYearOdds(context.Background(), q)
	require.NoError(t, err)
	second, err := cached.DayOfYearOdds(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, first, second)
}

func TestCachedClient_DifferentQueriesMiss(t *testing.T) {
	inner := &countingOddsClient{result: sampledResult()}
	cached := NewCachedClient(inner, 10, observability.NewMetricsForTesting())

	q1 := testQuery()
	q2 := testQuery()
	q2.Day = 10

	_, err := cached.DayOfYearOdds(context.Background(), q1)
	require.NoError(t, err)
	_, err = cached.DayOfYearOdds(context.Background(), q2)
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
}

func TestCachedClient_EmptyResultNotCached(t *testing.T) {
	inner := &countingOddsClient{result: domain.OddsResult{NSamples: 0}}
	cached := NewCachedClient(inner, 10, observability.NewMetricsForTesting())
	q := testQuery()

	_, err := cached.DayOfYearOdds(context.Background(), q)
	require.NoError(t, err)
	_, err = cached.DayOfYearOdds(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls, "empty results should be retried")
}

func TestCachedClient_ErrorNotCached(t *testing.T) {
	inner := &countingOddsClient{err: errors.New("backend down")}
	cached := NewCachedClient(inner, 10, observability.NewMetricsForTesting())
	q := testQuery()

	_, err := cached.DayOfYearOdds(context.Background(), q)
	require.Error(t, err)
	_, err = cached.DayOfYearOdds(context.Background(), q)
	require.Error(t, err)

	assert.Equal(t, 2, inner.calls)
}

func TestCacheKey_FoldsThresholds(t *testing.T) {
	q1 := domain.NewOddsQuery(40.0, -74.0, time.Date(2025, time.July, 4, 0, 0, 0, 0, time.UTC), 1995, 2024)
	q2 := q1
	q2.Thresholds.HotTempC = 99

	assert.NotEqual(t, cacheKey(q1), cacheKey(q2))
}

func TestLRUCache_BasicGetPut(t *testing.T) {
	cache := newLRUCache(3)

	_, ok := cache.get("a")
	assert.False(t, ok)

	cache.put("a", domain.OddsResult{NSamples: 1})
	got, ok := cache.get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, got.NSamples)
}

func TestLRUCache_Eviction(t *testing.T) {
	cache := newLRUCache(2)

	cache.put("a", domain.OddsResult{NSamples: 1})
	cache.put("b", domain.OddsResult{NSamples: 2})
	cache.put("c", domain.OddsResult{NSamples: 3})

	_, ok := cache.get("a")
	assert.False(t, ok, "oldest entry should be evicted")
	_, ok = cache.get("b")
	assert.True(t, ok)
	_, ok = cache.get("c")
	assert.True(t, ok)
}

func TestLRUCache_AccessPromotesEntry(t *testing.T) {
	cache := newLRUCache(2)

	cache.put("a", domain.OddsResult{NSamples: 1})
	cache.put("b", domain.OddsResult{NSamples: 2})

	_, ok := cache.get("a")
	require.True(t, ok)

	cache.put("c", domain.OddsResult{NSamples: 3})

	_, ok = cache.get("a")
	assert.True(t, ok, "recently used entry should survive")
	_, ok = cache.get("b")
	assert.False(t, ok)
}

func TestLRUCache_UpdateExisting(t *testing.T) {
	cache := newLRUCache(2)

	cache.put("a", domain.OddsResult{NSamples: 1})
	cache.put("a", domain.OddsResult{NSamples: 9})

	got, ok := cache.get("a")
	require.True(t, ok)
	assert.Equal(t, 9, got.NSamples)
}
