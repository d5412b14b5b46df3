package history

import (
	"context"
	"testing"
	"time"

	"github.com/shridharbhandiwad/RSCU-Animation/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Options{Threads: 1})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func reading(sec int, supply float64) models.Readings {
	return models.Readings{
		Timestamp:  base.Add(time.Duration(sec) * time.Second),
		SimTime:    float64(sec),
		Running:    true,
		SupplyTemp: supply,
		ReturnTemp: supply + 5,
		FlowRate:   50,
	}
}

func TestRecordAndQuery(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Record(ctx, reading(i, 20+float64(i))))
	}

	points, err := s.Query(ctx, time.Time{}, 0)
	require.NoError(t, err)
	require.Len(t, points, 5)
	assert.True(t, points[0].Timestamp.Equal(base))
	assert.Equal(t, 20.0, points[0].SupplyTemp)
	assert.Equal(t, 25.0, points[0].ReturnTemp)
	assert.True(t, points[0].Running)
	assert.Equal(t, 24.0, points[4].SupplyTemp)
}

func TestQueryWindowAndLimit(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	for i := 0; i < 10; i++ {
		require.NoError(t, s.Record(ctx, reading(i, float64(i))))
	}

	tests := []struct {
		name      string
		since     time.Time
		limit     int
		wantFirst float64
		wantLen   int
	}{
		{"all", time.Time{}, 0, 0, 10},
		{"since", base.Add(7 * time.Second), 0, 7, 3},
		{"newest first cut", time.Time{}, 4, 6, 4},
		{"since and limit", base.Add(2 * time.Second), 3, 7, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points, err := s.Query(ctx, tt.since, tt.limit)
			require.NoError(t, err)
			require.Len(t, points, tt.wantLen)
			assert.Equal(t, tt.wantFirst, points[0].SupplyTemp)
			for i := 1; i < len(points); i++ {
				assert.True(t, points[i].Timestamp.After(points[i-1].Timestamp))
			}
		})
	}
}

func TestPrune(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	for i := 0; i < 6; i++ {
		require.NoError(t, s.Record(ctx, reading(i, 0)))
	}

	n, err := s.Prune(ctx, base.Add(4*time.Second))
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	count, err := s.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestSamplerThrottlesAndRetains(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	sink := s.Sampler(time.Second, 3*time.Second)

	// Ten polls per second for six seconds.
	for i := 0; i <= 60; i++ {
		r := reading(0, float64(i))
		r.Timestamp = base.Add(time.Duration(i) * 100 * time.Millisecond)
		sink(r)
	}

	points, err := s.Query(ctx, time.Time{}, 0)
	require.NoError(t, err)
	// Samples at 0..6 s, then everything before 3 s is dropped.
	require.Len(t, points, 4)
	assert.True(t, points[0].Timestamp.Equal(base.Add(3*time.Second)))
	assert.Equal(t, 60.0, points[3].SupplyTemp)
}
