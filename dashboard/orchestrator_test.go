package dashboard

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaygate/relay/api"
)

type fakeBackend struct {
	mu      sync.Mutex
	queries []api.UsageQuery

	summary    *api.UsageSummary
	summaryErr error
	trend      []api.UsagePoint
	trendErr   error
	costs      []api.CostBreakdown
	costsErr   error

	// When non-nil, a call blocks on the returned channel (if any) before
	// responding.
	block func(q api.UsageQuery) <-chan struct{}
}

func (b *fakeBackend) record(q api.UsageQuery) {
	b.mu.Lock()
	b.queries = append(b.queries, q)
	block := b.block
	b.mu.Unlock()
	if block != nil {
		if gate := block(q); gate != nil {
			<-gate
		}
	}
}

func (b *fakeBackend) GetUsageSummary(ctx context.Context, q api.UsageQuery) (*api.UsageSummary, error) {
	b.record(q)
	if b.summaryErr != nil {
		return nil, b.summaryErr
	}
	if b.summary != nil {
		return b.summary, nil
	}
	return &api.UsageSummary{}, nil
}

func (b *fakeBackend) GetUsageTrend(ctx context.Context, q api.UsageQuery) ([]api.UsagePoint, error) {
	b.record(q)
	return b.trend, b.trendErr
}

func (b *fakeBackend) GetCostAnalysis(ctx context.Context, q api.UsageQuery) ([]api.CostBreakdown, error) {
	b.record(q)
	return b.costs, b.costsErr
}

func TestWindow(t *testing.T) {
	now := time.Date(2024, 5, 15, 13, 30, 0, 0, time.UTC)

	start, end := RangeWeek.Window(now)
	assert.Equal(t, "2024-05-08", start)
	assert.Equal(t, "2024-05-15", end)

	start, end = RangeMonth.Window(now)
	assert.Equal(t, "2024-04-15", start)
	assert.Equal(t, "2024-05-15", end)
}

func TestParseRange(t *testing.T) {
	r, err := ParseRange("7d")
	require.NoError(t, err)
	assert.Equal(t, RangeWeek, r)

	_, err = ParseRange("14d")
	assert.Error(t, err)
}

func TestFetchConsistentQuerySnapshot(t *testing.T) {
	backend := &fakeBackend{}
	o := NewOrchestrator(backend)
	o.now = func() time.Time { return time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC) }

	_, err := o.Fetch(context.Background(), Filter{Range: RangeWeek, Provider: "openai"})
	require.NoError(t, err)

	require.Len(t, backend.queries, 3)
	for _, q := range backend.queries {
		assert.Equal(t, "2024-05-08", q.StartDate)
		assert.Equal(t, "2024-05-15", q.EndDate)
		assert.Equal(t, "openai", q.Provider)
	}
}

func TestFetchFailsOnAnyError(t *testing.T) {
	backend := &fakeBackend{trendErr: errors.New("X")}
	o := NewOrchestrator(backend)

	data, err := o.Fetch(context.Background(), Filter{Range: RangeWeek})
	require.Error(t, err)
	assert.Equal(t, "X", err.Error())
	assert.Nil(t, data, "no partial data on failure")
	assert.Nil(t, o.Latest())
}

func TestAvailableProviders(t *testing.T) {
	backend := &fakeBackend{summary: &api.UsageSummary{
		Providers: map[string]api.ProviderUsage{
			"openai":    {Requests: 10},
			"anthropic": {Requests: 5},
		},
	}}
	o := NewOrchestrator(backend)

	data, err := o.Fetch(context.Background(), Filter{Range: RangeWeek})
	require.NoError(t, err)
	assert.Equal(t, []string{"anthropic", "openai"}, data.AvailableProviders())
}

// A pass superseded by a newer one must not overwrite the newer result when
// it eventually resolves.
func TestStalePassDiscarded(t *testing.T) {
	gate := make(chan struct{})
	backend := &fakeBackend{summary: &api.UsageSummary{TotalCost: "1.00"}}
	// Only the first pass, filtered to the slow provider, blocks on the gate.
	backend.block = func(q api.UsageQuery) <-chan struct{} {
		if q.Provider == "slow" {
			return gate
		}
		return nil
	}
	o := NewOrchestrator(backend)

	var staleData *Data
	var staleErr error
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		staleData, staleErr = o.Fetch(context.Background(), Filter{Range: RangeWeek, Provider: "slow"})
	}()

	// Wait until the slow pass is in flight.
	for {
		backend.mu.Lock()
		started := len(backend.queries) > 0
		backend.mu.Unlock()
		if started {
			break
		}
		time.Sleep(time.Millisecond)
	}

	// A newer pass with a changed filter completes first.
	newer, err := o.Fetch(context.Background(), Filter{Range: RangeMonth})
	require.NoError(t, err)
	assert.Equal(t, "1.00", newer.Summary.TotalCost)

	// Now let the older pass finish. It must surface as superseded, not as a
	// renderable result.
	close(gate)
	wg.Wait()
	assert.Nil(t, staleData)
	assert.ErrorIs(t, staleErr, ErrPassSuperseded)

	latest := o.Latest()
	require.NotNil(t, latest)
	assert.Equal(t, RangeMonth, latest.Filter.Range, "stale pass must not overwrite the newer result")
}

func TestCostArithmetic(t *testing.T) {
	total, err := SumCosts([]api.CostBreakdown{
		{Provider: "openai", Cost: "0.10"},
		{Provider: "anthropic", Cost: "0.20"},
		{Provider: "google", Cost: "0.0001"},
	})
	require.NoError(t, err)
	assert.Equal(t, "0.3001", total.String())

	_, err = SumCosts([]api.CostBreakdown{{Cost: "not-a-number"}})
	assert.Error(t, err)
}

func TestTotalCostEmptySummary(t *testing.T) {
	d := &Data{}
	total, err := d.TotalCost()
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}
