// Package dashboard turns a (time range, provider) filter into parallel
// tenant-scoped usage queries and aggregates the results for display.
package dashboard

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/relaygate/relay/api"
)

const fetchTimeout = 30 * time.Second

// ErrPassSuperseded is returned by Fetch when a newer pass completed first.
// The pass's data is discarded and never published.
var ErrPassSuperseded = errors.New("dashboard pass superseded by a newer fetch")

type backend interface {
	GetUsageSummary(ctx context.Context, q api.UsageQuery) (*api.UsageSummary, error)
	GetUsageTrend(ctx context.Context, q api.UsageQuery) ([]api.UsagePoint, error)
	GetCostAnalysis(ctx context.Context, q api.UsageQuery) ([]api.CostBreakdown, error)
}

// Filter selects what a dashboard pass fetches.
type Filter struct {
	Range    Range
	Provider string
}

// Data is one consistent dashboard snapshot: all three reads from a single
// pass over the same date window and filter.
type Data struct {
	Filter  Filter
	Summary *api.UsageSummary
	Trend   []api.UsagePoint
	Costs   []api.CostBreakdown
}

// AvailableProviders derives the provider filter options from the summary's
// per-provider breakdown, so options always match the data actually present.
func (d *Data) AvailableProviders() []string {
	if d.Summary == nil {
		return nil
	}
	providers := make([]string, 0, len(d.Summary.Providers))
	for p := range d.Summary.Providers {
		providers = append(providers, p)
	}
	sort.Strings(providers)
	return providers
}

// TotalCost parses the summary's cost as an exact decimal.
func (d *Data) TotalCost() (decimal.Decimal, error) {
	if d.Summary == nil || d.Summary.TotalCost == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(d.Summary.TotalCost)
}

// SumCosts adds cost-analysis rows with exact decimal arithmetic.
func SumCosts(rows []api.CostBreakdown) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, row := range rows {
		cost, err := decimal.NewFromString(row.Cost)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(cost)
	}
	return total, nil
}

// Orchestrator runs dashboard passes. A pass that has been superseded by a
// newer one never becomes Latest, so consumers cannot render stale data.
type Orchestrator struct {
	backend backend
	timeout time.Duration
	now     func() time.Time

	mu        sync.Mutex
	gen       uint64
	latestGen uint64
	latest    *Data
}

// NewOrchestrator creates an orchestrator over the given backend.
func NewOrchestrator(backend backend) *Orchestrator {
	return &Orchestrator{
		backend: backend,
		timeout: fetchTimeout,
		now:     time.Now,
	}
}

// Fetch runs one dashboard pass: summary, trend, and cost analysis in
// parallel, all over a single snapshot of the filter's date window. If any
// call fails, the pass fails with that error and no partial data is
// published.
func (o *Orchestrator) Fetch(ctx context.Context, filter Filter) (*Data, error) {
	o.mu.Lock()
	o.gen++
	gen := o.gen
	o.mu.Unlock()

	// One query snapshot for all three calls.
	startDate, endDate := filter.Range.Window(o.now())
	query := api.UsageQuery{
		StartDate: startDate,
		EndDate:   endDate,
		Provider:  filter.Provider,
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	data := &Data{Filter: filter}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		summary, err := o.backend.GetUsageSummary(gctx, query)
		if err != nil {
			return err
		}
		data.Summary = summary
		return nil
	})
	g.Go(func() error {
		trend, err := o.backend.GetUsageTrend(gctx, query)
		if err != nil {
			return err
		}
		data.Trend = trend
		return nil
	})
	g.Go(func() error {
		costs, err := o.backend.GetCostAnalysis(gctx, query)
		if err != nil {
			return err
		}
		data.Costs = costs
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if gen < o.latestGen {
		// A newer pass already published; this result must not be rendered.
		return nil, ErrPassSuperseded
	}
	o.latestGen = gen
	o.latest = data
	return data, nil
}

// Latest returns the newest published snapshot, or nil before the first
// successful pass.
func (o *Orchestrator) Latest() *Data {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.latest
}
