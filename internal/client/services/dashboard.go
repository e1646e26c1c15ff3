package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/dkovalev-net/vizlab/internal/client/models"
	"github.com/dkovalev-net/vizlab/internal/logging"
)

// recentLimit caps the "recent items" view per resource.
const recentLimit = 6

// Recents groups the most recent items of each resource for the dashboard.
type Recents struct {
	Datasets       []models.Dataset       `json:"datasets"`
	Visualizations []models.Visualization `json:"visualizations"`
	Analytics      []models.SavedQuery    `json:"analytics"`
}

// Summary is the combined dashboard payload: per-resource totals plus the
// recent items of each.
type Summary struct {
	Datasets       int     `json:"datasets"`
	Visualizations int     `json:"visualizations"`
	Analytics      int     `json:"analytics"`
	Allsets        Recents `json:"allsets"`
}

// DashboardService aggregates the three resource listings into one summary.
type DashboardService struct {
	datasets *DatasetService
	viz      *VisualizationService
	queries  *AnalyticsService
	log      logging.Logger
}

func NewDashboardService(datasets *DatasetService, viz *VisualizationService, queries *AnalyticsService, log logging.Logger) *DashboardService {
	return &DashboardService{datasets: datasets, viz: viz, queries: queries, log: log.With("service", "dashboard")}
}

// FetchSummary issues the three list calls in parallel, all bound to one
// derived context: cancelling ctx (or any leg failing) aborts the others.
func (s *DashboardService) FetchSummary(ctx context.Context) (Summary, error) {
	g, ctx := errgroup.WithContext(ctx)

	var (
		datasets models.Page[models.Dataset]
		viz      models.Page[models.Visualization]
		queries  models.Page[models.SavedQuery]
	)

	g.Go(func() error {
		var err error
		datasets, err = s.datasets.List(ctx, models.ListParams{})
		return err
	})
	g.Go(func() error {
		var err error
		viz, err = s.viz.List(ctx, models.ListParams{})
		return err
	})
	g.Go(func() error {
		var err error
		queries, err = s.queries.ListSavedQueries(ctx, models.ListParams{})
		return err
	})

	if err := g.Wait(); err != nil {
		s.log.Error(ctx, "fetch dashboard summary", "error", err)
		return Summary{}, err
	}

	return Summary{
		Datasets:       datasets.Total,
		Visualizations: viz.Total,
		Analytics:      queries.Total,
		Allsets: Recents{
			Datasets:       RecentItems(datasets.Items),
			Visualizations: RecentItems(viz.Items),
			Analytics:      RecentItems(queries.Items),
		},
	}, nil
}

// RecentItems returns the newest items first: the last recentLimit elements
// of items in reverse order, or all of them reversed when fewer exist.
// Listings arrive oldest-first, so the tail holds the most recent entries.
func RecentItems[T any](items []T) []T {
	n := len(items)
	if n > recentLimit {
		items = items[n-recentLimit:]
		n = recentLimit
	}

	out := make([]T, n)
	for i, item := range items {
		out[n-1-i] = item
	}
	return out
}
