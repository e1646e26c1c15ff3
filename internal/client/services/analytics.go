package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/dkovalev-net/vizlab/internal/client/api"
	"github.com/dkovalev-net/vizlab/internal/client/models"
	"github.com/dkovalev-net/vizlab/internal/common"
	"github.com/dkovalev-net/vizlab/internal/filex"
	"github.com/dkovalev-net/vizlab/internal/logging"
)

// AnalyticsService exposes analytics snapshots, CSV export, ad hoc query
// execution and saved-query management.
type AnalyticsService struct {
	api    *api.Client
	log    logging.Logger
	notify Notifier
	flight Superseder
}

func NewAnalyticsService(client *api.Client, log logging.Logger, notify Notifier) *AnalyticsService {
	return &AnalyticsService{api: client, log: log.With("service", "analytics"), notify: notify}
}

// Fetch retrieves the analytics snapshot for a time range. Snapshots are
// never cached; a range change means a fresh fetch.
func (s *AnalyticsService) Fetch(ctx context.Context, timeRange models.TimeRange) (models.AnalyticsSnapshot, error) {
	if !timeRange.Valid() {
		return models.AnalyticsSnapshot{}, fmt.Errorf("%w: unknown time range %q", common.ErrorPrecondition, timeRange)
	}

	q := url.Values{}
	q.Set("timeRange", string(timeRange))

	var snap models.AnalyticsSnapshot
	if err := s.api.GetJSON(ctx, "/api/analytics", q, &snap); err != nil {
		s.log.Error(ctx, "fetch analytics", "range", timeRange, "error", err)
		return models.AnalyticsSnapshot{}, err
	}
	return snap, nil
}

// Export downloads the analytics CSV for a time range into dir and returns
// the written file path. The download streams through a temporary file that
// is removed on failure, and aborts when ctx is cancelled.
func (s *AnalyticsService) Export(ctx context.Context, timeRange models.TimeRange, dir string) (string, error) {
	if !timeRange.Valid() {
		return "", fmt.Errorf("%w: unknown time range %q", common.ErrorPrecondition, timeRange)
	}

	q := url.Values{}
	q.Set("timeRange", string(timeRange))

	body, err := s.api.GetBinary(ctx, "/api/analytics/export", q)
	if err != nil {
		s.log.Error(ctx, "export analytics", "range", timeRange, "error", err)
		s.notify.Error("Failed to export analytics data")
		return "", err
	}
	defer body.Close()

	name := fmt.Sprintf("analytics-%s-%s.csv", timeRange, time.Now().Format("2006-01-02"))
	path, err := filex.WriteAtomic(dir, name, body)
	if err != nil {
		s.log.Error(ctx, "export analytics", "range", timeRange, "error", err)
		s.notify.Error("Failed to export analytics data")
		return "", err
	}

	s.notify.Success("Analytics data exported to " + path)
	return path, nil
}

// RunQuery executes an ad hoc query against a dataset and returns its rows.
func (s *AnalyticsService) RunQuery(ctx context.Context, req models.QueryRequest) (models.QueryResult, error) {
	var res models.QueryResult
	if err := s.api.PostJSON(ctx, "/api/analytics/query", req, &res); err != nil {
		s.log.Error(ctx, "run query", "dataset_id", req.DatasetID, "error", err)
		return models.QueryResult{}, err
	}
	return res, nil
}

// ListSavedQueries fetches the caller's saved queries, optionally filtered
// by dataset via params.DatasetID.
func (s *AnalyticsService) ListSavedQueries(ctx context.Context, params models.ListParams) (models.Page[models.SavedQuery], error) {
	var raw json.RawMessage
	if err := s.api.GetJSON(ctx, "/api/analytics/saved-queries", params.Values(), &raw); err != nil {
		s.log.Error(ctx, "list saved queries", "error", err)
		return models.Page[models.SavedQuery]{}, err
	}
	page, err := decodePage[models.SavedQuery](raw)
	if err != nil {
		s.log.Error(ctx, "list saved queries", "error", err)
	}
	return page, err
}

// ListSavedQueriesLatest is ListSavedQueries with supersede semantics.
func (s *AnalyticsService) ListSavedQueriesLatest(ctx context.Context, params models.ListParams) (models.Page[models.SavedQuery], error) {
	var page models.Page[models.SavedQuery]
	err := s.flight.Do(ctx, func(ctx context.Context) error {
		var innerErr error
		page, innerErr = s.ListSavedQueries(ctx, params)
		return innerErr
	})
	return page, err
}

// SaveQuery stores a query for later reuse.
func (s *AnalyticsService) SaveQuery(ctx context.Context, in models.SavedQueryCreate) (models.SavedQuery, error) {
	var sq models.SavedQuery
	if err := s.api.PostJSON(ctx, "/api/analytics/saved-queries", in, &sq); err != nil {
		s.log.Error(ctx, "save query", "name", in.Name, "error", err)
		s.notify.Error("Failed to save query")
		return models.SavedQuery{}, err
	}
	s.notify.Success("Query saved successfully")
	return sq, nil
}
