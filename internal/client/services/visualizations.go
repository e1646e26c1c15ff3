package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dkovalev-net/vizlab/internal/client/api"
	"github.com/dkovalev-net/vizlab/internal/client/models"
	"github.com/dkovalev-net/vizlab/internal/logging"
)

// VisualizationService exposes visualization CRUD over the backend API.
type VisualizationService struct {
	api    *api.Client
	log    logging.Logger
	notify Notifier
	flight Superseder
}

func NewVisualizationService(client *api.Client, log logging.Logger, notify Notifier) *VisualizationService {
	return &VisualizationService{api: client, log: log.With("service", "visualizations"), notify: notify}
}

// List fetches a page of visualizations. Some deployments return a bare
// array here; decodePage normalizes either shape.
func (s *VisualizationService) List(ctx context.Context, params models.ListParams) (models.Page[models.Visualization], error) {
	var raw json.RawMessage
	if err := s.api.GetJSON(ctx, "/api/visualizations", params.Values(), &raw); err != nil {
		s.log.Error(ctx, "list visualizations", "error", err)
		return models.Page[models.Visualization]{}, err
	}
	page, err := decodePage[models.Visualization](raw)
	if err != nil {
		s.log.Error(ctx, "list visualizations", "error", err)
	}
	return page, err
}

// ListLatest is List with supersede semantics; see DatasetService.ListLatest.
func (s *VisualizationService) ListLatest(ctx context.Context, params models.ListParams) (models.Page[models.Visualization], error) {
	var page models.Page[models.Visualization]
	err := s.flight.Do(ctx, func(ctx context.Context) error {
		var innerErr error
		page, innerErr = s.List(ctx, params)
		return innerErr
	})
	return page, err
}

// Get fetches a single visualization by id.
func (s *VisualizationService) Get(ctx context.Context, id int64) (models.Visualization, error) {
	var v models.Visualization
	if err := s.api.GetJSON(ctx, fmt.Sprintf("/api/visualizations/%d", id), nil, &v); err != nil {
		s.log.Error(ctx, "get visualization", "id", id, "error", err)
		return models.Visualization{}, err
	}
	return v, nil
}

// Create builds a visualization from a (dataset, chart type, config) tuple.
// The dataset reference is validated server-side only.
func (s *VisualizationService) Create(ctx context.Context, in models.VisualizationCreate) (models.Visualization, error) {
	var v models.Visualization
	if err := s.api.PostJSON(ctx, "/api/visualizations", in, &v); err != nil {
		s.log.Error(ctx, "create visualization", "title", in.Title, "error", err)
		s.notify.Error("Failed to create visualization")
		return models.Visualization{}, err
	}
	s.notify.Success("Visualization created successfully")
	return v, nil
}

// Update applies a partial-field PUT and returns the updated visualization.
func (s *VisualizationService) Update(ctx context.Context, id int64, upd models.VisualizationUpdate) (models.Visualization, error) {
	var v models.Visualization
	if err := s.api.PutJSON(ctx, fmt.Sprintf("/api/visualizations/%d", id), upd, &v); err != nil {
		s.log.Error(ctx, "update visualization", "id", id, "error", err)
		s.notify.Error("Failed to update visualization")
		return models.Visualization{}, err
	}
	s.notify.Success("Visualization updated successfully")
	return v, nil
}

// Delete removes a visualization by id.
func (s *VisualizationService) Delete(ctx context.Context, id int64) error {
	if err := s.api.Delete(ctx, fmt.Sprintf("/api/visualizations/%d", id)); err != nil {
		s.log.Error(ctx, "delete visualization", "id", id, "error", err)
		s.notify.Error("Failed to delete visualization")
		return err
	}
	s.notify.Success("Visualization deleted successfully")
	return nil
}
