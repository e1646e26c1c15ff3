// Package services contains the typed data-access layer between the CLI and
// the backend API: one service per resource plus auth, analytics, dashboard
// and settings. Services do not cache, retry or paginate beyond passing
// parameters through; every call yields a fresh result owned by the caller.
//
// Error policy: operations log the failure, emit a Notifier message for
// mutations, and return the error so the caller can update its own state.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/dkovalev-net/vizlab/internal/client/api"
	"github.com/dkovalev-net/vizlab/internal/client/models"
	"github.com/dkovalev-net/vizlab/internal/common"
	"github.com/dkovalev-net/vizlab/internal/logging"
)

// DatasetService exposes dataset CRUD over the backend API.
type DatasetService struct {
	api    *api.Client
	log    logging.Logger
	notify Notifier
	flight Superseder
}

func NewDatasetService(client *api.Client, log logging.Logger, notify Notifier) *DatasetService {
	return &DatasetService{api: client, log: log.With("service", "datasets"), notify: notify}
}

// List fetches a page of datasets. Honors ctx cancellation.
func (s *DatasetService) List(ctx context.Context, params models.ListParams) (models.Page[models.Dataset], error) {
	var raw json.RawMessage
	if err := s.api.GetJSON(ctx, "/api/datasets", params.Values(), &raw); err != nil {
		s.log.Error(ctx, "list datasets", "error", err)
		return models.Page[models.Dataset]{}, err
	}
	page, err := decodePage[models.Dataset](raw)
	if err != nil {
		s.log.Error(ctx, "list datasets", "error", err)
	}
	return page, err
}

// ListLatest behaves like List but cancels any previous ListLatest still in
// flight; a superseded call reports ErrSuperseded so its result is never
// applied over a newer one.
func (s *DatasetService) ListLatest(ctx context.Context, params models.ListParams) (models.Page[models.Dataset], error) {
	var page models.Page[models.Dataset]
	err := s.flight.Do(ctx, func(ctx context.Context) error {
		var innerErr error
		page, innerErr = s.List(ctx, params)
		return innerErr
	})
	return page, err
}

// Get fetches a single dataset by id.
func (s *DatasetService) Get(ctx context.Context, id int64) (models.Dataset, error) {
	var ds models.Dataset
	if err := s.api.GetJSON(ctx, fmt.Sprintf("/api/datasets/%d", id), nil, &ds); err != nil {
		s.log.Error(ctx, "get dataset", "id", id, "error", err)
		return models.Dataset{}, err
	}
	return ds, nil
}

// Create uploads a new dataset: the metadata travels as a JSON-encoded
// "dataset_in" form field, the file under "file", in one multipart request.
// A nil file fails the client-side precondition before any network I/O.
func (s *DatasetService) Create(ctx context.Context, meta models.DatasetCreate, fileName string, file io.Reader) (models.Dataset, error) {
	if file == nil {
		err := fmt.Errorf("%w: no file selected", common.ErrorPrecondition)
		s.notify.Error("Failed to create dataset")
		return models.Dataset{}, err
	}

	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return models.Dataset{}, fmt.Errorf("encode dataset metadata: %w", err)
	}

	var ds models.Dataset
	err = s.api.PostMultipart(ctx, "/api/datasets",
		map[string]string{"dataset_in": string(metaJSON)},
		"file", fileName, file, &ds)
	if err != nil {
		s.log.Error(ctx, "create dataset", "name", meta.Name, "error", err)
		s.notify.Error("Failed to create dataset")
		return models.Dataset{}, err
	}

	s.notify.Success("Dataset created successfully")
	return ds, nil
}

// Update applies a partial-field PUT and returns the updated dataset.
func (s *DatasetService) Update(ctx context.Context, id int64, upd models.DatasetUpdate) (models.Dataset, error) {
	var ds models.Dataset
	if err := s.api.PutJSON(ctx, fmt.Sprintf("/api/datasets/%d", id), upd, &ds); err != nil {
		s.log.Error(ctx, "update dataset", "id", id, "error", err)
		s.notify.Error("Failed to update dataset")
		return models.Dataset{}, err
	}
	s.notify.Success("Dataset updated successfully")
	return ds, nil
}

// Delete removes a dataset by id. Deleting an already-deleted id surfaces
// common.ErrorNotFound.
func (s *DatasetService) Delete(ctx context.Context, id int64) error {
	if err := s.api.Delete(ctx, fmt.Sprintf("/api/datasets/%d", id)); err != nil {
		s.log.Error(ctx, "delete dataset", "id", id, "error", err)
		s.notify.Error("Failed to delete dataset")
		return err
	}
	s.notify.Success("Dataset deleted successfully")
	return nil
}
