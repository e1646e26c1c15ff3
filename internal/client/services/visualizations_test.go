package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkovalev-net/vizlab/internal/client/models"
	"github.com/dkovalev-net/vizlab/internal/common"
)

func TestVisualizationList_NormalizesBareArray(t *testing.T) {
	sessions := newSession(t)
	client := newAPI(t, sessions, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Some deployments return a bare array instead of the envelope.
		fmt.Fprint(w, `[
			{"id":1,"title":"Revenue","chart_type":"bar","dataset_id":3,"config":{"dimensions":["region"],"measures":["total"]},"created_at":"2025-01-02T03:04:05Z"},
			{"id":2,"title":"Trend","chart_type":"line","dataset_id":3,"config":{"dimensions":["date"],"measures":["total"]},"created_at":"2025-01-02T03:04:05Z"}
		]`)
	}))
	svc := NewVisualizationService(client, testLogger(), NopNotifier{})

	page, err := svc.List(context.Background(), models.ListParams{})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Revenue", page.Items[0].Title)
	assert.Equal(t, models.ChartLine, page.Items[1].ChartType)
}

func TestVisualizationList_EnvelopeShape(t *testing.T) {
	sessions := newSession(t)
	client := newAPI(t, sessions, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items":[{"id":1,"title":"Revenue","chart_type":"bar","dataset_id":3,"config":{"dimensions":[],"measures":[]},"created_at":"2025-01-02T03:04:05Z"}],"total":9}`)
	}))
	svc := NewVisualizationService(client, testLogger(), NopNotifier{})

	page, err := svc.List(context.Background(), models.ListParams{})
	require.NoError(t, err)
	assert.Equal(t, 9, page.Total)
	require.Len(t, page.Items, 1)
}

func TestVisualizationCreate_SendsTuple(t *testing.T) {
	var got models.VisualizationCreate
	sessions := newSession(t)
	client := newAPI(t, sessions, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprint(w, `{"id":5,"title":"Revenue","chart_type":"bar","dataset_id":3,"config":{"dimensions":["region"],"measures":["total"]},"created_at":"2025-01-02T03:04:05Z"}`)
	}))
	notify := &recordingNotifier{}
	svc := NewVisualizationService(client, testLogger(), notify)

	v, err := svc.Create(context.Background(), models.VisualizationCreate{
		Title:     "Revenue",
		ChartType: models.ChartBar,
		DatasetID: 3,
		Config:    models.ChartConfig{Dimensions: []string{"region"}, Measures: []string{"total"}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), v.ID)

	assert.Equal(t, models.ChartBar, got.ChartType)
	assert.Equal(t, int64(3), got.DatasetID)
	assert.Equal(t, []string{"region"}, got.Config.Dimensions)
	assert.Equal(t, []string{"Visualization created successfully"}, notify.Successes())
}

func TestVisualizationCreate_FailureNotifies(t *testing.T) {
	sessions := newSession(t)
	client := newAPI(t, sessions, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"detail":"dataset does not exist"}`)
	}))
	notify := &recordingNotifier{}
	svc := NewVisualizationService(client, testLogger(), notify)

	_, err := svc.Create(context.Background(), models.VisualizationCreate{Title: "x", DatasetID: 999})
	assert.ErrorIs(t, err, common.ErrorBadRequest)
	assert.Equal(t, []string{"Failed to create visualization"}, notify.Failures())
}

func TestVisualizationDelete_NotFound(t *testing.T) {
	sessions := newSession(t)
	client := newAPI(t, sessions, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"detail":"Visualization not found"}`)
	}))
	svc := NewVisualizationService(client, testLogger(), NopNotifier{})

	err := svc.Delete(context.Background(), 404)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
