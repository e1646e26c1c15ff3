package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkovalev-net/vizlab/internal/client/models"
	"github.com/dkovalev-net/vizlab/internal/common"
)

func TestDatasetList_DecodesEnvelope(t *testing.T) {
	sessions := newSession(t)
	client := newAPI(t, sessions, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/datasets", r.URL.Path)
		fmt.Fprint(w, `{"items":[{"id":1,"name":"sales","file_type":"csv","created_at":"2025-01-02T03:04:05Z"}],"total":11}`)
	}))
	svc := NewDatasetService(client, testLogger(), NopNotifier{})

	page, err := svc.List(context.Background(), models.ListParams{})
	require.NoError(t, err)
	assert.Equal(t, 11, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "sales", page.Items[0].Name)
}

func TestDatasetList_PassesSearchParams(t *testing.T) {
	var gotQuery string
	sessions := newSession(t)
	client := newAPI(t, sessions, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, `{"items":[],"total":0}`)
	}))
	svc := NewDatasetService(client, testLogger(), NopNotifier{})

	_, err := svc.List(context.Background(), models.ListParams{Query: "sales", Skip: 20, Limit: 10})
	require.NoError(t, err)
	assert.Contains(t, gotQuery, "query=sales")
	assert.Contains(t, gotQuery, "skip=20")
	assert.Contains(t, gotQuery, "limit=10")
}

func TestDatasetGet_NotFound(t *testing.T) {
	sessions := newSession(t)
	client := newAPI(t, sessions, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"detail":"Dataset not found"}`)
	}))
	svc := NewDatasetService(client, testLogger(), NopNotifier{})

	_, err := svc.Get(context.Background(), 99)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDatasetCreate_MultipartRoundTrip(t *testing.T) {
	var gotMeta models.DatasetCreate
	var gotFile, gotFileName string

	sessions := newSession(t)
	client := newAPI(t, sessions, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.NoError(t, json.Unmarshal([]byte(r.PostFormValue("dataset_in")), &gotMeta))

		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		data, err := io.ReadAll(f)
		require.NoError(t, err)
		gotFile = string(data)
		gotFileName = hdr.Filename

		fmt.Fprintf(w, `{"id":7,"name":%q,"description":%q,"file_type":"csv","created_at":"2025-01-02T03:04:05Z"}`,
			gotMeta.Name, gotMeta.Description)
	}))
	notify := &recordingNotifier{}
	svc := NewDatasetService(client, testLogger(), notify)

	meta := models.DatasetCreate{Name: "sales", Description: "Q3 numbers"}
	ds, err := svc.Create(context.Background(), meta, "sales.csv", strings.NewReader("a,b\n1,2\n"))
	require.NoError(t, err)

	// Round-trip: submitted metadata comes back on the created entity.
	assert.Equal(t, int64(7), ds.ID)
	assert.Equal(t, "sales", ds.Name)
	assert.Equal(t, "Q3 numbers", ds.Description)
	assert.Equal(t, "sales", gotMeta.Name)
	assert.Equal(t, "a,b\n1,2\n", gotFile)
	assert.Equal(t, "sales.csv", gotFileName)
	assert.Equal(t, []string{"Dataset created successfully"}, notify.Successes())
}

func TestDatasetCreate_NoFileFailsBeforeNetwork(t *testing.T) {
	called := false
	sessions := newSession(t)
	client := newAPI(t, sessions, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	notify := &recordingNotifier{}
	svc := NewDatasetService(client, testLogger(), notify)

	_, err := svc.Create(context.Background(), models.DatasetCreate{Name: "x"}, "x.csv", nil)
	assert.ErrorIs(t, err, common.ErrorPrecondition)
	assert.False(t, called, "no request may be issued without a file")
	assert.Equal(t, []string{"Failed to create dataset"}, notify.Failures())
}

func TestDatasetUpdate_PartialFields(t *testing.T) {
	var gotBody map[string]any
	sessions := newSession(t)
	client := newAPI(t, sessions, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/datasets/3", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		fmt.Fprint(w, `{"id":3,"name":"renamed","file_type":"csv","created_at":"2025-01-02T03:04:05Z"}`)
	}))
	notify := &recordingNotifier{}
	svc := NewDatasetService(client, testLogger(), notify)

	name := "renamed"
	ds, err := svc.Update(context.Background(), 3, models.DatasetUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "renamed", ds.Name)

	// Unset fields must not travel.
	assert.Equal(t, map[string]any{"name": "renamed"}, gotBody)
	assert.Equal(t, []string{"Dataset updated successfully"}, notify.Successes())
}

func TestDatasetDelete_SecondCallNotFound(t *testing.T) {
	var mu sync.Mutex
	deleted := map[string]bool{}

	sessions := newSession(t)
	client := newAPI(t, sessions, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		if deleted[r.URL.Path] {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"detail":"Dataset not found"}`)
			return
		}
		deleted[r.URL.Path] = true
		w.WriteHeader(http.StatusNoContent)
	}))
	notify := &recordingNotifier{}
	svc := NewDatasetService(client, testLogger(), notify)

	require.NoError(t, svc.Delete(context.Background(), 5))

	err := svc.Delete(context.Background(), 5)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.Equal(t, []string{"Dataset deleted successfully"}, notify.Successes())
	assert.Equal(t, []string{"Failed to delete dataset"}, notify.Failures())
}

func TestDatasetListLatest_StaleResultDiscarded(t *testing.T) {
	// The "a" request blocks server-side until the "ab" request has been
	// answered, simulating a slow first search that resolves late.
	aArrived := make(chan struct{})
	abDone := make(chan struct{})

	sessions := newSession(t)
	client := newAPI(t, sessions, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("query") {
		case "a":
			close(aArrived)
			select {
			case <-abDone:
			case <-r.Context().Done():
				return
			}
			fmt.Fprint(w, `{"items":[{"id":1,"name":"a-result","file_type":"csv","created_at":"2025-01-02T03:04:05Z"}],"total":1}`)
		case "ab":
			fmt.Fprint(w, `{"items":[{"id":2,"name":"ab-result","file_type":"csv","created_at":"2025-01-02T03:04:05Z"}],"total":1}`)
		}
	}))
	svc := NewDatasetService(client, testLogger(), NopNotifier{})

	var wg sync.WaitGroup
	var aErr error

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, aErr = svc.ListLatest(context.Background(), models.ListParams{Query: "a"})
	}()

	<-aArrived
	page, abErr := svc.ListLatest(context.Background(), models.ListParams{Query: "ab"})
	close(abDone)
	wg.Wait()

	// Final state reflects only the "ab" result; the "a" call must report
	// supersession rather than hand back a stale page.
	require.NoError(t, abErr)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "ab-result", page.Items[0].Name)
	assert.ErrorIs(t, aErr, ErrSuperseded)
}
