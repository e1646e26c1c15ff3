package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/dkovalev-net/vizlab/internal/client/models"
)

// getTimeRange prompts for a reporting window, defaulting to 7d.
func (a *App) getTimeRange() (models.TimeRange, error) {
	raw, err := getSimpleText(a.reader, "Enter time range (7d, 30d, 90d, 1y; empty for 7d)", os.Stdout)
	if err != nil {
		return "", err
	}
	if raw == "" {
		return models.Range7d, nil
	}
	tr := models.TimeRange(raw)
	if !tr.Valid() {
		printlnFn("Unknown time range:", raw)
		return "", fmt.Errorf("unknown time range %q", raw)
	}
	return tr, nil
}

// Analytics fetches and prints the snapshot for one time range.
func (a *App) Analytics(ctx context.Context) error {
	tr, err := a.getTimeRange()
	if err != nil {
		return err
	}

	snap, err := a.analytics.Fetch(ctx, tr)
	if err != nil {
		printlnFn("Could not fetch analytics:", err.Error())
		return err
	}

	printlnFn(fmt.Sprintf("Analytics for %s:", tr))
	printMetric("users", snap.UsersMetric)
	printMetric("datasets", snap.DatasetsMetric)
	printMetric("visualizations", snap.VisualizationsMetric)
	printMetric("activity", snap.ActivityMetric)
	printlnFn(fmt.Sprintf("  %s: %d points", snap.UserActivityChart.Title, len(snap.UserActivityChart.Data)))
	printlnFn(fmt.Sprintf("  %s: %d points", snap.DataProcessedChart.Title, len(snap.DataProcessedChart.Data)))
	printlnFn(fmt.Sprintf("  %s: %d categories", snap.DatasetDistributionChart.Title, len(snap.DatasetDistributionChart.Data)))
	printlnFn(fmt.Sprintf("  %s: %d categories", snap.VisualizationTypesChart.Title, len(snap.VisualizationTypesChart.Data)))
	return nil
}

func printMetric(name string, m models.Metric) {
	printlnFn(fmt.Sprintf("  %-15s %.2f (%+.1f%% %s)", name, m.Value, m.Change, m.Trend))
}

// ExportAnalytics downloads the CSV export for one time range into the
// configured download directory.
func (a *App) ExportAnalytics(ctx context.Context) error {
	tr, err := a.getTimeRange()
	if err != nil {
		return err
	}

	path, err := a.analytics.Export(ctx, tr, a.config.DownloadDir)
	if err != nil {
		return err
	}
	printlnFn("Saved to", path)
	return nil
}

// Queries lists saved queries, optionally filtered by dataset.
func (a *App) Queries(ctx context.Context) error {
	raw, err := getSimpleText(a.reader, "Filter by dataset id (empty for all)", os.Stdout)
	if err != nil {
		return err
	}
	var params models.ListParams
	if raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			printlnFn("Not a numeric id:", raw)
			return err
		}
		params.DatasetID = id
	}

	page, err := a.analytics.ListSavedQueriesLatest(ctx, params)
	if err != nil {
		printlnFn("Could not list saved queries:", err.Error())
		return err
	}

	printlnFn(fmt.Sprintf("Saved queries (%d total):", page.Total))
	for _, q := range page.Items {
		printlnFn(fmt.Sprintf("  #%d %s  dataset=%d", q.ID, q.Name, q.DatasetID))
	}
	return nil
}

// SaveQuery stores a named query bound to a dataset.
func (a *App) SaveQuery(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter query name", os.Stdout)
	if err != nil {
		return err
	}
	description, err := getSimpleText(a.reader, "Enter description (optional)", os.Stdout)
	if err != nil {
		return err
	}
	datasetID, err := getID(a.reader, "Enter dataset id", os.Stdout)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	q, err := a.analytics.SaveQuery(ctx, models.SavedQueryCreate{Name: name, Description: description, DatasetID: datasetID})
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Saved query #%d", q.ID))
	return nil
}

// queryPreviewRows caps how many result rows the REPL prints.
const queryPreviewRows = 20

// RunQuery executes an ad hoc query on a dataset and prints a row preview.
func (a *App) RunQuery(ctx context.Context) error {
	datasetID, err := getID(a.reader, "Enter dataset id", os.Stdout)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	res, err := a.analytics.RunQuery(ctx, models.QueryRequest{DatasetID: datasetID})
	if err != nil {
		printlnFn("Query failed:", err.Error())
		return err
	}

	printlnFn(fmt.Sprintf("Columns: %v", res.Columns))
	for i, row := range res.Data {
		if i == queryPreviewRows {
			printlnFn(fmt.Sprintf("  ... %d more rows", int64(len(res.Data))-queryPreviewRows))
			break
		}
		printlnFn(fmt.Sprintf("  %v", row))
	}
	printlnFn(fmt.Sprintf("%d rows", res.RowCount))
	return nil
}
