package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dkovalev-net/vizlab/internal/client/models"
)

// Visualizations lists visualizations, optionally filtered by a search term.
func (a *App) Visualizations(ctx context.Context) error {
	search, err := getSimpleText(a.reader, "Search term (empty for all)", os.Stdout)
	if err != nil {
		return err
	}

	page, err := a.viz.ListLatest(ctx, models.ListParams{Query: search})
	if err != nil {
		printlnFn("Could not list visualizations:", err.Error())
		return err
	}

	printlnFn(fmt.Sprintf("Visualizations (%d total):", page.Total))
	for _, v := range page.Items {
		printlnFn(fmt.Sprintf("  #%d %s  chart=%s dataset=%d", v.ID, v.Title, v.ChartType, v.DatasetID))
	}
	return nil
}

// ShowVisualization prints a single visualization with its chart config.
func (a *App) ShowVisualization(ctx context.Context) error {
	id, err := getID(a.reader, "Enter visualization id", os.Stdout)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	v, err := a.viz.Get(ctx, id)
	if err != nil {
		printlnFn("Could not fetch visualization:", err.Error())
		return err
	}

	printlnFn(fmt.Sprintf("#%d %s (%s chart on dataset #%d)", v.ID, v.Title, v.ChartType, v.DatasetID))
	if v.Description != "" {
		printlnFn("  " + v.Description)
	}
	printlnFn(fmt.Sprintf("  dimensions: %v", v.Config.Dimensions))
	printlnFn(fmt.Sprintf("  measures:   %v", v.Config.Measures))
	if v.Config.Sort != nil {
		printlnFn(fmt.Sprintf("  sort: %s %s", v.Config.Sort.Field, v.Config.Sort.Direction))
	}
	return nil
}

// AddVisualization builds a visualization from a (dataset, chart type,
// config) tuple collected interactively.
func (a *App) AddVisualization(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Enter title", os.Stdout)
	if err != nil {
		return err
	}

	chartRaw, err := getSimpleText(a.reader, "Enter chart type (bar, line, pie, scatter, heatmap, area)", os.Stdout)
	if err != nil {
		return err
	}
	chart := models.ChartType(chartRaw)
	if !chart.Valid() {
		printlnFn("Unknown chart type:", chartRaw)
		return fmt.Errorf("unknown chart type %q", chartRaw)
	}

	datasetID, err := getID(a.reader, "Enter dataset id", os.Stdout)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	dimensions, err := getCommaList(a.reader, "Enter dimensions (comma separated)", os.Stdout)
	if err != nil {
		return err
	}
	measures, err := getCommaList(a.reader, "Enter measures (comma separated)", os.Stdout)
	if err != nil {
		return err
	}

	v, err := a.viz.Create(ctx, models.VisualizationCreate{
		Title:     title,
		ChartType: chart,
		DatasetID: datasetID,
		Config:    models.ChartConfig{Dimensions: dimensions, Measures: measures},
	})
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Created visualization #%d", v.ID))
	return nil
}

// EditVisualization applies a partial update; empty answers keep fields.
func (a *App) EditVisualization(ctx context.Context) error {
	id, err := getID(a.reader, "Enter visualization id", os.Stdout)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	title, err := getSimpleText(a.reader, "New title (empty keeps current)", os.Stdout)
	if err != nil {
		return err
	}
	chartRaw, err := getSimpleText(a.reader, "New chart type (empty keeps current)", os.Stdout)
	if err != nil {
		return err
	}

	var upd models.VisualizationUpdate
	if title != "" {
		upd.Title = &title
	}
	if chartRaw != "" {
		chart := models.ChartType(chartRaw)
		if !chart.Valid() {
			printlnFn("Unknown chart type:", chartRaw)
			return fmt.Errorf("unknown chart type %q", chartRaw)
		}
		upd.ChartType = &chart
	}

	v, err := a.viz.Update(ctx, id, upd)
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Visualization #%d is now %q", v.ID, v.Title))
	return nil
}

// DeleteVisualization removes a visualization after confirmation.
func (a *App) DeleteVisualization(ctx context.Context) error {
	id, err := getID(a.reader, "Enter visualization id", os.Stdout)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	confirm, err := getSimpleText(a.reader, fmt.Sprintf("Delete visualization #%d? (yes/no)", id), os.Stdout)
	if err != nil {
		return err
	}
	if confirm != "yes" {
		printlnFn("Aborted")
		return nil
	}

	return a.viz.Delete(ctx, id)
}
