package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dkovalev-net/vizlab/internal/client/models"
	"github.com/dkovalev-net/vizlab/internal/filex"
)

// Datasets lists datasets, optionally filtered by a search term. Uses the
// superseding list variant so a slow earlier search can never clobber a
// newer one.
func (a *App) Datasets(ctx context.Context) error {
	search, err := getSimpleText(a.reader, "Search term (empty for all)", os.Stdout)
	if err != nil {
		return err
	}

	page, err := a.datasets.ListLatest(ctx, models.ListParams{Query: search})
	if err != nil {
		printlnFn("Could not list datasets:", err.Error())
		return err
	}

	printlnFn(fmt.Sprintf("Datasets (%d total):", page.Total))
	for _, d := range page.Items {
		printlnFn(fmt.Sprintf("  #%d %s  file=%s rows=%d cols=%d", d.ID, d.Name, filex.DisplayName(d.FilePath), d.RowCount, d.ColumnCount))
	}
	return nil
}

// ShowDataset prints a single dataset in full.
func (a *App) ShowDataset(ctx context.Context) error {
	id, err := getID(a.reader, "Enter dataset id", os.Stdout)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	d, err := a.datasets.Get(ctx, id)
	if err != nil {
		printlnFn("Could not fetch dataset:", err.Error())
		return err
	}

	printlnFn(fmt.Sprintf("#%d %s", d.ID, d.Name))
	if d.Description != "" {
		printlnFn("  " + d.Description)
	}
	printlnFn(fmt.Sprintf("  file: %s (%s, %d bytes)", filex.DisplayName(d.FilePath), d.FileType, d.Size))
	printlnFn(fmt.Sprintf("  rows: %d  columns: %d  public: %v", d.RowCount, d.ColumnCount, d.IsPublic))
	if len(d.Tags) > 0 {
		printlnFn(fmt.Sprintf("  tags: %v", d.Tags))
	}
	return nil
}

// Upload collects dataset metadata and a local file path, then uploads both
// in a single multipart request.
func (a *App) Upload(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter dataset name", os.Stdout)
	if err != nil {
		return err
	}
	description, err := getSimpleText(a.reader, "Enter description (optional)", os.Stdout)
	if err != nil {
		return err
	}
	path, err := getSimpleText(a.reader, "Enter file path", os.Stdout)
	if err != nil {
		return err
	}

	meta := models.DatasetCreate{Name: name, Description: description}

	if path == "" {
		// Create rejects this before any network traffic.
		_, err := a.datasets.Create(ctx, meta, "", nil)
		printlnFn(err.Error())
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		printlnFn("Cannot open file:", err.Error())
		return err
	}
	defer f.Close()

	d, err := a.datasets.Create(ctx, meta, filepath.Base(path), f)
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Created dataset #%d", d.ID))
	return nil
}

// EditDataset applies a partial update; empty answers leave fields unchanged.
func (a *App) EditDataset(ctx context.Context) error {
	id, err := getID(a.reader, "Enter dataset id", os.Stdout)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	name, err := getSimpleText(a.reader, "New name (empty keeps current)", os.Stdout)
	if err != nil {
		return err
	}
	description, err := getSimpleText(a.reader, "New description (empty keeps current)", os.Stdout)
	if err != nil {
		return err
	}

	var upd models.DatasetUpdate
	if name != "" {
		upd.Name = &name
	}
	if description != "" {
		upd.Description = &description
	}

	d, err := a.datasets.Update(ctx, id, upd)
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Dataset #%d is now %q", d.ID, d.Name))
	return nil
}

// DeleteDataset removes a dataset after an explicit confirmation.
func (a *App) DeleteDataset(ctx context.Context) error {
	id, err := getID(a.reader, "Enter dataset id", os.Stdout)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	confirm, err := getSimpleText(a.reader, fmt.Sprintf("Delete dataset #%d? (yes/no)", id), os.Stdout)
	if err != nil {
		return err
	}
	if confirm != "yes" {
		printlnFn("Aborted")
		return nil
	}

	return a.datasets.Delete(ctx, id)
}
