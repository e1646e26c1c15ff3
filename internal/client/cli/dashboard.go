package cli

import (
	"context"
	"fmt"
)

// Dashboard prints the combined summary: totals per resource plus the most
// recent items of each.
func (a *App) Dashboard(ctx context.Context) error {
	sum, err := a.dashboard.FetchSummary(ctx)
	if err != nil {
		printlnFn("Could not load dashboard:", err.Error())
		return err
	}

	printlnFn(fmt.Sprintf("Datasets: %d  Visualizations: %d  Saved queries: %d",
		sum.Datasets, sum.Visualizations, sum.Analytics))

	printlnFn("Recent datasets:")
	for _, d := range sum.Allsets.Datasets {
		printlnFn(fmt.Sprintf("  #%d %s", d.ID, d.Name))
	}
	printlnFn("Recent visualizations:")
	for _, v := range sum.Allsets.Visualizations {
		printlnFn(fmt.Sprintf("  #%d %s (%s)", v.ID, v.Title, v.ChartType))
	}
	printlnFn("Recent saved queries:")
	for _, q := range sum.Allsets.Analytics {
		printlnFn(fmt.Sprintf("  #%d %s", q.ID, q.Name))
	}
	return nil
}
