// Package models defines the client-side views of backend resources: users,
// datasets, visualizations, saved queries and analytics snapshots.
//
// Field names mirror the backend's JSON contract; ids are assigned by the
// backend and never mutated by the client.
package models

import (
	"net/url"
	"strconv"
	"time"
)

// User is the authenticated account record returned by the profile endpoint.
type User struct {
	ID        int64      `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// FileType enumerates the dataset source formats the backend accepts.
type FileType string

const (
	FileTypeCSV      FileType = "csv"
	FileTypeJSON     FileType = "json"
	FileTypeExcel    FileType = "excel"
	FileTypeDatabase FileType = "database"
	FileTypeAPI      FileType = "api"
)

// Dataset is an uploaded data source. FilePath is the backend storage path;
// use filex.DisplayName to derive the original file name from it.
type Dataset struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	FilePath    string     `json:"file_path"`
	FileType    FileType   `json:"file_type"`
	RowCount    int64      `json:"row_count"`
	ColumnCount int        `json:"column_count"`
	Size        int64      `json:"size"`
	OwnerID     int64      `json:"owner_id"`
	IsPublic    bool       `json:"is_public"`
	Tags        []string   `json:"tags,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// DatasetCreate is the metadata half of a dataset upload; the binary file
// travels alongside it in the same multipart request.
type DatasetCreate struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	IsPublic    bool     `json:"is_public,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// DatasetUpdate carries the partial fields of a dataset PUT. Nil pointers
// mean "leave unchanged".
type DatasetUpdate struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	IsPublic    *bool    `json:"is_public,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// ChartType enumerates supported visualization renderings.
type ChartType string

const (
	ChartBar     ChartType = "bar"
	ChartLine    ChartType = "line"
	ChartPie     ChartType = "pie"
	ChartScatter ChartType = "scatter"
	ChartHeatmap ChartType = "heatmap"
	ChartArea    ChartType = "area"
)

// Valid reports whether c is one of the known chart types.
func (c ChartType) Valid() bool {
	switch c {
	case ChartBar, ChartLine, ChartPie, ChartScatter, ChartHeatmap, ChartArea:
		return true
	}
	return false
}

// SortSpec orders a visualization by a single field.
type SortSpec struct {
	Field     string `json:"field"`
	Direction string `json:"direction"` // "asc" or "desc"
}

// Filter restricts the rows a visualization renders.
type Filter struct {
	Field    string `json:"field"`
	Operator string `json:"operator"` // equals, notEquals, greaterThan, lessThan, contains, in, between
	Value    any    `json:"value"`
}

// Appearance holds cosmetic rendering options passed through to the charting
// layer untouched.
type Appearance struct {
	Colors     []string `json:"colors,omitempty"`
	Legend     bool     `json:"legend,omitempty"`
	Title      string   `json:"title,omitempty"`
	Subtitle   string   `json:"subtitle,omitempty"`
	GridLines  bool     `json:"grid_lines,omitempty"`
	XAxisLabel string   `json:"x_axis_label,omitempty"`
	YAxisLabel string   `json:"y_axis_label,omitempty"`
}

// ChartConfig is the declarative render configuration of a visualization.
type ChartConfig struct {
	Dimensions []string    `json:"dimensions"`
	Measures   []string    `json:"measures"`
	Sort       *SortSpec   `json:"sort,omitempty"`
	Filters    []Filter    `json:"filters,omitempty"`
	Appearance *Appearance `json:"appearance,omitempty"`
}

// Visualization references a dataset and describes how to render it. The
// dataset reference is validated server-side only.
type Visualization struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	ChartType   ChartType   `json:"chart_type"`
	DatasetID   int64       `json:"dataset_id"`
	Config      ChartConfig `json:"config"`
	CreatedBy   int64       `json:"created_by"`
	Thumbnail   string      `json:"thumbnail,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   *time.Time  `json:"updated_at,omitempty"`
}

// VisualizationCreate is the payload of a visualization POST.
type VisualizationCreate struct {
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	ChartType   ChartType   `json:"chart_type"`
	DatasetID   int64       `json:"dataset_id"`
	Config      ChartConfig `json:"config"`
}

// VisualizationUpdate carries the partial fields of a visualization PUT.
type VisualizationUpdate struct {
	Title       *string      `json:"title,omitempty"`
	Description *string      `json:"description,omitempty"`
	ChartType   *ChartType   `json:"chart_type,omitempty"`
	Config      *ChartConfig `json:"config,omitempty"`
}

// SavedQuery is a stored analytics query bound to a dataset.
type SavedQuery struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	DatasetID   int64      `json:"dataset_id"`
	OwnerID     int64      `json:"owner_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// SavedQueryCreate is the payload of a saved-query POST.
type SavedQueryCreate struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	DatasetID   int64  `json:"dataset_id"`
}

// QueryRequest asks the backend to execute an ad hoc query on a dataset.
type QueryRequest struct {
	DatasetID int64 `json:"dataset_id"`
}

// QueryResult is the tabular response of an executed query.
type QueryResult struct {
	Columns  []string `json:"columns"`
	Data     [][]any  `json:"data"`
	RowCount int64    `json:"row_count"`
}

// TimeRange enumerates the analytics reporting windows.
type TimeRange string

const (
	Range7d  TimeRange = "7d"
	Range30d TimeRange = "30d"
	Range90d TimeRange = "90d"
	Range1y  TimeRange = "1y"
)

// Valid reports whether t is one of the known reporting windows.
func (t TimeRange) Valid() bool {
	switch t {
	case Range7d, Range30d, Range90d, Range1y:
		return true
	}
	return false
}

// Metric is a single analytics figure with its percent change against the
// previous window.
type Metric struct {
	Value  float64 `json:"value"`
	Change float64 `json:"change"`
	Trend  string  `json:"trend,omitempty"` // up, down, stable
}

// SeriesPoint is one element of a time-series chart.
type SeriesPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// CategoryPoint is one element of a categorical chart.
type CategoryPoint struct {
	Type  string `json:"type"`
	Count int64  `json:"count"`
}

// ChartData pairs a chart title with its points.
type ChartData[T any] struct {
	Title string `json:"title"`
	Data  []T    `json:"data"`
}

// AnalyticsSnapshot is the read-only analytics payload for one time range.
// It is immutable once fetched; a new range means a fresh fetch.
type AnalyticsSnapshot struct {
	UsersMetric          Metric `json:"users_metric"`
	DatasetsMetric       Metric `json:"datasets_metric"`
	VisualizationsMetric Metric `json:"visualizations_metric"`
	ActivityMetric       Metric `json:"activity_metric"`

	UserActivityChart        ChartData[SeriesPoint]   `json:"user_activity_chart"`
	DataProcessedChart       ChartData[SeriesPoint]   `json:"data_processed_chart"`
	DatasetDistributionChart ChartData[CategoryPoint] `json:"dataset_distribution_chart"`
	VisualizationTypesChart  ChartData[CategoryPoint] `json:"visualization_types_chart"`
}

// Page is the normalized list envelope. Endpoints that return a bare array
// are reshaped into this form by the service layer.
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// ListParams are pass-through pagination and search parameters.
type ListParams struct {
	Query     string
	Skip      int
	Limit     int
	SortBy    string
	SortOrder string
	DatasetID int64 // saved queries only
}

// Values renders the parameters as a query string. Zero values are omitted
// so the backend's defaults apply.
func (p ListParams) Values() url.Values {
	q := url.Values{}
	if p.Query != "" {
		q.Set("query", p.Query)
	}
	if p.Skip > 0 {
		q.Set("skip", strconv.Itoa(p.Skip))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.SortBy != "" {
		q.Set("sortBy", p.SortBy)
	}
	if p.SortOrder != "" {
		q.Set("sortOrder", p.SortOrder)
	}
	if p.DatasetID > 0 {
		q.Set("dataset_id", strconv.FormatInt(p.DatasetID, 10))
	}
	return q
}

// ProfileUpdate carries the partial fields of a settings-profile PUT.
type ProfileUpdate struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
}

// PasswordChange is the payload of a settings-password PUT.
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}
