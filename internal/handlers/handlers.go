package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/exp/slices"

	"hpi-dashboard/internal/models"
	"hpi-dashboard/internal/services"
)

// defaultRegion is preselected when present in the data
const defaultRegion = "Nottinghamshire"

// queryDateLayout is the ISO form produced by the date pickers
const queryDateLayout = "2006-01-02"

// DashboardHandler serves the dashboard page, its chart images, and the
// JSON endpoints over the same selection semantics
type DashboardHandler struct {
	hpiService   *services.HPIService
	chartService *services.ChartService
}

// NewDashboardHandler creates a new DashboardHandler instance
func NewDashboardHandler(hpiService *services.HPIService, chartService *services.ChartService) *DashboardHandler {
	return &DashboardHandler{
		hpiService:   hpiService,
		chartService: chartService,
	}
}

// selection holds a resolved region/date-range choice
type selection struct {
	Group   string
	Region  string
	Regions []string
	Start   time.Time
	End     time.Time
}

// parseSelection resolves the query parameters against the loaded dataset.
// An absent or half-set date range defaults to the dataset's full range; an
// absent or unselectable region falls back to the default, then the first
// selectable one.
func (h *DashboardHandler) parseSelection(r *http.Request) selection {
	dataset := h.hpiService.Dataset()
	query := r.URL.Query()

	group := query.Get("group")
	if group == "" {
		group = services.AllRegionsGroup
	}
	regions := h.hpiService.SelectableRegions(group)

	region := query.Get("region")
	if !slices.Contains(regions, region) {
		if slices.Contains(regions, defaultRegion) {
			region = defaultRegion
		} else {
			region = regions[0]
		}
	}

	start, errStart := time.Parse(queryDateLayout, query.Get("start"))
	end, errEnd := time.Parse(queryDateLayout, query.Get("end"))
	if errStart != nil || errEnd != nil {
		start, end = dataset.MinDate, dataset.MaxDate
	}

	return selection{
		Group:   group,
		Region:  region,
		Regions: regions,
		Start:   start,
		End:     end,
	}
}

// chartQuery rebuilds the canonical query string for the chart image URLs
func (sel selection) chartQuery() string {
	values := url.Values{}
	values.Set("group", sel.Group)
	values.Set("region", sel.Region)
	values.Set("start", sel.Start.Format(queryDateLayout))
	values.Set("end", sel.End.Format(queryDateLayout))
	return values.Encode()
}

// HandleDashboard renders the dashboard page
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()

	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	dataset := h.hpiService.Dataset()
	sel := h.parseSelection(r)

	view := dashboardView{
		Region:     sel.Region,
		Group:      sel.Group,
		Groups:     services.GroupNames(),
		Regions:    sel.Regions,
		StartDate:  sel.Start.Format(queryDateLayout),
		EndDate:    sel.End.Format(queryDateLayout),
		MinDate:    dataset.MinDate.Format(queryDateLayout),
		MaxDate:    dataset.MaxDate.Format(queryDateLayout),
		ChartQuery: sel.chartQuery(),
	}

	rows := h.hpiService.FilterRegion(sel.Region, sel.Start, sel.End)
	snapshot, err := services.LatestSnapshot(rows)
	if err != nil {
		// Non-fatal: render the page with the notice and the pickers intact
		view.NoData = true
	} else {
		view.LatestDate = snapshot.Date.Format("January 2006")
		view.HasTrendData = hasPrice(rows)
		view.HasTypeData = snapshot.SemiDetachedPrice.Valid || snapshot.TerracedPrice.Valid || snapshot.FlatPrice.Valid
		view.Metrics = services.SnapshotMetrics(snapshot)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := dashboardTemplate.Execute(w, view); err != nil {
		log.Printf("Error rendering dashboard: %v", err)
	}

	duration := time.Since(startTime)
	log.Printf("Request processed in %v\n", duration)
}

// hasPrice reports whether any record carries an average price
func hasPrice(rows []models.Record) bool {
	for _, rec := range rows {
		if rec.AveragePrice.Valid {
			return true
		}
	}
	return false
}

// HandlePriceTrend serves the price trend chart image
func (h *DashboardHandler) HandlePriceTrend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sel := h.parseSelection(r)
	rows := h.hpiService.FilterRegion(sel.Region, sel.Start, sel.End)

	png, err := h.chartService.RenderPriceTrend(sel.Region, rows)
	if errors.Is(err, services.ErrNoData) {
		http.Error(w, "No data available for this selection", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("Error rendering price trend: %v", err)
		http.Error(w, "Error rendering chart", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// HandlePropertyTypes serves the property type chart image
func (h *DashboardHandler) HandlePropertyTypes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sel := h.parseSelection(r)
	rows := h.hpiService.FilterRegion(sel.Region, sel.Start, sel.End)

	snapshot, err := services.LatestSnapshot(rows)
	if err == nil {
		var png []byte
		png, err = h.chartService.RenderPropertyTypes(snapshot)
		if err == nil {
			w.Header().Set("Content-Type", "image/png")
			w.Write(png)
			return
		}
	}
	if errors.Is(err, services.ErrNoData) {
		http.Error(w, "No data available for this selection", http.StatusNotFound)
		return
	}
	log.Printf("Error rendering property types: %v", err)
	http.Error(w, "Error rendering chart", http.StatusInternalServerError)
}

// APIHandler serves the JSON endpoints
type APIHandler struct {
	hpiService *services.HPIService
}

// NewAPIHandler creates a new APIHandler instance
func NewAPIHandler(hpiService *services.HPIService) *APIHandler {
	return &APIHandler{
		hpiService: hpiService,
	}
}

// writeJSON encodes a response body with the JSON content type
func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// HandleGroups returns the selectable parent group names
func (h *APIHandler) HandleGroups(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, models.GroupsResponse{Groups: services.GroupNames()})
}

// HandleRegions returns the selectable leaf regions for a group
func (h *APIHandler) HandleRegions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	group := r.URL.Query().Get("group")
	if group == "" {
		group = services.AllRegionsGroup
	}

	writeJSON(w, http.StatusOK, models.RegionsResponse{
		Group:   group,
		Regions: h.hpiService.SelectableRegions(group),
	})
}

// HandleSummary returns the filtered series, latest snapshot, and formatted
// metrics for a region and date range
func (h *APIHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()
	region := query.Get("region")
	if region == "" {
		http.Error(w, "Region is required", http.StatusBadRequest)
		return
	}

	dataset := h.hpiService.Dataset()
	start, errStart := time.Parse(queryDateLayout, query.Get("start"))
	end, errEnd := time.Parse(queryDateLayout, query.Get("end"))
	if errStart != nil || errEnd != nil {
		start, end = dataset.MinDate, dataset.MaxDate
	}

	summary, err := h.hpiService.Summary(region, start, end)
	if errors.Is(err, services.ErrNoData) {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{
			Error: "no data available for " + region,
		})
		return
	}
	if err != nil {
		http.Error(w, "Error processing request", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, summary)

	duration := time.Since(startTime)
	log.Printf("Request processed in %v\n", duration)
}

// HandleReload re-reads the CSV file and swaps the dataset
func (h *APIHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := h.hpiService.Reload(); err != nil {
		log.Printf("Error reloading HPI data: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Error: "reload failed, previous dataset kept",
		})
		return
	}

	dataset := h.hpiService.Dataset()
	writeJSON(w, http.StatusOK, models.ReloadResponse{
		Records: len(dataset.Records),
		Regions: len(dataset.Regions),
	})

	duration := time.Since(startTime)
	log.Printf("Dataset reloaded in %v\n", duration)
}
