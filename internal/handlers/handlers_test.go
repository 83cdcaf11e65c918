package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/exp/slices"

	"hpi-dashboard/internal/models"
	"hpi-dashboard/internal/services"
)

const fixtureHeader = "RegionName,Date,AveragePrice,12m%Change,SemiDetachedPrice,TerracedPrice,FlatPrice,FTBPrice,FTBIndex,FTB12m%Change"

func newTestHandlers(t *testing.T) (*DashboardHandler, *APIHandler) {
	t.Helper()

	rows := []string{
		fixtureHeader,
		"Nottinghamshire,01/01/2020,200000,2.5,210000,150000,120000,160000,100.0,2.0",
		"Nottinghamshire,01/02/2020,205000,3.0,212000,152000,121000,162000,101.0,2.1",
		"Derby,01/01/2020,150000,1.5,160000,120000,100000,130000,98.0,1.2",
	}
	path := filepath.Join(t.TempDir(), "hpi.csv")
	if err := os.WriteFile(path, []byte(strings.Join(rows, "\n")+"\n"), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	hpiService, err := services.NewHPIService(path)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return NewDashboardHandler(hpiService, services.NewChartService()), NewAPIHandler(hpiService)
}

func TestHandleDashboard(t *testing.T) {
	dashboard, _ := newTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/?region=Nottinghamshire&start=2020-01-01&end=2020-02-01", nil)
	rec := httptest.NewRecorder()
	dashboard.HandleDashboard(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Nottinghamshire") {
		t.Fatal("expected region name in page")
	}
	if !strings.Contains(body, "Key Metrics for February 2020") {
		t.Fatal("expected latest period heading in page")
	}
	if !strings.Contains(body, "£205,000") {
		t.Fatal("expected formatted average price in page")
	}
}

func TestHandleDashboardDefaultsSelection(t *testing.T) {
	dashboard, _ := newTestHandlers(t)

	// No parameters: default region, full dataset range
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	dashboard.HandleDashboard(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Nottinghamshire") {
		t.Fatal("expected default region in page")
	}
	if !strings.Contains(body, `value="2020-01-01"`) || !strings.Contains(body, `value="2020-02-01"`) {
		t.Fatal("expected dataset date bounds as picker defaults")
	}
}

func TestHandleDashboardNoDataNotice(t *testing.T) {
	dashboard, _ := newTestHandlers(t)

	// A range before any observation yields the notice, not an error page
	req := httptest.NewRequest(http.MethodGet, "/?region=Derby&start=2019-01-01&end=2019-06-01", nil)
	rec := httptest.NewRecorder()
	dashboard.HandleDashboard(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No data available for") {
		t.Fatal("expected no-data notice in page")
	}
}

func TestHandleDashboardUnknownPath(t *testing.T) {
	dashboard, _ := newTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	dashboard.HandleDashboard(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHandlePriceTrendServesPNG(t *testing.T) {
	dashboard, _ := newTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/charts/price-trend.png?region=Nottinghamshire", nil)
	rec := httptest.NewRecorder()
	dashboard.HandlePriceTrend(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("expected image/png, got %q", ct)
	}
}

func TestHandleRegionsByGroup(t *testing.T) {
	_, api := newTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/regions?group=East+Midlands", nil)
	rec := httptest.NewRecorder()
	api.HandleRegions(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp models.RegionsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !slices.Equal(resp.Regions, []string{"Derby", "Nottinghamshire"}) {
		t.Fatalf("expected East Midlands members present in data, got %v", resp.Regions)
	}
}

func TestHandleSummary(t *testing.T) {
	_, api := newTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/summary?region=Nottinghamshire&start=2020-01-01&end=2020-02-01", nil)
	rec := httptest.NewRecorder()
	api.HandleSummary(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp models.SummaryResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.LatestDate != "2020-02-01" {
		t.Fatalf("expected latest date 2020-02-01, got %s", resp.LatestDate)
	}
	if len(resp.Series) != 2 {
		t.Fatalf("expected 2 series points, got %d", len(resp.Series))
	}
}

func TestHandleSummaryAbsentRegion(t *testing.T) {
	_, api := newTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/summary?region=Atlantis", nil)
	rec := httptest.NewRecorder()
	api.HandleSummary(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var resp models.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error == "" {
		t.Fatal("expected user-facing error body")
	}
}

func TestHandleSummaryRequiresRegion(t *testing.T) {
	_, api := newTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/summary", nil)
	rec := httptest.NewRecorder()
	api.HandleSummary(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandleReloadMethod(t *testing.T) {
	_, api := newTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/reload", nil)
	rec := httptest.NewRecorder()
	api.HandleReload(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestHandleReload(t *testing.T) {
	_, api := newTestHandlers(t)

	req := httptest.NewRequest(http.MethodPost, "/reload", nil)
	rec := httptest.NewRecorder()
	api.HandleReload(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp models.ReloadResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Records != 3 || resp.Regions != 2 {
		t.Fatalf("unexpected reload counts: %+v", resp)
	}
}
