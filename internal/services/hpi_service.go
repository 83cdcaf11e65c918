package services

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/exp/slices"

	"hpi-dashboard/internal/models"
)

// ErrNoData reports that a region/date-range selection matched no records.
// It is a user-facing condition, not a program fault.
var ErrNoData = errors.New("no data available for this selection")

// dateLayout is the day/month/year form used by the HPI source file
const dateLayout = "02/01/2006"

// requiredColumns must be present in the header for the file to be usable
var requiredColumns = []string{
	"RegionName",
	"Date",
	"AveragePrice",
	"12m%Change",
	"SemiDetachedPrice",
	"TerracedPrice",
	"FlatPrice",
	"FTBPrice",
	"FTBIndex",
	"FTB12m%Change",
}

// HPIService handles loading and filtering of the HPI dataset. The loaded
// dataset is immutable; Reload swaps in a fresh one atomically.
type HPIService struct {
	hpiFilePath string

	mu      sync.RWMutex
	dataset *models.Dataset
}

// NewHPIService creates an HPIService and performs the initial load
func NewHPIService(hpiFilePath string) (*HPIService, error) {
	service := &HPIService{hpiFilePath: hpiFilePath}

	if err := service.Reload(); err != nil {
		return nil, fmt.Errorf("failed to load HPI data: %w", err)
	}

	return service, nil
}

// Reload re-reads the CSV file and swaps the dataset. On failure the
// previously loaded dataset stays in place.
func (s *HPIService) Reload() error {
	dataset, err := loadDataset(s.hpiFilePath)
	if err != nil {
		return err
	}

	validateTaxonomy(dataset)

	s.mu.Lock()
	s.dataset = dataset
	s.mu.Unlock()

	log.Printf("Loaded %d HPI records across %d regions", len(dataset.Records), len(dataset.Regions))
	return nil
}

// Dataset returns the currently loaded dataset
func (s *HPIService) Dataset() *models.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset
}

// loadDataset reads the HPI CSV file and returns a table of valid records
func loadDataset(path string) (*models.Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening HPI CSV file: %w", err)
	}
	defer file.Close()

	// Use buffered reader for better performance
	bufReader := bufio.NewReader(file)
	reader := csv.NewReader(bufReader)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV header: %w", err)
	}

	// Resolve columns by name rather than position
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("missing required column %q in %s", name, path)
		}
	}

	records := make([]models.Record, 0, 1024)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		// A record is valid only if both region and date are present
		region := strings.TrimSpace(field(row, columns, "RegionName"))
		if region == "" {
			continue
		}
		date, err := time.Parse(dateLayout, strings.TrimSpace(field(row, columns, "Date")))
		if err != nil {
			continue
		}

		records = append(records, models.Record{
			RegionName:           region,
			Date:                 date,
			AveragePrice:         parseAmount(field(row, columns, "AveragePrice")),
			TwelveMonthChange:    parseAmount(field(row, columns, "12m%Change")),
			SemiDetachedPrice:    parseAmount(field(row, columns, "SemiDetachedPrice")),
			TerracedPrice:        parseAmount(field(row, columns, "TerracedPrice")),
			FlatPrice:            parseAmount(field(row, columns, "FlatPrice")),
			FTBPrice:             parseAmount(field(row, columns, "FTBPrice")),
			FTBIndex:             parseAmount(field(row, columns, "FTBIndex")),
			FTBTwelveMonthChange: parseAmount(field(row, columns, "FTB12m%Change")),
		})
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("HPI CSV file %s contains no valid records", path)
	}

	return models.NewDataset(records), nil
}

// field returns the named column of a row, or "" when the row is short
func field(row []string, columns map[string]int, name string) string {
	i, ok := columns[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// parseAmount converts a numeric field to an Amount. Thousands separators
// are stripped first; anything unparseable is missing, never zero.
func parseAmount(s string) models.Amount {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return models.Amount{}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return models.Amount{}
	}
	return models.NewAmount(v)
}

// SelectableRegions resolves the list of selectable leaf regions for a
// parent group. The catch-all group and any unknown group yield the full
// alphabetical region list, as does a group with no members in the data.
func (s *HPIService) SelectableRegions(group string) []string {
	dataset := s.Dataset()

	if group == "" || group == AllRegionsGroup {
		return dataset.Regions
	}
	members, ok := regionGroups[group]
	if !ok {
		return dataset.Regions
	}

	// dataset.Regions is already alphabetical, so the intersection is too
	selectable := make([]string, 0, len(members))
	for _, region := range dataset.Regions {
		if slices.Contains(members, region) {
			selectable = append(selectable, region)
		}
	}
	if len(selectable) == 0 {
		return dataset.Regions
	}
	return selectable
}

// FilterRegion returns the chronologically sorted records for a region
// within the inclusive [from, to] range
func (s *HPIService) FilterRegion(region string, from, to time.Time) []models.Record {
	return FilterRange(s.Dataset().RegionRecords(region), from, to)
}

// FilterRange returns the subset of rows within the inclusive [from, to]
// range, preserving order. The input is never mutated.
func FilterRange(rows []models.Record, from, to time.Time) []models.Record {
	filtered := make([]models.Record, 0, len(rows))
	for _, rec := range rows {
		if rec.Date.Before(from) || rec.Date.After(to) {
			continue
		}
		filtered = append(filtered, rec)
	}
	return filtered
}

// LatestSnapshot returns the single record whose date equals the maximum
// date in the given subset. When duplicates share that date the first in
// chronological order wins.
func LatestSnapshot(rows []models.Record) (models.Record, error) {
	if len(rows) == 0 {
		return models.Record{}, ErrNoData
	}

	latest := rows[0].Date
	for _, rec := range rows[1:] {
		if rec.Date.After(latest) {
			latest = rec.Date
		}
	}
	for _, rec := range rows {
		if rec.Date.Equal(latest) {
			return rec, nil
		}
	}
	return models.Record{}, ErrNoData
}

// SnapshotMetrics builds the five dashboard metric cards for a snapshot
func SnapshotMetrics(snapshot models.Record) []models.Metric {
	return []models.Metric{
		models.CurrencyMetric("Avg Price (All)", snapshot.AveragePrice),
		models.ChangeMetric("Annual Change", snapshot.TwelveMonthChange),
		models.CurrencyMetric("FTB Price", snapshot.FTBPrice),
		models.IndexMetric("FTB Index", snapshot.FTBIndex),
		models.ChangeMetric("FTB Annual Change", snapshot.FTBTwelveMonthChange),
	}
}

// Summary filters a region over a date range and derives the latest
// snapshot plus the formatted dashboard metrics
func (s *HPIService) Summary(region string, from, to time.Time) (*models.SummaryResponse, error) {
	rows := s.FilterRegion(region, from, to)
	snapshot, err := LatestSnapshot(rows)
	if err != nil {
		return nil, err
	}

	series := make([]models.SeriesPoint, 0, len(rows))
	for _, rec := range rows {
		if !rec.AveragePrice.Valid {
			continue
		}
		series = append(series, models.SeriesPoint{
			Date:         rec.Date.Format("2006-01-02"),
			AveragePrice: rec.AveragePrice,
		})
	}

	return &models.SummaryResponse{
		Region:     region,
		StartDate:  from.Format("2006-01-02"),
		EndDate:    to.Format("2006-01-02"),
		LatestDate: snapshot.Date.Format("2006-01-02"),
		Metrics:    SnapshotMetrics(snapshot),
		Series:     series,
		PropertyTypes: []models.PropertyTypePrice{
			{PropertyType: "Semi-Detached", Price: snapshot.SemiDetachedPrice},
			{PropertyType: "Terraced", Price: snapshot.TerracedPrice},
			{PropertyType: "Flat", Price: snapshot.FlatPrice},
		},
	}, nil
}
