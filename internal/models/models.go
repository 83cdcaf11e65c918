package models

import (
	"encoding/json"
	"time"

	"golang.org/x/exp/slices"
)

// Amount represents a numeric field that may be missing from the source
// data. A missing value is never treated as zero.
type Amount struct {
	Value float64
	Valid bool
}

// NewAmount creates a present Amount
func NewAmount(v float64) Amount {
	return Amount{Value: v, Valid: true}
}

// MarshalJSON renders a missing amount as null rather than 0
func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(a.Value)
}

// UnmarshalJSON accepts null for a missing amount
func (a *Amount) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*a = Amount{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*a = NewAmount(v)
	return nil
}

// Record represents one HPI observation for a (region, month) pair
type Record struct {
	RegionName           string    `json:"region_name"`
	Date                 time.Time `json:"date"`
	AveragePrice         Amount    `json:"average_price"`
	TwelveMonthChange    Amount    `json:"twelve_month_change"`
	SemiDetachedPrice    Amount    `json:"semi_detached_price"`
	TerracedPrice        Amount    `json:"terraced_price"`
	FlatPrice            Amount    `json:"flat_price"`
	FTBPrice             Amount    `json:"ftb_price"`
	FTBIndex             Amount    `json:"ftb_index"`
	FTBTwelveMonthChange Amount    `json:"ftb_twelve_month_change"`
}

// Dataset is an immutable view of all valid HPI records, indexed by region.
// Filtering produces read-only slices; the dataset itself is never mutated
// after construction.
type Dataset struct {
	Records  []Record
	Regions  []string
	MinDate  time.Time
	MaxDate  time.Time
	byRegion map[string][]Record
}

// NewDataset creates a dataset from a list of valid records
func NewDataset(records []Record) *Dataset {
	ds := &Dataset{
		Records:  records,
		byRegion: make(map[string][]Record),
	}

	for _, rec := range records {
		ds.byRegion[rec.RegionName] = append(ds.byRegion[rec.RegionName], rec)
	}

	// Sort each region's records chronologically in a single pass
	for region, rows := range ds.byRegion {
		slices.SortStableFunc(rows, func(a, b Record) int {
			return a.Date.Compare(b.Date)
		})
		ds.byRegion[region] = rows

		if ds.MinDate.IsZero() || rows[0].Date.Before(ds.MinDate) {
			ds.MinDate = rows[0].Date
		}
		if last := rows[len(rows)-1].Date; last.After(ds.MaxDate) {
			ds.MaxDate = last
		}

		ds.Regions = append(ds.Regions, region)
	}
	slices.Sort(ds.Regions)

	return ds
}

// RegionRecords returns the chronologically sorted records for a region
func (d *Dataset) RegionRecords(region string) []Record {
	return d.byRegion[region]
}

// SeriesPoint represents one point of the price trend series
type SeriesPoint struct {
	Date         string `json:"date"`
	AveragePrice Amount `json:"average_price"`
}

// PropertyTypePrice represents one bar of the property type comparison
type PropertyTypePrice struct {
	PropertyType string `json:"property_type"`
	Price        Amount `json:"price"`
}

// GroupsResponse represents the response for the groups endpoint
type GroupsResponse struct {
	Groups []string `json:"groups"`
}

// RegionsResponse represents the response for the regions endpoint
type RegionsResponse struct {
	Group   string   `json:"group"`
	Regions []string `json:"regions"`
}

// SummaryResponse represents the response for the summary endpoint
type SummaryResponse struct {
	Region        string              `json:"region"`
	StartDate     string              `json:"start_date"`
	EndDate       string              `json:"end_date"`
	LatestDate    string              `json:"latest_date"`
	Metrics       []Metric            `json:"metrics"`
	Series        []SeriesPoint       `json:"series"`
	PropertyTypes []PropertyTypePrice `json:"property_types"`
}

// ReloadResponse represents the response for the reload endpoint
type ReloadResponse struct {
	Records int `json:"records"`
	Regions int `json:"regions"`
}

// ErrorResponse represents a user-facing error body
type ErrorResponse struct {
	Error string `json:"error"`
}
