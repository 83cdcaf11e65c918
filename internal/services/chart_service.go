package services

import (
	"bytes"
	"fmt"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"hpi-dashboard/internal/models"
)

const (
	chartWidth  = 680
	chartHeight = 420
)

// ChartService renders the dashboard visualizations as PNG images
type ChartService struct{}

// NewChartService creates a new ChartService instance
func NewChartService() *ChartService {
	return &ChartService{}
}

// poundFormatter renders axis values as whole pound amounts
func poundFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return models.FormatPounds(f)
	}
	return ""
}

// RenderPriceTrend renders the average price time series for the filtered
// range. Records without a price are skipped, not plotted as zero.
func (c *ChartService) RenderPriceTrend(region string, rows []models.Record) ([]byte, error) {
	times := make([]time.Time, 0, len(rows))
	values := make([]float64, 0, len(rows))
	for _, rec := range rows {
		if !rec.AveragePrice.Valid {
			continue
		}
		times = append(times, rec.Date)
		values = append(values, rec.AveragePrice.Value)
	}
	if len(times) == 0 {
		return nil, ErrNoData
	}
	if len(times) == 1 {
		// go-chart cannot render a single-point series; widen it to a flat
		// segment one month long
		times = append(times, times[0].AddDate(0, 1, 0))
		values = append(values, values[0])
	}

	graph := chart.Chart{
		Title:      fmt.Sprintf("Avg. House Price Trend (%s)", region),
		Width:      chartWidth,
		Height:     chartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 36, Left: 16, Right: 16, Bottom: 28}},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("Jan 2006"),
		},
		YAxis: chart.YAxis{
			ValueFormatter: poundFormatter,
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Average Price",
				XValues: times,
				YValues: values,
				Style: chart.Style{
					StrokeColor: drawing.ColorFromHex("1f77b4"),
					StrokeWidth: 2.0,
				},
			},
		},
	}

	// A flat series has a zero value range, which go-chart rejects
	minV, maxV := values[0], values[0]
	for _, v := range values[1:] {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	if minV == maxV {
		graph.YAxis.Range = &chart.ContinuousRange{Min: minV - 1, Max: maxV + 1}
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("error rendering price trend chart: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderPropertyTypes renders the property type comparison at the latest
// date. Missing type prices are omitted; all missing yields ErrNoData.
func (c *ChartService) RenderPropertyTypes(snapshot models.Record) ([]byte, error) {
	typePrices := []struct {
		label string
		price models.Amount
		color drawing.Color
	}{
		{"Semi-Detached", snapshot.SemiDetachedPrice, drawing.ColorFromHex("1f77b4")},
		{"Terraced", snapshot.TerracedPrice, drawing.ColorFromHex("2ca02c")},
		{"Flat", snapshot.FlatPrice, drawing.ColorFromHex("ff7f0e")},
	}

	bars := make([]chart.Value, 0, len(typePrices))
	for _, tp := range typePrices {
		if !tp.price.Valid {
			continue
		}
		bars = append(bars, chart.Value{
			Label: tp.label,
			Value: tp.price.Value,
			Style: chart.Style{FillColor: tp.color, StrokeColor: tp.color},
		})
	}
	if len(bars) == 0 {
		return nil, ErrNoData
	}

	// Bars are drawn against an explicit zero-based range so equal prices do
	// not collapse the value range
	maxPrice := bars[0].Value
	for _, b := range bars[1:] {
		if b.Value > maxPrice {
			maxPrice = b.Value
		}
	}
	if maxPrice <= 0 {
		maxPrice = 1
	}

	graph := chart.BarChart{
		Title:      fmt.Sprintf("Prices by Type (%s)", snapshot.Date.Format("Jan 2006")),
		Width:      chartWidth,
		Height:     chartHeight,
		BarWidth:   90,
		Background: chart.Style{Padding: chart.Box{Top: 36, Left: 16, Right: 16, Bottom: 28}},
		YAxis: chart.YAxis{
			ValueFormatter: poundFormatter,
			Range:          &chart.ContinuousRange{Min: 0, Max: maxPrice * 1.05},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("error rendering property type chart: %w", err)
	}
	return buf.Bytes(), nil
}
