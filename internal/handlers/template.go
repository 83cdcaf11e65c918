package handlers

import (
	"html/template"

	"hpi-dashboard/internal/models"
)

// dashboardView is the data passed to the dashboard template
type dashboardView struct {
	Region       string
	Group        string
	Groups       []string
	Regions      []string
	StartDate    string
	EndDate      string
	MinDate      string
	MaxDate      string
	ChartQuery   string
	NoData       bool
	LatestDate   string
	HasTrendData bool
	HasTypeData  bool
	Metrics      []models.Metric
}

var dashboardTemplate = template.Must(template.New("dashboard").Parse(dashboardPage))

const dashboardPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>UK House Price Index Dashboard</title>
<style>
  body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; margin: 0; background: #f7f8fa; color: #24292f; }
  header { background: #1f3a5f; color: #fff; padding: 14px 24px; }
  header h1 { margin: 0; font-size: 20px; }
  .container { padding: 20px 24px; max-width: 1440px; margin: 0 auto; }
  form.filters { display: flex; flex-wrap: wrap; gap: 12px; align-items: flex-end; background: #fff; border: 1px solid #d8dee4; border-radius: 6px; padding: 14px 16px; margin-bottom: 20px; }
  form.filters label { display: block; font-size: 12px; color: #57606a; margin-bottom: 4px; }
  form.filters select, form.filters input { padding: 6px 8px; border: 1px solid #d0d7de; border-radius: 4px; font-size: 14px; }
  form.filters button { padding: 7px 16px; background: #1f3a5f; color: #fff; border: 0; border-radius: 4px; font-size: 14px; cursor: pointer; }
  .notice { background: #fff8c5; border: 1px solid #d4a72c; border-radius: 6px; padding: 12px 16px; margin-bottom: 20px; }
  .charts { display: flex; flex-wrap: wrap; gap: 20px; margin-bottom: 20px; }
  .panel { background: #fff; border: 1px solid #d8dee4; border-radius: 6px; padding: 12px; flex: 1 1 480px; }
  .panel h2 { font-size: 15px; margin: 0 0 8px; }
  .panel img { max-width: 100%; }
  .metrics { display: flex; flex-wrap: wrap; gap: 16px; }
  .metric { background: #fff; border: 1px solid #d8dee4; border-radius: 6px; padding: 12px 16px; min-width: 160px; flex: 1; }
  .metric .label { font-size: 12px; color: #57606a; }
  .metric .value { font-size: 22px; font-weight: 600; margin-top: 4px; }
  .metric .delta { font-size: 13px; margin-top: 2px; }
  .delta.up { color: #1a7f37; }
  .delta.down { color: #cf222e; }
</style>
</head>
<body>
<header><h1>HomeAgent Dashboard Home for {{.Region}}</h1></header>
<div class="container">

<form class="filters" method="get" action="/">
  <div>
    <label for="group">Area group</label>
    <select id="group" name="group">
      {{range .Groups}}<option value="{{.}}"{{if eq . $.Group}} selected{{end}}>{{.}}</option>{{end}}
    </select>
  </div>
  <div>
    <label for="region">Region to analyse</label>
    <select id="region" name="region">
      {{range .Regions}}<option value="{{.}}"{{if eq . $.Region}} selected{{end}}>{{.}}</option>{{end}}
    </select>
  </div>
  <div>
    <label for="start">From</label>
    <input type="date" id="start" name="start" value="{{.StartDate}}" min="{{.MinDate}}" max="{{.MaxDate}}">
  </div>
  <div>
    <label for="end">To</label>
    <input type="date" id="end" name="end" value="{{.EndDate}}" min="{{.MinDate}}" max="{{.MaxDate}}">
  </div>
  <button type="submit">Apply</button>
</form>

{{if .NoData}}
<div class="notice">No data available for <strong>{{.Region}}</strong> in the selected period.</div>
{{else}}

<div class="charts">
  <div class="panel">
    <h2>Price Trend Over Time</h2>
    {{if .HasTrendData}}
    <img src="/charts/price-trend.png?{{.ChartQuery}}" alt="Average price trend for {{.Region}}">
    {{else}}
    <p>Price trend data not available.</p>
    {{end}}
  </div>
  <div class="panel">
    <h2>House Type Prices</h2>
    {{if .HasTypeData}}
    <img src="/charts/property-types.png?{{.ChartQuery}}" alt="Property type prices for {{.Region}}">
    {{else}}
    <p>House type data not available.</p>
    {{end}}
  </div>
</div>

<h2>Key Metrics for {{.LatestDate}}</h2>
<div class="metrics">
  {{range .Metrics}}
  <div class="metric">
    <div class="label">{{.Label}}</div>
    <div class="value">{{.Value}}</div>
    {{if .Delta}}<div class="delta {{.Direction}}">{{.Delta}}</div>{{end}}
  </div>
  {{end}}
</div>

{{end}}
</div>
</body>
</html>
`
