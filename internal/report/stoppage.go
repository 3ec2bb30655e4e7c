package report

import (
	"fmt"
	"html/template"
	"io"
	"sort"
	"time"

	"fleet-reliability/internal/ingest"
)

// AggregateRow is one line of a stoppage summary table.
type AggregateRow struct {
	Fleet        string
	Machine      string // empty on fleet-level rows
	Events       int
	StoppedHours float64
}

// StoppageReport is the assembled report content.
type StoppageReport struct {
	Source          string
	GeneratedAt     time.Time
	CurrentPeriod   string
	ByFleetCurrent  []AggregateRow
	ByFleetAll      []AggregateRow
	ByMachineCurrent []AggregateRow
	ByMachineAll    []AggregateRow
	TopMachines     []AggregateRow
	EventsCurrent   int
	HoursCurrent    float64
	EventsAll       int
	HoursAll        float64
}

const topMachineCount = 10

// BuildStoppageReport aggregates stoppage records per fleet and per machine,
// splitting the month containing now from the full history.
func BuildStoppageReport(records []ingest.StoppageRecord, source string, now time.Time) *StoppageReport {
	current := make([]ingest.StoppageRecord, 0, len(records))
	for _, r := range records {
		if !r.Date.IsZero() && sameMonth(r.Date, now) {
			current = append(current, r)
		}
	}

	rpt := &StoppageReport{
		Source:           source,
		GeneratedAt:      now,
		CurrentPeriod:    now.Format("2006-01"),
		ByFleetCurrent:   aggregate(current, false),
		ByFleetAll:       aggregate(records, false),
		ByMachineCurrent: aggregate(current, true),
		ByMachineAll:     aggregate(records, true),
	}

	if len(rpt.ByMachineCurrent) > topMachineCount {
		rpt.TopMachines = rpt.ByMachineCurrent[:topMachineCount]
	} else {
		rpt.TopMachines = rpt.ByMachineCurrent
	}

	for _, row := range rpt.ByFleetCurrent {
		rpt.EventsCurrent += row.Events
		rpt.HoursCurrent += row.StoppedHours
	}
	for _, row := range rpt.ByFleetAll {
		rpt.EventsAll += row.Events
		rpt.HoursAll += row.StoppedHours
	}

	return rpt
}

// aggregate sums events and stopped hours per fleet, or per (machine, fleet)
// when byMachine is set. Rows sort by stopped hours, then event count,
// descending.
func aggregate(records []ingest.StoppageRecord, byMachine bool) []AggregateRow {
	type key struct{ fleet, machine string }
	groups := make(map[key]*AggregateRow)

	for _, r := range records {
		k := key{fleet: r.Fleet}
		if byMachine {
			k.machine = r.Machine
		}
		row, ok := groups[k]
		if !ok {
			row = &AggregateRow{Fleet: k.fleet, Machine: k.machine}
			groups[k] = row
		}
		row.Events++
		row.StoppedHours += r.DowntimeHours
	}

	rows := make([]AggregateRow, 0, len(groups))
	for _, row := range groups {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].StoppedHours != rows[j].StoppedHours {
			return rows[i].StoppedHours > rows[j].StoppedHours
		}
		if rows[i].Events != rows[j].Events {
			return rows[i].Events > rows[j].Events
		}
		if rows[i].Fleet != rows[j].Fleet {
			return rows[i].Fleet < rows[j].Fleet
		}
		return rows[i].Machine < rows[j].Machine
	})
	return rows
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

var stoppageTemplate = template.Must(template.New("stoppage").Funcs(template.FuncMap{
	"hours": func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"section": func(title string, rows []AggregateRow) map[string]interface{} {
		return map[string]interface{}{"Title": title, "Rows": rows}
	},
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8" />
<title>Fleet Stoppage Report</title>
<style>
body { font-family: Arial, Helvetica, sans-serif; margin: 24px; }
h1, h2, h3 { color: #222; }
table { border-collapse: collapse; width: 100%; margin-bottom: 18px; }
th, td { border: 1px solid #ddd; padding: 8px; font-size: 12px; }
th { background: #f3f3f3; text-align: left; }
.kpi { display: inline-block; margin-right: 16px; padding: 6px 10px; background: #f7f7f7; border-radius: 6px; }
.footer { color: #777; font-size: 12px; margin-top: 12px; }
</style>
</head>
<body>
<h1>Fleet Stoppage Report</h1>
<p>Source: <b>{{.Source}}</b> &middot; Generated {{.GeneratedAt.Format "2006-01-02 15:04"}}</p>

<h2>Current month: {{.CurrentPeriod}}</h2>
<div>
  <span class="kpi"><b>Events</b>: {{.EventsCurrent}}</span>
  <span class="kpi"><b>Stopped hours</b>: {{hours .HoursCurrent}}</span>
</div>
{{template "table" section "By fleet (current month)" .ByFleetCurrent}}
{{template "table" section "Top machines (current month)" .TopMachines}}

<h2>Full history</h2>
<div>
  <span class="kpi"><b>Events</b>: {{.EventsAll}}</span>
  <span class="kpi"><b>Stopped hours</b>: {{hours .HoursAll}}</span>
</div>
{{template "table" section "By fleet (history)" .ByFleetAll}}
{{template "table" section "By machine (history)" .ByMachineAll}}

<div class="footer">Events counted per row; negative or implausible hours dropped on ingest; fleet inferred from machine prefix when absent.</div>
</body>
</html>
{{define "table"}}
<h3>{{.Title}}</h3>
<table>
<tr><th>Fleet</th><th>Machine</th><th>Events</th><th>Stopped hours</th></tr>
{{range .Rows}}<tr><td>{{.Fleet}}</td><td>{{.Machine}}</td><td>{{.Events}}</td><td>{{hours .StoppedHours}}</td></tr>
{{end}}</table>
{{end}}`))

// RenderStoppageHTML writes the report as a standalone HTML page.
func RenderStoppageHTML(w io.Writer, rpt *StoppageReport) error {
	return stoppageTemplate.Execute(w, rpt)
}
