package report

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"fleet-reliability/internal/ingest"
)

func sampleRecords() []ingest.StoppageRecord {
	aug := func(day int) time.Time {
		return time.Date(2025, time.August, day, 0, 0, 0, 0, time.UTC)
	}
	return []ingest.StoppageRecord{
		{Date: aug(2), Machine: "CB042", Fleet: "CB", DowntimeHours: 5.5},
		{Date: aug(3), Machine: "CB042", Fleet: "CB", DowntimeHours: 2.0},
		{Date: aug(4), Machine: "TE117", Fleet: "TE", DowntimeHours: 12.0},
		{Date: time.Date(2025, time.July, 20, 0, 0, 0, 0, time.UTC), Machine: "PC009", Fleet: "PC", DowntimeHours: 40.0},
	}
}

func TestBuildStoppageReport(t *testing.T) {
	now := time.Date(2025, time.August, 24, 10, 0, 0, 0, time.UTC)
	rpt := BuildStoppageReport(sampleRecords(), "paradas.xlsx", now)

	if rpt.CurrentPeriod != "2025-08" {
		t.Errorf("current period = %q", rpt.CurrentPeriod)
	}
	if rpt.EventsCurrent != 3 || rpt.EventsAll != 4 {
		t.Errorf("events = %d current / %d all", rpt.EventsCurrent, rpt.EventsAll)
	}
	if math.Abs(rpt.HoursCurrent-19.5) > 1e-9 {
		t.Errorf("current hours = %v, want 19.5", rpt.HoursCurrent)
	}
	if math.Abs(rpt.HoursAll-59.5) > 1e-9 {
		t.Errorf("all hours = %v, want 59.5", rpt.HoursAll)
	}

	// Fleet rows sort by stopped hours descending: TE (12) above CB (7.5)
	// in the current month, PC (40) first over the whole history.
	if rpt.ByFleetCurrent[0].Fleet != "TE" {
		t.Errorf("top current fleet = %q, want TE", rpt.ByFleetCurrent[0].Fleet)
	}
	if rpt.ByFleetAll[0].Fleet != "PC" {
		t.Errorf("top historical fleet = %q, want PC", rpt.ByFleetAll[0].Fleet)
	}

	// Machine rows merge repeat events.
	var cb AggregateRow
	for _, row := range rpt.ByMachineCurrent {
		if row.Machine == "CB042" {
			cb = row
		}
	}
	if cb.Events != 2 || math.Abs(cb.StoppedHours-7.5) > 1e-9 {
		t.Errorf("CB042 aggregate = %+v", cb)
	}
}

func TestRenderStoppageHTML(t *testing.T) {
	now := time.Date(2025, time.August, 24, 10, 0, 0, 0, time.UTC)
	rpt := BuildStoppageReport(sampleRecords(), "paradas.xlsx", now)

	var buf bytes.Buffer
	if err := RenderStoppageHTML(&buf, rpt); err != nil {
		t.Fatalf("RenderStoppageHTML: %v", err)
	}

	html := buf.String()
	for _, want := range []string{"paradas.xlsx", "2025-08", "CB042", "TE", "Stopped hours"} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered HTML missing %q", want)
		}
	}
}
