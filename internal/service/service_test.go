package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"fleet-reliability/internal/alerting"
	"fleet-reliability/internal/config"
	"fleet-reliability/internal/ingest"
	"fleet-reliability/internal/reliability"
	"fleet-reliability/internal/storage"
)

type fakeLoader struct {
	records []ingest.PeriodRecord
}

func (f *fakeLoader) LoadHistory(context.Context) ([]ingest.PeriodRecord, error) {
	return f.records, nil
}

type fakeKPIStore struct {
	upserts []storage.KPIPeriod
}

func (f *fakeKPIStore) UpsertKPIPeriod(_ context.Context, p storage.KPIPeriod) error {
	f.upserts = append(f.upserts, p)
	return nil
}

func (f *fakeKPIStore) ListRecentKPIPeriods(context.Context, int) ([]storage.KPIPeriod, error) {
	return f.upserts, nil
}

type fakeAlertStore struct {
	alerts []storage.DFAlert
}

func (f *fakeAlertStore) InsertDFAlert(_ context.Context, a storage.DFAlert) (storage.DFAlert, error) {
	f.alerts = append(f.alerts, a)
	return a, nil
}

func (f *fakeAlertStore) DeleteDFAlertsBefore(context.Context, time.Time) error { return nil }

type fakeNotifier struct {
	notes []alerting.Notification
}

func (f *fakeNotifier) Notify(_ context.Context, n alerting.Notification) error {
	f.notes = append(f.notes, n)
	return nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Planner.TargetDF = 0.92
	cfg.Alerting.Enabled = true
	cfg.Alerting.Channels = []string{"telegram"}
	cfg.Alerting.Cooldown = 0
	return cfg
}

func testRecords() []ingest.PeriodRecord {
	return []ingest.PeriodRecord{
		{
			Period:   "2025-07",
			Window:   reliability.Window{CalendarHours: 744, PMHours: 20, CorrectiveHours: 10},
			Failures: 2,
		},
		{
			Period:   "2025-08",
			Window:   reliability.Window{CalendarHours: 744, PMHours: 40, CorrectiveHours: 120},
			Failures: 6,
		},
	}
}

func TestProcessTickRetrofitsAndAlerts(t *testing.T) {
	store := &fakeKPIStore{}
	alertStore := &fakeAlertStore{}
	notifier := &fakeNotifier{}

	svc := New(testConfig(), nil, &fakeLoader{records: testRecords()}, store, alertStore, notifier, zerolog.Nop())

	if err := svc.ProcessTick(context.Background(), time.Now()); err != nil {
		t.Fatalf("ProcessTick failed: %v", err)
	}

	if len(store.upserts) != 2 {
		t.Fatalf("expected 2 upserted periods, got %d", len(store.upserts))
	}

	latest := store.upserts[1]
	if latest.Period != "2025-08" {
		t.Fatalf("periods must be processed in chronological order, latest %s", latest.Period)
	}
	wantDF := (744.0 - 40 - 120) / 744.0
	if diff := latest.TotalDF - wantDF; diff > 1e-12 || diff < -1e-12 {
		t.Fatalf("latest TotalDF = %f, want %f", latest.TotalDF, wantDF)
	}
	if latest.MTBF == nil {
		t.Fatal("period with failures should persist a finite MTBF")
	}

	// 2025-08 sits below the 0.92 target, so one alert must go out.
	if len(notifier.notes) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifier.notes))
	}
	if notifier.notes[0].Period != "2025-08" {
		t.Fatalf("alert should reference the latest period, got %s", notifier.notes[0].Period)
	}
	if len(alertStore.alerts) != 1 {
		t.Fatalf("expected 1 persisted alert record, got %d", len(alertStore.alerts))
	}
}

func TestProcessTickNoAlertAboveTarget(t *testing.T) {
	records := []ingest.PeriodRecord{
		{
			Period:   "2025-08",
			Window:   reliability.Window{CalendarHours: 744, PMHours: 10, CorrectiveHours: 5},
			Failures: 1,
		},
	}
	notifier := &fakeNotifier{}
	svc := New(testConfig(), nil, &fakeLoader{records: records}, &fakeKPIStore{}, &fakeAlertStore{}, notifier, zerolog.Nop())

	if err := svc.ProcessTick(context.Background(), time.Now()); err != nil {
		t.Fatalf("ProcessTick failed: %v", err)
	}
	if len(notifier.notes) != 0 {
		t.Fatalf("no alert expected above target, got %d", len(notifier.notes))
	}
}

func TestRetrofitPeriodZeroFailures(t *testing.T) {
	period := retrofitPeriod(ingest.PeriodRecord{
		Period:   "2025-06",
		Window:   reliability.Window{CalendarHours: 720, PMHours: 24, CorrectiveHours: 0},
		Failures: 0,
	})

	if period.Status != "complete" {
		t.Fatalf("zero-failure period is valid, got status %s", period.Status)
	}
	if period.MTBF != nil {
		t.Fatal("unbounded MTBF must persist as NULL")
	}
	if period.MTTR != 0 {
		t.Fatalf("zero-failure MTTR must be 0, got %f", period.MTTR)
	}
	if period.InherentDF != 1 {
		t.Fatalf("zero-failure inherent DF must be 1, got %f", period.InherentDF)
	}
}

func TestAlertCooldownSuppression(t *testing.T) {
	cfg := testConfig()
	cfg.Alerting.Cooldown = time.Hour

	notifier := &fakeNotifier{}
	svc := New(cfg, nil, &fakeLoader{records: testRecords()}, &fakeKPIStore{}, &fakeAlertStore{}, notifier, zerolog.Nop())

	for i := 0; i < 3; i++ {
		if err := svc.ProcessTick(context.Background(), time.Now()); err != nil {
			t.Fatalf("ProcessTick failed: %v", err)
		}
	}
	if len(notifier.notes) != 1 {
		t.Fatalf("cooldown should keep repeat alerts at 1, got %d", len(notifier.notes))
	}
}
