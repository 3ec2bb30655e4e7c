package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"fleet-reliability/internal/alerting"
	"fleet-reliability/internal/config"
	"fleet-reliability/internal/ingest"
	"fleet-reliability/internal/reliability"
	"fleet-reliability/internal/scheduler"
	"fleet-reliability/internal/storage"
)

// Service orchestrates history ingestion, KPI retrofit, persistence,
// and availability-breach alerting.
type Service struct {
	scheduler  *scheduler.Scheduler
	history    ingest.HistoryLoader
	store      storage.KPIStore
	alertStore storage.AlertStore
	notifier   alerting.Notifier
	logger     zerolog.Logger

	targetDF  float64
	marginDF  float64
	channels  []string
	alertsOn  bool
	cooldown  time.Duration
	lastAlert time.Time
	locker    storage.AdvisoryLocker
	lockKey   int64
}

// New constructs the watch service.
func New(cfg *config.Config, sched *scheduler.Scheduler, history ingest.HistoryLoader, store storage.KPIStore, alertStore storage.AlertStore, notifier alerting.Notifier, logger zerolog.Logger) *Service {
	var locker storage.AdvisoryLocker
	if l, ok := store.(storage.AdvisoryLocker); ok {
		locker = l
	}

	return &Service{
		scheduler:  sched,
		history:    history,
		store:      store,
		alertStore: alertStore,
		notifier:   notifier,
		logger:     logger.With().Str("component", "service").Logger(),
		targetDF:   cfg.Planner.TargetDF,
		marginDF:   cfg.Alerting.MarginDF,
		channels:   cfg.Alerting.Channels,
		alertsOn:   cfg.Alerting.Enabled,
		cooldown:   cfg.Alerting.Cooldown,
		locker:     locker,
		lockKey:    cfg.Scheduler.AdvisoryLockKey,
	}
}

// Run begins the aligned analysis loop.
func (s *Service) Run(ctx context.Context) error {
	if s.scheduler == nil {
		return fmt.Errorf("scheduler not configured")
	}
	return s.scheduler.Run(ctx, s.ProcessTick)
}

// ProcessTick executes one analysis pass for a scheduled tick.
func (s *Service) ProcessTick(ctx context.Context, tick time.Time) error {
	unlock, proceed, err := s.acquireLock(ctx)
	if err != nil {
		return err
	}
	if !proceed {
		s.logger.Debug().Time("tick", tick).Msg("skip tick because advisory lock held elsewhere")
		return nil
	}
	if unlock != nil {
		defer unlock()
	}

	return s.executeTick(ctx, tick)
}

func (s *Service) executeTick(ctx context.Context, tick time.Time) error {
	if s.history == nil {
		return fmt.Errorf("history loader not configured")
	}

	records, err := s.history.LoadHistory(ctx)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	if len(records) == 0 {
		s.logger.Warn().Time("tick", tick).Msg("history table contained no periods")
		return nil
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Period < records[j].Period
	})

	var latest storage.KPIPeriod
	for _, rec := range records {
		period := retrofitPeriod(rec)
		if s.store != nil {
			if err := s.store.UpsertKPIPeriod(ctx, period); err != nil {
				s.logger.Error().Err(err).Str("period", period.Period).Msg("failed to upsert kpi period")
			}
		}
		latest = period
	}

	s.logger.Info().Time("tick", tick).
		Int("periods", len(records)).
		Str("latest_period", latest.Period).
		Float64("latest_df", latest.TotalDF).
		Msg("kpi retrofit complete")

	s.maybeAlert(ctx, latest)
	return nil
}

// retrofitPeriod converts one accounting record into its persisted KPI row.
func retrofitPeriod(rec ingest.PeriodRecord) storage.KPIPeriod {
	kpis := reliability.Retrofit(rec.Window, rec.Failures)

	period := storage.KPIPeriod{
		Period:          rec.Period,
		CalendarHours:   rec.Window.CalendarHours,
		PMHours:         rec.Window.PMHours,
		CorrectiveHours: rec.Window.CorrectiveHours,
		Failures:        rec.Failures,
		Status:          "complete",
	}

	if !kpis.TotalDF.Feasible() {
		period.Status = "invalid"
		msg := "window rejected: " + kpis.TotalDF.State.String()
		period.Error = &msg
		return period
	}

	period.TotalDF = kpis.TotalDF.Value
	period.InherentDF = kpis.InherentDF.Value
	period.MTTR = kpis.MTTR.Value
	if kpis.MTBF.Feasible() && !math.IsInf(kpis.MTBF.Value, 0) {
		mtbf := kpis.MTBF.Value
		period.MTBF = &mtbf
	}
	return period
}

func (s *Service) maybeAlert(ctx context.Context, latest storage.KPIPeriod) {
	if !s.alertsOn || s.notifier == nil || latest.Status != "complete" {
		return
	}
	threshold := s.targetDF - s.marginDF
	if latest.TotalDF >= threshold {
		return
	}
	now := time.Now().UTC()
	if s.cooldown > 0 && !s.lastAlert.IsZero() && now.Sub(s.lastAlert) < s.cooldown {
		s.logger.Debug().Str("period", latest.Period).Msg("alert suppressed by cooldown")
		return
	}

	note := alerting.Notification{
		Period:   latest.Period,
		DF:       latest.TotalDF,
		TargetDF: s.targetDF,
		MTTR:     latest.MTTR,
		Channels: s.channels,
	}
	if latest.MTBF != nil {
		note.MTBF = *latest.MTBF
	}

	if s.alertStore != nil {
		record := storage.DFAlert{
			Period:   latest.Period,
			DF:       latest.TotalDF,
			TargetDF: s.targetDF,
			Channels: s.channels,
		}
		if _, err := s.alertStore.InsertDFAlert(ctx, record); err != nil {
			s.logger.Error().Err(err).Str("period", latest.Period).Msg("failed to persist alert record")
		}
	}
	if err := s.notifier.Notify(ctx, note); err != nil {
		s.logger.Error().Err(err).Str("period", latest.Period).Msg("failed to dispatch alert")
		return
	}
	s.lastAlert = now
}

func (s *Service) acquireLock(ctx context.Context) (func(), bool, error) {
	if s.lockKey == 0 || s.locker == nil {
		return nil, true, nil
	}
	unlock, acquired, err := s.locker.TryAdvisoryLock(ctx, s.lockKey)
	if err != nil {
		return nil, false, fmt.Errorf("acquire advisory lock: %w", err)
	}
	if !acquired {
		return nil, false, nil
	}
	return unlock, true, nil
}
