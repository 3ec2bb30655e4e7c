package app

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"fleet-reliability/internal/alerting"
	"fleet-reliability/internal/config"
	"fleet-reliability/internal/ingest"
	"fleet-reliability/internal/scheduler"
	"fleet-reliability/internal/service"
	"fleet-reliability/internal/storage"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

func (a *App) newNotifier() alerting.Notifier {
	if a.Config.Alerting.Telegram.Enabled {
		cfg := a.Config.Alerting.Telegram
		return alerting.NewTelegramNotifier(cfg.BotToken, cfg.ChatID, cfg.APIBase, 10*time.Second, a.Logger)
	}
	return nil
}

func (a *App) openStore(ctx context.Context) (*storage.Store, func(), error) {
	if a.Config.Database.DSN == "" {
		return nil, nil, nil
	}

	pool, err := storage.NewPool(ctx, a.Config.Database)
	if err != nil {
		return nil, nil, err
	}

	store := storage.NewStore(pool)
	closer := func() {
		store.Close()
	}
	return store, closer, nil
}

// Run executes the long-running watch service.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if a.Config.History.Path == "" {
		return errors.New("history.path not configured; nothing to watch")
	}

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		a.Logger.Warn().Msg("database.dsn not configured; persistence disabled")
	}
	if closeStore != nil {
		defer closeStore()
	}

	sched := scheduler.New(scheduler.Options{
		Interval:        a.Config.Scheduler.Interval,
		AlignToInterval: a.Config.Scheduler.AlignToInterval,
		StartupDelay:    a.Config.Scheduler.StartupDelay,
	}, a.Logger)

	history := &ingest.FileHistoryLoader{Path: a.Config.History.Path}
	notifier := a.newNotifier()

	var kpiStore storage.KPIStore
	var alertStore storage.AlertStore
	if store != nil {
		kpiStore = store
		alertStore = store
	}

	svc := service.New(a.Config, sched, history, kpiStore, alertStore, notifier, a.Logger)

	a.Logger.Info().Msg("starting watch service")
	err = svc.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		a.Logger.Error().Err(err).Msg("service terminated with error")
		return err
	}

	a.Logger.Info().Msg("watch service stopped")
	return nil
}

// PlanOptions configure the interval-selection command.
type PlanOptions struct {
	Input          string
	Equipment      string
	TargetDF       float64
	ToleranceBand  float64
	PMCost         float64
	CorrectiveCost float64
	Samples        int
	MaxIterations  int
	CSVPath        string
	PNGPath        string
	Persist        bool
}

// SolveOptions configure the single-shot equation solver command.
type SolveOptions struct {
	MTBF            float64
	MTTR            float64
	TargetDF        float64
	PMHours         float64
	CalendarHours   float64
	CapacityPerHour float64
	Utilization     float64
}

// GridOptions configure the feasibility-matrix command.
type GridOptions struct {
	MTBF       float64
	MTTR       float64
	Resolution int
	TargetDF   float64
	CSVPath    string
}

// KPIOptions configure the historical retrofit command.
type KPIOptions struct {
	HistoryPath string
	Persist     bool
}

// FleetOptions configure the month-end fleet projection command.
type FleetOptions struct {
	Input string
	Date  time.Time
}

// ReportOptions configure the stoppage report command.
type ReportOptions struct {
	Workbook string
	HTMLPath string
}

// ShowOptions configure the show command.
type ShowOptions struct {
	Kind  string
	Limit int
}
