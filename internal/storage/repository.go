package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ErrNotConfigured indicates the storage pool was not initialised.
var ErrNotConfigured = errors.New("storage: pool not configured")

const (
	upsertKPIPeriodSQL = `INSERT INTO kpi_periods (
        period,
        calendar_hours,
        pm_hours,
        corrective_hours,
        failures,
        total_df,
        inherent_df,
        mtbf,
        mttr,
        status,
        error
    ) VALUES (
        $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11
    )
    ON CONFLICT (period) DO UPDATE
    SET
        calendar_hours   = EXCLUDED.calendar_hours,
        pm_hours         = EXCLUDED.pm_hours,
        corrective_hours = EXCLUDED.corrective_hours,
        failures         = EXCLUDED.failures,
        total_df         = EXCLUDED.total_df,
        inherent_df      = EXCLUDED.inherent_df,
        mtbf             = EXCLUDED.mtbf,
        mttr             = EXCLUDED.mttr,
        status           = EXCLUDED.status,
        error            = EXCLUDED.error;`

	listRecentKPIPeriodsSQL = `SELECT
        period,
        calendar_hours,
        pm_hours,
        corrective_hours,
        failures,
        total_df,
        inherent_df,
        mtbf,
        mttr,
        status,
        error,
        created_at
    FROM kpi_periods
    ORDER BY period DESC
    LIMIT $1;`

	insertRecommendationSQL = `INSERT INTO recommendations (
        equipment,
        model,
        target_df,
        optimal_time_hours,
        df_at_optimal,
        cost_per_hour,
        max_time_meeting_target
    ) VALUES (
        $1,$2,$3,$4,$5,$6,$7
    )
    RETURNING id, equipment, model, target_df, optimal_time_hours, df_at_optimal, cost_per_hour, max_time_meeting_target, created_at;`

	listRecentRecommendationsSQL = `SELECT
        id,
        equipment,
        model,
        target_df,
        optimal_time_hours,
        df_at_optimal,
        cost_per_hour,
        max_time_meeting_target,
        created_at
    FROM recommendations
    ORDER BY created_at DESC
    LIMIT $1;`

	insertDFAlertSQL = `INSERT INTO df_alerts (
        period,
        df,
        target_df,
        channels
    ) VALUES (
        $1,$2,$3,$4
    )
    ON CONFLICT (period) DO UPDATE
    SET df        = EXCLUDED.df,
        target_df = EXCLUDED.target_df,
        channels  = EXCLUDED.channels
    RETURNING id, period, df, target_df, channels, created_at;`

	deleteDFAlertsBeforeSQL = `DELETE FROM df_alerts WHERE created_at < $1;`

	tryAdvisoryLockSQL = `SELECT pg_try_advisory_lock($1);`
	advisoryUnlockSQL  = `SELECT pg_advisory_unlock($1);`
)

// KPIStore defines operations for per-period KPI persistence.
type KPIStore interface {
	UpsertKPIPeriod(ctx context.Context, period KPIPeriod) error
	ListRecentKPIPeriods(ctx context.Context, limit int) ([]KPIPeriod, error)
}

// RecommendationStore defines operations for recommendation auditing.
type RecommendationStore interface {
	InsertRecommendation(ctx context.Context, rec Recommendation) (Recommendation, error)
	ListRecentRecommendations(ctx context.Context, limit int) ([]Recommendation, error)
}

// AlertStore defines operations for availability-breach alert auditing.
type AlertStore interface {
	InsertDFAlert(ctx context.Context, alert DFAlert) (DFAlert, error)
	DeleteDFAlertsBefore(ctx context.Context, olderThan time.Time) error
}

// AdvisoryLocker exposes advisory lock helpers.
type AdvisoryLocker interface {
	TryAdvisoryLock(ctx context.Context, key int64) (unlock func(), acquired bool, err error)
}

// Store aggregates access to KPI periods, recommendations, and alerts.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wires a pgx pool into a Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

func (s *Store) getPool() (*pgxpool.Pool, error) {
	if s == nil || s.pool == nil {
		return nil, ErrNotConfigured
	}
	return s.pool, nil
}

// TryAdvisoryLock attempts to acquire a postgres advisory lock and returns a release func.
func (s *Store) TryAdvisoryLock(ctx context.Context, key int64) (func(), bool, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, false, err
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("acquire connection: %w", err)
	}

	var acquired bool
	if err := conn.QueryRow(ctx, tryAdvisoryLockSQL, key).Scan(&acquired); err != nil {
		conn.Release()
		return nil, false, fmt.Errorf("try advisory lock: %w", err)
	}
	if !acquired {
		conn.Release()
		return nil, false, nil
	}

	unlock := func() {
		ctxUnlock, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_, _ = conn.Exec(ctxUnlock, advisoryUnlockSQL, key)
		conn.Release()
	}
	return unlock, true, nil
}

// UpsertKPIPeriod persists or updates one period's KPIs.
func (s *Store) UpsertKPIPeriod(ctx context.Context, period KPIPeriod) error {
	pool, err := s.getPool()
	if err != nil {
		return err
	}

	var mtbf interface{}
	if period.MTBF != nil {
		mtbf = *period.MTBF
	}
	var errMsg interface{}
	if period.Error != nil {
		errMsg = *period.Error
	}

	_, execErr := pool.Exec(ctx, upsertKPIPeriodSQL,
		period.Period,
		period.CalendarHours,
		period.PMHours,
		period.CorrectiveHours,
		period.Failures,
		period.TotalDF,
		period.InherentDF,
		mtbf,
		period.MTTR,
		period.Status,
		errMsg,
	)
	if execErr != nil {
		return fmt.Errorf("upsert kpi period: %w", execErr)
	}
	return nil
}

// ListRecentKPIPeriods lists the most recent periods, newest first.
func (s *Store) ListRecentKPIPeriods(ctx context.Context, limit int) ([]KPIPeriod, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listRecentKPIPeriodsSQL, limit)
	if queryErr != nil {
		return nil, fmt.Errorf("list kpi periods: %w", queryErr)
	}
	defer rows.Close()

	periods := make([]KPIPeriod, 0)
	for rows.Next() {
		period, scanErr := scanKPIPeriod(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		periods = append(periods, period)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate kpi periods: %w", err)
	}
	return periods, nil
}

func scanKPIPeriod(row pgx.Row) (KPIPeriod, error) {
	var p KPIPeriod
	if err := row.Scan(
		&p.Period,
		&p.CalendarHours,
		&p.PMHours,
		&p.CorrectiveHours,
		&p.Failures,
		&p.TotalDF,
		&p.InherentDF,
		&p.MTBF,
		&p.MTTR,
		&p.Status,
		&p.Error,
		&p.CreatedAt,
	); err != nil {
		return KPIPeriod{}, fmt.Errorf("scan kpi period: %w", err)
	}
	return p, nil
}

// InsertRecommendation persists one interval-selection result.
func (s *Store) InsertRecommendation(ctx context.Context, rec Recommendation) (Recommendation, error) {
	pool, err := s.getPool()
	if err != nil {
		return Recommendation{}, err
	}

	var maxTime interface{}
	if rec.MaxTimeMeetingTarget != nil {
		maxTime = *rec.MaxTimeMeetingTarget
	}

	row := pool.QueryRow(ctx, insertRecommendationSQL,
		rec.Equipment,
		rec.Model,
		rec.TargetDF,
		rec.OptimalTime,
		rec.DFAtOptimal,
		rec.CostPerHour.String(),
		maxTime,
	)
	return scanRecommendation(row)
}

// ListRecentRecommendations lists recent recommendations, newest first.
func (s *Store) ListRecentRecommendations(ctx context.Context, limit int) ([]Recommendation, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listRecentRecommendationsSQL, limit)
	if queryErr != nil {
		return nil, fmt.Errorf("list recommendations: %w", queryErr)
	}
	defer rows.Close()

	recs := make([]Recommendation, 0)
	for rows.Next() {
		rec, scanErr := scanRecommendation(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recommendations: %w", err)
	}
	return recs, nil
}

func scanRecommendation(row pgx.Row) (Recommendation, error) {
	var rec Recommendation
	var cost string
	if err := row.Scan(
		&rec.ID,
		&rec.Equipment,
		&rec.Model,
		&rec.TargetDF,
		&rec.OptimalTime,
		&rec.DFAtOptimal,
		&cost,
		&rec.MaxTimeMeetingTarget,
		&rec.CreatedAt,
	); err != nil {
		return Recommendation{}, fmt.Errorf("scan recommendation: %w", err)
	}

	parsed, err := decimal.NewFromString(cost)
	if err != nil {
		return Recommendation{}, fmt.Errorf("parse cost_per_hour %q: %w", cost, err)
	}
	rec.CostPerHour = parsed
	return rec, nil
}

// InsertDFAlert persists or refreshes one availability-breach alert.
func (s *Store) InsertDFAlert(ctx context.Context, alert DFAlert) (DFAlert, error) {
	pool, err := s.getPool()
	if err != nil {
		return DFAlert{}, err
	}

	row := pool.QueryRow(ctx, insertDFAlertSQL,
		alert.Period,
		alert.DF,
		alert.TargetDF,
		alert.Channels,
	)

	var out DFAlert
	if err := row.Scan(&out.ID, &out.Period, &out.DF, &out.TargetDF, &out.Channels, &out.CreatedAt); err != nil {
		return DFAlert{}, fmt.Errorf("scan df alert: %w", err)
	}
	return out, nil
}

// DeleteDFAlertsBefore prunes alert records older than the cutoff.
func (s *Store) DeleteDFAlertsBefore(ctx context.Context, olderThan time.Time) error {
	pool, err := s.getPool()
	if err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, deleteDFAlertsBeforeSQL, olderThan); err != nil {
		return fmt.Errorf("delete df alerts: %w", err)
	}
	return nil
}

var (
	_ KPIStore            = (*Store)(nil)
	_ RecommendationStore = (*Store)(nil)
	_ AlertStore          = (*Store)(nil)
	_ AdvisoryLocker      = (*Store)(nil)
)
