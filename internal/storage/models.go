package storage

import (
	"time"

	"github.com/shopspring/decimal"
)

// KPIPeriod is one persisted historical accounting period with its retrofit
// reliability figures. MTBF is NULL (nil) for zero-failure periods, where
// the true value is unbounded.
type KPIPeriod struct {
	Period          string
	CalendarHours   float64
	PMHours         float64
	CorrectiveHours float64
	Failures        int
	TotalDF         float64
	InherentDF      float64
	MTBF            *float64
	MTTR            float64
	Status          string
	Error           *string
	CreatedAt       time.Time
}

// Recommendation captures one persisted interval-selection result for
// auditing and the show command.
type Recommendation struct {
	ID                   int64
	Equipment            string
	Model                string
	TargetDF             float64
	OptimalTime          float64
	DFAtOptimal          float64
	CostPerHour          decimal.Decimal
	MaxTimeMeetingTarget *float64
	CreatedAt            time.Time
}

// DFAlert records an emitted availability-breach alert for auditing and
// de-duplication.
type DFAlert struct {
	ID        int64
	Period    string
	DF        float64
	TargetDF  float64
	Channels  []string
	CreatedAt time.Time
}
