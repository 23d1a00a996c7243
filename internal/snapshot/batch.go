package snapshot

import (
	"context"
	"fmt"
	"time"

	"gymcontrol/internal/gym"
	"gymcontrol/internal/logger"
	"gymcontrol/internal/metrics"
	"gymcontrol/internal/payment"
)

// BatchError records one failed gym/month unit inside a batch run. A unit
// failure never aborts the run; the remaining gyms still get processed.
type BatchError struct {
	GymID   int    `json:"gym_id"`
	GymName string `json:"gym_name,omitempty"`
	Year    int    `json:"year"`
	Month   int    `json:"month"`
	Message string `json:"message"`
}

type BatchResult struct {
	Processed int          `json:"processed"`
	Errors    []BatchError `json:"errors,omitempty"`
}

// GymBackfillSummary reports the month range covered for one gym during a
// backfill run.
type GymBackfillSummary struct {
	GymID     int    `json:"gym_id"`
	GymName   string `json:"gym_name"`
	FromYear  int    `json:"from_year"`
	FromMonth int    `json:"from_month"`
	ToYear    int    `json:"to_year"`
	ToMonth   int    `json:"to_month"`
	Generated int    `json:"generated"`
	Skipped   bool   `json:"skipped"`
}

type BackfillResult struct {
	Gyms      []GymBackfillSummary `json:"gyms"`
	Generated int                  `json:"generated"`
	Errors    []BatchError         `json:"errors,omitempty"`
}

// Driver runs snapshot generation across all active gyms, either for a
// single month or backfilling each gym's whole payment history.
type Driver struct {
	gyms      gym.Repository
	payments  payment.Repository
	snapshots Service
	now       func() time.Time
}

func NewDriver(gyms gym.Repository, payments payment.Repository, snapshots Service) *Driver {
	return &Driver{
		gyms:      gyms,
		payments:  payments,
		snapshots: snapshots,
		now:       time.Now,
	}
}

// PreviousMonth returns the year and month of the calendar month before t.
func PreviousMonth(t time.Time) (int, int) {
	prev := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	return prev.Year(), int(prev.Month())
}

// RunMonthlyBatch generates the snapshot for one month across every active
// gym, accumulating per-gym failures instead of stopping at the first one.
func (d *Driver) RunMonthlyBatch(ctx context.Context, year, month int) (*BatchResult, error) {
	if month < 1 || month > 12 {
		return nil, ErrInvalidMonth
	}

	gyms, err := d.gyms.FindActiveGyms(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active gyms: %w", err)
	}

	metrics.RecordBatchRun("monthly")
	logger.Infof("Monthly snapshot batch for %04d-%02d: %d gyms", year, month, len(gyms))

	result := &BatchResult{}
	for _, g := range gyms {
		if _, err := d.snapshots.GenerateSnapshot(ctx, g.ID, year, month); err != nil {
			logger.Errorf("Snapshot failed for gym %d (%s): %v", g.ID, g.Name, err)
			metrics.RecordBatchError("monthly")
			result.Errors = append(result.Errors, BatchError{
				GymID:   g.ID,
				GymName: g.Name,
				Year:    year,
				Month:   month,
				Message: err.Error(),
			})
			continue
		}
		result.Processed++
	}

	logger.Infof("Monthly snapshot batch done: %d processed, %d failed", result.Processed, len(result.Errors))
	return result, nil
}

// RunBackfill regenerates history for every gym, walking from the month
// of its earliest payment up to the month before the current one. Unlike
// the scheduled monthly run, deactivated gyms are included: their past
// months still deserve snapshots. Gyms with no payment history are
// skipped. When gymID is non-zero only that gym is backfilled.
func (d *Driver) RunBackfill(ctx context.Context, gymID int) (*BackfillResult, error) {
	var gyms []gym.Gym
	if gymID > 0 {
		g, err := d.gyms.GetGymByID(ctx, gymID)
		if err != nil {
			return nil, err
		}
		gyms = []gym.Gym{*g}
	} else {
		var err error
		gyms, err = d.gyms.GetAllGyms(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list gyms: %w", err)
		}
	}

	metrics.RecordBatchRun("backfill")

	now := d.now()
	lastYear, lastMonth := PreviousMonth(now)

	result := &BackfillResult{}
	for _, g := range gyms {
		summary, errs := d.backfillGym(ctx, g, lastYear, lastMonth)
		result.Gyms = append(result.Gyms, summary)
		result.Generated += summary.Generated
		result.Errors = append(result.Errors, errs...)
	}

	logger.Infof("Backfill done: %d snapshots across %d gyms, %d failed units",
		result.Generated, len(result.Gyms), len(result.Errors))
	return result, nil
}

func (d *Driver) backfillGym(ctx context.Context, g gym.Gym, lastYear, lastMonth int) (GymBackfillSummary, []BatchError) {
	summary := GymBackfillSummary{GymID: g.ID, GymName: g.Name}

	earliest, err := d.payments.EarliestPaymentDate(ctx, g.ID)
	if err != nil {
		metrics.RecordBatchError("backfill")
		return summary, []BatchError{{
			GymID: g.ID, GymName: g.Name,
			Message: fmt.Sprintf("failed to find earliest payment: %v", err),
		}}
	}
	if earliest == nil {
		logger.Infof("Skipping backfill for gym %d (%s): no payment history", g.ID, g.Name)
		summary.Skipped = true
		return summary, nil
	}

	summary.FromYear, summary.FromMonth = earliest.Year(), int(earliest.Month())
	summary.ToYear, summary.ToMonth = lastYear, lastMonth

	var errs []BatchError
	cursor := time.Date(earliest.Year(), earliest.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(lastYear, time.Month(lastMonth), 1, 0, 0, 0, 0, time.UTC)
	for !cursor.After(end) {
		year, month := cursor.Year(), int(cursor.Month())
		if _, err := d.snapshots.GenerateSnapshot(ctx, g.ID, year, month); err != nil {
			logger.Errorf("Backfill failed for gym %d at %04d-%02d: %v", g.ID, year, month, err)
			metrics.RecordBatchError("backfill")
			errs = append(errs, BatchError{
				GymID: g.ID, GymName: g.Name,
				Year: year, Month: month,
				Message: err.Error(),
			})
		} else {
			summary.Generated++
		}
		cursor = cursor.AddDate(0, 1, 0)
	}

	return summary, errs
}
