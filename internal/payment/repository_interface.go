package payment

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, payment *Payment) (*Payment, error)
	ListByGym(ctx context.Context, gymID int, limit, offset int) ([]Payment, error)
	SumCompletedInRange(ctx context.Context, gymID int, from, to time.Time) (float64, error)
	// EarliestPaymentDate returns nil when the gym has no payment history.
	EarliestPaymentDate(ctx context.Context, gymID int) (*time.Time, error)
}
