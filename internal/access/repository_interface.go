package access

import (
	"context"
	"time"
)

type Repository interface {
	Insert(ctx context.Context, log *AccessLog) (*AccessLog, error)
	CountInRange(ctx context.Context, gymID int, from, to time.Time) (int, error)
	ListByGym(ctx context.Context, gymID int, limit, offset int) ([]AccessLog, error)
}
