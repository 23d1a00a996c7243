package snapshot

import "context"

type Repository interface {
	Upsert(ctx context.Context, snap *MonthlySnapshot) (*MonthlySnapshot, error)
	GetByKey(ctx context.Context, gymID, year, month int) (*MonthlySnapshot, error)
	ListByGym(ctx context.Context, gymID int) ([]MonthlySnapshot, error)
}
