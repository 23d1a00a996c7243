package gym

import "context"

type Repository interface {
	CreateGym(ctx context.Context, name, location, plan string) (*Gym, error)
	GetAllGyms(ctx context.Context) ([]Gym, error)
	GetGymByID(ctx context.Context, id int) (*Gym, error)
	// FindActiveGyms returns the gyms that participate in scheduled
	// aggregation runs.
	FindActiveGyms(ctx context.Context) ([]Gym, error)
	SetActive(ctx context.Context, id int, active bool) error
}
