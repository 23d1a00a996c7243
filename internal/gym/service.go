package gym

import (
	"context"
	"errors"
)

var ErrGymNotFound = errors.New("gym not found")

type Service interface {
	CreateGym(ctx context.Context, req CreateGymRequest) (*Gym, error)
	GetAllGyms(ctx context.Context) ([]Gym, error)
	GetGymByID(ctx context.Context, id int) (*Gym, error)
	GetActiveGyms(ctx context.Context) ([]Gym, error)
	SetActive(ctx context.Context, id int, active bool) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateGym(ctx context.Context, req CreateGymRequest) (*Gym, error) {
	return s.repo.CreateGym(ctx, req.Name, req.Location, req.Plan)
}

func (s *service) GetAllGyms(ctx context.Context) ([]Gym, error) {
	return s.repo.GetAllGyms(ctx)
}

func (s *service) GetGymByID(ctx context.Context, id int) (*Gym, error) {
	return s.repo.GetGymByID(ctx, id)
}

func (s *service) GetActiveGyms(ctx context.Context) ([]Gym, error) {
	return s.repo.FindActiveGyms(ctx)
}

func (s *service) SetActive(ctx context.Context, id int, active bool) error {
	return s.repo.SetActive(ctx, id, active)
}
