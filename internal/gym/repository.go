package gym

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateGym(ctx context.Context, name, location, plan string) (*Gym, error) {
	if plan == "" {
		plan = "free"
	}

	query := `
		INSERT INTO gyms (name, location, plan, active)
		VALUES ($1, $2, $3, TRUE)
		RETURNING id, name, location, plan, active, created_at
	`

	var gym Gym
	err := r.db.GetContext(ctx, &gym, query, name, location, plan)
	if err != nil {
		return nil, err
	}

	return &gym, nil
}

func (r *repository) GetAllGyms(ctx context.Context) ([]Gym, error) {
	query := `
		SELECT id, name, location, plan, active, created_at
		FROM gyms
		ORDER BY created_at DESC
	`

	var gyms []Gym
	err := r.db.SelectContext(ctx, &gyms, query)
	if err != nil {
		return nil, err
	}

	return gyms, nil
}

func (r *repository) GetGymByID(ctx context.Context, id int) (*Gym, error) {
	query := `
		SELECT id, name, location, plan, active, created_at
		FROM gyms
		WHERE id = $1
	`

	var gym Gym
	err := r.db.GetContext(ctx, &gym, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGymNotFound
		}
		return nil, err
	}

	return &gym, nil
}

func (r *repository) FindActiveGyms(ctx context.Context) ([]Gym, error) {
	query := `
		SELECT id, name, location, plan, active, created_at
		FROM gyms
		WHERE active = TRUE
		ORDER BY id ASC
	`

	var gyms []Gym
	err := r.db.SelectContext(ctx, &gyms, query)
	if err != nil {
		return nil, err
	}

	return gyms, nil
}

func (r *repository) SetActive(ctx context.Context, id int, active bool) error {
	query := `
		UPDATE gyms
		SET active = $2
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, active)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrGymNotFound
	}

	return nil
}
