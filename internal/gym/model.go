package gym

import "time"

type Gym struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Location  string    `db:"location" json:"location"`
	Plan      string    `db:"plan" json:"plan"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type CreateGymRequest struct {
	Name     string `json:"name" binding:"required"`
	Location string `json:"location" binding:"required"`
	Plan     string `json:"plan" binding:"omitempty,oneof=free standard premium"`
}

type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}
