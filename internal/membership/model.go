package membership

import (
	"errors"
	"time"
)

type MembershipType string

const (
	TypeBasico  MembershipType = "basico"
	TypePro     MembershipType = "pro"
	TypeProPlus MembershipType = "proplus"
)

var ErrInvalidMembershipType = errors.New("invalid membership type")

// ParseMembershipType validates a raw membership type at the boundary so
// the aggregation queries only ever see well-typed values.
func ParseMembershipType(raw string) (MembershipType, error) {
	switch MembershipType(raw) {
	case TypeBasico, TypePro, TypeProPlus:
		return MembershipType(raw), nil
	}
	return "", ErrInvalidMembershipType
}

type Client struct {
	ID             int            `db:"id" json:"id"`
	GymID          int            `db:"gym_id" json:"gym_id"`
	Name           string         `db:"name" json:"name"`
	Email          string         `db:"email" json:"email"`
	MembershipType MembershipType `db:"membership_type" json:"membership_type"`
	PaymentMethod  string         `db:"payment_method" json:"payment_method"`
	SelectedPeriod string         `db:"selected_period" json:"selected_period"`
	StartDate      time.Time      `db:"start_date" json:"start_date"`
	EndDate        *time.Time     `db:"end_date" json:"end_date,omitempty"`
	IsActive       bool           `db:"is_active" json:"is_active"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

// ExpiredBy reports whether the membership's paid period has lapsed as of
// the given instant. Clients without an end date never expire this way.
func (c *Client) ExpiredBy(now time.Time) bool {
	return c.EndDate != nil && !now.Before(*c.EndDate)
}

type CreateClientRequest struct {
	Name           string `json:"name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	MembershipType string `json:"membership_type" binding:"required"`
	PaymentMethod  string `json:"payment_method" binding:"required"`
	SelectedPeriod string `json:"selected_period"`
	StartDate      string `json:"start_date" binding:"required"`
}

type RenewClientRequest struct {
	StartDate      string `json:"start_date" binding:"required"`
	SelectedPeriod string `json:"selected_period"`
	MembershipType string `json:"membership_type"`
}
