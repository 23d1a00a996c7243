package access

import (
	"time"

	"gymcontrol/internal/membership"
)

type Status string

const (
	StatusAllowed Status = "allowed"
	StatusDenied  Status = "denied"
)

const (
	MethodQR     = "QR"
	MethodManual = "manual"
)

const (
	ReasonNotFound = "client not found in this gym"
	ReasonInactive = "membership inactive"
	ReasonExpired  = "membership expired"
)

type AccessLog struct {
	ID         int       `db:"id" json:"id"`
	ClientID   int       `db:"client_id" json:"client_id"`
	GymID      int       `db:"gym_id" json:"gym_id"`
	Method     string    `db:"method" json:"method"`
	Status     Status    `db:"status" json:"status"`
	DenyReason *string   `db:"deny_reason" json:"deny_reason,omitempty"`
	Date       time.Time `db:"date" json:"date"`
}

// AccessResult is the decision returned to the QR-scan endpoint.
type AccessResult struct {
	Allowed bool               `json:"allowed"`
	Reason  string             `json:"reason,omitempty"`
	Client  *membership.Client `json:"client,omitempty"`
}

type ValidateAccessRequest struct {
	ClientID int `json:"client_id" binding:"required"`
}

type RegisterAccessRequest struct {
	ClientID int    `json:"client_id" binding:"required"`
	Method   string `json:"method" binding:"omitempty,oneof=QR manual"`
}
