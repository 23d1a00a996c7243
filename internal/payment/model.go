package payment

import "time"

type Status string

const (
	StatusCompleted Status = "completed"
	StatusPending   Status = "pending"
	StatusFailed    Status = "failed"
)

type Payment struct {
	ID        int       `db:"id" json:"id"`
	GymID     int       `db:"gym_id" json:"gym_id"`
	ClientID  *int      `db:"client_id" json:"client_id,omitempty"`
	Amount    float64   `db:"amount" json:"amount"`
	Method    string    `db:"method" json:"method"`
	Status    Status    `db:"status" json:"status"`
	Date      time.Time `db:"date" json:"date"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type RecordPaymentRequest struct {
	ClientID *int    `json:"client_id,omitempty"`
	Amount   float64 `json:"amount" binding:"required,gt=0"`
	Method   string  `json:"method" binding:"required"`
	Status   string  `json:"status" binding:"omitempty,oneof=completed pending failed"`
	Date     string  `json:"date"`
}
