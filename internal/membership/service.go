package membership

import (
	"context"
	"time"

	"gymcontrol/internal/logger"
	"gymcontrol/internal/metrics"
)

// Status is the membership state observed on a single touch of the record.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	// StatusExpired means the client was marked active but the end date has
	// passed; the lazy Active->Inactive transition fires on this touch.
	StatusExpired Status = "expired"
)

type Service interface {
	CreateClient(ctx context.Context, gymID int, req CreateClientRequest) (*Client, error)
	GetClient(ctx context.Context, clientID, gymID int) (*Client, error)
	Renew(ctx context.Context, clientID, gymID int, req RenewClientRequest) (*Client, error)
	Reconcile(ctx context.Context, client *Client, now time.Time) Status
	ExpireDue(ctx context.Context, gymID int, now time.Time) (int64, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateClient(ctx context.Context, gymID int, req CreateClientRequest) (*Client, error) {
	membershipType, err := ParseMembershipType(req.MembershipType)
	if err != nil {
		return nil, err
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, err
	}

	endDate := CalculateEndDate(startDate, req.SelectedPeriod)

	client := &Client{
		GymID:          gymID,
		Name:           req.Name,
		Email:          req.Email,
		MembershipType: membershipType,
		PaymentMethod:  req.PaymentMethod,
		SelectedPeriod: req.SelectedPeriod,
		StartDate:      startDate,
		EndDate:        &endDate,
		IsActive:       true,
	}

	return s.repo.Create(ctx, client)
}

func (s *service) GetClient(ctx context.Context, clientID, gymID int) (*Client, error) {
	return s.repo.GetByIDAndGym(ctx, clientID, gymID)
}

// Renew is the only Inactive->Active path. The end date is recomputed from
// the new start date and period with the same calculator used at creation.
func (s *service) Renew(ctx context.Context, clientID, gymID int, req RenewClientRequest) (*Client, error) {
	client, err := s.repo.GetByIDAndGym(ctx, clientID, gymID)
	if err != nil {
		return nil, err
	}

	membershipType := client.MembershipType
	if req.MembershipType != "" {
		membershipType, err = ParseMembershipType(req.MembershipType)
		if err != nil {
			return nil, err
		}
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, err
	}

	period := req.SelectedPeriod
	if period == "" {
		period = client.SelectedPeriod
	}

	endDate := CalculateEndDate(startDate, period)

	return s.repo.Renew(ctx, clientID, startDate, endDate, period, membershipType)
}

// Reconcile re-evaluates the lazy expiry transition for a loaded client.
// If the persisted flip fails the computed status still stands for the
// current request; the write error is logged and retried on the next touch.
func (s *service) Reconcile(ctx context.Context, client *Client, now time.Time) Status {
	if !client.IsActive {
		return StatusInactive
	}

	if !client.ExpiredBy(now) {
		return StatusActive
	}

	if err := s.repo.Deactivate(ctx, client.ID); err != nil {
		logger.Warnf("Failed to persist expiry for client %d: %v", client.ID, err)
	} else {
		metrics.RecordMembershipExpiration("lazy")
	}
	client.IsActive = false

	return StatusExpired
}

func (s *service) ExpireDue(ctx context.Context, gymID int, now time.Time) (int64, error) {
	flipped, err := s.repo.ExpireDue(ctx, gymID, now)
	if err != nil {
		return 0, err
	}

	if flipped > 0 {
		metrics.MembershipExpirationsTotal.WithLabelValues("sweep").Add(float64(flipped))
		logger.Infof("Expiry sweep for gym %d flipped %d clients", gymID, flipped)
	}

	return flipped, nil
}
