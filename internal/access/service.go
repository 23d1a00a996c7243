package access

import (
	"context"
	"errors"
	"time"

	"gymcontrol/internal/logger"
	"gymcontrol/internal/membership"
	"gymcontrol/internal/metrics"
)

var (
	ErrMembershipInactive = errors.New("membership inactive")
	ErrMembershipExpired  = errors.New("membership expired")
)

type Service interface {
	ValidateAccess(ctx context.Context, clientID, gymID int) (*AccessResult, error)
	RegisterAccess(ctx context.Context, clientID, gymID int, method string) (*AccessLog, error)
}

type service struct {
	clients     membership.Repository
	memberships membership.Service
	logs        Repository
	now         func() time.Time
}

func NewService(clients membership.Repository, memberships membership.Service, logs Repository) Service {
	return &service{
		clients:     clients,
		memberships: memberships,
		logs:        logs,
		now:         time.Now,
	}
}

// ValidateAccess decides whether a client may enter the gym right now.
// The lazy expiry transition fires here, so a scan is enough to keep the
// persisted is_active flag honest. Every attempt with a resolvable client
// is logged with its outcome; unknown client ids leave no row since the
// log requires a client reference.
func (s *service) ValidateAccess(ctx context.Context, clientID, gymID int) (*AccessResult, error) {
	client, err := s.clients.GetByIDAndGym(ctx, clientID, gymID)
	if err != nil {
		if errors.Is(err, membership.ErrClientNotFound) {
			metrics.RecordAccessCheck("denied", "client_not_found")
			return &AccessResult{Allowed: false, Reason: ReasonNotFound}, nil
		}
		return nil, err
	}

	now := s.now()

	switch s.memberships.Reconcile(ctx, client, now) {
	case membership.StatusInactive:
		s.record(ctx, client, MethodQR, StatusDenied, ReasonInactive, now)
		metrics.RecordAccessCheck("denied", "membership_inactive")
		return &AccessResult{Allowed: false, Reason: ReasonInactive, Client: client}, nil

	case membership.StatusExpired:
		s.record(ctx, client, MethodQR, StatusDenied, ReasonExpired, now)
		metrics.RecordAccessCheck("denied", "membership_expired")
		return &AccessResult{Allowed: false, Reason: ReasonExpired, Client: client}, nil
	}

	s.record(ctx, client, MethodQR, StatusAllowed, "", now)
	metrics.RecordAccessCheck("allowed", "")
	return &AccessResult{Allowed: true, Client: client}, nil
}

// RegisterAccess is the manual-entry path. It performs the same lazy
// expiry check and returns the persisted log row on success.
func (s *service) RegisterAccess(ctx context.Context, clientID, gymID int, method string) (*AccessLog, error) {
	client, err := s.clients.GetByIDAndGym(ctx, clientID, gymID)
	if err != nil {
		return nil, err
	}

	if method == "" {
		method = MethodManual
	}

	now := s.now()

	switch s.memberships.Reconcile(ctx, client, now) {
	case membership.StatusInactive:
		s.record(ctx, client, method, StatusDenied, ReasonInactive, now)
		metrics.RecordAccessCheck("denied", "membership_inactive")
		return nil, ErrMembershipInactive

	case membership.StatusExpired:
		s.record(ctx, client, method, StatusDenied, ReasonExpired, now)
		metrics.RecordAccessCheck("denied", "membership_expired")
		return nil, ErrMembershipExpired
	}

	entry := &AccessLog{
		ClientID: client.ID,
		GymID:    client.GymID,
		Method:   method,
		Status:   StatusAllowed,
		Date:     now,
	}

	inserted, err := s.logs.Insert(ctx, entry)
	if err != nil {
		return nil, err
	}

	metrics.RecordAccessCheck("allowed", "")
	return inserted, nil
}

// record appends one access-log row. A failed insert never overturns the
// decision already computed for this request.
func (s *service) record(ctx context.Context, client *membership.Client, method string, status Status, reason string, now time.Time) {
	entry := &AccessLog{
		ClientID: client.ID,
		GymID:    client.GymID,
		Method:   method,
		Status:   status,
		Date:     now,
	}
	if reason != "" {
		entry.DenyReason = &reason
	}

	if _, err := s.logs.Insert(ctx, entry); err != nil {
		logger.Warnf("Failed to write access log for client %d: %v", client.ID, err)
	}
}
