package notify

import (
	"context"
	"time"

	"gymcontrol/internal/logger"
	"gymcontrol/internal/membership"
)

// reminderWindow is how far ahead of the end date a client gets warned.
const reminderWindow = 3 * 24 * time.Hour

// markerTTL outlives the window so a marker cannot expire while its
// client is still inside it.
const markerTTL = reminderWindow + 24*time.Hour

// Reminders queue one expiry warning per client whose membership ends
// within the next few days. It runs from the daily cron entry.
type Reminders struct {
	clients membership.Repository
	sender  *Service
}

func NewReminders(clients membership.Repository, sender *Service) *Reminders {
	return &Reminders{clients: clients, sender: sender}
}

func (r *Reminders) Run(ctx context.Context) {
	now := time.Now().UTC()
	expiring, err := r.clients.ExpiringBetween(ctx, now, now.Add(reminderWindow))
	if err != nil {
		logger.Errorf("Failed to find expiring memberships: %v", err)
		return
	}

	queued := 0
	for _, client := range expiring {
		if client.EndDate == nil {
			continue
		}
		first, err := r.sender.MarkReminded(ctx, client.ID, *client.EndDate, markerTTL)
		if err != nil {
			logger.Errorf("Failed to record reminder marker for client %d: %v", client.ID, err)
			continue
		}
		if !first {
			continue
		}
		if err := r.sender.SendExpiryReminder(ctx, client.Email, client.Name, client.SelectedPeriod, *client.EndDate); err != nil {
			logger.Errorf("Failed to queue expiry reminder for client %d: %v", client.ID, err)
			continue
		}
		queued++
	}

	logger.Infof("Expiry reminders: %d queued of %d expiring", queued, len(expiring))
	r.sender.QueueLength(ctx)
}
