package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"time"

	"github.com/redis/go-redis/v9"

	"gymcontrol/internal/logger"
	"gymcontrol/internal/metrics"
)

const (
	queueKey         = "reminders"
	failedQueueKey   = "reminders:failed"
	sentMarkerPrefix = "reminders:sent"
	maxTries         = 3
)

type ReminderJob struct {
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

type Service struct {
	redis    *redis.Client
	from     string
	fromName string
	smtpHost string
	smtpPort string
	smtpUser string
	smtpPass string
}

func New(fromEmail, fromName, smtpHost, smtpPort, smtpUser, smtpPass, redisAddr string) *Service {
	return &Service{
		redis: redis.NewClient(&redis.Options{
			Addr: redisAddr,
		}),
		from:     fromEmail,
		fromName: fromName,
		smtpHost: smtpHost,
		smtpPort: smtpPort,
		smtpUser: smtpUser,
		smtpPass: smtpPass,
	}
}

func (s *Service) Send(ctx context.Context, to, name, subject, body string) error {
	job := ReminderJob{
		To:      to,
		Name:    name,
		Subject: subject,
		Body:    body,
		Tries:   0,
		Created: time.Now(),
	}

	data, err := json.Marshal(job)
	if err != nil {
		logger.Errorf("Failed to marshal reminder job: %v", err)
		return err
	}

	if err := s.redis.LPush(ctx, queueKey, data).Err(); err != nil {
		logger.Errorf("Failed to queue reminder to %s: %v", to, err)
		return err
	}

	logger.Infof("Reminder queued: %s to %s", subject, to)
	metrics.RecordReminderQueued()
	return nil
}

func (s *Service) Start(ctx context.Context) {
	logger.Info("Reminder service started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Reminder service stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if err != nil {
		return
	}

	var job ReminderJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Errorf("Bad reminder data: %v", err)
		return
	}

	job.Tries++
	logger.Infof("Sending reminder to %s (attempt %d)", job.To, job.Tries)
	if err := s.sendNow(job); err != nil {
		logger.Errorf("Failed to send reminder to %s: %v", job.To, err)

		if job.Tries < maxTries {
			time.Sleep(5 * time.Second)
			data, _ := json.Marshal(job)
			s.redis.LPush(context.Background(), queueKey, data)
			logger.Infof("Retrying reminder to %s (attempt %d)", job.To, job.Tries+1)
		} else {
			logger.Errorf("Reminder to %s failed after %d attempts", job.To, maxTries)
			s.saveFailed(job, err)
		}
		return
	}

	logger.Infof("Reminder sent successfully to %s", job.To)
}

func (s *Service) sendNow(job ReminderJob) error {
	message := fmt.Sprintf("From: %s <%s>\r\n", s.fromName, s.from)
	message += fmt.Sprintf("To: %s\r\n", job.To)
	message += fmt.Sprintf("Subject: %s\r\n", job.Subject)
	message += "\r\n" + job.Body

	var auth smtp.Auth
	if s.smtpUser != "" && s.smtpPass != "" {
		auth = smtp.PlainAuth("", s.smtpUser, s.smtpPass, s.smtpHost)
	}

	addr := s.smtpHost + ":" + s.smtpPort
	return smtp.SendMail(addr, auth, s.from, []string{job.To}, []byte(message))
}

func (s *Service) saveFailed(job ReminderJob, err error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": err.Error(),
		"time":  time.Now(),
	}
	data, _ := json.Marshal(failed)
	s.redis.LPush(context.Background(), failedQueueKey, data)
	logger.Errorf("Reminder moved to failed queue: %s", job.To)
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	length, _ := s.redis.LLen(ctx, queueKey).Result()
	metrics.ReminderQueueLength.Set(float64(length))
	return length
}

// MarkReminded records that an expiry warning went out for a client and
// end date, and reports whether this call was the first to record it.
// The daily sweep sees the same client on every run inside the warning
// window, so without the marker one expiry would mean several emails.
// Keying on the end date lets a renewed client be warned again for the
// new expiry.
func (s *Service) MarkReminded(ctx context.Context, clientID int, endDate time.Time, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("%s:%d:%s", sentMarkerPrefix, clientID, endDate.Format("2006-01-02"))
	return s.redis.SetNX(ctx, key, 1, ttl).Result()
}

func (s *Service) Close() error {
	return s.redis.Close()
}

// SendExpiryReminder queues the message sent a few days before a
// membership's end date.
func (s *Service) SendExpiryReminder(ctx context.Context, email, name, period string, endDate time.Time) error {
	subject := "Your membership expires soon"
	body := fmt.Sprintf(`Hi %s,

Your %s membership expires on %s.

Renew at the front desk or reply to this email to keep your access active.

- GymControl Team`, name, period, endDate.Format("Jan 2, 2006"))

	return s.Send(ctx, email, name, subject, body)
}
