// services/reminder_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"garage-backend/models"
	"garage-backend/utils"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

// MessageSender delivers a text message and returns the provider's message id.
type MessageSender interface {
	Send(to, body string) (string, error)
}

// TwilioSender sends SMS through the Twilio REST API.
type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioSender(accountSid, authToken, from string) *TwilioSender {
	return &TwilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
		from: from,
	}
}

func (t *TwilioSender) Send(to, body string) (string, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.from)
	params.SetBody(body)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return "", err
	}
	if resp.Sid != nil {
		return *resp.Sid, nil
	}
	return "", nil
}

// ErrSenderDisabled is returned by DisabledSender.
var ErrSenderDisabled = errors.New("SMS delivery is not configured")

type disabledSender struct{}

func (disabledSender) Send(string, string) (string, error) { return "", ErrSenderDisabled }

// DisabledSender fails every send; used when no SMS credentials are configured.
var DisabledSender MessageSender = disabledSender{}

// ReminderResult counts the outcomes of one reminder run.
type ReminderResult struct {
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// ReminderService nudges owners who have unpaid maintenance logs.
type ReminderService struct {
	db     *gorm.DB
	sender MessageSender
	now    func() time.Time
	cron   *cron.Cron
}

func NewReminderService(db *gorm.DB, sender MessageSender) *ReminderService {
	if sender == nil {
		sender = DisabledSender
	}
	return &ReminderService{db: db, sender: sender, now: time.Now}
}

// StartScheduler runs SendUnpaidReminders on the given cron spec.
func (s *ReminderService) StartScheduler(spec string) error {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		result, err := s.SendUnpaidReminders(context.Background())
		if err != nil {
			log.WithError(err).Error("unpaid reminder run failed")
			return
		}
		log.WithFields(log.Fields{
			"sent":    result.Sent,
			"failed":  result.Failed,
			"skipped": result.Skipped,
		}).Info("unpaid reminder run completed")
	})
	if err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", spec, err)
	}

	c.Start()
	s.cron = c
	log.WithField("schedule", spec).Info("Reminder scheduler started")
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *ReminderService) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}

// SendUnpaidReminders messages every owner with at least one unpaid log and
// records the outcome of each attempt.
func (s *ReminderService) SendUnpaidReminders(ctx context.Context) (ReminderResult, error) {
	var result ReminderResult

	var unpaid []models.MaintenanceLog
	if err := s.db.WithContext(ctx).
		Where("paid_at IS NULL AND owner_id IS NOT NULL").
		Find(&unpaid).Error; err != nil {
		return result, err
	}

	byOwner := make(map[uuid.UUID][]models.MaintenanceLog)
	for _, entry := range unpaid {
		byOwner[*entry.OwnerID] = append(byOwner[*entry.OwnerID], entry)
	}
	if len(byOwner) == 0 {
		return result, nil
	}

	ownerIDs := make([]uuid.UUID, 0, len(byOwner))
	for id := range byOwner {
		ownerIDs = append(ownerIDs, id)
	}
	var owners []models.Owner
	if err := s.db.WithContext(ctx).Where("id IN ?", ownerIDs).Order("name ASC").Find(&owners).Error; err != nil {
		return result, err
	}

	now := s.now()
	for _, owner := range owners {
		logs := byOwner[owner.ID]
		summary := models.SummarizePayments(logs)

		reminder := models.ReminderLog{
			OwnerID:    owner.ID,
			UnpaidLogs: summary.UnpaidLogs,
			AmountDue:  summary.TotalUnpaidAmount,
			Channel:    "sms",
			SentAt:     now,
		}

		oldestDays := 0
		if summary.FirstLogAt != nil {
			oldestDays = utils.DaysBetween(*summary.FirstLogAt, now)
		}
		reminder.Message = fmt.Sprintf(
			"Hi %s, you have %d unpaid service visit(s) totalling %.2f. The oldest is %d day(s) old. Please contact the shop to settle your balance.",
			owner.Name, summary.UnpaidLogs, summary.TotalUnpaidAmount, oldestDays)

		switch {
		case owner.Contact == nil || !utils.ValidatePhone(*owner.Contact):
			reminder.Status = models.ReminderSkipped
			reminder.ErrorMessage = "owner has no phone contact"
			result.Skipped++
		default:
			sid, err := s.sender.Send(*owner.Contact, reminder.Message)
			if err != nil {
				log.WithField("owner_id", owner.ID).WithError(err).Warn("Failed to send reminder")
				reminder.Status = models.ReminderFailed
				reminder.ErrorMessage = err.Error()
				result.Failed++
			} else {
				log.WithFields(log.Fields{"owner_id": owner.ID, "sid": sid}).Info("Reminder sent")
				reminder.Status = models.ReminderSent
				result.Sent++
			}
		}

		if err := s.db.WithContext(ctx).Create(&reminder).Error; err != nil {
			log.WithField("owner_id", owner.ID).WithError(err).Error("Failed to log reminder")
		}
	}

	return result, nil
}

// RecentReminders returns the latest reminder attempts, newest first.
func (s *ReminderService) RecentReminders(ctx context.Context, limit int) ([]models.ReminderLog, error) {
	if limit <= 0 {
		limit = 100
	}
	var reminders []models.ReminderLog
	if err := s.db.WithContext(ctx).Order("sent_at DESC").Limit(limit).Find(&reminders).Error; err != nil {
		return nil, err
	}
	return reminders, nil
}
