package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	authrepo "ingetin-backend/internal/auth/repository"
	"ingetin-backend/internal/notification/domain"
	"ingetin-backend/internal/notification/repository"
	taskdomain "ingetin-backend/internal/task/domain"
	taskrepo "ingetin-backend/internal/task/repository"
	"ingetin-backend/pkg/fcm"

	"github.com/robfig/cron/v3"
)

// PushSender delivers one message to a set of device tokens and returns the
// tokens that are no longer valid.
type PushSender interface {
	SendToDevices(ctx context.Context, tokens []string, msg fcm.Message) ([]string, error)
}

// ReminderScheduler periodically pushes due task reminders to the owner and
// the registered collaborators of each task.
type ReminderScheduler struct {
	taskRepo     taskrepo.TaskRepository
	userRepo     authrepo.UserRepository
	fcmRepo      authrepo.FCMTokenRepository
	deliveryRepo repository.DeliveryRepository
	sender       PushSender
	location     *time.Location
	cron         *cron.Cron
	now          func() time.Time
}

// NewReminderScheduler creates a scheduler evaluating deadlines in loc
func NewReminderScheduler(
	taskRepo taskrepo.TaskRepository,
	userRepo authrepo.UserRepository,
	fcmRepo authrepo.FCMTokenRepository,
	deliveryRepo repository.DeliveryRepository,
	sender PushSender,
	loc *time.Location,
) *ReminderScheduler {
	if loc == nil {
		loc = time.Local
	}
	return &ReminderScheduler{
		taskRepo:     taskRepo,
		userRepo:     userRepo,
		fcmRepo:      fcmRepo,
		deliveryRepo: deliveryRepo,
		sender:       sender,
		location:     loc,
		cron:         cron.New(cron.WithLocation(loc), cron.WithSeconds()),
		now:          time.Now,
	}
}

// Start registers the dispatch job on a six-field cron spec and starts it
func (s *ReminderScheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, func() {
		s.Dispatch(context.Background())
	}); err != nil {
		return fmt.Errorf("schedule reminders %q: %w", spec, err)
	}
	s.cron.Start()
	log.Printf("[ReminderScheduler] Started (schedule: %s, location: %s)", spec, s.location)
	return nil
}

// Stop waits for a running dispatch to finish
func (s *ReminderScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("[ReminderScheduler] Stopped")
}

// Dispatch evaluates every reminder candidate once and returns how many
// user pushes were sent.
func (s *ReminderScheduler) Dispatch(ctx context.Context) int {
	now := s.now().In(s.location)

	tasks, err := s.taskRepo.FindAllReminderCandidates(ctx, taskdomain.DateOf(now))
	if err != nil {
		log.Printf("[ReminderScheduler] Error finding reminder candidates: %v", err)
		return 0
	}

	sent := 0
	for _, task := range tasks {
		notification, ok := domain.Evaluate(task, now)
		if !ok {
			continue
		}

		recipients, err := s.recipients(ctx, task)
		if err != nil {
			log.Printf("[ReminderScheduler] Error resolving recipients for task %s: %v", task.ID, err)
			continue
		}

		for _, userID := range recipients {
			if s.deliver(ctx, userID, notification, now) {
				sent++
			}
		}
	}

	if sent > 0 {
		log.Printf("[ReminderScheduler] Sent %d reminders", sent)
	}
	return sent
}

// recipients is the owner followed by every collaborator with an account
func (s *ReminderScheduler) recipients(ctx context.Context, task *taskdomain.Task) ([]string, error) {
	ids := []string{task.UserID}

	emails := task.CollaboratorEmails()
	if len(emails) == 0 {
		return ids, nil
	}

	users, err := s.userRepo.FindByEmails(ctx, emails)
	if err != nil {
		return nil, err
	}
	for _, user := range users {
		if user.ID != task.UserID {
			ids = append(ids, user.ID)
		}
	}
	return ids, nil
}

func (s *ReminderScheduler) deliver(ctx context.Context, userID string, n domain.Notification, now time.Time) bool {
	tokens, err := s.fcmRepo.GetTokensByUserID(ctx, userID)
	if err != nil {
		log.Printf("[ReminderScheduler] Error getting FCM tokens for user %s: %v", userID, err)
		return false
	}
	// Users without devices are left unclaimed so a device registered later
	// in the window still gets the reminder.
	if len(tokens) == 0 {
		return false
	}

	claimed, err := s.deliveryRepo.Claim(ctx, &domain.ReminderDelivery{
		TaskID:   n.TaskID,
		UserID:   userID,
		Policy:   n.Policy,
		Deadline: n.Deadline,
		SentAt:   now,
	})
	if err != nil {
		log.Printf("[ReminderScheduler] Error claiming reminder for task %s: %v", n.TaskID, err)
		return false
	}
	if !claimed {
		return false
	}

	tokenStrings := make([]string, 0, len(tokens))
	for _, t := range tokens {
		tokenStrings = append(tokenStrings, t.Token)
	}

	stale, err := s.sender.SendToDevices(ctx, tokenStrings, fcm.Message{
		Title: "Reminder: " + n.Title,
		Body:  n.Message,
		Data: map[string]string{
			"type":         "task_reminder",
			"task_id":      n.TaskID,
			"deadline":     n.Deadline.String(),
			"reminder":     string(n.Policy),
			"click_action": "/tasks/" + n.TaskID,
		},
	})
	if err != nil {
		// The claim is kept; failed sends are not retried.
		log.Printf("[ReminderScheduler] Error sending reminder for task %s to user %s: %v", n.TaskID, userID, err)
		return false
	}

	for _, token := range stale {
		if err := s.fcmRepo.DeleteToken(ctx, token); err != nil {
			log.Printf("[ReminderScheduler] Error deleting stale token: %v", err)
		}
	}
	return true
}
