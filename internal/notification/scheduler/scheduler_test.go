package scheduler

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	authdomain "ingetin-backend/internal/auth/domain"
	authrepo "ingetin-backend/internal/auth/repository"
	"ingetin-backend/internal/notification/repository"
	taskdomain "ingetin-backend/internal/task/domain"
	taskrepo "ingetin-backend/internal/task/repository"
	"ingetin-backend/pkg/database"
	"ingetin-backend/pkg/fcm"
)

var wib = time.FixedZone("WIB", 7*3600)

type sentPush struct {
	tokens []string
	msg    fcm.Message
}

type fakeSender struct {
	sent  []sentPush
	stale map[string]bool
	err   error
}

func (f *fakeSender) SendToDevices(ctx context.Context, tokens []string, msg fcm.Message) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, sentPush{tokens: tokens, msg: msg})
	var stale []string
	for _, token := range tokens {
		if f.stale[token] {
			stale = append(stale, token)
		}
	}
	return stale, nil
}

type fixture struct {
	scheduler *ReminderScheduler
	sender    *fakeSender
	tasks     taskrepo.TaskRepository
	users     authrepo.UserRepository
	devices   authrepo.FCMTokenRepository
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()
	db, err := database.NewInMemory(t.Name())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	var models []interface{}
	models = append(models, authrepo.Models()...)
	models = append(models, taskrepo.Models()...)
	models = append(models, repository.Models()...)
	if err := database.Migrate(db, models...); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	f := &fixture{
		sender:  &fakeSender{stale: map[string]bool{}},
		tasks:   taskrepo.NewGormTaskRepository(db),
		users:   authrepo.NewUserRepository(db),
		devices: authrepo.NewFCMTokenRepository(db),
	}
	f.scheduler = NewReminderScheduler(f.tasks, f.users, f.devices, repository.NewDeliveryRepository(db), f.sender, wib)
	f.scheduler.now = func() time.Time { return now }
	return f
}

func (f *fixture) user(t *testing.T, email string, tokens ...string) string {
	t.Helper()
	u := &authdomain.User{Email: email, Username: email, Password: "x"}
	if err := f.users.Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	for _, token := range tokens {
		if err := f.devices.SaveToken(context.Background(), u.ID, token, "test"); err != nil {
			t.Fatalf("save token: %v", err)
		}
	}
	return u.ID
}

func (f *fixture) task(t *testing.T, task *taskdomain.Task) {
	t.Helper()
	task.Priority = taskdomain.PriorityMedium
	task.Status = taskdomain.TaskStatusTodo
	if err := f.tasks.Create(context.Background(), task); err != nil {
		t.Fatalf("create task: %v", err)
	}
}

func TestDispatch_SendsOncePerRecipient(t *testing.T) {
	f := newFixture(t, time.Date(2024, time.May, 1, 23, 30, 0, 0, wib))
	owner := f.user(t, "owner@example.com", "owner-phone")
	f.user(t, "friend@example.com", "friend-phone", "friend-laptop")

	f.task(t, &taskdomain.Task{
		UserID:   owner,
		Title:    "Pay rent",
		Deadline: taskdomain.NewDate(2024, time.May, 2),
		Reminder: taskdomain.ReminderOneHour,
		SharedTasks: []taskdomain.SharedTask{
			{CollaboratorEmail: "friend@example.com"},
			{CollaboratorEmail: "stranger@example.com"},
		},
	})

	if sent := f.scheduler.Dispatch(context.Background()); sent != 2 {
		t.Fatalf("expected 2 pushes, got %d", sent)
	}

	var tokens []string
	for _, push := range f.sender.sent {
		tokens = append(tokens, push.tokens...)
		if push.msg.Body != `Task "Pay rent" deadline in 1 hour` {
			t.Fatalf("unexpected body %q", push.msg.Body)
		}
		if push.msg.Data["reminder"] != "1-hour" || push.msg.Data["deadline"] != "2024-05-02" {
			t.Fatalf("unexpected data %#v", push.msg.Data)
		}
	}
	sort.Strings(tokens)
	if len(tokens) != 3 || tokens[0] != "friend-laptop" || tokens[1] != "friend-phone" || tokens[2] != "owner-phone" {
		t.Fatalf("unexpected tokens %v", tokens)
	}

	// The next tick inside the same window sends nothing.
	if sent := f.scheduler.Dispatch(context.Background()); sent != 0 {
		t.Fatalf("expected no repeat pushes, got %d", sent)
	}
	if len(f.sender.sent) != 2 {
		t.Fatalf("sender called %d times", len(f.sender.sent))
	}
}

func TestDispatch_SkipsTasksOutsideWindow(t *testing.T) {
	f := newFixture(t, time.Date(2024, time.May, 1, 20, 0, 0, 0, wib))
	owner := f.user(t, "owner@example.com", "owner-phone")

	f.task(t, &taskdomain.Task{UserID: owner, Title: "later", Deadline: taskdomain.NewDate(2024, time.May, 2), Reminder: taskdomain.ReminderOneHour})
	f.task(t, &taskdomain.Task{UserID: owner, Title: "quiet", Deadline: taskdomain.NewDate(2024, time.May, 1), Reminder: taskdomain.ReminderNone})

	if sent := f.scheduler.Dispatch(context.Background()); sent != 0 {
		t.Fatalf("expected no pushes, got %d", sent)
	}
}

func TestDispatch_DeletesStaleTokens(t *testing.T) {
	f := newFixture(t, time.Date(2024, time.May, 2, 9, 0, 0, 0, wib))
	owner := f.user(t, "owner@example.com", "good", "gone")
	f.sender.stale["gone"] = true

	f.task(t, &taskdomain.Task{UserID: owner, Title: "standup", Deadline: taskdomain.NewDate(2024, time.May, 2), Reminder: taskdomain.ReminderSameDay})

	if sent := f.scheduler.Dispatch(context.Background()); sent != 1 {
		t.Fatalf("expected 1 push, got %d", sent)
	}

	tokens, err := f.devices.GetTokensByUserID(context.Background(), owner)
	if err != nil {
		t.Fatalf("get tokens: %v", err)
	}
	if len(tokens) != 1 || tokens[0].Token != "good" {
		t.Fatalf("stale token not removed: %#v", tokens)
	}
}

func TestDispatch_WaitsForDevice(t *testing.T) {
	f := newFixture(t, time.Date(2024, time.May, 2, 9, 0, 0, 0, wib))
	owner := f.user(t, "owner@example.com")

	f.task(t, &taskdomain.Task{UserID: owner, Title: "standup", Deadline: taskdomain.NewDate(2024, time.May, 2), Reminder: taskdomain.ReminderSameDay})

	if sent := f.scheduler.Dispatch(context.Background()); sent != 0 {
		t.Fatalf("expected no pushes without devices, got %d", sent)
	}

	if err := f.devices.SaveToken(context.Background(), owner, "new-phone", "test"); err != nil {
		t.Fatalf("save token: %v", err)
	}
	if sent := f.scheduler.Dispatch(context.Background()); sent != 1 {
		t.Fatalf("expected push after device registration, got %d", sent)
	}
}

func TestDispatch_SendFailureIsNotRetried(t *testing.T) {
	f := newFixture(t, time.Date(2024, time.May, 2, 9, 0, 0, 0, wib))
	owner := f.user(t, "owner@example.com", "phone")
	f.sender.err = errors.New("fcm unavailable")

	f.task(t, &taskdomain.Task{UserID: owner, Title: "standup", Deadline: taskdomain.NewDate(2024, time.May, 2), Reminder: taskdomain.ReminderSameDay})

	if sent := f.scheduler.Dispatch(context.Background()); sent != 0 {
		t.Fatalf("expected failed send, got %d", sent)
	}

	f.sender.err = nil
	if sent := f.scheduler.Dispatch(context.Background()); sent != 0 {
		t.Fatalf("claimed reminder was sent again: %d", sent)
	}
}

func TestStart_RejectsBadSpec(t *testing.T) {
	f := newFixture(t, time.Now())
	if err := f.scheduler.Start("not a cron spec"); err == nil {
		f.scheduler.Stop()
		t.Fatalf("expected error for invalid cron expression")
	}
}
