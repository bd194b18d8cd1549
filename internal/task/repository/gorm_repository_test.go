package repository

import (
	"context"
	"testing"
	"time"

	"ingetin-backend/internal/task/domain"
	"ingetin-backend/pkg/database"
)

type ownerRow struct {
	ID       string `gorm:"primaryKey"`
	Username string
	Email    string
}

func (ownerRow) TableName() string { return "users" }

func newTestRepo(t *testing.T) TaskRepository {
	t.Helper()
	db, err := database.NewInMemory(t.Name())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := database.Migrate(db, append(Models(), &ownerRow{})...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	db.Create(&ownerRow{ID: "owner", Username: "owner", Email: "owner@example.com"})
	return NewGormTaskRepository(db)
}

func newTask(title string, deadline domain.Date, reminder domain.ReminderPolicy) *domain.Task {
	return &domain.Task{
		UserID:   "owner",
		Title:    title,
		Deadline: deadline,
		Priority: domain.PriorityMedium,
		Status:   domain.TaskStatusTodo,
		Reminder: reminder,
	}
}

func TestCreate_PersistsChildrenInOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	task := newTask("write report", domain.NewDate(2030, 1, 2), domain.ReminderNone)
	task.ChecklistItems = []domain.ChecklistItem{{Text: "outline", Order: 0}, {Text: "draft", Order: 1}}
	task.SharedTasks = []domain.SharedTask{{CollaboratorEmail: "friend@example.com"}}
	if err := repo.Create(ctx, task); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.FindByID(ctx, task.ID)
	if err != nil || got == nil {
		t.Fatalf("find: %v %v", got, err)
	}
	if got.Deadline.String() != "2030-01-02" {
		t.Fatalf("deadline: got %s", got.Deadline)
	}
	if len(got.ChecklistItems) != 2 || got.ChecklistItems[0].Text != "outline" || got.ChecklistItems[1].Text != "draft" {
		t.Fatalf("checklist: %#v", got.ChecklistItems)
	}
	if len(got.SharedTasks) != 1 || got.SharedTasks[0].OwnerID != "owner" {
		t.Fatalf("shares: %#v", got.SharedTasks)
	}
	if got.Owner == nil || got.Owner.Username != "owner" {
		t.Fatalf("owner: %#v", got.Owner)
	}
}

func TestFindByID_MissingReturnsNil(t *testing.T) {
	repo := newTestRepo(t)

	got, err := repo.FindByID(context.Background(), "nope")
	if err != nil || got != nil {
		t.Fatalf("got %v, %v; want nil, nil", got, err)
	}
}

func TestUpdate_ReplacesCollectionsWholesale(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	task := newTask("plan trip", domain.NewDate(2030, 3, 1), domain.ReminderNone)
	task.ChecklistItems = []domain.ChecklistItem{{Text: "a"}, {Text: "b"}, {Text: "c"}}
	task.SharedTasks = []domain.SharedTask{{CollaboratorEmail: "x@example.com"}}
	if err := repo.Create(ctx, task); err != nil {
		t.Fatalf("create: %v", err)
	}

	task.Title = "plan holiday"
	task.ChecklistItems = []domain.ChecklistItem{{Text: "z", Completed: true}}
	task.SharedTasks = nil
	if err := repo.Update(ctx, task, ReplaceSet{Checklist: true, Shares: true}); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, _ := repo.FindByID(ctx, task.ID)
	if got.Title != "plan holiday" {
		t.Fatalf("title: got %q", got.Title)
	}
	if len(got.ChecklistItems) != 1 || got.ChecklistItems[0].Text != "z" || !got.ChecklistItems[0].Completed {
		t.Fatalf("checklist not replaced: %#v", got.ChecklistItems)
	}
	if len(got.SharedTasks) != 0 {
		t.Fatalf("shares not cleared: %#v", got.SharedTasks)
	}
}

func TestUpdate_KeepsCollectionsWhenNotReplaced(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	task := newTask("groceries", domain.NewDate(2030, 3, 1), domain.ReminderNone)
	task.ChecklistItems = []domain.ChecklistItem{{Text: "milk"}}
	if err := repo.Create(ctx, task); err != nil {
		t.Fatalf("create: %v", err)
	}

	loaded, _ := repo.FindByID(ctx, task.ID)
	loaded.Status = domain.TaskStatusDone
	if err := repo.Update(ctx, loaded, ReplaceSet{}); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, _ := repo.FindByID(ctx, task.ID)
	if got.Status != domain.TaskStatusDone || len(got.ChecklistItems) != 1 {
		t.Fatalf("unexpected task after update: %#v", got)
	}
}

func TestDelete_RemovesChildren(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	task := newTask("temp", domain.NewDate(2030, 3, 1), domain.ReminderNone)
	task.ChecklistItems = []domain.ChecklistItem{{Text: "a"}}
	task.SharedTasks = []domain.SharedTask{{CollaboratorEmail: "x@example.com"}}
	if err := repo.Create(ctx, task); err != nil {
		t.Fatalf("create: %v", err)
	}
	itemID := task.ChecklistItems[0].ID

	if err := repo.Delete(ctx, task.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got, _ := repo.FindByID(ctx, task.ID); got != nil {
		t.Fatalf("task still present")
	}
	if item, _ := repo.FindChecklistItem(ctx, task.ID, itemID); item != nil {
		t.Fatalf("checklist item still present")
	}
	if shared, _ := repo.FindSharedWith(ctx, "x@example.com"); len(shared) != 0 {
		t.Fatalf("share grant still present")
	}
}

func TestFindOwned_FiltersAndOrders(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	later := newTask("later", domain.NewDate(2030, 5, 2), domain.ReminderNone)
	sooner := newTask("sooner", domain.NewDate(2030, 5, 1), domain.ReminderNone)
	sooner.Priority = domain.PriorityHigh
	for _, task := range []*domain.Task{later, sooner} {
		if err := repo.Create(ctx, task); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	all, err := repo.FindOwned(ctx, "owner", TaskFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 || all[0].Title != "sooner" || all[1].Title != "later" {
		t.Fatalf("order: got %v", titles(all))
	}

	high := domain.PriorityHigh
	filtered, _ := repo.FindOwned(ctx, "owner", TaskFilter{Priority: &high})
	if len(filtered) != 1 || filtered[0].Title != "sooner" {
		t.Fatalf("priority filter: got %v", titles(filtered))
	}

	day := domain.NewDate(2030, 5, 2)
	filtered, _ = repo.FindOwned(ctx, "owner", TaskFilter{Deadline: &day})
	if len(filtered) != 1 || filtered[0].Title != "later" {
		t.Fatalf("deadline filter: got %v", titles(filtered))
	}
}

func TestUpdateStatusAndChecklistItem(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	task := newTask("status", domain.NewDate(2030, 5, 2), domain.ReminderNone)
	task.ChecklistItems = []domain.ChecklistItem{{Text: "a"}}
	if err := repo.Create(ctx, task); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.UpdateStatus(ctx, task.ID, domain.TaskStatusInProgress); err != nil {
		t.Fatalf("status: %v", err)
	}
	item, err := repo.FindChecklistItem(ctx, task.ID, task.ChecklistItems[0].ID)
	if err != nil || item == nil {
		t.Fatalf("find item: %v %v", item, err)
	}
	item.Completed = true
	if err := repo.UpdateChecklistItem(ctx, item); err != nil {
		t.Fatalf("item: %v", err)
	}

	got, _ := repo.FindByID(ctx, task.ID)
	if got.Status != domain.TaskStatusInProgress || !got.ChecklistItems[0].Completed {
		t.Fatalf("unexpected task: %#v", got)
	}
	if other, _ := repo.FindChecklistItem(ctx, "other-task", item.ID); other != nil {
		t.Fatalf("item matched under the wrong task")
	}
}

func TestFindReminderCandidates_AppliesAccessAndUpstreamFilter(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	today := domain.DateOf(time.Date(2030, 6, 10, 9, 0, 0, 0, time.UTC))

	visible := newTask("visible", domain.NewDate(2030, 6, 10), domain.ReminderSameDay)
	visible.SharedTasks = []domain.SharedTask{{CollaboratorEmail: "friend@example.com"}}
	expired := newTask("expired", domain.NewDate(2030, 6, 9), domain.ReminderSameDay)
	expired.SharedTasks = []domain.SharedTask{{CollaboratorEmail: "friend@example.com"}}
	silent := newTask("silent", domain.NewDate(2030, 6, 11), domain.ReminderNone)
	silent.SharedTasks = []domain.SharedTask{{CollaboratorEmail: "friend@example.com"}}
	private := newTask("private", domain.NewDate(2030, 6, 11), domain.ReminderOneDay)
	for _, task := range []*domain.Task{visible, expired, silent, private} {
		if err := repo.Create(ctx, task); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	got, err := repo.FindReminderCandidates(ctx, domain.Viewer{ID: "u2", Email: "Friend@example.com"}, today)
	if err != nil {
		t.Fatalf("candidates: %v", err)
	}
	if len(got) != 1 || got[0].Title != "visible" {
		t.Fatalf("collaborator candidates: got %v", titles(got))
	}
	if len(got[0].SharedTasks) != 1 {
		t.Fatalf("shares not preloaded")
	}

	got, _ = repo.FindReminderCandidates(ctx, domain.Viewer{ID: "owner", Email: "owner@example.com"}, today)
	if len(got) != 2 {
		t.Fatalf("owner candidates: got %v", titles(got))
	}

	all, _ := repo.FindAllReminderCandidates(ctx, today)
	if len(all) != 2 {
		t.Fatalf("all candidates: got %v", titles(all))
	}
}

func titles(tasks []*domain.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, task.Title)
	}
	return out
}

func TestFindSharedWith_HidesOtherGrants(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	task := newTask("team", domain.NewDate(2030, 1, 1), domain.ReminderNone)
	task.ChecklistItems = []domain.ChecklistItem{{Text: "a", Order: 0}}
	task.SharedTasks = []domain.SharedTask{
		{CollaboratorEmail: "friend@example.com"},
		{CollaboratorEmail: "other@example.com"},
	}
	if err := repo.Create(ctx, task); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.FindSharedWith(ctx, "friend@example.com")
	if err != nil {
		t.Fatalf("find shared: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 shared task, got %d", len(got))
	}
	if got[0].SharedTasks == nil || len(got[0].SharedTasks) != 0 {
		t.Fatalf("collaborator should not see grants: %#v", got[0].SharedTasks)
	}
	if got[0].Owner == nil || got[0].Owner.Email != "owner@example.com" {
		t.Fatalf("owner: %#v", got[0].Owner)
	}
	if len(got[0].ChecklistItems) != 1 {
		t.Fatalf("checklist: %#v", got[0].ChecklistItems)
	}
}
