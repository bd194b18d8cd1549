package delivery

import (
	"errors"
	"log"
	"net/http"

	"ingetin-backend/internal/task/domain"
	"ingetin-backend/internal/task/usecase"
	"ingetin-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	taskUsecase usecase.TaskUsecase
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskUsecase usecase.TaskUsecase) *TaskHandler {
	return &TaskHandler{
		taskUsecase: taskUsecase,
	}
}

// TaskRequest is the body of create and full update
type TaskRequest struct {
	Title       string             `json:"title" binding:"required,max=255"`
	Description *string            `json:"description"`
	Deadline    string             `json:"deadline" binding:"required"`
	Priority    string             `json:"priority" binding:"required,oneof=low medium high"`
	Status      string             `json:"status" binding:"required,oneof=todo in-progress done"`
	Reminder    *string            `json:"reminder" binding:"omitempty,oneof=none 1-hour 1-day same-day"`
	Checklist   []ChecklistRequest `json:"checklist" binding:"omitempty,dive"`
	SharedWith  []string           `json:"sharedWith" binding:"omitempty,dive,email"`
}

type ChecklistRequest struct {
	Text      string `json:"text" binding:"required"`
	Completed bool   `json:"completed"`
}

type statusRequest struct {
	Status string `json:"status" binding:"required,oneof=todo in-progress done"`
}

type checklistToggleRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

// GetTasks returns owned and shared tasks
// GET /api/tasks
func (h *TaskHandler) GetTasks(c *gin.Context) {
	owned, shared, err := h.taskUsecase.ListTasks(c.Request.Context(), viewerFrom(c))
	if err != nil {
		respondError(c, err, "Server error fetching tasks")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"ownedTasks":  nonNil(owned),
		"sharedTasks": nonNil(shared),
	})
}

// FilterTasks returns owned tasks matching a named filter
// GET /api/tasks/filter?filter=today|high|in-progress|done&q=
func (h *TaskHandler) FilterTasks(c *gin.Context) {
	tasks, err := h.taskUsecase.FilterTasks(c.Request.Context(), viewerFrom(c), c.Query("filter"), c.Query("q"))
	if err != nil {
		respondError(c, err, "Server error filtering tasks")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"tasks":   nonNil(tasks),
	})
}

// GetTaskByID returns a specific task
// GET /api/tasks/:id
func (h *TaskHandler) GetTaskByID(c *gin.Context) {
	task, err := h.taskUsecase.GetTask(c.Request.Context(), viewerFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err, "Server error fetching task")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "task": task})
}

// CreateTask creates a new task
// POST /api/tasks
func (h *TaskHandler) CreateTask(c *gin.Context) {
	input, ok := bindTaskInput(c)
	if !ok {
		return
	}

	task, err := h.taskUsecase.CreateTask(c.Request.Context(), viewerFrom(c), input)
	if err != nil {
		respondError(c, err, "Server error creating task")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Task created successfully",
		"task":    task,
	})
}

// UpdateTask rewrites an owned task
// PUT /api/tasks/:id
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	input, ok := bindTaskInput(c)
	if !ok {
		return
	}

	task, err := h.taskUsecase.UpdateTask(c.Request.Context(), viewerFrom(c), c.Param("id"), input)
	if err != nil {
		respondError(c, err, "Server error updating task")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Task updated successfully",
		"task":    task,
	})
}

// DeleteTask deletes an owned task
// DELETE /api/tasks/:id
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	if err := h.taskUsecase.DeleteTask(c.Request.Context(), viewerFrom(c), c.Param("id")); err != nil {
		respondError(c, err, "Server error deleting task")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Task deleted successfully",
	})
}

// UpdateTaskStatus changes only the status
// PATCH /api/tasks/:id/status
func (h *TaskHandler) UpdateTaskStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	task, err := h.taskUsecase.UpdateStatus(c.Request.Context(), viewerFrom(c), c.Param("id"), domain.TaskStatus(req.Status))
	if err != nil {
		respondError(c, err, "Server error updating task status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Task status updated successfully",
		"task":    task,
	})
}

// UpdateChecklistItem toggles a checklist item
// PATCH /api/tasks/:id/checklist/:itemId
func (h *TaskHandler) UpdateChecklistItem(c *gin.Context) {
	var req checklistToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	item, err := h.taskUsecase.SetChecklistItemCompleted(c.Request.Context(), viewerFrom(c), c.Param("id"), c.Param("itemId"), *req.Completed)
	if err != nil {
		respondError(c, err, "Server error updating checklist item")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       "Checklist item updated successfully",
		"checklistItem": item,
	})
}

func bindTaskInput(c *gin.Context) (usecase.TaskInput, bool) {
	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return usecase.TaskInput{}, false
	}

	deadline, err := domain.ParseDate(req.Deadline)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid deadline format")
		return usecase.TaskInput{}, false
	}

	input := usecase.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Deadline:    deadline,
		Priority:    domain.Priority(req.Priority),
		Status:      domain.TaskStatus(req.Status),
		SharedWith:  req.SharedWith,
	}
	if req.Reminder != nil {
		r := domain.ReminderPolicy(*req.Reminder)
		input.Reminder = &r
	}
	if req.Checklist != nil {
		input.Checklist = make([]usecase.ChecklistInput, 0, len(req.Checklist))
		for _, item := range req.Checklist {
			input.Checklist = append(input.Checklist, usecase.ChecklistInput{Text: item.Text, Completed: item.Completed})
		}
	}
	return input, true
}

func respondError(c *gin.Context, err error, serverMessage string) {
	switch {
	case errors.Is(err, usecase.ErrTaskNotFound):
		response.Error(c, http.StatusNotFound, "Task not found")
	case errors.Is(err, usecase.ErrChecklistItemNotFound):
		response.Error(c, http.StatusNotFound, "Checklist item not found")
	case errors.Is(err, usecase.ErrInvalidTask):
		response.Error(c, http.StatusBadRequest, err.Error())
	default:
		log.Printf("[TaskHandler] %s: %v", serverMessage, err)
		response.Error(c, http.StatusInternalServerError, serverMessage)
	}
}

// viewerFrom reads the identity placed on the context by the auth middleware.
func viewerFrom(c *gin.Context) domain.Viewer {
	return domain.Viewer{
		ID:    c.GetString("userID"),
		Email: c.GetString("userEmail"),
	}
}

// nonNil keeps empty listings serialised as [] rather than null.
func nonNil(tasks []*domain.Task) []*domain.Task {
	if tasks == nil {
		return []*domain.Task{}
	}
	return tasks
}
