package domain

import "ingetin-backend/pkg/emailaddr"

// Viewer is the authenticated identity a request acts as.
type Viewer struct {
	ID    string
	Email string
}

// CanAccess reports whether viewer may see the task: the owner always can,
// and so can anyone whose email the task has been shared with.
func CanAccess(viewer Viewer, task *Task) bool {
	if task == nil {
		return false
	}
	if viewer.ID != "" && viewer.ID == task.UserID {
		return true
	}
	email := emailaddr.Normalize(viewer.Email)
	if email == "" {
		return false
	}
	for _, collaborator := range task.CollaboratorEmails() {
		if emailaddr.Normalize(collaborator) == email {
			return true
		}
	}
	return false
}

// IsOwner reports whether viewer owns the task. Only owners may rewrite,
// re-share or delete it.
func IsOwner(viewer Viewer, task *Task) bool {
	return task != nil && viewer.ID != "" && viewer.ID == task.UserID
}
