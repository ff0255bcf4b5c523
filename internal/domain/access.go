package domain

import (
	"fmt"

	"github.com/google/uuid"
)

type TaskAction int

const (
	TaskActionView TaskAction = iota
	TaskActionUpdate
)

// FieldScope says which task fields an allowed update may touch.
type FieldScope int

const (
	FieldsNone FieldScope = iota
	FieldsStatusOnly
	FieldsAll
)

// Requester is the authenticated identity a decision is made for.
type Requester struct {
	ID   uuid.UUID
	Role Role
}

func RequesterOf(u *User) Requester {
	return Requester{ID: u.ID, Role: u.Role}
}

func (r Requester) IsAdmin() bool {
	return r.Role == RoleAdmin
}

// AccessDecision is the result of DecideTaskAccess. Reason is the client
// message used when Allowed is false.
type AccessDecision struct {
	Allowed bool
	Fields  FieldScope
	Reason  string
}

// Err converts a denied decision into an authorization error.
func (d AccessDecision) Err() error {
	if d.Allowed {
		return nil
	}
	return NewAuthorizationError(d.Reason)
}

const (
	msgViewDenied   = "Not authorized to view this task"
	msgUpdateDenied = "You do not have permission to update this task"
)

// DecideTaskAccess computes what requester may do with task. The task must be
// the current stored state, not a cached copy.
func DecideTaskAccess(req Requester, task *Task, action TaskAction) AccessDecision {
	isCreator := task.CreatorID == req.ID
	isAssignee := task.AssigneeID != nil && *task.AssigneeID == req.ID
	isAdmin := req.IsAdmin()

	switch action {
	case TaskActionView:
		if isCreator || isAssignee || isAdmin {
			return AccessDecision{Allowed: true, Fields: FieldsNone}
		}
		return AccessDecision{Reason: msgViewDenied}
	case TaskActionUpdate:
		switch {
		case isCreator || isAdmin:
			return AccessDecision{Allowed: true, Fields: FieldsAll}
		case isAssignee:
			return AccessDecision{Allowed: true, Fields: FieldsStatusOnly}
		}
		return AccessDecision{Reason: msgUpdateDenied}
	}

	return AccessDecision{Reason: MsgRoleForbidden}
}

// TaskPatch is a partial task update. Nil fields are left untouched.
// ClearAssignee unassigns the task and wins over AssigneeID. Malformed names
// the fields whose raw value had the wrong type; they only fail the update if
// they survive Restrict.
type TaskPatch struct {
	Title         *string
	Description   *string
	Status        *TaskStatus
	Priority      *TaskPriority
	AssigneeID    *uuid.UUID
	ClearAssignee bool
	Malformed     []string
}

const PatchFieldStatus = "status"

// Restrict drops every field the scope does not allow.
func (p TaskPatch) Restrict(scope FieldScope) TaskPatch {
	switch scope {
	case FieldsAll:
		return p
	case FieldsStatusOnly:
		restricted := TaskPatch{Status: p.Status}
		for _, field := range p.Malformed {
			if field == PatchFieldStatus {
				restricted.Malformed = []string{PatchFieldStatus}
			}
		}
		return restricted
	}
	return TaskPatch{}
}

// Validate checks the values present in the patch.
func (p TaskPatch) Validate() error {
	if len(p.Malformed) > 0 {
		return NewValidationError(fmt.Sprintf("Invalid value for %s", p.Malformed[0]), nil)
	}
	if p.Title != nil && *p.Title == "" {
		return NewValidationError("Title cannot be empty", nil)
	}
	if p.Description != nil && *p.Description == "" {
		return NewValidationError("Description cannot be empty", nil)
	}
	if p.Status != nil && !p.Status.Valid() {
		return NewValidationError("Status must be one of todo, inprogress, done", nil)
	}
	if p.Priority != nil && !p.Priority.Valid() {
		return NewValidationError("Priority must be one of low, medium, high", nil)
	}
	return nil
}

// Apply writes the patch onto task. The creator is never changed.
func (p TaskPatch) Apply(task *Task) {
	if p.Title != nil {
		task.Title = *p.Title
	}
	if p.Description != nil {
		task.Description = *p.Description
	}
	if p.Status != nil {
		task.Status = *p.Status
	}
	if p.Priority != nil {
		task.Priority = *p.Priority
	}
	switch {
	case p.ClearAssignee:
		task.AssigneeID = nil
		task.Assignee = nil
	case p.AssigneeID != nil:
		id := *p.AssigneeID
		task.AssigneeID = &id
		task.Assignee = nil
	}
}

func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil &&
		p.Priority == nil && p.AssigneeID == nil && !p.ClearAssignee
}
