package domain

import (
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "inprogress"
	TaskStatusDone       TaskStatus = "done"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// Task is owned by nobody: CreatorID and AssigneeID only reference users.
// Removing a creator removes their tasks, removing an assignee unassigns.
type Task struct {
	ID          uuid.UUID    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title       string       `json:"title" gorm:"not null"`
	Description string       `json:"description" gorm:"not null"`
	Status      TaskStatus   `json:"status" gorm:"not null;default:'todo';index"`
	Priority    TaskPriority `json:"priority" gorm:"not null;default:'low';index"`
	CreatorID   uuid.UUID    `json:"creatorId" gorm:"type:uuid;not null;index"`
	AssigneeID  *uuid.UUID   `json:"assigneeId" gorm:"type:uuid;index"`
	CreatedAt   time.Time    `json:"createdAt" gorm:"index"`
	UpdatedAt   time.Time    `json:"updatedAt"`

	// Relations
	Creator  *User `json:"creator,omitempty" gorm:"foreignKey:CreatorID;constraint:OnDelete:CASCADE"`
	Assignee *User `json:"assignee,omitempty" gorm:"foreignKey:AssigneeID;constraint:OnDelete:SET NULL"`
}

// TaskStats is the aggregate returned by the stats endpoint. The zero value
// is the answer for an empty task set.
type TaskStats struct {
	TotalTasks     int64 `json:"totalTasks" gorm:"column:total_tasks"`
	Completed      int64 `json:"completed" gorm:"column:completed"`
	Pending        int64 `json:"pending" gorm:"column:pending"`
	LowPriority    int64 `json:"lowPriority" gorm:"column:low_priority"`
	MediumPriority int64 `json:"mediumPriority" gorm:"column:medium_priority"`
	HighPriority   int64 `json:"highPriority" gorm:"column:high_priority"`
}
