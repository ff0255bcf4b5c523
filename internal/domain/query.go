package domain

import (
	"strings"

	"github.com/google/uuid"
)

// TaskFilter is a storage independent description of a task query.
// A nil Participant means every task is in scope.
type TaskFilter struct {
	Participant *uuid.UUID
	Status      *TaskStatus
	Priority    *TaskPriority
	Search      string
}

// TaskQuery holds the raw, optional list parameters.
type TaskQuery struct {
	Status   string
	Priority string
	Search   string
}

// ScopeFor restricts non-admins to tasks they created or are assigned to.
func ScopeFor(req Requester) TaskFilter {
	if req.IsAdmin() {
		return TaskFilter{}
	}
	id := req.ID
	return TaskFilter{Participant: &id}
}

// BuildTaskFilter combines the role scope with the optional predicates. The
// predicates only ever narrow the scope.
func BuildTaskFilter(req Requester, q TaskQuery) (TaskFilter, error) {
	f := ScopeFor(req)

	if q.Status != "" {
		status := TaskStatus(q.Status)
		if !status.Valid() {
			return TaskFilter{}, NewValidationError("Status must be one of todo, inprogress, done", nil)
		}
		f.Status = &status
	}

	if q.Priority != "" {
		priority := TaskPriority(q.Priority)
		if !priority.Valid() {
			return TaskFilter{}, NewValidationError("Priority must be one of low, medium, high", nil)
		}
		f.Priority = &priority
	}

	f.Search = strings.TrimSpace(q.Search)

	return f, nil
}

// Matches evaluates the filter in memory with the same semantics as
// applyTaskFilter in the postgres repository. Only the in-memory repositories
// used by tests call it; keep the two in sync.
func (f TaskFilter) Matches(t *Task) bool {
	if f.Participant != nil {
		id := *f.Participant
		if t.CreatorID != id && (t.AssigneeID == nil || *t.AssigneeID != id) {
			return false
		}
	}
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	if f.Priority != nil && t.Priority != *f.Priority {
		return false
	}
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(t.Title), term) &&
			!strings.Contains(strings.ToLower(t.Description), term) {
			return false
		}
	}
	return true
}

// LikePattern turns the search term into a LIKE pattern matching it as a
// literal substring.
func (f TaskFilter) LikePattern() string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(f.Search) + "%"
}

// Tally adds one task to the stats, mirroring the COUNT FILTER aggregate of
// the postgres repository for the in-memory repositories.
func (s *TaskStats) Tally(t *Task) {
	s.TotalTasks++
	if t.Status == TaskStatusDone {
		s.Completed++
	} else {
		s.Pending++
	}
	switch t.Priority {
	case TaskPriorityLow:
		s.LowPriority++
	case TaskPriorityMedium:
		s.MediumPriority++
	case TaskPriorityHigh:
		s.HighPriority++
	}
}
