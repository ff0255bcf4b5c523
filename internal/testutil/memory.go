package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dom/task-tracker/internal/domain"
	"github.com/dom/task-tracker/internal/repository"
	"github.com/google/uuid"
)

// MemoryStore implements the repositories in memory with the same
// semantics as the postgres ones. Lookups return copies.
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[uuid.UUID]*domain.User
	tasks    map[uuid.UUID]*domain.Task
	lastTime time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[uuid.UUID]*domain.User),
		tasks: make(map[uuid.UUID]*domain.Task),
	}
}

func (s *MemoryStore) Repositories() *repository.Repositories {
	return &repository.Repositories{
		User: &memoryUserRepo{s},
		Task: &memoryTaskRepo{s},
	}
}

// TaskCount returns the number of stored tasks.
func (s *MemoryStore) TaskCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// tick returns a strictly increasing timestamp so creation order is stable.
func (s *MemoryStore) tick() time.Time {
	now := time.Now()
	if !now.After(s.lastTime) {
		now = s.lastTime.Add(time.Microsecond)
	}
	s.lastTime = now
	return now
}

func copyUser(u *domain.User) *domain.User {
	c := *u
	return &c
}

func (s *MemoryStore) copyTask(t *domain.Task) *domain.Task {
	c := *t
	if t.AssigneeID != nil {
		id := *t.AssigneeID
		c.AssigneeID = &id
		if u, ok := s.users[id]; ok {
			c.Assignee = copyUser(u)
		}
	}
	if u, ok := s.users[t.CreatorID]; ok {
		c.Creator = copyUser(u)
	}
	return &c
}

type memoryUserRepo struct {
	s *MemoryStore
}

func (r *memoryUserRepo) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Role == "" {
		user.Role = domain.RoleUser
	}
	now := r.s.tick()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	r.s.users[user.ID] = copyUser(user)
	return nil
}

func (r *memoryUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyUser(u), nil
}

func (r *memoryUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memoryUserRepo) List(_ context.Context) ([]*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := make([]*domain.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		users = append(users, copyUser(u))
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

func (r *memoryUserRepo) Update(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	for id, u := range r.s.users {
		if id != user.ID && u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	user.UpdatedAt = r.s.tick()
	r.s.users[user.ID] = copyUser(user)
	return nil
}

// Delete removes the user's own tasks and unassigns the rest, like the
// foreign keys do in postgres.
func (r *memoryUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.users, id)

	for taskID, t := range r.s.tasks {
		switch {
		case t.CreatorID == id:
			delete(r.s.tasks, taskID)
		case t.AssigneeID != nil && *t.AssigneeID == id:
			t.AssigneeID = nil
		}
	}
	return nil
}

type memoryTaskRepo struct {
	s *MemoryStore
}

func (r *memoryTaskRepo) Create(_ context.Context, task *domain.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	now := r.s.tick()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	task.UpdatedAt = now

	stored := *task
	stored.Creator, stored.Assignee = nil, nil
	if task.AssigneeID != nil {
		id := *task.AssigneeID
		stored.AssigneeID = &id
	}
	r.s.tasks[task.ID] = &stored
	return nil
}

func (r *memoryTaskRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tasks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.s.copyTask(t), nil
}

func (r *memoryTaskRepo) List(_ context.Context, filter domain.TaskFilter) ([]*domain.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	tasks := make([]*domain.Task, 0)
	for _, t := range r.s.tasks {
		if filter.Matches(t) {
			tasks = append(tasks, r.s.copyTask(t))
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	return tasks, nil
}

func (r *memoryTaskRepo) Stats(_ context.Context, filter domain.TaskFilter) (*domain.TaskStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var stats domain.TaskStats
	for _, t := range r.s.tasks {
		if filter.Matches(t) {
			stats.Tally(t)
		}
	}
	return &stats, nil
}

func (r *memoryTaskRepo) Update(_ context.Context, task *domain.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.tasks[task.ID]
	if !ok {
		return repository.ErrNotFound
	}

	stored.Title = task.Title
	stored.Description = task.Description
	stored.Status = task.Status
	stored.Priority = task.Priority
	stored.AssigneeID = nil
	if task.AssigneeID != nil {
		id := *task.AssigneeID
		stored.AssigneeID = &id
	}
	stored.UpdatedAt = r.s.tick()
	task.UpdatedAt = stored.UpdatedAt
	return nil
}
