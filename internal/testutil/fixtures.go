package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/dom/task-tracker/internal/domain"
	"github.com/dom/task-tracker/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	name     string
	email    string
	password string
	role     domain.Role
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		name:     fmt.Sprintf("testuser_%s", suffix),
		email:    fmt.Sprintf("user_%s@example.com", suffix),
		password: "testpassword123",
		role:     domain.RoleUser,
	}
}

// WithName sets the display name
func (b *UserBuilder) WithName(name string) *UserBuilder {
	b.name = name
	return b
}

// WithEmail sets the email
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// AsAdmin gives the user the admin role
func (b *UserBuilder) AsAdmin() *UserBuilder {
	b.role = domain.RoleAdmin
	return b
}

// Build stores the user and returns it with the raw password
func (b *UserBuilder) Build(t *testing.T, repos *repository.Repositories) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Name:         b.name,
		Email:        b.email,
		PasswordHash: string(hashedPassword),
		Role:         b.role,
	}

	if err := repos.User.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// BuildAndAuthenticate stores the user and logs in through the API,
// returning the user and its access token
func (b *UserBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) (*domain.User, string) {
	t.Helper()

	user, password := b.Build(t, ts.Repos)

	body, _ := json.Marshal(map[string]string{
		"email":    user.Email,
		"password": password,
	})
	resp, err := http.Post(ts.APIURL("/users-auth/login"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to log in: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status code: %d", resp.StatusCode)
	}

	env := DecodeEnvelope[AuthData](t, resp)
	return user, env.Data.AccessToken
}

// TaskBuilder creates test tasks with a builder pattern
type TaskBuilder struct {
	title       string
	description string
	status      domain.TaskStatus
	priority    domain.TaskPriority
	creator     *domain.User
	assignee    *domain.User
}

// NewTaskBuilder creates a new TaskBuilder with default values
func NewTaskBuilder() *TaskBuilder {
	return &TaskBuilder{
		title:       "task " + uuid.New().String()[:6],
		description: "something to do",
		status:      domain.TaskStatusTodo,
		priority:    domain.TaskPriorityLow,
	}
}

func (b *TaskBuilder) WithTitle(title string) *TaskBuilder {
	b.title = title
	return b
}

func (b *TaskBuilder) WithDescription(description string) *TaskBuilder {
	b.description = description
	return b
}

func (b *TaskBuilder) WithStatus(status domain.TaskStatus) *TaskBuilder {
	b.status = status
	return b
}

func (b *TaskBuilder) WithPriority(priority domain.TaskPriority) *TaskBuilder {
	b.priority = priority
	return b
}

func (b *TaskBuilder) WithCreator(user *domain.User) *TaskBuilder {
	b.creator = user
	return b
}

func (b *TaskBuilder) WithAssignee(user *domain.User) *TaskBuilder {
	b.assignee = user
	return b
}

// Build stores the task, creating a creator when none was set
func (b *TaskBuilder) Build(t *testing.T, repos *repository.Repositories) *domain.Task {
	t.Helper()

	if b.creator == nil {
		user, _ := NewUserBuilder().Build(t, repos)
		b.creator = user
	}

	task := &domain.Task{
		ID:          uuid.New(),
		Title:       b.title,
		Description: b.description,
		Status:      b.status,
		Priority:    b.priority,
		CreatorID:   b.creator.ID,
	}
	if b.assignee != nil {
		id := b.assignee.ID
		task.AssigneeID = &id
	}

	if err := repos.Task.Create(context.Background(), task); err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	return task
}
