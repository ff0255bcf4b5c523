package service

import (
	"context"

	"github.com/dom/task-tracker/internal/domain"
	"github.com/dom/task-tracker/internal/repository"
	"github.com/google/uuid"
)

type TaskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
}

func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
	}
}

type CreateTaskInput struct {
	Title       string `validate:"required"`
	Description string `validate:"required"`
	Status      string `validate:"omitempty,oneof=todo inprogress done"`
	Priority    string `validate:"omitempty,oneof=low medium high"`
	AssigneeID  *uuid.UUID
}

// Create always records the requester as creator.
func (s *TaskService) Create(ctx context.Context, requester *domain.User, input CreateTaskInput) (*domain.Task, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	if input.AssigneeID != nil {
		if err := s.ensureAssignee(ctx, *input.AssigneeID); err != nil {
			return nil, err
		}
	}

	task := &domain.Task{
		ID:          uuid.New(),
		Title:       input.Title,
		Description: input.Description,
		Status:      domain.TaskStatusTodo,
		Priority:    domain.TaskPriorityLow,
		CreatorID:   requester.ID,
		AssigneeID:  input.AssigneeID,
	}
	if input.Status != "" {
		task.Status = domain.TaskStatus(input.Status)
	}
	if input.Priority != "" {
		task.Priority = domain.TaskPriority(input.Priority)
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}

	return s.taskRepo.GetByID(ctx, task.ID)
}

func (s *TaskService) List(ctx context.Context, requester *domain.User, query domain.TaskQuery) ([]*domain.Task, error) {
	filter, err := domain.BuildTaskFilter(domain.RequesterOf(requester), query)
	if err != nil {
		return nil, err
	}
	return s.taskRepo.List(ctx, filter)
}

// Stats aggregates over the role scope only; list predicates do not apply.
func (s *TaskService) Stats(ctx context.Context, requester *domain.User) (*domain.TaskStats, error) {
	stats, err := s.taskRepo.Stats(ctx, domain.ScopeFor(domain.RequesterOf(requester)))
	if err != nil {
		return nil, err
	}
	if stats == nil {
		stats = &domain.TaskStats{}
	}
	return stats, nil
}

func (s *TaskService) Get(ctx context.Context, requester *domain.User, id uuid.UUID) (*domain.Task, error) {
	task, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	decision := domain.DecideTaskAccess(domain.RequesterOf(requester), task, domain.TaskActionView)
	if err := decision.Err(); err != nil {
		return nil, err
	}

	return task, nil
}

// Update authorizes against the stored task, drops the fields the requester
// may not touch and only then validates and writes.
func (s *TaskService) Update(ctx context.Context, requester *domain.User, id uuid.UUID, patch domain.TaskPatch) (*domain.Task, error) {
	task, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	decision := domain.DecideTaskAccess(domain.RequesterOf(requester), task, domain.TaskActionUpdate)
	if err := decision.Err(); err != nil {
		return nil, err
	}

	patch = patch.Restrict(decision.Fields)
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	if patch.Empty() {
		return task, nil
	}

	if patch.AssigneeID != nil && !patch.ClearAssignee {
		if err := s.ensureAssignee(ctx, *patch.AssigneeID); err != nil {
			return nil, err
		}
	}

	patch.Apply(task)
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}

	return s.taskRepo.GetByID(ctx, task.ID)
}

func (s *TaskService) load(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, domain.MsgTaskNotFound)
	}
	return task, nil
}

func (s *TaskService) ensureAssignee(ctx context.Context, id uuid.UUID) error {
	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		return notFound(err, domain.MsgAssigneeNotFound)
	}
	return nil
}
