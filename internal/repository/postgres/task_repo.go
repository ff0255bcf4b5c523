package postgres

import (
	"context"

	"github.com/dom/task-tracker/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type taskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *taskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(task).Error
}

func (r *taskRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	var task domain.Task
	err := r.db.WithContext(ctx).
		Preload("Creator").
		Preload("Assignee").
		First(&task, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &task, nil
}

func (r *taskRepository) List(ctx context.Context, filter domain.TaskFilter) ([]*domain.Task, error) {
	var tasks []*domain.Task
	err := applyTaskFilter(r.db.WithContext(ctx), filter).
		Preload("Creator").
		Preload("Assignee").
		Order("created_at DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// Stats aggregates in a single statement. COUNT over no rows is 0, so an
// empty scope yields a zero-filled result.
func (r *taskRepository) Stats(ctx context.Context, filter domain.TaskFilter) (*domain.TaskStats, error) {
	var stats domain.TaskStats
	err := applyTaskFilter(r.db.WithContext(ctx).Model(&domain.Task{}), filter).
		Select(`COUNT(*) AS total_tasks,
			COUNT(*) FILTER (WHERE status = ?) AS completed,
			COUNT(*) FILTER (WHERE status <> ?) AS pending,
			COUNT(*) FILTER (WHERE priority = ?) AS low_priority,
			COUNT(*) FILTER (WHERE priority = ?) AS medium_priority,
			COUNT(*) FILTER (WHERE priority = ?) AS high_priority`,
			domain.TaskStatusDone, domain.TaskStatusDone,
			domain.TaskPriorityLow, domain.TaskPriorityMedium, domain.TaskPriorityHigh,
		).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// Update writes the mutable columns only. creator_id is never written.
func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	return r.db.WithContext(ctx).
		Model(task).
		Omit(clause.Associations).
		Select("title", "description", "status", "priority", "assignee_id", "updated_at").
		Updates(task).Error
}

func applyTaskFilter(db *gorm.DB, f domain.TaskFilter) *gorm.DB {
	if f.Participant != nil {
		db = db.Where("(creator_id = ? OR assignee_id = ?)", *f.Participant, *f.Participant)
	}
	if f.Status != nil {
		db = db.Where("status = ?", *f.Status)
	}
	if f.Priority != nil {
		db = db.Where("priority = ?", *f.Priority)
	}
	if f.Search != "" {
		pattern := f.LikePattern()
		db = db.Where("(title ILIKE ? OR description ILIKE ?)", pattern, pattern)
	}
	return db
}
