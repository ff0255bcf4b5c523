package service_test

import (
	"context"
	"testing"

	"github.com/dom/task-tracker/internal/domain"
	"github.com/dom/task-tracker/internal/service"
	"github.com/dom/task-tracker/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func TestTaskService_Create(t *testing.T) {
	services, store, _ := testutil.NewTestServices(t)
	ctx := context.Background()
	repos := store.Repositories()

	creator, _ := testutil.NewUserBuilder().Build(t, repos)
	assignee, _ := testutil.NewUserBuilder().Build(t, repos)

	t.Run("defaults", func(t *testing.T) {
		task, err := services.Task.Create(ctx, creator, service.CreateTaskInput{
			Title:       "Write docs",
			Description: "README",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusTodo, task.Status)
		assert.Equal(t, domain.TaskPriorityLow, task.Priority)
		assert.Equal(t, creator.ID, task.CreatorID)
		require.NotNil(t, task.Creator)
		assert.Nil(t, task.AssigneeID)
	})

	t.Run("with assignee", func(t *testing.T) {
		task, err := services.Task.Create(ctx, creator, service.CreateTaskInput{
			Title:       "Review",
			Description: "PR",
			Status:      "inprogress",
			Priority:    "high",
			AssigneeID:  &assignee.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusInProgress, task.Status)
		require.NotNil(t, task.Assignee)
		assert.Equal(t, assignee.ID, task.Assignee.ID)
	})

	t.Run("unknown assignee persists nothing", func(t *testing.T) {
		before := store.TaskCount()
		_, err := services.Task.Create(ctx, creator, service.CreateTaskInput{
			Title:       "Ghost",
			Description: "nobody",
			AssigneeID:  ptr(uuid.New()),
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Equal(t, domain.MsgAssigneeNotFound, domain.ClientMessage(err))
		assert.Equal(t, before, store.TaskCount())
	})

	t.Run("validation", func(t *testing.T) {
		_, err := services.Task.Create(ctx, creator, service.CreateTaskInput{Description: "x"})
		assert.ErrorIs(t, err, domain.ErrValidation)

		_, err = services.Task.Create(ctx, creator, service.CreateTaskInput{Title: "x", Description: "x", Priority: "urgent"})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestTaskService_Get(t *testing.T) {
	services, store, _ := testutil.NewTestServices(t)
	ctx := context.Background()
	repos := store.Repositories()

	creator, _ := testutil.NewUserBuilder().Build(t, repos)
	assignee, _ := testutil.NewUserBuilder().Build(t, repos)
	outsider, _ := testutil.NewUserBuilder().Build(t, repos)
	admin, _ := testutil.NewUserBuilder().AsAdmin().Build(t, repos)

	task := testutil.NewTaskBuilder().WithCreator(creator).WithAssignee(assignee).Build(t, repos)

	tests := []struct {
		name      string
		requester *domain.User
		id        uuid.UUID
		wantErr   error
	}{
		{name: "creator", requester: creator, id: task.ID},
		{name: "assignee", requester: assignee, id: task.ID},
		{name: "admin", requester: admin, id: task.ID},
		{name: "outsider", requester: outsider, id: task.ID, wantErr: domain.ErrAuthorization},
		{name: "missing", requester: admin, id: uuid.New(), wantErr: domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := services.Task.Get(ctx, tt.requester, tt.id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, task.ID, got.ID)
		})
	}
}

func TestTaskService_Update(t *testing.T) {
	services, store, _ := testutil.NewTestServices(t)
	ctx := context.Background()
	repos := store.Repositories()

	creator, _ := testutil.NewUserBuilder().Build(t, repos)
	assignee, _ := testutil.NewUserBuilder().Build(t, repos)
	outsider, _ := testutil.NewUserBuilder().Build(t, repos)
	admin, _ := testutil.NewUserBuilder().AsAdmin().Build(t, repos)

	t.Run("assignee changes status only", func(t *testing.T) {
		task := testutil.NewTaskBuilder().WithCreator(creator).WithAssignee(assignee).WithTitle("Original").Build(t, repos)

		got, err := services.Task.Update(ctx, assignee, task.ID, domain.TaskPatch{
			Title:  ptr("Hijacked"),
			Status: ptr(domain.TaskStatusDone),
		})
		require.NoError(t, err)
		assert.Equal(t, "Original", got.Title)
		assert.Equal(t, domain.TaskStatusDone, got.Status)
		assert.Equal(t, creator.ID, got.CreatorID)
	})

	t.Run("creator changes everything", func(t *testing.T) {
		task := testutil.NewTaskBuilder().WithCreator(creator).Build(t, repos)

		got, err := services.Task.Update(ctx, creator, task.ID, domain.TaskPatch{
			Title:      ptr("Renamed"),
			Priority:   ptr(domain.TaskPriorityHigh),
			AssigneeID: &assignee.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Title)
		assert.Equal(t, domain.TaskPriorityHigh, got.Priority)
		require.NotNil(t, got.AssigneeID)
		assert.Equal(t, assignee.ID, *got.AssigneeID)
	})

	t.Run("admin clears assignee", func(t *testing.T) {
		task := testutil.NewTaskBuilder().WithCreator(creator).WithAssignee(assignee).Build(t, repos)

		got, err := services.Task.Update(ctx, admin, task.ID, domain.TaskPatch{ClearAssignee: true})
		require.NoError(t, err)
		assert.Nil(t, got.AssigneeID)
		assert.Nil(t, got.Assignee)
	})

	t.Run("outsider is rejected before mutation", func(t *testing.T) {
		task := testutil.NewTaskBuilder().WithCreator(creator).WithTitle("Keep").Build(t, repos)

		_, err := services.Task.Update(ctx, outsider, task.ID, domain.TaskPatch{Title: ptr("Nope")})
		assert.ErrorIs(t, err, domain.ErrAuthorization)
		assert.Equal(t, "You do not have permission to update this task", domain.ClientMessage(err))

		stored, err := services.Task.Get(ctx, creator, task.ID)
		require.NoError(t, err)
		assert.Equal(t, "Keep", stored.Title)
	})

	t.Run("invalid status", func(t *testing.T) {
		task := testutil.NewTaskBuilder().WithCreator(creator).Build(t, repos)

		_, err := services.Task.Update(ctx, creator, task.ID, domain.TaskPatch{Status: ptr(domain.TaskStatus("blocked"))})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("unknown assignee", func(t *testing.T) {
		task := testutil.NewTaskBuilder().WithCreator(creator).Build(t, repos)

		_, err := services.Task.Update(ctx, creator, task.ID, domain.TaskPatch{AssigneeID: ptr(uuid.New())})
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Equal(t, domain.MsgAssigneeNotFound, domain.ClientMessage(err))
	})

	t.Run("missing task", func(t *testing.T) {
		_, err := services.Task.Update(ctx, admin, uuid.New(), domain.TaskPatch{Title: ptr("x")})
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Equal(t, domain.MsgTaskNotFound, domain.ClientMessage(err))
	})
}

func TestTaskService_ListAndStats(t *testing.T) {
	services, store, _ := testutil.NewTestServices(t)
	ctx := context.Background()
	repos := store.Repositories()

	alice, _ := testutil.NewUserBuilder().Build(t, repos)
	bob, _ := testutil.NewUserBuilder().Build(t, repos)
	admin, _ := testutil.NewUserBuilder().AsAdmin().Build(t, repos)

	testutil.NewTaskBuilder().WithCreator(alice).WithTitle("Fix bug").WithStatus(domain.TaskStatusDone).Build(t, repos)
	testutil.NewTaskBuilder().WithCreator(bob).WithAssignee(alice).WithPriority(domain.TaskPriorityHigh).Build(t, repos)
	testutil.NewTaskBuilder().WithCreator(bob).WithTitle("Fix build").Build(t, repos)

	t.Run("non-admin sees own and assigned", func(t *testing.T) {
		tasks, err := services.Task.List(ctx, alice, domain.TaskQuery{})
		require.NoError(t, err)
		require.Len(t, tasks, 2)
		for _, task := range tasks {
			isCreator := task.CreatorID == alice.ID
			isAssignee := task.AssigneeID != nil && *task.AssigneeID == alice.ID
			assert.True(t, isCreator || isAssignee)
		}
	})

	t.Run("search stays inside scope", func(t *testing.T) {
		tasks, err := services.Task.List(ctx, alice, domain.TaskQuery{Search: "fix"})
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, "Fix bug", tasks[0].Title)
	})

	t.Run("admin sees everything", func(t *testing.T) {
		tasks, err := services.Task.List(ctx, admin, domain.TaskQuery{})
		require.NoError(t, err)
		assert.Len(t, tasks, 3)
	})

	t.Run("invalid filter", func(t *testing.T) {
		_, err := services.Task.List(ctx, admin, domain.TaskQuery{Status: "archived"})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("stats", func(t *testing.T) {
		stats, err := services.Task.Stats(ctx, alice)
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStats{
			TotalTasks: 2, Completed: 1, Pending: 1,
			LowPriority: 1, HighPriority: 1,
		}, *stats)

		stats, err = services.Task.Stats(ctx, admin)
		require.NoError(t, err)
		assert.Equal(t, int64(3), stats.TotalTasks)
		assert.Equal(t, stats.TotalTasks, stats.Completed+stats.Pending)
		assert.Equal(t, stats.TotalTasks, stats.LowPriority+stats.MediumPriority+stats.HighPriority)
	})
}
