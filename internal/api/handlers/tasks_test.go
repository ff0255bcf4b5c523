package handlers_test

import (
	"net/http"
	"testing"

	"github.com/dom/task-tracker/internal/domain"
	"github.com/dom/task-tracker/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type taskData struct {
	Task struct {
		ID       string `json:"id"`
		Title    string `json:"title"`
		Status   string `json:"status"`
		Priority string `json:"priority"`
		Creator  struct {
			ID string `json:"id"`
		} `json:"creator"`
		Assignee *struct {
			ID string `json:"id"`
		} `json:"assignee"`
	} `json:"task"`
}

func TestTaskHandler_Lifecycle(t *testing.T) {
	ts := testutil.NewTestServer(t)
	creator, creatorToken := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	assignee, assigneeToken := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	_, outsiderToken := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	resp := ts.Do(t, http.MethodPost, "/tasks", creatorToken, map[string]interface{}{
		"title":       "Ship it",
		"description": "Release v1",
		"priority":    "high",
		"assignee":    assignee.ID.String(),
	})
	testutil.AssertStatusCode(t, resp, http.StatusCreated)
	created := testutil.DecodeEnvelope[taskData](t, resp)
	taskID := created.Data.Task.ID
	assert.Equal(t, "todo", created.Data.Task.Status)
	assert.Equal(t, creator.ID.String(), created.Data.Task.Creator.ID)
	require.NotNil(t, created.Data.Task.Assignee)

	t.Run("unknown assignee", func(t *testing.T) {
		before := ts.Store.TaskCount()
		resp := ts.Do(t, http.MethodPost, "/tasks", creatorToken, map[string]interface{}{
			"title": "T", "description": "D", "assignee": uuid.NewString(),
		})
		testutil.AssertErrorResponse(t, resp, http.StatusNotFound, domain.MsgAssigneeNotFound)
		assert.Equal(t, before, ts.Store.TaskCount())
	})

	t.Run("missing fields", func(t *testing.T) {
		resp := ts.Do(t, http.MethodPost, "/tasks", creatorToken, map[string]interface{}{"title": "T"})
		testutil.AssertStatusCode(t, resp, http.StatusBadRequest)
	})

	t.Run("outsider cannot view", func(t *testing.T) {
		resp := ts.Do(t, http.MethodGet, "/tasks/"+taskID, outsiderToken, nil)
		testutil.AssertErrorResponse(t, resp, http.StatusForbidden, "Not authorized to view this task")
	})

	t.Run("assignee views", func(t *testing.T) {
		resp := ts.Do(t, http.MethodGet, "/tasks/"+taskID, assigneeToken, nil)
		testutil.AssertStatusCode(t, resp, http.StatusOK)
	})

	t.Run("missing task", func(t *testing.T) {
		resp := ts.Do(t, http.MethodGet, "/tasks/"+uuid.NewString(), creatorToken, nil)
		testutil.AssertErrorResponse(t, resp, http.StatusNotFound, domain.MsgTaskNotFound)
	})

	t.Run("assignee updates status only", func(t *testing.T) {
		resp := ts.Do(t, http.MethodPatch, "/tasks/"+taskID, assigneeToken, map[string]interface{}{
			"title":  "Renamed",
			"status": "done",
		})
		testutil.AssertStatusCode(t, resp, http.StatusOK)
		env := testutil.DecodeEnvelope[taskData](t, resp)
		assert.Equal(t, "Ship it", env.Data.Task.Title)
		assert.Equal(t, "done", env.Data.Task.Status)
	})

	t.Run("assignee ignores badly typed fields outside scope", func(t *testing.T) {
		resp := ts.Do(t, http.MethodPatch, "/tasks/"+taskID, assigneeToken, map[string]interface{}{
			"status":   "inprogress",
			"title":    42,
			"assignee": 7,
		})
		testutil.AssertStatusCode(t, resp, http.StatusOK)
		env := testutil.DecodeEnvelope[taskData](t, resp)
		assert.Equal(t, "Ship it", env.Data.Task.Title)
		assert.Equal(t, "inprogress", env.Data.Task.Status)
		require.NotNil(t, env.Data.Task.Assignee)
		assert.Equal(t, assignee.ID.String(), env.Data.Task.Assignee.ID)
	})

	t.Run("assignee with badly typed status", func(t *testing.T) {
		resp := ts.Do(t, http.MethodPatch, "/tasks/"+taskID, assigneeToken, map[string]interface{}{"status": 3})
		testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, "Invalid value for status")
	})

	t.Run("creator with badly typed title", func(t *testing.T) {
		resp := ts.Do(t, http.MethodPatch, "/tasks/"+taskID, creatorToken, map[string]interface{}{"title": 42})
		testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, "Invalid value for title")
	})

	t.Run("outsider cannot update", func(t *testing.T) {
		resp := ts.Do(t, http.MethodPatch, "/tasks/"+taskID, outsiderToken, map[string]interface{}{"status": "todo"})
		testutil.AssertErrorResponse(t, resp, http.StatusForbidden, "You do not have permission to update this task")
	})

	t.Run("creator unassigns", func(t *testing.T) {
		resp := ts.Do(t, http.MethodPatch, "/tasks/"+taskID, creatorToken, map[string]interface{}{"assignee": nil})
		testutil.AssertStatusCode(t, resp, http.StatusOK)
		env := testutil.DecodeEnvelope[taskData](t, resp)
		assert.Nil(t, env.Data.Task.Assignee)
	})
}

func TestTaskHandler_ListAndStats(t *testing.T) {
	ts := testutil.NewTestServer(t)
	alice, aliceToken := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	bob, _ := testutil.NewUserBuilder().Build(t, ts.Repos)

	testutil.NewTaskBuilder().WithCreator(alice).WithTitle("Fix login").Build(t, ts.Repos)
	testutil.NewTaskBuilder().WithCreator(bob).WithAssignee(alice).WithStatus(domain.TaskStatusDone).Build(t, ts.Repos)
	testutil.NewTaskBuilder().WithCreator(bob).WithTitle("Fix deploy").Build(t, ts.Repos)

	type listData struct {
		Tasks []map[string]interface{} `json:"tasks"`
	}

	resp := ts.Do(t, http.MethodGet, "/tasks", aliceToken, nil)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	env := testutil.DecodeEnvelope[listData](t, resp)
	require.NotNil(t, env.Results)
	assert.Equal(t, 2, *env.Results)
	assert.Len(t, env.Data.Tasks, 2)

	resp = ts.Do(t, http.MethodGet, "/tasks?search=fix", aliceToken, nil)
	env = testutil.DecodeEnvelope[listData](t, resp)
	assert.Equal(t, 1, *env.Results)

	resp = ts.Do(t, http.MethodGet, "/tasks?status=archived", aliceToken, nil)
	testutil.AssertStatusCode(t, resp, http.StatusBadRequest)

	resp = ts.Do(t, http.MethodGet, "/tasks/stats", aliceToken, nil)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	stats := testutil.DecodeEnvelope[domain.TaskStats](t, resp)
	assert.Equal(t, domain.TaskStats{
		TotalTasks: 2, Completed: 1, Pending: 1, LowPriority: 2,
	}, stats.Data)
}
