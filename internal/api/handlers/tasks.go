package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/dom/task-tracker/internal/api/middleware"
	"github.com/dom/task-tracker/internal/api/response"
	"github.com/dom/task-tracker/internal/domain"
	"github.com/dom/task-tracker/internal/service"
)

type TaskHandler struct {
	taskService *service.TaskService
}

func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
	Assignee    *string `json:"assignee"`
}

// UpdateTaskRequest keeps the fields raw until the patch is built, so a
// badly typed field only fails the update if the requester may change it.
// Anything else in the body, including the creator, is ignored.
type UpdateTaskRequest map[string]json.RawMessage

// parseAssignee maps an unparsable id to uuid.Nil, which never belongs to a
// user, so it is reported like any other unknown assignee.
func parseAssignee(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// stringField decodes one optional string. A missing field or null yields nil.
func (req UpdateTaskRequest) stringField(name string) (*string, bool) {
	raw, ok := req[name]
	if !ok || string(raw) == "null" {
		return nil, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, false
	}
	return &s, true
}

func (req UpdateTaskRequest) patch() domain.TaskPatch {
	var p domain.TaskPatch

	str := func(name string) *string {
		v, ok := req.stringField(name)
		if !ok {
			p.Malformed = append(p.Malformed, name)
		}
		return v
	}

	p.Title = str("title")
	p.Description = str("description")
	if v := str(domain.PatchFieldStatus); v != nil {
		status := domain.TaskStatus(*v)
		p.Status = &status
	}
	if v := str("priority"); v != nil {
		priority := domain.TaskPriority(*v)
		p.Priority = &priority
	}

	// An explicit null or empty string unassigns.
	if _, ok := req["assignee"]; ok {
		v, valid := req.stringField("assignee")
		switch {
		case !valid:
			p.Malformed = append(p.Malformed, "assignee")
		case v == nil || *v == "":
			p.ClearAssignee = true
		default:
			id := parseAssignee(*v)
			p.AssigneeID = &id
		}
	}
	return p
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.Error(w, r, domain.NewAuthenticationError(domain.MsgNotLoggedIn))
		return
	}

	var req CreateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	input := service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
	}
	if req.Assignee != nil && *req.Assignee != "" {
		id := parseAssignee(*req.Assignee)
		input.AssigneeID = &id
	}

	task, err := h.taskService.Create(r.Context(), user, input)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.Success(w, http.StatusCreated, map[string]interface{}{"task": newTaskResponse(task)})
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.Error(w, r, domain.NewAuthenticationError(domain.MsgNotLoggedIn))
		return
	}

	q := r.URL.Query()
	tasks, err := h.taskService.List(r.Context(), user, domain.TaskQuery{
		Status:   q.Get("status"),
		Priority: q.Get("priority"),
		Search:   q.Get("search"),
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}

	resp := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		resp = append(resp, newTaskResponse(t))
	}

	response.List(w, len(resp), map[string]interface{}{"tasks": resp})
}

func (h *TaskHandler) Stats(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.Error(w, r, domain.NewAuthenticationError(domain.MsgNotLoggedIn))
		return
	}

	stats, err := h.taskService.Stats(r.Context(), user)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.Success(w, http.StatusOK, stats)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.Error(w, r, domain.NewAuthenticationError(domain.MsgNotLoggedIn))
		return
	}

	id, err := pathID(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	task, err := h.taskService.Get(r.Context(), user, id)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.Success(w, http.StatusOK, map[string]interface{}{"task": newTaskResponse(task)})
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.Error(w, r, domain.NewAuthenticationError(domain.MsgNotLoggedIn))
		return
	}

	id, err := pathID(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	var req UpdateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	task, err := h.taskService.Update(r.Context(), user, id, req.patch())
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.Success(w, http.StatusOK, map[string]interface{}{"task": newTaskResponse(task)})
}
