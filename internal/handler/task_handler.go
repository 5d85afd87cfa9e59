package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"gradehub/internal/auth"
	"gradehub/internal/service"
)

type TaskHandler struct {
	svc *service.TaskService
}

func NewTaskHandler(svc *service.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

type taskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Deadline    string `json:"deadline"`
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	if len(req.Title) < 3 || len(req.Title) > 100 {
		writeError(w, http.StatusBadRequest, "title must be between 3 and 100 characters")
		return
	}
	if req.Description == "" {
		writeError(w, http.StatusBadRequest, "description is required")
		return
	}
	deadline, ok := parseFutureDeadline(w, req.Deadline)
	if !ok {
		return
	}

	task, err := h.svc.Create(r.Context(), auth.GetUser(r.Context()), req.Title, req.Description, deadline)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"task": task})
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.svc.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count": len(tasks),
		"tasks": tasks,
	})
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !validID(id) {
		writeError(w, http.StatusBadRequest, "invalid task id format")
		return
	}
	task, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"task": task})
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !validID(id) {
		writeError(w, http.StatusBadRequest, "invalid task id format")
		return
	}
	var req taskRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Partial update: absent fields keep their stored values.
	var deadline *time.Time
	if req.Deadline != "" {
		d, ok := parseFutureDeadline(w, req.Deadline)
		if !ok {
			return
		}
		deadline = &d
	}

	task, err := h.svc.Update(r.Context(), auth.GetUser(r.Context()), id,
		strings.TrimSpace(req.Title), strings.TrimSpace(req.Description), deadline)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"task": task})
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !validID(id) {
		writeError(w, http.StatusBadRequest, "invalid task id format")
		return
	}
	if err := h.svc.Delete(r.Context(), auth.GetUser(r.Context()), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

func parseFutureDeadline(w http.ResponseWriter, raw string) (time.Time, bool) {
	deadline, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "deadline must be a valid RFC 3339 date")
		return time.Time{}, false
	}
	if !deadline.After(time.Now()) {
		writeError(w, http.StatusBadRequest, "deadline must be in the future")
		return time.Time{}, false
	}
	return deadline, true
}
