package handler

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"gradehub/internal/auth"
	"gradehub/internal/service"
	"gradehub/internal/storage"
)

type SubmissionHandler struct {
	svc         *service.SubmissionService
	files       *storage.Disk
	maxFileSize int64
}

func NewSubmissionHandler(svc *service.SubmissionService, files *storage.Disk, maxFileSize int64) *SubmissionHandler {
	return &SubmissionHandler{svc: svc, files: files, maxFileSize: maxFileSize}
}

// Submit accepts a multipart PDF upload for a task. The artifact is written
// to the file store first; the engine deletes it again on any rejection.
func (h *SubmissionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskId")
	if !validID(taskID) {
		writeError(w, http.StatusBadRequest, "invalid task id format")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize+1<<20)
	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		writeError(w, http.StatusBadRequest, "file is too large or request is not multipart")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "PDF file is required")
		return
	}
	defer file.Close()

	if !isPDF(header.Filename, header.Header.Get("Content-Type")) {
		writeError(w, http.StatusBadRequest, "only PDF files are allowed")
		return
	}
	if header.Size > h.maxFileSize {
		writeError(w, http.StatusBadRequest, "file is too large")
		return
	}

	path, err := h.files.Save("file", header.Filename, file)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	sub, err := h.svc.Submit(r.Context(), auth.GetUser(r.Context()), taskID, path)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "task submitted successfully",
		"submission": map[string]any{
			"id":          sub.ID,
			"taskId":      sub.TaskID,
			"submittedAt": sub.SubmittedAt,
		},
	})
}

func (h *SubmissionHandler) ListByTask(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskId")
	if !validID(taskID) {
		writeError(w, http.StatusBadRequest, "invalid task id format")
		return
	}
	subs, err := h.svc.ListByTask(r.Context(), auth.GetUser(r.Context()), taskID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":       len(subs),
		"submissions": subs,
	})
}

func (h *SubmissionHandler) ListByStudent(w http.ResponseWriter, r *http.Request) {
	studentID := chi.URLParam(r, "studentId")
	if studentID != "" && !validID(studentID) {
		writeError(w, http.StatusBadRequest, "invalid student id format")
		return
	}
	subs, err := h.svc.ListByStudent(r.Context(), auth.GetUser(r.Context()), studentID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":       len(subs),
		"submissions": subs,
	})
}

func (h *SubmissionHandler) Get(w http.ResponseWriter, r *http.Request) {
	subID := chi.URLParam(r, "submissionId")
	if !validID(subID) {
		writeError(w, http.StatusBadRequest, "invalid submission id format")
		return
	}
	sub, err := h.svc.Get(r.Context(), auth.GetUser(r.Context()), subID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"submission": sub})
}

func (h *SubmissionHandler) Download(w http.ResponseWriter, r *http.Request) {
	subID := chi.URLParam(r, "submissionId")
	if !validID(subID) {
		writeError(w, http.StatusBadRequest, "invalid submission id format")
		return
	}
	f, name, err := h.svc.Download(r.Context(), auth.GetUser(r.Context()), subID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	w.Header().Set("Content-Type", "application/pdf")
	http.ServeContent(w, r, name, time.Time{}, f)
}

func (h *SubmissionHandler) Grade(w http.ResponseWriter, r *http.Request) {
	subID := chi.URLParam(r, "submissionId")
	if !validID(subID) {
		writeError(w, http.StatusBadRequest, "invalid submission id format")
		return
	}
	var req struct {
		Grade    *float64 `json:"grade"`
		Feedback *string  `json:"feedback"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Grade == nil || *req.Grade < 0 || *req.Grade > 100 {
		writeError(w, http.StatusBadRequest, "grade must be a number between 0 and 100")
		return
	}
	// Empty feedback is stored as absent, not as "".
	if req.Feedback != nil && *req.Feedback == "" {
		req.Feedback = nil
	}

	sub, err := h.svc.Grade(r.Context(), auth.GetUser(r.Context()), subID, *req.Grade, req.Feedback)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":       sub.ID,
		"grade":    sub.Grade,
		"feedback": sub.Feedback,
		"gradedAt": sub.GradedAt,
	})
}

func isPDF(filename, contentType string) bool {
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return false
	}
	return contentType == "" || contentType == "application/pdf"
}
