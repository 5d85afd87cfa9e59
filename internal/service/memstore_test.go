package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"gradehub/internal/errs"
	"gradehub/internal/models"
)

// In-memory stores implementing the service contracts. memSubs enforces
// the (task, student) uniqueness atomically under its lock, the same
// guarantee the unique index gives the mongo repo.

var idSeq struct {
	mu sync.Mutex
	n  int
}

func nextID() string {
	idSeq.mu.Lock()
	defer idSeq.mu.Unlock()
	idSeq.n++
	return fmt.Sprintf("%024d", idSeq.n)
}

type memUsers struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newMemUsers() *memUsers { return &memUsers{users: map[string]*models.User{}} }

func (m *memUsers) Create(_ context.Context, u *models.User) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return "", errs.New(errs.Conflict, "duplicate email")
		}
	}
	cp := *u
	cp.ID = nextID()
	m.users[cp.ID] = &cp
	return cp.ID, nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
}

type memTasks struct {
	mu    sync.Mutex
	tasks map[string]*models.Task
}

func newMemTasks() *memTasks { return &memTasks{tasks: map[string]*models.Task{}} }

func (m *memTasks) Create(_ context.Context, t *models.Task) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	cp.ID = nextID()
	m.tasks[cp.ID] = &cp
	return cp.ID, nil
}

func (m *memTasks) FindByID(_ context.Context, id string) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (m *memTasks) FindAll(_ context.Context) ([]models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memTasks) Update(_ context.Context, id string, t *models.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	cp.ID = id
	m.tasks[id] = &cp
	return nil
}

func (m *memTasks) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tasks, id)
	return nil
}

type memSubs struct {
	mu   sync.Mutex
	subs map[string]*models.Submission
}

func newMemSubs() *memSubs { return &memSubs{subs: map[string]*models.Submission{}} }

func (m *memSubs) Create(_ context.Context, s *models.Submission) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.subs {
		if existing.TaskID == s.TaskID && existing.StudentID == s.StudentID {
			return "", errs.New(errs.Conflict, "duplicate submission")
		}
	}
	cp := *s
	cp.ID = nextID()
	m.subs[cp.ID] = &cp
	return cp.ID, nil
}

func (m *memSubs) FindByID(_ context.Context, id string) (*models.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.subs[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *memSubs) FindByTaskStudent(_ context.Context, taskID, studentID string) (*models.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.subs {
		if s.TaskID == taskID && s.StudentID == studentID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memSubs) FindByTask(_ context.Context, taskID string) ([]models.Submission, error) {
	return m.filter(func(s *models.Submission) bool { return s.TaskID == taskID }), nil
}

func (m *memSubs) FindByStudent(_ context.Context, studentID string) ([]models.Submission, error) {
	return m.filter(func(s *models.Submission) bool { return s.StudentID == studentID }), nil
}

func (m *memSubs) CountByTask(_ context.Context, taskID string) (int64, error) {
	return int64(len(m.filter(func(s *models.Submission) bool { return s.TaskID == taskID }))), nil
}

func (m *memSubs) UpdateGrade(_ context.Context, id string, grade float64, feedback *string, gradedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.subs[id]
	if !ok {
		return errs.New(errs.NotFound, "submission not found")
	}
	s.Grade = &grade
	s.Feedback = feedback
	s.GradedAt = &gradedAt
	return nil
}

func (m *memSubs) filter(keep func(*models.Submission) bool) []models.Submission {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Submission
	for _, s := range m.subs {
		if keep(s) {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out
}

// memFiles tracks artifact lifecycles so tests can assert the
// cleanup-on-rejection discipline.
type memFiles struct {
	mu      sync.Mutex
	content map[string][]byte
	removed map[string]int
}

func newMemFiles() *memFiles {
	return &memFiles{content: map[string][]byte{}, removed: map[string]int{}}
}

func (m *memFiles) put(path string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.content[path] = data
}

func (m *memFiles) exists(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.content[path]
	return ok
}

func (m *memFiles) Open(path string) (io.ReadSeekCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.content[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return nopReadSeekCloser{bytes.NewReader(data)}, nil
}

func (m *memFiles) Remove(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.content, path)
	m.removed[path]++
	return nil
}

type nopReadSeekCloser struct{ *bytes.Reader }

func (nopReadSeekCloser) Close() error { return nil }
