package service

import (
	"context"
	"io"
	"time"

	"gradehub/internal/models"
)

// Store contracts the services run on. The mongo repositories implement
// them; tests substitute in-memory fakes.

type UserStore interface {
	// Create persists a new user and returns its id. A duplicate email
	// surfaces as a Conflict error.
	Create(ctx context.Context, u *models.User) (string, error)
	// FindByEmail returns nil without error when no user matches.
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// FindByID returns nil without error when no user matches.
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type TaskStore interface {
	Create(ctx context.Context, t *models.Task) (string, error)
	// FindByID returns nil without error when no task matches.
	FindByID(ctx context.Context, id string) (*models.Task, error)
	// FindAll returns tasks newest-first.
	FindAll(ctx context.Context) ([]models.Task, error)
	Update(ctx context.Context, id string, t *models.Task) error
	Delete(ctx context.Context, id string) error
}

type SubmissionStore interface {
	// Create persists a new submission and returns its id. The store
	// guarantees at most one submission per (task, student): a concurrent
	// duplicate surfaces as a Conflict error.
	Create(ctx context.Context, s *models.Submission) (string, error)
	// FindByID returns nil without error when no submission matches.
	FindByID(ctx context.Context, id string) (*models.Submission, error)
	// FindByTaskStudent returns nil without error when the pair has no submission.
	FindByTaskStudent(ctx context.Context, taskID, studentID string) (*models.Submission, error)
	// FindByTask returns the task's submissions, most recent first.
	FindByTask(ctx context.Context, taskID string) ([]models.Submission, error)
	// FindByStudent returns the student's submissions, most recent first.
	FindByStudent(ctx context.Context, studentID string) ([]models.Submission, error)
	CountByTask(ctx context.Context, taskID string) (int64, error)
	UpdateGrade(ctx context.Context, id string, grade float64, feedback *string, gradedAt time.Time) error
}

// FileStore is the artifact collaborator. Remove is idempotent: deleting
// an already-absent artifact is not an error.
type FileStore interface {
	Open(path string) (io.ReadSeekCloser, error)
	Remove(path string) error
}
