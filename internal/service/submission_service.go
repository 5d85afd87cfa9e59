package service

import (
	"context"
	"io"
	"log"
	"path/filepath"
	"time"

	"gradehub/internal/auth"
	"gradehub/internal/errs"
	"gradehub/internal/models"
	"gradehub/internal/policy"
)

// SubmissionService owns the submission lifecycle: one submission per
// (task, student), accepted only before the deadline, graded by admins.
type SubmissionService struct {
	subs  SubmissionStore
	tasks TaskStore
	users UserStore
	files FileStore
}

func NewSubmissionService(subs SubmissionStore, tasks TaskStore, users UserStore, files FileStore) *SubmissionService {
	return &SubmissionService{subs: subs, tasks: tasks, users: users, files: files}
}

// Submit records a submission for the caller against taskID. The artifact
// at filePath has already been written by the upload pipeline; on every
// rejection path it is deleted so a failed submission never leaves an
// orphaned file behind. Cleanup failures are logged, never returned: they
// must not mask the rejection reason.
func (s *SubmissionService) Submit(ctx context.Context, caller *auth.Claims, taskID, filePath string) (*models.Submission, error) {
	reject := func(err error) (*models.Submission, error) {
		if rmErr := s.files.Remove(filePath); rmErr != nil {
			log.Printf("Warning: failed to clean up artifact %s: %v", filePath, rmErr)
		}
		return nil, err
	}

	if err := policy.Can(caller, policy.Submit, caller.UserID); err != nil {
		return reject(err)
	}

	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return reject(err)
	}
	if task == nil {
		return reject(errs.New(errs.NotFound, "task not found"))
	}
	if !time.Now().Before(task.Deadline) {
		return reject(errs.New(errs.Conflict, "task submission deadline has passed"))
	}

	existing, err := s.subs.FindByTaskStudent(ctx, taskID, caller.UserID)
	if err != nil {
		return reject(err)
	}
	if existing != nil {
		return reject(errs.New(errs.Conflict, "you have already submitted this task"))
	}

	sub := &models.Submission{
		TaskID:      taskID,
		StudentID:   caller.UserID,
		FilePath:    filePath,
		SubmittedAt: time.Now().UTC(),
	}
	id, err := s.subs.Create(ctx, sub)
	if err != nil {
		// The unique (task, student) index catches the race the existence
		// check above cannot.
		if errs.KindOf(err) == errs.Conflict {
			return reject(errs.New(errs.Conflict, "you have already submitted this task"))
		}
		return reject(err)
	}
	sub.ID = id
	return sub, nil
}

// ListByTask returns a task's submissions for grading, student identities
// resolved, file paths withheld.
func (s *SubmissionService) ListByTask(ctx context.Context, caller *auth.Claims, taskID string) ([]models.SubmissionView, error) {
	if err := policy.Can(caller, policy.ListTaskSubmissions, ""); err != nil {
		return nil, err
	}
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, errs.New(errs.NotFound, "task not found")
	}

	subs, err := s.subs.FindByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	views := make([]models.SubmissionView, 0, len(subs))
	students := map[string]*models.StudentRef{}
	for _, sub := range subs {
		ref, ok := students[sub.StudentID]
		if !ok {
			ref, err = s.studentRef(ctx, sub.StudentID)
			if err != nil {
				return nil, err
			}
			students[sub.StudentID] = ref
		}
		views = append(views, models.SubmissionView{
			ID:          sub.ID,
			TaskID:      sub.TaskID,
			Student:     ref,
			Grade:       sub.Grade,
			Feedback:    sub.Feedback,
			SubmittedAt: sub.SubmittedAt,
			GradedAt:    sub.GradedAt,
		})
	}
	return views, nil
}

// ListByStudent returns a student's submissions with task summaries. An
// empty studentID means the caller; a foreign studentID needs admin rights.
func (s *SubmissionService) ListByStudent(ctx context.Context, caller *auth.Claims, studentID string) ([]models.SubmissionView, error) {
	if studentID == "" {
		studentID = caller.UserID
	}
	if err := policy.Can(caller, policy.ListStudentSubmissions, studentID); err != nil {
		return nil, err
	}

	subs, err := s.subs.FindByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	views := make([]models.SubmissionView, 0, len(subs))
	tasks := map[string]*models.TaskRef{}
	for _, sub := range subs {
		ref, ok := tasks[sub.TaskID]
		if !ok {
			ref, err = s.taskRef(ctx, sub.TaskID, false)
			if err != nil {
				return nil, err
			}
			tasks[sub.TaskID] = ref
		}
		views = append(views, models.SubmissionView{
			ID:          sub.ID,
			Task:        ref,
			StudentID:   sub.StudentID,
			Grade:       sub.Grade,
			Feedback:    sub.Feedback,
			SubmittedAt: sub.SubmittedAt,
			GradedAt:    sub.GradedAt,
		})
	}
	return views, nil
}

// Get returns one submission with both references resolved. Students see
// only their own.
func (s *SubmissionService) Get(ctx context.Context, caller *auth.Claims, submissionID string) (*models.SubmissionView, error) {
	sub, err := s.find(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if err := policy.Can(caller, policy.ViewSubmission, sub.StudentID); err != nil {
		return nil, err
	}

	taskRef, err := s.taskRef(ctx, sub.TaskID, true)
	if err != nil {
		return nil, err
	}
	studentRef, err := s.studentRef(ctx, sub.StudentID)
	if err != nil {
		return nil, err
	}
	return &models.SubmissionView{
		ID:          sub.ID,
		Task:        taskRef,
		Student:     studentRef,
		Grade:       sub.Grade,
		Feedback:    sub.Feedback,
		SubmittedAt: sub.SubmittedAt,
		GradedAt:    sub.GradedAt,
	}, nil
}

// Download opens the submission's artifact. A record whose artifact has
// vanished from the file store is reported missing, not served empty.
func (s *SubmissionService) Download(ctx context.Context, caller *auth.Claims, submissionID string) (io.ReadSeekCloser, string, error) {
	sub, err := s.find(ctx, submissionID)
	if err != nil {
		return nil, "", err
	}
	if err := policy.Can(caller, policy.ViewSubmission, sub.StudentID); err != nil {
		return nil, "", err
	}

	f, err := s.files.Open(sub.FilePath)
	if err != nil {
		return nil, "", errs.Wrap(errs.NotFound, "submission file not found", err)
	}
	return f, filepath.Base(sub.FilePath), nil
}

// Grade sets grade, feedback and gradedAt. Re-grading is allowed and
// overwrites the previous values.
func (s *SubmissionService) Grade(ctx context.Context, caller *auth.Claims, submissionID string, grade float64, feedback *string) (*models.Submission, error) {
	if err := policy.Can(caller, policy.GradeSubmission, ""); err != nil {
		return nil, err
	}
	sub, err := s.find(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	gradedAt := time.Now().UTC()
	if err := s.subs.UpdateGrade(ctx, submissionID, grade, feedback, gradedAt); err != nil {
		return nil, err
	}
	sub.Grade = &grade
	sub.Feedback = feedback
	sub.GradedAt = &gradedAt
	return sub, nil
}

func (s *SubmissionService) find(ctx context.Context, id string) (*models.Submission, error) {
	sub, err := s.subs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, errs.New(errs.NotFound, "submission not found")
	}
	return sub, nil
}

func (s *SubmissionService) taskRef(ctx context.Context, taskID string, withDescription bool) (*models.TaskRef, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil || task == nil {
		return nil, err
	}
	ref := &models.TaskRef{Title: task.Title, Deadline: task.Deadline}
	if withDescription {
		ref.Description = task.Description
	}
	return ref, nil
}

func (s *SubmissionService) studentRef(ctx context.Context, studentID string) (*models.StudentRef, error) {
	user, err := s.users.FindByID(ctx, studentID)
	if err != nil || user == nil {
		return nil, err
	}
	return &models.StudentRef{Name: user.Name, Email: user.Email}, nil
}
