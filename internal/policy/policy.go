// Package policy is the single place role and ownership rules are decided.
// Handlers and services ask it instead of comparing role strings inline.
package policy

import (
	"gradehub/internal/auth"
	"gradehub/internal/errs"
	"gradehub/internal/models"
)

type Action int

const (
	// Task registry
	ManageTasks Action = iota // create/update/delete
	// Submission engine
	Submit              // students submit for themselves only
	ListTaskSubmissions // per-task listing
	ListStudentSubmissions
	ViewSubmission // includes download
	GradeSubmission
)

// Can reports whether caller may perform action on a resource owned by
// ownerID. Pass an empty ownerID for actions without a resource owner.
func Can(caller *auth.Claims, action Action, ownerID string) error {
	if caller == nil {
		return errs.New(errs.Unauthorized, "not authenticated")
	}

	switch action {
	case ManageTasks, ListTaskSubmissions, GradeSubmission:
		if caller.Role != models.RoleAdmin {
			return errs.New(errs.Forbidden, "access forbidden: admin rights required")
		}
		return nil

	case Submit:
		// There is no submit-on-behalf-of, not even for admins.
		if caller.Role != models.RoleStudent {
			return errs.New(errs.Forbidden, "access forbidden: student rights required")
		}
		if ownerID != caller.UserID {
			return errs.New(errs.Forbidden, "access forbidden: you can only submit for yourself")
		}
		return nil

	case ListStudentSubmissions, ViewSubmission:
		if caller.Role == models.RoleAdmin || ownerID == caller.UserID {
			return nil
		}
		return errs.New(errs.Forbidden, "access forbidden: you can only access your own submissions")
	}

	return errs.New(errs.Forbidden, "access forbidden")
}
