package policy

import (
	"testing"

	"gradehub/internal/auth"
	"gradehub/internal/errs"
	"gradehub/internal/models"
)

func TestCan(t *testing.T) {
	admin := &auth.Claims{UserID: "a1", Role: models.RoleAdmin}
	alice := &auth.Claims{UserID: "s1", Role: models.RoleStudent}

	cases := []struct {
		name   string
		caller *auth.Claims
		action Action
		owner  string
		allow  bool
		want   errs.Kind
	}{
		{name: "nil caller", action: ViewSubmission, owner: "s1", want: errs.Unauthorized},

		{name: "admin manages tasks", caller: admin, action: ManageTasks, allow: true},
		{name: "student manages tasks", caller: alice, action: ManageTasks, want: errs.Forbidden},

		{name: "student submits for self", caller: alice, action: Submit, owner: "s1", allow: true},
		{name: "student submits for other", caller: alice, action: Submit, owner: "s2", want: errs.Forbidden},
		{name: "admin cannot submit", caller: admin, action: Submit, owner: "a1", want: errs.Forbidden},

		{name: "admin lists task submissions", caller: admin, action: ListTaskSubmissions, allow: true},
		{name: "student lists task submissions", caller: alice, action: ListTaskSubmissions, want: errs.Forbidden},

		{name: "student views own", caller: alice, action: ViewSubmission, owner: "s1", allow: true},
		{name: "student views other", caller: alice, action: ViewSubmission, owner: "s2", want: errs.Forbidden},
		{name: "admin views any", caller: admin, action: ViewSubmission, owner: "s2", allow: true},

		{name: "student lists own", caller: alice, action: ListStudentSubmissions, owner: "s1", allow: true},
		{name: "student lists other", caller: alice, action: ListStudentSubmissions, owner: "s2", want: errs.Forbidden},
		{name: "admin lists any student", caller: admin, action: ListStudentSubmissions, owner: "s2", allow: true},

		{name: "admin grades", caller: admin, action: GradeSubmission, allow: true},
		{name: "student grades", caller: alice, action: GradeSubmission, want: errs.Forbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Can(tc.caller, tc.action, tc.owner)
			if tc.allow {
				if err != nil {
					t.Fatalf("expected allow, got %v", err)
				}
				return
			}
			if err == nil || errs.KindOf(err) != tc.want {
				t.Fatalf("expected kind %v, got %v", tc.want, err)
			}
		})
	}
}
