package router

import (
	"github.com/go-chi/chi/v5"

	"gradehub/internal/auth"
	"gradehub/internal/handler"
	mw "gradehub/internal/middleware"
)

func New(
	issuer *auth.Issuer,
	authH *handler.AuthHandler,
	taskH *handler.TaskHandler,
	subH *handler.SubmissionHandler,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS)

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/auth/register", authH.Register)
		r.Post("/auth/login", authH.Login)
		r.Post("/auth/refresh", authH.Refresh)

		// Protected routes; role and ownership rules live in the policy
		// layer, not here.
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(issuer))

			r.Get("/auth/me", authH.Me)

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", taskH.List)
				r.Post("/", taskH.Create)
				r.Get("/{id}", taskH.Get)
				r.Put("/{id}", taskH.Update)
				r.Delete("/{id}", taskH.Delete)
			})

			r.Route("/submissions", func(r chi.Router) {
				r.Post("/task/{taskId}", subH.Submit)
				r.Get("/task/{taskId}", subH.ListByTask)
				r.Get("/student", subH.ListByStudent)
				r.Get("/student/{studentId}", subH.ListByStudent)
				r.Get("/{submissionId}", subH.Get)
				r.Get("/{submissionId}/download", subH.Download)
				r.Post("/{submissionId}/grade", subH.Grade)
			})
		})
	})

	return r
}
