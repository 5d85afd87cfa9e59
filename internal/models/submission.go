package models

import "time"

type Submission struct {
	ID          string     `bson:"-" json:"id,omitempty"`
	TaskID      string     `bson:"-" json:"taskId"`
	StudentID   string     `bson:"-" json:"studentId"`
	FilePath    string     `bson:"filePath" json:"-"`
	Grade       *float64   `bson:"grade" json:"grade"`
	Feedback    *string    `bson:"feedback" json:"feedback"`
	SubmittedAt time.Time  `bson:"submittedAt" json:"submittedAt"`
	GradedAt    *time.Time `bson:"gradedAt" json:"gradedAt"`
}

// StudentRef is the student identity resolved into a submission view.
type StudentRef struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// TaskRef is the task summary resolved into a submission view. Description
// is only populated on single-submission lookups.
type TaskRef struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Deadline    time.Time `json:"deadline"`
}

// SubmissionView is a submission with its references resolved for a response.
// The file path never leaves the server.
type SubmissionView struct {
	ID          string      `json:"id"`
	Task        *TaskRef    `json:"task,omitempty"`
	TaskID      string      `json:"taskId,omitempty"`
	Student     *StudentRef `json:"student,omitempty"`
	StudentID   string      `json:"studentId,omitempty"`
	Grade       *float64    `json:"grade"`
	Feedback    *string     `json:"feedback"`
	SubmittedAt time.Time   `json:"submittedAt"`
	GradedAt    *time.Time  `json:"gradedAt"`
}
