package models

import "time"

type Task struct {
	ID          string    `bson:"-" json:"id,omitempty"`
	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description" json:"description"`
	Deadline    time.Time `bson:"deadline" json:"deadline"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}
