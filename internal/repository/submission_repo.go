package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gradehub/internal/errs"
	"gradehub/internal/models"
)

const SubmissionsCollection = "submissions"

type submissionDoc struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	Task              primitive.ObjectID `bson:"task"`
	Student           primitive.ObjectID `bson:"student"`
	models.Submission `bson:",inline"`
}

type SubmissionRepo struct {
	coll *mongo.Collection
}

func NewSubmissionRepo(db *mongo.Database) *SubmissionRepo {
	return &SubmissionRepo{coll: db.Collection(SubmissionsCollection)}
}

// EnsureIndexes creates the listing indexes and the unique (task, student)
// index that makes one-submission-per-task a store-level guarantee.
func (r *SubmissionRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "task", Value: 1}, {Key: "student", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "task", Value: 1}, {Key: "submittedAt", Value: -1}}},
		{Keys: bson.D{{Key: "student", Value: 1}, {Key: "submittedAt", Value: -1}}},
	})
	return err
}

func (r *SubmissionRepo) Create(ctx context.Context, s *models.Submission) (string, error) {
	taskID, ok := oid(s.TaskID)
	if !ok {
		return "", errs.New(errs.NotFound, "task not found")
	}
	studentID, ok := oid(s.StudentID)
	if !ok {
		return "", errs.New(errs.NotFound, "student not found")
	}
	res, err := r.coll.InsertOne(ctx, submissionDoc{Task: taskID, Student: studentID, Submission: *s})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", errs.Wrap(errs.Conflict, "submission already exists for this task", err)
		}
		return "", fmt.Errorf("insert submission: %w", err)
	}
	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (r *SubmissionRepo) FindByID(ctx context.Context, id string) (*models.Submission, error) {
	objID, ok := oid(id)
	if !ok {
		return nil, nil
	}
	var doc submissionDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find submission: %w", err)
	}
	return docToSubmission(&doc), nil
}

func (r *SubmissionRepo) FindByTaskStudent(ctx context.Context, taskID, studentID string) (*models.Submission, error) {
	tID, ok1 := oid(taskID)
	sID, ok2 := oid(studentID)
	if !ok1 || !ok2 {
		return nil, nil
	}
	var doc submissionDoc
	err := r.coll.FindOne(ctx, bson.M{"task": tID, "student": sID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find submission: %w", err)
	}
	return docToSubmission(&doc), nil
}

func (r *SubmissionRepo) FindByTask(ctx context.Context, taskID string) ([]models.Submission, error) {
	objID, ok := oid(taskID)
	if !ok {
		return nil, nil
	}
	return r.findMany(ctx, bson.M{"task": objID})
}

func (r *SubmissionRepo) FindByStudent(ctx context.Context, studentID string) ([]models.Submission, error) {
	objID, ok := oid(studentID)
	if !ok {
		return nil, nil
	}
	return r.findMany(ctx, bson.M{"student": objID})
}

func (r *SubmissionRepo) CountByTask(ctx context.Context, taskID string) (int64, error) {
	objID, ok := oid(taskID)
	if !ok {
		return 0, nil
	}
	count, err := r.coll.CountDocuments(ctx, bson.M{"task": objID})
	if err != nil {
		return 0, fmt.Errorf("count submissions: %w", err)
	}
	return count, nil
}

func (r *SubmissionRepo) UpdateGrade(ctx context.Context, id string, grade float64, feedback *string, gradedAt time.Time) error {
	objID, ok := oid(id)
	if !ok {
		return errs.New(errs.NotFound, "submission not found")
	}
	_, err := r.coll.UpdateByID(ctx, objID, bson.M{"$set": bson.M{
		"grade":    grade,
		"feedback": feedback,
		"gradedAt": gradedAt,
	}})
	if err != nil {
		return fmt.Errorf("update grade: %w", err)
	}
	return nil
}

func (r *SubmissionRepo) findMany(ctx context.Context, filter bson.M) ([]models.Submission, error) {
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "submittedAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find submissions: %w", err)
	}
	defer cur.Close(ctx)

	var subs []models.Submission
	for cur.Next(ctx) {
		var doc submissionDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode submission: %w", err)
		}
		subs = append(subs, *docToSubmission(&doc))
	}
	return subs, cur.Err()
}

func docToSubmission(doc *submissionDoc) *models.Submission {
	sub := doc.Submission
	sub.ID = doc.ID.Hex()
	sub.TaskID = doc.Task.Hex()
	sub.StudentID = doc.Student.Hex()
	return &sub
}
