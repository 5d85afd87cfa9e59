package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gradehub/internal/models"
)

const TasksCollection = "tasks"

type taskDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	models.Task `bson:",inline"`
}

type TaskRepo struct {
	coll *mongo.Collection
}

func NewTaskRepo(db *mongo.Database) *TaskRepo {
	return &TaskRepo{coll: db.Collection(TasksCollection)}
}

func (r *TaskRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}},
	})
	return err
}

func (r *TaskRepo) Create(ctx context.Context, t *models.Task) (string, error) {
	res, err := r.coll.InsertOne(ctx, taskDoc{Task: *t})
	if err != nil {
		return "", fmt.Errorf("insert task: %w", err)
	}
	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (r *TaskRepo) FindByID(ctx context.Context, id string) (*models.Task, error) {
	objID, ok := oid(id)
	if !ok {
		return nil, nil
	}
	var doc taskDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find task: %w", err)
	}
	task := doc.Task
	task.ID = doc.ID.Hex()
	return &task, nil
}

func (r *TaskRepo) FindAll(ctx context.Context) ([]models.Task, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	defer cur.Close(ctx)

	var tasks []models.Task
	for cur.Next(ctx) {
		var doc taskDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode task: %w", err)
		}
		task := doc.Task
		task.ID = doc.ID.Hex()
		tasks = append(tasks, task)
	}
	return tasks, cur.Err()
}

func (r *TaskRepo) Update(ctx context.Context, id string, t *models.Task) error {
	objID, ok := oid(id)
	if !ok {
		return nil
	}
	_, err := r.coll.UpdateByID(ctx, objID, bson.M{"$set": bson.M{
		"title":       t.Title,
		"description": t.Description,
		"deadline":    t.Deadline,
		"updatedAt":   t.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

func (r *TaskRepo) Delete(ctx context.Context, id string) error {
	objID, ok := oid(id)
	if !ok {
		return nil
	}
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": objID}); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}
