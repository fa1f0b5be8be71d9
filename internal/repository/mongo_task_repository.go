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

	"github.com/taskhive/taskhive/internal/database"
	"github.com/taskhive/taskhive/internal/models"
)

// MongoTaskRepository implements TaskRepository on a MongoDB collection.
type MongoTaskRepository struct {
	collection *mongo.Collection
}

// NewMongoTaskRepository creates a task repository bound to the tasks
// collection.
func NewMongoTaskRepository(db *mongo.Database) *MongoTaskRepository {
	return &MongoTaskRepository{collection: db.Collection(database.TasksCollection)}
}

func (r *MongoTaskRepository) Create(ctx context.Context, task *models.Task) error {
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now
	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	if task.Subtasks == nil {
		task.Subtasks = []models.Subtask{}
	}
	if task.Comments == nil {
		task.Comments = []models.Comment{}
	}
	if task.Dependencies == nil {
		task.Dependencies = []primitive.ObjectID{}
	}

	if _, err := r.collection.InsertOne(ctx, task); err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (r *MongoTaskRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	var task models.Task
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&task)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find task %s: %w", id.Hex(), err)
	}
	return &task, nil
}

func (r *MongoTaskRepository) ListByProject(ctx context.Context, projectID primitive.ObjectID, includeArchived bool) ([]models.Task, error) {
	filter := bson.M{"projectId": projectID}
	if !includeArchived {
		filter["isArchived"] = false
	}
	return r.list(ctx, filter)
}

func (r *MongoTaskRepository) ListForUser(ctx context.Context, userID primitive.ObjectID, f TaskFilter) ([]models.Task, error) {
	filter := bson.M{
		"$or": bson.A{
			bson.M{"creatorId": userID},
			bson.M{"assigneeId": userID},
		},
	}
	if !f.IncludeArchived {
		filter["isArchived"] = false
	}
	if f.ProjectID != nil {
		filter["projectId"] = *f.ProjectID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Priority != "" {
		filter["priority"] = f.Priority
	}
	return r.list(ctx, filter)
}

func (r *MongoTaskRepository) list(ctx context.Context, filter bson.M) ([]models.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer cursor.Close(ctx)

	tasks := []models.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	return tasks, nil
}

func (r *MongoTaskRepository) Update(ctx context.Context, task *models.Task) error {
	task.UpdatedAt = time.Now()

	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": task.ID}, task)
	if err != nil {
		return fmt.Errorf("update task %s: %w", task.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoTaskRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoTaskRepository) DeleteByProject(ctx context.Context, projectID primitive.ObjectID) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{"projectId": projectID}); err != nil {
		return fmt.Errorf("delete tasks for project %s: %w", projectID.Hex(), err)
	}
	return nil
}
