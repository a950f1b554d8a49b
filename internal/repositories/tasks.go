// Package repositories performs the storage queries and writes. Reads
// decode raw documents and run them through the factory package so the
// drifted collection schema is reconciled in exactly one place.
package repositories

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fq962/atom-challenge-api/internal/apperrors"
	"github.com/fq962/atom-challenge-api/internal/factory"
	"github.com/fq962/atom-challenge-api/internal/models"
	"github.com/fq962/atom-challenge-api/internal/storage"
)

type TaskRepository struct {
	collection *mongo.Collection
}

func NewTaskRepository(store *storage.Store) *TaskRepository {
	return &TaskRepository{collection: store.Tasks()}
}

// ownerFilter matches every historical spelling of the owner field.
func ownerFilter(ownerID string) bson.M {
	return bson.M{"$or": []bson.M{
		{"id_user": ownerID},
		{"userId": ownerID},
		{"user_id": ownerID},
	}}
}

// ListByOwner returns the owner's tasks ordered by creation time,
// newest first. The store-side sort is an optimization; the in-memory
// sort below is the correctness guarantee and also covers documents
// fetched through the unordered fallback.
func (r *TaskRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Task, error) {
	filter := ownerFilter(ownerID)

	cursor, err := r.collection.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		// Some deployments lack the created_at index; fetch unordered.
		cursor, err = r.collection.Find(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to list tasks: %w", err)
		}
	}
	defer cursor.Close(ctx)

	tasks := make([]models.Task, 0)
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode task document: %w", err)
		}
		tasks = append(tasks, factory.TaskFromDocument(documentID(doc["_id"]), doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})

	return tasks, nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (models.Task, error) {
	var doc bson.M
	err := r.collection.FindOne(ctx, idFilter(id)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Task{}, apperrors.NewNotFoundError("task")
		}
		return models.Task{}, fmt.Errorf("failed to get task: %w", err)
	}

	return factory.TaskFromDocument(documentID(doc["_id"]), doc), nil
}

// Insert writes a task using only canonical field names; the storage
// assigns the id.
func (r *TaskRepository) Insert(ctx context.Context, task models.Task) (models.Task, error) {
	result, err := r.collection.InsertOne(ctx, bson.M{
		"title":       task.Title,
		"description": task.Description,
		"is_done":     task.IsDone,
		"priority":    task.Priority,
		"created_at":  task.CreatedAt,
		"id_user":     task.OwnerID,
	})
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to insert task: %w", err)
	}

	task.ID = documentID(result.InsertedID)
	return task, nil
}

// Update sets the mutable fields and returns the task as re-read from
// storage. Read-then-write with no isolation against concurrent
// writers; last write wins.
func (r *TaskRepository) Update(ctx context.Context, id string, task models.Task) (models.Task, error) {
	update := bson.M{"$set": bson.M{
		"title":       task.Title,
		"description": task.Description,
		"is_done":     task.IsDone,
		"priority":    task.Priority,
	}}

	result, err := r.collection.UpdateOne(ctx, idFilter(id), update)
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to update task: %w", err)
	}
	if result.MatchedCount == 0 {
		return models.Task{}, apperrors.NewNotFoundError("task")
	}

	return r.GetByID(ctx, id)
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, idFilter(id))
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.DeletedCount == 0 {
		return apperrors.NewNotFoundError("task")
	}
	return nil
}

// idFilter accepts both storage-assigned ObjectIDs and legacy raw
// string ids.
func idFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": oid}
	}
	return bson.M{"_id": id}
}

func documentID(raw any) string {
	switch value := raw.(type) {
	case primitive.ObjectID:
		return value.Hex()
	case string:
		return value
	default:
		return ""
	}
}
