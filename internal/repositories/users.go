package repositories

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fq962/atom-challenge-api/internal/apperrors"
	"github.com/fq962/atom-challenge-api/internal/factory"
	"github.com/fq962/atom-challenge-api/internal/models"
	"github.com/fq962/atom-challenge-api/internal/storage"
)

type UserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(store *storage.Store) *UserRepository {
	return &UserRepository{collection: store.Users()}
}

// FindByMail looks a user up by normalized mail, matching both
// historical field names.
func (r *UserRepository) FindByMail(ctx context.Context, mail string) (models.User, error) {
	filter := bson.M{"$or": []bson.M{
		{"mail": mail},
		{"email": mail},
	}}

	var doc bson.M
	err := r.collection.FindOne(ctx, filter, options.FindOne()).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, apperrors.NewNotFoundError("user")
		}
		return models.User{}, fmt.Errorf("failed to get user: %w", err)
	}

	return factory.UserFromDocument(documentID(doc["_id"]), doc), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	var doc bson.M
	err := r.collection.FindOne(ctx, idFilter(id)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, apperrors.NewNotFoundError("user")
		}
		return models.User{}, fmt.Errorf("failed to get user: %w", err)
	}

	return factory.UserFromDocument(documentID(doc["_id"]), doc), nil
}

func (r *UserRepository) Insert(ctx context.Context, user models.User) (models.User, error) {
	result, err := r.collection.InsertOne(ctx, bson.M{
		"mail":       user.Mail,
		"created_at": user.CreatedAt,
	})
	if err != nil {
		return models.User{}, fmt.Errorf("failed to insert user: %w", err)
	}

	user.ID = documentID(result.InsertedID)
	return user, nil
}
