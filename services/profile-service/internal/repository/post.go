package repository

import (
	"context"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// PostRepository covers the posts owned by an account. Posts are authored by
// another part of the system; this service only removes them on account deletion.
type PostRepository interface {
	DeletePostsByUser(ctx context.Context, userID bson.ObjectID) (int64, error)
}

const postCollection = "posts"

type postMongoRepository struct {
	db *mongo.Database
}

func NewPostMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) PostRepository {
	collection := db.Collection(postCollection)

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "user", Value: 1}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create post indexes")
	}

	return &postMongoRepository{db: db}
}

func (r *postMongoRepository) DeletePostsByUser(ctx context.Context, userID bson.ObjectID) (int64, error) {
	result, err := r.db.Collection(postCollection).DeleteMany(ctx, bson.M{"user": userID})
	if err != nil {
		return 0, err
	}

	return result.DeletedCount, nil
}
