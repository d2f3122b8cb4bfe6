package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/vasapolrittideah/devconnector-api/services/profile-service/internal/model"
)

// ProfileRepository defines the interface for profile-related database operations.
// Every mutation is a single atomic document update keyed by the owning account.
type ProfileRepository interface {
	// UpsertProfile creates the profile of userID or replaces its core fields.
	UpsertProfile(ctx context.Context, userID bson.ObjectID, fields model.ProfileFields) (*model.Profile, error)

	GetProfileByUser(ctx context.Context, userID bson.ObjectID) (*model.Profile, error)
	ListProfiles(ctx context.Context) ([]*model.Profile, error)
	DeleteProfileByUser(ctx context.Context, userID bson.ObjectID) error

	// PushExperience and PushEducation prepend the entry.
	PushExperience(ctx context.Context, userID bson.ObjectID, entry model.Experience) (*model.Profile, error)
	PushEducation(ctx context.Context, userID bson.ObjectID, entry model.Education) (*model.Profile, error)

	// PullExperience and PullEducation remove the entry with the given id, if any.
	PullExperience(ctx context.Context, userID, entryID bson.ObjectID) (*model.Profile, error)
	PullEducation(ctx context.Context, userID, entryID bson.ObjectID) (*model.Profile, error)
}

const (
	profileCollection = "profiles"

	// maxUpsertAttempts bounds retries of an upsert that lost the insert race
	// on the unique user index.
	maxUpsertAttempts = 3
)

type profileMongoRepository struct {
	db *mongo.Database
}

func NewProfileMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) ProfileRepository {
	collection := db.Collection(profileCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create profile indexes")
	}

	return &profileMongoRepository{db: db}
}

func (r *profileMongoRepository) UpsertProfile(
	ctx context.Context,
	userID bson.ObjectID,
	fields model.ProfileFields,
) (*model.Profile, error) {
	set := bson.M{
		"department": fields.Department,
		"location":   fields.Location,
		"status":     fields.Status,
		"social":     fields.Social,
	}
	unset := bson.M{}

	if fields.Bio != "" {
		set["bio"] = fields.Bio
	} else {
		unset["bio"] = ""
	}
	if fields.GitHubUsername != "" {
		set["github_username"] = fields.GitHubUsername
	} else {
		unset["github_username"] = ""
	}

	update := bson.M{
		"$set": set,
		"$setOnInsert": bson.M{
			"experience": bson.A{},
			"education":  bson.A{},
			"created_at": time.Now().UTC(),
		},
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var err error
	for attempt := 0; attempt < maxUpsertAttempts; attempt++ {
		var profile model.Profile
		err = r.db.Collection(profileCollection).
			FindOneAndUpdate(ctx, bson.M{"user": userID}, update, opts).
			Decode(&profile)
		if err == nil {
			return &profile, nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return nil, err
		}
	}

	return nil, err
}

func (r *profileMongoRepository) GetProfileByUser(ctx context.Context, userID bson.ObjectID) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.Collection(profileCollection).FindOne(ctx, bson.M{"user": userID}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &profile, nil
}

func (r *profileMongoRepository) ListProfiles(ctx context.Context) ([]*model.Profile, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})

	cursor, err := r.db.Collection(profileCollection).Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	profiles := []*model.Profile{}
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, err
	}

	return profiles, nil
}

func (r *profileMongoRepository) DeleteProfileByUser(ctx context.Context, userID bson.ObjectID) error {
	result, err := r.db.Collection(profileCollection).DeleteOne(ctx, bson.M{"user": userID})
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *profileMongoRepository) PushExperience(
	ctx context.Context,
	userID bson.ObjectID,
	entry model.Experience,
) (*model.Profile, error) {
	return r.pushEntry(ctx, userID, "experience", entry)
}

func (r *profileMongoRepository) PushEducation(
	ctx context.Context,
	userID bson.ObjectID,
	entry model.Education,
) (*model.Profile, error) {
	return r.pushEntry(ctx, userID, "education", entry)
}

func (r *profileMongoRepository) PullExperience(
	ctx context.Context,
	userID, entryID bson.ObjectID,
) (*model.Profile, error) {
	return r.pullEntry(ctx, userID, "experience", entryID)
}

func (r *profileMongoRepository) PullEducation(
	ctx context.Context,
	userID, entryID bson.ObjectID,
) (*model.Profile, error) {
	return r.pullEntry(ctx, userID, "education", entryID)
}

func (r *profileMongoRepository) pushEntry(
	ctx context.Context,
	userID bson.ObjectID,
	field string,
	entry any,
) (*model.Profile, error) {
	update := bson.M{
		"$push": bson.M{
			field: bson.M{
				"$each":     bson.A{entry},
				"$position": 0,
			},
		},
	}

	return r.updateOne(ctx, userID, update)
}

func (r *profileMongoRepository) pullEntry(
	ctx context.Context,
	userID bson.ObjectID,
	field string,
	entryID bson.ObjectID,
) (*model.Profile, error) {
	update := bson.M{
		"$pull": bson.M{
			field: bson.M{"_id": entryID},
		},
	}

	return r.updateOne(ctx, userID, update)
}

func (r *profileMongoRepository) updateOne(ctx context.Context, userID bson.ObjectID, update bson.M) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.Collection(profileCollection).FindOneAndUpdate(
		ctx,
		bson.M{"user": userID},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &profile, nil
}
