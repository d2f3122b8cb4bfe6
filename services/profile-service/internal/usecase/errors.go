package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

var (
	ErrDuplicateEmail     = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidIdentity    = errors.New("invalid identity")
	ErrTimeout            = errors.New("operation timed out")

	// ErrNotFound is matched by every more specific not-found error below.
	ErrNotFound        = errors.New("not found")
	ErrAccountNotFound = fmt.Errorf("%w: account", ErrNotFound)
	ErrProfileNotFound = fmt.Errorf("%w: profile", ErrNotFound)
	ErrReposNotFound   = fmt.Errorf("%w: github profile", ErrNotFound)
)

func parseID(id string) (bson.ObjectID, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidIdentity, id)
	}

	return objectID, nil
}

// storeError marks deadline failures of store calls with ErrTimeout.
func storeError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || mongo.IsTimeout(err) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}

	return err
}
