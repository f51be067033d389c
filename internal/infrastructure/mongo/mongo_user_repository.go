package mongo

import (
	"context"

	"aggrepo/internal/domain/aggregate"
	"aggrepo/internal/domain/repository"
	apperrors "aggrepo/pkg/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ repository.UserRepository = (*MongoUserRepository)(nil)

// MongoUserRepository is the generic repository for users plus the email
// finder.
type MongoUserRepository struct {
	*Repository[aggregate.User]
}

// NewMongoUserRepository creates a user repository on db.collection
func NewMongoUserRepository(client *mongo.Client, db, collection string, opts ...Option) *MongoUserRepository {
	return &MongoUserRepository{
		Repository: NewRepository[aggregate.User](client, db, collection, opts...),
	}
}

// FindByEmail returns the only user stored with email.
func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (aggregate.User, error) {
	var zero aggregate.User

	// Two documents are enough to tell "one" from "many".
	opts := options.Find().SetLimit(2)
	cursor, err := r.coll().Find(ctx, bson.D{{Key: "email", Value: email}}, opts)
	if err != nil {
		r.log.Warn("find by email failed", "email", email, "error", err)
		return zero, apperrors.NewUnknownEntityError(email)
	}
	defer cursor.Close(ctx)

	matched := 0
	var found *aggregate.User
	for cursor.Next(ctx) {
		matched++
		var user aggregate.User
		if err := cursor.Decode(&user); err != nil {
			r.log.Warn("skipping undecodable user", "email", email, "error", err)
			continue
		}
		found = &user
	}
	if err := cursor.Err(); err != nil {
		r.log.Warn("cursor error during find by email", "email", email, "error", err)
	}

	switch {
	case matched > 1:
		return zero, apperrors.NewMultipleEntitiesFoundError(email)
	case found == nil:
		return zero, apperrors.NewUnknownEntityError(email)
	default:
		return *found, nil
	}
}
