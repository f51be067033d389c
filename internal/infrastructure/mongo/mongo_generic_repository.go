package mongo

import (
	"context"
	"errors"
	"fmt"

	"aggrepo/internal/domain/aggregate"
	"aggrepo/internal/domain/repository"
	apperrors "aggrepo/pkg/errors"
	"aggrepo/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ repository.AggregateRepository[aggregate.User] = (*Repository[aggregate.User])(nil)

// Repository binds the aggregate repository contract to one MongoDB
// collection. It holds no aggregate state: every operation is a single round
// trip to the server.
type Repository[T aggregate.Root] struct {
	db         string
	collection string
	client     *mongo.Client
	log        *logger.Logger
}

type Option func(*repoOptions)

type repoOptions struct {
	log *logger.Logger
}

// WithLogger sets the logger used to report causes that the read side does not
// return to callers.
func WithLogger(l *logger.Logger) Option {
	return func(o *repoOptions) {
		if l != nil {
			o.log = l
		}
	}
}

// NewRepository binds a repository for T to db.collection on a shared client.
func NewRepository[T aggregate.Root](client *mongo.Client, db, collection string, opts ...Option) *Repository[T] {
	o := repoOptions{log: logger.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Repository[T]{
		db:         db,
		collection: collection,
		client:     client,
		log:        o.log.With("database", db, "collection", collection),
	}
}

func (r *Repository[T]) coll() *mongo.Collection {
	return r.client.Database(r.db).Collection(r.collection)
}

func idFilter(id aggregate.ID) bson.D {
	return bson.D{{Key: aggregate.IDField, Value: id.String()}}
}

// Store upserts the aggregate, replacing any document with the same id. The
// encoded document must carry that id, see aggregate.Encode.
func (r *Repository[T]) Store(ctx context.Context, agg T) error {
	doc, err := aggregate.Encode(agg)
	if err != nil {
		return err
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := r.coll().ReplaceOne(ctx, idFilter(agg.ID()), doc, opts); err != nil {
		return apperrors.NewFailedToPersistError(fmt.Sprintf("failed to update collection: %v", err))
	}
	return nil
}

// Clear drops the bound collection.
func (r *Repository[T]) Clear(ctx context.Context) error {
	if err := r.coll().Drop(ctx); err != nil {
		return apperrors.NewFailedToPersistError(err.Error())
	}
	return nil
}

// Find looks up one aggregate by id. Decode and query failures are logged and
// reported as UnknownEntity.
func (r *Repository[T]) Find(ctx context.Context, id aggregate.ID) (T, error) {
	var result T

	err := r.coll().FindOne(ctx, idFilter(id)).Decode(&result)
	if err != nil {
		var zero T
		if !errors.Is(err, mongo.ErrNoDocuments) {
			r.log.Warn("find by id failed", "id", id.String(), "error", err)
		}
		return zero, apperrors.NewUnknownEntityError(id.String())
	}
	return result, nil
}

// FindAll returns every document that decodes into T. Documents that fail to
// decode are skipped.
func (r *Repository[T]) FindAll(ctx context.Context) []T {
	results := make([]T, 0)

	cursor, err := r.coll().Find(ctx, bson.D{})
	if err != nil {
		r.log.Warn("find all failed", "error", err)
		return results
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var agg T
		if err := cursor.Decode(&agg); err != nil {
			r.log.Warn("skipping undecodable document", "error", err)
			continue
		}
		results = append(results, agg)
	}
	if err := cursor.Err(); err != nil {
		r.log.Warn("cursor error during find all", "error", err)
	}

	return results
}
