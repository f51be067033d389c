package memory

import (
	"context"
	"sync"

	"aggrepo/internal/domain/aggregate"
	"aggrepo/internal/domain/repository"
	apperrors "aggrepo/pkg/errors"
	"aggrepo/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
)

var _ repository.AggregateRepository[aggregate.User] = (*Repository[aggregate.User])(nil)

// Repository keeps encoded aggregates in process memory. It applies the same
// encode and decode rules as the MongoDB repository, so it can stand in for it
// in local runs and tests.
type Repository[T aggregate.Root] struct {
	mutex sync.RWMutex
	order []string
	docs  map[string]bson.Raw
	log   *logger.Logger
}

// NewRepository creates an empty in-memory repository
func NewRepository[T aggregate.Root](log *logger.Logger) *Repository[T] {
	if log == nil {
		log = logger.NewNop()
	}
	return &Repository[T]{
		docs: make(map[string]bson.Raw),
		log:  log,
	}
}

// Store upserts the encoded aggregate under its id
func (r *Repository[T]) Store(_ context.Context, agg T) error {
	doc, err := aggregate.Encode(agg)
	if err != nil {
		return err
	}

	key := agg.ID().String()

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.docs[key]; !exists {
		r.order = append(r.order, key)
	}
	r.docs[key] = doc
	return nil
}

// Clear removes all aggregates
func (r *Repository[T]) Clear(_ context.Context) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.order = nil
	r.docs = make(map[string]bson.Raw)
	return nil
}

// Find decodes the aggregate stored under id
func (r *Repository[T]) Find(_ context.Context, id aggregate.ID) (T, error) {
	var zero T

	r.mutex.RLock()
	doc, exists := r.docs[id.String()]
	r.mutex.RUnlock()

	if !exists {
		return zero, apperrors.NewUnknownEntityError(id.String())
	}

	var result T
	if err := bson.Unmarshal(doc, &result); err != nil {
		r.log.Warn("find by id failed", "id", id.String(), "error", err)
		return zero, apperrors.NewUnknownEntityError(id.String())
	}
	return result, nil
}

// FindAll decodes every stored aggregate in insertion order
func (r *Repository[T]) FindAll(_ context.Context) []T {
	_, results := r.matching(func(bson.Raw) bool { return true })
	return results
}

// matching returns how many stored documents satisfy match, and the ones
// among them that decode into T.
func (r *Repository[T]) matching(match func(bson.Raw) bool) (int, []T) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	matched := 0
	results := make([]T, 0)
	for _, key := range r.order {
		doc := r.docs[key]
		if !match(doc) {
			continue
		}
		matched++

		var agg T
		if err := bson.Unmarshal(doc, &agg); err != nil {
			r.log.Warn("skipping undecodable document", "id", key, "error", err)
			continue
		}
		results = append(results, agg)
	}
	return matched, results
}
