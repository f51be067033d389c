package repository

import (
	"context"

	"aggrepo/internal/domain/aggregate"
)

// AggregateWriteRepository is the write side of a repository for aggregate
// roots of type T.
type AggregateWriteRepository[T aggregate.Root] interface {
	// Store upserts the aggregate by its identifier: an existing document with
	// the same id is fully replaced, otherwise a new one is inserted. Storing
	// the same value twice leaves a single document.
	Store(ctx context.Context, agg T) error

	// Clear irreversibly removes every stored aggregate.
	Clear(ctx context.Context) error
}

// AggregateReadRepository is the read side of a repository for aggregate
// roots of type T.
type AggregateReadRepository[T aggregate.Root] interface {
	// Find returns the aggregate stored under id. A missing document and a
	// document that cannot be decoded into T both yield an UnknownEntity
	// read error.
	Find(ctx context.Context, id aggregate.ID) (T, error)

	// FindAll returns every stored document that decodes into T, in the
	// order the store yields them. Undecodable documents are skipped.
	FindAll(ctx context.Context) []T
}

// AggregateRepository combines both sides.
type AggregateRepository[T aggregate.Root] interface {
	AggregateWriteRepository[T]
	AggregateReadRepository[T]
}
