package repository

import (
	"context"

	"aggrepo/internal/domain/aggregate"
)

// UserReadRepository extends the base read repository with user look-ups.
type UserReadRepository interface {
	AggregateReadRepository[aggregate.User]

	// FindByEmail returns the single user with the given email. It fails with
	// UnknownEntity when no user matches and MultipleEntitiesFound when more
	// than one does.
	FindByEmail(ctx context.Context, email string) (aggregate.User, error)
}

// UserRepository is the full user repository used by the application layer.
type UserRepository interface {
	AggregateWriteRepository[aggregate.User]
	UserReadRepository
}
