package memory

import (
	"context"

	"aggrepo/internal/domain/aggregate"
	"aggrepo/internal/domain/repository"
	apperrors "aggrepo/pkg/errors"
	"aggrepo/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
)

var _ repository.UserRepository = (*UserRepository)(nil)

// UserRepository is the in-memory user repository
type UserRepository struct {
	*Repository[aggregate.User]
}

func NewUserRepository(log *logger.Logger) *UserRepository {
	return &UserRepository{Repository: NewRepository[aggregate.User](log)}
}

// FindByEmail returns the only user stored with email
func (r *UserRepository) FindByEmail(_ context.Context, email string) (aggregate.User, error) {
	matched, users := r.matching(func(doc bson.Raw) bool {
		value, err := doc.LookupErr("email")
		if err != nil {
			return false
		}
		s, ok := value.StringValueOK()
		return ok && s == email
	})

	switch {
	case matched > 1:
		return aggregate.User{}, apperrors.NewMultipleEntitiesFoundError(email)
	case len(users) == 0:
		return aggregate.User{}, apperrors.NewUnknownEntityError(email)
	default:
		return users[0], nil
	}
}
