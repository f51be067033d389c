package services_test

import (
	"context"
	"testing"

	"aggrepo/internal/application/command"
	"aggrepo/internal/application/query"
	"aggrepo/internal/application/services"
	"aggrepo/internal/domain/aggregate"
	"aggrepo/internal/domain/event"
	"aggrepo/internal/infrastructure/bus"
	"aggrepo/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Store(ctx context.Context, user aggregate.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Clear(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUserRepository) Find(ctx context.Context, id aggregate.ID) (aggregate.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(aggregate.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context) []aggregate.User {
	return m.Called(ctx).Get(0).([]aggregate.User)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (aggregate.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(aggregate.User), args.Error(1)
}

func TestUserService_RegisterUser(t *testing.T) {
	ctx := context.Background()
	id := aggregate.NewID()

	t.Run("stores a new user", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByEmail", ctx, "sean@example.com").
			Return(aggregate.User{}, errors.NewUnknownEntityError("sean@example.com")).Once()
		repo.On("Store", ctx, mock.MatchedBy(func(u aggregate.User) bool {
			return u.ID() == id && u.Name() == "Sean" && u.Email() == "sean@example.com"
		})).Return(nil).Once()

		user, err := services.NewUserService(repo, bus.NewInMemoryEventBus(nil)).RegisterUser(ctx, command.RegisterUser{
			UserID: id.String(), Name: "Sean", Email: "sean@example.com",
		})

		require.NoError(t, err)
		assert.Equal(t, id, user.ID())
		repo.AssertExpectations(t)
	})

	t.Run("rejects invalid data without touching the store", func(t *testing.T) {
		repo := new(MockUserRepository)

		_, err := services.NewUserService(repo, bus.NewInMemoryEventBus(nil)).RegisterUser(ctx, command.RegisterUser{
			UserID: id.String(), Name: "", Email: "sean@example.com",
		})

		var appErr *errors.ApplicationError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
		repo.AssertNotCalled(t, "Store", mock.Anything, mock.Anything)
	})

	t.Run("rejects a malformed id", func(t *testing.T) {
		repo := new(MockUserRepository)

		_, err := services.NewUserService(repo, bus.NewInMemoryEventBus(nil)).RegisterUser(ctx, command.RegisterUser{
			UserID: "nope", Name: "Sean", Email: "sean@example.com",
		})

		var appErr *errors.ApplicationError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 400, appErr.Status)
	})

	t.Run("email already registered is a conflict", func(t *testing.T) {
		existing, err := aggregate.NewRandomUser("Other", "sean@example.com")
		require.NoError(t, err)
		repo := new(MockUserRepository)
		repo.On("FindByEmail", ctx, "sean@example.com").Return(existing, nil).Once()

		_, err = services.NewUserService(repo, bus.NewInMemoryEventBus(nil)).RegisterUser(ctx, command.RegisterUser{
			UserID: id.String(), Name: "Sean", Email: "sean@example.com",
		})

		var appErr *errors.ApplicationError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "CONFLICT", appErr.Code)
		repo.AssertNotCalled(t, "Store", mock.Anything, mock.Anything)
	})

	t.Run("email shared by several users is passed through", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByEmail", ctx, "sean@example.com").
			Return(aggregate.User{}, errors.NewMultipleEntitiesFoundError("sean@example.com")).Once()

		_, err := services.NewUserService(repo, bus.NewInMemoryEventBus(nil)).RegisterUser(ctx, command.RegisterUser{
			UserID: id.String(), Name: "Sean", Email: "sean@example.com",
		})

		assert.ErrorIs(t, err, errors.ErrMultipleEntitiesFound)
	})

	t.Run("store failure is wrapped", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByEmail", ctx, "sean@example.com").
			Return(aggregate.User{}, errors.NewUnknownEntityError("sean@example.com")).Once()
		repo.On("Store", ctx, mock.Anything).Return(errors.NewFailedToPersistError("down")).Once()

		_, err := services.NewUserService(repo, bus.NewInMemoryEventBus(nil)).RegisterUser(ctx, command.RegisterUser{
			UserID: id.String(), Name: "Sean", Email: "sean@example.com",
		})

		assert.ErrorIs(t, err, errors.ErrFailedToPersist)
		assert.Contains(t, err.Error(), "failed to save user")
	})
}

func TestUserService_RenameUser(t *testing.T) {
	ctx := context.Background()
	user, err := aggregate.NewRandomUser("Sean", "sean@example.com")
	require.NoError(t, err)

	t.Run("re-stores under the same id", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("Find", ctx, user.ID()).Return(user, nil).Once()
		repo.On("Store", ctx, mock.MatchedBy(func(u aggregate.User) bool {
			return u.ID() == user.ID() && u.Name() == "Shaun"
		})).Return(nil).Once()

		renamed, err := services.NewUserService(repo, bus.NewInMemoryEventBus(nil)).RenameUser(ctx, command.RenameUser{
			UserID: user.ID().String(), Name: "Shaun",
		})

		require.NoError(t, err)
		assert.Equal(t, "Shaun", renamed.Name())
		repo.AssertExpectations(t)
	})

	t.Run("unknown user", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("Find", ctx, user.ID()).
			Return(aggregate.User{}, errors.NewUnknownEntityError(user.ID().String())).Once()

		_, err := services.NewUserService(repo, bus.NewInMemoryEventBus(nil)).RenameUser(ctx, command.RenameUser{
			UserID: user.ID().String(), Name: "Shaun",
		})

		assert.ErrorIs(t, err, errors.ErrUnknownEntity)
	})
}

func TestUserService_Queries(t *testing.T) {
	ctx := context.Background()
	user, err := aggregate.NewRandomUser("Sean", "sean@example.com")
	require.NoError(t, err)

	repo := new(MockUserRepository)
	repo.On("Find", ctx, user.ID()).Return(user, nil)
	repo.On("FindByEmail", ctx, "sean@example.com").Return(user, nil)
	repo.On("FindAll", ctx).Return([]aggregate.User{user})
	service := services.NewUserService(repo, bus.NewInMemoryEventBus(nil))

	found, err := service.GetUser(ctx, query.GetUser{UserID: user.ID().String()})
	require.NoError(t, err)
	assert.Equal(t, user, found)

	found, err = service.GetUserByEmail(ctx, query.GetUserByEmail{Email: " sean@example.com "})
	require.NoError(t, err)
	assert.Equal(t, user, found)

	assert.Equal(t, []aggregate.User{user}, service.ListUsers(ctx))

	_, err = service.GetUser(ctx, query.GetUser{UserID: ""})
	assert.Error(t, err)

	_, err = service.GetUserByEmail(ctx, query.GetUserByEmail{Email: ""})
	assert.Error(t, err)
}

func TestUserService_ClearUsers(t *testing.T) {
	ctx := context.Background()

	repo := new(MockUserRepository)
	repo.On("Clear", ctx).Return(errors.NewFailedToPersistError("drop failed")).Once()

	err := services.NewUserService(repo, bus.NewInMemoryEventBus(nil)).ClearUsers(ctx)

	assert.ErrorIs(t, err, errors.ErrFailedToPersist)
	repo.AssertExpectations(t)
}

func TestUserService_PublishesEvents(t *testing.T) {
	ctx := context.Background()
	id := aggregate.NewID()

	eventBus := bus.NewInMemoryEventBus(nil)
	var published []event.DomainEvent
	record := bus.EventHandlerFunc(func(_ context.Context, e event.DomainEvent) error {
		published = append(published, e)
		return nil
	})
	for _, eventType := range []string{event.UserRegisteredType, event.UserRenamedType, event.UsersClearedType} {
		require.NoError(t, eventBus.Subscribe(eventType, record))
	}

	repo := new(MockUserRepository)
	repo.On("FindByEmail", ctx, "sean@example.com").
		Return(aggregate.User{}, errors.NewUnknownEntityError("sean@example.com")).Once()
	repo.On("Store", ctx, mock.Anything).Return(nil)
	repo.On("Clear", ctx).Return(nil).Once()
	service := services.NewUserService(repo, eventBus)

	user, err := service.RegisterUser(ctx, command.RegisterUser{
		UserID: id.String(), Name: "Sean", Email: "sean@example.com",
	})
	require.NoError(t, err)
	repo.On("Find", ctx, id).Return(user, nil).Once()

	_, err = service.RenameUser(ctx, command.RenameUser{UserID: id.String(), Name: "Shaun"})
	require.NoError(t, err)
	require.NoError(t, service.ClearUsers(ctx))

	require.Len(t, published, 3)
	registered, ok := published[0].(*event.UserRegistered)
	require.True(t, ok)
	assert.Equal(t, id.String(), registered.AggregateID())
	renamed, ok := published[1].(*event.UserRenamed)
	require.True(t, ok)
	assert.Equal(t, "Sean", renamed.OldName)
	assert.Equal(t, "Shaun", renamed.Name)
	assert.Equal(t, event.UsersClearedType, published[2].EventType())
}

func TestUserService_FailingSubscriberDoesNotFailCommand(t *testing.T) {
	ctx := context.Background()
	eventBus := bus.NewInMemoryEventBus(nil)
	require.NoError(t, eventBus.Subscribe(event.UsersClearedType, bus.EventHandlerFunc(
		func(context.Context, event.DomainEvent) error { return assert.AnError },
	)))

	repo := new(MockUserRepository)
	repo.On("Clear", ctx).Return(nil).Once()

	assert.NoError(t, services.NewUserService(repo, eventBus).ClearUsers(ctx))
}
