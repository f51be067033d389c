package services

import (
	"context"

	"aggrepo/internal/application/command"
	"aggrepo/internal/application/query"
	"aggrepo/internal/domain/aggregate"
	"aggrepo/internal/domain/repository"
	"aggrepo/internal/infrastructure/bus"
)

// UserService orchestrates user operations
type UserService struct {
	// Command handlers
	registerUserHandler *command.RegisterUserHandler
	renameUserHandler   *command.RenameUserHandler
	clearUsersHandler   *command.ClearUsersHandler

	// Query handlers
	getUserHandler        *query.GetUserHandler
	getUserByEmailHandler *query.GetUserByEmailHandler
	listUsersHandler      *query.ListUsersHandler
}

// NewUserService wires every handler to the same user repository. Commands
// publish their outcome on eventBus.
func NewUserService(users repository.UserRepository, eventBus bus.EventBus) *UserService {
	return &UserService{
		registerUserHandler:   command.NewRegisterUserHandler(users, eventBus),
		renameUserHandler:     command.NewRenameUserHandler(users, eventBus),
		clearUsersHandler:     command.NewClearUsersHandler(users, eventBus),
		getUserHandler:        query.NewGetUserHandler(users),
		getUserByEmailHandler: query.NewGetUserByEmailHandler(users),
		listUsersHandler:      query.NewListUsersHandler(users),
	}
}

// Command operations
func (s *UserService) RegisterUser(ctx context.Context, cmd command.RegisterUser) (aggregate.User, error) {
	return s.registerUserHandler.Handle(ctx, &cmd)
}

func (s *UserService) RenameUser(ctx context.Context, cmd command.RenameUser) (aggregate.User, error) {
	return s.renameUserHandler.Handle(ctx, &cmd)
}

func (s *UserService) ClearUsers(ctx context.Context) error {
	return s.clearUsersHandler.Handle(ctx, &command.ClearUsers{})
}

// Query operations
func (s *UserService) GetUser(ctx context.Context, q query.GetUser) (aggregate.User, error) {
	return s.getUserHandler.Handle(ctx, q)
}

func (s *UserService) GetUserByEmail(ctx context.Context, q query.GetUserByEmail) (aggregate.User, error) {
	return s.getUserByEmailHandler.Handle(ctx, q)
}

func (s *UserService) ListUsers(ctx context.Context) []aggregate.User {
	return s.listUsersHandler.Handle(ctx, query.ListUsers{})
}
