package command

import (
	"context"
	"fmt"
	"time"

	"aggrepo/internal/domain/aggregate"
	"aggrepo/internal/domain/event"
	"aggrepo/internal/domain/repository"
	"aggrepo/internal/infrastructure/bus"
	"aggrepo/pkg/errors"
)

// RegisterUserHandler stores a new user after checking the email is free
type RegisterUserHandler struct {
	users    repository.UserRepository
	eventBus bus.EventBus
}

func NewRegisterUserHandler(users repository.UserRepository, eventBus bus.EventBus) *RegisterUserHandler {
	return &RegisterUserHandler{users: users, eventBus: eventBus}
}

func (h *RegisterUserHandler) Handle(ctx context.Context, cmd *RegisterUser) (aggregate.User, error) {
	id, err := aggregate.ParseID(cmd.UserID)
	if err != nil {
		return aggregate.User{}, errors.NewValidationError(fmt.Sprintf("invalid user id: %v", err))
	}

	user, err := aggregate.NewUser(id, cmd.Name, cmd.Email)
	if err != nil {
		return aggregate.User{}, errors.NewValidationError(fmt.Sprintf("invalid user data: %v", err))
	}

	_, err = h.users.FindByEmail(ctx, user.Email())
	switch {
	case err == nil:
		return aggregate.User{}, errors.NewConflictError(fmt.Sprintf("email %s is already registered", user.Email()))
	case !errors.IsNotFound(err):
		return aggregate.User{}, err
	}

	if err := h.users.Store(ctx, user); err != nil {
		return aggregate.User{}, fmt.Errorf("failed to save user: %w", err)
	}

	// Subscribers log their own failures; the user is already stored.
	_ = h.eventBus.Publish(ctx, &event.UserRegistered{
		UserID:    user.ID().String(),
		Name:      user.Name(),
		Email:     user.Email(),
		Timestamp: time.Now(),
	})
	return user, nil
}

// RenameUserHandler re-stores an existing user under a new name
type RenameUserHandler struct {
	users    repository.UserRepository
	eventBus bus.EventBus
}

func NewRenameUserHandler(users repository.UserRepository, eventBus bus.EventBus) *RenameUserHandler {
	return &RenameUserHandler{users: users, eventBus: eventBus}
}

func (h *RenameUserHandler) Handle(ctx context.Context, cmd *RenameUser) (aggregate.User, error) {
	id, err := aggregate.ParseID(cmd.UserID)
	if err != nil {
		return aggregate.User{}, errors.NewValidationError(fmt.Sprintf("invalid user id: %v", err))
	}

	user, err := h.users.Find(ctx, id)
	if err != nil {
		return aggregate.User{}, err
	}

	renamed, err := user.Rename(cmd.Name)
	if err != nil {
		return aggregate.User{}, errors.NewValidationError(fmt.Sprintf("invalid user data: %v", err))
	}

	if err := h.users.Store(ctx, renamed); err != nil {
		return aggregate.User{}, fmt.Errorf("failed to save user: %w", err)
	}

	_ = h.eventBus.Publish(ctx, &event.UserRenamed{
		UserID:    renamed.ID().String(),
		OldName:   user.Name(),
		Name:      renamed.Name(),
		Timestamp: time.Now(),
	})
	return renamed, nil
}

// ClearUsersHandler drops the user collection
type ClearUsersHandler struct {
	users    repository.AggregateWriteRepository[aggregate.User]
	eventBus bus.EventBus
}

func NewClearUsersHandler(users repository.AggregateWriteRepository[aggregate.User], eventBus bus.EventBus) *ClearUsersHandler {
	return &ClearUsersHandler{users: users, eventBus: eventBus}
}

func (h *ClearUsersHandler) Handle(ctx context.Context, _ *ClearUsers) error {
	if err := h.users.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear users: %w", err)
	}

	_ = h.eventBus.Publish(ctx, &event.UsersCleared{Timestamp: time.Now()})
	return nil
}
