package query

import (
	"context"
	"fmt"
	"strings"

	"aggrepo/internal/domain/aggregate"
	"aggrepo/internal/domain/repository"
	"aggrepo/pkg/errors"
)

// Queries
type GetUser struct {
	UserID string `json:"user_id"`
}

type GetUserByEmail struct {
	Email string `json:"email"`
}

type ListUsers struct{}

// GetUserHandler loads one user by id
type GetUserHandler struct {
	users repository.UserReadRepository
}

func NewGetUserHandler(users repository.UserReadRepository) *GetUserHandler {
	return &GetUserHandler{users: users}
}

func (h *GetUserHandler) Handle(ctx context.Context, query GetUser) (aggregate.User, error) {
	if strings.TrimSpace(query.UserID) == "" {
		return aggregate.User{}, errors.NewValidationError("user ID is required")
	}
	id, err := aggregate.ParseID(query.UserID)
	if err != nil {
		return aggregate.User{}, errors.NewValidationError(fmt.Sprintf("invalid user id: %v", err))
	}

	return h.users.Find(ctx, id)
}

// GetUserByEmailHandler loads the single user owning an email address
type GetUserByEmailHandler struct {
	users repository.UserReadRepository
}

func NewGetUserByEmailHandler(users repository.UserReadRepository) *GetUserByEmailHandler {
	return &GetUserByEmailHandler{users: users}
}

func (h *GetUserByEmailHandler) Handle(ctx context.Context, query GetUserByEmail) (aggregate.User, error) {
	email := strings.TrimSpace(query.Email)
	if email == "" {
		return aggregate.User{}, errors.NewValidationError("email is required")
	}

	return h.users.FindByEmail(ctx, email)
}

// ListUsersHandler returns every readable user
type ListUsersHandler struct {
	users repository.UserReadRepository
}

func NewListUsersHandler(users repository.UserReadRepository) *ListUsersHandler {
	return &ListUsersHandler{users: users}
}

func (h *ListUsersHandler) Handle(ctx context.Context, _ ListUsers) []aggregate.User {
	return h.users.FindAll(ctx)
}
