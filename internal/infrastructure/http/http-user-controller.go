package http

import (
	"encoding/json"
	"net/http"
	"net/url"

	"aggrepo/internal/application/command"
	"aggrepo/internal/application/query"
	"aggrepo/internal/application/services"
	"aggrepo/internal/domain/aggregate"
	"aggrepo/pkg/errors"
	"aggrepo/pkg/middleware"
	"aggrepo/pkg/response"

	"github.com/go-chi/chi/v5"
)

// HTTPUserController exposes the user repository over HTTP
type HTTPUserController struct {
	userService *services.UserService
}

// NewHTTPUserController creates a new HTTP user controller
func NewHTTPUserController(userService *services.UserService) *HTTPUserController {
	return &HTTPUserController{
		userService: userService,
	}
}

// Routes mounts the user endpoints on r
func (c *HTTPUserController) Routes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Post("/", c.RegisterUser)
		r.Get("/", c.ListUsers)
		r.Delete("/", c.ClearUsers)
		r.Get("/by-email/{email}", c.GetUserByEmail)
		r.Get("/{id}", c.GetUser)
		r.Put("/{id}", c.RenameUser)
	})
}

// RegisterUser handles POST /users
func (c *HTTPUserController) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.HandleError(w, r, errors.NewValidationError("Invalid JSON format"))
		return
	}

	user, err := c.userService.RegisterUser(r.Context(), command.RegisterUser{
		UserID: aggregate.NewID().String(),
		Name:   req.Name,
		Email:  req.Email,
	})
	if err != nil {
		middleware.HandleError(w, r, err)
		return
	}

	response.SendCreated(w, r, user)
}

// GetUser handles GET /users/{id}
func (c *HTTPUserController) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := c.userService.GetUser(r.Context(), query.GetUser{UserID: chi.URLParam(r, "id")})
	if err != nil {
		middleware.HandleError(w, r, err)
		return
	}

	response.SendSuccess(w, r, user)
}

// GetUserByEmail handles GET /users/by-email/{email}
func (c *HTTPUserController) GetUserByEmail(w http.ResponseWriter, r *http.Request) {
	email, err := pathParam(r, "email")
	if err != nil {
		middleware.HandleError(w, r, errors.NewValidationError("Invalid email in path"))
		return
	}

	user, err := c.userService.GetUserByEmail(r.Context(), query.GetUserByEmail{Email: email})
	if err != nil {
		middleware.HandleError(w, r, err)
		return
	}

	response.SendSuccess(w, r, user)
}

// ListUsers handles GET /users
func (c *HTTPUserController) ListUsers(w http.ResponseWriter, r *http.Request) {
	users := c.userService.ListUsers(r.Context())
	response.SendSuccessWithMeta(w, r, users, &response.Meta{Total: len(users)})
}

// RenameUser handles PUT /users/{id}
func (c *HTTPUserController) RenameUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.HandleError(w, r, errors.NewValidationError("Invalid JSON format"))
		return
	}

	user, err := c.userService.RenameUser(r.Context(), command.RenameUser{
		UserID: chi.URLParam(r, "id"),
		Name:   req.Name,
	})
	if err != nil {
		middleware.HandleError(w, r, err)
		return
	}

	response.SendSuccess(w, r, user)
}

// ClearUsers handles DELETE /users
func (c *HTTPUserController) ClearUsers(w http.ResponseWriter, r *http.Request) {
	if err := c.userService.ClearUsers(r.Context()); err != nil {
		middleware.HandleError(w, r, err)
		return
	}

	response.SendSuccess(w, r, map[string]string{"message": "All users removed"})
}

// pathParam returns the decoded URL parameter key. chi routes on the escaped
// path whenever the request carries one, leaving parameters percent-encoded.
func pathParam(r *http.Request, key string) (string, error) {
	value := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return value, nil
	}
	return url.PathUnescape(value)
}
