package command

// RegisterUser represents a command to store a new user
type RegisterUser struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// RenameUser represents a command to change a user's name
type RenameUser struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

// ClearUsers removes every stored user
type ClearUsers struct{}
