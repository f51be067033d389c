package event

import "time"

// DomainEvent represents a domain event
type DomainEvent interface {
	EventType() string
	AggregateID() string
	OccurredAt() time.Time
}

const (
	UserRegisteredType = "UserRegistered"
	UserRenamedType    = "UserRenamed"
	UsersClearedType   = "UsersCleared"
)

// UserRegistered is raised once a new user has been stored
type UserRegistered struct {
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *UserRegistered) EventType() string     { return UserRegisteredType }
func (e *UserRegistered) AggregateID() string   { return e.UserID }
func (e *UserRegistered) OccurredAt() time.Time { return e.Timestamp }

// UserRenamed event
type UserRenamed struct {
	UserID    string    `json:"user_id"`
	OldName   string    `json:"old_name"`
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *UserRenamed) EventType() string     { return UserRenamedType }
func (e *UserRenamed) AggregateID() string   { return e.UserID }
func (e *UserRenamed) OccurredAt() time.Time { return e.Timestamp }

// UsersCleared is raised after the whole user collection was dropped. It has
// no aggregate id.
type UsersCleared struct {
	Timestamp time.Time `json:"timestamp"`
}

func (e *UsersCleared) EventType() string     { return UsersClearedType }
func (e *UsersCleared) AggregateID() string   { return "" }
func (e *UsersCleared) OccurredAt() time.Time { return e.Timestamp }
