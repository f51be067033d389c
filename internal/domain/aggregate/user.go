package aggregate

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

type User struct {
	id    ID
	name  string
	email string
}

// userDocument is the stored and transported shape of a User.
type userDocument struct {
	ID    ID     `bson:"id" json:"id"`
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
}

func NewUser(id ID, name, email string) (User, error) {
	if id.IsNil() {
		return User{}, fmt.Errorf("id cannot be empty")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return User{}, fmt.Errorf("name cannot be empty")
	}
	email = strings.TrimSpace(email)
	if err := validateEmail(email); err != nil {
		return User{}, err
	}

	return User{id: id, name: name, email: email}, nil
}

// NewRandomUser creates a user with a freshly generated identifier.
func NewRandomUser(name, email string) (User, error) {
	return NewUser(NewID(), name, email)
}

func (u User) ID() ID        { return u.id }
func (u User) Name() string  { return u.name }
func (u User) Email() string { return u.email }

// Rename returns a copy of the user with a new name and the same identity.
func (u User) Rename(name string) (User, error) {
	return NewUser(u.id, name, u.email)
}

func (u User) MarshalBSON() ([]byte, error) {
	return bson.Marshal(u.document())
}

func (u *User) UnmarshalBSON(data []byte) error {
	var doc userDocument
	if err := bson.Unmarshal(data, &doc); err != nil {
		return err
	}
	return u.load(doc)
}

func (u User) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.document())
}

func (u *User) UnmarshalJSON(data []byte) error {
	var doc userDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	return u.load(doc)
}

func (u User) document() userDocument {
	return userDocument{ID: u.id, Name: u.name, Email: u.email}
}

func (u *User) load(doc userDocument) error {
	if doc.ID.IsNil() {
		return fmt.Errorf("user document has no id")
	}
	u.id = doc.ID
	u.name = doc.Name
	u.email = doc.Email
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" || domain == "" || strings.Contains(domain, "@") {
		return fmt.Errorf("invalid email: %s", email)
	}
	return nil
}
