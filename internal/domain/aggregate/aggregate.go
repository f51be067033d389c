package aggregate

import (
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"
)

// IDField is the document field holding an aggregate's identifier. Repositories
// filter on it for upserts and lookups.
const IDField = "id"

// ID is the globally unique identifier of an aggregate root. It is stored and
// compared in its canonical string form.
type ID uuid.UUID

// Nil is the zero identifier. It never identifies a stored aggregate.
var Nil ID

// NewID returns a random (version 4) identifier.
func NewID() ID {
	return ID(uuid.New())
}

// ParseID parses the canonical string form of an identifier.
func ParseID(s string) (ID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return Nil, fmt.Errorf("invalid aggregate id %q: %w", s, err)
	}
	return ID(u), nil
}

func (id ID) String() string {
	return uuid.UUID(id).String()
}

func (id ID) IsNil() bool {
	return id == Nil
}

// MarshalBSONValue stores the identifier as a BSON string so that documents can
// be filtered with id.String().
func (id ID) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bsontype.String, bsoncore.AppendString(nil, id.String()), nil
}

func (id *ID) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	if t != bsontype.String {
		return fmt.Errorf("cannot decode %s into an aggregate id", t)
	}
	s, _, ok := bsoncore.ReadString(data)
	if !ok {
		return fmt.Errorf("malformed bson string for aggregate id")
	}
	parsed, err := ParseID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := ParseID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Root is an aggregate root: the only member of an aggregate that outside
// objects may hold references to, and the unit of storage and identity.
//
// Implementations must be losslessly BSON encodable and decodable, either
// through bson struct tags or by implementing bson.Marshaler and
// bson.Unmarshaler, and must store their identifier under IDField.
type Root interface {
	// ID returns the aggregate's identifier. It never changes for the
	// lifetime of the aggregate.
	ID() ID
}
