package aggregate

import (
	"fmt"

	apperrors "aggrepo/pkg/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Encode turns agg into the document a repository stores. The encoding must be
// a BSON document carrying agg.ID() as a string under IDField, otherwise upserts
// keyed on that field could not find it again. Failures are FailedToPersist
// write errors.
func Encode[T Root](agg T) (bson.Raw, error) {
	kind, data, err := bson.MarshalValue(agg)
	if err != nil {
		return nil, apperrors.NewFailedToPersistError(fmt.Sprintf("failed to encode aggregate as bson: %v", err))
	}
	if kind != bsontype.EmbeddedDocument {
		return nil, apperrors.NewFailedToPersistError(fmt.Sprintf("bson of encoded aggregate was: %s", kind))
	}

	doc := bson.Raw(data)
	want := agg.ID().String()
	value, err := doc.LookupErr(IDField)
	if err != nil {
		return nil, apperrors.NewFailedToPersistError(fmt.Sprintf("encoded aggregate has no %q field", IDField))
	}
	if got, ok := value.StringValueOK(); !ok || got != want {
		return nil, apperrors.NewFailedToPersistError(fmt.Sprintf("encoded %q field is %s, want %q", IDField, value, want))
	}
	return doc, nil
}
