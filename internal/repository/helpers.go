package repository

import "go.mongodb.org/mongo-driver/bson/primitive"

// oid parses a hex document id. Malformed ids are treated as
// never-matching; handlers reject them before they get this far.
func oid(id string) (primitive.ObjectID, bool) {
	parsed, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return parsed, true
}
