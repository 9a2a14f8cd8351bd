// internal/app/system/inputval/inputval.go
package inputval

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrInvalidID means an id parameter is missing or not an ObjectID.
var ErrInvalidID = errors.New("invalid id")

// ParseID parses a hex ObjectID, rejecting blanks and the zero id.
func ParseID(raw string) (primitive.ObjectID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return primitive.NilObjectID, ErrInvalidID
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil || id.IsZero() {
		return primitive.NilObjectID, ErrInvalidID
	}
	return id, nil
}

// URLID parses the chi URL parameter key.
func URLID(r *http.Request, key string) (primitive.ObjectID, error) {
	return ParseID(chi.URLParam(r, key))
}

// QueryID parses the query parameter key.
func QueryID(r *http.Request, key string) (primitive.ObjectID, error) {
	return ParseID(query.Get(r, key))
}
