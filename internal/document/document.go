// Package document converts raw store documents into JSON-safe mappings.
package document

import (
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IDField is the key under which every store exposes document identifiers.
const IDField = "_id"

// Document is a raw document as returned by a store.
type Document map[string]any

// Filter is an equality-style match on top level fields. A nil or empty
// filter matches every document in a collection.
type Filter map[string]any

// IDString returns the canonical text form of a store identifier. The bool
// is false when v is not an identifier type this package knows.
func IDString(v any) (string, bool) {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex(), true
	case uuid.UUID:
		return id.String(), true
	case string:
		return id, true
	}
	return "", false
}

// Serialize returns a copy of a mapping with its native identifier replaced by
// text. Anything that is not a mapping is returned unchanged.
func Serialize(v any) any {
	switch doc := v.(type) {
	case Document:
		return serialize(doc)
	case map[string]any:
		return map[string]any(serialize(doc))
	case primitive.M:
		return primitive.M(serialize(doc))
	}
	return v
}

// SerializeList applies Serialize element-wise. Order and length are kept.
func SerializeList(docs []Document) []Document {
	out := make([]Document, len(docs))
	for i, d := range docs {
		out[i] = serialize(d)
	}
	return out
}

func serialize(doc map[string]any) Document {
	if doc == nil {
		return nil
	}
	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	if raw, ok := out[IDField]; ok {
		if s, known := IDString(raw); known {
			out[IDField] = s
		}
	}
	return out
}
