// Package repositorytest provides an in-memory DocumentStore for tests.
package repositorytest

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/stemsi/academic-tracker/internal/document"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsonrw"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore encodes documents through BSON exactly like the Mongo driver
// would and hands out ObjectIDs, so reads look like MongoStore reads.
type MemoryStore struct {
	mu          sync.Mutex
	collections map[string][]document.Document

	// Err, when set, is returned by every operation.
	Err error
	// FailAfter, when positive, makes inserts fail with InsertErr once that
	// many inserts have succeeded.
	FailAfter int
	InsertErr error

	inserts int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string][]document.Document)}
}

func (s *MemoryStore) InsertOne(_ context.Context, collection string, doc any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return "", s.Err
	}
	if s.FailAfter > 0 && s.inserts >= s.FailAfter {
		return "", s.InsertErr
	}

	stored, err := toDocument(doc)
	if err != nil {
		return "", err
	}
	id := primitive.NewObjectID()
	stored[document.IDField] = id
	s.collections[collection] = append(s.collections[collection], stored)
	s.inserts++
	return id.Hex(), nil
}

func (s *MemoryStore) Find(_ context.Context, collection string, filter document.Filter, limit int64) ([]document.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}

	var out []document.Document
	for _, doc := range s.collections[collection] {
		if limit > 0 && int64(len(out)) >= limit {
			break
		}
		if matches(doc, filter) {
			out = append(out, copyDoc(doc))
		}
	}
	return out, nil
}

func (s *MemoryStore) Ping(context.Context) error {
	return s.Err
}

func (s *MemoryStore) Close(context.Context) error {
	return nil
}

// Put stores a raw document as-is, for seeding shapes the API would reject.
func (s *MemoryStore) Put(collection string, doc document.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := doc[document.IDField]; !ok {
		doc[document.IDField] = primitive.NewObjectID()
	}
	s.collections[collection] = append(s.collections[collection], doc)
}

// Count returns the number of documents in a collection.
func (s *MemoryStore) Count(collection string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.collections[collection])
}

// Docs returns copies of every document in a collection.
func (s *MemoryStore) Docs(collection string) []document.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]document.Document, 0, len(s.collections[collection]))
	for _, d := range s.collections[collection] {
		out = append(out, copyDoc(d))
	}
	return out
}

func toDocument(doc any) (document.Document, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	dec, err := bson.NewDecoder(bsonrw.NewBSONDocumentReader(raw))
	if err != nil {
		return nil, err
	}
	dec.DefaultDocumentM()

	var m bson.M
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return document.Document(m), nil
}

func matches(doc document.Document, filter document.Filter) bool {
	for k, want := range filter {
		if !reflect.DeepEqual(doc[k], want) {
			return false
		}
	}
	return true
}

func copyDoc(doc document.Document) document.Document {
	out := make(document.Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}
