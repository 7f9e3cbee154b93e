package repository

import (
	"context"
	"errors"

	"github.com/stemsi/academic-tracker/internal/document"
)

var (
	// ErrStoreUnavailable marks failures to reach the store: refused or
	// dropped connections, server selection and operation timeouts.
	ErrStoreUnavailable = errors.New("document store unavailable")

	// ErrStoreNotConfigured is returned by every operation when no store
	// target was configured. It matches ErrStoreUnavailable.
	ErrStoreNotConfigured error = &notConfiguredError{}
)

type notConfiguredError struct{}

func (*notConfiguredError) Error() string { return "document store not configured" }

func (*notConfiguredError) Is(target error) bool { return target == ErrStoreUnavailable }

// DocumentStore is the minimal contract the service needs from a backend.
// Implementations must be safe for concurrent use.
type DocumentStore interface {
	// InsertOne appends doc to collection and returns its identifier as text.
	InsertOne(ctx context.Context, collection string, doc any) (string, error)
	// Find returns at most limit documents matching filter in insertion
	// order. Identifiers are left in their native type.
	Find(ctx context.Context, collection string, filter document.Filter, limit int64) ([]document.Document, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// UnconfiguredStore fails every call without touching the network.
type UnconfiguredStore struct{}

func (UnconfiguredStore) InsertOne(context.Context, string, any) (string, error) {
	return "", ErrStoreNotConfigured
}

func (UnconfiguredStore) Find(context.Context, string, document.Filter, int64) ([]document.Document, error) {
	return nil, ErrStoreNotConfigured
}

func (UnconfiguredStore) Ping(context.Context) error { return ErrStoreNotConfigured }

func (UnconfiguredStore) Close(context.Context) error { return nil }
