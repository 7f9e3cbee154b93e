package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stemsi/academic-tracker/internal/document"
	"github.com/stemsi/academic-tracker/internal/metrics"
	"github.com/stemsi/academic-tracker/internal/model"
	"github.com/stemsi/academic-tracker/internal/validator"
)

// RecordRepository reads and writes one record kind in its collection.
// Documents that do not decode into T, or fail T's binding tags, are logged
// and skipped.
type RecordRepository[T any] struct {
	store      DocumentStore
	collection string
	log        zerolog.Logger
}

func NewRecordRepository[T any](store DocumentStore, collection string, log zerolog.Logger) *RecordRepository[T] {
	return &RecordRepository[T]{
		store:      store,
		collection: collection,
		log:        log.With().Str("component", "record_repository").Str("collection", collection).Logger(),
	}
}

func NewAttendanceRepository(store DocumentStore, log zerolog.Logger) *RecordRepository[model.Attendance] {
	return NewRecordRepository[model.Attendance](store, model.CollectionAttendance, log)
}

func NewMarksRepository(store DocumentStore, log zerolog.Logger) *RecordRepository[model.Marks] {
	return NewRecordRepository[model.Marks](store, model.CollectionMarks, log)
}

func NewTimetableRepository(store DocumentStore, log zerolog.Logger) *RecordRepository[model.Timetable] {
	return NewRecordRepository[model.Timetable](store, model.CollectionTimetable, log)
}

func NewUserRepository(store DocumentStore, log zerolog.Logger) *RecordRepository[model.User] {
	return NewRecordRepository[model.User](store, model.CollectionUser, log)
}

// Collection returns the collection name this repository is bound to.
func (r *RecordRepository[T]) Collection() string {
	return r.collection
}

// Insert stores rec and returns its identifier.
func (r *RecordRepository[T]) Insert(ctx context.Context, rec T) (string, error) {
	id, err := r.store.InsertOne(ctx, r.collection, rec)
	metrics.ObserveStore(r.collection, "insert", outcome(err))
	return id, err
}

// Find returns up to limit records in store order.
func (r *RecordRepository[T]) Find(ctx context.Context, limit int64) ([]T, error) {
	docs, err := r.store.Find(ctx, r.collection, document.Filter{}, limit)
	metrics.ObserveStore(r.collection, "find", outcome(err))
	if err != nil {
		return nil, err
	}

	records := make([]T, 0, len(docs))
	for _, doc := range document.SerializeList(docs) {
		rec, err := decode[T](doc)
		if err != nil {
			r.log.Warn().Err(err).Interface("_id", doc[document.IDField]).Msg("Skipping non-conforming document")
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// First returns the first record in store order, or nil if there is none.
func (r *RecordRepository[T]) First(ctx context.Context) (*T, error) {
	// Only the first stored document is read. If it is non-conforming the
	// result is nil even when later documents would conform.
	records, err := r.Find(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

func decode[T any](doc document.Document) (T, error) {
	var rec T
	raw, err := json.Marshal(doc)
	if err != nil {
		return rec, fmt.Errorf("encode document: %w", err)
	}
	if err := json.Unmarshal(raw, &rec); err != nil {
		return rec, fmt.Errorf("decode document: %w", err)
	}
	if err := validator.Struct(&rec); err != nil {
		return rec, fmt.Errorf("validate document: %w", err)
	}
	return rec, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, ErrStoreUnavailable):
		return metrics.OutcomeUnavailable
	}
	return metrics.OutcomeError
}
