package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stemsi/academic-tracker/internal/model"
	"github.com/stemsi/academic-tracker/internal/repository"
)

// ListLimit caps attendance and marks reads.
const ListLimit = 100

// SeedError reports a bulk seed that stopped part way. Inserted documents
// are not rolled back.
type SeedError struct {
	Collection string
	Inserted   int
	Total      int
	Err        error
}

func (e *SeedError) Error() string {
	return fmt.Sprintf("seed %s: inserted %d of %d: %v", e.Collection, e.Inserted, e.Total, e.Err)
}

func (e *SeedError) Unwrap() error { return e.Err }

// RecordService seeds and reads the four academic record kinds.
type RecordService struct {
	store      repository.DocumentStore
	attendance *repository.RecordRepository[model.Attendance]
	marks      *repository.RecordRepository[model.Marks]
	timetable  *repository.RecordRepository[model.Timetable]
	user       *repository.RecordRepository[model.User]
	log        zerolog.Logger
}

// NewRecordService wires one repository per collection on top of store.
func NewRecordService(store repository.DocumentStore, log zerolog.Logger) *RecordService {
	return &RecordService{
		store:      store,
		attendance: repository.NewAttendanceRepository(store, log),
		marks:      repository.NewMarksRepository(store, log),
		timetable:  repository.NewTimetableRepository(store, log),
		user:       repository.NewUserRepository(store, log),
		log:        log.With().Str("component", "record_service").Logger(),
	}
}

// SeedAttendance inserts each record individually, in order.
func (s *RecordService) SeedAttendance(ctx context.Context, records []model.Attendance) (int, error) {
	return seed(ctx, s, s.attendance, records)
}

// SeedMarks inserts each record individually, in order.
func (s *RecordService) SeedMarks(ctx context.Context, records []model.Marks) (int, error) {
	return seed(ctx, s, s.marks, records)
}

// SeedTimetable inserts one timetable document.
func (s *RecordService) SeedTimetable(ctx context.Context, rec model.Timetable) (int, error) {
	return seed(ctx, s, s.timetable, []model.Timetable{rec})
}

// SeedUser inserts one user document.
func (s *RecordService) SeedUser(ctx context.Context, rec model.User) (int, error) {
	return seed(ctx, s, s.user, []model.User{rec})
}

// ListAttendance returns up to ListLimit attendance records.
func (s *RecordService) ListAttendance(ctx context.Context) ([]model.Attendance, error) {
	return s.attendance.Find(ctx, ListLimit)
}

// ListMarks returns up to ListLimit marks records.
func (s *RecordService) ListMarks(ctx context.Context) ([]model.Marks, error) {
	return s.marks.Find(ctx, ListLimit)
}

// CurrentTimetable returns the first timetable, or nil when none exists or
// the first stored one is non-conforming.
func (s *RecordService) CurrentTimetable(ctx context.Context) (*model.Timetable, error) {
	return s.timetable.First(ctx)
}

// CurrentUser returns the first user profile, or nil when none exists or
// the first stored one is non-conforming.
func (s *RecordService) CurrentUser(ctx context.Context) (*model.User, error) {
	return s.user.First(ctx)
}

// Ping checks that the store answers.
func (s *RecordService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func seed[T any](ctx context.Context, s *RecordService, repo *repository.RecordRepository[T], records []T) (int, error) {
	for i, rec := range records {
		if _, err := repo.Insert(ctx, rec); err != nil {
			seedErr := &SeedError{Collection: repo.Collection(), Inserted: i, Total: len(records), Err: err}
			s.log.Error().Err(err).
				Str("collection", repo.Collection()).
				Int("inserted", i).
				Int("total", len(records)).
				Msg("Seed aborted")
			return i, seedErr
		}
	}
	s.log.Debug().Str("collection", repo.Collection()).Int("inserted", len(records)).Msg("Seeded")
	return len(records), nil
}
