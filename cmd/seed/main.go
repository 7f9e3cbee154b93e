package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/academic-tracker/internal/config"
	"github.com/stemsi/academic-tracker/internal/database"
	"github.com/stemsi/academic-tracker/internal/logger"
	"github.com/stemsi/academic-tracker/internal/model"
	"github.com/stemsi/academic-tracker/internal/repository"
	"github.com/stemsi/academic-tracker/internal/service"
	"github.com/stemsi/academic-tracker/internal/validator"
)

// fixture mirrors the seed endpoint bodies, keyed by collection. Every
// section is optional.
type fixture struct {
	Attendance *model.SeedAttendanceRequest `json:"attendance"`
	Marks      *model.SeedMarksRequest      `json:"marks"`
	Timetable  *model.SeedTimetableRequest  `json:"timetable"`
	User       *model.SeedUserRequest       `json:"user"`
}

func main() {
	var file string
	flag.StringVar(&file, "file", "fixtures/sample.json", "Path to the JSON fixture")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	validator.Setup()

	fx, err := readFixture(file)
	if err != nil {
		log.Fatal().Err(err).Str("file", file).Msg("Invalid fixture")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	store, err := connect(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to document store")
	}
	defer store.Close(context.Background())

	svc := service.NewRecordService(store, log)

	fmt.Printf("=== Seeding from %s ===\n", file)

	if fx.Attendance != nil {
		report(log, model.CollectionAttendance)(svc.SeedAttendance(ctx, fx.Attendance.Records()))
	}
	if fx.Marks != nil {
		report(log, model.CollectionMarks)(svc.SeedMarks(ctx, fx.Marks.Records()))
	}
	if fx.Timetable != nil {
		report(log, model.CollectionTimetable)(svc.SeedTimetable(ctx, fx.Timetable.Record()))
	}
	if fx.User != nil {
		report(log, model.CollectionUser)(svc.SeedUser(ctx, fx.User.Record()))
	}

	fmt.Println("\nSeed completed!")
}

func readFixture(path string) (*fixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var fx fixture
	if err := json.Unmarshal(raw, &fx); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}

	sections := map[string]interface{}{}
	if fx.Attendance != nil {
		sections[model.CollectionAttendance] = fx.Attendance
	}
	if fx.Marks != nil {
		sections[model.CollectionMarks] = fx.Marks
	}
	if fx.Timetable != nil {
		sections[model.CollectionTimetable] = fx.Timetable
	}
	if fx.User != nil {
		sections[model.CollectionUser] = fx.User
	}
	for name, section := range sections {
		if err := validator.Struct(section); err != nil {
			return nil, fmt.Errorf("%s: %w", name, validator.TranslateErrors(err))
		}
	}
	return &fx, nil
}

func connect(ctx context.Context, cfg *config.Config, log zerolog.Logger) (repository.DocumentStore, error) {
	if cfg.StoreTarget() == "" {
		return nil, fmt.Errorf("no connection string set for driver %q", cfg.StoreDriver)
	}
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		pool, err := database.NewPostgresPool(ctx, cfg, log)
		if err != nil {
			if pool != nil {
				pool.Close()
			}
			return nil, err
		}
		return repository.NewPostgresStore(pool, cfg.StoreTimeout), nil
	case config.StoreDriverMongo:
		client, err := database.NewMongoClient(ctx, cfg, log)
		if err != nil {
			if client != nil {
				_ = client.Disconnect(ctx)
			}
			return nil, err
		}
		return repository.NewMongoStore(client, cfg.MongoDatabase, cfg.StoreTimeout), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func report(log zerolog.Logger, collection string) func(int, error) {
	return func(n int, err error) {
		if err != nil {
			log.Error().Err(err).Str("collection", collection).Int("inserted", n).Msg("Seed failed")
			return
		}
		fmt.Printf("Inserted %d %s document(s)\n", n, collection)
	}
}
