// main is the entry point of the Student Manager console application.
//
// STARTUP SEQUENCE:
//  1. Load configuration (YAML file and/or environment)
//  2. Initialise the logger
//  3. Open (and set up) the SQLite database
//  4. Run the interactive menu on stdin/stdout until the user exits
//  5. Close the database
//
// RUNNING:
//
//	go run ./cmd/student-manager --config=config/local.yaml
//
// or (with the environment variable):
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/student-manager
package main

import (
	"log/slog"
	"os"

	"github.com/aanand-mishra/student-manager/internal/config"
	"github.com/aanand-mishra/student-manager/internal/console"
	"github.com/aanand-mishra/student-manager/internal/storage/sqlite"
)

func main() {
	os.Exit(run())
}

// run holds the program body so deferred cleanup happens before the
// process exits; os.Exit would skip it.
func run() int {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Debug("starting student-manager",
		slog.String("env", cfg.Env),
		slog.String("version", "1.0.0"),
	)

	storage, err := sqlite.New(cfg)
	if err != nil {
		log.Error("failed to initialise storage",
			slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		if err := storage.Close(); err != nil {
			log.Error("failed to close storage",
				slog.String("error", err.Error()))
		}
	}()

	log.Debug("storage initialised",
		slog.String("path", cfg.StoragePath))

	if err := console.New(storage, os.Stdin, os.Stdout, log).Run(); err != nil {
		log.Error("console stopped", slog.String("error", err.Error()))
		return 1
	}

	return 0
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// Logs go to stderr so they never interleave with the menu on stdout.
//
// Development (dev): human-readable text output at DEBUG level.
// Production (prod): machine-readable JSON output at INFO level.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default: // "dev" and anything unrecognised
		return slog.New(
			slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	}
}
