package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alexanderramin/renzoku/internal/cli"
	"github.com/alexanderramin/renzoku/internal/db"
	"github.com/alexanderramin/renzoku/internal/domain"
	"github.com/alexanderramin/renzoku/internal/repository"
	"github.com/alexanderramin/renzoku/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// DB path: env var or default ~/.renzoku/renzoku.db
	dbPath := os.Getenv("RENZOKU_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".renzoku", "renzoku.db")
	}

	userID := os.Getenv("RENZOKU_USER")
	if userID == "" {
		userID = "default"
	}
	device := domain.DeviceType(os.Getenv("RENZOKU_DEVICE"))
	if device == "" {
		device = domain.DeviceDesktop
	}
	if !domain.ValidDeviceTypes[string(device)] {
		return fmt.Errorf("unknown device type %q (expected desktop, mobile, web, or tablet)", device)
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	sessionRepo := repository.NewSQLiteActiveSessionRepo(database)
	logRepo := repository.NewSQLiteExecutionLogRepo(database)
	habitRepo := repository.NewSQLiteHabitRepo(database)
	taskRepo := repository.NewSQLiteTaskRepo(database)
	completionRepo := repository.NewSQLiteCompletionRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)

	// Use-case logging is opt-in; RENZOKU_LOG=1 sends structured events
	// to stderr.
	var observers []service.UseCaseObserver
	if os.Getenv("RENZOKU_LOG") != "" {
		observers = append(observers, service.NewLogUseCaseObserver(os.Stderr))
	}

	app := &cli.App{
		Sessions: service.NewSessionService(sessionRepo, habitRepo, taskRepo, logRepo, uow, observers...),
		Habits:   service.NewHabitService(habitRepo, completionRepo, uow, observers...),
		Tasks:    service.NewTaskService(taskRepo, observers...),
		Stats:    service.NewStatsService(uow, observers...),

		UserID: userID,
		Device: device,
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
