package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/alexanderramin/kanban/internal/cli"
	"github.com/alexanderramin/kanban/internal/config"
	"github.com/alexanderramin/kanban/internal/db"
	"github.com/alexanderramin/kanban/internal/logging"
	"github.com/alexanderramin/kanban/internal/repository"
	"github.com/alexanderramin/kanban/internal/service"
	"github.com/alexanderramin/kanban/internal/store"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, closeLog, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()
	logging.Setup(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	boardStore := store.New(repository.NewSQLiteBlobRepo(database),
		store.WithKey(cfg.BoardKey),
		store.WithLocation(cfg.Location),
		store.WithLogger(logging.Component("store")),
		store.WithUnitOfWork(db.NewSQLiteUnitOfWork(database)),
	)

	board := service.NewBoardService(boardStore,
		service.WithLocation(cfg.Location),
		service.WithObservers(service.NewLogUseCaseObserver(logging.Component("service"))),
	)

	report, err := board.Reload(ctx)
	if err != nil {
		return err
	}

	app := &cli.App{
		Board:      board,
		Loc:        cfg.Location,
		LoadReport: report,
		CorruptKey: boardStore.CorruptKey(),
	}

	// Prompts and the confirmation dialogs need a terminal on stdin.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	mainLog := logging.Component("main")
	mainLog.Debug().
		Str("db", cfg.DBPath).
		Str("board_key", cfg.BoardKey).
		Str("config", cfg.Source).
		Msg("starting")

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
