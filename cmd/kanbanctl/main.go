package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/techikansh/Kanban-Board/internal/cli"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; flags override whatever it sets.
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	app := &cli.App{
		Open: cli.OpenMongo,
		Out:  os.Stdout,
		Log:  logger,
	}
	return cli.NewRootCmd(app).Execute()
}
