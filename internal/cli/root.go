// Package cli implements kanbanctl, the operator tool for schema setup and
// data repair.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/techikansh/Kanban-Board/internal/app/store"
	"github.com/techikansh/Kanban-Board/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Backend is an open connection. DB is nil for in-memory backends.
type Backend struct {
	DB     *mongo.Database
	Stores store.Set
	Close  func(context.Context) error
}

// App holds what the commands need.
type App struct {
	Open func(ctx context.Context, uri, database string) (Backend, error)
	Out  io.Writer
	Log  *zap.Logger

	uri      string
	database string
}

// NewRootCmd creates the top-level "kanbanctl" command.
func NewRootCmd(app *App) *cobra.Command {
	if app.Log == nil {
		app.Log = zap.NewNop()
	}
	root := &cobra.Command{
		Use:           "kanbanctl",
		Short:         "Operator commands for the Kanban board service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(app.Out)

	root.PersistentFlags().StringVar(&app.uri, "mongo-uri", envOr("KANBAN_MONGO_URI", "mongodb://localhost:27017"), "MongoDB connection URI")
	root.PersistentFlags().StringVar(&app.database, "mongo-database", envOr("KANBAN_MONGO_DATABASE", "kanban"), "MongoDB database name")

	root.AddCommand(
		newEnsureIndexesCmd(app),
		newSweepOrphansCmd(app),
	)
	return root
}

// withBackend opens the backend for one command and always closes it.
func (a *App) withBackend(ctx context.Context, fn func(Backend) error) error {
	b, err := a.Open(ctx, a.uri, a.database)
	if err != nil {
		return err
	}
	defer func() {
		if b.Close != nil {
			_ = b.Close(context.Background())
		}
	}()
	return fn(b)
}

// OpenMongo connects to uri and verifies the connection.
func OpenMongo(ctx context.Context, uri, database string) (Backend, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return Backend{}, fmt.Errorf("connect mongo: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return Backend{}, fmt.Errorf("ping mongo: %w", err)
	}
	db := client.Database(database)
	return Backend{DB: db, Stores: store.NewMongo(db), Close: client.Disconnect}, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
