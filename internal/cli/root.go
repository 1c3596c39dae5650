// Package cli provides the command-line interface for maintaining the catalogue.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/kawabatas/olympics-catalog/internal/app/usecase"
	"github.com/kawabatas/olympics-catalog/internal/infra/config"
	"github.com/kawabatas/olympics-catalog/internal/infra/datastore"
	"github.com/kawabatas/olympics-catalog/internal/infra/platform/logger"
)

// noStore marks commands that run without opening the database.
const noStore = "no-store"

// App holds the opened datastore and the catalogue forms for the commands.
type App struct {
	Config  config.AppConfig
	Store   datastore.DataStore
	Catalog *usecase.Catalog
}

func (a *App) open(ctx context.Context, cfgPath, dbPath string, errOut io.Writer) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if dbPath != "" {
		cfg.SqlitePath = dbPath
	}
	// CLI はテキストログを stderr に出す（stdout はコマンド出力用）
	slog.SetDefault(logger.NewWithWriter("text", logger.ParseLevel(cfg.LogLevel), errOut))

	ds, err := datastore.Open(ctx, datastore.Config{
		Driver:   cfg.DBDriver,
		Source:   cfg.SqliteSource,
		Path:     cfg.SqlitePath,
		Strategy: datastore.NoopSnapshotStrategy{},
	})
	if err != nil {
		return fmt.Errorf("failed to open datastore: %w", err)
	}
	a.Config = cfg
	a.Store = ds
	a.Catalog = usecase.NewCatalog(ds, usecase.WithAtomicDelete(cfg.AtomicDelete()))
	return nil
}

// Close closes the datastore if a command opened it.
func (a *App) Close() error {
	if a.Store == nil {
		return nil
	}
	err := a.Store.Close()
	a.Store = nil
	return err
}

// NewRootCmd creates the root command. The datastore is opened before any
// subcommand runs; the caller closes app afterwards.
func NewRootCmd(version string, app *App) *cobra.Command {
	var cfgPath, dbPath string

	rootCmd := &cobra.Command{
		Use:           "catalog",
		Short:         "Maintain the Olympic catalogue database",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations[noStore] != "" || cmd.Name() == "help" {
				return nil
			}
			return app.open(cmd.Context(), cfgPath, dbPath, cmd.ErrOrStderr())
		},
	}
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (yaml, toml or json)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database file (overrides SQLITE_PATH)")

	versionCmd := &cobra.Command{
		Use:         "version",
		Short:       "Print version information",
		Annotations: map[string]string{noStore: "true"},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "catalog %s\n", version)
		},
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(newListCmd(app))
	rootCmd.AddCommand(newShowCmd(app))
	rootCmd.AddCommand(newDeleteCmd(app))
	rootCmd.AddCommand(newSportCmd(app))
	rootCmd.AddCommand(newAthleteCmd(app))
	rootCmd.AddCommand(newSeedCmd(app))
	rootCmd.AddCommand(newExportCmd(app))
	rootCmd.AddCommand(newSnapshotCmd(app))
	rootCmd.AddCommand(newSchemaCmd())
	return rootCmd
}

// Execute runs the CLI with args and always closes the datastore.
func Execute(ctx context.Context, version string, args []string, out, errOut io.Writer) error {
	app := &App{}
	root := NewRootCmd(version, app)
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)
	err := root.ExecuteContext(ctx)
	if cerr := app.Close(); err == nil {
		err = cerr
	}
	return err
}
