package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kawabatas/olympics-catalog/internal/app/seed"
	sqlitedriver "github.com/kawabatas/olympics-catalog/internal/infra/datastore/sqlite"
)

func newSeedCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file.yaml>",
		Short: "Load a YAML catalogue document, skipping rows that already exist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := seed.ParseFile(args[0])
			if err != nil {
				return err
			}
			rep, err := seed.Apply(cmd.Context(), app.Store, doc)
			if err != nil {
				return err
			}
			rows := [][]string{
				counts("sports", rep.Sports),
				counts("teams", rep.Teams),
				counts("games", rep.Games),
				counts("athletes", rep.Athletes),
				counts("events", rep.Events),
				counts("participations", rep.Participations),
			}
			return writeTable(cmd.OutOrStdout(), []string{"KIND", "INSERTED", "SKIPPED"}, rows)
		},
	}
}

func counts(name string, c seed.Counts) []string {
	return []string{name, fmt.Sprint(c.Inserted), fmt.Sprint(c.Skipped)}
}

func newExportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file.yaml]",
		Short: "Write the catalogue as a YAML document (stdout by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := seed.Dump(cmd.Context(), app.Store)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				return seed.Write(cmd.OutOrStdout(), doc)
			}
			f, err := os.Create(args[0])
			if err != nil {
				return err
			}
			if err := seed.Write(f, doc); err != nil {
				_ = f.Close()
				return err
			}
			return f.Close()
		},
	}
}

func newSnapshotCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot <out.sqlite>",
		Short: "Write a consistent copy of the database with VACUUM INTO",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath := sqlitedriver.Path(app.Config.SqliteSource, app.Config.SqlitePath)
			if err := sqlitedriver.SnapshotTo(cmd.Context(), dbPath, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "snapshot written to %s\n", args[0])
			return nil
		},
	}
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "schema",
		Short:       "Print the JSON Schema of seed documents",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{noStore: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return seed.WriteSchema(cmd.OutOrStdout())
		},
	}
}
