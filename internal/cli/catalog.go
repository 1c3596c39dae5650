package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kawabatas/olympics-catalog/internal/domain/model"
)

func newListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list <kind>",
		Short: "List sports, teams, games, athletes, events or participations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "participations" {
				return listParticipations(cmd, app)
			}
			k, err := lookupKind(app.Catalog, args[0])
			if err != nil {
				return err
			}
			rows, err := k.list(cmd.Context())
			if err != nil {
				return err
			}
			return writeTable(cmd.OutOrStdout(), k.header, rows)
		},
	}
}

func listParticipations(cmd *cobra.Command, app *App) error {
	parts, err := app.Store.Participations().List(cmd.Context())
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(parts))
	for _, p := range parts {
		medal := string(p.Medal)
		if medal == "" {
			medal = "-"
		}
		rows = append(rows, []string{id(p.AthleteID), id(p.EventID), id(p.TeamID), strconv.Itoa(p.Age), medal})
	}
	return writeTable(cmd.OutOrStdout(), []string{"ATHLETE_ID", "EVENT_ID", "TEAM_ID", "AGE", "MEDAL"}, rows)
}

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <kind> <id>",
		Short: "Show one row and whether it can be deleted",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := lookupKind(app.Catalog, args[0])
			if err != nil {
				return err
			}
			itemID, err := parseID(args[1])
			if err != nil {
				return err
			}
			row, deletable, err := k.show(cmd.Context(), itemID)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(row)+1)
			for i, h := range k.header {
				rows = append(rows, []string{h, row[i]})
			}
			rows = append(rows, []string{"DELETABLE", strconv.FormatBool(deletable)})
			return writeTable(cmd.OutOrStdout(), []string{"FIELD", "VALUE"}, rows)
		},
	}
}

func newDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <kind> <id>",
		Short: "Delete a row that nothing references",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := lookupKind(app.Catalog, args[0])
			if err != nil {
				return err
			}
			itemID, err := parseID(args[1])
			if err != nil {
				return err
			}
			out, err := k.delete(cmd.Context(), itemID)
			if err != nil {
				return err
			}
			if !out.OK {
				return errors.New(out.Message)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out.Message)
			return nil
		},
	}
}

func newSportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sport",
		Short: "Add or rename sports",
	}

	addCmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a sport",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := app.Catalog.Sports.Save(cmd.Context(), nil, model.Sport{Name: args[0]})
			return report(cmd, out.OK, out.ID, out.Message)
		},
	}

	renameCmd := &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a sport",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sportID, err := parseID(args[0])
			if err != nil {
				return err
			}
			current, err := app.Catalog.Sports.Get(cmd.Context(), sportID)
			if err != nil {
				return err
			}
			out := app.Catalog.Sports.Save(cmd.Context(), &current, model.Sport{Name: args[1]})
			return report(cmd, out.OK, out.ID, out.Message)
		},
	}

	cmd.AddCommand(addCmd, renameCmd)
	return cmd
}

// report prints a successful outcome or turns a failed one into an error.
func report(cmd *cobra.Command, ok bool, itemID int64, msg string) error {
	if !ok {
		return errors.New(msg)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s (id %d)\n", msg, itemID)
	return nil
}
