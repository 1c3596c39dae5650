package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kawabatas/olympics-catalog/internal/domain/model"
)

func newAthleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "athlete",
		Short: "Add athletes and manage their photos",
	}

	var (
		sex       string
		weight    int
		height    int
		photoPath string
	)
	addCmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an athlete",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := model.Athlete{Name: args[0], Sex: model.Sex(sex), Weight: weight, Height: height}
			if photoPath != "" {
				photo, err := os.ReadFile(photoPath)
				if err != nil {
					return fmt.Errorf("failed to read photo: %w", err)
				}
				a.Photo = photo
			}
			out := app.Catalog.Athletes.Save(cmd.Context(), nil, a)
			return report(cmd, out.OK, out.ID, out.Message)
		},
	}
	addCmd.Flags().StringVar(&sex, "sex", "", "M or F")
	addCmd.Flags().IntVar(&weight, "weight", 0, "weight in kg")
	addCmd.Flags().IntVar(&height, "height", 0, "height in cm")
	addCmd.Flags().StringVar(&photoPath, "photo", "", "image file to store as the athlete photo")
	_ = addCmd.MarkFlagRequired("sex")

	var clearPhoto bool
	photoCmd := &cobra.Command{
		Use:   "photo <id> [file]",
		Short: "Replace an athlete photo, or remove it with --clear",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			athleteID, err := parseID(args[0])
			if err != nil {
				return err
			}
			var photo []byte
			switch {
			case clearPhoto:
			case len(args) == 2:
				if photo, err = os.ReadFile(args[1]); err != nil {
					return fmt.Errorf("failed to read photo: %w", err)
				}
			default:
				return fmt.Errorf("a photo file or --clear is required")
			}
			current, err := app.Catalog.Athletes.Get(cmd.Context(), athleteID)
			if err != nil {
				return err
			}
			updated := current
			updated.Photo = photo
			out := app.Catalog.Athletes.Save(cmd.Context(), &current, updated)
			return report(cmd, out.OK, out.ID, out.Message)
		},
	}
	photoCmd.Flags().BoolVar(&clearPhoto, "clear", false, "remove the stored photo")

	cmd.AddCommand(addCmd, photoCmd)
	return cmd
}
