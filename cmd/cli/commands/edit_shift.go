package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/medconnect/scheduling/pkg/core/services"
	"github.com/medconnect/scheduling/pkg/db"
)

// UpdateShiftCmd creates the updateShift command
func UpdateShiftCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "updateShift <shift_id>",
		Short: "Change the date, shift or times of a published shift",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var edit services.ShiftEdit
			flags := cmd.Flags()
			if flags.Changed("date") {
				v, _ := flags.GetString("date")
				edit.Date = &v
			}
			if flags.Changed("shift") {
				v, _ := flags.GetString("shift")
				edit.Shift = &v
			}
			if flags.Changed("start") {
				v, _ := flags.GetString("start")
				edit.StartTime = &v
			}
			if flags.Changed("end") {
				v, _ := flags.GetString("end")
				edit.EndTime = &v
			}

			if err := services.EditShift(app.Ctx, app.Store, app.Logger, args[0], edit, app.Cfg.AllowNightShifts); err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "✗ Shift %s was not updated\n", args[0])
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Shift %s updated\n", args[0])
			return nil
		},
	}

	cmd.Flags().String("date", "", "New date (YYYY-MM-DD)")
	cmd.Flags().String("shift", "", "New shift label")
	cmd.Flags().String("start", "", "New start time")
	cmd.Flags().String("end", "", "New end time")

	return cmd
}

// DeleteShiftCmd creates the deleteShift command
func DeleteShiftCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deleteShift <shift_id>",
		Short: "Delete a published shift",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := services.RemoveShift(app.Ctx, app.Store, app.Logger, args[0])
			if errors.Is(err, db.ErrNotFound) {
				fmt.Fprintf(cmd.OutOrStdout(), "✗ Shift %s no longer exists\n", args[0])
				return nil
			}
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "✗ Shift %s was not deleted\n", args[0])
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Shift %s deleted\n", args[0])
			return nil
		},
	}
}
