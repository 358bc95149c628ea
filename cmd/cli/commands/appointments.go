package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/medconnect/scheduling/pkg/core/model"
	"github.com/medconnect/scheduling/pkg/core/schedule"
	"github.com/medconnect/scheduling/pkg/core/services"
)

// AppointmentsCmd creates the appointments command
func AppointmentsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "appointments",
		Short: "Load appointments into the working set (clears the selection)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dateArg, _ := cmd.Flags().GetString("date")
			shiftArg, _ := cmd.Flags().GetString("shift")

			records, err := app.Store.ListAppointments(app.Ctx)
			if err != nil {
				return fmt.Errorf("failed to list appointments: %w", err)
			}

			if dateArg != "" || shiftArg != "" {
				date := app.Today()
				if dateArg != "" {
					date, err = model.ParseDate(dateArg)
					if err != nil {
						return fmt.Errorf("date must be in YYYY-MM-DD format, got: %s", dateArg)
					}
				}
				var label model.ShiftLabel
				if shiftArg != "" {
					var ok bool
					label, ok = model.ParseShiftLabel(shiftArg)
					if !ok {
						return fmt.Errorf("unknown shift: %s", shiftArg)
					}
				}
				records = schedule.FilterAppointments(records, date, label)
			}

			app.Selection.Reset(records)
			app.Logger.Debug("appointments command", zap.Int("count", len(records)))

			printAppointments(cmd.OutOrStdout(), app.Selection)
			return nil
		},
	}

	cmd.Flags().String("date", "", "Only show appointments on this date (YYYY-MM-DD)")
	cmd.Flags().String("shift", "", "Only show appointments inside this shift window (defaults the date to today)")

	return cmd
}

// SelectCmd creates the select command
func SelectCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "select <appointment_id>...",
		Short: "Toggle appointments in the selection",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, id := range args {
				if app.Selection.Toggle(id) {
					fmt.Fprintf(out, "  [x] %s\n", id)
				} else {
					fmt.Fprintf(out, "  [ ] %s\n", id)
				}
			}
			fmt.Fprintf(out, "%d selected\n", len(app.Selection.Selected()))
			return nil
		},
	}
}

// ClearSelectionCmd creates the clearSelection command
func ClearSelectionCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clearSelection",
		Short: "Deselect every appointment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Selection.Clear()
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Selection cleared")
			return nil
		},
	}
}

// RescheduleCmd creates the reschedule command
func RescheduleCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reschedule <date> <time>",
		Short: "Move every selected appointment to the same date and time",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			target := services.RescheduleTarget{Date: args[0], Time: args[1]}

			result, err := app.Selection.ApplyReschedule(app.Ctx, app.Store, app.Logger, target)
			if result != nil {
				for _, id := range result.Updated {
					fmt.Fprintf(out, "  ✓ %s moved to %s %s\n", id, result.Date, result.Time)
				}
				for _, f := range result.Failed {
					fmt.Fprintf(out, "  ✗ %s: %v\n", f.ID, f.Err)
				}
			}
			if err != nil {
				if result != nil {
					fmt.Fprintln(out, "✗ Some appointments were not moved. Run 'appointments' to see the current state.")
				}
				return err
			}

			fmt.Fprintf(out, "✓ Rescheduled %d appointments\n", len(result.Updated))
			return nil
		},
	}
}

// CancelSelectedCmd creates the cancelSelected command
func CancelSelectedCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cancelSelected",
		Short: "Drop the selected appointments from the working set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(app.Selection.Selected()) == 0 {
				return services.ErrEmptySelection
			}

			removed := app.Selection.CancelSelected()
			if len(removed) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "✗ None of the selected appointments are in the working set. Run 'appointments' to reload it.")
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed %d appointments from the working set\n", len(removed))
			return nil
		},
	}
}

func printAppointments(w io.Writer, selection *services.SelectionSet) {
	records := selection.Records()
	if len(records) == 0 {
		fmt.Fprintln(w, "\nNo appointments found.")
		return
	}

	fmt.Fprintf(w, "\nFound %d appointments:\n\n", len(records))
	for _, r := range records {
		box := "[ ]"
		if selection.IsSelected(r.ID) {
			box = "[x]"
		}
		fmt.Fprintf(w, "  %s %-8s %s %-9s %-24s %s\n", box, r.ID, r.Date, r.Time, r.SubjectName, r.Status)
	}
	fmt.Fprintln(w)
}
