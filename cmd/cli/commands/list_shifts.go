package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/medconnect/scheduling/pkg/core/model"
	"github.com/medconnect/scheduling/pkg/core/services"
)

// ListShiftsCmd creates the listShifts command
func ListShiftsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listShifts",
		Short: "List published availability, ordered by date and shift",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dateArg, _ := cmd.Flags().GetString("date")

			shifts := services.ListAvailability(app.Ctx, app.Store, app.Logger)
			if dateArg != "" {
				date, err := model.ParseDate(dateArg)
				if err != nil {
					return fmt.Errorf("date must be in YYYY-MM-DD format, got: %s", dateArg)
				}
				shifts = services.AvailabilityForDate(shifts, date)
			}

			app.Logger.Debug("listShifts command", zap.Int("count", len(shifts)))
			printShifts(cmd.OutOrStdout(), shifts)
			return nil
		},
	}

	cmd.Flags().String("date", "", "Only show shifts on this date (YYYY-MM-DD)")

	return cmd
}

func printShifts(w io.Writer, shifts []model.AvailabilityShift) {
	if len(shifts) == 0 {
		fmt.Fprintln(w, "\nNo availability found.")
		return
	}

	fmt.Fprintf(w, "\nFound %d shifts:\n\n", len(shifts))
	fmt.Fprintf(w, "  %-38s %-12s %-10s %-9s %s\n", "ID", "Date", "Shift", "Start", "End")
	for _, s := range shifts {
		fmt.Fprintf(w, "  %-38s %-12s %-10s %-9s %s\n", s.ID, s.Date, s.Shift, s.StartTime, s.EndTime)
	}
	fmt.Fprintln(w)
}
