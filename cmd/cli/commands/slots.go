package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/medconnect/scheduling/pkg/core/model"
	"github.com/medconnect/scheduling/pkg/core/schedule"
	"github.com/medconnect/scheduling/pkg/core/services"
)

// SlotsCmd creates the slots command
func SlotsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slots <shift | shift_id>",
		Short: "List bookable start times for a shift label or a published shift",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			granularity, _ := cmd.Flags().GetInt("granularity")
			if granularity <= 0 {
				granularity = app.Cfg.SlotGranularityMinutes
			}
			out := cmd.OutOrStdout()

			if label, ok := model.ParseShiftLabel(args[0]); ok {
				window, _ := label.Window()
				labels := schedule.GenerateSlotLabels(label, granularity)
				fmt.Fprintf(out, "\n%s (%s - %s), every %d minutes:\n", label, window.Start, window.End, granularity)
				fmt.Fprintf(out, "  %s\n\n", strings.Join(labels, ", "))
				return nil
			}

			for _, shift := range services.ListAvailability(app.Ctx, app.Store, app.Logger) {
				if shift.ID != args[0] {
					continue
				}
				slots := services.BookableSlots(shift, granularity)
				fmt.Fprintf(out, "\n%s %s (%s - %s): %d slots\n", shift.Date, shift.Shift, shift.StartTime, shift.EndTime, len(slots))
				for _, slot := range slots {
					fmt.Fprintf(out, "  %s\n", slot.Label)
				}
				fmt.Fprintln(out)
				return nil
			}

			return fmt.Errorf("%q is neither a shift label nor a published shift id", args[0])
		},
	}

	cmd.Flags().Int("granularity", 0, "Slot length in minutes (defaults to config)")

	return cmd
}
