package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/medconnect/scheduling/pkg/core/model"
	"github.com/medconnect/scheduling/pkg/core/schedule"
	"github.com/medconnect/scheduling/pkg/core/services"
)

// CalendarCmd creates the calendar command
func CalendarCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "calendar [YYYY-MM]",
		Short: "Show a month calendar with days that have availability marked",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			today := app.Today()
			year, month := today.Year, today.Month
			if len(args) > 0 {
				t, err := time.Parse("2006-01", args[0])
				if err != nil {
					return fmt.Errorf("month must be in YYYY-MM format, got: %s", args[0])
				}
				year, month = t.Year(), t.Month()
			}

			app.Logger.Debug("calendar command", zap.Int("year", year), zap.String("month", month.String()))

			shifts := services.ListAvailability(app.Ctx, app.Store, app.Logger)
			marked := make(map[int]bool)
			for _, s := range shifts {
				if s.Date.Year == year && s.Date.Month == month {
					marked[s.Date.Day] = true
				}
			}

			renderCalendar(cmd.OutOrStdout(), year, month, marked, today)
			return nil
		},
	}
}

// renderCalendar prints a Sunday-first month grid. Days with availability
// get a trailing '*' and today is bracketed.
func renderCalendar(w io.Writer, year int, month time.Month, marked map[int]bool, today model.Date) {
	grid := schedule.BuildMonthGrid(year, month)

	fmt.Fprintf(w, "\n%s %d\n", month, year)
	fmt.Fprintln(w, " Sun  Mon  Tue  Wed  Thu  Fri  Sat")

	for _, row := range grid.TrimmedRows() {
		var line strings.Builder
		for _, day := range row {
			line.WriteString(calendarCell(year, month, day, marked[day], today))
		}
		fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
	}
	fmt.Fprintln(w)
}

func calendarCell(year int, month time.Month, day int, hasAvailability bool, today model.Date) string {
	if day == 0 {
		return "     "
	}

	mark := " "
	if hasAvailability {
		mark = "*"
	}
	if today.Equal(model.NewDate(year, month, day)) {
		return fmt.Sprintf("[%2d]%s", day, mark)
	}
	return fmt.Sprintf(" %2d %s", day, mark)
}
