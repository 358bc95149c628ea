package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/medconnect/scheduling/pkg/core/model"
	"github.com/medconnect/scheduling/pkg/core/services"
)

// AddShiftCmd creates the addShift command
func AddShiftCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "addShift <date> <shift> <start_time> <end_time>",
		Short: "Stage a shift for the next submission",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := app.Composer.AddEntry(candidateFromArgs(args))
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Staged %s %s (%s - %s) as %s\n",
				entry.Date, entry.Shift, entry.StartTime, entry.EndTime, shortKey(entry.LocalKey))
			return nil
		},
	}
}

// AddRecurringCmd creates the addRecurring command
func AddRecurringCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "addRecurring <rrule | preset> <start_date> <shift> <start_time> <end_time>",
		Short: "Stage one shift per occurrence of a recurrence rule",
		Long: `Stage one shift per occurrence of an RFC 5545 recurrence rule, starting at start_date.
The rule may be the name of a preset from recurrenceRules in the config, or a literal
rule such as "FREQ=WEEKLY;BYDAY=TU,TH;COUNT=8". Either every occurrence is staged or none.`,
		Args: cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			rule := args[0]
			if preset, ok := app.Cfg.RecurrenceRule(rule); ok {
				app.Logger.Debug("Using recurrence preset", zap.String("preset", rule), zap.String("rrule", preset))
				rule = preset
			}

			entries, err := app.Composer.AddRecurring(rule, candidateFromArgs(args[1:]))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n✓ Staged %d shifts:\n", len(entries))
			for _, e := range entries {
				fmt.Fprintf(out, "  %s %s %s (%s - %s)\n", shortKey(e.LocalKey), e.Date, e.Shift, e.StartTime, e.EndTime)
			}
			fmt.Fprintln(out)
			return nil
		},
	}
}

// PendingCmd creates the pending command
func PendingCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "Show staged shifts and the composer state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printPending(cmd.OutOrStdout(), app.Composer)
			return nil
		},
	}
}

// RemovePendingCmd creates the removePending command
func RemovePendingCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "removePending <key>",
		Short: "Remove a staged shift by its key (or a unique key prefix)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := resolvePendingKey(app.Composer.Pending(), args[0])
			if err != nil {
				return err
			}
			if !app.Composer.RemoveEntry(key) {
				return fmt.Errorf("no staged shift with key %s", args[0])
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed staged shift %s (%d remaining)\n", shortKey(key), len(app.Composer.Pending()))
			return nil
		},
	}
}

// SubmitShiftsCmd creates the submitShifts command
func SubmitShiftsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "submitShifts",
		Short: "Submit every staged shift in one batch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			result, err := app.Composer.Submit(app.Ctx)
			if err != nil {
				var submitErr *services.SubmitError
				if errors.As(err, &submitErr) {
					fmt.Fprintf(out, "✗ Submission failed. Your %d staged shifts were kept:\n%s\n", submitErr.Count, submitErr.Message())
				}
				return err
			}

			fmt.Fprintf(out, "\n✓ Created %d shifts successfully!\n", len(result.Created))
			printShifts(out, result.Refreshed)
			return nil
		},
	}
}

func candidateFromArgs(args []string) services.ShiftCandidate {
	return services.ShiftCandidate{
		Date:      args[0],
		Shift:     args[1],
		StartTime: args[2],
		EndTime:   args[3],
	}
}

func printPending(w io.Writer, composer *services.ShiftComposer) {
	pending := composer.Pending()

	fmt.Fprintf(w, "\nComposer: %s\n", composer.State())
	if err := composer.LastError(); err != nil {
		var submitErr *services.SubmitError
		if errors.As(err, &submitErr) {
			fmt.Fprintf(w, "Last submission failed:\n%s\n", submitErr.Message())
		} else {
			fmt.Fprintf(w, "Last submission failed: %v\n", err)
		}
	}

	if len(pending) == 0 {
		fmt.Fprintln(w, "No staged shifts.")
		return
	}

	fmt.Fprintf(w, "\n%d staged shifts:\n", len(pending))
	for _, e := range pending {
		fmt.Fprintf(w, "  %s %s %-10s %s - %s\n", shortKey(e.LocalKey), e.Date, e.Shift, e.StartTime, e.EndTime)
	}
	fmt.Fprintln(w)
}

// resolvePendingKey expands a key prefix to the full local key of a staged entry
func resolvePendingKey(pending []model.PendingShiftEntry, prefix string) (string, error) {
	var matches []string
	for _, e := range pending {
		if e.LocalKey == prefix {
			return e.LocalKey, nil
		}
		if prefix != "" && strings.HasPrefix(e.LocalKey, prefix) {
			matches = append(matches, e.LocalKey)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no staged shift with key %s", prefix)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("key prefix %s matches %d staged shifts", prefix, len(matches))
	}
}

func shortKey(key string) string {
	if len(key) > 8 {
		return key[:8]
	}
	return key
}
