package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/medconnect/scheduling/pkg/core/services"
)

// InteractiveCmd creates the interactive command
func InteractiveCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Start an interactive session (staged shifts and selections persist between commands)",
		Long: `Start an interactive session where staged shifts and appointment selections
carry over from one command to the next. Expired availability is reaped in the
background when the session starts.

Type 'help' to see available commands, 'exit' or 'quit' to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The background reap reports on the same writer as the session
			out := &lockedWriter{w: cmd.OutOrStdout()}
			fmt.Fprintln(out, "\n🚀 Starting interactive session...")
			fmt.Fprintln(out, "Type 'help' for available commands, 'exit' or 'quit' to leave")

			services.ReapInBackground(app.Ctx, app.Store, app.Logger, app.Today(), func(removed int) {
				fmt.Fprintf(out, "\n🧹 Removed %d expired shifts\n> ", removed)
			})

			rootCmd := cmd.Parent()
			commands := make(map[string]*cobra.Command)
			for _, subCmd := range rootCmd.Commands() {
				if subCmd.Name() != "interactive" && subCmd.Name() != "completion" && subCmd.Name() != "help" {
					commands[subCmd.Name()] = subCmd
				}
			}

			return runSession(os.Stdin, out, commands)
		},
	}
}

// lockedWriter serialises writes from the session and background work
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// runSession reads commands line by line and dispatches them to the matching
// cobra command's RunE, skipping PersistentPreRunE so the app is not re-initialised
func runSession(in io.Reader, out io.Writer, commands map[string]*cobra.Command) error {
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, "> ")

		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts, err := parseCommandLine(line)
		if err != nil {
			fmt.Fprintf(out, "❌ Error parsing command: %v\n\n", err)
			continue
		}
		if len(parts) == 0 {
			continue
		}
		cmdName := parts[0]
		cmdArgs := parts[1:]

		if cmdName == "exit" || cmdName == "quit" {
			fmt.Fprintln(out, "👋 Goodbye!")
			return nil
		}

		if cmdName == "help" {
			printInteractiveHelp(out, commands)
			continue
		}

		targetCmd, exists := commands[cmdName]
		if !exists {
			fmt.Fprintf(out, "❌ Unknown command: %s (type 'help' for available commands)\n\n", cmdName)
			continue
		}

		// Flags keep their values between runs unless reset
		targetCmd.Flags().VisitAll(func(flag *pflag.Flag) {
			flag.Changed = false
			flag.Value.Set(flag.DefValue)
		})

		if err := targetCmd.ParseFlags(cmdArgs); err != nil {
			fmt.Fprintf(out, "❌ Error parsing flags: %v\n\n", err)
			continue
		}
		cmdArgs = targetCmd.Flags().Args()

		if targetCmd.Args != nil {
			if err := targetCmd.Args(targetCmd, cmdArgs); err != nil {
				fmt.Fprintf(out, "❌ Error: %v\n\n", err)
				continue
			}
		}

		targetCmd.SetOut(out)
		if targetCmd.RunE != nil {
			if err := targetCmd.RunE(targetCmd, cmdArgs); err != nil {
				fmt.Fprintf(out, "❌ Error: %v\n\n", err)
			}
		} else if targetCmd.Run != nil {
			targetCmd.Run(targetCmd, cmdArgs)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}

	return nil
}

func printInteractiveHelp(w io.Writer, commands map[string]*cobra.Command) {
	fmt.Fprintln(w, "\nAvailable commands:")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		cmd := commands[name]
		fmt.Fprintf(w, "  %-60s %s\n", cmd.Use, cmd.Short)
	}

	fmt.Fprintln(w, "\n  help                                                         Show this help message")
	fmt.Fprintln(w, "  exit, quit                                                   Exit the interactive session")
}

// parseCommandLine splits a command line into arguments, respecting single and double quotes
func parseCommandLine(line string) ([]string, error) {
	var args []string
	var current strings.Builder
	var inQuote rune

	for _, r := range line {
		switch {
		case inQuote != 0:
			if r == inQuote {
				inQuote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			inQuote = r
		case unicode.IsSpace(r):
			if current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}

	if inQuote != 0 {
		return nil, fmt.Errorf("unclosed quote: %c", inQuote)
	}
	if current.Len() > 0 {
		args = append(args, current.String())
	}

	return args, nil
}
