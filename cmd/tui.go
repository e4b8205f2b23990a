// ABOUTME: TUI command for the taskstash CLI
// ABOUTME: Launches the interactive task list after verifying the session

package cmd

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mstanton/taskstash/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive task list",
	Run: func(cmd *cobra.Command, args []string) {
		exitCode := runTUI(os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// runTUI launches the bubbletea program and returns the exit code
func runTUI(w io.Writer) int {
	s := buildStack()

	sess, err := s.flow.Current()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	app := tui.New(s.flow, s.ctrl, sess.Email)
	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	return 0
}
