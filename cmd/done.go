// ABOUTME: Done command for the taskstash CLI
// ABOUTME: Toggles a task's completion flag by id

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var doneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Toggle a task's completion",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runDone(ctx, os.Stdout, args[0])
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(doneCmd)
}

// runDone toggles the record and returns the exit code
func runDone(ctx context.Context, w io.Writer, id string) int {
	s := buildStack()

	rec, err := findRecord(ctx, s.ctrl, id)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	updated, err := s.ctrl.Toggle(ctx, *rec)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	fmt.Fprintln(w, formatRecordLine(*updated))
	return 0
}
