// ABOUTME: Remove command for the taskstash CLI
// ABOUTME: Deletes a task and prints the refreshed page

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mstanton/taskstash/internal/records"
)

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove a task",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runRemove(ctx, os.Stdout, args[0])
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(rmCmd)
}

// runRemove deletes the record and returns the exit code
func runRemove(ctx context.Context, w io.Writer, id string) int {
	s := buildStack()

	// Walk to the record first so the controller's page state reflects the
	// page it lives on; Delete then re-lists the right page.
	if _, err := findRecord(ctx, s.ctrl, id); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	recs, state, err := s.ctrl.Delete(ctx, id)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	fmt.Fprintf(w, "Removed %s\n", id)
	fmt.Fprint(w, formatRecordsHuman(recs, state, records.FilterAll))
	return 0
}
