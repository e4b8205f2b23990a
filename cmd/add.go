// ABOUTME: Add command for the taskstash CLI
// ABOUTME: Creates a task then re-lists page 1 so the view matches the server

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mstanton/taskstash/internal/api"
	"github.com/mstanton/taskstash/internal/records"
)

var addNotes string

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a task",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runAdd(ctx, os.Stdout, strings.Join(args, " "))
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVar(&addNotes, "notes", "", "Notes for the task")
}

// runAdd creates the task and returns the exit code
func runAdd(ctx context.Context, w io.Writer, title string) int {
	s := buildStack()

	rec, err := s.ctrl.Create(ctx, api.Fields{Title: title, Notes: addNotes})
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	fmt.Fprintf(w, "Added %s\n", rec.ID)

	// The new record's page position is unknown; show a fresh first page.
	recs, state, err := s.ctrl.List(ctx, 1, records.DefaultLimit, records.OrderDesc)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	fmt.Fprint(w, formatRecordsHuman(recs, state, records.FilterAll))
	return 0
}
