// ABOUTME: Edit command for the taskstash CLI
// ABOUTME: Replaces a task's fields, defaulting unchanged fields from the current record

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mstanton/taskstash/internal/api"
)

var (
	editTitle     string
	editNotes     string
	editCompleted bool
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a task",
	Long: `Edit a task's fields. The service replaces the whole record, so fields you
do not pass keep their current values.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runEdit(ctx, os.Stdout, args[0], cmd)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().StringVar(&editTitle, "title", "", "New title")
	editCmd.Flags().StringVar(&editNotes, "notes", "", "New notes")
	editCmd.Flags().BoolVar(&editCompleted, "completed", false, "New completion state")
}

// runEdit updates the record and returns the exit code
func runEdit(ctx context.Context, w io.Writer, id string, cmd *cobra.Command) int {
	s := buildStack()

	rec, err := findRecord(ctx, s.ctrl, id)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	fields := api.Fields{Title: rec.Title, Notes: rec.Notes, Completed: rec.Completed}
	if cmd.Flags().Changed("title") {
		fields.Title = editTitle
	}
	if cmd.Flags().Changed("notes") {
		fields.Notes = editNotes
	}
	if cmd.Flags().Changed("completed") {
		fields.Completed = editCompleted
	}

	updated, err := s.ctrl.Update(ctx, id, fields)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	fmt.Fprintln(w, formatRecordLine(*updated))
	return 0
}
