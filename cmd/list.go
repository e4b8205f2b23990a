// ABOUTME: List command for the taskstash CLI
// ABOUTME: Fetches one page of records with optional local completion filtering

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mstanton/taskstash/internal/api"
	"github.com/mstanton/taskstash/internal/records"
)

var (
	listPage   int
	listLimit  int
	listOrder  string
	listFilter string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long: `List one page of tasks, newest first by default.

The --filter flag is applied locally to the fetched page: it narrows what
is shown, not what the service returns.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runList(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().IntVar(&listPage, "page", 1, "Page to fetch")
	listCmd.Flags().IntVar(&listLimit, "limit", records.DefaultLimit, "Records per page (1-100)")
	listCmd.Flags().StringVar(&listOrder, "order", records.OrderDesc, "Order by creation time: asc or desc")
	listCmd.Flags().StringVar(&listFilter, "filter", string(records.FilterAll), "Show all, active, or completed")
}

// runList fetches and prints one page and returns the exit code
func runList(ctx context.Context, w io.Writer) int {
	s := buildStack()

	recs, state, err := s.ctrl.List(ctx, listPage, listLimit, listOrder)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	shown := records.Apply(recs, records.Filter(listFilter))

	if IsJSONOutput() {
		out := struct {
			Records []api.Record      `json:"records"`
			Page    records.PageState `json:"page"`
		}{Records: shown, Page: state}
		data, _ := json.MarshalIndent(out, "", "  ")
		fmt.Fprintln(w, string(data))
		return 0
	}

	fmt.Fprint(w, formatRecordsHuman(shown, state, records.Filter(listFilter)))
	return 0
}

// formatRecordsHuman renders one page of records as lines plus a footer
func formatRecordsHuman(recs []api.Record, state records.PageState, filter records.Filter) string {
	out := ""
	if len(recs) == 0 {
		out = "No tasks.\n"
	}
	for _, r := range recs {
		out += formatRecordLine(r) + "\n"
	}
	out += fmt.Sprintf("page %d of %d (%d records", state.Page, state.Pages, state.Total)
	if filter != records.FilterAll && filter != "" {
		out += fmt.Sprintf(", showing %s", filter)
	}
	out += ")\n"
	return out
}

// formatRecordLine renders one record as a checkbox line
func formatRecordLine(r api.Record) string {
	mark := " "
	if r.Completed {
		mark = "x"
	}
	line := fmt.Sprintf("[%s] %s  %s", mark, r.ID, r.Title)
	if r.Notes != "" {
		line += fmt.Sprintf(" (%s)", r.Notes)
	}
	return line
}
