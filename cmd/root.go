// ABOUTME: Root command for the taskstash CLI
// ABOUTME: Handles global flags and wires the config, transport, auth, and records stack

package cmd

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mstanton/taskstash/internal/api"
	"github.com/mstanton/taskstash/internal/auth"
	"github.com/mstanton/taskstash/internal/config"
	"github.com/mstanton/taskstash/internal/records"
	"github.com/mstanton/taskstash/internal/session"
)

var jsonOutput bool

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "taskstash",
	Short: "CLI for a hosted task collection",
	Long: `taskstash is a command-line client for a hosted record collection service.

Sign in with a one-time email code, then list, add, complete, edit, and
remove tasks in your collection.

Environment Variables:
  TASKSTASH_API_URL      Service endpoint (default: https://reqres.in)
  TASKSTASH_PROJECT_ID   Project id scoping your data and keys
  TASKSTASH_PUBLIC_KEY   Key for requesting login codes
  TASKSTASH_MANAGE_KEY   Key for verifying login codes
  TASKSTASH_COLLECTION   Collection slug (default: todos)

A .env file in the working directory is loaded when present.`,
}

// Execute runs the root command
func Execute() error {
	// Best-effort: absence of a .env file is the normal case.
	_ = godotenv.Load()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// stack holds the wired client components commands operate on.
type stack struct {
	cfg    *config.Config
	client *api.Client
	flow   *auth.Flow
	ctrl   *records.Controller
}

// buildStack resolves configuration and wires the client stack.
func buildStack() *stack {
	cfg := config.Load()
	client := api.New(cfg)
	flow := auth.New(cfg, client, session.DefaultStore())
	return &stack{
		cfg:    cfg,
		client: client,
		flow:   flow,
		ctrl:   records.New(client, flow),
	}
}

// findRecord scans pages for the record with the given id. The service has
// no single-record GET, so this walks listings at the maximum page size.
func findRecord(ctx context.Context, ctrl *records.Controller, id string) (*api.Record, error) {
	page := 1
	for {
		recs, state, err := ctrl.List(ctx, page, records.MaxLimit, records.OrderDesc)
		if err != nil {
			return nil, err
		}
		for i := range recs {
			if recs[i].ID == id {
				return &recs[i], nil
			}
		}
		if page >= state.Pages || len(recs) == 0 {
			return nil, fmt.Errorf("record %q not found", id)
		}
		page++
	}
}
