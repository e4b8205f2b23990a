// ABOUTME: Whoami command showing the signed-in operator's profile
// ABOUTME: Fetches the profile and project operator count in parallel

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
	"golang.org/x/sync/errgroup"

	"github.com/mstanton/taskstash/internal/api"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in operator profile",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runWhoami(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

// runWhoami fetches profile and operator count and returns the exit code
func runWhoami(ctx context.Context, w io.Writer) int {
	s := buildStack()

	var (
		profile  *api.Profile
		total    int
		totalErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.flow.Profile(gctx)
		profile = p
		return err
	})
	g.Go(func() error {
		// Count is informational only; its failure must not mask the profile.
		total, totalErr = s.client.TotalAppUsers(gctx)
		return nil
	})

	if err := g.Wait(); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		out := map[string]any{"profile": profile}
		if totalErr == nil {
			out["project_operators"] = total
		}
		data, _ := json.MarshalIndent(out, "", "  ")
		fmt.Fprintln(w, string(data))
		return 0
	}

	fmt.Fprint(w, formatProfileHuman(profile))
	if totalErr == nil {
		fmt.Fprintf(w, "Operators:  %d in this project\n", total)
	}
	return 0
}

// formatProfileHuman formats the operator profile for human readability
func formatProfileHuman(profile *api.Profile) string {
	out := fmt.Sprintf("Email:      %s\nOperator:   %d\nProject:    %d\n",
		profile.Email, profile.ID, profile.ProjectID)
	if profile.Status != "" {
		out += fmt.Sprintf("Status:     %s\n", profile.Status)
	}
	return out
}
