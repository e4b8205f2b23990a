// ABOUTME: Status command for the taskstash CLI
// ABOUTME: Reports configuration readiness and the current session state

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and session status",
	Long: `Display which configuration items are set and whether a valid session exists.

Exit codes:
  0 - Configuration complete
  1 - One or more configuration items missing`,
	Run: func(cmd *cobra.Command, args []string) {
		exitCode := runStatus(os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// statusReport is the JSON shape of the status output
type statusReport struct {
	APIURL     string   `json:"api_url"`
	Collection string   `json:"collection"`
	Ready      bool     `json:"ready"`
	Warnings   []string `json:"warnings,omitempty"`
	SignedIn   bool     `json:"signed_in"`
	Email      string   `json:"email,omitempty"`
	ExpiresAt  string   `json:"expires_at,omitempty"`
}

// runStatus prints the status report and returns the exit code
func runStatus(w io.Writer) int {
	s := buildStack()

	report := statusReport{
		APIURL:     s.cfg.APIURL,
		Collection: s.cfg.Collection,
		Ready:      s.cfg.Ready(),
		Warnings:   s.cfg.Warnings(),
	}
	if sess, err := s.flow.Current(); err == nil {
		report.SignedIn = true
		report.Email = sess.Email
		report.ExpiresAt = sess.ExpiresAt
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(report, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprint(w, formatStatusHuman(report))
	}

	if !report.Ready {
		return 1
	}
	return 0
}

// formatStatusHuman formats the status report for human readability
func formatStatusHuman(report statusReport) string {
	out := fmt.Sprintf("Endpoint:   %s\nCollection: %s\n", report.APIURL, report.Collection)

	if report.Ready {
		out += "Config:     complete\n"
	} else {
		out += "Config:     incomplete\n"
		for _, warning := range report.Warnings {
			out += fmt.Sprintf("  - %s\n", warning)
		}
	}

	if report.SignedIn {
		out += fmt.Sprintf("Session:    %s (expires %s)\n", report.Email, report.ExpiresAt)
	} else {
		out += "Session:    not signed in\n"
	}
	return out
}
