// ABOUTME: Logout command for the taskstash CLI
// ABOUTME: Clears the persisted session; purely local, never contacts the service

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and discard the local session",
	Run: func(cmd *cobra.Command, args []string) {
		runLogout(os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

// runLogout clears the session. Always succeeds; clearing twice is a no-op.
func runLogout(w io.Writer) {
	s := buildStack()
	s.flow.SignOut()
	fmt.Fprintln(w, "Signed out.")
}
