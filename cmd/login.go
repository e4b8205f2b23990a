// ABOUTME: Login command driving the two-step one-time-code handshake
// ABOUTME: Requests a code for an email address, then verifies it into a session

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var loginCode string

var loginCmd = &cobra.Command{
	Use:   "login [email]",
	Short: "Sign in with a one-time email code",
	Long: `Request a one-time login code for the given email address and exchange it
for a session.

Without --code the command requests a fresh code and prompts for it. With
--code it skips the request step and verifies the given code directly.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		email := ""
		if len(args) > 0 {
			email = args[0]
		}
		exitCode := runLogin(ctx, os.Stdout, email, loginCode)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVar(&loginCode, "code", "", "Verify this one-time code instead of requesting a new one")
}

// runLogin executes the login handshake and returns the exit code
func runLogin(ctx context.Context, w io.Writer, email, code string) int {
	s := buildStack()

	if code == "" {
		if email == "" {
			if err := promptInput("Email address", &email); err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
				return 2
			}
		}

		result, err := s.flow.RequestCode(ctx, email)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}

		if result.Issued {
			fmt.Fprintf(w, "A one-time code was sent to %s", email)
			if result.ExpiresInMinutes > 0 {
				fmt.Fprintf(w, " (valid for %d minutes)", result.ExpiresInMinutes)
			}
			fmt.Fprintln(w)
		}
		// Test-mode backends return the code inline instead of delivering it.
		if result.Code != "" {
			fmt.Fprintf(w, "Code: %s\n", result.Code)
		}
		if result.DeliveryLink != "" {
			fmt.Fprintf(w, "Link: %s\n", result.DeliveryLink)
		}

		if err := promptInput("One-time code", &code); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
	}

	sess, err := s.flow.VerifyCode(ctx, code)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	fmt.Fprintf(w, "Signed in as %s (session expires %s)\n", sess.Email, sess.ExpiresAt)
	return 0
}

// promptInput asks for one line of input via a huh form
func promptInput(title string, value *string) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Value(value),
		),
	).WithTheme(huh.ThemeBase())
	return form.Run()
}
