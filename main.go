// ABOUTME: Entry point for the taskstash CLI
// ABOUTME: Command-line client for a hosted task collection service

package main

import (
	"fmt"
	"os"

	"github.com/mstanton/taskstash/cmd"
	"github.com/mstanton/taskstash/internal/logger"
)

func main() {
	logger.Init()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
