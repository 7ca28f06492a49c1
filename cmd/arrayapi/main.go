// Package main provides the arrayapi CLI: promotion, casting, broadcasting
// and operation catalog queries against the array namespace.
package main

import (
	"fmt"
	"os"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(exitUserError)
	}
	os.Exit(exitSuccess)
}
