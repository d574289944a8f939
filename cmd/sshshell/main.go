// Command sshshell opens an interactive shell on a remote host over SSH.
//
//	sshshell probe --host example.com --user admin
//	sshshell exec --host example.com --user admin -- uptime "df -h"
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	err := newRootCmd(&globalOptions{prompt: promptPassword}).Execute()
	if err == nil {
		return
	}

	var exitErr *exitCodeError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.code)
	}

	if !errors.Is(err, errUnreachable) {
		_, _ = fmt.Fprintln(os.Stderr, errorStyle.Render("❌ "+err.Error()))
	}

	os.Exit(1)
}
