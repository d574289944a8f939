package shelltest

import (
	"github.com/stretchr/testify/assert"
)

func outputContracts() []TestCase {
	return []TestCase{
		{
			Category:    CategoryOutput,
			Name:        "empty-before-open",
			Description: "Stdout and Stderr are empty before any shell was opened",
			Run: func(t T, newShell Factory) {
				sh := newShell(t)

				assert.Empty(t, sh.Stdout())
				assert.Empty(t, sh.Stderr())
			},
		},
		{
			Category:    CategoryOutput,
			Name:        "echo-roundtrip",
			Description: "Output of a command shows up in Stdout",
			Run: func(t T, newShell Factory) {
				sh := newShell(t)
				stdin := open(t, sh)

				send(t, stdin, "echo shelltest-echo")
				awaitStdout(t, sh, "shelltest-echo")
			},
		},
		{
			Category:    CategoryOutput,
			Name:        "output-complete-after-close",
			Description: "Everything written before exit is readable once the shell reports closed",
			Run: func(t T, newShell Factory) {
				sh := newShell(t)
				stdin := open(t, sh)

				send(t, stdin, "echo shelltest-last-words")
				send(t, stdin, "exit")
				awaitClosed(t, sh)

				assert.Contains(t, sh.Stdout(), "shelltest-last-words")
			},
		},
		{
			Category:    CategoryOutput,
			Name:        "read-resets",
			Description: "Reading returns accumulated output once; a second read after the shell ended is empty",
			Run: func(t T, newShell Factory) {
				sh := newShell(t)
				stdin := open(t, sh)

				send(t, stdin, "echo shelltest-once")
				send(t, stdin, "exit")
				awaitClosed(t, sh)

				assert.Contains(t, sh.Stdout(), "shelltest-once")
				assert.Empty(t, sh.Stdout())
				_ = sh.Stderr()
				assert.Empty(t, sh.Stderr())
			},
		},
	}
}
