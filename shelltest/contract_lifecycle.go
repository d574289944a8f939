package shelltest

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lifecycleContracts() []TestCase {
	return []TestCase{
		{
			Category:    CategoryLifecycle,
			Name:        "closed-before-open",
			Description: "A shell that was never opened reports closed",
			Run: func(t T, newShell Factory) {
				assert.True(t, newShell(t).Closed())
			},
		},
		{
			Category:    CategoryLifecycle,
			Name:        "open-reports-running",
			Description: "An opened shell reports not closed until it ends",
			Run: func(t T, newShell Factory) {
				sh := newShell(t)
				open(t, sh)

				assert.False(t, sh.Closed())
			},
		},
		{
			Category:    CategoryLifecycle,
			Name:        "exit-closes",
			Description: "Writing exit ends the shell and Closed eventually reports true",
			Run: func(t T, newShell Factory) {
				sh := newShell(t)
				stdin := open(t, sh)

				send(t, stdin, "exit")
				awaitClosed(t, sh)
				assert.True(t, sh.Closed())
			},
		},
		{
			Category:    CategoryLifecycle,
			Name:        "stdin-eof-closes",
			Description: "Closing the stdin writer ends the shell",
			Run: func(t T, newShell Factory) {
				sh := newShell(t)
				stdin := open(t, sh)

				require.NoError(t, stdin.Close())
				awaitClosed(t, sh)
			},
		},
		{
			Category:    CategoryLifecycle,
			Name:        "close-idempotent",
			Description: "Closing a shell, open or not, more than once is non-fatal",
			Run: func(t T, newShell Factory) {
				sh := newShell(t)
				require.NoError(t, sh.Close())

				open(t, sh)
				require.NoError(t, sh.Close())
				require.NoError(t, sh.Close())
				assert.True(t, sh.Closed())
			},
		},
		{
			Category:    CategoryLifecycle,
			Name:        "reopen",
			Description: "Open after Close starts a working shell",
			Run: func(t T, newShell Factory) {
				sh := newShell(t)
				open(t, sh)
				require.NoError(t, sh.Close())

				stdin := open(t, sh)
				send(t, stdin, "echo shelltest-reopen")
				awaitStdout(t, sh, "shelltest-reopen")
			},
		},
		{
			Category:    CategoryLifecycle,
			Name:        "open-replaces-running",
			Description: "Open while a shell runs replaces it with a new working shell",
			Run: func(t T, newShell Factory) {
				sh := newShell(t)
				first := open(t, sh)

				second := open(t, sh)
				assert.False(t, sh.Closed())

				_, err := first.Write([]byte("echo stale\n"))
				assert.Error(t, err, "writer of the replaced shell must be unusable")

				send(t, second, "echo shelltest-second")
				awaitStdout(t, sh, "shelltest-second")
			},
		},
	}
}
