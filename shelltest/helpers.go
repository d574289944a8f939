package shelltest

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ruffel/sshshell"
	"github.com/stretchr/testify/require"
)

// contractTimeout bounds every wait in the suite.
const contractTimeout = 10 * time.Second

// open opens sh and registers Close as cleanup.
func open(t T, sh sshshell.Shell) io.WriteCloser {
	stdin, err := sh.Open(t.Context())
	require.NoError(t, err)

	t.Cleanup(func() { _ = sh.Close() })

	return stdin
}

// send writes line followed by a newline.
func send(t T, w io.Writer, line string) {
	_, err := fmt.Fprintln(w, line)
	require.NoError(t, err)
}

// awaitClosed waits until sh reports closed.
func awaitClosed(t T, sh sshshell.Shell) {
	err := sshshell.Await(t.Context(), sshshell.ClosedCondition(sh), sshshell.WithAwaitTimeout(contractTimeout))
	require.NoError(t, err, "shell did not close")
}

// awaitStdout accumulates stdout until it contains want and returns everything read.
func awaitStdout(t T, sh sshshell.Shell, want string) string {
	var got strings.Builder

	cond := func(context.Context) (bool, error) {
		got.WriteString(sh.Stdout())

		return strings.Contains(got.String(), want), nil
	}

	err := sshshell.Await(t.Context(), cond, sshshell.WithAwaitTimeout(contractTimeout))
	require.NoError(t, err, "stdout never contained %q, got %q", want, got.String())

	return got.String()
}
