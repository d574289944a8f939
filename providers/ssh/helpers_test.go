package ssh

import (
	"testing"
	"time"

	"github.com/ruffel/sshshell/internal/testserver"
	"github.com/ruffel/sshshell/shelltest"
	"github.com/stretchr/testify/require"
)

const (
	testUser     = "tester"
	testPassword = "hunter2"
)

func startServer(t *testing.T, opts ...testserver.Option) *testserver.Server {
	t.Helper()

	srv, err := testserver.Start(testUser, testPassword, opts...)
	require.NoError(t, err)

	t.Cleanup(func() { _ = srv.Close() })

	return srv
}

func serverConfig(srv *testserver.Server) Config {
	c := NewConfig(srv.Host(), srv.User)
	c.Port = srv.Port()
	c.Password = srv.Password

	return c
}

func newClient(t shelltest.T, srv *testserver.Server, opts ...Option) *Client {
	base := []Option{WithConfig(serverConfig(srv))}

	c, err := New(append(base, opts...)...)
	require.NoError(t, err)

	t.Cleanup(func() { _ = c.Close() })

	return c
}

func awaitTimeout() time.Duration {
	return 5 * time.Second
}
