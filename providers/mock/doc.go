// Package mock provides a controllable implementation of sshshell.Shell
// for testing purposes.
//
// It allows defining expectations for opening, reading and closing a shell,
// enabling deterministic unit tests for code that drives a remote shell.
//
// Usage:
//
//	m := mock.New()
//	m.On("Open", testifymock.Anything).Return(mock.NewRecorder(), nil)
//	m.On("Stdout").Return("uptime: 3 days\n")
//	// pass 'm' to your logic
package mock
