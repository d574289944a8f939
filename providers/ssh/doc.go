// Package ssh provides an implementation of the sshshell.Shell interface
// for remote servers via the SSH protocol.
//
// It utilizes "golang.org/x/crypto/ssh" for the transport and provides:
//   - Password authentication (also answering keyboard-interactive prompts)
//   - A login shell on a PTY, opened under a single timeout
//   - Non-blocking reads of accumulated stdout/stderr
//   - A polled closed check and a boolean connectivity probe
//
// Host keys are not verified.
//
// Usage:
//
//	client, err := ssh.New(ssh.WithHost("example.com"), ssh.WithUser("admin"), ssh.WithPassword("secret"))
//	stdin, err := client.Open(ctx)
//	fmt.Fprintln(stdin, "uptime")
//	fmt.Fprintln(stdin, "exit")
//	err = sshshell.Await(ctx, client.ShellClosed())
//	fmt.Print(client.Stdout())
package ssh
