package sshshell_test

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ruffel/sshshell"
	"github.com/ruffel/sshshell/providers/mock"
	"github.com/ruffel/sshshell/providers/ssh"
	testifymock "github.com/stretchr/testify/mock"
)

func ExampleShell_ssh() {
	client, err := ssh.New(
		ssh.WithHost("192.0.2.10"),
		ssh.WithUser("admin"),
		ssh.WithPassword("admin"),
	)
	if err != nil {
		log.Fatal(err)
	}

	defer func() { _ = client.Close() }()

	ctx := context.Background()

	stdin, err := client.Open(ctx)
	if err != nil {
		log.Fatal(err)
	}

	_, _ = fmt.Fprintln(stdin, "uname -a")
	_, _ = fmt.Fprintln(stdin, "exit")

	// Output is copied as it arrives; once Closed reports true all of it is buffered.
	if err := sshshell.Await(ctx, client.ShellClosed(), sshshell.WithAwaitTimeout(10*time.Second)); err != nil {
		log.Fatal(err)
	}

	fmt.Print(client.Stdout())
}

func ExampleAwait() {
	// A mock shell that ends on the third poll.
	sh := mock.New()
	sh.On("Closed").Return(false).Twice()
	sh.On("Closed").Return(true)

	err := sshshell.Await(context.Background(), sshshell.ClosedCondition(sh), sshshell.WithPollInterval(time.Millisecond))
	fmt.Println(err)

	// Output: <nil>
}

func ExampleShell_mock() {
	sh := mock.New()
	stdin := mock.NewRecorder()

	sh.On("Open", testifymock.Anything).Return(stdin, nil)
	sh.On("Stdout").Return("Linux\n")

	w, err := sh.Open(context.Background())
	if err != nil {
		log.Fatal(err)
	}

	_, _ = fmt.Fprintln(w, "uname")

	fmt.Printf("sent %q, got %q\n", stdin.String(), sh.Stdout())

	// Output: sent "uname\n", got "Linux\n"
}

func ExampleParseAddress() {
	for _, s := range []string{"example.com", "example.com:2222", "[2001:db8::1]:22", "2001:db8::1"} {
		addr, err := sshshell.ParseAddress(s)
		if err != nil {
			log.Fatal(err)
		}

		fmt.Println(addr)
	}

	// Output:
	// example.com:22
	// example.com:2222
	// [2001:db8::1]:22
	// [2001:db8::1]:22
}

func ExampleValidateLine() {
	fmt.Println(sshshell.ValidateLine(`echo "hello world"`) == nil)
	fmt.Println(sshshell.ValidateLine(`echo "unterminated`) == nil)

	// Output:
	// true
	// false
}

func Example_sshConfigReader() {
	// Example of loading SSH config from a string (or file)
	configContent := `
Host prod-db
  HostName 10.0.0.5
  User admin
  Port 2222
`
	// Parse the config
	cfg, err := ssh.NewFromSSHConfigReader("prod-db", strings.NewReader(configContent))
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Host: %s\n", cfg.Host)
	fmt.Printf("User: %s\n", cfg.User)
	fmt.Printf("Port: %d\n", cfg.Port)

	// Output:
	// Host: 10.0.0.5
	// User: admin
	// Port: 2222
}
