package testserver

import (
	"net"
	"sync"
)

// Blackhole accepts TCP connections and never writes to them, so an SSH
// handshake against it hangs until the client gives up.
type Blackhole struct {
	ln net.Listener
	wg sync.WaitGroup

	mu    sync.Mutex
	conns []net.Conn
}

// StartBlackhole listens on 127.0.0.1 on a free port.
func StartBlackhole() (*Blackhole, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}

	b := &Blackhole{ln: ln}
	b.wg.Add(1)

	go func() {
		defer b.wg.Done()

		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}

			b.mu.Lock()
			b.conns = append(b.conns, conn)
			b.mu.Unlock()
		}
	}()

	return b, nil
}

// Host returns the listening IP.
func (b *Blackhole) Host() string {
	return b.ln.Addr().(*net.TCPAddr).IP.String()
}

// Port returns the listening port.
func (b *Blackhole) Port() int {
	return b.ln.Addr().(*net.TCPAddr).Port
}

// Close stops listening and drops held connections.
func (b *Blackhole) Close() error {
	err := b.ln.Close()
	b.wg.Wait()

	b.mu.Lock()
	for _, conn := range b.conns {
		_ = conn.Close()
	}
	b.mu.Unlock()

	return err
}
