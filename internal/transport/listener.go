// Package transport owns the two UDP sockets of a session: a bound listener
// feeding the dispatcher and a connected sender for outbound commands.
package transport

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/rbright/ue5ctl/internal/osc"
)

// maxDatagram comfortably covers every message the bridge protocol sends.
const maxDatagram = 2048

// Listener binds the local receive port and pumps every inbound datagram
// into the dispatcher from one dedicated goroutine.
type Listener struct {
	logger     *slog.Logger
	conn       *net.UDPConn
	dispatcher *osc.Dispatcher

	mu      sync.Mutex
	started bool
	stopped bool
	done    chan struct{}
}

// Listen binds addr ("host:port"). A bind failure (port in use, bad host)
// is fatal at construction; the caller cannot proceed without the socket.
func Listen(addr string, dispatcher *osc.Dispatcher, logger *slog.Logger) (*Listener, error) {
	if dispatcher == nil {
		return nil, errors.New("dispatcher must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("resolve listen address %q: %w", addr, err)
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return nil, fmt.Errorf("bind %q: %w", addr, err)
	}

	return &Listener{
		logger:     logger,
		conn:       conn,
		dispatcher: dispatcher,
		done:       make(chan struct{}),
	}, nil
}

// LocalAddr returns the bound address, including the resolved port when the
// listener was bound to port 0.
func (l *Listener) LocalAddr() net.Addr {
	return l.conn.LocalAddr()
}

// Start launches the receive goroutine. Handlers must already be registered
// on the dispatcher.
func (l *Listener) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped {
		return errors.New("listener already stopped")
	}
	if l.started {
		return errors.New("listener already started")
	}
	l.started = true

	go l.receiveLoop()
	return nil
}

// Stop closes the socket and joins the receive goroutine before returning,
// so no receiver outlives the session. Safe to call more than once.
func (l *Listener) Stop() error {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return nil
	}
	l.stopped = true
	started := l.started
	l.mu.Unlock()

	err := l.conn.Close()
	if started {
		<-l.done
	}
	return err
}

// receiveLoop blocks on the socket between packets; closing the socket is
// the only way it exits.
func (l *Listener) receiveLoop() {
	defer close(l.done)

	buf := make([]byte, maxDatagram)
	for {
		n, from, err := l.conn.ReadFromUDP(buf)
		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				l.logger.Warn("receive loop exiting", "error", err.Error())
			}
			return
		}
		l.logger.Debug("packet received", "from", from.String(), "bytes", n)
		l.dispatcher.Dispatch(buf[:n])
	}
}
