package osc

import (
	"fmt"
	"log/slog"
)

// HandlerFunc consumes one decoded message for a single address.
type HandlerFunc func(Message)

// Dispatcher routes decoded messages to per-address handlers. The protocol
// has no capability negotiation, so unmatched addresses are dropped rather
// than surfaced as errors. Registration must finish before the listener
// starts feeding Dispatch; the handler map is not guarded after that.
type Dispatcher struct {
	logger   *slog.Logger
	handlers map[string]HandlerFunc
}

// NewDispatcher constructs an empty dispatcher logging through logger.
func NewDispatcher(logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		logger:   logger,
		handlers: make(map[string]HandlerFunc),
	}
}

// Handle registers the handler for one exact address.
func (d *Dispatcher) Handle(address string, handler HandlerFunc) error {
	if err := validAddress(address); err != nil {
		return err
	}
	if handler == nil {
		return fmt.Errorf("handler for %q must not be nil", address)
	}
	if _, exists := d.handlers[address]; exists {
		return fmt.Errorf("handler for %q already registered", address)
	}
	d.handlers[address] = handler
	return nil
}

// Dispatch decodes one datagram and invokes the matching handler on the
// calling goroutine. Malformed packets and unmatched addresses are logged
// and dropped; the caller's receive loop always continues.
func (d *Dispatcher) Dispatch(datagram []byte) {
	msg, err := Decode(datagram)
	if err != nil {
		d.logger.Debug("dropping malformed packet", "error", err.Error(), "bytes", len(datagram))
		return
	}
	handler, ok := d.handlers[msg.Address]
	if !ok {
		d.logger.Debug("dropping unmatched address", "address", msg.Address)
		return
	}
	handler(msg)
}
