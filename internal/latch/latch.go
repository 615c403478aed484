// Package latch provides the single-slot handoff between the receive
// goroutine and the caller blocked on a request/reply operation.
package latch

import (
	"context"

	"github.com/rbright/ue5ctl/internal/osc"
)

// Latch is a one-shot mailbox, not a queue: it holds at most one reply.
// Release with no waiter buffers the value for the next Await; a second
// Release before consumption overwrites the buffered value. The engine
// protocol carries no correlation IDs, so the caller must keep at most one
// request in flight for Await to return the matching reply.
type Latch struct {
	slot chan osc.Message
}

// New constructs an empty latch.
func New() *Latch {
	return &Latch{slot: make(chan osc.Message, 1)}
}

// Release hands a reply to the waiting caller, or buffers it if none is
// waiting yet. Called only from the receive goroutine.
func (l *Latch) Release(m osc.Message) {
	for {
		select {
		case l.slot <- m:
			return
		default:
		}
		// Slot full: drop the stale value and retry. Single producer, so
		// the send after a successful drain cannot race another Release.
		select {
		case <-l.slot:
		default:
		}
	}
}

// Await blocks until a reply is released, then clears the slot and returns
// it. A background context reproduces the protocol's indefinite wait; a
// deadline context turns a missing reply into ctx.Err instead of a hang.
func (l *Latch) Await(ctx context.Context) (osc.Message, error) {
	select {
	case m := <-l.slot:
		return m, nil
	case <-ctx.Done():
		return osc.Message{}, ctx.Err()
	}
}
