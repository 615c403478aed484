package transport

import (
	"context"
	"fmt"
	"net"

	"golang.org/x/time/rate"

	"github.com/rbright/ue5ctl/internal/osc"
)

// Sender transmits commands to the engine endpoint fixed at construction.
// Sends are fire-and-forget: no delivery confirmation, no retries.
type Sender struct {
	conn    *net.UDPConn
	limiter *rate.Limiter
}

// Dial connects a UDP socket to the engine's command port. perSecond > 0
// paces outbound commands so scripted drives cannot flood the engine's
// receive buffer; 0 disables pacing.
func Dial(addr string, perSecond float64) (*Sender, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("resolve engine address %q: %w", addr, err)
	}
	conn, err := net.DialUDP("udp", nil, udpAddr)
	if err != nil {
		return nil, fmt.Errorf("dial %q: %w", addr, err)
	}

	var limiter *rate.Limiter
	if perSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
	return &Sender{conn: conn, limiter: limiter}, nil
}

// Send encodes and transmits one datagram. Beyond an optional pacing wait
// it never blocks past OS socket buffering.
func (s *Sender) Send(ctx context.Context, m osc.Message) error {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("pace %s: %w", m.Address, err)
		}
	}
	data, err := osc.Encode(m)
	if err != nil {
		return fmt.Errorf("encode %s: %w", m.Address, err)
	}
	if _, err := s.conn.Write(data); err != nil {
		return fmt.Errorf("send %s: %w", m.Address, err)
	}
	return nil
}

// Close releases the transmit socket.
func (s *Sender) Close() error {
	return s.conn.Close()
}
