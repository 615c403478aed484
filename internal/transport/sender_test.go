package transport

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/rbright/ue5ctl/internal/osc"
	"github.com/stretchr/testify/require"
)

// listenPacket opens a loopback UDP socket that captures one datagram.
func listenPacket(t *testing.T) (net.Addr, <-chan []byte) {
	t.Helper()
	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	out := make(chan []byte, 4)
	go func() {
		buf := make([]byte, maxDatagram)
		for {
			n, _, err := conn.ReadFrom(buf)
			if err != nil {
				return
			}
			out <- append([]byte(nil), buf[:n]...)
		}
	}()
	return conn.LocalAddr(), out
}

func recvMessage(t *testing.T, ch <-chan []byte) osc.Message {
	t.Helper()
	select {
	case data := <-ch:
		msg, err := osc.Decode(data)
		require.NoError(t, err)
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("no datagram received")
		return osc.Message{}
	}
}

func TestSendTransmitsOneDatagram(t *testing.T) {
	addr, ch := listenPacket(t)

	s, err := Dial(addr.String(), 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Send(context.Background(), osc.NewMessage("/turn/left", float32(90))))

	msg := recvMessage(t, ch)
	require.Equal(t, "/turn/left", msg.Address)
	deg, err := msg.Float(0)
	require.NoError(t, err)
	require.Equal(t, float32(90), deg)
}

func TestSendRejectsUnencodableMessage(t *testing.T) {
	addr, _ := listenPacket(t)

	s, err := Dial(addr.String(), 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	err = s.Send(context.Background(), osc.NewMessage("/set/location", 1.0))
	require.Error(t, err)
}

func TestDialBadAddress(t *testing.T) {
	_, err := Dial("not-an-address", 0)
	require.Error(t, err)
}

func TestSendPacingHonorsContext(t *testing.T) {
	addr, _ := listenPacket(t)

	s, err := Dial(addr.String(), 1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	// First send consumes the only token; the second must wait and observe
	// the already-cancelled context.
	require.NoError(t, s.Send(context.Background(), osc.NewMessage("/reset", float32(0))))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = s.Send(ctx, osc.NewMessage("/reset", float32(0)))
	require.Error(t, err)
}
