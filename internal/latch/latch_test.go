package latch

import (
	"context"
	"testing"
	"time"

	"github.com/rbright/ue5ctl/internal/osc"
	"github.com/stretchr/testify/require"
)

func TestAwaitReturnsReleasedValue(t *testing.T) {
	l := New()

	go func() {
		time.Sleep(10 * time.Millisecond)
		l.Release(osc.NewMessage("/get/project", "demo"))
	}()

	msg, err := l.Await(context.Background())
	require.NoError(t, err)
	require.Equal(t, "/get/project", msg.Address)
}

func TestReleaseBeforeAwaitBuffers(t *testing.T) {
	l := New()
	l.Release(osc.NewMessage("/get/location", float32(1), float32(2), float32(3)))

	msg, err := l.Await(context.Background())
	require.NoError(t, err)
	require.Equal(t, "/get/location", msg.Address)
}

func TestSecondReleaseOverwrites(t *testing.T) {
	l := New()
	l.Release(osc.NewMessage("/get/project", "stale"))
	l.Release(osc.NewMessage("/get/project", "fresh"))

	msg, err := l.Await(context.Background())
	require.NoError(t, err)
	name, err := msg.String(0)
	require.NoError(t, err)
	require.Equal(t, "fresh", name)
}

func TestAwaitClearsSlot(t *testing.T) {
	l := New()
	l.Release(osc.NewMessage("/get/project", "once"))

	_, err := l.Await(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Await(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAwaitHonorsContext(t *testing.T) {
	l := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := l.Await(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
