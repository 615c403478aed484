// Package session composes the sender, listener, and reply latch behind the
// domain operations used to drive a running UE5 simulation.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/rbright/ue5ctl/internal/config"
	"github.com/rbright/ue5ctl/internal/latch"
	"github.com/rbright/ue5ctl/internal/osc"
	"github.com/rbright/ue5ctl/internal/transport"
)

// Engine message addresses. The set is fixed by the UE5 OSC bridge and not
// extensible at runtime.
const (
	addrGetProject  = "/get/project"
	addrGetLocation = "/get/location"
	addrGetRotation = "/get/rotation"
	addrSetLocation = "/set/location"
	addrSetRotation = "/set/rotation"
	addrMoveForward = "/move/forward"
	addrTurnLeft    = "/turn/left"
	addrTurnRight   = "/turn/right"
	addrSaveImage   = "/save/image"
	addrScreenshot  = "/screenshot"
	addrReset       = "/reset"
)

// dummyPayload pads request messages whose address alone carries the intent.
const dummyPayload = float32(0)

// ErrRequestInFlight rejects a second request/reply operation while one is
// still waiting. The protocol has no correlation IDs, so overlapping
// requests could never be matched to their replies.
var ErrRequestInFlight = errors.New("another request is awaiting its reply")

// Location is a player position in engine world units.
type Location struct {
	X, Y, Z float32
}

// Rotation is a player orientation in degrees. Field order mirrors the
// engine's /get/rotation reply tuple: roll, pitch, yaw.
type Rotation struct {
	Roll, Pitch, Yaw float32
}

// Session is the public surface for one engine connection. Operations are
// synchronous from the caller's perspective; exactly one background
// goroutine receives replies for the session's lifetime. Not safe for
// concurrent use by multiple goroutines.
type Session struct {
	logger   *slog.Logger
	sender   *transport.Sender
	listener *transport.Listener
	replies  *latch.Latch

	replyTimeout time.Duration
	imageDir     string
	imageSettle  time.Duration
	resetSettle  time.Duration

	inflight   atomic.Bool
	closed     atomic.Bool
	imageCount int

	// sleep implements settle delays; swapped out in tests.
	sleep func(time.Duration)
}

// New dials the engine, binds the local receive port, and starts the
// receive goroutine. Transport setup failure is fatal: the caller gets an
// error and no session. The caller must Close the session to release both
// sockets and join the receiver.
func New(cfg config.Config, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Session{
		logger:       logger,
		replies:      latch.New(),
		replyTimeout: time.Duration(cfg.Reply.TimeoutMS) * time.Millisecond,
		imageDir:     cfg.Images.Dir,
		imageSettle:  time.Duration(cfg.Images.SettleMS) * time.Millisecond,
		resetSettle:  time.Duration(cfg.Reset.SettleMS) * time.Millisecond,
		sleep:        time.Sleep,
	}

	dispatcher := osc.NewDispatcher(logger)
	for _, address := range []string{addrGetProject, addrGetLocation, addrGetRotation} {
		if err := dispatcher.Handle(address, s.replies.Release); err != nil {
			return nil, err
		}
	}

	listener, err := transport.Listen(":"+strconv.Itoa(cfg.Engine.ReceivePort), dispatcher, logger)
	if err != nil {
		return nil, fmt.Errorf("listen for replies: %w", err)
	}

	sender, err := transport.Dial(
		net.JoinHostPort(cfg.Engine.Host, strconv.Itoa(cfg.Engine.SendPort)),
		cfg.Pacing.CommandsPerSecond,
	)
	if err != nil {
		_ = listener.Stop()
		return nil, fmt.Errorf("dial engine: %w", err)
	}

	s.listener = listener
	s.sender = sender

	if err := listener.Start(); err != nil {
		_ = sender.Close()
		_ = listener.Stop()
		return nil, err
	}

	logger.Info("session open",
		"engine", net.JoinHostPort(cfg.Engine.Host, strconv.Itoa(cfg.Engine.SendPort)),
		"listen", listener.LocalAddr().String(),
	)
	return s, nil
}

// Close stops the listener, joins its goroutine, and releases both sockets.
// Safe to call more than once.
func (s *Session) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return errors.Join(s.listener.Stop(), s.sender.Close())
}

// ReceiveAddr returns the bound reply address, including the resolved port
// when the session was configured with port 0.
func (s *Session) ReceiveAddr() net.Addr {
	return s.listener.LocalAddr()
}

// ProjectName asks the engine for the name of the loaded project.
func (s *Session) ProjectName(ctx context.Context) (string, error) {
	reply, err := s.request(ctx, addrGetProject)
	if err != nil {
		return "", err
	}
	name, err := reply.String(0)
	if err != nil {
		return "", fmt.Errorf("project reply: %w", err)
	}
	return name, nil
}

// PlayerLocation returns the player's x, y, z position.
func (s *Session) PlayerLocation(ctx context.Context) (Location, error) {
	reply, err := s.request(ctx, addrGetLocation)
	if err != nil {
		return Location{}, err
	}
	floats, err := reply.Floats()
	if err != nil || len(floats) != 3 {
		return Location{}, fmt.Errorf("location reply: want 3 floats, got %v", reply.Args)
	}
	return Location{X: floats[0], Y: floats[1], Z: floats[2]}, nil
}

// PlayerRotation returns the player's orientation as (roll, pitch, yaw).
func (s *Session) PlayerRotation(ctx context.Context) (Rotation, error) {
	reply, err := s.request(ctx, addrGetRotation)
	if err != nil {
		return Rotation{}, err
	}
	floats, err := reply.Floats()
	if err != nil || len(floats) != 3 {
		return Rotation{}, fmt.Errorf("rotation reply: want 3 floats, got %v", reply.Args)
	}
	return Rotation{Roll: floats[0], Pitch: floats[1], Yaw: floats[2]}, nil
}

// SetPlayerLocation teleports the player camera to (x, y, z).
func (s *Session) SetPlayerLocation(ctx context.Context, x, y, z float32) error {
	return s.sender.Send(ctx, osc.NewMessage(addrSetLocation, x, y, z))
}

// SetPlayerYaw reads the current rotation, then re-sets it with the new yaw.
// The engine's /set/rotation argument order is (pitch, roll, yaw).
func (s *Session) SetPlayerYaw(ctx context.Context, yaw float32) error {
	current, err := s.PlayerRotation(ctx)
	if err != nil {
		return fmt.Errorf("read rotation before yaw set: %w", err)
	}
	return s.sender.Send(ctx, osc.NewMessage(addrSetRotation, current.Pitch, current.Roll, yaw))
}

// MoveForward moves the player by amount; negative values move backward.
func (s *Session) MoveForward(ctx context.Context, amount float32) error {
	return s.sender.Send(ctx, osc.NewMessage(addrMoveForward, amount))
}

// MoveBackward moves the player backward by a positive amount.
func (s *Session) MoveBackward(ctx context.Context, amount float32) error {
	return s.MoveForward(ctx, -amount)
}

// TurnLeft rotates the player left by deg degrees.
func (s *Session) TurnLeft(ctx context.Context, deg float32) error {
	if deg < 0 {
		return fmt.Errorf("turn degrees must be >= 0, got %v", deg)
	}
	return s.sender.Send(ctx, osc.NewMessage(addrTurnLeft, deg))
}

// TurnRight rotates the player right by deg degrees.
func (s *Session) TurnRight(ctx context.Context, deg float32) error {
	if deg < 0 {
		return fmt.Errorf("turn degrees must be >= 0, got %v", deg)
	}
	return s.sender.Send(ctx, osc.NewMessage(addrTurnRight, deg))
}

// TakeScreenshot saves a screenshot under a caller-chosen filename.
func (s *Session) TakeScreenshot(ctx context.Context, filename string) error {
	if filename == "" {
		return errors.New("screenshot filename must not be empty")
	}
	return s.sender.Send(ctx, osc.NewMessage(addrScreenshot, filename))
}

// ResetToStart returns the player to the level's start position, then waits
// a settle delay; the protocol has no completion acknowledgment.
func (s *Session) ResetToStart(ctx context.Context) error {
	if err := s.sender.Send(ctx, osc.NewMessage(addrReset, dummyPayload)); err != nil {
		return err
	}
	s.sleep(s.resetSettle)
	return nil
}

// request sends one request message and blocks until the engine's reply is
// released by the receive goroutine. Replies carry no correlation IDs, so
// at most one request may be in flight; a second concurrent call fails with
// ErrRequestInFlight instead of racing for the wrong reply.
func (s *Session) request(ctx context.Context, address string) (osc.Message, error) {
	if !s.inflight.CompareAndSwap(false, true) {
		return osc.Message{}, ErrRequestInFlight
	}
	defer s.inflight.Store(false)

	if s.replyTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.replyTimeout)
		defer cancel()
	}

	if err := s.sender.Send(ctx, osc.NewMessage(address, dummyPayload)); err != nil {
		return osc.Message{}, err
	}
	reply, err := s.replies.Await(ctx)
	if err != nil {
		return osc.Message{}, fmt.Errorf("await %s reply: %w", address, err)
	}
	return reply, nil
}
