package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/rbright/ue5ctl/internal/session"
	"github.com/stretchr/testify/require"
)

// fakeDriver records calls and returns canned values.
type fakeDriver struct {
	calls []string
	err   error
}

func (f *fakeDriver) record(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeDriver) ProjectName(context.Context) (string, error) {
	f.record("project")
	return "Maze", f.err
}

func (f *fakeDriver) PlayerLocation(context.Context) (session.Location, error) {
	f.record("location")
	return session.Location{X: 1, Y: 2, Z: 3}, f.err
}

func (f *fakeDriver) PlayerRotation(context.Context) (session.Rotation, error) {
	f.record("rotation")
	return session.Rotation{Roll: 10, Pitch: 20, Yaw: 30}, f.err
}

func (f *fakeDriver) SetPlayerLocation(_ context.Context, x, y, z float32) error {
	f.record("goto %g %g %g", x, y, z)
	return f.err
}

func (f *fakeDriver) SetPlayerYaw(_ context.Context, yaw float32) error {
	f.record("yaw %g", yaw)
	return f.err
}

func (f *fakeDriver) MoveForward(_ context.Context, amount float32) error {
	f.record("move %g", amount)
	return f.err
}

func (f *fakeDriver) TurnLeft(_ context.Context, deg float32) error {
	f.record("left %g", deg)
	return f.err
}

func (f *fakeDriver) TurnRight(_ context.Context, deg float32) error {
	f.record("right %g", deg)
	return f.err
}

func (f *fakeDriver) SaveImage(context.Context) (string, error) {
	f.record("capture")
	return "shots/000001", f.err
}

func (f *fakeDriver) TakeScreenshot(_ context.Context, filename string) error {
	f.record("screenshot %s", filename)
	return f.err
}

func (f *fakeDriver) ResetToStart(context.Context) error {
	f.record("reset")
	return f.err
}

func newTestShell(driver *fakeDriver) (*Shell, *strings.Builder) {
	var out strings.Builder
	return New(driver, strings.NewReader(""), &out, slog.New(slog.NewTextHandler(io.Discard, nil))), &out
}

func TestExecuteQueries(t *testing.T) {
	driver := &fakeDriver{}
	shell, out := newTestShell(driver)

	for _, line := range []string{"project", "location", "rotation"} {
		quit, err := shell.Execute(context.Background(), line)
		require.NoError(t, err)
		require.False(t, quit)
	}

	require.Contains(t, out.String(), "project: Maze")
	require.Contains(t, out.String(), "location: x=1 y=2 z=3")
	require.Contains(t, out.String(), "rotation: roll=10 pitch=20 yaw=30")
}

func TestExecuteMovement(t *testing.T) {
	driver := &fakeDriver{}
	shell, _ := newTestShell(driver)

	lines := []string{"goto 1 2 3", "yaw 45", "move -5", "screenshot top", "reset", "capture"}
	for _, line := range lines {
		_, err := shell.Execute(context.Background(), line)
		require.NoError(t, err)
	}

	require.Equal(t, []string{
		"goto 1 2 3",
		"yaw 45",
		"move -5",
		"screenshot top",
		"reset",
		"capture",
	}, driver.calls)
}

func TestExecuteTurnSignSelectsDirection(t *testing.T) {
	driver := &fakeDriver{}
	shell, _ := newTestShell(driver)

	_, err := shell.Execute(context.Background(), "turn 30")
	require.NoError(t, err)
	_, err = shell.Execute(context.Background(), "turn -15")
	require.NoError(t, err)

	require.Equal(t, []string{"right 30", "left 15"}, driver.calls)
}

func TestExecuteQuit(t *testing.T) {
	shell, _ := newTestShell(&fakeDriver{})

	quit, err := shell.Execute(context.Background(), "quit")
	require.NoError(t, err)
	require.True(t, quit)

	quit, err = shell.Execute(context.Background(), "exit")
	require.NoError(t, err)
	require.True(t, quit)
}

func TestExecuteRejectsUnknownAndUnavailable(t *testing.T) {
	shell, _ := newTestShell(&fakeDriver{})

	_, err := shell.Execute(context.Background(), "teleport home")
	require.Error(t, err)

	_, err = shell.Execute(context.Background(), "doctor")
	require.Error(t, err)
	require.Contains(t, err.Error(), "not available")
}

func TestRunLoopsUntilEOFAndSurvivesErrors(t *testing.T) {
	driver := &fakeDriver{}
	input := "project\nbogus\nmove 10\n"
	var out strings.Builder
	shell := New(driver, strings.NewReader(input), &out, slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.NoError(t, shell.Run(context.Background()))
	require.Contains(t, out.String(), "project: Maze")
	require.Contains(t, out.String(), "error:")
	require.Contains(t, driver.calls, "move 10")
}

func TestRunStopsOnQuit(t *testing.T) {
	driver := &fakeDriver{}
	var out strings.Builder
	shell := New(driver, strings.NewReader("quit\nproject\n"), &out, slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.NoError(t, shell.Run(context.Background()))
	require.Empty(t, driver.calls)
}

func TestRunHonorsContext(t *testing.T) {
	driver := &fakeDriver{}
	var out strings.Builder
	shell := New(driver, strings.NewReader("project\n"), &out, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Error(t, shell.Run(ctx))
}

func TestDriverErrorIsReportedNotFatal(t *testing.T) {
	driver := &fakeDriver{err: errors.New("engine offline")}
	var out strings.Builder
	shell := New(driver, strings.NewReader("project\nmove 1\n"), &out, slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.NoError(t, shell.Run(context.Background()))
	require.Contains(t, out.String(), "engine offline")
	require.Len(t, driver.calls, 2)
}
