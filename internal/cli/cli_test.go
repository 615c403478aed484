package cli

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDefaultsToHelp(t *testing.T) {
	parsed, err := Parse(nil)
	require.NoError(t, err)
	require.Equal(t, CommandHelp, parsed.Command)
	require.True(t, parsed.ShowHelp)
}

func TestParseSimpleCommand(t *testing.T) {
	parsed, err := Parse([]string{"project"})
	require.NoError(t, err)
	require.Equal(t, CommandProject, parsed.Command)
	require.False(t, parsed.ShowHelp)
	require.Empty(t, parsed.Floats)
}

func TestParseConfigFlagBeforeCommand(t *testing.T) {
	parsed, err := Parse([]string{"--config", "/tmp/c.conf", "reset"})
	require.NoError(t, err)
	require.Equal(t, CommandReset, parsed.Command)
	require.Equal(t, "/tmp/c.conf", parsed.ConfigPath)
}

func TestParseGotoConsumesThreeFloats(t *testing.T) {
	parsed, err := Parse([]string{"goto", "1.5", "-2", "300"})
	require.NoError(t, err)
	require.Equal(t, CommandGoto, parsed.Command)
	require.Equal(t, []float32{1.5, -2, 300}, parsed.Floats)
}

func TestParseScreenshotName(t *testing.T) {
	parsed, err := Parse([]string{"screenshot", "overview"})
	require.NoError(t, err)
	require.Equal(t, "overview", parsed.Name)
}

func TestParseArityErrors(t *testing.T) {
	cases := [][]string{
		{"goto", "1", "2"},
		{"goto", "1", "2", "3", "4"},
		{"move"},
		{"move", "fast"},
		{"screenshot"},
		{"screenshot", " "},
		{"project", "extra"},
	}
	for _, args := range cases {
		_, err := Parse(args)
		require.Error(t, err, "%v", args)
	}
}

func TestParseUnknownInput(t *testing.T) {
	_, err := Parse([]string{"fly"})
	require.Error(t, err)

	_, err = Parse([]string{"--fast"})
	require.Error(t, err)

	_, err = Parse([]string{"--config"})
	require.Error(t, err)
}

func TestParseHelpAndVersionFlags(t *testing.T) {
	parsed, err := Parse([]string{"--help"})
	require.NoError(t, err)
	require.True(t, parsed.ShowHelp)

	parsed, err = Parse([]string{"--version"})
	require.NoError(t, err)
	require.Equal(t, CommandVersion, parsed.Command)
}

func TestHelpTextNamesEveryCommand(t *testing.T) {
	text := HelpText("ue5ctl")
	for cmd := range arity {
		require.Contains(t, text, string(cmd))
	}
}
