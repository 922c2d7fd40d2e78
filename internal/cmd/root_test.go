package cmd_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/namegate/namegate/internal/cmd"
	"github.com/namegate/namegate/internal/testutil"
	"github.com/namegate/namegate/internal/version"
)

func newRoot(stdout, stderr *bytes.Buffer) (*slog.LevelVar, *cobra.Command) {
	levelVar := &slog.LevelVar{}
	levelVar.Set(slog.LevelInfo)
	root := cmd.NewRootCmd(testutil.NopLogger(), levelVar, stdout, stderr)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return levelVar, root
}

func TestVersionCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	_, root := newRoot(&stdout, &stderr)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Equal(t, "namegate "+version.Version+"\n", stdout.String())
}

func TestRootHelp(t *testing.T) {
	var stdout, stderr bytes.Buffer
	_, root := newRoot(&stdout, &stderr)
	root.SetArgs([]string{"--help"})

	require.NoError(t, root.Execute())
	assert.Contains(t, stdout.String(), "namegate")
	assert.Contains(t, stdout.String(), "serve")
	assert.Contains(t, stdout.String(), "check")
}

func TestUnknownCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	_, root := newRoot(&stdout, &stderr)
	root.SetArgs([]string{"frobnicate"})

	assert.Error(t, root.Execute())
}

func TestVerboseFlagRaisesLevel(t *testing.T) {
	var stdout, stderr bytes.Buffer
	levelVar, root := newRoot(&stdout, &stderr)
	root.SetArgs([]string{"version", "--verbose"})

	require.NoError(t, root.Execute())
	assert.Equal(t, slog.LevelDebug, levelVar.Level())
}
