package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "csvconv")
	assert.Contains(t, output, "GB2312")
}

func TestRootCommandHasSubcommands(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "csvconv", cmd.Use)
	assert.True(t, cmd.SilenceUsage)

	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"csv", "config", "history"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}
}

func TestConvertCommandFlags(t *testing.T) {
	cmd := NewConvertCommand("csv")
	for _, flag := range []string{"config", "ext", "strict", "dry-run", "log-level", "log-dir", "history-db", "accept", "verbose"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "missing flag --%s", flag)
	}
}

func TestStandaloneCommand(t *testing.T) {
	cmd := NewStandaloneCommand("csv-converter", "csv")
	assert.Equal(t, "csv-converter", cmd.Name())
	assert.Equal(t, Version, cmd.Version)
	assert.Contains(t, cmd.Short, "UTF-8")
}
