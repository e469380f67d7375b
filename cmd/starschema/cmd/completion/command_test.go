package completion

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCommand(t *testing.T) {
	cmd := NewCommand()

	assert.Equal(t, "completion", cmd.Use)
	assert.NotEmpty(t, cmd.Short)

	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"bash", "zsh", "fish", "powershell", "install", "uninstall"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestGenerateBash(t *testing.T) {
	root := &cobra.Command{Use: "starschema"}
	root.AddCommand(NewCommand())

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs([]string{"completion", "bash"})

	require.NoError(t, root.Execute())
	assert.Contains(t, buf.String(), "starschema")
}

func TestGenerateFish(t *testing.T) {
	root := &cobra.Command{Use: "starschema"}
	root.AddCommand(NewCommand())

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs([]string{"completion", "fish"})

	require.NoError(t, root.Execute())
	assert.Contains(t, buf.String(), "starschema")
}

func TestInstallUninstallFlags(t *testing.T) {
	cmd := NewCommand()

	for _, name := range []string{"install", "uninstall"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		for _, shell := range []string{"bash", "zsh", "fish"} {
			assert.NotNil(t, sub.Flags().Lookup(shell), "%s missing --%s", name, shell)
		}
	}
}

func TestSelectedShells(t *testing.T) {
	cmd := &cobra.Command{Use: "install"}
	addShellFlags(cmd, "Install %s completions only")

	// No flags set picks every managed shell.
	assert.Equal(t, []string{"bash", "zsh", "fish"}, selectedShells(cmd))

	require.NoError(t, cmd.Flags().Set("zsh", "true"))
	assert.Equal(t, []string{"zsh"}, selectedShells(cmd))
}
