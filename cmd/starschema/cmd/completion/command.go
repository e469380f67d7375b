// Package completion provides shell completion management commands.
package completion

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/astrolab/starschema/internal/cmd/completion"
)

// NewCommand creates the completion command with generation, install, and
// uninstall subcommands. Defining it replaces Cobra's auto-generated
// completion command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Manage shell completions",
		Long: `Manage shell completions for starschema.

You can generate completion scripts to stdout, or use the install/uninstall
subcommands to set up completions for your shell automatically.

Examples:
  # Generate bash completion to stdout
  starschema completion bash

  # Install completions for all shells
  starschema completion install

  # Install for a specific shell
  starschema completion install --zsh

  # Remove installed completions
  starschema completion uninstall`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	// Shell-specific generation commands write the script to stdout.
	cmd.AddCommand(newBashCommand())
	cmd.AddCommand(newZshCommand())
	cmd.AddCommand(newFishCommand())
	cmd.AddCommand(newPowershellCommand())

	cmd.AddCommand(newInstallCommand())
	cmd.AddCommand(newUninstallCommand())

	return cmd
}

// addShellFlags registers one opt-in flag per managed shell.
func addShellFlags(cmd *cobra.Command, usage string) {
	for _, shell := range completion.Shells() {
		cmd.Flags().Bool(shell, false, fmt.Sprintf(usage, shell))
	}
}

// selectedShells returns the shells picked by flags, or every managed shell
// when no flag is set.
func selectedShells(cmd *cobra.Command) []string {
	var picked []string
	for _, shell := range completion.Shells() {
		if on, _ := cmd.Flags().GetBool(shell); on {
			picked = append(picked, shell)
		}
	}
	if len(picked) == 0 {
		return completion.Shells()
	}
	return picked
}

// newBashCommand creates the bash completion generation subcommand.
func newBashCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "bash",
		Short: "Generate bash completion script",
		Long: `Generate the autocompletion script for bash.

To load completions in your current shell session:

  source <(starschema completion bash)

To load completions for every new session, execute once:

  # Linux:
  starschema completion bash > /etc/bash_completion.d/starschema

  # macOS:
  starschema completion bash > $(brew --prefix)/etc/bash_completion.d/starschema

You can also use "starschema completion install" to install automatically.`,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
		},
	}
}

// newZshCommand creates the zsh completion generation subcommand.
func newZshCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "zsh",
		Short: "Generate zsh completion script",
		Long: `Generate the autocompletion script for zsh.

To load completions in your current shell session:

  source <(starschema completion zsh)

To load completions for every new session, execute once:

  starschema completion zsh > "${fpath[1]}/_starschema"

You will need to start a new shell for this setup to take effect.

You can also use "starschema completion install" to install automatically.`,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
		},
	}
}

// newFishCommand creates the fish completion generation subcommand.
func newFishCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fish",
		Short: "Generate fish completion script",
		Long: `Generate the autocompletion script for fish.

To load completions in your current shell session:

  starschema completion fish | source

To load completions for every new session, execute once:

  starschema completion fish > ~/.config/fish/completions/starschema.fish

You will need to start a new shell for this setup to take effect.

You can also use "starschema completion install" to install automatically.`,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
		},
	}
}

// newPowershellCommand creates the powershell completion generation subcommand.
func newPowershellCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "powershell",
		Short: "Generate powershell completion script",
		Long: `Generate the autocompletion script for powershell.

To load completions in your current shell session:

  starschema completion powershell | Out-String | Invoke-Expression

To load completions for every new session, add the output of the above command
to your powershell profile.`,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
		},
	}
}
