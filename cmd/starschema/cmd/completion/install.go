package completion

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/astrolab/starschema/internal/cmd/completion"
	"github.com/astrolab/starschema/internal/cmd/emoji"
)

// newInstallCommand creates the completion install subcommand.
func newInstallCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install shell completions",
		Long: `Install shell completions for starschema.

By default, installs completions for all supported shells (bash, zsh, fish).
Use flags to install for specific shells only.

Examples:
  starschema completion install           # Install for all shells
  starschema completion install --bash    # Install for bash only
  starschema completion install --zsh     # Install for zsh only
  starschema completion install --fish    # Install for fish only`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Printf("Installing shell completions...\n\n")

			var failures []string
			installed := 0
			for _, shell := range selectedShells(cmd) {
				if err := completion.Install(cmd.Root(), shell); err != nil {
					failures = append(failures, fmt.Sprintf("%s: %v", shell, err))
				} else {
					installed++
				}
			}
			fmt.Println()

			if len(failures) > 0 {
				fmt.Printf(emoji.Error + " Some installations failed:\n")
				for _, failure := range failures {
					fmt.Printf("  - %s\n", failure)
				}
				if installed > 0 {
					fmt.Printf("\n"+emoji.Success+" Installed completions for %d shell(s)\n", installed)
				}
				return fmt.Errorf("failed to install some completions")
			}

			fmt.Printf(emoji.Success+" Installed completions for %d shell(s)\n", installed)
			fmt.Printf("💡 Start a new shell session or reload your shell config to enable completions.\n")
			return nil
		},
	}

	addShellFlags(cmd, "Install %s completions only")
	return cmd
}
