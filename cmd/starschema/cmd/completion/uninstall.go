package completion

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/astrolab/starschema/internal/cmd/completion"
	"github.com/astrolab/starschema/internal/cmd/emoji"
)

// newUninstallCommand creates the completion uninstall subcommand.
func newUninstallCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "uninstall",
		Short: "Remove shell completions",
		Long: `Remove shell completions for starschema.

By default, removes completions for all supported shells (bash, zsh, fish).
Use flags to remove from specific shells only.

Examples:
  starschema completion uninstall           # Remove from all shells
  starschema completion uninstall --bash    # Remove from bash only
  starschema completion uninstall --zsh     # Remove from zsh only
  starschema completion uninstall --fish    # Remove from fish only`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Printf("Uninstalling shell completions...\n\n")

			var failures []string
			for _, shell := range selectedShells(cmd) {
				if err := completion.Uninstall(shell); err != nil {
					failures = append(failures, fmt.Sprintf("%s: %v", shell, err))
				}
			}
			fmt.Println()

			if len(failures) > 0 {
				fmt.Printf(emoji.Error + " Some removals failed:\n")
				for _, failure := range failures {
					fmt.Printf("  - %s\n", failure)
				}
				return fmt.Errorf("failed to remove some completions")
			}

			fmt.Printf("💡 Start a new shell session to ensure completions are fully removed.\n")
			return nil
		},
	}

	addShellFlags(cmd, "Remove %s completions only")
	return cmd
}
