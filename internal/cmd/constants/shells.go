// Package constants provides shared constants for CLI commands.
package constants

// Shell names recognized by the completion commands.
const (
	// ShellBash represents the Bash shell.
	ShellBash = "bash"

	// ShellZsh represents the Zsh shell.
	ShellZsh = "zsh"

	// ShellFish represents the Fish shell.
	ShellFish = "fish"

	// ShellPowerShell represents PowerShell. Completion scripts can be
	// generated for it but there is no managed install location.
	ShellPowerShell = "powershell"
)
