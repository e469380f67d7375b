// Package completion installs and removes shell completion scripts.
package completion

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/astrolab/starschema/internal/cmd/constants"
	"github.com/astrolab/starschema/internal/cmd/emoji"
	pkgconstants "github.com/astrolab/starschema/pkg/constants"
)

// Script names under each shell's completion directory.
const (
	bashScript = "starschema"
	zshScript  = "_starschema"
	fishScript = "starschema.fish"
)

// shell describes where a completion script is installed and how the root
// command generates it.
type shell struct {
	path      func() (string, error)
	generate  func(root *cobra.Command, w io.Writer) error
	fallbacks func() []string
}

var shells = map[string]shell{
	constants.ShellBash: {
		path: BashPath,
		generate: func(root *cobra.Command, w io.Writer) error {
			return root.GenBashCompletion(w)
		},
		fallbacks: bashFallbacks,
	},
	constants.ShellZsh: {
		path: ZshPath,
		generate: func(root *cobra.Command, w io.Writer) error {
			return root.GenZshCompletion(w)
		},
		fallbacks: zshFallbacks,
	},
	constants.ShellFish: {
		path: FishPath,
		generate: func(root *cobra.Command, w io.Writer) error {
			return root.GenFishCompletion(w, true)
		},
		fallbacks: fishFallbacks,
	},
}

// Shells returns the shells with a managed install location, in display order.
func Shells() []string {
	return []string{constants.ShellBash, constants.ShellZsh, constants.ShellFish}
}

// Install generates the completion script for the named shell and writes it
// to the conventional location for this system.
func Install(root *cobra.Command, name string) error {
	sh, ok := shells[name]
	if !ok {
		return fmt.Errorf("unsupported shell: %s", name)
	}

	target, err := sh.path()
	if err != nil {
		return fmt.Errorf("failed to determine %s completion path: %w", name, err)
	}
	if err := os.MkdirAll(filepath.Dir(target), pkgconstants.DirPermissions); err != nil {
		return fmt.Errorf("failed to create completion directory: %w", err)
	}

	file, err := os.Create(target) // #nosec G304 - path comes from the resolvers above
	if err != nil {
		return fmt.Errorf("failed to create completion file: %w", err)
	}
	if err := sh.generate(root, file); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to generate %s completion: %w", name, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close completion file: %w", err)
	}

	fmt.Printf(emoji.Success+" %s completions installed to: %s\n", name, target)
	return nil
}

// Uninstall removes the completion script for the named shell from the same
// location Install writes to. When nothing is found there it sweeps the
// common fallback locations left behind by older installs.
func Uninstall(name string) error {
	sh, ok := shells[name]
	if !ok {
		return fmt.Errorf("unsupported shell: %s", name)
	}

	target, err := sh.path()
	if err != nil {
		return fmt.Errorf("failed to determine %s completion path: %w", name, err)
	}

	if info, err := os.Stat(target); err == nil && !info.IsDir() {
		if err := os.Remove(target); err != nil {
			fmt.Printf(emoji.Error+" Could not remove: %s (try: sudo rm -f %s)\n", target, target)
			return nil
		}
		fmt.Printf(emoji.Success+" Removed %s completions from: %s\n", name, target)
		return nil
	}

	fmt.Printf("No %s completions found at: %s\n", name, target)
	if !removeFromPaths(sh.fallbacks()) {
		fmt.Printf("No completion files found in other common locations.\n")
	}
	return nil
}

// brewPrefix locates a Homebrew installation, preferring the environment
// over filesystem probing.
func brewPrefix() string {
	if prefix := os.Getenv("HOMEBREW_PREFIX"); prefix != "" {
		return prefix
	}
	for _, prefix := range []string{"/opt/homebrew", "/usr/local"} {
		if _, err := os.Stat(filepath.Join(prefix, "bin", "brew")); err == nil {
			return prefix
		}
	}
	return ""
}

// BashPath returns the install path for the bash completion script.
func BashPath() (string, error) {
	if prefix := brewPrefix(); prefix != "" {
		return filepath.Join(prefix, "etc", "bash_completion.d", bashScript), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".bash_completion.d", bashScript), nil
}

// ZshPath returns the install path for the zsh completion function.
func ZshPath() (string, error) {
	if prefix := brewPrefix(); prefix != "" {
		return filepath.Join(prefix, "share", "zsh", "site-functions", zshScript), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".zsh", "completions", zshScript), nil
}

// FishPath returns the install path for the fish completion script.
func FishPath() (string, error) {
	if prefix := brewPrefix(); prefix != "" {
		return filepath.Join(prefix, "share", "fish", "vendor_completions.d", fishScript), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "fish", "completions", fishScript), nil
}

func bashFallbacks() []string {
	home, _ := os.UserHomeDir()
	return []string{
		"/etc/bash_completion.d/" + bashScript,
		"/usr/local/etc/bash_completion.d/" + bashScript,
		"/opt/homebrew/etc/bash_completion.d/" + bashScript,
		"/usr/share/bash-completion/completions/" + bashScript,
		filepath.Join(home, ".bash_completion.d", bashScript),
	}
}

func zshFallbacks() []string {
	home, _ := os.UserHomeDir()
	return []string{
		"/usr/local/share/zsh/site-functions/" + zshScript,
		"/opt/homebrew/share/zsh/site-functions/" + zshScript,
		filepath.Join(home, ".zsh", "completions", zshScript),
	}
}

func fishFallbacks() []string {
	home, _ := os.UserHomeDir()
	return []string{
		filepath.Join(home, ".config", "fish", "completions", fishScript),
		"/usr/share/fish/completions/" + fishScript,
		"/usr/local/share/fish/completions/" + fishScript,
		"/opt/homebrew/share/fish/vendor_completions.d/" + fishScript,
	}
}

// removeFromPaths sweeps the given paths, reporting anything removed.
func removeFromPaths(paths []string) bool {
	removed := false
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		if err := os.Remove(path); err != nil {
			fmt.Printf(emoji.Error+" Could not remove: %s (try: sudo rm -f %s)\n", path, path)
			continue
		}
		fmt.Printf(emoji.Success+" Removed: %s\n", path)
		removed = true
	}
	return removed
}
