// Package shell generates prompt integration scripts for system-graph.
//
// Each supported shell gets a generator function that produces a snippet
// users can source in their shell RC file (~/.bashrc, ~/.zshrc, etc.). The
// snippet runs system-graph once per prompt, which is what feeds the
// history one data point at a time, and exposes the rendered line:
//
//   - as $SYSTEM_GRAPH_LINE for the user's own prompt (bash, zsh, fish)
//   - as the right prompt where the shell has one (zsh, nushell)
//   - with completions for the command-line flags where applicable
//
// Starship users get a custom module definition instead of a script.
package shell

import (
	"fmt"
	"strings"
)

// ShellType identifies a supported shell.
type ShellType int

const (
	// Bash is the Bourne Again Shell.
	Bash ShellType = iota
	// Zsh is the Z Shell.
	Zsh
	// Fish is the Friendly Interactive Shell.
	Fish
	// Nushell is the Nu shell.
	Nushell
	// Starship is the cross-shell prompt; its integration is a custom module.
	Starship
)

// Names lists the accepted shell names in display order.
var Names = []string{"bash", "zsh", "fish", "nushell", "starship"}

// String returns the lowercase name of the shell type.
func (s ShellType) String() string {
	switch s {
	case Bash:
		return "bash"
	case Zsh:
		return "zsh"
	case Fish:
		return "fish"
	case Nushell:
		return "nushell"
	case Starship:
		return "starship"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// ParseShell maps a shell name to its ShellType. "nu" is accepted for
// Nushell.
func ParseShell(name string) (ShellType, error) {
	switch strings.ToLower(name) {
	case "bash":
		return Bash, nil
	case "zsh":
		return Zsh, nil
	case "fish":
		return Fish, nil
	case "nushell", "nu":
		return Nushell, nil
	case "starship":
		return Starship, nil
	}
	return 0, fmt.Errorf("shell: unsupported shell %q (supported: %s)", name, strings.Join(Names, ", "))
}

// IntegrationConfig controls how the generated shell integration behaves.
type IntegrationConfig struct {
	// BinaryPath is the path to the system-graph binary.
	BinaryPath string
	// ConfigPath, when set, is passed to every invocation with -config.
	ConfigPath string
}

// DefaultIntegrationConfig assumes system-graph is on PATH and reads its
// configuration from the default location.
func DefaultIntegrationConfig() IntegrationConfig {
	return IntegrationConfig{BinaryPath: "system-graph"}
}

func (c IntegrationConfig) binary() string {
	if c.BinaryPath == "" {
		return "system-graph"
	}
	return c.BinaryPath
}

// flagDoc describes one command-line flag for completions.
type flagDoc struct {
	name string
	desc string
	arg  bool
}

var completionFlags = []flagDoc{
	{"file", "History file", true},
	{"max-points", "Data points per series", true},
	{"format", "Template of the printed line", true},
	{"config", "Config file path", true},
	{"provider", "Sample provider", true},
	{"color", "Color mode", true},
	{"no-save", "Do not record the sample", false},
	{"verbose", "Debug logging", false},
	{"help-format", "Template language reference", false},
	{"shell", "Print shell integration", true},
	{"man", "Print the man page", false},
	{"version", "Show version", false},
}

// GenerateIntegration dispatches to the appropriate shell-specific generator.
func GenerateIntegration(shell ShellType, cfg IntegrationConfig) string {
	switch shell {
	case Bash:
		return GenerateBashIntegration(cfg)
	case Zsh:
		return GenerateZshIntegration(cfg)
	case Fish:
		return GenerateFishIntegration(cfg)
	case Nushell:
		return GenerateNushellIntegration(cfg)
	case Starship:
		return GenerateStarshipModule(cfg)
	default:
		return fmt.Sprintf("# system-graph: %s integration is not implemented\n", shell)
	}
}

// command returns the quoted invocation for cfg, using quote for every
// word.
func command(cfg IntegrationConfig, quote func(string) string) string {
	words := []string{quote(cfg.binary())}
	if cfg.ConfigPath != "" {
		words = append(words, "-config", quote(cfg.ConfigPath))
	}
	return strings.Join(words, " ")
}

// posixQuote single-quotes s unless it consists of safe characters only.
func posixQuote(s string) string {
	if isPlain(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func isPlain(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case strings.ContainsRune("-_./+=:,@%", r):
		default:
			return false
		}
	}
	return true
}
