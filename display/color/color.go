// Package color decides whether the rendered line is styled and applies
// the configured foreground color.
//
// It implements NO_COLOR (https://no-color.org/) and pipe/redirect
// detection for the "auto" mode. When color is disabled, lipgloss is set to
// the Ascii profile so every styled render produces plain text.
package color

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Mode is the display.color setting.
type Mode string

const (
	ModeAuto   Mode = "auto"
	ModeAlways Mode = "always"
	ModeNever  Mode = "never"
)

// ParseMode validates a display.color value.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeAuto, ModeAlways, ModeNever:
		return m, nil
	}
	return "", fmt.Errorf("color: unknown mode %q (want auto, always or never)", s)
}

// ShouldDisableColor returns true if color output should be suppressed in
// auto mode. This happens when:
//   - The NO_COLOR environment variable is set (any value)
//   - stdout is not a terminal (pipe or redirect)
func ShouldDisableColor() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return true
	}

	fd := os.Stdout.Fd()
	if !term.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return true
	}

	return false
}

// Enabled reports whether mode turns color on for this process.
func Enabled(mode Mode) bool {
	switch mode {
	case ModeAlways:
		return true
	case ModeAuto:
		return !ShouldDisableColor()
	default:
		return false
	}
}

// Apply configures the global lipgloss renderer for mode and returns
// whether color is enabled. "always" forces ANSI 256 colors even on a pipe,
// since lipgloss would otherwise detect the pipe and drop the styling.
func Apply(mode Mode) bool {
	if !Enabled(mode) {
		lipgloss.SetColorProfile(termenv.Ascii)
		return false
	}
	if mode == ModeAlways {
		lipgloss.SetColorProfile(termenv.ANSI256)
	}
	return true
}

// ForceDisable sets the lipgloss color profile to Ascii, unconditionally
// disabling all color output. This is useful for tests.
func ForceDisable() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// Style renders line with the given foreground color. An empty foreground
// returns line unchanged.
func Style(line, foreground string) string {
	if foreground == "" {
		return line
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(foreground)).Render(line)
}
