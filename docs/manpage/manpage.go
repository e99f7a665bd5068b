// Package manpage generates a roff-formatted man page for system-graph.
//
// The page is generated at runtime from the registered providers, the
// series keywords and the compiled-in version information, so it stays in
// sync with the code.
//
// Usage:
//
//	system-graph -man | man -l -
//	system-graph -man > ~/.local/share/man/man1/system-graph.1
package manpage

import (
	"fmt"
	"strings"
	"time"

	"gitlab.com/tinyland/lab/system-graph/collectors"
	"gitlab.com/tinyland/lab/system-graph/config"
)

// Option documents one command-line flag.
type Option struct {
	Flag string
	Arg  string
	Desc string
}

// Options lists the command-line flags in the order the page shows them.
var Options = []Option{
	{"file", "PATH", "History file. Default: $TMPDIR/.<uid>.system\\-graph, with TMPDIR defaulting to /tmp."},
	{"max\\-points", "N", "Number of data points kept and drawn per series. Default: 25."},
	{"format", "TEMPLATE", "Template of the printed line. See TEMPLATE LANGUAGE."},
	{"config", "PATH", "YAML configuration file. Default: $XDG_CONFIG_HOME/system\\-graph/config.yaml."},
	{"provider", "NAME", "Sample provider. See PROVIDERS."},
	{"color", "MODE", "Color mode: auto, always or never (default)."},
	{"no\\-save", "", "Print the line without adding the new sample to the history file."},
	{"verbose", "", "Enable debug-level logging to stderr or the log file."},
	{"help\\-format", "", "Print the template language reference, then exit."},
	{"shell", "NAME", "Print the prompt integration script for bash, zsh, fish or nushell, then exit."},
	{"version", "", "Print the version, commit hash, and build date, then exit."},
	{"man", "", "Print this man page to stdout in roff format."},
}

// Generate produces a complete roff-formatted man(1) page for system-graph.
// The version, commit, and date parameters come from the build-time linker
// variables; providers are the sample providers the binary registers.
func Generate(version, commit, date string, providers []collectors.Provider) string {
	var b strings.Builder

	writeHeader(&b, version)
	writeName(&b)
	writeSynopsis(&b)
	writeDescription(&b)
	writeOptions(&b)
	writeProviders(&b, providers)
	writeTemplateLanguage(&b)
	writeConfiguration(&b)
	writeFiles(&b)
	writeEnvironment(&b)
	writeExitStatus(&b)
	writeSeeAlso(&b)
	writeFooter(&b, version, commit, date)

	return b.String()
}

// roffEscape escapes special roff characters in a string.
func roffEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `-`, `\-`)
	s = strings.ReplaceAll(s, `.`, `\&.`)
	return s
}

func writeHeader(b *strings.Builder, version string) {
	month := time.Now().Format("January 2006")
	fmt.Fprintf(b, ".TH SYSTEM-GRAPH 1 \"%s\" \"system-graph %s\" \"User Commands\"\n", month, version)
}

func writeName(b *strings.Builder) {
	b.WriteString(`.SH NAME
system\-graph \- minimal sparkline graphs of system resources
`)
}

func writeSynopsis(b *strings.Builder) {
	b.WriteString(`.SH SYNOPSIS
.B system\-graph
[\fIOPTIONS\fR]
`)
}

func writeDescription(b *strings.Builder) {
	b.WriteString(`.SH DESCRIPTION
.B system\-graph
takes one sample of the host counters (memory, swap, load average, CPU
ticks and network bytes) on every run, adds it to a small history file and
prints one line of block glyphs or numbers described by a template.
.PP
It can run at arbitrary, irregular intervals, for example from a shell
prompt or a status bar, but short regular intervals give better graphs.
CPU usage and network speeds are computed from consecutive samples; the
network maximum is the fastest speed seen in the history, never below
1 KiB/s.
`)
}

func writeOptions(b *strings.Builder) {
	b.WriteString(".SH OPTIONS\n")
	for _, o := range Options {
		b.WriteString(".TP\n")
		if o.Arg != "" {
			fmt.Fprintf(b, ".BR \\-%s \" \\fI%s\\fR\"\n", o.Flag, o.Arg)
		} else {
			fmt.Fprintf(b, ".B \\-%s\n", o.Flag)
		}
		b.WriteString(o.Desc + "\n")
	}
}

func writeProviders(b *strings.Builder, providers []collectors.Provider) {
	b.WriteString(`.SH PROVIDERS
A provider reads the raw counters. The default is
.B proc
on Linux and
.B gopsutil
elsewhere.
`)
	for _, p := range providers {
		fmt.Fprintf(b, ".TP\n.B %s\n%s\n", roffEscape(p.Name()), p.Description())
	}
}

func writeTemplateLanguage(b *strings.Builder) {
	b.WriteString(".SH TEMPLATE LANGUAGE\n.nf\n")
	for _, line := range strings.Split(strings.TrimRight(FormatHelp, "\n"), "\n") {
		b.WriteString(roffEscape(line) + "\n")
	}
	b.WriteString(".fi\n")
}

func writeConfiguration(b *strings.Builder) {
	b.WriteString(`.SH CONFIGURATION
Settings are applied in this order, later ones winning: built-in defaults,
the YAML file, the environment, the rc file, the command line.
.SS YAML file
.TP
.B general.max_points
Data points per series. Default: 25.
.TP
.B general.file
History file.
.TP
.B general.format
Template of the printed line.
.TP
.B collector.provider
proc, gopsutil or mock.
.TP
.B collector.timeout
Duration bounding one sample (e.g. "2s"). Default: "2s".
.TP
.B display.color
auto, always or never. Default: never.
.TP
.B display.foreground
Color of the line when color is enabled ("#ff8800", "208").
.TP
.B log.level
debug, info, warn or error. Default: warn.
.TP
.B log.file
Log file. Default: stderr.
.SS rc file
The rc file holds command-line arguments, one per line. Because each line
is a single argument,
.B \-max\-points 10
does not work; write
.B \-max\-points=10
or put the value on its own line. Blank lines and lines starting with # are
ignored.
`)
}

func writeFiles(b *strings.Builder) {
	dir := "$XDG_CONFIG_HOME/" + config.AppName
	fmt.Fprintf(b, `.SH FILES
.TP
.I %[1]s/config.yaml
YAML configuration file.
.TP
.I %[1]s/%[2]s.env
Optional KEY=value file loaded into the environment. Variables already set
keep their value.
.TP
.I %[1]s/%[2]src
.TQ
.I ~/.%[2]src
Argument file; the first one found is used.
.TP
.I $TMPDIR/.<uid>.%[2]s
Default history file (JSON).
`, roffEscape(dir), roffEscape(config.AppName))
}

func writeEnvironment(b *strings.Builder) {
	b.WriteString(".SH ENVIRONMENT\n")
	vars := []struct{ name, desc string }{
		{config.EnvMaxPoints, "Overrides general.max_points."},
		{config.EnvFile, "Overrides general.file."},
		{config.EnvFormat, "Overrides general.format."},
		{config.EnvProvider, "Overrides collector.provider."},
		{config.EnvColor, "Overrides display.color."},
		{config.EnvLogLevel, "Overrides log.level."},
		{"NO_COLOR", "Disables color in auto mode."},
		{"TMPDIR", "Directory of the default history file."},
		{"XDG_CONFIG_HOME", "Base of the configuration directory. Default: ~/.config."},
	}
	for _, v := range vars {
		fmt.Fprintf(b, ".TP\n.B %s\n%s\n", v.name, v.desc)
	}
}

func writeExitStatus(b *strings.Builder) {
	b.WriteString(".SH EXIT STATUS\n")
	b.WriteString(".TP\n.B 0\n")
	b.WriteString("Success.\n")
	b.WriteString(".TP\n.B 1\n")
	b.WriteString("Failure: a malformed template, an invalid field, an unreadable configuration or a failed sample. Nothing is printed to stdout and the history file is left untouched.\n")
	b.WriteString(".TP\n.B 2\n")
	b.WriteString("Invalid command-line arguments.\n")
}

func writeSeeAlso(b *strings.Builder) {
	b.WriteString(`.SH SEE ALSO
.BR proc (5),
.BR sysinfo (2)
`)
}

func writeFooter(b *strings.Builder, version, commit, date string) {
	fmt.Fprintf(b, ".SH VERSION\n%s (%s) built %s\n", version, commit, date)
}
