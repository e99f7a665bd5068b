package shell

import (
	"fmt"
	"strings"
)

// GenerateFishIntegration returns a Fish shell script snippet that records
// one sample per prompt, plus helper functions and tab completions.
func GenerateFishIntegration(cfg IntegrationConfig) string {
	bin := command(cfg, fishQuote)

	var completions strings.Builder
	for _, f := range completionFlags {
		fmt.Fprintf(&completions, "complete -c system-graph -o %s -d %s", f.name, fishQuote(f.desc))
		if f.arg {
			completions.WriteString(" -r")
		}
		completions.WriteByte('\n')
	}

	return fmt.Sprintf(`# system-graph shell integration for Fish

# Take one sample before every prompt
function _system_graph_prompt --on-event fish_prompt
    set -g SYSTEM_GRAPH_LINE (%[1]s 2>/dev/null)
end

# Show the line on the right, for example:
#   function fish_right_prompt; echo $SYSTEM_GRAPH_LINE; end

# Render a template without recording a sample
function sg-peek -d "Render without recording a sample"
    %[1]s -no-save $argv
end

# Completions
%[2]s`, bin, completions.String())
}

func fishQuote(s string) string {
	if isPlain(s) {
		return s
	}
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(s) + "'"
}
