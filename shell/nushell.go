package shell

import (
	"fmt"
	"strings"
)

// GenerateNushellIntegration returns a Nushell script snippet that shows the
// rendered line as the right prompt. Each prompt redraw runs system-graph,
// which records the sample.
func GenerateNushellIntegration(cfg IntegrationConfig) string {
	var flags strings.Builder
	for _, f := range completionFlags {
		if f.arg {
			fmt.Fprintf(&flags, "    -%s: string  # %s\n", f.name, f.desc)
		} else {
			fmt.Fprintf(&flags, "    -%s  # %s\n", f.name, f.desc)
		}
	}

	return fmt.Sprintf(`# system-graph shell integration for Nushell

$env.PROMPT_COMMAND_RIGHT = {|| ^%[1]s | complete | get stdout | str trim }

# Render a template without recording a sample
def sg-peek [...args] {
    ^%[1]s -no-save ...$args
}

# Completions
extern "system-graph" [
%[2]s]
`, command(cfg, nuQuote), flags.String())
}

func nuQuote(s string) string {
	if isPlain(s) {
		return s
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}
