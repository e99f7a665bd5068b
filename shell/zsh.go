package shell

import (
	"fmt"
	"strings"
)

// GenerateZshIntegration returns a Zsh script snippet that records one
// sample per prompt and shows the line in RPROMPT. Source the output in
// ~/.zshrc.
func GenerateZshIntegration(cfg IntegrationConfig) string {
	specs := make([]string, 0, len(completionFlags))
	for _, f := range completionFlags {
		if f.arg {
			specs = append(specs, fmt.Sprintf("        '-%s[%s]:%s:'", f.name, f.desc, f.name))
		} else {
			specs = append(specs, fmt.Sprintf("        '-%s[%s]'", f.name, f.desc))
		}
	}

	return fmt.Sprintf(`# system-graph shell integration for Zsh
# Source this in your ~/.zshrc

autoload -Uz add-zsh-hook

# Take one sample before every prompt
_system_graph_precmd() {
    SYSTEM_GRAPH_LINE="$(%[1]s 2>/dev/null)"
}
add-zsh-hook precmd _system_graph_precmd

setopt PROMPT_SUBST
RPROMPT='${SYSTEM_GRAPH_LINE}'

# Render a template without recording a sample
sg-peek() {
    %[1]s -no-save "$@"
}

# Zsh completion for system-graph
_system_graph_completion() {
    _arguments \
%[2]s
}
compdef _system_graph_completion system-graph
`, command(cfg, posixQuote), strings.Join(specs, " \\\n"))
}
