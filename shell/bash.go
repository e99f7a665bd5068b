package shell

import (
	"fmt"
	"strings"
)

// GenerateBashIntegration returns a Bash script snippet that records one
// sample per prompt. Source the output in ~/.bashrc.
func GenerateBashIntegration(cfg IntegrationConfig) string {
	return fmt.Sprintf(`# system-graph shell integration for Bash
# Source this in your ~/.bashrc or ~/.bash_profile

# Take one sample before every prompt
_system_graph_precmd() {
    SYSTEM_GRAPH_LINE="$(%[1]s 2>/dev/null)"
}
case ";${PROMPT_COMMAND};" in
    *";_system_graph_precmd;"*) ;;
    *) PROMPT_COMMAND="_system_graph_precmd${PROMPT_COMMAND:+;$PROMPT_COMMAND}" ;;
esac

# Show the line in the prompt, for example:
#   PS1='[${SYSTEM_GRAPH_LINE}] \w \$ '

# Render a template without recording a sample
sg-peek() {
    %[1]s -no-save "$@"
}

# Template language reference
sg-help() {
    %[1]s -help-format | "${PAGER:-less}"
}

complete -W "%[2]s" system-graph
`, command(cfg, posixQuote), flagWords())
}

func flagWords() string {
	words := make([]string, len(completionFlags))
	for i, f := range completionFlags {
		words[i] = "-" + f.name
	}
	return strings.Join(words, " ")
}
