package shell

import (
	"fmt"
	"strings"
)

// GenerateStarshipModule returns a Starship custom module definition that
// runs system-graph on every prompt. The output is suitable for appending
// to ~/.config/starship.toml.
func GenerateStarshipModule(cfg IntegrationConfig) string {
	var b strings.Builder

	b.WriteString("# system-graph Starship custom module\n")
	b.WriteString("# Add this section to your ~/.config/starship.toml\n")
	b.WriteString("# and \"${custom.system_graph}\" to your format string\n\n")

	bin := command(cfg, posixQuote)
	fmt.Fprintf(&b, "[custom.system_graph]\n")
	fmt.Fprintf(&b, "command = %s\n", tomlQuote(bin+" -color never"))
	fmt.Fprintf(&b, "when = %s\n", tomlQuote("command -v "+posixQuote(cfg.binary())))
	fmt.Fprintf(&b, "format = \"[$output]($style) \"\n")
	fmt.Fprintf(&b, "style = \"cyan\"\n")
	fmt.Fprintf(&b, "shell = [\"sh\"]\n")
	return b.String()
}

// tomlQuote returns s as a TOML basic string.
func tomlQuote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}
