package spawn

import "strings"

// aliasSigil prefixes every agent alias in command text.
const aliasSigil = "@"

// builtinAliases maps command-file aliases to the agent types the host
// orchestrator knows how to spawn. It is never written after init.
var builtinAliases = map[string]string{
	"@code-scout":                      "Explore",
	"@documentation-researcher":        "web-researcher",
	"@plan-master":                     "problem-decomposer-orchestrator",
	"@vue-architect":                   "astro-vue-architect",
	"@ssr-debugger":                    "astro-vue-architect",
	"@typescript-validator":            "typescript-master",
	"@nanostore-state-architect":       "astro-vue-architect",
	"@appwrite-integration-specialist": "appwrite-expert",
	"@tailwind-styling-expert":         "astro-vue-ux",
	"@vue-testing-specialist":          "astro-vue-architect",
	"@minimal-change-specialist":       "minimal-change-analyzer",
}

// DefaultAliases returns a copy of the builtin alias table.
func DefaultAliases() map[string]string {
	return cloneAliases(builtinAliases)
}

// Resolve maps an alias to its handler using the builtin table. Unknown
// aliases resolve to themselves without the leading sigil.
func Resolve(alias string) string {
	return resolveIn(builtinAliases, alias)
}

func resolveIn(table map[string]string, alias string) string {
	if handler, ok := table[alias]; ok {
		return handler
	}
	return strings.TrimPrefix(alias, aliasSigil)
}

func cloneAliases(src map[string]string) map[string]string {
	cloned := make(map[string]string, len(src))
	for k, v := range src {
		cloned[k] = v
	}
	return cloned
}
