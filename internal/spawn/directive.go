package spawn

import "regexp"

// Directive is one agent invocation found in a command file.
type Directive struct {
	// Alias is the token as written, sigil included (e.g. "@code-scout").
	Alias string `json:"alias"`
	// Mission is the trimmed interior of the fenced block after the marker.
	Mission string `json:"mission"`
	// HandlerID is the agent type the alias resolves to.
	HandlerID string `json:"handler_id"`
}

// directivePattern matches `**Spawn @alias with mission:**` followed by a
// fenced block. The lazy body stops at the first closing fence.
var directivePattern = regexp.MustCompile(`\*\*Spawn` + spaceClass + `+(@[\w-]+)` +
	spaceClass + `+with` + spaceClass + `+mission:\*\*` + spaceClass + "*```" +
	spaceClass + "*([\\s\\S]*?)```")

// Extract returns every well-formed directive in content, top to bottom.
// Malformed invocations are skipped. resolve maps aliases to handlers; nil
// means the builtin table.
func Extract(content string, resolve func(string) string) []Directive {
	if resolve == nil {
		resolve = Resolve
	}
	matches := directivePattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}
	directives := make([]Directive, 0, len(matches))
	for _, m := range matches {
		alias := m[1]
		directives = append(directives, Directive{
			Alias:     alias,
			Mission:   trimSpace(m[2]),
			HandlerID: resolve(alias),
		})
	}
	return directives
}
