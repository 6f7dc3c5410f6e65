package spawn

import (
	"regexp"
	"strings"
)

// spawnMarker flags a line that carries an invocation. It is deliberately
// looser than directivePattern: grouping works per line, extraction per block.
const spawnMarker = "**Spawn"

var phaseHeadingPattern = regexp.MustCompile(`^##` + spaceClass + `+Phase` + spaceClass + `+\d+`)

// PhaseGroup collects directives declared under the same phase heading.
type PhaseGroup struct {
	// Label is the full heading line, e.g. "## Phase 2: Build".
	Label string `json:"phase,omitempty"`
	// HasLabel is false when no heading preceded the group.
	HasLabel   bool        `json:"-"`
	Directives []Directive `json:"directives"`
}

// GroupByPhase assigns directives, in order, to the phase heading active on
// the line where each marker appears. Marker lines beyond len(directives)
// are ignored. Concatenating the groups' directives yields directives.
func GroupByPhase(content string, directives []Directive) []PhaseGroup {
	var (
		groups   []PhaseGroup
		pending  []Directive
		label    string
		hasLabel bool
		cursor   int
	)
	flush := func() {
		if len(pending) == 0 {
			return
		}
		groups = append(groups, PhaseGroup{Label: label, HasLabel: hasLabel, Directives: pending})
		pending = nil
	}
	for _, line := range strings.Split(content, "\n") {
		if phaseHeadingPattern.MatchString(line) {
			flush()
			label = line
			hasLabel = true
		}
		if strings.Contains(line, spawnMarker) && cursor < len(directives) {
			pending = append(pending, directives[cursor])
			cursor++
		}
	}
	flush()
	return groups
}
