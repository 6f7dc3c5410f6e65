package spawn

import (
	"fmt"
	"strings"
)

const (
	instructionsHeader = "\n\n## AUTO-SPAWNED AGENTS\n\n"
	instructionsIntro  = "Claude should spawn the following agents to continue:\n\n"
	missionPreviewLen  = 100
	previewEllipsis    = "..."
)

// RenderInstructions turns phase groups into the addendum appended to the
// command text. It returns "" when there is nothing to spawn.
func RenderInstructions(groups []PhaseGroup) string {
	if len(groups) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(instructionsHeader)
	b.WriteString(instructionsIntro)
	for idx, group := range groups {
		fmt.Fprintf(&b, "### Phase Group %d\n", idx+1)
		b.WriteString("**Agents to spawn in parallel:**\n")
		for _, d := range group.Directives {
			fmt.Fprintf(&b, "- **%s** (%s)\n", d.Alias, d.HandlerID)
			fmt.Fprintf(&b, "  Mission: %s\n\n", MissionPreview(d.Mission))
		}
	}
	return b.String()
}

// MissionPreview returns the first 100 runes of mission followed by an
// ellipsis. The ellipsis is always present.
func MissionPreview(mission string) string {
	runes := []rune(mission)
	if len(runes) > missionPreviewLen {
		runes = runes[:missionPreviewLen]
	}
	return string(runes) + previewEllipsis
}
