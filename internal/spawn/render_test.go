package spawn

import (
	"strings"
	"testing"
)

func TestRenderInstructionsEmpty(t *testing.T) {
	if got := RenderInstructions(nil); got != "" {
		t.Fatalf("expected empty addendum, got %q", got)
	}
}

func TestRenderInstructionsFormat(t *testing.T) {
	groups := []PhaseGroup{
		{Directives: []Directive{
			{Alias: "@code-scout", Mission: "Find the bug", HandlerID: "Explore"},
			{Alias: "@plan-master", Mission: "Write the plan", HandlerID: "problem-decomposer-orchestrator"},
		}},
		{Label: "## Phase 2", HasLabel: true, Directives: []Directive{
			{Alias: "@x", Mission: "m", HandlerID: "x"},
		}},
	}
	want := "\n\n## AUTO-SPAWNED AGENTS\n\n" +
		"Claude should spawn the following agents to continue:\n\n" +
		"### Phase Group 1\n" +
		"**Agents to spawn in parallel:**\n" +
		"- **@code-scout** (Explore)\n" +
		"  Mission: Find the bug...\n\n" +
		"- **@plan-master** (problem-decomposer-orchestrator)\n" +
		"  Mission: Write the plan...\n\n" +
		"### Phase Group 2\n" +
		"**Agents to spawn in parallel:**\n" +
		"- **@x** (x)\n" +
		"  Mission: m...\n\n"
	if got := RenderInstructions(groups); got != want {
		t.Fatalf("unexpected addendum:\n%q\nwant:\n%q", got, want)
	}
}

func TestMissionPreviewTruncation(t *testing.T) {
	short := "0123456789"
	if got := MissionPreview(short); got != short+"..." {
		t.Fatalf("short mission preview = %q", got)
	}
	long := strings.Repeat("a", 100) + "TAIL"
	if got := MissionPreview(long); got != strings.Repeat("a", 100)+"..." {
		t.Fatalf("long mission preview = %q", got)
	}
	exact := strings.Repeat("b", 100)
	if got := MissionPreview(exact); got != exact+"..." {
		t.Fatalf("exact-length mission preview = %q", got)
	}
}

func TestMissionPreviewCountsRunes(t *testing.T) {
	mission := strings.Repeat("é", 120)
	got := MissionPreview(mission)
	if want := strings.Repeat("é", 100) + "..."; got != want {
		t.Fatalf("rune truncation broke: got %d bytes", len(got))
	}
}
