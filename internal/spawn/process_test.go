package spawn

import (
	"strings"
	"testing"
)

func TestProcessLeavesPlainTextUnchanged(t *testing.T) {
	inputs := []string{
		"",
		"# Command\n\nNo agents here.\n",
		"## Phase 1\n**Spawn but never a directive\n",
		"**Spawn @code-scout with mission:**\n```\nunterminated",
	}
	for _, in := range inputs {
		if got := Process(in); got != in {
			t.Fatalf("Process(%q) = %q, want unchanged", in, got)
		}
	}
}

func TestProcessAppendsSingleGroupWithoutHeadings(t *testing.T) {
	content := "# Fix\n\n" + spawnBlock("@code-scout", "Find the bug") + "\n" + spawnBlock("@plan-master", "Write the plan")
	got := Process(content)
	if !strings.HasPrefix(got, content) {
		t.Fatalf("original content must be preserved as a prefix")
	}
	addendum := strings.TrimPrefix(got, content)
	if strings.Count(addendum, "### Phase Group") != 1 {
		t.Fatalf("expected exactly one phase group:\n%s", addendum)
	}
	first := strings.Index(addendum, "- **@code-scout** (Explore)")
	second := strings.Index(addendum, "- **@plan-master** (problem-decomposer-orchestrator)")
	if first < 0 || second < 0 || first > second {
		t.Fatalf("agents missing or out of order:\n%s", addendum)
	}
	for _, want := range []string{"Mission: Find the bug...", "Mission: Write the plan..."} {
		if !strings.Contains(addendum, want) {
			t.Fatalf("addendum missing %q:\n%s", want, addendum)
		}
	}
}

func TestProcessTwoPhases(t *testing.T) {
	content := "## Phase 1\n" + spawnBlock("@code-scout", "a") + "## Phase 2\n" + spawnBlock("@vue-architect", "b")
	plan := Analyze(content)
	if len(plan.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(plan.Groups))
	}
	got := Process(content)
	if !strings.Contains(got, "### Phase Group 1") || !strings.Contains(got, "### Phase Group 2") {
		t.Fatalf("expected two numbered groups:\n%s", got)
	}
}

func TestProcessorOverridesDoNotTouchBuiltins(t *testing.T) {
	p := NewProcessor(WithAliases(map[string]string{
		"@code-scout": "deep-explorer",
		"@db-expert":  "postgres-master",
	}))
	if got := p.Resolve("@code-scout"); got != "deep-explorer" {
		t.Fatalf("override not applied: %q", got)
	}
	if got := p.Resolve("@db-expert"); got != "postgres-master" {
		t.Fatalf("new alias not applied: %q", got)
	}
	if got := Resolve("@code-scout"); got != "Explore" {
		t.Fatalf("builtin table mutated: %q", got)
	}
	if len(p.Aliases()) != 12 {
		t.Fatalf("expected 12 effective aliases, got %d", len(p.Aliases()))
	}
}

func TestProcessorWithoutOptionsMatchesDefault(t *testing.T) {
	content := "## Phase 1\n" + spawnBlock("@typescript-validator", "check types")
	if got, want := NewProcessor().Process(content), Process(content); got != want {
		t.Fatalf("processor output differs from default:\n%q\n%q", got, want)
	}
}

func TestNilProcessorFallsBackToBuiltins(t *testing.T) {
	var p *Processor
	if got := p.Resolve("@ssr-debugger"); got != "astro-vue-architect" {
		t.Fatalf("nil processor resolve = %q", got)
	}
}
