package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/spawnhook/internal/command"
	"github.com/kingrea/spawnhook/internal/spawn"
)

const unlabelledPhase = "(no phase heading)"

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B"))
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	detailStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0AEC0"))
	aliasStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	handlerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	boxStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
)

// RenderPlan draws the analysed command file as a set of bordered phase
// boxes. width <= 0 leaves lines unwrapped.
func RenderPlan(path string, doc command.Document, plan spawn.Plan, width int) string {
	var sections []string
	name := filepath.Base(path)
	if name == "." || name == "" {
		name = "stdin"
	}
	sections = append(sections, headerStyle.Render("⬡ SPAWNHOOK · "+name))
	if summary := doc.Summary(); summary != "" {
		sections = append(sections, detailStyle.Render(summary))
	}
	if len(doc.Meta.AllowedTools) > 0 {
		sections = append(sections, mutedStyle.Render("tools: "+strings.Join(doc.Meta.AllowedTools, ", ")))
	}
	if doc.FrontMatterErr != nil {
		sections = append(sections, warnStyle.Render(fmt.Sprintf("⚠ %v", doc.FrontMatterErr)))
	}
	sections = append(sections, mutedStyle.Render(fmt.Sprintf(
		"%d directive(s) in %d phase group(s)", len(plan.Directives), len(plan.Groups))))
	if plan.Empty() {
		sections = append(sections, mutedStyle.Render("Nothing to spawn. The filter passes this file through unchanged."))
		return strings.Join(sections, "\n")
	}
	for idx, group := range plan.Groups {
		sections = append(sections, renderGroup(idx, group, width))
	}
	return strings.Join(sections, "\n")
}

func renderGroup(idx int, group spawn.PhaseGroup, width int) string {
	label := unlabelledPhase
	if group.HasLabel {
		label = strings.TrimSpace(strings.TrimLeft(group.Label, "#"))
	}
	lines := []string{titleStyle.Render(fmt.Sprintf("Phase Group %d · %s", idx+1, label))}
	for _, d := range group.Directives {
		lines = append(lines, fmt.Sprintf("%s %s",
			aliasStyle.Render(d.Alias),
			handlerStyle.Render("→ "+d.HandlerID)))
		lines = append(lines, detailStyle.Render("  "+spawn.MissionPreview(firstLine(d.Mission))))
	}
	style := boxStyle
	if width > 0 {
		style = style.Width(max(20, width-2))
	}
	return style.Render(strings.Join(lines, "\n"))
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
