// internal/tui/viewer.go
//
// A read-only bubbletea viewer for one command file. It shows the phase
// groups the filter would append, and reloads when the file changes.

package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/spawnhook/internal/command"
	"github.com/kingrea/spawnhook/internal/spawn"
)

// Analyzer turns command text into a spawn plan.
type Analyzer interface {
	Analyze(content string) spawn.Plan
}

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Reload key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Reload, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var defaultKeys = keyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k", "pgup"), key.WithHelp("↑/k", "scroll up")),
	Down:   key.NewBinding(key.WithKeys("down", "j", "pgdown"), key.WithHelp("↓/j", "scroll down")),
	Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

type planLoadedMsg struct {
	doc  command.Document
	plan spawn.Plan
	err  error
}

type fileChangedMsg struct{}

type watchClosedMsg struct{}

// ViewerOption customizes Viewer construction.
type ViewerOption func(*Viewer)

// WithChanges feeds file-change notifications into the viewer.
func WithChanges(changes <-chan struct{}) ViewerOption {
	return func(v *Viewer) {
		v.changes = changes
	}
}

// WithReader overrides how the viewer reads the file. Tests use it to
// avoid the filesystem.
func WithReader(read func(string) ([]byte, error)) ViewerOption {
	return func(v *Viewer) {
		if read != nil {
			v.read = read
		}
	}
}

// Viewer is the bubbletea model behind `spawnhook view`.
type Viewer struct {
	path     string
	analyzer Analyzer
	read     func(string) ([]byte, error)
	changes  <-chan struct{}

	keys     keyMap
	help     help.Model
	viewport viewport.Model
	ready    bool
	width    int

	doc     command.Document
	plan    spawn.Plan
	loaded  bool
	err     error
	reloads int
}

// NewViewer builds a viewer for path.
func NewViewer(path string, analyzer Analyzer, opts ...ViewerOption) *Viewer {
	if analyzer == nil {
		analyzer = spawn.NewProcessor()
	}
	v := &Viewer{
		path:     path,
		analyzer: analyzer,
		read:     os.ReadFile,
		keys:     defaultKeys,
		help:     help.New(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}
	return v
}

// Init implements tea.Model.
func (v *Viewer) Init() tea.Cmd {
	return tea.Batch(v.load(), v.waitForChange())
}

// Update implements tea.Model.
func (v *Viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.Reload):
			return v, v.load()
		}
	case tea.WindowSizeMsg:
		v.width = msg.Width
		height := max(1, msg.Height-lipgloss.Height(v.footer()))
		if !v.ready {
			v.viewport = viewport.New(msg.Width, height)
			v.ready = true
		} else {
			v.viewport.Width = msg.Width
			v.viewport.Height = height
		}
		v.refresh()
	case planLoadedMsg:
		v.doc, v.plan, v.err = msg.doc, msg.plan, msg.err
		v.loaded = true
		v.reloads++
		v.refresh()
		return v, nil
	case fileChangedMsg:
		return v, tea.Batch(v.load(), v.waitForChange())
	case watchClosedMsg:
		return v, nil
	}
	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

// View implements tea.Model.
func (v *Viewer) View() string {
	if !v.ready {
		return "Loading " + v.path + "..."
	}
	return lipgloss.JoinVertical(lipgloss.Left, v.viewport.View(), v.footer())
}

// Content returns the text currently shown in the viewport.
func (v *Viewer) Content() string {
	switch {
	case v.err != nil:
		return warnStyle.Render(fmt.Sprintf("⚠ %v", v.err))
	case !v.loaded:
		return mutedStyle.Render("Reading " + v.path + "...")
	default:
		return RenderPlan(v.path, v.doc, v.plan, v.width)
	}
}

func (v *Viewer) refresh() {
	if v.ready {
		v.viewport.SetContent(v.Content())
	}
}

func (v *Viewer) footer() string {
	status := v.path
	if v.changes != nil {
		status += " · watching"
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		mutedStyle.Render(status),
		v.help.View(v.keys))
}

func (v *Viewer) load() tea.Cmd {
	path, read, analyzer := v.path, v.read, v.analyzer
	return func() tea.Msg {
		data, err := read(path)
		if err != nil {
			return planLoadedMsg{err: fmt.Errorf("read %s: %w", path, err)}
		}
		content := string(data)
		return planLoadedMsg{
			doc:  command.Parse(data),
			plan: analyzer.Analyze(content),
		}
	}
}

func (v *Viewer) waitForChange() tea.Cmd {
	if v.changes == nil {
		return nil
	}
	changes := v.changes
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return watchClosedMsg{}
		}
		return fileChangedMsg{}
	}
}

// Summary reports a one-line description of the last load, for logs.
func (v *Viewer) Summary() string {
	if v.err != nil {
		return v.err.Error()
	}
	return strings.TrimSpace(fmt.Sprintf("%d directive(s), %d group(s), %d load(s)",
		len(v.plan.Directives), len(v.plan.Groups), v.reloads))
}
