// Package tui provides a Bubble Tea viewer for exported Claude sessions.
package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/justinabrahms/llm-session-sharer/internal/transcript"
)

// ── Styles ────────────

var (
	titleStyle          = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62")).Padding(0, 2)
	userLabelStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	assistantLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	toolStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	transitionStyle     = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("245"))
	dimStyle            = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	cursorStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	statusBarStyle      = lipgloss.NewStyle().Background(lipgloss.Color("235")).Foreground(lipgloss.Color("245")).Padding(0, 1)
)

const (
	minBodyWidth = 20
	// title(1) + statusBar(1)
	chromeRows = 2
)

// ── Model ────────────────────

// Model is the root Bubble Tea model for the viewer.
type Model struct {
	segments      []transcript.Segment
	source        string
	cursor        int
	expanded      map[int]bool
	hideAssistant bool
	viewport      viewport.Model
	// offsets[i] is the first content line of segment i, -1 when hidden
	offsets  []int
	markdown *glamour.TermRenderer
	width    int
	height   int
	ready    bool
}

// New creates a viewer for grouped segments read from source.
func New(segments []transcript.Segment, source string) Model {
	return Model{
		segments: segments,
		source:   filepath.Base(source),
		expanded: make(map[int]bool),
	}
}

// ── Bubble Tea interface ───────────────

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "down", "j":
			m.move(1)
			return m, nil
		case "up", "k":
			m.move(-1)
			return m, nil
		case "enter", " ":
			m.toggle()
			return m, nil
		case "c":
			m.hideAssistant = !m.hideAssistant
			if !m.visible(m.cursor) {
				if !m.move(1) {
					m.move(-1)
				}
			}
			m.refresh()
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.initViewport()
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	if !m.ready {
		return "Loading…"
	}

	title := titleStyle.Width(m.width).Render("  llm-session-sharer  " + m.source)

	hint := "  j/k select  enter expand  c "
	if m.hideAssistant {
		hint += "show Claude"
	} else {
		hint += "hide Claude"
	}
	hint += "  q quit"
	pos := fmt.Sprintf("%d/%d  %3.0f%%", m.position(), m.visibleCount(), m.viewport.ScrollPercent()*100)
	pad := m.width - lipgloss.Width(hint) - lipgloss.Width(pos) - 2
	if pad < 1 {
		pad = 1
	}
	statusBar := statusBarStyle.Width(m.width).Render(hint + strings.Repeat(" ", pad) + pos)

	return lipgloss.JoinVertical(lipgloss.Left, title, m.viewport.View(), statusBar)
}

// ── Selection ────────────────────

func (m *Model) visible(i int) bool {
	if i < 0 || i >= len(m.segments) {
		return false
	}
	return !(m.hideAssistant && m.segments[i].Kind == transcript.SegmentAssistant)
}

// move steps the cursor to the next visible segment in direction dir.
// Reports whether the cursor moved.
func (m *Model) move(dir int) bool {
	for i := m.cursor + dir; i >= 0 && i < len(m.segments); i += dir {
		if m.visible(i) {
			m.cursor = i
			m.refresh()
			m.scrollToCursor()
			return true
		}
	}
	return false
}

func (m *Model) toggle() {
	if !m.visible(m.cursor) {
		return
	}
	switch m.segments[m.cursor].Kind {
	case transcript.SegmentTool, transcript.SegmentToolGroup:
		if m.expanded[m.cursor] {
			delete(m.expanded, m.cursor)
		} else {
			m.expanded[m.cursor] = true
		}
		m.refresh()
	}
}

// position is the 1-based rank of the cursor among visible segments.
func (m *Model) position() int {
	if !m.visible(m.cursor) {
		return 0
	}
	n := 0
	for i := 0; i <= m.cursor; i++ {
		if m.visible(i) {
			n++
		}
	}
	return n
}

func (m *Model) visibleCount() int {
	n := 0
	for i := range m.segments {
		if m.visible(i) {
			n++
		}
	}
	return n
}

// ── Viewport management ───────────────────────────────────────────────────────

func (m *Model) initViewport() {
	vpHeight := m.height - chromeRows
	if vpHeight < 1 {
		vpHeight = 1
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(m.bodyWidth()),
	)
	if err == nil {
		m.markdown = r
	}
	m.viewport = viewport.New(m.width, vpHeight)
	m.refresh()
}

func (m *Model) refresh() {
	if !m.ready {
		return
	}
	content, offsets := m.render()
	m.offsets = offsets
	m.viewport.SetContent(content)
}

func (m *Model) scrollToCursor() {
	if !m.ready || m.cursor >= len(m.offsets) {
		return
	}
	off := m.offsets[m.cursor]
	if off < 0 {
		return
	}
	if off < m.viewport.YOffset || off >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(off)
	}
}

func (m *Model) bodyWidth() int {
	if w := m.width - 4; w > minBodyWidth {
		return w
	}
	return minBodyWidth
}

// ── Block renderers ─────────────────────────────────────────────────────────────

func (m *Model) render() (string, []int) {
	var sb strings.Builder
	offsets := make([]int, len(m.segments))
	line := 0
	for i, seg := range m.segments {
		offsets[i] = -1
		if !m.visible(i) {
			continue
		}
		offsets[i] = line
		block := m.renderBlock(i, seg)
		sb.WriteString(block)
		sb.WriteString("\n\n")
		line += strings.Count(block, "\n") + 2
	}
	return sb.String(), offsets
}

func (m *Model) renderBlock(i int, seg transcript.Segment) string {
	expanded := m.expanded[i]
	var lines []string

	switch seg.Kind {
	case transcript.SegmentUser:
		lines = append(lines, userLabelStyle.Render("You"))
		lines = append(lines, strings.Split(wordwrap.String(seg.Content, m.bodyWidth()), "\n")...)

	case transcript.SegmentAssistant:
		lines = append(lines, assistantLabelStyle.Render("Claude"))
		lines = append(lines, strings.Split(m.renderMarkdown(seg.Content), "\n")...)

	case transcript.SegmentTool:
		lines = append(lines, toolStyle.Render(toggleGlyph(expanded)+transcript.ToolSummary(seg.Content)))
		if expanded {
			lines = append(lines, toolBody(seg.Content, "  ")...)
		}

	case transcript.SegmentToolGroup:
		lines = append(lines, toolStyle.Render(fmt.Sprintf("%s%d tool calls", toggleGlyph(expanded), seg.ToolCount())))
		if expanded {
			lines = append(lines, m.renderGroup(seg)...)
		}

	case transcript.SegmentSnip:
		lines = append(lines, dimStyle.Render("[content snipped]"))
	}

	marker := "  "
	if i == m.cursor {
		marker = cursorStyle.Render("▌ ")
	}
	for j := range lines {
		lines[j] = marker + lines[j]
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderGroup(seg transcript.Segment) []string {
	var lines []string
	for _, item := range seg.Items {
		if item.Kind == transcript.SegmentAssistant {
			lines = append(lines, "  "+transitionStyle.Render(item.Content))
			continue
		}
		lines = append(lines, "  "+toolStyle.Render("▸ "+transcript.ToolSummary(item.Content)))
		lines = append(lines, toolBody(item.Content, "    ")...)
	}
	return lines
}

func (m *Model) renderMarkdown(content string) string {
	if m.markdown != nil {
		if out, err := m.markdown.Render(content); err == nil {
			return strings.Trim(out, "\n")
		}
	}
	return wordwrap.String(content, m.bodyWidth())
}

// toolBody returns the lines after the call line, dimmed and indented.
func toolBody(content, prefix string) []string {
	_, rest, ok := strings.Cut(content, "\n")
	if !ok || rest == "" {
		return nil
	}
	var lines []string
	for _, l := range strings.Split(rest, "\n") {
		lines = append(lines, prefix+dimStyle.Render(l))
	}
	return lines
}

func toggleGlyph(expanded bool) string {
	if expanded {
		return "▼ "
	}
	return "▶ "
}

// Run starts the viewer for the given segments.
func Run(segments []transcript.Segment, source string) error {
	p := tea.NewProgram(New(segments, source), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
