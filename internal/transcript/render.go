package transcript

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
)

// Output glyphs of the export format.
const (
	UserPrefix         = "> "
	AssistantPrefix    = "⏺ "
	ResultPrefix       = "  ⎿ " // U+23BF, as Claude Code's own export writes it
	ResultContinuation = "    "
)

const (
	maxCommandLen    = 80 // Bash commands longer than this are cut
	commandCutLen    = 77 // ...to this many runes plus "..."
	maxResultLines   = 20
	unknownToolLabel = "Tool"
)

// internalMarkers prefix user strings that Claude injects itself (slash
// command echoes, local command output, caveats, reminders).
var internalMarkers = []string{
	"<command-name>",
	"<local-command",
	"Caveat:",
	"<system-reminder>",
}

// Renderer turns a decoded transcript into export text.
type Renderer interface {
	Render(t *Transcript) string
}

// TextRenderer renders the plain-text export format.
type TextRenderer struct {
	// Logger receives debug entries; slog.Default() when nil.
	Logger *slog.Logger
}

// Render returns the export text of t: one line per output line, joined by
// "\n" with no trailing newline.
func (r *TextRenderer) Render(t *Transcript) string {
	return strings.Join(r.RenderRecords(t.Records), "\n")
}

// RenderRecords renders records in order and returns the output lines.
func (r *TextRenderer) RenderRecords(records []Record) []string {
	st := &renderState{
		tools:  toolRegistry{},
		logger: r.Logger,
	}
	if st.logger == nil {
		st.logger = slog.Default()
	}
	for _, rec := range records {
		st.record(rec)
	}
	return st.out
}

// toolRegistry maps a tool_use id to its one-line summary.
type toolRegistry map[string]string

func (reg toolRegistry) label(id string) string {
	if s, ok := reg[id]; ok {
		return s
	}
	return unknownToolLabel
}

// renderState is scoped to a single Render call.
type renderState struct {
	out    []string
	tools  toolRegistry
	logger *slog.Logger
}

func (st *renderState) emit(lines ...string) {
	st.out = append(st.out, lines...)
}

func (st *renderState) record(rec Record) {
	if rec.Type == TypeSnapshot || rec.IsMeta {
		return
	}
	content := rec.Message.Content

	switch rec.Type {
	case TypeUser:
		switch content.Kind {
		case ContentString:
			st.userText(content.Text)
		case ContentItems:
			for _, item := range content.Items {
				if item.Type == ItemToolResult {
					st.toolResult(item)
				}
			}
		}
	case TypeAssistant:
		switch content.Kind {
		case ContentItems:
			for _, item := range content.Items {
				st.assistantItem(item)
			}
		case ContentString:
			if content.Text != "" {
				st.emit(AssistantPrefix+content.Text, "")
			}
		}
	default:
		// Summaries, system records and unknown types produce nothing.
	}
}

func (st *renderState) userText(text string) {
	for _, marker := range internalMarkers {
		if strings.HasPrefix(text, marker) {
			return
		}
	}
	for _, line := range strings.Split(text, "\n") {
		st.emit(UserPrefix + line)
	}
	st.emit("")
}

func (st *renderState) assistantItem(item Item) {
	switch item.Type {
	case ItemText:
		if item.Text != "" {
			st.emit(AssistantPrefix+item.Text, "")
		}
	case ItemToolUse:
		name := item.Name
		if name == "" {
			name = unknownToolLabel
		}
		summary := FormatToolUse(name, item.Input)
		st.tools[item.ID] = summary
		st.emit(AssistantPrefix + summary)
	case ItemThinking:
		// never rendered
	default:
		// unknown item kinds are ignored
	}
}

func (st *renderState) toolResult(item Item) {
	st.logger.Debug("tool result",
		slog.String("tool_use_id", item.ToolUseID),
		slog.String("tool", st.tools.label(item.ToolUseID)),
	)
	for i, line := range strings.Split(FormatToolResult(item.Content), "\n") {
		if i == 0 {
			st.emit(ResultPrefix + line)
		} else {
			st.emit(ResultContinuation + line)
		}
	}
	st.emit("")
}

// FormatToolUse returns the one-line summary of a tool invocation, such as
// Bash(ls -la) or Read(/path/to/file). Tools without a dedicated format
// render as Name(...), and input that is not a JSON object as Name(). A
// missing input counts as an empty object.
func FormatToolUse(name string, input json.RawMessage) string {
	fields := map[string]any{}
	if len(bytes.TrimSpace(input)) > 0 {
		fields = nil
		if err := json.Unmarshal(input, &fields); err != nil || fields == nil {
			return name + "()"
		}
	}

	str := func(key string) string {
		if s, ok := fields[key].(string); ok {
			return s
		}
		return ""
	}

	switch name {
	case "Bash":
		return "Bash(" + truncateCommand(str("command")) + ")"
	case "Read", "Edit", "Write":
		return name + "(" + str("file_path") + ")"
	case "Glob", "Grep":
		return name + "(" + str("pattern") + ")"
	case "Task":
		return "Task(" + str("description") + ")"
	default:
		return name + "(...)"
	}
}

func truncateCommand(cmd string) string {
	runes := []rune(cmd)
	if len(runes) > maxCommandLen {
		return string(runes[:commandCutLen]) + "..."
	}
	return cmd
}

// FormatToolResult returns the text of a tool_result payload. String payloads
// longer than 20 lines keep the first 20 and gain a "[..snip.. N more lines]"
// line. Structured payloads are returned as compact JSON, uncut.
func FormatToolResult(raw json.RawMessage) string {
	if len(bytes.TrimSpace(raw)) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return string(raw)
		}
		return buf.String()
	}

	lines := strings.Split(s, "\n")
	if len(lines) <= maxResultLines {
		return s
	}
	return strings.Join(lines[:maxResultLines], "\n") +
		fmt.Sprintf("\n[..snip.. %d more lines]", len(lines)-maxResultLines)
}
