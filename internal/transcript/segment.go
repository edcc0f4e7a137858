package transcript

import (
	"regexp"
	"strings"
	"unicode"
)

// SegmentKind classifies a block of export text.
type SegmentKind string

const (
	SegmentUser      SegmentKind = "user"
	SegmentAssistant SegmentKind = "assistant"
	SegmentTool      SegmentKind = "tool"
	SegmentSnip      SegmentKind = "snip"
	// SegmentToolGroup is produced by Group, never by ParseExport.
	SegmentToolGroup SegmentKind = "tool-group"
)

// Segment is one conversation block recovered from export text.
type Segment struct {
	Kind    SegmentKind
	Content string
	Items   []Segment // set for SegmentToolGroup only
}

const snipMarker = "[..snip..]"

var (
	toolLineRe = regexp.MustCompile(`(?i)^⏺\s*(Bash|Read|Write|Edit|Update|Glob|Grep|Fetch|Task|TodoWrite|WebFetch|WebSearch|NotebookEdit|AskUser|mcp__\w+)\s*\(`)

	briefTransitionRe = regexp.MustCompile(`^(Now|Let me|I'll|Done|Good|Next|Adding|Updating|Creating|Fixed)[^.]*:?\s*$`)

	bannerMarkers = []string{"Claude Code v", "▐▛", "▝▜"}
)

// segmentBuilder accumulates the lines of the segment being read.
type segmentBuilder struct {
	segments []Segment
	kind     SegmentKind
	lines    []string
	open     bool
}

func (b *segmentBuilder) start(kind SegmentKind, line string) {
	b.flush()
	b.kind = kind
	b.lines = []string{line}
	b.open = true
}

func (b *segmentBuilder) add(line string) {
	b.lines = append(b.lines, line)
}

func (b *segmentBuilder) flush() {
	if !b.open {
		return
	}
	b.segments = append(b.segments, Segment{
		Kind:    b.kind,
		Content: strings.TrimRightFunc(strings.Join(b.lines, "\n"), unicode.IsSpace),
	})
	b.open = false
	b.lines = nil
}

// ParseExport splits export text (as produced by TextRenderer, or by Claude's
// own /export) into user, assistant, tool and snip segments.
func ParseExport(text string) []Segment {
	b := &segmentBuilder{}

	for _, line := range strings.Split(text, "\n") {
		switch {
		case strings.HasPrefix(line, UserPrefix):
			if b.open && b.kind == SegmentUser {
				b.add(line[len(UserPrefix):])
			} else {
				b.start(SegmentUser, line[len(UserPrefix):])
			}

		case toolLineRe.MatchString(line):
			b.start(SegmentTool, stripGlyph(line))

		case strings.HasPrefix(strings.TrimLeft(line, " \t"), "⎿"):
			if b.open && b.kind == SegmentTool {
				b.add(line)
			} else {
				b.start(SegmentTool, line)
			}

		case strings.HasPrefix(line, "⏺"):
			b.start(SegmentAssistant, stripGlyph(line))

		case strings.HasPrefix(line, "! "):
			b.start(SegmentTool, line[2:])

		case strings.Contains(line, snipMarker):
			b.flush()
			b.segments = append(b.segments, Segment{Kind: SegmentSnip, Content: "[content snipped]"})

		case isBanner(line):
			// Claude Code version banner

		default:
			if b.open {
				b.add(line)
			}
		}
	}

	b.flush()
	return b.segments
}

// stripGlyph removes a leading "⏺" and the single space after it.
func stripGlyph(line string) string {
	line = strings.TrimPrefix(line, "⏺")
	return strings.TrimPrefix(line, " ")
}

func isBanner(line string) bool {
	for _, m := range bannerMarkers {
		if strings.Contains(line, m) {
			return true
		}
	}
	return false
}

// IsBriefTransition reports whether assistant text is a short hand-off
// between tool calls ("Now let me check the tests:").
func IsBriefTransition(content string) bool {
	trimmed := strings.TrimSpace(content)
	return len([]rune(trimmed)) < 60 && briefTransitionRe.MatchString(trimmed)
}

// Group merges runs of consecutive tool segments into tool groups. A brief
// assistant transition right after a group is folded into it. Groups that end
// up holding a single tool are turned back into that tool.
func Group(segments []Segment) []Segment {
	var merged []Segment
	for _, seg := range segments {
		var last *Segment
		if len(merged) > 0 {
			last = &merged[len(merged)-1]
		}
		switch {
		case seg.Kind == SegmentTool:
			if last != nil && last.Kind == SegmentToolGroup {
				last.Items = append(last.Items, seg)
			} else {
				merged = append(merged, Segment{Kind: SegmentToolGroup, Items: []Segment{seg}})
			}
		case seg.Kind == SegmentAssistant && last != nil && last.Kind == SegmentToolGroup && IsBriefTransition(seg.Content):
			last.Items = append(last.Items, seg)
		default:
			merged = append(merged, seg)
		}
	}

	for i := range merged {
		if merged[i].Kind == SegmentToolGroup && len(merged[i].Items) == 1 {
			merged[i] = Segment{Kind: SegmentTool, Content: merged[i].Items[0].Content}
		}
	}
	return merged
}

// ToolCount returns the number of tool segments in a group.
func (s Segment) ToolCount() int {
	n := 0
	for _, item := range s.Items {
		if item.Kind == SegmentTool {
			n++
		}
	}
	return n
}

// ToolSummary returns the first line of a tool segment, cut to 60 runes.
func ToolSummary(content string) string {
	first, _, _ := strings.Cut(content, "\n")
	if runes := []rune(first); len(runes) > 60 {
		return string(runes[:60]) + "..."
	}
	if first == "" {
		return "Tool operation"
	}
	return first
}
