package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/justinabrahms/llm-session-sharer/internal/gist"
	"github.com/justinabrahms/llm-session-sharer/internal/transcript"
	"github.com/justinabrahms/llm-session-sharer/internal/tui"
)

const gistFetchTimeout = 30 * time.Second

var (
	plainOutput bool
	gistRef     string
	// gistAPIURL is the GitHub API base; empty selects api.github.com.
	gistAPIURL string
)

var viewCmd = &cobra.Command{
	Use:   "view [file|-]",
	Short: "View an exported session in the terminal",
	Long: `View a session export read from a file, from stdin ("-" or no argument),
or from a GitHub gist (--gist). Prints a plain listing when --plain is set or
stdout is not a terminal.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, source, err := readExport(cmd, args)
		if err != nil {
			return err
		}

		segments := transcript.Group(transcript.ParseExport(text))
		if len(segments) == 0 {
			return errors.New("could not parse any conversation")
		}
		logger.Debug("parsed export", "source", source, "segments", len(segments))

		out := cmd.OutOrStdout()
		if plainOutput || !isTerminal(out) {
			printSegments(out, segments)
			return nil
		}
		return tui.Run(segments, source)
	},
}

// readExport returns the export text and a label for where it came from.
func readExport(cmd *cobra.Command, args []string) (string, string, error) {
	if gistRef != "" {
		if len(args) > 0 {
			return "", "", errors.New("use either a file or --gist, not both")
		}
		id := gist.ParseID(gistRef)
		if id == "" {
			return "", "", fmt.Errorf("invalid gist reference: %q", gistRef)
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), gistFetchTimeout)
		defer cancel()
		text, err := gist.NewClient(gistAPIURL).Fetch(ctx, id)
		if err != nil {
			return "", "", fmt.Errorf("fetching gist %s: %w", id, err)
		}
		return text, "gist " + id, nil
	}

	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), "stdin", nil
	}

	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", "", fmt.Errorf("file not found: %s", path)
		}
		return "", "", err
	}
	return string(data), path, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(f.Fd())
}

// printSegments writes a plain-text listing of the conversation to w.
func printSegments(w io.Writer, segments []transcript.Segment) {
	for _, seg := range segments {
		switch seg.Kind {
		case transcript.SegmentUser:
			fmt.Fprintln(w, "You:")
			fmt.Fprintln(w, indent(seg.Content, "  "))
		case transcript.SegmentAssistant:
			fmt.Fprintln(w, "Claude:")
			fmt.Fprintln(w, indent(seg.Content, "  "))
		case transcript.SegmentTool:
			fmt.Fprintf(w, "  ▸ %s\n", transcript.ToolSummary(seg.Content))
		case transcript.SegmentToolGroup:
			fmt.Fprintf(w, "  ▸ %d tool calls\n", seg.ToolCount())
			for _, item := range seg.Items {
				if item.Kind == transcript.SegmentTool {
					fmt.Fprintf(w, "      %s\n", transcript.ToolSummary(item.Content))
				} else {
					fmt.Fprintln(w, indent(item.Content, "      "))
				}
			}
		case transcript.SegmentSnip:
			fmt.Fprintln(w, "  [content snipped]")
		}
		fmt.Fprintln(w)
	}
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

func init() {
	viewCmd.Flags().BoolVar(&plainOutput, "plain", false, "plain text output instead of TUI")
	viewCmd.Flags().StringVar(&gistRef, "gist", "", "gist URL or id to load the export from")
	rootCmd.AddCommand(viewCmd)
}
