package session

import "time"

const (
	// Ext is the extension of every transcript file.
	Ext = ".jsonl"
	// AgentPrefix marks sub-agent transcripts, named agent-<id>.jsonl.
	AgentPrefix = "agent-"
)

// Session is one main transcript file inside a project directory.
type Session struct {
	ID      string    // file name without Ext
	Path    string    // absolute path to the .jsonl file
	ModTime time.Time // used to pick the latest session
}
