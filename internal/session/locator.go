package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrProjectNotFound is returned by NewLocator when the project directory
// does not exist.
var ErrProjectNotFound = errors.New("project directory not found")

// ErrNoSession is returned by Latest when the directory holds no main
// session files.
var ErrNoSession = errors.New("no session files found")

// Locator finds transcripts inside one project directory.
type Locator interface {
	Latest() (*Session, error)          // returns ErrNoSession if none exists
	Agents() (map[string]string, error) // agent id -> path
}

// dirLocator is the concrete Locator that reads a directory on disk.
type dirLocator struct {
	dir string
}

// NewLocator returns a Locator for dir. Returns ErrProjectNotFound if dir is
// missing or is not a directory.
func NewLocator(dir string) (Locator, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("reading project directory: %w", err)
	}
	if !info.IsDir() {
		return nil, ErrProjectNotFound
	}
	return &dirLocator{dir: dir}, nil
}

// Latest returns the main session with the newest modification time.
// Agent transcripts are never considered. Ties between equal mtimes are
// broken by directory order.
func (d *dirLocator) Latest() (*Session, error) {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("listing sessions: %w", err)
	}

	var sessions []Session
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, Ext) || strings.HasPrefix(name, AgentPrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// Removed between ReadDir and Info.
			continue
		}
		sessions = append(sessions, Session{
			ID:      strings.TrimSuffix(name, Ext),
			Path:    filepath.Join(d.dir, name),
			ModTime: info.ModTime(),
		})
	}

	if len(sessions) == 0 {
		return nil, ErrNoSession
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].ModTime.After(sessions[j].ModTime)
	})
	return &sessions[0], nil
}

// Agents maps each agent-<id>.jsonl file in the directory by <id>.
func (d *dirLocator) Agents() (map[string]string, error) {
	matches, err := filepath.Glob(filepath.Join(d.dir, AgentPrefix+"*"+Ext))
	if err != nil {
		return nil, fmt.Errorf("listing agent sessions: %w", err)
	}
	agents := make(map[string]string, len(matches))
	for _, path := range matches {
		stem := strings.TrimSuffix(filepath.Base(path), Ext)
		agents[strings.TrimPrefix(stem, AgentPrefix)] = path
	}
	return agents, nil
}
