package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/justinabrahms/llm-session-sharer/internal/config"
	"github.com/justinabrahms/llm-session-sharer/internal/logging"
	"github.com/justinabrahms/llm-session-sharer/internal/project"
	"github.com/justinabrahms/llm-session-sharer/internal/session"
)

// executeCommand runs the root command with the given args and returns
// combined stdout/stderr output and any error.
func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	_, err = root.ExecuteC()
	return buf.String(), err
}

// isolate points HOME at a temp dir and clears the log level override.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(logging.LogLevelEnvVar, "")
	return home
}

// writeTranscript writes lines as <dir>/<name> with the given mtime.
func writeTranscript(t *testing.T, dir, name string, mtime time.Time, lines ...string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}
}

func userRecord(text string) string {
	b, _ := json.Marshal(map[string]any{"type": "user", "message": map[string]any{"content": text}})
	return string(b)
}

func TestExportNoProject(t *testing.T) {
	isolate(t)

	out, err := executeCommand(rootCmd, "/work/missing")
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	if err.Error() != "no Claude project found for /work/missing" {
		t.Errorf("unexpected error: %q", err.Error())
	}
	if out != "" {
		t.Errorf("expected no output, got %q", out)
	}
}

func TestExportNoSession(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, ".claude", "projects", project.Encode("/work/empty"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeTranscript(t, dir, "agent-1.jsonl", time.Now(), userRecord("agent"))

	out, err := executeCommand(rootCmd, "/work/empty")
	if !errors.Is(err, session.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	if err.Error() != "no session files found" {
		t.Errorf("unexpected error: %q", err.Error())
	}
	if out != "" {
		t.Errorf("expected no output, got %q", out)
	}
}

func TestExportLatestSession(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, ".claude", "projects", project.Encode("/work/app"))
	now := time.Now()

	writeTranscript(t, dir, uuid.NewString()+".jsonl", now.Add(-time.Hour), userRecord("old question"))
	writeTranscript(t, dir, uuid.NewString()+".jsonl", now, userRecord("new question"), "not json")
	writeTranscript(t, dir, "agent-"+uuid.NewString()+".jsonl", now.Add(time.Hour), userRecord("agent question"))

	out, err := executeCommand(rootCmd, "/work/app")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "> new question\n\n"; out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestExportProjectsDirFromProjectConfig(t *testing.T) {
	isolate(t)
	cwd := t.TempDir()
	altRoot := t.TempDir()

	body, _ := json.Marshal(config.Config{ProjectsDir: altRoot})
	if err := os.WriteFile(filepath.Join(cwd, config.ProjectFile), body, 0o644); err != nil {
		t.Fatal(err)
	}
	writeTranscript(t, project.Dir(altRoot, cwd), uuid.NewString()+".jsonl", time.Now(), userRecord("from alt root"))

	out, err := executeCommand(rootCmd, cwd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "> from alt root") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestExportDebugLogging(t *testing.T) {
	home := isolate(t)
	t.Setenv(logging.LogLevelEnvVar, "debug")
	dir := filepath.Join(home, ".claude", "projects", project.Encode("/work/logged"))
	writeTranscript(t, dir, "s1.jsonl", time.Now(), userRecord("hi"))

	out, err := executeCommand(rootCmd, "/work/logged")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"resolved project dir", "selected session", "agent sessions", "> hi"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestExportTooManyArgs(t *testing.T) {
	isolate(t)
	if _, err := executeCommand(rootCmd, "a", "b"); err == nil {
		t.Error("expected an error for two positional args")
	}
}

func TestExportBadConfig(t *testing.T) {
	isolate(t)
	cwd := t.TempDir()
	if err := os.WriteFile(filepath.Join(cwd, config.ProjectFile), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := executeCommand(rootCmd, cwd)
	var parseErr *config.ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("expected *config.ParseError, got %T: %v", err, err)
	}
}

func TestTargetDir(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	got, err := targetDir(rootCmd, []string{"/work/app"})
	if err != nil || got != "/work/app" {
		t.Errorf("root: got %q, %v; want /work/app", got, err)
	}
	got, err = targetDir(rootCmd, nil)
	if err != nil || got != wd {
		t.Errorf("root without args: got %q, %v; want %q", got, err, wd)
	}
	// Subcommand args are never a project dir.
	got, err = targetDir(viewCmd, []string{"export.txt"})
	if err != nil || got != wd {
		t.Errorf("view: got %q, %v; want %q", got, err, wd)
	}
}

func TestExportDirNamedCompletion(t *testing.T) {
	isolate(t)

	out, err := executeCommand(rootCmd, "completion")
	if err == nil || err.Error() != "no Claude project found for completion" {
		t.Errorf("completion should be treated as a dir, got err %v", err)
	}
	if out != "" {
		t.Errorf("expected no output, got %q", out)
	}
}
