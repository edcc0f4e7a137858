package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/justinabrahms/llm-session-sharer/internal/config"
	"github.com/justinabrahms/llm-session-sharer/internal/logging"
	"github.com/justinabrahms/llm-session-sharer/internal/project"
	"github.com/justinabrahms/llm-session-sharer/internal/session"
	"github.com/justinabrahms/llm-session-sharer/internal/transcript"
)

// cfg holds the merged configuration, populated in PersistentPreRunE.
var cfg config.Config

// logger writes diagnostics to stderr, populated in PersistentPreRunE.
var logger = logging.Discard()

var rootCmd = &cobra.Command{
	Use:   "llm-session-sharer [dir]",
	Short: "Export the latest Claude Code session of a project as plain text",
	Long: `Export the most recent Claude Code conversation recorded for a project
directory (the current directory by default) as plain text on stdout.

A directory literally named "view" or "help" must be passed as ./view or
./help.`,
	Args:              cobra.MaximumNArgs(1),
	SilenceUsage:      true,
	SilenceErrors:     true,
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dir, err := targetDir(cmd, args)
		if err != nil {
			return err
		}

		// Load and merge config files.
		global, err := config.LoadGlobal()
		if err != nil {
			return fmt.Errorf("loading global config: %w", err)
		}
		proj, err := config.LoadProject(dir)
		if err != nil {
			return fmt.Errorf("loading project config: %w", err)
		}
		cfg = config.Merge(global, proj)

		logger = logging.New(cmd.ErrOrStderr(), cfg.LogLevel)
		return nil
	},
	RunE: runExport,
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// targetDir is the positional dir of the root command, or the working
// directory.
func targetDir(cmd *cobra.Command, args []string) (string, error) {
	if !cmd.HasParent() && len(args) == 1 {
		return args[0], nil
	}
	return os.Getwd()
}

func runExport(cmd *cobra.Command, args []string) error {
	dir, err := targetDir(cmd, args)
	if err != nil {
		return err
	}

	root := cfg.ProjectsDir
	if root == "" {
		if root, err = project.DefaultRoot(); err != nil {
			return err
		}
	}
	projectDir := project.Dir(root, dir)
	logger.Debug("resolved project dir", slog.String("cwd", dir), slog.String("dir", projectDir))

	loc, err := session.NewLocator(projectDir)
	if err != nil {
		if errors.Is(err, session.ErrProjectNotFound) {
			return fmt.Errorf("no Claude project found for %s", dir)
		}
		return err
	}

	latest, err := loc.Latest()
	if err != nil {
		return err
	}
	logger.Debug("selected session", slog.String("id", latest.ID), slog.String("path", latest.Path))

	agents, err := loc.Agents()
	if err != nil {
		logger.Debug("listing agent sessions failed", slog.Any("error", err))
	} else {
		logger.Debug("agent sessions", slog.Int("count", len(agents)))
	}

	f, err := os.Open(latest.Path)
	if err != nil {
		return fmt.Errorf("opening session: %w", err)
	}
	defer f.Close()

	t, err := transcript.Parse(f)
	if err != nil {
		return fmt.Errorf("reading session: %w", err)
	}
	logger.Debug("parsed session",
		slog.Int("records", len(t.Records)),
		slog.Int("malformed", t.Malformed),
	)

	r := &transcript.TextRenderer{Logger: logger}
	fmt.Fprintln(cmd.OutOrStdout(), r.Render(t))
	return nil
}
