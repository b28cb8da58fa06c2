package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"ideabox/internal/board"
	"ideabox/internal/config"
	"ideabox/internal/format"
	"ideabox/internal/logging"
	"ideabox/internal/store"
	"ideabox/internal/tui"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type App struct {
	ConfigFile string
	PrettyJSON bool
	Format     string

	v   *viper.Viper
	cfg config.Config
	log *zap.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{v: config.NewViper()}
	defaults := config.NewViper()

	cmd := &cobra.Command{
		Use:          "ideabox",
		Short:        "Ideabox: collect and discuss ideas (TUI + CLI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  ideabox

  # Scriptable commands
  ideabox ideas list --open
  ideabox ideas add --title "Dark mode" --kind improvement
  ideabox comments add 3 --content "+1"

  # Export the board as Markdown
  ideabox export --to ./site
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd.Context(), app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if !format.Valid(app.Format) {
			return writeErr(cmd, fmt.Errorf("unknown format: %s", app.Format))
		}
		if err := config.ReadFile(app.v, app.ConfigFile); err != nil {
			return writeErr(cmd, err)
		}
		cfg, err := config.Load(app.v)
		if err != nil {
			return writeErr(cmd, err)
		}
		app.cfg = cfg

		// The TUI owns the terminal: without a log file it logs nowhere.
		if !cmd.HasParent() && cfg.LogFile == "" {
			app.log = zap.NewNop()
			return nil
		}
		log, err := logging.NewLogger(cfg.LogLevel, cfg.LogFile)
		if err != nil {
			return writeErr(cmd, err)
		}
		app.log = log
		return nil
	}

	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if app.log != nil {
			_ = app.log.Sync()
		}
		return nil
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&app.ConfigFile, "config", envOr("IDEABOX_CONFIG", ""), "Path to config file (default: $XDG_CONFIG_HOME/ideabox/config.yaml if present)")
	pf.BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	pf.StringVar(&app.Format, "format", envOr("IDEABOX_FORMAT", "json"), "Output format (json|yaml)")
	pf.String(config.FlagName(config.KeyDatabasePath), defaults.GetString(config.KeyDatabasePath), "SQLite database path (\":memory:\" for a throwaway session)")
	pf.String(config.FlagName(config.KeyLogLevel), defaults.GetString(config.KeyLogLevel), "Log level (debug|info|warn|error|off)")
	pf.String(config.FlagName(config.KeyLogFile), "", "Log file (default: stderr for commands, none for the TUI)")
	pf.String(config.FlagName(config.KeyAuthor), defaults.GetString(config.KeyAuthor), "Author recorded on new ideas and comments")
	pf.Int(config.FlagName(config.KeyQueueWorkers), defaults.GetInt(config.KeyQueueWorkers), "Backend operations run at once (0 = unbounded)")
	pf.Duration(config.FlagName(config.KeyQueueTimeout), defaults.GetDuration(config.KeyQueueTimeout), "Timeout per backend operation (0 = none)")
	pf.String(config.FlagName(config.KeyGlyphs), defaults.GetString(config.KeyGlyphs), "TUI glyph set (unicode|ascii)")
	if err := config.BindFlags(app.v, pf); err != nil {
		panic(err)
	}

	cmd.AddCommand(newIdeasCmd(app))
	cmd.AddCommand(newCommentsCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newMigrateCmd(app))
	cmd.AddCommand(newBackupCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func runTUI(ctx context.Context, app *App) error {
	st, err := store.Open(ctx, app.cfg.DatabasePath, app.log)
	if err != nil {
		return err
	}
	defer st.Close()
	return tui.Run(ctx, st, tui.Options{
		Author:    app.cfg.Author,
		Workers:   app.cfg.QueueWorkers,
		Timeout:   app.cfg.QueueTimeout,
		Glyphs:    app.cfg.Glyphs,
		StatePath: store.TUIStatePath(app.cfg.DatabasePath),
		Logger:    app.log,
	})
}

// session is a loaded board plus the queue that confirms edits against the
// store. Commands drain it synchronously before printing.
type session struct {
	st store.Store
	b  *board.Board
	q  *board.Queue
}

func openSession(ctx context.Context, app *App) (*session, error) {
	st, err := store.Open(ctx, app.cfg.DatabasePath, app.log)
	if err != nil {
		return nil, err
	}
	recs, err := st.Load(ctx)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	return &session{
		st: st,
		b:  board.New(recs),
		q: board.NewQueue(board.QueueOptions{
			Workers: app.cfg.QueueWorkers,
			Timeout: app.cfg.QueueTimeout,
			Logger:  app.log,
		}),
	}, nil
}

func (s *session) drain(ctx context.Context) error {
	return s.q.Drain(ctx, s.b, s.st)
}

func (s *session) Close() error { return s.st.Close() }

// selectIdea clears the filter and moves the cursor onto the idea.
func (s *session) selectIdea(id int64) error {
	s.b.SetFilter("")
	for i, e := range s.b.Visible() {
		if e.Idea.Value().ID == id {
			s.b.Select(i)
			return nil
		}
	}
	return errNotFound("idea", id)
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
