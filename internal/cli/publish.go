package cli

import (
	"context"
	"fmt"
	"strings"

	"ideabox/internal/publish"
	"ideabox/internal/store"

	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var to string
	var as string
	var title string
	var includeSolved bool
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the board as Markdown pages or a YAML document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(cmd.Context(), app.cfg.DatabasePath, app.log)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			recs, err := st.Load(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			opt := publish.WriteOptions{Title: title, IncludeSolved: includeSolved, Overwrite: overwrite}
			var res publish.WriteResult
			switch strings.ToLower(strings.TrimSpace(as)) {
			case "", "markdown", "md":
				res, err = publish.WriteMarkdown(recs, to, opt)
			case "yaml", "yml":
				res, err = publish.WriteYAML(recs, to, opt)
			default:
				err = fmt.Errorf("unknown export format: %s (want markdown|yaml)", as)
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": res})
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Destination directory (markdown) or file (yaml)")
	cmd.Flags().StringVar(&as, "as", "markdown", "Export format (markdown|yaml)")
	cmd.Flags().StringVar(&title, "title", "", "Index page title (markdown)")
	cmd.Flags().BoolVar(&includeSolved, "include-solved", false, "Include solved ideas")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace existing files")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newMigrateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openSQLite(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer db.Close()

			v, err := db.SchemaVersion(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"path":          db.Path(),
				"databaseId":    db.DatabaseID(),
				"schemaVersion": v,
			}})
		},
	}
}

func newBackupCmd(app *App) *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Write a consistent copy of the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openSQLite(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer db.Close()

			if err := db.Backup(cmd.Context(), to); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"from": db.Path(),
				"to":   to,
			}})
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Destination file (must not exist)")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func openSQLite(ctx context.Context, app *App) (*store.SQLite, error) {
	if app.cfg.DatabasePath == store.MemoryPath {
		return nil, fmt.Errorf("%s has no database file", store.MemoryPath)
	}
	return store.OpenSQLite(ctx, app.cfg.DatabasePath, app.log)
}
