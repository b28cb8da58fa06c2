package cli

import (
	"errors"
	"strings"
	"time"

	"ideabox/internal/board"
	"ideabox/internal/model"
	"ideabox/internal/publish"

	"github.com/spf13/cobra"
)

type ideaListItem struct {
	model.Idea `yaml:",inline"`
	Comments   int `json:"comments" yaml:"comments"`
}

func newIdeasCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ideas",
		Aliases: []string{"idea"},
		Short:   "Idea commands",
	}
	cmd.AddCommand(newIdeasListCmd(app))
	cmd.AddCommand(newIdeasShowCmd(app))
	cmd.AddCommand(newIdeasAddCmd(app))
	cmd.AddCommand(newIdeasEditCmd(app))
	cmd.AddCommand(newIdeasSolveCmd(app))
	cmd.AddCommand(newIdeasDeleteCmd(app))
	return cmd
}

func newIdeasListCmd(app *App) *cobra.Command {
	var query string
	var onlyOpen bool
	var onlySolved bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List ideas, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if onlyOpen && onlySolved {
				return writeErr(cmd, errors.New("--open and --solved are mutually exclusive"))
			}
			s, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			s.b.SetFilter(query)
			out := make([]ideaListItem, 0, s.b.VisibleLen())
			for _, e := range s.b.Visible() {
				it := e.Idea.Value()
				if onlyOpen && it.Solved || onlySolved && !it.Solved {
					continue
				}
				out = append(out, ideaListItem{Idea: it, Comments: len(e.Comments)})
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}

	cmd.Flags().StringVar(&query, "query", "", "Only ideas whose title starts with this (case-insensitive)")
	cmd.Flags().BoolVar(&onlyOpen, "open", false, "Only unsolved ideas")
	cmd.Flags().BoolVar(&onlySolved, "solved", false, "Only solved ideas")
	return cmd
}

func newIdeasShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <idea-id>",
		Short: "Show an idea with its comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			s, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			e, ok := s.b.Find(id)
			if !ok {
				return writeErr(cmd, errNotFound("idea", id))
			}
			return writeOut(cmd, app, map[string]any{"data": documentIdea(e)})
		},
	}
}

func newIdeasAddCmd(app *App) *cobra.Command {
	var title string
	var description string
	var kind string
	var author string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an idea",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := model.ParseKind(kind)
			if err != nil {
				return writeErr(cmd, err)
			}
			if strings.TrimSpace(author) == "" {
				author = app.cfg.Author
			}
			idea := board.Normalize(model.Idea{
				Title:       title,
				Description: description,
				Author:      author,
				Kind:        k,
				CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
			})
			if idea.Title == "" {
				return writeErr(cmd, errors.New("missing --title"))
			}

			s, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			board.RequestInsertIdea(s.b, s.q, idea)
			if err := s.drain(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			all := s.b.All()
			return writeOut(cmd, app, map[string]any{"data": all[len(all)-1].Idea.Value()})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Idea title")
	cmd.Flags().StringVar(&description, "description", "", "Idea description (Markdown)")
	cmd.Flags().StringVar(&kind, "kind", string(model.KindIssue), "Idea kind (issue|improvement)")
	cmd.Flags().StringVar(&author, "by", "", "Author (default: configured author)")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newIdeasEditCmd(app *App) *cobra.Command {
	var title string
	var description string
	var kind string
	var author string

	cmd := &cobra.Command{
		Use:   "edit <idea-id>",
		Short: "Edit an idea's title, description, kind or author",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			fl := cmd.Flags()
			if !fl.Changed("title") && !fl.Changed("description") && !fl.Changed("kind") && !fl.Changed("by") {
				return writeErr(cmd, errors.New("nothing to edit (use --title, --description, --kind or --by)"))
			}

			s, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			e, ok := s.b.Find(id)
			if !ok {
				return writeErr(cmd, errNotFound("idea", id))
			}
			idea := e.Idea.Value()
			if fl.Changed("title") {
				idea.Title = title
			}
			if fl.Changed("description") {
				idea.Description = description
			}
			if fl.Changed("by") {
				idea.Author = author
			}
			if fl.Changed("kind") {
				k, err := model.ParseKind(kind)
				if err != nil {
					return writeErr(cmd, err)
				}
				idea.Kind = k
			}
			idea = board.Normalize(idea)
			if idea.Title == "" {
				return writeErr(cmd, errors.New("title cannot be empty"))
			}
			return editAndPrint(cmd, app, s, idea)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&description, "description", "", "New description (Markdown)")
	cmd.Flags().StringVar(&kind, "kind", "", "New kind (issue|improvement)")
	cmd.Flags().StringVar(&author, "by", "", "New author")
	return cmd
}

func newIdeasSolveCmd(app *App) *cobra.Command {
	var reopen bool

	cmd := &cobra.Command{
		Use:   "solve <idea-id>",
		Short: "Mark an idea solved (or reopen it with --reopen)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			s, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			e, ok := s.b.Find(id)
			if !ok {
				return writeErr(cmd, errNotFound("idea", id))
			}
			idea := e.Idea.Value()
			idea.Solved = !reopen
			return editAndPrint(cmd, app, s, idea)
		},
	}

	cmd.Flags().BoolVar(&reopen, "reopen", false, "Mark the idea unsolved instead")
	return cmd
}

func editAndPrint(cmd *cobra.Command, app *App, s *session, idea model.Idea) error {
	if _, err := board.RequestEdit(s.b, s.q, idea); err != nil {
		return writeErr(cmd, err)
	}
	if err := s.drain(cmd.Context()); err != nil {
		return writeErr(cmd, err)
	}
	e, _ := s.b.Find(idea.ID)
	return writeOut(cmd, app, map[string]any{"data": e.Idea.Value()})
}

func newIdeasDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <idea-id>",
		Short: "Delete an idea and its comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			s, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			if err := s.selectIdea(id); err != nil {
				return writeErr(cmd, err)
			}
			if _, err := board.RequestDelete(s.b, s.q); err != nil {
				return writeErr(cmd, err)
			}
			if err := s.drain(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"deleted": id}})
		},
	}
}

func documentIdea(e board.IdeaEntry) publish.DocumentIdea {
	d := publish.DocumentIdea{Idea: e.Idea.Value()}
	for _, c := range e.Comments {
		d.Comments = append(d.Comments, c.Value())
	}
	return d
}
