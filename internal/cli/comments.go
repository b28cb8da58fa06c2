package cli

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"ideabox/internal/board"
	"ideabox/internal/model"

	"github.com/spf13/cobra"
)

func newCommentsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comments",
		Short: "Comment commands",
	}
	cmd.AddCommand(newCommentsAddCmd(app))
	cmd.AddCommand(newCommentsListCmd(app))
	return cmd
}

func newCommentsAddCmd(app *App) *cobra.Command {
	var content string
	var author string

	cmd := &cobra.Command{
		Use:   "add <idea-id>",
		Short: "Comment on an idea",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			content = strings.TrimSpace(content)
			if content == "" {
				return writeErr(cmd, errors.New("missing --content"))
			}
			if strings.TrimSpace(author) == "" {
				author = app.cfg.Author
			}

			s, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			if err := s.selectIdea(id); err != nil {
				return writeErr(cmd, err)
			}
			c := model.Comment{
				Author:    strings.TrimSpace(author),
				Content:   content,
				CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
			}
			if _, err := board.RequestCommentOnSelected(s.b, s.q, c); err != nil {
				return writeErr(cmd, err)
			}
			if err := s.drain(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			e, _ := s.b.Find(id)
			return writeOut(cmd, app, map[string]any{"data": e.Comments[len(e.Comments)-1].Value()})
		},
	}

	cmd.Flags().StringVar(&content, "content", "", "Comment text")
	cmd.Flags().StringVar(&author, "by", "", "Author (default: configured author)")
	_ = cmd.MarkFlagRequired("content")
	return cmd
}

func newCommentsListCmd(app *App) *cobra.Command {
	var limit int
	var offset int

	cmd := &cobra.Command{
		Use:   "list <idea-id>",
		Short: "List comments on an idea (paginated)",
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
			all := make([]model.Comment, 0, len(e.Comments))
			for _, c := range e.Comments {
				all = append(all, c.Value())
			}

			total := len(all)
			if offset < 0 {
				offset = 0
			}
			if offset > total {
				offset = total
			}
			end := total
			if limit > 0 && offset+limit < end {
				end = offset + limit
			}

			meta := map[string]any{"total": total, "offset": offset, "limit": limit}
			if end < total {
				meta["next"] = "ideabox comments list " + args[0] + " --limit " + strconv.Itoa(limit) + " --offset " + strconv.Itoa(end)
			}
			return writeOut(cmd, app, map[string]any{
				"data": all[offset:end],
				"meta": meta,
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Max comments to return (0 = all)")
	cmd.Flags().IntVar(&offset, "offset", 0, "Skip this many comments")
	return cmd
}
