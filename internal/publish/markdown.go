package publish

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"ideabox/internal/board"
)

type RenderOptions struct {
	IncludeSolved bool
}

// RenderIdeaMarkdown renders one idea page with its comments.
func RenderIdeaMarkdown(rec board.Record) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	it := rec.Idea
	writeLn("# " + strings.TrimSpace(it.Title))
	writeLn("")
	writeLn("## Meta")
	writeLn("")
	writeLn(fmt.Sprintf("- ID: %d", it.ID))
	writeLn("- Kind: " + it.Kind.Label())
	if strings.TrimSpace(it.Author) != "" {
		writeLn("- Author: " + strings.TrimSpace(it.Author))
	}
	if it.Solved {
		writeLn("- Solved: true")
	}
	writeLn("- Created: " + it.CreatedAt.UTC().Format(time.RFC3339))

	desc := strings.TrimSpace(it.Description)
	if desc != "" {
		writeLn("")
		writeLn("## Description")
		writeLn("")
		writeLn(desc)
	}

	if len(rec.Comments) > 0 {
		writeLn("")
		writeLn("## Comments")
		writeLn("")
		for _, c := range rec.Comments {
			writeLn(fmt.Sprintf("### %d (%s)", c.ID, c.CreatedAt.UTC().Format(time.RFC3339)))
			writeLn("")
			if strings.TrimSpace(c.Author) != "" {
				writeLn("- Author: " + strings.TrimSpace(c.Author))
				writeLn("")
			}
			body := strings.TrimSpace(c.Content)
			if body == "" {
				body = "(empty)"
			}
			writeLn(body)
			writeLn("")
		}
	}
	return buf.String()
}

// RenderIndexMarkdown lists the ideas with links to their pages, open ideas
// first.
func RenderIndexMarkdown(title string, recs []board.Record, opt RenderOptions) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	if strings.TrimSpace(title) == "" {
		title = "Ideas"
	}
	writeLn("# " + strings.TrimSpace(title))
	writeLn("")

	var open, solved []board.Record
	for _, r := range recs {
		if r.Idea.Solved {
			solved = append(solved, r)
		} else {
			open = append(open, r)
		}
	}

	writeLn("## Open")
	writeLn("")
	if len(open) == 0 {
		writeLn("(none)")
	}
	for _, r := range open {
		indexLine(&buf, r)
	}
	if opt.IncludeSolved && len(solved) > 0 {
		writeLn("")
		writeLn("## Solved")
		writeLn("")
		for _, r := range solved {
			indexLine(&buf, r)
		}
	}
	return buf.String()
}

func indexLine(buf *bytes.Buffer, r board.Record) {
	n := ""
	if len(r.Comments) > 0 {
		n = fmt.Sprintf(", %d comments", len(r.Comments))
	}
	fmt.Fprintf(buf, "- [%s](ideas/%d.md) (%s%s)\n", strings.TrimSpace(r.Idea.Title), r.Idea.ID, strings.ToLower(r.Idea.Kind.Label()), n)
}
