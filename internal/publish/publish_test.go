package publish

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ideabox/internal/board"
	"ideabox/internal/model"

	"gopkg.in/yaml.v3"
)

var now = time.Date(2025, 12, 20, 0, 0, 0, 0, time.UTC)

func sampleRecords() []board.Record {
	return []board.Record{
		{
			Idea: model.Idea{ID: 1, Title: "Hello", Description: "Some **markdown**.", Author: "ada", Kind: model.KindIssue, CreatedAt: now},
			Comments: []model.Comment{
				{ID: 4, IdeaID: 1, Author: "bob", Content: "Comment body", CreatedAt: now.Add(time.Hour)},
			},
		},
		{
			Idea: model.Idea{ID: 2, Title: "Done thing", Author: "ada", Solved: true, Kind: model.KindImprovement, CreatedAt: now.Add(time.Minute)},
		},
	}
}

func TestRenderIdeaMarkdown_IncludesDescriptionAndComments(t *testing.T) {
	t.Parallel()

	md := RenderIdeaMarkdown(sampleRecords()[0])
	for _, want := range []string{"# Hello", "- ID: 1", "- Kind: Issue", "## Description", "Some **markdown**.", "## Comments", "- Author: bob", "Comment body"} {
		if !strings.Contains(md, want) {
			t.Fatalf("expected %q in markdown:\n%s", want, md)
		}
	}
}

func TestRenderIndexMarkdown_SplitsSolved(t *testing.T) {
	t.Parallel()

	md := RenderIndexMarkdown("", sampleRecords(), RenderOptions{})
	if !strings.Contains(md, "- [Hello](ideas/1.md) (issue, 1 comments)") {
		t.Fatalf("missing open idea line:\n%s", md)
	}
	if strings.Contains(md, "Done thing") {
		t.Fatalf("solved idea listed without IncludeSolved:\n%s", md)
	}

	md = RenderIndexMarkdown("Board", sampleRecords(), RenderOptions{IncludeSolved: true})
	if !strings.Contains(md, "# Board") || !strings.Contains(md, "## Solved") || !strings.Contains(md, "ideas/2.md") {
		t.Fatalf("expected solved section:\n%s", md)
	}
}

func TestWriteMarkdown_WritesFilesAndRefusesOverwrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	res, err := WriteMarkdown(sampleRecords(), dir, WriteOptions{})
	if err != nil {
		t.Fatalf("WriteMarkdown: %v", err)
	}
	if len(res.Written) != 2 {
		t.Fatalf("expected index + 1 page, got %v", res.Written)
	}
	if _, err := os.Stat(filepath.Join(dir, "ideas", "1.md")); err != nil {
		t.Fatalf("expected idea page: %v", err)
	}

	if _, err := WriteMarkdown(sampleRecords(), dir, WriteOptions{}); err == nil {
		t.Fatalf("expected error when files exist")
	}
	if _, err := WriteMarkdown(sampleRecords(), dir, WriteOptions{Overwrite: true, IncludeSolved: true}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "ideas", "2.md")); err != nil {
		t.Fatalf("expected solved idea page: %v", err)
	}
}

func TestWriteYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out", "ideas.yaml")
	if _, err := WriteYAML(sampleRecords(), path, WriteOptions{IncludeSolved: true}); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(doc.Ideas) != 2 || doc.Ideas[0].Title != "Hello" || len(doc.Ideas[0].Comments) != 1 {
		t.Fatalf("unexpected document %+v", doc)
	}
	if doc.Ideas[1].Kind != model.KindImprovement {
		t.Fatalf("kind lost: %+v", doc.Ideas[1])
	}
}

func TestWrite_MissingDestination(t *testing.T) {
	t.Parallel()

	if _, err := WriteMarkdown(nil, " ", WriteOptions{}); err == nil {
		t.Fatalf("expected error for empty --to")
	}
	if _, err := WriteYAML(nil, "", WriteOptions{}); err == nil {
		t.Fatalf("expected error for empty --to")
	}
}
