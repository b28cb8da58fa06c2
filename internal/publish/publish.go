// Package publish exports the board as a directory of markdown pages or a
// single YAML document.
package publish

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ideabox/internal/board"
	"ideabox/internal/format"
	"ideabox/internal/model"

	"github.com/natefinch/atomic"
)

type WriteOptions struct {
	Title         string
	IncludeSolved bool
	Overwrite     bool
}

type WriteResult struct {
	Written []string `json:"written" yaml:"written"`
}

// WriteMarkdown writes index.md plus ideas/<id>.md under toDir.
func WriteMarkdown(recs []board.Record, toDir string, opt WriteOptions) (WriteResult, error) {
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)

	ideasDir := filepath.Join(toDir, "ideas")
	if err := os.MkdirAll(ideasDir, 0o755); err != nil {
		return WriteResult{}, err
	}

	indexPath := filepath.Join(toDir, "index.md")
	index := RenderIndexMarkdown(opt.Title, recs, RenderOptions{IncludeSolved: opt.IncludeSolved})
	if err := writeFile(indexPath, []byte(index), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}

	// Stop on first error.
	written := []string{indexPath}
	for _, r := range recs {
		if r.Idea.Solved && !opt.IncludeSolved {
			continue
		}
		p := filepath.Join(ideasDir, fmt.Sprintf("%d.md", r.Idea.ID))
		if err := writeFile(p, []byte(RenderIdeaMarkdown(r)), opt.Overwrite); err != nil {
			return WriteResult{}, err
		}
		written = append(written, p)
	}
	return WriteResult{Written: written}, nil
}

// Document is the YAML export shape.
type Document struct {
	Ideas []DocumentIdea `json:"ideas" yaml:"ideas"`
}

type DocumentIdea struct {
	model.Idea `yaml:",inline"`
	Comments   []model.Comment `json:"comments,omitempty" yaml:"comments,omitempty"`
}

func NewDocument(recs []board.Record, includeSolved bool) Document {
	doc := Document{Ideas: []DocumentIdea{}}
	for _, r := range recs {
		if r.Idea.Solved && !includeSolved {
			continue
		}
		doc.Ideas = append(doc.Ideas, DocumentIdea{Idea: r.Idea, Comments: r.Comments})
	}
	return doc
}

// WriteYAML writes every idea and its comments to path as one document.
func WriteYAML(recs []board.Record, path string, opt WriteOptions) (WriteResult, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return WriteResult{}, err
	}
	var buf bytes.Buffer
	if err := format.WriteYAML(&buf, NewDocument(recs, opt.IncludeSolved)); err != nil {
		return WriteResult{}, err
	}
	if err := writeFile(path, buf.Bytes(), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}
	return WriteResult{Written: []string{path}}, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return atomic.WriteFile(path, bytes.NewReader(b))
}
