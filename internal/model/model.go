package model

import (
	"fmt"
	"strings"
	"time"
)

type Kind string

const (
	KindIssue       Kind = "issue"
	KindImprovement Kind = "improvement"
)

// ParseKind accepts the stored value or a display label ("Issue", "improvement").
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "issue":
		return KindIssue, nil
	case "improvement":
		return KindImprovement, nil
	default:
		return "", fmt.Errorf("unknown kind: %s", s)
	}
}

func (k Kind) Label() string {
	switch k {
	case KindImprovement:
		return "Improvement"
	default:
		return "Issue"
	}
}

// Toggle returns the other kind.
func (k Kind) Toggle() Kind {
	if k == KindImprovement {
		return KindIssue
	}
	return KindImprovement
}

type Idea struct {
	ID          int64     `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Author      string    `json:"author" yaml:"author"`
	Solved      bool      `json:"solved" yaml:"solved"`
	Kind        Kind      `json:"kind" yaml:"kind"`
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt"`
}

type Comment struct {
	ID int64 `json:"id" yaml:"id"`
	// IdeaID references the owning idea by durable id only.
	IdeaID    int64     `json:"ideaId" yaml:"ideaId"`
	Author    string    `json:"author" yaml:"author"`
	Content   string    `json:"content" yaml:"content"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}
