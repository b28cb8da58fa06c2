package tui

import (
	"strings"
	"sync"
)

// Terminals can't change the user's font, so the UI picks between Unicode
// and ASCII markers instead.

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode
)

// applyGlyphPreference takes the configured name; unknown names are ignored.
func applyGlyphPreference(name string) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "unicode", "utf8":
		setGlyphs(glyphSetUnicode)
	case "ascii":
		setGlyphs(glyphSetASCII)
	}
}

func setGlyphs(gs glyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() glyphSet {
	glyphsMu.RLock()
	gs := currentGlyphs
	glyphsMu.RUnlock()
	return gs
}

func pick(unicode, ascii string) string {
	if glyphs() == glyphSetASCII {
		return ascii
	}
	return unicode
}

func glyphCursor() string  { return pick("▸", ">") }
func glyphPending() string { return pick("…", "~") }
func glyphFailed() string  { return pick("✗", "!") }
func glyphSolved() string  { return pick("✓", "x") }
func glyphOpen() string    { return pick("○", " ") }
func glyphBullet() string  { return pick("•", "*") }
func glyphHRule() string   { return pick("─", "-") }
