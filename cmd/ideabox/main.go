package main

import (
	"os"
	"strconv"
	"strings"

	"ideabox/internal/cli"
)

func isIdeaID(s string) bool {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	id, err := strconv.ParseInt(s, 10, 64)
	return err == nil && id > 0
}

// rewriteDirectIdeaLookupArgs makes `ideabox 12` (or `ideabox '#12'`) work
// like `ideabox ideas show 12`. Cobra treats the first non-flag token as a
// subcommand, so argv is rewritten before parsing. Persistent flags may come
// first, so this looks for the first positional token, not argv[1].
func rewriteDirectIdeaLookupArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--config":        true,
		"--format":        true,
		"--database-path": true,
		"--log-level":     true,
		"--log-file":      true,
		"--author":        true,
		"--queue-workers": true,
		"--queue-timeout": true,
		"--tui-glyphs":    true,
	}

	show := func(prefix []string, id string) []string {
		out := make([]string, 0, len(argv)+2)
		out = append(out, prefix...)
		return append(out, "ideas", "show", strings.TrimPrefix(strings.TrimSpace(id), "#"))
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 == len(argv)-1 && isIdeaID(argv[i+1]) {
				return show(argv[:i], argv[i+1])
			}
			return argv
		}
		if strings.HasPrefix(a, "-") {
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		}
		// First positional token.
		if isIdeaID(a) && i == len(argv)-1 {
			return show(argv[:i], a)
		}
		return argv
	}
	return argv
}

func main() {
	os.Args = rewriteDirectIdeaLookupArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
