/*
Copyright © 2025 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

// Package diag renders the core's plain error values (graph.*Error,
// jsmodule.ParseError) as human-facing CLI output: "did you mean" spelling
// suggestions for a failed lookup, and a syntax-highlighted code frame
// around a parse failure. None of this touches the error *values*
// themselves — callers still switch on the plain Go types from §7's
// taxonomy; this package is presentation only.
package diag

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/agext/levenshtein"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"golang.org/x/term"
)

// maxSuggestionDistance bounds how different a candidate may be from the
// failed lookup before it stops being a useful suggestion, mirroring the
// teacher's own attribute-suggestion thresholds.
const maxSuggestionDistance = 3

// Suggest returns the candidate in candidates closest to target by edit
// distance, or "" if none is within maxSuggestionDistance.
func Suggest(target string, candidates []string) string {
	best := ""
	bestDistance := maxSuggestionDistance + 1
	targetLower := strings.ToLower(target)
	for _, candidate := range candidates {
		distance := levenshtein.Distance(targetLower, strings.ToLower(candidate), nil)
		if distance < bestDistance {
			bestDistance = distance
			best = candidate
		}
	}
	if bestDistance > maxSuggestionDistance {
		return ""
	}
	return best
}

// DidYouMean formats a "did you mean X?" suffix for an unresolved-reference
// or no-such-export message, or "" when no candidate is close enough.
func DidYouMean(target string, candidates []string) string {
	if suggestion := Suggest(target, candidates); suggestion != "" {
		return fmt.Sprintf(" (did you mean %q?)", suggestion)
	}
	return ""
}

// CodeFrame renders a highlighted excerpt of source around [start, end),
// falling back to plain text when stdout is not a terminal.
func CodeFrame(source []byte, start, end int, message string) string {
	excerpt, offset := frameBounds(source, start, end)
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Sprintf("%s\n\n%s\n%s\n", message, excerpt, caret(offset, end-start))
	}

	lexer := lexers.Get("javascript")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get("terminal16m")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, excerpt)
	if err != nil {
		return fmt.Sprintf("%s\n\n%s\n", message, excerpt)
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return fmt.Sprintf("%s\n\n%s\n", message, excerpt)
	}
	return fmt.Sprintf("%s\n\n%s\n%s\n", message, buf.String(), caret(offset, end-start))
}

// frameBounds widens [start, end) to the enclosing lines, returning the
// excerpt and start's offset within it.
func frameBounds(source []byte, start, end int) (excerpt string, offset int) {
	if start < 0 {
		start = 0
	}
	if end > len(source) {
		end = len(source)
	}
	lineStart := bytes.LastIndexByte(source[:start], '\n') + 1
	lineEnd := end + bytes.IndexByte(source[end:], '\n')
	if lineEnd < end {
		lineEnd = len(source)
	}
	return string(source[lineStart:lineEnd]), start - lineStart
}

func caret(offset, width int) string {
	if width < 1 {
		width = 1
	}
	return strings.Repeat(" ", offset) + strings.Repeat("^", width)
}
