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

package diag

import (
	"strings"
	"testing"
)

func TestSuggestFindsClosestCandidate(t *testing.T) {
	got := Suggest("anwser", []string{"answer", "question", "other"})
	if got != "answer" {
		t.Errorf("Suggest = %q, want %q", got, "answer")
	}
}

func TestSuggestCaseInsensitive(t *testing.T) {
	got := Suggest("ANSWER", []string{"answer"})
	if got != "answer" {
		t.Errorf("Suggest = %q, want %q", got, "answer")
	}
}

func TestSuggestReturnsEmptyWhenTooFar(t *testing.T) {
	got := Suggest("xyz", []string{"completelyDifferentName"})
	if got != "" {
		t.Errorf("Suggest = %q, want empty (distance exceeds threshold)", got)
	}
}

func TestSuggestReturnsEmptyForNoCandidates(t *testing.T) {
	if got := Suggest("answer", nil); got != "" {
		t.Errorf("Suggest = %q, want empty", got)
	}
}

func TestDidYouMeanFormatsSuggestion(t *testing.T) {
	got := DidYouMean("anwser", []string{"answer"})
	want := ` (did you mean "answer"?)`
	if got != want {
		t.Errorf("DidYouMean = %q, want %q", got, want)
	}
}

func TestDidYouMeanEmptyWhenNoSuggestion(t *testing.T) {
	if got := DidYouMean("xyz", []string{"completelyDifferentName"}); got != "" {
		t.Errorf("DidYouMean = %q, want empty", got)
	}
}

func TestFrameBoundsWidensToEnclosingLines(t *testing.T) {
	source := []byte("const a = 1;\nconst bbb = notDefined;\nconst c = 3;\n")
	start := strings.Index(string(source), "notDefined")
	end := start + len("notDefined")

	excerpt, offset := frameBounds(source, start, end)
	if excerpt != "const bbb = notDefined;" {
		t.Errorf("excerpt = %q, want the single enclosing line", excerpt)
	}
	if offset != strings.Index(excerpt, "notDefined") {
		t.Errorf("offset = %d, want %d", offset, strings.Index(excerpt, "notDefined"))
	}
}

func TestFrameBoundsClampsToSourceBounds(t *testing.T) {
	source := []byte("short")
	excerpt, offset := frameBounds(source, 0, len(source)+10)
	if excerpt != "short" {
		t.Errorf("excerpt = %q, want %q", excerpt, "short")
	}
	if offset != 0 {
		t.Errorf("offset = %d, want 0", offset)
	}
}

func TestFrameBoundsLastLineHasNoTrailingNewline(t *testing.T) {
	source := []byte("const a = notDefined;")
	start := strings.Index(string(source), "notDefined")
	end := start + len("notDefined")

	excerpt, _ := frameBounds(source, start, end)
	if excerpt != "const a = notDefined;" {
		t.Errorf("excerpt = %q, want the whole single line", excerpt)
	}
}

func TestCaretAlignsUnderOffset(t *testing.T) {
	got := caret(3, 4)
	want := "   ^^^^"
	if got != want {
		t.Errorf("caret = %q, want %q", got, want)
	}
}

func TestCaretMinimumWidthOne(t *testing.T) {
	got := caret(0, 0)
	if got != "^" {
		t.Errorf("caret = %q, want a single caret for zero width", got)
	}
}

func TestCodeFrameIncludesMessageAndExcerpt(t *testing.T) {
	source := []byte("const a = notDefined;")
	start := strings.Index(string(source), "notDefined")
	end := start + len("notDefined")

	out := CodeFrame(source, start, end, "unresolved reference")
	if !strings.Contains(out, "unresolved reference") {
		t.Errorf("CodeFrame output missing message: %q", out)
	}
	if !strings.Contains(out, "notDefined") {
		t.Errorf("CodeFrame output missing source excerpt: %q", out)
	}
}
