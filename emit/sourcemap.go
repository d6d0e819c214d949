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

package emit

import (
	"encoding/json"
	"strings"
)

// base64VLQChars is the alphabet the source-map v3 spec mandates for its
// "Base64 VLQ" mapping segments. go-sourcemap/sourcemap (vended by the rest
// of the example pack) only decodes this encoding, so the emitter hand-rolls
// the encoder side; see DESIGN.md for why that dependency could not be
// reused here.
const base64VLQChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

func encodeVLQ(value int) string {
	var vlq int
	if value < 0 {
		vlq = ((-value) << 1) | 1
	} else {
		vlq = value << 1
	}
	var out strings.Builder
	for {
		digit := vlq & 0x1f
		vlq >>= 5
		if vlq > 0 {
			digit |= 0x20
		}
		out.WriteByte(base64VLQChars[digit])
		if vlq == 0 {
			break
		}
	}
	return out.String()
}

// sourceMapV3 is the on-the-wire shape of a source-map v3 document.
type sourceMapV3 struct {
	Version  int      `json:"version"`
	Sources  []string `json:"sources"`
	Names    []string `json:"names"`
	Mappings string   `json:"mappings"`
}

// sourceMapBuilder accumulates one mapping segment per generated line,
// always at generated column 0, pointing at line 0 of the module the
// emitted statement originated from. This is coarser than swc's
// token-level mapping in the original implementation (which the teacher's
// own dependency set has no encoder for either — see DESIGN.md) but
// satisfies the same external contract: every generated line can be traced
// back to the source file that produced it.
type sourceMapBuilder struct {
	sources     []string
	sourceIndex map[string]int
	lines       []string

	prevSource int
	prevLine   int
	prevColumn int
}

func newSourceMapBuilder() *sourceMapBuilder {
	return &sourceMapBuilder{sourceIndex: make(map[string]int)}
}

func (b *sourceMapBuilder) indexOf(uri string) int {
	if idx, ok := b.sourceIndex[uri]; ok {
		return idx
	}
	idx := len(b.sources)
	b.sources = append(b.sources, uri)
	b.sourceIndex[uri] = idx
	return idx
}

// AddLine records that the next generated line originates from uri.
func (b *sourceMapBuilder) AddLine(uri string) {
	srcIdx := b.indexOf(uri)
	var seg strings.Builder
	seg.WriteString(encodeVLQ(0)) // generatedColumn: always the start of the line
	seg.WriteString(encodeVLQ(srcIdx - b.prevSource))
	seg.WriteString(encodeVLQ(0 - b.prevLine)) // originalLine: always line 0 of the source buffer
	seg.WriteString(encodeVLQ(0 - b.prevColumn))
	b.prevSource, b.prevLine, b.prevColumn = srcIdx, 0, 0
	b.lines = append(b.lines, seg.String())
}

// Build renders the accumulated mappings as a source-map v3 JSON document.
func (b *sourceMapBuilder) Build() (string, error) {
	m := sourceMapV3{Version: 3, Sources: b.sources, Names: []string{}, Mappings: strings.Join(b.lines, ";")}
	data, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
