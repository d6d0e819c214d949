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

// Package queries owns tree-sitter grammars and pre-compiled queries shared
// by the module loader. It pools parsers (construction is not cheap) and
// caches compiled *ts.Query values keyed by name.
package queries

import (
	"embed"
	"errors"
	"fmt"
	"iter"
	"path"
	"sync"
	"time"

	"github.com/pterm/pterm"

	ts "github.com/tree-sitter/go-tree-sitter"
	tsTypescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

//go:embed typescript/*.scm
var queries embed.FS

var ErrNoQueryManager = errors.New("QueryManager is nil")

type NoCaptureError struct {
	Capture string
	Query   string
}

func (e *NoCaptureError) Error() string {
	return fmt.Sprintf("No nodes for capture %s in query %s", e.Capture, e.Query)
}

var languages = struct {
	typescript *ts.Language
}{
	ts.NewLanguage(tsTypescript.LanguageTypescript()),
}

var typescriptParserPool = sync.Pool{
	New: func() any {
		parser := ts.NewParser()
		if err := parser.SetLanguage(languages.typescript); err != nil {
			panic(fmt.Sprintf("failed to set TypeScript language: %v", err))
		}
		return parser
	},
}

// RetrieveTypeScriptParser returns a pooled TypeScript parser.
// Always call PutTypeScriptParser when done.
func RetrieveTypeScriptParser() *ts.Parser {
	return typescriptParserPool.Get().(*ts.Parser)
}

// PutTypeScriptParser returns a parser to the pool.
func PutTypeScriptParser(parser *ts.Parser) {
	parser.Reset()
	typescriptParserPool.Put(parser)
}

// QuerySelector defines which queries to load.
type QuerySelector struct {
	TypeScript []string
}

// AllQueries returns a selector that loads every query the module loader needs.
func AllQueries() QuerySelector {
	return QuerySelector{
		TypeScript: []string{"declarations", "imports", "exports", "macroCalls"},
	}
}

type QueryManager struct {
	typescript map[string]*ts.Query
}

func NewQueryManager(selector QuerySelector) (*QueryManager, error) {
	start := time.Now()
	qm := &QueryManager{typescript: make(map[string]*ts.Query)}

	for _, queryName := range selector.TypeScript {
		if err := qm.loadQuery(queryName); err != nil {
			qm.Close()
			return nil, fmt.Errorf("failed to load TypeScript query %s: %w", queryName, err)
		}
	}

	pterm.Debug.Println("Constructing selected queries took", time.Since(start))
	return qm, nil
}

func (qm *QueryManager) loadQuery(queryName string) error {
	queryPath := path.Join("typescript", queryName+".scm")
	data, err := queries.ReadFile(queryPath)
	if err != nil {
		return fmt.Errorf("failed to read query file %s: %w", queryPath, err)
	}

	query, qerr := ts.NewQuery(languages.typescript, string(data))
	if qerr != nil {
		return fmt.Errorf("failed to parse query %s: %w", queryName, qerr)
	}
	qm.typescript[queryName] = query
	return nil
}

func (qm *QueryManager) Close() {
	for _, query := range qm.typescript {
		query.Close()
	}
}

func (qm *QueryManager) getQuery(queryName string) (*ts.Query, error) {
	q, ok := qm.typescript[queryName]
	if !ok {
		return nil, fmt.Errorf("unknown query %s", queryName)
	}
	return q, nil
}

type CaptureInfo struct {
	NodeId    int
	Text      string
	StartByte uint
	EndByte   uint
}

type CaptureMap = map[string][]CaptureInfo

type QueryMatcher struct {
	query  *ts.Query
	cursor *ts.QueryCursor
}

// Close releases the cursor. The underlying query is owned by the
// QueryManager and is only closed there.
func (qm QueryMatcher) Close() {
	qm.cursor.Close()
}

func (qm QueryMatcher) GetCaptureNameByIndex(index uint32) string {
	return qm.query.CaptureNames()[index]
}

func (qm QueryMatcher) GetCaptureIndexForName(name string) (uint, bool) {
	return qm.query.CaptureIndexForName(name)
}

func NewQueryMatcher(manager *QueryManager, queryName string) (*QueryMatcher, error) {
	if manager == nil {
		return nil, ErrNoQueryManager
	}
	query, err := manager.getQuery(queryName)
	if err != nil {
		return nil, err
	}
	cursor := ts.NewQueryCursor()
	qm := QueryMatcher{query, cursor}
	return &qm, nil
}

func (q QueryMatcher) AllQueryMatches(node *ts.Node, text []byte) iter.Seq[*ts.QueryMatch] {
	matches := q.cursor.Matches(q.query, node, text)
	return func(yield func(qm *ts.QueryMatch) bool) {
		for {
			m := matches.Next()
			if m == nil {
				break
			}
			if !yield(m) {
				return
			}
		}
	}
}

// Position represents a line/character position.
type Position struct {
	Line      uint32
	Character uint32
}

// Range represents a start/end position pair.
type Range struct {
	Start Position
	End   Position
}

func byteOffsetToPosition(content []byte, offset uint) Position {
	line := uint32(0)
	char := uint32(0)
	for i, b := range content {
		if uint(i) >= offset {
			break
		}
		if b == '\n' {
			line++
			char = 0
		} else {
			char++
		}
	}
	return Position{Line: line, Character: char}
}

// NodeToRange converts a tree-sitter node to a line/character Range.
func NodeToRange(node *ts.Node, content []byte) Range {
	return Range{
		Start: byteOffsetToPosition(content, node.StartByte()),
		End:   byteOffsetToPosition(content, node.EndByte()),
	}
}

var (
	globalQueryManager     *QueryManager
	globalQueryManagerOnce sync.Once
	globalQueryManagerErr  error
)

// GetGlobalQueryManager returns a process-wide QueryManager loaded with
// every query the module loader uses, built once and shared thereafter.
func GetGlobalQueryManager() (*QueryManager, error) {
	globalQueryManagerOnce.Do(func() {
		globalQueryManager, globalQueryManagerErr = NewQueryManager(AllQueries())
	})
	return globalQueryManager, globalQueryManagerErr
}

// GetCachedQueryMatcher builds a fresh QueryMatcher (cursors are not safe to
// reuse across queries) against a query already compiled by manager.
func GetCachedQueryMatcher(manager *QueryManager, queryName string) (*QueryMatcher, error) {
	return NewQueryMatcher(manager, queryName)
}
