package lsp

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/leapstack-labs/minilang/pkg/parser"
	"github.com/leapstack-labs/minilang/pkg/token"
)

// statementSnippets expand a keyword into a statement skeleton.
var statementSnippets = map[string]string{
	"print": "print(${1:expr});",
	"int":   "int ${1:name} = ${2:0};",
	"input": "input(\"${1:prompt}\");",
	"if":    "if (${1:a} == ${2:b}) {\n\t$0\n}",
	"while": "while (${1:a} == ${2:b}) {\n\t$0\n}",
}

// handleCompletion handles the textDocument/completion request.
func (s *Server) handleCompletion(msg *JSONRPCMessage) error {
	var params CompletionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.sendResponse(msg.ID, nil, &JSONRPCError{Code: codeInvalidParams, Message: err.Error()})
		return err
	}

	items := []CompletionItem{}
	if doc := s.documents.Get(params.TextDocument.URI); doc != nil {
		items = getCompletions(doc, params.Position)
	}
	s.sendResponse(msg.ID, &CompletionList{Items: items}, nil)
	return nil
}

// getCompletions returns the keywords and declared variables matching the
// word before pos.
func getCompletions(doc *Document, pos Position) []CompletionItem {
	prefix := doc.WordBefore(pos)
	items := []CompletionItem{}

	for i, kw := range token.Keywords() {
		if !strings.HasPrefix(kw, prefix) {
			continue
		}
		items = append(items, CompletionItem{
			Label:            kw,
			Kind:             CompletionItemKindKeyword,
			Detail:           "keyword",
			SortText:         "0" + string(rune('a'+i)),
			InsertText:       statementSnippets[kw],
			InsertTextFormat: InsertTextFormatSnippet,
		})
	}

	for _, name := range declaredNames(doc.Content) {
		if name == prefix || !strings.HasPrefix(name, prefix) {
			continue
		}
		items = append(items, CompletionItem{
			Label:    name,
			Kind:     CompletionItemKindVariable,
			Detail:   "variable",
			SortText: "1" + name,
		})
	}
	return items
}

// declaredNames lists, sorted, the names bound by `int x = ...` and
// `x = input(...)` in src.
func declaredNames(src string) []string {
	toks := parser.Tokenize(src)
	seen := map[string]bool{}
	for i, tok := range toks {
		if tok.Kind != token.IDENT {
			continue
		}
		declared := i > 0 && toks[i-1].Kind == token.INT
		if i+2 < len(toks) && toks[i+1].Kind == token.ASSIGN && toks[i+2].Kind == token.INPUT {
			declared = true
		}
		if declared {
			seen[tok.Literal] = true
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
