package lsp

import (
	"encoding/json"
	"sync"
)

// fix is a quick fix attached to the diagnostic with the same code and range.
type fix struct {
	title string
	code  string
	rng   Range
	edit  TextEdit
}

// fixCache stores the fixes of the last published diagnostics, keyed by URI.
type fixCache struct {
	mu    sync.RWMutex
	fixes map[string][]fix
}

func newFixCache() *fixCache {
	return &fixCache{fixes: make(map[string][]fix)}
}

func (c *fixCache) set(uri string, fixes []fix) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(fixes) == 0 {
		delete(c.fixes, uri)
		return
	}
	c.fixes[uri] = fixes
}

func (c *fixCache) get(uri string) []fix {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fixes[uri]
}

func (c *fixCache) clearURI(uri string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.fixes, uri)
}

// handleCodeAction handles the textDocument/codeAction request.
func (s *Server) handleCodeAction(msg *JSONRPCMessage) error {
	var params CodeActionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.sendResponse(msg.ID, nil, &JSONRPCError{Code: codeInvalidParams, Message: err.Error()})
		return err
	}

	s.sendResponse(msg.ID, s.getCodeActions(params), nil)
	return nil
}

// getCodeActions offers one replacement per misspelled word named in the
// request, plus a whole-document auto-correction when it changes anything.
func (s *Server) getCodeActions(params CodeActionParams) []CodeAction {
	uri := params.TextDocument.URI
	actions := []CodeAction{}

	cached := s.fixes.get(uri)
	for _, diag := range params.Context.Diagnostics {
		for _, f := range cached {
			if f.code != diag.Code || f.rng != diag.Range {
				continue
			}
			actions = append(actions, CodeAction{
				Title:       f.title,
				Kind:        CodeActionKindQuickFix,
				Diagnostics: []Diagnostic{diag},
				IsPreferred: true,
				Edit: &WorkspaceEdit{
					Changes: map[string][]TextEdit{uri: {f.edit}},
				},
			})
		}
	}

	doc := s.documents.Get(uri)
	if doc == nil {
		return actions
	}
	res := s.analyzer.Analyze(s.ctx, doc.Content, true)
	if res.CorrectedText != doc.Content {
		actions = append(actions, CodeAction{
			Title:       "Apply all corrections",
			Kind:        CodeActionKindQuickFix,
			Diagnostics: params.Context.Diagnostics,
			Edit: &WorkspaceEdit{
				Changes: map[string][]TextEdit{uri: {{Range: doc.FullRange(), NewText: res.CorrectedText}}},
			},
		})
	}
	return actions
}
