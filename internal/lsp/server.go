package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/leapstack-labs/minilang/pkg/analyzer"
)

// JSON-RPC error codes.
const (
	codeInvalidRequest   = -32600
	codeMethodNotFound   = -32601
	codeInvalidParams    = -32602
	codeServerNotInitial = -32002
)

// Options configures a Server.
type Options struct {
	// Analyzer runs the analyses; nil means one over the default dictionary.
	Analyzer *analyzer.Analyzer
	Logger   *slog.Logger
	Version  string
}

// Server implements the Language Server Protocol over a JSON-RPC stream.
type Server struct {
	documents *DocumentStore
	fixes     *fixCache
	analyzer  *analyzer.Analyzer
	version   string

	initialized bool
	shutdown    bool
	exited      bool

	// ctx is the context of the running Run call.
	ctx context.Context

	reader  *bufio.Reader
	writer  io.Writer
	writeMu sync.Mutex

	logger *slog.Logger
}

// NewServer creates a server reading requests from reader and writing
// responses and notifications to writer.
func NewServer(reader io.Reader, writer io.Writer, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	a := opts.Analyzer
	if a == nil {
		a = analyzer.New(nil, analyzer.WithLogger(logger))
	}
	return &Server{
		documents: NewDocumentStore(),
		fixes:     newFixCache(),
		analyzer:  a,
		version:   opts.Version,
		ctx:       context.Background(),
		reader:    bufio.NewReader(reader),
		writer:    writer,
		logger:    logger,
	}
}

// Documents returns the open documents.
func (s *Server) Documents() *DocumentStore {
	return s.documents
}

// Run processes messages until the client sends exit, the input ends, or
// ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.ctx = ctx
	s.logger.Info("minilang LSP server starting")

	for !s.exited {
		if err := ctx.Err(); err != nil {
			return nil
		}

		msg, err := s.readMessage()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				s.logger.Info("client disconnected")
				return nil
			}
			s.logger.Error("error reading message", "error", err)
			continue
		}

		if err := s.handleMessage(msg); err != nil {
			s.logger.Error("error handling message", "method", msg.Method, "error", err)
		}
	}
	return nil
}

// JSONRPCMessage represents a JSON-RPC 2.0 message.
type JSONRPCMessage struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Method  string           `json:"method,omitempty"`
	Params  json.RawMessage  `json:"params,omitempty"`
	Result  json.RawMessage  `json:"result,omitempty"`
	Error   *JSONRPCError    `json:"error,omitempty"`
}

// JSONRPCError represents a JSON-RPC error.
type JSONRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// readMessage reads one Content-Length framed message.
func (s *Server) readMessage() (*JSONRPCMessage, error) {
	contentLength := -1
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			if line == "" || errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			return nil, err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			break
		}
		name, value, ok := strings.Cut(line, ":")
		if ok && strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			contentLength, err = strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return nil, fmt.Errorf("invalid Content-Length: %w", err)
			}
		}
	}

	if contentLength < 0 {
		return nil, fmt.Errorf("missing Content-Length header")
	}

	body := make([]byte, contentLength)
	if _, err := io.ReadFull(s.reader, body); err != nil {
		return nil, fmt.Errorf("error reading body: %w", err)
	}

	var msg JSONRPCMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, fmt.Errorf("error parsing message: %w", err)
	}
	return &msg, nil
}

// sendResponse sends a JSON-RPC response. A nil result is sent as null.
func (s *Server) sendResponse(id *json.RawMessage, result any, rpcErr *JSONRPCError) {
	msg := JSONRPCMessage{JSONRPC: "2.0", ID: id}
	if rpcErr != nil {
		msg.Error = rpcErr
	} else {
		data, err := json.Marshal(result)
		if err != nil {
			s.logger.Error("error marshaling result", "error", err)
			data = []byte("null")
		}
		msg.Result = data
	}
	s.writeMessage(&msg)
}

// sendNotification sends a JSON-RPC notification.
func (s *Server) sendNotification(method string, params any) {
	msg := JSONRPCMessage{JSONRPC: "2.0", Method: method}
	if params != nil {
		data, err := json.Marshal(params)
		if err != nil {
			s.logger.Error("error marshaling notification", "method", method, "error", err)
			return
		}
		msg.Params = data
	}
	s.writeMessage(&msg)
}

func (s *Server) writeMessage(msg *JSONRPCMessage) {
	body, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("error marshaling message", "error", err)
		return
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if _, err := fmt.Fprintf(s.writer, "Content-Length: %d\r\n\r\n", len(body)); err != nil {
		s.logger.Error("error writing message", "error", err)
		return
	}
	_, _ = s.writer.Write(body)
}

// handleMessage dispatches a message to the appropriate handler.
func (s *Server) handleMessage(msg *JSONRPCMessage) error {
	s.logger.Debug("received", "method", msg.Method)

	switch msg.Method {
	case "initialize":
		return s.handleInitialize(msg)
	case "initialized":
		return nil
	case "shutdown":
		return s.handleShutdown(msg)
	case "exit":
		s.exited = true
		return nil
	}

	if !s.initialized {
		if msg.ID != nil {
			s.sendResponse(msg.ID, nil, &JSONRPCError{Code: codeServerNotInitial, Message: "server not initialized"})
		}
		return nil
	}
	if s.shutdown {
		if msg.ID != nil {
			s.sendResponse(msg.ID, nil, &JSONRPCError{Code: codeInvalidRequest, Message: "server is shutting down"})
		}
		return nil
	}

	switch msg.Method {
	case "textDocument/didOpen":
		return s.handleDidOpen(msg)
	case "textDocument/didChange":
		return s.handleDidChange(msg)
	case "textDocument/didClose":
		return s.handleDidClose(msg)
	case "textDocument/didSave":
		return s.handleDidSave(msg)
	case "textDocument/completion":
		return s.handleCompletion(msg)
	case "textDocument/codeAction":
		return s.handleCodeAction(msg)
	default:
		if msg.ID != nil {
			s.sendResponse(msg.ID, nil, &JSONRPCError{
				Code:    codeMethodNotFound,
				Message: "Method not found: " + msg.Method,
			})
		}
		return nil
	}
}

// --- Lifecycle handlers ---

func (s *Server) handleInitialize(msg *JSONRPCMessage) error {
	var params InitializeParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			s.sendResponse(msg.ID, nil, &JSONRPCError{Code: codeInvalidParams, Message: err.Error()})
			return err
		}
	}
	if params.RootURI != "" {
		s.logger.Info("project root", "path", URIToPath(params.RootURI))
	}
	s.initialized = true

	s.sendResponse(msg.ID, InitializeResult{
		Capabilities: ServerCapabilities{
			TextDocumentSync: &TextDocumentSyncOptions{
				OpenClose: true,
				Change:    TextDocumentSyncKindFull,
				Save:      &SaveOptions{IncludeText: true},
			},
			CompletionProvider: &CompletionOptions{},
			CodeActionProvider: &CodeActionOptions{
				CodeActionKinds: []CodeActionKind{CodeActionKindQuickFix},
			},
		},
		ServerInfo: &ServerInfo{Name: "minilang", Version: s.version},
	}, nil)
	return nil
}

func (s *Server) handleShutdown(msg *JSONRPCMessage) error {
	s.shutdown = true
	s.sendResponse(msg.ID, nil, nil)
	s.logger.Info("server shutdown")
	return nil
}

// --- Document handlers ---

func (s *Server) handleDidOpen(msg *JSONRPCMessage) error {
	var params DidOpenTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}

	doc := params.TextDocument
	s.documents.Open(doc.URI, doc.Text, doc.Version)
	s.logger.Debug("opened", "uri", doc.URI)
	s.publishDiagnostics(doc.URI)
	return nil
}

func (s *Server) handleDidChange(msg *JSONRPCMessage) error {
	var params DidChangeTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}

	// Full sync: the last change holds the whole text.
	if n := len(params.ContentChanges); n > 0 {
		uri := params.TextDocument.URI
		if s.documents.Update(uri, params.ContentChanges[n-1].Text, params.TextDocument.Version) == nil {
			return fmt.Errorf("change for unopened document %s", uri)
		}
		s.publishDiagnostics(uri)
	}
	return nil
}

func (s *Server) handleDidClose(msg *JSONRPCMessage) error {
	var params DidCloseTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}

	uri := params.TextDocument.URI
	s.documents.Close(uri)
	s.fixes.clearURI(uri)
	s.logger.Debug("closed", "uri", uri)

	s.sendNotification("textDocument/publishDiagnostics", &PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []Diagnostic{},
	})
	return nil
}

func (s *Server) handleDidSave(msg *JSONRPCMessage) error {
	var params DidSaveTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}

	uri := params.TextDocument.URI
	if params.Text != nil {
		doc := s.documents.Get(uri)
		version := 0
		if doc != nil {
			version = doc.Version
		}
		s.documents.Open(uri, *params.Text, version)
	}
	s.logger.Debug("saved", "path", URIToPath(uri))
	s.publishDiagnostics(uri)
	return nil
}
