// Copyright © 2024 The ELPS authors

// Package lspsurface exposes the scope validation core over the
// Language Server Protocol: a debounced didChange -> publishDiagnostics
// flow built around a scope.Scope's own validate pass.
package lspsurface

import (
	"os"
	"sync"
	"time"

	"github.com/tliron/glsp"
	glspserver "github.com/tliron/glsp/server"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/stbscript/bsc/scope"
)

const serverName = "bsc-lsp"
const debounceDelay = 300 * time.Millisecond

// ScopeResolver returns the scope that owns the file at path, e.g. by
// looking up the component or workspace scope containing it. The
// server has no opinion on how scopes are organized; it just needs one
// to validate and read diagnostics from.
type ScopeResolver func(path string) (*scope.Scope, bool)

// Observer is called after every validate pass this server triggers,
// letting the embedder record tracing spans or metrics without this
// package taking a direct dependency on a telemetry backend.
type Observer func(scopeName string, diagnosticCount int, elapsed time.Duration)

// ContentUpdater feeds an editor buffer's full text into whatever
// scope.FileProvider backs path, ahead of what's on disk. Without one,
// didOpen/didChange notifications are still received but ignored, and
// published diagnostics reflect only the last on-disk scan.
type ContentUpdater func(path string, content []byte) error

// ContentCloser drops path's overlay once an editor buffer is closed,
// so the file reverts to whatever is actually on disk.
type ContentCloser func(path string) error

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithObserver registers a callback fired after each validate pass.
func WithObserver(o Observer) ServerOption {
	return func(s *Server) { s.observe = o }
}

// WithContentUpdater registers the overlay hook didOpen/didChange feed
// buffer content through before publish revalidates.
func WithContentUpdater(u ContentUpdater) ServerOption {
	return func(s *Server) { s.updateContent = u }
}

// WithContentCloser registers the overlay hook didClose uses to drop a
// buffer's overlay once the editor is no longer authoritative for it.
func WithContentCloser(c ContentCloser) ServerOption {
	return func(s *Server) { s.closeContent = c }
}

// Server is the bsc language server.
type Server struct {
	handler protocol.Handler
	glspSrv *glspserver.Server

	resolve       ScopeResolver
	observe       Observer
	updateContent ContentUpdater
	closeContent  ContentCloser

	debounceMu sync.Mutex
	debounce   map[string]*time.Timer

	notifyMu sync.Mutex
	notify   glsp.NotifyFunc

	exitFn func(int)
}

// New creates a bsc language server. resolve is called on every
// publish cycle to find the scope backing the changed document.
func New(resolve ScopeResolver, opts ...ServerOption) *Server {
	s := &Server{
		resolve:       resolve,
		observe:       func(string, int, time.Duration) {},
		updateContent: func(string, []byte) error { return nil },
		closeContent:  func(string) error { return nil },
		debounce:      make(map[string]*time.Timer),
		exitFn:        os.Exit,
	}
	for _, o := range opts {
		o(s)
	}

	s.handler = protocol.Handler{
		Initialize: s.initialize,
		Shutdown:   s.shutdown,
		Exit:       s.exit,
		SetTrace:   s.setTrace,

		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidSave:   s.textDocumentDidSave,
		TextDocumentDidClose:  s.textDocumentDidClose,
	}

	s.glspSrv = glspserver.NewServer(&s.handler, serverName, false)
	return s
}

// RunStdio starts the server using stdio transport.
func (s *Server) RunStdio() error {
	return s.glspSrv.RunStdio()
}

// RunTCP starts the server listening on addr.
func (s *Server) RunTCP(addr string) error {
	return s.glspSrv.RunTCP(addr)
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	s.captureNotify(ctx)

	capabilities := s.handler.CreateServerCapabilities()
	syncKind := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    &syncKind,
		Save:      &protocol.SaveOptions{IncludeText: boolPtr(false)},
	}

	version := "0.1.0"
	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &version,
		},
	}, nil
}

func (s *Server) shutdown(_ *glsp.Context) error {
	s.debounceMu.Lock()
	for _, t := range s.debounce {
		t.Stop()
	}
	s.debounce = make(map[string]*time.Timer)
	s.debounceMu.Unlock()
	return nil
}

// exit terminates the process with exit code 0, whether or not a
// shutdown request was received first.
func (s *Server) exit(_ *glsp.Context) error {
	s.exitFn(0)
	return nil
}

func (s *Server) setTrace(_ *glsp.Context, _ *protocol.SetTraceParams) error {
	return nil
}

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.captureNotify(ctx)
	uri := params.TextDocument.URI
	if err := s.updateContent(uriToPath(uri), []byte(params.TextDocument.Text)); err != nil {
		return err
	}
	s.publish(uri)
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	s.captureNotify(ctx)
	uri := params.TextDocument.URI

	// With full sync, the last content change is the complete document.
	var content string
	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			content = c.Text
		case protocol.TextDocumentContentChangeEvent:
			content = c.Text
		}
	}
	if err := s.updateContent(uriToPath(uri), []byte(content)); err != nil {
		return err
	}

	s.debounceMu.Lock()
	if t, ok := s.debounce[uri]; ok {
		t.Stop()
	}
	s.debounce[uri] = time.AfterFunc(debounceDelay, func() {
		defer func() { _ = recover() }()
		s.publish(uri)
	})
	s.debounceMu.Unlock()
	return nil
}

func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	s.captureNotify(ctx)
	uri := params.TextDocument.URI

	s.debounceMu.Lock()
	if t, ok := s.debounce[uri]; ok {
		t.Stop()
		delete(s.debounce, uri)
	}
	s.debounceMu.Unlock()

	s.publish(uri)
	return nil
}

func (s *Server) textDocumentDidClose(_ *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI

	s.debounceMu.Lock()
	if t, ok := s.debounce[uri]; ok {
		t.Stop()
		delete(s.debounce, uri)
	}
	s.debounceMu.Unlock()

	if err := s.closeContent(uriToPath(uri)); err != nil {
		return err
	}

	s.sendNotification(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

// publish resolves the scope owning uri's file, forces a re-validate,
// and pushes its diagnostics to the client. A scope that cannot be
// resolved (e.g. a document outside the workspace) clears diagnostics
// instead of erroring.
func (s *Server) publish(uri string) {
	path := uriToPath(uri)
	sc, ok := s.resolve(path)
	if !ok {
		s.sendNotification(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
			URI:         uri,
			Diagnostics: []protocol.Diagnostic{},
		})
		return
	}

	start := time.Now()
	// Invalidate before validating: force alone re-runs the pipeline but
	// leaves cached callable/namespace lookups from the last pass in
	// place, which would mask exactly the edits this publish exists to
	// surface.
	sc.Invalidate()
	sc.Validate(true)
	diags := sc.Diagnostics()
	s.observe(sc.Name(), len(diags), time.Since(start))

	lspDiags := make([]protocol.Diagnostic, 0, len(diags))
	for _, d := range diags {
		if d.File != "" && d.File != path {
			continue
		}
		lspDiags = append(lspDiags, toProtocolDiagnostic(d))
	}

	s.sendNotification(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: lspDiags,
	})
}

func (s *Server) captureNotify(ctx *glsp.Context) {
	s.notifyMu.Lock()
	s.notify = ctx.Notify
	s.notifyMu.Unlock()
}

func (s *Server) sendNotification(method string, params any) {
	s.notifyMu.Lock()
	fn := s.notify
	s.notifyMu.Unlock()
	if fn != nil {
		fn(method, params)
	}
}

func boolPtr(b bool) *bool { return &b }
