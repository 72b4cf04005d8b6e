// Copyright © 2024 The ELPS authors

// Package explore implements an interactive read-eval-print loop for
// inspecting a validated scope: its diagnostics, callables, and
// completions. It reuses readline line editing, a history file, and
// symbol completion, with the evaluation step replaced by a small
// command grammar, since this toolchain never executes source — only
// analyzes it.
package explore

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ergochat/readline"

	"github.com/stbscript/bsc/diagnostic"
	"github.com/stbscript/bsc/scope"
)

// Session drives one interactive exploration of a scope.
type Session struct {
	scope    *scope.Scope
	renderer *diagnostic.Renderer
	stdin    io.ReadCloser
	stdout   io.Writer
}

// Option configures a Session.
type Option func(*Session)

// WithStdin overrides the session's input stream.
func WithStdin(r io.ReadCloser) Option {
	return func(s *Session) { s.stdin = r }
}

// WithStdout overrides the session's output stream.
func WithStdout(w io.Writer) Option {
	return func(s *Session) { s.stdout = w }
}

// New builds a Session over sc, rendering diagnostics with mode.
func New(sc *scope.Scope, mode diagnostic.ColorMode, opts ...Option) *Session {
	s := &Session{
		scope:  sc,
		stdout: os.Stdout,
	}
	for _, o := range opts {
		o(s)
	}
	s.renderer = diagnostic.NewRenderer(s.stdout, mode, nil)
	return s
}

const helpText = `Commands:
  :diagnostics          show diagnostics from the last validate pass
  :validate             force a fresh validate pass
  :callable <name>      show a declared callable's signature and scope
  :completions <prefix> list callables whose name starts with prefix
  :namespaces           list every known namespace in alphabetical order
  :help                 show this text
  :quit                 exit`

// Run starts the loop, blocking until the user quits or input ends.
func (s *Session) Run(prompt string) error {
	rlCfg := &readline.Config{
		Stdout:            s.stdout,
		Stderr:            s.stdout,
		Prompt:            prompt,
		HistoryFile:       historyPath(),
		HistorySearchFold: true,
		AutoComplete:      &commandCompleter{scope: s.scope},
	}
	if s.stdin != nil {
		rlCfg.Stdin = s.stdin
	}

	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return err
	}
	defer rl.Close() //nolint:errcheck // best-effort cleanup

	for {
		line, err := rl.ReadSlice()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			return nil
		}
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		if err := s.RunCommand(string(line)); err != nil {
			fmt.Fprintln(s.stdout, err) //nolint:errcheck // best-effort REPL output
		}
	}
}

// RunCommand executes a single command line (as typed at the prompt)
// against the session's scope. Exported so callers other than the
// interactive loop — e.g. a non-interactive "run one command" CLI
// invocation, or a test — can drive the same command grammar.
func (s *Session) RunCommand(line string) error {
	fields := strings.Fields(line)
	cmd := fields[0]
	args := fields[1:]

	switch cmd {
	case ":help":
		fmt.Fprintln(s.stdout, helpText) //nolint:errcheck
	case ":quit", ":q":
		os.Exit(0)
	case ":validate":
		s.scope.Validate(true)
		fmt.Fprintf(s.stdout, "validated %q: %d diagnostics\n", s.scope.Name(), len(s.scope.Diagnostics())) //nolint:errcheck
	case ":diagnostics":
		s.scope.Validate(false)
		s.renderer.Render(s.scope.Diagnostics())
	case ":callable":
		if len(args) != 1 {
			return fmt.Errorf("usage: :callable <name>")
		}
		s.showCallable(args[0])
	case ":completions":
		prefix := ""
		if len(args) == 1 {
			prefix = args[0]
		}
		s.showCompletions(prefix)
	case ":namespaces":
		s.showNamespaces()
	default:
		return fmt.Errorf("unknown command %q, try :help", cmd)
	}
	return nil
}

func (s *Session) showCallable(name string) {
	c, ok := s.scope.GetCallableByName(name)
	if !ok {
		fmt.Fprintf(s.stdout, "no callable named %q is visible from scope %q\n", name, s.scope.Name()) //nolint:errcheck
		return
	}
	fmt.Fprintf(s.stdout, "%s (declared in scope %q, %d params, %d required)\n", //nolint:errcheck
		c.Callable.Name, c.Scope.Name(), c.Callable.MaxParams(), c.Callable.MinParams())
}

func (s *Session) showCompletions(prefix string) {
	items := s.scope.GetCallablesAsCompletions(scope.ParseModeBrightScript)
	lowerPrefix := strings.ToLower(prefix)
	var names []string
	for _, item := range items {
		if strings.HasPrefix(strings.ToLower(item.Label), lowerPrefix) {
			names = append(names, item.Label)
		}
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintln(s.stdout, n) //nolint:errcheck
	}
}

func (s *Session) showNamespaces() {
	lookup := s.scope.BuildNamespaceLookup()
	names := make([]string, 0, len(lookup))
	for name := range lookup {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintln(s.stdout, n) //nolint:errcheck
	}
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".bsc_history")
}

// commandCompleter implements readline.AutoCompleter over callable
// names visible from the session's scope.
type commandCompleter struct {
	scope *scope.Scope
}

func (c *commandCompleter) Do(line []rune, pos int) ([][]rune, int) {
	start := pos
	for start > 0 {
		ch := line[start-1]
		if ch == ' ' || ch == '\t' || ch == '\n' {
			break
		}
		start--
	}
	prefix := string(line[start:pos])
	if prefix == "" {
		return nil, 0
	}

	var candidates []string
	for _, item := range c.scope.GetCallablesAsCompletions(scope.ParseModeBrightScript) {
		if strings.HasPrefix(strings.ToLower(item.Label), strings.ToLower(prefix)) {
			candidates = append(candidates, item.Label)
		}
	}
	sort.Strings(candidates)

	result := make([][]rune, 0, len(candidates))
	for _, cand := range candidates {
		if len(cand) < len(prefix) {
			continue
		}
		result = append(result, []rune(cand[len(prefix):]))
	}
	return result, len(prefix)
}
