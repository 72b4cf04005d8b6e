// Copyright © 2024 The ELPS authors

package scopetypes

// ScopeRef is the minimal identity a scope exposes to scopetypes without
// creating an import cycle back to the scope package.
type ScopeRef interface {
	Name() string
}

// Param is a single callable parameter.
type Param struct {
	Name       string
	IsOptional bool
}

// Callable is a named function or subroutine declaration.
type Callable struct {
	Name             string
	LowerName        string
	File             BscFile
	Params           []Param
	NameRange        Range
	HasNamespace     bool
	Documentation    string
	ShortDescription string
}

// MinParams is the count of non-optional parameters.
func (c *Callable) MinParams() int {
	n := 0
	for _, p := range c.Params {
		if !p.IsOptional {
			n++
		}
	}
	return n
}

// MaxParams is the total parameter count. The language guarantees
// optional parameters are trailing, so MaxParams is simply len(Params).
func (c *Callable) MaxParams() int {
	return len(c.Params)
}

// CallableContainer pairs a callable with the scope that surfaced it,
// used to resolve override/ancestry disputes.
type CallableContainer struct {
	Callable *Callable
	Scope    ScopeRef
}

// ClassStatement is the minimal shape of a declared class needed by the
// core: enough for namespace-qualified lookup and for a class-validator
// collaborator to walk the inheritance chain. The validator's own
// algorithm (cycle detection, field overrides) lives outside this type.
type ClassStatement struct {
	Name       string
	LowerName  string
	ParentName string // empty if no explicit parent
	Namespace  string // empty if declared at the top level
	FullName   string // Namespace + "." + Name, or just Name
	Fields     []string
	Methods    []string
	File       BscFile
	NameRange  Range
}

// VarDecl is a local variable declaration inside a function scope.
type VarDecl struct {
	Name           string
	LowerName      string
	NameRange      Range
	IsFunctionType bool // true when the declaration's inferred type is a function
}

// FunctionScope is a function-local lexical scope containing variable
// declarations, anchored to the source range of the function body so the
// innermost scope at a call site can be found by range containment.
type FunctionScope struct {
	Range     Range
	Variables []VarDecl
}

// Contains reports whether pos falls within the scope's range. Unlike
// the half-open Range convention, a position equal to End counts as
// inside.
func (fs *FunctionScope) Contains(pos Position) bool {
	if pos.Line < fs.Range.Start.Line || pos.Line > fs.Range.End.Line {
		return false
	}
	if pos.Line == fs.Range.Start.Line && pos.Character < fs.Range.Start.Character {
		return false
	}
	if pos.Line == fs.Range.End.Line && pos.Character > fs.Range.End.Character {
		return false
	}
	return true
}

// FunctionCall is a single call-site record.
type FunctionCall struct {
	Name      string
	LowerName string
	NameRange Range
	Range     Range
	ArgCount  int
}

// NewExpression is a raw `new ClassName(...)` expression as surfaced by a
// file's parser references.
type NewExpression struct {
	ClassName string
	Range     Range
}

// NewExpressionInfo decorates a NewExpression with its owning file.
type NewExpressionInfo struct {
	NewExpression
	File BscFile
}

// AssignmentStatement records the target name of an assignment, used to
// detect collisions with namespace prefixes.
type AssignmentStatement struct {
	TargetName      string
	TargetLowerName string
	TargetNameRange Range
}

// NamespaceStatement is one `namespace Foo.Bar ... end namespace` body as
// it appears in a single file. Sibling bodies with the same full name
// (across files, or repeated in one file) are coalesced when the
// namespace lookup is built.
type NamespaceStatement struct {
	File               BscFile
	FullName           string
	LowerFullName      string
	NameRange          Range
	LastPartName       string
	ClassStatements    []*ClassStatement
	FunctionStatements []*Callable
}

// ParserReferences is the subset of a file's parsed reference lists the
// core reads: namespaces, classes, functions, `new` expressions, and
// assignment targets.
type ParserReferences struct {
	Namespaces    []NamespaceStatement
	Classes       []*ClassStatement
	Functions     []*Callable
	NewExpressions []NewExpression
	Assignments   []AssignmentStatement
}

// ScriptImport is a single `import "pkg:/..."` or `<script uri="...">`
// reference, as declared by a source or component file.
type ScriptImport struct {
	Text  string
	Range Range
}

// CompletionKind classifies a completion item. Only the kinds this core
// emits are enumerated; richer kinds belong to the LSP surface.
type CompletionKind int

const (
	CompletionKindFunction CompletionKind = iota
	CompletionKindProperty
)

// CompletionItem is a single entry returned by the completion provider.
type CompletionItem struct {
	Label         string
	Kind          CompletionKind
	Detail        string
	Documentation string
	IsMarkdown    bool
}

// BscFile is the set of attributes the core observes on a parsed source
// or component-descriptor file. Parsing itself is an out-of-scope
// collaborator; this core only ever reads these fields.
type BscFile interface {
	PkgPath() string
	LowerPkgPath() string
	PathAbsolute() string
	Extension() string
	HasTypedef() bool
	Callables() []*Callable
	FunctionCalls() []*FunctionCall
	FunctionScopes() []*FunctionScope
	PropertyNameCompletions() []CompletionItem
	References() *ParserReferences
	OwnScriptImports() []ScriptImport
	ScriptTagImports() []ScriptImport
}
