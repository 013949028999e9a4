// Package parse wraps a concrete incremental parser for a detected
// language behind a uniform interface and converts the resulting concrete
// syntax tree into the engine's own synt.Node tree, annotated with byte
// spans and profile-derived markers. This is the parser driver of
// spec.md §4.1, generalized from the teacher's two-language (js/py)
// *parse.Parser* to a small driver registry so the matcher and merger
// never see a *sitter.Node directly.
package parse

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/css"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"smerge/langprofile"
	"smerge/synt"
)

// LanguageDriver binds a language name to its tree-sitter grammar.
type LanguageDriver struct {
	Name     string
	Language func() *sitter.Language
}

var drivers = map[string]LanguageDriver{
	"javascript": {"javascript", javascript.GetLanguage},
	"typescript": {"typescript", typescript.GetLanguage},
	"python":     {"python", python.GetLanguage},
	"go":         {"go", golang.GetLanguage},
	"css":        {"css", css.GetLanguage},
}

// ParseError reports that the grammar could not parse the input cleanly;
// callers must fall back to line-based merge for this file (spec.md §4.1,
// §7).
type ParseError struct {
	Lang string
	Pos  int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse: %s: syntax error near byte %d", e.Lang, e.Pos)
}

// ErrUnknownLanguage is returned when no driver or language profile exists
// for a file.
type ErrUnknownLanguage struct {
	FileName string
}

func (e *ErrUnknownLanguage) Error() string {
	return "parse: unknown language for " + e.FileName
}

// Result is a parsed and post-processed revision, ready for matching.
type Result struct {
	Tree    *synt.Tree
	Profile *langprofile.Profile
}

// ParseFile detects the language from fileName, normalizes line endings,
// parses with the matching tree-sitter grammar, and post-processes the
// resulting tree. If the grammar reports any error node, a *ParseError is
// returned alongside the best-effort tree so the caller may still log it,
// but callers MUST treat a non-nil error as "fall back to line-based
// merge" per spec.md §7.
func ParseFile(fileName string, source []byte, rev synt.Revision) (*Result, error) {
	profile, ok := langprofile.Detect(fileName)
	if !ok {
		return nil, &ErrUnknownLanguage{FileName: fileName}
	}
	return ParseFileWithProfile(fileName, source, rev, profile)
}

// ParseFileWithProfile parses source against an explicit profile instead of
// detecting one from fileName, for callers carrying a user-supplied
// langprofile.ApplyOverride result (spec.md §4.1's language-profile
// registry is otherwise the sole source of truth).
func ParseFileWithProfile(fileName string, source []byte, rev synt.Revision, profile *langprofile.Profile) (*Result, error) {
	driver, ok := drivers[profile.Name]
	if !ok {
		return nil, &ErrUnknownLanguage{FileName: fileName}
	}

	normalized, terminator := NormalizeLineEndings(source)

	sp := sitter.NewParser()
	sp.SetLanguage(driver.Language())
	sitterTree, err := sp.ParseCtx(context.Background(), nil, normalized)
	if err != nil {
		return nil, fmt.Errorf("parse: %s: %w", fileName, err)
	}

	arena := synt.NewArena()
	root := convert(sitterTree.RootNode(), normalized, profile, arena)

	var parseErr error
	if sitterTree.RootNode().HasError() {
		parseErr = &ParseError{Lang: profile.Name, Pos: firstErrorPos(sitterTree.RootNode())}
	}

	root = synt.PostProcess(root, normalized, profile, arena)
	tree := synt.NewTree(root, rev, normalized, terminator, arena)

	return &Result{Tree: tree, Profile: profile}, parseErr
}

// convert walks a *sitter.Node tree into a *synt.Node tree, tagging
// profile-derived markers along the way (spec.md §4.9: atomic node types
// short-circuit recursion during matching and PCS emission, so they're
// stamped once here rather than re-checked downstream).
func convert(n *sitter.Node, source []byte, profile *langprofile.Profile, arena *synt.Arena) *synt.Node {
	if n == nil {
		return nil
	}

	isAtomic := profile.IsAtomic(n.Type())
	out := arena.New(&synt.Node{
		Type:                n.Type(),
		Start:               int(n.StartByte()),
		End:                 int(n.EndByte()),
		IsAtomic:            isAtomic,
		IsCommutativeParent: profile.IsCommutative(n.Type()),
		IsExtraComment:      profile.IsExtraComment(n.Type()),
	})

	if isAtomic {
		return out
	}

	count := int(n.ChildCount())
	children := make([]*synt.Node, 0, count)
	for i := 0; i < count; i++ {
		child := n.Child(i)
		if child == nil || !child.IsNamed() {
			continue
		}
		converted := convert(child, source, profile, arena)
		converted.Field = n.FieldNameForChild(i)
		children = append(children, converted)
	}
	out.Children = children
	return out
}

func firstErrorPos(n *sitter.Node) int {
	if n.HasError() {
		if n.IsError() {
			return int(n.StartByte())
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			c := n.Child(i)
			if c != nil && c.HasError() {
				return firstErrorPos(c)
			}
		}
	}
	return int(n.StartByte())
}
