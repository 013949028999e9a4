// Package langprofile holds the read-only per-language table consumed by
// the matcher, PCS builder, merger and renderer: atomic node types,
// commutative-parent definitions, signature definitions, flattened node
// types, extra comment node types and an optional injections query. None of
// this is computed; the built-in table is supplied as literal Go data, the
// same way the teacher's graph.NodeKind and diff.UnitKind enums are literal
// rather than loaded from a config file. ApplyOverride can merge a YAML
// override into a copy of a built-in profile for one run. Profiles are
// plain values, never singletons:
// nothing in this package holds global mutable state after init.
package langprofile

// SignatureStep is one step of a signature descendant-selection path.
type SignatureStep interface {
	isSignatureStep()
}

// FieldStep follows the uniquely-named grammar field child.
type FieldStep struct {
	Name string
}

func (FieldStep) isSignatureStep() {}

// ChildOfTypeStep collects the multiset of same-type children, in source
// order.
type ChildOfTypeStep struct {
	Type string
}

func (ChildOfTypeStep) isSignatureStep() {}

// SignaturePath is a list of steps gathering descendant text for a
// signature.
type SignaturePath []SignatureStep

// CommutativeParent declares a node type whose children's order is
// semantically irrelevant.
type CommutativeParent struct {
	Delimiter string // e.g. "," between entries; not read by the merger or renderer
	Separator string // separator text returned by SeparatorFor; the renderer uses a single space instead

	// Groups restricts which child node types are mutually reorderable,
	// keyed by group name. Nil/empty means no restriction: all children
	// are in one implicit group.
	Groups map[string][]string
	// GroupSeparators overrides Separator per group.
	GroupSeparators map[string]string

	// Query, if set, is a tree-sitter query string selecting which
	// instances of this node type are commutative. It is stored only: the
	// parser driver marks every node of this type as commutative and does
	// not evaluate Query.
	Query string
}

// GroupOf returns the group name a child node type belongs to, or "" if
// groups aren't restricted (single implicit group) or the type isn't
// declared in any group.
func (c CommutativeParent) GroupOf(childType string) string {
	if len(c.Groups) == 0 {
		return ""
	}
	for group, types := range c.Groups {
		for _, t := range types {
			if t == childType {
				return group
			}
		}
	}
	return ""
}

// SeparatorFor returns the separator text to use between two children of
// the given group (or the default Separator if groups aren't used).
func (c CommutativeParent) SeparatorFor(group string) string {
	if sep, ok := c.GroupSeparators[group]; ok {
		return sep
	}
	return c.Separator
}

// Profile is the per-language declarative table.
type Profile struct {
	Name       string
	Extensions []string // e.g. ".js", ".mjs"
	FileNames  []string // exact file names, e.g. "Dockerfile", "go.mod"

	AtomicTypes        map[string]bool
	CommutativeParents map[string]CommutativeParent
	SignatureDefs      map[string]SignaturePath
	FlattenedTypes     map[string]bool
	ExtraCommentTypes  map[string]bool

	// InjectionsQuery is out of scope for the core (spec.md §4.9); kept
	// only so a future injections pass has somewhere to read it from.
	InjectionsQuery string
}

// IsCommutative reports whether nodeType is a commutative parent in this
// profile.
func (p *Profile) IsCommutative(nodeType string) bool {
	_, ok := p.CommutativeParents[nodeType]
	return ok
}

// IsAtomic reports whether nodeType is atomic in this profile.
func (p *Profile) IsAtomic(nodeType string) bool {
	return p.AtomicTypes[nodeType]
}

// IsFlattened reports whether nodeType should be flattened during
// post-processing.
func (p *Profile) IsFlattened(nodeType string) bool {
	return p.FlattenedTypes[nodeType]
}

// IsExtraComment reports whether nodeType is an extra comment type beyond
// the grammar's own "extras".
func (p *Profile) IsExtraComment(nodeType string) bool {
	return p.ExtraCommentTypes[nodeType]
}
