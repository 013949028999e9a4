package langprofile

import (
	"os"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// OverrideFile is the shape of a user-supplied partial profile override,
// e.g. to widen a project's set of atomic node types or declare an
// additional commutative parent without forking the built-in table.
type OverrideFile struct {
	Language           string                        `yaml:"language"`
	AtomicTypes        map[string]bool               `yaml:"atomicTypes,omitempty"`
	CommutativeParents map[string]CommutativeParent  `yaml:"commutativeParents,omitempty"`
	FlattenedTypes     map[string]bool               `yaml:"flattenedTypes,omitempty"`
	ExtraCommentTypes  map[string]bool               `yaml:"extraCommentTypes,omitempty"`
}

// ApplyOverride loads a YAML override file and merges it into a copy of the
// registry's profile for OverrideFile.Language, with override values taking
// precedence over the built-in defaults. The registry itself is left
// untouched; callers get back a merged copy to use for one merge
// invocation.
func ApplyOverride(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var ovr OverrideFile
	if err := yaml.Unmarshal(data, &ovr); err != nil {
		return nil, err
	}

	base, ok := Registry[ovr.Language]
	if !ok {
		return nil, &UnknownLanguageError{Language: ovr.Language}
	}

	merged := *base
	merged.AtomicTypes = cloneBoolMap(base.AtomicTypes)
	merged.CommutativeParents = cloneCommutativeMap(base.CommutativeParents)
	merged.FlattenedTypes = cloneBoolMap(base.FlattenedTypes)
	merged.ExtraCommentTypes = cloneBoolMap(base.ExtraCommentTypes)

	if err := mergo.Merge(&merged.AtomicTypes, ovr.AtomicTypes, mergo.WithOverride); err != nil {
		return nil, err
	}
	if err := mergo.Merge(&merged.CommutativeParents, ovr.CommutativeParents, mergo.WithOverride); err != nil {
		return nil, err
	}
	if err := mergo.Merge(&merged.FlattenedTypes, ovr.FlattenedTypes, mergo.WithOverride); err != nil {
		return nil, err
	}
	if err := mergo.Merge(&merged.ExtraCommentTypes, ovr.ExtraCommentTypes, mergo.WithOverride); err != nil {
		return nil, err
	}

	return &merged, nil
}

// UnknownLanguageError is returned when an override names a language that
// has no built-in profile to merge into.
type UnknownLanguageError struct {
	Language string
}

func (e *UnknownLanguageError) Error() string {
	return "langprofile: unknown language in override: " + e.Language
}

func cloneBoolMap(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneCommutativeMap(m map[string]CommutativeParent) map[string]CommutativeParent {
	out := make(map[string]CommutativeParent, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
