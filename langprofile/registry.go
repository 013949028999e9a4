package langprofile

import (
	"path/filepath"
	"strings"
)

// Registry maps a language name to its profile.
var Registry = map[string]*Profile{
	"javascript": javascriptProfile,
	"typescript": javascriptProfile,
	"python":     pythonProfile,
	"json":       jsonProfile,
	"yaml":       yamlProfile,
	"go":         goProfile,
	"css":        cssProfile,
}

var javascriptProfile = &Profile{
	Name:       "javascript",
	Extensions: []string{".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx"},
	AtomicTypes: map[string]bool{
		"string": true, "template_string": true, "regex": true, "comment": true,
	},
	CommutativeParents: map[string]CommutativeParent{
		"named_imports": {Delimiter: ",", Separator: ", "},
		"object": {
			Delimiter: ",", Separator: ",\n",
			Groups:          map[string][]string{"props": {"pair", "shorthand_property_identifier"}},
			GroupSeparators: map[string]string{"props": ",\n"},
		},
		"statement_block": {Delimiter: "", Separator: "\n"},
	},
	SignatureDefs: map[string]SignaturePath{
		"pair":                          {FieldStep{Name: "key"}},
		"shorthand_property_identifier": {},
		"import_specifier":              {ChildOfTypeStep{Type: "identifier"}},
		"method_definition":             {FieldStep{Name: "name"}},
	},
	FlattenedTypes: map[string]bool{
		"binary_expression": true,
	},
	ExtraCommentTypes: map[string]bool{
		"comment": true,
	},
}

var pythonProfile = &Profile{
	Name:       "python",
	Extensions: []string{".py", ".pyi"},
	AtomicTypes: map[string]bool{
		"string": true, "comment": true,
	},
	CommutativeParents: map[string]CommutativeParent{
		"block": {Delimiter: "", Separator: "\n"},
	},
	SignatureDefs: map[string]SignaturePath{
		"function_definition": {FieldStep{Name: "name"}},
		"class_definition":    {FieldStep{Name: "name"}},
		"import_from_statement": {ChildOfTypeStep{Type: "dotted_name"}},
	},
	FlattenedTypes: map[string]bool{
		"boolean_operator": true,
		"binary_operator":  true,
	},
	ExtraCommentTypes: map[string]bool{
		"comment": true,
	},
}

var jsonProfile = &Profile{
	Name:       "json",
	Extensions: []string{".json"},
	AtomicTypes: map[string]bool{
		"string": true, "number": true,
	},
	CommutativeParents: map[string]CommutativeParent{
		"object": {Delimiter: ",", Separator: ",\n"},
		"array":  {Delimiter: ",", Separator: ",\n"},
	},
	SignatureDefs: map[string]SignaturePath{
		"pair": {FieldStep{Name: "key"}},
	},
}

var yamlProfile = &Profile{
	Name:       "yaml",
	Extensions: []string{".yaml", ".yml"},
	AtomicTypes: map[string]bool{
		"string_scalar": true, "comment": true,
	},
	CommutativeParents: map[string]CommutativeParent{
		"block_mapping": {Delimiter: "", Separator: "\n"},
	},
	SignatureDefs: map[string]SignaturePath{
		"block_mapping_pair": {FieldStep{Name: "key"}},
	},
	ExtraCommentTypes: map[string]bool{
		"comment": true,
	},
}

var goProfile = &Profile{
	Name:       "go",
	Extensions: []string{".go"},
	FileNames:  []string{"go.mod", "go.sum"},
	AtomicTypes: map[string]bool{
		"interpreted_string_literal": true, "raw_string_literal": true, "comment": true,
	},
	CommutativeParents: map[string]CommutativeParent{
		"import_spec_list": {Delimiter: "", Separator: "\n"},
	},
	SignatureDefs: map[string]SignaturePath{
		"import_spec":    {ChildOfTypeStep{Type: "interpreted_string_literal"}},
		"method_declaration": {FieldStep{Name: "name"}},
		"function_declaration": {FieldStep{Name: "name"}},
	},
	FlattenedTypes: map[string]bool{
		"binary_expression": true,
	},
	ExtraCommentTypes: map[string]bool{
		"comment": true,
	},
}

var cssProfile = &Profile{
	Name:       "css",
	Extensions: []string{".css", ".scss"},
	AtomicTypes: map[string]bool{
		"string_value": true, "comment": true,
	},
	CommutativeParents: map[string]CommutativeParent{
		"block": {Delimiter: ";", Separator: ";\n"},
	},
	SignatureDefs: map[string]SignaturePath{
		"declaration": {FieldStep{Name: "name"}},
	},
	ExtraCommentTypes: map[string]bool{
		"comment": true,
	},
}

// Detect finds the profile for a file, by exact file name first (so names
// like "go.mod" or "Dockerfile" resolve even without an extension), then by
// extension, mirroring spec.md §4.1. doublestar is used so FileNames can
// also carry glob patterns (e.g. "*.gyp") without a second matching code
// path.
func Detect(fileName string) (*Profile, bool) {
	base := filepath.Base(fileName)
	for _, p := range Registry {
		for _, fn := range p.FileNames {
			if matched, _ := doublestarMatch(fn, base); matched {
				return p, true
			}
		}
	}
	ext := strings.ToLower(filepath.Ext(fileName))
	for _, p := range Registry {
		for _, e := range p.Extensions {
			if e == ext {
				return p, true
			}
		}
	}
	return nil, false
}
