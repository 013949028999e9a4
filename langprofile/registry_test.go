package langprofile

import "testing"

func TestDetectByExtension(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		wantLang string
		wantOK   bool
	}{
		{name: "javascript", file: "src/app.js", wantLang: "javascript", wantOK: true},
		{name: "typescript", file: "src/app.tsx", wantLang: "javascript", wantOK: true},
		{name: "python", file: "scripts/run.py", wantLang: "python", wantOK: true},
		{name: "json", file: "package.json", wantLang: "json", wantOK: true},
		{name: "exact file name wins over no extension", file: "go.mod", wantLang: "go", wantOK: true},
		{name: "unknown", file: "README", wantLang: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := Detect(tt.file)
			if ok != tt.wantOK {
				t.Fatalf("Detect(%q) ok = %v, want %v", tt.file, ok, tt.wantOK)
			}
			if ok && p.Name != tt.wantLang {
				t.Errorf("Detect(%q) = %q, want %q", tt.file, p.Name, tt.wantLang)
			}
		})
	}
}

func TestCommutativeParentGroupOf(t *testing.T) {
	obj := javascriptProfile.CommutativeParents["object"]
	if g := obj.GroupOf("pair"); g != "props" {
		t.Errorf("GroupOf(pair) = %q, want props", g)
	}
	if g := obj.GroupOf("comment"); g != "" {
		t.Errorf("GroupOf(comment) = %q, want empty", g)
	}
}
