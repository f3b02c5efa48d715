package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDetectProjectName(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  string // empty: the temp dir's base name
	}{
		{name: "no manifest", files: nil},
		{name: "go module", files: map[string]string{"go.mod": "module github.com/acme/spinner\n\ngo 1.24\n"}, want: "spinner"},
		{name: "go module with major version", files: map[string]string{"go.mod": "module github.com/acme/spinner/v3\n"}, want: "spinner"},
		{name: "quoted go module", files: map[string]string{"go.mod": "// comment\nmodule \"example.com/quoted\"\n"}, want: "quoted"},
		{name: "single-element module", files: map[string]string{"go.mod": "module v2\n"}, want: "v2"},
		{name: "go.mod without module line", files: map[string]string{"go.mod": "go 1.24\n"}},
		{name: "node package", files: map[string]string{"package.json": `{"name": "web-spinner", "version": "1.0.0"}`}, want: "web-spinner"},
		{name: "broken package.json", files: map[string]string{"package.json": `{not json`}},
		{name: "cargo crate", files: map[string]string{"Cargo.toml": "[package]\nname = \"spin-rs\"\n"}, want: "spin-rs"},
		{name: "pep 621 project", files: map[string]string{"pyproject.toml": "[project]\nname = \"spinpy\"\n"}, want: "spinpy"},
		{name: "poetry project", files: map[string]string{"pyproject.toml": "[tool.poetry]\nname = \"poetic\"\n"}, want: "poetic"},
		{
			name: "go.mod takes precedence",
			files: map[string]string{
				"go.mod":       "module example.com/first\n",
				"package.json": `{"name": "second"}`,
				"Cargo.toml":   "[package]\nname = \"third\"\n",
			},
			want: "first",
		},
		{
			name: "unnamed package.json falls through to Cargo.toml",
			files: map[string]string{
				"package.json": `{"private": true}`,
				"Cargo.toml":   "[package]\nname = \"crate\"\n",
			},
			want: "crate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, content := range tt.files {
				if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
					t.Fatal(err)
				}
			}
			want := tt.want
			if want == "" {
				want = filepath.Base(dir)
			}
			if got := DetectProjectName(dir); got != want {
				t.Errorf("DetectProjectName() = %q, want %q", got, want)
			}
		})
	}
}
