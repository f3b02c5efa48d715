package config

import (
	"encoding/json"
	"os"
	"path"
	"path/filepath"
	"regexp"

	"github.com/BurntSushi/toml"
)

// manifest names a project file and how to read the project name from it.
type manifest struct {
	file string
	name func(data []byte) string
}

// manifests are consulted in order; the first non-empty name wins.
var manifests = []manifest{
	{"go.mod", nameFromGoMod},
	{"package.json", nameFromPackageJSON},
	{"Cargo.toml", nameFromCargo},
	{"pyproject.toml", nameFromPyproject},
}

// DetectProjectName infers a project name from the manifests in dir
// (go.mod, package.json, Cargo.toml, pyproject.toml). Without a usable
// manifest it returns the directory's base name.
func DetectProjectName(dir string) string {
	for _, m := range manifests {
		data, err := os.ReadFile(filepath.Join(dir, m.file))
		if err != nil {
			continue
		}
		if name := m.name(data); name != "" {
			return name
		}
	}
	return filepath.Base(dir)
}

var (
	moduleLineRe   = regexp.MustCompile(`(?m)^\s*module\s+"?([^"\s]+)"?`)
	majorVersionRe = regexp.MustCompile(`^v[0-9]+$`)
)

// nameFromGoMod returns the last meaningful element of the module path;
// a trailing major-version element such as /v2 is skipped.
func nameFromGoMod(data []byte) string {
	m := moduleLineRe.FindSubmatch(data)
	if m == nil {
		return ""
	}
	mod := string(m[1])
	base := path.Base(mod)
	if majorVersionRe.MatchString(base) && path.Dir(mod) != "." {
		base = path.Base(path.Dir(mod))
	}
	return base
}

func nameFromPackageJSON(data []byte) string {
	var p struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return ""
	}
	return p.Name
}

func nameFromCargo(data []byte) string {
	var c struct {
		Package struct {
			Name string `toml:"name"`
		} `toml:"package"`
	}
	if err := toml.Unmarshal(data, &c); err != nil {
		return ""
	}
	return c.Package.Name
}

// nameFromPyproject reads [project].name (PEP 621), then [tool.poetry].name.
func nameFromPyproject(data []byte) string {
	var p struct {
		Project struct {
			Name string `toml:"name"`
		} `toml:"project"`
		Tool struct {
			Poetry struct {
				Name string `toml:"name"`
			} `toml:"poetry"`
		} `toml:"tool"`
	}
	if err := toml.Unmarshal(data, &p); err != nil {
		return ""
	}
	if p.Project.Name != "" {
		return p.Project.Name
	}
	return p.Tool.Poetry.Name
}
