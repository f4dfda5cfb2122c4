package prefabs

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

//go:embed *.yaml
var PrefabsFS embed.FS

// Dir is the on-disk prefab directory that overrides the embedded copies.
var Dir = "prefabs"

// Load reads a prefab spec, preferring the on-disk copy so edits are picked up
// without rebuilding.
func Load(name string) ([]byte, error) {
	return readPrefab(PrefabsFS, cleanPrefabPath(name))
}

// LoadScript reads a tengo script from prefabs/scripts.
func LoadScript(name string) ([]byte, error) {
	return readPrefab(ScriptsFS, cleanScriptPath(name))
}

func readPrefab(fsys fs.FS, clean string) ([]byte, error) {
	if data, err := os.ReadFile(diskPrefabPath(clean)); err == nil {
		return data, nil
	}
	return fs.ReadFile(fsys, clean)
}

func cleanPrefabPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, Dir+"/"); ok {
		return after
	}
	return s
}

func cleanScriptPath(path string) string {
	if path == "" {
		return ""
	}
	s := cleanPrefabPath(path)
	s = strings.TrimPrefix(s, "scripts/")
	return "scripts/" + s
}

func diskPrefabPath(clean string) string {
	return filepath.Join(Dir, filepath.FromSlash(clean))
}
