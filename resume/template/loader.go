package template

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"jobapp/internal/shared/telemetry"
)

//go:embed defaults/*.md
var defaults embed.FS

// Default returns the built-in template for name.
func Default(name string) (string, error) {
	data, err := defaults.ReadFile("defaults/" + name)
	if err != nil {
		return "", fmt.Errorf("no default template %q: %w", name, err)
	}
	return string(data), nil
}

// Loader reads templates from a directory, falling back to the built-in
// defaults when a file is missing.
type Loader struct {
	Dir string
}

func NewLoader(dir string) *Loader {
	return &Loader{Dir: dir}
}

// Load returns the template text for name. A missing file yields the default
// and a warning; any other read error is returned.
func (l *Loader) Load(name string) (string, error) {
	path := filepath.Join(l.Dir, name)
	data, err := os.ReadFile(path)
	if err == nil {
		return string(data), nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("read template %s: %w", path, err)
	}
	telemetry.Warn("template.default_used", map[string]any{"template": name, "path": path})
	return Default(name)
}

// Present reports which of the named templates exist on disk.
func (l *Loader) Present(names ...string) map[string]bool {
	out := make(map[string]bool, len(names))
	for _, name := range names {
		_, err := os.Stat(filepath.Join(l.Dir, name))
		out[name] = err == nil
	}
	return out
}

// WriteDefaults creates the directory and writes every missing default
// template. Existing files are left untouched. It returns the paths written.
func (l *Loader) WriteDefaults() ([]string, error) {
	if err := os.MkdirAll(l.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create templates dir: %w", err)
	}
	var written []string
	for _, name := range []string{ResumeFile, CoverLetterFile} {
		path := filepath.Join(l.Dir, name)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		text, err := Default(name)
		if err != nil {
			return written, err
		}
		if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
			return written, fmt.Errorf("write template %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}
