package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Converter defaults.
const (
	DefaultPandoc = "pandoc"
	DefaultEngine = "xelatex"
	DefaultMargin = "0.75in"
)

// Engines lists the LaTeX engines pandoc can use, in order of preference.
var Engines = []string{"xelatex", "pdflatex", "lualatex"}

// Runner executes a command and returns its combined output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.Bytes(), err
}

// Pandoc converts markdown files to PDF with an external pandoc binary.
type Pandoc struct {
	Binary string
	Engine string
	Margin string

	lookPath func(string) (string, error)
	run      Runner
}

func NewPandoc(binary, engine, margin string) *Pandoc {
	if binary == "" {
		binary = DefaultPandoc
	}
	if engine == "" {
		engine = DefaultEngine
	}
	if margin == "" {
		margin = DefaultMargin
	}
	return &Pandoc{
		Binary:   binary,
		Engine:   engine,
		Margin:   margin,
		lookPath: exec.LookPath,
		run:      execRunner,
	}
}

// Available reports whether the pandoc binary is on PATH.
func (p *Pandoc) Available() bool {
	_, err := p.lookPath(p.Binary)
	return err == nil
}

// InstalledEngines returns the LaTeX engines found on PATH.
func (p *Pandoc) InstalledEngines() []string {
	var found []string
	for _, engine := range Engines {
		if _, err := p.lookPath(engine); err == nil {
			found = append(found, engine)
		}
	}
	return found
}

// Args builds the pandoc command line for one conversion.
func (p *Pandoc) Args(in, out string) []string {
	return []string{
		in,
		"-o", out,
		"--pdf-engine=" + p.Engine,
		"--variable", "geometry=margin=" + p.Margin,
	}
}

// Convert renders in to out. It blocks until the child process exits.
func (p *Pandoc) Convert(ctx context.Context, in, out string) error {
	output, err := p.run(ctx, p.Binary, p.Args(in, out)...)
	if err != nil {
		msg := strings.TrimSpace(string(output))
		if msg == "" {
			return fmt.Errorf("pandoc %s: %w", filepath.Base(in), err)
		}
		return fmt.Errorf("pandoc %s: %w: %s", filepath.Base(in), err, msg)
	}
	return nil
}

// PDFPath returns the PDF path that sits next to a markdown file.
func PDFPath(mdPath string) string {
	return strings.TrimSuffix(mdPath, filepath.Ext(mdPath)) + ".pdf"
}
