package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/kraitsura/termfolio/pkg/model"
)

// DefaultDocumentName is looked up when no document path is given.
const DefaultDocumentName = "termfolio.yml"

// Result is a loaded document plus the problems that were skipped over.
type Result struct {
	Document *model.Document
	Path     string
	Warnings []string
}

// LoadDocument reads termfolio.yml from the given directory.
func LoadDocument(dir string) (*Result, error) {
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current working directory: %w", err)
		}
	}
	return LoadDocumentFromFile(filepath.Join(dir, DefaultDocumentName))
}

// LoadDocumentFromFile reads a document from a specific YAML file path.
func LoadDocumentFromFile(path string) (*Result, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("no document found at %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	res, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	res.Path = path
	return res, nil
}

// Parse decodes and validates a YAML document. Panels and references that
// fail validation are skipped with a warning; a document without any usable
// panel is an error.
func Parse(data []byte) (*Result, error) {
	var doc model.Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("document is empty")
		}
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	res := &Result{Document: &doc}
	doc.Panels = validPanels(doc.Panels, res)
	for i := range doc.Panels {
		doc.Panels[i].ExtractAbbrs()
	}
	doc.References = validReferences(doc.References, res)
	if len(doc.Panels) == 0 {
		return nil, fmt.Errorf("document has no valid panels")
	}
	if _, ok := doc.Panel(model.RefsPanelID); !ok && len(doc.References) > 0 {
		res.warn("references are defined but there is no %q panel to show them", model.RefsPanelID)
	}
	return res, nil
}

func validPanels(panels []model.PanelSpec, res *Result) []model.PanelSpec {
	seen := make(map[string]bool, len(panels))
	out := panels[:0]
	for i := range panels {
		p := panels[i]
		if err := p.Validate(); err != nil {
			res.warn("skipping panel %d: %v", i+1, err)
			continue
		}
		if seen[p.ID] {
			res.warn("skipping panel %d: duplicate id %q", i+1, p.ID)
			continue
		}
		seen[p.ID] = true
		out = append(out, p)
	}
	return out
}

func validReferences(refs []model.Reference, res *Result) []model.Reference {
	seen := make(map[int]bool, len(refs))
	out := refs[:0]
	for _, r := range refs {
		if r.Number <= 0 {
			res.warn("skipping reference with number %d: numbers start at 1", r.Number)
			continue
		}
		if seen[r.Number] {
			res.warn("skipping duplicate reference %d", r.Number)
			continue
		}
		seen[r.Number] = true
		out = append(out, r)
	}
	return out
}

func (r *Result) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}
