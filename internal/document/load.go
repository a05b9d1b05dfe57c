package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmylchreest/contrastcheck/internal/colour"
	"github.com/jmylchreest/contrastcheck/internal/compression"
	"github.com/jmylchreest/contrastcheck/internal/security"
	"github.com/jmylchreest/contrastcheck/internal/wcag"
	"gopkg.in/yaml.v3"
)

// DefaultMaxBytes caps the decoded size of a document.
const DefaultMaxBytes = 64 * 1024 * 1024

// Format is the serialisation of a document file.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// documentFile is the on-disk shape of a document export.
type documentFile struct {
	Name        string     `json:"name"`
	CurrentPage string     `json:"currentPage"`
	Pages       []nodeFile `json:"pages"`
}

type nodeFile struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Type       string      `json:"type"`
	Visible    *bool       `json:"visible"`
	Fills      []paintFile `json:"fills"`
	Children   []nodeFile  `json:"children"`
	Characters string      `json:"characters"`
	FontSize   sizeFile    `json:"fontSize"`
	FontWeight wcag.Metric `json:"fontWeight"`
	// Selection is only read on pages.
	Selection []string `json:"selection"`
}

// sizeFile decodes a font size without the named weights a Metric accepts.
type sizeFile wcag.Metric

func (s *sizeFile) UnmarshalJSON(data []byte) error {
	m, err := wcag.DecodeSize(data)
	if err != nil {
		return err
	}
	*s = sizeFile(m)
	return nil
}

type paintFile struct {
	Type          string             `json:"type"`
	Visible       *bool              `json:"visible"`
	Opacity       *float64           `json:"opacity"`
	Color         *colour.Normalised `json:"color"`
	GradientStops []stopFile         `json:"gradientStops"`
}

type stopFile struct {
	Color    colour.Normalised `json:"color"`
	Position float64           `json:"position"`
}

// DetectFormat infers the format and compression from a file name.
func DetectFormat(path string) (Format, compression.Kind, error) {
	kind, name := compression.Detect(strings.ToLower(filepath.Base(path)))

	switch filepath.Ext(name) {
	case ".json":
		return FormatJSON, kind, nil
	case ".yaml", ".yml":
		return FormatYAML, kind, nil
	default:
		return "", kind, fmt.Errorf("unsupported document format: %s (expected .json, .yaml or .yml, optionally %s)",
			path, strings.Join(compression.Extensions(), ", "))
	}
}

// Load reads a document from a .json, .yaml or .yml file, optionally compressed.
// maxBytes limits the decoded size; zero uses DefaultMaxBytes.
func Load(path string, maxBytes int64) (*Document, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	format, kind, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	if err := security.ValidateDocumentPath(path, maxBytes); err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Clean(path)) // #nosec G304 - User-specified document, intended to be read
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	defer f.Close()

	r, err := compression.NewReader(f, kind)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	doc, err := Decode(security.NewLimitedReader(r, maxBytes), format)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	if doc.Name == "" {
		doc.Name = filepath.Base(path)
	}
	return doc, nil
}

// Decode parses a document from r.
func Decode(r io.Reader, format Format) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	if format == FormatYAML {
		// Round-trip through JSON so both formats share one set of decoders.
		var generic any
		if err := yaml.Unmarshal(data, &generic); err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
		data, err = json.Marshal(generic)
		if err != nil {
			return nil, fmt.Errorf("YAML document is not representable as JSON: %w", err)
		}
	}

	// Unknown fields are ignored so raw exports with extra node properties still load.
	var file documentFile
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&file); err != nil {
		return nil, fmt.Errorf("invalid document: %w", err)
	}

	return file.build()
}

func (f documentFile) build() (*Document, error) {
	if len(f.Pages) == 0 {
		return nil, fmt.Errorf("document has no pages")
	}

	pages := make([]*Node, 0, len(f.Pages))
	for i := range f.Pages {
		pf := &f.Pages[i]
		if pf.Type == "" {
			pf.Type = string(TypePage)
		}
		// The default id is read back below when restoring the saved selection.
		if pf.ID == "" {
			pf.ID = fmt.Sprintf("%d:0", i)
		}
		page, err := pf.build(fmt.Sprintf("%d", i))
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}

	doc, err := New(f.Name, pages...)
	if err != nil {
		return nil, err
	}

	if f.CurrentPage != "" {
		if err := doc.SetCurrentPage(f.CurrentPage); err != nil {
			return nil, err
		}
	}

	for _, pf := range f.Pages {
		if len(pf.Selection) == 0 || pf.ID != doc.CurrentPage().ID {
			continue
		}
		if err := doc.SelectIDs(pf.Selection); err != nil {
			return nil, fmt.Errorf("invalid selection on page %q: %w", pf.ID, err)
		}
	}

	return doc, nil
}

func (nf nodeFile) build(path string) (*Node, error) {
	if nf.Type == "" {
		return nil, fmt.Errorf("node %q at %s has no type", nf.ID, path)
	}
	if nf.ID == "" {
		nf.ID = path
	}

	n := NewNode(nf.ID, NodeType(strings.ToUpper(nf.Type)))
	n.Name = nf.Name
	if nf.Visible != nil {
		n.Visible = *nf.Visible
	}
	n.Characters = nf.Characters
	n.FontSize = wcag.Metric(nf.FontSize)
	n.FontWeight = nf.FontWeight

	for i, pf := range nf.Fills {
		p, err := pf.build()
		if err != nil {
			return nil, fmt.Errorf("node %q fill %d: %w", nf.ID, i, err)
		}
		n.Fills = append(n.Fills, p)
	}

	for i, cf := range nf.Children {
		child, err := cf.build(fmt.Sprintf("%s:%d", path, i))
		if err != nil {
			return nil, err
		}
		n.AppendChild(child)
	}

	return n, nil
}

func (pf paintFile) build() (Paint, error) {
	if pf.Type == "" {
		return Paint{}, fmt.Errorf("paint has no type")
	}

	p := Paint{
		Type:    PaintType(strings.ToUpper(pf.Type)),
		Visible: true,
		Opacity: 1,
		Color:   pf.Color,
	}
	if pf.Visible != nil {
		p.Visible = *pf.Visible
	}
	if pf.Opacity != nil {
		p.Opacity = *pf.Opacity
	}
	for _, s := range pf.GradientStops {
		p.GradientStops = append(p.GradientStops, GradientStop(s))
	}
	return p, nil
}
