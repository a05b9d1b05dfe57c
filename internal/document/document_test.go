package document

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmylchreest/contrastcheck/internal/wcag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

const sampleJSON = `{
  "name": "Marketing site",
  "currentPage": "page-2",
  "pages": [
    {"id": "page-1", "name": "Drafts", "children": []},
    {
      "id": "page-2",
      "name": "Final",
      "selection": ["hero"],
      "children": [
        {
          "id": "hero",
          "type": "frame",
          "fills": [{"type": "SOLID", "color": "#ffffff"}],
          "children": [
            {
              "id": "title",
              "type": "TEXT",
              "characters": "Hello",
              "fontSize": 32,
              "fontWeight": "Bold",
              "fills": [{"type": "SOLID", "color": {"r": 0, "g": 0, "b": 0}, "opacity": 0.5}]
            },
            {
              "id": "caption",
              "type": "TEXT",
              "visible": false,
              "characters": "hidden",
              "fontSize": "mixed",
              "fills": [
                {"type": "GRADIENT_LINEAR", "gradientStops": [
                  {"color": "#ff000080", "position": 0},
                  {"color": "navy", "position": 1}
                ]}
              ]
            }
          ]
        }
      ]
    }
  ]
}`

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func assertSample(t *testing.T, doc *Document) {
	t.Helper()

	assert.Equal(t, "Marketing site", doc.Name)
	require.Len(t, doc.Pages, 2)
	assert.Equal(t, "page-2", doc.CurrentPage().ID)

	sel := doc.Selection()
	require.Len(t, sel, 1)
	assert.Equal(t, "hero", sel[0].ID)
	assert.Equal(t, TypeFrame, sel[0].Type)

	title, ok := doc.Find("title")
	require.True(t, ok)
	assert.Equal(t, "hero", title.Parent().ID)
	assert.Equal(t, wcag.Known(32), title.FontSize)
	assert.Equal(t, wcag.Known(700), title.FontWeight)
	require.Len(t, title.Fills, 1)
	assert.Equal(t, 0.5, title.Fills[0].Opacity)
	assert.True(t, title.Fills[0].Visible)
	assert.Equal(t, 1.0, title.Fills[0].Color.A)

	caption, ok := doc.Find("caption")
	require.True(t, ok)
	assert.False(t, caption.Visible)
	assert.Equal(t, wcag.Mixed, caption.FontSize)
	assert.Equal(t, wcag.Metric{}, caption.FontWeight)
	require.Len(t, caption.Fills[0].GradientStops, 2)
	assert.True(t, caption.Fills[0].Type.IsGradient())
	assert.InDelta(t, 128.0/255.0, caption.Fills[0].GradientStops[0].Color.A, 1e-9)
}

func TestLoadJSON(t *testing.T) {
	doc, err := Load(writeFile(t, "site.json", []byte(sampleJSON)), 0)
	require.NoError(t, err)
	assertSample(t, doc)
}

func TestLoadYAML(t *testing.T) {
	yamlDoc := `
name: Marketing site
currentPage: page-2
pages:
  - id: page-1
    name: Drafts
  - id: page-2
    name: Final
    selection: [hero]
    children:
      - id: hero
        type: frame
        fills:
          - {type: SOLID, color: "#ffffff"}
        children:
          - id: title
            type: TEXT
            characters: Hello
            fontSize: 32
            fontWeight: Bold
            fills:
              - type: SOLID
                color: {r: 0, g: 0, b: 0}
                opacity: 0.5
          - id: caption
            type: TEXT
            visible: false
            characters: hidden
            fontSize: mixed
            fills:
              - type: GRADIENT_LINEAR
                gradientStops:
                  - {color: "#ff000080", position: 0}
                  - {color: navy, position: 1}
`
	doc, err := Load(writeFile(t, "site.yml", []byte(yamlDoc)), 0)
	require.NoError(t, err)
	assertSample(t, doc)
}

func TestLoadXZ(t *testing.T) {
	var buf strings.Builder
	w, err := xz.NewWriter(&buf)
	require.NoError(t, err)
	_, err = w.Write([]byte(sampleJSON))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	doc, err := Load(writeFile(t, "site.json.xz", []byte(buf.String())), 0)
	require.NoError(t, err)
	assertSample(t, doc)
}

func TestLoadGzip(t *testing.T) {
	var buf strings.Builder
	w := gzip.NewWriter(&buf)
	_, err := w.Write([]byte(sampleJSON))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	doc, err := Load(writeFile(t, "site.JSON.gz", []byte(buf.String())), 0)
	require.NoError(t, err)
	assertSample(t, doc)
}

func TestDecodeUnnamedPageKeepsSelection(t *testing.T) {
	doc, err := Decode(strings.NewReader(`{"pages": [{"children": [{"id": "t", "type": "TEXT"}, {"id": "u", "type": "TEXT"}], "selection": ["t"]}]}`), FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, "0:0", doc.CurrentPage().ID)
	sel := doc.Selection()
	require.Len(t, sel, 1)
	assert.Equal(t, "t", sel[0].ID)
}

func TestDecodeFontSizeIgnoresWeightNames(t *testing.T) {
	doc, err := Decode(strings.NewReader(`{"pages": [{"id": "p", "children": [
		{"id": "named", "type": "TEXT", "fontSize": "Bold", "fontWeight": "Bold"},
		{"id": "numeric", "type": "TEXT", "fontSize": "18", "fontWeight": "600"},
		{"id": "mixed", "type": "TEXT", "fontSize": "mixed", "fontWeight": "mixed"}
	]}]}`), FormatJSON)
	require.NoError(t, err)

	tests := []struct {
		id         string
		wantSize   wcag.Metric
		wantWeight wcag.Metric
	}{
		{"named", wcag.Metric{}, wcag.Known(700)},
		{"numeric", wcag.Known(18), wcag.Known(600)},
		{"mixed", wcag.Mixed, wcag.Mixed},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			n, ok := doc.Find(tt.id)
			require.True(t, ok)
			assert.Equal(t, tt.wantSize, n.FontSize)
			assert.Equal(t, tt.wantWeight, n.FontWeight)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		errPart string
	}{
		{name: "unsupported extension", file: "doc.txt", content: "{}", errPart: "unsupported document format"},
		{name: "no pages", file: "doc.json", content: `{"pages": []}`, errPart: "no pages"},
		{name: "missing node type", file: "doc.json", content: `{"pages": [{"id": "p", "children": [{"id": "x"}]}]}`, errPart: "has no type"},
		{name: "duplicate ids", file: "doc.json", content: `{"pages": [{"id": "p", "children": [{"id": "x", "type": "TEXT"}, {"id": "x", "type": "TEXT"}]}]}`, errPart: "duplicate node id"},
		{name: "bad colour", file: "doc.json", content: `{"pages": [{"id": "p", "children": [{"id": "x", "type": "TEXT", "fills": [{"type": "SOLID", "color": "#nothex"}]}]}]}`, errPart: "invalid colour"},
		{name: "unknown page", file: "doc.json", content: `{"currentPage": "nope", "pages": [{"id": "p"}]}`, errPart: "not found"},
		{name: "paint without type", file: "doc.json", content: `{"pages": [{"id": "p", "children": [{"id": "x", "type": "TEXT", "fills": [{}]}]}]}`, errPart: "paint has no type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, []byte(tt.content)), 0)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errPart)
		})
	}
}

func TestLoadRejectsOversizedDocument(t *testing.T) {
	_, err := Load(writeFile(t, "doc.json", []byte(sampleJSON)), 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "limit")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSelection(t *testing.T) {
	t1 := Text("t1", "one")
	t2 := Text("t2", "two")
	other := Text("t3", "elsewhere")
	doc, err := New("doc",
		Page("p1", Frame("f1", nil, t1, t2)),
		Page("p2", other),
	)
	require.NoError(t, err)

	require.NoError(t, doc.SelectIDs([]string{"t1", "t2"}))
	assert.Equal(t, []string{"t1", "t2"}, ids(doc.Selection()))

	// Nodes on another page cannot be selected and the selection is kept.
	err = doc.SetSelection([]*Node{other})
	require.ErrorIs(t, err, ErrNotOnCurrentPage)
	assert.Equal(t, []string{"t1", "t2"}, ids(doc.Selection()))

	// Removed nodes drop out of the selection.
	t2.Remove()
	assert.True(t, t2.Removed())
	assert.Equal(t, []string{"t1"}, ids(doc.Selection()))
	_, ok := doc.Find("t2")
	assert.False(t, ok)

	require.Error(t, doc.SetSelection([]*Node{t2}))

	require.NoError(t, doc.SelectAll())
	assert.Equal(t, []string{"f1"}, ids(doc.Selection()))

	require.NoError(t, doc.SetCurrentPage("p2"))
	assert.Empty(t, doc.Selection())
	require.NoError(t, doc.SetSelection([]*Node{other}))

	doc.Close()
	assert.True(t, t1.Removed())
	assert.Empty(t, doc.Selection())
}

func TestNewRejectsNonPageRoots(t *testing.T) {
	_, err := New("doc", Frame("f", nil))
	require.Error(t, err)
}

func TestRemoveDetachesFromParent(t *testing.T) {
	child := Text("c", "x")
	parent := Frame("p", nil, child, Text("d", "y"))

	child.Remove()

	assert.Nil(t, child.Parent())
	assert.Equal(t, []string{"d"}, ids(parent.Children))
}
