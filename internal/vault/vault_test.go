package vault

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `{
  "nodes": [
    {"id": "a", "title": "Alpha", "path": "notes/alpha.md", "type": "note",
     "fileSize": 1024, "connections": ["b"], "created": "2024-03-01T12:00:00Z"},
    {"id": "b", "title": "Beta", "path": "beta.md",
     "fileSize": 2048, "created": "2024-04-01T12:00:00Z"},
    {"id": "c", "title": "Gamma", "path": "img/gamma.png", "type": "image",
     "created": "2024-05-01T12:00:00Z"}
  ],
  "links": [
    {"source": "a", "target": "b"},
    {"source": "c", "target": "b"}
  ]
}`

func TestParseSample(t *testing.T) {
	nodes, err := Parse([]byte(sample))
	require.NoError(t, err)
	require.Len(t, nodes, 3)

	assert.Equal(t, "a", nodes[0].ID)
	assert.Equal(t, int64(1024), nodes[0].FileSize)
	assert.Equal(t, 2024, nodes[0].Created.Year())
	// Explicit connections win over the link list.
	assert.Equal(t, []string{"b"}, nodes[0].Connections)

	// Missing type defaults to note; empty connections fold in links from
	// both directions.
	assert.Equal(t, "note", nodes[1].Type)
	assert.ElementsMatch(t, []string{"a", "c"}, nodes[1].Connections)

	assert.Equal(t, "image", nodes[2].Type)
	assert.Equal(t, []string{"b"}, nodes[2].Connections)
}

func TestParseRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"not json":      `{"nodes": [`,
		"missing id":    `{"nodes": [{"title": "x", "created": "2024-01-01T00:00:00Z"}]}`,
		"bad timestamp": `{"nodes": [{"id": "a", "created": "yesterday"}]}`,
	}
	for name, src := range cases {
		_, err := Parse([]byte(src))
		assert.Error(t, err, name)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.json")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	nodes, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, nodes, 3)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
