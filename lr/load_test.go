package lr

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const anbnJSON = `{
  "Variables": ["S"],
  "Terminals": ["a", "b"],
  "Productions": [
    {"head": "S", "body": ["a", "S", "b"]},
    {"head": "S", "body": []}
  ],
  "Start": "S"
}`

func TestLoadJSON(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfgkit.lr")
	defer teardown()
	//
	g, err := LoadJSON(strings.NewReader(anbnJSON), "AnBn")
	require.NoError(t, err)
	assert.Equal(t, "S", g.Start().Name)
	assert.Equal(t, 2, g.ProductionCount())
	assert.Equal(t, "a S b", g.Rule(1).Body())
	assert.True(t, g.Rule(2).IsEps())
}

func TestLoadSplitsConcatenatedTokens(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfgkit.lr")
	defer teardown()
	//
	js := `{"Variables":["S","A"],"Terminals":["a"],
	        "Productions":[{"head":"S","body":["AA"]},{"head":"A","body":["a"]}],
	        "Start":"S"}`
	g, err := LoadJSON(strings.NewReader(js), "AA")
	require.NoError(t, err)
	assert.Equal(t, "A A", g.Rule(1).Body())
}

func TestLoadErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfgkit.lr")
	defer teardown()
	//
	for name, js := range map[string]string{
		"malformed":       `{"Variables": [`,
		"undeclared body": `{"Variables":["S"],"Terminals":["a"],"Productions":[{"head":"S","body":["c"]}],"Start":"S"}`,
		"undeclared head": `{"Variables":["S"],"Terminals":["a"],"Productions":[{"head":"X","body":["a"]}],"Start":"S"}`,
		"bad start":       `{"Variables":["S"],"Terminals":["a"],"Productions":[{"head":"S","body":["a"]}],"Start":"T"}`,
		"long terminal":   `{"Variables":["S"],"Terminals":["ab"],"Productions":[],"Start":"S"}`,
		"clash":           `{"Variables":["S","a"],"Terminals":["a"],"Productions":[],"Start":"S"}`,
	} {
		g, err := LoadJSON(strings.NewReader(js), name)
		assert.Error(t, err, name)
		assert.Nil(t, g, name)
	}
	_, err := LoadFile(filepath.Join(t.TempDir(), "does-not-exist.json"))
	assert.Error(t, err)
}

func TestWriteJSONRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfgkit.lr")
	defer teardown()
	//
	g := makeAnBn(t)
	path := filepath.Join(t.TempDir(), "anbn.json")
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, g))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	h, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "anbn", h.Name)
	assert.Equal(t, g.String(), h.String())
}
