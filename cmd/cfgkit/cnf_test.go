package main

import (
	"path/filepath"
	"testing"

	"github.com/npillmayer/cfgkit/lr"
	"github.com/npillmayer/cfgkit/lr/notation"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestWriteGrammar(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cfgkit.cli")
	defer teardown()
	//
	g := notation.MustParse("AnBn", "S -> aSb | ε")
	path := filepath.Join(t.TempDir(), "anbn.json")
	if err := writeGrammar(path, g); err != nil {
		t.Fatalf("expected grammar to be written, got error: %v", err)
	}
	h, err := lr.LoadFile(path)
	if err != nil {
		t.Fatalf("cannot read back grammar: %v", err)
	}
	if h.ProductionCount() != g.ProductionCount() || h.Start().Name != "S" {
		t.Errorf("expected 2 productions for S, have %d", h.ProductionCount())
	}
	missing := filepath.Join(t.TempDir(), "no-such-dir", "g.json")
	if err := writeGrammar(missing, g); err == nil {
		t.Errorf("expected an error for output file %s", missing)
	}
}
