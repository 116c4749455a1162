package graph

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteDotProducesNonEmptyFile(t *testing.T) {
	g := buildSmallGraph()
	path := filepath.Join(t.TempDir(), "g.dot")

	if err := WriteDot(path, g); err != nil {
		t.Fatalf("WriteDot() = %v, want nil", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() = %v, want nil", err)
	}
	if len(data) == 0 {
		t.Errorf("WriteDot produced an empty file")
	}
}
