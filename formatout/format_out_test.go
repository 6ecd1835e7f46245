package formatout

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAutoFormatScalar(t *testing.T) {
	fo := New()
	fo.AutoFormat("status", "REL", 0)
	want := fmt.Sprintf("%-20s = %s\n", "status", "REL")
	if got := fo.String(); got != want {
		t.Errorf("got %q want %q", got, want)
	}
}

func TestAutoFormatNested(t *testing.T) {
	fo := New()
	data := map[string]interface{}{
		"entry": "D_000001",
		"files": []interface{}{"model.cif", "sf.cif"},
		"stats": map[string]interface{}{"count": 2},
	}
	fo.AutoFormat("report", data, 0)
	out := fo.String()

	if !strings.HasPrefix(out, "CONTENTS OF DICTIONARY: report\n") {
		t.Errorf("missing dictionary header:\n%s", out)
	}
	if !strings.Contains(out, "CONTENTS OF LIST: files\n") {
		t.Errorf("missing list header:\n%s", out)
	}
	if !strings.Contains(out, fmt.Sprintf("  %-20s = %s\n", "entry", "D_000001")) {
		t.Errorf("missing indented scalar:\n%s", out)
	}
	if !strings.Contains(out, fmt.Sprintf("    %-20s = %s\n", "files[0]", "model.cif")) {
		t.Errorf("missing list item:\n%s", out)
	}
	// Map keys render in sorted order.
	if strings.Index(out, "entry") > strings.Index(out, "files") {
		t.Errorf("keys not sorted:\n%s", out)
	}
}

func TestAutoFormatStructAndNil(t *testing.T) {
	fo := New()
	type stats struct {
		FileCount int
		unexp     string
	}
	fo.AutoFormat("stats", stats{FileCount: 3, unexp: "hidden"}, 0)
	out := fo.String()
	if !strings.Contains(out, fmt.Sprintf("%-20s = 3", "FileCount")) {
		t.Errorf("got:\n%s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("unexported field leaked:\n%s", out)
	}

	fo.Clear()
	var p *stats
	fo.AutoFormat("missing", p, 0)
	if !strings.Contains(fo.String(), "= <nil>") {
		t.Errorf("got %q", fo.String())
	}
}

func TestAutoFormatDepthCap(t *testing.T) {
	fo := New()
	fo.AutoFormat("deep", "value", maxIndent+1)
	if fo.String() != "" {
		t.Errorf("got %q", fo.String())
	}
}

func TestWriteFile(t *testing.T) {
	ctx := context.Background()
	fo := New()
	fo.AutoFormat("status", "REL", 0)
	path := filepath.Join(t.TempDir(), "report.txt")
	if err := fo.WriteFile(ctx, path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "status") {
		t.Errorf("got %q", data)
	}
}
