package maintenance

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/wwpdb/onedep-io/site_model"
)

func maintenanceFixture(t *testing.T, testMode bool) (*DataMaintenance, string) {
	t.Helper()
	root := t.TempDir()
	site := &site_model.Site{
		ArchiveRoot:      root,
		ContentTypes:     site_model.DefaultContentTypes(),
		FormatExtensions: site_model.DefaultFormatExtensions(),
	}
	return NewDataMaintenance(site, testMode), root
}

func writeVersions(t *testing.T, root string, dataSetId string, baseName string, versions int) string {
	t.Helper()
	dir := filepath.Join(root, "archive", dataSetId)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	for v := 1; v <= versions; v++ {
		fn := fmt.Sprintf("%s.V%d", baseName, v)
		if err := os.WriteFile(filepath.Join(dir, fn), []byte(fn), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestVersionOf(t *testing.T) {
	tests := []struct {
		fileName string
		want     int
		ok       bool
	}{
		{"D_000001_model_P1.cif.V3", 3, true},
		{"D_000001_model_P1.cif.V12", 12, true},
		{"D_000001_model_P1.cif.V3~", 3, true},
		{"D_000001_model_P1.cif", 0, false},
	}
	for _, tt := range tests {
		got, ok := versionOf(tt.fileName)
		if got != tt.want || ok != tt.ok {
			t.Errorf("%s: got %d %v", tt.fileName, got, ok)
		}
	}
}

func TestVersionFileListDescending(t *testing.T) {
	ctx := context.Background()
	dm, root := maintenanceFixture(t, false)
	writeVersions(t, root, "D_8000210001", "D_8000210001_model_P1.cif", 4)

	list, err := dm.VersionFileList(ctx, "D_8000210001", "model", "pdbx", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 4 {
		t.Fatalf("got %d files", len(list))
	}
	if filepath.Base(list[0]) != "D_8000210001_model_P1.cif.V4" ||
		filepath.Base(list[3]) != "D_8000210001_model_P1.cif.V1" {
		t.Errorf("order: got %v", list)
	}
}

func TestPurgeCandidates(t *testing.T) {
	mk := func(n int) []string {
		// Descending version order, as VersionFileList returns.
		var l []string
		for v := n; v >= 1; v-- {
			l = append(l, fmt.Sprintf("f.cif.V%d", v))
		}
		return l
	}

	tests := []struct {
		n        int
		strategy string
		wantGz   []string
		wantRm   []string
	}{
		{1, StrategyExp, nil, nil},
		{2, StrategyExp, []string{"f.cif.V1"}, nil},
		{3, StrategyExp, []string{"f.cif.V2", "f.cif.V1"}, nil},
		{5, StrategyExp, []string{"f.cif.V2", "f.cif.V1"}, []string{"f.cif.V4", "f.cif.V3"}},
		{1, StrategyReport, nil, nil},
		{2, StrategyReport, []string{"f.cif.V1"}, nil},
		{4, StrategyReport, []string{"f.cif.V1"}, []string{"f.cif.V3", "f.cif.V2"}},
	}
	for _, tt := range tests {
		gz, rm := PurgeCandidates(mk(tt.n), tt.strategy)
		if fmt.Sprint(gz) != fmt.Sprint(tt.wantGz) || fmt.Sprint(rm) != fmt.Sprint(tt.wantRm) {
			t.Errorf("n=%d %s: got gz=%v rm=%v", tt.n, tt.strategy, gz, rm)
		}
	}
}

func TestPurgeVersions(t *testing.T) {
	ctx := context.Background()
	dm, root := maintenanceFixture(t, false)
	dir := writeVersions(t, root, "D_8000210001", "D_8000210001_model_P1.cif", 5)

	result, err := dm.PurgeVersions(ctx, "D_8000210001", "model", "pdbx", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Compressed) != 2 || len(result.Removed) != 2 {
		t.Fatalf("got %+v", result)
	}
	// Latest untouched, earliest two gzipped, intermediates gone.
	if _, err = os.Stat(filepath.Join(dir, "D_8000210001_model_P1.cif.V5")); err != nil {
		t.Error("latest version must stay")
	}
	for _, v := range []int{1, 2} {
		if _, err = os.Stat(filepath.Join(dir, fmt.Sprintf("D_8000210001_model_P1.cif.V%d.gz", v))); err != nil {
			t.Errorf("V%d not gzipped", v)
		}
	}
	for _, v := range []int{3, 4} {
		if _, err = os.Stat(filepath.Join(dir, fmt.Sprintf("D_8000210001_model_P1.cif.V%d", v))); !os.IsNotExist(err) {
			t.Errorf("V%d not removed", v)
		}
	}
}

func TestPurgeVersionsTestMode(t *testing.T) {
	ctx := context.Background()
	dm, root := maintenanceFixture(t, true)
	dir := writeVersions(t, root, "D_8000210001", "D_8000210001_model_P1.cif", 5)

	result, err := dm.PurgeVersions(ctx, "D_8000210001", "model", "pdbx", 1)
	if err != nil {
		t.Fatal(err)
	}
	if !result.TestMode || len(result.Compressed) != 2 || len(result.Removed) != 2 {
		t.Fatalf("got %+v", result)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 5 {
		t.Errorf("test mode must not touch files, got %d entries", len(entries))
	}
}

func TestPurgeLogs(t *testing.T) {
	ctx := context.Background()
	dm, root := maintenanceFixture(t, false)
	logDir := filepath.Join(root, "archive", "D_8000210001", "log")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		t.Fatal(err)
	}
	for _, fn := range []string{"wf.log", "annot.log", "keep.txt"} {
		if err := os.WriteFile(filepath.Join(logDir, fn), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	removed, err := dm.PurgeLogs(ctx, "D_8000210001")
	if err != nil {
		t.Fatal(err)
	}
	if len(removed) != 2 {
		t.Fatalf("got %v", removed)
	}
	if _, err = os.Stat(filepath.Join(logDir, "keep.txt")); err != nil {
		t.Error("non-log file must stay")
	}
}

func TestReversePurge(t *testing.T) {
	ctx := context.Background()
	dm, root := maintenanceFixture(t, false)
	dir := writeVersions(t, root, "D_8000210001", "D_8000210001_model_P1.cif", 3)

	removed, err := dm.ReversePurge(ctx, "D_8000210001", "model", "pdbx", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(removed) != 2 {
		t.Fatalf("got %v", removed)
	}
	if _, err = os.Stat(filepath.Join(dir, "D_8000210001_model_P1.cif.V1")); err != nil {
		t.Error("first version must stay")
	}
}

func TestRemoveWorkflowDir(t *testing.T) {
	ctx := context.Background()
	dm, root := maintenanceFixture(t, false)
	wfDir := filepath.Join(root, "workflow", "D_8000210001", "instance", "W_001")
	if err := os.MkdirAll(wfDir, 0755); err != nil {
		t.Fatal(err)
	}

	if err := dm.RemoveWorkflowDir(ctx, "D_123"); err == nil {
		t.Error("expected error for short id")
	}
	if err := dm.RemoveWorkflowDir(ctx, "G_8000210001"); err == nil {
		t.Error("expected error for group id")
	}
	if err := dm.RemoveWorkflowDir(ctx, "D_8000210001"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(root, "workflow", "D_8000210001")); !os.IsNotExist(err) {
		t.Error("workflow dir not removed")
	}
}

func TestRecoverPurged(t *testing.T) {
	ctx := context.Background()
	dm, root := maintenanceFixture(t, false)
	dir := writeVersions(t, root, "D_8000210001", "D_8000210001_model_P1.cif", 2)
	if _, err := dm.PurgeVersions(ctx, "D_8000210001", "model", "pdbx", 1); err != nil {
		t.Fatal(err)
	}

	restored, err := dm.RecoverPurged(ctx, dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(restored) != 1 {
		t.Fatalf("got %v", restored)
	}
	data, err := os.ReadFile(filepath.Join(dir, "D_8000210001_model_P1.cif.V1"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "D_8000210001_model_P1.cif.V1" {
		t.Errorf("restored content: got %q", data)
	}
}
