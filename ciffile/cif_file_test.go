package ciffile

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleCif = `data_D_000001
#
_entry.id   D_000001
_struct.title 'Crystal structure of a test protein'
#
loop_
_atom_site.id
_atom_site.type_symbol
_atom_site.label_atom_id
1 N N
2 C CA
3 C C
#
_pdbx_database_status.status_code REL
_pdbx_database_status.recvd_initial_deposition_date ?
_pdbx_database_status.date_of_sf_release .
#
_exptl.details
;Multi line
detail text
;
#
data_block2
#
_entry.id block2
#
`

func parseSample(t *testing.T) *CifFile {
	t.Helper()
	cf, err := Parse(context.Background(), strings.NewReader(sampleCif))
	if err != nil {
		t.Fatal(err)
	}
	return cf
}

func TestParseBlocks(t *testing.T) {
	cf := parseSample(t)

	if cf.FirstBlockName() != "D_000001" {
		t.Errorf("first block: got %s", cf.FirstBlockName())
	}
	names := cf.BlockNames()
	if len(names) != 2 || names[1] != "block2" {
		t.Errorf("block names: got %v", names)
	}
	blk, ok := cf.Block("D_000001")
	if !ok {
		t.Fatal("block not found")
	}
	cats := blk.CategoryNames()
	want := []string{"entry", "struct", "atom_site", "pdbx_database_status", "exptl"}
	if len(cats) != len(want) {
		t.Fatalf("categories: got %v", cats)
	}
	for i, c := range want {
		if cats[i] != c {
			t.Errorf("category %d: got %s want %s", i, cats[i], c)
		}
	}
}

func TestCategoryValues(t *testing.T) {
	cf := parseSample(t)

	rows := cf.CategoryValues("D_000001", "atom_site")
	if len(rows) != 3 {
		t.Fatalf("got %d rows", len(rows))
	}
	if rows[1]["id"] != "2" || rows[1]["label_atom_id"] != "CA" {
		t.Errorf("row 1: got %v", rows[1])
	}

	// Placeholders are dropped.
	status := cf.CategoryValues("D_000001", "pdbx_database_status")
	if len(status) != 1 {
		t.Fatalf("got %d rows", len(status))
	}
	if _, ok := status[0]["recvd_initial_deposition_date"]; ok {
		t.Error("? value must be dropped")
	}
	if _, ok := status[0]["date_of_sf_release"]; ok {
		t.Error(". value must be dropped")
	}
	if status[0]["status_code"] != "REL" {
		t.Errorf("got %v", status[0])
	}
}

func TestQuotedAndMultilineValues(t *testing.T) {
	cf := parseSample(t)

	if got := cf.GetSingleValue("D_000001", "struct", "title"); got != "Crystal structure of a test protein" {
		t.Errorf("quoted: got %q", got)
	}
	if got := cf.GetSingleValue("D_000001", "exptl", "details"); got != "Multi line\ndetail text" {
		t.Errorf("multiline: got %q", got)
	}
}

func TestUpdateValues(t *testing.T) {
	cf := parseSample(t)

	if err := cf.UpdateSingleRowValue("D_000001", "pdbx_database_status", "status_code", 0, "HPUB"); err != nil {
		t.Fatal(err)
	}
	if got := cf.GetSingleValue("D_000001", "pdbx_database_status", "status_code"); got != "HPUB" {
		t.Errorf("got %s", got)
	}

	if err := cf.UpdateMultipleRowsValue("D_000001", "atom_site", "type_symbol", "X"); err != nil {
		t.Fatal(err)
	}
	for _, row := range cf.CategoryValues("D_000001", "atom_site") {
		if row["type_symbol"] != "X" {
			t.Errorf("got %v", row)
		}
	}

	if err := cf.UpdateSingleRowValue("D_000001", "atom_site", "nosuchattr", 0, "x"); err == nil {
		t.Error("expected error for unknown attribute")
	}
	if err := cf.UpdateSingleRowValue("D_000001", "atom_site", "id", 99, "x"); err == nil {
		t.Error("expected error for row out of range")
	}
}

func TestAddBlockCategoryAndInsert(t *testing.T) {
	ctx := context.Background()
	cf := NewCifFile()
	cf.AddCategory("D_000009", "database_2", []string{"database_id", "database_code"})
	if err := cf.InsertData("D_000009", "database_2", []string{"PDB", "1ABC"}); err != nil {
		t.Fatal(err)
	}
	if err := cf.InsertData("D_000009", "database_2", []string{"WWPDB", "D_000009"}); err != nil {
		t.Fatal(err)
	}
	if err := cf.InsertData("D_000009", "database_2", []string{"short"}); err == nil {
		t.Error("expected error for short row")
	}

	var buf bytes.Buffer
	if err := cf.Write(ctx, &buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "data_D_000009") || !strings.Contains(out, "loop_") {
		t.Errorf("output:\n%s", out)
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	ctx := context.Background()
	cf := parseSample(t)

	path := filepath.Join(t.TempDir(), "out.cif")
	if err := cf.WriteFile(ctx, path); err != nil {
		t.Fatal(err)
	}
	reread, err := ReadCifFile(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if reread.FirstBlockName() != "D_000001" {
		t.Errorf("got %s", reread.FirstBlockName())
	}
	if got := reread.GetSingleValue("D_000001", "struct", "title"); got != "Crystal structure of a test protein" {
		t.Errorf("title after round trip: got %q", got)
	}
	if got := reread.GetSingleValue("D_000001", "exptl", "details"); got != "Multi line\ndetail text" {
		t.Errorf("details after round trip: got %q", got)
	}
	rows := reread.CategoryValues("D_000001", "atom_site")
	if len(rows) != 3 || rows[2]["label_atom_id"] != "C" {
		t.Errorf("atom_site after round trip: got %v", rows)
	}
}

func TestBlockAsDict(t *testing.T) {
	cf := parseSample(t)
	dict := cf.BlockAsDict("D_000001")
	if len(dict["atom_site"]) != 3 {
		t.Errorf("got %v", dict["atom_site"])
	}
	if dict["entry"][0]["id"] != "D_000001" {
		t.Errorf("got %v", dict["entry"])
	}
}

func TestParseErrors(t *testing.T) {
	ctx := context.Background()
	bad := []string{
		"_entry.id value\n",
		"data_x\nloop_\n_a.b\n_c.d\n1 2\n",
		"data_x\nloop_\n_a.b\n_a.c\n1\n",
	}
	for _, in := range bad {
		if _, err := Parse(ctx, strings.NewReader(in)); err == nil {
			t.Errorf("%q: expected error", in)
		}
	}
}

func TestReadCifFileMissing(t *testing.T) {
	if _, err := ReadCifFile(context.Background(), filepath.Join(os.TempDir(), "nope-no-such.cif")); err == nil {
		t.Error("expected error")
	}
}
