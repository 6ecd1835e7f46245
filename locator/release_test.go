package locator

import (
	"context"
	"path/filepath"
	"testing"
)

func TestReleaseFileNames(t *testing.T) {
	ctx := context.Background()
	rfn := NewReleaseFileNames()

	tests := []struct {
		kind      string
		accession string
		public    bool
		want      string
	}{
		{"model", "1abc", true, "1abc.cif.gz"},
		{"model", "1abc", false, "1abc.cif.gz"},
		// Accession case passes through untouched.
		{"model", "1ABC", true, "1ABC.cif.gz"},
		{"sf", "1AbC", false, "1AbC-sf.cif"},
		{"sf", "1abc", true, "r1abcsf.ent.gz"},
		{"sf", "1abc", false, "1abc-sf.cif"},
		{"cs", "1abc", true, "1abc_cs.str.gz"},
		{"cs", "1abc", false, "1abc_cs.str"},
		{"nmr_data", "1abc", true, "1abc_nmr-data.str.gz"},
		{"nmr_data", "1abc", false, "1abc_nmr-data.str"},
		{"emdxml", "EMD-1234", true, "emd-1234-v30.xml"},
		{"emdxml", "EMD-1234", false, "emd_1234_v3.xml"},
		{"emdmap", "EMD-1234", true, "emd_1234.map.gz"},
		{"emdmap", "EMD-1234", false, "emd_1234.map.gz"},
		{"emdfsc", "EMD-1234", true, "emd_1234_fsc.xml"},
		{"validpdf", "1abc", true, "1abc_validation.pdf"},
		{"validpdffull", "1abc", false, "1abc_full_validation.pdf"},
		{"validxml", "1abc", true, "1abc_validation.xml"},
		{"validpng", "1abc", true, "1abc_multipercentile_validation.png"},
		{"validsvg", "1abc", false, "1abc_multipercentile_validation.svg"},
		{"valid2fo", "1abc", true, "1abc_validation_2fo-fc_map_coef.cif"},
		{"validfo", "1abc", false, "1abc_validation_fo-fc_map_coef.cif"},
	}
	for _, tt := range tests {
		var got string
		var err error
		if tt.public {
			got, err = rfn.PublicName(ctx, tt.kind, tt.accession)
		} else {
			got, err = rfn.ReleaseName(ctx, tt.kind, tt.accession)
		}
		if err != nil {
			t.Fatalf("%s public=%v: %v", tt.kind, tt.public, err)
		}
		if got != tt.want {
			t.Errorf("%s public=%v: got %s want %s", tt.kind, tt.public, got, tt.want)
		}
	}

	if _, err := rfn.PublicName(ctx, "nosuchkind", "1abc"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestReleasePathInfo(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	site := testSite(root)
	rpi := NewReleasePathInfo(site)

	got, err := rpi.ForReleasePath(ctx, ReleaseCurrent, "added", "1abc")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(site.ForReleaseRoot, "added", "1abc") {
		t.Errorf("got %s", got)
	}

	got, err = rpi.ForReleasePath(ctx, ReleasePrevious, "modified", "1abc")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(site.ForReleaseRoot, "previous", "modified", "1abc") {
		t.Errorf("got %s", got)
	}

	got, err = rpi.EmValReportsPath(ctx, "EMD-1234")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(site.ForReleaseRoot, "em-val-reports", "EMD-1234") {
		t.Errorf("got %s", got)
	}

	if _, err = rpi.ForReleasePath(ctx, "nosuchversion", "added", ""); err == nil {
		t.Error("expected error for invalid version")
	}
	if _, err = rpi.ForReleasePath(ctx, ReleaseCurrent, "nosuchdir", ""); err == nil {
		t.Error("expected error for invalid subdirectory")
	}
}

func TestChemRefPathInfo(t *testing.T) {
	ctx := context.Background()
	site := testSite(t.TempDir())
	site.ChemRef.CcRoot = "/ref/cc"
	site.ChemRef.PrdRoot = "/ref/prd"
	site.ChemRef.PrdccRoot = "/ref/prdcc"
	site.ChemRef.FamilyRoot = "/ref/family"
	site.ChemRef.CcProjectName = "ligand-dict-v3"
	site.ChemRef.PrdProjectName = "prd-v3"
	site.ChemRef.PrdccProjectName = "prdcc-v3"
	site.ChemRef.FamilyProjectName = "family-v3"
	crpi := NewChemRefPathInfo(site)

	idTests := []struct {
		idCode string
		want   string
	}{
		{"ATP", ChemRefCC},
		{"abc", ChemRefCC},
		// Short ids type as components before any prefix applies.
		{"PRD_1", ChemRefCC},
		{"PRD_000123", ChemRefPRD},
		{"PRDCC_000123", ChemRefPRDCC},
		{"FAM_000123", ChemRefFamily},
	}
	for _, tt := range idTests {
		got, err := crpi.IdType(ctx, tt.idCode)
		if err != nil {
			t.Fatalf("%s: %v", tt.idCode, err)
		}
		if got != tt.want {
			t.Errorf("%s: got %s want %s", tt.idCode, got, tt.want)
		}
	}
	if _, err := crpi.IdType(ctx, "TOOLONGID"); err == nil {
		t.Error("expected error for unclassifiable id")
	}

	pathTests := []struct {
		idCode string
		want   string
	}{
		{"ATP", "/ref/cc/A/ATP/ATP.cif"},
		{"1234", "/ref/cc/34/1234/1234.cif"},
		{"PRD_000123", "/ref/prd/3/PRD_000123.cif"},
		{"PRDCC_000123", "/ref/prdcc/3/PRDCC_000123.cif"},
		{"FAM_000123", "/ref/family/3/FAM_000123.cif"},
	}
	for _, tt := range pathTests {
		got, err := crpi.FilePath(ctx, tt.idCode)
		if err != nil {
			t.Fatalf("%s: %v", tt.idCode, err)
		}
		if got != tt.want {
			t.Errorf("%s: got %s want %s", tt.idCode, got, tt.want)
		}
	}

	project, relPath, err := crpi.CvsProjectInfo(ctx, "ATP")
	if err != nil {
		t.Fatal(err)
	}
	if project != "ligand-dict-v3" || relPath != "A/ATP/ATP.cif" {
		t.Errorf("got %s %s", project, relPath)
	}

	if got := crpi.IdCodeFromFileName(ctx, "/ref/cc/A/ATP/atp.cif"); got != "ATP" {
		t.Errorf("got %s", got)
	}
	if got := crpi.IdCodeFromFileName(ctx, "a.cif"); got != "" {
		t.Errorf("short path: got %s", got)
	}
}

func TestLocalFtpPathInfo(t *testing.T) {
	ctx := context.Background()
	site := testSite(t.TempDir())
	lf := NewLocalFtpPathInfo(site)

	got, err := lf.ModelPath(ctx, "1abc")
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(site.FtpPdbRoot, "pdb", "data", "structures", "all", "mmCIF", "1abc.cif.gz")
	if got != want {
		t.Errorf("got %s want %s", got, want)
	}

	got, err = lf.StructureFactorsPath(ctx, "1abc")
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(got) != "r1abcsf.ent.gz" {
		t.Errorf("got %s", got)
	}

	if got := lf.EmdbPath(ctx, "EMD-1234"); got != filepath.Join(site.FtpEmdbRoot, "emdb", "structures", "EMD-1234") {
		t.Errorf("got %s", got)
	}
}
