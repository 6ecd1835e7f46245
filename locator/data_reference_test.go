package locator

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/wwpdb/onedep-io/site_model"
)

func testSite(root string) *site_model.Site {
	return &site_model.Site{
		SiteId:           "WWPDB_DEPLOY_TEST",
		ArchiveRoot:      root,
		SessionRoot:      filepath.Join(root, "sessions"),
		ForReleaseRoot:   filepath.Join(root, "for_release"),
		FtpPdbRoot:       filepath.Join(root, "ftp-pdb"),
		FtpEmdbRoot:      filepath.Join(root, "ftp-emdb"),
		ContentTypes:     site_model.DefaultContentTypes(),
		FormatExtensions: site_model.DefaultFormatExtensions(),
	}
}

func TestParseReferenceFileName(t *testing.T) {
	ctx := context.Background()
	site := testSite(t.TempDir())

	tests := []struct {
		fileName    string
		dataSetId   string
		contentType string
		formatType  string
		partNumber  int
		version     int
	}{
		{"D_111111_sf_P1.cif.V3", "D_111111", "structure-factors", "pdbx", 1, 3},
		{"D_111111_model_P1.pdb.V3", "D_111111", "model", "pdb", 1, 3},
		{"D_1000000001_model_P1.cif.V12", "D_1000000001", "model", "pdbx", 1, 12},
		{"G_1002003_model_P2.cif.V1", "G_1002003", "model", "pdbx", 2, 1},
		{"D_111111_cs_P1.str.V2", "D_111111", "nmr-chemical-shifts", "nmr-star", 1, 2},
		{"D_111111_model-annotate_P1.cif.V1", "D_111111", "model-annotate", "pdbx", 1, 1},
		{"D_111111_em-volume_P1.map", "D_111111", "em-volume", "map", 1, 0},
	}
	for _, tt := range tests {
		rfc, err := ParseReferenceFileName(ctx, site, tt.fileName)
		if err != nil {
			t.Errorf("%s: unexpected error %v", tt.fileName, err)
			continue
		}
		if rfc.DataSetId != tt.dataSetId || rfc.ContentType != tt.contentType ||
			rfc.FormatType != tt.formatType || rfc.PartNumber != tt.partNumber ||
			rfc.VersionNumber != tt.version {
			t.Errorf("%s: got %+v", tt.fileName, rfc)
		}
	}
}

func TestParseReferenceFileNameRejects(t *testing.T) {
	ctx := context.Background()
	site := testSite(t.TempDir())

	bad := []string{
		"",
		"D_111111",
		"X_111111_model_P1.cif.V1",
		"D_111111_model.cif.V1",
		"D_111111_nosuchacronym_P1.cif.V1",
		"D_111111_model_P1.nosuchext.V1",
	}
	for _, fn := range bad {
		if _, err := ParseReferenceFileName(ctx, site, fn); err == nil {
			t.Errorf("%q: expected error", fn)
		}
	}
}

func TestDataFileReferencePaths(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	site := testSite(root)

	tests := []struct {
		storageType  string
		wfInstanceId string
		want         string
	}{
		{SourceArchive, "", filepath.Join(root, "archive", "D_000001")},
		{SourceAutogroup, "", filepath.Join(root, "autogroup", "D_000001")},
		{SourceDeposit, "", filepath.Join(root, "deposit", "D_000001")},
		{SourceDepositUI, "", filepath.Join(root, "deposit-ui", "D_000001")},
		{SourcePickles, "", filepath.Join(root, "deposit-ui", "temp_files", "deposition-v-200", "D_000001")},
		{SourceTempDep, "", filepath.Join(root, "tempdep", "D_000001")},
		{SourceWfInstance, "W_012", filepath.Join(root, "workflow", "D_000001", "instance", "W_012")},
	}
	for _, tt := range tests {
		dfr := &DataFileReference{
			Site:         site,
			DataSetId:    "D_000001",
			WfInstanceId: tt.wfInstanceId,
			ContentType:  "model",
			FormatType:   "pdbx",
			StorageType:  tt.storageType,
			PartNumber:   1,
			VersionId:    VersionLatest,
		}
		got, err := dfr.DirPath(ctx)
		if err != nil {
			t.Fatalf("%s: %v", tt.storageType, err)
		}
		if got != tt.want {
			t.Errorf("%s: got %s want %s", tt.storageType, got, tt.want)
		}
	}
}

func TestVersionResolution(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	site := testSite(root)

	dirPath := filepath.Join(root, "archive", "D_000001")
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		t.Fatal(err)
	}
	for _, fn := range []string{
		"D_000001_model_P1.cif.V1",
		"D_000001_model_P1.cif.V2",
		"D_000001_model_P1.cif.V10",
	} {
		if err := os.WriteFile(filepath.Join(dirPath, fn), []byte("data"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		versionId string
		want      string
	}{
		{VersionLatest, "D_000001_model_P1.cif.V10"},
		{VersionNext, "D_000001_model_P1.cif.V11"},
		{VersionOriginal, "D_000001_model_P1.cif.V1"},
		{VersionNone, "D_000001_model_P1.cif"},
		{"4", "D_000001_model_P1.cif.V4"},
	}
	for _, tt := range tests {
		dfr := &DataFileReference{
			Site:        site,
			DataSetId:   "D_000001",
			ContentType: "model",
			FormatType:  "pdbx",
			StorageType: SourceArchive,
			PartNumber:  1,
			VersionId:   tt.versionId,
		}
		got, err := dfr.FileName(ctx)
		if err != nil {
			t.Fatalf("%s: %v", tt.versionId, err)
		}
		if got != tt.want {
			t.Errorf("%s: got %s want %s", tt.versionId, got, tt.want)
		}
	}
}

func TestVersionResolutionEmptyDir(t *testing.T) {
	ctx := context.Background()
	site := testSite(t.TempDir())

	dfr := &DataFileReference{
		Site:        site,
		DataSetId:   "D_000002",
		ContentType: "model",
		FormatType:  "pdbx",
		StorageType: SourceArchive,
		PartNumber:  1,
		VersionId:   VersionLatest,
	}
	got, err := dfr.FileName(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got != "D_000002_model_P1.cif.V1" {
		t.Errorf("latest in empty dir: got %s", got)
	}

	dfr.VersionId = VersionNext
	got, err = dfr.FileName(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got != "D_000002_model_P1.cif.V1" {
		t.Errorf("next in empty dir: got %s", got)
	}
}

func TestSearchTargets(t *testing.T) {
	ctx := context.Background()
	site := testSite(t.TempDir())

	dfr := &DataFileReference{
		Site:        site,
		DataSetId:   "D_000001",
		ContentType: "structure-factors",
		FormatType:  "pdbx",
		StorageType: SourceArchive,
		PartNumber:  1,
	}
	vt, err := dfr.VersionSearchTarget(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if vt != "D_000001_sf_P1.cif.V*" {
		t.Errorf("version target: got %s", vt)
	}
	pt, err := dfr.PartitionSearchTarget(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if pt != "D_000001_sf_P*.cif.V*" {
		t.Errorf("partition target: got %s", pt)
	}
	ct, err := dfr.ContentTypeSearchTarget(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if ct != "D_000001_sf_P*.*.V*" {
		t.Errorf("content type target: got %s", ct)
	}
}
