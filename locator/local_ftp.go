package locator

import (
	"context"
	"path/filepath"

	"github.com/wwpdb/onedep-io/site_model"
)

// LocalFtpPathInfo resolves paths within the local mirrors of the PDB and
// EMDB public archives.
type LocalFtpPathInfo struct {
	Site *site_model.Site
}

func NewLocalFtpPathInfo(site *site_model.Site) *LocalFtpPathInfo {
	return &LocalFtpPathInfo{Site: site}
}

func (lf *LocalFtpPathInfo) pdbAllPath(subDir string) string {
	return filepath.Join(lf.Site.FtpPdbRoot, "pdb", "data", "structures", "all", subDir)
}

func (lf *LocalFtpPathInfo) ModelDir(ctx context.Context) string {
	return lf.pdbAllPath("mmCIF")
}

func (lf *LocalFtpPathInfo) StructureFactorsDir(ctx context.Context) string {
	return lf.pdbAllPath("structure_factors")
}

func (lf *LocalFtpPathInfo) ChemicalShiftsDir(ctx context.Context) string {
	return lf.pdbAllPath("nmr_chemical_shifts")
}

func (lf *LocalFtpPathInfo) NmrDataDir(ctx context.Context) string {
	return lf.pdbAllPath("nmr_data")
}

func (lf *LocalFtpPathInfo) EmdbDir(ctx context.Context) string {
	return filepath.Join(lf.Site.FtpEmdbRoot, "emdb", "structures")
}

// ModelPath is the mirrored path of the public model file for a PDB
// accession.
func (lf *LocalFtpPathInfo) ModelPath(ctx context.Context, accession string) (string, error) {
	fn, err := NewReleaseFileNames().Model(ctx, accession, true)
	if err != nil {
		return "", err
	}
	return filepath.Join(lf.ModelDir(ctx), fn), nil
}

func (lf *LocalFtpPathInfo) StructureFactorsPath(ctx context.Context, accession string) (string, error) {
	fn, err := NewReleaseFileNames().StructureFactors(ctx, accession, true)
	if err != nil {
		return "", err
	}
	return filepath.Join(lf.StructureFactorsDir(ctx), fn), nil
}

func (lf *LocalFtpPathInfo) ChemicalShiftsPath(ctx context.Context, accession string) (string, error) {
	fn, err := NewReleaseFileNames().ChemicalShifts(ctx, accession, true)
	if err != nil {
		return "", err
	}
	return filepath.Join(lf.ChemicalShiftsDir(ctx), fn), nil
}

func (lf *LocalFtpPathInfo) NmrDataPath(ctx context.Context, accession string) (string, error) {
	fn, err := NewReleaseFileNames().NmrData(ctx, accession, true)
	if err != nil {
		return "", err
	}
	return filepath.Join(lf.NmrDataDir(ctx), fn), nil
}

// EmdbPath is the mirrored entry directory for an EMDB accession.
func (lf *LocalFtpPathInfo) EmdbPath(ctx context.Context, accession string) string {
	return filepath.Join(lf.EmdbDir(ctx), accession)
}
