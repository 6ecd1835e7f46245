package locator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	logs "github.com/wwpdb/onedep-io/logs"
)

// releaseName holds the two public naming patterns of one released file
// kind. public is the pattern used on the public archive, release the one
// used in the for-release staging area; {} is replaced with the accession
// as given. The gz flags mark which of the two names gets a .gz suffix.
type releaseName struct {
	public    string
	release   string
	gzPublic  bool
	gzRelease bool
}

var releaseNames = map[string]releaseName{
	"model":    {public: "{}.cif", release: "{}.cif", gzPublic: true, gzRelease: true},
	"sf":       {public: "r{}sf.ent", release: "{}-sf.cif", gzPublic: true, gzRelease: false},
	"cs":       {public: "{}_cs.str", release: "{}_cs.str", gzPublic: true, gzRelease: false},
	"nmr_data": {public: "{}_nmr-data.str", release: "{}_nmr-data.str", gzPublic: true, gzRelease: false},
	"emdxml":   {public: "{}-v30.xml", release: "{}_v3.xml", gzPublic: false, gzRelease: false},
	"emdmap":   {public: "{}.map", release: "{}.map", gzPublic: true, gzRelease: true},
	"emdfsc":   {public: "{}_fsc.xml", release: "{}_fsc.xml", gzPublic: false, gzRelease: false},
	"validpdf": {public: "{}_validation.pdf", release: "{}_validation.pdf", gzPublic: false, gzRelease: false},
	"validpdffull": {
		public: "{}_full_validation.pdf", release: "{}_full_validation.pdf", gzPublic: false, gzRelease: false},
	"validxml": {public: "{}_validation.xml", release: "{}_validation.xml", gzPublic: false, gzRelease: false},
	"validpng": {
		public: "{}_multipercentile_validation.png", release: "{}_multipercentile_validation.png", gzPublic: false, gzRelease: false},
	"validsvg": {
		public: "{}_multipercentile_validation.svg", release: "{}_multipercentile_validation.svg", gzPublic: false, gzRelease: false},
	"valid2fo": {
		public: "{}_validation_2fo-fc_map_coef.cif", release: "{}_validation_2fo-fc_map_coef.cif", gzPublic: false, gzRelease: false},
	"validfo": {
		public: "{}_validation_fo-fc_map_coef.cif", release: "{}_validation_fo-fc_map_coef.cif", gzPublic: false, gzRelease: false},
}

// emdbAccessionStyles maps the EM file kinds onto the separator styles
// used for the public and release names: hyphen emd-NNNN, underscore
// emd_NNNN.
var emdbAccessionStyles = map[string][2]string{
	"emdxml": {"hyphen", "underscore"},
	"emdmap": {"underscore", "underscore"},
	"emdfsc": {"underscore", "underscore"},
}

// ReleaseFileNames derives public archive and for-release file names from
// an accession code.
type ReleaseFileNames struct{}

func NewReleaseFileNames() *ReleaseFileNames {
	return &ReleaseFileNames{}
}

func (rfn *ReleaseFileNames) kinds() []string {
	return []string{"model", "sf", "cs", "nmr_data", "emdxml", "emdmap", "emdfsc",
		"validpdf", "validpdffull", "validxml", "validpng", "validsvg", "valid2fo", "validfo"}
}

// emdbAccession rewrites an EMD-NNNN accession in the requested separator
// style.
func emdbAccession(accession string, style string) string {
	number := accession
	if len(accession) > 4 {
		number = accession[4:]
	}
	if style == "hyphen" {
		return fmt.Sprint("emd-", number)
	}
	return fmt.Sprint("emd_", number)
}

func (rfn *ReleaseFileNames) name(ctx context.Context, kind string, accession string, public bool) (string, error) {
	rn, ok := releaseNames[kind]
	if !ok {
		err := errors.New(fmt.Sprint("unknown release file kind ", kind))
		logs.WithContext(ctx).Error(err.Error())
		return "", err
	}
	acc := accession
	if styles, isEmdb := emdbAccessionStyles[kind]; isEmdb {
		if public {
			acc = emdbAccession(acc, styles[0])
		} else {
			acc = emdbAccession(acc, styles[1])
		}
	}
	pattern := rn.release
	gz := rn.gzRelease
	if public {
		pattern = rn.public
		gz = rn.gzPublic
	}
	fn := strings.ReplaceAll(pattern, "{}", acc)
	if gz {
		fn += ".gz"
	}
	return fn, nil
}

// PublicName returns the file name used on the public archive for the
// given file kind and accession.
func (rfn *ReleaseFileNames) PublicName(ctx context.Context, kind string, accession string) (string, error) {
	return rfn.name(ctx, kind, accession, true)
}

// ReleaseName returns the file name used in the for-release staging area.
func (rfn *ReleaseFileNames) ReleaseName(ctx context.Context, kind string, accession string) (string, error) {
	return rfn.name(ctx, kind, accession, false)
}

func (rfn *ReleaseFileNames) Model(ctx context.Context, accession string, public bool) (string, error) {
	return rfn.name(ctx, "model", accession, public)
}

func (rfn *ReleaseFileNames) StructureFactors(ctx context.Context, accession string, public bool) (string, error) {
	return rfn.name(ctx, "sf", accession, public)
}

func (rfn *ReleaseFileNames) ChemicalShifts(ctx context.Context, accession string, public bool) (string, error) {
	return rfn.name(ctx, "cs", accession, public)
}

func (rfn *ReleaseFileNames) NmrData(ctx context.Context, accession string, public bool) (string, error) {
	return rfn.name(ctx, "nmr_data", accession, public)
}

func (rfn *ReleaseFileNames) EmdXml(ctx context.Context, accession string, public bool) (string, error) {
	return rfn.name(ctx, "emdxml", accession, public)
}

func (rfn *ReleaseFileNames) EmdMap(ctx context.Context, accession string, public bool) (string, error) {
	return rfn.name(ctx, "emdmap", accession, public)
}

func (rfn *ReleaseFileNames) EmdFsc(ctx context.Context, accession string, public bool) (string, error) {
	return rfn.name(ctx, "emdfsc", accession, public)
}

func (rfn *ReleaseFileNames) ValidationPdf(ctx context.Context, accession string, public bool) (string, error) {
	return rfn.name(ctx, "validpdf", accession, public)
}

func (rfn *ReleaseFileNames) ValidationFullPdf(ctx context.Context, accession string, public bool) (string, error) {
	return rfn.name(ctx, "validpdffull", accession, public)
}

func (rfn *ReleaseFileNames) ValidationXml(ctx context.Context, accession string, public bool) (string, error) {
	return rfn.name(ctx, "validxml", accession, public)
}

func (rfn *ReleaseFileNames) ValidationPng(ctx context.Context, accession string, public bool) (string, error) {
	return rfn.name(ctx, "validpng", accession, public)
}

func (rfn *ReleaseFileNames) ValidationSvg(ctx context.Context, accession string, public bool) (string, error) {
	return rfn.name(ctx, "validsvg", accession, public)
}

func (rfn *ReleaseFileNames) Validation2foMapCoef(ctx context.Context, accession string, public bool) (string, error) {
	return rfn.name(ctx, "valid2fo", accession, public)
}

func (rfn *ReleaseFileNames) ValidationFoMapCoef(ctx context.Context, accession string, public bool) (string, error) {
	return rfn.name(ctx, "validfo", accession, public)
}
