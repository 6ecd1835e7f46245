package locator

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	logs "github.com/wwpdb/onedep-io/logs"
	"github.com/wwpdb/onedep-io/site_model"
)

// Chemical reference data id types.
const (
	ChemRefCC     = "CC"
	ChemRefPRD    = "PRD"
	ChemRefPRDCC  = "PRDCC"
	ChemRefFamily = "PRD_FAMILY"
)

// ChemRefPathInfo resolves chemical reference definition files for
// chemical components, BIRD definitions and BIRD families.
type ChemRefPathInfo struct {
	Site *site_model.Site
}

func NewChemRefPathInfo(site *site_model.Site) *ChemRefPathInfo {
	return &ChemRefPathInfo{Site: site}
}

// IdType classifies a chemical reference id. Any id of at most five
// characters is a chemical component id, even when it carries a BIRD-like
// prefix; longer ids classify by prefix.
func (crpi *ChemRefPathInfo) IdType(ctx context.Context, idCode string) (string, error) {
	id := strings.ToUpper(idCode)
	switch {
	case len(id) > 0 && len(id) <= 5:
		return ChemRefCC, nil
	case strings.HasPrefix(id, "PRDCC_"):
		return ChemRefPRDCC, nil
	case strings.HasPrefix(id, "PRD_"):
		return ChemRefPRD, nil
	case strings.HasPrefix(id, "FAM_"):
		return ChemRefFamily, nil
	}
	err := errors.New(fmt.Sprint("unrecognised chemical reference id ", idCode))
	logs.WithContext(ctx).Error(err.Error())
	return "", err
}

// ccHashDir is the sharding directory for a chemical component id: the
// last two characters for long ids, the first character otherwise.
func ccHashDir(idCode string) string {
	id := strings.ToUpper(idCode)
	if len(id) > 3 {
		return id[len(id)-2:]
	}
	return id[:1]
}

func (crpi *ChemRefPathInfo) rootForType(ctx context.Context, idType string) (string, error) {
	switch idType {
	case ChemRefCC:
		return crpi.Site.ChemRef.CcRoot, nil
	case ChemRefPRD:
		return crpi.Site.ChemRef.PrdRoot, nil
	case ChemRefPRDCC:
		return crpi.Site.ChemRef.PrdccRoot, nil
	case ChemRefFamily:
		return crpi.Site.ChemRef.FamilyRoot, nil
	}
	err := errors.New(fmt.Sprint("unknown chemical reference id type ", idType))
	logs.WithContext(ctx).Error(err.Error())
	return "", err
}

// FilePath returns the definition file path of a chemical reference id.
// Chemical components shard by hash directory, BIRD definitions and
// families by the last character of the id.
func (crpi *ChemRefPathInfo) FilePath(ctx context.Context, idCode string) (string, error) {
	logs.WithContext(ctx).Debug("FilePath - Start")
	idType, err := crpi.IdType(ctx, idCode)
	if err != nil {
		return "", err
	}
	root, err := crpi.rootForType(ctx, idType)
	if err != nil {
		return "", err
	}
	id := strings.ToUpper(idCode)
	if idType == ChemRefCC {
		return filepath.Join(root, ccHashDir(id), id, id+".cif"), nil
	}
	return filepath.Join(root, id[len(id)-1:], id+".cif"), nil
}

// CvsProjectInfo returns the repository project name and the relative
// path of the definition file within it.
func (crpi *ChemRefPathInfo) CvsProjectInfo(ctx context.Context, idCode string) (string, string, error) {
	logs.WithContext(ctx).Debug("CvsProjectInfo - Start")
	idType, err := crpi.IdType(ctx, idCode)
	if err != nil {
		return "", "", err
	}
	id := strings.ToUpper(idCode)
	var projectName, relPath string
	switch idType {
	case ChemRefCC:
		projectName = crpi.Site.ChemRef.CcProjectName
		relPath = filepath.Join(ccHashDir(id), id, id+".cif")
	case ChemRefPRD:
		projectName = crpi.Site.ChemRef.PrdProjectName
		relPath = filepath.Join(id[len(id)-1:], id+".cif")
	case ChemRefPRDCC:
		projectName = crpi.Site.ChemRef.PrdccProjectName
		relPath = filepath.Join(id[len(id)-1:], id+".cif")
	case ChemRefFamily:
		projectName = crpi.Site.ChemRef.FamilyProjectName
		relPath = filepath.Join(id[len(id)-1:], id+".cif")
	}
	return projectName, relPath, nil
}

// IdCodeFromFileName recovers the id code from a definition file path.
// Short paths carry no recoverable id.
func (crpi *ChemRefPathInfo) IdCodeFromFileName(ctx context.Context, filePath string) string {
	if len(filePath) <= 7 {
		return ""
	}
	base := filepath.Base(filePath)
	return strings.ToUpper(strings.TrimSuffix(base, filepath.Ext(base)))
}
