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

// PathInfo provides standard path accessors for the data files managed by
// one deposition site.
type PathInfo struct {
	Site        *site_model.Site
	SessionPath string
}

func NewPathInfo(site *site_model.Site, sessionPath string) *PathInfo {
	return &PathInfo{Site: site, SessionPath: sessionPath}
}

func (pi *PathInfo) SetSessionPath(sessionPath string) {
	pi.SessionPath = sessionPath
}

// reference builds a DataFileReference for a file source. Group data sets
// (G_ prefix) are stored under autogroup regardless of the archive source
// named by the caller.
func (pi *PathInfo) reference(ctx context.Context, dataSetId string, wfInstanceId string, contentType string, formatType string, fileSource string, versionId string, partNumber int) (*DataFileReference, error) {
	dfr := &DataFileReference{
		Site:         pi.Site,
		DataSetId:    dataSetId,
		WfInstanceId: wfInstanceId,
		ContentType:  contentType,
		FormatType:   formatType,
		PartNumber:   partNumber,
		VersionId:    versionId,
		SessionPath:  pi.SessionPath,
	}
	switch fileSource {
	case SourceArchive, SourceWfArchive:
		dfr.StorageType = SourceArchive
		if strings.HasPrefix(dataSetId, "G_") {
			dfr.StorageType = SourceAutogroup
		}
	case SourceAutogroup:
		dfr.StorageType = SourceAutogroup
	case SourceDeposit:
		dfr.StorageType = SourceDeposit
	case SourceDepositUI:
		dfr.StorageType = SourceDepositUI
	case SourcePickles:
		dfr.StorageType = SourcePickles
	case SourceTempDep:
		dfr.StorageType = SourceTempDep
	case SourceWfInstance:
		dfr.StorageType = SourceWfInstance
	case SourceSession, SourceWfSession:
		dfr.StorageType = SourceSession
	case SourceSessionDownload:
		dfr.StorageType = SourceSession
		dfr.SessionPath = filepath.Join(pi.SessionPath, "downloads")
	default:
		err := errors.New(fmt.Sprint("invalid file source ", fileSource))
		logs.WithContext(ctx).Error(err.Error())
		return nil, err
	}
	return dfr, nil
}

// FilePath returns the versioned path of a typed data file. mileStone, when
// not empty, selects the milestone variant of contentType.
func (pi *PathInfo) FilePath(ctx context.Context, dataSetId string, wfInstanceId string, contentType string, formatType string, fileSource string, versionId string, partNumber int, mileStone string) (string, error) {
	logs.WithContext(ctx).Debug("FilePath - Start")
	if mileStone != "" {
		contentType = fmt.Sprint(contentType, "-", mileStone)
	}
	dfr, err := pi.reference(ctx, dataSetId, wfInstanceId, contentType, formatType, fileSource, versionId, partNumber)
	if err != nil {
		return "", err
	}
	return dfr.FilePath(ctx)
}

// DirPath returns the directory holding files for the data set in the
// given file source.
func (pi *PathInfo) DirPath(ctx context.Context, dataSetId string, fileSource string, wfInstanceId string) (string, error) {
	dfr, err := pi.reference(ctx, dataSetId, wfInstanceId, "model", "pdbx", fileSource, VersionLatest, 1)
	if err != nil {
		return "", err
	}
	return dfr.DirPath(ctx)
}

func (pi *PathInfo) ArchivePath(ctx context.Context, dataSetId string) (string, error) {
	return pi.DirPath(ctx, dataSetId, SourceArchive, "")
}

func (pi *PathInfo) DepositPath(ctx context.Context, dataSetId string) (string, error) {
	return pi.DirPath(ctx, dataSetId, SourceDeposit, "")
}

func (pi *PathInfo) DepositUIPath(ctx context.Context, dataSetId string) (string, error) {
	return pi.DirPath(ctx, dataSetId, SourceDepositUI, "")
}

func (pi *PathInfo) TempDepPath(ctx context.Context, dataSetId string) (string, error) {
	return pi.DirPath(ctx, dataSetId, SourceTempDep, "")
}

func (pi *PathInfo) InstancePath(ctx context.Context, dataSetId string, wfInstanceId string) (string, error) {
	return pi.DirPath(ctx, dataSetId, SourceWfInstance, wfInstanceId)
}

// InstanceTopPath is the directory holding all workflow instances of a
// data set.
func (pi *PathInfo) InstanceTopPath(ctx context.Context, dataSetId string) (string, error) {
	p, err := pi.InstancePath(ctx, dataSetId, "W_001")
	if err != nil {
		return "", err
	}
	return filepath.Dir(p), nil
}

// WebDownloadPath returns the URL path under which session downloads are
// served.
func (pi *PathInfo) WebDownloadPath(ctx context.Context, sessionId string, fileName string) string {
	return fmt.Sprint("/sessions/", sessionId, "/downloads/", fileName)
}

// FilePathVersionTemplate returns the glob matching all versions of one
// file.
func (pi *PathInfo) FilePathVersionTemplate(ctx context.Context, dataSetId string, wfInstanceId string, contentType string, formatType string, fileSource string, partNumber int, mileStone string) (string, error) {
	logs.WithContext(ctx).Debug("FilePathVersionTemplate - Start")
	if mileStone != "" {
		contentType = fmt.Sprint(contentType, "-", mileStone)
	}
	dfr, err := pi.reference(ctx, dataSetId, wfInstanceId, contentType, formatType, fileSource, VersionLatest, partNumber)
	if err != nil {
		return "", err
	}
	dirPath, err := dfr.DirPath(ctx)
	if err != nil {
		return "", err
	}
	target, err := dfr.VersionSearchTarget(ctx)
	if err != nil {
		return "", err
	}
	return filepath.Join(dirPath, target), nil
}

// FilePathPartitionTemplate returns the glob matching all partitions and
// versions of one content type and format.
func (pi *PathInfo) FilePathPartitionTemplate(ctx context.Context, dataSetId string, wfInstanceId string, contentType string, formatType string, fileSource string, mileStone string) (string, error) {
	logs.WithContext(ctx).Debug("FilePathPartitionTemplate - Start")
	if mileStone != "" {
		contentType = fmt.Sprint(contentType, "-", mileStone)
	}
	dfr, err := pi.reference(ctx, dataSetId, wfInstanceId, contentType, formatType, fileSource, VersionLatest, 1)
	if err != nil {
		return "", err
	}
	dirPath, err := dfr.DirPath(ctx)
	if err != nil {
		return "", err
	}
	target, err := dfr.PartitionSearchTarget(ctx)
	if err != nil {
		return "", err
	}
	return filepath.Join(dirPath, target), nil
}

// FilePathContentTypeTemplate returns the glob matching all formats,
// partitions and versions of one content type.
func (pi *PathInfo) FilePathContentTypeTemplate(ctx context.Context, dataSetId string, wfInstanceId string, contentType string, fileSource string) (string, error) {
	logs.WithContext(ctx).Debug("FilePathContentTypeTemplate - Start")
	dfr, err := pi.reference(ctx, dataSetId, wfInstanceId, contentType, "any", fileSource, VersionLatest, 1)
	if err != nil {
		return "", err
	}
	dirPath, err := dfr.DirPath(ctx)
	if err != nil {
		return "", err
	}
	target, err := dfr.ContentTypeSearchTarget(ctx)
	if err != nil {
		return "", err
	}
	return filepath.Join(dirPath, target), nil
}

// ParseFileName decomposes a repository file name into its typed parts.
func (pi *PathInfo) ParseFileName(ctx context.Context, fileName string) (*ReferenceFileComponents, error) {
	return ParseReferenceFileName(ctx, pi.Site, filepath.Base(fileName))
}

// IsValidFileName reports whether the name (or the base name of a path)
// follows the repository naming convention.
func (pi *PathInfo) IsValidFileName(ctx context.Context, fileName string) bool {
	_, err := pi.ParseFileName(ctx, fileName)
	return err == nil
}

// SplitFileName returns dataSetId, contentType, formatType, partNumber and
// versionNumber of a repository file name.
func (pi *PathInfo) SplitFileName(ctx context.Context, fileName string) (string, string, string, int, int, error) {
	rfc, err := pi.ParseFileName(ctx, fileName)
	if err != nil {
		return "", "", "", 0, 0, err
	}
	return rfc.DataSetId, rfc.ContentType, rfc.FormatType, rfc.PartNumber, rfc.VersionNumber, nil
}

// FileExtension returns the registered extension of a format type.
func (pi *PathInfo) FileExtension(ctx context.Context, formatType string) (string, error) {
	return pi.Site.ExtensionForFormat(formatType)
}

func (pi *PathInfo) ModelPdbxFilePath(ctx context.Context, dataSetId string, fileSource string, versionId string) (string, error) {
	return pi.FilePath(ctx, dataSetId, "", "model", "pdbx", fileSource, versionId, 1, "")
}

func (pi *PathInfo) ModelPdbFilePath(ctx context.Context, dataSetId string, fileSource string, versionId string) (string, error) {
	return pi.FilePath(ctx, dataSetId, "", "model", "pdb", fileSource, versionId, 1, "")
}

func (pi *PathInfo) StructureFactorsPdbxFilePath(ctx context.Context, dataSetId string, fileSource string, versionId string) (string, error) {
	return pi.FilePath(ctx, dataSetId, "", "structure-factors", "pdbx", fileSource, versionId, 1, "")
}

func (pi *PathInfo) ChemicalShiftsFilePath(ctx context.Context, dataSetId string, fileSource string, versionId string) (string, error) {
	return pi.FilePath(ctx, dataSetId, "", "nmr-chemical-shifts", "pdbx", fileSource, versionId, 1, "")
}

func (pi *PathInfo) MolecularRestraintsFilePath(ctx context.Context, dataSetId string, fileSource string, versionId string) (string, error) {
	return pi.FilePath(ctx, dataSetId, "", "nmr-restraints", "nmr-star", fileSource, versionId, 1, "")
}

func (pi *PathInfo) NmrDataFilePath(ctx context.Context, dataSetId string, fileSource string, versionId string) (string, error) {
	return pi.FilePath(ctx, dataSetId, "", "nmr-data-str", "nmr-star", fileSource, versionId, 1, "")
}

func (pi *PathInfo) EmVolumeFilePath(ctx context.Context, dataSetId string, fileSource string, versionId string) (string, error) {
	return pi.FilePath(ctx, dataSetId, "", "em-volume", "map", fileSource, versionId, 1, "")
}

func (pi *PathInfo) EmMaskFilePath(ctx context.Context, dataSetId string, fileSource string, versionId string, partNumber int) (string, error) {
	return pi.FilePath(ctx, dataSetId, "", "em-mask", "map", fileSource, versionId, partNumber, "")
}

func (pi *PathInfo) SequenceStatsFilePath(ctx context.Context, dataSetId string, fileSource string, versionId string) (string, error) {
	return pi.FilePath(ctx, dataSetId, "", "seq-data-stats", "pic", fileSource, versionId, 1, "")
}

func (pi *PathInfo) SequenceAlignFilePath(ctx context.Context, dataSetId string, fileSource string, versionId string) (string, error) {
	return pi.FilePath(ctx, dataSetId, "", "seq-align-data", "pic", fileSource, versionId, 1, "")
}

func (pi *PathInfo) SequenceAssignmentFilePath(ctx context.Context, dataSetId string, fileSource string, versionId string) (string, error) {
	return pi.FilePath(ctx, dataSetId, "", "seq-assign", "pdbx", fileSource, versionId, 1, "")
}

func (pi *PathInfo) BlastMatchFilePath(ctx context.Context, dataSetId string, fileSource string, versionId string, partNumber int) (string, error) {
	return pi.FilePath(ctx, dataSetId, "", "blast-match", "xml", fileSource, versionId, partNumber, "")
}

func (pi *PathInfo) AssemblyAssignmentFilePath(ctx context.Context, dataSetId string, fileSource string, versionId string) (string, error) {
	return pi.FilePath(ctx, dataSetId, "", "assembly-assign", "pdbx", fileSource, versionId, 1, "")
}

func (pi *PathInfo) AssemblyModelFilePath(ctx context.Context, dataSetId string, fileSource string, versionId string, partNumber int) (string, error) {
	return pi.FilePath(ctx, dataSetId, "", "assembly-model", "pdbx", fileSource, versionId, partNumber, "")
}

func (pi *PathInfo) Map2fofcFilePath(ctx context.Context, dataSetId string, fileSource string, versionId string) (string, error) {
	return pi.FilePath(ctx, dataSetId, "", "map-2fofc", "map", fileSource, versionId, 1, "")
}

func (pi *PathInfo) MapfofcFilePath(ctx context.Context, dataSetId string, fileSource string, versionId string) (string, error) {
	return pi.FilePath(ctx, dataSetId, "", "map-fofc", "map", fileSource, versionId, 1, "")
}

func (pi *PathInfo) PolyLinkFilePath(ctx context.Context, dataSetId string, fileSource string, versionId string) (string, error) {
	return pi.FilePath(ctx, dataSetId, "", "polymer-linkage-distances", "json", fileSource, versionId, 1, "")
}

func (pi *PathInfo) PolyLinkReportFilePath(ctx context.Context, dataSetId string, fileSource string, versionId string) (string, error) {
	return pi.FilePath(ctx, dataSetId, "", "polymer-linkage-report", "html", fileSource, versionId, 1, "")
}

func (pi *PathInfo) StatusHistoryFilePath(ctx context.Context, dataSetId string, fileSource string, versionId string) (string, error) {
	return pi.FilePath(ctx, dataSetId, "", "status-history", "pdbx", fileSource, versionId, 1, "")
}
