package locator

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	logs "github.com/wwpdb/onedep-io/logs"
	"github.com/wwpdb/onedep-io/site_model"
)

// File sources accepted by the path methods.
const (
	SourceArchive         = "archive"
	SourceWfArchive       = "wf-archive"
	SourceAutogroup       = "autogroup"
	SourceDeposit         = "deposit"
	SourceDepositUI       = "deposit-ui"
	SourcePickles         = "pickles"
	SourceTempDep         = "tempdep"
	SourceWfInstance      = "wf-instance"
	SourceSession         = "session"
	SourceWfSession       = "wf-session"
	SourceSessionDownload = "session-download"
)

// Version selectors accepted in addition to explicit numeric versions.
const (
	VersionLatest   = "latest"
	VersionNext     = "next"
	VersionNone     = "none"
	VersionOriginal = "original"
)

// Repository file names follow
// <dataSetId>_<contentAcronym>_P<part>.<extension>.V<version>
// with deposition ids D_xxxxxx and group ids G_xxxxxx.
var fileNameRegexp = regexp.MustCompile(`^((?:D|G)_[0-9]+)_([a-zA-Z0-9-]+)_P([0-9]+)\.([a-zA-Z0-9]+)(?:\.V([0-9]+))?$`)

// ReferenceFileComponents holds the typed parts of a compliant repository
// file name. VersionNumber is 0 when the name carries no version suffix.
type ReferenceFileComponents struct {
	DataSetId     string
	ContentType   string
	FormatType    string
	PartNumber    int
	VersionNumber int
}

// ParseReferenceFileName decomposes a repository file name using the site
// content type and format dictionaries.
func ParseReferenceFileName(ctx context.Context, site *site_model.Site, fileName string) (*ReferenceFileComponents, error) {
	m := fileNameRegexp.FindStringSubmatch(fileName)
	if m == nil {
		err := errors.New(fmt.Sprint("file name ", fileName, " is not compliant"))
		logs.WithContext(ctx).Debug(err.Error())
		return nil, err
	}
	contentType, err := site.ContentTypeForAcronym(m[2])
	if err != nil {
		logs.WithContext(ctx).Debug(err.Error())
		return nil, err
	}
	formatType, err := site.FormatForExtension(m[4], contentType)
	if err != nil {
		logs.WithContext(ctx).Debug(err.Error())
		return nil, err
	}
	partNumber, err := strconv.Atoi(m[3])
	if err != nil {
		return nil, err
	}
	rfc := &ReferenceFileComponents{
		DataSetId:   m[1],
		ContentType: contentType,
		FormatType:  formatType,
		PartNumber:  partNumber,
	}
	if m[5] != "" {
		rfc.VersionNumber, err = strconv.Atoi(m[5])
		if err != nil {
			return nil, err
		}
	}
	return rfc, nil
}

// DataFileReference resolves one typed data file to a concrete repository
// path for a given site.
type DataFileReference struct {
	Site         *site_model.Site
	DataSetId    string
	WfInstanceId string
	ContentType  string
	FormatType   string
	StorageType  string
	PartNumber   int
	VersionId    string
	SessionPath  string
}

func (dfr *DataFileReference) validate(ctx context.Context) error {
	if dfr.Site == nil {
		return errors.New("site configuration not set")
	}
	if dfr.DataSetId == "" {
		return errors.New("data set id not set")
	}
	switch dfr.StorageType {
	case SourceArchive, SourceAutogroup, SourceDeposit, SourceDepositUI, SourcePickles, SourceTempDep:
	case SourceWfInstance:
		if dfr.WfInstanceId == "" {
			return errors.New("workflow instance id not set")
		}
	case SourceSession:
		if dfr.SessionPath == "" {
			return errors.New("session path not set")
		}
	default:
		err := errors.New(fmt.Sprint("invalid storage type ", dfr.StorageType))
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
	return nil
}

// DirPath returns the directory holding files for this reference.
func (dfr *DataFileReference) DirPath(ctx context.Context) (string, error) {
	if err := dfr.validate(ctx); err != nil {
		return "", err
	}
	switch dfr.StorageType {
	case SourceArchive:
		return filepath.Join(dfr.Site.ArchiveRoot, "archive", dfr.DataSetId), nil
	case SourceAutogroup:
		return filepath.Join(dfr.Site.ArchiveRoot, "autogroup", dfr.DataSetId), nil
	case SourceDeposit:
		return filepath.Join(dfr.Site.ArchiveRoot, "deposit", dfr.DataSetId), nil
	case SourceDepositUI:
		return filepath.Join(dfr.Site.ArchiveRoot, "deposit-ui", dfr.DataSetId), nil
	case SourcePickles:
		return filepath.Join(dfr.Site.ArchiveRoot, "deposit-ui", "temp_files", "deposition-v-200", dfr.DataSetId), nil
	case SourceTempDep:
		return filepath.Join(dfr.Site.ArchiveRoot, "tempdep", dfr.DataSetId), nil
	case SourceWfInstance:
		return filepath.Join(dfr.Site.ArchiveRoot, "workflow", dfr.DataSetId, "instance", dfr.WfInstanceId), nil
	case SourceSession:
		return dfr.SessionPath, nil
	}
	return "", errors.New(fmt.Sprint("invalid storage type ", dfr.StorageType))
}

// baseName is the file name without its version suffix.
func (dfr *DataFileReference) baseName(ctx context.Context) (string, error) {
	acronym, err := dfr.Site.Acronym(dfr.ContentType)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return "", err
	}
	ext, err := dfr.Site.ExtensionForFormat(dfr.FormatType)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return "", err
	}
	part := dfr.PartNumber
	if part < 1 {
		part = 1
	}
	return fmt.Sprintf("%s_%s_P%d.%s", dfr.DataSetId, acronym, part, ext), nil
}

// FileName resolves the full versioned file name. Version selectors
// latest, next and original are resolved against the target directory.
func (dfr *DataFileReference) FileName(ctx context.Context) (string, error) {
	base, err := dfr.baseName(ctx)
	if err != nil {
		return "", err
	}
	if dfr.VersionId == VersionNone {
		return base, nil
	}
	version, err := dfr.resolveVersion(ctx, base)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s.V%d", base, version), nil
}

// FilePath resolves the full versioned file path.
func (dfr *DataFileReference) FilePath(ctx context.Context) (string, error) {
	dirPath, err := dfr.DirPath(ctx)
	if err != nil {
		return "", err
	}
	fileName, err := dfr.FileName(ctx)
	if err != nil {
		return "", err
	}
	return filepath.Join(dirPath, fileName), nil
}

// VersionSearchTarget is the glob matching all versions of this file.
func (dfr *DataFileReference) VersionSearchTarget(ctx context.Context) (string, error) {
	base, err := dfr.baseName(ctx)
	if err != nil {
		return "", err
	}
	return base + ".V*", nil
}

// PartitionSearchTarget is the glob matching all partitions of this file.
func (dfr *DataFileReference) PartitionSearchTarget(ctx context.Context) (string, error) {
	acronym, err := dfr.Site.Acronym(dfr.ContentType)
	if err != nil {
		return "", err
	}
	ext, err := dfr.Site.ExtensionForFormat(dfr.FormatType)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%s_P*.%s.V*", dfr.DataSetId, acronym, ext), nil
}

// ContentTypeSearchTarget is the glob matching all formats and partitions
// of this content type.
func (dfr *DataFileReference) ContentTypeSearchTarget(ctx context.Context) (string, error) {
	acronym, err := dfr.Site.Acronym(dfr.ContentType)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%s_P*.*.V*", dfr.DataSetId, acronym), nil
}

func (dfr *DataFileReference) resolveVersion(ctx context.Context, base string) (int, error) {
	switch dfr.VersionId {
	case "", VersionLatest:
		latest := dfr.latestVersion(ctx, base)
		if latest == 0 {
			latest = 1
		}
		return latest, nil
	case VersionNext:
		return dfr.latestVersion(ctx, base) + 1, nil
	case VersionOriginal:
		return 1, nil
	default:
		version, err := strconv.Atoi(dfr.VersionId)
		if err != nil || version < 1 {
			err = errors.New(fmt.Sprint("invalid version id ", dfr.VersionId))
			logs.WithContext(ctx).Error(err.Error())
			return 0, err
		}
		return version, nil
	}
}

// latestVersion returns the greatest on-disk version of base, 0 when no
// version exists.
func (dfr *DataFileReference) latestVersion(ctx context.Context, base string) int {
	dirPath, err := dfr.DirPath(ctx)
	if err != nil {
		return 0
	}
	matches, err := filepath.Glob(filepath.Join(dirPath, base+".V*"))
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return 0
	}
	versions := make([]int, 0, len(matches))
	for _, m := range matches {
		idx := strings.LastIndex(m, ".V")
		if idx < 0 {
			continue
		}
		if v, vErr := strconv.Atoi(m[idx+2:]); vErr == nil {
			versions = append(versions, v)
		}
	}
	if len(versions) == 0 {
		return 0
	}
	sort.Ints(versions)
	return versions[len(versions)-1]
}
