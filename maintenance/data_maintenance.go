package maintenance

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/wwpdb/onedep-io/locator"
	logs "github.com/wwpdb/onedep-io/logs"
	"github.com/wwpdb/onedep-io/site_model"
)

// Purge strategies. Experimental data keeps the two earliest versions
// compressed, reports keep only the earliest.
const (
	StrategyExp    = "exp"
	StrategyReport = "report"
)

// Content types purged with the experimental strategy.
var expContentTypes = map[string]bool{
	"model":               true,
	"structure-factors":   true,
	"nmr-restraints":      true,
	"nmr-chemical-shifts": true,
}

// PurgeResult lists the actions of one purge run. In test mode the
// files are reported but left untouched.
type PurgeResult struct {
	Compressed []string `json:"compressed"`
	Removed    []string `json:"removed"`
	TestMode   bool     `json:"test_mode"`
}

// DataMaintenance prunes old file versions and workflow debris from the
// archive of a site.
type DataMaintenance struct {
	Site     *site_model.Site
	TestMode bool
}

func NewDataMaintenance(site *site_model.Site, testMode bool) *DataMaintenance {
	return &DataMaintenance{Site: site, TestMode: testMode}
}

// versionOf extracts the version number from a versioned file name. A
// trailing non-digit character after the number is tolerated.
func versionOf(fileName string) (int, bool) {
	idx := strings.LastIndex(fileName, ".V")
	if idx < 0 {
		return 0, false
	}
	v := fileName[idx+2:]
	for len(v) > 0 && (v[len(v)-1] < '0' || v[len(v)-1] > '9') {
		v = v[:len(v)-1]
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// sortVersionsDescending orders versioned paths highest version first.
func sortVersionsDescending(paths []string) {
	sort.Slice(paths, func(i, j int) bool {
		vi, _ := versionOf(paths[i])
		vj, _ := versionOf(paths[j])
		return vi > vj
	})
}

// VersionFileList returns all versions of one typed file, highest
// version first.
func (dm *DataMaintenance) VersionFileList(ctx context.Context, dataSetId string, contentType string, formatType string, partNumber int) ([]string, error) {
	logs.WithContext(ctx).Debug("VersionFileList - Start")
	pi := locator.NewPathInfo(dm.Site, "")
	pattern, err := pi.FilePathVersionTemplate(ctx, dataSetId, "", contentType, formatType, locator.SourceArchive, partNumber, "")
	if err != nil {
		return nil, err
	}
	matches, err := filepath.Glob(pattern)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return nil, err
	}
	sortVersionsDescending(matches)
	return matches, nil
}

// ContentTypeFileList returns all files of one content type, any format
// or partition, highest version first.
func (dm *DataMaintenance) ContentTypeFileList(ctx context.Context, dataSetId string, contentType string) ([]string, error) {
	logs.WithContext(ctx).Debug("ContentTypeFileList - Start")
	pi := locator.NewPathInfo(dm.Site, "")
	pattern, err := pi.FilePathContentTypeTemplate(ctx, dataSetId, "", contentType, locator.SourceArchive)
	if err != nil {
		return nil, err
	}
	matches, err := filepath.Glob(pattern)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return nil, err
	}
	sortVersionsDescending(matches)
	return matches, nil
}

// PurgeCandidates splits a descending version list into files to
// compress and files to remove. The latest version is always kept as is.
func PurgeCandidates(versionList []string, strategy string) (gzList []string, rmList []string) {
	n := len(versionList)
	if n < 2 {
		return nil, nil
	}
	if strategy == StrategyExp {
		switch {
		case n == 2:
			gzList = []string{versionList[1]}
		case n == 3:
			gzList = []string{versionList[1], versionList[2]}
		default:
			gzList = []string{versionList[n-2], versionList[n-1]}
			rmList = append(rmList, versionList[1:n-2]...)
		}
		return gzList, rmList
	}
	if n == 2 {
		return []string{versionList[1]}, nil
	}
	gzList = []string{versionList[n-1]}
	rmList = append(rmList, versionList[1:n-1]...)
	return gzList, rmList
}

// StrategyFor picks the purge strategy of a content type.
func StrategyFor(contentType string) string {
	if expContentTypes[contentType] {
		return StrategyExp
	}
	return StrategyReport
}

// PurgeVersions prunes old versions of one typed file: the latest stays,
// early versions are gzipped in place, intermediates are removed.
func (dm *DataMaintenance) PurgeVersions(ctx context.Context, dataSetId string, contentType string, formatType string, partNumber int) (*PurgeResult, error) {
	logs.WithContext(ctx).Debug("PurgeVersions - Start")
	versionList, err := dm.VersionFileList(ctx, dataSetId, contentType, formatType, partNumber)
	if err != nil {
		return nil, err
	}
	gzList, rmList := PurgeCandidates(versionList, StrategyFor(contentType))
	result := &PurgeResult{Compressed: gzList, Removed: rmList, TestMode: dm.TestMode}
	if dm.TestMode {
		return result, nil
	}
	for _, p := range gzList {
		if err = gzipFile(ctx, p); err != nil {
			return result, err
		}
	}
	for _, p := range rmList {
		if err = os.Remove(p); err != nil {
			logs.WithContext(ctx).Error(err.Error())
			return result, err
		}
	}
	return result, nil
}

// PurgeLogs removes the log files of one archived deposition.
func (dm *DataMaintenance) PurgeLogs(ctx context.Context, dataSetId string) ([]string, error) {
	logs.WithContext(ctx).Debug("PurgeLogs - Start")
	pattern := filepath.Join(dm.Site.ArchiveRoot, "archive", dataSetId, "log", "*log")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return nil, err
	}
	if dm.TestMode {
		return matches, nil
	}
	for _, p := range matches {
		if err = os.Remove(p); err != nil {
			logs.WithContext(ctx).Error(err.Error())
			return matches, err
		}
	}
	return matches, nil
}

// GetLogFiles lists the log files directly in a directory and in its log
// subdirectory.
func (dm *DataMaintenance) GetLogFiles(ctx context.Context, dirPath string) ([]string, error) {
	var found []string
	for _, pattern := range []string{filepath.Join(dirPath, "*log"), filepath.Join(dirPath, "log", "*")} {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			logs.WithContext(ctx).Error(err.Error())
			return nil, err
		}
		found = append(found, matches...)
	}
	return found, nil
}

// ReversePurge removes every version of one typed file except the first.
func (dm *DataMaintenance) ReversePurge(ctx context.Context, dataSetId string, contentType string, formatType string, partNumber int) ([]string, error) {
	logs.WithContext(ctx).Debug("ReversePurge - Start")
	versionList, err := dm.VersionFileList(ctx, dataSetId, contentType, formatType, partNumber)
	if err != nil {
		return nil, err
	}
	var removed []string
	for _, p := range versionList {
		v, ok := versionOf(p)
		if !ok || v == 1 {
			continue
		}
		removed = append(removed, p)
	}
	if dm.TestMode {
		return removed, nil
	}
	for _, p := range removed {
		if err = os.Remove(p); err != nil {
			logs.WithContext(ctx).Error(err.Error())
			return removed, err
		}
	}
	return removed, nil
}

// RemoveWorkflowDir deletes the workflow tree of a deposition. Only full
// deposition ids are accepted.
func (dm *DataMaintenance) RemoveWorkflowDir(ctx context.Context, dataSetId string) error {
	logs.WithContext(ctx).Debug("RemoveWorkflowDir - Start")
	if !strings.HasPrefix(dataSetId, "D_") || len(dataSetId) <= 10 {
		err := errors.New(fmt.Sprint("invalid data set id ", dataSetId))
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
	wfDir := filepath.Join(dm.Site.ArchiveRoot, "workflow", dataSetId)
	if dm.TestMode {
		return nil
	}
	err := os.RemoveAll(wfDir)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
	}
	return err
}

// SnapshotPairs returns (gzPath, restoredPath) pairs for every gzipped
// file in a directory tree.
func (dm *DataMaintenance) SnapshotPairs(ctx context.Context, dirPath string) ([][2]string, error) {
	var pairs [][2]string
	err := filepath.Walk(dirPath, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !info.IsDir() && strings.HasSuffix(path, ".gz") {
			pairs = append(pairs, [2]string{path, strings.TrimSuffix(path, ".gz")})
		}
		return nil
	})
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return nil, err
	}
	return pairs, nil
}

// RecoverPurged restores every gzipped file in a directory tree to its
// uncompressed name.
func (dm *DataMaintenance) RecoverPurged(ctx context.Context, dirPath string) ([]string, error) {
	logs.WithContext(ctx).Debug("RecoverPurged - Start")
	pairs, err := dm.SnapshotPairs(ctx, dirPath)
	if err != nil {
		return nil, err
	}
	var restored []string
	for _, pair := range pairs {
		if dm.TestMode {
			restored = append(restored, pair[1])
			continue
		}
		if err = gunzipFile(ctx, pair[0], pair[1]); err != nil {
			return restored, err
		}
		restored = append(restored, pair[1])
	}
	return restored, nil
}

// gzipFile compresses a file in place, replacing it with path.gz.
func gzipFile(ctx context.Context, path string) error {
	src, err := os.Open(path)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
	defer src.Close()
	out, err := os.Create(path + ".gz")
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
	gz := gzip.NewWriter(out)
	_, err = io.Copy(gz, src)
	if cErr := gz.Close(); err == nil {
		err = cErr
	}
	if cErr := out.Close(); err == nil {
		err = cErr
	}
	if err != nil {
		_ = os.Remove(path + ".gz")
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
	return os.Remove(path)
}

// gunzipFile restores gzPath to destPath and removes the gzip file.
func gunzipFile(ctx context.Context, gzPath string, destPath string) error {
	src, err := os.Open(gzPath)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
	defer src.Close()
	gz, err := gzip.NewReader(src)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
	defer gz.Close()
	out, err := os.Create(destPath)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
	_, err = io.Copy(out, gz)
	if cErr := out.Close(); err == nil {
		err = cErr
	}
	if err != nil {
		_ = os.Remove(destPath)
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
	return os.Remove(gzPath)
}
