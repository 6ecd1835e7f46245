package locator

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	logs "github.com/wwpdb/onedep-io/logs"
	"github.com/wwpdb/onedep-io/site_model"
)

// Release area versions and subdirectories.
const (
	ReleaseCurrent  = "current"
	ReleasePrevious = "previous"
)

var releaseSubDirs = []string{"added", "modified", "obsolete", "emd", "val-reports", "em-val-reports"}

// ReleasePathInfo resolves directories within the for-release staging
// area of a site.
type ReleasePathInfo struct {
	Site *site_model.Site
}

func NewReleasePathInfo(site *site_model.Site) *ReleasePathInfo {
	return &ReleasePathInfo{Site: site}
}

// ForReleasePath returns the staging directory for a release version and
// subdirectory. An accession, when given, is appended as the entry
// directory. version previous maps to the previous-cycle tree.
func (rpi *ReleasePathInfo) ForReleasePath(ctx context.Context, version string, subDir string, accession string) (string, error) {
	logs.WithContext(ctx).Debug("ForReleasePath - Start")
	basePath := rpi.Site.ForReleaseRoot
	switch version {
	case ReleaseCurrent:
	case ReleasePrevious:
		basePath = filepath.Join(basePath, "previous")
	default:
		err := errors.New(fmt.Sprint("invalid release version ", version))
		logs.WithContext(ctx).Error(err.Error())
		return "", err
	}
	if subDir != "" {
		found := false
		for _, d := range releaseSubDirs {
			if d == subDir {
				found = true
				break
			}
		}
		if !found {
			err := errors.New(fmt.Sprint("invalid release subdirectory ", subDir))
			logs.WithContext(ctx).Error(err.Error())
			return "", err
		}
		basePath = filepath.Join(basePath, subDir)
	}
	if accession != "" {
		basePath = filepath.Join(basePath, accession)
	}
	return basePath, nil
}

func (rpi *ReleasePathInfo) AddedPath(ctx context.Context, accession string) (string, error) {
	return rpi.ForReleasePath(ctx, ReleaseCurrent, "added", accession)
}

func (rpi *ReleasePathInfo) ModifiedPath(ctx context.Context, accession string) (string, error) {
	return rpi.ForReleasePath(ctx, ReleaseCurrent, "modified", accession)
}

func (rpi *ReleasePathInfo) ObsoletePath(ctx context.Context, accession string) (string, error) {
	return rpi.ForReleasePath(ctx, ReleaseCurrent, "obsolete", accession)
}

func (rpi *ReleasePathInfo) EmdPath(ctx context.Context, accession string) (string, error) {
	return rpi.ForReleasePath(ctx, ReleaseCurrent, "emd", accession)
}

func (rpi *ReleasePathInfo) ValReportsPath(ctx context.Context, accession string) (string, error) {
	return rpi.ForReleasePath(ctx, ReleaseCurrent, "val-reports", accession)
}

func (rpi *ReleasePathInfo) EmValReportsPath(ctx context.Context, accession string) (string, error) {
	return rpi.ForReleasePath(ctx, ReleaseCurrent, "em-val-reports", accession)
}

func (rpi *ReleasePathInfo) PreviousAddedPath(ctx context.Context, accession string) (string, error) {
	return rpi.ForReleasePath(ctx, ReleasePrevious, "added", accession)
}

func (rpi *ReleasePathInfo) PreviousModifiedPath(ctx context.Context, accession string) (string, error) {
	return rpi.ForReleasePath(ctx, ReleasePrevious, "modified", accession)
}
