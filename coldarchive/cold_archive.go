package coldarchive

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	logs "github.com/wwpdb/onedep-io/logs"
	"github.com/wwpdb/onedep-io/site_model"
)

// Notification statuses that keep a deposition out of the cold archive.
var blockedNotifyStatuses = map[string]bool{
	"*": true, "R*": true, "T*": true, "R": true, "TR": true,
	"T": true, "NT*": true, "NTR*": true, "NT": true, "NTR": true,
}

// StatusChecker reports the workflow state of a deposition. Depositions
// with pending notifications, held workflow locks or open communications
// must stay in the live archive.
type StatusChecker interface {
	NotifyStatus(ctx context.Context, dataSetId string) (string, error)
	LockingStatus(ctx context.Context, dataSetId string) (string, error)
	CommunicationStatus(ctx context.Context, dataSetId string) (string, error)
}

// ColdArchive moves inactive deposition directories between the live
// archive and a compressed cold archive tree.
type ColdArchive struct {
	Site     *site_model.Site
	Checker  StatusChecker
	archive  string
	coldPath string
}

// NewColdArchive wires the archive and cold archive directories of a
// site. Both directories must already exist.
func NewColdArchive(ctx context.Context, site *site_model.Site, checker StatusChecker) (*ColdArchive, error) {
	ca := &ColdArchive{
		Site:     site,
		Checker:  checker,
		archive:  filepath.Join(site.ArchiveRoot, "archive"),
		coldPath: filepath.Join(site.ArchiveRoot, "cold_archive"),
	}
	for _, d := range []string{ca.archive, ca.coldPath} {
		info, err := os.Stat(d)
		if err != nil || !info.IsDir() {
			err = errors.New(fmt.Sprint("required directory ", d, " does not exist"))
			logs.WithContext(ctx).Error(err.Error())
			return nil, err
		}
	}
	return ca, nil
}

func (ca *ColdArchive) archiveDir(dataSetId string) string {
	return filepath.Join(ca.archive, dataSetId)
}

func (ca *ColdArchive) tarballPath(dataSetId string) string {
	return filepath.Join(ca.coldPath, dataSetId+".tar.gz")
}

// IsCompressed reports whether a deposition already has a cold archive
// tarball.
func (ca *ColdArchive) IsCompressed(ctx context.Context, dataSetId string) bool {
	_, err := os.Stat(ca.tarballPath(dataSetId))
	return err == nil
}

// CanCompress checks the workflow gates that keep a deposition live.
func (ca *ColdArchive) CanCompress(ctx context.Context, dataSetId string) (bool, string, error) {
	logs.WithContext(ctx).Debug("CanCompress - Start")
	if ca.Checker == nil {
		return true, "", nil
	}
	notify, err := ca.Checker.NotifyStatus(ctx, dataSetId)
	if err != nil {
		return false, "", err
	}
	if blockedNotifyStatuses[notify] {
		return false, fmt.Sprint("pending notification status ", notify), nil
	}
	locking, err := ca.Checker.LockingStatus(ctx, dataSetId)
	if err != nil {
		return false, "", err
	}
	if strings.ToLower(locking) == "wfm" {
		return false, "locked by workflow manager", nil
	}
	communication, err := ca.Checker.CommunicationStatus(ctx, dataSetId)
	if err != nil {
		return false, "", err
	}
	if strings.ToLower(communication) == "working" {
		return false, "open communication in progress", nil
	}
	return true, "", nil
}

// Compress packs a deposition directory into the cold archive, verifies
// the tarball and removes the live directory.
func (ca *ColdArchive) Compress(ctx context.Context, dataSetId string, overwrite bool) error {
	logs.WithContext(ctx).Debug("Compress - Start")
	if !strings.HasPrefix(dataSetId, "D_") {
		err := errors.New(fmt.Sprint("invalid data set id ", dataSetId))
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
	ok, reason, err := ca.CanCompress(ctx, dataSetId)
	if err != nil {
		return err
	}
	if !ok {
		err = errors.New(fmt.Sprint("data set ", dataSetId, " cannot be compressed: ", reason))
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
	if ca.IsCompressed(ctx, dataSetId) && !overwrite {
		err = errors.New(fmt.Sprint("data set ", dataSetId, " is already compressed"))
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
	srcDir := ca.archiveDir(dataSetId)
	if _, err = os.Stat(srcDir); err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
	tarballPath := ca.tarballPath(dataSetId)
	err = ca.writeTarball(ctx, srcDir, dataSetId, tarballPath)
	if err != nil {
		_ = os.Remove(tarballPath)
		return err
	}
	if err = ca.CheckTarball(ctx, tarballPath); err != nil {
		_ = os.Remove(tarballPath)
		return err
	}
	err = os.RemoveAll(srcDir)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
	}
	return err
}

func (ca *ColdArchive) writeTarball(ctx context.Context, srcDir string, arcName string, tarballPath string) error {
	out, err := os.Create(tarballPath)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
	defer out.Close()
	gz := gzip.NewWriter(out)
	tw := tar.NewWriter(gz)

	err = filepath.Walk(srcDir, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		relPath, relErr := filepath.Rel(srcDir, path)
		if relErr != nil {
			return relErr
		}
		hdr, hdrErr := tar.FileInfoHeader(info, "")
		if hdrErr != nil {
			return hdrErr
		}
		hdr.Name = filepath.ToSlash(filepath.Join(arcName, relPath))
		if wErr := tw.WriteHeader(hdr); wErr != nil {
			return wErr
		}
		if info.Mode().IsRegular() {
			f, fErr := os.Open(path)
			if fErr != nil {
				return fErr
			}
			defer f.Close()
			if _, cErr := io.Copy(tw, f); cErr != nil {
				return cErr
			}
		}
		return nil
	})
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
	if err = tw.Close(); err != nil {
		return err
	}
	return gz.Close()
}

// CheckTarball verifies that every member of a tarball can be read back.
func (ca *ColdArchive) CheckTarball(ctx context.Context, tarballPath string) error {
	logs.WithContext(ctx).Debug("CheckTarball - Start")
	f, err := os.Open(tarballPath)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
	defer f.Close()
	gz, err := gzip.NewReader(f)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
	defer gz.Close()
	tr := tar.NewReader(gz)
	for {
		_, err = tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			logs.WithContext(ctx).Error(err.Error())
			return err
		}
		if _, err = io.Copy(io.Discard, tr); err != nil {
			logs.WithContext(ctx).Error(err.Error())
			return err
		}
	}
}

// Decompress restores a deposition directory from its cold archive
// tarball.
func (ca *ColdArchive) Decompress(ctx context.Context, dataSetId string, overwrite bool) error {
	logs.WithContext(ctx).Debug("Decompress - Start")
	tarballPath := ca.tarballPath(dataSetId)
	if _, err := os.Stat(tarballPath); err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
	destDir := ca.archiveDir(dataSetId)
	if _, err := os.Stat(destDir); err == nil && !overwrite {
		err = errors.New(fmt.Sprint("data set ", dataSetId, " already exists in the archive"))
		logs.WithContext(ctx).Error(err.Error())
		return err
	}

	f, err := os.Open(tarballPath)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
	defer f.Close()
	gz, err := gzip.NewReader(f)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
	defer gz.Close()
	tr := tar.NewReader(gz)
	for {
		hdr, nErr := tr.Next()
		if nErr == io.EOF {
			break
		}
		if nErr != nil {
			logs.WithContext(ctx).Error(nErr.Error())
			return nErr
		}
		// Member names are rooted at the data set id.
		target := filepath.Join(ca.archive, filepath.FromSlash(hdr.Name))
		if !strings.HasPrefix(target, ca.archive+string(os.PathSeparator)) {
			err = errors.New(fmt.Sprint("tarball member ", hdr.Name, " escapes the archive directory"))
			logs.WithContext(ctx).Error(err.Error())
			return err
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err = os.MkdirAll(target, os.FileMode(hdr.Mode)); err != nil {
				logs.WithContext(ctx).Error(err.Error())
				return err
			}
		case tar.TypeReg:
			if err = os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				logs.WithContext(ctx).Error(err.Error())
				return err
			}
			out, oErr := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, os.FileMode(hdr.Mode))
			if oErr != nil {
				logs.WithContext(ctx).Error(oErr.Error())
				return oErr
			}
			if _, cErr := io.Copy(out, tr); cErr != nil {
				_ = out.Close()
				logs.WithContext(ctx).Error(cErr.Error())
				return cErr
			}
			if cErr := out.Close(); cErr != nil {
				return cErr
			}
		}
	}
	return nil
}

// CompressedCount returns the number of tarballs held in the cold
// archive.
func (ca *ColdArchive) CompressedCount(ctx context.Context) (int, error) {
	logs.WithContext(ctx).Debug("CompressedCount - Start")
	count := 0
	err := filepath.Walk(ca.coldPath, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !info.IsDir() && strings.HasSuffix(info.Name(), ".tar.gz") {
			count++
		}
		return nil
	})
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return 0, err
	}
	return count, nil
}

// CompressedList returns the data set ids held in the cold archive.
func (ca *ColdArchive) CompressedList(ctx context.Context) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(ca.coldPath, "*.tar.gz"))
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return nil, err
	}
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, strings.TrimSuffix(filepath.Base(m), ".tar.gz"))
	}
	return ids, nil
}
