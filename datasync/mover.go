package datasync

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gobwas/glob"

	logs "github.com/wwpdb/onedep-io/logs"
)

// DirStats summarises one directory tree.
type DirStats struct {
	FileCount int    `json:"file_count"`
	DirCount  int    `json:"dir_count"`
	ByteCount int64  `json:"byte_count"`
	HumanSize string `json:"human_size"`
}

// SyncResult reports one sync run.
type SyncResult struct {
	Source       string    `json:"source"`
	Destination  string    `json:"destination"`
	CopiedFiles  []string  `json:"copied_files"`
	SkippedFiles []string  `json:"skipped_files"`
	RemovedFiles []string  `json:"removed_files"`
	DryRun       bool      `json:"dry_run"`
	SourceStats  DirStats  `json:"source_stats"`
	DestStats    DirStats  `json:"dest_stats"`
	SyncTime     time.Time `json:"sync_time"`
}

// SyncOptions tunes one sync run. Patterns starting with "!" exclude
// matching relative paths, all others include; with no include patterns
// everything not excluded is copied.
type SyncOptions struct {
	Patterns []string
	DryRun   bool
	Delete   bool
}

// Mover copies directory trees, transferring only files that are newer
// and differ by checksum.
type Mover struct{}

func NewMover() *Mover {
	return &Mover{}
}

// humanSize renders a byte count in the largest fitting unit.
func humanSize(n int64) string {
	units := []string{"B", "KB", "MB", "GB", "TB", "PB"}
	size := float64(n)
	for _, u := range units {
		if size < 1024.0 || u == "PB" {
			return fmt.Sprintf("%.1f%s", size, u)
		}
		size /= 1024.0
	}
	return fmt.Sprintf("%.1fPB", size)
}

// Checksum returns the hex MD5 digest of a file.
func (mv *Mover) Checksum(ctx context.Context, filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return "", err
	}
	defer f.Close()
	h := md5.New()
	buf := make([]byte, 4096)
	for {
		n, rErr := f.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if rErr == io.EOF {
			break
		}
		if rErr != nil {
			logs.WithContext(ctx).Error(rErr.Error())
			return "", rErr
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Stats walks a directory tree and counts its files, directories and
// bytes.
func (mv *Mover) Stats(ctx context.Context, dirPath string) (DirStats, error) {
	stats := DirStats{}
	err := filepath.Walk(dirPath, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			if os.IsNotExist(walkErr) && path == dirPath {
				return nil
			}
			return walkErr
		}
		if info.IsDir() {
			if path != dirPath {
				stats.DirCount++
			}
			return nil
		}
		stats.FileCount++
		stats.ByteCount += info.Size()
		return nil
	})
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return stats, err
	}
	stats.HumanSize = humanSize(stats.ByteCount)
	return stats, nil
}

type patternSet struct {
	includes []glob.Glob
	excludes []glob.Glob
}

func compilePatterns(ctx context.Context, patterns []string) (*patternSet, error) {
	ps := &patternSet{}
	for _, p := range patterns {
		exclude := strings.HasPrefix(p, "!")
		g, err := glob.Compile(strings.TrimPrefix(p, "!"), '/')
		if err != nil {
			logs.WithContext(ctx).Error(err.Error())
			return nil, err
		}
		if exclude {
			ps.excludes = append(ps.excludes, g)
		} else {
			ps.includes = append(ps.includes, g)
		}
	}
	return ps, nil
}

func (ps *patternSet) match(relPath string) bool {
	for _, g := range ps.excludes {
		if g.Match(relPath) {
			return false
		}
	}
	if len(ps.includes) == 0 {
		return true
	}
	for _, g := range ps.includes {
		if g.Match(relPath) {
			return true
		}
	}
	return false
}

// needsCopy decides whether srcPath must be transferred to dstPath. A
// destination that is missing, older and different by checksum, gets the
// copy.
func (mv *Mover) needsCopy(ctx context.Context, srcPath string, srcInfo os.FileInfo, dstPath string) (bool, error) {
	dstInfo, err := os.Stat(dstPath)
	if os.IsNotExist(err) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	if !srcInfo.ModTime().After(dstInfo.ModTime()) {
		return false, nil
	}
	srcSum, err := mv.Checksum(ctx, srcPath)
	if err != nil {
		return false, err
	}
	dstSum, err := mv.Checksum(ctx, dstPath)
	if err != nil {
		return false, err
	}
	return srcSum != dstSum, nil
}

// copyFile writes to a temporary name first and renames into place so a
// failed transfer never leaves a partial file under the final name. The
// copy is verified by checksum.
func (mv *Mover) copyFile(ctx context.Context, srcPath string, dstPath string, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(dstPath), 0755); err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
	tmpPath := dstPath + ".partial"
	src, err := os.Open(srcPath)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
	defer src.Close()
	dst, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
	_, err = io.Copy(dst, src)
	if cErr := dst.Close(); err == nil {
		err = cErr
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
	srcSum, err := mv.Checksum(ctx, srcPath)
	if err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	tmpSum, err := mv.Checksum(ctx, tmpPath)
	if err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if srcSum != tmpSum {
		_ = os.Remove(tmpPath)
		err = errors.New(fmt.Sprint("checksum mismatch copying ", srcPath))
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
	srcInfo, err := os.Stat(srcPath)
	if err == nil {
		_ = os.Chtimes(tmpPath, srcInfo.ModTime(), srcInfo.ModTime())
	}
	return os.Rename(tmpPath, dstPath)
}

// Sync copies the contents of srcDir into dstDir. With Delete set,
// destination files absent from the source are removed.
func (mv *Mover) Sync(ctx context.Context, srcDir string, dstDir string, opts SyncOptions) (*SyncResult, error) {
	logs.WithContext(ctx).Debug("Sync - Start")
	result := &SyncResult{
		Source:      srcDir,
		Destination: dstDir,
		DryRun:      opts.DryRun,
		SyncTime:    time.Now(),
	}
	srcInfo, err := os.Stat(srcDir)
	if err != nil || !srcInfo.IsDir() {
		err = errors.New(fmt.Sprint("source directory ", srcDir, " does not exist"))
		logs.WithContext(ctx).Error(err.Error())
		return nil, err
	}
	ps, err := compilePatterns(ctx, opts.Patterns)
	if err != nil {
		return nil, err
	}
	result.SourceStats, err = mv.Stats(ctx, srcDir)
	if err != nil {
		return nil, err
	}

	err = filepath.Walk(srcDir, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if info.IsDir() {
			return nil
		}
		relPath, relErr := filepath.Rel(srcDir, path)
		if relErr != nil {
			return relErr
		}
		relPath = filepath.ToSlash(relPath)
		if !ps.match(relPath) {
			result.SkippedFiles = append(result.SkippedFiles, relPath)
			return nil
		}
		dstPath := filepath.Join(dstDir, filepath.FromSlash(relPath))
		copyIt, cErr := mv.needsCopy(ctx, path, info, dstPath)
		if cErr != nil {
			return cErr
		}
		if !copyIt {
			result.SkippedFiles = append(result.SkippedFiles, relPath)
			return nil
		}
		if !opts.DryRun {
			if cErr = mv.copyFile(ctx, path, dstPath, info.Mode().Perm()); cErr != nil {
				return cErr
			}
		}
		result.CopiedFiles = append(result.CopiedFiles, relPath)
		return nil
	})
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return nil, err
	}

	if opts.Delete {
		if err = mv.deleteExtra(ctx, srcDir, dstDir, opts.DryRun, result); err != nil {
			return nil, err
		}
	}

	result.DestStats, err = mv.Stats(ctx, dstDir)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (mv *Mover) deleteExtra(ctx context.Context, srcDir string, dstDir string, dryRun bool, result *SyncResult) error {
	if _, err := os.Stat(dstDir); os.IsNotExist(err) {
		return nil
	}
	return filepath.Walk(dstDir, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if info.IsDir() {
			return nil
		}
		relPath, relErr := filepath.Rel(dstDir, path)
		if relErr != nil {
			return relErr
		}
		if _, sErr := os.Stat(filepath.Join(srcDir, relPath)); os.IsNotExist(sErr) {
			if !dryRun {
				if rmErr := os.Remove(path); rmErr != nil {
					logs.WithContext(ctx).Error(rmErr.Error())
					return rmErr
				}
			}
			result.RemovedFiles = append(result.RemovedFiles, filepath.ToSlash(relPath))
		}
		return nil
	})
}
