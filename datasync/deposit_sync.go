package datasync

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/wwpdb/onedep-io/locator"
	logs "github.com/wwpdb/onedep-io/logs"
	"github.com/wwpdb/onedep-io/site_model"
)

// Sync directions between the archive host and the deposition host.
const (
	ToDeposit   = "to_deposit"
	FromDeposit = "from_deposit"
)

// SessionQuerier lists depositions whose UI sessions have gone stale.
type SessionQuerier interface {
	ExpiredDataSets(ctx context.Context, cutoffHours int) ([]string, error)
}

// DbSessionQuerier reads session ages from the site sessions database.
type DbSessionQuerier struct {
	Db *sqlx.DB
}

func NewDbSessionQuerier(ctx context.Context, site *site_model.Site) (*DbSessionQuerier, error) {
	logs.WithContext(ctx).Debug("NewDbSessionQuerier - Start")
	db, err := sqlx.Open("postgres", site.SessionsDb)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return nil, err
	}
	return &DbSessionQuerier{Db: db}, nil
}

func (sq *DbSessionQuerier) ExpiredDataSets(ctx context.Context, cutoffHours int) ([]string, error) {
	var ids []string
	err := sq.Db.SelectContext(ctx, &ids,
		"select dep_set_id from sessions where last_access < now() - ($1 * interval '1 hour')", cutoffHours)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return nil, err
	}
	return ids, nil
}

// DepositSync mirrors deposition UI directories between the archive tree
// and the deposition host tree mounted at RemoteRoot.
type DepositSync struct {
	Site       *site_model.Site
	RemoteRoot string
	Sessions   SessionQuerier
	mover      *Mover
}

func NewDepositSync(site *site_model.Site, remoteRoot string, sessions SessionQuerier) *DepositSync {
	return &DepositSync{Site: site, RemoteRoot: remoteRoot, Sessions: sessions, mover: NewMover()}
}

// pair returns the local and remote directories of one deposition for a
// file source.
func (ds *DepositSync) pair(ctx context.Context, dataSetId string, fileSource string) (string, string, error) {
	localPi := locator.NewPathInfo(ds.Site, "")
	localPath, err := localPi.DirPath(ctx, dataSetId, fileSource, "")
	if err != nil {
		return "", "", err
	}
	remoteSite := &site_model.Site{
		ArchiveRoot:      ds.RemoteRoot,
		ContentTypes:     ds.Site.ContentTypes,
		FormatExtensions: ds.Site.FormatExtensions,
	}
	remotePath, err := locator.NewPathInfo(remoteSite, "").DirPath(ctx, dataSetId, fileSource, "")
	if err != nil {
		return "", "", err
	}
	return localPath, remotePath, nil
}

// SyncSingle mirrors one deposition's UI directory and session pickle
// directory in the given direction.
func (ds *DepositSync) SyncSingle(ctx context.Context, dataSetId string, direction string, opts SyncOptions) ([]*SyncResult, error) {
	logs.WithContext(ctx).Debug("SyncSingle - Start")
	if !strings.HasPrefix(dataSetId, "D_") {
		err := errors.New(fmt.Sprint("invalid data set id ", dataSetId))
		logs.WithContext(ctx).Error(err.Error())
		return nil, err
	}
	if direction != ToDeposit && direction != FromDeposit {
		err := errors.New(fmt.Sprint("invalid sync direction ", direction))
		logs.WithContext(ctx).Error(err.Error())
		return nil, err
	}
	var results []*SyncResult
	for _, fileSource := range []string{locator.SourceDepositUI, locator.SourcePickles} {
		localPath, remotePath, err := ds.pair(ctx, dataSetId, fileSource)
		if err != nil {
			return nil, err
		}
		srcDir, dstDir := localPath, remotePath
		if direction == FromDeposit {
			srcDir, dstDir = remotePath, localPath
		}
		if _, err = os.Stat(srcDir); os.IsNotExist(err) {
			continue
		}
		result, err := ds.mover.Sync(ctx, srcDir, dstDir, opts)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

// SyncExpired pulls back every deposition whose UI session is older than
// cutoffHours.
func (ds *DepositSync) SyncExpired(ctx context.Context, cutoffHours int, opts SyncOptions) (map[string][]*SyncResult, error) {
	logs.WithContext(ctx).Debug("SyncExpired - Start")
	if ds.Sessions == nil {
		err := errors.New("session querier not configured")
		logs.WithContext(ctx).Error(err.Error())
		return nil, err
	}
	ids, err := ds.Sessions.ExpiredDataSets(ctx, cutoffHours)
	if err != nil {
		return nil, err
	}
	results := make(map[string][]*SyncResult)
	for _, dataSetId := range ids {
		rs, sErr := ds.SyncSingle(ctx, dataSetId, FromDeposit, opts)
		if sErr != nil {
			logs.WithContext(ctx).Error(fmt.Sprint("sync failed for ", dataSetId, ": ", sErr.Error()))
			continue
		}
		results[dataSetId] = rs
	}
	return results, nil
}
