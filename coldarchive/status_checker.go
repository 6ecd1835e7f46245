package coldarchive

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	logs "github.com/wwpdb/onedep-io/logs"
	"github.com/wwpdb/onedep-io/site_model"
)

// DbStatusChecker reads deposition workflow state from the site status
// database.
type DbStatusChecker struct {
	Db *sqlx.DB
}

func NewDbStatusChecker(ctx context.Context, site *site_model.Site) (*DbStatusChecker, error) {
	logs.WithContext(ctx).Debug("NewDbStatusChecker - Start")
	db, err := sqlx.Open("postgres", site.StatusDb)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return nil, err
	}
	return &DbStatusChecker{Db: db}, nil
}

func (sc *DbStatusChecker) queryValue(ctx context.Context, query string, dataSetId string) (string, error) {
	var value sql.NullString
	err := sc.Db.QueryRowxContext(ctx, query, dataSetId).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return "", err
	}
	return value.String, nil
}

func (sc *DbStatusChecker) NotifyStatus(ctx context.Context, dataSetId string) (string, error) {
	return sc.queryValue(ctx, "select notify from deposition where dep_set_id = $1", dataSetId)
}

func (sc *DbStatusChecker) LockingStatus(ctx context.Context, dataSetId string) (string, error) {
	return sc.queryValue(ctx, "select locking from deposition where dep_set_id = $1", dataSetId)
}

func (sc *DbStatusChecker) CommunicationStatus(ctx context.Context, dataSetId string) (string, error) {
	return sc.queryValue(ctx,
		"select status from communication where dep_set_id = $1 order by ordinal desc limit 1", dataSetId)
}
