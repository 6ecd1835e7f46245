package module_store

import (
	"context"
	"errors"

	logs "github.com/wwpdb/onedep-io/logs"
	"github.com/wwpdb/onedep-io/store"
)

func (ms *ModuleFileStore) LoadStore(ctx context.Context, fp string, msi store.StoreI) (err error) {
	logs.WithContext(ctx).Debug("LoadStore - Start")
	b, err := ms.FileStore.GetStoreByteArray(ctx, fp)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
	moduleStore, ok := msi.(ModuleStoreI)
	if !ok {
		err = errors.New("store type assertion failed")
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
	return UnMarshalStore(ctx, b, moduleStore)
}

func (ms *ModuleDbStore) LoadStore(ctx context.Context, fp string, msi store.StoreI) (err error) {
	logs.WithContext(ctx).Debug("LoadStore - Start")
	b, err := ms.DbStore.GetStoreByteArray(ctx, fp)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
	moduleStore, ok := msi.(ModuleStoreI)
	if !ok {
		err = errors.New("store type assertion failed")
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
	return UnMarshalStore(ctx, b, moduleStore)
}
