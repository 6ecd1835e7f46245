package io_server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	logs "github.com/wwpdb/onedep-io/logs"
	"github.com/wwpdb/onedep-io/module_store"
)

const StoreTableName = "onedepio_config"

// StartUp loads the module store named by STORE_TYPE: STANDALONE keeps a
// JSON file next to the binary, POSTGRES a single-row config table.
func StartUp() (module_store.ModuleStoreI, error) {
	ctx := logs.NewContext(context.Background())
	logs.WithContext(ctx).Debug("StartUp - Start")
	storeType := strings.ToUpper(os.Getenv("STORE_TYPE"))
	if storeType == "" {
		storeType = "STANDALONE"
	}
	var myPr module_store.ModuleStoreI
	switch storeType {
	case "POSTGRES":
		myStore := new(module_store.ModuleDbStore)
		myStore.SetDbType("postgres")
		myStore.SetStoreTableName(StoreTableName)
		myPr = myStore
	case "STANDALONE":
		myPr = new(module_store.ModuleFileStore)
	default:
		err := errors.New(fmt.Sprint("invalid store type ", storeType))
		logs.WithContext(ctx).Error(err.Error())
		return nil, err
	}
	err := myPr.LoadStore(ctx, "", myPr)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return nil, err
	}
	return myPr, nil
}
