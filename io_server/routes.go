package io_server

import (
	"github.com/gorilla/mux"

	"github.com/wwpdb/onedep-io/io_server/handlers"
	"github.com/wwpdb/onedep-io/module_store"
)

// AddIoRoutes mounts the module routes on the server router.
func AddIoRoutes(serverRouter *mux.Router, sh *module_store.StoreHolder) {
	storeRouter := serverRouter.PathPrefix("/store").Subrouter()
	storeRouter.Methods("POST").Path("/save_site").HandlerFunc(handlers.SiteSaveHandler(sh))
	storeRouter.Methods("DELETE").Path("/remove_site/{site}").HandlerFunc(handlers.SiteRemoveHandler(sh))
	storeRouter.Methods("GET").Path("/site/{site}").HandlerFunc(handlers.SiteGetHandler(sh))
	storeRouter.Methods("GET").Path("/sites").HandlerFunc(handlers.SiteListHandler(sh))
	storeRouter.Methods("POST").Path("/compare_site/{site}").HandlerFunc(handlers.SiteCompareHandler(sh))
	storeRouter.Methods("POST").Path("/save_storage/{site}").HandlerFunc(handlers.StorageSaveHandler(sh))
	storeRouter.Methods("DELETE").Path("/remove_storage/{site}/{storagename}").HandlerFunc(handlers.StorageRemoveHandler(sh))
	storeRouter.Methods("POST").Path("/save_transfer_server/{site}/{servername}").HandlerFunc(handlers.TransferServerSaveHandler(sh))
	storeRouter.Methods("DELETE").Path("/remove_transfer_server/{site}/{servername}").HandlerFunc(handlers.TransferServerRemoveHandler(sh))

	fileRouter := serverRouter.PathPrefix("/files/{site}").Subrouter()
	fileRouter.Methods("POST").Path("/upload/{storagename}").HandlerFunc(handlers.FileUploadHandler(sh))
	fileRouter.Methods("POST").Path("/download/{storagename}").HandlerFunc(handlers.FileDownloadHandler(sh))

	locatorRouter := serverRouter.PathPrefix("/locator/{site}").Subrouter()
	locatorRouter.Methods("POST").Path("/file_path").HandlerFunc(handlers.FilePathHandler(sh))
	locatorRouter.Methods("GET").Path("/parse/{filename}").HandlerFunc(handlers.FileNameParseHandler(sh))
	locatorRouter.Methods("GET").Path("/release_names/{kind}/{accession}").HandlerFunc(handlers.ReleaseNameHandler(sh))
	locatorRouter.Methods("GET").Path("/release_path").HandlerFunc(handlers.ReleasePathHandler(sh))
	locatorRouter.Methods("GET").Path("/chem_ref/{id}").HandlerFunc(handlers.ChemRefPathHandler(sh))

	archiveRouter := serverRouter.PathPrefix("/archive/{site}").Subrouter()
	archiveRouter.Methods("POST").Path("/compress/{dataset}").HandlerFunc(handlers.ArchiveCompressHandler(sh))
	archiveRouter.Methods("POST").Path("/decompress/{dataset}").HandlerFunc(handlers.ArchiveDecompressHandler(sh))
	archiveRouter.Methods("GET").Path("/count").HandlerFunc(handlers.ArchiveCountHandler(sh))

	syncRouter := serverRouter.PathPrefix("/sync/{site}").Subrouter()
	syncRouter.Methods("POST").Path("/single/{dataset}/{direction}").HandlerFunc(handlers.SyncSingleHandler(sh))
	syncRouter.Methods("POST").Path("/expired").HandlerFunc(handlers.SyncExpiredHandler(sh))

	maintenanceRouter := serverRouter.PathPrefix("/maintenance/{site}").Subrouter()
	maintenanceRouter.Methods("POST").Path("/purge/{dataset}").HandlerFunc(handlers.MaintenancePurgeHandler(sh))
	maintenanceRouter.Methods("POST").Path("/purge_logs/{dataset}").HandlerFunc(handlers.MaintenancePurgeLogsHandler(sh))
}
