package module_store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/gabriel-vasile/mimetype"

	logs "github.com/wwpdb/onedep-io/logs"
	"github.com/wwpdb/onedep-io/site_model"
	"github.com/wwpdb/onedep-io/storage"
	"github.com/wwpdb/onedep-io/store"
)

// StoreHolder carries the active store implementation through the
// handler closures.
type StoreHolder struct {
	Store ModuleStoreI
}

type ModuleStoreI interface {
	store.StoreI
	SaveSite(ctx context.Context, site *site_model.Site, realStore ModuleStoreI, persist bool) error
	RemoveSite(ctx context.Context, siteId string, realStore ModuleStoreI) error
	GetSiteConfig(ctx context.Context, siteId string) (*site_model.Site, error)
	GetSiteList(ctx context.Context) []string
	SaveStorage(ctx context.Context, storageObj storage.StorageI, siteId string, realStore ModuleStoreI, persist bool) error
	RemoveStorage(ctx context.Context, siteId string, storageName string, realStore ModuleStoreI) error
	SaveTransferServer(ctx context.Context, siteId string, serverName string, ts site_model.TransferServer, realStore ModuleStoreI, persist bool) error
	RemoveTransferServer(ctx context.Context, siteId string, serverName string, realStore ModuleStoreI) error
	CompareSite(ctx context.Context, siteId string, compareSite site_model.Site) (site_model.StoreCompare, error)
	UploadFile(ctx context.Context, siteId string, storageName string, file multipart.File, header *multipart.FileHeader, docType string, folderPath string) (string, error)
	UploadFileB64(ctx context.Context, siteId string, storageName string, file []byte, fileName string, docType string, folderPath string) (string, error)
	DownloadFile(ctx context.Context, siteId string, storageName string, folderPath string, fileName string) ([]byte, string, error)
}

type ModuleStore struct {
	Sites map[string]*site_model.Site `json:"sites"`
}

type ModuleFileStore struct {
	store.FileStore
	ModuleStore
}

type ModuleDbStore struct {
	store.DbStore
	ModuleStore
}

func (ms *ModuleStore) checkSiteExists(ctx context.Context, siteId string) error {
	_, ok := ms.Sites[siteId]
	if !ok {
		err := errors.New(fmt.Sprint("site ", siteId, " not found"))
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
	return nil
}

func (ms *ModuleStore) SaveSite(ctx context.Context, site *site_model.Site, realStore ModuleStoreI, persist bool) error {
	logs.WithContext(ctx).Debug("SaveSite - Start")
	if site.SiteId == "" {
		err := errors.New("site id missing")
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
	if ms.Sites == nil {
		ms.Sites = make(map[string]*site_model.Site)
	}
	if site.ContentTypes == nil {
		site.ContentTypes = site_model.DefaultContentTypes()
	}
	if site.FormatExtensions == nil {
		site.FormatExtensions = site_model.DefaultFormatExtensions()
	}
	ms.Sites[site.SiteId] = site
	if persist {
		return realStore.SaveStore(ctx, "", realStore)
	}
	return nil
}

func (ms *ModuleStore) RemoveSite(ctx context.Context, siteId string, realStore ModuleStoreI) error {
	logs.WithContext(ctx).Debug("RemoveSite - Start")
	if err := ms.checkSiteExists(ctx, siteId); err != nil {
		return err
	}
	delete(ms.Sites, siteId)
	return realStore.SaveStore(ctx, "", realStore)
}

func (ms *ModuleStore) GetSiteConfig(ctx context.Context, siteId string) (*site_model.Site, error) {
	logs.WithContext(ctx).Debug("GetSiteConfig - Start")
	if err := ms.checkSiteExists(ctx, siteId); err != nil {
		return nil, err
	}
	return ms.Sites[siteId], nil
}

func (ms *ModuleStore) GetSiteList(ctx context.Context) []string {
	logs.WithContext(ctx).Debug("GetSiteList - Start")
	var siteIds []string
	for siteId := range ms.Sites {
		siteIds = append(siteIds, siteId)
	}
	return siteIds
}

func (ms *ModuleStore) SaveStorage(ctx context.Context, storageObj storage.StorageI, siteId string, realStore ModuleStoreI, persist bool) error {
	logs.WithContext(ctx).Debug("SaveStorage - Start")
	if err := ms.checkSiteExists(ctx, siteId); err != nil {
		return err
	}
	err := ms.Sites[siteId].AddStorage(ctx, storageObj)
	if err != nil {
		return err
	}
	if persist {
		return realStore.SaveStore(ctx, "", realStore)
	}
	return nil
}

func (ms *ModuleStore) RemoveStorage(ctx context.Context, siteId string, storageName string, realStore ModuleStoreI) error {
	logs.WithContext(ctx).Debug("RemoveStorage - Start")
	if err := ms.checkSiteExists(ctx, siteId); err != nil {
		return err
	}
	if _, ok := ms.Sites[siteId].Storages[storageName]; !ok {
		err := errors.New(fmt.Sprint("storage ", storageName, " not found"))
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
	delete(ms.Sites[siteId].Storages, storageName)
	return realStore.SaveStore(ctx, "", realStore)
}

func (ms *ModuleStore) SaveTransferServer(ctx context.Context, siteId string, serverName string, ts site_model.TransferServer, realStore ModuleStoreI, persist bool) error {
	logs.WithContext(ctx).Debug("SaveTransferServer - Start")
	if err := ms.checkSiteExists(ctx, siteId); err != nil {
		return err
	}
	ms.Sites[siteId].AddTransferServer(ctx, serverName, ts)
	if persist {
		return realStore.SaveStore(ctx, "", realStore)
	}
	return nil
}

func (ms *ModuleStore) RemoveTransferServer(ctx context.Context, siteId string, serverName string, realStore ModuleStoreI) error {
	logs.WithContext(ctx).Debug("RemoveTransferServer - Start")
	if err := ms.checkSiteExists(ctx, siteId); err != nil {
		return err
	}
	if _, ok := ms.Sites[siteId].TransferServers[serverName]; !ok {
		err := errors.New(fmt.Sprint("transfer server ", serverName, " not found"))
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
	delete(ms.Sites[siteId].TransferServers, serverName)
	return realStore.SaveStore(ctx, "", realStore)
}

func (ms *ModuleStore) CompareSite(ctx context.Context, siteId string, compareSite site_model.Site) (site_model.StoreCompare, error) {
	logs.WithContext(ctx).Debug("CompareSite - Start")
	if err := ms.checkSiteExists(ctx, siteId); err != nil {
		return site_model.StoreCompare{}, err
	}
	return ms.Sites[siteId].CompareSite(ctx, compareSite)
}

func (ms *ModuleStore) getStorage(ctx context.Context, siteId string, storageName string) (storage.StorageI, error) {
	if err := ms.checkSiteExists(ctx, siteId); err != nil {
		return nil, err
	}
	storageObj, ok := ms.Sites[siteId].Storages[storageName]
	if !ok {
		err := errors.New(fmt.Sprint("storage ", storageName, " not found"))
		logs.WithContext(ctx).Error(err.Error())
		return nil, err
	}
	return storageObj, nil
}

func (ms *ModuleStore) UploadFile(ctx context.Context, siteId string, storageName string, file multipart.File, header *multipart.FileHeader, docType string, folderPath string) (string, error) {
	logs.WithContext(ctx).Debug("UploadFile - Start")
	storageObj, err := ms.getStorage(ctx, siteId, storageName)
	if err != nil {
		return "", err
	}
	return storageObj.UploadFile(ctx, file, header, docType, folderPath)
}

func (ms *ModuleStore) UploadFileB64(ctx context.Context, siteId string, storageName string, file []byte, fileName string, docType string, folderPath string) (string, error) {
	logs.WithContext(ctx).Debug("UploadFileB64 - Start")
	storageObj, err := ms.getStorage(ctx, siteId, storageName)
	if err != nil {
		return "", err
	}
	return storageObj.UploadFileB64(ctx, file, fileName, docType, folderPath)
}

// DownloadFile fetches a stored file and sniffs its content type.
func (ms *ModuleStore) DownloadFile(ctx context.Context, siteId string, storageName string, folderPath string, fileName string) ([]byte, string, error) {
	logs.WithContext(ctx).Debug("DownloadFile - Start")
	storageObj, err := ms.getStorage(ctx, siteId, storageName)
	if err != nil {
		return nil, "", err
	}
	file, err := storageObj.DownloadFile(ctx, folderPath, fileName)
	if err != nil {
		return nil, "", err
	}
	mime := mimetype.Detect(file)
	return file, mime.String(), nil
}

// marshalling helpers shared by the file and db stores

type siteJson struct {
	SiteId           string                               `json:"site_id"`
	ArchiveRoot      string                               `json:"archive_root"`
	SessionRoot      string                               `json:"session_root"`
	ForReleaseRoot   string                               `json:"for_release_root"`
	FtpPdbRoot       string                               `json:"ftp_pdb_root"`
	FtpEmdbRoot      string                               `json:"ftp_emdb_root"`
	ChemRef          site_model.ChemRefConfig             `json:"chem_ref"`
	ContentTypes     map[string]site_model.ContentType    `json:"content_types"`
	FormatExtensions map[string]string                    `json:"format_extensions"`
	Storages         map[string]*json.RawMessage          `json:"storages"`
	TransferServers  map[string]site_model.TransferServer `json:"transfer_servers"`
	Notify           site_model.NotifyConfig              `json:"notify"`
	StatusDb         string                               `json:"status_db"`
	SessionsDb       string                               `json:"sessions_db"`
}

// UnMarshalStore rebuilds a module store from its persisted JSON. The
// storage entries carry their concrete type, so each is re-hydrated
// through the storage factory.
func UnMarshalStore(ctx context.Context, b []byte, msi ModuleStoreI) error {
	logs.WithContext(ctx).Debug("UnMarshalStore - Start")
	var storeMap map[string]*json.RawMessage
	err := json.Unmarshal(b, &storeMap)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
	sitesRaw, ok := storeMap["sites"]
	if !ok || sitesRaw == nil {
		return nil
	}
	var sites map[string]*json.RawMessage
	err = json.Unmarshal(*sitesRaw, &sites)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
	for siteId, siteRaw := range sites {
		if siteRaw == nil {
			continue
		}
		var sj siteJson
		err = json.Unmarshal(*siteRaw, &sj)
		if err != nil {
			logs.WithContext(ctx).Error(err.Error())
			return err
		}
		site := &site_model.Site{
			SiteId:           sj.SiteId,
			ArchiveRoot:      sj.ArchiveRoot,
			SessionRoot:      sj.SessionRoot,
			ForReleaseRoot:   sj.ForReleaseRoot,
			FtpPdbRoot:       sj.FtpPdbRoot,
			FtpEmdbRoot:      sj.FtpEmdbRoot,
			ChemRef:          sj.ChemRef,
			ContentTypes:     sj.ContentTypes,
			FormatExtensions: sj.FormatExtensions,
			TransferServers:  sj.TransferServers,
			Notify:           sj.Notify,
			StatusDb:         sj.StatusDb,
			SessionsDb:       sj.SessionsDb,
		}
		if site.SiteId == "" {
			site.SiteId = siteId
		}
		for _, storageRaw := range sj.Storages {
			if storageRaw == nil {
				continue
			}
			var header struct {
				StorageType string `json:"storage_type"`
			}
			err = json.Unmarshal(*storageRaw, &header)
			if err != nil {
				logs.WithContext(ctx).Error(err.Error())
				return err
			}
			storageObj := storage.GetStorage(header.StorageType)
			if storageObj == nil {
				err = errors.New(fmt.Sprint("unknown storage type ", header.StorageType))
				logs.WithContext(ctx).Error(err.Error())
				return err
			}
			err = storageObj.MakeFromJson(ctx, storageRaw)
			if err != nil {
				return err
			}
			if err = site.AddStorage(ctx, storageObj); err != nil {
				return err
			}
		}
		if err = msi.SaveSite(ctx, site, msi, false); err != nil {
			return err
		}
	}
	return nil
}
