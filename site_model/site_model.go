package site_model

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	logs "github.com/wwpdb/onedep-io/logs"
	"github.com/wwpdb/onedep-io/storage"
	utils "github.com/wwpdb/onedep-io/utils"
)

type StoreCompare struct {
	DeleteStorages          []string               `json:"delete_storages"`
	NewStorages             []string               `json:"new_storages"`
	MismatchStorages        map[string]interface{} `json:"mismatch_storages"`
	DeleteTransferServers   []string               `json:"delete_transfer_servers"`
	NewTransferServers      []string               `json:"new_transfer_servers"`
	MismatchTransferServers map[string]interface{} `json:"mismatch_transfer_servers"`
}

// ContentType describes one typed data file kind: the acronym used in
// repository file names and the formats it may be stored in.
type ContentType struct {
	Acronym string   `json:"acronym"`
	Formats []string `json:"formats"`
}

type ChemRefConfig struct {
	CcRoot            string `json:"cc_root"`
	PrdRoot           string `json:"prd_root"`
	PrdccRoot         string `json:"prdcc_root"`
	FamilyRoot        string `json:"family_root"`
	CcProjectName     string `json:"cc_project_name"`
	PrdProjectName    string `json:"prd_project_name"`
	PrdccProjectName  string `json:"prdcc_project_name"`
	FamilyProjectName string `json:"family_project_name"`
}

type TransferServer struct {
	HostName    string `json:"host_name"`
	HostPort    int    `json:"host_port"`
	UserName    string `json:"host_username"`
	Password    string `json:"host_password"`
	Protocol    string `json:"host_protocol"`
	RootPath    string `json:"host_root_path"`
	KeyFilePath string `json:"host_key_file_path"`
}

type NotifyConfig struct {
	MailServer    string `json:"mail_server"`
	NoReplyFrom   string `json:"noreply_address"`
	SystemNotify  string `json:"system_notification_address"`
}

// Site holds the storage roots and dictionaries for one deposition site.
type Site struct {
	SiteId           string                      `json:"site_id"`
	ArchiveRoot      string                      `json:"archive_root"`
	SessionRoot      string                      `json:"session_root"`
	ForReleaseRoot   string                      `json:"for_release_root"`
	FtpPdbRoot       string                      `json:"ftp_pdb_root"`
	FtpEmdbRoot      string                      `json:"ftp_emdb_root"`
	ChemRef          ChemRefConfig               `json:"chem_ref"`
	ContentTypes     map[string]ContentType      `json:"content_types"`
	FormatExtensions map[string]string           `json:"format_extensions"`
	Storages         map[string]storage.StorageI `json:"storages"`
	TransferServers  map[string]TransferServer   `json:"transfer_servers"`
	Notify           NotifyConfig                `json:"notify"`
	StatusDb         string                      `json:"status_db"`
	SessionsDb       string                      `json:"sessions_db"`
}

// Milestones are the content type variants recognised as suffixes of a
// base content type (e.g. model-annotate).
var Milestones = []string{"deposit", "upload-convert", "upload", "annotate", "review", "release"}

func (site *Site) AddStorage(ctx context.Context, storageObjI storage.StorageI) error {
	logs.WithContext(ctx).Debug("AddStorage - Start")
	storageName, err := storageObjI.GetAttribute("storage_name")
	if err == nil {
		if site.Storages == nil {
			site.Storages = make(map[string]storage.StorageI)
		}
		site.Storages[storageName.(string)] = storageObjI
		return nil
	}
	return err
}

func (site *Site) AddTransferServer(ctx context.Context, serverName string, ts TransferServer) {
	logs.WithContext(ctx).Debug("AddTransferServer - Start")
	if site.TransferServers == nil {
		site.TransferServers = make(map[string]TransferServer)
	}
	site.TransferServers[serverName] = ts
}

func (site *Site) GetTransferServer(ctx context.Context, serverName string) (TransferServer, error) {
	if ts, ok := site.TransferServers[serverName]; ok {
		return ts, nil
	}
	err := errors.New(fmt.Sprint("transfer server ", serverName, " not found"))
	logs.WithContext(ctx).Error(err.Error())
	return TransferServer{}, err
}

// ContentTypeDef resolves a content type, including milestone variants of a
// base type that is present in the dictionary.
func (site *Site) ContentTypeDef(contentType string) (ContentType, bool) {
	if ct, ok := site.ContentTypes[contentType]; ok {
		return ct, true
	}
	for _, m := range Milestones {
		suffix := "-" + m
		if strings.HasSuffix(contentType, suffix) {
			base := strings.TrimSuffix(contentType, suffix)
			if ct, ok := site.ContentTypes[base]; ok {
				return ContentType{Acronym: ct.Acronym + suffix, Formats: ct.Formats}, true
			}
		}
	}
	return ContentType{}, false
}

func (site *Site) Acronym(contentType string) (string, error) {
	if ct, ok := site.ContentTypeDef(contentType); ok {
		return ct.Acronym, nil
	}
	return "", errors.New(fmt.Sprint("unknown content type ", contentType))
}

func (site *Site) ContentTypeForAcronym(acronym string) (string, error) {
	for name, ct := range site.ContentTypes {
		if ct.Acronym == acronym {
			return name, nil
		}
	}
	for _, m := range Milestones {
		suffix := "-" + m
		if strings.HasSuffix(acronym, suffix) {
			base := strings.TrimSuffix(acronym, suffix)
			for name, ct := range site.ContentTypes {
				if ct.Acronym == base {
					return name + suffix, nil
				}
			}
		}
	}
	return "", errors.New(fmt.Sprint("unknown content acronym ", acronym))
}

func (site *Site) ExtensionForFormat(formatType string) (string, error) {
	if ext, ok := site.FormatExtensions[formatType]; ok {
		return ext, nil
	}
	return "", errors.New(fmt.Sprint("unknown format type ", formatType))
}

// FormatForExtension picks the format whose registered extension matches,
// preferring the formats allowed for the given content type.
func (site *Site) FormatForExtension(extension string, contentType string) (string, error) {
	if ct, ok := site.ContentTypeDef(contentType); ok {
		for _, f := range ct.Formats {
			if site.FormatExtensions[f] == extension {
				return f, nil
			}
		}
	}
	for _, f := range formatPreference {
		if site.FormatExtensions[f] == extension {
			return f, nil
		}
	}
	for f, ext := range site.FormatExtensions {
		if ext == extension {
			return f, nil
		}
	}
	return "", errors.New(fmt.Sprint("unknown file extension ", extension))
}

var formatPreference = []string{"pdbx", "pdb", "pdbml", "nmr-star", "map", "mtz", "pic", "json", "txt", "xml"}

func (site *Site) CompareSite(ctx context.Context, compareSite Site) (StoreCompare, error) {
	logs.WithContext(ctx).Debug("CompareSite - Start")
	storeCompare := StoreCompare{}
	for _, ms := range site.Storages {
		msNameI, _ := ms.GetAttribute("storage_name")
		msName := msNameI.(string)
		var diffR utils.DiffReporter
		sFound := false
		for _, cs := range compareSite.Storages {
			csNameI, _ := cs.GetAttribute("storage_name")
			csName := csNameI.(string)
			if msName == csName {
				sFound = true
				if !cmp.Equal(ms, cs, cmpopts.IgnoreUnexported(storage.AwsStorage{}), cmp.Reporter(&diffR)) {
					if storeCompare.MismatchStorages == nil {
						storeCompare.MismatchStorages = make(map[string]interface{})
					}
					storeCompare.MismatchStorages[msName] = diffR.Output()
				}
				break
			}
		}
		if !sFound {
			storeCompare.DeleteStorages = append(storeCompare.DeleteStorages, msName)
		}
	}

	for _, cs := range compareSite.Storages {
		csNameI, _ := cs.GetAttribute("storage_name")
		csName := csNameI.(string)
		sFound := false
		for _, ms := range site.Storages {
			msNameI, _ := ms.GetAttribute("storage_name")
			msName := msNameI.(string)
			if msName == csName {
				sFound = true
				break
			}
		}
		if !sFound {
			storeCompare.NewStorages = append(storeCompare.NewStorages, csName)
		}
	}

	for tsName, ts := range site.TransferServers {
		var diffR utils.DiffReporter
		if cts, ok := compareSite.TransferServers[tsName]; ok {
			if !cmp.Equal(ts, cts, cmp.Reporter(&diffR)) {
				if storeCompare.MismatchTransferServers == nil {
					storeCompare.MismatchTransferServers = make(map[string]interface{})
				}
				storeCompare.MismatchTransferServers[tsName] = diffR.Output()
			}
		} else {
			storeCompare.DeleteTransferServers = append(storeCompare.DeleteTransferServers, tsName)
		}
	}
	for tsName := range compareSite.TransferServers {
		if _, ok := site.TransferServers[tsName]; !ok {
			storeCompare.NewTransferServers = append(storeCompare.NewTransferServers, tsName)
		}
	}

	return storeCompare, nil
}
