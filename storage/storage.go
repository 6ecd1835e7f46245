package storage

import (
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"

	logs "github.com/wwpdb/onedep-io/logs"
)

type StorageI interface {
	UploadFile(ctx context.Context, file multipart.File, header *multipart.FileHeader, docType string, folderPath string) (docId string, err error)
	UploadFileB64(ctx context.Context, file []byte, fileName string, docType string, folderPath string) (docId string, err error)
	DownloadFile(ctx context.Context, folderPath string, fileName string) (file []byte, err error)
	GetAttribute(attributeName string) (attributeValue interface{}, err error)
	MakeFromJson(ctx context.Context, rj *json.RawMessage) error
	Init(ctx context.Context) error
}

type Storage struct {
	StorageType string `json:"storage_type"`
	StorageName string `json:"storage_name"`
}

func (storage *Storage) GetAttribute(attributeName string) (attributeValue interface{}, err error) {
	switch attributeName {
	case "storage_name":
		return storage.StorageName, nil
	case "storage_type":
		return storage.StorageType, nil
	default:
		return nil, errors.New("Attribute not found")
	}
}

func GetStorage(storageType string) StorageI {
	switch storageType {
	case "AWS":
		return new(AwsStorage)
	case "LOCAL":
		return new(LocalStorage)
	default:
		return nil
	}
}

func (storage *Storage) Init(ctx context.Context) (err error) {
	err = errors.New("method not implemented")
	logs.WithContext(ctx).Error(err.Error())
	return
}
