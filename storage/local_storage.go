package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/segmentio/ksuid"

	logs "github.com/wwpdb/onedep-io/logs"
)

type LocalStorage struct {
	Storage
	BasePath string `json:"base_path"`
}

func (localStorage *LocalStorage) UploadFile(ctx context.Context, file multipart.File, header *multipart.FileHeader, docType string, folderPath string) (docId string, err error) {
	logs.WithContext(ctx).Debug("UploadFile - Start")
	byteContainer, err := io.ReadAll(file)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return
	}
	return localStorage.UploadFileB64(ctx, byteContainer, header.Filename, docType, folderPath)
}

func (localStorage *LocalStorage) UploadFileB64(ctx context.Context, file []byte, fileName string, docType string, folderPath string) (docId string, err error) {
	logs.WithContext(ctx).Debug("UploadFileB64 - Start")
	docId = ksuid.New().String()
	if docType != "" {
		docType = fmt.Sprint(docType, "_")
	}
	finalFileName := fmt.Sprint(docType, docId, "_", fileName)
	dirPath := filepath.Join(localStorage.BasePath, folderPath)
	err = os.MkdirAll(dirPath, 0755)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return "", err
	}
	finalPath := filepath.Join(dirPath, finalFileName)
	tmpPath := finalPath + ".partial"
	err = os.WriteFile(tmpPath, file, 0644)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return "", err
	}
	err = os.Rename(tmpPath, finalPath)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return "", err
	}
	return docId, nil
}

func (localStorage *LocalStorage) DownloadFile(ctx context.Context, folderPath string, fileName string) (file []byte, err error) {
	logs.WithContext(ctx).Debug("DownloadFile - Start")
	file, err = os.ReadFile(filepath.Join(localStorage.BasePath, folderPath, fileName))
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return nil, err
	}
	return file, nil
}

func (localStorage *LocalStorage) Init(ctx context.Context) (err error) {
	logs.WithContext(ctx).Debug("Init - Start")
	return os.MkdirAll(localStorage.BasePath, 0755)
}

func (localStorage *LocalStorage) MakeFromJson(ctx context.Context, rj *json.RawMessage) error {
	logs.WithContext(ctx).Debug("MakeFromJson - Start")
	err := json.Unmarshal(*rj, &localStorage)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
	return nil
}

func (localStorage *LocalStorage) GetAttribute(attributeName string) (attributeValue interface{}, err error) {
	switch attributeName {
	case "base_path":
		return localStorage.BasePath, nil
	default:
		return localStorage.Storage.GetAttribute(attributeName)
	}
}
