package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/segmentio/ksuid"

	logs "github.com/wwpdb/onedep-io/logs"
)

type AwsStorage struct {
	Storage
	Region         string `json:"region"`
	BucketName     string `json:"bucket_name"`
	Authentication string `json:"authentication"`
	Key            string `json:"key"`
	Secret         string `json:"secret"`
	session        *session.Session
}

func (awsStorage *AwsStorage) UploadFile(ctx context.Context, file multipart.File, header *multipart.FileHeader, docType string, folderPath string) (docId string, err error) {
	logs.WithContext(ctx).Debug("UploadFile - Start")
	byteContainer, err := io.ReadAll(file)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return
	}
	return awsStorage.UploadFileB64(ctx, byteContainer, header.Filename, docType, folderPath)
}

func (awsStorage *AwsStorage) UploadFileB64(ctx context.Context, file []byte, fileName string, docType string, folderPath string) (docId string, err error) {
	logs.WithContext(ctx).Debug("UploadFileB64 - Start")
	if awsStorage.session == nil {
		err = awsStorage.Init(ctx)
		if err != nil {
			logs.WithContext(ctx).Error(err.Error())
			return
		}
	}
	docId = ksuid.New().String()
	if docType != "" {
		docType = fmt.Sprint(docType, "_")
	}
	finalFileName := fmt.Sprint(docType, docId, "_", fileName)
	uploader := s3manager.NewUploader(awsStorage.session)
	_, err = uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(awsStorage.BucketName),
		Key:    aws.String(fmt.Sprint(folderPath, "/", finalFileName)),
		Body:   bytes.NewReader(file),
	})
	return
}

func (awsStorage *AwsStorage) DownloadFile(ctx context.Context, folderPath string, fileName string) (file []byte, err error) {
	logs.WithContext(ctx).Debug("DownloadFile - Start")
	if awsStorage.session == nil {
		err = awsStorage.Init(ctx)
		if err != nil {
			logs.WithContext(ctx).Error(err.Error())
			return
		}
	}
	downloader := s3manager.NewDownloader(awsStorage.session)
	buff := aws.NewWriteAtBuffer([]byte{})
	_, err = downloader.DownloadWithContext(ctx, buff, &s3.GetObjectInput{
		Bucket: aws.String(awsStorage.BucketName),
		Key:    aws.String(fmt.Sprint(folderPath, "/", fileName)),
	})
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return nil, err
	}
	return buff.Bytes(), nil
}

func (awsStorage *AwsStorage) Init(ctx context.Context) (err error) {
	logs.WithContext(ctx).Debug("Init - Start")
	awsConf := &aws.Config{
		Region: aws.String(awsStorage.Region),
		Credentials: credentials.NewStaticCredentials(
			awsStorage.Key,
			awsStorage.Secret,
			"",
		),
	}
	awsStorage.session, err = session.NewSession(awsConf)
	return err
}

func (awsStorage *AwsStorage) MakeFromJson(ctx context.Context, rj *json.RawMessage) error {
	logs.WithContext(ctx).Debug("MakeFromJson - Start")
	err := json.Unmarshal(*rj, &awsStorage)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
	return nil
}

func (awsStorage *AwsStorage) GetAttribute(attributeName string) (attributeValue interface{}, err error) {
	switch attributeName {
	case "region":
		return awsStorage.Region, nil
	case "bucket_name":
		return awsStorage.BucketName, nil
	default:
		return awsStorage.Storage.GetAttribute(attributeName)
	}
}
