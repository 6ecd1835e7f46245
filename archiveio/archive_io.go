package archiveio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	logs "github.com/wwpdb/onedep-io/logs"
	"github.com/wwpdb/onedep-io/site_model"
)

// ArchiveIoI transfers files between the local repository and a remote
// archive host.
type ArchiveIoI interface {
	Connect(ctx context.Context) error
	Mkdir(ctx context.Context, dirPath string) error
	Stat(ctx context.Context, remotePath string) (os.FileInfo, error)
	Put(ctx context.Context, localPath string, remotePath string) error
	Get(ctx context.Context, remotePath string, localPath string) error
	ListDir(ctx context.Context, dirPath string) ([]string, error)
	Remove(ctx context.Context, remotePath string) error
	RmDir(ctx context.Context, dirPath string) error
	Close(ctx context.Context) error
}

// SftpArchiveIo implements ArchiveIoI over SFTP using a transfer server
// entry of the site configuration.
type SftpArchiveIo struct {
	Server  site_model.TransferServer
	Timeout time.Duration

	sshClient  *ssh.Client
	sftpClient *sftp.Client
}

func NewSftpArchiveIo(server site_model.TransferServer) *SftpArchiveIo {
	return &SftpArchiveIo{Server: server, Timeout: 30 * time.Second}
}

func (aio *SftpArchiveIo) authMethods(ctx context.Context) ([]ssh.AuthMethod, error) {
	var methods []ssh.AuthMethod
	if aio.Server.KeyFilePath != "" {
		keyBytes, err := os.ReadFile(aio.Server.KeyFilePath)
		if err != nil {
			logs.WithContext(ctx).Error(err.Error())
			return nil, err
		}
		signer, err := ssh.ParsePrivateKey(keyBytes)
		if err != nil {
			logs.WithContext(ctx).Error(err.Error())
			return nil, err
		}
		methods = append(methods, ssh.PublicKeys(signer))
	}
	if aio.Server.Password != "" {
		methods = append(methods, ssh.Password(aio.Server.Password))
	}
	if len(methods) == 0 {
		err := errors.New("transfer server has no key file or password configured")
		logs.WithContext(ctx).Error(err.Error())
		return nil, err
	}
	return methods, nil
}

func (aio *SftpArchiveIo) Connect(ctx context.Context) error {
	logs.WithContext(ctx).Debug("Connect - Start")
	methods, err := aio.authMethods(ctx)
	if err != nil {
		return err
	}
	port := aio.Server.HostPort
	if port == 0 {
		port = 22
	}
	sshConf := &ssh.ClientConfig{
		User:            aio.Server.UserName,
		Auth:            methods,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         aio.Timeout,
	}
	addr := fmt.Sprint(aio.Server.HostName, ":", port)
	aio.sshClient, err = ssh.Dial("tcp", addr, sshConf)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
	aio.sftpClient, err = sftp.NewClient(aio.sshClient)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		_ = aio.sshClient.Close()
		aio.sshClient = nil
		return err
	}
	return nil
}

func (aio *SftpArchiveIo) ensureConnected(ctx context.Context) error {
	if aio.sftpClient != nil {
		return nil
	}
	return aio.Connect(ctx)
}

func (aio *SftpArchiveIo) Mkdir(ctx context.Context, dirPath string) error {
	logs.WithContext(ctx).Debug("Mkdir - Start")
	if err := aio.ensureConnected(ctx); err != nil {
		return err
	}
	err := aio.sftpClient.MkdirAll(dirPath)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
	}
	return err
}

func (aio *SftpArchiveIo) Stat(ctx context.Context, remotePath string) (os.FileInfo, error) {
	if err := aio.ensureConnected(ctx); err != nil {
		return nil, err
	}
	return aio.sftpClient.Stat(remotePath)
}

func (aio *SftpArchiveIo) Put(ctx context.Context, localPath string, remotePath string) error {
	logs.WithContext(ctx).Debug("Put - Start")
	if err := aio.ensureConnected(ctx); err != nil {
		return err
	}
	src, err := os.Open(localPath)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
	defer src.Close()
	dst, err := aio.sftpClient.Create(remotePath)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
	defer dst.Close()
	_, err = io.Copy(dst, src)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
	}
	return err
}

func (aio *SftpArchiveIo) Get(ctx context.Context, remotePath string, localPath string) error {
	logs.WithContext(ctx).Debug("Get - Start")
	if err := aio.ensureConnected(ctx); err != nil {
		return err
	}
	src, err := aio.sftpClient.Open(remotePath)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
	defer src.Close()
	dst, err := os.Create(localPath)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
	defer dst.Close()
	_, err = io.Copy(dst, src)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
	}
	return err
}

func (aio *SftpArchiveIo) ListDir(ctx context.Context, dirPath string) ([]string, error) {
	logs.WithContext(ctx).Debug("ListDir - Start")
	if err := aio.ensureConnected(ctx); err != nil {
		return nil, err
	}
	entries, err := aio.sftpClient.ReadDir(dirPath)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

func (aio *SftpArchiveIo) Remove(ctx context.Context, remotePath string) error {
	logs.WithContext(ctx).Debug("Remove - Start")
	if err := aio.ensureConnected(ctx); err != nil {
		return err
	}
	err := aio.sftpClient.Remove(remotePath)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
	}
	return err
}

// RmDir removes a remote directory tree depth first.
func (aio *SftpArchiveIo) RmDir(ctx context.Context, dirPath string) error {
	logs.WithContext(ctx).Debug("RmDir - Start")
	if err := aio.ensureConnected(ctx); err != nil {
		return err
	}
	entries, err := aio.sftpClient.ReadDir(dirPath)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
		return err
	}
	for _, e := range entries {
		childPath := aio.sftpClient.Join(dirPath, e.Name())
		if e.IsDir() {
			if err = aio.RmDir(ctx, childPath); err != nil {
				return err
			}
		} else if err = aio.sftpClient.Remove(childPath); err != nil {
			logs.WithContext(ctx).Error(err.Error())
			return err
		}
	}
	err = aio.sftpClient.RemoveDirectory(dirPath)
	if err != nil {
		logs.WithContext(ctx).Error(err.Error())
	}
	return err
}

func (aio *SftpArchiveIo) Close(ctx context.Context) error {
	logs.WithContext(ctx).Debug("Close - Start")
	if aio.sftpClient != nil {
		_ = aio.sftpClient.Close()
		aio.sftpClient = nil
	}
	if aio.sshClient != nil {
		err := aio.sshClient.Close()
		aio.sshClient = nil
		return err
	}
	return nil
}
